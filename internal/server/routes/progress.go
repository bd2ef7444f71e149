package routes

import (
	"net/http"

	"github.com/OFFIS-RIT/contingency/backend/internal/server/middleware"
	"github.com/OFFIS-RIT/contingency/backend/pkg/logger"
	"github.com/OFFIS-RIT/contingency/backend/pkg/progress"

	"github.com/labstack/echo/v4"
)

// GetProgressHandler returns the summary of a task's progress log. Unknown
// task IDs answer 404.
func GetProgressHandler(c echo.Context) error {
	app := c.(*middleware.AppContext).App
	taskID := c.Param("task_id")

	entries, err := app.Store.Progress(c.Request().Context(), taskID)
	if err != nil {
		logger.Error("[Server] Failed to read progress", "task_id", taskID, "err", err)
		return c.JSON(http.StatusInternalServerError, messageResponse{Message: "Failed to read progress"})
	}
	if len(entries) == 0 {
		return c.JSON(http.StatusNotFound, messageResponse{Message: "Task not found"})
	}

	return c.JSON(http.StatusOK, progress.Summarize(entries))
}
