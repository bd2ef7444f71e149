package routes

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/OFFIS-RIT/contingency/backend/internal/queue"
	"github.com/OFFIS-RIT/contingency/backend/internal/server/middleware"
	"github.com/OFFIS-RIT/contingency/backend/pkg/logger"
	"github.com/OFFIS-RIT/contingency/backend/pkg/progress"
	"github.com/OFFIS-RIT/contingency/backend/pkg/store"

	"github.com/labstack/echo/v4"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

type messageResponse struct {
	Message string `json:"message"`
}

// CreateAnalysisHandler queues an analysis of an inline narrative or of a
// web page and answers with the task ID to poll.
func CreateAnalysisHandler(c echo.Context) error {
	type createAnalysisBody struct {
		Name string `json:"name" validate:"required,max=200"`
		Text string `json:"text" validate:"required_without=URL"`
		URL  string `json:"url" validate:"omitempty,url"`
	}

	type createAnalysisResponse struct {
		TaskID string `json:"task_id"`
	}

	data := new(createAnalysisBody)
	if err := c.Bind(data); err != nil {
		return c.JSON(http.StatusBadRequest, messageResponse{Message: "Invalid request body"})
	}
	if err := c.Validate(data); err != nil {
		return c.JSON(http.StatusBadRequest, messageResponse{Message: "Invalid request body"})
	}
	if data.Text != "" && data.URL != "" {
		return c.JSON(http.StatusBadRequest, messageResponse{Message: "Provide either text or url, not both"})
	}

	taskID, err := gonanoid.New()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, messageResponse{Message: "Failed to create task"})
	}

	app := c.(*middleware.AppContext).App
	ctx := c.Request().Context()

	err = app.Store.AppendProgress(ctx, progress.Entry{
		TaskID:   taskID,
		Message:  "Analysis queued",
		Severity: progress.SeverityInfo,
		Status:   progress.StatusRunning,
	})
	if err != nil {
		logger.Error("[Server] Failed to record queued analysis", "task_id", taskID, "err", err)
		return c.JSON(http.StatusInternalServerError, messageResponse{Message: "Failed to queue analysis"})
	}

	msg, err := json.Marshal(queue.AnalysisJob{
		TaskID: taskID,
		Name:   data.Name,
		Text:   data.Text,
		URL:    data.URL,
	})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, messageResponse{Message: "Failed to queue analysis"})
	}
	if err := queue.PublishFIFO(ctx, app.Queue, queue.AnalysisQueue, msg); err != nil {
		logger.Error("[Server] Failed to publish analysis job", "task_id", taskID, "err", err)
		return c.JSON(http.StatusInternalServerError, messageResponse{Message: "Failed to queue analysis"})
	}

	logger.Info("[Server] Analysis queued", "task_id", taskID, "name", data.Name)
	return c.JSON(http.StatusAccepted, createAnalysisResponse{TaskID: taskID})
}

func GetAnalysesHandler(c echo.Context) error {
	app := c.(*middleware.AppContext).App

	analyses, err := app.Store.ListAnalyses(c.Request().Context())
	if err != nil {
		logger.Error("[Server] Failed to list analyses", "err", err)
		return c.JSON(http.StatusInternalServerError, messageResponse{Message: "Failed to list analyses"})
	}
	return c.JSON(http.StatusOK, analyses)
}

// GetAnalysisHandler returns the stored document as is.
func GetAnalysisHandler(c echo.Context) error {
	app := c.(*middleware.AppContext).App

	a, err := app.Store.GetAnalysis(c.Request().Context(), c.Param("id"))
	if errors.Is(err, store.ErrNotFound) {
		return c.JSON(http.StatusNotFound, messageResponse{Message: "Analysis not found"})
	}
	if err != nil {
		logger.Error("[Server] Failed to load analysis", "id", c.Param("id"), "err", err)
		return c.JSON(http.StatusInternalServerError, messageResponse{Message: "Failed to load analysis"})
	}
	return c.Blob(http.StatusOK, echo.MIMEApplicationJSONCharsetUTF8, []byte(a.Data))
}

// DownloadAnalysisHandler redirects to a presigned link when exports are
// configured and otherwise serves the document as an attachment.
func DownloadAnalysisHandler(c echo.Context) error {
	app := c.(*middleware.AppContext).App
	ctx := c.Request().Context()
	id := c.Param("id")

	a, err := app.Store.GetAnalysis(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return c.JSON(http.StatusNotFound, messageResponse{Message: "Analysis not found"})
	}
	if err != nil {
		logger.Error("[Server] Failed to load analysis", "id", id, "err", err)
		return c.JSON(http.StatusInternalServerError, messageResponse{Message: "Failed to load analysis"})
	}

	if app.Downloads != nil {
		link, err := app.Downloads.GenerateDownloadLink(ctx, a.UUID)
		if err == nil {
			return c.Redirect(http.StatusFound, link)
		}
		logger.Warn("[Server] Failed to generate download link, serving from store", "id", id, "err", err)
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+a.UUID+`.json"`)
	return c.Blob(http.StatusOK, echo.MIMEApplicationJSONCharsetUTF8, []byte(a.Data))
}
