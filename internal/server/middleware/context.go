package middleware

import (
	"context"

	"github.com/OFFIS-RIT/contingency/backend/internal/queue"
	"github.com/OFFIS-RIT/contingency/backend/pkg/store"

	"github.com/labstack/echo/v4"
)

// DownloadLinker hands out short-lived links to exported analyses.
type DownloadLinker interface {
	GenerateDownloadLink(ctx context.Context, uuid string) (string, error)
}

// App holds the dependencies shared by every request. Downloads may be nil,
// in which case documents are served from Store.
type App struct {
	Store     store.AnalysisStorage
	Queue     queue.Publisher
	Downloads DownloadLinker
}

type AppContext struct {
	echo.Context
	App *App
}

func AppContextMiddleware(app *App) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cc := &AppContext{c, app}
			return next(cc)
		}
	}
}
