package router

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"farmwork/entities"
	"farmwork/pkg/logging"
	"farmwork/pkg/middleware"
	"farmwork/pkg/response"
	"farmwork/pkg/validation"
)

type (
	assignmentRoutes interface {
		Create(echo.Context) error
		List(echo.Context) error
		Statistics(echo.Context) error
		ListByDate(echo.Context) error
		ListByWorker(echo.Context) error
		Payroll(echo.Context) error
		Get(echo.Context) error
		Update(echo.Context) error
		UpdateStatus(echo.Context) error
		Start(echo.Context) error
		Complete(echo.Context) error
		Cancel(echo.Context) error
		Delete(echo.Context) error
	}
	authRoutes interface {
		DevToken(echo.Context) error
		WhoAmI(echo.Context) error
	}
	healthRoutes interface{ Health(echo.Context) error }
)

// Options carries the cross-cutting pieces the route table needs.
type Options struct {
	Log logging.Logger
	// Auth authenticates /api and /whoami and sets the request principal.
	// Defaults to middleware.DevLogin.
	Auth echo.MiddlewareFunc
	// RequireOwner guards the endpoints reserved to farm owners.
	RequireOwner echo.MiddlewareFunc
	Metrics      http.Handler
	// DevToken exposes GET /devlogin.
	DevToken bool
}

func New(
	e *echo.Echo,
	asgCtrl assignmentRoutes,
	authCtrl authRoutes,
	healthCtrl healthRoutes,
	opt Options,
) *echo.Echo {
	if opt.Log == nil {
		opt.Log = logging.Nop()
	}
	if opt.Auth == nil {
		opt.Auth = middleware.DevLogin()
	}
	if opt.RequireOwner == nil {
		opt.RequireOwner = middleware.RequireRole(entities.RoleFarmOwner)
	}
	e.Validator = validation.New()
	e.HTTPErrorHandler = ErrorHandler(opt.Log)

	e.GET("/health", healthCtrl.Health)
	if opt.Metrics != nil {
		e.GET("/metrics", echo.WrapHandler(opt.Metrics))
	}
	if opt.DevToken {
		e.GET("/devlogin", authCtrl.DevToken)
	}
	e.GET("/whoami", authCtrl.WhoAmI, opt.Auth)

	owner := opt.RequireOwner
	g := e.Group("/api/v1/assignments", opt.Auth)
	g.POST("", asgCtrl.Create, owner)
	g.GET("", asgCtrl.List)
	g.GET("/statistics", asgCtrl.Statistics)
	g.GET("/by-date", asgCtrl.ListByDate)
	g.GET("/worker/:workerId", asgCtrl.ListByWorker)
	g.GET("/payroll.xlsx", asgCtrl.Payroll, owner)
	g.GET("/:id", asgCtrl.Get)
	g.PATCH("/:id", asgCtrl.Update, owner)
	g.PATCH("/:id/status", asgCtrl.UpdateStatus)
	g.POST("/:id/start", asgCtrl.Start)
	g.POST("/:id/complete", asgCtrl.Complete)
	g.POST("/:id/cancel", asgCtrl.Cancel)
	g.DELETE("/:id", asgCtrl.Delete, owner)
	return e
}

// ErrorHandler writes every handler error as the failure envelope. Server-side
// failures are logged with their real cause, which the client never sees.
func ErrorHandler(log logging.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		f := response.Describe(err, c.Request().URL.Path)
		if f.StatusCode >= http.StatusInternalServerError {
			log.Error("request failed", "method", c.Request().Method, "path", f.Path, "err", err)
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(f.StatusCode)
		} else {
			err = c.JSON(f.StatusCode, f)
		}
		if err != nil {
			log.Error("write error response", "err", err)
		}
	}
}
