package devserver

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

type Options struct {
	Address  string
	Secret   string
	TokenTTL time.Duration
	Logger   *zap.Logger
}

// Server is a local implementation of the admin REST API and its auth
// provider, backed by Store.
type Server struct {
	opts  Options
	store *Store
	log   *zap.Logger
	app   *echo.Echo
}

var _ http.Handler = (*Server)(nil)

func NewServer(store *Store, opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.TokenTTL <= 0 {
		opts.TokenTTL = defaultTokenTTL
	}
	s := &Server{opts: opts, store: store, log: opts.Logger, app: echo.New()}
	s.setup()
	return s
}

func (s *Server) setup() {
	s.app.HideBanner = true
	s.app.HidePort = true
	s.app.HTTPErrorHandler = newHTTPErrorHandler(s.log)

	s.app.Pre(middleware.RemoveTrailingSlash())
	s.app.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{Generator: uuid.NewString}))
	s.app.Use(s.requestLogger)
	s.app.Use(middleware.Recover())

	s.app.GET("/healthz", func(c echo.Context) error { return c.String(http.StatusOK, "ok") })
	s.app.POST("/auth/token", s.handleToken)

	admin := s.app.Group("/api/admin", s.requireBearer)
	admin.GET("/me", s.handleMe)

	admin.GET("/courses", s.handleListCourses)
	admin.POST("/courses", s.handleCreateCourse)
	admin.GET("/courses/:id", s.handleGetCourse)
	admin.PUT("/courses/:id", s.handleUpdateCourse)
	admin.DELETE("/courses/:id", s.handleDeleteCourse)

	admin.GET("/courses/:id/sections", s.handleListSections)
	admin.POST("/courses/:id/sections", s.handleCreateSection)
	admin.PUT("/sections/:id", s.handleUpdateSection)
	admin.DELETE("/sections/:id", s.handleDeleteSection)

	admin.GET("/sections/:id/content", s.handleListContents)
	admin.POST("/sections/:id/content", s.handleCreateContent)
	admin.GET("/content/:id", s.handleGetContent)
	admin.PUT("/content/:id", s.handleUpdateContent)
	admin.DELETE("/content/:id", s.handleDeleteContent)

	admin.PUT("/sort-order", s.handleSortOrder)

	admin.GET("/enrollments", s.handleListEnrollments)
	admin.GET("/enrollments/:id", s.handleGetEnrollment)

	admin.GET("/users", s.handleListUsers)
	admin.GET("/users/:id", s.handleGetUser)
	admin.PUT("/users/:id", s.handleUpdateUser)
}

// requestLogger logs one line per request through zap.
func (s *Server) requestLogger(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		err := next(c)
		if err != nil {
			// Let the error handler write the status before it is logged.
			c.Error(err)
		}
		s.log.Info("request",
			zap.String("method", c.Request().Method),
			zap.String("path", c.Request().URL.Path),
			zap.Int("status", c.Response().Status),
			zap.Duration("latency", time.Since(start)),
			zap.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
		)
		return nil
	}
}

// Start serves on Options.Address until Shutdown.
func (s *Server) Start() error {
	s.log.Info("devserver listening", zap.String("addr", s.opts.Address))
	if err := s.app.Start(s.opts.Address); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.app.ServeHTTP(w, r)
}
