package echoapi

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/maktab-app/maktab/apps/api/echo/handlers"
	"github.com/maktab-app/maktab/apps/api/echo/helpers"
	"github.com/maktab-app/maktab/core"
	"github.com/maktab-app/maktab/core/author"
	"github.com/maktab-app/maktab/core/billing"
	"github.com/maktab-app/maktab/core/forum"
	quransvc "github.com/maktab-app/maktab/services/quran"
	tajweedsvc "github.com/maktab-app/maktab/services/tajweed"
)

type (
	Server interface {
		http.Handler
		Start()
		Shutdown(ctx context.Context) error
		Close() error
		Errors() <-chan error
		ShutdownSignal() <-chan os.Signal
	}

	ServerDeps struct {
		Conf   *core.Config
		Logger core.Logger

		Directory     author.Directory
		ForumSvc      *forum.Service
		BillingSvc    *billing.Service
		QuranClient   *quransvc.Client
		TajweedScorer *tajweedsvc.Scorer
		Notifier      core.Notifier

		Validate   *validator.Validate
		Translator ut.Translator
	}

	server struct {
		deps ServerDeps
		app  *echo.Echo

		errs     chan error
		shutdown chan os.Signal
	}
)

var _ Server = (*server)(nil)

func NewServer(deps ServerDeps) Server {
	s := &server{
		deps:     deps,
		app:      echo.New(),
		errs:     make(chan error, 1),
		shutdown: make(chan os.Signal, 1),
	}
	signal.Notify(s.shutdown, os.Interrupt, syscall.SIGTERM)
	s.setup()
	return s
}

func (s *server) setup() {
	conf := s.deps.Conf

	s.app.Debug = conf.Debug
	s.app.HideBanner = true
	s.app.HTTPErrorHandler = helpers.NewAppHTTPErrorHandler(s.deps.Logger, s.deps.Translator, s.signalShutdown)

	// middleware
	s.app.Pre(middleware.RemoveTrailingSlash())
	if !conf.TestMode {
		s.app.Use(middleware.Logger())
	}
	if !(conf.Debug || conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}

	s.app.GET("/", s.home)

	v1 := s.app.Group("/v1")
	jwt := helpers.ConfigureAuth(conf)
	handlers.RegisterAuthAPI(v1, s.deps.Directory, s.deps.Validate)
	handlers.RegisterForumAPI(v1, jwt, s.deps.ForumSvc, s.deps.Notifier, s.deps.Validate)
	handlers.RegisterBillingAPI(v1, jwt, s.deps.BillingSvc, s.deps.Notifier, s.deps.Validate)
	handlers.RegisterQuranAPI(v1, s.deps.QuranClient)
	handlers.RegisterTajweedAPI(v1, jwt, s.deps.TajweedScorer, s.deps.Validate)
}

func (s *server) home(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, echo.Map{
		"app":   s.deps.Conf.AppName,
		"build": s.deps.Conf.Build,
	})
}

func (s *server) signalShutdown() {
	s.shutdown <- syscall.SIGTERM
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.app.ServeHTTP(w, r)
}

func (s *server) Start() {
	s.deps.Logger.Info("api server listening on " + s.deps.Conf.Server.Addr)
	if err := s.app.Start(s.deps.Conf.Server.Addr); err != nil && err != http.ErrServerClosed {
		s.errs <- err
	}
}

func (s *server) Shutdown(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *server) Close() error {
	return s.app.Close()
}

func (s *server) Errors() <-chan error {
	return s.errs
}

func (s *server) ShutdownSignal() <-chan os.Signal {
	return s.shutdown
}
