package echo

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	echofw "github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/ololchike/tourpay/internal/utils/config"
)

type Server struct {
	echo   *echofw.Echo
	config *config.Config
	log    *zap.Logger
}

func NewServer(cfg *config.Config, log *zap.Logger) *Server {
	e := echofw.New()
	e.HideBanner = true
	e.HTTPErrorHandler = CustomHTTPErrorHandler(log)

	return &Server{
		echo:   e,
		config: cfg,
		log:    log,
	}
}

func (s *Server) Echo() *echofw.Echo {
	return s.echo
}

func (s *Server) Start() <-chan error {
	errC := make(chan error, 1)

	go func() {
		if err := s.echo.Start(":" + s.config.AppPort); err != nil && err != http.ErrServerClosed {
			errC <- err
		}
	}()

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)
		<-quit

		s.log.Info("shutting down server")

		ctx, cancel := context.WithTimeout(context.Background(), s.config.GracefulTimeout)
		defer cancel()

		if err := s.echo.Shutdown(ctx); err != nil {
			errC <- err
		}
		close(errC)
	}()

	s.log.Info("server started", zap.String("port", s.config.AppPort))
	return errC
}
