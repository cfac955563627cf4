// Package httpserver exposes the authentication service over HTTP/JSON using gin.
package httpserver

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/authkeeper/internal/logging"
	"github.com/dmitrijs2005/authkeeper/internal/server/services"
	"github.com/gin-gonic/gin"
)

const shutdownTimeout = 10 * time.Second

// AuthService is the subset of services.UserService the transport needs.
type AuthService interface {
	Signup(ctx context.Context, email, password string) error
	Login(ctx context.Context, email, password string) (string, error)
	Authenticate(ctx context.Context, token string) (*services.Identity, error)
	Logout(ctx context.Context, id *services.Identity) error
}

type HTTPServer struct {
	address string
	users   AuthService
	logger  logging.Logger
	engine  *gin.Engine
}

// NewHTTPServer builds the router; mode is a gin mode ("debug", "release", "test").
func NewHTTPServer(address string, l logging.Logger, us AuthService, mode string) *HTTPServer {
	if mode != "" {
		gin.SetMode(mode)
	}

	s := &HTTPServer{
		address: address,
		users:   us,
		logger:  l.With("module", "http_server"),
	}
	s.engine = s.routes()
	return s
}

func (s *HTTPServer) routes() *gin.Engine {
	r := gin.New()
	r.Use(requestID(), s.accessLog(), s.recovery())

	r.POST("/signup", s.signup)
	r.POST("/login", s.login)

	protected := r.Group("")
	protected.Use(s.authRequired())
	protected.POST("/logout", s.logout)
	protected.GET("/me", s.me)

	return r
}

// Handler returns the router, mostly for tests.
func (s *HTTPServer) Handler() http.Handler {
	return s.engine
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *HTTPServer) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.address,
		Handler:           s.engine,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "HTTP shutdown error", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
