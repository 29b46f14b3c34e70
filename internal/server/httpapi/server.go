// Package httpapi is the thin HTTP adapter over the account and filesystem
// services. It does routing, cookie handling and error mapping; all
// behavior lives in the services it wraps.
package httpapi

import (
	"context"
	"errors"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/dmitrijs2005/homedrive/internal/logging"
	"github.com/dmitrijs2005/homedrive/internal/server/config"
	"github.com/dmitrijs2005/homedrive/internal/server/services"
	"github.com/gin-gonic/gin"
)

type Server struct {
	address     string
	logger      logging.Logger
	accounts    *services.AccountService
	filesystem  *services.FilesystemService
	secret      []byte
	secure      bool
	idleTimeout time.Duration
	grace       time.Duration

	mu        sync.Mutex
	boundAddr string

	engine *gin.Engine
}

func NewServer(cfg *config.Config, l logging.Logger, as *services.AccountService, fs *services.FilesystemService) *Server {
	s := &Server{
		address:     cfg.EndpointAddr,
		logger:      l.With("module", "http_server"),
		accounts:    as,
		filesystem:  fs,
		secret:      []byte(cfg.SessionSecret),
		secure:      cfg.SecureCookies,
		idleTimeout: cfg.SessionIdleTimeout,
		grace:       cfg.ShutdownGracePeriod,
	}

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery(), s.requestLogger())

	api := engine.Group("/api")
	{
		// account apis
		api.POST("/claimaccount", s.claimAccount)
		api.POST("/checkclaimcode", s.checkClaimCode)
		api.POST("/getusersalt", s.getUserSalt)
		api.POST("/login", s.login)
		api.POST("/logout", s.logout)
		api.GET("/getsessioninfo", s.sessionAuth(), s.getSessionInfo)

		// filesystem apis
		api.GET("/getstorageused", s.sessionAuth(), s.getStorageUsed)
		api.POST("/getfilesystem", s.sessionAuth(), s.getFilesystem)
		api.POST("/createfolder", s.sessionAuth(), s.createFolder)
		api.POST("/createfile", s.sessionAuth(), s.createFile)
		api.POST("/renameentry", s.sessionAuth(), s.renameEntry)
		api.POST("/deleteentry", s.sessionAuth(), s.deleteEntry)
	}

	s.engine = engine
	return s
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Info(c.Request.Context(), "request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start).String(),
		)
	}
}

// Run serves until the context is cancelled, then shuts down gracefully:
// the listener stops admitting connections, in-flight requests get the
// configured grace period, and only then does Run return. The caller may
// close the store once Run has returned, never earlier.
func (s *Server) Run(ctx context.Context) error {

	ln, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.boundAddr = ln.Addr().String()
	s.mu.Unlock()

	srv := &http.Server{
		Handler: s.engine,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.grace)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "forced shutdown", "error", err.Error())
			_ = srv.Close()
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.boundAddr)

	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

// Addr reports the bound listen address once Run has started serving, or
// an empty string before that. Useful when the configured address leaves
// the port to the OS.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.boundAddr
}
