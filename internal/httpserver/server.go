package httpserver

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"group-verify-bot/internal/constants"
	"group-verify-bot/internal/metrics"
	"group-verify-bot/internal/models"
)

// StatsSource reports registry sizes
type StatsSource interface {
	Stats() models.RegistryStats
}

// SessionCounter reports open registrations
type SessionCounter interface {
	Count() int
}

// Server exposes health, registry stats and Prometheus metrics
type Server struct {
	server *http.Server
	logger *logrus.Logger
}

// New creates the status server
func New(addr string, stats StatsSource, sessions SessionCounter, mtr *metrics.Metrics, logger *logrus.Logger) *Server {
	return &Server{
		server: &http.Server{
			Addr:              addr,
			Handler:           NewRouter(stats, sessions, mtr),
			ReadHeaderTimeout: constants.ReadHeaderTimeout,
		},
		logger: logger,
	}
}

// NewRouter builds the gin engine serving the status endpoints
func NewRouter(stats StatsSource, sessions SessionCounter, mtr *metrics.Metrics) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	router.GET("/stats", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"registry": stats.Stats(),
			"sessions": sessions.Count(),
		})
	})

	router.GET("/metrics", gin.WrapH(mtr.Handler()))
	return router
}

// Run serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Infof("Status server listening on %s", s.server.Addr)
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
	defer cancel()

	s.logger.Info("Stopping status server")
	return s.server.Shutdown(shutdownCtx)
}
