// Package server wires the HTTP surface of the task service.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"taskpad/internal/auth"
	"taskpad/internal/service"
)

// Server owns the router and the listener lifecycle.
type Server struct {
	addr   string
	router *gin.Engine
	log    *logrus.Logger
}

func New(addr string, svc *service.TaskService, tokens *auth.Manager, log *logrus.Logger) *Server {
	router := gin.New()
	router.Use(gin.Recovery(), RequestLogger(log))

	handler := NewTaskHandler(svc, log)
	authRequired := RequireAuth(tokens, log)

	api := router.Group("/api")
	{
		api.GET("/tasks", handler.List)
		api.GET("/tasks/:id", handler.Get)
		api.POST("/tasks", authRequired, handler.Create)
		api.PUT("/tasks", authRequired, handler.Update)
		api.PATCH("/tasks/:id", authRequired, handler.SetCompleted)
		api.DELETE("/tasks/:id", authRequired, handler.Delete)
	}

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return &Server{addr: addr, router: router, log: log}
}

// Router exposes the handler tree, mainly for tests.
func (s *Server) Router() http.Handler {
	return s.router
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.WithField("addr", s.addr).Info("starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
