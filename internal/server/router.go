// Package server exposes a Dispatcher over HTTP for consoles running in
// remote mode.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/nhle/admin-console/internal/datarequest"
	"github.com/nhle/admin-console/internal/store"
	"github.com/nhle/admin-console/internal/sysnotify"
)

const maxBodyBytes = 1 << 20

// NewRouter builds the gin engine serving data requests from d.
func NewRouter(d *datarequest.Dispatcher, logger logrus.FieldLogger, token string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestLoggingMiddleware(logger))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "operations": d.Operations()})
	})

	data := r.Group("/data", BearerAuthMiddleware(token))
	data.POST("/:category/:operation", dataHandler(d))

	return r
}

func dataHandler(d *datarequest.Dispatcher) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes)
		body, err := c.GetRawData()
		if err != nil {
			c.JSON(http.StatusBadRequest, datarequest.Envelope{Error: "reading request body: " + err.Error()})
			return
		}

		var payload json.RawMessage
		if len(body) > 0 {
			payload = body
		}

		out, err := d.Dispatch(c.Request.Context(), c.Param("category"), c.Param("operation"), payload)
		if err != nil {
			c.JSON(statusFor(err), datarequest.Envelope{Error: err.Error()})
			return
		}

		env := datarequest.Envelope{}
		if out != nil {
			data, err := json.Marshal(out)
			if err != nil {
				c.JSON(http.StatusInternalServerError, datarequest.Envelope{Error: "encoding response: " + err.Error()})
				return
			}
			env.Data = data
		}
		c.JSON(http.StatusOK, env)
	}
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, sysnotify.ErrInvalidDraft):
		return http.StatusBadRequest
	case errors.Is(err, datarequest.ErrUnknownOperation), errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, context.Canceled):
		return http.StatusRequestTimeout
	default:
		return http.StatusInternalServerError
	}
}

// Server wraps an http.Server around a handler.
type Server struct {
	server *http.Server
	logger logrus.FieldLogger
}

// New creates a Server listening on addr.
func New(addr string, handler http.Handler, logger logrus.FieldLogger) *Server {
	return &Server{
		server: &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		},
		logger: logger,
	}
}

// Start serves until Shutdown is called. It returns nil after a clean
// shutdown.
func (s *Server) Start() error {
	s.logger.WithField("addr", s.server.Addr).Info("notifyd listening")
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting requests and waits for in-flight ones.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
