// Package api exposes a session over HTTP.
package api

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"github.com/jeanpaul/tvyn/internal/catalog"
	"github.com/jeanpaul/tvyn/internal/insights"
	"github.com/jeanpaul/tvyn/internal/logger"
	"github.com/jeanpaul/tvyn/internal/session"
)

const shutdownTimeout = 5 * time.Second

// Core is what the handlers need from a session.
type Core interface {
	Handle(ctx context.Context, utterance string) (session.Turn, error)
	TopKeywords(n int) ([]insights.Keyword, error)
	Transcript() (string, bool, error)
	Products() ([]catalog.Product, error)
	Dislikes() ([]string, error)
}

func NewRouter(log *slog.Logger, core Core) http.Handler {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Recoverer)

	router.NotFound(NotFound(log))
	router.MethodNotAllowed(NotAllowed(log))

	router.Get("/healthz", Healthz())

	router.Route("/api/v1", func(v1 chi.Router) {
		v1.With(render.SetContentType(render.ContentTypeJSON)).Group(func(r chi.Router) {
			r.Post("/chat", Chat(log, core))
			r.Get("/keywords", Keywords(log, core))
			r.Get("/products", Products(log, core))
			r.Get("/dislikes", Dislikes(log, core))
		})
		v1.Get("/transcript", Transcript(log, core))
	})
	return router
}

// Serve listens on addr until ctx is cancelled, then shuts down gracefully.
func Serve(ctx context.Context, addr string, log *slog.Logger, core Core) error {
	log = log.With(logger.Module("api.server"))

	srv := &http.Server{
		Handler:           NewRouter(log, core),
		ErrorLog:          slog.NewLogLogger(log.Handler(), slog.LevelError),
		ReadHeaderTimeout: 10 * time.Second,
	}

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	log.Info("starting api server", slog.String("address", listener.Addr().String()))

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(listener) }()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Info("stopping api server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
