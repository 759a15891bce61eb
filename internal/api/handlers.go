package api

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"github.com/jeanpaul/tvyn/internal/insights"
	"github.com/jeanpaul/tvyn/internal/logger"
	"github.com/jeanpaul/tvyn/internal/session"
)

const transcriptFilename = "chat_log.txt"

func requestLogger(log *slog.Logger, r *http.Request, module string) *slog.Logger {
	return log.With(
		logger.Module(module),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)
}

func Chat(log *slog.Logger, core Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		reqLog := requestLogger(log, r, "http.handlers.chat")

		var req ChatRequest
		if err := render.Bind(r, &req); err != nil {
			reqLog.Debug("invalid chat request", logger.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, Error("message is required"))
			return
		}

		turn, err := core.Handle(r.Context(), req.Message)
		if err != nil {
			if errors.Is(err, session.ErrEmptyUtterance) {
				render.Status(r, http.StatusBadRequest)
				render.JSON(w, r, Error("message is required"))
				return
			}
			reqLog.Error("handle turn", logger.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, Error("turn failed"))
			return
		}
		reqLog.Debug("turn", slog.String("intent", string(turn.Intent)))

		render.JSON(w, r, Ok(turn))
	}
}

func Keywords(log *slog.Logger, core Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		reqLog := requestLogger(log, r, "http.handlers.keywords")

		n := 0
		if raw := r.URL.Query().Get("n"); raw != "" {
			v, err := strconv.Atoi(raw)
			if err != nil || v < 1 {
				render.Status(r, http.StatusBadRequest)
				render.JSON(w, r, Error("n must be a positive integer"))
				return
			}
			n = v
		}

		top, err := core.TopKeywords(n)
		if err != nil {
			reqLog.Error("top keywords", logger.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, Error("keyword analysis failed"))
			return
		}
		if top == nil {
			top = []insights.Keyword{}
		}
		render.JSON(w, r, Ok(top))
	}
}

func Products(log *slog.Logger, core Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		products, err := core.Products()
		if err != nil {
			requestLogger(log, r, "http.handlers.products").Error("load catalog", logger.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, Error("catalog unavailable"))
			return
		}
		render.JSON(w, r, Ok(products))
	}
}

func Dislikes(log *slog.Logger, core Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		names, err := core.Dislikes()
		if err != nil {
			requestLogger(log, r, "http.handlers.dislikes").Error("load dislikes", logger.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, Error("dislikes unavailable"))
			return
		}
		if names == nil {
			names = []string{}
		}
		render.JSON(w, r, Ok(names))
	}
}

// Transcript serves the raw log as a download.
func Transcript(log *slog.Logger, core Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		text, ok, err := core.Transcript()
		if err != nil {
			requestLogger(log, r, "http.handlers.transcript").Error("read transcript", logger.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, Error("transcript unavailable"))
			return
		}
		if !ok {
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, Error("no transcript yet"))
			return
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="`+transcriptFilename+`"`)
		w.WriteHeader(http.StatusOK)
		_, _ = io.WriteString(w, text)
	}
}

func Healthz() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, r, Ok("ok"))
	}
}

func NotFound(_ *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, Error("Requested resource not found"))
	}
}

func NotAllowed(_ *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		render.Status(r, http.StatusMethodNotAllowed)
		render.JSON(w, r, Error("Method not allowed"))
	}
}
