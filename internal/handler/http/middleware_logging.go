package http

import (
	"net/http"
	"time"

	"github.com/MEERTECHLTD/ClearMind-sub001/internal/logger"
)

func (h *Handler) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromRequest(r)

		start := time.Now()
		uri := r.RequestURI
		method := r.Method

		lw := &responseWriter{
			ResponseWriter: w,
		}

		next.ServeHTTP(lw, r)

		event := log.Info()
		if lw.hijacked {
			// websocket sessions are logged when they end
			event = log.Debug()
		}

		event.
			Str("uri", uri).
			Str("method", method).
			Int("status", lw.status).
			Dur("duration", time.Since(start)).
			Int("size", lw.size).
			Bool("hijacked", lw.hijacked).
			Send()
	})
}
