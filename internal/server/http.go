package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/MEERTECHLTD/ClearMind-sub001/internal/config"
	"github.com/MEERTECHLTD/ClearMind-sub001/internal/logger"
)

const (
	defaultReadHeaderTimeout = 10 * time.Second
	shutdownTimeout          = 15 * time.Second
)

type httpServer struct {
	server *http.Server

	// cancelBase ends the base context of every request, which is how
	// hijacked subscription sockets learn about shutdown.
	cancelBase context.CancelFunc

	logger *logger.Logger
}

func newHTTPServer(handler http.Handler, cfg config.Server, logger *logger.Logger) *httpServer {
	readHeaderTimeout := cfg.RequestTimeout
	if readHeaderTimeout <= 0 {
		readHeaderTimeout = defaultReadHeaderTimeout
	}

	baseCtx, cancel := context.WithCancel(context.Background())

	return &httpServer{
		server: &http.Server{
			Addr:              cfg.HTTPAddress,
			Handler:           handler,
			ReadHeaderTimeout: readHeaderTimeout,
			BaseContext:       func(net.Listener) context.Context { return baseCtx },
		},
		cancelBase: cancel,
		logger:     logger,
	}
}

func (h *httpServer) RunServer() {
	listener, err := net.Listen("tcp", h.server.Addr)
	if err != nil {
		h.logger.Error().Err(err).Str("addr", h.server.Addr).Msg("HTTP server listen")
		return
	}
	h.serve(listener)
}

func (h *httpServer) serve(listener net.Listener) {
	h.logger.Info().Str("addr", listener.Addr().String()).Msg("HTTP server listening")
	if err := h.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		h.logger.Error().Err(err).Msg("HTTP server Serve")
	}
}

func (h *httpServer) Shutdown() {
	h.cancelBase()

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := h.server.Shutdown(ctx); err != nil {
		// ошибки закрытия Listener
		h.logger.Error().Err(err).Msg("HTTP server Shutdown")
	}
}
