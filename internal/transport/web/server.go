// Package web serves the browser frontend: a JSON API for chats, a
// WebSocket and an SSE endpoint streaming answers, and Prometheus metrics.
package web

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/WebRTC-Projects-Unina/Chatbot-Diritto-Europeo/internal/config"
	"github.com/WebRTC-Projects-Unina/Chatbot-Diritto-Europeo/internal/core"
	"github.com/WebRTC-Projects-Unina/Chatbot-Diritto-Europeo/internal/service/stream"
	"github.com/WebRTC-Projects-Unina/Chatbot-Diritto-Europeo/pkg/log"
)

// ChatService is what the HTTP surface needs from the chatbot.
type ChatService interface {
	NewChat() string
	Chats(ctx context.Context) ([]string, error)
	History(ctx context.Context, chatID string) ([]core.Message, error)
	Ask(ctx context.Context, chatID, question string, sink core.Sink) (stream.State, error)
}

type Server struct {
	cfg         *config.AppConfig
	chat        ChatService
	gatherer    prometheus.Gatherer
	errorPrefix string
	logger      zerolog.Logger

	upgrader websocket.Upgrader
	httpSrv  *http.Server

	// cancelled on shutdown; hijacked websocket connections are not
	// tracked by http.Server.Shutdown
	connCtx     context.Context
	cancelConns context.CancelFunc
}

func NewServer(ctx context.Context, cfg *config.AppConfig, streamCfg *config.StreamConfig, chat ChatService, gatherer prometheus.Gatherer) *Server {
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	if streamCfg == nil {
		streamCfg = config.DefaultStreamConfig()
	}

	connCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	s := &Server{
		cfg:         cfg,
		chat:        chat,
		gatherer:    gatherer,
		errorPrefix: streamCfg.ErrorPrefix,
		logger:      log.FromCtx(ctx).With().Str("component", "http").Logger(),
		connCtx:     connCtx,
		cancelConns: cancel,
	}
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     s.checkOrigin,
	}

	s.httpSrv = &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext: func(net.Listener) context.Context {
			return connCtx
		},
	}
	return s
}

// Handler returns the full middleware-wrapped router.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.Use(s.loggingMiddleware)

	r.HandleFunc("/create_chat", s.handleCreateChat).Methods(http.MethodPost)
	r.HandleFunc("/get_chats", s.handleGetChats).Methods(http.MethodGet)
	r.HandleFunc("/get_messages/{chat_id}", s.handleGetMessages).Methods(http.MethodGet)
	r.HandleFunc("/stream", s.handleSSE).Methods(http.MethodGet)
	r.HandleFunc("/ws", s.handleWS)
	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	r.PathPrefix("/").Handler(newStaticHandler(s.cfg.GetStaticPath())).Methods(http.MethodGet)

	// outside the router so preflight requests never reach method matching
	return s.corsMiddleware(r)
}

func (s *Server) Start(ctx context.Context) error {
	s.logger.Info().Str("addr", s.cfg.HTTPAddr).Msg("starting http server")

	if err := s.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.cancelConns()
	return s.httpSrv.Shutdown(ctx)
}

func (s *Server) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	return origin == "" || s.originAllowed(origin)
}

func (s *Server) originAllowed(origin string) bool {
	return s.cfg.AllowedOrigin == "*" || origin == s.cfg.AllowedOrigin
}
