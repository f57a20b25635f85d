package transport

import (
	"chat-relay/contract"
	"chat-relay/errors"
	"chat-relay/observability"
	"chat-relay/services"
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/rs/cors"
	"github.com/samber/lo"
)

type Options struct {
	ConnectionBufferSize int
	MaxFrameBytes        int64
	PongWait             time.Duration
	WriteWait            time.Duration
	OriginPatterns       []string
}

type StatsSource interface {
	Snapshot() observability.Snapshot
}

// Server exposes the relay over WebSocket and the history over HTTP.
type Server struct {
	log         *slog.Logger
	relay       contract.IRelay
	history     contract.IHistoryService
	stats       StatsSource
	origins     *OriginMatcher
	upgrader    websocket.Upgrader
	options     Options
	mu          sync.Mutex
	connections map[string]*Connection
}

func NewServer(log *slog.Logger, relay contract.IRelay, history contract.IHistoryService,
	stats StatsSource, options Options) (*Server, error) {
	origins, err := NewOriginMatcher(options.OriginPatterns)
	if err != nil {
		return nil, err
	}
	s := &Server{
		log:         log,
		relay:       relay,
		history:     history,
		stats:       stats,
		origins:     origins,
		options:     options,
		connections: make(map[string]*Connection),
	}
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  4096,
		WriteBufferSize: 4096,
		CheckOrigin:     s.checkOrigin,
	}
	return s, nil
}

func (s *Server) Router() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/ws", s.HandleWebSocket).Methods(http.MethodGet)
	r.HandleFunc("/health", s.HandleHealth).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.Use(s.cors().Handler)
	api.HandleFunc("/messages", s.HandleMessages).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/stats", s.HandleStats).Methods(http.MethodGet, http.MethodOptions)
	return r
}

func (s *Server) cors() *cors.Cors {
	return cors.New(cors.Options{
		AllowOriginFunc: s.origins.Allowed,
		AllowedMethods: []string{
			http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions,
		},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
		MaxAge:           3600,
	})
}

// checkOrigin lets non-browser clients in, they send no Origin header.
func (s *Server) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	if !s.origins.Allowed(origin) {
		s.log.Warn("Origin rejected", "origin", origin, "remote", r.RemoteAddr)
		return false
	}
	return true
}

// HandleWebSocket serves one client for the lifetime of its connection.
func (s *Server) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	ws, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("Upgrade error", "remote", r.RemoteAddr, "error", err)
		return
	}

	conn := newConnection(uuid.NewString(), ws, s.log, s.options)
	s.track(conn)
	defer s.untrack(conn.ID())

	s.relay.OnConnect(conn.ID(), conn)
	go conn.writePump()
	conn.readPump(r.Context(), s.relay)
	conn.Close()

	// The request context may be gone already, the leave notice must still go out
	ctx, cancel := context.WithTimeout(context.WithoutCancel(r.Context()), s.options.WriteWait)
	defer cancel()
	s.relay.OnDisconnect(ctx, conn.ID())
}

// HandleMessages serves GET /api/messages?limit=N, oldest message first.
func (s *Server) HandleMessages(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	limit := services.DefaultHistoryLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeProblem(w, http.StatusBadRequest, "Invalid limit", errors.ErrInvalidLimit.Error())
			return
		}
		limit = n
	}

	messages, err := s.history.GetRecentMessages(r.Context(), limit)
	if err != nil {
		s.log.Error("History query failed", "limit", limit, "error", err)
		writeProblem(w, http.StatusInternalServerError, "History unavailable", "message history could not be loaded")
		return
	}
	writeJSON(w, http.StatusOK, messages)
}

func (s *Server) HandleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, s.stats.Snapshot())
}

func (s *Server) HandleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// CloseAll drops every open connection, http.Server.Shutdown leaves hijacked ones alone.
func (s *Server) CloseAll() {
	s.mu.Lock()
	connections := lo.Values(s.connections)
	s.mu.Unlock()

	s.log.Info("Closing websocket connections", "count", len(connections))
	for _, conn := range connections {
		conn.Close()
	}
}

func (s *Server) track(conn *Connection) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.connections[conn.ID()] = conn
}

func (s *Server) untrack(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.connections, id)
}
