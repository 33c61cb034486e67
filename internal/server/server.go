// Package server runs the WebSocket front end: connection lifecycle,
// client pumps and the wiring between handlers, rooms and sessions.
package server

import (
	"context"
	"fmt"
	"net/http"
	"runtime"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/dillonco/RobertaRoyale/internal/config"
	"github.com/dillonco/RobertaRoyale/internal/game/room"
	"github.com/dillonco/RobertaRoyale/internal/server/handler"
	"github.com/dillonco/RobertaRoyale/internal/server/session"
	"github.com/dillonco/RobertaRoyale/internal/server/storage"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Server is the WebSocket game server.
type Server struct {
	config         *config.Config
	redis          *redis.Client // nil when Redis is disabled
	redisStore     *storage.RedisStore
	roomManager    *room.Manager
	sessionManager *session.Manager
	handler        *handler.Handler
	log            *logrus.Entry

	clients   map[string]*Client
	clientsMu sync.RWMutex
}

// NewServer wires the server together. Redis is optional: an empty
// redis.addr runs everything in memory.
func NewServer(cfg *config.Config) (*Server, error) {
	s := &Server{
		config:  cfg,
		clients: make(map[string]*Client),
		log:     logrus.WithField("component", "server"),
	}

	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := rdb.Ping(ctx).Err(); err != nil {
			return nil, fmt.Errorf("redis connect: %w", err)
		}
		s.redis = rdb
		s.redisStore = storage.NewRedisStore(rdb)
	}

	s.sessionManager = session.NewManager(s.redisStore)
	s.roomManager = room.NewManager(s.redisStore, cfg.Game)

	if s.redisStore != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.roomManager.RecoverRooms(ctx)
	}

	s.handler = handler.NewHandler(handler.HandlerDeps{
		Server:         s,
		RoomManager:    s.roomManager,
		SessionManager: s.sessionManager,
	})

	return s, nil
}

// Start serves WebSocket and health endpoints until the listener fails.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/health", s.handleHealth)

	go s.monitorStats()

	s.log.WithFields(logrus.Fields{"addr": addr, "cpus": runtime.NumCPU()}).Info("server listening")
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return srv.ListenAndServe()
}

// monitorStats logs periodic server vitals.
func (s *Server) monitorStats() {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for range ticker.C {
		var m runtime.MemStats
		runtime.ReadMemStats(&m)

		s.log.WithFields(logrus.Fields{
			"online":     s.GetOnlineCount(),
			"rooms":      s.roomManager.RoomCount(),
			"goroutines": runtime.NumGoroutine(),
			"alloc_mb":   fmt.Sprintf("%.2f", float64(m.Alloc)/1024/1024),
		}).Info("server stats")
	}
}

// Shutdown closes every client connection and the Redis link.
func (s *Server) Shutdown() {
	s.clientsMu.Lock()
	for _, client := range s.clients {
		client.Close()
	}
	s.clientsMu.Unlock()

	s.roomManager.Stop()
	s.sessionManager.Stop()

	if s.redis != nil {
		_ = s.redis.Close()
	}
	s.log.Info("server stopped")
}
