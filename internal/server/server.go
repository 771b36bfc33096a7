// Package server serves the stat board over HTTP: an HTML page, a JSON API
// and a WebSocket feed of slot updates.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/ziadkadry99/statboard/internal/display"
	"github.com/ziadkadry99/statboard/internal/events"
	"github.com/ziadkadry99/statboard/internal/refresh"
)

// Config holds server configuration.
type Config struct {
	Port     int
	AllowAll bool // allow all CORS origins (dev mode)
	Page     display.Page
}

// Server exposes a refresh.Service over HTTP.
type Server struct {
	cfg        Config
	svc        *refresh.Service
	hub        *Hub
	router     chi.Router
	httpServer *http.Server
}

// New creates a server for svc. When bus is non-nil, outcomes published on
// it are pushed to WebSocket clients.
func New(cfg Config, svc *refresh.Service, bus *events.Bus) *Server {
	s := &Server{
		cfg: cfg,
		svc: svc,
		hub: NewHub(),
	}
	if bus != nil {
		events.On(bus, events.TopicOutcome, func(_ context.Context, u refresh.Update) {
			s.hub.Broadcast(newLiveMessage(u))
		})
	} else {
		s.cfg.Page.LivePath = ""
	}

	s.router = s.buildRouter()
	return s
}

func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	corsOpts := cors.Options{
		AllowedOrigins:   []string{"http://localhost:*", "http://127.0.0.1:*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}
	if s.cfg.AllowAll {
		corsOpts.AllowedOrigins = []string{"*"}
	}
	r.Use(cors.Handler(corsOpts))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	// The WebSocket route is registered outside the timeout middleware.
	r.Get("/ws", s.hub.ServeWS)

	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(60 * time.Second))
		r.Get("/", s.handleIndex)
		r.Route("/api/stats", func(r chi.Router) {
			r.Get("/", s.handleStats)
			r.Post("/refresh", s.handleRefresh)
			r.Get("/{source}", s.handleSource)
		})
	})

	return r
}

// Router returns the chi router.
func (s *Server) Router() chi.Router { return s.router }

// Hub returns the WebSocket hub.
func (s *Server) Hub() *Hub { return s.hub }

// Start begins listening on the configured port.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.cfg.Port)
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	slog.Info("statboard server listening", "addr", addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown closes WebSocket clients and gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.hub.Close()
	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}
