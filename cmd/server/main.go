package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/coder/websocket"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/laakri/flowcanvas/backend-go/internal/config"
	"github.com/laakri/flowcanvas/backend-go/internal/metrics"
	"github.com/laakri/flowcanvas/backend-go/internal/session"
	"github.com/laakri/flowcanvas/backend-go/internal/typeid"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.Level()})))

	m := metrics.NewRegistry()
	registry := session.NewRegistry(m)

	r := mux.NewRouter()
	r.Use(recovery)
	r.Use(requestID)
	r.Use(requestLogger)

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, `{"status":"ok","sessions":%d}`, registry.Count())
	}).Methods("GET")

	r.Handle("/metrics", promhttp.HandlerFor(m.GetPrometheusRegistry(), promhttp.HandlerOpts{})).Methods("GET")

	// WebSocket endpoint: one private canvas per connection
	r.HandleFunc("/ws/canvas", func(w http.ResponseWriter, r *http.Request) {
		handleWebSocket(w, r, cfg, registry, m)
	})

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down server")
		registry.Stop()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		srv.Shutdown(shutdownCtx)
	}()

	slog.Info("server starting", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}

func handleWebSocket(w http.ResponseWriter, r *http.Request, cfg *config.Config, registry *session.Registry, m *metrics.Registry) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: cfg.Origins(),
	})
	if err != nil {
		slog.Error("websocket accept", "error", err)
		return
	}

	sessionID := typeid.NewSessionID()
	log := slog.Default().With("request_id", requestIDFrom(r.Context()))
	sess := session.NewSession(sessionID, cfg.EngineOptions(log), log, m)
	client := session.NewClient(registry, conn, sess)

	if !registry.Register(client) {
		conn.Close(websocket.StatusTryAgainLater, "server shutting down")
		return
	}

	ctx := r.Context()
	go client.WritePump(ctx)
	client.ReadPump(ctx)
}
