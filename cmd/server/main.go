// File: cmd/server/main.go
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"

	"llmgate/internal/config"
	"llmgate/internal/engine"
	"llmgate/internal/handlers"
	"llmgate/internal/logging"
	"llmgate/internal/middleware"
	"llmgate/internal/router"
	"llmgate/internal/store"
)

func main() {
	cfg := config.Load()
	logger := logging.New("server")

	// --- Store ---
	st := store.New(cfg.DBPath, logging.New("store"))
	if err := st.Open(context.Background()); err != nil {
		log.Fatalf("FATAL: failed to open store: %v", err)
	}
	defer st.Close()

	// --- Engine ---
	// The handle starts empty when no default model is configured;
	// completion requests then fail with engine_not_ready until a
	// model is loaded.
	handle := engine.NewHandle(nil, "")
	registry := engine.NewRegistry(nil)
	if cfg.DefaultModel != "" {
		eng, err := engine.NewOpenAIEngine(&engine.Config{
			BaseURL: cfg.UpstreamBaseURL,
			APIKey:  cfg.UpstreamAPIKey,
		})
		if err != nil {
			log.Fatalf("FATAL: failed to initialize engine: %v", err)
		}
		handle.Swap(eng, cfg.DefaultModel)
		registry.Register(engine.ModelRecord{ModelID: cfg.DefaultModel})
	}

	// --- Router + Handlers ---
	rt := router.New(handle, logging.New("router"))
	completionHandler := handlers.NewCompletionHandler(st, handle, cfg.WindowMaxMessages, logging.New("completions"))
	conversationHandler := handlers.NewConversationHandler(st, handle, logging.New("conversations"))
	modelHandler := handlers.NewModelHandler(registry)
	handlers.Register(rt, completionHandler, conversationHandler, modelHandler)

	// --- Server Setup ---
	gate := middleware.NewInferenceGate(logger)

	r := mux.NewRouter()
	r.Use(middleware.CORS)
	r.Use(middleware.RecoverPanic(logger))
	r.Use(middleware.RequestLogging(logger))

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	}).Methods("GET")

	// Only completions go through the single-inference gate; unrelated
	// calls stay available while a completion is in flight.
	r.PathPrefix("/v1/chat/completions").Handler(gate.Wrap(rt))
	r.PathPrefix("/v1/").Handler(rt)

	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: r,
	}

	logger.Info("server starting", "port", cfg.ServerPort, "model", handle.ModelID())

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server startup failed: %v", err)
		}
	}()

	// --- Graceful Shutdown ---
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("shutdown error", "error", err)
	}
}
