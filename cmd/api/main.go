package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/dvloznov/finview/internal/api/handlers"
	"github.com/dvloznov/finview/internal/api/middleware"
	"github.com/dvloznov/finview/internal/ingest"
	"github.com/dvloznov/finview/internal/insights"
	"github.com/dvloznov/finview/internal/logger"
	"github.com/dvloznov/finview/internal/session"
)

func main() {
	// Optional .env for local development; real deployments set the
	// environment directly.
	_ = godotenv.Load()

	var (
		port  = flag.String("port", "8080", "HTTP server port")
		model = flag.String("model", os.Getenv("FINVIEW_MODEL"), "Gemini model for insight generation (or set FINVIEW_MODEL env)")
	)
	flag.Parse()

	log := logger.New()

	store := session.NewStore()
	parser := ingest.NewParser(logger.WithComponent(log, "ingest"))
	insightSvc := insights.NewService(
		insights.NewGeminiGenerator(*model),
		logger.WithComponent(log, "insights"),
	)

	analysisHandler := handlers.NewAnalysisHandler(store, parser, insightSvc, log)

	// Create router
	mux := http.NewServeMux()

	mux.HandleFunc("/api/sessions", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			analysisHandler.Upload(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/sessions/", func(w http.ResponseWriter, r *http.Request) {
		rest := strings.TrimPrefix(r.URL.Path, "/api/sessions/")
		sessionID, sub, _ := strings.Cut(rest, "/")
		if sessionID == "" {
			middleware.WriteError(w, http.StatusBadRequest, "Session ID is required")
			return
		}

		switch {
		case sub == "" && r.Method == http.MethodGet:
			analysisHandler.GetSession(w, r, sessionID)
		case sub == "" && r.Method == http.MethodPost:
			analysisHandler.ReUpload(w, r, sessionID)
		case sub == "" && r.Method == http.MethodDelete:
			analysisHandler.Reset(w, r, sessionID)
		case sub == "summary" && r.Method == http.MethodGet:
			analysisHandler.Summary(w, r, sessionID)
		case sub == "categories" && r.Method == http.MethodGet:
			analysisHandler.Categories(w, r, sessionID)
		case sub == "spending/by-category" && r.Method == http.MethodGet:
			analysisHandler.SpendingByCategory(w, r, sessionID)
		case sub == "spending/daily" && r.Method == http.MethodGet:
			analysisHandler.SpendingDaily(w, r, sessionID)
		case sub == "insights" && r.Method == http.MethodGet:
			analysisHandler.Insights(w, r, sessionID)
		default:
			middleware.WriteError(w, http.StatusNotFound, "Not found")
		}
	})

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		middleware.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// Middleware chain: request ID first so the logger can report it.
	var handler http.Handler = mux
	handler = middleware.CORS(handler)
	handler = middleware.Recovery(log)(handler)
	handler = middleware.Logger(log)(handler)
	handler = middleware.RequestID(handler)

	server := &http.Server{
		Addr:         ":" + *port,
		Handler:      handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
	}

	// Graceful shutdown on SIGINT/SIGTERM.
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan

		log.Info().Str("signal", sig.String()).Msg("Shutting down")

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			log.Error().Err(err).Msg("Shutdown failed")
		}
	}()

	log.Info().Str("port", *port).Msg("Starting API server")
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("Server failed")
	}
}
