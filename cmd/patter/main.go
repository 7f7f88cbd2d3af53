package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/dkhromov/patter/internal/buffer"
	"github.com/dkhromov/patter/internal/coalesce"
	"github.com/dkhromov/patter/internal/config"
	"github.com/dkhromov/patter/internal/connector"
	"github.com/dkhromov/patter/internal/engine"
	"github.com/dkhromov/patter/internal/httpapi"
	"github.com/dkhromov/patter/internal/observability"
	"github.com/dkhromov/patter/internal/pacing"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	metrics := observability.NewMetrics(cfg.MetricsNamespace)

	connectors, patterns, words, err := config.LoadPacingFile(cfg.PacingConfigPath)
	if err != nil {
		log.Fatalf("pacing config error: %v", err)
	}

	ctx := context.Background()
	store, err := buffer.NewStore(ctx, cfg.DatabaseURL, cfg.SQLitePath)
	if err != nil {
		log.Fatalf("buffer store init failed: %v", err)
	}
	defer store.Close()
	log.Printf("buffer store: %s", store.Mode())

	staticSuggester := connector.NewStatic(words, connectors)
	staticQuestions := connector.NewStaticQuestions(cfg.DelaySeed)

	var suggester coalesce.Suggester = staticSuggester
	var questions connector.QuestionSuggester = staticQuestions
	if strings.TrimSpace(cfg.ConnectorServiceURL) != "" {
		bridge := connector.NewHTTPBridge(cfg.ConnectorServiceURL, cfg.ConnectorTimeout)
		suggester = connector.NewFallbackSuggester(bridge, staticSuggester)
		questions = connector.NewFallbackQuestions(bridge, staticQuestions)
		log.Printf("connector service: %s", cfg.ConnectorServiceURL)
	} else {
		log.Printf("connector service: offline tables")
	}

	segmenter := pacing.NewSegmenter(pacing.Options{
		MaxLength:           cfg.MaxLength,
		ForceSplitThreshold: cfg.ForceSplitThreshold,
		MaxParts:            cfg.MaxParts,
		MinDelayMs:          cfg.MinDelayMs,
		MaxDelayMs:          cfg.MaxDelayMs,
	}, pacing.NewScheduler(cfg.DelaySeed))

	coalescer := coalesce.New(coalesce.Options{
		Connectors:             connectors,
		Patterns:               patterns,
		Words:                  words,
		ShortMessageThreshold:  cfg.ShortMessageThreshold,
		QuickSequenceThreshold: cfg.QuickSequenceThreshold,
		SuggestTimeout:         cfg.ConnectorTimeout,
		OnFallback: func(reason string) {
			metrics.ConnectorFallbacks.WithLabelValues(reason).Inc()
		},
	}, suggester)

	svc := engine.New(engine.Options{
		Segmenter: segmenter,
		Coalescer: coalescer,
		Store:     store,
		Questions: questions,
		Cadence:   pacing.NewQuestionCadence(cfg.QuestionFrequency),
		Metrics:   metrics,
		MaxWait:   cfg.MaxWait,
	})

	runCtx, runCancel := context.WithCancel(context.Background())
	defer runCancel()
	svc.StartJanitor(runCtx, cfg.SweepInterval)

	api := httpapi.New(cfg, svc, metrics)
	httpServer := &http.Server{
		Addr:    cfg.BindAddr,
		Handler: api.Router(),
	}

	go func() {
		log.Printf("server listening on %s", cfg.BindAddr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen error: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	log.Printf("shutdown signal received")

	runCancel()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
		_ = httpServer.Close()
	}

	log.Printf("shutdown complete")
}
