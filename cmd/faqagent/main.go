package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"faqagent/internal/config"
	"faqagent/internal/corpus"
	"faqagent/internal/domain"
	"faqagent/internal/fallback"
	logpkg "faqagent/internal/logger"
	"faqagent/internal/metrics"
	"faqagent/internal/retrieval"
	"faqagent/internal/service"
	"faqagent/internal/summarizer"
	chiTransport "faqagent/internal/transport/chi"
	"faqagent/internal/tui"
)

func main() {
	_ = godotenv.Load()

	var cfgPath, mode, corpusPath string
	flag.StringVar(&cfgPath, "config", "", "Path to YAML config file (optional; uses ~/.config/faqagent/config.yaml if not provided)")
	flag.StringVar(&mode, "mode", "tui", "Run mode: tui or serve")
	flag.StringVar(&corpusPath, "corpus", "", "Path to a YAML FAQ corpus (overrides corpus.path)")
	flag.Parse()

	var cfg *config.AppConfig
	var err error
	if cfgPath == "" {
		cfg, _, err = config.LoadDefault()
	} else {
		cfg, err = config.Load(cfgPath)
	}
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if corpusPath != "" {
		cfg.Corpus.Path = corpusPath
	}

	logger, err := buildLogger(cfg, mode)
	if err != nil {
		log.Fatalf("failed to create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	metrics.Register()

	faq, err := loadCorpus(cfg.Corpus.Path)
	if err != nil {
		logger.Fatal("Failed to load corpus", zap.Error(err))
	}
	engine, err := retrieval.New(faq)
	if err != nil {
		var cfgErr *domain.ConfigurationError
		if errors.As(err, &cfgErr) {
			logger.Fatal("Corpus cannot back a retrieval engine", zap.String("reason", cfgErr.Reason))
		}
		logger.Fatal("Failed to build retrieval engine", zap.Error(err))
	}
	logger.Info("Retrieval engine ready",
		zap.Int("entries", faq.Len()),
		zap.Int("vocabulary", engine.Dimension()),
		zap.Float64("threshold", cfg.Retrieval.Threshold),
	)

	generator, err := buildGenerator(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to configure fallback generator", zap.Error(err))
	}
	agent := service.NewAgent(engine, generator, fallback.Generic{Message: cfg.Fallback.Message}, cfg.Retrieval.Threshold, logger)

	switch mode {
	case "tui":
		welcome := summarizer.NewTopicSummarizer().Welcome(faq.Questions(), 3)
		if _, err := tea.NewProgram(tui.New(agent, welcome), tea.WithAltScreen()).Run(); err != nil {
			log.Fatal(err)
		}
	case "serve":
		serve(cfg, agent, engine, logger)
	default:
		logger.Fatal("Unknown mode", zap.String("mode", mode))
	}
}

// buildLogger keeps the terminal UI clean: without a log file it logs nothing.
func buildLogger(cfg *config.AppConfig, mode string) (*zap.Logger, error) {
	if mode == "tui" && cfg.Logging.File == "" {
		return zap.NewNop(), nil
	}
	return logpkg.NewLogger(cfg.Logging.Env, cfg.Logging.Level, cfg.Logging.File)
}

func loadCorpus(path string) (domain.Corpus, error) {
	if path == "" {
		return corpus.Default()
	}
	return corpus.Load(path)
}

func buildGenerator(cfg *config.AppConfig, logger *zap.Logger) (domain.Generator, error) {
	o := cfg.Fallback.OpenAI
	gen, err := fallback.New(cfg.Fallback.Type, &fallback.Config{
		APIKey:      os.Getenv(o.APIKeyEnv),
		BaseURL:     o.BaseURL,
		Model:       modelName(o.Model),
		Temperature: *o.Temperature,
		Timeout:     time.Duration(o.TimeoutSecs) * time.Second,
		Logger:      logger,
	})
	if err != nil {
		return nil, err
	}
	logger.Info("Fallback generator selected", zap.String("type", fmt.Sprintf("%T", gen)))
	return gen, nil
}

// modelName lets OPENAI_MODEL override the configured model.
func modelName(configured string) string {
	if m := os.Getenv("OPENAI_MODEL"); m != "" {
		return m
	}
	return configured
}

func serve(cfg *config.AppConfig, agent *service.Agent, engine *retrieval.Engine, logger *zap.Logger) {
	server := chiTransport.NewServer(agent, engine, logger)
	srv := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      server.Router(),
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", cfg.HTTP.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}
	logger.Info("Server stopped gracefully")
}
