package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/MimeLyc/research-agent/internal/agent"
	"github.com/MimeLyc/research-agent/internal/config"
	"github.com/MimeLyc/research-agent/internal/httpapi"
	"github.com/MimeLyc/research-agent/internal/llm"
	"github.com/MimeLyc/research-agent/internal/tools"
	"github.com/MimeLyc/research-agent/pkg/log"
)

const shutdownTimeout = 10 * time.Second

type httpServer interface {
	ListenAndServe(addr string) error
	Shutdown(ctx context.Context) error
}

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Warn("Failed to load .env file: %v", err)
	}

	cfg, err := loadConfig()
	if err != nil {
		log.Fatal("Failed to load configuration: %v", err)
	}
	log.GetLogger().SetLevel(cfg.LogLevel)

	srv, err := buildServer(cfg)
	if err != nil {
		log.Fatal("Failed to build server: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := runWithComponents(ctx, cfg, srv); err != nil {
		log.Fatal("Server stopped with error: %v", err)
	}
}

func loadConfig() (*config.Config, error) {
	var opts []config.Option
	if path := config.FileSettingsPath(); path != "" {
		settings, err := config.LoadFileSettings(path)
		if err != nil {
			return nil, err
		}
		opts = append(opts, config.WithFileSettings(settings))
	}
	return config.NewFromEnv(opts...)
}

func buildServer(cfg *config.Config) (*httpapi.Server, error) {
	completer, err := llm.New(cfg.LLM.ClientConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM provider: %w", err)
	}

	registry, err := tools.NewDefaultRegistry(tools.DefaultOptions{
		Completer:     completer,
		ScorerURL:     cfg.Relevance.ScorerURL,
		ScorerTimeout: cfg.Relevance.TimeoutDuration(),
		LanguageHints: cfg.Agent.LanguageHints,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build tool registry: %w", err)
	}
	log.Info("Registered tools: %v", registry.Names())

	a, err := agent.NewLLMAgent(completer, registry, cfg.Agent.MaxIterations,
		agent.WithTimeout(cfg.Agent.TimeoutDuration()))
	if err != nil {
		return nil, fmt.Errorf("failed to create agent: %w", err)
	}

	return httpapi.NewServer(a, httpapi.WithAllowedOrigins(cfg.HTTP.CORSAllowedOrigins)), nil
}

func runWithComponents(ctx context.Context, cfg *config.Config, srv httpServer) error {
	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("Starting HTTP API on %s", cfg.HTTP.Addr)
		if err := srv.ListenAndServe(cfg.HTTP.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gCtx.Done()
		log.Info("Shutting down HTTP API")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
