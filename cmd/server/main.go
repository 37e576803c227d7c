package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/vanshika/demolab/internal/config"
	"github.com/vanshika/demolab/internal/graph"
	"github.com/vanshika/demolab/internal/llm"
	"github.com/vanshika/demolab/internal/logging"
	"github.com/vanshika/demolab/internal/repository"
	"github.com/vanshika/demolab/internal/server"
	"github.com/vanshika/demolab/internal/service"
	"github.com/vanshika/demolab/internal/tasks"
	"github.com/vanshika/demolab/internal/ui"
)

func main() {
	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.Logging)

	graphClient, err := buildGraphClient(ctx, cfg)
	if err != nil {
		logger.Error("failed to create graph client", "error", err)
		os.Exit(1)
	}
	defer func() {
		if graphClient != nil {
			if err := graphClient.Close(context.Background()); err != nil {
				logger.Warn("closing graph client failed", "error", err)
			}
		}
	}()

	manager := tasks.NewManager(cfg.Tasks.Workers, cfg.Tasks.Retention, logger.With("component", "tasks"))
	defer manager.Close()
	go manager.Run(ctx)

	opts := service.LoadOptions{
		Root:      cfg.Data.Root,
		Completer: buildCompleter(logger, cfg.LLM),
		Tasks:     manager,
	}
	if graphClient != nil {
		opts.Store = repository.New(graphClient)
	}
	services, err := service.LoadAll(ctx, opts, logger)
	if err != nil {
		logger.Error("failed to load demo data", "error", err, "data_root", cfg.Data.Root)
		os.Exit(1)
	}

	apps := ui.NewRegistry()
	service.RegisterApps(apps, services)

	router := server.NewRouter(logger, server.RouterDependencies{
		Health: server.CompositeHealth{
			server.DataRootHealth{Root: cfg.Data.Root},
			server.GraphHealthService{Client: graphClient},
		},
		API:              server.NewAPIHandlers(logger, apps, services, manager),
		AllowedOrigins:   server.ParseAllowedOrigins(cfg.HTTP.AllowedOriginsCSV),
		AllowCredentials: cfg.HTTP.AllowCredentials,
	})

	srv := server.New(logger, cfg.HTTP, router)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Info("received shutdown signal", "signal", sig.String())
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("server stopped unexpectedly", "error", err)
		}
	}
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	}
}

// buildGraphClient connects to Neo4j only when it is the friendship source.
func buildGraphClient(ctx context.Context, cfg config.Config) (graph.Client, error) {
	if cfg.Graph.Source != config.SourceNeo4j {
		return nil, nil
	}
	if cfg.Graph.URI == "" {
		return nil, graph.ErrMissingURI
	}

	opts := graph.Options{
		URI:            cfg.Graph.URI,
		Database:       cfg.Graph.Database,
		Username:       cfg.Graph.Username,
		Password:       cfg.Graph.Password,
		MaxConnections: cfg.Graph.MaxConnections,
	}
	return graph.NewNeo4jClient(ctx, opts)
}

// buildCompleter returns nil without an API key; the advisor then shows its
// missing-key card.
func buildCompleter(logger *slog.Logger, cfg config.LLMConfig) llm.Completer {
	if !cfg.Enabled() {
		logger.Warn("OPENAI_API_KEY not set, sales assistant disabled")
		return nil
	}
	client, err := llm.NewClient(llm.Config{
		APIKey:            cfg.APIKey,
		BaseURL:           cfg.BaseURL,
		Model:             cfg.Model,
		Temperature:       cfg.Temperature,
		Timeout:           cfg.Timeout,
		RequestsPerSecond: cfg.RequestsPerSecond,
	})
	if err != nil {
		logger.Warn("sales assistant disabled", "error", err)
		return nil
	}
	return client
}
