package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/vanshika/demolab/internal/config"
	"github.com/vanshika/demolab/internal/dataset"
	"github.com/vanshika/demolab/internal/domain"
	"github.com/vanshika/demolab/internal/graph"
	"github.com/vanshika/demolab/internal/logging"
	"github.com/vanshika/demolab/internal/repository"
	"github.com/vanshika/demolab/internal/service"
)

var (
	errMissingDataset = errors.New("dataset not found")
)

func main() {
	var (
		datasetDir   = flag.String("dataset-dir", "", "Directory containing friendships.csv and interactions.csv (defaults to DATA_ROOT)")
		friendsPath  = flag.String("friendships", "", "Path to friendships.csv (overrides dataset-dir)")
		eventsPath   = flag.String("interactions", "", "Path to interactions.csv (overrides dataset-dir)")
		workers      = flag.Int("workers", 4, "Number of concurrent workers for ingestion")
		skipInteract = flag.Bool("skip-interactions", false, "Only mirror the friendships table")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	if *datasetDir == "" {
		*datasetDir = cfg.Data.Root
	}

	logger := logging.New(cfg.Logging).With("component", "ingest")

	friendsFile, eventsFile, err := resolveDatasetPaths(*datasetDir, *friendsPath, *eventsPath, *skipInteract)
	if err != nil {
		logger.Error("dataset resolution failed", "error", err)
		os.Exit(1)
	}

	friendships, err := loadFriendships(friendsFile)
	if err != nil {
		logger.Error("failed to load friendships", "error", err, "path", friendsFile)
		os.Exit(1)
	}
	if len(friendships) == 0 {
		logger.Error("friendships dataset empty", "path", friendsFile)
		os.Exit(1)
	}

	var events []domain.Interaction
	if eventsFile != "" {
		if events, err = loadInteractions(eventsFile); err != nil {
			logger.Error("failed to load interactions", "error", err, "path", eventsFile)
			os.Exit(1)
		}
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	graphClient, err := buildGraphClient(ctx, logger, cfg)
	if err != nil {
		logger.Error("failed to create graph client", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := graphClient.Close(context.Background()); err != nil {
			logger.Warn("closing graph client failed", "error", err)
		}
	}()

	repo := repository.New(graphClient)
	if err := repo.EnsureSchema(ctx); err != nil {
		logger.Error("schema setup failed", "error", err)
		os.Exit(1)
	}
	ingestor := service.NewBulkIngestor(repo, *workers)

	start := time.Now()
	logger.Info("ingesting friendships", "count", len(friendships), "workers", *workers)
	if err := ingestor.IngestFriendships(ctx, friendships); err != nil {
		logger.Error("friendship ingestion failed", "error", err)
		os.Exit(1)
	}

	if len(events) > 0 {
		logger.Info("ingesting interactions", "count", len(events))
		if err := ingestor.IngestInteractions(ctx, events); err != nil {
			logger.Error("interaction ingestion failed", "error", err)
			os.Exit(1)
		}
	}

	stats, err := repo.CountIndividuals(ctx)
	if err != nil {
		logger.Warn("counting graph failed", "error", err)
	}
	logger.Info("ingestion complete",
		"duration", time.Since(start).String(),
		"friendships", len(friendships),
		"interactions", len(events),
		"individuals_in_graph", stats.Individuals,
		"friendships_in_graph", stats.Friendships,
	)
}

func resolveDatasetPaths(baseDir, friendsPath, eventsPath string, skipEvents bool) (string, string, error) {
	resolve := func(explicitPath, fallbackFile string) (string, error) {
		if explicitPath != "" {
			if _, err := os.Stat(explicitPath); err != nil {
				return "", fmt.Errorf("stat %s: %w", explicitPath, err)
			}
			return explicitPath, nil
		}
		path := filepath.Join(baseDir, fallbackFile)
		if _, err := os.Stat(path); err != nil {
			return "", fmt.Errorf("%w: %s", errMissingDataset, path)
		}
		return path, nil
	}

	friendsFile, err := resolve(friendsPath, "friendships.csv")
	if err != nil {
		return "", "", err
	}
	if skipEvents {
		return friendsFile, "", nil
	}
	eventsFile, err := resolve(eventsPath, "interactions.csv")
	if err != nil {
		return "", "", err
	}
	return friendsFile, eventsFile, nil
}

func loadFriendships(path string) ([]domain.Friendship, error) {
	frame, err := dataset.ReadCSVFile(path, dataset.Options{IndexCol: true})
	if err != nil {
		return nil, err
	}
	rows, err := service.FriendshipsFromFrame(frame)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return service.NormalizeFriendships(rows), nil
}

func loadInteractions(path string) ([]domain.Interaction, error) {
	frame, err := dataset.ReadCSVFile(path, dataset.Options{IndexCol: true})
	if err != nil {
		return nil, err
	}
	return service.NormalizeInteractions(service.InteractionsFromFrame(frame)), nil
}

func buildGraphClient(ctx context.Context, logger *slog.Logger, cfg config.Config) (graph.Client, error) {
	if cfg.Graph.URI == "" {
		return nil, fmt.Errorf("GRAPH_URI is required for ingestion")
	}
	opts := graph.Options{
		URI:            cfg.Graph.URI,
		Database:       cfg.Graph.Database,
		Username:       cfg.Graph.Username,
		Password:       cfg.Graph.Password,
		MaxConnections: cfg.Graph.MaxConnections,
	}
	client, err := graph.NewNeo4jClient(ctx, opts)
	if err != nil {
		return nil, err
	}
	if err := client.VerifyConnectivity(ctx); err != nil {
		_ = client.Close(ctx)
		return nil, err
	}
	logger.Info("connected to graph", "uri", cfg.Graph.URI, "database", cfg.Graph.Database)
	return client, nil
}
