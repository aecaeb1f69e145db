// Package app wires the core components shared by every docintel
// entrypoint: the blob store, the semantic index, the document registry,
// the embeddings provider, the lifecycle controller, and the optional
// outline graph. cmd/docintel's subcommands all bootstrap through here so
// the wiring order lives in one place instead of being duplicated per
// command.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/agentic-docs/docintel/internal/blobstore"
	"github.com/agentic-docs/docintel/internal/config"
	"github.com/agentic-docs/docintel/internal/embeddings"
	"github.com/agentic-docs/docintel/internal/events"
	"github.com/agentic-docs/docintel/internal/graph"
	"github.com/agentic-docs/docintel/internal/lifecycle"
	"github.com/agentic-docs/docintel/internal/registry"
	"github.com/agentic-docs/docintel/internal/semanticindex"
)

// App bundles the core components a docintel command operates over.
type App struct {
	Config    *config.Config
	Logger    *slog.Logger
	Store     *blobstore.Store
	Index     *semanticindex.Index
	Registry  *registry.Registry
	Embedder  embeddings.EmbeddingsProvider
	Lifecycle *lifecycle.Controller

	// Graph is nil when outline-graph connectivity is unconfigured or
	// unreachable at startup; callers must nil-check before use.
	Graph graph.Graph

	// Events carries graph connectivity and backpressure notifications.
	// It is always non-nil, even when Graph itself is nil.
	Events *events.EventBus
}

// Bootstrap opens the blob store, semantic index, and registry, builds the
// configured embeddings provider, and attempts an outline-graph connection.
// A graph connection failure is logged and left as a nil App.Graph rather
// than failing startup, matching the service's design: a graph outage
// never blocks ingest.
func Bootstrap(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}

	store, err := blobstore.New(cfg.Storage.BlobRootDir, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open blob store; %w", err)
	}
	logger.Info("blob store opened", "root", cfg.Storage.BlobRootDir)

	index, err := semanticindex.New(cfg.Index.DataDir, cfg.Index.Dimensions)
	if err != nil {
		return nil, fmt.Errorf("failed to open semantic index; %w", err)
	}
	logger.Info("semantic index opened", "dir", cfg.Index.DataDir, "dimensions", cfg.Index.Dimensions)

	reg, err := registry.Open(ctx, cfg.Storage.RegistryPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open registry; %w", err)
	}
	logger.Info("registry opened", "path", cfg.Storage.RegistryPath)

	embedder, err := embeddings.NewFromConfig(embeddings.Config{
		Provider:   cfg.Embeddings.Provider,
		Model:      cfg.Embeddings.Model,
		Dimensions: cfg.Embeddings.Dimensions,
		APIKey:     cfg.Embeddings.ResolveAPIKey(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build embeddings provider; %w", err)
	}
	logger.Info("embeddings provider ready", "provider", cfg.Embeddings.Provider)

	bus := events.NewBus(events.WithLogger(logger), events.WithBufferSize(64))
	bus.SubscribeAll(func(e events.Event) {
		logger.Info("event", "type", e.Type, "payload", e.Payload)
	})

	a := &App{
		Config:    cfg,
		Logger:    logger,
		Store:     store,
		Index:     index,
		Registry:  reg,
		Embedder:  embedder,
		Lifecycle: lifecycle.New(store, index),
		Events:    bus,
	}

	if cfg.Graph.Host != "" {
		g := graph.NewFalkorDBGraph(
			graph.WithConfig(graph.Config{
				Host:           cfg.Graph.Host,
				Port:           cfg.Graph.Port,
				Name:           cfg.Graph.Name,
				PasswordEnv:    cfg.Graph.PasswordEnv,
				MaxRetries:     cfg.Graph.MaxRetries,
				RetryDelay:     time.Duration(cfg.Graph.RetryDelayMs) * time.Millisecond,
				WriteQueueSize: cfg.Graph.WriteQueueSize,
			}),
			graph.WithLogger(logger),
			graph.WithBus(bus),
		)
		if err := g.Start(ctx); err != nil {
			logger.Warn("outline graph unavailable, continuing without it", "error", err)
		} else {
			a.Graph = g
		}
	}

	return a, nil
}

// Close releases the registry and, if connected, the outline graph. The
// blob store and semantic index hold no open handles beyond their files.
func (a *App) Close(ctx context.Context) {
	if a.Graph != nil {
		if err := a.Graph.Stop(ctx); err != nil {
			a.Logger.Warn("failed to stop outline graph cleanly", "error", err)
		}
	}
	if a.Registry != nil {
		if err := a.Registry.Close(); err != nil {
			a.Logger.Warn("failed to close registry cleanly", "error", err)
		}
	}
	if a.Events != nil {
		_ = a.Events.Close()
	}
}
