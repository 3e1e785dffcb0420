package backend

import (
	"context"
	"fmt"
	"log/slog"

	"budgetbuddy/internal/amqp"
	"budgetbuddy/internal/cache"
	"budgetbuddy/internal/core"
	"budgetbuddy/internal/services"
	"budgetbuddy/internal/storage"
	"budgetbuddy/internal/storage/memory"
)

// summaryCacheSize bounds the summary cache; a single key is used today.
const summaryCacheSize = 4

type Factory struct {
	logger *slog.Logger
	// dialAMQP is replaced in tests.
	dialAMQP func(url, exchange, queue string) (services.EventPublisher, error)
}

func NewFactory(logger *slog.Logger) *Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &Factory{
		logger: logger,
		dialAMQP: func(url, exchange, queue string) (services.EventPublisher, error) {
			return amqp.NewClient(url, exchange, queue)
		},
	}
}

// CreateBlob opens the persistence handle selected by cfg.Type.
func (f *Factory) CreateBlob(cfg Config) (storage.Blob, CleanupFunc, error) {
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	switch cfg.Type {
	case FileBackend:
		f.logger.Info("Initialized file backend", "path", cfg.DataFile)
		return storage.NewFileBlob(cfg.DataFile), noCleanup, nil

	case MemoryBackend:
		var blob *memory.Blob
		if cfg.SeedFile != "" {
			blob = memory.NewFromFile(cfg.SeedFile)
		} else {
			blob = memory.New()
		}
		f.logger.Info("Initialized memory backend", "seed_file", cfg.SeedFile)
		return blob, noCleanup, nil

	case SQLiteBackend:
		blob, err := storage.NewSQLiteBlob(cfg.SQLiteDBPath)
		if err != nil {
			return nil, nil, fmt.Errorf("initialize SQLite backend: %w", err)
		}
		f.logger.Info("Initialized SQLite backend", "db_path", cfg.SQLiteDBPath)
		return blob, blob.Close, nil

	default:
		return nil, nil, fmt.Errorf("unsupported backend type: %s", cfg.Type)
	}
}

// CreateService builds the budget service: the blob, the store, the summary
// cache and, when configured, the AMQP publisher. A broker that cannot be
// reached is logged and the service runs without events.
func (f *Factory) CreateService(ctx context.Context, cfg Config) (*Result, error) {
	blob, cleanupBlob, err := f.CreateBlob(cfg)
	if err != nil {
		return nil, err
	}

	store := storage.NewStore(blob)
	opts := []services.Option{services.WithCloser(closerFunc(cleanupBlob))}

	var summaries *cache.LRUCache[core.SummaryView]
	if cfg.SummaryCacheTTL > 0 {
		summaries = cache.NewLRUCache[core.SummaryView](summaryCacheSize, cfg.SummaryCacheTTL)
		opts = append(opts, services.WithSummaryCache(summaries))
	}

	if cfg.AMQPURL != "" {
		pub, err := f.dialAMQP(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			f.logger.WarnContext(ctx, "Failed to initialize AMQP client, continuing without events", "error", err)
		} else {
			f.logger.InfoContext(ctx, "Initialized AMQP client", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
			opts = append(opts, services.WithPublisher(pub))
		}
	}

	svc := services.NewBudgetService(store, opts...)
	svc.EnsureInitialized(ctx)

	return &Result{Service: svc, Store: store, SummaryCache: summaries, Cleanup: svc.Close}, nil
}

func noCleanup() error { return nil }

type closerFunc func() error

func (f closerFunc) Close() error { return f() }
