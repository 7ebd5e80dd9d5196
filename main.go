package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"spacebattle/internal/config"
	"spacebattle/internal/store"
	"spacebattle/internal/vector"
	"spacebattle/internal/world"
)

func main() {
	configPath := flag.String("config", "battle.toml", "Path to the scenario file")
	ticks := flag.Int("ticks", -1, "Number of steps to run (default: from config)")
	dbPath := flag.String("db", "", "SQLite database for collisions (default: from config, empty disables)")
	evidenceDir := flag.String("evidence-dir", "", "Directory for per-pair evidence files (default: from config)")
	workers := flag.Int("workers", 0, "Narrow-phase workers (0 = GOMAXPROCS)")
	verbose := flag.Bool("v", false, "Debug logging")
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("load config", "path", *configPath, "err", err)
		os.Exit(1)
	}
	if *ticks >= 0 {
		cfg.Ticks = *ticks
	}
	if *dbPath != "" {
		cfg.Store.Path = *dbPath
	}
	if *evidenceDir != "" {
		cfg.Store.EvidenceDir = *evidenceDir
	}

	// Graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sum, err := run(ctx, cfg, *workers, logger)
	if err != nil {
		logger.Error("run failed", "err", err)
		os.Exit(1)
	}
	logger.Info("done",
		"ticks", sum.Ticks,
		"collisions", sum.Collisions,
		"recorded", sum.Recorded,
		"dropped", sum.Dropped,
	)
}

// summary reports what a run did
type summary struct {
	Ticks      uint64
	Collisions int
	Recorded   int64
	Dropped    int64
	ByNodeType map[string]int
}

// run spawns the configured entities and steps the world cfg.Ticks times
// or until ctx is done. Persisted rows are flushed before it returns.
func run(ctx context.Context, cfg *config.Config, workers int, logger *slog.Logger) (summary, error) {
	var sum summary

	tables, err := cfg.NodeTables()
	if err != nil {
		return sum, err
	}

	var (
		db  *store.DB
		rec *store.Recorder
	)
	if cfg.Store.Path != "" {
		db, err = store.Open(cfg.Store.Path)
		if err != nil {
			return sum, fmt.Errorf("open store: %w", err)
		}
		defer db.Close()
		rec = store.NewRecorder(db, cfg.Store.FlushInterval, cfg.Store.BatchSize)
		logger.Info("recording collisions", "db", cfg.Store.Path)
	}

	sink := newImpactSink(rec, cfg.Store.EvidenceDir, logger)
	w, err := world.New(world.Options{
		TileSize:         cfg.TileSize,
		Arity:            cfg.Arity,
		Priorities:       cfg.PriorityTable(),
		Tables:           tables,
		StrictPriorities: cfg.StrictPriorities,
		Handler:          sink,
		Workers:          workers,
		Logger:           logger,
	})
	if err != nil {
		if rec != nil {
			rec.Stop()
		}
		return sum, err
	}
	sink.clock = w

	for i, e := range cfg.Entities {
		pos, err := vector.New(e.Position...)
		if err == nil {
			var vel vector.Vector
			if vel, err = vector.New(e.Velocity...); err == nil {
				_, err = w.Spawn(e.Kind, pos, vel, e.Shape)
			}
		}
		if err != nil {
			if rec != nil {
				rec.Stop()
			}
			return sum, fmt.Errorf("spawn entity %d (%s): %w", i, e.Kind, err)
		}
	}
	logger.Info("scenario loaded",
		"entities", len(cfg.Entities),
		"tables", len(tables),
		"tile_size", cfg.TileSize,
		"ticks", cfg.Ticks,
	)

	var stepErr error
	for i := 0; i < cfg.Ticks; i++ {
		if ctx.Err() != nil {
			logger.Info("interrupted", "tick", w.Tick())
			break
		}
		impacts, err := w.Step(ctx)
		if err != nil {
			stepErr = err
			break
		}
		sum.Collisions += len(impacts)
	}
	sum.Ticks = w.Tick()

	if rec != nil {
		rec.Stop()
		sum.Recorded = rec.Written()
		sum.Dropped = rec.Dropped()
		// The background context: the counts are wanted even after an interrupt.
		counts, err := db.CountByNodeType(context.Background())
		if err != nil {
			logger.Warn("count collisions", "err", err)
		}
		sum.ByNodeType = counts
	}
	return sum, stepErr
}
