package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/udisondev/lootrandomizer/internal/assign"
	"github.com/udisondev/lootrandomizer/internal/catalog"
	"github.com/udisondev/lootrandomizer/internal/config"
	"github.com/udisondev/lootrandomizer/internal/db"
	"github.com/udisondev/lootrandomizer/internal/engine/sim"
	"github.com/udisondev/lootrandomizer/internal/gist"
	"github.com/udisondev/lootrandomizer/internal/loot"
	"github.com/udisondev/lootrandomizer/internal/replay"
)

func main() {
	configPath := flag.String("config", "", "path to config file (overrides "+config.EnvPath+")")
	flag.Parse()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("shutting down", "signal", sig)
		cancel()
	}()

	if err := run(ctx, config.Path(*configPath)); err != nil {
		slog.Error("fatal", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfgPath string) error {
	cfg, err := config.LoadRandomizer(cfgPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	})))
	slog.Info("loot randomizer starting", "config", cfgPath, "log_level", cfg.LogLevel)

	eng := sim.New()

	// World objects must exist before pool definitions are resolved
	var script replay.Script
	if cfg.ReplayPath != "" {
		script, err = replay.Load(cfg.ReplayPath)
		if err != nil {
			return fmt.Errorf("loading replay: %w", err)
		}
		if err := script.Populate(eng); err != nil {
			return fmt.Errorf("populating world: %w", err)
		}
	}

	reg, err := catalog.LoadFile(cfg.CatalogPath)
	if err != nil {
		return fmt.Errorf("loading catalog: %w", err)
	}

	enabled := loot.TagAll
	if len(cfg.EnabledTags) > 0 {
		enabled, err = loot.ParseTags(cfg.EnabledTags)
		if err != nil {
			return fmt.Errorf("enabled tags: %w", err)
		}
	}
	selected := reg.Select(enabled)
	slog.Info("encounters selected", "enabled", enabled.String(), "selected", len(selected), "total", reg.Len())

	var (
		store gist.StateStore = &gist.MemoryStore{}
		rows  []assign.Assignment
		seed  = cfg.Seed
	)

	if cfg.Database.Enabled {
		if err := db.RunMigrations(ctx, cfg.Database.DSN()); err != nil {
			return fmt.Errorf("running migrations: %w", err)
		}
		database, err := db.New(ctx, cfg.Database.DSN())
		if err != nil {
			return fmt.Errorf("connecting to database: %w", err)
		}
		defer database.Close()

		store = db.NewTrackerRepository(database.Pool())
		rows, err = loadStoredAssignments(ctx, db.NewAssignmentRepository(database.Pool()), cfg)
		if err != nil {
			return err
		}
	} else if cfg.AssignmentsPath != "" {
		f, err := assign.LoadFile(cfg.AssignmentsPath)
		if err != nil {
			return fmt.Errorf("loading assignments: %w", err)
		}
		rows = f.Assignments
		if seed == 0 {
			seed = f.Seed
		}
	}

	if _, err := assign.Apply(reg, eng, rows); err != nil {
		slog.Warn("some pool assignments were skipped", "err", err)
	}

	mgr := loot.NewSessionManager(eng, reg)
	mgr.Enable(enabled)
	defer mgr.Shutdown()

	tracker := gist.New(cfg.Gist.Token, cfg.Gist.APIURL, cfg.Gist.Timeout, store)

	g, gctx := errgroup.WithContext(ctx)

	if tracker.Enabled() {
		g.Go(func() error {
			// трекер не критичен для сессии
			if err := tracker.Update(gctx, strconv.FormatInt(seed, 10), seedSummary(seed, enabled, reg)); err != nil {
				slog.Warn("seed tracker update failed", "seed", seed, "err", err)
			}
			return nil
		})
	}

	g.Go(func() error {
		if len(script.Steps) == 0 {
			slog.Info("no replay steps, nothing to run")
			return nil
		}
		rep, err := script.Run(gctx, eng, mgr)
		if err != nil {
			return fmt.Errorf("running replay: %w", err)
		}
		for _, d := range rep.Drops {
			pools := make([]string, len(d.Pools))
			for i, p := range d.Pools {
				pools[i] = fmt.Sprintf("%s@%.2f", p.Pool.Name(), p.Probability)
			}
			slog.Info("drop", "function", d.Function, "source", d.Source, "context", d.Context, "pools", pools)
		}
		slog.Info("replay finished", "steps", rep.Steps, "drops", len(rep.Drops))
		return nil
	})

	return g.Wait()
}

// loadStoredAssignments returns the rows stored for cfg.Seed. A seed not yet
// stored is imported from cfg.AssignmentsPath when one is configured.
func loadStoredAssignments(ctx context.Context, repo *db.AssignmentRepository, cfg config.Randomizer) ([]assign.Assignment, error) {
	rows, err := repo.Load(ctx, cfg.Seed)
	if err == nil {
		return rows, nil
	}
	if !errors.Is(err, db.ErrSeedNotFound) || cfg.AssignmentsPath == "" {
		return nil, fmt.Errorf("loading assignments for seed %d: %w", cfg.Seed, err)
	}

	f, err := assign.LoadFile(cfg.AssignmentsPath)
	if err != nil {
		return nil, fmt.Errorf("loading assignments: %w", err)
	}
	if err := repo.Save(ctx, cfg.Seed, cfg.EnabledTags, f.Assignments); err != nil {
		return nil, fmt.Errorf("storing assignments for seed %d: %w", cfg.Seed, err)
	}
	slog.Info("assignments imported", "seed", cfg.Seed, "path", cfg.AssignmentsPath, "rows", len(f.Assignments))
	return f.Assignments, nil
}

// seedSummary renders the tracker file body: one line per enabled encounter
// with the pool it drops.
func seedSummary(seed int64, enabled loot.Tag, reg *loot.Registry) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Seed %d\nTags: %s\n\n", seed, enabled)
	for _, e := range reg.Select(enabled) {
		item, err := e.Item()
		if err != nil {
			continue
		}
		fmt.Fprintf(&b, "%s: %s\n", e.Name(), item.Name())
	}
	return b.String()
}
