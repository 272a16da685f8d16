// Package main provides the simulation server binary: it loads
// configuration, tunables, class definitions and hook scripts, then drives
// the world at a fixed tick rate until interrupted.
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/infclass/internal/config"
	"github.com/cory-johannsen/infclass/internal/game/playerclass"
	"github.com/cory-johannsen/infclass/internal/game/tuning"
	"github.com/cory-johannsen/infclass/internal/gameserver"
	"github.com/cory-johannsen/infclass/internal/observability"
	"github.com/cory-johannsen/infclass/internal/scripting"
	"github.com/cory-johannsen/infclass/internal/server"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	statsEvery := flag.Duration("stats-every", 10*time.Second, "interval between world stats log lines")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	params := tuning.New(nil)
	if cfg.Tuning.File != "" {
		params, err = tuning.Load(cfg.Tuning.File, logger)
		if err != nil {
			logger.Fatal("loading tuning", zap.Error(err))
		}
		if cfg.Tuning.Watch {
			params.Watch()
		}
	}
	logger.Info("tuning loaded",
		zap.String("file", cfg.Tuning.File),
		zap.Bool("watch", cfg.Tuning.Watch),
	)

	catalog := playerclass.NewCatalog()
	if cfg.Classes.Dir != "" {
		catalog, err = playerclass.LoadCatalog(cfg.Classes.Dir)
		if err != nil {
			logger.Fatal("loading class definitions", zap.Error(err))
		}
	}

	opts := gameserver.Options{
		TickSpeed:  cfg.Simulation.TickRate,
		MaxPlayers: cfg.Simulation.MaxPlayers,
		SnapIDs:    cfg.Simulation.SnapIDs,
		Tuning:     params,
		Catalog:    catalog,
		Logger:     logger,
	}
	var scriptMgr *scripting.Manager
	if cfg.Scripting.ClassDir != "" {
		scriptMgr = scripting.NewManager(logger)
		if err := scriptMgr.LoadTree(cfg.Scripting.ClassDir, cfg.Scripting.InstructionLimit); err != nil {
			logger.Fatal("loading class scripts", zap.Error(err))
		}
		opts.Scripts = scriptMgr
	}

	world := gameserver.NewWorld(opts)
	loop := gameserver.NewTickLoop(world, cfg.Simulation.TickInterval())

	statsTicks := max(int(*statsEvery/cfg.Simulation.TickInterval()), 1)
	reporter := observability.NewStatsReporter(logger, statsTicks)
	loop.RegisterObserver("stats", reporter.Observe)
	loop.RegisterObserver("effects", func(w *gameserver.World) {
		for _, e := range w.Effects() {
			logger.Debug("effect",
				zap.Stringer("kind", e.Kind),
				zap.Int("player", int(e.Player)),
				zap.Int("tick", e.Tick),
			)
		}
	})

	lifecycle := server.NewLifecycle(logger)
	if scriptMgr != nil {
		lifecycle.Add("scripting", &server.FuncService{
			StartFn: func() error { return nil },
			StopFn:  scriptMgr.Close,
		})
	}
	lifecycle.Add("tick-loop", server.NewLoopService(loop.Start))

	logger.Info("simulation ready",
		zap.String("run_id", world.RunID().String()),
		zap.Int("tick_rate", cfg.Simulation.TickRate),
		zap.Int("max_players", cfg.Simulation.MaxPlayers),
		zap.Duration("startup", time.Since(start)),
	)

	if err := lifecycle.Run(context.Background()); err != nil {
		logger.Error("lifecycle error", zap.Error(err))
	}
}
