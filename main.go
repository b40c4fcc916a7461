package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/milk9111/skirmish/config"
	"github.com/milk9111/skirmish/logging"
	"github.com/milk9111/skirmish/prefabs"
	"github.com/milk9111/skirmish/telemetry"
	"github.com/rs/zerolog"
)

func main() {
	configPath := flag.String("config", "", "path to a config file (default skirmish.yaml)")
	scenario := flag.String("scenario", "", "scenario prefab to run, overrides sim.scenario")
	debug := flag.Bool("debug", false, "log at debug level")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		boot := logging.New(logging.Options{Pretty: true})
		boot.Fatal().Err(err).Msg("load config")
	}
	if *scenario != "" {
		cfg.Sim.Scenario = *scenario
	}
	if *debug {
		cfg.Log.Level = "debug"
	}

	log := logging.New(logging.Options{Level: cfg.Log.Level, Pretty: cfg.Log.Pretty})
	if err := run(cfg, log); err != nil {
		log.Fatal().Err(err).Msg("skirmish")
	}
}

func run(cfg *config.Config, log zerolog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Prefabs.Dir != "" {
		prefabs.Dir = cfg.Prefabs.Dir
	}

	provider := telemetry.NewProvider(cfg.Metrics.Enabled)
	defer func() {
		if err := provider.Shutdown(context.Background()); err != nil {
			log.Warn().Err(err).Msg("metrics shutdown")
		}
	}()
	provider.Install()
	metrics, err := telemetry.Global()
	if err != nil {
		return err
	}

	game, err := NewGame(cfg, log, metrics)
	if err != nil {
		return err
	}

	var watcher *prefabs.Watcher
	if cfg.Prefabs.Watch {
		watcher, err = prefabs.NewWatcher()
		if err != nil {
			log.Warn().Err(err).Msg("prefab hot reload disabled")
		} else {
			defer watcher.Close()
			log.Info().Str("dir", prefabs.Dir).Msg("watching prefabs")
		}
	}

	if err := game.Run(ctx, watcher); err != nil {
		log.Warn().Err(err).Msg("run interrupted")
	}

	totals, err := provider.Totals(context.Background())
	if err != nil {
		log.Warn().Err(err).Msg("collect metrics")
	}
	game.Summary(totals)
	return nil
}
