package main

import (
	"blackhole/communication"
	"blackhole/communication/client"
	"blackhole/communication/server"
	"blackhole/experiments"
	"blackhole/gamemaster"
	"blackhole/meta"
	"blackhole/player"
	"blackhole/searcher"
	"blackhole/searcher/agent"
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/profile"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	configPath := flag.String("config", "", "YAML config file")
	mode := flag.String("mode", "play", "play, serve or experiment")
	remote := flag.String("remote", "", "Server URL to play against instead of an in-process game")
	addr := flag.String("addr", meta.ADDR, "Listen address in serve mode")
	episodes := flag.Int("episodes", meta.EPISODES, "Number of playouts per move")
	goroutines := flag.Int("goroutines", meta.GO_ROUTINES, "Number of goroutines for parallel playouts")
	duration := flag.Duration("duration", 0, "Duration of playouts per move")
	seed := flag.Uint64("seed", 0, "Seed for reproducible searches")
	experiment := flag.String("experiment", "", "Experiment preset: budget, parallelization or throughput")
	games := flag.Int("games", meta.EXPERIMENT_GAMES, "Games per match up in experiment mode")
	withProfile := flag.Bool("profile", false, "Write a CPU profile to the working directory")
	logLevel := flag.String("log-level", "", "Log level (debug, info, warn, error)")
	flag.Parse()

	cfg := meta.Default()
	if *configPath != "" {
		var err error
		if cfg, err = meta.Load(*configPath); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(2)
		}
	}

	// Flags set on the command line override the config file
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "addr":
			cfg.Server.Addr = *addr
		case "episodes":
			cfg.Search.Episodes = *episodes
		case "goroutines":
			cfg.Search.Goroutines = *goroutines
		case "duration":
			cfg.Search.Duration = *duration
		case "seed":
			cfg.Search.Seed = seed
		case "experiment":
			cfg.Experiment.Name = *experiment
		case "games":
			cfg.Experiment.Games = *games
		case "log-level":
			cfg.LogLevel = *logLevel
		}
	})
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	setupLogger(cfg.LogLevel)

	if *withProfile {
		defer profile.Start(profile.ProfilePath(".")).Stop()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var err error
	switch *mode {
	case "play":
		err = play(ctx, cfg, *remote)
	case "serve":
		err = serve(ctx, cfg)
	case "experiment":
		err = runExperiment(ctx, cfg)
	default:
		err = fmt.Errorf("unknown mode %q", *mode)
	}

	if err != nil && !errors.Is(err, player.ErrQuit) && !errors.Is(err, context.Canceled) {
		log.Error().Err(err).Str("mode", *mode).Msg("exiting")
		stop()
		os.Exit(1)
	}
}

func setupLogger(level string) {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})

	parsed, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		parsed = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(parsed)
}

func newComputer(cfg meta.SearchConfig) agent.Agent {
	options := []searcher.Option{
		searcher.WithEpisodes(cfg.Episodes),
		searcher.WithDuration(cfg.Duration),
	}
	if cfg.Seed != nil {
		options = append(options, searcher.WithSeed(*cfg.Seed))
	}
	return agent.NewEvaluationAgent(searcher.NewMonteCarlo(cfg.Goroutines, options...))
}

func play(ctx context.Context, cfg meta.Config, remote string) error {
	var comm communication.Communicator
	if remote != "" {
		comm = client.NewClientCommunicator(remote, &http.Client{Timeout: time.Minute})
	} else {
		comm = gamemaster.NewGame(newComputer(cfg.Search))
	}

	p := player.NewPlayer(comm, os.Stdin, os.Stdout)
	_, err := p.Play(ctx)
	return err
}

func serve(ctx context.Context, cfg meta.Config) error {
	g := gamemaster.NewGame(newComputer(cfg.Search))
	return server.NewServerCommunicator(g).Start(ctx, cfg.Server.Addr)
}

func runExperiment(ctx context.Context, cfg meta.Config) error {
	e, err := experiments.Preset(cfg.Experiment.Name, cfg.Experiment.Games, cfg.Experiment.Budget)
	if err != nil {
		return err
	}
	_, err = experiments.Run(ctx, e, cfg.Experiment.OutputDir)
	return err
}
