package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"pbs/assets"
	"pbs/internal/combat"
	"pbs/internal/config"
	"pbs/internal/search"
	"pbs/internal/trainerai"
)

type flags struct {
	cfgDir   string
	playerID string
	oppID    string
	mode     string
	ctrl     string
	out      string
	netPath  string
	logLevel string
	seed     int64
	n        int
	iters    int
	workers  int
	epochs   int
}

func main() {
	var f flags
	flag.StringVar(&f.cfgDir, "config", "", "config dir (default: embedded assets)")
	flag.StringVar(&f.playerID, "player", "player", "player team id")
	flag.StringVar(&f.oppID, "opponent", "rival", "opponent team id")
	flag.StringVar(&f.mode, "mode", "plan", "plan | match | batch | train")
	flag.StringVar(&f.ctrl, "ctrl", "planner", "player controller: planner | heuristic | random | trainer")
	flag.StringVar(&f.out, "out", "out.json", "output file")
	flag.StringVar(&f.netPath, "net", "", "value network weights (read by plan/match/batch, written by train)")
	flag.StringVar(&f.logLevel, "log-level", "info", "zerolog level")
	flag.Int64Var(&f.seed, "seed", 12345, "seed")
	flag.IntVar(&f.n, "n", 100, "number of battles (batch, train)")
	flag.IntVar(&f.iters, "iters", 0, "planner iterations (0: planner.yaml)")
	flag.IntVar(&f.workers, "workers", 0, "planner trees (plan, match) or battle workers (batch)")
	flag.IntVar(&f.epochs, "epochs", 20, "training epochs (train)")
	flag.Parse()

	lvl, err := zerolog.ParseLevel(f.logLevel)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		Level(lvl).With().Timestamp().Logger()

	var data *config.Data
	if f.cfgDir == "" {
		data, err = config.LoadFS(assets.FS)
	} else {
		data, err = config.LoadAll(f.cfgDir)
	}
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	lib, err := combat.NewLibrary(data)
	if err != nil {
		log.Fatal().Err(err).Msg("build library")
	}
	player, err := lib.Team(f.playerID)
	if err != nil {
		log.Fatal().Err(err).Msg("player team")
	}
	opponent, err := lib.Team(f.oppID)
	if err != nil {
		log.Fatal().Err(err).Msg("opponent team")
	}
	st := combat.NewBattle(player, opponent)

	switch f.mode {
	case "plan":
		p := newPlanner(f, lib, data, log)
		res, err := p.Plan(context.Background(), st, combat.Player)
		if err != nil {
			log.Fatal().Err(err).Msg("plan")
		}
		for _, s := range res.Stats {
			fmt.Printf("%-20s visits=%-6d win=%.3f wilson=%.3f death=%.3f score=%.3f\n",
				s.Label, s.Visits, s.WinRate, s.Wilson, s.DeathRate, s.Score)
		}
		writeJSON(log, f.out, res)
		fmt.Printf("Plan: %s (%d iterations, fallback=%v) -> %s\n", res.Label, res.Iterations, res.Fallback, f.out)

	case "match":
		env := combat.NewEnv(f.seed, lib.Chart)
		ctrls := [2]combat.Controller{playerController(f, lib, data, log), trainerai.Controller{}}
		res, err := combat.RunMatch(env, st, ctrls, combat.MatchOptions{Record: true, Log: log})
		if err != nil {
			log.Fatal().Err(err).Msg("match")
		}
		writeJSON(log, f.out, res)
		fmt.Printf("Match finished. Winner=%s, turns=%d -> %s\n", res.Winner, res.Turns, f.out)

	case "batch":
		ctrl := playerController(f, lib, data, log)
		summary := runBatch(st, lib.Chart, ctrl, f.n, batchWorkers(f.workers), f.seed, log)
		writeJSON(log, f.out, summary)
		fmt.Printf("Batch %d done, win rate %.3f -> %s\n", f.n, summary.WinRate, filepath.Base(f.out))

	case "train":
		if f.netPath == "" {
			log.Fatal().Msg("train needs -net")
		}
		net, n := train(st, lib.Chart, f.n, batchWorkers(f.workers), f.epochs, f.seed, log)
		if err := saveNet(net, f.netPath); err != nil {
			log.Fatal().Err(err).Msg("save net")
		}
		fmt.Printf("Trained on %d positions -> %s\n", n, f.netPath)

	default:
		log.Fatal().Str("mode", f.mode).Msg("unknown mode")
	}
}

func writeJSON(log zerolog.Logger, path string, v any) {
	if err := os.WriteFile(path, combat.MarshalPretty(v), 0644); err != nil {
		log.Fatal().Err(err).Str("path", path).Msg("write output")
	}
}

func newPlanner(f flags, lib *combat.Library, data *config.Data, log zerolog.Logger) *search.Planner {
	opts := []search.Option{search.FromConfig(data.Planner), search.WithSeed(f.seed), search.WithLogger(log)}
	if f.iters > 0 {
		opts = append(opts, search.WithIterations(f.iters))
	}
	if f.workers > 0 {
		opts = append(opts, search.WithWorkers(f.workers))
	}
	if f.netPath != "" {
		fh, err := os.Open(f.netPath)
		if err != nil {
			log.Fatal().Err(err).Msg("open net")
		}
		defer fh.Close()
		net, err := search.LoadNetEvaluator(fh)
		if err != nil {
			log.Fatal().Err(err).Msg("load net")
		}
		opts = append(opts, search.WithEvaluator(net))
	}
	return search.New(lib.Chart, opts...)
}

func playerController(f flags, lib *combat.Library, data *config.Data, log zerolog.Logger) combat.Controller {
	switch f.ctrl {
	case "planner":
		// batch workers each own a tree, so the planner itself stays single-threaded there
		if f.mode == "batch" {
			f.workers = 1
		}
		return search.Controller{Planner: newPlanner(f, lib, data, log)}
	case "heuristic":
		return combat.HeuristicController{}
	case "random":
		return combat.RandomController{}
	case "trainer":
		return trainerai.Controller{}
	}
	log.Fatal().Str("ctrl", f.ctrl).Msg("unknown controller")
	return nil
}
