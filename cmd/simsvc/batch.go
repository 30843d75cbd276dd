package main

import (
	"os"
	"runtime"
	"sync"

	"github.com/rs/zerolog"

	"pbs/internal/combat"
	"pbs/internal/search"
	"pbs/internal/trainerai"
	"pbs/internal/util"
)

type batchSummary struct {
	Runs        int            `json:"runs"`
	Wins        int            `json:"wins"`
	Draws       int            `json:"draws"`
	Errors      int            `json:"errors"`
	WinRate     float64        `json:"win_rate"`
	AvgTurns    float64        `json:"avg_turns"`
	AvgFainted  [2]float64     `json:"avg_fainted"`
	AvgHPLeft   [2]float64     `json:"avg_hp_left"`
	TurnBuckets map[string]int `json:"turn_buckets"`
}

func batchWorkers(n int) int {
	if n > 0 {
		return n
	}
	return runtime.NumCPU()
}

// gameSeed gives game i of a batch its seed. Only the game index counts.
func gameSeed(seed int64, i int) int64 {
	return util.Derive(seed, 0, i)
}

func turnBucket(turns int) string {
	switch {
	case turns <= 5:
		return "1-5"
	case turns <= 10:
		return "6-10"
	case turns <= 20:
		return "11-20"
	case turns <= 40:
		return "21-40"
	}
	return "41+"
}

// runBatch plays n battles from st against the trainer AI, spread over a worker pool. Game i
// is seeded by its index alone, so the summary does not depend on which worker ran it.
func runBatch(st *combat.BattleState, chart *combat.TypeChart, ctrl combat.Controller, n, workers int, seed int64, log zerolog.Logger) batchSummary {
	sum := batchSummary{Runs: n, TurnBuckets: map[string]int{}}
	base := combat.NewEnv(seed, chart)
	var mu sync.Mutex
	wg := sync.WaitGroup{}
	jobs := make(chan int, n)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				env := base.Fork(gameSeed(seed, i))
				res, err := combat.RunMatch(env, st, [2]combat.Controller{ctrl, trainerai.Controller{}},
					combat.MatchOptions{Log: zerolog.Nop()})

				mu.Lock()
				if err != nil {
					sum.Errors++
					log.Error().Err(err).Int("game", i).Msg("battle failed")
					mu.Unlock()
					continue
				}
				if res.Win {
					sum.Wins++
				} else if res.Winner == "draw" {
					sum.Draws++
				}
				sum.AvgTurns += float64(res.Turns)
				for s := 0; s < 2; s++ {
					sum.AvgFainted[s] += float64(res.Fainted[s])
					sum.AvgHPLeft[s] += res.HPLeft[s]
				}
				sum.TurnBuckets[turnBucket(res.Turns)]++
				mu.Unlock()
			}
		}()
	}
	for i := 0; i < n; i++ {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	if played := n - sum.Errors; played > 0 {
		f := float64(played)
		sum.WinRate = float64(sum.Wins) / f
		sum.AvgTurns /= f
		for s := 0; s < 2; s++ {
			sum.AvgFainted[s] /= f
			sum.AvgHPLeft[s] /= f
		}
	}
	log.Info().Int("runs", n).Int("wins", sum.Wins).Float64("win_rate", sum.WinRate).Msg("batch finished")
	return sum
}

// train collects every position the player decided in n heuristic-vs-trainer battles, labels
// it with the battle's outcome and fits a fresh value network on them.
func train(st *combat.BattleState, chart *combat.TypeChart, n, workers, epochs int, seed int64, log zerolog.Logger) (*search.NetEvaluator, int) {
	var (
		mu      sync.Mutex
		samples []search.Sample
	)
	base := combat.NewEnv(seed, chart)
	wg := sync.WaitGroup{}
	jobs := make(chan int, n)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				var seen [][]float64
				rec := combat.ControllerFunc(func(env *combat.Env, st *combat.BattleState, side combat.Side) combat.Action {
					seen = append(seen, combat.Encode(st, side))
					return combat.HeuristicController{}.Choose(env, st, side)
				})
				env := base.Fork(gameSeed(seed, i))
				res, err := combat.RunMatch(env, st, [2]combat.Controller{rec, trainerai.Controller{}},
					combat.MatchOptions{Log: zerolog.Nop()})
				if err != nil {
					log.Error().Err(err).Int("game", i).Msg("battle failed")
					continue
				}
				reward := 0.0
				switch {
				case res.Win:
					reward = 1
				case res.Winner == "draw":
					reward = 0.5
				}
				mu.Lock()
				for _, in := range seen {
					samples = append(samples, search.Sample{Input: in, Reward: reward})
				}
				mu.Unlock()
			}
		}()
	}
	for i := 0; i < n; i++ {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	net := search.NewNetEvaluator(search.DefaultNetConfig())
	net.Fit(samples, epochs, 0.01)
	log.Info().Int("games", n).Int("positions", len(samples)).Int("epochs", epochs).Msg("value network trained")
	return net, len(samples)
}

func saveNet(net *search.NetEvaluator, path string) error {
	fh, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := net.Save(fh); err != nil {
		fh.Close()
		return err
	}
	return fh.Close()
}
