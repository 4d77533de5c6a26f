package ai

import (
	"math"
	"math/rand"
	"runtime"
	"sync"

	"github.com/yourusername/gammon/pkg/game"
)

// RolloutOptions controls the parallel win-rate rollout.
type RolloutOptions struct {
	Trials   int   // number of games to simulate (default 432)
	MaxPlies int   // abort a game after this many plies (default 500)
	Seed     int64 // RNG seed (0 = random)
	Workers  int   // parallel workers (0 = GOMAXPROCS)
}

// DefaultRolloutOptions returns sensible defaults.
func DefaultRolloutOptions() RolloutOptions {
	return RolloutOptions{
		Trials:   432,
		MaxPlies: 500,
		Seed:     0,
		Workers:  0,
	}
}

// RolloutResult aggregates the simulated games.
type RolloutResult struct {
	WinProb       float64 `json:"win_prob"`
	PointsPerGame float64 `json:"points_per_game"`
	PointsStdDev  float64 `json:"points_std_dev"`
	PointsCI      float64 `json:"points_ci"` // 95% confidence interval

	Trials         int `json:"trials"`
	GamesWon       int `json:"games_won"`
	GammonsWon     int `json:"gammons_won"`
	BackgammonsWon int `json:"backgammons_won"`
	GamesLost      int `json:"games_lost"`
	Unfinished     int `json:"unfinished"`
}

// RolloutProgress is a snapshot of a running rollout.
type RolloutProgress struct {
	TrialsCompleted int     `json:"trials_completed"`
	TrialsTotal     int     `json:"trials_total"`
	Percent         float64 `json:"percent"`
	CurrentWinProb  float64 `json:"current_win_prob"`
	CurrentPoints   float64 `json:"current_points"`
}

// ProgressCallback is called periodically during a rollout.
type ProgressCallback func(progress RolloutProgress)

// partialResult holds one worker's share.
type partialResult struct {
	sumPoints   float64
	sumSqPoints float64
	trials      int
	wins        int
	gammonsWon  int
	bgsWon      int
	losses      int
	unfinished  int
}

// Rollout estimates the win probability and average game points for the
// state's active player by playing random games to completion. Each worker
// gets its own deep copy of the state and its own RNG, so the input state
// is never touched.
func Rollout(s *game.State, opts RolloutOptions) *RolloutResult {
	return RolloutWithProgress(s, opts, nil)
}

// RolloutWithProgress runs Rollout and reports progress after each batch of
// completed trials.
func RolloutWithProgress(s *game.State, opts RolloutOptions, callback ProgressCallback) *RolloutResult {
	if opts.Trials <= 0 {
		opts.Trials = 432
	}
	if opts.MaxPlies <= 0 {
		opts.MaxPlies = 500
	}
	if opts.Workers <= 0 {
		opts.Workers = runtime.GOMAXPROCS(0)
	}
	if opts.Seed == 0 {
		opts.Seed = rand.Int63()
	}

	player := s.Turn()
	trialsPerWorker := opts.Trials / opts.Workers
	extraTrials := opts.Trials % opts.Workers

	// Workers report in batches so progress stays responsive.
	batchSize := opts.Trials / 20
	if batchSize < 1 {
		batchSize = 1
	}

	results := make(chan partialResult, opts.Workers*24)
	var wg sync.WaitGroup

	for i := 0; i < opts.Workers; i++ {
		trials := trialsPerWorker
		if i < extraTrials {
			trials++
		}
		seed := opts.Seed + int64(i)*1000000

		wg.Add(1)
		go func(trials int, seed int64) {
			defer wg.Done()
			worker := s.Copy()
			for remaining := trials; remaining > 0; remaining -= batchSize {
				batch := batchSize
				if batch > remaining {
					batch = remaining
				}
				results <- rolloutWorker(worker, player, batch, seed, opts.MaxPlies)
				seed++
			}
		}(trials, seed)
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	return aggregate(results, opts.Trials, callback)
}

func rolloutWorker(s *game.State, player, trials int, seed int64, maxPlies int) partialResult {
	rng := rand.New(rand.NewSource(seed))
	pr := partialResult{}
	start := s.PositionList()
	startTurn := s.Turn()

	for trial := 0; trial < trials; trial++ {
		result := playOutGame(s, rng, maxPlies)
		pr.trials++

		if result == nil {
			pr.unfinished++
		} else if result.Winner == player {
			pr.wins++
			pr.sumPoints += float64(result.Points)
			pr.sumSqPoints += float64(result.Points * result.Points)
			switch result.Kind {
			case game.ResultGammon:
				pr.gammonsWon++
			case game.ResultBackgammon:
				pr.bgsWon++
			}
		} else {
			pr.losses++
			pr.sumPoints -= float64(result.Points)
			pr.sumSqPoints += float64(result.Points * result.Points)
		}

		// Rebuild the start position for the next trial.
		if err := s.StartGame(start, startTurn); err != nil {
			panic(err) // the list came from a valid state
		}
	}
	return pr
}

// playOutGame plays random legal moves until the game ends or maxPlies is
// reached, returning nil for an unfinished game.
func playOutGame(s *game.State, rng *rand.Rand, maxPlies int) *game.GameResult {
	for ply := 0; ply < maxPlies; ply++ {
		if result := game.GameOver(s, 1); result != nil {
			return result
		}

		dice := []int{rng.Intn(6) + 1, rng.Intn(6) + 1}
		moves := game.GenerateLegalMoves(s, dice)
		if len(moves) > 0 {
			move := moves[rng.Intn(len(moves))]
			for _, sm := range move {
				s.Apply(sm)
			}
		}
		s.SwitchTurn()
	}
	return game.GameOver(s, 1)
}

func aggregate(results chan partialResult, totalTrials int, callback ProgressCallback) *RolloutResult {
	var (
		sumPoints, sumSqPoints float64
		trials                 int
		wins, gammons, bgs     int
		losses, unfinished     int
	)

	for pr := range results {
		sumPoints += pr.sumPoints
		sumSqPoints += pr.sumSqPoints
		trials += pr.trials
		wins += pr.wins
		gammons += pr.gammonsWon
		bgs += pr.bgsWon
		losses += pr.losses
		unfinished += pr.unfinished

		if callback != nil && trials > 0 {
			callback(RolloutProgress{
				TrialsCompleted: trials,
				TrialsTotal:     totalTrials,
				Percent:         100.0 * float64(trials) / float64(totalTrials),
				CurrentWinProb:  float64(wins) / float64(trials),
				CurrentPoints:   sumPoints / float64(trials),
			})
		}
	}

	n := float64(trials)
	if n == 0 {
		return &RolloutResult{}
	}

	result := &RolloutResult{
		WinProb:        float64(wins) / n,
		PointsPerGame:  sumPoints / n,
		Trials:         trials,
		GamesWon:       wins,
		GammonsWon:     gammons,
		BackgammonsWon: bgs,
		GamesLost:      losses,
		Unfinished:     unfinished,
	}

	if n > 1 {
		result.PointsStdDev = calcStdDev(sumPoints, sumSqPoints, n)
		result.PointsCI = 1.96 * result.PointsStdDev / math.Sqrt(n)
	}
	return result
}

// calcStdDev calculates the sample standard deviation from a sum and a sum
// of squares, with Bessel's correction.
func calcStdDev(sum, sumSq, n float64) float64 {
	if n <= 1 {
		return 0
	}
	mean := sum / n
	variance := (sumSq/n - mean*mean) * n / (n - 1)
	if variance < 0 {
		variance = 0
	}
	return math.Sqrt(variance)
}
