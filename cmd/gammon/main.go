// gammon - a backgammon rules and analysis engine
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/yourusername/gammon/internal/config"
	"github.com/yourusername/gammon/pkg/ai"
	"github.com/yourusername/gammon/pkg/game"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "moves":
		cmdMoves(args)
	case "eval":
		cmdEval(args)
	case "bestmove":
		cmdBestMove(args)
	case "selfplay":
		cmdSelfPlay(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`gammon - Backgammon Rules and Analysis Engine

Usage: gammon <command> [options]

Commands:
  moves     List all legal turn moves for a dice roll
  eval      Evaluate a position heuristically
  bestmove  Select the best move by Monte Carlo search
  selfplay  Play complete games engine vs engine

Use "gammon <command> -h" for command-specific help.

Position Format:
  A position is the JSON encoding of two (point,count) lists, one per
  player, with point -1 meaning borne off. The literal "start" gives
  the standard opening position.
  Example: '[[{"point":24,"count":2},...],[{"point":1,"count":2},...]]'`)
}

func parsePosition(posStr string, turn int) (*game.State, error) {
	if posStr == "" || posStr == "start" {
		return game.NewStateFromList(game.StartingPosition(), turn)
	}
	var position game.PositionList
	if err := json.Unmarshal([]byte(posStr), &position); err != nil {
		return nil, fmt.Errorf("invalid position: %w", err)
	}
	return game.NewStateFromList(position, turn)
}

func parseDice(diceStr string) ([]int, error) {
	parts := strings.Split(diceStr, ",")
	if len(parts) != 2 {
		parts = strings.Split(diceStr, "-")
	}
	if len(parts) != 2 {
		return nil, fmt.Errorf("dice should be in format '3,1' or '3-1'")
	}

	d1, err1 := strconv.Atoi(strings.TrimSpace(parts[0]))
	d2, err2 := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err1 != nil || err2 != nil || d1 < 1 || d1 > 6 || d2 < 1 || d2 > 6 {
		return nil, fmt.Errorf("dice values must be 1-6")
	}

	return []int{d1, d2}, nil
}

func loadConfig() *config.Config {
	cfg, err := config.InitConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	return cfg
}

func valuationFromConfig(cfg *config.Config) *ai.Valuation {
	w := ai.Weights{
		BearOff:    cfg.Valuation.BearOff,
		Home:       cfg.Valuation.Home,
		Blots:      cfg.Valuation.Blots,
		Blockades:  cfg.Valuation.Blockades,
		Pip:        cfg.Valuation.Pip,
		NormFactor: cfg.Valuation.NormFactor,
	}
	return ai.NewValuation(w, cfg.Valuation.CacheSize)
}

func searchFromConfig(cfg *config.Config) ai.SelectorOptions {
	return ai.SelectorOptions{
		MinDepth:   cfg.Search.MinDepth,
		MaxDepth:   cfg.Search.MaxDepth,
		Iterations: cfg.Search.Iterations,
		Explore:    cfg.Search.Explore,
	}
}

func cmdMoves(args []string) {
	fs := flag.NewFlagSet("moves", flag.ExitOnError)
	posFlag := fs.String("position", "start", "Position (JSON or 'start')")
	turnFlag := fs.Int("turn", 0, "Active player (0 or 1)")
	diceFlag := fs.String("dice", "", "Dice roll (e.g., 3,1 or 3-1)")
	treeFlag := fs.Bool("tree", false, "Print the move tree instead of a flat list")
	fs.Parse(args)

	dice, err := parseDice(*diceFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	s, err := parsePosition(*posFlag, *turnFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	moves := game.GenerateLegalMoves(s, dice)
	if len(moves) == 0 {
		fmt.Println("No legal moves.")
		return
	}

	if *treeFlag {
		tree := game.NewMoveTree(moves)
		tree.Walk(func(path game.TurnMove, options []game.SingleMove) {
			indent := strings.Repeat("  ", len(path))
			for _, m := range options {
				fmt.Printf("%s%s\n", indent, m)
			}
		})
		return
	}

	fmt.Printf("%d legal turn moves for %v:\n", len(moves), dice)
	for i, tm := range moves {
		fmt.Printf("%3d. %s\n", i+1, tm)
	}
}

func cmdEval(args []string) {
	fs := flag.NewFlagSet("eval", flag.ExitOnError)
	posFlag := fs.String("position", "start", "Position (JSON or 'start')")
	turnFlag := fs.Int("turn", 0, "Active player (0 or 1)")
	playerFlag := fs.Int("player", 0, "Player to score for (0 or 1)")
	fs.Parse(args)

	s, err := parsePosition(*posFlag, *turnFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	cfg := loadConfig()
	val := valuationFromConfig(cfg)

	score := val.Evaluate(s, *playerFlag)
	fmt.Printf("Score for player %d: %+.4f\n", *playerFlag, score)
	fmt.Printf("  Blots:       %d own, %d opponent\n",
		ai.CountBlots(s, *playerFlag), ai.CountBlots(s, 1-*playerFlag))
	fmt.Printf("  Home stones: %d own, %d opponent\n",
		ai.CountHomeStones(s, *playerFlag), ai.CountHomeStones(s, 1-*playerFlag))
	fmt.Printf("  Borne off:   %d own, %d opponent\n",
		s.BorneOff(*playerFlag), s.BorneOff(1-*playerFlag))
}

func cmdBestMove(args []string) {
	fs := flag.NewFlagSet("bestmove", flag.ExitOnError)
	posFlag := fs.String("position", "start", "Position (JSON or 'start')")
	turnFlag := fs.Int("turn", 0, "Active player (0 or 1)")
	diceFlag := fs.String("dice", "", "Dice roll (e.g., 3,1 or 3-1)")
	iterFlag := fs.Int("iterations", 0, "Search iterations (0 = configured default)")
	seedFlag := fs.Int64("seed", 0, "RNG seed (0 = time-based)")
	fs.Parse(args)

	dice, err := parseDice(*diceFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	s, err := parsePosition(*posFlag, *turnFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	cfg := loadConfig()
	val := valuationFromConfig(cfg)
	opts := searchFromConfig(cfg)
	if *iterFlag > 0 {
		opts.Iterations = *iterFlag
	}
	seed := *seedFlag
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	legal := game.GenerateLegalMoves(s, dice)
	sel := ai.NewSelector(val, opts, rand.New(rand.NewSource(seed)))

	start := time.Now()
	move, err := sel.SelectMove(s, legal)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	elapsed := time.Since(start)

	if move == nil {
		fmt.Println("No legal moves.")
		return
	}
	fmt.Printf("Best move: %s\n", move)
	fmt.Printf("  %d candidates, %d iterations, %v\n", len(legal), opts.Iterations, elapsed.Round(time.Millisecond))
}

func cmdSelfPlay(args []string) {
	fs := flag.NewFlagSet("selfplay", flag.ExitOnError)
	gamesFlag := fs.Int("games", 1, "Number of games to play")
	seedFlag := fs.Int64("seed", 0, "RNG seed (0 = time-based)")
	cubeFlag := fs.Bool("cube", false, "Enable doubling cube decisions")
	verboseFlag := fs.Bool("v", false, "Print every move")
	fs.Parse(args)

	cfg := loadConfig()
	val := valuationFromConfig(cfg)
	opts := searchFromConfig(cfg)

	seed := *seedFlag
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	wins := [2]int{}
	points := [2]int{}

	for g := 0; g < *gamesFlag; g++ {
		result, err := playGame(val, opts, rng, *cubeFlag, *verboseFlag)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		wins[result.Winner]++
		points[result.Winner] += result.Points
		fmt.Printf("Game %d: player %d wins %d point(s) (%s)\n",
			g+1, result.Winner, result.Points, result.Kind)
	}

	fmt.Printf("\nTotals after %d game(s):\n", *gamesFlag)
	for p := 0; p < 2; p++ {
		fmt.Printf("  Player %d: %d wins, %d points\n", p, wins[p], points[p])
	}
}

// playGame runs a single engine-vs-engine game to completion.
func playGame(val *ai.Valuation, opts ai.SelectorOptions, rng *rand.Rand, useCube, verbose bool) (*game.GameResult, error) {
	s := game.NewState()
	if err := s.StartGame(game.StartingPosition(), 0); err != nil {
		return nil, err
	}
	undo := game.NewUndoManager(0, 0)
	undo.RecordSnapshot(s)

	sel := ai.NewSelector(val, opts, rng)
	cubeValue := 1

	// Opening roll: higher die starts, and the roll is played.
	var dice []int
	for {
		d1, d2 := rng.Intn(6)+1, rng.Intn(6)+1
		if d1 == d2 {
			continue
		}
		if d1 > d2 {
			s.SetTurn(0)
		} else {
			s.SetTurn(1)
		}
		dice = []int{d1, d2}
		break
	}

	for ply := 0; ; ply++ {
		if ply > 0 {
			dice = []int{rng.Intn(6) + 1, rng.Intn(6) + 1}
		}

		if useCube && ply > 0 && val.OfferDouble(s, s.Turn()) {
			if !val.AcceptDouble(s, s.Opponent()) {
				return &game.GameResult{
					Winner:    s.Turn(),
					Points:    cubeValue,
					CubeValue: cubeValue,
					Kind:      game.ResultDrop,
				}, nil
			}
			cubeValue *= 2
		}

		legal := game.GenerateLegalMoves(s, dice)
		move, err := sel.SelectMove(s, legal)
		if err != nil {
			return nil, err
		}
		if move != nil {
			for _, m := range move {
				s.Apply(m)
				undo.RecordMove(m)
			}
			if verbose {
				fmt.Printf("  [%3d] player %d rolls %v: %s\n", ply, s.Turn(), dice, move)
			}
		} else if verbose {
			fmt.Printf("  [%3d] player %d rolls %v: no move\n", ply, s.Turn(), dice)
		}

		if result := game.GameOver(s, cubeValue); result != nil {
			return result, nil
		}
		s.SwitchTurn()
	}
}
