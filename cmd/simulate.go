package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"time"

	"github.com/beka-birhanu/vinom-maze/config"
	"github.com/beka-birhanu/vinom-maze/difficulty"
	"github.com/beka-birhanu/vinom-maze/domain"
	"github.com/beka-birhanu/vinom-maze/game"
	logger "github.com/beka-birhanu/vinom-maze/infrastruture/log"
	"github.com/beka-birhanu/vinom-maze/infrastruture/memstore"
	"github.com/beka-birhanu/vinom-maze/service"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

const maxWalkerMoves = 100000

var (
	increasedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	decreasedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	heldStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	headerStyle    = lipgloss.NewStyle().Bold(true).Underline(true)
)

// simulateOptions are the simulate command's flags.
type simulateOptions struct {
	mode     string
	rounds   int
	seed     int64
	show     bool
	blunder  float64
	stepTime time.Duration
	verbose  bool
}

var simOpts simulateOptions

// simulateCmd represents the simulate command
var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Play mazes offline and print how difficulty evolves",
	Long: `Play a number of mazes in memory, either by the solver (autonomous) or by a wandering bot
(interactive), and print every difficulty transition the controller makes.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		var logOut io.Writer = io.Discard
		if simOpts.verbose {
			logOut = cmd.ErrOrStderr()
		}
		_, err := simulate(cmd.Context(), cmd.OutOrStdout(), logOut, simOpts)
		return err
	},
}

func init() {
	rootCmd.AddCommand(simulateCmd)

	simulateCmd.Flags().StringVarP(&simOpts.mode, "mode", "m", string(difficulty.Autonomous), "Who plays: autonomous or interactive")
	simulateCmd.Flags().IntVarP(&simOpts.rounds, "rounds", "n", 10, "Number of mazes to play")
	simulateCmd.Flags().Int64VarP(&simOpts.seed, "seed", "s", 1, "Random seed")
	simulateCmd.Flags().BoolVar(&simOpts.show, "show", false, "Print every maze once carved")
	simulateCmd.Flags().Float64Var(&simOpts.blunder, "blunder", 0.1, "Chance the interactive bot walks into a random direction")
	simulateCmd.Flags().DurationVar(&simOpts.stepTime, "step", 250*time.Millisecond, "Simulated time per move")
	simulateCmd.Flags().BoolVarP(&simOpts.verbose, "verbose", "v", false, "Log service activity, learned values included, to stderr")
}

// simulate plays opts.rounds mazes for one player and writes a line per transition to out.
func simulate(ctx context.Context, out, logOut io.Writer, opts simulateOptions) ([]*domain.Run, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	mode := difficulty.Mode(opts.mode)
	if !mode.Valid() {
		return nil, fmt.Errorf("%w: %q", game.ErrInvalidMode, opts.mode)
	}
	if opts.rounds <= 0 {
		return nil, errors.New("rounds must be positive")
	}

	simLogger, err := logger.New("SIMULATE", config.ColorPurple, logOut)
	if err != nil {
		return nil, err
	}
	simLogger.SetDebug(opts.verbose)

	rng := rand.New(rand.NewSource(opts.seed))
	gameCfg := config.LoadGame()
	runs := memstore.NewRunRepo()

	progress, err := service.NewProgressService(service.ProgressConfig{
		Levels:      gameCfg.Levels,
		Learning:    gameCfg.Learning,
		Reward:      gameCfg.Reward,
		Store:       memstore.NewProgressStore(),
		Runs:        runs,
		Logger:      simLogger,
		RandFactory: func() difficulty.RandomSource { return rand.New(rand.NewSource(rng.Int63())) },
	})
	if err != nil {
		return nil, err
	}

	player := uuid.New()
	clock := game.NewManualClock(time.Unix(0, 0).UTC())
	walker := game.NewWalker(rng, opts.blunder)

	fmt.Fprintln(out, headerStyle.Render(fmt.Sprintf("%s play, %d rounds, seed %d", mode, opts.rounds, opts.seed)))
	for round := 1; round <= opts.rounds; round++ {
		level, err := progress.Level(ctx, player)
		if err != nil {
			return nil, err
		}

		s, err := game.New(game.Config{
			Level:     level,
			Dimension: progress.Dimension(level),
			Mode:      mode,
			Rand:      rng,
			Clock:     clock,
		})
		if err != nil {
			return nil, err
		}

		for s.State() == game.Generating {
			s.Tick()
		}
		if opts.show {
			fmt.Fprint(out, s.Maze().String())
		}

		if mode == difficulty.Autonomous {
			for s.State() == game.Playing {
				clock.Advance(opts.stepTime)
				s.Tick()
			}
		} else if !walker.Play(s, clock, opts.stepTime, maxWalkerMoves) {
			return nil, fmt.Errorf("round %d: bot did not reach the exit in %d moves", round, maxWalkerMoves)
		}

		perf, err := s.Performance()
		if err != nil {
			return nil, err
		}
		simLogger.Debug(fmt.Sprintf("round %d played at level %d: %+v", round, level, perf))
		tr, err := progress.Complete(ctx, player, mode, s.Maze().Dimension(), perf)
		if err != nil {
			return nil, err
		}

		fmt.Fprintf(out, "round %2d  %2dx%-2d  moves %4d  collisions %3d  time %7s  reward %.2f  %s\n",
			round, s.Maze().Width, s.Maze().Height, perf.Moves, perf.Collisions,
			perf.CompletionTime.Round(time.Millisecond), tr.Reward, renderTransition(tr))
	}

	return runs.ByPlayer(ctx, player, 0)
}

func renderTransition(tr difficulty.Transition) string {
	text := fmt.Sprintf("%s %d -> %d", tr.Change, tr.From, tr.To)
	switch tr.Change {
	case difficulty.Increased:
		return increasedStyle.Render(text)
	case difficulty.Decreased:
		return decreasedStyle.Render(text)
	default:
		return heldStyle.Render(text)
	}
}
