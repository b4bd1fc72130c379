package main

import (
	"cmp"
	"fmt"
	"os"
	"os/signal"
	"slices"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/snuake/internal/core"
	"github.com/vovakirdan/snuake/internal/games/snake"
	"github.com/vovakirdan/snuake/internal/multiplayer"
	"github.com/vovakirdan/snuake/internal/storage"
)

var (
	flagBots     int
	flagTicks    uint64
	flagTickRate int
	flagSkill    float64
	flagRender   bool
	flagNoSave   bool
)

var simCmd = &cobra.Command{
	Use:   "sim",
	Short: "Run an arena with bot players",
	Long: `Start the arena server and connect scripted bots to it. The run ends
after --ticks ticks, or on Ctrl+C when --ticks is 0. Final scores are
printed and saved to the scores database.

Examples:
  snuake sim
  snuake sim --bots 8 --ticks 1000 --tick-rate 60
  snuake sim --seed 7 --render
  snuake sim --ticks 0 --verbose`,
	Args: cobra.NoArgs,
	RunE: runSim,
}

func init() {
	simCmd.Flags().IntVar(&flagBots, "bots", 4, "Number of bot players")
	simCmd.Flags().Uint64Var(&flagTicks, "ticks", 400, "Ticks to run (0 = until interrupted)")
	simCmd.Flags().IntVar(&flagTickRate, "tick-rate", 0, "Ticks per second (0 = from config)")
	simCmd.Flags().Float64Var(&flagSkill, "skill", 0.8, "Bot skill between 0 and 1")
	simCmd.Flags().BoolVar(&flagRender, "render", false, "Print the final grid")
	simCmd.Flags().BoolVar(&flagNoSave, "no-save", false, "Do not record scores")
}

func runSim(cmd *cobra.Command, _ []string) error {
	if flagBots < 1 {
		return fmt.Errorf("--bots must be at least 1, got %d", flagBots)
	}
	if flagTickRate < 0 || flagTickRate > core.MaxTickRate {
		return fmt.Errorf("--tick-rate must be in 0..%d, got %d", core.MaxTickRate, flagTickRate)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger()

	seed := core.RuntimeConfig{Seed: flagSeed}.ResolveSeed()
	builder, err := cfg.Game.Builder(seed)
	if err != nil {
		return err
	}
	state := builder.Build()

	srvCfg, err := cfg.Server.Multiplayer()
	if err != nil {
		return err
	}
	if flagTickRate > 0 {
		srvCfg.TickRate = flagTickRate
	}
	srvCfg.MaxTicks = flagTicks

	server := multiplayer.NewServer(srvCfg, state, logger)

	if !flagNoSave {
		store, err := storage.Open(cfg.Storage.Path)
		if err != nil {
			logger.Warn("could not open scores database", "error", err)
			// Continue without storage
		} else {
			defer store.Close()
			server.SetScoreSaver(store)
		}
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("arena started",
		"seed", seed,
		"bots", flagBots,
		"grid", fmt.Sprintf("%dx%d", cfg.Game.Rows, cfg.Game.Cols),
		"tick_rate", srvCfg.TickRate,
	)
	go server.Run(ctx)

	for i := 0; i < flagBots; i++ {
		go multiplayer.NewBot(server, seed+int64(i)+1, flagSkill).Run(ctx)
	}
	<-server.Done()

	printResults(cmd, state, server.Results())
	return nil
}

func printResults(cmd *cobra.Command, state *snake.GameState, results []multiplayer.ScoreRecord) {
	out := cmd.OutOrStdout()

	if flagRender {
		title := fmt.Sprintf("Tick: %d | Snakes: %d | Props: %d",
			state.TickCount(), len(state.Snakes()), state.PropCount())
		fmt.Fprint(out, snake.RenderASCII(state.GridData(), title))
		fmt.Fprintln(out)
	}

	slices.SortStableFunc(results, func(a, b multiplayer.ScoreRecord) int {
		return cmp.Compare(b.Score, a.Score)
	})

	fmt.Fprintf(out, "Final scores after %d ticks\n\n", state.TickCount())
	fmt.Fprintf(out, "  %-4s  %-5s  %-8s  %s\n", "Rank", "Snake", "Score", "Session")
	fmt.Fprintf(out, "  %-4s  %-5s  %-8s  %s\n", "----", "-----", "-----", "-------")
	for i, r := range results {
		fmt.Fprintf(out, "  %-4d  %-5d  %-8d  %s\n", i+1, r.SnakeID, r.Score, r.SessionID)
	}
}
