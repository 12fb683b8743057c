package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/astrotape/internal/driver"
	"github.com/vovakirdan/astrotape/internal/platform/tui"
	"github.com/vovakirdan/astrotape/internal/sim"
	"github.com/vovakirdan/astrotape/internal/tape"
)

var (
	flagCheckpointStride uint32
	flagWatch            bool
)

var replayCmd = &cobra.Command{
	Use:   "replay <tape-file>",
	Short: "Re-run a tape headless and print the outcome",
	Long: `Replay a recorded tape through the simulation without a display and
print the resulting score, frame count and RNG state. The claimed footer
values are shown alongside for comparison, but no verdict is issued; use
'astrotape verify' for that.

With --watch, the run plays back inside the terminal at its original
pace instead.

With --checkpoints, intermediate world fingerprints are printed every N
frames, which helps pin down where two diverging replays part ways.

Examples:
  astrotape replay run.tape
  astrotape replay run.tape --checkpoints 600
  astrotape replay run.tape --watch`,
	Args: cobra.ExactArgs(1),
	Run:  runReplay,
}

func init() {
	replayCmd.Flags().Uint32Var(&flagCheckpointStride, "checkpoints", 0, "Print a world fingerprint every N frames (0 = off)")
	replayCmd.Flags().BoolVar(&flagWatch, "watch", false, "Watch the replay in the terminal at the original pace")
}

func runReplay(_ *cobra.Command, args []string) {
	cfg := loadConfig()

	data, err := os.ReadFile(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading tape: %v\n", err)
		os.Exit(1)
	}

	t, err := tape.Parse(data, cfg.Verify.MaxFrames)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing tape: %v\n", err)
		os.Exit(1)
	}

	if flagWatch {
		if err := tui.Watch(t, cfg); err != nil {
			fmt.Fprintf(os.Stderr, "Error watching replay: %v\n", err)
			os.Exit(1)
		}
		return
	}

	logger.Debug("replaying tape",
		"seed", t.Header.Seed,
		"frames", t.Header.FrameCount,
		"claimant", string(t.Header.Claimant),
	)

	start := time.Now()
	game := sim.NewLiveGame(t.Header.Seed)
	result, err := driver.RunHeadless(context.Background(), game, driver.NewTapeSource(t.Inputs), t.Header.FrameCount)
	elapsed := time.Since(start)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error replaying tape: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Replayed %d frames in %s\n\n", result.FrameCount, elapsed.Round(time.Microsecond))
	fmt.Printf("  %-12s  %-10s  %s\n", "", "computed", "claimed")
	fmt.Printf("  %-12s  %-10d  %d\n", "score", result.FinalScore, t.Footer.FinalScore)
	fmt.Printf("  %-12s  %#-10x  %#x\n", "rng state", result.FinalRngState, t.Footer.FinalRngState)

	if flagCheckpointStride > 0 {
		fmt.Println()
		for _, cp := range sim.ReplayWithCheckpoints(t.Header.Seed, t.Inputs, flagCheckpointStride) {
			fmt.Printf("  frame %-6d  score %-8d  wave %-3d  lives %d  rng %#08x\n",
				cp.FrameCount, cp.Score, cp.Wave, cp.Lives, cp.RngState)
		}
	}
}
