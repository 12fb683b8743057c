package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/astrotape/internal/platform/tui"
	"github.com/vovakirdan/astrotape/internal/storage"
)

var (
	flagPlaySeed uint32
	flagClaimant string
	flagNoStore  bool
	flagRecord   string
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play in the terminal, recording a tape",
	Long: `Start an interactive run. Your inputs are recorded frame by frame;
when the run ends the sealed tape is stored in the local database under
your claimant name.

Controls:
  Left/Right or A/D  - Turn
  Up or W            - Thrust
  Space              - Fire
  R                  - New run (after game over)
  Tab                - Scoreboard (after game over)
  Q/Ctrl+C           - Quit

Examples:
  astrotape play
  astrotape play --seed 12345
  astrotape play --claimant ace --no-store
  astrotape play --record run.tape`,
	Args: cobra.NoArgs,
	Run:  runPlay,
}

func init() {
	playCmd.Flags().Uint32Var(&flagPlaySeed, "seed", 0, "Gameplay seed (0 = from the clock)")
	playCmd.Flags().StringVar(&flagClaimant, "claimant", "", "Claimant name written into the tape")
	playCmd.Flags().BoolVar(&flagNoStore, "no-store", false, "Do not persist the finished tape")
	playCmd.Flags().StringVar(&flagRecord, "record", "", "Also write the last finished run's tape to this file")
}

func runPlay(_ *cobra.Command, _ []string) {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		fmt.Fprintln(os.Stderr, "Error: play needs an interactive terminal")
		os.Exit(1)
	}

	cfg := loadConfig()

	claimant := flagClaimant
	if claimant == "" {
		claimant = cfg.Player.Claimant
	}

	seed := flagPlaySeed
	if seed == 0 {
		seed = uint32(time.Now().UnixNano())
	}

	var store *storage.Store
	if !flagNoStore {
		var err error
		store, err = storage.Open(cfg.Database.Path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not open run database: %v\n", err)
			// Continue without storage - the game still plays
			store = nil
		}
	}
	if store != nil {
		defer store.Close()
	}

	lastTape, err := tui.Run(store, cfg, claimant, seed)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error running game: %v\n", err)
		os.Exit(1)
	}

	if flagRecord != "" {
		if lastTape == nil {
			fmt.Fprintln(os.Stderr, "No finished run to record.")
			return
		}
		if err := os.WriteFile(flagRecord, lastTape, 0o644); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing tape: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Recorded %d bytes to %s\n", len(lastTape), flagRecord)
	}
}
