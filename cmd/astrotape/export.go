package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/astrotape/internal/storage"
)

var exportCmd = &cobra.Command{
	Use:   "export <tape-checksum> <out-file>",
	Short: "Export a stored run's tape to a file",
	Long: `Write the full tape of a stored run to a file. The checksum is the
hex value shown by 'astrotape scores'. The exported file round-trips
through 'astrotape verify' unchanged.

Examples:
  astrotape export 1c291ca3 run.tape`,
	Args: cobra.ExactArgs(2),
	Run:  runExport,
}

func runExport(_ *cobra.Command, args []string) {
	cfg := loadConfig()

	checksum, err := strconv.ParseUint(args[0], 16, 32)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %q is not a hex checksum\n", args[0])
		os.Exit(1)
	}

	store, err := storage.Open(cfg.Database.Path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening run database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	run, err := store.RunByChecksum(uint32(checksum))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving run: %v\n", err)
		os.Exit(1)
	}
	if run == nil {
		fmt.Fprintf(os.Stderr, "No stored run with tape checksum %08x\n", checksum)
		os.Exit(1)
	}

	if err := os.WriteFile(args[1], run.Tape, 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing tape: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Exported %d bytes (%s, score %d) to %s\n", len(run.Tape), run.Claimant, run.Score, args[1])
}
