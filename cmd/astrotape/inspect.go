package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/astrotape/internal/tape"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <tape-file>",
	Short: "Print a tape's header and footer",
	Long: `Parse a tape and print its structural fields without replaying it.
The tape must still pass every structural check: magic, version, length,
reserved bits and checksum.

Examples:
  astrotape inspect run.tape`,
	Args: cobra.ExactArgs(1),
	Run:  runInspect,
}

func runInspect(_ *cobra.Command, args []string) {
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

	claimant := strings.TrimRight(string(t.Header.Claimant), "\x00")
	held := countHeldFrames(t.Inputs)

	fmt.Printf("%s (%d bytes)\n\n", args[0], len(data))
	fmt.Printf("  magic       %#08x\n", t.Header.Magic)
	fmt.Printf("  version     %d\n", t.Header.Version)
	fmt.Printf("  rules tag   %d\n", t.Header.RulesTag)
	fmt.Printf("  seed        %d\n", t.Header.Seed)
	fmt.Printf("  frames      %d (%.1fs at 60fps)\n", t.Header.FrameCount, float64(t.Header.FrameCount)/60)
	fmt.Printf("  claimant    %q\n", claimant)
	fmt.Printf("  active      %d frames with input held\n", held)
	fmt.Println()
	fmt.Printf("  score       %d\n", t.Footer.FinalScore)
	fmt.Printf("  rng state   %#08x\n", t.Footer.FinalRngState)
	fmt.Printf("  checksum    %08x\n", t.Footer.Checksum)
}

func countHeldFrames(inputs []byte) int {
	held := 0
	for _, b := range inputs {
		if b != 0 {
			held++
		}
	}
	return held
}
