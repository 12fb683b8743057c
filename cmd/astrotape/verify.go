package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/astrotape/internal/storage"
	"github.com/vovakirdan/astrotape/internal/verify"
)

var (
	flagVerifyJSON      bool
	flagVerifyMaxFrames uint32
	flagVerifyNoRecord  bool
)

var verifyCmd = &cobra.Command{
	Use:   "verify <tape-file>",
	Short: "Strictly verify a tape's claimed score",
	Long: `Replay a tape under the strict rule checker and compare the outcome
against the claimed footer. On success a verification journal is printed;
any structural defect, rule violation or footer mismatch fails with a
non-zero exit code and a reason.

Each verdict is also recorded in the local database unless --no-record
is given.

Examples:
  astrotape verify run.tape
  astrotape verify run.tape --json
  astrotape verify run.tape --max-frames 36000`,
	Args: cobra.ExactArgs(1),
	Run:  runVerify,
}

func init() {
	verifyCmd.Flags().BoolVar(&flagVerifyJSON, "json", false, "Print the journal as JSON")
	verifyCmd.Flags().Uint32Var(&flagVerifyMaxFrames, "max-frames", 0, "Tape length cap (0 = config value)")
	verifyCmd.Flags().BoolVar(&flagVerifyNoRecord, "no-record", false, "Do not record the verdict in the database")
}

func runVerify(_ *cobra.Command, args []string) {
	cfg := loadConfig()

	maxFrames := flagVerifyMaxFrames
	if maxFrames == 0 {
		maxFrames = cfg.Verify.MaxFrames
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading tape: %v\n", err)
		os.Exit(1)
	}

	journal, verr := verify.Tape(data, maxFrames)

	if !flagVerifyNoRecord {
		recordVerdict(cfg.Database.Path, journal, verr)
	}

	if verr != nil {
		var mismatch *verify.MismatchError
		if errors.As(verr, &mismatch) {
			fmt.Fprintf(os.Stderr, "REJECTED: %v\n", mismatch)
		} else {
			fmt.Fprintf(os.Stderr, "REJECTED: %v\n", verr)
		}
		os.Exit(1)
	}

	if flagVerifyJSON {
		out, jsonErr := json.MarshalIndent(journal, "", "  ")
		if jsonErr != nil {
			fmt.Fprintf(os.Stderr, "Error encoding journal: %v\n", jsonErr)
			os.Exit(1)
		}
		fmt.Println(string(out))
		return
	}

	fmt.Println("VERIFIED")
	fmt.Printf("  seed         %d\n", journal.Seed)
	fmt.Printf("  frames       %d\n", journal.FrameCount)
	fmt.Printf("  score        %d\n", journal.FinalScore)
	fmt.Printf("  rng state    %#08x\n", journal.FinalRngState)
	fmt.Printf("  tape crc     %08x\n", journal.TapeChecksum)
	fmt.Printf("  rules digest %08x\n", journal.RulesDigest)
}

// recordVerdict stores the outcome in the verification journal table. Storage
// trouble is reported but never changes the verdict.
func recordVerdict(dbPath string, journal *verify.Journal, verr error) {
	store, err := storage.Open(dbPath)
	if err != nil {
		logger.Warn("could not open database to record verdict", "error", err)
		return
	}
	defer store.Close()

	rec := storage.VerificationRecord{Verified: verr == nil}
	if verr != nil {
		rec.Reason = verr.Error()
	}
	if journal != nil {
		rec.Checksum = journal.TapeChecksum
		rec.Seed = journal.Seed
		rec.FrameCount = journal.FrameCount
		rec.Score = journal.FinalScore
		rec.RngState = journal.FinalRngState
		rec.RulesDigest = journal.RulesDigest
	}
	if _, err := store.SaveVerification(rec); err != nil {
		logger.Warn("could not record verdict", "error", err)
	}
}
