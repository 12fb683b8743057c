package main

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/astrotape/internal/rng"
	"github.com/vovakirdan/astrotape/internal/sim"
	"github.com/vovakirdan/astrotape/internal/tape"
)

var (
	flagBenchSeeds   int
	flagBenchFrames  uint32
	flagBenchWorkers int
	flagBenchSeed    uint32
)

var benchCmd = &cobra.Command{
	Use:   "bench",
	Short: "Measure replay throughput",
	Long: `Replay synthetic runs as fast as possible and report simulation
throughput. This is the number that bounds how quickly a verifier can
chew through submitted tapes.

Each seed gets its own isolated world, so runs are spread across worker
goroutines with no synchronization. Inputs are drawn from a seeded
stream: the same flags always produce the same workload regardless of
worker count.

Examples:
  astrotape bench
  astrotape bench --seeds 64 --frames 18000 --workers 8`,
	Args: cobra.NoArgs,
	Run:  runBench,
}

func init() {
	benchCmd.Flags().IntVar(&flagBenchSeeds, "seeds", 16, "How many seeded runs to replay")
	benchCmd.Flags().Uint32Var(&flagBenchFrames, "frames", tape.MaxFramesDefault, "Frames per run")
	benchCmd.Flags().IntVar(&flagBenchWorkers, "workers", 4, "Worker goroutines")
	benchCmd.Flags().Uint32Var(&flagBenchSeed, "seed", 1, "Workload seed")
}

type benchJob struct {
	seed   uint32
	inputs []byte
}

func runBench(_ *cobra.Command, _ []string) {
	workers := flagBenchWorkers
	if workers < 1 {
		workers = 1
	}

	// Workload generation is sequential so that worker count never changes
	// which runs are replayed.
	stream := rng.NewGameplay(flagBenchSeed)
	jobs := make([]benchJob, flagBenchSeeds)
	for i := range jobs {
		inputs := make([]byte, flagBenchFrames)
		for j := range inputs {
			inputs[j] = byte(stream.Next()) & 0x0F
		}
		jobs[i] = benchJob{seed: stream.Next(), inputs: inputs}
	}

	var totalFrames atomic.Uint64
	var totalScore atomic.Uint64
	jobCh := make(chan benchJob)

	start := time.Now()
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobCh {
				result := sim.Replay(job.seed, job.inputs)
				totalFrames.Add(uint64(result.FrameCount))
				totalScore.Add(uint64(result.FinalScore))
			}
		}()
	}
	for _, job := range jobs {
		jobCh <- job
	}
	close(jobCh)
	wg.Wait()
	elapsed := time.Since(start)

	frames := totalFrames.Load()
	perSec := float64(frames) / elapsed.Seconds()

	fmt.Printf("Replayed %d seeds, %d frames in %s (%d workers)\n",
		flagBenchSeeds, frames, elapsed.Round(time.Millisecond), workers)
	fmt.Printf("  %.0f frames/sec (%.0fx realtime)\n", perSec, perSec/60)
	if flagBenchSeeds > 0 {
		fmt.Printf("  mean score %d\n", totalScore.Load()/uint64(flagBenchSeeds))
	}
}
