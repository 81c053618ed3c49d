// Stationstats prints per-key min/mean/max for a file of "key;value" records.
//
// Usage:
//
//	go run ./cmd/stationstats -block 8388608 data/measurements.txt
//
// Flags:
//
//	-block       Reader block size in bytes (default: 4 MiB)
//	-workers     Number of aggregation workers, 0 for one per CPU (default: 0)
//	-queue       Chunks buffered between reader and workers, -1 for 2×workers (default: -1)
//	-hash        Key hash: xxh64, xxh3 or murmur3 (default: xxh64)
//	-mmap        Memory-map the input instead of reading blocks
//	-digest      Print the xxHash64 of the report to stderr
//	-stats       Print timing and peak RSS to stderr
//	-v           Debug logging to stderr
//	-cpuprofile  Write a CPU profile to file
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"runtime/pprof"
	"syscall"
	"time"

	"github.com/tamirms/stationstats"
)

const defaultInput = "data/measurements.txt"

// getMaxRSS returns the maximum resident set size in bytes.
func getMaxRSS() uint64 {
	var rusage syscall.Rusage
	if err := syscall.Getrusage(syscall.RUSAGE_SELF, &rusage); err != nil {
		return 0
	}
	// On macOS, MaxRss is in bytes. On Linux, it's in kilobytes.
	maxRSS := uint64(rusage.Maxrss)
	if runtime.GOOS == "linux" {
		maxRSS *= 1024
	}
	return maxRSS
}

func main() {
	blockFlag := flag.Int("block", stationstats.DefaultBlockSize, "reader block size in bytes")
	workersFlag := flag.Int("workers", 0, "number of aggregation workers (0 = one per CPU)")
	queueFlag := flag.Int("queue", -1, "chunks buffered between reader and workers (-1 = 2×workers)")
	hashFlag := flag.String("hash", stationstats.HashXXH64.String(), "key hash: xxh64, xxh3 or murmur3")
	mmapFlag := flag.Bool("mmap", false, "memory-map the input")
	digestFlag := flag.Bool("digest", false, "print the report digest to stderr")
	statsFlag := flag.Bool("stats", false, "print timing and peak RSS to stderr")
	verbose := flag.Bool("v", false, "debug logging")
	cpuprofile := flag.String("cpuprofile", "", "write cpu profile to file")
	flag.Parse()

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	path := defaultInput
	if flag.NArg() > 0 {
		path = flag.Arg(0)
	}

	hash, err := stationstats.ParseHashAlgorithm(*hashFlag)
	if err != nil {
		logger.Error("invalid flag", slog.String("flag", "hash"), slog.Any("error", err))
		os.Exit(2)
	}

	opts := []stationstats.Option{
		stationstats.WithBlockSize(*blockFlag),
		stationstats.WithWorkers(*workersFlag),
		stationstats.WithHash(hash),
		stationstats.WithLogger(logger),
	}
	if *queueFlag >= 0 {
		opts = append(opts, stationstats.WithQueueDepth(*queueFlag))
	}
	if *mmapFlag {
		opts = append(opts, stationstats.WithMmap())
	}

	if *cpuprofile != "" {
		f, err := os.Create(*cpuprofile)
		if err != nil {
			logger.Error("could not create CPU profile", slog.Any("error", err))
			os.Exit(1)
		}
		defer func() { _ = f.Close() }()
		if err := pprof.StartCPUProfile(f); err != nil {
			logger.Error("could not start CPU profile", slog.Any("error", err))
			os.Exit(1)
		}
		defer pprof.StopCPUProfile()
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, path, opts, *digestFlag, *statsFlag); err != nil {
		logger.Error("run failed", slog.String("input", path), slog.Any("error", err))
		pprof.StopCPUProfile()
		os.Exit(1)
	}
}

func run(ctx context.Context, path string, opts []stationstats.Option, digest, stats bool) error {
	start := time.Now()
	res, err := stationstats.AggregateFile(ctx, path, opts...)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	out := bufio.NewWriter(os.Stdout)
	if _, err := res.WriteTo(out); err != nil {
		return err
	}
	if err := out.Flush(); err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	if digest {
		fmt.Fprintf(os.Stderr, "digest: %016x\n", res.Digest())
	}
	if stats {
		fmt.Fprintf(os.Stderr, "keys: %d, records: %d, skipped: %d, chunks: %d\n",
			res.Len(), res.Records(), res.Skipped(), res.Chunks())
		fmt.Fprintf(os.Stderr, "elapsed: %v, peak RSS: %.1f MB\n",
			elapsed.Round(time.Millisecond), float64(getMaxRSS())/(1<<20))
	}
	return nil
}
