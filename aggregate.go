package stationstats

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"sync"
	"time"

	"github.com/edsrzf/mmap-go"
	"golang.org/x/sync/errgroup"

	"github.com/tamirms/stationstats/internal/table"
)

// sourceFunc produces chunks for the workers until the input is exhausted.
type sourceFunc func(ctx context.Context, emit emitFunc) (readStats, error)

// Aggregate reads records from r and returns per-key statistics.
//
// One goroutine reads r in blocks and dispatches newline-aligned chunks
// over a channel to the workers, each of which aggregates into its own
// table. When the input is exhausted the tables are merged and sorted.
// Any read error or worker panic aborts the run; no partial result is
// returned.
func Aggregate(ctx context.Context, r io.Reader, opts ...Option) (*Result, error) {
	cfg, err := newConfig(opts)
	if err != nil {
		return nil, err
	}
	return run(ctx, cfg, func(ctx context.Context, emit emitFunc) (readStats, error) {
		return readChunks(ctx, r, cfg.blockSize, emit)
	})
}

// AggregateFile is Aggregate over the file at path. With WithMmap the file
// is memory-mapped and chunks alias the mapping.
func AggregateFile(ctx context.Context, path string, opts ...Option) (*Result, error) {
	cfg, err := newConfig(opts)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}
	defer f.Close()

	if !cfg.mmap {
		fadviseSequential(int(f.Fd()))
		return run(ctx, cfg, func(ctx context.Context, emit emitFunc) (readStats, error) {
			return readChunks(ctx, f, cfg.blockSize, emit)
		})
	}

	stat, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat input: %w", err)
	}
	if stat.Size() == 0 {
		// Zero-length files cannot be mapped.
		return run(ctx, cfg, func(context.Context, emitFunc) (readStats, error) {
			return readStats{}, nil
		})
	}

	mm, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		return nil, fmt.Errorf("mmap input: %w", err)
	}
	defer mm.Unmap()
	madviseSequential(mm)

	// Result keys are copied into worker arenas, so nothing aliases the
	// mapping once run returns.
	return run(ctx, cfg, func(ctx context.Context, emit emitFunc) (readStats, error) {
		return splitChunks(ctx, mm, cfg.blockSize, emit)
	})
}

// run starts the source and the workers, waits for both, then merges.
func run(ctx context.Context, cfg *config, source sourceFunc) (*Result, error) {
	start := time.Now()
	log := cfg.logger
	log.Debug("run starting",
		slog.Int("workers", cfg.workers),
		slog.Int("block_size", cfg.blockSize),
		slog.Int("queue_depth", cfg.queueDepth),
		slog.String("hash", cfg.hash.String()),
		slog.Bool("mmap", cfg.mmap))

	work := make(chan []byte, cfg.queueDepth)
	g, gctx := errgroup.WithContext(ctx)

	// The only lock in a run: each worker takes it once to hand over its
	// finished table.
	var mu sync.Mutex
	done := make([]*worker, 0, cfg.workers)

	for id := range cfg.workers {
		w := newWorker(id, cfg.hashFunc)
		g.Go(func() error {
			if err := w.run(gctx, work); err != nil {
				return err
			}
			log.Debug("worker finished",
				slog.Int("worker", w.id),
				slog.Uint64("chunks", w.chunks),
				slog.Uint64("records", w.records),
				slog.Int("keys", w.tbl.Len()))
			mu.Lock()
			done = append(done, w)
			mu.Unlock()
			return nil
		})
	}

	g.Go(func() error {
		defer close(work)
		st, err := source(gctx, func(chunk []byte) error {
			select {
			case work <- chunk:
				return nil
			case <-gctx.Done():
				return gctx.Err()
			}
		})
		if err != nil {
			return err
		}
		log.Debug("reader finished", slog.Int("chunks", st.chunks), slog.Int64("bytes", st.bytes))
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	res := merge(cfg.hashFunc, done)
	log.Debug("run finished",
		slog.Int("keys", res.Len()),
		slog.Uint64("records", res.records),
		slog.Uint64("skipped", res.skipped),
		slog.Duration("elapsed", time.Since(start)))
	return res, nil
}

// merge folds the worker tables into one and sorts it by key bytes.
// Accumulator merge is commutative and associative, so the order of
// workers does not matter.
func merge(h table.HashFunc, workers []*worker) *Result {
	res := &Result{}
	global := table.New(h)
	for _, w := range workers {
		res.records += w.records
		res.skipped += w.skipped
		res.chunks += w.chunks
		for e := range w.tbl.All() {
			global.Merge(e.Key, &e.Stats)
		}
	}

	res.entries = make([]Entry, 0, global.Len())
	for e := range global.All() {
		res.entries = append(res.entries, Entry{Key: e.Key, Stats: e.Stats})
	}
	slices.SortFunc(res.entries, func(a, b Entry) int {
		return bytes.Compare(a.Key, b.Key)
	})
	return res
}
