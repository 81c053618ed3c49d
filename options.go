package stationstats

import (
	"io"
	"log/slog"
	"runtime"

	streamerrors "github.com/tamirms/stationstats/errors"
	"github.com/tamirms/stationstats/internal/table"
)

const (
	// DefaultBlockSize is the reader block size used when none is configured.
	DefaultBlockSize = 4 << 20

	// queueDepthMultiplier sizes the chunk channel relative to the worker count.
	queueDepthMultiplier = 2
)

// Option is a functional option for configuring a run.
type Option func(*config)

type config struct {
	blockSize     int
	workers       int
	queueDepth    int
	queueDepthSet bool
	hash          HashAlgorithmID
	mmap          bool
	logger        *slog.Logger

	hashFunc table.HashFunc // overrides hash when set (tests only)
}

func defaultConfig() *config {
	return &config{
		blockSize: DefaultBlockSize,
		hash:      HashXXH64,
	}
}

// WithBlockSize sets the number of bytes requested per read. Records longer
// than a block are still handled; they are carried across reads.
func WithBlockSize(n int) Option {
	return func(c *config) {
		c.blockSize = n
	}
}

// WithWorkers sets the number of aggregation workers. n <= 0 selects one
// worker per CPU.
func WithWorkers(n int) Option {
	return func(c *config) {
		c.workers = n
	}
}

// WithQueueDepth sets how many chunks may wait between the reader and the
// workers. The reader blocks when the queue is full, which caps memory at
// roughly (depth + workers) × block size. Zero makes every handoff
// synchronous.
func WithQueueDepth(n int) Option {
	return func(c *config) {
		c.queueDepth = n
		c.queueDepthSet = true
	}
}

// WithHash selects the key hash used by worker tables.
// Default is HashXXH64. The report does not depend on the choice.
func WithHash(h HashAlgorithmID) Option {
	return func(c *config) {
		c.hash = h
	}
}

// WithMmap makes AggregateFile memory-map the input and hand workers
// sub-slices of the mapping instead of copying blocks. Aggregate ignores it.
func WithMmap() Option {
	return func(c *config) {
		c.mmap = true
	}
}

// WithLogger sets the logger for debug and progress events.
// The default discards everything.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		c.logger = l
	}
}

// withHashFunc replaces the key hash with fn.
func withHashFunc(fn table.HashFunc) Option {
	return func(c *config) {
		c.hashFunc = fn
	}
}

// newConfig applies opts and fills in derived defaults.
func newConfig(opts []Option) (*config, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.blockSize <= 0 {
		return nil, streamerrors.ErrInvalidBlockSize
	}
	if cfg.workers <= 0 {
		cfg.workers = runtime.NumCPU()
	}
	if !cfg.queueDepthSet {
		cfg.queueDepth = cfg.workers * queueDepthMultiplier
	}
	if cfg.queueDepth < 0 {
		return nil, streamerrors.ErrInvalidQueueDepth
	}
	if cfg.hashFunc == nil {
		fn, err := newHashFunc(cfg.hash)
		if err != nil {
			return nil, err
		}
		cfg.hashFunc = fn
	}
	if cfg.logger == nil {
		cfg.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	cfg.logger = cfg.logger.With(slog.String("component", "stationstats"))
	return cfg, nil
}
