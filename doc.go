// Package stationstats computes per-key min/mean/max over large files of
// "key;value" records, where value is a decimal with exactly one fractional
// digit (for example "Hamburg;12.0" or "Abha;-3.2").
//
// Values are parsed into integers scaled by 10 and summed exactly; floating
// point only appears when the mean is rendered.
//
// # Basic Usage
//
//	res, err := stationstats.AggregateFile(ctx, "measurements.txt",
//	    stationstats.WithBlockSize(8<<20))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if _, err := res.WriteTo(os.Stdout); err != nil {
//	    log.Fatal(err)
//	}
//
// The report is a single line of "key: min/mean/max" entries joined by
// ", " in ascending byte order of the key.
//
// # Pipeline
//
// A reader goroutine splits the input into chunks that end on a newline and
// sends them over a bounded channel. Each worker aggregates the chunks it
// receives into a private hash table, so no locks are taken per record.
// After the input is drained the worker tables are merged into one and
// sorted. Malformed lines (no ';' or a bad number) are dropped silently and
// counted in Result.Skipped.
//
// # Package Structure
//
//   - Public API: aggregate.go (Aggregate, AggregateFile), result.go (Result)
//   - Configuration: options.go (Option, With* functions)
//   - Chunking: reader.go (block reader, mmap splitter)
//   - Aggregation: worker.go, internal/table (per-worker hash table)
//   - Parsing: internal/lines, internal/fixedpoint
//   - Key hashing: hash.go (xxh64, xxh3, murmur3)
//   - Platform: fadvise_*.go, madvise_*.go (read-ahead hints)
package stationstats
