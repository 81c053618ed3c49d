package stationstats

import (
	"context"
	"fmt"
	"runtime/debug"

	streamerrors "github.com/tamirms/stationstats/errors"
	"github.com/tamirms/stationstats/internal/fixedpoint"
	"github.com/tamirms/stationstats/internal/lines"
	"github.com/tamirms/stationstats/internal/table"
)

// worker aggregates chunks into a private table. Nothing in a worker is
// shared until run returns.
type worker struct {
	id      int
	tbl     *table.Table
	chunks  uint64
	records uint64
	skipped uint64
}

func newWorker(id int, h table.HashFunc) *worker {
	return &worker{id: id, tbl: table.New(h)}
}

// run consumes chunks until work is closed and drained or ctx is done.
// A panic while aggregating is returned as ErrWorkerPanic.
func (w *worker) run(ctx context.Context, work <-chan []byte) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: worker %d: %v\n%s", streamerrors.ErrWorkerPanic, w.id, r, debug.Stack())
		}
	}()

	for chunk := range work {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		w.consume(chunk)
	}
	return nil
}

// consume aggregates every record in chunk, in buffer order. Lines without
// a ';' or with an unparseable value are counted and dropped.
func (w *worker) consume(chunk []byte) {
	w.chunks++
	for line := range lines.All(chunk) {
		key, raw, ok := lines.Cut(line)
		if !ok {
			w.skipped++
			continue
		}
		v, ok := fixedpoint.Parse(raw)
		if !ok {
			w.skipped++
			continue
		}
		w.tbl.Add(key, v)
		w.records++
	}
}
