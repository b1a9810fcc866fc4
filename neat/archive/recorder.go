package archive

import (
	"context"
	"sync"

	"neatevo/neat"
)

// RunRecorder adapts a Store to the neat.Recorder interface for a single
// run. The recorder hook is infallible, so database errors are kept in
// LastErr for the caller to check between generations.
type RunRecorder struct {
	store *Store
	runID string
	ctx   context.Context

	mu      sync.Mutex
	lastErr error
}

// Recorder returns a neat.Recorder that writes every epoch of the given run
// to the store.
func (s *Store) Recorder(ctx context.Context, runID string) *RunRecorder {
	return &RunRecorder{
		store: s,
		runID: runID,
		ctx:   ctx,
	}
}

// RecordEpoch implements neat.Recorder.
func (r *RunRecorder) RecordEpoch(stats neat.EpochStats) {
	if err := r.store.RecordEpoch(r.ctx, r.runID, stats); err != nil {
		r.mu.Lock()
		r.lastErr = err
		r.mu.Unlock()
	}
}

// LastErr returns the most recent database error, if any.
func (r *RunRecorder) LastErr() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastErr
}
