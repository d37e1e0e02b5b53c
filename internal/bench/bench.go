// Package bench measures tokenizer throughput and defines how benchmark
// runs are stored.
package bench

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/zjrosen/clothespin/internal/lexer"
	"github.com/zjrosen/clothespin/internal/log"
)

// ErrNoIterations is returned by Measure when asked for fewer than one pass.
var ErrNoIterations = errors.New("iterations must be positive")

// Run is one benchmark measurement over a single source file.
type Run struct {
	ID         string
	File       string
	Bytes      int
	Tokens     int
	Iterations int
	Elapsed    time.Duration
	CreatedAt  time.Time
	// Err is the lex failure of the measured source, if any. A source that
	// stops early is still measured up to the stop.
	Err string
}

// Rate returns throughput in bytes per second.
func (r *Run) Rate() float64 {
	secs := r.Elapsed.Seconds()
	if secs <= 0 {
		return 0
	}
	return float64(r.Bytes) * float64(r.Iterations) / secs
}

func (r *Run) String() string {
	return fmt.Sprintf("len = %d, elapsed = %.06f s, n = %d, rate = %d",
		r.Bytes, r.Elapsed.Seconds(), r.Iterations, int64(r.Rate()))
}

// Measure tokenizes src n times, draining each stream to EOF, and returns
// the timing. ctx is checked between passes.
func Measure(ctx context.Context, name, src string, n int) (*Run, error) {
	if n < 1 {
		return nil, ErrNoIterations
	}

	items, lexErr := lexer.Tokenize(src)
	run := &Run{
		ID:         uuid.NewString(),
		File:       name,
		Bytes:      len(src),
		Tokens:     len(items),
		Iterations: n,
		CreatedAt:  time.Now(),
	}
	if lexErr != nil {
		run.Err = lexErr.Error()
	}

	trie := lexer.DefaultTrie()
	start := time.Now()
	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("benchmark interrupted after %d of %d iterations: %w", i, n, err)
		}
		t := lexer.NewWithTrie(trie, src)
		for !t.Done() {
			t.Next()
		}
	}
	run.Elapsed = time.Since(start)

	log.Info(log.CatBench, "Benchmark finished", "file", name, "bytes", run.Bytes, "n", n, "elapsed", run.Elapsed)
	return run, nil
}

// Repository persists benchmark runs.
type Repository interface {
	// Save stores a run. Saving an existing ID fails.
	Save(ctx context.Context, run *Run) error
	// FindByID returns *RunNotFoundError when no run has the ID.
	FindByID(ctx context.Context, id string) (*Run, error)
	// List returns runs newest first.
	List(ctx context.Context, filter ListFilter) ([]*Run, error)
	// Delete removes a run, returning *RunNotFoundError if absent.
	Delete(ctx context.Context, id string) error
}

// ListFilter narrows List results. Zero values mean no restriction.
type ListFilter struct {
	File  string
	Limit int
}

// RunNotFoundError is returned when a run ID is unknown.
type RunNotFoundError struct {
	ID string
}

func (e *RunNotFoundError) Error() string {
	return fmt.Sprintf("benchmark run not found: %s", e.ID)
}
