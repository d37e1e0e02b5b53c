package sqlite

import (
	"time"

	"github.com/zjrosen/clothespin/internal/bench"
)

// benchRunModel is a bench_runs row. Times are Unix seconds, durations
// nanoseconds.
type benchRunModel struct {
	ID         string
	File       string
	Bytes      int64
	Tokens     int64
	Iterations int64
	ElapsedNs  int64
	LexError   *string // nullable
	CreatedAt  int64
}

func toBenchRunModel(r *bench.Run) *benchRunModel {
	m := &benchRunModel{
		ID:         r.ID,
		File:       r.File,
		Bytes:      int64(r.Bytes),
		Tokens:     int64(r.Tokens),
		Iterations: int64(r.Iterations),
		ElapsedNs:  r.Elapsed.Nanoseconds(),
		CreatedAt:  r.CreatedAt.Unix(),
	}
	if r.Err != "" {
		lexErr := r.Err
		m.LexError = &lexErr
	}
	return m
}

func (m *benchRunModel) toDomain() *bench.Run {
	r := &bench.Run{
		ID:         m.ID,
		File:       m.File,
		Bytes:      int(m.Bytes),
		Tokens:     int(m.Tokens),
		Iterations: int(m.Iterations),
		Elapsed:    time.Duration(m.ElapsedNs),
		CreatedAt:  time.Unix(m.CreatedAt, 0),
	}
	if m.LexError != nil {
		r.Err = *m.LexError
	}
	return r
}
