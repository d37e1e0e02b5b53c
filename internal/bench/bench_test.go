package bench

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestMeasure(t *testing.T) {
	src := "def hello(x):\n    return 'world'\n"
	run, err := Measure(context.Background(), "hello.py", src, 25)
	require.NoError(t, err)

	_, err = uuid.Parse(run.ID)
	require.NoError(t, err, "run ID is a UUID")
	require.Equal(t, "hello.py", run.File)
	require.Equal(t, len(src), run.Bytes)
	require.Equal(t, 25, run.Iterations)
	require.Equal(t, 13, run.Tokens)
	require.Empty(t, run.Err)
	require.True(t, run.Elapsed > 0)
	require.WithinDuration(t, time.Now(), run.CreatedAt, time.Minute)
}

func TestMeasure_RecordsLexError(t *testing.T) {
	run, err := Measure(context.Background(), "bad.py", "x = 'oops", 3)
	require.NoError(t, err)
	require.Equal(t, 4, run.Tokens)
	require.Contains(t, run.Err, "offset 4")
}

func TestMeasure_RejectsZeroIterations(t *testing.T) {
	_, err := Measure(context.Background(), "x.py", "x", 0)
	require.ErrorIs(t, err, ErrNoIterations)
}

func TestMeasure_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Measure(ctx, "x.py", "x", 10)
	require.ErrorIs(t, err, context.Canceled)
	require.Contains(t, err.Error(), "after 0 of 10")
}

func TestRun_RateAndString(t *testing.T) {
	run := &Run{Bytes: 100, Iterations: 1000, Elapsed: 2 * time.Second}
	require.InDelta(t, 50000.0, run.Rate(), 0.001)
	require.Equal(t, "len = 100, elapsed = 2.000000 s, n = 1000, rate = 50000", run.String())

	require.Zero(t, (&Run{Bytes: 10, Iterations: 1}).Rate(), "zero elapsed has no rate")
}

func TestRunNotFoundError(t *testing.T) {
	err := &RunNotFoundError{ID: "abc"}
	require.Equal(t, "benchmark run not found: abc", err.Error())
}
