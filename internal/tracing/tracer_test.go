package tracing

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/zjrosen/clothespin/internal/config"
	"github.com/zjrosen/clothespin/internal/strutil"
)

func TestNewProvider_Disabled(t *testing.T) {
	p, err := NewProvider(config.TracingConfig{})
	require.NoError(t, err)
	require.False(t, p.Enabled())

	ctx, span := p.Tracer().Start(context.Background(), "noop")
	span.End()
	require.Empty(t, TraceIDFromContext(ctx))
	require.NoError(t, p.Shutdown(context.Background()))
}

func TestNewProvider_FileExporter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "traces.jsonl")
	p, err := NewProvider(config.TracingConfig{
		Enabled:    true,
		Exporter:   "file",
		FilePath:   path,
		SampleRate: 1.0,
	})
	require.NoError(t, err)
	require.True(t, p.Enabled())

	ctx, parent := p.Tracer().Start(context.Background(), SpanCommand)
	traceID := TraceIDFromContext(ctx)
	require.Len(t, traceID, 32)
	_, err = TokenizeFile(ctx, p.Tracer(), "x.py", "x=1\n")
	require.NoError(t, err)
	parent.End()
	require.NoError(t, p.Shutdown(context.Background()))

	records := readRecords(t, path)
	require.Len(t, records, 2)
	byName := map[string]SpanRecord{}
	for _, r := range records {
		byName[r.Name] = r
		require.Equal(t, traceID, r.TraceID)
	}
	child := byName[SpanTokenize]
	require.Equal(t, byName[SpanCommand].SpanID, child.ParentSpanID)
	require.Equal(t, "x.py", child.Attributes[AttrFile])
	require.EqualValues(t, 4, child.Attributes[AttrTokenCount])
	require.Equal(t, "OK", child.Status)
}

func TestNewProvider_Errors(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.TracingConfig
		want string
	}{
		{name: "file without path", cfg: config.TracingConfig{Enabled: true, Exporter: "file"}, want: "file_path required"},
		{name: "unknown exporter", cfg: config.TracingConfig{Enabled: true, Exporter: "zipkin"}, want: "unsupported exporter type: zipkin"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewProvider(tt.cfg)
			require.ErrorContains(t, err, tt.want)
		})
	}
}

func TestNewProvider_NoneExporterStillCreatesSpans(t *testing.T) {
	p, err := NewProvider(config.TracingConfig{Enabled: true, Exporter: "none"})
	require.NoError(t, err)
	ctx, span := p.Tracer().Start(context.Background(), SpanCommand)
	require.NotEmpty(t, TraceIDFromContext(ctx))
	span.End()
	require.NoError(t, p.Shutdown(context.Background()))
}

func TestTokenizeFile_RecordsLexError(t *testing.T) {
	rec := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	items, err := TokenizeFile(context.Background(), tp.Tracer("test"), "bad.py", "x = 'abc")
	require.ErrorIs(t, err, strutil.ErrUnterminated)
	require.Len(t, items, 4)

	spans := rec.Ended()
	require.Len(t, spans, 1)
	span := spans[0]
	require.Equal(t, SpanTokenize, span.Name())
	require.Contains(t, span.Attributes(), attribute.Int(AttrTokenCount, 4))

	var found bool
	for _, evt := range span.Events() {
		if evt.Name == EventLexError {
			found = true
			require.Contains(t, evt.Attributes, attribute.Int(AttrStopOffset, 4))
		}
	}
	require.True(t, found, "lex error event recorded")
}
