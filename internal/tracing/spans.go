package tracing

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/zjrosen/clothespin/internal/lexer"
)

// Span attribute keys.
const (
	AttrFile       = "file.name"
	AttrFileBytes  = "file.bytes"
	AttrTokenCount = "lexer.tokens"
	AttrStopOffset = "lexer.stop_offset"
	AttrIterations = "bench.iterations"
	AttrCacheHit   = "cache.hit"
	AttrCommand    = "cli.command"
)

// Span names.
const (
	SpanCommand  = "cli.command"
	SpanTokenize = "lexer.tokenize"
	SpanBench    = "bench.run"
	SpanDiff     = "tokendiff.diff"
	SpanWatch    = "watch.batch"
)

// EventLexError is recorded on a tokenize span that stopped early.
const EventLexError = "lexer.error"

// TokenizeFile tokenizes src inside a span named SpanTokenize. The span
// records the token count and, on failure, the stop offset and error.
func TokenizeFile(ctx context.Context, tracer trace.Tracer, name, src string) ([]lexer.Item, error) {
	_, span := tracer.Start(ctx, SpanTokenize, trace.WithAttributes(
		attribute.String(AttrFile, name),
		attribute.Int(AttrFileBytes, len(src)),
	))
	defer span.End()

	items, err := lexer.Tokenize(src)
	span.SetAttributes(attribute.Int(AttrTokenCount, len(items)))
	RecordLexError(span, err)
	return items, err
}

// RecordLexError marks span as failed when err is non-nil.
func RecordLexError(span trace.Span, err error) {
	if err == nil {
		span.SetStatus(codes.Ok, "")
		return
	}
	attrs := []attribute.KeyValue{attribute.String("error.message", err.Error())}
	var lexErr *lexer.LexError
	if errors.As(err, &lexErr) {
		attrs = append(attrs, attribute.Int(AttrStopOffset, lexErr.Offset))
	}
	span.AddEvent(EventLexError, trace.WithAttributes(attrs...))
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
