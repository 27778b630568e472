package tracing

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func installRecorder(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	Install(tp)
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })
	return recorder
}

func TestInitTracer_Disabled(t *testing.T) {
	shutdown, err := InitTracer(Config{Enabled: false})
	require.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))
}

func TestStartSpan_ParentChild(t *testing.T) {
	recorder := installRecorder(t)

	ctx, parent := StartSpan(context.Background(), "stockroom.test", "RecordTransaction")
	_, child := StartSpan(ctx, "stockroom.test", "LowStockCheck")
	child.End()
	parent.End()

	spans := recorder.Ended()
	require.Len(t, spans, 2)
	assert.Equal(t, "LowStockCheck", spans[0].Name())
	assert.Equal(t, spans[1].SpanContext().TraceID(), spans[0].SpanContext().TraceID(), "子Span应共享TraceID")
	assert.Equal(t, spans[1].SpanContext().SpanID(), spans[0].Parent().SpanID())
}

func TestEndSpan_RecordsError(t *testing.T) {
	recorder := installRecorder(t)

	_, span := StartSpan(context.Background(), "stockroom.test", "Audit")
	EndSpan(span, errors.New("写入失败"))

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, codes.Error, spans[0].Status().Code)
	assert.Len(t, spans[0].Events(), 1, "RecordError应产生一个exception事件")
}

func TestExtractTraceID(t *testing.T) {
	installRecorder(t)

	assert.Empty(t, ExtractTraceID(context.Background()))

	ctx, span := StartSpan(context.Background(), "stockroom.test", "Scan")
	defer span.End()
	assert.Len(t, ExtractTraceID(ctx), 32)
}
