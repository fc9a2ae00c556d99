package telemetry_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.trai.ch/mockcode/internal/adapters/telemetry"
	"go.trai.ch/mockcode/internal/core/ports"
	"go.trai.ch/mockcode/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func newRecordingTracer(t *testing.T) (*telemetry.OTelTracer, *tracetest.SpanRecorder) {
	t.Helper()
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })
	return telemetry.NewOTelTracerWithProvider(tp, "test"), sr
}

func TestOTelTracer_Span(t *testing.T) {
	t.Parallel()

	tracer, sr := newRecordingTracer(t)

	_, span := tracer.Start(context.Background(), "mockcode.run", ports.WithAttribute("mockcode.label", "diff"))
	span.SetAttribute("mockcode.cache_hit", true)
	span.SetAttribute("mockcode.exit_status", 1)
	span.SetAttribute("mockcode.files", []string{"a", "b"})
	span.AddEvent("hash_inputs")
	span.RecordError(errors.New("boom"))
	span.End()

	ended := sr.Ended()
	require.Len(t, ended, 1)
	s := ended[0]
	assert.Equal(t, "mockcode.run", s.Name())
	assert.Contains(t, s.Attributes(), attribute.String("mockcode.label", "diff"))
	assert.Contains(t, s.Attributes(), attribute.Bool("mockcode.cache_hit", true))
	assert.Contains(t, s.Attributes(), attribute.Int("mockcode.exit_status", 1))
	assert.Contains(t, s.Attributes(), attribute.StringSlice("mockcode.files", []string{"a", "b"}))
	assert.Equal(t, codes.Error, s.Status().Code)

	var names []string
	for _, e := range s.Events() {
		names = append(names, e.Name)
	}
	assert.Contains(t, names, "hash_inputs")
}

func TestLogBridge(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)

	var logged string
	log.EXPECT().Info(gomock.Any()).Do(func(msg string) { logged = msg })

	tp := telemetry.NewTracingProvider(log)
	_, span := telemetry.NewOTelTracerWithProvider(tp, "test").Start(context.Background(), "mockcode.run")
	span.SetAttribute("mockcode.cache_hit", false)
	span.AddEvent("resolve_executable")
	span.AddEvent("hash_inputs")
	span.End()
	require.NoError(t, tp.Shutdown(context.Background()))

	assert.Contains(t, logged, "trace mockcode.run")
	assert.Contains(t, logged, "mockcode.cache_hit=false")
	assert.Contains(t, logged, "phases=resolve_executable>hash_inputs")
}

func TestNoOpTracer(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	got, span := telemetry.NewNoOpTracer().Start(ctx, "noop")
	assert.Equal(t, ctx, got)
	span.SetAttribute("k", "v")
	span.AddEvent("e")
	span.RecordError(errors.New("ignored"))
	span.End()
}
