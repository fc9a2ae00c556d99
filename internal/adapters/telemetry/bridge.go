package telemetry

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.trai.ch/mockcode/internal/core/ports"
)

// LogBridge implements sdktrace.SpanProcessor and reports finished spans through the logger.
// It backs the --trace flag.
type LogBridge struct {
	logger ports.Logger
}

// NewLogBridge returns a new LogBridge.
func NewLogBridge(logger ports.Logger) *LogBridge {
	return &LogBridge{logger: logger}
}

// OnStart does nothing; spans are reported once they end.
func (b *LogBridge) OnStart(_ context.Context, _ sdktrace.ReadWriteSpan) {}

// OnEnd logs the span name, duration, attributes and events.
func (b *LogBridge) OnEnd(s sdktrace.ReadOnlySpan) {
	if b.logger == nil || !s.SpanContext().IsValid() {
		return
	}

	parts := []string{fmt.Sprintf("trace %s %s", s.Name(), s.EndTime().Sub(s.StartTime()).Round(time.Millisecond))}
	for _, kv := range s.Attributes() {
		parts = append(parts, string(kv.Key)+"="+kv.Value.Emit())
	}
	if events := s.Events(); len(events) > 0 {
		names := make([]string, len(events))
		for i, e := range events {
			names[i] = e.Name
		}
		parts = append(parts, "phases="+strings.Join(names, ">"))
	}
	if s.Status().Code == codes.Error {
		parts = append(parts, "status=error")
	}

	b.logger.Info(strings.Join(parts, " "))
}

// ForceFlush does nothing.
func (b *LogBridge) ForceFlush(_ context.Context) error {
	return nil
}

// Shutdown does nothing.
func (b *LogBridge) Shutdown(_ context.Context) error {
	return nil
}

// NewTracingProvider builds an SDK provider that reports spans through the logger.
// Callers own the provider and must shut it down.
func NewTracingProvider(logger ports.Logger) *sdktrace.TracerProvider {
	return sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(NewLogBridge(logger)))
}
