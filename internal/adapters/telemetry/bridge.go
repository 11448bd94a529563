package telemetry

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.trai.ch/jmodel/internal/core/ports"
	"go.trai.ch/zerr"
)

// DefaultSlowSpan is the duration above which a span is reported as slow.
const DefaultSlowSpan = 250 * time.Millisecond

// Bridge implements sdktrace.SpanProcessor to report failed and slow spans
// through a Logger.
type Bridge struct {
	logger    ports.Logger
	threshold time.Duration
}

// NewBridge returns a new Bridge. A zero threshold reports every span.
func NewBridge(logger ports.Logger, threshold time.Duration) *Bridge {
	return &Bridge{
		logger:    logger,
		threshold: threshold,
	}
}

// OnStart is called when a span starts.
func (b *Bridge) OnStart(_ context.Context, _ sdktrace.ReadWriteSpan) {}

// OnEnd is called when a span ends.
func (b *Bridge) OnEnd(s sdktrace.ReadOnlySpan) {
	if b.logger == nil || !s.SpanContext().IsValid() {
		return
	}

	elapsed := s.EndTime().Sub(s.StartTime())
	if s.Status().Code == codes.Error {
		desc := s.Status().Description
		if desc == "" {
			desc = "span failed"
		}
		err := zerr.With(zerr.New(desc), "span", s.Name())
		b.logger.Error(zerr.With(err, "elapsed", elapsed.String()))
		return
	}

	if elapsed >= b.threshold {
		b.logger.Info(fmt.Sprintf("%s took %s%s", s.Name(), elapsed.Round(time.Microsecond), attributes(s)))
	}
}

// ForceFlush does nothing.
func (b *Bridge) ForceFlush(_ context.Context) error {
	return nil
}

// Shutdown does nothing.
func (b *Bridge) Shutdown(_ context.Context) error {
	return nil
}

func attributes(s sdktrace.ReadOnlySpan) string {
	var out string
	for _, kv := range s.Attributes() {
		out += fmt.Sprintf(" %s=%s", kv.Key, kv.Value.Emit())
	}
	return out
}

// Install registers a tracer provider that feeds the bridge as the global
// provider. The returned function shuts the provider down.
func Install(logger ports.Logger, threshold time.Duration) func(context.Context) error {
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(NewBridge(logger, threshold)))
	otel.SetTracerProvider(tp)
	return tp.Shutdown
}
