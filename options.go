package flowgraph

import (
	"log/slog"

	"go.opentelemetry.io/otel/trace"
)

// Option configures a Graph at construction or load time.
type Option func(*Graph)

// WithName sets the graph's display name. The name is persisted by Save.
func WithName(name string) Option {
	return func(g *Graph) {
		g.name = name
	}
}

// WithTypes resolves node types through the given registry instead of
// DefaultTypes. Tests typically pass a private registry.
func WithTypes(reg *Types) Option {
	return func(g *Graph) {
		g.types = reg
	}
}

// WithLogger sets a custom logger for the graph. If not provided, the
// default slog logger is used.
func WithLogger(logger *slog.Logger) Option {
	return func(g *Graph) {
		g.logger = logger
	}
}

// WithTracer sets an OpenTelemetry tracer. Each top-level live mutation
// (direct assignment, connect, disconnect) is recorded as one span
// covering its whole cascade. Without a tracer nothing is recorded.
func WithTracer(tracer trace.Tracer) Option {
	return func(g *Graph) {
		g.tracer = tracer
	}
}
