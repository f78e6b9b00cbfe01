package observability

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	"github.com/storefront/orders-inventory/internal/domains/webhooks/ports"
)

const tracerName = "github.com/storefront/orders-inventory/internal/domains/webhooks/adapters/observability/service"

// Service decorates the webhook processor with tracing, logging, and metrics.
type Service struct {
	inner   ports.Service
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics serviceMetrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithTracer(tr trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = tr
	}
}

func WithMeter(m metric.Meter) Option {
	return func(s *Service) {
		s.metrics = newServiceMetrics(m)
	}
}

// New wraps the core webhook processor.
func New(inner ports.Service, opts ...Option) ports.Service {
	s := &Service{
		inner:   inner,
		tracer:  nooptrace.NewTracerProvider().Tracer(tracerName),
		metrics: newServiceMetrics(nil),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.tracer == nil {
		s.tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	return s
}

func (s *Service) Process(ctx context.Context, rawBody []byte, signature string) (ports.Outcome, error) {
	ctx, span := s.tracer.Start(ctx, "WebhookService.Process",
		trace.WithAttributes(attribute.Int("webhook.body_bytes", len(rawBody))))
	defer span.End()

	outcome, err := s.inner.Process(ctx, rawBody, signature)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.metrics.recordRejected(ctx)
		if s.logger != nil {
			s.logger.LogAttrs(ctx, slog.LevelError, "webhook delivery rejected", slog.String("error", err.Error()))
		}
		return outcome, err
	}
	span.SetAttributes(attribute.String("webhook.outcome", string(outcome)))
	s.metrics.recordOutcome(ctx, outcome)
	if s.logger != nil {
		s.logger.LogAttrs(ctx, slog.LevelInfo, "webhook delivery handled", slog.String("webhook.outcome", string(outcome)))
	}
	return outcome, nil
}

type serviceMetrics struct {
	processed metric.Int64Counter
	replayed  metric.Int64Counter
	ignored   metric.Int64Counter
	rejected  metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	processed, _ := m.Int64Counter("webhooks.service.events_processed", metric.WithDescription("Number of webhook events applied"))
	replayed, _ := m.Int64Counter("webhooks.service.events_replayed", metric.WithDescription("Number of webhook deliveries caught by the replay ledger"))
	ignored, _ := m.Int64Counter("webhooks.service.events_ignored", metric.WithDescription("Number of webhook events of unhandled types"))
	rejected, _ := m.Int64Counter("webhooks.service.events_rejected", metric.WithDescription("Number of webhook deliveries rejected with an error"))
	return serviceMetrics{processed: processed, replayed: replayed, ignored: ignored, rejected: rejected}
}

func (m serviceMetrics) recordOutcome(ctx context.Context, outcome ports.Outcome) {
	switch outcome {
	case ports.OutcomeProcessed:
		if m.processed != nil {
			m.processed.Add(ctx, 1)
		}
	case ports.OutcomeAlreadyProcessed:
		if m.replayed != nil {
			m.replayed.Add(ctx, 1)
		}
	case ports.OutcomeIgnored:
		if m.ignored != nil {
			m.ignored.Add(ctx, 1)
		}
	}
}

func (m serviceMetrics) recordRejected(ctx context.Context) {
	if m.rejected != nil {
		m.rejected.Add(ctx, 1)
	}
}

var _ ports.Service = (*Service)(nil)
