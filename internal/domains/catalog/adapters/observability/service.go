package observability

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	catalogdomain "github.com/storefront/orders-inventory/internal/domains/catalog/domain"
	catalogports "github.com/storefront/orders-inventory/internal/domains/catalog/ports"
)

const tracerName = "github.com/storefront/orders-inventory/internal/domains/catalog/adapters/observability/service"

// Service decorates the catalog service with tracing, logging, and metrics.
type Service struct {
	inner   catalogports.Service
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

// New wraps the core catalog service.
func New(inner catalogports.Service, opts ...Option) catalogports.Service {
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

func (s *Service) Create(ctx context.Context, input catalogports.CreateProductInput) (*catalogdomain.Product, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.Create",
		trace.WithAttributes(attribute.String("product.sku", input.SKU)))
	defer span.End()

	result, err := s.inner.Create(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to create product", slog.String("product.sku", input.SKU))
	}
	s.metrics.recordCreated(ctx)
	s.logInfo(ctx, "product created", slog.Int64("product.id", result.ID), slog.String("product.sku", result.SKU))
	return result, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*catalogdomain.Product, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.Get", trace.WithAttributes(attribute.Int64("product.id", id)))
	defer span.End()

	result, err := s.inner.Get(ctx, id)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load product", slog.Int64("product.id", id))
	}
	return result, nil
}

func (s *Service) List(ctx context.Context, page, size int) (*catalogports.ProductPage, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.List",
		trace.WithAttributes(attribute.Int("page", page), attribute.Int("size", size)))
	defer span.End()

	result, err := s.inner.List(ctx, page, size)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list products")
	}
	span.SetAttributes(attribute.Int("products.count", len(result.Items)))
	return result, nil
}

func (s *Service) Update(ctx context.Context, id int64, input catalogports.UpdateProductInput, partial bool) (*catalogdomain.Product, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.Update",
		trace.WithAttributes(attribute.Int64("product.id", id), attribute.Bool("partial", partial)))
	defer span.End()

	result, err := s.inner.Update(ctx, id, input, partial)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to update product", slog.Int64("product.id", id))
	}
	s.logInfo(ctx, "product updated", slog.Int64("product.id", result.ID), slog.Bool("partial", partial))
	return result, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	ctx, span := s.tracer.Start(ctx, "CatalogService.Delete", trace.WithAttributes(attribute.Int64("product.id", id)))
	defer span.End()

	if err := s.inner.Delete(ctx, id); err != nil {
		return s.handleError(ctx, span, err, "failed to delete product", slog.Int64("product.id", id))
	}
	s.metrics.recordDeleted(ctx)
	s.logInfo(ctx, "product deleted", slog.Int64("product.id", id))
	return nil
}

func (s *Service) logInfo(ctx context.Context, msg string, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
}

func (s *Service) logError(ctx context.Context, msg string, err error, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}
	s.logger.LogAttrs(ctx, slog.LevelError, msg, attrs...)
}

func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	if span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	s.logError(ctx, msg, err, attrs...)
	return err
}

type serviceMetrics struct {
	productsCreated metric.Int64Counter
	productsDeleted metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	created, _ := m.Int64Counter("catalog.service.products_created", metric.WithDescription("Number of products created"))
	deleted, _ := m.Int64Counter("catalog.service.products_deleted", metric.WithDescription("Number of products deleted"))
	return serviceMetrics{productsCreated: created, productsDeleted: deleted}
}

func (m serviceMetrics) recordCreated(ctx context.Context) {
	if m.productsCreated != nil {
		m.productsCreated.Add(ctx, 1)
	}
}

func (m serviceMetrics) recordDeleted(ctx context.Context) {
	if m.productsDeleted != nil {
		m.productsDeleted.Add(ctx, 1)
	}
}

var _ catalogports.Service = (*Service)(nil)
