package metrics

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Config configures the metrics provider.
type Config struct {
	Enabled          bool
	ExporterEndpoint string
	ExporterProtocol string
	ServiceName      string
	Environment      string
}

// Metrics exposes document lifecycle instruments pushed over OTLP.
type Metrics struct {
	documentsSaved    metric.Int64Counter
	documentsDeleted  metric.Int64Counter
	documentsRendered metric.Int64Counter
	suggestionsShown  metric.Int64Counter
}

// NewProvider configures and registers the meter provider.
func NewProvider(lc fx.Lifecycle, cfg Config, log *zap.Logger) (metric.MeterProvider, error) {
	if !cfg.Enabled {
		provider := noop.NewMeterProvider()
		otel.SetMeterProvider(provider)
		return provider, nil
	}

	exporter, err := newExporter(cfg.ExporterProtocol, cfg.ExporterEndpoint)
	if err != nil {
		return nil, err
	}

	reader := sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(10*time.Second))
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	otel.SetMeterProvider(provider)

	if lc != nil {
		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				log.Info("shutting down meter provider")
				return provider.Shutdown(ctx)
			},
		})
	}

	log.Info("metrics initialized",
		zap.String("endpoint", cfg.ExporterEndpoint),
		zap.String("protocol", cfg.ExporterProtocol),
	)
	return provider, nil
}

// New configures the document instruments.
func New(cfg Config, provider metric.MeterProvider) (*Metrics, error) {
	name := strings.TrimSpace(cfg.ServiceName)
	if name == "" {
		name = "quotedesk"
	}
	meter := provider.Meter(name)

	saved, err := meter.Int64Counter("quotedesk_documents_saved_total")
	if err != nil {
		return nil, err
	}
	deleted, err := meter.Int64Counter("quotedesk_documents_deleted_total")
	if err != nil {
		return nil, err
	}
	rendered, err := meter.Int64Counter("quotedesk_documents_rendered_total")
	if err != nil {
		return nil, err
	}
	suggestions, err := meter.Int64Counter("quotedesk_suggestions_shown_total")
	if err != nil {
		return nil, err
	}

	return &Metrics{
		documentsSaved:    saved,
		documentsDeleted:  deleted,
		documentsRendered: rendered,
		suggestionsShown:  suggestions,
	}, nil
}

// RecordSave counts a save attempt; mode is create or update.
func (m *Metrics) RecordSave(ctx context.Context, mode, outcome string) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(
		attribute.String("mode", mode),
		attribute.String("outcome", outcome),
	)
	m.documentsSaved.Add(ctx, 1, metric.WithAttributes(attrs...))
}

func (m *Metrics) RecordDelete(ctx context.Context, outcome string) {
	if m == nil {
		return
	}
	m.documentsDeleted.Add(ctx, 1, metric.WithAttributes(FilterAttributes(attribute.String("outcome", outcome))...))
}

// RecordRender counts one produced artifact.
func (m *Metrics) RecordRender(ctx context.Context, variant, format, purpose string) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(
		attribute.String("variant", variant),
		attribute.String("format", format),
		attribute.String("purpose", purpose),
	)
	m.documentsRendered.Add(ctx, 1, metric.WithAttributes(attrs...))
}

func (m *Metrics) RecordSuggestions(ctx context.Context, count int) {
	if m == nil || count <= 0 {
		return
	}
	m.suggestionsShown.Add(ctx, int64(count))
}

func newExporter(protocol, endpoint string) (sdkmetric.Exporter, error) {
	protocol = strings.ToLower(strings.TrimSpace(protocol))
	switch protocol {
	case "http", "http/protobuf":
		opts := []otlpmetrichttp.Option{otlpmetrichttp.WithInsecure()}
		if endpoint != "" {
			opts = append(opts, otlpmetrichttp.WithEndpoint(endpoint))
		}
		return otlpmetrichttp.New(context.Background(), opts...)
	case "grpc", "grpc/protobuf", "":
		opts := []otlpmetricgrpc.Option{otlpmetricgrpc.WithInsecure()}
		if endpoint != "" {
			opts = append(opts, otlpmetricgrpc.WithEndpoint(endpoint))
		}
		return otlpmetricgrpc.New(context.Background(), opts...)
	default:
		return nil, fmt.Errorf("unsupported OTLP protocol %q", protocol)
	}
}

var allowedLabelKeys = map[attribute.Key]struct{}{
	"mode":    {},
	"outcome": {},
	"variant": {},
	"format":  {},
	"purpose": {},
	"op":      {},
	"status":  {},
}

// FilterAttributes strips disallowed labels to keep metrics low-cardinality.
func FilterAttributes(attrs ...attribute.KeyValue) []attribute.KeyValue {
	filtered := make([]attribute.KeyValue, 0, len(attrs))
	for _, attr := range attrs {
		if _, ok := allowedLabelKeys[attr.Key]; !ok {
			continue
		}
		filtered = append(filtered, attr)
	}
	return filtered
}
