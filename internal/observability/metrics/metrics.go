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

// Metrics exposes the settlement-domain instruments.
type Metrics struct {
	paymentsSettled  metric.Int64Counter
	payoutsReleased  metric.Int64Counter
	refundsRequested metric.Int64Counter
	refundsResolved  metric.Int64Counter
	gatewayFailures  metric.Int64Counter
	affiliatePayouts metric.Int64Counter
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
				if log != nil {
					log.Info("shutting down meter provider")
				}
				return provider.Shutdown(ctx)
			},
		})
	}

	return provider, nil
}

// New configures the domain metrics instruments.
func New(cfg Config, provider metric.MeterProvider) (*Metrics, error) {
	name := strings.TrimSpace(cfg.ServiceName)
	if name == "" {
		name = "eduledger"
	}
	meter := provider.Meter(name)

	paymentsSettled, err := meter.Int64Counter("eduledger_payments_settled_total")
	if err != nil {
		return nil, err
	}
	payoutsReleased, err := meter.Int64Counter("eduledger_payouts_released_total")
	if err != nil {
		return nil, err
	}
	refundsRequested, err := meter.Int64Counter("eduledger_refunds_requested_total")
	if err != nil {
		return nil, err
	}
	refundsResolved, err := meter.Int64Counter("eduledger_refunds_resolved_total")
	if err != nil {
		return nil, err
	}
	gatewayFailures, err := meter.Int64Counter("eduledger_gateway_lookup_failures_total")
	if err != nil {
		return nil, err
	}
	affiliatePayouts, err := meter.Int64Counter("eduledger_affiliate_payouts_total")
	if err != nil {
		return nil, err
	}

	return &Metrics{
		paymentsSettled:  paymentsSettled,
		payoutsReleased:  payoutsReleased,
		refundsRequested: refundsRequested,
		refundsResolved:  refundsResolved,
		gatewayFailures:  gatewayFailures,
		affiliatePayouts: affiliatePayouts,
	}, nil
}

// RecordPaymentSettled counts a pending payment reaching a terminal settlement status.
func (m *Metrics) RecordPaymentSettled(ctx context.Context, status string) {
	if m == nil {
		return
	}
	m.paymentsSettled.Add(ctx, 1, metric.WithAttributes(attribute.String("status", status)))
}

func (m *Metrics) RecordPayoutReleased(ctx context.Context, priceBase string) {
	if m == nil {
		return
	}
	m.payoutsReleased.Add(ctx, 1, metric.WithAttributes(attribute.String("price_base", priceBase)))
}

func (m *Metrics) RecordRefundRequested(ctx context.Context) {
	if m == nil {
		return
	}
	m.refundsRequested.Add(ctx, 1)
}

func (m *Metrics) RecordRefundResolved(ctx context.Context, status string) {
	if m == nil {
		return
	}
	m.refundsResolved.Add(ctx, 1, metric.WithAttributes(attribute.String("status", status)))
}

func (m *Metrics) RecordGatewayLookupFailure(ctx context.Context) {
	if m == nil {
		return
	}
	m.gatewayFailures.Add(ctx, 1)
}

func (m *Metrics) RecordAffiliatePayout(ctx context.Context) {
	if m == nil {
		return
	}
	m.affiliatePayouts.Add(ctx, 1)
}

func newExporter(protocol, endpoint string) (sdkmetric.Exporter, error) {
	switch strings.ToLower(strings.TrimSpace(protocol)) {
	case "", "grpc":
		return otlpmetricgrpc.New(context.Background(),
			otlpmetricgrpc.WithEndpoint(endpoint),
			otlpmetricgrpc.WithInsecure(),
		)
	case "http", "http/protobuf":
		return otlpmetrichttp.New(context.Background(),
			otlpmetrichttp.WithEndpoint(endpoint),
			otlpmetrichttp.WithInsecure(),
		)
	default:
		return nil, fmt.Errorf("unsupported otlp metric protocol %q", protocol)
	}
}
