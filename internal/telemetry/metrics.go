// Package telemetry wires Prometheus metrics and OpenTelemetry tracing for
// batch parsing runs.
package telemetry

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

const namespace = "simdfix"

// Metrics holds the collectors updated by batch runs. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	messagesParsed *prometheus.CounterVec // by scanner path and validity
	batchDuration  prometheus.Histogram   // wall time per batch
	batchSize      prometheus.Histogram   // messages per batch
	bytesParsed    *prometheus.CounterVec // by scanner path
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		messagesParsed: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "messages_parsed_total",
				Help:      "Total number of messages parsed",
			},
			[]string{"path", "valid"},
		),
		batchDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "batch_duration_seconds",
				Help:      "Wall-clock time to parse one batch",
				Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10),
			},
		),
		batchSize: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "batch_size",
				Help:      "Number of messages per batch",
				Buckets:   prometheus.ExponentialBuckets(1, 10, 8),
			},
		),
		bytesParsed: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "bytes_parsed_total",
				Help:      "Total number of message bytes parsed",
			},
			[]string{"path"},
		),
	}

	for _, c := range []prometheus.Collector{m.messagesParsed, m.batchDuration, m.batchSize, m.bytesParsed} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("failed to register metric: %w", err)
		}
	}
	return m, nil
}

// ObserveBatch records one finished batch parsed on the named path.
func (m *Metrics) ObserveBatch(path string, valid, invalid int, bytes int64, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.messagesParsed.WithLabelValues(path, strconv.FormatBool(true)).Add(float64(valid))
	m.messagesParsed.WithLabelValues(path, strconv.FormatBool(false)).Add(float64(invalid))
	m.bytesParsed.WithLabelValues(path).Add(float64(bytes))
	m.batchDuration.Observe(elapsed.Seconds())
	m.batchSize.Observe(float64(valid + invalid))
}

// Serve exposes g on addr at /metrics until ctx is done.
func Serve(ctx context.Context, addr string, g prometheus.Gatherer, logger *zap.Logger) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(g, promhttp.HandlerOpts{}))

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("serving metrics", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("metrics server: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("metrics server shutdown: %w", err)
		}
		return nil
	}
}
