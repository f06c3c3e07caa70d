// Package batch parses many messages in parallel and reports throughput.
package batch

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/nnnkkk7/go-simdfix"
	"github.com/nnnkkk7/go-simdfix/internal/telemetry"
)

// cancelCheckInterval is how many messages a worker parses between context
// checks.
const cancelCheckInterval = 256

// Processor parses batches of messages on a fixed number of goroutines.
// The zero value parses with the default parser on GOMAXPROCS workers.
type Processor struct {
	Parser  *simdfix.Parser
	Workers int
	Metrics *telemetry.Metrics
	Tracer  trace.Tracer
	Logger  *zap.Logger
}

// Stats summarizes one batch.
type Stats struct {
	Messages       int           `json:"messages"`
	Valid          int           `json:"valid"`
	Invalid        int           `json:"invalid"`
	Bytes          int64         `json:"bytes"`
	Workers        int           `json:"workers"`
	Path           string        `json:"path"`
	Elapsed        time.Duration `json:"elapsed_ns"`
	MessagesPerSec float64       `json:"messages_per_sec"`
	MBPerSec       float64       `json:"mb_per_sec"`
}

// Result holds the records of a batch in input order.
type Result struct {
	Records []simdfix.Record
	Stats   Stats
}

// Process parses every message in msgs. Records borrow msgs. The batch is
// split into one contiguous shard per worker; a canceled ctx stops all
// workers and returns ctx's error.
func (p *Processor) Process(ctx context.Context, msgs [][]byte) (Result, error) {
	parser := p.Parser
	if parser == nil {
		parser = simdfix.NewParser()
	}
	logger := p.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	tracer := p.Tracer
	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer(telemetry.TracerName)
	}

	workers := p.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > len(msgs) {
		workers = len(msgs)
	}
	if workers == 0 {
		workers = 1
	}

	path := parser.Scanner().Name()
	ctx, span := tracer.Start(ctx, "batch.Process", trace.WithAttributes(
		attribute.Int("batch.messages", len(msgs)),
		attribute.Int("batch.workers", workers),
		attribute.String("batch.path", path),
	))
	defer span.End()

	records := make([]simdfix.Record, len(msgs))
	valid := make([]int, workers)
	sizes := make([]int64, workers)

	start := time.Now()
	g, gctx := errgroup.WithContext(ctx)
	shard := (len(msgs) + workers - 1) / workers

	for w := 0; w < workers; w++ {
		lo := w * shard
		hi := min(lo+shard, len(msgs))
		if lo >= hi {
			continue
		}
		g.Go(func() error {
			for i := lo; i < hi; i++ {
				if (i-lo)%cancelCheckInterval == 0 {
					if err := gctx.Err(); err != nil {
						return err
					}
				}
				rec := parser.Parse(msgs[i])
				records[i] = rec
				sizes[w] += int64(len(msgs[i]))
				if rec.Valid {
					valid[w]++
				}
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return Result{}, fmt.Errorf("batch canceled: %w", err)
	}
	elapsed := time.Since(start)

	stats := Stats{
		Messages: len(msgs),
		Workers:  workers,
		Path:     path,
		Elapsed:  elapsed,
	}
	for w := range valid {
		stats.Valid += valid[w]
		stats.Bytes += sizes[w]
	}
	stats.Invalid = stats.Messages - stats.Valid
	if secs := elapsed.Seconds(); secs > 0 {
		stats.MessagesPerSec = float64(stats.Messages) / secs
		stats.MBPerSec = float64(stats.Bytes) / (1024 * 1024) / secs
	}

	p.Metrics.ObserveBatch(path, stats.Valid, stats.Invalid, stats.Bytes, elapsed)
	span.SetAttributes(
		attribute.Int("batch.valid", stats.Valid),
		attribute.Int64("batch.bytes", stats.Bytes),
	)
	logger.Debug("batch parsed",
		zap.Int("messages", stats.Messages),
		zap.Int("valid", stats.Valid),
		zap.Int("workers", workers),
		zap.String("path", path),
		zap.Duration("elapsed", elapsed),
	)

	return Result{Records: records, Stats: stats}, nil
}
