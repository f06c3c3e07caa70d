// Command simdfix parses FIX-style tag=value messages with the simdfix
// parser, from arguments, stdin or (compressed) message logs.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/nnnkkk7/go-simdfix"
	"github.com/nnnkkk7/go-simdfix/internal/batch"
	"github.com/nnnkkk7/go-simdfix/internal/config"
	"github.com/nnnkkk7/go-simdfix/internal/logging"
	"github.com/nnnkkk7/go-simdfix/internal/telemetry"
)

var version = "0.1.0"

// newTracerProvider is replaced in tests.
var newTracerProvider = telemetry.NewTracerProvider

// app carries the state shared by every subcommand once the configuration
// has been loaded.
type app struct {
	v       *viper.Viper
	cfgFile string

	cfg      config.Config
	logger   *zap.Logger
	parser   *simdfix.Parser
	registry *prometheus.Registry
	metrics  *telemetry.Metrics
	tp       telemetry.TracerProvider

	stopMetrics context.CancelFunc
	metricsDone chan error
}

// flagKeys maps command flags to configuration keys.
var flagKeys = map[string]string{
	"delimiter":      "delimiter",
	"strategy":       "strategy",
	"workers":        "workers",
	"max-input-size": "max_input_size",
	"output":         "output",
	"log-level":      "log.level",
	"log-encoding":   "log.encoding",
	"metrics-addr":   "metrics.addr",
	"trace":          "trace.enabled",
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{v: config.NewViper()}

	root := &cobra.Command{
		Use:   "simdfix",
		Short: "Parse FIX-style tag=value messages",
		Long: `simdfix parses flat, delimiter-separated tag=value messages into a fixed
record of MsgType, Symbol, Sender, Target, Side, Price and Quantity.

Delimiters are located either byte by byte or with a chunked vector scan,
chosen from the CPU's capabilities; both paths produce identical records.

Configuration is read from --config (YAML), SIMDFIX_* environment variables
and flags, with flags taking precedence.`,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.teardown(cmd.Context())
		},
	}

	d := config.Default()
	pf := root.PersistentFlags()
	pf.StringVar(&a.cfgFile, "config", "", "Path to a YAML configuration file")
	pf.String("delimiter", d.Delimiter, `Field delimiter: one character, "SOH", or a hex escape such as 0x01`)
	pf.String("strategy", d.Strategy, "Delimiter scan strategy (auto, scalar, vector)")
	pf.Int64("max-input-size", d.MaxInputSize, "Maximum number of input bytes read")
	pf.String("log-level", d.Log.Level, "Log level (debug, info, warn, error)")
	pf.String("log-encoding", d.Log.Encoding, "Log encoding (console, json)")
	pf.String("metrics-addr", d.Metrics.Addr, "Serve Prometheus metrics on this address (e.g. :9102)")
	pf.Bool("trace", d.Trace.Enabled, "Print OpenTelemetry spans to stderr")

	root.AddCommand(
		newParseCmd(a),
		newFileCmd(a),
		newFieldsCmd(a),
		newGenCmd(a),
		newBenchCmd(a),
		newCPUCmd(a),
		newConfigCmd(a),
		newVersionCmd(),
	)
	return root
}

// setup loads the configuration and builds the logger, parser, metrics and
// tracer for the command about to run.
func (a *app) setup(cmd *cobra.Command, args []string) error {
	for flag, key := range flagKeys {
		if f := cmd.Flags().Lookup(flag); f != nil {
			if err := a.v.BindPFlag(key, f); err != nil {
				return fmt.Errorf("failed to bind flag %s: %w", flag, err)
			}
		}
	}

	cfg, err := config.Load(a.v, a.cfgFile)
	if err != nil {
		return err
	}
	a.cfg = cfg

	logger, err := logging.New(logging.Config{
		Level:       cfg.Log.Level,
		Encoding:    cfg.Log.Encoding,
		OutputPaths: []string{"stderr"},
	})
	if err != nil {
		return err
	}
	a.logger = logger
	a.parser = simdfix.NewParser(cfg.ParserOptions()...)

	if err := a.startTelemetry(cmd.ErrOrStderr(), prometheus.NewRegistry()); err != nil {
		return err
	}

	logger.Debug("configuration loaded",
		zap.String("config_file", a.cfgFile),
		zap.String("strategy", cfg.Strategy),
		zap.String("scanner", a.parser.Scanner().Name()),
		zap.Bool("vector_support", simdfix.SupportsVector()),
		zap.String("vector_kernel", simdfix.VectorKernel()),
	)
	return nil
}

// startTelemetry builds the tracer provider and registers the metrics with
// reg, then serves them when an address is configured. On error nothing is
// left running.
func (a *app) startTelemetry(traceOut io.Writer, reg *prometheus.Registry) error {
	tp, err := newTracerProvider(a.cfg.Trace.Enabled, traceOut, version)
	if err != nil {
		return err
	}
	metrics, err := telemetry.NewMetrics(reg)
	if err != nil {
		return errors.Join(err, tp.Shutdown(context.Background()))
	}
	a.tp, a.registry, a.metrics = tp, reg, metrics

	if addr := a.cfg.Metrics.Addr; addr != "" {
		ctx, cancel := context.WithCancel(context.Background())
		a.stopMetrics = cancel
		a.metricsDone = make(chan error, 1)
		go func() {
			a.metricsDone <- telemetry.Serve(ctx, addr, reg, a.logger)
		}()
	}
	return nil
}

// teardown flushes spans, stops the metrics endpoint and syncs the logger.
func (a *app) teardown(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	var errs []error
	if a.tp != nil {
		errs = append(errs, a.tp.Shutdown(ctx))
	}
	if a.stopMetrics != nil {
		a.stopMetrics()
		errs = append(errs, <-a.metricsDone)
	}
	if a.logger != nil {
		// Syncing stderr fails on some platforms; the error carries no signal.
		_ = a.logger.Sync()
	}
	return errors.Join(errs...)
}

// processor returns a batch processor wired to the app's parser, metrics,
// tracer and logger.
func (a *app) processor() *batch.Processor {
	return &batch.Processor{
		Parser:  a.parser,
		Workers: a.cfg.Workers,
		Metrics: a.metrics,
		Tracer:  a.tracer(),
		Logger:  a.logger,
	}
}

func (a *app) tracer() trace.Tracer {
	return a.tp.Tracer(telemetry.TracerName)
}

// out returns the command's standard output.
func out(cmd *cobra.Command) io.Writer {
	return cmd.OutOrStdout()
}
