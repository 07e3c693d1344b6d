// Command quoteframe materializes market quote snapshots into typed tables
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ajitpratap0/quoteframe/pkg/config"
	"github.com/ajitpratap0/quoteframe/pkg/logger"
	"github.com/ajitpratap0/quoteframe/pkg/metrics"
	"github.com/ajitpratap0/quoteframe/pkg/observability"
)

var version = "0.1.0"

// app carries the resolved configuration between the root hooks and the
// subcommands
type app struct {
	configFile string
	logLevel   string
	metrics    bool
	trace      bool

	cfg *config.Config
	log *zap.Logger
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "quoteframe",
		Short: "Build typed columnar tables from quote snapshots",
		Long: `quoteframe turns a symbol-keyed quote snapshot into a 20-column typed table
using one of several interchangeable materialization strategies, decodes JSON
row documents against a declared schema, and measures the strategies against
each other.`,
		SilenceUsage:       true,
		PersistentPreRunE:  a.setup,
		PersistentPostRunE: a.teardown,
	}

	root.PersistentFlags().StringVarP(&a.configFile, "config", "c", "", "Path to YAML configuration file")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	root.PersistentFlags().BoolVar(&a.metrics, "metrics", false, "Print Prometheus metrics to stderr after the command")
	root.PersistentFlags().BoolVar(&a.trace, "trace", false, "Export trace spans to stderr")

	root.AddCommand(
		newVersionCommand(),
		newStrategiesCommand(),
		newMaterializeCommand(a),
		newDecodeCommand(a),
		newBenchCommand(a),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg := config.Default()
	if a.configFile != "" {
		loaded, err := config.Load(a.configFile)
		if err != nil {
			return err
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.Log.Level = a.logLevel
	}
	if flags.Changed("metrics") {
		cfg.Metrics.Enabled = a.metrics
	}
	if flags.Changed("trace") {
		cfg.Tracing.Enabled = a.trace
	}

	if err := logger.Init(cfg.Log); err != nil {
		return err
	}

	tracing := observability.DefaultConfig()
	tracing.Enabled = cfg.Tracing.Enabled
	tracing.ServiceVersion = version
	tracing.SamplingRate = cfg.Tracing.SamplingRate
	tracing.PrettyPrint = cfg.Tracing.PrettyPrint
	// stdout carries tables
	tracing.Output = os.Stderr
	if err := observability.Init(tracing); err != nil {
		return err
	}

	a.cfg = cfg
	a.log = logger.Get().With(zap.String("component", "quoteframe-cli"))
	return nil
}

func (a *app) teardown(_ *cobra.Command, _ []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := observability.Shutdown(ctx); err != nil {
		a.log.Warn("failed to flush traces", zap.Error(err))
	}
	if a.cfg != nil && a.cfg.Metrics.Enabled {
		if err := metrics.WriteText(os.Stderr); err != nil {
			return err
		}
	}
	_ = logger.Sync()
	return nil
}
