package main

import (
	"fmt"
	"runtime"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ajitpratap0/quoteframe/internal/bench"
	"github.com/ajitpratap0/quoteframe/pkg/columnar"
	"github.com/ajitpratap0/quoteframe/pkg/config"
	"github.com/ajitpratap0/quoteframe/pkg/json"
	"github.com/ajitpratap0/quoteframe/pkg/jsontable"
	"github.com/ajitpratap0/quoteframe/pkg/materialize"
)

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "quoteframe v%s\n", version)
			fmt.Fprintf(out, "Go version: %s\n", runtime.Version())
			fmt.Fprintf(out, "OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	}
}

func newStrategiesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "strategies",
		Short: "List materialization strategies",
		Run: func(cmd *cobra.Command, args []string) {
			core := make(map[string]bool)
			for _, name := range materialize.Core() {
				core[name] = true
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tCORE\tTYPE CHECKED")
			for _, name := range materialize.Names() {
				fmt.Fprintf(tw, "%s\t%v\t%v\n", name, core[name], materialize.Coercing(name))
			}
			tw.Flush()
		},
	}
}

func newMaterializeCommand(a *app) *cobra.Command {
	var (
		input, kind, strategy string
		format, comp, output  string
		shards                int
		sortBy                string
	)

	cmd := &cobra.Command{
		Use:   "materialize",
		Short: "Build a quote table from a snapshot",
		Long: `Build the 20-column quote table from a bulk quote mapping or a single-quote
API envelope and write it in the chosen format.

Example:
  quoteframe materialize --input quotes.json --strategy row-transpose --format parquet --output quotes.parquet`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := a.cfg
			flags := cmd.Flags()
			override(flags.Changed("input"), &cfg.Input.Path, input)
			override(flags.Changed("kind"), &cfg.Input.Kind, kind)
			override(flags.Changed("strategy"), &cfg.Strategy, strategy)
			override(flags.Changed("format"), &cfg.Output.Format, format)
			override(flags.Changed("compression"), &cfg.Output.Compression, comp)
			override(flags.Changed("output"), &cfg.Output.Path, output)
			if flags.Changed("shards") {
				cfg.Shards = shards
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			quotes, err := loadQuotes(cfg.Input.Path, cfg.Input.Kind)
			if err != nil {
				return err
			}

			runner, err := materialize.NewRunner(cfg.Strategy, materialize.WithShards(cfg.Shards))
			if err != nil {
				return err
			}
			res, err := runner.Run(cmd.Context(), quotes)
			if err != nil {
				return err
			}

			table := res.Table
			if sortBy != "" {
				if table, err = table.SortBy(sortBy); err != nil {
					return err
				}
			}

			a.log.Info("materialized",
				zap.String("run_id", res.RunID),
				zap.String("strategy", cfg.Strategy),
				zap.Int("rows", table.NumRows()),
				zap.Duration("duration", res.Duration),
			)
			return writeTable(table, cfg.Output, cmd.OutOrStdout())
		},
	}

	f := cmd.Flags()
	f.StringVarP(&input, "input", "i", "", "Quote document to read (stdin when empty)")
	f.StringVar(&kind, "kind", config.InputBulk, "Input kind (bulk, envelope)")
	f.StringVarP(&strategy, "strategy", "s", materialize.NameDirectAppend, "Materialization strategy")
	f.IntVar(&shards, "shards", 1, "Materialize in this many concurrent shards")
	f.StringVarP(&format, "format", "f", "text", "Output format (text, csv, json, arrow, parquet, avro)")
	f.StringVar(&comp, "compression", "none", "Output compression (none, gzip, snappy, lz4, zstd, s2, deflate)")
	f.StringVarP(&output, "output", "o", "", "Output file (stdout when empty)")
	f.StringVar(&sortBy, "sort", materialize.ColSymbol, "Sort rows by this column; empty keeps build order")
	return cmd
}

func newDecodeCommand(a *app) *cobra.Command {
	var (
		input, schemaDecl    string
		format, comp, output string
		sampleSize           int
	)

	cmd := &cobra.Command{
		Use:   "decode",
		Short: "Decode a JSON rows document against a declared schema",
		Long: `Decode a JSON array of flat row objects into a typed table. The declared
schema decides every column type; by default it is the 20-column quote schema.

Example:
  quoteframe decode --input rows.json --schema "symbol:string,last_price:float64"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := a.cfg
			flags := cmd.Flags()
			override(flags.Changed("input"), &cfg.Input.Path, input)
			override(flags.Changed("format"), &cfg.Output.Format, format)
			override(flags.Changed("compression"), &cfg.Output.Compression, comp)
			override(flags.Changed("output"), &cfg.Output.Path, output)
			if flags.Changed("sample-size") {
				cfg.Decoder.SampleSize = sampleSize
			}

			declared := materialize.QuoteSchema()
			if schemaDecl != "" {
				s, err := parseSchema(schemaDecl)
				if err != nil {
					return err
				}
				declared = s
			}

			r, err := openInput(cfg.Input.Path)
			if err != nil {
				return err
			}
			defer r.Close()

			dec := jsontable.NewDecoder(jsontable.WithSampleSize(cfg.Decoder.SampleSize))
			table, err := dec.DecodeContext(cmd.Context(), r, declared)
			if err != nil {
				return err
			}
			if table == nil {
				a.log.Info("input holds no document")
				table = columnar.Empty(declared)
			}

			report := dec.Inferred()
			a.log.Info("decoded",
				zap.Int("rows", table.NumRows()),
				zap.Int("overrides", len(report.Overrides)),
				zap.Strings("missing", report.Missing),
				zap.Strings("ignored", report.Ignored),
			)
			return writeTable(table, cfg.Output, cmd.OutOrStdout())
		},
	}

	f := cmd.Flags()
	f.StringVarP(&input, "input", "i", "", "Rows document to read (stdin when empty)")
	f.StringVar(&schemaDecl, "schema", "", "Declared schema as name:type pairs (default: quote schema)")
	f.IntVar(&sampleSize, "sample-size", 100, "Rows inspected by type inference")
	f.StringVarP(&format, "format", "f", "text", "Output format")
	f.StringVar(&comp, "compression", "none", "Output compression")
	f.StringVarP(&output, "output", "o", "", "Output file (stdout when empty)")
	return cmd
}

func newBenchCommand(a *app) *cobra.Command {
	var (
		input, kind string
		iterations  int
		warmup      int
		shards      int
		strategies  []string
		asJSON      bool
	)

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Time every materialization strategy on one snapshot",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := a.cfg
			flags := cmd.Flags()
			override(flags.Changed("input"), &cfg.Input.Path, input)
			override(flags.Changed("kind"), &cfg.Input.Kind, kind)
			if flags.Changed("iterations") {
				cfg.Bench.Iterations = iterations
			}
			if flags.Changed("warmup") {
				cfg.Bench.Warmup = warmup
			}
			if flags.Changed("strategies") {
				cfg.Bench.Strategies = strategies
			}
			if flags.Changed("shards") {
				cfg.Shards = shards
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			quotes, err := loadQuotes(cfg.Input.Path, cfg.Input.Kind)
			if err != nil {
				return err
			}

			report, err := bench.Run(cmd.Context(), quotes, cfg.Bench.Strategies, bench.Options{
				Iterations: cfg.Bench.Iterations,
				Warmup:     cfg.Bench.Warmup,
				Shards:     cfg.Shards,
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				data, err := json.MarshalIndent(report, "", "  ")
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(out, string(data))
				return err
			}

			tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
			fmt.Fprintln(tw, "STRATEGY\tROWS\tNS/OP\tALLOCS/OP\tBYTES/OP\tRSS MB\t")
			for _, r := range report.Results {
				fmt.Fprintf(tw, "%s\t%d\t%.0f\t%.1f\t%.0f\t%.1f\t\n",
					r.Strategy, r.Rows, r.NsPerOp, r.AllocsPerOp, r.BytesPerOp, float64(r.RSSBytes)/(1<<20))
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			if best, ok := report.Fastest(); ok {
				fmt.Fprintf(out, "fastest: %s (%d instruments, %d iterations)\n",
					best.Strategy, report.Instruments, best.Iterations)
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVarP(&input, "input", "i", "", "Quote document to read (stdin when empty)")
	f.StringVar(&kind, "kind", config.InputBulk, "Input kind (bulk, envelope)")
	f.IntVarP(&iterations, "iterations", "n", 1000, "Timed iterations per strategy")
	f.IntVar(&warmup, "warmup", 10, "Untimed iterations per strategy")
	f.IntVar(&shards, "shards", 1, "Materialize in this many concurrent shards")
	f.StringSliceVar(&strategies, "strategies", nil, "Strategies to measure (default: all)")
	f.BoolVar(&asJSON, "json", false, "Print the report as JSON")
	return cmd
}

func override(changed bool, dst *string, v string) {
	if changed {
		*dst = strings.TrimSpace(v)
	}
}
