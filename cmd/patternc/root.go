package main

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"patterndb/config"
	"patterndb/goregexp"
	"patterndb/logging"
	"patterndb/metrics"
	"patterndb/multipattern"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

type options struct {
	definition  string
	engine      string
	all         bool
	timeout     time.Duration
	metricsFile string
	log         logging.Options
}

// compilerConstructors maps engine names to compilers. Builds with the hyperscan tag add "hyperscan".
var compilerConstructors = map[string]func(zerolog.Logger) multipattern.Compiler{
	"go": func(logger zerolog.Logger) multipattern.Compiler { return goregexp.NewCompiler(logger) },
}

func engineNames() []string {
	nn := make([]string, 0, len(compilerConstructors))
	for n := range compilerConstructors {
		nn = append(nn, n)
	}
	sort.Strings(nn)
	return nn
}

func defaultEngine() string {
	if _, ok := compilerConstructors["hyperscan"]; ok {
		return "hyperscan"
	}
	return "go"
}

func newRootCmd() *cobra.Command {
	opt := &options{}

	cmd := &cobra.Command{
		Use:          "patternc",
		Short:        "Compile a pattern definition file into a pattern database",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), opt, cmd.OutOrStdout())
		},
	}

	flag := cmd.Flags()
	flag.StringVarP(&opt.definition, "definition", "d", "", "YAML pattern definition file.")
	flag.StringVarP(&opt.engine, "engine", "e", defaultEngine(), fmt.Sprintf("Compiler to use. One of: %s.", strings.Join(engineNames(), ", ")))
	flag.BoolVar(&opt.all, "all", false, "Build block, vector and stream databases instead of only the configured mode.")
	flag.DurationVar(&opt.timeout, "timeout", 0, "Give up waiting for the build after this long. Zero waits forever.")
	flag.StringVar(&opt.metricsFile, "metricsfile", "", "Write build metrics in Prometheus text format to this file.")
	flag.StringVar(&opt.log.Level, "loglevel", "info", "Log level. One of: debug, info, warn, error, fatal, panic.")
	flag.StringVar(&opt.log.Format, "logformat", "console", "Log format. One of: console, json.")
	flag.StringVar(&opt.log.File, "logfile", "", "Write logs to this file instead of stderr.")
	cmd.MarkFlagRequired("definition")

	return cmd
}

func run(ctx context.Context, opt *options, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}

	logger, closer, err := logging.New(opt.log)
	if err != nil {
		return err
	}
	defer closer.Close()

	newCompiler, ok := compilerConstructors[opt.engine]
	if !ok {
		return errors.Errorf("unknown engine %q, expected one of: %s", opt.engine, strings.Join(engineNames(), ", "))
	}

	def, err := config.Load(opt.definition)
	if err != nil {
		return err
	}
	// Parse has validated the definition already.
	set, _ := def.PatternSet()
	mode, _ := def.ScanMode()
	horizon, _ := def.ScanHorizon()
	platform, _ := def.TargetPlatform()

	if opt.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opt.timeout)
		defer cancel()
	}

	reg := prometheus.NewRegistry()
	observer, err := metrics.NewObserver(reg)
	if err != nil {
		return err
	}
	if opt.metricsFile != "" {
		defer func() {
			if err := prometheus.WriteToTextfile(opt.metricsFile, reg); err != nil {
				logger.Error().Err(err).Str("path", opt.metricsFile).Msg("Failed to write metrics")
			}
		}()
	}

	f := multipattern.NewFactory(logger, newCompiler(logger), multipattern.WithObserver(observer))

	var dbs []multipattern.Database
	if opt.all {
		s, err := multipattern.BuildContext(ctx, func() (*multipattern.DatabaseSet, error) {
			return f.BuildAll(set, platform, horizon)
		})
		if err != nil {
			return errors.Wrap(err, "build failed")
		}
		defer s.Close()
		dbs = []multipattern.Database{s.Block, s.Vector, s.Stream}
	} else {
		db, err := multipattern.BuildContext(ctx, func() (multipattern.Database, error) {
			return f.Build(mode, set, platform, horizon)
		})
		if err != nil {
			return errors.Wrap(err, "build failed")
		}
		defer db.Close()
		dbs = []multipattern.Database{db}
	}

	for _, db := range dbs {
		if err := report(out, db); err != nil {
			return err
		}
	}
	return nil
}

func report(out io.Writer, db multipattern.Database) error {
	size, err := db.Size()
	if err != nil {
		return err
	}

	target := "host"
	if p := db.Platform(); p != nil {
		target = p.String()
	}

	_, err = fmt.Fprintf(out, "%-6s patterns=%d horizon=%s target=%q size=%s fingerprint=%s\n",
		db.Mode(), db.Len(), db.Horizon(), target, humanize.IBytes(uint64(size)), db.Fingerprint())
	return err
}
