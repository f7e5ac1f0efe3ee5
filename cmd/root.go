package cmd

import (
	"errors"
	"fmt"
	"io"
	"runtime"

	"github.com/go-logr/logr"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/oakwood-commons/colify/internal/limiter"
	"github.com/oakwood-commons/colify/pkg/colify"
	"github.com/oakwood-commons/colify/pkg/logger"
	"github.com/oakwood-commons/colify/pkg/settings"
)

// rootFlags holds every flag of one command tree so tests can build fresh trees.
type rootFlags struct {
	indent     int
	padding    int
	width      int
	method     string
	tty        bool
	noTTY      bool
	labels     []string
	expression string
	sortOrder  string
	limit      int
	offset     int
	tail       int
	truncate   int
	configFile string
	debug      bool
	stats      bool
}

var rootCmd = newRootCmd()

// Execute runs the colify command tree against os.Args.
func Execute() error {
	return rootCmd.Execute()
}

func newRootCmd() *cobra.Command {
	f := &rootFlags{}

	cmd := &cobra.Command{
		Use:   settings.CliBinaryName + " [file]",
		Short: "Print labels in terminal-width-aware columns",
		Long: `colify lays out a list of labels in columns, filling down each column
before moving right, the way ls does.

Labels come from --labels, a file (JSON, YAML, TOML or one label per line), or
piped stdin. When stdout is not a terminal, labels are printed one per line
unless --tty is given.

Config file keys under "colify:": ` + configKeys() + `.`,
		Example: "\n  ls /usr/bin | colify --tty\n  colify --labels a,bb,ccc,dddd,e --tty --width 20\n  colify packages.yaml -e \"_.startsWith('py-')\" --sort asc\n  colify packages.txt --method uniform --padding 4\n",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			// Map --debug to log level: debug => zap.DebugLevel (-1), else zap.InfoLevel (0)
			var level int8
			if f.debug {
				level = -1
			}
			lgr := logger.Get(level)
			lgr = logger.WithValues(lgr, logger.RootCommandKey, settings.CliBinaryName, logger.SubCommandKey, cmd.Name())

			run := settings.NewCliParams()
			run.MinLogLevel = level
			run.ShowStats = f.stats

			ctx := logger.WithLogger(cmd.Context(), lgr)
			cmd.SetContext(settings.IntoContext(ctx, run))
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runColify(cmd, args, f)
		},
	}

	flags := cmd.Flags()
	flags.IntVar(&f.indent, "indent", 0, "leading spaces on every row")
	flags.IntVar(&f.padding, "padding", 2, "spaces between columns")
	flags.IntVar(&f.width, "width", 0, "output width in columns (default: detected terminal width)")
	flags.StringVar(&f.method, "method", "variable", "column fitting method: variable|uniform")
	flags.BoolVar(&f.tty, "tty", false, "always lay out columns, even when stdout is not a terminal")
	flags.BoolVar(&f.noTTY, "no-tty", false, "always print one label per line")
	flags.StringSliceVar(&f.labels, "labels", nil, "comma-separated labels to print instead of reading input")
	flags.StringVarP(&f.expression, "expression", "e", "", "CEL expression per label ('_' is the label, 'i' its index); bool filters, string rewrites")
	flags.StringVar(&f.sortOrder, "sort", "", "sort labels: ascending|asc|descending|desc|none (default from config or none)")
	flags.IntVar(&f.limit, "limit", 0, "show only the first N labels")
	flags.IntVar(&f.offset, "offset", 0, "skip the first N labels")
	flags.IntVar(&f.tail, "tail", 0, "show only the last N labels (mutually exclusive with --limit; ignores --offset)")
	flags.IntVar(&f.truncate, "truncate", 0, "truncate labels wider than N cells with an ellipsis (0 = off)")
	flags.BoolVar(&f.stats, "stats", false, "print the chosen layout to stderr")
	cmd.MarkFlagsMutuallyExclusive("tty", "no-tty")

	cmd.PersistentFlags().StringVar(&f.configFile, "config-file", "", "path to a YAML config file")
	cmd.PersistentFlags().BoolVar(&f.debug, "debug", false, "write debug logs to stderr")

	cmd.Version = cliVersionString()
	cmd.SetVersionTemplate("{{.Version}}\n")
	cmd.AddCommand(newVersionCmd(), newConfigCmd(f))
	return cmd
}

func runColify(cmd *cobra.Command, args []string, f *rootFlags) error {
	ctx := cmd.Context()
	lgr := *logger.FromContext(ctx)
	run := settings.FromContextOrDefault(ctx)

	run.ConfigPath = resolveConfigPath(f.configFile)
	cfg, err := loadConfig(run.ConfigPath)
	if err != nil {
		return err
	}
	if run.ConfigPath != "" {
		lgr.V(1).Info("loaded config file", "path", run.ConfigPath)
	}

	limits := limiter.Config{
		Limit:    f.limit,
		Offset:   f.offset,
		Tail:     f.tail,
		Truncate: f.truncate,
	}
	if !cmd.Flags().Changed("truncate") && cfg.Truncate > 0 {
		limits.Truncate = cfg.Truncate
	}
	if err := limits.Validate(); err != nil {
		return fmt.Errorf("record limiting error: %w", err)
	}

	sortValue := cfg.Sort
	if cmd.Flags().Changed("sort") {
		sortValue = f.sortOrder
	}
	order, err := parseSortOrder(sortValue)
	if err != nil {
		return err
	}

	opts, err := layoutOptions(cmd.Flags(), cfg, f, cmd.OutOrStdout(), lgr)
	if err != nil {
		return err
	}

	labels, err := readLabels(args, f.labels, cmd.InOrStdin(), run, lgr)
	if errors.Is(err, errShowHelp) {
		return cmd.Help()
	}
	if err != nil {
		return err
	}
	lgr = lgr.WithValues(logger.LabelCountKey, len(labels))

	labels, err = pipeline{expression: f.expression, sort: order, limits: limits}.apply(labels, lgr)
	if err != nil {
		return err
	}

	layout, err := colify.Colify(labels, opts...)
	if err != nil {
		return err
	}
	if run.ShowStats {
		fmt.Fprintf(cmd.ErrOrStderr(), "columns=%d widths=%v\n", layout.Columns, layout.Widths)
	}
	return nil
}

// layoutOptions merges config-file layout keys with explicitly set flags (flags
// win) and validates the result before any output is written.
func layoutOptions(fs *pflag.FlagSet, cfg fileConfig, f *rootFlags, out io.Writer, lgr logr.Logger) ([]colify.Option, error) {
	values := make(map[string]any, len(cfg.Colify)+1)
	for k, v := range cfg.Colify {
		values[k] = v
	}
	fs.Visit(func(fl *pflag.Flag) {
		switch fl.Name {
		case "indent":
			values["indent"] = f.indent
		case "padding":
			values["padding"] = f.padding
		case "width":
			values["width"] = f.width
		case "method":
			values["method"] = f.method
		case "tty":
			values["tty"] = f.tty
		case "no-tty":
			values["tty"] = !f.noTTY
		}
	})
	values["output"] = out

	opts, err := colify.OptionsFromMap(values)
	if err != nil {
		return nil, err
	}
	opts = append(opts, colify.WithLogger(lgr))
	if _, err := colify.NewOptions(opts...); err != nil {
		return nil, err
	}
	return opts, nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print colify version",
		RunE: func(cmd *cobra.Command, _ []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), cliVersionString())
			return nil
		},
	}
}

func newConfigCmd(f *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Show the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(resolveConfigPath(f.configFile))
			if err != nil {
				return err
			}
			merged, err := mergeConfig(cfg)
			if err != nil {
				return err
			}
			out, err := renderConfigYAML(merged)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), out)
			return nil
		},
	}
}

// cliVersionString builds a human-readable version string for `colify version` and --version.
func cliVersionString() string {
	v := settings.VersionInformation
	return fmt.Sprintf("%s %s (commit %s, built %s, %s)", settings.CliBinaryName, v.BuildVersion, v.Commit, v.BuildTime, runtime.Version())
}
