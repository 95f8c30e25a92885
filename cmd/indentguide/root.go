package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/dshills/indentguide/internal/config"
	"github.com/dshills/indentguide/internal/document"
	"github.com/dshills/indentguide/internal/logging"
	"github.com/dshills/indentguide/internal/view"
)

// configEnv names the settings file when --config is not given.
const configEnv = "INDENTGUIDE_CONFIG"

// globalOptions are the flags every subcommand shares.
type globalOptions struct {
	configPath string
	logLevel   string
	logFile    string
	cacheSize  int

	tabWidth      int
	leadingEdge   bool
	blankLines    bool
	commentBlocks bool
	style         string

	logger   *logging.Logger
	closeLog func() error
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}

	cmd := &cobra.Command{
		Use:   "indentguide",
		Short: "Draw indent guides for source files",
		Long: `indentguide computes vertical indent guides for a text document: which
tab stops on each line get a guide, including across blank lines and
comment continuation lines, and draws them as text or in a terminal viewer.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level, ok := logging.ParseLevel(opts.logLevel)
			if !ok {
				return fmt.Errorf("invalid log level %q (must be debug, info, warn, or error)", opts.logLevel)
			}
			if opts.cacheSize < 0 {
				return fmt.Errorf("invalid cache size %d (must be 0 or more)", opts.cacheSize)
			}
			out := cmd.ErrOrStderr()
			if opts.logFile != "" {
				f, err := os.OpenFile(opts.logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
				if err != nil {
					return fmt.Errorf("opening log file: %w", err)
				}
				opts.closeLog = f.Close
				out = f
			}
			opts.logger = logging.New(logging.Config{
				Level:  level,
				Output: out,
				Prefix: "indentguide",
			})
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if opts.closeLog != nil {
				return opts.closeLog()
			}
			return nil
		},
	}
	cmd.SetVersionTemplate(versionTemplate())

	pf := cmd.PersistentFlags()
	pf.StringVarP(&opts.configPath, "config", "c", "", "Settings file (TOML, or YAML by extension); defaults to $"+configEnv)
	pf.StringVar(&opts.logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
	pf.StringVar(&opts.logFile, "log-file", "", "Append logs to this file instead of stderr")
	pf.IntVar(&opts.cacheSize, "cache-size", view.DefaultCacheSize, "Analyzed lines cached per view (0 = unlimited)")
	pf.IntVar(&opts.tabWidth, "tab-width", 4, "Columns per tab stop")
	pf.BoolVar(&opts.leadingEdge, "lead-edge", false, "Draw the guide at the first stop of each block")
	pf.BoolVar(&opts.blankLines, "blank-lines", true, "Carry guides through blank lines")
	pf.BoolVar(&opts.commentBlocks, "comment-blocks", false, "Draw guides on comment continuation lines")
	pf.StringVar(&opts.style, "style", "solid", "Line style (solid, dash, dot, dashdot, dashdotdot)")

	cmd.AddCommand(newRenderCmd(opts), newAnalyzeCmd(opts), newViewCmd(opts))
	return cmd
}

func versionTemplate() string {
	if commit != "unknown" && commit != "" {
		return fmt.Sprintf("indentguide %s\n  commit: %s\n  built:  %s\n", version, commit, date)
	}
	return fmt.Sprintf("indentguide %s\n", version)
}

// settingsPath returns --config, or the path from the environment.
func (o *globalOptions) settingsPath() string {
	if o.configPath != "" {
		return o.configPath
	}
	return os.Getenv(configEnv)
}

// loadSettings loads the settings file and applies any flags given
// explicitly on the command line over it. Without --log-level the logger
// takes its level from the settings.
func (o *globalOptions) loadSettings(cmd *cobra.Command) (*config.Settings, error) {
	path := o.settingsPath()
	s, err := config.Load(path, config.WithLogger(o.logger))
	if err != nil {
		return nil, fmt.Errorf("loading settings: %w", err)
	}
	if err := o.applyFlags(cmd, s); err != nil {
		return nil, err
	}
	if !cmd.Flags().Changed("log-level") {
		// Validated by Load
		level, _ := logging.ParseLevel(s.Logging.Level)
		o.logger.SetLevel(level)
	}
	o.logger.Debug("settings loaded from %q: tabWidth=%d style=%s", path, s.Guide.TabWidth, s.Guide.Line.Style)
	return s, nil
}

func (o *globalOptions) applyFlags(cmd *cobra.Command, s *config.Settings) error {
	flags := cmd.Flags()
	if flags.Changed("tab-width") {
		s.Guide.TabWidth = o.tabWidth
	}
	if flags.Changed("lead-edge") {
		s.Guide.DrawLeadingEdge = o.leadingEdge
	}
	if flags.Changed("blank-lines") {
		s.Guide.DrawBlankLines = o.blankLines
	}
	if flags.Changed("comment-blocks") {
		s.Guide.DrawCommentBlocks = o.commentBlocks
	}
	if flags.Changed("style") {
		s.Guide.Line.Style = config.LineStyle(o.style)
	}
	if err := s.Validate(); err != nil {
		return fmt.Errorf("invalid flags: %w", err)
	}
	return nil
}

// newRegistry creates the view registry for one command run.
func (o *globalOptions) newRegistry(s *config.Settings) *view.Registry {
	return view.NewRegistry(s, view.WithLogger(o.logger), view.WithCacheSize(o.cacheSize))
}

// openDocument reads a file, or stdin for "-".
func openDocument(cmd *cobra.Command, path string) (*document.Document, error) {
	if path == "-" {
		return document.NewFromReader("stdin", cmd.InOrStdin())
	}
	doc, err := document.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("no such file: %s", path)
	}
	return doc, err
}

// writeAll writes s to w, reporting a short write as an error.
func writeAll(w io.Writer, s string) error {
	_, err := io.WriteString(w, s)
	return err
}
