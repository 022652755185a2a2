// Package cmd wires the command line interface for sidediff.
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/term"

	"github.com/zjrosen/sidediff/internal/config"
	"github.com/zjrosen/sidediff/internal/diff"
	"github.com/zjrosen/sidediff/internal/display"
	"github.com/zjrosen/sidediff/internal/highlight"
	"github.com/zjrosen/sidediff/internal/log"
	"github.com/zjrosen/sidediff/internal/tracing"
	"github.com/zjrosen/sidediff/internal/watcher"
)

// minWidth is the narrowest terminal the two-column layout stays
// readable at. Narrower terminals are treated as this width.
const minWidth = 20

var (
	version = "dev"
	cfgFile string
	cfg     config.Config
)

var rootCmd = &cobra.Command{
	Use:   "sidediff OLD NEW",
	Short: "Side-by-side diffs for the terminal",
	Long: `Compares two files and renders the differences in a two-column
terminal layout with line numbers, syntax highlighting and word-level
change emphasis. Also usable as a git external diff tool.`,
	Version:      version,
	Args:         validateArgs,
	RunE:         runDiff,
	SilenceUsage: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: ~/.config/sidediff/config.yaml)")
	rootCmd.Flags().Int("width", 0,
		"terminal width override (default: detected)")
	rootCmd.Flags().String("color", "",
		"when to use color: auto, always, never")
	rootCmd.Flags().String("background", "",
		"terminal background: auto, light, dark")
	rootCmd.Flags().String("display", "",
		"layout: side-by-side, side-by-side-show-both")
	rootCmd.Flags().Int("context", 0,
		"unchanged lines shown around each change")
	rootCmd.Flags().Bool("syntax-highlight", true,
		"color unchanged code by syntax")
	rootCmd.Flags().Int("tab-width", 0,
		"spaces a tab expands to")
	rootCmd.Flags().BoolP("watch", "w", false,
		"re-render when either file changes")
	rootCmd.Flags().Bool("debug", false,
		"write a debug log to sidediff.log")
	rootCmd.Flags().String("log-level", "debug",
		"minimum debug log level: debug, info, warn, error")
	rootCmd.Flags().Bool("trace", false,
		"emit OpenTelemetry spans for the render pipeline")

	_ = viper.BindPFlag("width", rootCmd.Flags().Lookup("width"))
	_ = viper.BindPFlag("theme.color", rootCmd.Flags().Lookup("color"))
	_ = viper.BindPFlag("theme.mode", rootCmd.Flags().Lookup("background"))
	_ = viper.BindPFlag("display", rootCmd.Flags().Lookup("display"))
	_ = viper.BindPFlag("context", rootCmd.Flags().Lookup("context"))
	_ = viper.BindPFlag("syntax_highlight", rootCmd.Flags().Lookup("syntax-highlight"))
	_ = viper.BindPFlag("tab_width", rootCmd.Flags().Lookup("tab-width"))
	_ = viper.BindPFlag("tracing.enabled", rootCmd.Flags().Lookup("trace"))
}

// validateArgs accepts the plain two-file form and the seven-argument
// form git passes to GIT_EXTERNAL_DIFF tools.
func validateArgs(cmd *cobra.Command, args []string) error {
	if len(args) == 2 || len(args) == 7 {
		return nil
	}
	return fmt.Errorf("expected OLD NEW (or git's 7 external-diff arguments), got %d args", len(args))
}

func initConfig() {
	defaults := config.Defaults()
	viper.SetDefault("context", defaults.Context)
	viper.SetDefault("tab_width", defaults.TabWidth)
	viper.SetDefault("display", defaults.Display)
	viper.SetDefault("syntax_highlight", defaults.SyntaxHighlight)
	viper.SetDefault("width", defaults.Width)
	viper.SetDefault("theme.mode", defaults.Theme.Mode)
	viper.SetDefault("theme.color", defaults.Theme.Color)
	viper.SetDefault("watch.debounce_ms", defaults.Watch.DebounceMs)
	viper.SetDefault("tracing.enabled", defaults.Tracing.Enabled)
	viper.SetDefault("tracing.exporter", defaults.Tracing.Exporter)
	viper.SetDefault("tracing.file_path", defaults.Tracing.FilePath)
	viper.SetDefault("tracing.otlp_endpoint", defaults.Tracing.OTLPEndpoint)
	viper.SetDefault("tracing.sample_rate", defaults.Tracing.SampleRate)
	viper.SetDefault("tracing.service_name", defaults.Tracing.ServiceName)

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		// Config lookup order:
		// 1. .sidediff/config.yaml (current directory)
		// 2. ~/.config/sidediff/config.yaml (user config)
		if _, err := os.Stat(".sidediff/config.yaml"); err == nil {
			viper.SetConfigFile(".sidediff/config.yaml")
		} else {
			home, _ := os.UserHomeDir()
			viper.AddConfigPath(filepath.Join(home, ".config", "sidediff"))
			viper.SetConfigName("config")
			viper.SetConfigType("yaml")
		}
	}

	// A missing config file just means defaults.
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			fmt.Fprintf(os.Stderr, "warning: reading config: %v\n", err)
		}
	}

	_ = viper.Unmarshal(&cfg)
}

func runDiff(cmd *cobra.Command, args []string) error {
	lhsPath, rhsPath, inVCS := resolvePaths(args)

	debug, _ := cmd.Flags().GetBool("debug")
	if os.Getenv("SIDEDIFF_DEBUG") != "" {
		debug = true
	}
	if debug {
		closeLog, err := log.Init("sidediff.log")
		if err != nil {
			return fmt.Errorf("initializing debug log: %w", err)
		}
		defer closeLog()
		log.SetEnabled(true)
		levelStr, _ := cmd.Flags().GetString("log-level")
		level, err := log.ParseLevel(levelStr)
		if err != nil {
			return err
		}
		log.SetMinLevel(level)
		log.Info(log.CatConfig, "session start",
			"lhs", lhsPath, "rhs", rhsPath, "version", version)
	}

	provider, err := tracing.NewProvider(cfg.Tracing)
	if err != nil {
		return fmt.Errorf("initializing tracing: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = provider.Shutdown(shutdownCtx)
	}()
	if provider.Enabled() {
		log.Info(log.CatConfig, "tracing enabled", "exporter", cfg.Tracing.Exporter)
	}

	opts, err := buildOptions(inVCS)
	if err != nil {
		return err
	}

	watch, _ := cmd.Flags().GetBool("watch")
	if !watch {
		return render(cmd.Context(), provider.Tracer(), lhsPath, rhsPath, opts)
	}
	return runWatch(provider.Tracer(), lhsPath, rhsPath, opts)
}

// resolvePaths maps the argument list to the two compared files. Git's
// external diff form passes path, old-file, old-hex, old-mode,
// new-file, new-hex, new-mode.
func resolvePaths(args []string) (lhsPath, rhsPath string, inVCS bool) {
	if len(args) == 7 {
		return args[1], args[4], true
	}
	return args[0], args[1], false
}

// buildOptions resolves the final display options from config, flags
// and terminal detection.
func buildOptions(inVCS bool) (display.Options, error) {
	var opts display.Options

	opts.Width = cfg.Width
	if opts.Width <= 0 {
		w, _, err := term.GetSize(int(os.Stdout.Fd()))
		if err != nil || w <= 0 {
			w = 80
		}
		opts.Width = w
	}
	if opts.Width < minWidth {
		opts.Width = minWidth
	}

	switch cfg.Theme.Color {
	case "always":
		opts.UseColor = true
	case "never":
		opts.UseColor = false
	case "auto", "":
		opts.UseColor = term.IsTerminal(int(os.Stdout.Fd())) &&
			termenv.ColorProfile() != termenv.Ascii
	default:
		return opts, fmt.Errorf("invalid color value %q (want auto, always or never)", cfg.Theme.Color)
	}

	switch cfg.Theme.Mode {
	case "light":
		opts.Background = display.BackgroundLight
	case "dark":
		opts.Background = display.BackgroundDark
	case "auto", "":
		if termenv.HasDarkBackground() {
			opts.Background = display.BackgroundDark
		} else {
			opts.Background = display.BackgroundLight
		}
	default:
		return opts, fmt.Errorf("invalid background value %q (want auto, light or dark)", cfg.Theme.Mode)
	}

	switch cfg.Display {
	case "side-by-side", "":
		opts.Mode = display.ModeSideBySide
	case "side-by-side-show-both":
		opts.Mode = display.ModeSideBySideShowBoth
	default:
		return opts, fmt.Errorf("invalid display value %q", cfg.Display)
	}

	opts.SyntaxHighlight = cfg.SyntaxHighlight
	opts.TabWidth = cfg.TabWidth
	if opts.TabWidth <= 0 {
		opts.TabWidth = 8
	}
	opts.InVCS = inVCS

	return opts, nil
}

// render reads both files, diffs them and prints the result to stdout.
func render(ctx context.Context, tracer trace.Tracer, lhsPath, rhsPath string, opts display.Options) error {
	lhsSrc, err := readFile(lhsPath, opts.TabWidth)
	if err != nil {
		return err
	}
	rhsSrc, err := readFile(rhsPath, opts.TabWidth)
	if err != nil {
		return err
	}

	_, hlSpan := tracer.Start(ctx, tracing.SpanHighlight,
		trace.WithAttributes(attribute.String(tracing.AttrRhsPath, rhsPath)))
	hl := highlight.New(rhsPath)
	hlSpan.SetAttributes(attribute.String(tracing.AttrLanguage, hl.LanguageName()))
	hlSpan.End()
	log.Debug(log.CatHighlight, "lexer selected", "language", hl.LanguageName())

	diffOpts := diff.DefaultOptions()
	diffOpts.Context = cfg.Context

	var cat diff.Categorizer
	if opts.SyntaxHighlight {
		cat = hl
	}

	diffCtx, diffSpan := tracer.Start(ctx, tracing.SpanDiff,
		trace.WithAttributes(
			attribute.String(tracing.AttrLhsPath, lhsPath),
			attribute.String(tracing.AttrRhsPath, rhsPath),
			attribute.String(tracing.AttrLanguage, hl.LanguageName()),
		))
	result := diff.Compute(lhsSrc, rhsSrc, diffOpts, cat)
	diffSpan.SetAttributes(attribute.Int(tracing.AttrHunkCount, len(result.Hunks)))
	diffSpan.End()

	log.Debug(log.CatDiff, "comparison done", "hunks", len(result.Hunks))

	renderCtx, renderSpan := tracer.Start(diffCtx, tracing.SpanRender,
		trace.WithAttributes(attribute.Int(tracing.AttrWidth, opts.Width)))
	defer renderSpan.End()

	r := display.NewRenderer(opts, lhsPath, rhsPath, hl.LanguageName(),
		lhsSrc, rhsSrc, result.LhsPositions, result.RhsPositions)
	if r.SingleColumn() {
		r.PrintSingleColumn(os.Stdout)
		return nil
	}
	for i := range result.Hunks {
		_, hunkSpan := tracer.Start(renderCtx, tracing.SpanRenderHunk,
			trace.WithAttributes(attribute.Int(tracing.AttrHunkIndex, i)))
		r.PrintHunk(os.Stdout, i, len(result.Hunks), &result.Hunks[i])
		hunkSpan.End()
	}

	return nil
}

// runWatch renders once, then re-renders whenever either file changes
// until interrupted.
func runWatch(tracer trace.Tracer, lhsPath, rhsPath string, opts display.Options) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := render(ctx, tracer, lhsPath, rhsPath, opts); err != nil {
		return err
	}

	wcfg := watcher.DefaultConfig(lhsPath, rhsPath)
	if cfg.Watch.DebounceMs > 0 {
		wcfg.DebounceDur = time.Duration(cfg.Watch.DebounceMs) * time.Millisecond
	}
	w, err := watcher.New(wcfg)
	if err != nil {
		return fmt.Errorf("starting watcher: %w", err)
	}
	defer w.Stop()

	changes := w.Start()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-changes:
			log.Info(log.CatWatch, "change detected, re-rendering")
			spanCtx, span := tracer.Start(ctx, tracing.SpanWatch)
			if err := render(spanCtx, tracer, lhsPath, rhsPath, opts); err != nil {
				log.ErrorErr(log.CatWatch, "re-render failed", err)
				fmt.Fprintf(os.Stderr, "error: %v\n", err)
			}
			span.End()
		}
	}
}

// readFile loads a file and expands tabs, which keeps later width
// accounting free of tab stops.
func readFile(path string, tabWidth int) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	return strings.ReplaceAll(string(data), "\t", strings.Repeat(" ", tabWidth)), nil
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version string (called from main with ldflags)
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}
