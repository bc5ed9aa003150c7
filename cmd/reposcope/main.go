package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"reposcope/internal/core/config"
	"reposcope/internal/shared/observability"
)

var (
	rootDir     = flag.String("root", "", "Repository root to analyze (overrides config)")
	configPath  = flag.String("config", "./reposcope.toml", "Path to config file")
	watch       = flag.Bool("watch", false, "Re-run analysis when files change")
	ui          = flag.Bool("ui", false, "Enable terminal UI mode")
	jsonOut     = flag.String("json", "", "Write the structural model as JSON to this path")
	markdownOut = flag.String("markdown", "", "Write a markdown report to this path")
	mermaidOut  = flag.String("mermaid", "", "Write a mermaid dependency diagram to this path")
	dotOut      = flag.String("dot", "", "Write a Graphviz DOT diagram to this path")
	tsvOut      = flag.String("tsv", "", "Write dependency edges as TSV to this path")
	metricsAddr = flag.String("metrics-addr", "", "Serve Prometheus metrics on this address")
	verbose     = flag.Bool("verbose", false, "Enable verbose logging")
	version     = flag.Bool("version", false, "Print version and exit")
)

const VERSION = "1.0.0"

func main() {
	flag.Parse()

	if *version {
		fmt.Printf("reposcope v%s\n", VERSION)
		os.Exit(0)
	}

	logLevel := slog.LevelInfo
	if *verbose {
		logLevel = slog.LevelDebug
	}

	output := os.Stdout
	if *ui {
		// In UI mode, avoid stdout logs corrupting the TUI.
		logPath := resolveLogPath()
		if err := os.MkdirAll(filepath.Dir(logPath), 0700); err != nil {
			fmt.Fprintf(os.Stderr, "warning: failed to create log dir for %s: %v\n", logPath, err)
		} else {
			if fi, err := os.Lstat(logPath); err == nil && (fi.Mode()&os.ModeSymlink) != 0 {
				fmt.Fprintf(os.Stderr, "warning: refusing to write logs to symlink path %s\n", logPath)
			} else {
				f, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
				if err == nil {
					output = f
				} else {
					fmt.Fprintf(os.Stderr, "warning: failed to open log file %s: %v\n", logPath, err)
				}
			}
		}
	}

	logger := slog.New(slog.NewTextHandler(output, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	cfg, err := config.Load(*configPath)
	if err != nil {
		if !os.IsNotExist(err) {
			slog.Error("failed to load config", "path", *configPath, "error", err)
			os.Exit(1)
		}
		cfg = config.Default()
	}
	applyFlagOverrides(cfg)

	if flag.NArg() > 0 {
		cfg.Root = flag.Arg(0)
	}

	ctx := context.Background()

	if cfg.Tracing.Endpoint != "" {
		shutdown, err := observability.SetupTracing(ctx, cfg.Tracing.Endpoint)
		if err != nil {
			slog.Error("failed to set up tracing", "error", err)
			os.Exit(1)
		}
		defer func() {
			if err := shutdown(context.Background()); err != nil {
				slog.Warn("trace exporter shutdown failed", "error", err)
			}
		}()
	}

	if *metricsAddr != "" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.Handler())
			if err := http.ListenAndServe(*metricsAddr, mux); err != nil {
				slog.Error("metrics server stopped", "error", err)
			}
		}()
	}

	app, err := NewApp(cfg)
	if err != nil {
		slog.Error("failed to initialize app", "error", err)
		os.Exit(1)
	}
	defer app.Close()

	if err := app.Run(ctx); err != nil {
		slog.Error("analysis failed", "error", err)
		os.Exit(1)
	}

	if !*ui {
		app.PrintSummary()
	}

	if !*watch && !*ui {
		return
	}

	if *watch {
		if err := app.StartWatcher(ctx); err != nil {
			slog.Error("failed to start watcher", "error", err)
			os.Exit(1)
		}
	}

	if *ui {
		if err := app.RunUI(); err != nil {
			slog.Error("failed to run UI", "error", err)
			os.Exit(1)
		}
	} else {
		// Block forever
		select {}
	}
}

func applyFlagOverrides(cfg *config.Config) {
	if *rootDir != "" {
		cfg.Root = *rootDir
	}
	if *jsonOut != "" {
		cfg.Output.JSON = *jsonOut
	}
	if *markdownOut != "" {
		cfg.Output.Markdown = *markdownOut
	}
	if *mermaidOut != "" {
		cfg.Output.Mermaid = *mermaidOut
	}
	if *dotOut != "" {
		cfg.Output.DOT = *dotOut
	}
	if *tsvOut != "" {
		cfg.Output.TSV = *tsvOut
	}
}

func resolveLogPath() string {
	if xdg := os.Getenv("XDG_STATE_HOME"); xdg != "" {
		return filepath.Join(xdg, "reposcope", "reposcope.log")
	}

	home, err := os.UserHomeDir()
	if err == nil && home != "" {
		return filepath.Join(home, ".local", "state", "reposcope", "reposcope.log")
	}

	return "reposcope.log"
}
