// Command polyshrink offsets a polygon toward its skeleton, checks the
// offset for flips and extrudes the result into a solid.
//
// Usage:
//
//	polyshrink [flags] <polygon-file | scene.lisp | ->
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/chazu/polyshrink/pkg/config"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "polyshrink:", err)
		os.Exit(1)
	}
}

// logLevels maps the --log choices to slog levels.
var logLevels = map[string]slog.Level{
	"DEBUG":   slog.LevelDebug,
	"INFO":    slog.LevelInfo,
	"WARNING": slog.LevelWarn,
	"ERROR":   slog.LevelError,
}

func run(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("polyshrink", flag.ContinueOnError)
	fs.Usage = func() {
		fmt.Fprintln(fs.Output(), "usage: polyshrink [flags] <polygon-file | scene.lisp | ->")
		fs.PrintDefaults()
	}

	configPath := fs.String("config", "polyshrink.toml", "TOML configuration file")
	step := fs.Float64("step", 0, "offset distance")
	height := fs.Float64("height", 0, "extrusion height")
	margin := fs.Float64("margin", 0, "margin added to polygon file coordinates")
	iterations := fs.Int("iterations", 0, "maximum shrink iterations in verbose mode")
	kernelName := fs.String("kernel", "", "solid backend: faceted or sdfx")
	reverse := fs.Bool("reverse", false, "reverse vertex order of polygon files")
	fs.BoolVar(reverse, "r", false, "shorthand for -reverse")
	normalize := fs.Bool("normalize", false, "reverse clockwise outlines before offsetting")
	autoReduce := fs.Bool("auto-reduce", false, "halve the step until the offset no longer flips")
	verbose := fs.Bool("verbose", false, "draw and extrude every step of the shrink sequence")
	fs.BoolVar(verbose, "v", false, "shorthand for -verbose")
	logLevel := fs.String("log", "", "log level: DEBUG, INFO, WARNING or ERROR")
	drawing := fs.String("o", "", "write a drawing (.svg or .png)")
	meshPath := fs.String("mesh", "", "write the result as JSON")
	timeout := fs.Duration("timeout", 0, "scene script evaluation timeout")
	printConfig := fs.Bool("print-config", false, "print the effective configuration and exit")

	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}

	// Flags override the file only when given explicitly.
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "step":
			cfg.Step = *step
		case "height":
			cfg.Height = *height
		case "margin":
			cfg.Margin = *margin
		case "iterations":
			cfg.Iterations = *iterations
		case "kernel":
			cfg.Kernel = *kernelName
		case "reverse", "r":
			cfg.Reverse = *reverse
		case "normalize":
			cfg.Normalize = *normalize
		case "auto-reduce":
			cfg.AutoReduce = *autoReduce
		case "log":
			cfg.LogLevel = *logLevel
		case "o":
			cfg.Output.Drawing = *drawing
		case "mesh":
			cfg.Output.Mesh = *meshPath
		}
	})
	if err := cfg.Validate(); err != nil {
		return err
	}
	if *printConfig {
		data, err := cfg.Marshal()
		if err != nil {
			return err
		}
		_, err = stdout.Write(data)
		return err
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return fmt.Errorf("expected one input file, got %d", fs.NArg())
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevels[strings.ToUpper(cfg.LogLevel)],
	}))
	slog.SetDefault(logger)

	app := NewApp(cfg, logger)
	app.Verbose = *verbose
	if *timeout > 0 {
		app.engine.SetTimeout(*timeout)
	}

	input := fs.Arg(0)
	in, diags, err := app.LoadFile(input)
	if err != nil {
		return err
	}
	if len(diags) > 0 {
		for _, d := range diags {
			logger.Error("script error", slog.Int("line", d.Line), slog.String("message", d.Message))
		}
		return fmt.Errorf("%s: %d script error(s)", input, len(diags))
	}
	logger.Debug("input loaded",
		slog.Int("outline", len(in.Outline)),
		slog.Int("holes", len(in.Holes)),
		slog.Duration("timeout", *timeout),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	start := time.Now()
	result := app.Run(ctx, in)
	logger.Info("run complete", slog.Duration("elapsed", time.Since(start)), slog.Int("meshes", len(result.Meshes)))

	for _, w := range result.Warnings {
		logger.Warn(w.Message, slog.String("code", w.Code), slog.Int("vertex", w.Vertex))
	}
	for _, e := range result.Errors {
		logger.Error(e.Message, slog.String("code", e.Code), slog.Int("vertex", e.Vertex))
	}

	if cfg.Output.Drawing != "" {
		if err := WriteDrawing(cfg.Output.Drawing, result); err != nil {
			return err
		}
	}
	if cfg.Output.Mesh != "" {
		f, err := os.Create(cfg.Output.Mesh)
		if err != nil {
			return err
		}
		if err := WriteJSON(f, result); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
	}

	if result.HasLeaf {
		fmt.Fprintf(stdout, "min leaf: %g\n", result.MinLeaf)
	}
	if result.Flipped {
		fmt.Fprintf(stdout, "offset by %g flipped\n", result.Step)
	}
	if len(result.Errors) > 0 {
		return fmt.Errorf("%s: %d error(s)", input, len(result.Errors))
	}
	return nil
}
