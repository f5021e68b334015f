package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/q0jt/go-memplan/memplan"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	var (
		configFile  = flag.String("config", "pkl/config.pkl", "Path to the pkl layout config")
		format      = flag.String("format", "summary", "Output format: summary, ld, symbols, wire")
		outFile     = flag.String("o", "", "Write output to file instead of stdout")
		hexFile     = flag.String("hex", "", "Intel HEX image to check against the plan")
		binFile     = flag.String("bin", "", "Write the flattened load image of -hex to file")
		requireHeap = flag.Bool("require-heap", false, "Fail when the layout leaves no heap")
		verbose     = flag.Bool("v", false, "Verbose logging")
	)
	flag.Parse()

	log, err := newLogger(*verbose)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()
	memplan.SetLogger(log)

	opts := options{
		config:      *configFile,
		format:      *format,
		out:         *outFile,
		hex:         *hexFile,
		bin:         *binFile,
		requireHeap: *requireHeap,
	}
	if err := run(context.Background(), opts); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

type options struct {
	config      string
	format      string
	out         string
	hex         string
	bin         string
	requireHeap bool
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	return cfg.Build()
}

func run(ctx context.Context, opts options) error {
	cfg, err := memplan.LoadConfig(ctx, opts.config)
	if err != nil {
		return err
	}
	planner := memplan.Planner{RequireHeap: opts.requireHeap}
	layout, err := planner.Plan(cfg)
	if err != nil {
		return err
	}

	var image *memplan.ImageReport
	if opts.hex != "" {
		image, err = checkImage(layout.Plan, opts.hex, opts.bin)
		if err != nil {
			return err
		}
	}

	var buf bytes.Buffer
	if err := render(&buf, opts.format, layout, image); err != nil {
		return err
	}
	if opts.out == "" {
		_, err = io.Copy(os.Stdout, &buf)
		return err
	}
	return os.WriteFile(opts.out, buf.Bytes(), 0644)
}

func checkImage(plan *memplan.MemoryPlan, hexFile, binFile string) (*memplan.ImageReport, error) {
	b, err := os.ReadFile(hexFile)
	if err != nil {
		return nil, err
	}
	report, err := memplan.CheckImageFile(plan, b)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", hexFile, err)
	}
	if binFile == "" {
		return report, nil
	}
	bin, err := memplan.LoadImage(plan, bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", hexFile, err)
	}
	return report, os.WriteFile(binFile, bin, 0644)
}

func render(w io.Writer, format string, layout *memplan.Layout, image *memplan.ImageReport) error {
	switch format {
	case "summary":
		_, err := io.WriteString(w, summary(layout, image))
		return err
	case "ld":
		return memplan.WriteLinkerScript(w, layout)
	case "symbols":
		_, err := io.WriteString(w, layout.Symbols.String())
		return err
	case "wire":
		_, err := w.Write(memplan.MarshalSymbols(layout.Symbols))
		return err
	}
	return fmt.Errorf("unknown format %q", format)
}
