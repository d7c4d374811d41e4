package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/ironsheep/watermark-manager/internal/config"
	"github.com/ironsheep/watermark-manager/internal/logging"
	"github.com/ironsheep/watermark-manager/internal/pipeline"
	"github.com/ironsheep/watermark-manager/internal/shell"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	fs := pflag.NewFlagSet("watermark-manager", pflag.ContinueOnError)
	config.RegisterFlags(fs)
	showVersion := fs.BoolP("version", "v", false, "print version information")
	fs.Usage = func() { usage(fs) }

	if err := fs.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		os.Exit(2)
	}

	if *showVersion {
		fmt.Printf("watermark-manager %s\n", Version)
		fmt.Printf("  Build time: %s\n", BuildTime)
		fmt.Printf("  Git commit: %s\n", GitCommit)
		return
	}

	path, _ := fs.GetString("config")
	cfg, err := config.Load(path, fs)
	if err != nil {
		fmt.Fprintf(os.Stderr, "watermark-manager: %v\n", err)
		os.Exit(2)
	}

	// Logs go to stderr; stdout carries the dialogue.
	logger, err := logging.New(os.Stderr, cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "watermark-manager: %v\n", err)
		os.Exit(2)
	}
	logger.Debug().
		Str("version", Version).
		Str("build_time", BuildTime).
		Str("commit", GitCommit).
		Str("images_dir", cfg.ImagesDir).
		Msg("starting watermark-manager")

	style, err := cfg.Watermark.TextStyle()
	if err != nil {
		logger.Error().Err(err).Msg("failed to load font")
		os.Exit(2)
	}

	sh := shell.New(os.Stdin, os.Stdout, shell.Options{
		Dir: cfg.ImagesDir,
		Watermarker: pipeline.NewWatermarker(pipeline.WatermarkOptions{
			Opacity: &cfg.Watermark.Opacity,
			Quality: cfg.Output.Quality,
			Style:   style,
		}),
		Editor: pipeline.NewEditor(cfg.Output.Quality),
		Logger: logger,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := sh.Run(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		logger.Error().Err(err).Msg("watermark-manager stopped")
		stop()
		os.Exit(1)
	}
}

func usage(fs *pflag.FlagSet) {
	fmt.Println("watermark-manager - add text or image watermarks to pictures")
	fmt.Println()
	fmt.Println("Usage: watermark-manager [options]")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Print(fs.FlagUsages())
	fmt.Println()
	fmt.Println("Environment variables:")
	fmt.Println("  WATERMARK_IMAGES_DIR=./img          Images directory")
	fmt.Println("  WATERMARK_LOG_LEVEL=debug           Enable debug logging")
	fmt.Println("  WATERMARK_WATERMARK_OPACITY=0.5     Image watermark opacity")
	fmt.Println("  WATERMARK_OUTPUT_QUALITY=100        JPEG quality")
	fmt.Println()
	fmt.Println("Copy your pictures and logos to the images directory, then answer")
	fmt.Println("the prompts. Results are written next to the originals.")
}
