// Package app wires configuration, logging and the scoring engine
// together for the CLI surface.
package app

import (
	"fmt"
	"os"

	"github.com/zhangpeiwhut/shadowscore/configs"
	"github.com/zhangpeiwhut/shadowscore/internal/shadow"
	"github.com/zhangpeiwhut/shadowscore/pkg/audio/embed"
	"github.com/zhangpeiwhut/shadowscore/pkg/logging"
	"github.com/zhangpeiwhut/shadowscore/pkg/output"
)

// Context holds CLI arguments that override configuration.
type Context struct {
	OutputFormat string
	OutputFile   string
	Verbose      bool
	Quiet        bool
}

// App holds the long-lived application state. The embedding model is
// loaded once and reused across scoring calls.
type App struct {
	Config *configs.Config
	Logger logging.Logger
	Runner *shadow.SessionRunner
}

// New loads configuration, builds the logger and constructs the engine
// around a single embedding model instance.
func New(ctx *Context) (*App, error) {
	cfg, err := configs.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := configs.ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	logger := setupLogging(ctx, cfg)

	embedder, err := embed.NewMelEmbedder(embed.MelConfig{
		SampleRate: cfg.Audio.SampleRate,
		WindowSize: cfg.Embed.WindowSize,
		HopSize:    cfg.Embed.HopSize,
		MelBands:   cfg.Embed.MelBands,
		FFTSize:    cfg.Embed.FFTSize,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build embedder: %w", err)
	}

	model := embed.NewModel(embedder, embed.ModelOptions{
		SampleRate:   cfg.Audio.SampleRate,
		MinDuration:  cfg.Embed.MinDuration,
		RetryPadding: cfg.Embed.RetryPadding,
		Logger:       logger,
	})

	engine := shadow.NewEngine(cfg, model, logger)

	logger.Debug("application initialized", logging.Fields{
		"sample_rate": cfg.Audio.SampleRate,
		"mel_bands":   cfg.Embed.MelBands,
	})

	return &App{
		Config: cfg,
		Logger: logger,
		Runner: shadow.NewSessionRunner(engine),
	}, nil
}

// WriteResult renders a result in the requested format to stdout or the
// output file.
func (a *App) WriteResult(ctx *Context, data any) error {
	formatter := output.ForFormat(ctx.OutputFormat)
	formatted, err := formatter.Format(data, true)
	if err != nil {
		return fmt.Errorf("failed to format output: %w", err)
	}

	if ctx.OutputFile != "" {
		if err := os.WriteFile(ctx.OutputFile, formatted, 0o644); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		return nil
	}

	_, err = os.Stdout.Write(formatted)
	return err
}

func setupLogging(ctx *Context, cfg *configs.Config) logging.Logger {
	level := cfg.LogLevel
	if ctx.Verbose || cfg.Verbose {
		level = "debug"
	} else if ctx.Quiet {
		level = "error"
	}
	return logging.NewLogger(level)
}
