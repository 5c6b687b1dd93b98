package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/samdwyer/dungeonbuilder/data"
	"github.com/samdwyer/dungeonbuilder/internal/config"
	"github.com/samdwyer/dungeonbuilder/internal/game"
	"github.com/samdwyer/dungeonbuilder/internal/gamedata"
	"github.com/samdwyer/dungeonbuilder/internal/telemetry"
)

type playOptions struct {
	configPath string
	logPath    string
	sample     string
	watch      bool
	play       bool
}

func playCmd() *cobra.Command {
	var opts playOptions
	cmd := &cobra.Command{
		Use:   "play [level.json]",
		Short: "Open the editor, optionally on a level file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var path string
			if len(args) == 1 {
				path = args[0]
			}
			return runPlay(cmd.Context(), path, opts)
		},
	}
	cmd.Flags().StringVar(&opts.configPath, "config", config.DefaultPath, "Rules file")
	cmd.Flags().StringVar(&opts.logPath, "log", "dungeonbuilder.log", "Log file")
	cmd.Flags().StringVar(&opts.sample, "sample", "", "Start from an embedded sample level")
	cmd.Flags().BoolVar(&opts.watch, "watch", false, "Reload the level file when it changes")
	cmd.Flags().BoolVar(&opts.play, "play", false, "Start in play mode")
	return cmd
}

func runPlay(ctx context.Context, path string, opts playOptions) error {
	if path != "" && opts.sample != "" {
		return fmt.Errorf("give either a level file or --sample, not both")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	if telemetry.Endpoint() {
		shutdown, err := telemetry.Setup(ctx, version)
		if err != nil {
			log.Printf("Warning: telemetry setup failed: %v", err)
		} else {
			defer func() {
				if err := shutdown(context.Background()); err != nil {
					log.Printf("Error shutting down telemetry: %v", err)
				}
			}()
		}
	} else {
		telemetry.Disable()
	}

	rules, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}
	catalog, err := gamedata.LoadCatalog()
	if err != nil {
		return err
	}

	// The terminal belongs to the game, so logs go to a file.
	logFile, err := os.OpenFile(opts.logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening log: %w", err)
	}
	defer logFile.Close()
	logger := slog.New(slog.NewTextHandler(logFile, &slog.HandlerOptions{Level: slog.LevelDebug}))

	cfg := game.Config{
		Rules:     rules,
		Catalog:   catalog,
		LevelPath: path,
		Watch:     opts.watch,
		Play:      opts.play,
		Logger:    logger,
	}
	if opts.sample != "" {
		if cfg.Document, err = data.Sample(opts.sample); err != nil {
			return err
		}
	}

	g, err := game.New(cfg)
	if err != nil {
		return fmt.Errorf("initializing game: %w", err)
	}
	defer g.Close()
	return g.Run(ctx)
}
