package main

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"

	"video-transcriber/internal/bootstrap"
	"video-transcriber/internal/cli"
)

//go:embed all:frontend
var appAssets embed.FS

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cmd := cli.NewRootCommand(cli.Options{
		Assets:    appAssets,
		LaunchGUI: launchGUI,
	})

	if err := cmd.ExecuteContext(ctx); err != nil {
		if !errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

// launchGUI starts the desktop front end with the embedded assets.
func launchGUI(assets fs.FS) error {
	app, err := bootstrap.NewWithAssets(assets)
	if err != nil {
		return fmt.Errorf("bootstrap app: %w", err)
	}
	return app.Run()
}
