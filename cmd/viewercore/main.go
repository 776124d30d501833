// Command viewercore replays recorded viewer input against a level and
// prints the resulting scene.
//
// Usage:
//
//	viewercore replay <script|-> [levelId]
//	viewercore scene [levelId]
//	viewercore levels
//
// The config file is read from $VIEWERCORE_CONFIG_DIR, or the working
// directory when unset.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/nestorcad/viewercore/internal/config"
	"github.com/nestorcad/viewercore/internal/storage"
	"github.com/nestorcad/viewercore/pkg/core"
)

// module defs - BuildDate can be set at build time via ldflags
var (
	CurrentVersion string = "0.0.1"
	BuildDate      string = "unknown"

	ExtensionName string = "viewercore"
)

var defaultViewport = core.Viewport{Width: 1920, Height: 1080}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout))
}

func run(args []string, stdin io.Reader, stdout io.Writer) int {
	if len(args) == 0 {
		fmt.Fprintln(stdout, "No arguments provided.")
		return 2
	}

	configDir := os.Getenv("VIEWERCORE_CONFIG_DIR")
	if configDir == "" {
		configDir = "."
	}

	a, err := setup(configDir, time.Now())
	if err != nil {
		fmt.Fprintf(os.Stderr, "setup failed: %v\n", err)
		return 1
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := a.Close(ctx); err != nil {
			fmt.Fprintf(os.Stderr, "shutdown: %v\n", err)
		}
	}()
	a.Logger.Info("Starting up...", "version", CurrentVersion, "build", BuildDate)

	levelID := config.GetString("levelId")

	switch strings.ToLower(args[0]) {
	case "replay":
		if len(args) < 2 {
			fmt.Fprintln(stdout, "No script provided.")
			return 2
		}
		if len(args) > 2 {
			levelID = args[2]
		}
		return a.replayCommand(args[1], levelID, stdin, stdout)
	case "scene":
		if len(args) > 1 {
			levelID = args[1]
		}
		scene, err := a.backend.GetScene(levelID)
		if err != nil {
			a.Logger.Error("Failed to load scene", "levelId", levelID, "error", err)
			return 1
		}
		if err := writeScene(stdout, scene); err != nil {
			return 1
		}
		return 0
	case "levels":
		lister, ok := a.backend.(storage.Lister)
		if !ok {
			fmt.Fprintln(stdout, "Storage backend cannot list levels.")
			return 1
		}
		levels, err := lister.Levels()
		if err != nil {
			a.Logger.Error("Failed to list levels", "error", err)
			return 1
		}
		for _, l := range levels {
			fmt.Fprintln(stdout, l)
		}
		return 0
	default:
		fmt.Fprintf(stdout, "Unknown command %q.\n", args[0])
		return 2
	}
}

func (a *app) replayCommand(path, levelID string, stdin io.Reader, stdout io.Writer) int {
	in := stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			a.Logger.Error("Failed to open script", "path", path, "error", err)
			return 1
		}
		defer f.Close()
		in = f
	}

	s, d, err := a.newSession(levelID)
	if err != nil {
		a.Logger.Error("Failed to start session", "levelId", levelID, "error", err)
		return 1
	}
	defer d.Close()

	txStart := time.Now()
	stats, err := replay(d, in, stdout)
	if err != nil {
		a.Logger.Error("Replay aborted", "error", err)
		return 1
	}
	a.Logger.Info("Replay finished", "commands", stats.Commands, "failed", stats.Failed, "duration", time.Since(txStart))

	scene, err := s.Scene()
	if err != nil {
		a.Logger.Error("Failed to load scene", "levelId", levelID, "error", err)
		return 1
	}
	if err := writeScene(stdout, scene); err != nil {
		return 1
	}
	if stats.Failed > 0 {
		return 1
	}
	return 0
}
