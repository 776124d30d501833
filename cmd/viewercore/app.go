package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/Graylog2/go-gelf/gelf"
	"github.com/nestorcad/viewercore/internal/config"
	"github.com/nestorcad/viewercore/internal/dispatcher"
	"github.com/nestorcad/viewercore/internal/highlight"
	"github.com/nestorcad/viewercore/internal/influx"
	"github.com/nestorcad/viewercore/internal/logging"
	intOtel "github.com/nestorcad/viewercore/internal/otel"
	"github.com/nestorcad/viewercore/internal/selection"
	"github.com/nestorcad/viewercore/internal/session"
	"github.com/nestorcad/viewercore/internal/storage"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"
	sdklog "go.opentelemetry.io/otel/sdk/log"
)

// app holds the process-wide services one replay runs against.
type app struct {
	SlogManager *logging.SlogManager
	Logger      *slog.Logger
	ZLogger     zerolog.Logger

	logFile      *os.File
	otelProvider *intOtel.Provider
	gelfWriter   *gelf.Writer
	influx       *influx.Manager
	backend      storage.Backend
	bus          *highlight.Bus
}

// setup loads the config from configDir, opens the log sinks and the scene
// store. A missing config file falls back to defaults.
func setup(configDir string, started time.Time) (*app, error) {
	a := &app{SlogManager: logging.NewSlogManager()}
	a.SlogManager.Setup(nil, "info", nil)
	a.Logger = a.SlogManager.Logger()

	if err := config.Load(configDir); err != nil {
		a.Logger.Warn("Failed to load config, using defaults!", "error", err)
	} else {
		a.Logger.Info("Loaded config", "dir", configDir)
	}

	logsDir := viper.GetString("logsDir")
	if err := os.MkdirAll(logsDir, 0755); err != nil {
		return nil, fmt.Errorf("create logs dir: %w", err)
	}
	logPath := logging.LogFilePath(logsDir, ExtensionName, started)
	if _, err := os.Stat(logPath); err == nil {
		os.Rename(logPath, logPath+".old")
	}
	var err error
	a.logFile, err = os.OpenFile(logPath, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		return nil, fmt.Errorf("open log file %s: %w", logPath, err)
	}

	otelCfg := config.GetOTelConfig()
	if otelCfg.Enabled {
		a.otelProvider, err = intOtel.New(context.Background(), intOtel.Config{
			Enabled:        otelCfg.Enabled,
			ServiceName:    otelCfg.ServiceName,
			ServiceVersion: CurrentVersion,
			BatchTimeout:   otelCfg.BatchTimeout,
			LogWriter:      a.logFile,
			Endpoint:       otelCfg.Endpoint,
			Insecure:       otelCfg.Insecure,
		})
		if err != nil {
			a.Logger.Error("Failed to initialize OTel provider", "error", err)
		}
	}

	var extra []logging.Sink
	if gl := config.GetGraylogConfig(); gl.Enabled {
		sink, w, err := logging.NewGELFSink(gl.Address, viper.GetString("logLevel"))
		if err != nil {
			a.Logger.Error("Failed to connect to Graylog", "error", err)
		} else {
			a.gelfWriter = w
			extra = append(extra, sink)
		}
	}

	var otelLogProvider *sdklog.LoggerProvider
	if a.otelProvider != nil {
		otelLogProvider = a.otelProvider.LoggerProvider()
	}
	a.SlogManager.Setup(a.logFile, viper.GetString("logLevel"), otelLogProvider, extra...)
	a.Logger = a.SlogManager.Logger()
	a.Logger.Info("Logging to file", "path", logPath)

	zlvl, err := zerolog.ParseLevel(viper.GetString("logLevel"))
	if err != nil {
		zlvl = zerolog.InfoLevel
	}
	a.ZLogger = zerolog.New(a.logFile).Level(zlvl).With().Timestamp().Logger()

	if ic := config.GetInfluxConfig(); ic.Enabled {
		backup := filepath.Join(logsDir, fmt.Sprintf("%s_%s.lp.gz", ExtensionName, started.Format("20060102_150405")))
		a.influx = influx.NewManager(ic, a.ZLogger.With().Str("component", "influx").Logger(), backup)
		if err := a.influx.Connect(context.Background()); err != nil {
			a.Logger.Error("Failed to connect to InfluxDB", "error", err)
			a.influx = nil
		}
	}

	a.backend, err = storage.NewBackend(config.GetStorageConfig(), a.Logger)
	if err != nil {
		return nil, err
	}
	if err := a.backend.Init(); err != nil {
		return nil, fmt.Errorf("init storage: %w", err)
	}

	a.bus, err = highlight.New()
	if err != nil {
		return nil, err
	}
	a.bus.Subscribe(func(h selection.Highlight) {
		a.Logger.Debug("highlight", "mode", h.Mode, "entities", len(h.IDs))
	})
	return a, nil
}

// newSession opens a session on levelID and a dispatcher carrying its
// commands.
func (a *app) newSession(levelID string) (*session.Session, *dispatcher.Dispatcher, error) {
	deps := session.Dependencies{
		Store:     a.backend,
		LevelID:   levelID,
		Logger:    a.Logger,
		Publisher: a.bus,
		Notifier:  a.bus,
		Grips:     config.GetGripSettings(),
		Drawing:   config.GetDrawingSettings(),
		Nudge:     config.GetNudgeSettings(),
		Snap:      session.SnapSettings(config.GetSnapConfig()),
		Viewport:  defaultViewport,
	}
	if a.influx != nil {
		deps.Telemetry = a.influx
	}
	s, err := session.New(deps)
	if err != nil {
		return nil, nil, err
	}
	a.SlogManager.WithSession(s.ID.String(), levelID)
	a.Logger = a.SlogManager.Logger()

	d, err := dispatcher.New(logging.NewCommandLogger(a.ZLogger))
	if err != nil {
		return nil, nil, err
	}
	s.RegisterHandlers(d)
	return s, d, nil
}

// Close flushes and releases every sink. Errors are joined.
func (a *app) Close(ctx context.Context) error {
	var errs []error
	if a.backend != nil {
		errs = append(errs, a.backend.Close())
	}
	if a.influx != nil {
		errs = append(errs, a.influx.Close())
	}
	if a.otelProvider != nil {
		errs = append(errs, a.otelProvider.Close(ctx))
	}
	if a.gelfWriter != nil {
		errs = append(errs, a.gelfWriter.Close())
	}
	if a.logFile != nil {
		errs = append(errs, a.logFile.Close())
	}
	return errors.Join(errs...)
}
