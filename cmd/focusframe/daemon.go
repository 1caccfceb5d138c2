package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/1broseidon/focusframe/internal/config"
	"github.com/1broseidon/focusframe/internal/daemon"
	"github.com/1broseidon/focusframe/internal/hotkeys"
	"github.com/1broseidon/focusframe/internal/ipc"
	"github.com/1broseidon/focusframe/internal/x11"
)

const reconcileInterval = 2 * time.Second

func trackerConfig(cfg *config.Config) daemon.TrackerConfig {
	return daemon.TrackerConfig{
		FollowFocus:        cfg.FollowFocus,
		IncludeDecorations: cfg.IncludeDecorations,
		IgnoreClasses:      cfg.IgnoreClasses,
		HideOnFullscreen:   cfg.HideOnFullscreen,
	}
}

func runDaemon() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	level := new(slog.LevelVar)
	level.Set(cfg.SlogLevel())
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	conn, err := x11.NewConnection(cfg.Display)
	if err != nil {
		log.Fatalf("Failed to connect to display: %v", err)
	}
	defer conn.Close()

	display, err := conn.Display()
	if err != nil {
		log.Fatalf("Failed to query display: %v", err)
	}

	session := x11.NewSession(conn, logger)
	highlighter := daemon.NewHighlighter(display, session, logger)
	highlighter.SetDefaultTimeout(cfg.HighlightTimeoutDuration())

	tracker := daemon.NewTracker(conn, highlighter, trackerConfig(cfg), logger)
	if err := tracker.Start(); err != nil {
		log.Fatalf("Failed to start focus tracker: %v", err)
	}

	keys := hotkeys.NewHandler(conn, logger)
	toggle := func() {
		mode := highlighter.Toggle()
		logger.Info("frame toggled", "mode", mode)
	}
	if err := keys.Bind(cfg.ToggleHotkey, toggle); err != nil {
		logger.Warn("toggle hotkey unavailable", "error", err)
	}

	reload := func() error {
		newCfg, err := config.Load()
		if err != nil {
			return err
		}
		if newCfg.Display != cfg.Display {
			logger.Warn("display change requires a daemon restart", "display", newCfg.Display)
		}
		level.Set(newCfg.SlogLevel())
		highlighter.SetDefaultTimeout(newCfg.HighlightTimeoutDuration())
		tracker.UpdateConfig(trackerConfig(newCfg))
		if err := keys.Bind(newCfg.ToggleHotkey, toggle); err != nil {
			logger.Warn("toggle hotkey unavailable", "error", err)
		}
		return nil
	}

	ipcServer, err := ipc.NewServer(ipc.ServerOptions{
		Controller: highlighter,
		Monitors:   monitorLister(conn),
		Reload:     reload,
		Logger:     logger,
	})
	if err != nil {
		log.Fatalf("Failed to create IPC server: %v", err)
	}
	if err := ipcServer.Start(); err != nil {
		log.Fatalf("Failed to start IPC server: %v", err)
	}
	defer ipcServer.Stop()

	reconciler := daemon.NewReconciler(daemon.ReconcilerConfig{
		Interval: reconcileInterval,
		Logger:   logger,
	}, tracker.Refresh)

	reconcilerCtx, reconcilerCancel := context.WithCancel(context.Background())
	defer reconcilerCancel()
	go reconciler.Run(reconcilerCtx)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)

	go func() {
		for sig := range sigCh {
			switch sig {
			case syscall.SIGHUP:
				logger.Info("received SIGHUP, reloading config")
				if err := reload(); err != nil {
					logger.Error("config reload failed", "error", err)
					continue
				}
				logger.Info("config reloaded")

			case os.Interrupt, syscall.SIGTERM:
				logger.Info("shutting down focusframe daemon")
				reconcilerCancel()
				ipcServer.Stop()
				highlighter.Close()
				conn.Close()
				os.Exit(0)
			}
		}
	}()

	logger.Info("focusframe daemon started", "display", display.Name, "bounds", display.Bounds)
	conn.EventLoop()
}

func monitorLister(conn *x11.Connection) ipc.MonitorLister {
	return func() ([]ipc.MonitorInfo, error) {
		monitors, err := conn.GetMonitors()
		if err != nil {
			return nil, err
		}
		out := make([]ipc.MonitorInfo, 0, len(monitors))
		for _, m := range monitors {
			out = append(out, ipc.MonitorInfo{
				ID:     m.ID,
				Name:   m.Name,
				X:      m.Bounds.Left,
				Y:      m.Bounds.Top,
				Width:  m.Bounds.Width(),
				Height: m.Bounds.Height(),
			})
		}
		return out, nil
	}
}
