package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/mchmarny/tunebar/pkg/app"
	"github.com/mchmarny/tunebar/pkg/appmenu"
	"github.com/mchmarny/tunebar/pkg/bridge"
	"github.com/mchmarny/tunebar/pkg/config"
	"github.com/mchmarny/tunebar/pkg/i18n"
	"github.com/mchmarny/tunebar/pkg/instance"
	"github.com/mchmarny/tunebar/pkg/logger"
	"github.com/mchmarny/tunebar/pkg/menu"
	"github.com/mchmarny/tunebar/pkg/metric"
	"github.com/mchmarny/tunebar/pkg/plugin"
	"github.com/mchmarny/tunebar/pkg/server"
)

const name = "tunebar"

var (
	version = "v0.0.0" // Set at build time via -ldflags "-X main.version=version"
	commit  = "none"   // Set at build time via -ldflags "-X main.commit=commit"

	host       = flag.String("host", server.DefaultHost, "Interface to bind the menu server to")
	port       = flag.Int("port", server.DefaultPort, "Port to run the menu server on")
	readTO     = flag.Duration("read-timeout", server.DefaultReadTimeout, "Maximum duration for reading a request")
	writeTO    = flag.Duration("write-timeout", server.DefaultWriteTimeout, "Maximum duration for writing a response")
	shutdownTO = flag.Duration("shutdown-timeout", server.DefaultShutdownTimeout, "Grace period for open connections on shutdown")
	configPath = flag.String("config", "~/.config/tunebar/config.toml", "Path to the options file")
	lockPath   = flag.String("lock", "~/.config/tunebar/instance.lock", "Path to the single-instance lock file")
	platform   = flag.String("platform", runtime.GOOS, "Platform the menu is built for")
)

func main() {
	flag.Parse()

	logger.SetDefaultLogger(name, version)
	slog.Info("starting tunebar", "commit", commit, "platform", *platform)

	proc, err := run()
	if err != nil {
		slog.Error("tunebar error", "error", err)
		os.Exit(1)
	}

	if proc != nil && proc.RestartRequested() {
		if err := proc.Relaunch(); err != nil {
			slog.Error("relaunch failed", "error", err)
			os.Exit(1)
		}
	}
}

func run() (*app.Process, error) {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	store, err := config.Open(*configPath, config.Defaults())
	if err != nil {
		return nil, err
	}

	tr, err := i18n.New()
	if err != nil {
		return nil, err
	}
	lang := store.String(config.KeyLanguage)
	if lang == "" {
		lang = tr.SystemLanguage()
	}
	if err := tr.SetLanguage(lang); err != nil {
		slog.Warn("falling back to default language", "language", lang, "error", err)
	}

	lock, err := instance.New(*lockPath)
	if err != nil {
		return nil, err
	}
	proc := app.New(name, lock, cancel)
	store.OnRestart(proc.Restart)

	if store.Bool(config.KeySingleInstanceLock) {
		if err := lock.Acquire(); err != nil {
			if errors.Is(err, instance.ErrHeld) {
				slog.Info("another instance is running, exiting")
				return nil, nil
			}
			return nil, err
		}
	}
	defer func() {
		if err := lock.Release(); err != nil {
			slog.Error("failed to release instance lock", "error", err)
		}
	}()

	metrics := metric.NewSet()
	win := bridge.New(bridge.WithCallCounter(metrics.BridgeCalls))
	defer win.Close()

	installer := menu.NewInstaller(
		menu.WithTitle(name),
		menu.WithVersion(version),
		menu.WithPlatform(*platform),
		menu.WithRoleHandler(win.PerformRole),
		menu.WithClickCounter(metrics.Clicks),
	)

	registry := plugin.NewRegistry(store, tr, plugin.Builtins()...)
	builder := appmenu.NewBuilder(store, registry, tr, proc, *platform)
	refresher := appmenu.NewRefresher(builder, installer, win, metrics.Rebuilds)

	if err := refresher.Refresh(ctx); err != nil {
		return nil, fmt.Errorf("failed to install menu: %w", err)
	}

	srv := server.New(
		server.WithHost(*host),
		server.WithPort(*port),
		server.WithReadTimeout(*readTO),
		server.WithWriteTimeout(*writeTO),
		server.WithShutdownTimeout(*shutdownTO),
		server.WithSimpleHealth(),
		server.WithMetrics(metrics.Registry),
		server.WithHandler("/menu", installer.Handler()),
		server.WithHandler("/menu/click", installer.ClickHandler()),
		server.WithHandler("/ws", win.Handler()),
	)

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return srv.Serve(gCtx)
	})

	g.Go(func() error {
		return installer.Run(gCtx)
	})

	g.Go(func() error {
		return store.Watch(gCtx, func() {
			if store.Bool(config.KeyRestartOnConfigChanges) {
				proc.Restart()
				return
			}
			if err := refresher.ConfigChanged(gCtx); err != nil {
				slog.Error("menu refresh failed", "error", err)
			}
		})
	})

	if err := g.Wait(); err != nil {
		return proc, err
	}
	return proc, nil
}
