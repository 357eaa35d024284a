package main

import (
	"context"
	"errors"
	"os"
	"time"

	"nbterm/internal/config"
	"nbterm/internal/gateway"
	"nbterm/internal/history"
	"nbterm/internal/logger"
	"nbterm/internal/store"
	"nbterm/internal/telemetry"
	"nbterm/internal/tui"
)

var log = logger.Entry()

func main() {
	logger.Configure()

	args, err := parseRootArgs(os.Args[1:])
	if err != nil {
		log.Fatalf("parse args: %v", err)
	}

	cfg, err := config.Load(args.configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	// First run: persist the effective defaults so the file exists to edit.
	if _, statErr := os.Stat(cfg.Source); errors.Is(statErr, os.ErrNotExist) {
		if err := config.Save(cfg, ""); err != nil {
			log.Warnf("write default config: %v", err)
		}
	}
	cfg = config.ApplyKVOverrides(cfg, args.overrides)

	logPath := cfg.LogPath
	if logPath == "" {
		logPath = logger.DefaultLogPath
	}
	if logFile, _, err := logger.SetupFile(logPath); err != nil {
		log.Warnf("failed to initialize log file: %v", err)
	} else {
		defer logFile.Close()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	w, r, closer, err := gateway.Connect(cfg.Gateway)
	if err != nil {
		log.Fatalf("connect gateway %q: %v", cfg.Gateway, err)
	}
	if closer != nil {
		defer closer.Close()
	}
	gw := gateway.New(w)

	st := store.New(store.Options{
		Sender: gw,
		Initial: store.State{
			TestMode: cfg.TestMode,
			Theme:    cfg.Theme,
			Font:     cfg.Font,
		},
	})
	st.Start(ctx)
	defer st.Close()

	var trace *logger.LogEntry
	if traceEntry, traceCloser, _, err := logger.SetupComponentFile("host", "logs/host.log"); err != nil {
		log.Warnf("failed to initialize host trace log: %v", err)
	} else {
		defer traceCloser.Close()
		trace = traceEntry
	}

	go func() {
		if err := gw.Listen(ctx, r, hostHandler(ctx, st, trace)); err != nil && ctx.Err() == nil {
			log.Warnf("host channel closed: %v", err)
		}
	}()

	var histStore *history.Store
	if cfg.FeatureEnabled("input_history") {
		histStore = historyStore(cfg)
	}

	if err := tui.Run(tui.Options{
		Store:        st,
		Telemetry:    telemetry.New(gw),
		HistoryStore: histStore,
		Theme:        cfg.Theme,
		Debounce:     time.Duration(cfg.ScrollDebounceMS) * time.Millisecond,
		Feature:      cfg.FeatureEnabled,
	}); err != nil {
		log.Fatalf("ui failed: %v", err)
	}
}

func historyStore(cfg config.Config) *history.Store {
	if cfg.HistoryPath != "" {
		return &history.Store{Path: cfg.HistoryPath}
	}
	hs, err := history.NewDefault()
	if err != nil {
		log.Warnf("input history disabled: %v", err)
		return nil
	}
	return hs
}
