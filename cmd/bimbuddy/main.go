package main

import (
	"flag"
	"log"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"bimbuddy/internal/bimclient"
	"bimbuddy/internal/config"
	"bimbuddy/internal/health"
	"bimbuddy/internal/logging"
	"bimbuddy/internal/selection"
	"bimbuddy/internal/service"
	"bimbuddy/internal/tui"
)

func main() {
	_ = godotenv.Load()

	var cfgPath string
	flag.StringVar(&cfgPath, "config", "", "Path to YAML config file (optional; uses ~/.config/bimbuddy/config.yaml if not provided)")
	flag.Parse()

	var cfg *config.AppConfig
	var err error
	if cfgPath == "" {
		cfg, cfgPath, err = config.LoadDefault()
	} else {
		cfg, err = config.Load(cfgPath)
	}
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, closeLog, err := logging.New(cfg.Log)
	if err != nil {
		log.Fatalf("failed to open log: %v", err)
	}
	defer closeLog()
	logger.Info("starting",
		slog.String("config", cfgPath),
		slog.String("backend", cfg.Backend.BaseURL),
	)

	// Assemble components
	client := bimclient.NewClient(bimclient.Config{
		BaseURL:   cfg.Backend.BaseURL,
		APIKeyEnv: cfg.Backend.APIKeyEnv,
		Timeout:   cfg.Backend.Timeout,
	}, logger)
	machine := selection.New(client.BaseURL())
	dispatcher := service.NewDispatcher(client, machine, cfg.Backend.Timeout, logger)
	monitor := health.NewMonitor(logger)

	m := tui.New(tui.Options{
		Health:     client,
		Dispatcher: dispatcher,
		Machine:    machine,
		Monitor:    monitor,
		BaseURL:    client.BaseURL(),
		Timeout:    cfg.Backend.Timeout,
		Interval:   cfg.Backend.HealthInterval,
		Examples:   cfg.UI.Examples,
		Logger:     logger,
	})
	if _, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion()).Run(); err != nil {
		logger.Error("tui exited", slog.String("error", err.Error()))
		log.Fatal(err)
	}
	logger.Info("stopped")
}
