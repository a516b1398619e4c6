package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	app "github.com/rocketscienceinc/tictactoe-local/internal"
	"github.com/rocketscienceinc/tictactoe-local/internal/config"
	"github.com/rocketscienceinc/tictactoe-local/internal/logging"
	"github.com/rocketscienceinc/tictactoe-local/transport/tui"
)

// main - plays in the terminal against the same engine and score store as the server.
func main() {
	configPath := flag.String("config", "config.yml", "Config file; environment and defaults are used when it does not exist")
	driver := flag.String("storage", config.StorageSQLite, "Score storage: sqlite, redis or memory")
	logPath := flag.String("log", "tictactoe-tui.log", "Log file; the terminal belongs to the board")
	flag.Parse()

	if err := run(*configPath, *driver, *logPath); err != nil {
		fmt.Fprintf(os.Stderr, "tictactoe: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath, driver, logPath string) error {
	conf, err := config.LoadFileOrEnv(configPath)
	if err != nil {
		return err
	}
	conf.Storage.Driver = driver

	if err = conf.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer logFile.Close()

	logger := logging.New(logFile, conf.LogLevel, conf.LogFormat)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, err := app.OpenStorage(ctx, conf)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := store.Close(); closeErr != nil {
			logger.Error("could not close storage", "error", closeErr)
		}
	}()

	gameManager := app.NewGameManager(ctx, logger, conf, store)
	defer gameManager.Close()

	model := tui.NewModel(ctx, gameManager)
	defer model.Close()

	if _, err = tea.NewProgram(model, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("terminal ui failed: %w", err)
	}

	return nil
}
