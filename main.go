package main

import (
	"flag"
	"fmt"
	"os"

	app "github.com/rocketscienceinc/tictactoe-local/internal"
	"github.com/rocketscienceinc/tictactoe-local/internal/config"
	"github.com/rocketscienceinc/tictactoe-local/internal/logging"
)

// main - serves the browser game: the page and REST API on http-port, live updates on socket-port.
func main() {
	defer func() {
		if err := recover(); err != nil {
			fmt.Fprintf(os.Stderr, "recovered from panic: %v\n", err)
			os.Exit(1)
		}
	}()

	configPath := flag.String("config", "config.yml", "Config file; environment and defaults are used when it does not exist")
	flag.Parse()

	conf := config.MustLoad(*configPath)
	logger := logging.New(os.Stdout, conf.LogLevel, conf.LogFormat)

	logger.Info("config loaded", "storage", conf.Storage.Driver, "ai_enabled", conf.Game.AIEnabled, "ai_delay", conf.Game.AIDelay)

	if err := app.RunApp(logger, conf); err != nil {
		panic(fmt.Errorf("app run failed: %w", err))
	}
}
