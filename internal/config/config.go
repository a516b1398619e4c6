package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

const (
	StorageRedis  = "redis"
	StorageSQLite = "sqlite"
	StorageMemory = "memory"

	LogFormatJSON = "json"
	LogFormatText = "text"
)

type Config struct {
	LogLevel   string  `yaml:"log-level" env:"LOG_LEVEL" env-default:"info"`
	LogFormat  string  `yaml:"log-format" env:"LOG_FORMAT" env-default:"json"`
	HTTPPort   string  `yaml:"http-port" env:"HTTP_PORT" env-default:"9090"`
	SocketPort string  `yaml:"socket-port" env:"SOCKET_PORT" env-default:"7777"`
	Storage    Storage `yaml:"storage"`
	Redis      Redis   `yaml:"redis"`
	Game       Game    `yaml:"game"`
}

type Storage struct {
	Driver     string `yaml:"driver" env:"STORAGE_DRIVER" env-default:"redis"`
	SQLitePath string `yaml:"sqlite-path" env:"STORAGE_SQLITE_PATH" env-default:"tictactoe.db"`
}

type Redis struct {
	Host string `yaml:"host" env:"REDIS_HOST" env-default:"localhost"`
	Port string `yaml:"port" env:"REDIS_PORT" env-default:"6379"`
}

// Game has no default for ai-enabled: cleanenv would overwrite an explicit false.
type Game struct {
	AIEnabled bool          `yaml:"ai-enabled" env:"GAME_AI_ENABLED"`
	AIDelay   time.Duration `yaml:"ai-delay" env:"GAME_AI_DELAY" env-default:"500ms"`
}

// MustLoad - load all configurations from path, or from the environment when there is no such file.
func MustLoad(path string) *Config {
	config, err := LoadFileOrEnv(path)
	if err != nil {
		panic(err)
	}

	return config
}

// Load reads path and fills the gaps from the environment and defaults.
func Load(path string) (*Config, error) {
	config := &Config{}

	if err := cleanenv.ReadConfig(path, config); err != nil {
		return nil, fmt.Errorf("unable to load config file: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return config, nil
}

// LoadEnv builds a config from the environment and defaults only.
func LoadEnv() (*Config, error) {
	config := &Config{}

	if err := cleanenv.ReadEnv(config); err != nil {
		return nil, fmt.Errorf("unable to read environment: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return config, nil
}

// LoadFileOrEnv reads path when it exists and falls back to LoadEnv otherwise.
func LoadFileOrEnv(path string) (*Config, error) {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return LoadEnv()
	}

	return Load(path)
}

func (that *Config) Validate() error {
	switch that.Storage.Driver {
	case StorageRedis, StorageSQLite, StorageMemory:
	default:
		return fmt.Errorf("unknown storage driver %q", that.Storage.Driver)
	}

	switch that.LogFormat {
	case LogFormatJSON, LogFormatText:
	default:
		return fmt.Errorf("unknown log format %q", that.LogFormat)
	}

	if that.Game.AIDelay < 0 {
		return fmt.Errorf("negative ai delay %s", that.Game.AIDelay)
	}

	return nil
}

func (that *Redis) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", that.Host, that.Port)
}
