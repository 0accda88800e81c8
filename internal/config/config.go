package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

const (
	StorageMemory = "memory"
	StorageRedis  = "redis"
)

type Config struct {
	LogLevel   string  `yaml:"log-level" env:"LOG_LEVEL" env-default:"info"`
	HTTPPort   string  `yaml:"http-port" env:"HTTP_PORT" env-default:"9090"`
	SocketPort string  `yaml:"socket-port" env:"SOCKET_PORT" env-default:"9091"`
	Storage    Storage `yaml:"storage"`
	Redis      Redis   `yaml:"redis"`
	Board      Board   `yaml:"board"`
	Style      Style   `yaml:"style"`
}

type Storage struct {
	Driver     string        `yaml:"driver" env:"STORAGE_DRIVER" env-default:"memory"`
	SessionTTL time.Duration `yaml:"session-ttl" env:"SESSION_TTL" env-default:"2h"`
}

type Redis struct {
	Host string `yaml:"host" env:"REDIS_HOST" env-default:"localhost"`
	Port string `yaml:"port" env:"REDIS_PORT" env-default:"6379"`
}

// Board - layout of every new game.
type Board struct {
	Columns   int     `yaml:"columns" env:"BOARD_COLUMNS" env-default:"4"`
	Rows      int     `yaml:"rows" env:"BOARD_ROWS" env-default:"4"`
	Spacing   float64 `yaml:"spacing" env:"BOARD_SPACING" env-default:"150"`
	DotRadius float64 `yaml:"dot-radius" env:"BOARD_DOT_RADIUS" env-default:"15"`

	ScreenWidth  int `yaml:"screen-width" env:"BOARD_SCREEN_WIDTH" env-default:"1080"`
	ScreenHeight int `yaml:"screen-height" env:"BOARD_SCREEN_HEIGHT" env-default:"1920"`

	// cleanenv only defaults zero fields, so the gate is switched off rather than on.
	DisableProximityGate bool `yaml:"disable-proximity-gate" env:"BOARD_DISABLE_PROXIMITY_GATE"`
}

type Style struct {
	Background string  `yaml:"background" env-default:"#222222"`
	DotColor   string  `yaml:"dot-color" env-default:"#ffffff"`
	SideOne    string  `yaml:"side-one-color" env-default:"#4444ff"`
	SideTwo    string  `yaml:"side-two-color" env-default:"#ff4444"`
	LineWidth  float64 `yaml:"line-width" env-default:"10"`
	HomeRadius float64 `yaml:"home-radius" env-default:"30"`
	Debug      bool    `yaml:"debug" env:"STYLE_DEBUG" env-default:"false"`
}

// MustLoad - load all configurations in config.yml file.
func MustLoad(path string) *Config {
	config := &Config{}

	if err := cleanenv.ReadConfig(path, config); err != nil {
		panic(fmt.Errorf("unable to load config file: %w", err))
	}

	return config
}

// MustLoadEnv - load configuration from environment variables only.
func MustLoadEnv() *Config {
	config := &Config{}

	if err := cleanenv.ReadEnv(config); err != nil {
		panic(fmt.Errorf("unable to load config from env: %w", err))
	}

	return config
}

func (that *Redis) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", that.Host, that.Port)
}
