// Package config loads the server YAML configuration.
package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the full server configuration.
type Config struct {
	Server ServerConfig `yaml:"server"`
	Redis  RedisConfig  `yaml:"redis"`
	Game   GameConfig   `yaml:"game"`
}

// ServerConfig configures the WebSocket listener.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// RedisConfig configures the optional state snapshot store. An empty
// Addr disables Redis entirely.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// GameConfig holds Euchre table settings.
type GameConfig struct {
	WinningScore    int  `yaml:"winning_score"`      // points to win, default 10
	StickTheDealer  bool `yaml:"stick_the_dealer"`   // dealer must call in round 2
	AIDelayMS       int  `yaml:"ai_delay_ms"`        // base AI think time (ms)
	AIDelayJitterMS int  `yaml:"ai_delay_jitter_ms"` // extra random think time (ms)
	RoomTimeout     int  `yaml:"room_timeout"`       // idle room sweep (minutes)
}

// AIDelay returns the base AI think time.
func (c *GameConfig) AIDelay() time.Duration {
	return time.Duration(c.AIDelayMS) * time.Millisecond
}

// AIDelayJitter returns the random extra think time ceiling.
func (c *GameConfig) AIDelayJitter() time.Duration {
	return time.Duration(c.AIDelayJitterMS) * time.Millisecond
}

// RoomTimeoutDuration returns the idle room timeout.
func (c *GameConfig) RoomTimeoutDuration() time.Duration {
	return time.Duration(c.RoomTimeout) * time.Minute
}

// Load reads a config file. Missing keys keep the built-in defaults,
// so it unmarshals over a Default value rather than a zero one.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	applyDefaults(cfg)
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "0.0.0.0"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8765
	}
	if cfg.Game.WinningScore == 0 {
		cfg.Game.WinningScore = 10
	}
	if cfg.Game.AIDelayMS == 0 {
		cfg.Game.AIDelayMS = 1500
	}
	if cfg.Game.AIDelayJitterMS == 0 {
		cfg.Game.AIDelayJitterMS = 2000
	}
	if cfg.Game.RoomTimeout == 0 {
		cfg.Game.RoomTimeout = 30
	}
}

// Default returns the built-in configuration.
func Default() *Config {
	cfg := &Config{
		Game: GameConfig{StickTheDealer: true},
	}
	applyDefaults(cfg)
	return cfg
}
