package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config 聚合整个服务的配置项。
type Config struct {
	Server ServerConfig `yaml:"server"`
	Log    LogConfig    `yaml:"log"`
	Store  StoreConfig  `yaml:"store"`
	Events EventsConfig `yaml:"events"`
}

// ServerConfig 描述 HTTP 服务配置。
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// LogConfig 描述日志级别与输出格式。
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// StoreConfig 控制启动时是否写入示例影片。
type StoreConfig struct {
	Seed bool `yaml:"seed"`
}

// EventsConfig 描述变更事件推送的参数。
type EventsConfig struct {
	Buffer    int           `yaml:"buffer"`
	Heartbeat time.Duration `yaml:"heartbeat"`
}

// Default 返回未做任何覆盖时的配置。
func Default() Config {
	return Config{
		Server: ServerConfig{Addr: ":8080"},
		Log:    LogConfig{Level: "info", Format: "json"},
		Store:  StoreConfig{Seed: true},
		Events: EventsConfig{Buffer: 16, Heartbeat: 15 * time.Second},
	}
}

// Load 先读取可选的 CONFIG_FILE，再用环境变量覆盖。
func Load() (*Config, error) {
	cfg := Default()

	if path := strings.TrimSpace(os.Getenv("CONFIG_FILE")); path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return nil, err
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func loadFile(path string, cfg *Config) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open config file %s: %w", path, err)
	}
	defer f.Close()

	// 空文件视为无覆盖
	if err := yaml.NewDecoder(f).Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) error {
	if port := strings.TrimSpace(os.Getenv("PORT")); port != "" {
		addr, err := parseAddr(port)
		if err != nil {
			return err
		}
		cfg.Server.Addr = addr
	}

	cfg.Log.Level = getEnvOrDefault("LOG_LEVEL", cfg.Log.Level)
	cfg.Log.Format = getEnvOrDefault("LOG_FORMAT", cfg.Log.Format)

	seed, err := parseBoolEnv("MOVIES_SEED", cfg.Store.Seed)
	if err != nil {
		return err
	}
	cfg.Store.Seed = seed

	buffer, err := parseOptionalIntEnv("EVENTS_BUFFER")
	if err != nil {
		return err
	}
	if buffer != nil {
		cfg.Events.Buffer = *buffer
	}

	heartbeat, err := parseOptionalIntEnv("EVENTS_HEARTBEAT_SECONDS")
	if err != nil {
		return err
	}
	if heartbeat != nil {
		cfg.Events.Heartbeat = time.Duration(*heartbeat) * time.Second
	}
	return nil
}

func (c *Config) validate() error {
	switch c.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("invalid LOG_FORMAT value %q: want json or console", c.Log.Format)
	}
	if c.Events.Buffer < 1 {
		c.Events.Buffer = 1
	}
	if c.Events.Heartbeat <= 0 {
		return fmt.Errorf("events heartbeat must be positive, got %s", c.Events.Heartbeat)
	}
	return nil
}

// parseAddr 解析服务器监听地址。
func parseAddr(port string) (string, error) {
	if strings.Contains(port, ":") {
		// 允许用户直接传入 ":8080" 或 "127.0.0.1:8080"。
		return port, nil
	}

	if strings.Contains(port, " ") {
		return "", fmt.Errorf("invalid PORT value: %q", port)
	}

	return ":" + port, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func parseBoolEnv(key string, defaultValue bool) (bool, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue, nil
	}

	val, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("invalid %s value %q: %w", key, raw, err)
	}
	return val, nil
}

func parseOptionalIntEnv(key string) (*int, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.Atoi(value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}
