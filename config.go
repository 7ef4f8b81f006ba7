package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the whole application configuration: defaults, then an
// optional YAML file, then GOBLESENSE_* environment variables, each
// layer overriding the last.
type Config struct {
	Interval    float64 `mapstructure:"interval"` // seconds between output documents
	Stale       float64 `mapstructure:"stale"`    // seconds before a reading drops out of view
	Mode        string  `mapstructure:"mode"`     // structured | summary
	Aggregate   bool    `mapstructure:"aggregate"`
	Transport   string  `mapstructure:"transport"` // mqtt | replay
	MetricsAddr string  `mapstructure:"metrics_addr"`

	MQTT   MQTTConfig   `mapstructure:"mqtt"`
	Replay ReplayConfig `mapstructure:"replay"`
}

type MQTTConfig struct {
	Broker   string `mapstructure:"broker"`
	ClientID string `mapstructure:"client_id"`
	Topic    string `mapstructure:"topic"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	QoS      int    `mapstructure:"qos"`
}

type ReplayConfig struct {
	Path string `mapstructure:"path"`
}

func (c *Config) IntervalDuration() time.Duration {
	return time.Duration(c.Interval * float64(time.Second))
}

func (c *Config) StaleDuration() time.Duration {
	return time.Duration(c.Stale * float64(time.Second))
}

func loadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetDefault("interval", 2.0)
	v.SetDefault("stale", 10.0)
	v.SetDefault("mode", string(modeStructured))
	v.SetDefault("aggregate", false)
	v.SetDefault("transport", "mqtt")
	v.SetDefault("mqtt.broker", "tcp://localhost:1883")
	v.SetDefault("mqtt.client_id", "goblesense")
	v.SetDefault("mqtt.topic", "blegateway/+/advertisement")
	v.SetDefault("mqtt.qos", 0)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			// Defaults plus environment are a complete configuration.
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	v.SetEnvPrefix("goblesense")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if cfg.Interval <= 0 {
		return nil, fmt.Errorf("interval must be positive, got %v", cfg.Interval)
	}
	if cfg.Stale <= 0 {
		return nil, fmt.Errorf("stale must be positive, got %v", cfg.Stale)
	}
	if _, err := parseOutputMode(cfg.Mode); err != nil {
		return nil, err
	}
	if cfg.Transport == "replay" && cfg.Replay.Path == "" {
		return nil, fmt.Errorf("replay transport needs replay.path")
	}
	return &cfg, nil
}
