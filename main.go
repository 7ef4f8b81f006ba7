package main

import (
	"context"
	"flag"
	"os"

	"github.com/charmbracelet/log"

	"goblesense/transport"
	"goblesense/transport/mqttble"
	"goblesense/transport/replay"
)

func main() {

	var level string
	var configPath string
	flag.StringVar(&level, "level", "info", "Log level")
	flag.StringVar(&configPath, "config", "", "Path to config file (default: ./config.yaml if present)")
	flag.Parse()

	// setup logging
	if lvl, err := log.ParseLevel(level); err == nil {
		log.SetLevel(lvl)
	} else {
		log.Fatal("failed to parse log level", "level", level, "err", err)
	}

	// load config
	cfg, err := loadConfig(configPath)
	if err != nil {
		log.Fatalf("failed to load config: %s", err)
	}
	mode, err := parseOutputMode(cfg.Mode)
	if err != nil {
		log.Fatalf("bad config: %s", err)
	}

	if cfg.MetricsAddr != "" {
		log.Infof("serving metrics on %s", cfg.MetricsAddr)
		serveMetrics(cfg.MetricsAddr)
	}

	var tr transport.Transport
	switch cfg.Transport {
	case "mqtt":
		tr = mqttble.New(mqttble.Options{
			Broker:   cfg.MQTT.Broker,
			ClientID: cfg.MQTT.ClientID,
			Topic:    cfg.MQTT.Topic,
			Username: cfg.MQTT.Username,
			Password: cfg.MQTT.Password,
			QoS:      byte(cfg.MQTT.QoS),
		})
	case "replay":
		tr = replay.New(cfg.Replay.Path)
	default:
		log.Fatalf("unknown transport %q", cfg.Transport)
	}

	ctx := context.Background()
	if err := tr.StartScanning(ctx); err != nil {
		log.Fatalf("transport start failed: %s", err)
	}
	log.Infof("output every %s as %s, readings stale after %s",
		cfg.IntervalDuration(), mode, cfg.StaleDuration())

	l := newLoop(cfg, mode, tr, os.Stdout)
	if err := l.run(ctx); err != nil {
		// log.Fatalf exits 1, which tells the supervisor to restart us.
		log.Fatalf("session ended: %s", err)
	}
}
