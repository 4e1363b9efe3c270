// Command bgserver runs the play tree REST API server.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/yourusername/bgplaytree/internal/config"
	"github.com/yourusername/bgplaytree/pkg/api"
	"github.com/yourusername/bgplaytree/pkg/engine"
)

const version = "0.1.0"

func main() {
	cfgPath := flag.String("config", "", "Path to a config file (yaml, json or toml)")
	pretty := flag.Bool("pretty", false, "Human readable logs instead of JSON")
	showVersion := flag.Bool("version", false, "Show version and exit")

	flag.Parse()

	if *showVersion {
		fmt.Printf("bgtree API Server v%s\n", version)
		os.Exit(0)
	}

	if *pretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}

	cfg, err := config.Setup(*cfgPath)
	if err != nil {
		log.Fatal().Err(err).Msg("loading config")
	}
	zerolog.SetGlobalLevel(cfg.Level())

	rules, err := engine.RulesByName(cfg.Rules)
	if err != nil {
		log.Fatal().Err(err).Msg("selecting rules")
	}

	server := api.NewServer(api.ServerConfig{
		Host:         cfg.Host,
		Port:         cfg.Port,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
		MaxBuilds:    cfg.MaxBuilds,
		MaxBatches:   cfg.MaxBatches,
		QueueTimeout: cfg.QueueTimeout,
		CacheSize:    cfg.CacheSize,
		AllowOrigin:  cfg.AllowOrigin,
		Rules:        rules,
	}, version)

	if err := server.ListenAndServeWithGracefulShutdown(); err != nil {
		log.Fatal().Err(err).Msg("server error")
	}
}
