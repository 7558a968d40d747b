package main

import (
	"fmt"

	"github.com/MKhiriev/go-call-sync/internal/config"
	"github.com/MKhiriev/go-call-sync/internal/handler"
	"github.com/MKhiriev/go-call-sync/internal/logger"
	"github.com/MKhiriev/go-call-sync/internal/relay"
	"github.com/MKhiriev/go-call-sync/internal/server"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()

	log := logger.NewLogger("call-relay")
	cfg, err := config.GetRelayConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}

	log.Debug().Str("address", cfg.Server.HTTPAddress).Bool("signed_identities", cfg.Server.TokenSignKey != "").Msg("received configs")

	hub := relay.NewHub(cfg.Server, log)
	hub.RegisterKinds(cfg.Kinds...)

	handlers, err := handler.NewHandlers(hub, cfg.Server, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating handlers")
	}

	srv, err := server.NewServer(handlers, cfg.Server, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating server")
	}

	if err = srv.RunServer(); err != nil {
		log.Fatal().Err(err).Msg("relay run error")
	}
}

func printBuildInfo() {
	if buildVersion == "" {
		buildVersion = "N/A"
	}

	if buildDate == "" {
		buildDate = "N/A"
	}

	if buildCommit == "" {
		buildCommit = "N/A"
	}

	fmt.Printf("Build version: %s\n", buildVersion)
	fmt.Printf("Build date: %s\n", buildDate)
	fmt.Printf("Build commit: %s\n", buildCommit)
}
