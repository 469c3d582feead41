package main

import (
	"fmt"

	"github.com/MKhiriev/go-pref-sync/internal/adapter"
	"github.com/MKhiriev/go-pref-sync/internal/auth"
	"github.com/MKhiriev/go-pref-sync/internal/client"
	"github.com/MKhiriev/go-pref-sync/internal/config"
	"github.com/MKhiriev/go-pref-sync/internal/logger"
	"github.com/MKhiriev/go-pref-sync/internal/service"
	"github.com/MKhiriev/go-pref-sync/internal/store"
	"github.com/MKhiriev/go-pref-sync/internal/tui"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()

	log := logger.NewClientLogger("pref-sync-client")
	cfg, err := config.GetClientConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}

	adapterCfg := config.Adapter{
		HTTPAddress:    cfg.Adapter.HTTPAddress,
		RequestTimeout: cfg.Adapter.RequestTimeout,
	}

	remote, err := adapter.NewHTTPRemoteStore(adapterCfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("create remote store")
	}

	sessions, err := adapter.NewSessionClient(adapterCfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("create session client")
	}

	localStorage, err := store.NewClientStorages(cfg.Storage, cfg.App.DevicePassphrase, log)
	if err != nil {
		log.Fatal().Err(err).Msg("create local storage")
	}

	arbiter := tui.NewModalArbiter()
	services := service.NewClientServices(localStorage.RecordStore, remote, arbiter, log)
	signal := auth.NewSignal()

	version := cfg.App.Version
	if version == "" {
		version = buildVersion
	}

	ui := tui.New(services, signal, sessions, arbiter, version, log)

	app, err := client.NewApp(services, signal, ui, cfg.Workers, log)
	if err != nil {
		log.Fatal().Err(err).Msg("init client app error")
	}

	if err = app.Run(); err != nil {
		log.Fatal().Err(err).Msg("client run error")
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
