package http

import (
	"github.com/MKhiriev/go-pref-sync/internal/config"
	"github.com/MKhiriev/go-pref-sync/internal/logger"
	"github.com/MKhiriev/go-pref-sync/internal/server"
	"github.com/MKhiriev/go-pref-sync/internal/store"
)

type Handler struct {
	documents store.DocumentRepository
	hub       *server.Hub
	appCfg    config.App

	logger *logger.Logger
}

func NewHandler(documents store.DocumentRepository, hub *server.Hub, appCfg config.App, logger *logger.Logger) *Handler {
	logger.Info().Msg("http handler created")
	return &Handler{
		documents: documents,
		hub:       hub,
		appCfg:    appCfg,
		logger:    logger,
	}
}
