package controllers

import (
	"net/http"

	"github.com/angelmondragon/catalog-api/api/responses"
	"github.com/angelmondragon/catalog-api/pkg/config"
	"github.com/angelmondragon/catalog-api/pkg/types"
)

const healthyStatus = "healthy"

// Health reports a static status and the running version.
func Health(cfg *config.Config) http.HandlerFunc {
	version := ""
	if cfg != nil {
		version = cfg.App.Version
	}
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, types.HealthResponse{Status: healthyStatus, Version: version})
	}
}
