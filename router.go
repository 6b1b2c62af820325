package main

import (
	"fmt"

	"trackdash/catalog"
	"trackdash/dashboard"
	"trackdash/datastore"

	"github.com/cdfmlr/crud/router"
	"github.com/gin-gonic/gin"
)

func MakeRouter(cfg *TrackdashConfig) (*gin.Engine, error) {
	r := router.NewRouter()

	// dataset catalog CRUDs: /api/datasets
	if err := catalog.Start(cfg.Catalog.DB, r.Group("/api")); err != nil {
		return nil, fmt.Errorf("MakeRouter: %w", err)
	}

	store, err := datastore.NewStore(cfg.Dataset.UploadDir)
	if err != nil {
		return nil, fmt.Errorf("MakeRouter: %w", err)
	}

	// dashboard pages
	_, err = dashboard.NewDashboard(dashboard.Options{
		DatasetPath:    cfg.Dataset.Path,
		LibraryDir:     cfg.Dataset.LibraryDir,
		Footer:         cfg.Footer,
		MaxUploadBytes: cfg.MaxUploadBytes,
	}, store, r)
	if err != nil {
		return nil, fmt.Errorf("MakeRouter: %w", err)
	}

	return r, nil
}
