// Package catalog keeps the facts about uploaded datasets in a sqlite
// database, and exposes CRUDs for them.
package catalog

import (
	"fmt"

	"trackdash/model"

	"github.com/cdfmlr/crud/log"
	"github.com/cdfmlr/crud/orm"
	"github.com/gin-gonic/gin"

	"github.com/glebarez/sqlite" // pure go sqlite driver
	"gorm.io/gorm"
)

var logger = log.ZoneLogger("trackdash/catalog")

// Start the catalog module: open the database at dbDSN and register
// the CRUD routes on router.
//
// There should be only one catalog module in a program.
// It must be started before datasets are uploaded.
func Start(dbDSN string, router gin.IRouter) error {
	if err := connectDB(dbDSN); err != nil {
		return fmt.Errorf("catalog.Start: connectDB failed: %w", err)
	}

	orm.RegisterModel(&model.Dataset{})

	registerRoutes(router)

	logger.WithField("db", dbDSN).Info("catalog started")
	return nil
}

func connectDB(dsn string) error {
	var err error
	orm.DB, err = gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: log.Logger4Gorm,
	})
	return err
}
