package catalog

import (
	"trackdash/model"

	"github.com/cdfmlr/crud/router"
	"github.com/gin-gonic/gin"
)

func registerRoutes(r gin.IRouter) {
	// basic CRUDs
	router.Crud[model.Dataset](r, "/datasets")
}
