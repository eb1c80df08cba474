package router

import (
	"github.com/gin-gonic/gin"

	"github.com/kedr891/steam-inventory/internal/api/handler"
	"github.com/kedr891/steam-inventory/internal/api/middleware"
)

func SetupRoutes(
	r *gin.Engine,
	inventoryHandler *handler.InventoryHandler,
	authMiddleware *middleware.AuthMiddleware,
) {
	r.GET("/health", inventoryHandler.Health)

	inventory := r.Group("/inventory")
	inventory.Use(authMiddleware.RequireAuth())
	{
		inventory.GET("/:steamid/:appid", inventoryHandler.TriggerFetch)
	}

	export := r.Group("/export-inventory/:steamid")
	export.Use(authMiddleware.RequireAuth())
	export.Use(authMiddleware.RequireOwner("steamid"))
	{
		export.GET("", inventoryHandler.Export)
		export.GET("/artifact", inventoryHandler.Artifact)
	}
}
