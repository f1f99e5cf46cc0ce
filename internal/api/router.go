package api

import (
	httpSwagger "github.com/swaggo/http-swagger"

	_ "go-csv-importer/docs"
	"go-csv-importer/internal/api/handler"
	"go-csv-importer/pkg/router"
)

// RegisterRoutes attaches the import endpoints and the swagger UI.
func RegisterRoutes(r *router.Router, h *handler.ImportHandler) {
	r.POST("/api/v1/imports", h.Create)
	r.GET("/api/v1/imports", h.List)
	r.GET("/api/v1/imports/*", h.Get)
	r.GET("/swagger/*", router.HandlerFunc(httpSwagger.WrapHandler))
}
