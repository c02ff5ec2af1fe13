package internal

import (
	"net/http"

	"bmac/internal/controllers"
	"bmac/internal/providers"
)

func InitRoutes(apiController *controllers.ApiController) providers.RouterProviderInterface {
	routers := providers.NewRouterProvider()

	routers.Get("/stats", http.HandlerFunc(apiController.GetStats))
	routers.Get("/creators", http.HandlerFunc(apiController.GetCreators))
	routers.Get("/cache", http.HandlerFunc(apiController.GetCacheInfo))
	routers.Delete("/cache", http.HandlerFunc(apiController.DeleteCache))
	return routers
}
