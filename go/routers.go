package storefrontserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Route is the information for every URI.
type Route struct {
	// Name is the name of this Route.
	Name string
	// Method is the string for the HTTP method. ex) GET, POST etc..
	Method string
	// Pattern is the pattern of the URI.
	Pattern string
	// HandlerFunc is the handler function of this route.
	HandlerFunc gin.HandlerFunc
}

// ApiHandleFunctions groups the handlers of every bounded context.
type ApiHandleFunctions struct {
	AdminAPI     AdminAPI
	HomepagesAPI HomepagesAPI
	MediaAPI     MediaAPI
	OrdersAPI    OrdersAPI
	ProductsAPI  ProductsAPI
}

// AdminPrefix is the route group guarded by AdminAuth.
const AdminPrefix = "/admin/api"

// NewRouter returns a new router.
func NewRouter(handleFunctions ApiHandleFunctions) *gin.Engine {
	return NewRouterWithGinEngine(gin.Default(), handleFunctions)
}

// NewRouterWithGinEngine adds the storefront routes to an existing gin engine.
func NewRouterWithGinEngine(router *gin.Engine, handleFunctions ApiHandleFunctions) *gin.Engine {
	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	for _, route := range getPublicRoutes(handleFunctions) {
		router.Handle(route.Method, route.Pattern, route.HandlerFunc)
	}
	admin := router.Group(AdminPrefix, handleFunctions.AdminAPI.AdminAuth())
	for _, route := range getAdminRoutes(handleFunctions) {
		admin.Handle(route.Method, route.Pattern, route.HandlerFunc)
	}
	return router
}

func getPublicRoutes(handleFunctions ApiHandleFunctions) []Route {
	return []Route{
		{"ListProducts", http.MethodGet, "/api/products", handleFunctions.ProductsAPI.ListProducts},
		{"GetProduct", http.MethodGet, "/api/products/:id", handleFunctions.ProductsAPI.GetProduct},
		{"QuoteCart", http.MethodPost, "/api/quotes", handleFunctions.ProductsAPI.QuoteCart},
		{"GetActiveHomepage", http.MethodGet, "/api/homepage", handleFunctions.HomepagesAPI.GetActiveHomepage},
		{"PlaceOrder", http.MethodPost, "/api/orders", handleFunctions.OrdersAPI.PlaceOrder},
		{"GetMedia", http.MethodGet, "/media/*path", handleFunctions.MediaAPI.GetMedia},
		{"Login", http.MethodPost, "/admin/login", handleFunctions.AdminAPI.Login},
	}
}

// getAdminRoutes are relative to AdminPrefix.
func getAdminRoutes(handleFunctions ApiHandleFunctions) []Route {
	return []Route{
		{"Logout", http.MethodPost, "/logout", handleFunctions.AdminAPI.Logout},
		{"Session", http.MethodGet, "/session", handleFunctions.AdminAPI.Session},
		{"CreateProduct", http.MethodPost, "/products", handleFunctions.ProductsAPI.CreateProduct},
		{"UploadProductImage", http.MethodPost, "/products/images", handleFunctions.ProductsAPI.UploadProductImage},
		{"UpdateProduct", http.MethodPut, "/products/:id", handleFunctions.ProductsAPI.UpdateProduct},
		{"DeleteProduct", http.MethodDelete, "/products/:id", handleFunctions.ProductsAPI.DeleteProduct},
		{"ListOrders", http.MethodGet, "/orders", handleFunctions.OrdersAPI.ListOrders},
		{"OrderStats", http.MethodGet, "/orders/stats", handleFunctions.OrdersAPI.OrderStats},
		{"RevenueSeries", http.MethodGet, "/orders/revenue", handleFunctions.OrdersAPI.RevenueSeries},
		{"StatusChart", http.MethodGet, "/orders/status-chart", handleFunctions.OrdersAPI.StatusChart},
		{"GetOrder", http.MethodGet, "/orders/:id", handleFunctions.OrdersAPI.GetOrder},
		{"UpdateOrderStatus", http.MethodPatch, "/orders/:id/status", handleFunctions.OrdersAPI.UpdateOrderStatus},
		{"DeleteOrder", http.MethodDelete, "/orders/:id", handleFunctions.OrdersAPI.DeleteOrder},
		{"ListHomepages", http.MethodGet, "/homepages", handleFunctions.HomepagesAPI.ListHomepages},
		{"CreateHomepage", http.MethodPost, "/homepages", handleFunctions.HomepagesAPI.CreateHomepage},
		{"UpdateHomepage", http.MethodPut, "/homepages/:id", handleFunctions.HomepagesAPI.UpdateHomepage},
	}
}
