package storefrontserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Route is the information for every API endpoint.
type Route struct {
	Name        string
	Method      string
	Pattern     string
	HandlerFunc gin.HandlerFunc
}

// Routes is the list of the generated Route.
type Routes []Route

// ApiHandleFunctions groups the handlers mounted on the router.
type ApiHandleFunctions struct {
	ProductsAPI ProductsAPI
	OrdersAPI   OrdersAPI
	WebhooksAPI WebhooksAPI
}

// NewRouter returns a new router with the default gin engine.
func NewRouter(handleFunctions ApiHandleFunctions) *gin.Engine {
	return NewRouterWithGinEngine(gin.Default(), handleFunctions)
}

// NewRouterWithGinEngine mounts all routes on the provided engine.
func NewRouterWithGinEngine(router *gin.Engine, handleFunctions ApiHandleFunctions) *gin.Engine {
	router.Use(RequestID())
	for _, route := range getRoutes(handleFunctions) {
		if route.HandlerFunc == nil {
			route.HandlerFunc = defaultHandleFunc
		}
		switch route.Method {
		case http.MethodGet:
			router.GET(route.Pattern, route.HandlerFunc)
		case http.MethodPost:
			router.POST(route.Pattern, route.HandlerFunc)
		case http.MethodPut:
			router.PUT(route.Pattern, route.HandlerFunc)
		case http.MethodDelete:
			router.DELETE(route.Pattern, route.HandlerFunc)
		}
	}
	return router
}

func defaultHandleFunc(c *gin.Context) {
	c.String(http.StatusNotImplemented, "501 not implemented")
}

func getRoutes(handleFunctions ApiHandleFunctions) Routes {
	return Routes{
		{
			"CreateProduct",
			http.MethodPost,
			"/products",
			handleFunctions.ProductsAPI.CreateProduct,
		},
		{
			"ListProducts",
			http.MethodGet,
			"/products",
			handleFunctions.ProductsAPI.ListProducts,
		},
		{
			"GetProductById",
			http.MethodGet,
			"/products/:productId",
			handleFunctions.ProductsAPI.GetProductById,
		},
		{
			"UpdateProduct",
			http.MethodPut,
			"/products/:productId",
			handleFunctions.ProductsAPI.UpdateProduct,
		},
		{
			"DeleteProduct",
			http.MethodDelete,
			"/products/:productId",
			handleFunctions.ProductsAPI.DeleteProduct,
		},
		{
			"PlaceOrder",
			http.MethodPost,
			"/orders",
			handleFunctions.OrdersAPI.PlaceOrder,
		},
		{
			"GetOrderById",
			http.MethodGet,
			"/orders/:orderId",
			handleFunctions.OrdersAPI.GetOrderById,
		},
		{
			"UpdateOrderStatus",
			http.MethodPut,
			"/orders/:orderId",
			handleFunctions.OrdersAPI.UpdateOrderStatus,
		},
		{
			"DeleteOrder",
			http.MethodDelete,
			"/orders/:orderId",
			handleFunctions.OrdersAPI.DeleteOrder,
		},
		{
			"ReceivePaymentWebhook",
			http.MethodPost,
			"/webhooks/payment",
			handleFunctions.WebhooksAPI.ReceivePaymentWebhook,
		},
	}
}
