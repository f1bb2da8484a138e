package dogshouseserver

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

// ApiHandleFunctions bundles the handlers behind every route.
type ApiHandleFunctions struct {
	DogsAPI DogsAPI
	PingAPI PingAPI
}

// NewRouter returns a new router with middleware installed ahead of every route.
func NewRouter(handleFunctions ApiHandleFunctions, middleware ...gin.HandlerFunc) *gin.Engine {
	router := gin.New()
	router.Use(middleware...)
	return NewRouterWithGinEngine(router, handleFunctions)
}

// NewRouterWithGinEngine adds the routes to an existing engine. Middleware must already be
// installed, gin only applies it to routes registered afterwards.
func NewRouterWithGinEngine(router *gin.Engine, handleFunctions ApiHandleFunctions) *gin.Engine {
	for _, route := range getRoutes(handleFunctions) {
		if route.HandlerFunc == nil {
			route.HandlerFunc = DefaultHandleFunc
		}
		switch route.Method {
		case http.MethodGet:
			router.GET(route.Pattern, route.HandlerFunc)
		case http.MethodPost:
			router.POST(route.Pattern, route.HandlerFunc)
		case http.MethodDelete:
			router.DELETE(route.Pattern, route.HandlerFunc)
		}
	}
	return router
}

// DefaultHandleFunc answers routes without a handler.
func DefaultHandleFunc(c *gin.Context) {
	c.String(http.StatusNotImplemented, "501 not implemented")
}

func getRoutes(handleFunctions ApiHandleFunctions) []Route {
	return []Route{
		{
			"GetDogs",
			http.MethodGet,
			"/dogs",
			handleFunctions.DogsAPI.GetDogs,
		},
		{
			"GetDog",
			http.MethodGet,
			"/dogs/:name",
			handleFunctions.DogsAPI.GetDog,
		},
		{
			"CreateDog",
			http.MethodPost,
			"/dog",
			handleFunctions.DogsAPI.CreateDog,
		},
		{
			"UpdateDog",
			http.MethodPost,
			"/dog/update",
			handleFunctions.DogsAPI.UpdateDog,
		},
		{
			"DeleteDog",
			http.MethodDelete,
			"/dog/:name",
			handleFunctions.DogsAPI.DeleteDog,
		},
		{
			"Ping",
			http.MethodGet,
			"/Ping",
			handleFunctions.PingAPI.Ping,
		},
		{
			"PingLowercase",
			http.MethodGet,
			"/ping",
			handleFunctions.PingAPI.Ping,
		},
	}
}
