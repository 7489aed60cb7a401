package api

import (
	"log"
	stdhttp "net/http"

	intconfig "travelplan/internal/config"
	h "travelplan/internal/http/handlers"
	"travelplan/internal/http/middleware"

	"github.com/gin-gonic/gin"
)

func NewRouter(env intconfig.Env) *gin.Engine {
	middleware.SetJWTSecret(env.JWTSecret)
	h.SetGoogleUserinfoURL(env.GoogleUserinfoURL)

	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logger(), gin.Recovery(), middleware.CORS(env.CORSOrigins))

	if err := r.SetTrustedProxies(nil); err != nil {
		log.Printf("warning: failed to set trusted proxies: %v", err)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(stdhttp.StatusNotFound, gin.H{
			"error":  "route not found",
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
		})
	})

	api := r.Group("/api")
	{
		api.GET("/health", h.Health)
		api.GET("/db-check", h.DBCheck)
		api.GET("/routes", h.Routes)

		// Auth
		auth := api.Group("/auth")
		auth.POST("/register", h.Register)
		auth.POST("/login", h.Login)
		auth.POST("/google-login", h.GoogleLogin)
		auth.GET("/users", h.GetUsers)

		// Trips
		trips := api.Group("/trips")
		trips.Use(middleware.RequireAuth())
		trips.GET("", h.GetTrips)
		trips.POST("", h.CreateTrip)
		trips.PUT("/:id", h.UpdateTrip)
		trips.DELETE("/:id", h.DeleteTrip)
		trips.GET("/:id/summary", h.GetTripSummaryPDF)

		// Flights
		flights := api.Group("/flights")
		flights.Use(middleware.RequireAuth())
		flights.GET("", h.GetFlights)
		flights.POST("", h.CreateOrUpdateFlight)
		flights.DELETE("/:id", h.DeleteFlight)

		// Itinerary
		itinerary := api.Group("/itinerary")
		itinerary.Use(middleware.RequireAuth())
		itinerary.GET("", h.GetItinerary)
		itinerary.POST("", h.CreateItinerary)
		itinerary.PUT("/:id", h.UpdateItinerary)
		itinerary.DELETE("/:id", h.DeleteItinerary)

		// Expenses
		expenses := api.Group("/expenses")
		expenses.Use(middleware.RequireAuth())
		expenses.GET("", h.GetExpenses)
		expenses.POST("", h.CreateOrUpdateExpense)
		expenses.DELETE("/:id", h.DeleteExpense)
	}

	h.SetRouter(r)
	return r
}
