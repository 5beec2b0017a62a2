package routes

import (
	"net/http"
	"time"

	"garagelink/handlers"
	"garagelink/middleware"
	"garagelink/models"
	"garagelink/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterAuthRoutes registers the identity bridge and profile endpoints.
func RegisterAuthRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/auth")
	{
		api.POST("/bridge", hb.BridgeHandler)

		// Protected routes (Require Authentication)
		api.Use(middleware.RequireAuth(hb.UserRepo))
		api.GET("/me", hb.MeHandler)
		api.PATCH("/me", hb.UpdateMeHandler)
	}
}

// RegisterGarageRoutes registers garage profile, discovery and catalog endpoints.
func RegisterGarageRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/garages")
	{
		// Public discovery endpoints.
		api.GET("/nearby", hb.NearbyGaragesHandler)
		api.GET("/:id", hb.GetGarageByIDHandler)
		api.GET("/:id/services", hb.ListServicesHandler)
		api.GET("/:id/reviews", hb.ListGarageReviewsHandler)

		// Garage-owner management endpoints.
		protected := api.Group("")
		protected.Use(middleware.RequireAuth(hb.UserRepo), middleware.RequireRole(models.RoleGarage))
		protected.POST("", hb.RegisterGarageHandler)
		protected.PATCH("/:id", hb.UpdateGarageHandler)
		protected.POST("/:id/services", hb.CreateServiceHandler)
		protected.PUT("/:id/services/:serviceId", hb.UpdateServiceHandler)
		protected.DELETE("/:id/services/:serviceId", hb.DeleteServiceHandler)
	}
}

// RegisterBookingRoutes registers appointment scheduling endpoints.
func RegisterBookingRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/bookings")
	{
		api.Use(middleware.RequireAuth(hb.UserRepo))
		api.GET("", hb.ListBookingsHandler)
		api.PATCH("/:id/status", hb.UpdateBookingStatusHandler)

		customer := api.Group("")
		customer.Use(middleware.RequireRole(models.RoleCustomer))
		customer.POST("", hb.CreateBookingHandler)
	}
}

// RegisterServiceRecordRoutes sets up the endpoints for the service record engine.
func RegisterServiceRecordRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/service-records")
	{
		api.Use(middleware.RequireAuth(hb.UserRepo))
		api.GET("", hb.ListServiceRecords)

		// Lifecycle transitions are driven by the garage operator.
		garage := api.Group("")
		garage.Use(middleware.RequireRole(models.RoleGarage))
		garage.POST("/initiate", hb.InitiateServiceHandler)
		garage.POST("/verify-otp", hb.VerifyOTPHandler)
		garage.POST("/complete", hb.CompleteServiceHandler)
		garage.POST("/:id/cancel", hb.CancelServiceHandler)
	}
}

// RegisterReviewRoutes registers review mutation endpoints.
func RegisterReviewRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/reviews")
	{
		api.Use(middleware.RequireAuth(hb.UserRepo), middleware.RequireRole(models.RoleCustomer))
		api.POST("", hb.CreateReviewHandler)
		api.PUT("/:id", hb.UpdateReviewHandler)
		api.DELETE("/:id", hb.DeleteReviewHandler)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		status := utils.GetHealthStatus()
		code := http.StatusOK
		if !status.Mongo {
			code = http.StatusServiceUnavailable
		}
		c.JSON(code, status)
	})
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	// Setup global middleware (e.g., CORS) here.
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	RegisterAuthRoutes(r, hb)
	RegisterGarageRoutes(r, hb)
	RegisterBookingRoutes(r, hb)
	RegisterServiceRecordRoutes(r, hb)
	RegisterReviewRoutes(r, hb)
	RegisterHealthRoute(r)
}
