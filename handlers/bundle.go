package handlers

import (
	userRepoPkg "garagelink/database/repository/user"

	"github.com/gin-gonic/gin"
)

// HandlerBundle groups all endpoint handlers into one struct.
type HandlerBundle struct {
	UserRepo userRepoPkg.UserRepository

	// Auth endpoints
	BridgeHandler   gin.HandlerFunc
	MeHandler       gin.HandlerFunc
	UpdateMeHandler gin.HandlerFunc

	// Garage endpoints
	RegisterGarageHandler gin.HandlerFunc
	GetGarageByIDHandler  gin.HandlerFunc
	UpdateGarageHandler   gin.HandlerFunc
	NearbyGaragesHandler  gin.HandlerFunc

	// Catalog endpoints
	CreateServiceHandler gin.HandlerFunc
	ListServicesHandler  gin.HandlerFunc
	UpdateServiceHandler gin.HandlerFunc
	DeleteServiceHandler gin.HandlerFunc

	// Booking endpoints
	CreateBookingHandler       gin.HandlerFunc
	ListBookingsHandler        gin.HandlerFunc
	UpdateBookingStatusHandler gin.HandlerFunc

	// Service record endpoints
	InitiateServiceHandler gin.HandlerFunc
	VerifyOTPHandler       gin.HandlerFunc
	CompleteServiceHandler gin.HandlerFunc
	CancelServiceHandler   gin.HandlerFunc
	ListServiceRecords     gin.HandlerFunc

	// Review endpoints
	CreateReviewHandler      gin.HandlerFunc
	UpdateReviewHandler      gin.HandlerFunc
	DeleteReviewHandler      gin.HandlerFunc
	ListGarageReviewsHandler gin.HandlerFunc
}
