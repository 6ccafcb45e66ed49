package routes

import (
	"urbanhaven/config"
	"urbanhaven/constants"
	"urbanhaven/controllers"
	"urbanhaven/middleware"
	"urbanhaven/services"
	"urbanhaven/services/logger"
	"urbanhaven/services/notification"

	"github.com/gin-gonic/gin"
	"github.com/olahol/melody"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// SetupRoutes wires every controller under /api/v1
func SetupRoutes(router *gin.Engine, db *gorm.DB, redisCli *redis.Client, m *melody.Melody) {
	appLogger := logger.NewDefaultLogger(logger.InfoLevel)
	notifier := notification.NewService(db, notification.NewMelodyEmitter(m), appLogger)

	esewaService := services.NewEsewaService(services.EsewaConfig{
		SecretKey:    config.GetEnvDefault("ESEWA_SECRET_KEY", "8gBm/:&EnhH.1/q"),
		MerchantCode: config.GetEnvDefault("ESEWA_MERCHANT_CODE", "EPAYTEST"),
		PaymentURL:   config.GetEnvDefault("ESEWA_PAYMENT_URL", "https://rc-epay.esewa.com.np/api/epay/main/v2/form"),
		VerifyURL:    config.GetEnvDefault("ESEWA_VERIFY_URL", "https://rc.esewa.com.np/api/epay/transaction/status/"),
		FrontendURL:  config.GetEnvDefault("FRONTEND_URL", "http://localhost:3000"),
		DevMode:      config.GetEnvDefault("ESEWA_DEV_MODE", "true") == "true",
	})

	bookingService := services.NewBookingService(services.BookingServiceOptions{
		DB:       db,
		Notifier: notifier,
		Logger:   appLogger,
	})
	paymentService := services.NewPaymentService(services.PaymentServiceOptions{
		DB:       db,
		Esewa:    esewaService,
		Notifier: notifier,
		Logger:   appLogger,
		Strict:   config.IsProduction(),
	})
	roomService := services.NewRoomService(db, appLogger)

	bookingController := controllers.NewBookingController(bookingService, redisCli)
	paymentController := controllers.NewPaymentController(paymentService)
	roomController := controllers.NewRoomController(roomService, redisCli)
	reviewController := controllers.NewReviewController(db, roomService)
	notificationController := controllers.NewNotificationController(db)

	api := router.Group("/api/v1")
	{
		api.GET("/rooms", roomController.GetAllRooms)
		api.GET("/rooms/search", roomController.SearchRooms)
		api.GET("/rooms/:id", roomController.GetRoomDetail)
		api.GET("/rooms/:id/reviews", reviewController.GetRoomReviews)
		api.POST("/rooms", middleware.AuthMiddleware(constants.RoleOwner, constants.RoleAdmin), roomController.CreateRoom)
		api.PUT("/roomStatus", middleware.AuthMiddleware(constants.RoleOwner, constants.RoleAdmin), roomController.ChangeRoomStatus)

		api.POST("/bookings", middleware.AuthMiddleware(), bookingController.CreateBooking)
		api.GET("/myBookings", middleware.AuthMiddleware(), bookingController.GetMyBookings)
		api.GET("/bookings", middleware.AuthMiddleware(constants.RoleAdmin), bookingController.GetBookings)
		api.GET("/bookings/:id", middleware.AuthMiddleware(), bookingController.GetBookingDetail)
		api.PUT("/bookings/:id/cancel", middleware.AuthMiddleware(), bookingController.CancelBooking)
		api.PUT("/bookingStatus", middleware.AuthMiddleware(constants.RoleAdmin), bookingController.ChangeBookingStatus)

		api.POST("/payment/esewa/initiate", middleware.AuthMiddleware(), paymentController.InitiateEsewaPayment)
		api.POST("/payment/esewa/verify", paymentController.VerifyEsewaPayment)
		api.GET("/payment/status/:bookingId", middleware.AuthMiddleware(), paymentController.GetPaymentStatus)

		api.POST("/reviews", middleware.AuthMiddleware(), reviewController.CreateReview)

		api.GET("/notifications", middleware.AuthMiddleware(), notificationController.GetNotifications)
		api.PUT("/notifications/read", middleware.AuthMiddleware(), notificationController.MarkNotificationsRead)
	}
}
