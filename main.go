package main

import (
	"log"
	"net/http"
	"os"

	"urbanhaven/config"
	"urbanhaven/jobs"
	"urbanhaven/models"
	"urbanhaven/routes"
	"urbanhaven/services"
	"urbanhaven/services/logger"
	"urbanhaven/services/notification"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func migrateTables() {
	if err := config.DB.AutoMigrate(
		&models.User{}, &models.Room{}, &models.Booking{},
		&models.Review{}, &models.Notification{},
	); err != nil {
		panic("Failed to migrate tables: " + err.Error())
	}
}

func main() {

	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: cannot load .env file, using process environment: %v", err)
	}

	router, m, c, err := config.InitApp()
	if err != nil {
		log.Fatalf("Failed to initialize app: %v", err)
	}

	migrateTables()

	services.ConnectElastic()

	reconcileService := services.NewReconcileService(
		config.DB,
		notification.NewMelodyEmitter(m),
		logger.NewDefaultLogger(logger.InfoLevel),
	)
	jobs.SetRoomReconciler(reconcileService)

	if err := jobs.InitCronJobs(c); err != nil {
		log.Fatalf("Failed to initialize cron jobs: %v", err)
	}

	config.InitWebSocket(router, m)

	routes.SetupRoutes(router, config.DB, config.RedisClient, m)

	router.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8083"
	}

	log.Println("Server starting on port " + port + "...")
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
