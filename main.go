package main

import (
	"log"
	"net/http"
	"os"

	"hotel/config"
	"hotel/jobs"
	middlewares "hotel/middleware"
	"hotel/models"
	"hotel/routes"

	"github.com/gin-gonic/gin"
)

func migrateTables() {
	if err := config.DB.AutoMigrate(
		&models.User{},
		&models.Room{},
		&models.Booking{},
		&models.CheckInOut{},
		&models.StayNote{},
		&models.KeyCard{},
		&models.KeyCardAudit{},
		&models.Invoice{},
		&models.InvoiceAudit{},
		&models.HousekeepingTask{},
		&models.Refund{},
		&models.Notification{},
		&models.Settings{},
	); err != nil {
		log.Fatalf("Failed to migrate tables: %v", err)
	}
}

func main() {
	router, m, c, err := config.InitApp()
	if err != nil {
		log.Fatalf("Failed to initialize app: %v", err)
	}

	migrateTables()

	router.Use(middlewares.RequestLogger())
	router.Use(middlewares.ErrorHandler())

	config.InitWebSocket(router, m)

	routes.SetupRoutes(router, config.DB, config.RedisClient, m)

	// scheduler chạy sau khi SetupRoutes đã gắn service
	if err := jobs.InitCronJobs(c); err != nil {
		log.Fatalf("Failed to initialize cron jobs: %v", err)
	}

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
