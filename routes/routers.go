package routes

import (
	"hotel/config"
	"hotel/constants"
	"hotel/controllers"
	"hotel/jobs"
	middlewares "hotel/middleware"
	"hotel/services"
	"hotel/services/logger"
	"hotel/services/notification"

	"github.com/gin-gonic/gin"
	"github.com/olahol/melody"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// SetupRoutes khởi tạo service, đăng ký route và gắn service cho scheduler
func SetupRoutes(router *gin.Engine, db *gorm.DB, redisCli *redis.Client, m *melody.Melody) {
	logLevel := logger.InfoLevel
	if !config.IsProduction() {
		logLevel = logger.DebugLevel
	}
	appLogger := logger.NewDefaultLogger(logLevel)

	notifier := notification.NewMelodyService(db, m)
	settingsCache := services.NewSettingsCache(services.SettingsCacheOptions{
		DB:     db,
		Redis:  redisCli,
		Logger: appLogger,
	})

	keyCardService := services.NewKeyCardService(services.KeyCardServiceOptions{
		DB:     db,
		Logger: appLogger,
	})
	invoiceSync := services.NewInvoiceSyncService(db, appLogger)
	housekeepingService := services.NewHousekeepingService(db, appLogger)
	refundService := services.NewRefundService(db, appLogger)
	gateway := services.NewMockGateway(appLogger)

	overstayService := services.NewOverstayService(services.OverstayServiceOptions{
		DB:       db,
		Logger:   appLogger,
		Notifier: notifier,
		Gateway:  gateway,
		Settings: settingsCache,
	})

	checkInOutService := services.NewCheckInOutService(services.CheckInOutServiceOptions{
		DB:           db,
		Logger:       appLogger,
		KeyCards:     keyCardService,
		Overstay:     overstayService,
		InvoiceSync:  invoiceSync,
		Housekeeping: housekeepingService,
		Notifier:     notifier,
		Settings:     settingsCache,
		Production:   config.IsProduction(),
	})

	bookingService := services.NewBookingService(services.BookingServiceOptions{
		DB:          db,
		Logger:      appLogger,
		Refunds:     refundService,
		InvoiceSync: invoiceSync,
		Notifier:    notifier,
		Settings:    settingsCache,
	})

	// scheduler dùng chung service với HTTP layer
	jobs.SetHoldScheduler(bookingService)
	jobs.SetTaskEscalator(housekeepingService)
	jobs.SetCardSweeper(keyCardService)

	bookingController := controllers.NewBookingController(bookingService)
	checkInOutController := controllers.NewCheckInOutController(checkInOutService)
	overstayController := controllers.NewOverstayController(overstayService)
	keyCardController := controllers.NewKeyCardController(keyCardService)
	invoiceController := controllers.NewInvoiceController(invoiceSync)
	housekeepingController := controllers.NewHousekeepingController(housekeepingService)
	settingsController := controllers.NewSettingsController(settingsCache)

	guest := constants.RoleGuest
	receptionist := constants.RoleReceptionist
	admin := constants.RoleAdmin

	v1 := router.Group("/api/v1")

	// tài khoản
	v1.POST("/auth/register", controllers.Register)
	v1.POST("/auth/login", controllers.Login)

	// booking
	v1.POST("/bookings", bookingController.CreateBooking)
	v1.GET("/bookings", middlewares.AuthMiddleware(receptionist, admin), bookingController.ListBookings)
	v1.GET("/bookings/search", middlewares.AuthMiddleware(receptionist, admin), bookingController.SearchBookings)
	v1.GET("/bookings/:id", middlewares.AuthMiddleware(guest, receptionist, admin), bookingController.GetBooking)
	v1.PUT("/bookings/:id/approve", middlewares.AuthMiddleware(receptionist, admin), bookingController.ApproveBooking)
	v1.PUT("/bookings/:id/cancel", middlewares.AuthMiddleware(guest, receptionist, admin), bookingController.CancelBooking)

	// nhận phòng / trả phòng
	v1.POST("/stays/checkin", middlewares.AuthMiddleware(receptionist, admin), checkInOutController.CheckIn)
	v1.POST("/stays/self-checkin", middlewares.AuthMiddleware(guest), middlewares.KioskSessionMiddleware(), checkInOutController.SelfCheckIn)
	v1.PUT("/stays/:id/checkout", middlewares.AuthMiddleware(guest, receptionist, admin), checkInOutController.CheckOut)
	v1.GET("/stays/:id", middlewares.AuthMiddleware(guest, receptionist, admin), checkInOutController.GetStay)
	v1.POST("/stays/:id/notes", middlewares.AuthMiddleware(receptionist, admin), checkInOutController.AddNote)
	v1.PUT("/stays/:id/no-show", middlewares.AuthMiddleware(receptionist, admin), checkInOutController.MarkNoShow)

	// phụ thu quá hạn
	v1.POST("/overstay/pay", middlewares.AuthMiddleware(guest), overstayController.PayOverstay)
	v1.PUT("/overstay/:id/approve", middlewares.AuthMiddleware(receptionist, admin), overstayController.ApprovePayment)
	v1.PUT("/overstay/:id/reject", middlewares.AuthMiddleware(receptionist, admin), overstayController.RejectPayment)
	v1.PUT("/overstay/:id/adjust", middlewares.AuthMiddleware(admin), overstayController.AdjustCharges)

	// hóa đơn
	v1.GET("/invoices", middlewares.AuthMiddleware(guest, receptionist, admin), invoiceController.ListInvoices)
	v1.GET("/invoices/:id", middlewares.AuthMiddleware(guest, receptionist, admin), invoiceController.GetInvoice)
	v1.PUT("/invoices/:id/status", middlewares.AuthMiddleware(receptionist, admin), invoiceController.UpdateInvoiceStatus)

	// thẻ từ
	v1.GET("/keycards", middlewares.AuthMiddleware(receptionist, admin), keyCardController.ListCards)
	v1.POST("/keycards", middlewares.AuthMiddleware(admin), keyCardController.CreateCard)
	v1.PUT("/keycards/:id/status", middlewares.AuthMiddleware(receptionist, admin), keyCardController.SetCardStatus)

	// dọn phòng
	housekeeping := v1.Group("/housekeeping", middlewares.AuthMiddleware(), middlewares.RoleMiddleware(receptionist, admin))
	housekeeping.GET("", housekeepingController.ListTasks)
	housekeeping.PUT("/:id/complete", housekeepingController.CompleteTask)
	housekeeping.PUT("/:id/cancel", housekeepingController.CancelTask)

	// thông báo
	v1.GET("/notifications", middlewares.AuthMiddleware(guest, receptionist, admin), controllers.ListNotifications)

	// cấu hình vận hành
	v1.GET("/settings", middlewares.AuthMiddleware(admin), settingsController.GetSettings)
	v1.PUT("/settings", middlewares.AuthMiddleware(admin), settingsController.UpdateSettings)
}
