package router

import (
	"database/sql"

	"fitclub_backend/internal/handlers"
	"fitclub_backend/internal/middleware"
	"fitclub_backend/internal/repositories"
	"fitclub_backend/internal/services"

	"github.com/gin-gonic/gin"
)

// Setup initializes the routing for the application.
func Setup(engine *gin.Engine, db *sql.DB) {
	// Initialize Repositories
	customerRepo := repositories.NewCustomerRepository(db)
	paymentRepo := repositories.NewPaymentRepository(db)
	userRepo := repositories.NewUserRepository(db)
	sessionRepo := repositories.NewSessionRepository(db)
	attendanceRepo := repositories.NewAttendanceRepository(db)
	productRepo := repositories.NewProductRepository(db)

	// Initialize Services
	authService := services.NewAuthService(userRepo, sessionRepo, db)
	customerService := services.NewCustomerService(customerRepo, db)
	paymentService := services.NewPaymentService(paymentRepo, customerRepo, db)
	attendanceService := services.NewAttendanceService(attendanceRepo, customerRepo, userRepo, db)
	productService := services.NewProductService(productRepo, db)

	// Initialize Handlers
	authHandler := handlers.NewAuthHandler(authService)
	customerHandler := handlers.NewCustomerHandler(customerService)
	paymentHandler := handlers.NewPaymentHandler(paymentService)
	attendanceHandler := handlers.NewAttendanceHandler(attendanceService)
	productHandler := handlers.NewProductHandler(productService)
	reportHandler := handlers.NewReportHandler(paymentService)

	api := engine.Group("/api")

	SetupAuthRoutes(api, authHandler, sessionRepo)

	authenticated := api.Group("")
	authenticated.Use(middleware.AuthMiddleware(sessionRepo))
	{
		SetupCustomerRoutes(authenticated, customerHandler, attendanceHandler)
		SetupPaymentRoutes(authenticated, paymentHandler)
		SetupAttendanceRoutes(authenticated, attendanceHandler)
		SetupProductRoutes(authenticated, productHandler)
		SetupReportRoutes(authenticated, reportHandler)
	}
}
