package router

import (
	"fitclub_backend/internal/handlers"
	"fitclub_backend/internal/middleware"
	"fitclub_backend/internal/models"
	"fitclub_backend/internal/repositories"

	"github.com/gin-gonic/gin"
)

// SetupAuthRoutes sets up the authentication routes.
func SetupAuthRoutes(apiGroup *gin.RouterGroup, authHandler *handlers.AuthHandler, sessionRepo repositories.SessionRepository) {
	authRoutes := apiGroup.Group("/auth")
	{
		authRoutes.POST("/register", authHandler.Register)
		authRoutes.POST("/login", authHandler.Login)

		authRequiredRoutes := authRoutes.Group("")
		authRequiredRoutes.Use(middleware.AuthMiddleware(sessionRepo))
		{
			authRequiredRoutes.POST("/logout", authHandler.Logout)
			authRequiredRoutes.GET("/me", authHandler.Me)
			authRequiredRoutes.GET("/users",
				middleware.RoleAuthMiddleware(models.RoleAdmin, models.RoleManager),
				authHandler.GetUsers)
		}
	}
}

// SetupCustomerRoutes sets up the customer routes, including per-customer attendance.
func SetupCustomerRoutes(authenticatedGroup *gin.RouterGroup, customerHandler *handlers.CustomerHandler, attendanceHandler *handlers.AttendanceHandler) {
	customerRoutes := authenticatedGroup.Group("/customers")
	{
		customerRoutes.GET("", customerHandler.GetCustomers)
		customerRoutes.GET("/:id", customerHandler.GetCustomerByID)
		customerRoutes.POST("",
			middleware.RoleAuthMiddleware(models.RoleAdmin, models.RoleManager),
			customerHandler.CreateCustomer)
		customerRoutes.PUT("/:id",
			middleware.RoleAuthMiddleware(models.RoleAdmin, models.RoleManager),
			customerHandler.UpdateCustomer)
		customerRoutes.DELETE("/:id",
			middleware.RoleAuthMiddleware(models.RoleAdmin),
			customerHandler.DeleteCustomer)

		customerRoutes.GET("/:id/attendance", attendanceHandler.GetCustomerAttendance)
		customerRoutes.POST("/:id/attendance", attendanceHandler.CreateCustomerAttendance)
		customerRoutes.PUT("/:id/attendance/:attendanceId",
			middleware.RoleAuthMiddleware(models.RoleAdmin, models.RoleManager),
			attendanceHandler.UpdateCustomerAttendance)
		customerRoutes.DELETE("/:id/attendance/:attendanceId",
			middleware.RoleAuthMiddleware(models.RoleAdmin),
			attendanceHandler.DeleteCustomerAttendance)
	}
}

// SetupPaymentRoutes sets up the payment routes.
func SetupPaymentRoutes(authenticatedGroup *gin.RouterGroup, paymentHandler *handlers.PaymentHandler) {
	paymentRoutes := authenticatedGroup.Group("/payments")
	{
		paymentRoutes.GET("", paymentHandler.GetPayments)
		paymentRoutes.POST("",
			middleware.RoleAuthMiddleware(models.RoleAdmin, models.RoleManager),
			paymentHandler.CreatePayment)
		paymentRoutes.PUT("/:id",
			middleware.RoleAuthMiddleware(models.RoleAdmin, models.RoleManager),
			paymentHandler.UpdatePayment)
		paymentRoutes.DELETE("/:id",
			middleware.RoleAuthMiddleware(models.RoleAdmin),
			paymentHandler.DeletePayment)
	}
}

// SetupAttendanceRoutes sets up the staff attendance routes.
func SetupAttendanceRoutes(authenticatedGroup *gin.RouterGroup, attendanceHandler *handlers.AttendanceHandler) {
	attendanceRoutes := authenticatedGroup.Group("/attendance")
	{
		attendanceRoutes.GET("", attendanceHandler.GetStaffAttendance)
		attendanceRoutes.POST("",
			middleware.RoleAuthMiddleware(models.RoleAdmin, models.RoleManager),
			attendanceHandler.CreateStaffAttendance)
		attendanceRoutes.PUT("/:id",
			middleware.RoleAuthMiddleware(models.RoleAdmin, models.RoleManager),
			attendanceHandler.UpdateStaffAttendance)
		attendanceRoutes.DELETE("/:id",
			middleware.RoleAuthMiddleware(models.RoleAdmin),
			attendanceHandler.DeleteStaffAttendance)
	}
}

// SetupProductRoutes sets up the inventory product routes.
func SetupProductRoutes(authenticatedGroup *gin.RouterGroup, productHandler *handlers.ProductHandler) {
	productRoutes := authenticatedGroup.Group("/products")
	{
		productRoutes.GET("", productHandler.GetProducts)
		productRoutes.GET("/:id", productHandler.GetProductByID)
		productRoutes.POST("",
			middleware.RoleAuthMiddleware(models.RoleAdmin, models.RoleManager),
			productHandler.CreateProduct)
		productRoutes.PUT("/:id",
			middleware.RoleAuthMiddleware(models.RoleAdmin, models.RoleManager),
			productHandler.UpdateProduct)
		productRoutes.DELETE("/:id",
			middleware.RoleAuthMiddleware(models.RoleAdmin),
			productHandler.DeleteProduct)
	}
}

// SetupReportRoutes sets up the reporting routes.
func SetupReportRoutes(authenticatedGroup *gin.RouterGroup, reportHandler *handlers.ReportHandler) {
	reportRoutes := authenticatedGroup.Group("/reports")
	reportRoutes.Use(middleware.RoleAuthMiddleware(models.RoleAdmin, models.RoleManager))
	{
		reportRoutes.GET("/subscriptions", reportHandler.GetSubscriptionReport)
	}
}
