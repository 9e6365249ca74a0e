package main

import (
	"homefix/internal/handler"
	"homefix/internal/middleware"
	"homefix/pkg/config"
	"homefix/pkg/database"
	"homefix/pkg/jwtutil"
	"homefix/pkg/logger"
	"homefix/pkg/payment"
	"homefix/prometheus"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

func main() {
	// Load configuration from .env file and environment variables
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger with config
	logger.InitLogger(cfg)
	log := logger.GetLogger()
	log.Info("Starting maintenance service...", zap.String("environment", cfg.Server.Env))

	// Initialize database
	if err := database.InitDB(cfg); err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	log.Info("Database connection established")

	// Initialize JWT utility
	jwtutil.Initialize(&cfg.JWT)
	log.Info("JWT utility initialized")

	// Initialize billing processor client
	handler.SetPaymentClient(payment.NewClient(&cfg.Payment, log))
	log.Info("Billing processor client initialized")

	// Initialize Echo framework
	e := echo.New()

	// Apply global middleware - order matters
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORS())
	e.Use(middleware.RequestIDMiddleware)
	e.Use(logger.Middleware(log))
	e.Use(prometheus.MetricsMiddleware())

	// Public routes - no authentication required
	e.GET("/health", handler.HealthCheck)
	e.GET("/metrics", handler.MetricsHandler)

	// Authentication routes
	auth := e.Group("/auth")
	auth.POST("/register", handler.Register)
	auth.POST("/login", handler.Login)

	// Billing webhook - authenticated by signature, not by JWT
	e.POST("/webhooks/billing", handler.BillingWebhook)

	// API routes - all require authentication
	api := e.Group("/api")
	api.Use(middleware.AuthMiddleware)

	// Profile onboarding
	profiles := api.Group("/profiles")
	profiles.POST("", handler.CreateProfile)
	profiles.GET("/me", handler.GetMyProfile)

	// Buildings and units
	buildings := api.Group("/buildings")
	buildings.POST("", handler.CreateBuilding)
	buildings.POST("/units", handler.CreateUnit)
	buildings.GET("/units", handler.ListUnits)

	// Tenant invitations
	invitations := api.Group("/invitations")
	invitations.POST("", handler.InviteTenant)
	invitations.DELETE("/:id", handler.CancelInvitation)
	invitations.POST("/accept", handler.AcceptInvitation)

	// Tickets
	tickets := api.Group("/tickets")
	tickets.POST("", handler.CreateTicket)
	tickets.GET("", handler.ListTickets)
	tickets.GET("/:id", handler.GetTicket)
	tickets.DELETE("/:id", handler.DeleteTicket)
	tickets.PATCH("/:id/assign", handler.AssignContractor)
	tickets.PATCH("/:id/status", handler.UpdateTicketStatus)
	tickets.PATCH("/:id/comment", handler.UpdateTicketComment)
	tickets.POST("/:id/photos", handler.AddTicketPhoto)
	tickets.GET("/:id/photos", handler.ListTicketPhotos)
	tickets.POST("/:id/rating", handler.CreateRating)

	// Contractors and membership
	contractors := api.Group("/contractors")
	contractors.GET("", handler.ListContractors)
	contractors.GET("/:user_id/membership", handler.CheckMembership)

	// Representative reports
	api.GET("/reports/monthly", handler.MonthlyReport)

	// Admin surface
	admin := api.Group("/admin")
	admin.GET("/users", handler.ListUsers)
	admin.PATCH("/users/:user_id/role", handler.UpdateUserRole)
	admin.PATCH("/users/:user_id/block", handler.ToggleUserBlock)
	admin.GET("/membership/price", handler.GetMembershipPrice)
	admin.PUT("/membership/price", handler.UpdateMembershipPrice)

	// Get server port from configuration
	port := cfg.Server.Port

	// Start server
	log.Info("Starting server", zap.String("port", port))
	if err := e.Start(":" + port); err != nil {
		log.Fatal("Failed to start server", zap.Error(err))
	}
}
