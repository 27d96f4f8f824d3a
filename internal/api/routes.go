package api

import (
	"github.com/gin-gonic/gin"
	"github.com/greenchainz/greenchainz-api/internal/auth"
	"github.com/greenchainz/greenchainz-api/internal/database"
	"github.com/greenchainz/greenchainz-api/internal/logger"
	"github.com/greenchainz/greenchainz-api/internal/services"
	"github.com/greenchainz/greenchainz-api/pkg/config"
)

// SetupRoutes configures all API routes
func SetupRoutes(r *gin.Engine, db *database.DB, cfg *config.Config, log logger.Logger) error {
	// Create centralized services
	svcs := services.NewServices(db.DB, cfg, log)

	// Create handlers with proper service injection
	authHandler := NewAuthHandler(svcs.Auth)
	qualificationHandler := NewQualificationHandler(svcs.Qualification)
	shipmentHandler := NewShipmentHandler(svcs.Shipment)
	healthHandler := NewHealthHandler(db, svcs.Tracker)

	// Public routes
	public := r.Group("/api/v1")
	{
		public.POST("/auth/login", authHandler.Login)
		public.POST("/auth/register", authHandler.Register)
		public.POST("/auth/refresh", authHandler.RefreshToken)
		public.POST("/auth/logout", authHandler.Logout)

		public.GET("/health", healthHandler.GetHealth)
	}

	// Protected routes
	protected := r.Group("/api/v1")
	protected.Use(auth.JWTMiddleware(cfg.JWTSecret))
	{
		// Diagnostics, admin only
		protected.GET("/health/database", auth.RequireRole("admin"), healthHandler.GetDatabaseStats)
		protected.GET("/health/carriers", auth.RequireRole("admin"), healthHandler.GetCarrierHealth)

		// Supplier qualification endpoints
		protected.POST("/qualifications", qualificationHandler.CreateQualification)
		protected.GET("/qualifications", qualificationHandler.ListQualifications)
		protected.GET("/qualifications/dashboard", qualificationHandler.GetDashboard)
		protected.GET("/qualifications/criteria", qualificationHandler.GetDefaultCriteria)
		protected.GET("/qualifications/expiring-certifications", qualificationHandler.GetExpiringCertifications)
		protected.GET("/qualifications/supplier/:supplier_id", qualificationHandler.GetQualificationBySupplier)
		protected.GET("/qualifications/:id", qualificationHandler.GetQualification)
		protected.PUT("/qualifications/:id", qualificationHandler.UpdateQualification)
		protected.POST("/qualifications/:id/evaluate", qualificationHandler.EvaluateQualification)
		protected.POST("/qualifications/:id/risk-assessment", qualificationHandler.PerformRiskAssessment)
		protected.POST("/qualifications/:id/compliance-check", qualificationHandler.RunComplianceCheck)
		protected.POST("/qualifications/:id/documents", qualificationHandler.AddDocument)
		protected.PUT("/qualifications/:id/documents/:document_id/verify", qualificationHandler.VerifyDocument)

		// Compliance requirement endpoints
		protected.POST("/compliance/requirements", auth.RequireRole("admin"), qualificationHandler.CreateRequirement)
		protected.GET("/compliance/requirements", qualificationHandler.ListRequirements)

		// Shipment endpoints
		protected.POST("/shipments", shipmentHandler.CreateShipment)
		protected.GET("/shipments", shipmentHandler.ListShipments)
		protected.POST("/shipments/rates", shipmentHandler.GetRates)
		protected.GET("/shipments/analytics", shipmentHandler.GetAnalytics)
		protected.GET("/shipments/active", shipmentHandler.GetActiveShipments)
		protected.GET("/shipments/exceptions", shipmentHandler.GetDeliveryExceptions)
		protected.GET("/shipments/:id", shipmentHandler.GetShipment)
		protected.PUT("/shipments/:id", shipmentHandler.UpdateShipment)
		protected.PUT("/shipments/:id/status", shipmentHandler.UpdateShipmentStatus)
		protected.POST("/shipments/:id/events", shipmentHandler.AddTrackingEvent)
		protected.POST("/shipments/:id/documents", shipmentHandler.AddShipmentDocument)
		protected.POST("/shipments/:id/offset", shipmentHandler.OffsetCarbon)
		protected.POST("/shipments/:id/cancel", shipmentHandler.CancelShipment)
		protected.POST("/shipments/:id/pickup", shipmentHandler.SchedulePickup)
		protected.POST("/shipments/:id/refresh-tracking", shipmentHandler.RefreshTracking)
	}

	return nil
}
