// internal/router/router.go
package router

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/bizease/bizease-backend/internal/compliance"
	"github.com/bizease/bizease-backend/internal/config"
	"github.com/bizease/bizease-backend/internal/database"
	"github.com/bizease/bizease-backend/internal/handlers"
	"github.com/bizease/bizease-backend/internal/metrics"
	"github.com/bizease/bizease-backend/internal/middleware"
	"github.com/bizease/bizease-backend/internal/services"
	"github.com/bizease/bizease-backend/internal/store"
	"github.com/bizease/bizease-backend/internal/utils"
)

const version = "1.0.0"

// Initialize wires services and routes. rdb may be nil when the checklist
// cache is disabled.
func Initialize(db *gorm.DB, rdb *redis.Client, cfg *config.Config, reg *prometheus.Registry) *gin.Engine {
	m := metrics.New(reg)

	// Checklist persistence, optionally behind the Redis cache
	var checklistStore compliance.Store = store.NewChecklistStore(db)
	if rdb != nil {
		checklistStore = store.NewCachedChecklistStore(checklistStore, rdb, time.Duration(cfg.Redis.ChecklistTTL)*time.Second)
	}

	// Initialize services
	notificationService := services.NewNotificationService(db, cfg)
	checklistService := services.NewChecklistService(checklistStore, m)
	businessService := services.NewBusinessService(db, checklistService, notificationService)
	ecardService := services.NewECardService(store.NewECardStore(db), checklistService, notificationService, m, cfg.ECard)
	chatService := services.NewChatService(cfg.Chat, m)
	authService := services.NewAuthService(db, cfg, services.MockDigiLocker{})
	userService := services.NewUserService(db)
	schemeService := services.NewSchemeService()

	checklistService.Subscribe(businessService.HandleProgress)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	businessHandler := handlers.NewBusinessHandler(businessService)
	checklistHandler := handlers.NewChecklistHandler(businessService, checklistService)
	ecardHandler := handlers.NewECardHandler(businessService, ecardService)
	verificationHandler := handlers.NewVerificationHandler(ecardService)
	chatHandler := handlers.NewChatHandler(chatService)
	catalogHandler := handlers.NewCatalogHandler(schemeService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)
	userHandler := handlers.NewUserHandler(userService)

	// Set JWT secret
	utils.SetJWTSecret(cfg.JWT.SecretKey)

	// Initialize Gin router
	r := gin.New()

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.Metrics(m))
	r.Use(middleware.CORS(cfg.Server.AllowedOrigins))
	r.Use(middleware.I18nMiddleware())
	r.Use(middleware.GeneralRateLimit(cfg.RateLimit))
	r.Use(middleware.AuditLogMiddleware(db))

	r.GET("/health", healthHandler(db, rdb))
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	// Chat keeps its own path and response shape
	r.POST("/api/chat", middleware.ChatRateLimit(cfg.RateLimit), chatHandler.Chat)

	// API v1 routes
	v1 := r.Group("/v1")
	{
		// Authentication routes
		auth := v1.Group("/auth")
		auth.Use(middleware.AuthRateLimit())
		{
			auth.POST("/digilocker", authHandler.DigiLockerLogin)
			auth.POST("/refresh", authHandler.RefreshToken)
			auth.GET("/me", middleware.AuthRequired(), authHandler.GetProfile)
		}

		// Account routes
		users := v1.Group("/users")
		users.Use(middleware.AuthRequired())
		{
			users.PUT("/me", userHandler.UpdateContact)
			users.DELETE("/me", userHandler.Deactivate)
		}

		// Business routes
		businesses := v1.Group("/businesses")
		businesses.Use(middleware.OptionalAuth())
		{
			businesses.POST("", businessHandler.Register)
			businesses.GET("", middleware.AuthRequired(), businessHandler.ListMine)
			businesses.GET("/registration/:registrationId", businessHandler.GetByRegistrationID)
			businesses.GET("/:id", businessHandler.GetBusiness)
			businesses.PUT("/:id/profile", businessHandler.UpdateProfile)

			businesses.GET("/:id/checklist", checklistHandler.GetChecklist)
			businesses.GET("/:id/checklist/progress", checklistHandler.GetProgress)
			businesses.PUT("/:id/checklist/:itemId", checklistHandler.UpdateItemStatus)
			businesses.GET("/:id/dashboard", checklistHandler.GetDashboard)

			businesses.POST("/:id/ecard", ecardHandler.Issue)
			businesses.GET("/:id/ecard", ecardHandler.GetLatest)
		}

		v1.POST("/checklist/preview", checklistHandler.Preview)

		// Verification routes (public)
		verify := v1.Group("/verify")
		{
			verify.POST("/qr", verificationHandler.VerifyQRPayload)
			verify.GET("/:registrationId", verificationHandler.VerifyByRegistrationID)
		}

		// Notification routes
		notifications := v1.Group("/notifications")
		notifications.Use(middleware.AuthRequired())
		{
			notifications.GET("", notificationHandler.List)
			notifications.PUT("/:id/read", notificationHandler.MarkRead)
		}

		// Reference data
		v1.GET("/requirements", catalogHandler.ListRequirements)
		v1.GET("/schemes", catalogHandler.ListSchemes)
	}

	return r
}

func healthHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		status := http.StatusOK
		body := gin.H{
			"status":  "healthy",
			"version": version,
			"time":    time.Now().UTC().Format(time.RFC3339),
		}

		if err := database.Ping(db); err != nil {
			logrus.WithError(err).Warn("Health check: database unreachable")
			status = http.StatusServiceUnavailable
			body["status"] = "unhealthy"
			body["database"] = "down"
		} else {
			body["database"] = "up"
		}

		if rdb != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := rdb.Ping(ctx).Err(); err != nil {
				body["redis"] = "down"
				if status == http.StatusOK {
					body["status"] = "degraded"
				}
			} else {
				body["redis"] = "up"
			}
		} else {
			body["redis"] = "disabled"
		}

		c.JSON(status, body)
	}
}
