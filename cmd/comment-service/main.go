package main

import (
	"github.com/JaeHeong/jaehyeong-tech-sub000/internal/handler"
	mid "github.com/JaeHeong/jaehyeong-tech-sub000/internal/middleware"
	"github.com/JaeHeong/jaehyeong-tech-sub000/internal/model"
	"github.com/JaeHeong/jaehyeong-tech-sub000/pkg/config"
	"github.com/JaeHeong/jaehyeong-tech-sub000/pkg/database"
	"github.com/JaeHeong/jaehyeong-tech-sub000/pkg/httperr"
	"github.com/JaeHeong/jaehyeong-tech-sub000/pkg/jwtutil"
	"github.com/JaeHeong/jaehyeong-tech-sub000/pkg/logger"
	"github.com/JaeHeong/jaehyeong-tech-sub000/prometheus"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const serviceName = "comment-service"

// ensureDefaultTenant creates the configured default tenant on first boot
// so single-tenant deployments work without manual setup.
func ensureDefaultTenant(db *gorm.DB, ref string, log *zap.Logger) {
	var tenant model.Tenant
	if result := db.Where("slug = ?", ref).First(&tenant); result.Error == nil {
		return
	}
	tenant = model.Tenant{Name: ref, Slug: ref, Active: true}
	if result := db.Create(&tenant); result.Error != nil {
		log.Warn("Failed to seed default tenant", zap.String("slug", ref), zap.Error(result.Error))
		return
	}
	log.Info("Default tenant created", zap.String("slug", ref), zap.Uint("tenant_id", tenant.ID))
}

func main() {
	// Load configuration
	appConfig, err := config.Load(serviceName)
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	if err := logger.InitLogger(&logger.LogConfig{
		Level:       appConfig.Log.Level,
		Environment: appConfig.Server.Env,
		ServiceName: serviceName,
	}); err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	log := logger.GetLogger()
	defer log.Sync()

	log.Info("Starting comment-service",
		zap.String("environment", appConfig.Server.Env),
		zap.String("port", appConfig.Server.Port))

	// Initialize JWT utility
	jwtutil.Initialize(&appConfig.JWT)
	log.Info("JWT utility initialized")

	// Initialize Prometheus metrics
	prometheus.InitMetrics(appConfig)
	log.Info("Prometheus metrics initialized",
		zap.String("metrics_prefix", appConfig.Metrics.Prefix))

	// Initialize database
	db, err := database.InitDB(&appConfig.DB)
	if err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	log.Info("Database connection established")

	if err := database.MigrateModels(&model.Tenant{}, &model.Comment{}); err != nil {
		log.Fatal("Failed to run migrations", zap.Error(err))
	}
	ensureDefaultTenant(db, appConfig.Tenant.DefaultRef, log)

	// Initialize Echo instance
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = httperr.EchoErrorHandler(log)

	// Middleware
	e.Use(middleware.Recover())
	e.Use(mid.RequestIDMiddleware)
	e.Use(logger.Middleware())
	e.Use(mid.MetricsMiddleware)

	// Metrics and health endpoints
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/health", handler.HealthCheck(serviceName))

	resolveTenant := mid.TenantResolverMiddleware(appConfig.Tenant.DefaultRef)

	// Public comment routes. Creation accepts both bearer tokens and guests.
	comments := e.Group("/api/comments", resolveTenant, mid.OptionalAuthMiddleware)
	comments.GET("/post/:postId", handler.ListPostComments)
	comments.POST("/post/:postId", handler.CreateComment)
	comments.PUT("/:id", handler.UpdateComment)
	comments.DELETE("/:id", handler.DeleteComment)

	// Admin moderation routes
	adminComments := e.Group("/api/comments/admin", resolveTenant, mid.AuthMiddleware, mid.AdminMiddleware)
	adminComments.GET("", handler.AdminListComments)
	adminComments.PUT("/:id/status", handler.AdminUpdateCommentStatus)
	adminComments.DELETE("/:id", handler.AdminDeleteComment)
	adminComments.POST("/bulk-delete", handler.AdminBulkDeleteComments)

	// Internal backup/restore surface, gated by header + resolved tenant,
	// not by user credentials.
	internal := e.Group("/internal")
	internal.GET("/health", handler.HealthCheck(serviceName))
	internal.GET("/export", handler.ExportComments, mid.InternalMiddleware)
	internal.POST("/restore", handler.RestoreComments, mid.InternalMiddleware)

	// Start server
	port := appConfig.Server.Port
	log.Info("Starting server", zap.String("port", port))
	if err := e.Start(":" + port); err != nil {
		log.Fatal("Server error", zap.Error(err))
	}
}
