package main

import (
	"github.com/JaeHeong/jaehyeong-tech-sub000/internal/handler"
	mid "github.com/JaeHeong/jaehyeong-tech-sub000/internal/middleware"
	"github.com/JaeHeong/jaehyeong-tech-sub000/internal/model"
	"github.com/JaeHeong/jaehyeong-tech-sub000/pkg/cache"
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
)

const serviceName = "blog-api"

func main() {
	// Load configuration
	appConfig, err := config.Load(serviceName)
	if err != nil {
		// Can't use structured logger yet since it's not initialized
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

	log.Info("Starting blog-api",
		zap.String("environment", appConfig.Server.Env),
		zap.String("port", appConfig.Server.Port))

	// Initialize JWT utility
	jwtutil.Initialize(&appConfig.JWT)
	log.Info("JWT utility initialized")

	// Initialize Google OAuth client
	handler.InitGoogleOAuth(&appConfig.OAuth)

	// Initialize Prometheus metrics
	prometheus.InitMetrics(appConfig)
	log.Info("Prometheus metrics initialized",
		zap.String("metrics_prefix", appConfig.Metrics.Prefix))

	// Initialize database
	if _, err := database.InitDB(&appConfig.DB); err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	log.Info("Database connection established")

	if err := database.MigrateModels(
		&model.User{},
		&model.Category{},
		&model.Tag{},
		&model.Post{},
		&model.Page{},
	); err != nil {
		log.Fatal("Failed to run migrations", zap.Error(err))
	}

	// Optional read-side cache for hot public queries
	if err := cache.Init(&appConfig.Redis); err != nil {
		log.Warn("Redis cache unavailable, continuing without it", zap.Error(err))
	} else if cache.Enabled() {
		log.Info("Redis cache enabled", zap.String("addr", appConfig.Redis.Addr))
	}

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

	// Auth routes
	auth := e.Group("/api/auth")
	auth.POST("/register", handler.Register)
	auth.POST("/login", handler.Login)
	auth.POST("/google", handler.GoogleLogin)
	auth.GET("/me", handler.Me, mid.AuthMiddleware)

	// Public content routes; optional auth so admins see non-public content
	posts := e.Group("/api/posts", mid.OptionalAuthMiddleware)
	posts.GET("", handler.ListPosts)
	posts.GET("/:slug", handler.GetPostBySlug)

	categories := e.Group("/api/categories", mid.OptionalAuthMiddleware)
	categories.GET("", handler.ListCategories)
	categories.GET("/:slug", handler.GetCategoryBySlug)

	tags := e.Group("/api/tags", mid.OptionalAuthMiddleware)
	tags.GET("", handler.ListTags)
	tags.GET("/:slug", handler.GetTagBySlug)

	pages := e.Group("/api/pages", mid.OptionalAuthMiddleware)
	pages.GET("", handler.ListPages)
	pages.GET("/:slug", handler.GetPageBySlug)

	// Admin mutation routes
	admin := e.Group("/api", mid.AuthMiddleware, mid.AdminMiddleware)
	admin.POST("/posts", handler.CreatePost)
	admin.PUT("/posts/:id", handler.UpdatePost)
	admin.DELETE("/posts/:id", handler.DeletePost)
	admin.POST("/categories", handler.CreateCategory)
	admin.PUT("/categories/:id", handler.UpdateCategory)
	admin.DELETE("/categories/:id", handler.DeleteCategory)
	admin.POST("/tags", handler.CreateTag)
	admin.PUT("/tags/:id", handler.UpdateTag)
	admin.DELETE("/tags/:id", handler.DeleteTag)
	admin.POST("/pages", handler.CreatePage)
	admin.PUT("/pages/:id", handler.UpdatePage)
	admin.DELETE("/pages/:id", handler.DeletePage)
	admin.GET("/dashboard/stats", handler.DashboardStats)

	// Start server
	port := appConfig.Server.Port
	log.Info("Starting server", zap.String("port", port))
	if err := e.Start(":" + port); err != nil {
		log.Fatal("Server error", zap.Error(err))
	}
}
