package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"restman-system/config"
	"restman-system/internal/drafts"
	"restman-system/internal/gateway/clients"
	"restman-system/internal/gateway/handlers"
	"restman-system/internal/gateway/middleware"
	"restman-system/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
)

func main() {
	cfg := config.LoadConfig()

	rdb := config.NewRedisClient(cfg.Redis)
	backend := clients.NewBackendClient(cfg.Backend.BaseURL)

	sessions := session.NewRedisStore(rdb, cfg.Auth.SessionTTL)
	draftStore := drafts.NewRedisStore(rdb, cfg.Drafts.TTL)
	secret := []byte(cfg.Auth.SessionSecret)

	authHandler := handlers.NewAuthHTTPHandler(backend, sessions, secret, cfg.Auth.SessionTTL)
	menuHandler := handlers.NewMenuHTTPHandler(backend, rdb)
	employeeHandler := handlers.NewEmployeeHTTPHandler(backend)
	tokenHandler := handlers.NewTokenHTTPHandler(backend, draftStore, cfg.Billing.TaxRate)
	draftHandler := handlers.NewDraftHTTPHandler(draftStore)
	dashboardHandler := handlers.NewDashboardHTTPHandler(backend)

	r := gin.Default()

	r.Use(middleware.CORS())
	r.Use(middleware.RateLimit(cfg.RateLimit))

	// --- Public API Group ---
	public := r.Group("/api/v1")
	{
		auth := public.Group("/auth")
		{
			auth.POST("/login", authHandler.Login)
			auth.POST("/signup", authHandler.Signup)
			auth.POST("/forgot-password", authHandler.ForgotPassword)
			auth.POST("/reset-password", authHandler.ResetPassword)
		}
	}

	// --- Protected API Group ---
	protected := r.Group("/api/v1")
	protected.Use(middleware.SessionAuth(secret, sessions))
	{
		protected.POST("/auth/logout", authHandler.Logout)

		profile := protected.Group("/profile")
		{
			profile.GET("", authHandler.GetProfile)
			profile.PUT("", authHandler.UpdateProfile)
			profile.POST("/change-password", authHandler.ChangePassword)
		}

		menu := protected.Group("/menu")
		{
			menu.GET("", menuHandler.GetMenu)
			menu.POST("", menuHandler.CreateMenu)
			menu.PUT("", menuHandler.UpdateMenu)
		}

		employees := protected.Group("/employees")
		{
			employees.GET("", employeeHandler.List)
			employees.POST("", employeeHandler.Create)
			employees.GET("/:id", employeeHandler.Get)
			employees.PUT("/:id", employeeHandler.Update)
			employees.DELETE("/:id", employeeHandler.Delete)
			employees.POST("/:id/leaves", employeeHandler.AddLeave)
			employees.POST("/:id/payments", employeeHandler.AddPayment)
			employees.GET("/:id/report/payments", employeeHandler.PaymentsReport)
			employees.GET("/:id/report/leaves", employeeHandler.LeavesReport)
		}

		tokens := protected.Group("/tokens")
		{
			tokens.POST("/generate", tokenHandler.GenerateTokens)
			tokens.GET("/date/:year/:month/:day", tokenHandler.TokensByDate)
			tokens.GET("/my-tokens", tokenHandler.MyTokens)
		}

		draftsGroup := protected.Group("/drafts")
		{
			draftsGroup.GET("", draftHandler.Get)
			draftsGroup.PUT("", draftHandler.Save)
			draftsGroup.POST("/ops", draftHandler.ApplyOp)
			draftsGroup.DELETE("", draftHandler.Delete)
		}

		dashboard := protected.Group("/dashboard")
		{
			dashboard.GET("/stats", dashboardHandler.Stats)
			dashboard.GET("/popular-items", dashboardHandler.PopularItems)
			dashboard.GET("/recent-activity", dashboardHandler.RecentActivity)
		}
	}

	r.GET("/health", healthCheckHandler(rdb, backend))
	r.GET("/health/detailed", detailedHealthCheckHandler(rdb, backend))

	port := ":" + cfg.Port
	log.Printf("Starting server on port %s", port)
	if err := r.Run(port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func healthCheckHandler(rdb *redis.Client, backend *clients.BackendClient) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		status := "healthy"
		httpStatus := http.StatusOK

		unavailable := []string{}
		if err := rdb.Ping(ctx).Err(); err != nil {
			unavailable = append(unavailable, "redis")
		}
		if err := backend.Ping(ctx); err != nil {
			unavailable = append(unavailable, "backend")
		}

		if len(unavailable) > 0 {
			status = "degraded"
			httpStatus = http.StatusPartialContent
		}

		c.JSON(httpStatus, gin.H{
			"status":               status,
			"message":              "Server is running",
			"unavailable_services": unavailable,
			"timestamp":            time.Now(),
		})
	}
}

func detailedHealthCheckHandler(rdb *redis.Client, backend *clients.BackendClient) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		services := map[string]interface{}{
			"redis":   checkServiceHealth(rdb.Ping(ctx).Err() == nil),
			"backend": checkServiceHealth(backend.Ping(ctx) == nil),
		}

		overallStatus := "healthy"
		for _, service := range services {
			if serviceMap, ok := service.(map[string]interface{}); ok {
				if serviceMap["status"] != "healthy" {
					overallStatus = "degraded"
				}
			}
		}

		c.JSON(http.StatusOK, gin.H{
			"overall_status": overallStatus,
			"services":       services,
			"timestamp":      time.Now(),
		})
	}
}

func checkServiceHealth(isHealthy bool) map[string]interface{} {
	if !isHealthy {
		return map[string]interface{}{
			"status":  "unavailable",
			"message": "Service not reachable",
		}
	}
	return map[string]interface{}{
		"status":  "healthy",
		"message": "Service is responding",
	}
}
