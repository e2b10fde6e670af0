package routes

import (
	"net/http"

	"job-portal-api/internal/auth"
	"job-portal-api/internal/cache"
	"job-portal-api/internal/handlers"
	"job-portal-api/internal/metrics"
	"job-portal-api/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// Deps is everything the router needs. Metrics and MetricsHandler may be nil.
type Deps struct {
	Handler        *handlers.Handler
	Tokens         *auth.TokenManager
	Log            zerolog.Logger
	Metrics        *metrics.Recorder
	MetricsHandler http.Handler
	MetricsPath    string
}

func SetupRoutes(d Deps) *gin.Engine {
	// Create a new GIN Router
	ginRouter := gin.New()
	ginRouter.Use(middleware.Recovery(d.Log), middleware.RequestLogger(d.Log))
	if d.Metrics != nil {
		ginRouter.Use(middleware.Metrics(d.Metrics))
	}

	// CORS middleware (for frontend integration)
	ginRouter.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "X-Cache")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	// Health check endpoint
	ginRouter.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "Job Portal API is running",
		})
	})

	if d.MetricsHandler != nil {
		path := d.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		ginRouter.GET(path, gin.WrapH(d.MetricsHandler))
	}

	h := d.Handler
	ttl := h.TTL

	// Public routes (no authentication required)
	api := ginRouter.Group("/api")
	{
		api.GET("/jobs", h.GetJobs)
		api.GET("/jobs/:id", h.GetJobByID)
		api.GET("/employers", h.GetEmployers)
		api.GET("/employers/:id", h.GetEmployerByID)
		api.GET("/faqs", h.GetFAQs)
		api.GET("/faqs/search",
			middleware.ResponseCache(h.Cache, middleware.WithTTL(ttl.FAQTTL), middleware.WithTags(cache.TagFAQs)),
			h.SearchFAQs)
	}

	// Protected routes (authentication required)
	protectedRoutes := api.Group("")
	protectedRoutes.Use(middleware.JWTAuthMiddleware(d.Tokens))

	employer := protectedRoutes.Group("")
	employer.Use(middleware.RequireRole(auth.RoleEmployer))
	{
		employer.POST("/jobs", h.CreateJob)
		employer.PUT("/jobs/:id", h.UpdateJob)
		employer.DELETE("/jobs/:id", h.DeleteJob)
		employer.PUT("/employer/profile", h.UpdateEmployerProfile)
		employer.GET("/employer/jobs/:id/applications", h.GetJobApplications)
		employer.PATCH("/employer/applications/:id/status", h.UpdateApplicationStatus)
	}

	candidate := protectedRoutes.Group("")
	candidate.Use(middleware.RequireRole(auth.RoleCandidate))
	{
		candidate.POST("/jobs/:id/apply", h.ApplyToJob)
		candidate.GET("/candidate/applications",
			middleware.ResponseCache(h.Cache, middleware.WithTTL(ttl.ApplicationsTTL), middleware.WithKeyFunc(middleware.UserURLKey)),
			h.GetCandidateApplications)
	}

	admin := protectedRoutes.Group("/admin")
	admin.Use(middleware.RequireRole(auth.RoleAdmin, auth.RolePlacementOfficer))
	{
		admin.POST("/faqs", h.CreateFAQ)
		admin.DELETE("/faqs/:id", h.DeleteFAQ)
		admin.GET("/cache/stats", h.GetCacheStats)
		admin.POST("/cache/clear-jobs", h.ClearJobCaches)
		admin.POST("/cache/clear", h.ClearAllCaches)
		admin.POST("/cache/purge", h.PurgeExpiredCaches)
		admin.GET("/cache/events", h.CacheEvents)
	}

	return ginRouter
}
