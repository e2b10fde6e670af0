package handlers

import (
	"net/http"
	"strconv"
	"time"

	"job-portal-api/internal/cache"
	"job-portal-api/internal/config"
	"job-portal-api/internal/middleware"
	"job-portal-api/internal/realtime"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// Handler carries the dependencies shared by every endpoint.
type Handler struct {
	DB          *gorm.DB
	Cache       *cache.Store
	Invalidator *cache.Invalidator
	Hub         *realtime.Hub
	TTL         config.CacheConfig
	Log         zerolog.Logger
}

// New wires a Handler.
func New(db *gorm.DB, store *cache.Store, inv *cache.Invalidator, hub *realtime.Hub, ttl config.CacheConfig, log zerolog.Logger) *Handler {
	return &Handler{
		DB:          db,
		Cache:       store,
		Invalidator: inv,
		Hub:         hub,
		TTL:         ttl,
		Log:         log,
	}
}

// readThrough answers from the cache when key is live. Otherwise load runs;
// it returns the body to send with 200 and true, or writes its own error
// response and returns false. Only successful bodies are cached.
func (h *Handler) readThrough(c *gin.Context, key string, ttl time.Duration, load func() (any, bool)) {
	if v, ok := h.Cache.Get(key); ok {
		c.Header("X-Cache", "HIT")
		c.JSON(http.StatusOK, v)
		return
	}

	body, ok := load()
	if !ok {
		return
	}
	h.Cache.Set(key, body, ttl)
	c.Header("X-Cache", "MISS")
	c.JSON(http.StatusOK, body)
}

// currentUser returns the authenticated user id, writing 401 when missing.
func currentUser(c *gin.Context) (string, bool) {
	userID := c.GetString(middleware.CtxUserID)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "User ID not found in token",
		})
		return "", false
	}
	return userID, true
}

// parsePage reads page (default 1) and limit (default defLimit, max 100).
func parsePage(c *gin.Context, defLimit int) (page, limit int) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err = strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defLimit)))
	if err != nil || limit < 1 {
		limit = defLimit
	}
	if limit > 100 {
		limit = 100
	}
	return page, limit
}
