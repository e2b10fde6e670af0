package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GetCacheStats handles GET /api/admin/cache/stats
func (h *Handler) GetCacheStats(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Cache statistics",
		"stats":   h.Invalidator.Stats(),
	})
}

// ClearJobCaches handles POST /api/admin/cache/clear-jobs
func (h *Handler) ClearJobCaches(c *gin.Context) {
	removed := h.Invalidator.ClearJobCaches()
	h.Log.Info().Int("removed", removed).Str("by", c.GetString("user_id")).Msg("job caches cleared")
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Job caches cleared",
		"removed": removed,
		"stats":   h.Invalidator.Stats(),
	})
}

// ClearAllCaches handles POST /api/admin/cache/clear
func (h *Handler) ClearAllCaches(c *gin.Context) {
	removed := h.Invalidator.ClearAllCaches()
	h.Log.Info().Int("removed", removed).Str("by", c.GetString("user_id")).Msg("all caches cleared")
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "All caches cleared",
		"removed": removed,
		"stats":   h.Invalidator.Stats(),
	})
}

// PurgeExpiredCaches handles POST /api/admin/cache/purge
// Drops expired entries that lazy expiry has not collected yet.
func (h *Handler) PurgeExpiredCaches(c *gin.Context) {
	removed := h.Invalidator.PurgeExpired()
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Expired cache entries purged",
		"removed": removed,
		"stats":   h.Invalidator.Stats(),
	})
}
