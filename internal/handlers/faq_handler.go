package handlers

import (
	"net/http"
	"strings"

	"job-portal-api/internal/cache"
	"job-portal-api/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CreateFAQRequest represents the request payload for creating a FAQ entry
type CreateFAQRequest struct {
	Question string `json:"question" binding:"required"`
	Answer   string `json:"answer" binding:"required"`
	Position int    `json:"position"`
}

// GetFAQs handles GET /api/faqs
func (h *Handler) GetFAQs(c *gin.Context) {
	h.readThrough(c, cache.FAQKey, h.TTL.FAQTTL, func() (any, bool) {
		var faqs []models.FAQ
		if err := h.DB.Order("position asc, created_at asc").Find(&faqs).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch faqs"})
			return nil, false
		}
		return gin.H{"faqs": faqs, "count": len(faqs)}, true
	})
}

// SearchFAQs handles GET /api/faqs/search?q=
// The route is wrapped by the request cache.
func (h *Handler) SearchFAQs(c *gin.Context) {
	q := strings.ToLower(strings.TrimSpace(c.Query("q")))
	if q == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "q is required"})
		return
	}

	var faqs []models.FAQ
	err := h.DB.Where("LOWER(question) LIKE ? OR LOWER(answer) LIKE ?", "%"+q+"%", "%"+q+"%").
		Order("position asc").
		Find(&faqs).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to search faqs"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"faqs": faqs, "count": len(faqs), "q": q})
}

// CreateFAQ handles POST /api/admin/faqs
func (h *Handler) CreateFAQ(c *gin.Context) {
	var req CreateFAQRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	faq := models.FAQ{
		ID:       uuid.NewString(),
		Question: strings.TrimSpace(req.Question),
		Answer:   strings.TrimSpace(req.Answer),
		Position: req.Position,
	}
	if err := h.DB.Create(&faq).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create faq"})
		return
	}

	h.Invalidator.ClearFAQCaches()

	c.JSON(http.StatusCreated, faq)
}

// DeleteFAQ handles DELETE /api/admin/faqs/:id
func (h *Handler) DeleteFAQ(c *gin.Context) {
	result := h.DB.Where("id = ?", c.Param("id")).Delete(&models.FAQ{})
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete faq"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "FAQ not found"})
		return
	}

	h.Invalidator.ClearFAQCaches()

	c.JSON(http.StatusOK, gin.H{
		"message": "FAQ deleted successfully",
		"id":      c.Param("id"),
	})
}
