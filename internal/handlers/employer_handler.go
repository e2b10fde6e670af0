package handlers

import (
	"errors"
	"net/http"
	"strings"

	"job-portal-api/internal/cache"
	"job-portal-api/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// UpdateEmployerRequest represents the employer profile payload
type UpdateEmployerRequest struct {
	CompanyName string `json:"companyName" binding:"required"`
	Industry    string `json:"industry"`
	Location    string `json:"location"`
	Website     string `json:"website"`
	Description string `json:"description"`
}

// EmployerSummary is an employer listing row
type EmployerSummary struct {
	models.Employer
	OpenJobs int64 `json:"openJobs"`
}

// GetEmployers handles GET /api/employers
// Optional query params: industry, location, page, limit.
func (h *Handler) GetEmployers(c *gin.Context) {
	page, limit := parsePage(c, 20)
	filters := map[string]any{"page": page, "limit": limit}
	for _, name := range []string{"industry", "location"} {
		if v := strings.TrimSpace(c.Query(name)); v != "" {
			filters[name] = v
		}
	}

	h.readThrough(c, cache.Key("employers", filters), h.TTL.EmployerTTL, func() (any, bool) {
		query := h.DB.Model(&models.Employer{})
		if v, ok := filters["industry"]; ok {
			query = query.Where("industry = ?", v)
		}
		if v, ok := filters["location"]; ok {
			query = query.Where("location = ?", v)
		}

		var total int64
		if err := query.Count(&total).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count employers"})
			return nil, false
		}

		var employers []models.Employer
		err := query.Session(&gorm.Session{}).
			Order("company_name asc").
			Limit(limit).
			Offset((page - 1) * limit).
			Find(&employers).Error
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch employers"})
			return nil, false
		}

		openJobs, err := h.openJobCounts(employers)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count open jobs"})
			return nil, false
		}

		rows := make([]EmployerSummary, 0, len(employers))
		for _, e := range employers {
			rows = append(rows, EmployerSummary{Employer: e, OpenJobs: openJobs[e.ID]})
		}
		return gin.H{
			"employers": rows,
			"count":     len(rows),
			"total":     total,
			"page":      page,
			"limit":     limit,
		}, true
	})
}

// GetEmployerByID handles GET /api/employers/:id
// Returns the profile with the employer's open jobs
func (h *Handler) GetEmployerByID(c *gin.Context) {
	employerID := c.Param("id")
	h.readThrough(c, cache.EmployerKey(employerID), h.TTL.EmployerTTL, func() (any, bool) {
		var employer models.Employer
		if err := h.DB.Where("id = ?", employerID).First(&employer).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Employer not found"})
			} else {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch employer"})
			}
			return nil, false
		}

		var jobs []models.Job
		err := h.DB.Where("employer_id = ? AND status = ?", employerID, models.JobStatusOpen).
			Order("created_at desc").
			Find(&jobs).Error
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch jobs"})
			return nil, false
		}

		return gin.H{
			"employer": employer,
			"jobs":     jobs,
		}, true
	})
}

// UpdateEmployerProfile handles PUT /api/employer/profile
// Creates or updates the authenticated employer's profile
func (h *Handler) UpdateEmployerProfile(c *gin.Context) {
	employerID, ok := currentUser(c)
	if !ok {
		return
	}

	var req UpdateEmployerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var employer models.Employer
	exists := true
	if err := h.DB.Where("id = ?", employerID).First(&employer).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch employer"})
			return
		}
		exists = false
		employer.ID = employerID
	}
	employer.CompanyName = strings.TrimSpace(req.CompanyName)
	employer.Industry = req.Industry
	employer.Location = req.Location
	employer.Website = req.Website
	employer.Description = req.Description

	var err error
	if exists {
		err = h.DB.Save(&employer).Error
	} else {
		err = h.DB.Create(&employer).Error
	}
	if err != nil {
		h.Log.Error().Err(err).Str("employer_id", employerID).Msg("save employer")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save employer"})
		return
	}

	h.Invalidator.ClearEmployerCaches(employerID)

	c.JSON(http.StatusOK, employer)
}

func (h *Handler) openJobCounts(employers []models.Employer) (map[string]int64, error) {
	counts := make(map[string]int64, len(employers))
	if len(employers) == 0 {
		return counts, nil
	}
	ids := make([]string, 0, len(employers))
	for _, e := range employers {
		ids = append(ids, e.ID)
	}

	type row struct {
		EmployerID string
		Count      int64
	}
	var rows []row
	err := h.DB.Model(&models.Job{}).
		Select("employer_id, COUNT(*) as count").
		Where("employer_id IN ? AND status = ?", ids, models.JobStatusOpen).
		Group("employer_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, r := range rows {
		counts[r.EmployerID] = r.Count
	}
	return counts, nil
}
