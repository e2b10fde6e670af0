package handlers

import (
	"errors"
	"net/http"
	"strings"

	"job-portal-api/internal/cache"
	"job-portal-api/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CreateJobRequest represents the request payload for creating a job
type CreateJobRequest struct {
	Title       string         `json:"title" binding:"required"`
	Description string         `json:"description" binding:"required"`
	Location    string         `json:"location" binding:"required"`
	JobType     models.JobType `json:"jobType"`
	Salary      string         `json:"salary"`
}

// UpdateJobRequest represents the request payload for updating a job
type UpdateJobRequest struct {
	Title       *string           `json:"title"`
	Description *string           `json:"description"`
	Location    *string           `json:"location"`
	JobType     *models.JobType   `json:"jobType"`
	Salary      *string           `json:"salary"`
	Status      *models.JobStatus `json:"status"`
}

/*
*
GetJobs handles GET /api/jobs
Returns open jobs, newest first.
Optional query params: location, jobType, employerId, q (title search), page, limit, sort.
*/
func (h *Handler) GetJobs(c *gin.Context) {
	page, limit := parsePage(c, 10)
	sortParam := strings.ToLower(c.DefaultQuery("sort", "desc"))
	if sortParam != "asc" {
		sortParam = "desc"
	}

	filters := map[string]any{"page": page, "limit": limit, "sort": sortParam}
	for _, name := range []string{"location", "jobType", "employerId", "q"} {
		if v := strings.TrimSpace(c.Query(name)); v != "" {
			filters[name] = v
		}
	}

	h.readThrough(c, cache.Key("jobs", filters), h.TTL.JobListTTL, func() (any, bool) {
		query := h.DB.Model(&models.Job{}).Where("status = ?", models.JobStatusOpen)
		if v, ok := filters["location"]; ok {
			query = query.Where("location = ?", v)
		}
		if v, ok := filters["jobType"]; ok {
			query = query.Where("job_type = ?", v)
		}
		if v, ok := filters["employerId"]; ok {
			query = query.Where("employer_id = ?", v)
		}
		if v, ok := filters["q"]; ok {
			query = query.Where("LOWER(title) LIKE ?", "%"+strings.ToLower(v.(string))+"%")
		}

		var total int64
		if err := query.Count(&total).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count jobs"})
			return nil, false
		}

		var jobs []models.Job
		err := query.Session(&gorm.Session{}).
			Order("created_at " + sortParam).
			Limit(limit).
			Offset((page - 1) * limit).
			Find(&jobs).Error
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch jobs"})
			return nil, false
		}

		return gin.H{
			"jobs":  jobs,
			"count": len(jobs),
			"total": total,
			"page":  page,
			"limit": limit,
			"sort":  sortParam,
		}, true
	})
}

// GetJobByID handles GET /api/jobs/:id
func (h *Handler) GetJobByID(c *gin.Context) {
	jobID := c.Param("id")
	h.readThrough(c, cache.JobKey(jobID), h.TTL.JobDetailTTL, func() (any, bool) {
		var job models.Job
		if err := h.DB.Where("id = ?", jobID).First(&job).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Job not found"})
			} else {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch job"})
			}
			return nil, false
		}
		return job, true
	})
}

/*
*
CreateJob handles POST /api/jobs
Creates a job owned by the authenticated employer
*/
func (h *Handler) CreateJob(c *gin.Context) {
	employerID, ok := currentUser(c)
	if !ok {
		return
	}

	var req CreateJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	jobType := req.JobType
	if jobType == "" {
		jobType = models.JobTypeFullTime
	}
	if !jobType.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid jobType"})
		return
	}

	job := models.Job{
		ID:          uuid.NewString(),
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		Location:    strings.TrimSpace(req.Location),
		JobType:     jobType,
		Salary:      req.Salary,
		Status:      models.JobStatusOpen,
		EmployerID:  employerID,
	}
	if err := h.DB.Create(&job).Error; err != nil {
		h.Log.Error().Err(err).Msg("create job")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create job"})
		return
	}

	h.Invalidator.ClearJobCaches()
	h.Invalidator.ClearEmployerCaches(employerID)

	c.JSON(http.StatusCreated, job)
}

// UpdateJob handles PUT /api/jobs/:id
// Updates a job owned by the authenticated employer
func (h *Handler) UpdateJob(c *gin.Context) {
	employerID, ok := currentUser(c)
	if !ok {
		return
	}

	job, ok := h.ownedJob(c, employerID)
	if !ok {
		return
	}

	var req UpdateJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Title != nil {
		job.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		job.Description = *req.Description
	}
	if req.Location != nil {
		job.Location = strings.TrimSpace(*req.Location)
	}
	if req.JobType != nil {
		if !req.JobType.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid jobType"})
			return
		}
		job.JobType = *req.JobType
	}
	if req.Salary != nil {
		job.Salary = *req.Salary
	}
	if req.Status != nil {
		if *req.Status != models.JobStatusOpen && *req.Status != models.JobStatusClosed {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status"})
			return
		}
		job.Status = *req.Status
	}

	if err := h.DB.Save(&job).Error; err != nil {
		h.Log.Error().Err(err).Str("job_id", job.ID).Msg("update job")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update job"})
		return
	}

	h.Invalidator.ClearJobCache(job.ID)
	h.Invalidator.ClearJobCaches()
	h.Invalidator.ClearEmployerCaches(employerID)

	c.JSON(http.StatusOK, job)
}

// DeleteJob handles DELETE /api/jobs/:id
// Deletes a job owned by the authenticated employer, with its applications
func (h *Handler) DeleteJob(c *gin.Context) {
	employerID, ok := currentUser(c)
	if !ok {
		return
	}

	job, ok := h.ownedJob(c, employerID)
	if !ok {
		return
	}

	err := h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("job_id = ?", job.ID).Delete(&models.Application{}).Error; err != nil {
			return err
		}
		return tx.Delete(&job).Error
	})
	if err != nil {
		h.Log.Error().Err(err).Str("job_id", job.ID).Msg("delete job")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete job"})
		return
	}

	h.Invalidator.ClearJobCache(job.ID)
	h.Invalidator.ClearJobCaches()
	h.Invalidator.ClearEmployerCaches(employerID)

	c.JSON(http.StatusOK, gin.H{
		"message": "Job deleted successfully",
		"id":      job.ID,
	})
}

// ownedJob loads :id when it belongs to employerID, writing 404/500 otherwise.
func (h *Handler) ownedJob(c *gin.Context, employerID string) (models.Job, bool) {
	var job models.Job
	err := h.DB.Where("id = ? AND employer_id = ?", c.Param("id"), employerID).First(&job).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Job not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch job"})
		}
		return job, false
	}
	return job, true
}
