package handlers

import (
	"errors"
	"net/http"

	"job-portal-api/internal/cache"
	"job-portal-api/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ApplyRequest represents a candidate's application payload
type ApplyRequest struct {
	CoverLetter string `json:"coverLetter"`
}

// UpdateApplicationStatusRequest represents a minimal request to change status
type UpdateApplicationStatusRequest struct {
	Status models.ApplicationStatus `json:"status" binding:"required"`
}

// ApplyToJob handles POST /api/jobs/:id/apply
func (h *Handler) ApplyToJob(c *gin.Context) {
	candidateID, ok := currentUser(c)
	if !ok {
		return
	}

	var req ApplyRequest
	// an empty body is a valid application without a cover letter
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	var job models.Job
	if err := h.DB.Where("id = ?", c.Param("id")).First(&job).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Job not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch job"})
		}
		return
	}
	if job.Status != models.JobStatusOpen {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Job is not accepting applications"})
		return
	}

	var existing int64
	if err := h.DB.Model(&models.Application{}).
		Where("job_id = ? AND candidate_id = ?", job.ID, candidateID).
		Count(&existing).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check applications"})
		return
	}
	if existing > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "Already applied to this job"})
		return
	}

	application := models.Application{
		ID:          uuid.NewString(),
		JobID:       job.ID,
		CandidateID: candidateID,
		CoverLetter: req.CoverLetter,
		Status:      models.ApplicationApplied,
	}
	if err := h.DB.Create(&application).Error; err != nil {
		h.Log.Error().Err(err).Str("job_id", job.ID).Msg("create application")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to apply"})
		return
	}

	h.Invalidator.ClearCandidateApplicationCaches()

	application.Job = &job
	c.JSON(http.StatusCreated, application)
}

// GetCandidateApplications handles GET /api/candidate/applications
// Returns the authenticated candidate's applications with their jobs. The
// route is wrapped by the request cache, so this runs only on a miss.
func (h *Handler) GetCandidateApplications(c *gin.Context) {
	candidateID, ok := currentUser(c)
	if !ok {
		return
	}

	var applications []models.Application
	err := h.DB.Preload("Job").
		Where("candidate_id = ?", candidateID).
		Order("created_at desc").
		Find(&applications).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch applications"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"applications": applications,
		"count":        len(applications),
	})
}

// GetJobApplications handles GET /api/employer/jobs/:id/applications
// Lists applications to a job owned by the authenticated employer
func (h *Handler) GetJobApplications(c *gin.Context) {
	employerID, ok := currentUser(c)
	if !ok {
		return
	}
	job, ok := h.ownedJob(c, employerID)
	if !ok {
		return
	}

	key := cache.Key("applications", map[string]any{"jobId": job.ID})
	h.readThrough(c, key, h.TTL.ApplicationsTTL, func() (any, bool) {
		var applications []models.Application
		if err := h.DB.Where("job_id = ?", job.ID).Order("created_at asc").Find(&applications).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch applications"})
			return nil, false
		}
		return gin.H{
			"job":          job,
			"applications": applications,
			"count":        len(applications),
		}, true
	})
}

// UpdateApplicationStatus handles PATCH /api/employer/applications/:id/status
// Only the employer owning the job may move an application
func (h *Handler) UpdateApplicationStatus(c *gin.Context) {
	employerID, ok := currentUser(c)
	if !ok {
		return
	}

	var req UpdateApplicationStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	switch req.Status {
	case models.ApplicationApplied, models.ApplicationShortlisted, models.ApplicationRejected, models.ApplicationHired:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status"})
		return
	}

	var application models.Application
	err := h.DB.Joins("Job").
		Where("applications.id = ? AND Job.employer_id = ?", c.Param("id"), employerID).
		First(&application).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Application not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch application"})
		}
		return
	}

	// Explicitly update only the status column, leaving the joined job alone
	application.Status = req.Status
	err = h.DB.Model(&models.Application{}).
		Where("id = ?", application.ID).
		Update("status", req.Status).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update status"})
		return
	}

	h.Invalidator.ClearCandidateApplicationCaches()

	c.JSON(http.StatusOK, application)
}
