package models

import "time"

// ApplicationStatus tracks a candidate's application through hiring
type ApplicationStatus string

const (
	ApplicationApplied     ApplicationStatus = "applied"
	ApplicationShortlisted ApplicationStatus = "shortlisted"
	ApplicationRejected    ApplicationStatus = "rejected"
	ApplicationHired       ApplicationStatus = "hired"
)

// Application links a candidate to a job
type Application struct {
	ID          string            `json:"id" gorm:"primaryKey"`
	JobID       string            `json:"jobId" gorm:"column:job_id;not null;uniqueIndex:idx_job_candidate"`
	CandidateID string            `json:"candidateId" gorm:"column:candidate_id;not null;uniqueIndex:idx_job_candidate;index"`
	CoverLetter string            `json:"coverLetter"`
	Status      ApplicationStatus `json:"status" gorm:"not null;default:'applied'"`
	Job         *Job              `json:"job,omitempty" gorm:"foreignKey:JobID"`
	CreatedAt   time.Time         `json:"createdAt"`
	UpdatedAt   time.Time         `json:"updatedAt"`
}

// TableName specifies the table name for Application Model
func (Application) TableName() string {
	return "applications"
}
