package models

import "time"

// JobType represents the kind of engagement a job offers
type JobType string

const (
	JobTypeFullTime   JobType = "full_time"
	JobTypePartTime   JobType = "part_time"
	JobTypeInternship JobType = "internship"
	JobTypeContract   JobType = "contract"
)

// Valid reports whether t is a known job type.
func (t JobType) Valid() bool {
	switch t {
	case JobTypeFullTime, JobTypePartTime, JobTypeInternship, JobTypeContract:
		return true
	}
	return false
}

// JobStatus represents whether a job accepts applications
type JobStatus string

const (
	JobStatusOpen   JobStatus = "open"
	JobStatusClosed JobStatus = "closed"
)

// Job represents a posting created by an employer
type Job struct {
	ID          string    `json:"id" gorm:"primaryKey"`
	Title       string    `json:"title" gorm:"not null"`
	Description string    `json:"description"`
	Location    string    `json:"location" gorm:"index"`
	JobType     JobType   `json:"jobType" gorm:"column:job_type;index;default:'full_time'"`
	Salary      string    `json:"salary"`
	Status      JobStatus `json:"status" gorm:"not null;default:'open'"`
	EmployerID  string    `json:"employerId" gorm:"column:employer_id;index"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// TableName specifies the table name for Job Model
func (Job) TableName() string {
	return "jobs"
}
