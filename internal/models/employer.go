package models

import "time"

// Employer is the company profile of a user with the employer role.
// ID is the user id from the token.
type Employer struct {
	ID          string    `json:"id" gorm:"primaryKey"`
	CompanyName string    `json:"companyName" gorm:"not null"`
	Industry    string    `json:"industry" gorm:"index"`
	Location    string    `json:"location"`
	Website     string    `json:"website"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// TableName specifies the table name for Employer Model
func (Employer) TableName() string {
	return "employers"
}
