package models

import "time"

// FAQ is a question and answer shown on the portal's help page
type FAQ struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	Question  string    `json:"question" gorm:"not null"`
	Answer    string    `json:"answer" gorm:"not null"`
	Position  int       `json:"position" gorm:"default:0"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TableName specifies the table name for FAQ Model
func (FAQ) TableName() string {
	return "faqs"
}

// All returns every model for migrations.
func All() []any {
	return []any{&Employer{}, &Job{}, &Application{}, &FAQ{}}
}
