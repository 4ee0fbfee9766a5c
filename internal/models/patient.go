package models

import "time"

// Patient has no login; the phone number is the natural key.
type Patient struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	FullName string `gorm:"size:150;not null" json:"full_name"`
	Phone    string `gorm:"size:30;uniqueIndex;not null" json:"phone"`

	Visits []Visit `json:"visits,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
