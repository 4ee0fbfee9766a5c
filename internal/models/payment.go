package models

import "time"

type Payment struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	VisitID uint   `gorm:"uniqueIndex;not null" json:"visit_id"`
	Amount  int    `gorm:"not null" json:"amount"`
	Status  string `gorm:"size:10;not null;default:'UNPAID'" json:"status"`

	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
