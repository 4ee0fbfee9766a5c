package models

import "time"

type Visit struct {
	ID uint `gorm:"primaryKey" json:"id"`

	PatientID uint     `gorm:"not null;index" json:"patient_id"`
	Patient   *Patient `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"patient,omitempty"`

	DoctorID *uint   `gorm:"index" json:"doctor_id"`
	Doctor   *Doctor `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"doctor,omitempty"`

	ServiceID *uint    `gorm:"index" json:"service_id"`
	Service   *Service `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"service,omitempty"`

	QueueNumber  int        `gorm:"uniqueIndex;not null" json:"queue_number"`
	Status       string     `gorm:"size:20;not null;default:'WAITING'" json:"status"`
	BookedOnline bool       `gorm:"not null;default:false" json:"booked_online"`
	ScheduledAt  *time.Time `json:"scheduled_at"`

	Diagnosis      *string    `gorm:"type:text" json:"diagnosis"`
	TreatmentNotes *string    `gorm:"type:text" json:"treatment_notes"`
	FollowUpDate   *time.Time `gorm:"index" json:"follow_up_date"`

	Payment *Payment `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"payment,omitempty"`

	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
