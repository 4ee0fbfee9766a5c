package visit

import (
	"time"

	"github.com/BruksfildServices01/aklinic/internal/models"
)

// Source tells who initiated a visit.
type Source string

const (
	SourceOnline    Source = "online"
	SourceReception Source = "reception"
)

// Patch is a partial doctor update. Nil fields are left untouched.
type Patch struct {
	Diagnosis      *string
	TreatmentNotes *string
	Status         *Status
	FollowUpDate   *time.Time
}

func (p Patch) Empty() bool {
	return p.Diagnosis == nil && p.TreatmentNotes == nil && p.Status == nil && p.FollowUpDate == nil
}

// ===============================
// Domain Actions
// ===============================

// Apply validates the patch against the current visit and mutates it.
func Apply(v *models.Visit, p Patch) error {
	if p.Status != nil {
		if err := CanTransition(Status(v.Status), *p.Status); err != nil {
			return err
		}
		v.Status = string(*p.Status)
	}
	if p.Diagnosis != nil {
		v.Diagnosis = p.Diagnosis
	}
	if p.TreatmentNotes != nil {
		v.TreatmentNotes = p.TreatmentNotes
	}
	if p.FollowUpDate != nil {
		v.FollowUpDate = p.FollowUpDate
	}
	return nil
}
