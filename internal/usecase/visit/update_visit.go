package visit

import (
	"context"
	"time"

	"github.com/BruksfildServices01/aklinic/internal/audit"
	domain "github.com/BruksfildServices01/aklinic/internal/domain/visit"
	"github.com/BruksfildServices01/aklinic/internal/models"
	"github.com/BruksfildServices01/aklinic/internal/notify"
)

type UpdateVisitInput struct {
	DoctorUserID uint
	VisitID      uint
	Patch        domain.Patch
}

type UpdateVisit struct {
	repo     domain.Repository
	notifier notify.Notifier
	audit    audit.Recorder
	calendar Calendar
}

func NewUpdateVisit(
	repo domain.Repository,
	notifier notify.Notifier,
	audit audit.Recorder,
	calendar Calendar,
) *UpdateVisit {
	return &UpdateVisit{
		repo:     repo,
		notifier: notifier,
		audit:    audit,
		calendar: calendar,
	}
}

// Execute only touches visits assigned to the caller's doctor profile.
func (uc *UpdateVisit) Execute(
	ctx context.Context,
	in UpdateVisitInput,
) (*models.Visit, error) {

	doctor, err := uc.repo.GetDoctorByUserID(ctx, in.DoctorUserID)
	if err != nil {
		return nil, notFoundAs(err, "doctor_profile_not_found")
	}

	v, err := uc.repo.GetVisitForDoctor(ctx, in.VisitID, doctor.ID)
	if err != nil {
		return nil, notFoundAs(err, "visit_not_found")
	}

	patch := in.Patch
	if patch.FollowUpDate != nil {
		d := patch.FollowUpDate.UTC()
		patch.FollowUpDate = &d
	}

	previousFollowUp := v.FollowUpDate

	if err := domain.Apply(v, patch); err != nil {
		return nil, err
	}

	if err := uc.repo.UpdateVisit(ctx, v); err != nil {
		return nil, err
	}

	if followUpChanged(previousFollowUp, patch.FollowUpDate) {
		uc.notifier.Notify(notify.FollowUpScheduled(v, doctor, uc.calendar.Loc))
	}

	meta := map[string]any{"status": v.Status}
	if v.FollowUpDate != nil {
		meta["follow_up_date"] = v.FollowUpDate.In(uc.calendar.Loc).Format(time.DateOnly)
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   &in.DoctorUserID,
		Action:   "visit_updated",
		Entity:   "visit",
		EntityID: &v.ID,
		Metadata: meta,
	})

	return v, nil
}

// followUpChanged is true only when the patch sets a date the visit did not
// already have. The doctor form re-posts the stored date on every save.
func followUpChanged(before, after *time.Time) bool {
	if after == nil {
		return false
	}
	return before == nil || !before.Equal(*after)
}
