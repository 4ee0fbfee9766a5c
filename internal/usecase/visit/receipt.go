package visit

import (
	"context"

	"github.com/BruksfildServices01/aklinic/internal/audit"
	domain "github.com/BruksfildServices01/aklinic/internal/domain/visit"
	"github.com/BruksfildServices01/aklinic/internal/models"
	"github.com/BruksfildServices01/aklinic/internal/receipts"
)

type Receipts struct {
	repo     domain.Repository
	audit    audit.Recorder
	calendar Calendar
}

func NewReceipts(
	repo domain.Repository,
	audit audit.Recorder,
	calendar Calendar,
) *Receipts {
	return &Receipts{
		repo:     repo,
		audit:    audit,
		calendar: calendar,
	}
}

func (uc *Receipts) Get(ctx context.Context, visitID uint) (*receipts.Receipt, error) {
	v, err := uc.repo.GetVisit(ctx, visitID)
	if err != nil {
		return nil, notFoundAs(err, "visit_not_found")
	}
	r := receipts.FromVisit(v, uc.calendar.Loc)
	return &r, nil
}

func (uc *Receipts) SetPaymentStatus(
	ctx context.Context,
	actorID uint,
	visitID uint,
	status domain.PaymentStatus,
) (*models.Payment, error) {

	p, err := uc.repo.SetPaymentStatus(ctx, visitID, status)
	if err != nil {
		return nil, notFoundAs(err, "payment_not_found")
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   &actorID,
		Action:   "payment_updated",
		Entity:   "visit",
		EntityID: &visitID,
		Metadata: map[string]any{"status": p.Status},
	})

	return p, nil
}
