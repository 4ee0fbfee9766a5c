package visit

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/aklinic/internal/audit"
	domain "github.com/BruksfildServices01/aklinic/internal/domain/visit"
	"github.com/BruksfildServices01/aklinic/internal/httperr"
	"github.com/BruksfildServices01/aklinic/internal/metrics"
	"github.com/BruksfildServices01/aklinic/internal/models"
	"github.com/BruksfildServices01/aklinic/internal/notify"
)

// ======================================================
// INPUT
// ======================================================

type CreateVisitInput struct {
	Source  domain.Source
	ActorID *uint

	FullName string
	Phone    string

	ServiceID *uint
	DoctorID  *uint

	// Online bookings only.
	ScheduledAt *time.Time

	// Reception bookings only.
	PaymentStatus domain.PaymentStatus
}

// ======================================================
// USE CASE
// ======================================================

type CreateVisit struct {
	repo     domain.Repository
	notifier notify.Notifier
	audit    audit.Recorder
	metrics  *metrics.Metrics
	calendar Calendar
}

func NewCreateVisit(
	repo domain.Repository,
	notifier notify.Notifier,
	audit audit.Recorder,
	m *metrics.Metrics,
	calendar Calendar,
) *CreateVisit {
	return &CreateVisit{
		repo:     repo,
		notifier: notifier,
		audit:    audit,
		metrics:  m,
		calendar: calendar,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *CreateVisit) Execute(
	ctx context.Context,
	in CreateVisitInput,
) (*models.Visit, error) {

	in.FullName = strings.TrimSpace(in.FullName)
	in.Phone = strings.TrimSpace(in.Phone)

	if err := validateCreate(in); err != nil {
		return nil, err
	}

	var created models.Visit

	err := uc.repo.InTx(ctx, func(tx domain.Repository) error {

		// --------------------------------------------------
		// Reference data
		// --------------------------------------------------
		var service *models.Service
		if in.ServiceID != nil {
			svc, err := tx.GetService(ctx, *in.ServiceID)
			if err != nil {
				return notFoundAs(err, "service_not_found")
			}
			service = svc
		}

		if in.DoctorID != nil {
			if _, err := tx.GetDoctor(ctx, *in.DoctorID); err != nil {
				return notFoundAs(err, "doctor_not_found")
			}
		}

		// --------------------------------------------------
		// Patient (upsert by phone)
		// --------------------------------------------------
		patient, err := tx.UpsertPatient(ctx, in.FullName, in.Phone)
		if err != nil {
			return err
		}

		// --------------------------------------------------
		// Queue number + visit
		// --------------------------------------------------
		queueNumber, err := tx.NextQueueNumber(ctx)
		if err != nil {
			return err
		}

		created = models.Visit{
			PatientID:    patient.ID,
			DoctorID:     in.DoctorID,
			ServiceID:    in.ServiceID,
			QueueNumber:  queueNumber,
			Status:       string(domain.InitialStatus()),
			BookedOnline: in.Source == domain.SourceOnline,
		}
		if in.ScheduledAt != nil {
			at := in.ScheduledAt.UTC()
			created.ScheduledAt = &at
		}

		if err := tx.CreateVisit(ctx, &created); err != nil {
			return err
		}

		// --------------------------------------------------
		// Payment (reception only)
		// --------------------------------------------------
		if in.Source == domain.SourceReception {
			status := in.PaymentStatus
			if status != domain.PaymentPaid {
				status = domain.PaymentUnpaid
			}
			if err := tx.CreatePayment(ctx, &models.Payment{
				VisitID: created.ID,
				Amount:  service.Price,
				Status:  string(status),
			}); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	visit, err := uc.repo.GetVisit(ctx, created.ID)
	if err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// Side effects (after commit)
	// --------------------------------------------------
	uc.metrics.VisitCreated(string(in.Source))

	if in.Source == domain.SourceOnline {
		uc.notifier.Notify(notify.OnlineBooking(visit, uc.calendar.Loc))
	} else {
		uc.notifier.Notify(notify.VisitRegistered(visit))
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   in.ActorID,
		Action:   "visit_created",
		Entity:   "visit",
		EntityID: &visit.ID,
		Metadata: map[string]any{
			"source":       in.Source,
			"queue_number": visit.QueueNumber,
		},
	})

	return visit, nil
}

func validateCreate(in CreateVisitInput) error {
	if in.FullName == "" || in.Phone == "" {
		return httperr.ErrBusiness("missing_required_fields")
	}

	switch in.Source {
	case domain.SourceOnline:
		if in.ScheduledAt == nil {
			return httperr.ErrBusiness("missing_required_fields")
		}
	case domain.SourceReception:
		if in.ServiceID == nil {
			return httperr.ErrBusiness("missing_required_fields")
		}
	default:
		return httperr.ErrBusiness("invalid_source")
	}

	return nil
}

func notFoundAs(err error, code string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return httperr.ErrBusiness(code)
	}
	return err
}
