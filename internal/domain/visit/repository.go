package visit

import (
	"context"
	"time"

	"github.com/BruksfildServices01/aklinic/internal/models"
)

type Repository interface {
	// -------- Transaction --------
	InTx(
		ctx context.Context,
		fn func(tx Repository) error,
	) error

	// -------- Queue --------
	NextQueueNumber(ctx context.Context) (int, error)
	PeekQueueNumber(ctx context.Context) (int, error)

	// -------- Reference data --------
	GetService(ctx context.Context, id uint) (*models.Service, error)
	GetDoctor(ctx context.Context, id uint) (*models.Doctor, error)
	GetDoctorByUserID(ctx context.Context, userID uint) (*models.Doctor, error)

	// -------- Patient --------
	UpsertPatient(
		ctx context.Context,
		fullName string,
		phone string,
	) (*models.Patient, error)

	FindPatientByPhone(
		ctx context.Context,
		phone string,
	) (*models.Patient, error)

	// -------- Visit (create / update) --------
	CreateVisit(ctx context.Context, v *models.Visit) error
	CreatePayment(ctx context.Context, p *models.Payment) error

	GetVisit(ctx context.Context, id uint) (*models.Visit, error)

	GetVisitForDoctor(
		ctx context.Context,
		visitID uint,
		doctorID uint,
	) (*models.Visit, error)

	UpdateVisit(ctx context.Context, v *models.Visit) error

	SetPaymentStatus(
		ctx context.Context,
		visitID uint,
		status PaymentStatus,
	) (*models.Payment, error)

	// -------- Listings --------
	ListVisitsBetween(
		ctx context.Context,
		start time.Time,
		end time.Time,
	) ([]models.Visit, error)

	ListAllVisits(ctx context.Context) ([]models.Visit, error)

	ListDoctorVisitsBetween(
		ctx context.Context,
		doctorID uint,
		start time.Time,
		end time.Time,
	) ([]models.Visit, error)

	ListFollowUps(
		ctx context.Context,
		doctorID uint,
		from time.Time,
	) ([]models.Visit, error)

	ListFollowUpsBetween(
		ctx context.Context,
		start time.Time,
		end time.Time,
	) ([]models.Visit, error)

	// -------- Analytics --------
	Summarize(
		ctx context.Context,
		start time.Time,
		end time.Time,
	) (*DaySummary, error)
}
