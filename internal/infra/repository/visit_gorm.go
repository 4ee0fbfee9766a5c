package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/BruksfildServices01/aklinic/internal/domain/visit"
	"github.com/BruksfildServices01/aklinic/internal/models"
)

const visitQueueCounter = "visits"

type VisitGormRepository struct {
	db *gorm.DB
}

func NewVisitGormRepository(db *gorm.DB) *VisitGormRepository {
	return &VisitGormRepository{db: db}
}

// --------------------------------------------------
// Transaction
// --------------------------------------------------

func (r *VisitGormRepository) InTx(
	ctx context.Context,
	fn func(tx domain.Repository) error,
) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&VisitGormRepository{db: tx})
	})
}

// --------------------------------------------------
// Queue
// --------------------------------------------------

// NextQueueNumber must run inside InTx. The UPDATE holds the counter row
// lock until the surrounding transaction commits, so concurrent creators
// serialize on it.
func (r *VisitGormRepository) NextQueueNumber(ctx context.Context) (int, error) {
	db := r.db.WithContext(ctx)

	bumped, err := r.bumpCounter(db)
	if err != nil {
		return 0, err
	}

	if !bumped {
		var max int
		if err := db.Model(&models.Visit{}).
			Select("COALESCE(MAX(queue_number), 0)").
			Scan(&max).Error; err != nil {
			return 0, err
		}

		if err := db.Clauses(clause.OnConflict{DoNothing: true}).
			Create(&models.QueueCounter{Name: visitQueueCounter, Value: max}).Error; err != nil {
			return 0, err
		}

		if bumped, err = r.bumpCounter(db); err != nil {
			return 0, err
		}
		if !bumped {
			return 0, errors.New("queue counter missing after bootstrap")
		}
	}

	var counter models.QueueCounter
	if err := db.Where("name = ?", visitQueueCounter).First(&counter).Error; err != nil {
		return 0, err
	}

	return counter.Value, nil
}

func (r *VisitGormRepository) bumpCounter(db *gorm.DB) (bool, error) {
	res := db.Model(&models.QueueCounter{}).
		Where("name = ?", visitQueueCounter).
		Update("value", gorm.Expr("value + 1"))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// PeekQueueNumber is the number the next visit would get. Display only.
func (r *VisitGormRepository) PeekQueueNumber(ctx context.Context) (int, error) {
	db := r.db.WithContext(ctx)

	var counter models.QueueCounter
	err := db.Where("name = ?", visitQueueCounter).First(&counter).Error
	if err == nil {
		return counter.Value + 1, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, err
	}

	var max int
	if err := db.Model(&models.Visit{}).
		Select("COALESCE(MAX(queue_number), 0)").
		Scan(&max).Error; err != nil {
		return 0, err
	}

	return max + 1, nil
}

// --------------------------------------------------
// Reference data
// --------------------------------------------------

func (r *VisitGormRepository) GetService(
	ctx context.Context,
	id uint,
) (*models.Service, error) {

	var svc models.Service
	if err := r.db.WithContext(ctx).First(&svc, id).Error; err != nil {
		return nil, err
	}
	return &svc, nil
}

func (r *VisitGormRepository) GetDoctor(
	ctx context.Context,
	id uint,
) (*models.Doctor, error) {

	var doc models.Doctor
	if err := r.db.WithContext(ctx).First(&doc, id).Error; err != nil {
		return nil, err
	}
	return &doc, nil
}

func (r *VisitGormRepository) GetDoctorByUserID(
	ctx context.Context,
	userID uint,
) (*models.Doctor, error) {

	var doc models.Doctor
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&doc).Error; err != nil {
		return nil, err
	}
	return &doc, nil
}

// --------------------------------------------------
// Patient
// --------------------------------------------------

// UpsertPatient keys on phone and refreshes the stored name.
func (r *VisitGormRepository) UpsertPatient(
	ctx context.Context,
	fullName string,
	phone string,
) (*models.Patient, error) {

	db := r.db.WithContext(ctx)

	p := models.Patient{FullName: fullName, Phone: phone}
	if err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "phone"}},
		DoUpdates: clause.AssignmentColumns([]string{"full_name", "updated_at"}),
	}).Create(&p).Error; err != nil {
		return nil, err
	}

	var stored models.Patient
	if err := db.Where("phone = ?", phone).First(&stored).Error; err != nil {
		return nil, err
	}
	return &stored, nil
}

func (r *VisitGormRepository) FindPatientByPhone(
	ctx context.Context,
	phone string,
) (*models.Patient, error) {

	var p models.Patient
	if err := r.db.WithContext(ctx).
		Preload("Visits", func(db *gorm.DB) *gorm.DB {
			return db.Order("visits.created_at DESC")
		}).
		Preload("Visits.Doctor").
		Preload("Visits.Service").
		Preload("Visits.Payment").
		Where("phone = ?", phone).
		First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// --------------------------------------------------
// Visit
// --------------------------------------------------

func (r *VisitGormRepository) CreateVisit(
	ctx context.Context,
	v *models.Visit,
) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(v).Error
}

func (r *VisitGormRepository) CreatePayment(
	ctx context.Context,
	p *models.Payment,
) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *VisitGormRepository) GetVisit(
	ctx context.Context,
	id uint,
) (*models.Visit, error) {

	var v models.Visit
	if err := r.withVisitRelations(r.db.WithContext(ctx)).
		First(&v, id).Error; err != nil {
		return nil, err
	}
	return &v, nil
}

// GetVisitForDoctor scopes the lookup by both ids so a mismatched pair
// behaves like a missing row.
func (r *VisitGormRepository) GetVisitForDoctor(
	ctx context.Context,
	visitID uint,
	doctorID uint,
) (*models.Visit, error) {

	var v models.Visit
	if err := r.withVisitRelations(r.db.WithContext(ctx)).
		Where("id = ? AND doctor_id = ?", visitID, doctorID).
		First(&v).Error; err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *VisitGormRepository) UpdateVisit(
	ctx context.Context,
	v *models.Visit,
) error {
	return r.db.WithContext(ctx).
		Model(v).
		Omit(clause.Associations).
		Select("status", "diagnosis", "treatment_notes", "follow_up_date", "updated_at").
		Updates(v).Error
}

func (r *VisitGormRepository) SetPaymentStatus(
	ctx context.Context,
	visitID uint,
	status domain.PaymentStatus,
) (*models.Payment, error) {

	db := r.db.WithContext(ctx)

	var p models.Payment
	if err := db.Where("visit_id = ?", visitID).First(&p).Error; err != nil {
		return nil, err
	}

	if err := db.Model(&p).Update("status", string(status)).Error; err != nil {
		return nil, err
	}

	return &p, nil
}

// --------------------------------------------------
// Listings
// --------------------------------------------------

func (r *VisitGormRepository) ListVisitsBetween(
	ctx context.Context,
	start time.Time,
	end time.Time,
) ([]models.Visit, error) {

	var visits []models.Visit
	err := r.withVisitRelations(r.db.WithContext(ctx)).
		Where("created_at >= ? AND created_at < ?", start.UTC(), end.UTC()).
		Order("queue_number ASC").
		Find(&visits).Error

	if err != nil {
		return nil, err
	}
	return visits, nil
}

func (r *VisitGormRepository) ListAllVisits(ctx context.Context) ([]models.Visit, error) {
	var visits []models.Visit
	err := r.withVisitRelations(r.db.WithContext(ctx)).
		Order("created_at DESC").
		Find(&visits).Error

	if err != nil {
		return nil, err
	}
	return visits, nil
}

func (r *VisitGormRepository) ListDoctorVisitsBetween(
	ctx context.Context,
	doctorID uint,
	start time.Time,
	end time.Time,
) ([]models.Visit, error) {

	var visits []models.Visit
	err := r.withVisitRelations(r.db.WithContext(ctx)).
		Where(
			"doctor_id = ? AND created_at >= ? AND created_at < ?",
			doctorID,
			start.UTC(),
			end.UTC(),
		).
		Order("queue_number ASC").
		Find(&visits).Error

	if err != nil {
		return nil, err
	}
	return visits, nil
}

func (r *VisitGormRepository) ListFollowUps(
	ctx context.Context,
	doctorID uint,
	from time.Time,
) ([]models.Visit, error) {

	var visits []models.Visit
	err := r.db.WithContext(ctx).
		Preload("Patient").
		Where(
			"doctor_id = ? AND follow_up_date IS NOT NULL AND follow_up_date >= ?",
			doctorID,
			from.UTC(),
		).
		Order("follow_up_date ASC").
		Find(&visits).Error

	if err != nil {
		return nil, err
	}
	return visits, nil
}

func (r *VisitGormRepository) ListFollowUpsBetween(
	ctx context.Context,
	start time.Time,
	end time.Time,
) ([]models.Visit, error) {

	var visits []models.Visit
	err := r.db.WithContext(ctx).
		Preload("Patient").
		Preload("Doctor").
		Where(
			"follow_up_date >= ? AND follow_up_date < ?",
			start.UTC(),
			end.UTC(),
		).
		Order("follow_up_date ASC").
		Find(&visits).Error

	if err != nil {
		return nil, err
	}
	return visits, nil
}

// --------------------------------------------------
// Analytics
// --------------------------------------------------

func (r *VisitGormRepository) Summarize(
	ctx context.Context,
	start time.Time,
	end time.Time,
) (*domain.DaySummary, error) {

	db := r.db.WithContext(ctx)
	from, to := start.UTC(), end.UTC()
	out := &domain.DaySummary{}

	if err := db.Model(&models.Visit{}).
		Where("created_at >= ? AND created_at < ?", from, to).
		Distinct("patient_id").
		Count(&out.PatientsToday).Error; err != nil {
		return nil, err
	}

	if err := db.Model(&models.Visit{}).
		Where("created_at >= ? AND created_at < ?", from, to).
		Count(&out.VisitsToday).Error; err != nil {
		return nil, err
	}

	if err := db.Model(&models.Payment{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("status = ? AND created_at >= ? AND created_at < ?", string(domain.PaymentPaid), from, to).
		Scan(&out.RevenueToday).Error; err != nil {
		return nil, err
	}

	if err := db.Model(&models.Doctor{}).Count(&out.DoctorsCount).Error; err != nil {
		return nil, err
	}

	if err := db.Model(&models.Visit{}).
		Select("doctors.id AS id, doctors.name AS name, COUNT(*) AS total").
		Joins("JOIN doctors ON doctors.id = visits.doctor_id").
		Where("visits.created_at >= ? AND visits.created_at < ?", from, to).
		Group("doctors.id, doctors.name").
		Order("total DESC, doctors.id ASC").
		Limit(5).
		Scan(&out.TopDoctors).Error; err != nil {
		return nil, err
	}

	if err := db.Model(&models.Visit{}).
		Select("services.id AS id, services.name AS name, COUNT(*) AS total").
		Joins("JOIN services ON services.id = visits.service_id").
		Where("visits.created_at >= ? AND visits.created_at < ?", from, to).
		Group("services.id, services.name").
		Order("total DESC, services.id ASC").
		Limit(5).
		Scan(&out.TopServices).Error; err != nil {
		return nil, err
	}

	return out, nil
}

func (r *VisitGormRepository) withVisitRelations(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Patient").
		Preload("Doctor").
		Preload("Service").
		Preload("Payment")
}

// Compile-time check
var _ domain.Repository = (*VisitGormRepository)(nil)
