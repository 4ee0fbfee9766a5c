package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/aklinic/internal/db/dbtest"
	domain "github.com/BruksfildServices01/aklinic/internal/domain/visit"
	"github.com/BruksfildServices01/aklinic/internal/models"
)

func seedVisit(t *testing.T, db *gorm.DB, v models.Visit) models.Visit {
	t.Helper()
	require.NoError(t, db.Create(&v).Error)
	return v
}

func TestUpsertPatient_KeysOnPhone(t *testing.T) {
	db := dbtest.New(t)
	repo := NewVisitGormRepository(db)
	ctx := context.Background()

	first, err := repo.UpsertPatient(ctx, "Ali Valiyev", "+998901112233")
	require.NoError(t, err)

	second, err := repo.UpsertPatient(ctx, "Ali Valiev", "+998901112233")
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "Ali Valiev", second.FullName)

	var count int64
	db.Model(&models.Patient{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestNextQueueNumber_IncrementsInsideTransactions(t *testing.T) {
	db := dbtest.New(t)
	repo := NewVisitGormRepository(db)
	ctx := context.Background()

	var got []int
	for i := 0; i < 3; i++ {
		err := repo.InTx(ctx, func(tx domain.Repository) error {
			n, err := tx.NextQueueNumber(ctx)
			got = append(got, n)
			return err
		})
		require.NoError(t, err)
	}

	assert.Equal(t, []int{1, 2, 3}, got)

	peek, err := repo.PeekQueueNumber(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, peek)
}

func TestNextQueueNumber_BootstrapsFromExistingVisits(t *testing.T) {
	db := dbtest.New(t)
	repo := NewVisitGormRepository(db)
	ctx := context.Background()

	p, err := repo.UpsertPatient(ctx, "Legacy", "100")
	require.NoError(t, err)
	seedVisit(t, db, models.Visit{PatientID: p.ID, QueueNumber: 41, Status: "WAITING"})

	peek, err := repo.PeekQueueNumber(ctx)
	require.NoError(t, err)
	assert.Equal(t, 42, peek)

	n, err := repo.NextQueueNumber(ctx)
	require.NoError(t, err)
	assert.Equal(t, 42, n)
}

func TestInTx_RollbackReleasesQueueNumber(t *testing.T) {
	db := dbtest.New(t)
	repo := NewVisitGormRepository(db)
	ctx := context.Background()

	boom := errors.New("boom")
	err := repo.InTx(ctx, func(tx domain.Repository) error {
		_, err := tx.NextQueueNumber(ctx)
		require.NoError(t, err)
		return boom
	})
	assert.ErrorIs(t, err, boom)

	n, err := repo.NextQueueNumber(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestGetVisitForDoctor_ScopedByDoctor(t *testing.T) {
	db := dbtest.New(t)
	repo := NewVisitGormRepository(db)
	ctx := context.Background()

	docA := models.Doctor{Name: "A"}
	docB := models.Doctor{Name: "B"}
	require.NoError(t, db.Create(&docA).Error)
	require.NoError(t, db.Create(&docB).Error)

	p, err := repo.UpsertPatient(ctx, "P", "1")
	require.NoError(t, err)
	v := seedVisit(t, db, models.Visit{PatientID: p.ID, DoctorID: &docA.ID, QueueNumber: 1, Status: "WAITING"})

	got, err := repo.GetVisitForDoctor(ctx, v.ID, docA.ID)
	require.NoError(t, err)
	assert.Equal(t, "P", got.Patient.FullName)

	_, err = repo.GetVisitForDoctor(ctx, v.ID, docB.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestUpdateVisit_PersistsPatchedFields(t *testing.T) {
	db := dbtest.New(t)
	repo := NewVisitGormRepository(db)
	ctx := context.Background()

	p, err := repo.UpsertPatient(ctx, "P", "1")
	require.NoError(t, err)
	v := seedVisit(t, db, models.Visit{PatientID: p.ID, QueueNumber: 1, Status: "WAITING"})

	loaded, err := repo.GetVisit(ctx, v.ID)
	require.NoError(t, err)

	diag := "Migraine"
	follow := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)
	loaded.Status = "IN_PROGRESS"
	loaded.Diagnosis = &diag
	loaded.FollowUpDate = &follow
	require.NoError(t, repo.UpdateVisit(ctx, loaded))

	again, err := repo.GetVisit(ctx, v.ID)
	require.NoError(t, err)
	assert.Equal(t, "IN_PROGRESS", again.Status)
	assert.Equal(t, "Migraine", *again.Diagnosis)
	assert.True(t, follow.Equal(*again.FollowUpDate))
}

func TestListVisitsBetween_WindowAndOrder(t *testing.T) {
	db := dbtest.New(t)
	repo := NewVisitGormRepository(db)
	ctx := context.Background()

	loc := time.FixedZone("UTC+5", 5*3600)
	start := time.Date(2026, 5, 4, 0, 0, 0, 0, loc)
	end := start.AddDate(0, 0, 1)

	p, err := repo.UpsertPatient(ctx, "P", "1")
	require.NoError(t, err)

	seedVisit(t, db, models.Visit{PatientID: p.ID, QueueNumber: 7, Status: "WAITING", CreatedAt: start.Add(-time.Minute).UTC()})
	seedVisit(t, db, models.Visit{PatientID: p.ID, QueueNumber: 9, Status: "WAITING", CreatedAt: start.Add(3 * time.Hour).UTC()})
	seedVisit(t, db, models.Visit{PatientID: p.ID, QueueNumber: 8, Status: "WAITING", CreatedAt: start.Add(time.Hour).UTC()})
	seedVisit(t, db, models.Visit{PatientID: p.ID, QueueNumber: 10, Status: "WAITING", CreatedAt: end.UTC()})

	visits, err := repo.ListVisitsBetween(ctx, start, end)
	require.NoError(t, err)
	require.Len(t, visits, 2)
	assert.Equal(t, 8, visits[0].QueueNumber)
	assert.Equal(t, 9, visits[1].QueueNumber)
}

func TestFindPatientByPhone_HistoryNewestFirst(t *testing.T) {
	db := dbtest.New(t)
	repo := NewVisitGormRepository(db)
	ctx := context.Background()

	p, err := repo.UpsertPatient(ctx, "P", "555")
	require.NoError(t, err)

	base := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	seedVisit(t, db, models.Visit{PatientID: p.ID, QueueNumber: 1, Status: "COMPLETED", CreatedAt: base})
	seedVisit(t, db, models.Visit{PatientID: p.ID, QueueNumber: 2, Status: "WAITING", CreatedAt: base.AddDate(0, 0, 2)})

	found, err := repo.FindPatientByPhone(ctx, "555")
	require.NoError(t, err)
	require.Len(t, found.Visits, 2)
	assert.Equal(t, 2, found.Visits[0].QueueNumber)

	_, err = repo.FindPatientByPhone(ctx, "000")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestSetPaymentStatus(t *testing.T) {
	db := dbtest.New(t)
	repo := NewVisitGormRepository(db)
	ctx := context.Background()

	p, err := repo.UpsertPatient(ctx, "P", "1")
	require.NoError(t, err)
	v := seedVisit(t, db, models.Visit{PatientID: p.ID, QueueNumber: 1, Status: "WAITING"})
	require.NoError(t, repo.CreatePayment(ctx, &models.Payment{VisitID: v.ID, Amount: 2500, Status: "UNPAID"}))

	pay, err := repo.SetPaymentStatus(ctx, v.ID, domain.PaymentPaid)
	require.NoError(t, err)
	assert.Equal(t, "PAID", pay.Status)

	_, err = repo.SetPaymentStatus(ctx, v.ID+100, domain.PaymentPaid)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestSummarize(t *testing.T) {
	db := dbtest.New(t)
	repo := NewVisitGormRepository(db)
	ctx := context.Background()

	now := time.Now().UTC()
	start := now.Add(-time.Hour)
	end := now.Add(time.Hour)

	doc := models.Doctor{Name: "House"}
	require.NoError(t, db.Create(&doc).Error)
	svc := models.Service{Name: "Consult", Price: 4000, Active: true}
	require.NoError(t, db.Create(&svc).Error)

	a, err := repo.UpsertPatient(ctx, "A", "1")
	require.NoError(t, err)
	b, err := repo.UpsertPatient(ctx, "B", "2")
	require.NoError(t, err)

	v1 := seedVisit(t, db, models.Visit{PatientID: a.ID, DoctorID: &doc.ID, ServiceID: &svc.ID, QueueNumber: 1, Status: "WAITING"})
	v2 := seedVisit(t, db, models.Visit{PatientID: a.ID, DoctorID: &doc.ID, QueueNumber: 2, Status: "WAITING"})
	v3 := seedVisit(t, db, models.Visit{PatientID: b.ID, ServiceID: &svc.ID, QueueNumber: 3, Status: "WAITING"})

	require.NoError(t, repo.CreatePayment(ctx, &models.Payment{VisitID: v1.ID, Amount: 4000, Status: "PAID"}))
	require.NoError(t, repo.CreatePayment(ctx, &models.Payment{VisitID: v2.ID, Amount: 2500, Status: "UNPAID"}))
	require.NoError(t, repo.CreatePayment(ctx, &models.Payment{VisitID: v3.ID, Amount: 1800, Status: "PAID"}))

	sum, err := repo.Summarize(ctx, start, end)
	require.NoError(t, err)

	assert.Equal(t, int64(2), sum.PatientsToday)
	assert.Equal(t, int64(3), sum.VisitsToday)
	assert.Equal(t, int64(5800), sum.RevenueToday)
	assert.Equal(t, int64(1), sum.DoctorsCount)
	require.Len(t, sum.TopDoctors, 1)
	assert.Equal(t, domain.Ranked{ID: doc.ID, Name: "House", Count: 2}, sum.TopDoctors[0])
	require.Len(t, sum.TopServices, 1)
	assert.Equal(t, int64(2), sum.TopServices[0].Count)
}
