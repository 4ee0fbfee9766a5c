package visit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/BruksfildServices01/aklinic/internal/domain/visit"
	"github.com/BruksfildServices01/aklinic/internal/httperr"
	"github.com/BruksfildServices01/aklinic/internal/models"
)

func TestListVisits_TodayOnly(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	p := models.Patient{FullName: "Old", Phone: "9"}
	require.NoError(t, f.db.Create(&p).Error)
	yesterday := time.Now().UTC().AddDate(0, 0, -1)
	require.NoError(t, f.db.Create(&models.Visit{PatientID: p.ID, QueueNumber: 1, Status: "WAITING", CreatedAt: yesterday}).Error)

	for _, phone := range []string{"1", "2"} {
		_, err := f.create().Execute(ctx, CreateVisitInput{
			Source:    domain.SourceReception,
			FullName:  "P" + phone,
			Phone:     phone,
			ServiceID: uintPtr(f.service.ID),
		})
		require.NoError(t, err)
	}

	lv := NewListVisits(f.repo, f.calendar)

	today, err := lv.Today(ctx)
	require.NoError(t, err)
	require.Len(t, today, 2)
	assert.Equal(t, 2, today[0].QueueNumber)
	assert.Equal(t, 3, today[1].QueueNumber)

	all, err := lv.All(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	next, err := lv.NextQueueNumber(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, next)
}

func TestGroupByStatus(t *testing.T) {
	board := GroupByStatus([]models.Visit{
		{QueueNumber: 1, Status: "COMPLETED"},
		{QueueNumber: 2, Status: "IN_PROGRESS"},
		{QueueNumber: 3, Status: "WAITING"},
		{QueueNumber: 4, Status: "WAITING"},
	})

	assert.Len(t, board.Waiting, 2)
	assert.Len(t, board.InProgress, 1)
	assert.Len(t, board.Completed, 1)
	assert.Equal(t, 2, board.Counts()["WAITING"])
}

func TestListVisits_ForDoctor(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	v := seedAssigned(t, f)

	follow := time.Now().UTC().AddDate(0, 0, 7)
	_, err := f.update().Execute(ctx, UpdateVisitInput{
		DoctorUserID: f.docUser.ID,
		VisitID:      v.ID,
		Patch:        domain.Patch{FollowUpDate: &follow},
	})
	require.NoError(t, err)

	day, err := NewListVisits(f.repo, f.calendar).ForDoctor(ctx, f.docUser.ID)
	require.NoError(t, err)
	assert.Equal(t, f.doctor.ID, day.Doctor.ID)
	assert.Len(t, day.Today, 1)
	assert.Len(t, day.FollowUps, 1)

	_, err = NewListVisits(f.repo, f.calendar).ForDoctor(ctx, 999)
	assert.True(t, httperr.IsBusiness(err, "doctor_profile_not_found"))
}

func TestPatientHistory(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	seedAssigned(t, f)

	uc := NewPatientHistory(f.repo)

	p, err := uc.Execute(ctx, "1")
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Len(t, p.Visits, 1)

	p, err = uc.Execute(ctx, "404")
	assert.NoError(t, err)
	assert.Nil(t, p)

	_, err = uc.Execute(ctx, " ")
	assert.True(t, httperr.IsBusiness(err, "phone_required"))
}

func TestAnalytics_RevenueInMajorUnits(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.create().Execute(ctx, CreateVisitInput{
		Source: domain.SourceReception, FullName: "A", Phone: "1",
		ServiceID: uintPtr(f.service.ID), DoctorID: uintPtr(f.doctor.ID),
		PaymentStatus: domain.PaymentPaid,
	})
	require.NoError(t, err)
	_, err = f.create().Execute(ctx, CreateVisitInput{
		Source: domain.SourceReception, FullName: "B", Phone: "2",
		ServiceID: uintPtr(f.service.ID),
	})
	require.NoError(t, err)

	view, err := NewAnalytics(f.repo, f.calendar).Execute(ctx)
	require.NoError(t, err)

	assert.Equal(t, int64(2), view.PatientsToday)
	assert.Equal(t, int64(2), view.VisitsToday)
	assert.Equal(t, 40.0, view.RevenueToday)
	require.Len(t, view.TopDoctors, 1)
	assert.Equal(t, "House", view.TopDoctors[0].Name)
}

func TestReceipts_SetPaymentStatus(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	v := seedAssigned(t, f)

	uc := NewReceipts(f.repo, f.audit, f.calendar)

	p, err := uc.SetPaymentStatus(ctx, 1, v.ID, domain.PaymentPaid)
	require.NoError(t, err)
	assert.Equal(t, "PAID", p.Status)

	_, err = uc.SetPaymentStatus(ctx, 1, v.ID+50, domain.PaymentPaid)
	assert.True(t, httperr.IsBusiness(err, "payment_not_found"))

	_, err = uc.Get(ctx, v.ID+50)
	assert.True(t, httperr.IsBusiness(err, "visit_not_found"))
}
