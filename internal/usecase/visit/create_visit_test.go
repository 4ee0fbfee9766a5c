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

func TestCreateVisit_ReceptionSamePhoneReusesPatient(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	uc := f.create()

	first, err := uc.Execute(ctx, CreateVisitInput{
		Source:    domain.SourceReception,
		FullName:  "Ali Valiyev",
		Phone:     "+998901112233",
		ServiceID: uintPtr(f.service.ID),
	})
	require.NoError(t, err)

	second, err := uc.Execute(ctx, CreateVisitInput{
		Source:    domain.SourceReception,
		FullName:  "Ali Valiev",
		Phone:     " +998901112233 ",
		ServiceID: uintPtr(f.service.ID),
	})
	require.NoError(t, err)

	assert.Equal(t, first.PatientID, second.PatientID)
	assert.Equal(t, 1, first.QueueNumber)
	assert.Equal(t, 2, second.QueueNumber)
	assert.Equal(t, "Ali Valiev", second.Patient.FullName)
	assert.Equal(t, "WAITING", second.Status)

	var patients int64
	f.db.Model(&models.Patient{}).Count(&patients)
	assert.Equal(t, int64(1), patients)
}

func TestCreateVisit_ReceptionPaidCreatesPayment(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	v, err := f.create().Execute(ctx, CreateVisitInput{
		Source:        domain.SourceReception,
		FullName:      "Ali",
		Phone:         "1",
		ServiceID:     uintPtr(f.service.ID),
		DoctorID:      uintPtr(f.doctor.ID),
		PaymentStatus: domain.PaymentPaid,
	})
	require.NoError(t, err)

	require.NotNil(t, v.Payment)
	assert.Equal(t, 4000, v.Payment.Amount)
	assert.Equal(t, "PAID", v.Payment.Status)
	assert.False(t, v.BookedOnline)

	r, err := NewReceipts(f.repo, f.audit, f.calendar).Get(ctx, v.ID)
	require.NoError(t, err)
	assert.Equal(t, "$40.00", r.Total)

	require.Len(t, f.notifier.msgs, 1)
	assert.Contains(t, f.notifier.msgs[0], "Visit registered")
	assert.Contains(t, f.notifier.msgs[0], "Doctor: Dr. House")
	assert.Contains(t, f.notifier.msgs[0], "Payment: Paid")

	require.Len(t, f.audit.events, 1)
	assert.Equal(t, "visit_created", f.audit.events[0].Action)
}

func TestCreateVisit_ReceptionDefaultsToUnpaid(t *testing.T) {
	f := newFixture(t)

	v, err := f.create().Execute(context.Background(), CreateVisitInput{
		Source:    domain.SourceReception,
		FullName:  "Ali",
		Phone:     "1",
		ServiceID: uintPtr(f.service.ID),
	})
	require.NoError(t, err)
	require.NotNil(t, v.Payment)
	assert.Equal(t, "UNPAID", v.Payment.Status)
}

func TestCreateVisit_OnlineBooking(t *testing.T) {
	f := newFixture(t)
	at := time.Date(2026, 5, 4, 10, 30, 0, 0, time.UTC)

	v, err := f.create().Execute(context.Background(), CreateVisitInput{
		Source:      domain.SourceOnline,
		FullName:    "Web Patient",
		Phone:       "777",
		ScheduledAt: &at,
	})
	require.NoError(t, err)

	assert.True(t, v.BookedOnline)
	assert.Nil(t, v.Payment)
	require.NotNil(t, v.ScheduledAt)
	assert.True(t, at.Equal(*v.ScheduledAt))

	require.Len(t, f.notifier.msgs, 1)
	assert.Contains(t, f.notifier.msgs[0], "New online booking")
	assert.Contains(t, f.notifier.msgs[0], "Doctor: Any available")
	assert.Contains(t, f.notifier.msgs[0], "Queue #001")
}

func TestCreateVisit_Validation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	at := time.Now()

	cases := []struct {
		name string
		in   CreateVisitInput
		code string
	}{
		{"reception without service", CreateVisitInput{Source: domain.SourceReception, FullName: "A", Phone: "1"}, "missing_required_fields"},
		{"blank name", CreateVisitInput{Source: domain.SourceReception, FullName: "  ", Phone: "1", ServiceID: uintPtr(f.service.ID)}, "missing_required_fields"},
		{"online without time", CreateVisitInput{Source: domain.SourceOnline, FullName: "A", Phone: "1"}, "missing_required_fields"},
		{"unknown service", CreateVisitInput{Source: domain.SourceReception, FullName: "A", Phone: "1", ServiceID: uintPtr(999)}, "service_not_found"},
		{"unknown doctor", CreateVisitInput{Source: domain.SourceOnline, FullName: "A", Phone: "1", ScheduledAt: &at, DoctorID: uintPtr(999)}, "doctor_not_found"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.create().Execute(ctx, tc.in)
			assert.True(t, httperr.IsBusiness(err, tc.code), "got %v", err)
		})
	}

	var visits, patients int64
	f.db.Model(&models.Visit{}).Count(&visits)
	f.db.Model(&models.Patient{}).Count(&patients)
	assert.Zero(t, visits)
	assert.Zero(t, patients)
	assert.Empty(t, f.notifier.msgs)
}

func TestCreateVisit_SequentialQueueNumbersAreUnique(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	uc := f.create()

	seen := map[int]bool{}
	for i := 0; i < 10; i++ {
		v, err := uc.Execute(ctx, CreateVisitInput{
			Source:    domain.SourceReception,
			FullName:  "P",
			Phone:     "1",
			ServiceID: uintPtr(f.service.ID),
		})
		require.NoError(t, err)
		assert.False(t, seen[v.QueueNumber])
		seen[v.QueueNumber] = true
		assert.Equal(t, i+1, v.QueueNumber)
	}
}
