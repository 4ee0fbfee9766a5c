package visit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/aklinic/internal/httperr"
	"github.com/BruksfildServices01/aklinic/internal/models"
)

func TestParseStatus(t *testing.T) {
	s, err := ParseStatus(" in_progress ")
	require.NoError(t, err)
	assert.Equal(t, StatusInProgress, s)

	_, err = ParseStatus("CANCELLED")
	assert.True(t, httperr.IsBusiness(err, "invalid_status"))
}

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to Status
		code     string
	}{
		{StatusWaiting, StatusInProgress, ""},
		{StatusWaiting, StatusCompleted, ""},
		{StatusInProgress, StatusCompleted, ""},
		{StatusCompleted, StatusCompleted, ""},
		{StatusInProgress, StatusWaiting, "invalid_status_transition"},
		{StatusCompleted, StatusInProgress, "invalid_status_transition"},
		{StatusWaiting, Status("DONE"), "invalid_status"},
	}

	for _, tc := range cases {
		err := CanTransition(tc.from, tc.to)
		if tc.code == "" {
			assert.NoError(t, err, "%s -> %s", tc.from, tc.to)
			continue
		}
		assert.True(t, httperr.IsBusiness(err, tc.code), "%s -> %s: %v", tc.from, tc.to, err)
	}
}

func TestParsePaymentStatus(t *testing.T) {
	assert.Equal(t, PaymentPaid, ParsePaymentStatus("paid"))
	assert.Equal(t, PaymentUnpaid, ParsePaymentStatus("UNPAID"))
	assert.Equal(t, PaymentUnpaid, ParsePaymentStatus(""))
	assert.Equal(t, PaymentUnpaid, ParsePaymentStatus("refunded"))
}

func TestApply(t *testing.T) {
	v := &models.Visit{Status: string(StatusInProgress)}
	diag := "Flu"
	follow := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	back := StatusWaiting

	err := Apply(v, Patch{Diagnosis: &diag, Status: &back})
	assert.Error(t, err)
	assert.Nil(t, v.Diagnosis, "rejected patch must not mutate")

	done := StatusCompleted
	require.NoError(t, Apply(v, Patch{Diagnosis: &diag, Status: &done, FollowUpDate: &follow}))
	assert.Equal(t, "COMPLETED", v.Status)
	assert.Equal(t, "Flu", *v.Diagnosis)
	assert.Equal(t, follow, *v.FollowUpDate)
	assert.True(t, Patch{}.Empty())
}
