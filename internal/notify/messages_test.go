package notify

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/BruksfildServices01/aklinic/internal/models"
)

func TestQueueLabel(t *testing.T) {
	assert.Equal(t, "007", QueueLabel(7))
	assert.Equal(t, "123", QueueLabel(123))
	assert.Equal(t, "1042", QueueLabel(1042))
}

func TestOnlineBooking_Fallbacks(t *testing.T) {
	loc := time.FixedZone("UTC+5", 5*3600)
	at := time.Date(2026, 5, 4, 5, 30, 0, 0, time.UTC)
	v := &models.Visit{
		Patient:     &models.Patient{FullName: "Ali", Phone: "+998"},
		QueueNumber: 5,
		ScheduledAt: &at,
	}

	msg := OnlineBooking(v, loc)

	assert.Contains(t, msg, "New online booking")
	assert.Contains(t, msg, "Service: Clinic visit")
	assert.Contains(t, msg, "Doctor: Any available")
	assert.Contains(t, msg, "Scheduled: 2026-05-04 10:30")
	assert.Contains(t, msg, "Queue #005")
}

func TestVisitRegistered(t *testing.T) {
	v := &models.Visit{
		Patient:     &models.Patient{FullName: "Ali", Phone: "+998"},
		Service:     &models.Service{Name: "General consultation"},
		Doctor:      &models.Doctor{Name: "House"},
		Payment:     &models.Payment{Status: "PAID"},
		QueueNumber: 12,
	}

	want := "✅ <b>Visit registered</b>\n" +
		"Patient: Ali\n" +
		"Phone: +998\n" +
		"Service: General consultation\n" +
		"Doctor: Dr. House\n" +
		"Queue #012\n" +
		"Payment: Paid"

	assert.Equal(t, want, VisitRegistered(v))
}

func TestFollowUpScheduled(t *testing.T) {
	loc := time.FixedZone("UTC+5", 5*3600)
	date := time.Date(2026, 6, 1, 0, 0, 0, 0, loc).UTC()
	v := &models.Visit{
		Patient:      &models.Patient{FullName: "Ali", Phone: "+998"},
		FollowUpDate: &date,
	}

	msg := FollowUpScheduled(v, &models.Doctor{Name: "House"}, loc)

	assert.Contains(t, msg, "Doctor: Dr. House")
	assert.Contains(t, msg, "Date: 2026-06-01")
}
