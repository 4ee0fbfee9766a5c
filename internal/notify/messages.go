package notify

import (
	"fmt"
	"strings"
	"time"

	"github.com/BruksfildServices01/aklinic/internal/models"
)

// QueueLabel pads queue numbers to three digits: 7 -> "007".
func QueueLabel(n int) string {
	return fmt.Sprintf("%03d", n)
}

func doctorLabel(d *models.Doctor, fallback string) string {
	if d == nil {
		return fallback
	}
	return "Dr. " + d.Name
}

func OnlineBooking(v *models.Visit, loc *time.Location) string {
	service := "Clinic visit"
	if v.Service != nil {
		service = v.Service.Name
	}

	scheduled := "-"
	if v.ScheduledAt != nil {
		scheduled = v.ScheduledAt.In(loc).Format("2006-01-02 15:04")
	}

	return strings.Join([]string{
		"📅 <b>New online booking</b>",
		"Patient: " + v.Patient.FullName,
		"Phone: " + v.Patient.Phone,
		"Service: " + service,
		"Doctor: " + doctorLabel(v.Doctor, "Any available"),
		"Scheduled: " + scheduled,
		"Queue #" + QueueLabel(v.QueueNumber),
	}, "\n")
}

func VisitRegistered(v *models.Visit) string {
	service := ""
	if v.Service != nil {
		service = v.Service.Name
	}

	payment := "Unpaid"
	if v.Payment != nil && v.Payment.Status == "PAID" {
		payment = "Paid"
	}

	return strings.Join([]string{
		"✅ <b>Visit registered</b>",
		"Patient: " + v.Patient.FullName,
		"Phone: " + v.Patient.Phone,
		"Service: " + service,
		"Doctor: " + doctorLabel(v.Doctor, "Not assigned"),
		"Queue #" + QueueLabel(v.QueueNumber),
		"Payment: " + payment,
	}, "\n")
}

func FollowUpScheduled(v *models.Visit, doctor *models.Doctor, loc *time.Location) string {
	return strings.Join([]string{
		"📌 <b>Follow-up scheduled</b>",
		"Patient: " + v.Patient.FullName,
		"Phone: " + v.Patient.Phone,
		"Doctor: " + doctorLabel(doctor, "Not assigned"),
		"Date: " + v.FollowUpDate.In(loc).Format("2006-01-02"),
	}, "\n")
}

func FollowUpReminder(v *models.Visit, loc *time.Location) string {
	return strings.Join([]string{
		"⏰ <b>Follow-up today</b>",
		"Patient: " + v.Patient.FullName,
		"Phone: " + v.Patient.Phone,
		"Doctor: " + doctorLabel(v.Doctor, "Not assigned"),
		"Date: " + v.FollowUpDate.In(loc).Format("2006-01-02"),
	}, "\n")
}
