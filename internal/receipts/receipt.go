package receipts

import (
	"fmt"
	"time"

	"github.com/BruksfildServices01/aklinic/internal/models"
	"github.com/BruksfildServices01/aklinic/internal/notify"
)

type Receipt struct {
	VisitID       uint      `json:"visit_id"`
	QueueNumber   int       `json:"queue_number"`
	QueueLabel    string    `json:"queue_label"`
	CreatedAt     time.Time `json:"created_at"`
	PatientName   string    `json:"patient_name"`
	PatientPhone  string    `json:"patient_phone"`
	DoctorName    string    `json:"doctor_name"`
	ServiceName   string    `json:"service_name"`
	Description   string    `json:"description"`
	Amount        int       `json:"amount"`
	PaymentStatus string    `json:"payment_status"`
	Total         string    `json:"total"`
}

// FormatMoney renders minor units as dollars: 4000 -> "$40.00".
func FormatMoney(minor int) string {
	sign := ""
	if minor < 0 {
		sign = "-"
		minor = -minor
	}
	return fmt.Sprintf("%s$%d.%02d", sign, minor/100, minor%100)
}

// FromVisit expects Patient, Doctor, Service and Payment preloaded.
// A visit without a payment row totals $0.00.
func FromVisit(v *models.Visit, loc *time.Location) Receipt {
	r := Receipt{
		VisitID:       v.ID,
		QueueNumber:   v.QueueNumber,
		QueueLabel:    notify.QueueLabel(v.QueueNumber),
		CreatedAt:     v.CreatedAt.In(loc),
		DoctorName:    "Not assigned",
		ServiceName:   "Service not set",
		Description:   "Clinic visit",
		PaymentStatus: "UNPAID",
	}

	if v.Patient != nil {
		r.PatientName = v.Patient.FullName
		r.PatientPhone = v.Patient.Phone
	}
	if v.Doctor != nil {
		r.DoctorName = "Dr. " + v.Doctor.Name
	}
	if v.Service != nil {
		r.ServiceName = v.Service.Name
		r.Description = v.Service.Name
	}
	if v.Payment != nil {
		r.Amount = v.Payment.Amount
		r.PaymentStatus = v.Payment.Status
	}

	r.Total = FormatMoney(r.Amount)
	return r
}
