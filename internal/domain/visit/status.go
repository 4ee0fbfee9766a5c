package visit

import (
	"strings"

	"github.com/BruksfildServices01/aklinic/internal/httperr"
)

// ===============================
// Visit Status
// ===============================

type Status string

const (
	StatusWaiting    Status = "WAITING"
	StatusInProgress Status = "IN_PROGRESS"
	StatusCompleted  Status = "COMPLETED"
)

var statusRank = map[Status]int{
	StatusWaiting:    0,
	StatusInProgress: 1,
	StatusCompleted:  2,
}

func InitialStatus() Status {
	return StatusWaiting
}

// Statuses lists the states in workflow order.
func Statuses() []Status {
	return []Status{StatusWaiting, StatusInProgress, StatusCompleted}
}

func (s Status) Valid() bool {
	_, ok := statusRank[s]
	return ok
}

// ParseStatus accepts any casing and surrounding whitespace.
func ParseStatus(raw string) (Status, error) {
	s := Status(strings.ToUpper(strings.TrimSpace(raw)))
	if !s.Valid() {
		return "", httperr.ErrBusiness("invalid_status")
	}
	return s, nil
}

// ===============================
// Transitions
// ===============================

// CanTransition allows forward moves only. Staying put is a no-op.
func CanTransition(from, to Status) error {
	if !to.Valid() {
		return httperr.ErrBusiness("invalid_status")
	}
	fromRank, ok := statusRank[from]
	if !ok {
		return httperr.ErrBusiness("invalid_status")
	}
	if statusRank[to] < fromRank {
		return httperr.ErrBusiness("invalid_status_transition")
	}
	return nil
}

// ===============================
// Payment Status
// ===============================

type PaymentStatus string

const (
	PaymentPaid   PaymentStatus = "PAID"
	PaymentUnpaid PaymentStatus = "UNPAID"
)

// ParsePaymentStatus maps anything other than PAID to UNPAID.
func ParsePaymentStatus(raw string) PaymentStatus {
	if strings.EqualFold(strings.TrimSpace(raw), string(PaymentPaid)) {
		return PaymentPaid
	}
	return PaymentUnpaid
}
