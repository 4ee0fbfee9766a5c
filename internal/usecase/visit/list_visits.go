package visit

import (
	"context"

	domain "github.com/BruksfildServices01/aklinic/internal/domain/visit"
	"github.com/BruksfildServices01/aklinic/internal/models"
	"github.com/BruksfildServices01/aklinic/internal/notify"
)

// ListVisits serves the dashboards. Every "today" query uses the clinic
// calendar and orders by queue number.
type ListVisits struct {
	repo     domain.Repository
	calendar Calendar
}

func NewListVisits(
	repo domain.Repository,
	calendar Calendar,
) *ListVisits {
	return &ListVisits{
		repo:     repo,
		calendar: calendar,
	}
}

func (uc *ListVisits) Today(ctx context.Context) ([]models.Visit, error) {
	start, end := uc.calendar.Today()
	return uc.repo.ListVisitsBetween(ctx, start, end)
}

func (uc *ListVisits) All(ctx context.Context) ([]models.Visit, error) {
	return uc.repo.ListAllVisits(ctx)
}

func (uc *ListVisits) NextQueueNumber(ctx context.Context) (int, error) {
	return uc.repo.PeekQueueNumber(ctx)
}

// QueueBoard groups today's visits by status for the TV screen.
type QueueBoard struct {
	Waiting    []models.Visit `json:"waiting"`
	InProgress []models.Visit `json:"in_progress"`
	Completed  []models.Visit `json:"completed"`
}

func (b QueueBoard) Counts() map[string]int {
	return map[string]int{
		string(domain.StatusWaiting):    len(b.Waiting),
		string(domain.StatusInProgress): len(b.InProgress),
		string(domain.StatusCompleted):  len(b.Completed),
	}
}

// PublicEntry is what the waiting room may see of a visit.
type PublicEntry struct {
	QueueNumber int    `json:"queue_number"`
	QueueLabel  string `json:"queue_label"`
	Status      string `json:"status"`
	DoctorName  string `json:"doctor_name,omitempty"`
}

// PublicBoard is today's queue without patient, clinical or payment data.
type PublicBoard struct {
	Waiting    []PublicEntry `json:"waiting"`
	InProgress []PublicEntry `json:"in_progress"`
	Completed  []PublicEntry `json:"completed"`
}

func (b QueueBoard) Public() *PublicBoard {
	return &PublicBoard{
		Waiting:    publicEntries(b.Waiting),
		InProgress: publicEntries(b.InProgress),
		Completed:  publicEntries(b.Completed),
	}
}

func publicEntries(visits []models.Visit) []PublicEntry {
	out := make([]PublicEntry, 0, len(visits))
	for _, v := range visits {
		e := PublicEntry{
			QueueNumber: v.QueueNumber,
			QueueLabel:  notify.QueueLabel(v.QueueNumber),
			Status:      v.Status,
		}
		if v.Doctor != nil {
			e.DoctorName = v.Doctor.Name
		}
		out = append(out, e)
	}
	return out
}

// Board feeds the TV screen and the public queue endpoint.
func (uc *ListVisits) Board(ctx context.Context) (*PublicBoard, error) {
	visits, err := uc.Today(ctx)
	if err != nil {
		return nil, err
	}
	return GroupByStatus(visits).Public(), nil
}

func GroupByStatus(visits []models.Visit) *QueueBoard {
	b := &QueueBoard{
		Waiting:    []models.Visit{},
		InProgress: []models.Visit{},
		Completed:  []models.Visit{},
	}
	for _, v := range visits {
		switch domain.Status(v.Status) {
		case domain.StatusInProgress:
			b.InProgress = append(b.InProgress, v)
		case domain.StatusCompleted:
			b.Completed = append(b.Completed, v)
		default:
			b.Waiting = append(b.Waiting, v)
		}
	}
	return b
}

// DoctorDay is the doctor's worklist.
type DoctorDay struct {
	Doctor    *models.Doctor
	Today     []models.Visit
	FollowUps []models.Visit
}

func (uc *ListVisits) ForDoctor(ctx context.Context, userID uint) (*DoctorDay, error) {
	doctor, err := uc.repo.GetDoctorByUserID(ctx, userID)
	if err != nil {
		return nil, notFoundAs(err, "doctor_profile_not_found")
	}

	start, end := uc.calendar.Today()

	today, err := uc.repo.ListDoctorVisitsBetween(ctx, doctor.ID, start, end)
	if err != nil {
		return nil, err
	}

	followUps, err := uc.repo.ListFollowUps(ctx, doctor.ID, start)
	if err != nil {
		return nil, err
	}

	return &DoctorDay{
		Doctor:    doctor,
		Today:     today,
		FollowUps: followUps,
	}, nil
}
