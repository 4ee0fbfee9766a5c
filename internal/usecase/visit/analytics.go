package visit

import (
	"context"

	domain "github.com/BruksfildServices01/aklinic/internal/domain/visit"
)

type AnalyticsView struct {
	PatientsToday int64           `json:"patients_today"`
	VisitsToday   int64           `json:"visits_today"`
	RevenueToday  float64         `json:"revenue_today"`
	DoctorsCount  int64           `json:"doctors_count"`
	TopDoctors    []domain.Ranked `json:"top_doctors"`
	TopServices   []domain.Ranked `json:"top_services"`
}

type Analytics struct {
	repo     domain.Repository
	calendar Calendar
}

func NewAnalytics(repo domain.Repository, calendar Calendar) *Analytics {
	return &Analytics{repo: repo, calendar: calendar}
}

// Execute reports today's figures. Revenue is converted to major units.
func (uc *Analytics) Execute(ctx context.Context) (*AnalyticsView, error) {
	start, end := uc.calendar.Today()

	sum, err := uc.repo.Summarize(ctx, start, end)
	if err != nil {
		return nil, err
	}

	view := &AnalyticsView{
		PatientsToday: sum.PatientsToday,
		VisitsToday:   sum.VisitsToday,
		RevenueToday:  float64(sum.RevenueToday) / 100,
		DoctorsCount:  sum.DoctorsCount,
		TopDoctors:    sum.TopDoctors,
		TopServices:   sum.TopServices,
	}
	if view.TopDoctors == nil {
		view.TopDoctors = []domain.Ranked{}
	}
	if view.TopServices == nil {
		view.TopServices = []domain.Ranked{}
	}

	return view, nil
}
