package visit

type Ranked struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Count int64  `gorm:"column:total" json:"count"`
}

// DaySummary aggregates one "today" window. Revenue is in minor units and
// only counts PAID payments.
type DaySummary struct {
	PatientsToday int64
	VisitsToday   int64
	RevenueToday  int64
	DoctorsCount  int64
	TopDoctors    []Ranked
	TopServices   []Ranked
}
