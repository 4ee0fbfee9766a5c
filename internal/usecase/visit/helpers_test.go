package visit

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/aklinic/internal/audit"
	"github.com/BruksfildServices01/aklinic/internal/db/dbtest"
	"github.com/BruksfildServices01/aklinic/internal/infra/repository"
	"github.com/BruksfildServices01/aklinic/internal/models"
)

type fakeNotifier struct {
	mu   sync.Mutex
	msgs []string
}

func (f *fakeNotifier) Notify(text string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.msgs = append(f.msgs, text)
}

type fakeAudit struct {
	events []audit.Event
}

func (f *fakeAudit) Dispatch(ev audit.Event) {
	f.events = append(f.events, ev)
}

type fixture struct {
	db       *gorm.DB
	repo     *repository.VisitGormRepository
	notifier *fakeNotifier
	audit    *fakeAudit
	calendar Calendar

	service models.Service
	doctor  models.Doctor
	docUser models.User
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db := dbtest.New(t)
	f := &fixture{
		db:       db,
		repo:     repository.NewVisitGormRepository(db),
		notifier: &fakeNotifier{},
		audit:    &fakeAudit{},
		calendar: NewCalendar(time.UTC),
	}

	f.service = models.Service{Name: "General consultation", Price: 4000, Active: true}
	require.NoError(t, db.Create(&f.service).Error)

	f.docUser = models.User{Name: "Dr House", Email: "house@aklinic.health", PasswordHash: "x", Role: models.RoleDoctor}
	require.NoError(t, db.Create(&f.docUser).Error)

	f.doctor = models.Doctor{Name: "House", UserID: &f.docUser.ID}
	require.NoError(t, db.Create(&f.doctor).Error)

	return f
}

func (f *fixture) create() *CreateVisit {
	return NewCreateVisit(f.repo, f.notifier, f.audit, nil, f.calendar)
}

func (f *fixture) update() *UpdateVisit {
	return NewUpdateVisit(f.repo, f.notifier, f.audit, f.calendar)
}

func uintPtr(v uint) *uint { return &v }
