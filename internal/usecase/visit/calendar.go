package visit

import (
	"time"

	"github.com/BruksfildServices01/aklinic/internal/timezone"
)

// Calendar fixes "today" to the clinic timezone.
type Calendar struct {
	Loc *time.Location
	Now func() time.Time
}

func NewCalendar(loc *time.Location) Calendar {
	if loc == nil {
		loc = time.UTC
	}
	return Calendar{
		Loc: loc,
		Now: time.Now,
	}
}

func (c Calendar) now() time.Time {
	if c.Now == nil {
		return time.Now().In(c.Loc)
	}
	return c.Now().In(c.Loc)
}

// Today returns local midnight and the following midnight.
func (c Calendar) Today() (time.Time, time.Time) {
	return timezone.DayBounds(c.now())
}
