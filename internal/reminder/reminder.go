package reminder

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/rs/zerolog"

	"github.com/BruksfildServices01/aklinic/internal/models"
	"github.com/BruksfildServices01/aklinic/internal/notify"
	visituc "github.com/BruksfildServices01/aklinic/internal/usecase/visit"
)

type FollowUpLister interface {
	ListFollowUpsBetween(ctx context.Context, start, end time.Time) ([]models.Visit, error)
}

// FollowUps posts one reminder per follow-up that falls on the current
// clinic day.
type FollowUps struct {
	repo     FollowUpLister
	notifier notify.Notifier
	calendar visituc.Calendar
	log      zerolog.Logger
}

func NewFollowUps(
	repo FollowUpLister,
	notifier notify.Notifier,
	calendar visituc.Calendar,
	log zerolog.Logger,
) *FollowUps {
	return &FollowUps{
		repo:     repo,
		notifier: notifier,
		calendar: calendar,
		log:      log.With().Str("component", "reminder").Logger(),
	}
}

func (r *FollowUps) Run(ctx context.Context) (int, error) {
	start, end := r.calendar.Today()

	visits, err := r.repo.ListFollowUpsBetween(ctx, start, end)
	if err != nil {
		return 0, fmt.Errorf("list follow-ups: %w", err)
	}

	for i := range visits {
		r.notifier.Notify(notify.FollowUpReminder(&visits[i], r.calendar.Loc))
	}

	return len(visits), nil
}

// Start schedules Run daily at the given HH:MM in the clinic timezone.
func (r *FollowUps) Start(at string) (*gocron.Scheduler, error) {
	scheduler := gocron.NewScheduler(r.calendar.Loc)

	_, err := scheduler.Every(1).Day().At(at).Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()

		n, err := r.Run(ctx)
		if err != nil {
			r.log.Error().Err(err).Msg("follow-up reminder run failed")
			return
		}
		r.log.Info().Int("sent", n).Msg("follow-up reminders queued")
	})
	if err != nil {
		return nil, fmt.Errorf("schedule follow-up reminders at %q: %w", at, err)
	}

	scheduler.StartAsync()
	r.log.Info().Str("at", at).Msg("follow-up reminder cron started")

	return scheduler, nil
}
