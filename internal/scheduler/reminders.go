package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/codr1/Teamgrid/internal/reminders"
)

const reminderJobTimeout = 2 * time.Minute

// ReminderSweeper is the part of the reminder service the job drives.
type ReminderSweeper interface {
	SendDue(ctx context.Context) (reminders.Summary, error)
}

// RegisterReminderJobs schedules the match reminder sweep on cronExpr.
func RegisterReminderJobs(sweeper ReminderSweeper, cronExpr string) error {
	job, err := reminderJob(sweeper, cronExpr)
	if err != nil {
		return err
	}
	if _, err := Register(job); err != nil {
		return fmt.Errorf("add match reminder job: %w", err)
	}
	return nil
}

func reminderJob(sweeper ReminderSweeper, cronExpr string) (Job, error) {
	if sweeper == nil {
		return Job{}, errors.New("reminder jobs require a reminder service")
	}
	return Job{
		Name:    JobMatchReminders,
		Cron:    cronExpr,
		Timeout: reminderJobTimeout,
		Run: func(ctx context.Context) error {
			summary, err := sweeper.SendDue(ctx)
			if err != nil {
				return fmt.Errorf("match reminder sweep: %w", err)
			}
			if summary.Sent > 0 || summary.Failed > 0 {
				log.Ctx(ctx).Info().
					Int("sent", summary.Sent).
					Int("skipped", summary.Skipped).
					Int("failed", summary.Failed).
					Msg("Match reminder sweep finished")
			}
			return nil
		},
	}, nil
}
