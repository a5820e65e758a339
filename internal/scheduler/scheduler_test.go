package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/codr1/Teamgrid/internal/reminders"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	svc, err := newService()
	if err != nil {
		t.Fatalf("new scheduler: %v", err)
	}
	t.Cleanup(func() { _ = svc.Stop() })
	return svc
}

func noop(context.Context) error { return nil }

func TestRegisterValidation(t *testing.T) {
	svc := newTestService(t)

	if _, err := svc.Register(Job{Name: "  ", Cron: "*/5 * * * *", Run: noop}); !errors.Is(err, ErrEmptyJobName) {
		t.Fatalf("expected ErrEmptyJobName, got %v", err)
	}
	if _, err := svc.Register(Job{Name: "sweep", Run: noop}); !errors.Is(err, ErrEmptyCronExpr) {
		t.Fatalf("expected ErrEmptyCronExpr, got %v", err)
	}
	if _, err := svc.Register(Job{Name: "sweep", Cron: "*/5 * * * *"}); !errors.Is(err, ErrNoJobFunc) {
		t.Fatalf("expected ErrNoJobFunc, got %v", err)
	}
	if _, err := svc.Register(Job{Name: "sweep", Cron: "not a cron", Run: noop}); err == nil {
		t.Fatal("expected invalid cron expression to fail")
	}

	job, err := svc.Register(Job{Name: "sweep", Cron: "*/5 * * * *", Run: noop})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if job.Name() != "sweep" {
		t.Fatalf("job name = %q, want sweep", job.Name())
	}
	if _, err := svc.Register(Job{Name: "sweep", Cron: "*/10 * * * *", Run: noop}); !errors.Is(err, ErrDuplicateJob) {
		t.Fatalf("expected ErrDuplicateJob, got %v", err)
	}
	if names := svc.JobNames(); len(names) != 1 || names[0] != "sweep" {
		t.Fatalf("job names = %v", names)
	}
}

func TestRunJobBoundsContext(t *testing.T) {
	var deadline time.Time
	err := runJob(Job{
		Name:    "sweep",
		Timeout: 30 * time.Second,
		Run: func(ctx context.Context) error {
			var ok bool
			deadline, ok = ctx.Deadline()
			if !ok {
				t.Fatal("expected a deadline on the job context")
			}
			return nil
		},
	})
	if err != nil {
		t.Fatalf("runJob: %v", err)
	}
	if remaining := time.Until(deadline); remaining <= 0 || remaining > 30*time.Second {
		t.Fatalf("unexpected deadline %s away", remaining)
	}

	boom := errors.New("boom")
	if err := runJob(Job{Name: "sweep", Run: func(context.Context) error { return boom }}); !errors.Is(err, boom) {
		t.Fatalf("expected job error, got %v", err)
	}
}

type stubSweeper struct {
	calls   int
	summary reminders.Summary
	err     error
}

func (s *stubSweeper) SendDue(context.Context) (reminders.Summary, error) {
	s.calls++
	return s.summary, s.err
}

func TestReminderJob(t *testing.T) {
	if _, err := reminderJob(nil, "*/15 * * * *"); err == nil {
		t.Fatal("expected error without a reminder service")
	}

	sweeper := &stubSweeper{summary: reminders.Summary{Sent: 2}}
	job, err := reminderJob(sweeper, "*/15 * * * *")
	if err != nil {
		t.Fatalf("reminderJob: %v", err)
	}
	if job.Name != JobMatchReminders || job.Timeout != reminderJobTimeout {
		t.Fatalf("unexpected job %+v", job)
	}
	if err := runJob(job); err != nil {
		t.Fatalf("run: %v", err)
	}
	if sweeper.calls != 1 {
		t.Fatalf("expected one sweep, got %d", sweeper.calls)
	}

	sweeper.err = errors.New("db locked")
	if err := runJob(job); err == nil || !errors.Is(err, sweeper.err) {
		t.Fatalf("expected sweep error, got %v", err)
	}
}

func TestRegisterReminderJobsOnSingleton(t *testing.T) {
	if err := Init(); err != nil {
		t.Fatalf("init scheduler: %v", err)
	}
	if err := RegisterReminderJobs(&stubSweeper{}, "*/15 * * * *"); err != nil {
		t.Fatalf("register: %v", err)
	}
	svc, err := ServiceInstance()
	if err != nil {
		t.Fatalf("instance: %v", err)
	}
	if names := svc.JobNames(); len(names) != 1 || names[0] != JobMatchReminders {
		t.Fatalf("job names = %v", names)
	}
}
