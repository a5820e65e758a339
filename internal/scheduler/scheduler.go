// Package scheduler runs Teamgrid's recurring background sweeps on gocron.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Registered job names.
const (
	JobMatchReminders = "match_reminders"
)

const defaultJobTimeout = time.Minute

var (
	service     *Service
	serviceOnce sync.Once
	serviceErr  error
)

var (
	ErrNotInitialized = errors.New("scheduler not initialized")
	ErrEmptyJobName   = errors.New("job name is required")
	ErrEmptyCronExpr  = errors.New("cron expression is required")
	ErrNoJobFunc      = errors.New("job function is required")
	ErrDuplicateJob   = errors.New("job already registered")
)

// Job is a recurring sweep. Run receives a context bounded by Timeout that
// carries a logger tagged with the job name.
type Job struct {
	Name    string
	Cron    string
	Timeout time.Duration
	Run     func(ctx context.Context) error
}

// Service owns the gocron scheduler and the names of the jobs on it.
type Service struct {
	scheduler gocron.Scheduler

	mu   sync.Mutex
	jobs map[string]gocron.Job

	stopOnce sync.Once
	stopErr  error
}

func newService() (*Service, error) {
	sched, err := gocron.NewScheduler(
		gocron.WithGlobalJobOptions(
			gocron.WithEventListeners(
				gocron.AfterJobRunsWithPanic(func(jobID uuid.UUID, jobName string, recoverData any) {
					log.Error().
						Str("job_id", jobID.String()).
						Str("job_name", jobName).
						Interface("panic", recoverData).
						Msg("Scheduled sweep panicked")
				}),
			),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("create gocron scheduler: %w", err)
	}
	return &Service{scheduler: sched, jobs: make(map[string]gocron.Job)}, nil
}

// Init creates the process-wide scheduler once.
func Init() error {
	serviceOnce.Do(func() {
		service, serviceErr = newService()
		if serviceErr == nil {
			log.Info().Msg("Scheduler initialized")
		}
	})
	return serviceErr
}

func ServiceInstance() (*Service, error) {
	if service == nil && serviceErr == nil {
		return nil, ErrNotInitialized
	}
	return service, serviceErr
}

// Start begins running the registered sweeps.
func Start() error {
	svc, err := ServiceInstance()
	if err != nil {
		return err
	}
	svc.Start()
	return nil
}

func Stop() error {
	svc, err := ServiceInstance()
	if err != nil {
		return err
	}
	return svc.Stop()
}

// Register adds job to the process-wide scheduler.
func Register(job Job) (gocron.Job, error) {
	svc, err := ServiceInstance()
	if err != nil {
		return nil, err
	}
	return svc.Register(job)
}

func (s *Service) Start() {
	if s == nil {
		log.Error().Msg("Scheduler start requested before initialization")
		return
	}
	log.Info().Strs("jobs", s.JobNames()).Msg("Scheduler starting")
	s.scheduler.Start()
}

// Stop shuts the scheduler down and waits for running sweeps.
func (s *Service) Stop() error {
	if s == nil {
		return ErrNotInitialized
	}
	s.stopOnce.Do(func() {
		log.Info().Msg("Scheduler stopping")
		s.stopErr = s.scheduler.Shutdown()
	})
	return s.stopErr
}

// JobNames lists the registered jobs.
func (s *Service) JobNames() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	names := make([]string, 0, len(s.jobs))
	for name := range s.jobs {
		names = append(names, name)
	}
	return names
}

// Register schedules job on its cron expression. A run never overlaps the
// previous one; a late tick is rescheduled instead.
func (s *Service) Register(job Job) (gocron.Job, error) {
	if s == nil {
		return nil, ErrNotInitialized
	}
	job.Name = strings.TrimSpace(job.Name)
	if job.Name == "" {
		return nil, ErrEmptyJobName
	}
	if strings.TrimSpace(job.Cron) == "" {
		return nil, ErrEmptyCronExpr
	}
	if job.Run == nil {
		return nil, ErrNoJobFunc
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.jobs[job.Name]; ok {
		return nil, fmt.Errorf("%w: %s", ErrDuplicateJob, job.Name)
	}

	jobLogger := log.With().Str("job_name", job.Name).Str("cron", job.Cron).Logger()
	registered, err := s.scheduler.NewJob(
		gocron.CronJob(job.Cron, false),
		gocron.NewTask(func() { runJob(job) }),
		gocron.WithName(job.Name),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		jobLogger.Error().Err(err).Msg("Failed to register sweep")
		return nil, fmt.Errorf("register %s: %w", job.Name, err)
	}
	s.jobs[job.Name] = registered
	jobLogger.Info().Msg("Sweep registered")
	return registered, nil
}

// runJob executes one tick of job and logs its outcome.
func runJob(job Job) error {
	timeout := job.Timeout
	if timeout <= 0 {
		timeout = defaultJobTimeout
	}
	logger := log.With().Str("job_name", job.Name).Logger()
	ctx, cancel := context.WithTimeout(logger.WithContext(context.Background()), timeout)
	defer cancel()

	started := time.Now()
	logger.Debug().Msg("Sweep started")
	if err := job.Run(ctx); err != nil {
		logger.Error().Err(err).Dur("elapsed", time.Since(started)).Msg("Sweep failed")
		return err
	}
	logger.Debug().Dur("elapsed", time.Since(started)).Msg("Sweep completed")
	return nil
}
