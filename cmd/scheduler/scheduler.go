package main

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const (
	scheduledJobsZSet = "nexus:scheduled_jobs"
)

// Job is a recurring job identified by name
type Job struct {
	Name string
	// Cron is a standard five-field cron expression
	Cron string
	Run  func(ctx context.Context) error
}

// RunStore keeps the next run time of every job
type RunStore interface {
	// NextRun returns the stored next run of a job. ok is false if none is stored.
	NextRun(ctx context.Context, name string) (at time.Time, ok bool, err error)
	SetNextRun(ctx context.Context, name string, at time.Time) error
	// Due returns the names of jobs whose next run is not after now
	Due(ctx context.Context, now time.Time) ([]string, error)
	// Claim moves a job that is still due at now to next in one step.
	// It reports false when another scheduler got there first.
	Claim(ctx context.Context, name string, now, next time.Time) (bool, error)
	Remove(ctx context.Context, name string) error
}

// claimScript reschedules a member only while its score is still due
var claimScript = redis.NewScript(`
local current = redis.call('ZSCORE', KEYS[1], ARGV[1])
if current and tonumber(current) <= tonumber(ARGV[2]) then
	redis.call('ZADD', KEYS[1], ARGV[3], ARGV[1])
	return 1
end
return 0
`)

// redisRunStore keeps next runs in a Redis sorted set scored by Unix time
type redisRunStore struct {
	redis *redis.Client
}

// NewRedisRunStore creates a run store on top of a Redis client
func NewRedisRunStore(rdb *redis.Client) RunStore {
	return &redisRunStore{redis: rdb}
}

func (s *redisRunStore) NextRun(ctx context.Context, name string) (time.Time, bool, error) {
	score, err := s.redis.ZScore(ctx, scheduledJobsZSet, name).Result()
	if err == redis.Nil {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, fmt.Errorf("failed to read next run of %s: %w", name, err)
	}
	return time.Unix(int64(score), 0), true, nil
}

func (s *redisRunStore) SetNextRun(ctx context.Context, name string, at time.Time) error {
	return s.redis.ZAdd(ctx, scheduledJobsZSet, &redis.Z{
		Score:  float64(at.Unix()),
		Member: name,
	}).Err()
}

func (s *redisRunStore) Due(ctx context.Context, now time.Time) ([]string, error) {
	return s.redis.ZRangeByScore(ctx, scheduledJobsZSet, &redis.ZRangeBy{
		Min: "-inf",
		Max: strconv.FormatInt(now.Unix(), 10),
	}).Result()
}

func (s *redisRunStore) Claim(ctx context.Context, name string, now, next time.Time) (bool, error) {
	claimed, err := claimScript.Run(ctx, s.redis, []string{scheduledJobsZSet}, name, now.Unix(), next.Unix()).Int()
	if err != nil {
		return false, fmt.Errorf("failed to claim %s: %w", name, err)
	}
	return claimed == 1, nil
}

func (s *redisRunStore) Remove(ctx context.Context, name string) error {
	return s.redis.ZRem(ctx, scheduledJobsZSet, name).Err()
}

// scheduledJob is a job with its parsed schedule
type scheduledJob struct {
	Job
	schedule cron.Schedule
}

// Scheduler runs recurring jobs. Next runs survive restarts through the run store.
// Replicas share one timetable and a due job runs on whichever replica claims it.
type Scheduler struct {
	store    RunStore
	jobs     map[string]scheduledJob
	logger   *zap.Logger
	interval time.Duration
	now      func() time.Time
	stopChan chan struct{}
	done     chan struct{}
}

// NewScheduler creates a new scheduler. Every job must carry a valid cron expression.
func NewScheduler(store RunStore, jobs []Job, logger *zap.Logger) (*Scheduler, error) {
	parsed := make(map[string]scheduledJob, len(jobs))
	for _, job := range jobs {
		schedule, err := cron.ParseStandard(job.Cron)
		if err != nil {
			return nil, fmt.Errorf("job %s: invalid cron expression: %w", job.Name, err)
		}
		if _, dup := parsed[job.Name]; dup {
			return nil, fmt.Errorf("job %s is registered twice", job.Name)
		}
		parsed[job.Name] = scheduledJob{Job: job, schedule: schedule}
	}

	return &Scheduler{
		store:    store,
		jobs:     parsed,
		logger:   logger,
		interval: 10 * time.Second,
		now:      time.Now,
		stopChan: make(chan struct{}),
		done:     make(chan struct{}),
	}, nil
}

// CalculateNextRun returns the first activation of cronExpr after from
func CalculateNextRun(cronExpr string, from time.Time) (time.Time, error) {
	schedule, err := cron.ParseStandard(cronExpr)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid cron expression: %w", err)
	}

	return schedule.Next(from), nil
}

// Start starts the scheduler
func (s *Scheduler) Start() {
	s.logger.Info("Scheduler started", zap.Int("jobs", len(s.jobs)))
	go s.run()
}

// Stop stops the scheduler and waits for the running tick to finish
func (s *Scheduler) Stop() {
	close(s.stopChan)
	<-s.done
	s.logger.Info("Scheduler stopped")
}

// run executes the scheduler loop
func (s *Scheduler) run() {
	defer close(s.done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	ctx := context.Background()

	// Run immediately on start
	s.tick(ctx)

	for {
		select {
		case <-ticker.C:
			s.tick(ctx)
		case <-s.stopChan:
			return
		}
	}
}

// tick schedules new jobs and runs the due ones
func (s *Scheduler) tick(ctx context.Context) {
	now := s.now()
	s.scheduleMissing(ctx, now)
	s.runDue(ctx, now)
}

// scheduleMissing stores the next run of every job that has none yet
func (s *Scheduler) scheduleMissing(ctx context.Context, now time.Time) {
	for name, job := range s.jobs {
		_, ok, err := s.store.NextRun(ctx, name)
		if err != nil {
			s.logger.Error("Failed to read next run", zap.String("job", name), zap.Error(err))
			continue
		}
		if ok {
			continue
		}

		next := job.schedule.Next(now)
		if err := s.store.SetNextRun(ctx, name, next); err != nil {
			s.logger.Error("Failed to schedule job", zap.String("job", name), zap.Error(err))
			continue
		}
		s.logger.Debug("Scheduled job", zap.String("job", name), zap.Time("next_run", next))
	}
}

// runDue runs the jobs whose time has come and moves them to their next activation
func (s *Scheduler) runDue(ctx context.Context, now time.Time) {
	names, err := s.store.Due(ctx, now)
	if err != nil {
		s.logger.Error("Failed to get due jobs", zap.Error(err))
		return
	}

	for _, name := range names {
		job, ok := s.jobs[name]
		if !ok {
			// Left over from a job that is no longer registered
			if err := s.store.Remove(ctx, name); err != nil {
				s.logger.Error("Failed to remove unknown job", zap.String("job", name), zap.Error(err))
			}
			continue
		}

		// A failed run waits for the next activation
		next := job.schedule.Next(now)
		claimed, err := s.store.Claim(ctx, name, now, next)
		if err != nil {
			s.logger.Error("Failed to reschedule job", zap.String("job", name), zap.Error(err))
			continue
		}
		if !claimed {
			s.logger.Debug("Job claimed by another scheduler", zap.String("job", name))
			continue
		}

		if err := job.Run(ctx); err != nil {
			s.logger.Error("Scheduled job failed", zap.String("job", name), zap.Error(err))
			continue
		}
		s.logger.Info("Scheduled job ran", zap.String("job", name), zap.Time("next_run", next))
	}
}
