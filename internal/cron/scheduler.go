package cron

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"github.com/briteco/brief/internal/logger"
	"github.com/briteco/brief/internal/persist"
	"github.com/briteco/brief/internal/research"
)

// prefetchTimeout bounds one research refresh run.
const prefetchTimeout = 5 * time.Minute

// Job is one scheduled task in the issue cycle.
type Job struct {
	ID       string       `json:"id"`
	Name     string       `json:"name"`
	Schedule string       `json:"schedule"`
	LastRun  *time.Time   `json:"last_run,omitempty"`
	LastErr  string       `json:"last_error,omitempty"`
	entryID  cron.EntryID `json:"-"`
}

// Scheduler runs the monthly issue-cycle jobs, most importantly the
// research prefetch that fills the topic cache before the operator
// opens the tool.
type Scheduler struct {
	cron     *cron.Cron
	store    *persist.Store
	research research.Collaborator
	jobs     map[string]*Job
	mu       sync.RWMutex
}

func NewScheduler(store *persist.Store, collaborator research.Collaborator) *Scheduler {
	return &Scheduler{
		cron:     cron.New(cron.WithSeconds()),
		store:    store,
		research: collaborator,
		jobs:     make(map[string]*Job),
	}
}

// normalizeCron prepends "0 " to standard 5-field cron expressions
// so they work with the 6-field (with seconds) parser.
func normalizeCron(schedule string) string {
	if len(strings.Fields(schedule)) == 5 {
		return "0 " + schedule
	}
	return schedule
}

// Start registers the research prefetch on the given schedule (empty
// disables it) and starts the scheduler.
func (s *Scheduler) Start(prefetchSchedule string) error {
	if prefetchSchedule != "" {
		if _, err := s.AddJob("research-prefetch", prefetchSchedule, s.runPrefetch); err != nil {
			return err
		}
	}

	s.cron.Start()
	logger.Info("[CRON] scheduler started with %d jobs", len(s.jobs))
	return nil
}

// Stop stops the scheduler and waits for in-flight jobs.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	logger.Info("[CRON] scheduler stopped")
}

// AddJob schedules a named function.
func (s *Scheduler) AddJob(name, schedule string, fn func()) (*Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	job := &Job{
		ID:       uuid.NewString(),
		Name:     name,
		Schedule: schedule,
	}

	entryID, err := s.cron.AddFunc(normalizeCron(schedule), func() {
		now := time.Now().UTC()

		defer func() {
			if r := recover(); r != nil {
				logger.Error("[CRON] job %s panicked: %v", name, r)
			}
		}()

		fn()

		s.mu.Lock()
		job.LastRun = &now
		s.mu.Unlock()
	})
	if err != nil {
		return nil, fmt.Errorf("failed to schedule %s: %w", name, err)
	}

	job.entryID = entryID
	s.jobs[job.ID] = job
	return job, nil
}

// ListJobs returns all registered jobs.
func (s *Scheduler) ListJobs() []*Job {
	s.mu.RLock()
	defer s.mu.RUnlock()

	jobs := make([]*Job, 0, len(s.jobs))
	for _, job := range s.jobs {
		jobs = append(jobs, job)
	}
	return jobs
}

// RemoveJob unschedules a job by id.
func (s *Scheduler) RemoveJob(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, ok := s.jobs[id]
	if !ok {
		return fmt.Errorf("job not found: %s", id)
	}
	s.cron.Remove(job.entryID)
	delete(s.jobs, id)
	return nil
}

// runPrefetch refreshes the topic cache so the next issue starts from
// current research.
func (s *Scheduler) runPrefetch() {
	ctx, cancel := context.WithTimeout(context.Background(), prefetchTimeout)
	defer cancel()

	logger.Info("[CRON] research prefetch starting")

	topics, err := s.research.Topics(ctx)
	if err != nil {
		logger.Error("[CRON] topic prefetch failed: %v", err)
		s.recordError("research-prefetch", err)
		return
	}

	roundup, err := s.research.Roundup(ctx)
	if err != nil {
		// Topics alone are still worth caching.
		logger.Warn("[CRON] roundup prefetch failed: %v", err)
	}

	cache := &persist.TopicCache{
		FetchedAt: time.Now().UTC(),
		Topics:    topics,
		Roundup:   roundup,
	}
	if err := s.store.SaveTopicCache(cache); err != nil {
		logger.Error("[CRON] failed to save topic cache: %v", err)
		s.recordError("research-prefetch", err)
		return
	}

	logger.Info("[CRON] research prefetch done: %d topics, %d roundup items",
		len(topics), len(roundup))
}

func (s *Scheduler) recordError(name string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, job := range s.jobs {
		if job.Name == name {
			job.LastErr = err.Error()
		}
	}
}
