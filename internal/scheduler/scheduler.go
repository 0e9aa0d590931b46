// Package scheduler runs background jobs on cron schedules and keeps their run history.
package scheduler

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// Job represents a scheduled job
type Job interface {
	Run() error
	Name() string
}

// JobStatus is the run history of one job
type JobStatus struct {
	Name         string     `json:"name"`
	Schedule     string     `json:"schedule,omitempty"` // empty for jobs only ever run manually
	Runs         int        `json:"runs"`
	Failures     int        `json:"failures"`
	LastRun      *time.Time `json:"last_run,omitempty"`
	LastDuration string     `json:"last_duration,omitempty"`
	LastError    string     `json:"last_error,omitempty"`
	NextRun      *time.Time `json:"next_run,omitempty"`

	entryID cron.EntryID
}

// Scheduler runs jobs with a seconds-resolution cron. A job still running when
// its next tick fires is skipped for that tick.
type Scheduler struct {
	cron *cron.Cron
	log  zerolog.Logger

	mu     sync.Mutex
	status map[string]*JobStatus
}

// New creates a new scheduler
func New(log zerolog.Logger) *Scheduler {
	return &Scheduler{
		cron:   cron.New(cron.WithSeconds(), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		log:    log.With().Str("component", "scheduler").Logger(),
		status: make(map[string]*JobStatus),
	}
}

// Start starts the scheduler
func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.Info().Int("jobs", len(s.cron.Entries())).Msg("Scheduler started")
}

// Stop stops the scheduler and waits for running jobs
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.log.Info().Msg("Scheduler stopped")
}

// AddJob registers job under a six-field cron spec or a descriptor, e.g.
//   - "0 */10 * * * *"      every 10 minutes
//   - "0 30 15 * * MON-FRI" 15:30 on weekdays
//   - "@every 30s"
func (s *Scheduler) AddJob(schedule string, job Job) error {
	id, err := s.cron.AddFunc(schedule, func() { s.run(job) })
	if err != nil {
		return fmt.Errorf("invalid schedule %q for job %s: %w", schedule, job.Name(), err)
	}

	s.mu.Lock()
	st := s.statusLocked(job.Name())
	st.Schedule = schedule
	st.entryID = id
	s.mu.Unlock()

	s.log.Info().Str("schedule", schedule).Str("job", job.Name()).Msg("Job registered")
	return nil
}

// RunNow executes job synchronously outside its schedule and records the outcome
func (s *Scheduler) RunNow(job Job) error {
	s.log.Info().Str("job", job.Name()).Msg("Running job immediately")
	return s.execute(job)
}

// Statuses returns the history of every job seen so far, ordered by name
func (s *Scheduler) Statuses() []JobStatus {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]JobStatus, 0, len(s.status))
	for _, st := range s.status {
		cp := *st
		if st.entryID != 0 {
			if next := s.cron.Entry(st.entryID).Next; !next.IsZero() {
				cp.NextRun = &next
			}
		}
		out = append(out, cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (s *Scheduler) run(job Job) {
	if err := s.execute(job); err != nil {
		s.log.Error().Err(err).Str("job", job.Name()).Msg("Job failed")
	}
}

func (s *Scheduler) execute(job Job) error {
	start := time.Now()
	err := job.Run()
	elapsed := time.Since(start)

	s.mu.Lock()
	st := s.statusLocked(job.Name())
	st.Runs++
	st.LastRun = &start
	st.LastDuration = elapsed.Round(time.Millisecond).String()
	st.LastError = ""
	if err != nil {
		st.Failures++
		st.LastError = err.Error()
	}
	s.mu.Unlock()

	s.log.Debug().Str("job", job.Name()).Dur("duration_ms", elapsed).Bool("ok", err == nil).Msg("Job finished")
	return err
}

func (s *Scheduler) statusLocked(name string) *JobStatus {
	st, ok := s.status[name]
	if !ok {
		st = &JobStatus{Name: name}
		s.status[name] = st
	}
	return st
}
