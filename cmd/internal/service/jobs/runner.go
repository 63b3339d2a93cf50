package jobs

import (
	"context"
	"sync"
	"time"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/labstack/gommon/log"
	"github.com/robfig/cron"
)

// RunTimeout bounds a single run of any job.
const RunTimeout = 2 * time.Minute

type Job interface {
	Name() string
	// Schedule is a cron spec, like "@every 1m" or "0 */5 * * * *".
	Schedule() string
	Run(ctx context.Context) error
}

// Runner fires jobs on their schedules. A job still running when its next
// tick arrives is skipped for that tick.
type Runner struct {
	cron    *cron.Cron
	jobs    []Job
	running mapset.Set[string]
	mu      sync.Mutex
}

func NewRunner(jobs ...Job) *Runner {
	return &Runner{
		cron:    cron.New(),
		jobs:    jobs,
		running: mapset.NewThreadUnsafeSet[string](),
	}
}

// Start schedules every job and blocks until ctx is done.
func (r *Runner) Start(ctx context.Context) error {
	for _, job := range r.jobs {
		job := job
		if err := r.cron.AddFunc(job.Schedule(), func() { r.runOnce(ctx, job) }); err != nil {
			return err
		}
	}

	r.cron.Start()
	log.Infof("Job runner started with %d jobs", len(r.jobs))

	<-ctx.Done()
	log.Info("Stopping job runner...")
	r.cron.Stop()
	return nil
}

// runOnce runs job unless a previous run of it is still going.
func (r *Runner) runOnce(ctx context.Context, job Job) {
	if !r.acquire(job.Name()) {
		log.Warnf("job %s is still running, skipping this tick", job.Name())
		return
	}
	defer r.release(job.Name())

	runCtx, cancel := context.WithTimeout(ctx, RunTimeout)
	defer cancel()

	if err := job.Run(runCtx); err != nil {
		log.Errorf("job %s failed: %v", job.Name(), err)
	}
}

func (r *Runner) acquire(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.running.Contains(name) {
		return false
	}
	r.running.Add(name)
	return true
}

func (r *Runner) release(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.running.Remove(name)
}
