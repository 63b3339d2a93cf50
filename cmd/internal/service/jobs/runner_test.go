package jobs

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type blockingJob struct {
	runs    atomic.Int32
	release chan struct{}
}

func (j *blockingJob) Name() string     { return "blocking" }
func (j *blockingJob) Schedule() string { return "@every 1s" }

func (j *blockingJob) Run(ctx context.Context) error {
	j.runs.Add(1)
	select {
	case <-j.release:
	case <-ctx.Done():
	}
	return nil
}

func TestRunner_SkipsOverlappingRuns(t *testing.T) {
	job := &blockingJob{release: make(chan struct{})}
	r := NewRunner(job)

	done := make(chan struct{})
	go func() {
		defer close(done)
		r.runOnce(context.Background(), job)
	}()

	require.Eventually(t, func() bool { return job.runs.Load() == 1 }, time.Second, 10*time.Millisecond)

	// The first run still holds the job.
	r.runOnce(context.Background(), job)
	assert.Equal(t, int32(1), job.runs.Load())

	close(job.release)
	<-done

	go r.runOnce(context.Background(), job)
	require.Eventually(t, func() bool { return job.runs.Load() == 2 }, time.Second, 10*time.Millisecond)
}

func TestRunner_StopsWithContext(t *testing.T) {
	job := &blockingJob{release: make(chan struct{})}
	close(job.release)
	r := NewRunner(job)

	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() { errc <- r.Start(ctx) }()

	cancel()
	select {
	case err := <-errc:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("runner did not stop")
	}
}

func TestRunner_InvalidSchedule(t *testing.T) {
	r := NewRunner(NewNewsPublisher(&stubPublisher{}, "every now and then"))
	assert.Error(t, r.Start(context.Background()))
}

type stubPublisher struct {
	count int64
	err   error
}

func (s *stubPublisher) PublishDue(context.Context) (int64, error) {
	return s.count, s.err
}

func TestNewsPublisher_Run(t *testing.T) {
	assert.NoError(t, NewNewsPublisher(&stubPublisher{count: 3}, "@every 1m").Run(context.Background()))

	failing := NewNewsPublisher(&stubPublisher{err: errors.New("db down")}, "@every 1m")
	assert.EqualError(t, failing.Run(context.Background()), "db down")
	assert.Equal(t, "@every 1m", failing.Schedule())
}
