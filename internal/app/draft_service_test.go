package app

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

type countingFlusher struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (f *countingFlusher) Flush(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.err
}

func (f *countingFlusher) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type countingCloser struct {
	closed int
}

func (c *countingCloser) Close() error {
	c.closed++
	return nil
}

func TestDraftServiceFlushesOnStop(t *testing.T) {
	flusher := &countingFlusher{}
	closer := &countingCloser{}
	svc := NewDraftService(flusher, 0, closer)

	ctx, cancel := context.WithCancel(context.Background())
	go func() { _ = svc.Start(ctx) }()
	cancel()

	if err := svc.Stop(context.Background()); err != nil {
		t.Fatalf("stop failed: %v", err)
	}
	if flusher.count() != 1 || closer.closed != 1 {
		t.Fatalf("expected one flush and one close, got flush=%d close=%d", flusher.count(), closer.closed)
	}
}

func TestDraftServicePeriodicFlush(t *testing.T) {
	flusher := &countingFlusher{}
	svc := NewDraftService(flusher, 5*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	go func() { _ = svc.Start(ctx) }()
	deadline := time.Now().Add(time.Second)
	for flusher.count() < 2 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	cancel()
	if flusher.count() < 2 {
		t.Fatalf("expected periodic flushes, got %d", flusher.count())
	}

	flusher.mu.Lock()
	flusher.err = errors.New("disk full")
	flusher.mu.Unlock()
	if err := svc.Stop(context.Background()); err == nil {
		t.Fatalf("final flush error should be reported")
	}
}

type stubService struct {
	name    string
	started chan struct{}
	stopped bool
	err     error
}

func (s *stubService) Name() string { return s.name }

func (s *stubService) Start(ctx context.Context) error {
	close(s.started)
	if s.err != nil {
		return s.err
	}
	<-ctx.Done()
	return nil
}

func (s *stubService) Stop(context.Context) error {
	s.stopped = true
	return nil
}

func TestRunnerStopsAllServicesOnFailure(t *testing.T) {
	healthy := &stubService{name: "http", started: make(chan struct{})}
	failing := &stubService{name: "worker", started: make(chan struct{}), err: errors.New("boom")}

	err := NewRunner(healthy, failing).Run(context.Background(), time.Second, nil)
	if err == nil || err.Error() != "boom" {
		t.Fatalf("expected boom, got %v", err)
	}
	if !healthy.stopped || !failing.stopped {
		t.Fatalf("every service should be stopped")
	}
}
