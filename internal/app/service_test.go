package app

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

type fakeService struct {
	name     string
	startErr error
	stopErr  error
	block    bool

	mu      sync.Mutex
	log     *[]string
}

func (f *fakeService) Name() string { return f.name }

func (f *fakeService) Start(ctx context.Context) error {
	if f.block {
		<-ctx.Done()
		return nil
	}
	return f.startErr
}

func (f *fakeService) Stop(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	*f.log = append(*f.log, f.name)
	return f.stopErr
}

func TestRunnerStopsInReverseOrderOnCancel(t *testing.T) {
	var order []string
	first := &fakeService{name: "http", block: true, log: &order}
	second := &fakeService{name: "worker", block: true, log: &order}
	runner := NewRunner(first, nil, second)
	if len(runner.Services()) != 2 {
		t.Fatalf("nil services should be dropped, got %d", len(runner.Services()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if err := runner.Run(ctx, time.Second, nil); err != nil {
		t.Fatalf("cancelled run should return nil, got %v", err)
	}
	if len(order) != 2 || order[0] != "worker" || order[1] != "http" {
		t.Fatalf("unexpected stop order: %v", order)
	}
}

func TestRunnerReturnsStartAndStopErrors(t *testing.T) {
	var order []string
	boom := errors.New("listen failed")
	stopFail := errors.New("drain failed")
	failing := &fakeService{name: "http", startErr: boom, log: &order}
	other := &fakeService{name: "worker", block: true, stopErr: stopFail, log: &order}

	err := NewRunner(failing, other).Run(context.Background(), time.Second, nil)
	if !errors.Is(err, boom) || !errors.Is(err, stopFail) {
		t.Fatalf("expected joined start and stop errors, got %v", err)
	}
}

func TestRunnerWithoutServices(t *testing.T) {
	if err := NewRunner().Run(context.Background(), time.Second, nil); err == nil {
		t.Fatalf("expected error for empty runner")
	}
	if _, _, err := BuildRunner(nil, nil, ModeAll); err == nil {
		t.Fatalf("expected error for nil config")
	}
}
