// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package workers

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

// countingWorker blocks until its context is canceled and counts runs.
type countingWorker struct {
	runs atomic.Int32
}

func (c *countingWorker) Run(ctx context.Context) error {
	c.runs.Add(1)
	<-ctx.Done()
	return nil
}

func TestWorkers_Run_AllWorkersAreCalled(t *testing.T) {
	w1, w2, w3 := &countingWorker{}, &countingWorker{}, &countingWorker{}
	ws := New(w1, w2, w3)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- ws.Run(ctx) }()

	deadline := time.Now().Add(time.Second)
	for w1.runs.Load()+w2.runs.Load()+w3.runs.Load() < 3 {
		if time.Now().After(deadline) {
			t.Fatal("workers were not started")
		}
		time.Sleep(5 * time.Millisecond)
	}
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("expected clean stop, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}

	for i, w := range []*countingWorker{w1, w2, w3} {
		if got := w.runs.Load(); got != 1 {
			t.Errorf("worker[%d]: expected 1 run, got %d", i, got)
		}
	}
}

func TestWorkers_Run_Empty(t *testing.T) {
	if err := New().Run(context.Background()); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}

	var ws Workers
	if err := ws.Run(context.Background()); err != nil {
		t.Fatalf("expected nil for zero value, got %v", err)
	}
}

func TestWorkers_Run_FailureCancelsOthers(t *testing.T) {
	boom := errors.New("boom")
	blocked := &countingWorker{}

	ws := New(blocked)
	ws.Add(WorkerFunc(func(context.Context) error { return boom }))

	done := make(chan error, 1)
	go func() { done <- ws.Run(context.Background()) }()

	select {
	case err := <-done:
		if !errors.Is(err, boom) {
			t.Fatalf("expected boom, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("failing worker did not stop the group")
	}
}

func TestWorkerFunc(t *testing.T) {
	called := false
	var w Worker = WorkerFunc(func(context.Context) error {
		called = true
		return nil
	})

	if err := w.Run(context.Background()); err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if !called {
		t.Fatal("function was not called")
	}
}
