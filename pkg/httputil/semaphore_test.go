package httputil

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestSemaphoreTryAcquire(t *testing.T) {
	sem := NewSemaphore(2)

	if !sem.TryAcquire() {
		t.Error("first TryAcquire should succeed")
	}
	if !sem.TryAcquire() {
		t.Error("second TryAcquire should succeed")
	}
	if sem.TryAcquire() {
		t.Error("third TryAcquire should fail at capacity")
	}

	if sem.DroppedCount() != 1 {
		t.Errorf("DroppedCount = %d, want 1", sem.DroppedCount())
	}

	sem.Release()
	if !sem.TryAcquire() {
		t.Error("TryAcquire should succeed after Release")
	}
}

func TestSemaphoreAcquire(t *testing.T) {
	sem := NewSemaphore(1)

	if err := sem.Acquire(context.Background()); err != nil {
		t.Fatalf("first Acquire failed: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	if err := sem.Acquire(ctx); err != context.DeadlineExceeded {
		t.Errorf("expected DeadlineExceeded, got %v", err)
	}
}

func TestSemaphoreConcurrent(t *testing.T) {
	sem := NewSemaphore(10)
	var acquired atomic.Int32
	var wg sync.WaitGroup

	for range 100 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if sem.TryAcquire() {
				acquired.Add(1)
				time.Sleep(10 * time.Millisecond)
				sem.Release()
			}
		}()
	}
	wg.Wait()

	if sem.InUse() != 0 {
		t.Errorf("expected 0 in use after completion, got %d", sem.InUse())
	}
	if acquired.Load() == 0 {
		t.Error("no goroutine ever acquired a slot")
	}
}

func TestSemaphoreCounters(t *testing.T) {
	sem := NewSemaphore(5)

	if sem.Available() != 5 || sem.InUse() != 0 {
		t.Errorf("fresh semaphore: available=%d inUse=%d", sem.Available(), sem.InUse())
	}

	sem.TryAcquire()
	sem.TryAcquire()

	if sem.InUse() != 2 {
		t.Errorf("InUse = %d, want 2", sem.InUse())
	}
	if sem.Available() != 3 {
		t.Errorf("Available = %d, want 3", sem.Available())
	}
}

func TestNewSemaphoreDefaultCapacity(t *testing.T) {
	if sem := NewSemaphore(0); cap(sem.sem) != 100 {
		t.Errorf("zero capacity should default to 100, got %d", cap(sem.sem))
	}
	if sem := NewSemaphore(-5); cap(sem.sem) != 100 {
		t.Errorf("negative capacity should default to 100, got %d", cap(sem.sem))
	}
}
