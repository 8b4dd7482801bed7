package limiter

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestLimiterBound(t *testing.T) {
	for _, capacity := range []int{1, 3, 10} {
		lim := New(capacity)
		var inFlight atomic.Int64
		var maxInFlight atomic.Int64
		var wg sync.WaitGroup
		for i := 0; i < capacity*10; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if err := lim.Acquire(context.Background()); err != nil {
					t.Errorf("unexpected acquire error: %v", err)
					return
				}
				defer lim.Release()
				current := inFlight.Add(1)
				for {
					observed := maxInFlight.Load()
					if current <= observed || maxInFlight.CompareAndSwap(observed, current) {
						break
					}
				}
				time.Sleep(time.Millisecond)
				inFlight.Add(-1)
			}()
		}
		wg.Wait()
		if got := maxInFlight.Load(); got > int64(capacity) {
			t.Errorf("capacity %d: observed %d concurrent holders", capacity, got)
		}
	}
}

func TestLimiterAcquireRespectsContext(t *testing.T) {
	lim := New(1)
	if err := lim.Acquire(context.Background()); err != nil {
		t.Fatalf("first acquire failed: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if err := lim.Acquire(ctx); err == nil {
		t.Fatal("expected acquire on a full limiter to fail once ctx is done")
	}
	lim.Release()
	if err := lim.Acquire(context.Background()); err != nil {
		t.Fatalf("acquire after release failed: %v", err)
	}
}

func TestLimiterReleaseWithoutAcquirePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic")
		}
	}()
	New(2).Release()
}
