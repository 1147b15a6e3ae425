package resilience

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestKeyedMutex_SerialisesSameKey(t *testing.T) {
	m := NewKeyedMutex()
	var inside, maxInside atomic.Int32

	const workers = 16
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			unlock, err := m.Lock(context.Background(), "match-1")
			if err != nil {
				t.Errorf("lock: %v", err)
				return
			}
			defer unlock()

			n := inside.Add(1)
			for {
				current := maxInside.Load()
				if n <= current || maxInside.CompareAndSwap(current, n) {
					break
				}
			}
			time.Sleep(time.Millisecond)
			inside.Add(-1)
		}()
	}
	wg.Wait()

	if got := maxInside.Load(); got != 1 {
		t.Fatalf("expected one holder at a time, saw %d", got)
	}
	if m.Len() != 0 {
		t.Fatalf("expected idle keys released, got %d", m.Len())
	}
}

func TestKeyedMutex_DifferentKeysDoNotBlock(t *testing.T) {
	m := NewKeyedMutex()
	unlockA, err := m.Lock(context.Background(), "match-a")
	if err != nil {
		t.Fatalf("lock a: %v", err)
	}
	defer unlockA()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	unlockB, err := m.Lock(ctx, "match-b")
	if err != nil {
		t.Fatalf("lock b blocked by a: %v", err)
	}
	unlockB()
}

func TestKeyedMutex_ContextCancel(t *testing.T) {
	m := NewKeyedMutex()
	unlock, err := m.Lock(context.Background(), "match-1")
	if err != nil {
		t.Fatalf("lock: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if _, err := m.Lock(ctx, "match-1"); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}

	unlock()
	unlock()
	if m.Len() != 0 {
		t.Fatalf("expected key released, got %d", m.Len())
	}
}
