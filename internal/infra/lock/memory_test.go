package lock

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestMemoryLocker_SerializesSameKey(t *testing.T) {
	l := NewMemoryLocker()
	key := BookingKey(1, "2024-06-10")

	var inside int32
	var maxInside int32
	var wg sync.WaitGroup

	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			release, err := l.Acquire(context.Background(), key)
			if err != nil {
				t.Errorf("acquire: %v", err)
				return
			}
			n := atomic.AddInt32(&inside, 1)
			for {
				m := atomic.LoadInt32(&maxInside)
				if n <= m || atomic.CompareAndSwapInt32(&maxInside, m, n) {
					break
				}
			}
			time.Sleep(time.Millisecond)
			atomic.AddInt32(&inside, -1)
			release()
		}()
	}
	wg.Wait()

	if maxInside != 1 {
		t.Fatalf("expected at most one holder, saw %d", maxInside)
	}
	if len(l.locks) != 0 {
		t.Fatalf("expected lock table to be empty, got %d", len(l.locks))
	}
}

func TestMemoryLocker_DifferentKeysDoNotBlock(t *testing.T) {
	l := NewMemoryLocker()

	rel1, err := l.Acquire(context.Background(), BookingKey(1, "2024-06-10"))
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}
	defer rel1()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	rel2, err := l.Acquire(ctx, BookingKey(2, "2024-06-10"))
	if err != nil {
		t.Fatalf("other barber must not wait: %v", err)
	}
	rel2()
}

func TestMemoryLocker_ContextCancel(t *testing.T) {
	l := NewMemoryLocker()
	key := BookingKey(1, "2024-06-10")

	rel, err := l.Acquire(context.Background(), key)
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, err := l.Acquire(ctx, key); !errors.Is(err, ErrLockTimeout) || !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected lock timeout while key is held, got %v", err)
	}

	cctx, ccancel := context.WithCancel(context.Background())
	ccancel()
	if _, err := l.Acquire(cctx, key); !errors.Is(err, context.Canceled) || errors.Is(err, ErrLockTimeout) {
		t.Fatalf("expected plain cancellation, got %v", err)
	}

	rel()
	rel() // release is idempotent

	rel3, err := l.Acquire(context.Background(), key)
	if err != nil {
		t.Fatalf("acquire after release: %v", err)
	}
	rel3()
}

func TestAcquireAll_DedupesAndOrders(t *testing.T) {
	keys := sortedUnique([]string{"b", "a", "b"})
	if len(keys) != 2 || keys[0] != "a" || keys[1] != "b" {
		t.Fatalf("unexpected keys %v", keys)
	}

	l := NewMemoryLocker()
	release, err := AcquireAll(context.Background(), l, "booking:1:x", "booking:1:x")
	if err != nil {
		t.Fatalf("acquire all: %v", err)
	}
	release()
}
