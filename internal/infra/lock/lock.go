package lock

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"
)

var ErrLockTimeout = errors.New("booking lock not acquired")

// Locker serializes writers that share a key.
type Locker interface {
	Acquire(ctx context.Context, key string) (release func(), err error)
}

// BookingKey scopes a lock to one barber's calendar day.
func BookingKey(barberID uint, date string) string {
	return fmt.Sprintf("booking:%d:%s", barberID, date)
}

// AcquireAll takes the locks for keys in sorted order so that two callers
// locking the same pair cannot deadlock.
func AcquireAll(ctx context.Context, l Locker, keys ...string) (func(), error) {
	keys = sortedUnique(keys)

	releases := make([]func(), 0, len(keys))
	releaseAll := func() {
		for i := len(releases) - 1; i >= 0; i-- {
			releases[i]()
		}
	}

	for _, k := range keys {
		rel, err := l.Acquire(ctx, k)
		if err != nil {
			releaseAll()
			return nil, err
		}
		releases = append(releases, rel)
	}
	return releaseAll, nil
}

func sortedUnique(keys []string) []string {
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		dup := false
		for _, o := range out {
			if o == k {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}

// waitErr reports a deadline hit while waiting as ErrLockTimeout.
func waitErr(ctx context.Context) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", ErrLockTimeout, ctx.Err())
	}
	return ctx.Err()
}

func backoff(attempt int) time.Duration {
	d := time.Duration(attempt+1) * 10 * time.Millisecond
	if d > 200*time.Millisecond {
		d = 200 * time.Millisecond
	}
	return d
}
