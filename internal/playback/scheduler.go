// Package playback drives timed advancement through chunk sequences.
package playback

import (
	"sync"
	"time"
)

// CancelFunc stops a scheduled callback. Safe to call more than once.
type CancelFunc func()

// Scheduler delivers a repeating callback at a fixed interval until the
// returned CancelFunc runs.
type Scheduler interface {
	Schedule(interval time.Duration, fn func()) CancelFunc
}

// TimerScheduler schedules repeating callbacks on wall-clock time.
type TimerScheduler struct{}

// Schedule implements Scheduler by rechaining time.AfterFunc. After cancel
// returns, no further callbacks fire.
func (TimerScheduler) Schedule(interval time.Duration, fn func()) CancelFunc {
	var (
		mu       sync.Mutex
		timer    *time.Timer
		canceled bool
	)
	var arm func()
	arm = func() {
		mu.Lock()
		defer mu.Unlock()
		if canceled {
			return
		}
		timer = time.AfterFunc(interval, func() {
			mu.Lock()
			dead := canceled
			mu.Unlock()
			if dead {
				return
			}
			fn()
			arm()
		})
	}
	arm()
	return func() {
		mu.Lock()
		defer mu.Unlock()
		canceled = true
		if timer != nil {
			timer.Stop()
		}
	}
}
