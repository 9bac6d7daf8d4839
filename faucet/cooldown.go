package faucet

import (
	"fmt"
	"sync"
	"time"
)

// FormatCooldown renders seconds as m:ss.
func FormatCooldown(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}

type tickerFunc func(d time.Duration) (<-chan time.Time, func())

func newTimeTicker(d time.Duration) (<-chan time.Time, func()) {
	t := time.NewTicker(d)
	return t.C, t.Stop
}

// cooldownTimer calls onTick once per tick until stopped.
type cooldownTimer struct {
	stopTicker func()
	done       chan struct{}
	once       sync.Once
}

func startCooldownTimer(newTicker tickerFunc, d time.Duration, onTick func(*cooldownTimer)) *cooldownTimer {
	c, stop := newTicker(d)
	t := &cooldownTimer{
		stopTicker: stop,
		done:       make(chan struct{}),
	}
	go func() {
		for {
			select {
			case <-t.done:
				return
			case <-c:
				onTick(t)
			}
		}
	}()
	return t
}

func (t *cooldownTimer) Stop() {
	t.once.Do(func() {
		t.stopTicker()
		close(t.done)
	})
}

func (t *cooldownTimer) Stopped() bool {
	select {
	case <-t.done:
		return true
	default:
		return false
	}
}
