package game

import (
	"time"

	"github.com/Sonar-Arts/Stonebreak-sub003/internal/config"
)

// FPSLimiter provides high-precision frame rate limiting with a hybrid
// sleep/spin approach.
type FPSLimiter struct {
	next time.Time
}

func NewFPSLimiter() *FPSLimiter {
	return &FPSLimiter{}
}

// Wait blocks until the next frame slot based on the configured limit.
func (f *FPSLimiter) Wait(paused bool) {
	limit := config.GetFPSLimit()
	if paused && (limit <= 0 || limit > 60) {
		limit = 60
	}
	if limit <= 0 {
		f.next = time.Time{}
		return
	}

	target := time.Second / time.Duration(limit)
	if f.next.IsZero() {
		f.next = time.Now().Add(target)
	} else {
		f.next = f.next.Add(target)
	}

	for {
		remaining := time.Until(f.next)
		if remaining <= 0 {
			break
		}
		if remaining > 200*time.Microsecond {
			time.Sleep(remaining - 200*time.Microsecond)
		}
		// spin the final stretch for precision on high caps
		if time.Until(f.next) <= 0 {
			break
		}
	}

	// after a hitch, resync instead of accumulating debt
	if late := -time.Until(f.next); late > target {
		f.next = time.Now().Add(target)
	}
}
