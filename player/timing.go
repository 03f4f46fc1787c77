package player

import (
	"context"
	"time"
)

// ChordDuration converts eighth notes at tempo (quarter-note BPM) to wall
// clock time: (60 / tempo) * (eighths / 2) seconds.
func ChordDuration(tempo int, eighths int) time.Duration {
	if tempo <= 0 || eighths <= 0 {
		return 0
	}
	return time.Duration(int64(eighths) * int64(time.Minute) / int64(2*tempo))
}

// waitUntil blocks until deadline or until ctx is cancelled, whichever is
// first. It reports whether the deadline was reached.
func waitUntil(ctx context.Context, deadline time.Time) bool {
	d := time.Until(deadline)
	if d <= 0 {
		return ctx.Err() == nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
