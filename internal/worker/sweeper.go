// Package worker runs the app's background housekeeping loops.
package worker

import (
	"context"
	"log/slog"
	"time"
)

// Sweeper calls fn on a fixed interval until ctx is cancelled.
type Sweeper struct {
	Name     string
	Interval time.Duration
	Fn       func() int
	Log      *slog.Logger
}

func (s Sweeper) Run(ctx context.Context) {
	if s.Interval <= 0 || s.Fn == nil {
		return
	}

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.Log.Info("sweeper stopped", "name", s.Name)
			return
		case <-ticker.C:
			if n := s.Fn(); n > 0 {
				s.Log.Debug("swept", "name", s.Name, "removed", n)
			}
		}
	}
}
