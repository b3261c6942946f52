package sweep

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// WeeklyAt pins a schedule to a fixed weekday and hour instead of an interval.
type WeeklyAt struct {
	Weekday time.Weekday
	Hour    int
}

func (w WeeklyAt) next(now time.Time) time.Time {
	t := time.Date(now.Year(), now.Month(), now.Day(), w.Hour, 0, 0, 0, now.Location())
	days := (int(w.Weekday) - int(now.Weekday()) + 7) % 7
	t = t.AddDate(0, 0, days)
	if !t.After(now) {
		t = t.AddDate(0, 0, 7)
	}
	return t
}

// Schedule is one recurring job. Either Every or Weekly must be set.
type Schedule struct {
	Name   string
	Every  time.Duration
	Weekly *WeeklyAt
	Run    func(ctx context.Context) error
}

// Scheduler drives the sweep jobs on their tickers until the context ends.
// Job errors are logged and never stop the loop.
type Scheduler struct {
	schedules []Schedule
	log       *slog.Logger
	wg        sync.WaitGroup
}

func NewScheduler(log *slog.Logger) *Scheduler {
	return &Scheduler{log: log}
}

func (s *Scheduler) Add(sch Schedule) {
	s.schedules = append(s.schedules, sch)
}

// Start launches one goroutine per schedule and returns immediately.
// Interval jobs run once up front so a restarted sweeper catches up without
// waiting a full period.
func (s *Scheduler) Start(ctx context.Context) {
	for _, sch := range s.schedules {
		s.wg.Add(1)
		go func(sch Schedule) {
			defer s.wg.Done()
			if sch.Weekly != nil {
				s.runWeekly(ctx, sch)
				return
			}
			s.runInterval(ctx, sch)
		}(sch)
	}
}

// Wait blocks until every schedule loop has exited.
func (s *Scheduler) Wait() {
	s.wg.Wait()
}

func (s *Scheduler) runInterval(ctx context.Context, sch Schedule) {
	s.runOnce(ctx, sch)

	ticker := time.NewTicker(sch.Every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.runOnce(ctx, sch)
		}
	}
}

func (s *Scheduler) runWeekly(ctx context.Context, sch Schedule) {
	for {
		wait := time.Until(sch.Weekly.next(time.Now()))
		timer := time.NewTimer(wait)

		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
			s.runOnce(ctx, sch)
		}
	}
}

func (s *Scheduler) runOnce(ctx context.Context, sch Schedule) {
	if err := sch.Run(ctx); err != nil {
		if ctx.Err() != nil {
			return
		}
		s.log.Error("sweep job failed", "job", sch.Name, "error", err)
	}
}
