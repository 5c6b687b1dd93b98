package game

import (
	"context"
	"time"
)

// Scheduler runs periodic tasks and one-shot timers on a virtual clock.
//
// Nothing runs on its own: time only moves when Advance is called, and every
// task body runs to completion before the next event is picked. A task whose
// gate is closed is unscheduled; when the gate opens again its first firing is
// one full interval later.
type Scheduler struct {
	now       time.Duration
	tasks     []*task
	timers    []*timer
	suspended bool
}

type task struct {
	name    string
	every   func() time.Duration
	enabled func() bool
	run     func(context.Context)
	next    time.Duration
	armed   bool
}

type timer struct {
	name string
	at   time.Duration
	left time.Duration // remaining while suspended
	run  func(context.Context)
}

// NewScheduler returns a scheduler at time zero.
func NewScheduler() *Scheduler {
	return &Scheduler{}
}

// Every registers a periodic task. The interval is read again after every
// firing so a task can change cadence while it runs.
func (s *Scheduler) Every(name string, every func() time.Duration, enabled func() bool, run func(context.Context)) {
	s.tasks = append(s.tasks, &task{name: name, every: every, enabled: enabled, run: run})
}

// After schedules run once, d from now. A pending timer with the same name is
// replaced.
func (s *Scheduler) After(name string, d time.Duration, run func(context.Context)) {
	s.Cancel(name)
	s.timers = append(s.timers, &timer{name: name, at: s.now + d, left: d, run: run})
}

// Cancel drops the pending timer with the given name, if any.
func (s *Scheduler) Cancel(name string) {
	for i, t := range s.timers {
		if t.name == name {
			s.timers = append(s.timers[:i], s.timers[i+1:]...)
			return
		}
	}
}

// Suspend stops the countdown of every timer until Resume. Timers added
// meanwhile wait too.
func (s *Scheduler) Suspend() {
	if s.suspended {
		return
	}
	s.suspended = true
	for _, t := range s.timers {
		t.left = t.at - s.now
	}
}

// Resume restarts timer countdowns from where Suspend left them.
func (s *Scheduler) Resume() {
	if !s.suspended {
		return
	}
	s.suspended = false
	for _, t := range s.timers {
		t.at = s.now + t.left
	}
}

// Sync arms tasks whose gate has opened and disarms those whose gate closed.
func (s *Scheduler) Sync() {
	for _, t := range s.tasks {
		on := t.enabled() && t.every() > 0
		switch {
		case on && !t.armed:
			t.armed = true
			t.next = s.now + t.every()
		case !on:
			t.armed = false
		}
	}
}

// Advance moves the clock forward by d, firing every event that falls due in
// time order. Timers fire before tasks due at the same instant, and tasks fire
// in registration order.
func (s *Scheduler) Advance(ctx context.Context, d time.Duration) {
	end := s.now + max(d, 0)
	for {
		s.Sync()
		tm, tk := s.due(end)
		switch {
		case tm != nil:
			s.now = tm.at
			s.Cancel(tm.name)
			tm.run(ctx)
		case tk != nil:
			s.now = tk.next
			tk.run(ctx)
			tk.next = s.now + tk.every()
		default:
			s.now = end
			s.Sync()
			return
		}
	}
}

// due picks the earliest event at or before end.
func (s *Scheduler) due(end time.Duration) (*timer, *task) {
	var tm *timer
	for _, t := range s.timers {
		if s.suspended {
			break
		}
		if t.at <= end && (tm == nil || t.at < tm.at) {
			tm = t
		}
	}
	var tk *task
	for _, t := range s.tasks {
		if t.armed && t.next <= end && (tk == nil || t.next < tk.next) {
			tk = t
		}
	}
	if tm != nil && (tk == nil || tm.at <= tk.next) {
		return tm, nil
	}
	return nil, tk
}

// Now returns the virtual time elapsed since the scheduler was created.
func (s *Scheduler) Now() time.Duration {
	return s.now
}

// Reset cancels every timer and unschedules every task. A suspended scheduler
// stays suspended.
func (s *Scheduler) Reset() {
	s.timers = nil
	for _, t := range s.tasks {
		t.armed = false
	}
}

// Pending reports whether a task or timer with the given name is scheduled.
func (s *Scheduler) Pending(name string) bool {
	for _, t := range s.timers {
		if t.name == name {
			return true
		}
	}
	for _, t := range s.tasks {
		if t.name == name && t.armed {
			return true
		}
	}
	return false
}
