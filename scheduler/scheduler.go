// Package scheduler runs named periodic and delayed background work, such
// as pruning terminal AI tasks and video jobs past their retention window.
package scheduler

import (
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"
)

// TaskFn is a scheduled unit of work. It must not block for long; anything
// slow belongs in its own goroutine.
type TaskFn func()

// Scheduler owns a set of named recurring and one-shot tasks. Registering a
// name twice replaces the previous task.
type Scheduler struct {
	mu       sync.Mutex
	periodic map[string]chan struct{}
	oneshots map[string]*time.Timer
	done     chan struct{}
	logger   *zap.Logger
}

// New creates an empty Scheduler.
func New(logger *zap.Logger) *Scheduler {
	return &Scheduler{
		periodic: map[string]chan struct{}{},
		oneshots: map[string]*time.Timer{},
		done:     make(chan struct{}),
		logger:   logger,
	}
}

// run executes fn with panic containment so one bad tick cannot take the
// scheduler loop down.
func (s *Scheduler) run(name string, fn TaskFn) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("scheduled task panicked",
				zap.String("task", name), zap.Any("recover", r))
		}
	}()
	fn()
}

// AddTicker runs fn every interval until the task is removed or the
// scheduler stops.
func (s *Scheduler) AddTicker(name string, interval time.Duration, fn TaskFn) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if prev, ok := s.periodic[name]; ok {
		close(prev)
	}
	stop := make(chan struct{})
	s.periodic[name] = stop

	go func() {
		tk := time.NewTicker(interval)
		defer tk.Stop()
		for {
			select {
			case <-tk.C:
				s.run(name, fn)
			case <-stop:
				return
			case <-s.done:
				return
			}
		}
	}()
	s.logger.Info("periodic task registered",
		zap.String("name", name), zap.Duration("interval", interval))
}

// AddDelay runs fn once after delay. The name is freed when it fires.
func (s *Scheduler) AddDelay(name string, delay time.Duration, fn TaskFn) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if prev, ok := s.oneshots[name]; ok {
		prev.Stop()
	}
	s.oneshots[name] = time.AfterFunc(delay, func() {
		defer func() {
			s.mu.Lock()
			delete(s.oneshots, name)
			s.mu.Unlock()
		}()
		s.run(name, fn)
	})
}

// Remove cancels the named task, periodic or one-shot.
func (s *Scheduler) Remove(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if stop, ok := s.periodic[name]; ok {
		close(stop)
		delete(s.periodic, name)
	}
	if tm, ok := s.oneshots[name]; ok {
		tm.Stop()
		delete(s.oneshots, name)
	}
}

// Stop halts every task. Safe to call more than once.
func (s *Scheduler) Stop() {
	select {
	case <-s.done:
	default:
		close(s.done)
	}
}

// ListTickers returns the registered periodic task names, sorted.
func (s *Scheduler) ListTickers() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	names := make([]string, 0, len(s.periodic))
	for name := range s.periodic {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
