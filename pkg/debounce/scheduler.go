package debounce

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var schedulerDepth = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "motoscoot_scheduler_pending_jobs",
	Help: "The current number of derivation jobs waiting to be applied",
})

// Scheduler runs submitted jobs one at a time, in submission order, on a
// single background goroutine. The visible input updates synchronously
// elsewhere; the expensive derivation submitted here may lag behind under
// load, which Busy exposes so the UI can show a transitional state. Jobs are
// never dropped and never reordered while the scheduler is open.
type Scheduler struct {
	mu     sync.Mutex
	cond   *sync.Cond
	queue  []func()
	busy   bool
	closed bool
	done   chan struct{}
}

func NewScheduler() *Scheduler {
	s := &Scheduler{done: make(chan struct{})}
	s.cond = sync.NewCond(&s.mu)
	go s.run()
	return s
}

// Submit enqueues a job. Submissions after Close are discarded; disposal
// ends the ordering contract.
func (s *Scheduler) Submit(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.queue = append(s.queue, fn)
	schedulerDepth.Set(float64(len(s.queue)))
	s.cond.Signal()
}

// Busy reports whether a job is queued or running. This is the isFiltering
// flag of the render contract.
func (s *Scheduler) Busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.busy || len(s.queue) > 0
}

// Close stops the worker after the job in flight, discarding queued jobs,
// and blocks until the worker goroutine has exited.
func (s *Scheduler) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.queue = nil
	schedulerDepth.Set(0)
	s.cond.Signal()
	s.mu.Unlock()
	<-s.done
}

func (s *Scheduler) run() {
	defer close(s.done)
	for {
		s.mu.Lock()
		for len(s.queue) == 0 && !s.closed {
			s.cond.Wait()
		}
		if s.closed {
			s.mu.Unlock()
			return
		}
		job := s.queue[0]
		s.queue = s.queue[1:]
		s.busy = true
		schedulerDepth.Set(float64(len(s.queue)))
		s.mu.Unlock()

		job()

		s.mu.Lock()
		s.busy = false
		s.mu.Unlock()
	}
}
