// Package thread implements §5's concurrency model: every Sentra thread is a
// goroutine wrapping its own vm.Thread (private value stack, frames, pending
// exception, handler stack), but only one goroutine at a time actually
// executes bytecode, coordinated by the Interp's GIL. Global state (the type
// registry, interned strings, Globals) stays safe to share because of that
// lock, exactly as CPython's GIL lets its C API skip per-object locking.
package thread

import (
	"fmt"
	stdruntime "runtime"
	"sync"
	"sync/atomic"
	"time"

	"sentra/internal/object"
	"sentra/internal/runtime"
	"sentra/internal/vm"
)

// Goroutine is one spawned Sentra thread: its own vm.Thread, and a result
// slot filled once Done is closed. Grounded on the teacher's WorkerPool/
// Worker split (internal/concurrency/concurrency.go) — a registry of live
// workers plus a per-worker completion channel — generalized here to GIL
// coordination instead of a buffered job queue, since Sentra threads run
// scripted functions to completion rather than draining a shared queue.
type Goroutine struct {
	ID      string
	Started time.Time

	vmt  *vm.Thread
	done chan struct{}

	Result *object.Object
	Err    *object.Object
}

// Wait blocks until g finishes and returns its outcome.
func (g *Goroutine) Wait() (*object.Object, *object.Object) {
	<-g.done
	return g.Result, g.Err
}

// Scheduler owns every live Goroutine and the Interp whose GIL serializes
// them. Its bookkeeping (Spawned/Completed/Failed counters, an RWMutex-
// guarded registry) mirrors ConcurrencyModule's Metrics/WorkerPools split in
// the teacher, scaled down from a job-queue pool manager to a thread
// registry.
type Scheduler struct {
	rt *runtime.Interp

	mu      sync.RWMutex
	running map[string]*Goroutine

	nextID int64

	Spawned   int64
	Completed int64
	Failed    int64
}

func NewScheduler(rt *runtime.Interp) *Scheduler {
	return &Scheduler{rt: rt, running: make(map[string]*Goroutine)}
}

// Spawn starts fn on a new goroutine against a fresh vm.Thread sharing this
// Interp's type registry and Globals. fn runs under the GIL — Spawn acquires
// it before calling fn and releases it when fn returns, with the vm.Thread's
// periodic Yield hook giving other spawned goroutines a turn in between,
// per §5's "VM periodically releases and reacquires [the GIL] at instruction
// boundaries".
func (s *Scheduler) Spawn(fn func(vmt *vm.Thread) (*object.Object, *object.Object)) *Goroutine {
	id := fmt.Sprintf("thread-%d", atomic.AddInt64(&s.nextID, 1))
	vmt := s.rt.NewThread()
	vmt.Yield = func() {
		s.rt.Unlock()
		stdruntime.Gosched()
		s.rt.Lock()
	}

	g := &Goroutine{ID: id, Started: time.Now(), vmt: vmt, done: make(chan struct{})}

	s.mu.Lock()
	s.running[id] = g
	atomic.AddInt64(&s.Spawned, 1)
	s.mu.Unlock()

	go func() {
		s.rt.Lock()
		result, exc := fn(vmt)
		s.rt.Unlock()

		g.Result = result
		g.Err = exc
		if exc != nil {
			atomic.AddInt64(&s.Failed, 1)
		} else {
			atomic.AddInt64(&s.Completed, 1)
		}

		s.mu.Lock()
		delete(s.running, id)
		s.mu.Unlock()

		close(g.done)
	}()

	return g
}

// RunMain runs fn synchronously against a fresh vm.Thread while holding the
// GIL, the entry point for a script's top-level execution (as opposed to a
// `spawn`-ed background thread).
func (s *Scheduler) RunMain(fn func(vmt *vm.Thread) (*object.Object, *object.Object)) (*object.Object, *object.Object) {
	vmt := s.rt.NewThread()
	vmt.Yield = func() {
		s.rt.Unlock()
		stdruntime.Gosched()
		s.rt.Lock()
	}
	s.rt.Lock()
	defer s.rt.Unlock()
	return fn(vmt)
}

// Active reports how many spawned threads have not yet finished.
func (s *Scheduler) Active() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.running)
}

// WaitAll blocks until every currently-running Goroutine has finished,
// snapshotting the registry first so threads spawned after the call don't
// extend the wait (mirrors the teacher's StopWorkerPool waiting out only the
// workers it already knows about).
func (s *Scheduler) WaitAll() {
	s.mu.RLock()
	live := make([]*Goroutine, 0, len(s.running))
	for _, g := range s.running {
		live = append(live, g)
	}
	s.mu.RUnlock()

	for _, g := range live {
		<-g.done
	}
}
