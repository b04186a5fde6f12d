// Copyright (C) 2026 hades-rt.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.
package scheduler

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/hades-rt/hades-core/pkg/log"
)

// TaskStatus mirrors spec §4.8's continuous-user-task status set.
type TaskStatus int

const (
	TaskStop TaskStatus = iota
	TaskPause
	TaskRunning
	TaskError
)

func (s TaskStatus) String() string {
	switch s {
	case TaskStop:
		return "STOP"
	case TaskPause:
		return "PAUSE"
	case TaskRunning:
		return "RUNNING"
	case TaskError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// TaskFunc is a continuous user task's body.
type TaskFunc func(ctx context.Context) error

// task tracks one registered continuous task's mutable status.
type task struct {
	mu     sync.Mutex
	name   string
	period time.Duration
	status TaskStatus
	paused bool
}

func (t *task) setStatus(s TaskStatus) {
	t.mu.Lock()
	t.status = s
	t.mu.Unlock()
}

func (t *task) Status() TaskStatus {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.status
}

// Pause suspends execution; Resume lifts the suspension. Both take effect
// before the task's next scheduled invocation.
func (t *task) Pause() {
	t.mu.Lock()
	t.paused = true
	t.status = TaskPause
	t.mu.Unlock()
}

func (t *task) Resume() {
	t.mu.Lock()
	t.paused = false
	t.mu.Unlock()
}

func (t *task) isPaused() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.paused
}

// TaskPool runs continuous user tasks (spec §4.8) on a bounded worker
// pool of size N, scheduling each one's recurring invocation through
// go-co-op/gocron (the same library the teacher's taskManager wires its
// own recurring jobs through), with a semaphore capping how many task
// bodies may run concurrently across the whole pool.
type TaskPool struct {
	scheduler gocron.Scheduler
	sem       chan struct{}

	mu    sync.Mutex
	tasks map[string]*task
}

// DefaultPoolSize is the worker pool size spec §4.8 defaults to.
const DefaultPoolSize = 10

// NewTaskPool constructs a TaskPool with the given bound (DefaultPoolSize
// if n <= 0).
func NewTaskPool(n int) (*TaskPool, error) {
	if n <= 0 {
		n = DefaultPoolSize
	}
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}
	return &TaskPool{
		scheduler: s,
		sem:       make(chan struct{}, n),
		tasks:     make(map[string]*task),
	}, nil
}

// Register adds a continuous task with the given period. After each
// invocation the task sleeps max(0, period-elapsed); if elapsed exceeded
// period, a warning is logged (spec §4.8).
func (p *TaskPool) Register(name string, period time.Duration, fn TaskFunc) error {
	t := &task{name: name, period: period, status: TaskStop}

	p.mu.Lock()
	p.tasks[name] = t
	p.mu.Unlock()

	_, err := p.scheduler.NewJob(
		gocron.DurationJob(period),
		gocron.NewTask(func() {
			if t.isPaused() {
				return
			}

			select {
			case p.sem <- struct{}{}:
			default:
				log.Warnf("task pool: %q waiting for a free worker slot", name)
				p.sem <- struct{}{}
			}
			defer func() { <-p.sem }()

			t.setStatus(TaskRunning)
			start := time.Now()

			if err := runTask(fn); err != nil {
				t.setStatus(TaskError)
				log.Errorf("task pool: task %q failed: %v", name, err)
				return
			}

			elapsed := time.Since(start)
			if elapsed > period {
				log.Warnf("task pool: task %q took %s, exceeding its period %s", name, elapsed, period)
			}
			t.setStatus(TaskStop)
		}),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	return err
}

func runTask(fn TaskFunc) (err error) {
	defer func() {
		if r := recover(); r != nil {
			log.Errorf("task pool: recovered panic: %v\n%s", r, debug.Stack())
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return fn(context.Background())
}

// Status reports a registered task's current status.
func (p *TaskPool) Status(name string) (TaskStatus, bool) {
	p.mu.Lock()
	t, ok := p.tasks[name]
	p.mu.Unlock()
	if !ok {
		return TaskStop, false
	}
	return t.Status(), true
}

// Pause/Resume a registered task by name.
func (p *TaskPool) Pause(name string) {
	p.mu.Lock()
	t, ok := p.tasks[name]
	p.mu.Unlock()
	if ok {
		t.Pause()
	}
}

func (p *TaskPool) Resume(name string) {
	p.mu.Lock()
	t, ok := p.tasks[name]
	p.mu.Unlock()
	if ok {
		t.Resume()
	}
}

// Start begins running every registered task on its schedule.
func (p *TaskPool) Start() {
	p.scheduler.Start()
}

// Shutdown stops the scheduler and waits for in-flight task bodies to
// return.
func (p *TaskPool) Shutdown() error {
	return p.scheduler.Shutdown()
}
