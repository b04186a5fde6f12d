// Copyright (C) 2026 hades-rt.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package datalogger implements the Data Logger (spec §4.3): batched
// persistence of tag samples into a Store, with a bounded buffer between
// the CVT's write path and the logger's own ticker-driven worker.
package datalogger

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/hades-rt/hades-core/internal/cvt"
	"github.com/hades-rt/hades-core/internal/notify"
	"github.com/hades-rt/hades-core/internal/store"
	"github.com/hades-rt/hades-core/internal/telemetry"
	"github.com/hades-rt/hades-core/pkg/log"
)

// DefaultQueueCapacity bounds the buffer between Sample and the next flush.
// Exceeding it drops the oldest pending sample and logs a warning.
const DefaultQueueCapacity = 4096

// Logger is a cvt.Sampler that buffers samples and flushes them to a Store
// on a delay/period ticker, matching spec §4.3 exactly: delay seconds after
// start, then every period seconds, one batched insert per cycle.
type Logger struct {
	store    Store
	notifier notify.Sink

	mu    sync.Mutex
	queue []store.TagSample
	cap   int

	delay  time.Duration
	period time.Duration

	limiter *rate.Limiter

	done chan struct{}
}

// TagsLoggedEvent is the payload published on notify.EventTagsLogging
// after a batch of samples is durably persisted (spec §6).
type TagsLoggedEvent struct {
	Count     int
	TagNames  []string
	Timestamp time.Time
}

// Store is the subset of store.Store the Data Logger depends on.
type Store interface {
	InsertTagSamples(ctx context.Context, samples []store.TagSample) error
}

// New constructs a Logger. delay and period are the spec §6 config file's
// `db.sample_time`/`db.init_delay` fields (period/delay respectively).
func New(s Store, delay, period time.Duration) *Logger {
	if period <= 0 {
		period = time.Second
	}
	return &Logger{
		store:    s,
		notifier: notify.Noop{},
		cap:      DefaultQueueCapacity,
		delay:    delay,
		period:   period,
		// On a transient failure we back off before the next retry
		// instead of hammering the store every tick.
		limiter: rate.NewLimiter(rate.Every(period), 1),
		done:    make(chan struct{}),
	}
}

// SetNotifier replaces the Sink a successful flush publishes
// notify.EventTagsLogging through.
func (l *Logger) SetNotifier(n notify.Sink) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.notifier = n
}

// Sample implements cvt.Sampler. It is called synchronously from within
// WriteTag's post-unlock section (internal/cvt), so it must never block.
func (l *Logger) Sample(tagName string, value cvt.TagValue) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.queue) >= l.cap {
		dropped := l.queue[0]
		l.queue = l.queue[1:]
		log.Warnf("data logger: queue full, dropping oldest sample for tag %q", dropped.TagName)
	}

	l.queue = append(l.queue, store.TagSample{
		TagName:   tagName,
		Value:     value.Value,
		Timestamp: value.SourceTimestamp,
	})
	telemetry.DataLoggerQueueDepth.Set(float64(len(l.queue)))
}

// Run blocks, flushing on the delay/period ticker until ctx is cancelled.
// Cancellation is cooperative: Run checks ctx at every tick boundary, per
// spec §5's "process-wide stop flag" model realized with context.Context.
func (l *Logger) Run(ctx context.Context) {
	defer close(l.done)

	timer := time.NewTimer(l.delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return
	case <-timer.C:
	}

	l.flush(ctx)

	ticker := time.NewTicker(l.period)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			l.flush(ctx)
		}
	}
}

// flush drains the pending queue and inserts it in one batch. On a
// transient Store failure the batch is put back at the front of the queue
// (rolled back, in spec §4.3's words) and retried next cycle, rate-limited
// so a persistently failing store doesn't spin.
func (l *Logger) flush(ctx context.Context) {
	l.mu.Lock()
	if len(l.queue) == 0 {
		l.mu.Unlock()
		return
	}
	batch := l.queue
	l.queue = nil
	l.mu.Unlock()
	telemetry.DataLoggerQueueDepth.Set(0)

	if !l.limiter.Allow() {
		l.requeue(batch)
		return
	}

	flushCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := l.store.InsertTagSamples(flushCtx, batch); err != nil {
		log.Warnf("data logger: flush failed, rolling back batch of %d samples: %v", len(batch), err)
		l.requeue(batch)
		return
	}

	l.mu.Lock()
	notifier := l.notifier
	l.mu.Unlock()
	notifier.Publish(notify.EventTagsLogging, TagsLoggedEvent{
		Count:     len(batch),
		TagNames:  tagNames(batch),
		Timestamp: time.Now(),
	})
}

// tagNames returns the distinct tag names present in batch, in first-seen
// order, for the TagsLoggedEvent payload.
func tagNames(batch []store.TagSample) []string {
	seen := make(map[string]struct{}, len(batch))
	names := make([]string, 0, len(batch))
	for _, s := range batch {
		if _, ok := seen[s.TagName]; ok {
			continue
		}
		seen[s.TagName] = struct{}{}
		names = append(names, s.TagName)
	}
	return names
}

// requeue puts a failed batch back at the front of the pending queue,
// respecting the bounded capacity (oldest dropped first).
func (l *Logger) requeue(batch []store.TagSample) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.queue = append(batch, l.queue...)
	for len(l.queue) > l.cap {
		dropped := l.queue[0]
		l.queue = l.queue[1:]
		log.Warnf("data logger: queue full after rollback, dropping oldest sample for tag %q", dropped.TagName)
	}
	telemetry.DataLoggerQueueDepth.Set(float64(len(l.queue)))
}

// Wait blocks until Run has returned.
func (l *Logger) Wait() {
	<-l.done
}

// Pending reports the number of samples currently buffered, for tests and
// metrics.
func (l *Logger) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.queue)
}
