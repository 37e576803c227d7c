// Package tasks runs long computations in the background with bounded
// concurrency and streams their progress to subscribers.
package tasks

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"
)

// Status is the lifecycle state of a task.
type Status string

const (
	StatusPending   Status = "pending"
	StatusRunning   Status = "running"
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
	StatusCancelled Status = "cancelled"
)

// Terminal reports whether the status is final.
func (s Status) Terminal() bool {
	return s == StatusSucceeded || s == StatusFailed || s == StatusCancelled
}

var (
	ErrNotFound    = errors.New("tasks: task not found")
	ErrNotFinished = errors.New("tasks: task has not finished")
	ErrFinished    = errors.New("tasks: task already finished")
)

const subscriberBuffer = 32

// Updater receives progress from a running task.
type Updater interface {
	SendUpdate(progress float64, message string)
}

// Func is the body of a task.
type Func func(ctx context.Context, updater Updater) (any, error)

// Event is one progress or status change.
type Event struct {
	TaskID    string    `json:"task_id"`
	Status    Status    `json:"status"`
	Progress  float64   `json:"progress"`
	Message   string    `json:"message,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Snapshot is the externally visible state of a task.
type Snapshot struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Status     Status     `json:"status"`
	Progress   float64    `json:"progress"`
	Message    string     `json:"message,omitempty"`
	Error      string     `json:"error,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	StartedAt  *time.Time `json:"started_at,omitempty"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
}

type task struct {
	snap        Snapshot
	result      any
	cancel      context.CancelFunc
	done        chan struct{}
	subscribers map[chan Event]struct{}
}

// Manager owns every submitted task.
type Manager struct {
	mu        sync.RWMutex
	tasks     map[string]*task
	sem       *semaphore.Weighted
	retention time.Duration
	logger    *slog.Logger
	now       func() time.Time

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewManager builds a manager running at most workers tasks at a time.
// Finished tasks are forgotten after retention.
func NewManager(workers int, retention time.Duration, logger *slog.Logger) *Manager {
	if workers <= 0 {
		workers = 1
	}
	if logger == nil {
		logger = slog.Default()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Manager{
		tasks:     map[string]*task{},
		sem:       semaphore.NewWeighted(int64(workers)),
		retention: retention,
		logger:    logger,
		now:       time.Now,
		ctx:       ctx,
		cancel:    cancel,
	}
}

// Submit queues fn and returns its initial snapshot.
func (m *Manager) Submit(name string, fn Func) Snapshot {
	ctx, cancel := context.WithCancel(m.ctx)
	t := &task{
		snap: Snapshot{
			ID:        uuid.NewString(),
			Name:      name,
			Status:    StatusPending,
			CreatedAt: m.now(),
		},
		cancel:      cancel,
		done:        make(chan struct{}),
		subscribers: map[chan Event]struct{}{},
	}

	m.mu.Lock()
	m.tasks[t.snap.ID] = t
	snap := t.snap
	m.mu.Unlock()

	m.logger.Info("task submitted", slog.String("task_id", snap.ID), slog.String("name", name))

	m.wg.Add(1)
	go m.run(ctx, t, fn)
	return snap
}

func (m *Manager) run(ctx context.Context, t *task, fn Func) {
	defer m.wg.Done()
	defer t.cancel()

	if err := m.sem.Acquire(ctx, 1); err != nil {
		m.finish(ctx, t, nil, err)
		return
	}
	defer m.sem.Release(1)

	m.mu.Lock()
	started := m.now()
	t.snap.Status = StatusRunning
	t.snap.StartedAt = &started
	m.publishLocked(t)
	m.mu.Unlock()

	result, err := fn(ctx, &updater{m: m, t: t})
	m.finish(ctx, t, result, err)
}

func (m *Manager) finish(ctx context.Context, t *task, result any, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	finished := m.now()
	t.snap.FinishedAt = &finished
	switch {
	case err == nil:
		t.snap.Status = StatusSucceeded
		t.snap.Progress = 100
		t.result = result
	case ctx.Err() != nil:
		t.snap.Status = StatusCancelled
		t.snap.Error = ctx.Err().Error()
	default:
		t.snap.Status = StatusFailed
		t.snap.Error = err.Error()
	}
	m.publishLocked(t)
	for ch := range t.subscribers {
		close(ch)
	}
	t.subscribers = nil
	close(t.done)

	m.logger.Info("task finished",
		slog.String("task_id", t.snap.ID),
		slog.String("status", string(t.snap.Status)),
		slog.String("error", t.snap.Error))
}

// publishLocked fans the current state out to subscribers. Slow subscribers
// miss intermediate events.
func (m *Manager) publishLocked(t *task) {
	ev := Event{
		TaskID:    t.snap.ID,
		Status:    t.snap.Status,
		Progress:  t.snap.Progress,
		Message:   t.snap.Message,
		Timestamp: m.now(),
	}
	for ch := range t.subscribers {
		select {
		case ch <- ev:
		default:
			m.logger.Warn("task subscriber is full, dropping event", slog.String("task_id", t.snap.ID))
		}
	}
}

type updater struct {
	m *Manager
	t *task
}

func (u *updater) SendUpdate(progress float64, message string) {
	u.m.mu.Lock()
	defer u.m.mu.Unlock()
	if u.t.snap.Status.Terminal() {
		return
	}
	u.t.snap.Progress = progress
	u.t.snap.Message = message
	u.m.publishLocked(u.t)
}

func (m *Manager) lookup(id string) (*task, error) {
	t, ok := m.tasks[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return t, nil
}

// Get returns the task's snapshot.
func (m *Manager) Get(id string) (Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	t, err := m.lookup(id)
	if err != nil {
		return Snapshot{}, err
	}
	return t.snap, nil
}

// Result returns the value produced by a succeeded task.
func (m *Manager) Result(id string) (any, Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	t, err := m.lookup(id)
	if err != nil {
		return nil, Snapshot{}, err
	}
	if !t.snap.Status.Terminal() {
		return nil, t.snap, fmt.Errorf("%w: %s is %s", ErrNotFinished, id, t.snap.Status)
	}
	return t.result, t.snap, nil
}

// Cancel stops a pending or running task.
func (m *Manager) Cancel(id string) error {
	m.mu.RLock()
	t, err := m.lookup(id)
	if err == nil && t.snap.Status.Terminal() {
		err = fmt.Errorf("%w: %s", ErrFinished, id)
	}
	m.mu.RUnlock()
	if err != nil {
		return err
	}
	t.cancel()
	return nil
}

// Subscribe returns a channel that first receives the current state and then
// every change. It is closed once the task finishes. The returned function
// detaches the subscriber early.
func (m *Manager) Subscribe(id string) (<-chan Event, func(), error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, err := m.lookup(id)
	if err != nil {
		return nil, nil, err
	}

	ch := make(chan Event, subscriberBuffer)
	ch <- Event{
		TaskID:    t.snap.ID,
		Status:    t.snap.Status,
		Progress:  t.snap.Progress,
		Message:   t.snap.Message,
		Timestamp: m.now(),
	}
	if t.snap.Status.Terminal() {
		close(ch)
		return ch, func() {}, nil
	}
	t.subscribers[ch] = struct{}{}

	var once sync.Once
	unsubscribe := func() {
		once.Do(func() {
			m.mu.Lock()
			defer m.mu.Unlock()
			if _, ok := t.subscribers[ch]; ok {
				delete(t.subscribers, ch)
				close(ch)
			}
		})
	}
	return ch, unsubscribe, nil
}

// Wait blocks until the task finishes or ctx is done.
func (m *Manager) Wait(ctx context.Context, id string) (Snapshot, error) {
	m.mu.RLock()
	t, err := m.lookup(id)
	m.mu.RUnlock()
	if err != nil {
		return Snapshot{}, err
	}
	select {
	case <-t.done:
		return m.Get(id)
	case <-ctx.Done():
		return Snapshot{}, ctx.Err()
	}
}

// Sweep forgets finished tasks older than the retention window and returns
// how many were removed.
func (m *Manager) Sweep() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	cutoff := m.now().Add(-m.retention)
	removed := 0
	for id, t := range m.tasks {
		if t.snap.FinishedAt != nil && t.snap.FinishedAt.Before(cutoff) {
			delete(m.tasks, id)
			removed++
		}
	}
	return removed
}

// Run sweeps periodically until ctx is cancelled.
func (m *Manager) Run(ctx context.Context) {
	interval := m.retention / 2
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := m.Sweep(); n > 0 {
				m.logger.Debug("swept finished tasks", slog.Int("count", n))
			}
		}
	}
}

// Close cancels every task and waits for them to return.
func (m *Manager) Close() {
	m.cancel()
	m.wg.Wait()
}
