package tasks

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(t *testing.T, workers int) *Manager {
	t.Helper()
	m := NewManager(workers, time.Minute, slog.New(slog.NewTextHandler(io.Discard, nil)))
	t.Cleanup(m.Close)
	return m
}

func waitFor(t *testing.T, m *Manager, id string) Snapshot {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	snap, err := m.Wait(ctx, id)
	require.NoError(t, err)
	return snap
}

func TestSubmitSucceedsWithResult(t *testing.T) {
	m := newTestManager(t, 1)

	snap := m.Submit("double", func(ctx context.Context, u Updater) (any, error) {
		u.SendUpdate(50, "halfway")
		return 42, nil
	})
	assert.NotEmpty(t, snap.ID)

	final := waitFor(t, m, snap.ID)
	assert.Equal(t, StatusSucceeded, final.Status)
	assert.Equal(t, 100.0, final.Progress)
	assert.Equal(t, "halfway", final.Message)
	require.NotNil(t, final.StartedAt)
	require.NotNil(t, final.FinishedAt)

	result, _, err := m.Result(snap.ID)
	require.NoError(t, err)
	assert.Equal(t, 42, result)
}

func TestFailedTaskKeepsError(t *testing.T) {
	m := newTestManager(t, 1)
	snap := m.Submit("boom", func(ctx context.Context, u Updater) (any, error) {
		return nil, errors.New("boom")
	})

	final := waitFor(t, m, snap.ID)
	assert.Equal(t, StatusFailed, final.Status)
	assert.Equal(t, "boom", final.Error)
}

func TestCancelRunningTask(t *testing.T) {
	m := newTestManager(t, 1)
	started := make(chan struct{})
	snap := m.Submit("blocker", func(ctx context.Context, u Updater) (any, error) {
		close(started)
		<-ctx.Done()
		return nil, ctx.Err()
	})
	<-started

	require.NoError(t, m.Cancel(snap.ID))
	final := waitFor(t, m, snap.ID)
	assert.Equal(t, StatusCancelled, final.Status)

	require.ErrorIs(t, m.Cancel(snap.ID), ErrFinished)
	require.ErrorIs(t, m.Cancel("missing"), ErrNotFound)
}

func TestSemaphoreQueuesExtraTasks(t *testing.T) {
	m := newTestManager(t, 1)
	release := make(chan struct{})
	started := make(chan struct{})
	first := m.Submit("first", func(ctx context.Context, u Updater) (any, error) {
		close(started)
		<-release
		return nil, nil
	})
	<-started
	second := m.Submit("second", func(ctx context.Context, u Updater) (any, error) {
		return nil, nil
	})

	time.Sleep(20 * time.Millisecond)
	snap, err := m.Get(second.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusPending, snap.Status)

	_, _, err = m.Result(second.ID)
	require.ErrorIs(t, err, ErrNotFinished)

	close(release)
	assert.Equal(t, StatusSucceeded, waitFor(t, m, first.ID).Status)
	assert.Equal(t, StatusSucceeded, waitFor(t, m, second.ID).Status)
}

func TestSubscribeStreamsProgressUntilDone(t *testing.T) {
	m := newTestManager(t, 1)
	gate := make(chan struct{})
	snap := m.Submit("steps", func(ctx context.Context, u Updater) (any, error) {
		<-gate
		u.SendUpdate(25, "Step 0")
		u.SendUpdate(75, "Step 1")
		return "ok", nil
	})

	events, unsubscribe, err := m.Subscribe(snap.ID)
	require.NoError(t, err)
	defer unsubscribe()
	close(gate)

	var got []Event
	for ev := range events {
		got = append(got, ev)
	}
	require.NotEmpty(t, got)
	last := got[len(got)-1]
	assert.Equal(t, StatusSucceeded, last.Status)
	assert.Equal(t, 100.0, last.Progress)

	var messages []string
	for _, ev := range got {
		if ev.Message != "" && (len(messages) == 0 || messages[len(messages)-1] != ev.Message) {
			messages = append(messages, ev.Message)
		}
	}
	assert.Equal(t, []string{"Step 0", "Step 1"}, messages)

	done, _, err := m.Subscribe(snap.ID)
	require.NoError(t, err)
	ev, ok := <-done
	require.True(t, ok)
	assert.Equal(t, StatusSucceeded, ev.Status)
	_, ok = <-done
	assert.False(t, ok, "a finished task's channel closes after the snapshot")
}

func TestSweepRemovesExpiredTasks(t *testing.T) {
	m := newTestManager(t, 1)
	snap := m.Submit("quick", func(ctx context.Context, u Updater) (any, error) { return nil, nil })
	waitFor(t, m, snap.ID)

	assert.Equal(t, 0, m.Sweep())

	m.mu.Lock()
	m.now = func() time.Time { return time.Now().Add(2 * time.Minute) }
	m.mu.Unlock()
	assert.Equal(t, 1, m.Sweep())

	_, err := m.Get(snap.ID)
	require.ErrorIs(t, err, ErrNotFound)
}
