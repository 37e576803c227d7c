package service

import (
	"context"
	"errors"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/vanshika/demolab/internal/domain"
)

// TaskError accumulates the failures of a bulk operation.
type TaskError struct {
	mu     sync.Mutex
	Errors []error
}

func (e *TaskError) Error() string {
	switch len(e.Errors) {
	case 0:
		return "no errors"
	case 1:
		return e.Errors[0].Error()
	}
	parts := make([]string, len(e.Errors))
	for i, err := range e.Errors {
		parts[i] = err.Error()
	}
	return "multiple errors: " + strings.Join(parts, "; ")
}

// Unwrap exposes the collected errors to errors.Is and errors.As.
func (e *TaskError) Unwrap() []error { return e.Errors }

func (e *TaskError) append(err error) {
	if err == nil {
		return
	}
	e.mu.Lock()
	e.Errors = append(e.Errors, err)
	e.mu.Unlock()
}

func (e *TaskError) asError() error {
	if len(e.Errors) == 0 {
		return nil
	}
	return e
}

// FriendshipWriter is the storage contract of the ingestor.
type FriendshipWriter interface {
	UpsertFriendship(ctx context.Context, f domain.Friendship) error
	UpsertInteraction(ctx context.Context, i domain.Interaction) error
}

// BulkIngestor mirrors the social network into the graph store with a
// bounded number of concurrent writes.
type BulkIngestor struct {
	store   FriendshipWriter
	workers int
}

func NewBulkIngestor(store FriendshipWriter, workers int) *BulkIngestor {
	if workers <= 0 {
		workers = 4
	}
	return &BulkIngestor{store: store, workers: workers}
}

// IngestFriendships writes every row. Row failures are collected into a
// TaskError; cancellation stops the run and is returned as is.
func (bi *BulkIngestor) IngestFriendships(ctx context.Context, rows []domain.Friendship) error {
	return bi.run(ctx, len(rows), func(i int) error {
		return bi.store.UpsertFriendship(ctx, rows[i])
	})
}

// IngestInteractions writes every interaction event.
func (bi *BulkIngestor) IngestInteractions(ctx context.Context, events []domain.Interaction) error {
	return bi.run(ctx, len(events), func(i int) error {
		return bi.store.UpsertInteraction(ctx, events[i])
	})
}

func (bi *BulkIngestor) run(ctx context.Context, total int, fn func(i int) error) error {
	var (
		g       errgroup.Group
		taskErr TaskError
	)
	g.SetLimit(bi.workers)
	for i := 0; i < total; i++ {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			taskErr.append(fn(i))
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return err
	}
	for _, err := range taskErr.Errors {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
	}
	return taskErr.asError()
}
