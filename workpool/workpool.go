// Package workpool runs I/O-bound work with a fixed upper bound on in-flight
// calls. Every item produces its own result; one failure never cancels the
// rest.
package workpool

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// DefaultLimit matches the upstream's tolerated fan-out.
const DefaultLimit = 3

// Item is a unit of work. ID is used for logging and result matching.
type Item[T any] struct {
	ID      string
	Execute func(ctx context.Context) (T, error)
}

type Result[T any] struct {
	ID    string
	Value T
	Err   error
}

// Pool holds the concurrency limit and logger shared by Run calls.
type Pool struct {
	limit  int
	logger *zap.Logger
}

func New(limit int, logger *zap.Logger) *Pool {
	if limit < 1 {
		limit = DefaultLimit
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pool{limit: limit, logger: logger.Named("workpool")}
}

func (p *Pool) Limit() int { return p.limit }

// Run executes items with at most p.Limit() running at once and returns
// results in submission order. Items not yet started when ctx is cancelled
// report ctx.Err().
func Run[T any](ctx context.Context, p *Pool, items []Item[T]) []Result[T] {
	if len(items) == 0 {
		return nil
	}

	results := make([]Result[T], len(items))
	group := new(errgroup.Group)
	group.SetLimit(p.limit)

	for i, item := range items {
		group.Go(func() error {
			results[i].ID = item.ID
			if err := ctx.Err(); err != nil {
				results[i].Err = err
				return nil
			}

			value, err := item.Execute(ctx)
			results[i].Value = value
			results[i].Err = err
			if err != nil {
				p.logger.Debug("work item failed", zap.String("id", item.ID), zap.Error(err))
			}
			// Returning nil keeps the group from short-circuiting on one failure.
			return nil
		})
	}

	_ = group.Wait()
	return results
}
