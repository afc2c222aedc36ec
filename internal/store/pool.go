package store

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/semaphore"
)

// Pool bounds concurrent store access. Each query holds one slot for its
// duration; callers beyond the bound wait up to the acquire timeout.
type Pool struct {
	sem            *semaphore.Weighted
	size           int
	acquireTimeout time.Duration
	queryTimeout   time.Duration
}

// NewPool returns a pool of size slots.
func NewPool(size int, acquireTimeout, queryTimeout time.Duration) *Pool {
	if size <= 0 {
		size = 1
	}
	return &Pool{
		sem:            semaphore.NewWeighted(int64(size)),
		size:           size,
		acquireTimeout: acquireTimeout,
		queryTimeout:   queryTimeout,
	}
}

// Size returns the number of slots.
func (p *Pool) Size() int { return p.size }

// Acquire takes one slot. The returned context carries the query timeout
// when ctx has no deadline of its own; release must be called exactly once.
func (p *Pool) Acquire(ctx context.Context) (context.Context, func(), error) {
	actx := ctx
	if p.acquireTimeout > 0 {
		var cancel context.CancelFunc
		actx, cancel = context.WithTimeout(ctx, p.acquireTimeout)
		defer cancel()
	}
	if err := p.sem.Acquire(actx, 1); err != nil {
		if ctx.Err() != nil {
			return nil, nil, fmt.Errorf("%w: acquire: %w", ErrStoreUnavailable, ctx.Err())
		}
		return nil, nil, fmt.Errorf("%w: acquire timed out after %s", ErrStoreUnavailable, p.acquireTimeout)
	}

	qctx, cancel := ctx, context.CancelFunc(func() {})
	if _, ok := ctx.Deadline(); !ok && p.queryTimeout > 0 {
		qctx, cancel = context.WithTimeout(ctx, p.queryTimeout)
	}
	release := func() {
		cancel()
		p.sem.Release(1)
	}
	return qctx, release, nil
}
