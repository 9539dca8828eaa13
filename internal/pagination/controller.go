package pagination

import (
	"context"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
)

// Page is one fetched list page together with the pagination the server reported.
// Summary carries list-level data (totals, counts) that must stay in step
// with the rows it was fetched with.
type Page[T any] struct {
	Items      []T
	Pagination State
	Summary    any
}

// Fetcher loads a page of the remote list.
type Fetcher[T any] func(ctx context.Context, page, perPage int) (Page[T], error)

// Controller owns the visible page of a remote list. Every fetch is numbered,
// and a response is applied only when it is newer than the last one applied,
// so a slow response for an earlier click never overwrites a later one.
type Controller[T any] struct {
	fetch Fetcher[T]
	log   *zap.Logger

	seq      atomic.Uint64
	inflight atomic.Int64

	mu          sync.RWMutex
	state       State
	items       []T
	summary     any
	lastApplied uint64
}

func NewController[T any](fetch Fetcher[T], log *zap.Logger) *Controller[T] {
	if log == nil {
		log = zap.NewNop()
	}
	return &Controller[T]{
		fetch: fetch,
		log:   log.Named("pagination"),
		state: InitialState(),
	}
}

func (c *Controller[T]) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// Items returns a copy of the rows on the current page.
func (c *Controller[T]) Items() []T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]T, len(c.items))
	copy(out, c.items)
	return out
}

// Summary returns the summary of the applied page.
func (c *Controller[T]) Summary() any {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.summary
}

// Loading reports whether a fetch is outstanding.
func (c *Controller[T]) Loading() bool {
	return c.inflight.Load() > 0
}

// GoTo fetches page unless it is out of range or already shown. The returned
// bool reports whether a fetch was issued.
func (c *Controller[T]) GoTo(ctx context.Context, page int) (bool, error) {
	current := c.State()
	if !current.Contains(page) || page == current.CurrentPage {
		return false, nil
	}
	return true, c.load(ctx, page)
}

func (c *Controller[T]) Next(ctx context.Context) (bool, error) {
	return c.GoTo(ctx, c.State().CurrentPage+1)
}

func (c *Controller[T]) Prev(ctx context.Context) (bool, error) {
	return c.GoTo(ctx, c.State().CurrentPage-1)
}

func (c *Controller[T]) First(ctx context.Context) (bool, error) {
	return c.GoTo(ctx, 1)
}

func (c *Controller[T]) Last(ctx context.Context) (bool, error) {
	return c.GoTo(ctx, c.State().TotalPages)
}

// Refresh reloads page even when it is the one already shown. Pages below 1
// load page 1.
func (c *Controller[T]) Refresh(ctx context.Context, page int) error {
	return c.load(ctx, max(page, 1))
}

func (c *Controller[T]) load(ctx context.Context, page int) error {
	seq := c.seq.Add(1)
	c.inflight.Add(1)
	defer c.inflight.Add(-1)

	perPage := c.State().ItemsPerPage
	result, err := c.fetch(ctx, page, perPage)
	if err != nil {
		c.log.Debug("page fetch failed", zap.Int("page", page), zap.Uint64("seq", seq), zap.Error(err))
		return err
	}

	if !c.apply(seq, result) {
		c.log.Debug("stale page response dropped", zap.Int("page", page), zap.Uint64("seq", seq))
	}
	return nil
}

func (c *Controller[T]) apply(seq uint64, result Page[T]) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if seq <= c.lastApplied {
		return false
	}
	c.lastApplied = seq
	c.state = Normalize(result.Pagination)
	c.items = append([]T(nil), result.Items...)
	c.summary = result.Summary
	return true
}
