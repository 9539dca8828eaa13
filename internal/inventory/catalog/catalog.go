// Package catalog keeps the inventory snapshot that feeds autocomplete.
package catalog

import (
	"context"
	"sync/atomic"
	"time"

	inventorydomain "github.com/smallbiznis/quotedesk/internal/inventory/domain"
	"github.com/smallbiznis/quotedesk/internal/quotation/contract"
	"go.uber.org/zap"
)

// Loader fetches the inventory from the store.
type Loader interface {
	ListInventory(ctx context.Context) ([]contract.InventoryItem, error)
}

// SnapshotStore shares a primed inventory between engine replicas.
type SnapshotStore interface {
	Load(ctx context.Context) ([]inventorydomain.Item, bool, error)
	Save(ctx context.Context, items []inventorydomain.Item) error
}

// Locker is implemented by snapshot stores shared between replicas, so only
// one of them fetches from the store while the others wait for its snapshot.
type Locker interface {
	TryLock(ctx context.Context) (string, bool, error)
	Release(ctx context.Context, token string) error
}

// lockWait is how long a replica that lost the lock waits for the snapshot.
var lockWait = 2 * time.Second

// Catalog is read-mostly: Items never blocks and returns the snapshot as
// last swapped in. Callers must not modify the returned slice.
type Catalog struct {
	loader   Loader
	store    SnapshotStore
	log      *zap.Logger
	snapshot atomic.Pointer[[]inventorydomain.Item]
	primed   atomic.Bool
}

func New(loader Loader, store SnapshotStore, log *zap.Logger) *Catalog {
	if log == nil {
		log = zap.NewNop()
	}
	c := &Catalog{loader: loader, store: store, log: log.Named("inventory.catalog")}
	empty := []inventorydomain.Item{}
	c.snapshot.Store(&empty)
	return c
}

func (c *Catalog) Items() []inventorydomain.Item {
	return *c.snapshot.Load()
}

// Primed reports whether a snapshot has been loaded at least once.
func (c *Catalog) Primed() bool {
	return c.primed.Load()
}

// Prime loads the shared snapshot when one exists, otherwise fetches from the
// store. Failures are logged and leave the catalog as it was; free-text entry
// keeps working without suggestions.
func (c *Catalog) Prime(ctx context.Context) {
	if c.store != nil {
		if c.loadSnapshot(ctx) {
			return
		}
		if locker, ok := c.store.(Locker); ok && !c.primeLocked(ctx, locker) {
			return
		}
	}
	if err := c.Refresh(ctx); err != nil {
		c.log.Warn("inventory priming failed", zap.Error(err))
	}
}

func (c *Catalog) loadSnapshot(ctx context.Context) bool {
	items, ok, err := c.store.Load(ctx)
	if err != nil {
		c.log.Warn("inventory snapshot load failed", zap.Error(err))
	}
	if !ok {
		return false
	}
	c.swap(items)
	c.log.Info("inventory primed from snapshot", zap.Int("items", len(items)))
	return true
}

// primeLocked reports whether the caller should still fetch from the store.
// The lock holder fetches; everyone else waits once for its snapshot.
func (c *Catalog) primeLocked(ctx context.Context, locker Locker) bool {
	token, won, err := locker.TryLock(ctx)
	if err != nil {
		c.log.Warn("inventory lock unavailable", zap.Error(err))
		return true
	}
	if won {
		defer func() {
			if err := locker.Release(context.WithoutCancel(ctx), token); err != nil {
				c.log.Warn("inventory lock release failed", zap.Error(err))
			}
		}()
		if err := c.Refresh(ctx); err != nil {
			c.log.Warn("inventory priming failed", zap.Error(err))
		}
		return false
	}

	timer := time.NewTimer(lockWait)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
	}
	return !c.loadSnapshot(ctx)
}

// Refresh fetches the inventory and replaces the snapshot.
func (c *Catalog) Refresh(ctx context.Context) error {
	wire, err := c.loader.ListInventory(ctx)
	if err != nil {
		return err
	}
	items := make([]inventorydomain.Item, 0, len(wire))
	for _, w := range wire {
		items = append(items, w.ToDomain())
	}
	c.swap(items)
	c.log.Info("inventory loaded", zap.Int("items", len(items)))

	if c.store != nil {
		if err := c.store.Save(ctx, items); err != nil {
			c.log.Warn("inventory snapshot save failed", zap.Error(err))
		}
	}
	return nil
}

func (c *Catalog) swap(items []inventorydomain.Item) {
	if items == nil {
		items = []inventorydomain.Item{}
	}
	c.snapshot.Store(&items)
	c.primed.Store(true)
}
