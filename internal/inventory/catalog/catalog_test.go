package catalog

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	inventorydomain "github.com/smallbiznis/quotedesk/internal/inventory/domain"
	"github.com/smallbiznis/quotedesk/internal/quotation/contract"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

type loaderMock struct {
	mock.Mock
}

func (m *loaderMock) ListInventory(ctx context.Context) ([]contract.InventoryItem, error) {
	args := m.Called(ctx)
	items, _ := args.Get(0).([]contract.InventoryItem)
	return items, args.Error(1)
}

type snapshotMock struct {
	mock.Mock
}

func (m *snapshotMock) Load(ctx context.Context) ([]inventorydomain.Item, bool, error) {
	args := m.Called(ctx)
	items, _ := args.Get(0).([]inventorydomain.Item)
	return items, args.Bool(1), args.Error(2)
}

func (m *snapshotMock) Save(ctx context.Context, items []inventorydomain.Item) error {
	return m.Called(ctx, items).Error(0)
}

func wireItems() []contract.InventoryItem {
	return []contract.InventoryItem{
		{ID: "1", Description: "Window Net", Rate: contract.NewDecimal(decimal.NewFromInt(90))},
	}
}

func TestPrimeFetchesAndShares(t *testing.T) {
	ctx := context.Background()
	loader := &loaderMock{}
	loader.On("ListInventory", ctx).Return(wireItems(), nil).Once()
	store := &snapshotMock{}
	store.On("Load", ctx).Return(nil, false, nil).Once()
	store.On("Save", ctx, mock.MatchedBy(func(items []inventorydomain.Item) bool {
		return len(items) == 1 && items[0].Description == "Window Net"
	})).Return(nil).Once()

	c := New(loader, store, zap.NewNop())
	c.Prime(ctx)

	assert.True(t, c.Primed())
	assert.Len(t, c.Items(), 1)
	loader.AssertExpectations(t)
	store.AssertExpectations(t)
}

func TestPrimeUsesSnapshot(t *testing.T) {
	ctx := context.Background()
	loader := &loaderMock{}
	store := &snapshotMock{}
	store.On("Load", ctx).Return([]inventorydomain.Item{{ID: "9", Description: "Door Net"}}, true, nil).Once()

	c := New(loader, store, zap.NewNop())
	c.Prime(ctx)

	assert.Equal(t, "Door Net", c.Items()[0].Description)
	loader.AssertNotCalled(t, "ListInventory", mock.Anything)
}

func TestPrimeFailureLeavesEmptyCatalog(t *testing.T) {
	ctx := context.Background()
	loader := &loaderMock{}
	loader.On("ListInventory", ctx).Return(nil, errors.New("store down")).Once()

	c := New(loader, nil, zap.NewNop())
	c.Prime(ctx)

	assert.False(t, c.Primed())
	assert.NotNil(t, c.Items())
	assert.Empty(t, c.Items())
}

func TestRefreshSwapsSnapshot(t *testing.T) {
	ctx := context.Background()
	loader := &loaderMock{}
	loader.On("ListInventory", ctx).Return(wireItems(), nil).Once()

	c := New(loader, nil, zap.NewNop())
	before := c.Items()
	assert.NoError(t, c.Refresh(ctx))

	assert.Empty(t, before)
	assert.Len(t, c.Items(), 1)
}

type lockingSnapshotMock struct {
	snapshotMock
}

func (m *lockingSnapshotMock) TryLock(ctx context.Context) (string, bool, error) {
	args := m.Called(ctx)
	return args.String(0), args.Bool(1), args.Error(2)
}

func (m *lockingSnapshotMock) Release(ctx context.Context, token string) error {
	return m.Called(ctx, token).Error(0)
}

func TestPrimeLockHolderFetchesAndReleases(t *testing.T) {
	ctx := context.Background()
	loader := &loaderMock{}
	loader.On("ListInventory", ctx).Return(wireItems(), nil).Once()
	store := &lockingSnapshotMock{}
	store.On("Load", ctx).Return(nil, false, nil).Once()
	store.On("TryLock", ctx).Return("tok", true, nil).Once()
	store.On("Save", ctx, mock.Anything).Return(nil).Once()
	store.On("Release", mock.Anything, "tok").Return(nil).Once()

	c := New(loader, store, zap.NewNop())
	c.Prime(ctx)

	assert.Len(t, c.Items(), 1)
	loader.AssertExpectations(t)
	store.AssertExpectations(t)
}

func TestPrimeLockLoserWaitsForSnapshot(t *testing.T) {
	prev := lockWait
	lockWait = time.Millisecond
	t.Cleanup(func() { lockWait = prev })

	ctx := context.Background()
	loader := &loaderMock{}
	store := &lockingSnapshotMock{}
	store.On("Load", ctx).Return(nil, false, nil).Once()
	store.On("TryLock", ctx).Return("", false, nil).Once()
	store.On("Load", ctx).Return([]inventorydomain.Item{{ID: "9", Description: "Door Net"}}, true, nil).Once()

	c := New(loader, store, zap.NewNop())
	c.Prime(ctx)

	assert.Equal(t, "Door Net", c.Items()[0].Description)
	loader.AssertNotCalled(t, "ListInventory", mock.Anything)
	store.AssertExpectations(t)
}
