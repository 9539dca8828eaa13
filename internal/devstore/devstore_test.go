package devstore

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/quotedesk/internal/clock"
	"github.com/smallbiznis/quotedesk/internal/config"
	"github.com/smallbiznis/quotedesk/internal/quotation/domain"
	"github.com/smallbiznis/quotedesk/internal/storeclient"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fixture struct {
	svc    *Service
	clock  *clock.FakeClock
	client *storeclient.Client
}

func setup(t *testing.T) fixture {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	clk := clock.NewFakeClock(time.Date(2026, 5, 20, 9, 0, 0, 0, time.UTC))
	svc := NewService(Params{
		DB:       conn,
		Log:      zap.NewNop(),
		GenID:    node,
		Repo:     NewRepository(),
		Clock:    clk,
		Document: config.NewStaticDocumentConfigHolder(config.DefaultDocumentConfig()),
	})
	require.NoError(t, svc.Migrate(t.Context()))

	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewHandler(svc, zap.NewNop()).Register(r)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	return fixture{
		svc:    svc,
		clock:  clk,
		client: storeclient.NewClient(srv.URL+"/api", srv.Client(), zap.NewNop(), nil),
	}
}

func sample(billTo string) domain.Quotation {
	estimate := time.Date(2026, 5, 18, 0, 0, 0, 0, time.UTC)
	return domain.Quotation{
		CustomerInfo: domain.CustomerInfo{
			BillTo:       billTo,
			ContactNo:    "9876543210",
			EstimateNo:   "EST-7",
			EstimateDate: &estimate,
		},
		Items: []domain.LineItem{
			{Description: "Pleated Mesh Door", Qty: 1, Rate: decimal.RequireFromString("300")},
			{Description: "Window Net 4x3", Qty: 3, Rate: decimal.RequireFromString("50")},
		},
	}
}

func TestCreateGetRoundTrip(t *testing.T) {
	f := setup(t)
	ctx := t.Context()

	id, err := f.client.Create(ctx, sample("Raja Textiles"))
	require.NoError(t, err)
	require.False(t, id.IsZero())

	got, err := f.client.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, id, got.ID)
	assert.Equal(t, "Raja Textiles", got.CustomerInfo.BillTo)
	require.Len(t, got.Items, 2)
	assert.Equal(t, "Pleated Mesh Door", got.Items[0].Description)
	assert.Equal(t, "150", got.Items[1].Amount.String())
	assert.Equal(t, "450", got.Totals.TotalAmount.String())
	require.NotNil(t, got.CustomerInfo.EstimateDate)
	assert.Equal(t, "2026-05-18", got.CustomerInfo.EstimateDate.Format("2006-01-02"))
}

func TestCreateRejectsInvalidDocument(t *testing.T) {
	f := setup(t)

	_, err := f.client.Create(t.Context(), sample(""))
	rErr, ok := storeclient.AsRemoteError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, rErr.Status)
	assert.Equal(t, "Customer name is required", rErr.Message)
}

func TestUpdateReplacesItems(t *testing.T) {
	f := setup(t)
	ctx := t.Context()

	id, err := f.client.Create(ctx, sample("Raja"))
	require.NoError(t, err)

	edited := sample("Raja Textiles")
	edited.Items = edited.Items[:1]
	edited.Items[0].Qty = 2
	require.NoError(t, f.client.Update(ctx, id, edited))

	got, err := f.client.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Raja Textiles", got.CustomerInfo.BillTo)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "600", got.Totals.TotalAmount.String())
}

func TestDeleteThenGetIsNotFound(t *testing.T) {
	f := setup(t)
	ctx := t.Context()

	id, err := f.client.Create(ctx, sample("Raja"))
	require.NoError(t, err)
	require.NoError(t, f.client.Delete(ctx, id))

	_, err = f.client.Get(ctx, id)
	rErr, ok := storeclient.AsRemoteError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusNotFound, rErr.Status)

	err = f.client.Delete(ctx, id)
	rErr, ok = storeclient.AsRemoteError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusNotFound, rErr.Status)
}

func TestListPagesAndStats(t *testing.T) {
	f := setup(t)
	ctx := t.Context()

	f.clock.Set(time.Date(2026, 4, 10, 9, 0, 0, 0, time.UTC))
	_, err := f.client.Create(ctx, sample("April"))
	require.NoError(t, err)

	f.clock.Set(time.Date(2026, 5, 20, 9, 0, 0, 0, time.UTC))
	for _, name := range []string{"May 1", "May 2", "May 3"} {
		_, err := f.client.Create(ctx, sample(name))
		require.NoError(t, err)
		f.clock.Advance(time.Minute)
	}

	resp, err := f.client.List(ctx, 1, 2)
	require.NoError(t, err)
	require.Len(t, resp.Quotations, 2)
	assert.Equal(t, "May 3", resp.Quotations[0].CustomerInfo.BillTo)

	state := resp.State()
	assert.Equal(t, 1, state.CurrentPage)
	assert.Equal(t, 2, state.TotalPages)
	assert.Equal(t, 4, state.TotalItems)

	stats := resp.StatsOrZero()
	assert.Equal(t, 4, stats.TotalQuotations)
	assert.Equal(t, "1800", stats.TotalValue.String())
	assert.Equal(t, 3, stats.ThisMonth)
	assert.InDelta(t, 200.0, stats.GrowthPercentage, 0.001)

	last, err := f.client.List(ctx, 2, 2)
	require.NoError(t, err)
	require.Len(t, last.Quotations, 2)
	assert.Equal(t, "April", last.Quotations[1].CustomerInfo.BillTo)
}

func TestInventoryCRUD(t *testing.T) {
	f := setup(t)
	ctx := t.Context()

	created, err := f.svc.CreateInventory(ctx, InventoryInput{Description: "Mosquito Net 4x6", Rate: decimal.RequireFromString("150")})
	require.NoError(t, err)

	_, err = f.svc.CreateInventory(ctx, InventoryInput{Description: "Mosquito Net 4x6", Rate: decimal.RequireFromString("120")})
	assert.ErrorIs(t, err, ErrDuplicateItem)

	_, err = f.svc.CreateInventory(ctx, InventoryInput{Description: " "})
	assert.ErrorIs(t, err, ErrMissingFields)

	require.NoError(t, f.svc.UpdateInventory(ctx, created.ID.String(), InventoryInput{Description: "Mosquito Net 4x6", Rate: decimal.RequireFromString("175.5")}))

	items, err := f.client.ListInventory(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "175.5", items[0].Rate.String())
	assert.Equal(t, created.ID, items[0].ID)

	require.NoError(t, f.svc.DeleteInventory(ctx, created.ID.String()))
	assert.ErrorIs(t, f.svc.DeleteInventory(ctx, created.ID.String()), ErrNotFound)
}

func TestCompanyInfoComesFromDocumentConfig(t *testing.T) {
	f := setup(t)

	info, err := f.client.CompanyInfo(t.Context())
	require.NoError(t, err)
	assert.Equal(t, config.DefaultDocumentConfig().Company.Name, info.Name)
}

func TestInvalidIDIsNotFound(t *testing.T) {
	f := setup(t)
	_, err := f.svc.Get(t.Context(), "not-a-number")
	assert.ErrorIs(t, err, ErrInvalidID)
}

func TestGrowthPercentage(t *testing.T) {
	assert.Equal(t, 0.0, Stats{}.GrowthPercentage())
	assert.Equal(t, 100.0, Stats{ThisMonth: 2}.GrowthPercentage())
	assert.Equal(t, -50.0, Stats{ThisMonth: 1, LastMonth: 2}.GrowthPercentage())
	assert.Equal(t, 33.3, Stats{ThisMonth: 4, LastMonth: 3}.GrowthPercentage())
}
