package storeclient

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/quotedesk/internal/observability/metrics"
	"github.com/smallbiznis/quotedesk/internal/quotation/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	m := metrics.NewStoreMetrics(prometheus.NewRegistry(), metrics.Config{})
	return NewClient(srv.URL+"/api/", srv.Client(), zap.NewNop(), m)
}

func TestListSendsPagingAndDecodes(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/quotations", r.URL.Path)
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		assert.Equal(t, "10", r.URL.Query().Get("per_page"))
		_, _ = io.WriteString(w, `{"quotations":[{"id":1,"customerInfo":{"billTo":"A"},"items":[]}],"pagination":{"page":2,"pages":4,"total":31}}`)
	})

	resp, err := c.List(context.Background(), 2, 10)
	require.NoError(t, err)

	require.Len(t, resp.Quotations, 1)
	assert.Equal(t, domain.ID("1"), resp.Quotations[0].ID)
	assert.Equal(t, 4, resp.State().TotalPages)
}

func TestCreatePostsWireBody(t *testing.T) {
	var got map[string]any
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"message":"created","id":"abc"}`)
	})

	id, err := c.Create(context.Background(), domain.Quotation{
		CustomerInfo: domain.CustomerInfo{BillTo: "Kumar", ContactNo: "98"},
		Items:        []domain.LineItem{{Description: "Net", Qty: 2, Rate: decimal.NewFromInt(50)}},
		Totals:       domain.Totals{TotalAmount: decimal.NewFromInt(100)},
	})
	require.NoError(t, err)

	assert.Equal(t, domain.ID("abc"), id)
	assert.Equal(t, "Kumar", got["customerInfo"].(map[string]any)["billTo"])
	assert.Equal(t, float64(100), got["totals"].(map[string]any)["totalAmount"])
	assert.NotContains(t, got, "id")
}

func TestUpdateAndDeleteUseID(t *testing.T) {
	var calls []string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls = append(calls, r.Method+" "+r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	})

	require.NoError(t, c.Update(context.Background(), "7", domain.Quotation{}))
	require.NoError(t, c.Delete(context.Background(), "7"))

	assert.Equal(t, []string{"PUT /api/quotations/7", "DELETE /api/quotations/7"}, calls)
	assert.ErrorIs(t, c.Delete(context.Background(), ""), domain.ErrInvalidID)
}

func TestErrorBodies(t *testing.T) {
	cases := []struct {
		name   string
		status int
		body   string
		want   string
	}{
		{"error field", http.StatusBadRequest, `{"error":"Customer exists"}`, "Customer exists"},
		{"errors list", http.StatusUnprocessableEntity, `{"errors":["billTo missing","items empty"]}`, "billTo missing, items empty"},
		{"no body", http.StatusInternalServerError, ``, DefaultErrorMessage},
		{"html body", http.StatusBadGateway, `<html>bad gateway</html>`, DefaultErrorMessage},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = io.WriteString(w, tc.body)
			})

			err := c.Delete(context.Background(), "1")

			rErr, ok := AsRemoteError(err)
			require.True(t, ok)
			assert.Equal(t, tc.status, rErr.Status)
			assert.Equal(t, tc.want, rErr.Message)
			assert.Equal(t, OpDelete, rErr.Op)
		})
	}
}

func TestTimeoutIsRemoteError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(time.Second):
		}
	})
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := c.CompanyInfo(ctx)

	rErr, ok := AsRemoteError(err)
	require.True(t, ok)
	assert.Equal(t, "store did not respond in time", rErr.Message)
}

func TestGetDecodesAndRecomputes(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/quotations/9", r.URL.Path)
		_, _ = io.WriteString(w, `{"id":9,"customerInfo":{"billTo":"B","contactNo":"1"},"items":[{"description":"Net","qty":4,"rate":12.5,"amount":0}],"totals":{"totalAmount":0}}`)
	})

	q, err := c.Get(context.Background(), "9")
	require.NoError(t, err)

	assert.Equal(t, "50.00", q.Totals.TotalAmount.StringFixed(2))
}

func TestInventoryAndCompany(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/inventory/":
			_, _ = io.WriteString(w, `[{"id":1,"description":"Window Net","rate":"90"}]`)
		case "/api/company/info":
			_, _ = io.WriteString(w, `{"name":"ACME","phone":"123"}`)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})

	items, err := c.ListInventory(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "90", items[0].ToDomain().Rate.String())

	info, err := c.CompanyInfo(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ACME", info.Name)
}
