package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/smallbiznis/quotedesk/internal/clock"
	"github.com/smallbiznis/quotedesk/internal/config"
	"github.com/smallbiznis/quotedesk/internal/inventory/catalog"
	"github.com/smallbiznis/quotedesk/internal/observability"
	"github.com/smallbiznis/quotedesk/internal/quotation/contract"
	"github.com/smallbiznis/quotedesk/internal/quotation/domain"
	"github.com/smallbiznis/quotedesk/internal/render"
	"github.com/smallbiznis/quotedesk/internal/storeclient"
	"github.com/smallbiznis/quotedesk/internal/workspace"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// memoryStore serves the quotation REST contract from a map.
type memoryStore struct {
	mu     sync.Mutex
	nextID int
	rows   map[string]contract.Quotation
	order  []string
}

func newMemoryStore() *memoryStore {
	return &memoryStore{rows: map[string]contract.Quotation{}}
}

func (m *memoryStore) handler() http.Handler {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/api/quotations", func(c *gin.Context) {
		m.mu.Lock()
		defer m.mu.Unlock()
		out := make([]contract.Quotation, 0, len(m.order))
		for _, id := range m.order {
			out = append(out, m.rows[id])
		}
		c.JSON(http.StatusOK, gin.H{
			"quotations": out,
			"stats":      gin.H{"total_quotations": len(out), "total_value": 0, "this_month": len(out), "growth_percentage": 0},
			"pagination": gin.H{"page": 1, "pages": 1, "total": len(out)},
		})
	})
	r.GET("/api/quotations/:id", func(c *gin.Context) {
		m.mu.Lock()
		defer m.mu.Unlock()
		q, ok := m.rows[c.Param("id")]
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "Quotation not found"})
			return
		}
		c.JSON(http.StatusOK, q)
	})
	r.POST("/api/quotations", func(c *gin.Context) {
		var q contract.Quotation
		if err := c.ShouldBindJSON(&q); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"errors": []string{err.Error()}})
			return
		}
		m.mu.Lock()
		defer m.mu.Unlock()
		m.nextID++
		q.ID = domain.ID(fmt.Sprintf("q%03d", m.nextID))
		m.rows[q.ID.String()] = q
		m.order = append(m.order, q.ID.String())
		c.JSON(http.StatusCreated, gin.H{"message": "Quotation created", "id": q.ID})
	})
	r.DELETE("/api/quotations/:id", func(c *gin.Context) {
		m.mu.Lock()
		defer m.mu.Unlock()
		delete(m.rows, c.Param("id"))
		c.JSON(http.StatusOK, gin.H{"message": "Quotation deleted"})
	})
	r.GET("/api/company/info", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"name": "Remote Nets"})
	})
	return r
}

func newTestServer(t *testing.T) (*Server, *memoryStore) {
	t.Helper()
	store := newMemoryStore()
	remote := httptest.NewServer(store.handler())
	t.Cleanup(remote.Close)

	log := zap.NewNop()
	clk := clock.NewFakeClock(time.Date(2026, 5, 2, 10, 0, 0, 0, time.UTC))
	client := storeclient.NewClient(remote.URL+"/api", remote.Client(), log, nil)
	renderer := render.NewService(render.Params{
		Holder: config.NewStaticDocumentConfigHolder(config.DefaultDocumentConfig()),
		Clock:  clk,
		Log:    log,
	})
	company := workspace.NewCompanyResolver(client, renderer.Company, log)
	docs := workspace.NewDocuments(client, renderer, company, nil, clk, log)
	cat := catalog.New(client, nil, log)

	engine := NewEngine(observability.Config{Environment: "test"}, nil, prometheus.NewRegistry())
	srv := NewServer(ServerParams{
		Gin:       engine,
		Registry:  workspace.NewRegistry(client, docs, cat, clk, log, nil),
		Documents: docs,
		Catalog:   cat,
		Log:       log,
	})
	return srv, store
}

func do(t *testing.T, srv *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	srv.Engine().ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestHealth(t *testing.T) {
	srv, _ := newTestServer(t)
	w := do(t, srv, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestSaveValidationReturns400(t *testing.T) {
	srv, _ := newTestServer(t)

	w := do(t, srv, http.MethodPost, "/api/workspace/s1/draft/save", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp := decode[errorResponse](t, w)
	assert.Equal(t, "validation_error", resp.Error.Type)
	assert.Equal(t, "Customer name is required", resp.Error.Message)

	w = do(t, srv, http.MethodGet, "/api/workspace/s1/banner", nil)
	assert.Contains(t, w.Body.String(), "Customer name is required")
}

func TestDraftEditSaveFlow(t *testing.T) {
	srv, store := newTestServer(t)
	base := "/api/workspace/s1"

	for _, f := range []fieldRequest{{Field: "billTo", Value: "Raja Textiles"}, {Field: "contactNo", Value: "9876543210"}} {
		w := do(t, srv, http.MethodPatch, base+"/draft/customer", f)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	}
	for _, f := range []fieldRequest{{Field: "description", Value: "Mosquito Net 4x6"}, {Field: "qty", Value: "3"}, {Field: "rate", Value: "150"}} {
		w := do(t, srv, http.MethodPatch, base+"/draft/items/0", f)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	}

	w := do(t, srv, http.MethodPatch, base+"/draft/items/0", fieldRequest{Field: "qty", Value: "-1"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, srv, http.MethodPost, base+"/draft/save", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), "Quotation created successfully!")
	require.Len(t, store.order, 1)
	id := store.order[0]

	w = do(t, srv, http.MethodGet, base+"/quotations", nil)
	require.Equal(t, http.StatusOK, w.Code)
	list := decode[workspace.ListView](t, w)
	require.Len(t, list.Quotations, 1)
	assert.Equal(t, "450", list.Quotations[0].Totals.TotalAmount.String())

	w = do(t, srv, http.MethodPost, base+"/quotations/"+id+"/edit", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"editingId":"`+id+`"`)
}

func TestArtifactRoutes(t *testing.T) {
	srv, _ := newTestServer(t)
	w := do(t, srv, http.MethodPatch, "/api/workspace/s1/draft/customer", fieldRequest{Field: "billTo", Value: "Raja"})
	require.Equal(t, http.StatusOK, w.Code)
	do(t, srv, http.MethodPatch, "/api/workspace/s1/draft/customer", fieldRequest{Field: "contactNo", Value: "9876543210"})
	do(t, srv, http.MethodPatch, "/api/workspace/s1/draft/items/0", fieldRequest{Field: "description", Value: "Net"})
	do(t, srv, http.MethodPatch, "/api/workspace/s1/draft/items/0", fieldRequest{Field: "rate", Value: "450"})
	w = do(t, srv, http.MethodPost, "/api/workspace/s1/draft/save", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	id := decode[struct {
		ID string `json:"id"`
	}](t, w).ID

	printed := do(t, srv, http.MethodGet, "/api/quotations/"+id+"/print", nil)
	require.Equal(t, http.StatusOK, printed.Code)
	assert.Contains(t, printed.Body.String(), "Remote Nets")

	downloaded := do(t, srv, http.MethodGet, "/api/quotations/"+id+"/download?format=html", nil)
	require.Equal(t, http.StatusOK, downloaded.Code)
	assert.Equal(t, printed.Body.Bytes(), downloaded.Body.Bytes())
	disposition := downloaded.Header().Get("Content-Disposition")
	assert.True(t, strings.HasPrefix(disposition, "attachment"))
	assert.Contains(t, disposition, ".html")

	pdf := do(t, srv, http.MethodGet, "/api/quotations/"+id+"/download?variant=invoice&format=pdf", nil)
	require.Equal(t, http.StatusOK, pdf.Code)
	assert.Equal(t, "application/pdf", pdf.Header().Get("Content-Type"))

	shared := do(t, srv, http.MethodGet, "/api/quotations/"+id+"/share?variant=invoice", nil)
	require.Equal(t, http.StatusOK, shared.Code)
	assert.Contains(t, shared.Body.String(), "https://wa.me/919876543210")

	bad := do(t, srv, http.MethodGet, "/api/quotations/"+id+"/download?format=docx", nil)
	assert.Equal(t, http.StatusBadRequest, bad.Code)

	missing := do(t, srv, http.MethodGet, "/api/quotations/nope/print", nil)
	assert.Equal(t, http.StatusNotFound, missing.Code)
}

func TestInvalidSession(t *testing.T) {
	srv, _ := newTestServer(t)
	w := do(t, srv, http.MethodGet, "/api/workspace/"+strings.Repeat("x", 80)+"/draft", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUnknownRoute(t *testing.T) {
	srv, _ := newTestServer(t)
	w := do(t, srv, http.MethodGet, "/nowhere", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
