package logger

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	obscontext "github.com/smallbiznis/quotedesk/internal/observability/context"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	gormlogger "gorm.io/gorm/logger"
)

func TestGinMiddlewareSetsRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	core, logs := observer.New(zap.DebugLevel)
	restore := zap.ReplaceGlobals(zap.New(core))
	defer restore()

	var seen string
	r := gin.New()
	r.Use(GinMiddleware(MiddlewareConfig{}))
	r.GET("/api/workspace/:session/draft", func(c *gin.Context) {
		seen = obscontext.SessionIDFromContext(c.Request.Context())
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/workspace/abc/draft", nil)
	req.Header.Set(HeaderRequestID, "req-1")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, "req-1", w.Header().Get(HeaderRequestID))
	assert.Equal(t, "abc", seen)
	entries := logs.FilterMessage("http_request").All()
	if assert.Len(t, entries, 1) {
		fields := entries[0].ContextMap()
		assert.Equal(t, "req-1", fields["request_id"])
		assert.Equal(t, "abc", fields["session_id"])
		assert.Equal(t, "/api/workspace/:session/draft", fields["route"])
	}
}

func TestGinMiddlewareGeneratesRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(GinMiddleware(MiddlewareConfig{}))
	r.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.NotEmpty(t, w.Header().Get(HeaderRequestID))
}

func TestWithContextWithoutValues(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	WithContext(context.Background(), zap.New(core)).Info("x")

	fields := logs.All()[0].ContextMap()
	assert.NotContains(t, fields, "request_id")
	assert.NotContains(t, fields, "session_id")
	assert.NotContains(t, fields, "trace_id")
}

func TestDescribeSQL(t *testing.T) {
	op, table := describeSQL(`SELECT * FROM "quotations" WHERE id = 1`)
	assert.Equal(t, "SELECT", op)
	assert.Equal(t, "quotations", table)

	op, table = describeSQL("INSERT INTO `quotation_items` (`id`) VALUES (?)")
	assert.Equal(t, "INSERT", op)
	assert.Equal(t, "quotation_items", table)

	op, table = describeSQL(`UPDATE "inventory_items" SET rate = 1`)
	assert.Equal(t, "UPDATE", op)
	assert.Equal(t, "inventory_items", table)

	op, table = describeSQL("")
	assert.Equal(t, "UNKNOWN", op)
	assert.Empty(t, table)
}

func TestGormLoggerSkipsRecordNotFound(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	cfg := DefaultGormLoggerConfig()
	cfg.IgnoreRecordNotFound = true
	l := NewGormLogger(zap.New(core), cfg)

	l.Trace(context.Background(), time.Now(), func() (string, int64) {
		return `SELECT * FROM "quotations"`, 0
	}, gormlogger.ErrRecordNotFound)
	assert.Zero(t, logs.Len())

	l.Trace(context.Background(), time.Now(), func() (string, int64) {
		return `DELETE FROM "quotations"`, 0
	}, errors.New("boom"))
	if assert.Equal(t, 1, logs.Len()) {
		fields := logs.All()[0].ContextMap()
		assert.Equal(t, "DELETE", fields["operation"])
		assert.Equal(t, "quotations", fields["table"])
	}
}
