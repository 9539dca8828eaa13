package tracing

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

func TestSafeAttributesDropsCustomerData(t *testing.T) {
	attrs := SafeAttributes(
		attribute.String("http.route", "/api/quotations/:id/print"),
		attribute.String("customer.contact_no", "9876543210"),
	)

	assert.Len(t, attrs, 1)
	assert.Equal(t, attribute.Key("http.route"), attrs[0].Key)
}

func TestSafeErrorKeepsFirstLine(t *testing.T) {
	assert.Nil(t, SafeError(nil))
	assert.EqualError(t, SafeError(errors.New("store: boom\nstack")), "store: boom")
}

func TestDisabledProviderSamplesNothing(t *testing.T) {
	tp, err := NewProvider(nil, Config{ServiceName: "quotedesk"}, zap.NewNop())
	assert.NoError(t, err)

	_, span := tp.Tracer("test").Start(t.Context(), "x")
	assert.False(t, span.SpanContext().IsSampled())
	span.End()
}
