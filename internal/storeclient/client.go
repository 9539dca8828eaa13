// Package storeclient talks to the remote quotation store over its REST
// contract. It holds no state between calls.
package storeclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/smallbiznis/quotedesk/internal/config"
	"github.com/smallbiznis/quotedesk/internal/observability/logger"
	"github.com/smallbiznis/quotedesk/internal/observability/metrics"
	"github.com/smallbiznis/quotedesk/internal/observability/tracing"
	"github.com/smallbiznis/quotedesk/internal/quotation/contract"
	"github.com/smallbiznis/quotedesk/internal/quotation/domain"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const (
	OpList        = "list"
	OpGet         = "get"
	OpCreate      = "create"
	OpUpdate      = "update"
	OpDelete      = "delete"
	OpInventory   = "inventory"
	OpCompanyInfo = "company_info"
)

// maxErrorBody bounds how much of a failed response is read.
const maxErrorBody = 64 << 10

type Params struct {
	fx.In

	Config  config.Config
	Log     *zap.Logger
	Metrics *metrics.StoreMetrics `optional:"true"`
}

// Client is safe for concurrent use.
type Client struct {
	baseURL string
	http    *http.Client
	log     *zap.Logger
	metrics *metrics.StoreMetrics
	tracer  trace.Tracer
}

func New(p Params) *Client {
	return NewClient(p.Config.Store.BaseURL, &http.Client{Timeout: p.Config.Store.Timeout}, p.Log, p.Metrics)
}

// NewClient builds a client against baseURL, e.g. http://localhost:5000/api.
func NewClient(baseURL string, httpClient *http.Client, log *zap.Logger, m *metrics.StoreMetrics) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
		log:     log.Named("storeclient"),
		metrics: m,
		tracer:  otel.Tracer("quotedesk/storeclient"),
	}
}

func (c *Client) List(ctx context.Context, page, perPage int) (contract.ListResponse, error) {
	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	query.Set("per_page", strconv.Itoa(perPage))

	var out contract.ListResponse
	err := c.do(ctx, OpList, http.MethodGet, "/quotations?"+query.Encode(), nil, &out)
	return out, err
}

func (c *Client) Get(ctx context.Context, id domain.ID) (domain.Quotation, error) {
	if id.IsZero() {
		return domain.Quotation{}, domain.ErrInvalidID
	}
	var wire contract.Quotation
	if err := c.do(ctx, OpGet, http.MethodGet, "/quotations/"+url.PathEscape(id.String()), nil, &wire); err != nil {
		return domain.Quotation{}, err
	}
	q, err := wire.ToDomain()
	if err != nil {
		return domain.Quotation{}, &RemoteError{Op: OpGet, Message: "invalid quotation record", Err: err}
	}
	return q, nil
}

// Create posts a new document and returns the id the store assigned, when
// the response carries one.
func (c *Client) Create(ctx context.Context, q domain.Quotation) (domain.ID, error) {
	body := contract.FromDomain(q)
	body.ID = ""
	var out contract.MessageBody
	err := c.do(ctx, OpCreate, http.MethodPost, "/quotations", body, &out)
	return out.ID, err
}

// Update replaces the stored document wholesale.
func (c *Client) Update(ctx context.Context, id domain.ID, q domain.Quotation) error {
	if id.IsZero() {
		return domain.ErrInvalidID
	}
	body := contract.FromDomain(q)
	body.ID = ""
	return c.do(ctx, OpUpdate, http.MethodPut, "/quotations/"+url.PathEscape(id.String()), body, nil)
}

func (c *Client) Delete(ctx context.Context, id domain.ID) error {
	if id.IsZero() {
		return domain.ErrInvalidID
	}
	return c.do(ctx, OpDelete, http.MethodDelete, "/quotations/"+url.PathEscape(id.String()), nil, nil)
}

// ListInventory fetches the whole inventory; the endpoint is not paginated.
func (c *Client) ListInventory(ctx context.Context) ([]contract.InventoryItem, error) {
	var out []contract.InventoryItem
	err := c.do(ctx, OpInventory, http.MethodGet, "/inventory/", nil, &out)
	return out, err
}

func (c *Client) CompanyInfo(ctx context.Context) (contract.CompanyInfo, error) {
	var out contract.CompanyInfo
	err := c.do(ctx, OpCompanyInfo, http.MethodGet, "/company/info", nil, &out)
	return out, err
}

func (c *Client) do(ctx context.Context, op, method, path string, in, out any) (err error) {
	start := time.Now()
	ctx, span := c.tracer.Start(ctx, "store."+op, trace.WithSpanKind(trace.SpanKindClient))
	span.SetAttributes(
		attribute.String("http.method", method),
		attribute.String("store.op", op),
	)
	defer func() {
		outcome := "ok"
		if err != nil {
			outcome = "error"
			if rErr, ok := AsRemoteError(err); ok && rErr.Status > 0 {
				outcome = "remote_error"
			}
			span.RecordError(tracing.SafeError(err))
			span.SetStatus(codes.Error, op+" failed")
		}
		span.End()
		c.metrics.Observe(op, outcome, time.Since(start))
		logger.WithContext(ctx, c.log).Debug("store call",
			zap.String("op", op),
			zap.String("outcome", outcome),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err),
		)
	}()

	var body io.Reader
	if in != nil {
		raw, mErr := json.Marshal(in)
		if mErr != nil {
			return &RemoteError{Op: op, Message: DefaultErrorMessage, Err: mErr}
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return &RemoteError{Op: op, Message: DefaultErrorMessage, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	tracing.InjectContext(ctx, propagation.HeaderCarrier(req.Header))

	resp, err := c.http.Do(req)
	if err != nil {
		return &RemoteError{Op: op, Message: transportMessage(err), Err: err}
	}
	defer resp.Body.Close()
	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeFailure(op, resp)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &RemoteError{Op: op, Status: resp.StatusCode, Message: DefaultErrorMessage, Err: err}
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &RemoteError{Op: op, Status: resp.StatusCode, Message: "invalid response from store", Err: err}
	}
	return nil
}

func decodeFailure(op string, resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

	var envelope contract.ErrorBody
	msg := ""
	if json.Unmarshal(raw, &envelope) == nil {
		msg = envelope.Message()
	}
	if msg == "" {
		msg = DefaultErrorMessage
	}
	return &RemoteError{
		Op:      op,
		Status:  resp.StatusCode,
		Message: msg,
		Err:     fmt.Errorf("status %d", resp.StatusCode),
	}
}

func transportMessage(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return "store did not respond in time"
	}
	if errors.Is(err, context.Canceled) {
		return "request cancelled"
	}
	return DefaultErrorMessage
}
