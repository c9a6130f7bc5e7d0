package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/juninhokosta/jp-forro-2-sub000/internal/model"
	"github.com/juninhokosta/jp-forro-2-sub000/pkg/logger"
	"github.com/valyala/fasthttp"
)

// Rest talks to a remote table-store API (the hosted deployment, or
// cmd/storemock during development). The wire contract mirrors the Backend
// interface one-to-one: select-all, upsert, delete per table.
type Rest struct {
	baseURL string
	timeout time.Duration
	client  *fasthttp.Client

	consecutiveFails atomic.Int32
}

func NewRest(baseURL string, timeout time.Duration) *Rest {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Rest{
		baseURL: baseURL,
		timeout: timeout,
		client: &fasthttp.Client{
			MaxConnsPerHost:     16,
			ReadTimeout:         timeout,
			WriteTimeout:        timeout,
			MaxIdleConnDuration: time.Minute,
		},
	}
}

type recordsEnvelope struct {
	Records json.RawMessage `json:"records"`
}

func (b *Rest) LoadTransactions(ctx context.Context) ([]*model.Transaction, error) {
	var out []*model.Transaction
	if err := b.selectAll(ctx, TableTransactions, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (b *Rest) LoadOrders(ctx context.Context) ([]*model.ServiceOrder, error) {
	var out []*model.ServiceOrder
	if err := b.selectAll(ctx, TableOrders, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (b *Rest) LoadQuotes(ctx context.Context) ([]*model.Quote, error) {
	var out []*model.Quote
	if err := b.selectAll(ctx, TableQuotes, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (b *Rest) LoadCatalog(ctx context.Context) ([]*model.CatalogItem, error) {
	var out []*model.CatalogItem
	if err := b.selectAll(ctx, TableCatalog, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (b *Rest) LoadCustomers(ctx context.Context) ([]*model.Customer, error) {
	var out []*model.Customer
	if err := b.selectAll(ctx, TableCustomers, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (b *Rest) LoadPartners(ctx context.Context) ([]*model.Partner, error) {
	var out []*model.Partner
	if err := b.selectAll(ctx, TablePartners, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (b *Rest) Upsert(ctx context.Context, table string, payload json.RawMessage) error {
	uri := fmt.Sprintf("%s/tables/%s/records", b.baseURL, table)
	return b.do(fasthttp.MethodPut, uri, payload, nil)
}

func (b *Rest) Delete(ctx context.Context, table string, id string) error {
	uri := fmt.Sprintf("%s/tables/%s/records/%s", b.baseURL, table, id)
	return b.do(fasthttp.MethodDelete, uri, nil, nil)
}

func (b *Rest) selectAll(ctx context.Context, table string, out any) error {
	uri := fmt.Sprintf("%s/tables/%s", b.baseURL, table)
	var env recordsEnvelope
	if err := b.do(fasthttp.MethodGet, uri, nil, &env); err != nil {
		return err
	}
	if len(env.Records) == 0 {
		return nil
	}
	return json.Unmarshal(env.Records, out)
}

func (b *Rest) do(method, uri string, body []byte, out any) error {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(uri)
	req.Header.SetMethod(method)
	if body != nil {
		req.Header.SetContentType("application/json")
		req.SetBody(body)
	}

	if err := b.client.DoTimeout(req, resp, b.timeout); err != nil {
		fails := b.consecutiveFails.Add(1)
		if fails == 1 || fails%10 == 0 {
			logger.Warn("remote store unreachable", "uri", uri, "consecutive_fails", fails, "error", err)
		}
		return fmt.Errorf("remote store %s %s: %w", method, uri, err)
	}

	status := resp.StatusCode()
	if status < 200 || status > 299 {
		b.consecutiveFails.Add(1)
		return fmt.Errorf("remote store %s %s: status %d", method, uri, status)
	}
	b.consecutiveFails.Store(0)

	if out != nil {
		if err := json.Unmarshal(resp.Body(), out); err != nil {
			return fmt.Errorf("remote store %s %s: decode: %w", method, uri, err)
		}
	}
	return nil
}
