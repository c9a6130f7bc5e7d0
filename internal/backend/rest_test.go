package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/juninhokosta/jp-forro-2-sub000/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"
)

// fakeTableStore serves the remote table-store wire contract over a real
// listener so the fasthttp client path is exercised end to end.
type fakeTableStore struct {
	mu      sync.Mutex
	records map[string][]json.RawMessage
	deleted []string
	fail    bool
}

func (f *fakeTableStore) handler(ctx *fasthttp.RequestCtx) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.fail {
		ctx.SetStatusCode(fasthttp.StatusInternalServerError)
		return
	}

	path := string(ctx.Path())
	method := string(ctx.Method())

	switch {
	case method == fasthttp.MethodGet:
		table := path[len("/tables/"):]
		raw, _ := json.Marshal(f.records[table])
		ctx.SetContentType("application/json")
		fmt.Fprintf(ctx, `{"records":%s}`, raw)
	case method == fasthttp.MethodPut:
		table := path[len("/tables/") : len(path)-len("/records")]
		body := append(json.RawMessage(nil), ctx.PostBody()...)
		if f.records == nil {
			f.records = map[string][]json.RawMessage{}
		}
		f.records[table] = append(f.records[table], body)
		ctx.SetStatusCode(fasthttp.StatusOK)
	case method == fasthttp.MethodDelete:
		f.deleted = append(f.deleted, path)
		ctx.SetStatusCode(fasthttp.StatusNoContent)
	default:
		ctx.SetStatusCode(fasthttp.StatusNotFound)
	}
}

func startFakeStore(t *testing.T, store *fakeTableStore) string {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { ln.Close() })

	go fasthttp.Serve(ln, store.handler) //nolint:errcheck

	return "http://" + ln.Addr().String()
}

func TestRestLoadTransactions(t *testing.T) {
	raw, err := json.Marshal(&model.Transaction{
		ID: "TR-AAAAA", Type: model.TransactionIncome, Amount: 100,
		Description: "pagamento", PartnerID: "PRT-1",
	})
	require.NoError(t, err)

	fake := &fakeTableStore{records: map[string][]json.RawMessage{
		TableTransactions: {raw},
	}}
	rest := NewRest(startFakeStore(t, fake), time.Second)

	got, err := rest.LoadTransactions(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "TR-AAAAA", got[0].ID)
	assert.Equal(t, 100.0, got[0].Amount)
}

func TestRestUpsertAndDelete(t *testing.T) {
	fake := &fakeTableStore{}
	rest := NewRest(startFakeStore(t, fake), time.Second)
	ctx := context.Background()

	payload, err := json.Marshal(&model.Customer{ID: "CLI-AAAAA", Name: "Maria"})
	require.NoError(t, err)

	require.NoError(t, rest.Upsert(ctx, TableCustomers, payload))
	require.NoError(t, rest.Delete(ctx, TableCustomers, "CLI-AAAAA"))

	fake.mu.Lock()
	defer fake.mu.Unlock()
	require.Len(t, fake.records[TableCustomers], 1)
	assert.JSONEq(t, string(payload), string(fake.records[TableCustomers][0]))
	require.Len(t, fake.deleted, 1)
	assert.Equal(t, "/tables/customers/records/CLI-AAAAA", fake.deleted[0])
}

func TestRestSurfacesServerErrors(t *testing.T) {
	fake := &fakeTableStore{fail: true}
	rest := NewRest(startFakeStore(t, fake), time.Second)

	_, err := rest.LoadCustomers(context.Background())
	assert.Error(t, err)
}

func TestKnownTable(t *testing.T) {
	for _, table := range Tables {
		assert.True(t, KnownTable(table))
	}
	assert.False(t, KnownTable("partners"), "partner roster is not a record-store table")
	assert.False(t, KnownTable("bogus"))
}
