package backend

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/angelmondragon/rentpos-backend/internal/checkout"
	"github.com/angelmondragon/rentpos-backend/pkg/config"
	"github.com/angelmondragon/rentpos-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/rentpos-backend/pkg/errors"
	"github.com/angelmondragon/rentpos-backend/pkg/requestctx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type transitionRecorder struct {
	mu     sync.Mutex
	states []string
}

func (r *transitionRecorder) IncBreakerTransition(state string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.states = append(r.states, state)
}

func newTestClient(t *testing.T, handler http.HandlerFunc, opts ...Option) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := NewClient(config.BackendConfig{
		BaseURL:             srv.URL,
		Token:               "service-token",
		BreakerMaxRequests:  1,
		BreakerTimeout:      time.Minute,
		BreakerMinRequests:  2,
		BreakerFailureRatio: 0.5,
	}, opts...)
	require.NoError(t, err)
	return client
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}

func TestNewClientRequiresBaseURL(t *testing.T) {
	t.Parallel()

	_, err := NewClient(config.BackendConfig{})
	require.Error(t, err)

	_, err = NewClient(config.BackendConfig{BaseURL: "not a url"})
	require.Error(t, err)
}

func TestCreateTransactionSendsPayloadAndToken(t *testing.T) {
	t.Parallel()

	var gotAuth string
	var gotBody map[string]any
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/transactions", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		writeJSON(w, http.StatusCreated, `{"meta":{"message":"ok"},"data":{"uuid":"trx-1","invoice":"TRX-20240115-0001"}}`)
	})

	nego := decimal.NewFromInt(10000)
	plusExtra := decimal.NewFromInt(205000)
	ctx := requestctx.WithAuthToken(context.Background(), "cashier-token")
	res, err := client.CreateTransaction(ctx, checkout.SalePayload{
		Type:              checkout.PayloadTypeSale,
		CustomerID:        "cust-1",
		Subtotal:          decimal.NewFromInt(200000),
		SubtotalPlusExtra: &plusExtra,
		Nego:              &nego,
		GrandTotal:        decimal.NewFromInt(174500),
		Status:            "proses",
	})
	require.NoError(t, err)
	assert.Equal(t, "trx-1", res.ID)
	assert.Equal(t, "TRX-20240115-0001", res.Invoice)
	assert.Equal(t, "cashier-token", gotAuth)
	assert.Equal(t, "cust-1", gotBody["customer_id"])
	assert.NotContains(t, gotBody, "ppn")
	assert.Contains(t, gotBody, "subtotalPlusExtra")
	assert.NotContains(t, gotBody, "subtotal_plus_extra")
}

func TestConfiguredTokenUsedWithoutCallerToken(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "service-token", r.Header.Get("Authorization"))
		writeJSON(w, http.StatusOK, `{"data":{"id":42}}`)
	})

	res, err := client.UpdateRental(context.Background(), "rnt-1", checkout.RentalPayload{Invoice: "RNT-1"})
	require.NoError(t, err)
	assert.Equal(t, "42", res.ID)
	assert.Equal(t, "RNT-1", res.Invoice)
}

func TestErrorMessageFallbackChain(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		body string
		want string
	}{
		{name: "meta", body: `{"meta":{"message":"Stok habis"},"errors":[{"msg":"x"}],"message":"y"}`, want: "Stok habis"},
		{name: "errors", body: `{"errors":[{"msg":"customer_id wajib diisi"}],"message":"y"}`, want: "customer_id wajib diisi"},
		{name: "message", body: `{"message":"Invoice sudah dipakai"}`, want: "Invoice sudah dipakai"},
		{name: "generic", body: `not json`, want: genericMessage},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
				writeJSON(w, http.StatusUnprocessableEntity, tc.body)
			})

			_, err := client.CreateRental(context.Background(), checkout.RentalPayload{})
			require.Error(t, err)
			assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

			var um checkout.UserMessager
			require.True(t, errors.As(err, &um))
			assert.Equal(t, tc.want, um.UserMessage())
		})
	}
}

func TestStatusCodesMapToErrorCodes(t *testing.T) {
	t.Parallel()

	cases := map[int]pkgerrors.Code{
		http.StatusUnauthorized: pkgerrors.CodeUnauthorized,
		http.StatusNotFound:     pkgerrors.CodeNotFound,
		http.StatusConflict:     pkgerrors.CodeConflict,
		http.StatusBadRequest:   pkgerrors.CodeValidation,
		http.StatusBadGateway:   pkgerrors.CodeDependency,
		http.StatusForbidden:    pkgerrors.CodeInternal,
	}
	for status, want := range cases {
		apiErr := &APIError{StatusCode: status}
		assert.Equal(t, want, apiErr.Code(), "status %d", status)
	}
}

func TestTransactionDecodesRecord(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/transactions/trx-1", r.URL.Path)
		writeJSON(w, http.StatusOK, `{"data":{"uuid":"trx-1","invoice":"TRX-1","nego":"10000","pph":2,"transaction_details":[{"id":3,"qty":1,"price":50000,"product":{"uuid":"p-1","title":"Bor"}}]}}`)
	})

	trx, err := client.Transaction(context.Background(), "trx-1")
	require.NoError(t, err)
	assert.Equal(t, "TRX-1", trx.Invoice)
	assert.True(t, trx.Nego.Safe().Equal(decimal.NewFromInt(10000)))
	require.Len(t, trx.Details, 1)
	assert.Equal(t, "3", trx.Details[0].ID.String())
}

func TestMissingRecordIsNotFound(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, `{"meta":{"message":"ok"},"data":null}`)
	})

	_, err := client.Rental(context.Background(), "rnt-9")
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func TestNextInvoiceAcceptsStringOrObject(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/transactions/invoice/new":
			writeJSON(w, http.StatusOK, `{"data":"TRX-20240115-0002"}`)
		case "/api/rentals/invoice/new":
			writeJSON(w, http.StatusOK, `{"data":{"invoice":"RNT-20240115-0007"}}`)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})

	inv, err := client.NextInvoice(context.Background(), enums.DraftKindSale)
	require.NoError(t, err)
	assert.Equal(t, "TRX-20240115-0002", inv)

	inv, err = client.NextInvoice(context.Background(), enums.DraftKindRental)
	require.NoError(t, err)
	assert.Equal(t, "RNT-20240115-0007", inv)
}

func TestStatusPatchBody(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/api/rentals/rnt-1/status", r.URL.Path)
		var body statusBody
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "selesai", body.Status)
		writeJSON(w, http.StatusOK, `{"meta":{"message":"ok"}}`)
	})

	require.NoError(t, client.UpdateRentalStatus(context.Background(), "rnt-1", enums.RentalStatusSelesai))
}

func TestProductAndCustomerMapping(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/products-all":
			writeJSON(w, http.StatusOK, `{"data":[{"uuid":"p-1","title":"Genset","sell_price":"1500000","rent_price":250000,"stock":3,"category":{"name":"Listrik"}},{"uuid":"p-2","title":"Tangga"}]}`)
		case "/api/customers-all":
			writeJSON(w, http.StatusOK, `{"data":[{"uuid":"c-1","label":"Pak Budi","name_perusahaan":"PT Budi"},{"uuid":"c-2","name_perusahaan":"CV Abadi","no_telp":"0812"}]}`)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})

	products, err := client.Products(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, "Genset", products[0].Name)
	assert.True(t, products[0].Price.Equal(decimal.NewFromInt(1500000)))
	assert.Equal(t, "Listrik", products[0].Category)
	assert.Equal(t, defaultCategory, products[1].Category)
	assert.True(t, products[1].Price.IsZero())

	customers, err := client.Customers(context.Background())
	require.NoError(t, err)
	require.Len(t, customers, 2)
	assert.Equal(t, "Pak Budi", customers[0].Name)
	assert.Equal(t, "CV Abadi", customers[1].Name)
	assert.Equal(t, "0812", customers[1].Phone)
}

func TestBreakerOpensOnServerErrors(t *testing.T) {
	t.Parallel()

	var calls int
	var mu sync.Mutex
	observer := &transitionRecorder{}
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		mu.Lock()
		calls++
		mu.Unlock()
		writeJSON(w, http.StatusInternalServerError, `{"message":"db down"}`)
	}, WithStateObserver(observer))

	for i := 0; i < 2; i++ {
		_, err := client.Transaction(context.Background(), "trx-1")
		require.Error(t, err)
		assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeDependency))
	}

	_, err := client.Transaction(context.Background(), "trx-1")
	require.Error(t, err)
	assert.Equal(t, "backend unavailable", pkgerrors.As(err).Message())

	mu.Lock()
	assert.Equal(t, 2, calls)
	mu.Unlock()
	assert.Equal(t, []string{"open"}, observer.states)
}

func TestClientErrorsDoNotTripBreaker(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusNotFound, `{"meta":{"message":"Transaksi tidak ditemukan"}}`)
	})

	for i := 0; i < 5; i++ {
		_, err := client.Transaction(context.Background(), "missing")
		assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
	}
}
