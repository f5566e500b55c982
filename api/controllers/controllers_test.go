package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/rentpos-backend/internal/cart"
	"github.com/angelmondragon/rentpos-backend/internal/checkout"
	"github.com/angelmondragon/rentpos-backend/internal/pricing"
	"github.com/angelmondragon/rentpos-backend/pkg/config"
	"github.com/angelmondragon/rentpos-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/rentpos-backend/pkg/errors"
	"github.com/angelmondragon/rentpos-backend/pkg/requestctx"
)

type stubCart struct {
	cart.Service

	session string
	kind    enums.DraftKind
	product cart.Product
	field   pricing.Field
	value   pricing.Input
	qty     int
	quoted  *cart.Draft
	err     error
}

func (s *stubCart) view(kind enums.DraftKind) *cart.View {
	return &cart.View{Draft: &cart.Draft{Kind: kind, Lines: []cart.Line{}}}
}

func (s *stubCart) AddProduct(_ context.Context, session string, kind enums.DraftKind, p cart.Product) (*cart.View, error) {
	s.session, s.kind, s.product = session, kind, p
	return s.view(kind), s.err
}

func (s *stubCart) ChangeQty(_ context.Context, session string, kind enums.DraftKind, _ uuid.UUID, delta int) (*cart.View, error) {
	s.session, s.kind, s.qty = session, kind, delta
	return s.view(kind), s.err
}

func (s *stubCart) SetAdjustment(_ context.Context, session string, kind enums.DraftKind, field pricing.Field, value pricing.Input) (*cart.View, error) {
	s.session, s.kind, s.field, s.value = session, kind, field, value
	return s.view(kind), s.err
}

func (s *stubCart) Quote(_ context.Context, d *cart.Draft) (*cart.View, error) {
	s.quoted = d
	return &cart.View{Draft: d}, s.err
}

type stubCheckout struct {
	confirm bool
	out     *checkout.Outcome
	err     error
}

func (s *stubCheckout) Preview(context.Context, string, enums.DraftKind) (*checkout.Outcome, error) {
	return s.out, s.err
}

func (s *stubCheckout) Checkout(_ context.Context, _ string, _ enums.DraftKind, confirm bool) (*checkout.Outcome, error) {
	s.confirm = confirm
	return s.out, s.err
}

type stubRecords struct {
	id, status string
	kind       enums.DraftKind
	err        error
}

func (s *stubRecords) LoadTransaction(_ context.Context, _ string, id string) (*cart.View, error) {
	s.id = id
	return nil, s.err
}

func (s *stubRecords) LoadRental(_ context.Context, _ string, id string) (*cart.View, error) {
	s.id = id
	return nil, s.err
}

func (s *stubRecords) SetTransactionStatus(_ context.Context, id, status string) error {
	s.id, s.status = id, status
	return s.err
}

func (s *stubRecords) SetRentalStatus(_ context.Context, id, status string) error {
	s.id, s.status = id, status
	return s.err
}

func (s *stubRecords) NextInvoice(_ context.Context, kind enums.DraftKind) (string, error) {
	s.kind = kind
	return "RNT-20240115-0001", s.err
}

type stubPinger struct{ err error }

func (p stubPinger) Ping(context.Context) error { return p.err }

func newRequest(method, target string, body io.Reader, params map[string]string) *http.Request {
	req := httptest.NewRequest(method, target, body)
	rc := chi.NewRouteContext()
	for k, v := range params {
		rc.URLParams.Add(k, v)
	}
	ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rc)
	ctx = requestctx.WithSessionID(ctx, "till-1")
	return req.WithContext(ctx)
}

func decodeData(t *testing.T, resp *httptest.ResponseRecorder, dest any) {
	t.Helper()
	envelope := struct {
		Data any `json:"data"`
	}{Data: dest}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func errorCode(t *testing.T, resp *httptest.ResponseRecorder) string {
	t.Helper()
	var envelope struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	return envelope.Error.Code
}

func TestDraftAddItemForwardsSnapshot(t *testing.T) {
	t.Parallel()

	svc := &stubCart{}
	req := newRequest(http.MethodPost, "/api/v1/drafts/rental/items",
		strings.NewReader(`{"product_id":" p-9 ","name":"Scaffolding","price":"150000","rent_price":25000}`),
		map[string]string{"kind": "rental"})
	resp := httptest.NewRecorder()
	DraftAddItem(svc, nil).ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	if svc.session != "till-1" || svc.kind != enums.DraftKindRental {
		t.Fatalf("unexpected scope %q %q", svc.session, svc.kind)
	}
	if svc.product.ID != "p-9" || !svc.product.RentPrice.Equal(decimal.NewFromInt(25000)) {
		t.Fatalf("unexpected product %+v", svc.product)
	}
}

func TestDraftAddItemRejectsBadInput(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		kind string
		body string
	}{
		{"missing product", "sale", `{"name":"x"}`},
		{"unknown kind", "lease", `{"product_id":"p-1"}`},
		{"unknown field", "sale", `{"product_id":"p-1","sku":"x"}`},
	}
	for _, tt := range tests {
		svc := &stubCart{}
		req := newRequest(http.MethodPost, "/", strings.NewReader(tt.body), map[string]string{"kind": tt.kind})
		resp := httptest.NewRecorder()
		DraftAddItem(svc, nil).ServeHTTP(resp, req)
		if resp.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400 got %d", tt.name, resp.Code)
		}
		if svc.session != "" {
			t.Fatalf("%s: service should not be called", tt.name)
		}
	}
}

func TestDraftChangeQtyRequiresLineID(t *testing.T) {
	t.Parallel()

	svc := &stubCart{}
	resp := httptest.NewRecorder()
	req := newRequest(http.MethodPatch, "/", strings.NewReader(`{"delta":-1}`), map[string]string{"kind": "sale", "lineId": "nope"})
	DraftChangeQty(svc, nil).ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}

	resp = httptest.NewRecorder()
	req = newRequest(http.MethodPatch, "/", strings.NewReader(`{"delta":-1}`), map[string]string{"kind": "sale", "lineId": uuid.NewString()})
	DraftChangeQty(svc, nil).ServeHTTP(resp, req)
	if resp.Code != http.StatusOK || svc.qty != -1 {
		t.Fatalf("expected delta forwarded, code=%d qty=%d", resp.Code, svc.qty)
	}
}

func TestDraftSetAdjustmentCoercesValue(t *testing.T) {
	t.Parallel()

	tests := []struct {
		body   string
		set    bool
		amount int64
	}{
		{`{"value":"250000"}`, true, 250000},
		{`{"value":12.5e3}`, true, 12500},
		{`{"value":"Rp 1.000"}`, false, 0},
		{`{"value":null}`, false, 0},
		{`{}`, false, 0},
	}
	for _, tt := range tests {
		svc := &stubCart{}
		req := newRequest(http.MethodPut, "/", strings.NewReader(tt.body), map[string]string{"kind": "sale", "field": "nego"})
		resp := httptest.NewRecorder()
		DraftSetAdjustment(svc, nil).ServeHTTP(resp, req)
		if resp.Code != http.StatusOK {
			t.Fatalf("%s: expected 200 got %d", tt.body, resp.Code)
		}
		if svc.field != pricing.FieldDiscount {
			t.Fatalf("%s: unexpected field %q", tt.body, svc.field)
		}
		if svc.value.IsSet() != tt.set || !svc.value.Safe().Equal(decimal.NewFromInt(tt.amount)) {
			t.Fatalf("%s: unexpected value %q", tt.body, svc.value.String())
		}
	}

	req := newRequest(http.MethodPut, "/", strings.NewReader(`{"value":1}`), map[string]string{"kind": "sale", "field": "tip"})
	resp := httptest.NewRecorder()
	DraftSetAdjustment(&stubCart{}, nil).ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected unknown field rejected, got %d", resp.Code)
	}
}

func TestQuoteBuildsDraftForKind(t *testing.T) {
	t.Parallel()

	svc := &stubCart{}
	body := `{"variant":"ppn","items":[{"product_id":"p-1","price":100000,"qty":2}],"adjustments":{"ppn":11,"nego":"5000"}}`
	resp := httptest.NewRecorder()
	Quote(svc, enums.DraftKindSale, nil).ServeHTTP(resp, newRequest(http.MethodPost, "/", strings.NewReader(body), nil))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	d := svc.quoted
	if d == nil || d.Kind != enums.DraftKindSale || d.TaxVariant != enums.TaxVariantValueAdded {
		t.Fatalf("unexpected quoted draft %+v", d)
	}
	if len(d.Lines) != 1 || d.Lines[0].Qty != 2 || d.Lines[0].ID == uuid.Nil {
		t.Fatalf("unexpected lines %+v", d.Lines)
	}
	if !d.Adjustments.Discount.Safe().Equal(decimal.NewFromInt(5000)) {
		t.Fatalf("unexpected nego %s", d.Adjustments.Discount.String())
	}

	repair := &stubCart{}
	resp = httptest.NewRecorder()
	Quote(repair, enums.DraftKindRepair, nil).ServeHTTP(resp, newRequest(http.MethodPost, "/",
		strings.NewReader(`{"variant":"ppn","adjustments":{"repair_cost":300000}}`), nil))
	if resp.Code != http.StatusOK || repair.quoted.TaxVariant != "" || len(repair.quoted.Lines) != 0 {
		t.Fatalf("repair quote should ignore variant and lines: %+v", repair.quoted)
	}

	resp = httptest.NewRecorder()
	Quote(&stubCart{}, enums.DraftKindSale, nil).ServeHTTP(resp, newRequest(http.MethodPost, "/",
		strings.NewReader(`{"items":[{"product_id":"p-1","qty":0}]}`), nil))
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected zero qty rejected, got %d", resp.Code)
	}
}

func TestCheckoutSubmitStatusFollowsOutcome(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		out  checkout.Outcome
		want int
	}{
		{"succeeded", checkout.Outcome{State: enums.CheckoutStateSucceeded, Invoice: "TRX-20240115-0001"}, http.StatusCreated},
		{"rejected", checkout.Outcome{State: enums.CheckoutStateIdle, Rejection: &checkout.Rejection{Title: "Keranjang kosong"}}, http.StatusUnprocessableEntity},
		{"declined", checkout.Outcome{State: enums.CheckoutStateIdle, Declined: true}, http.StatusOK},
		{"failed", checkout.Outcome{State: enums.CheckoutStateFailed}, http.StatusBadGateway},
	}
	for _, tt := range tests {
		out := tt.out
		svc := &stubCheckout{out: &out}
		req := newRequest(http.MethodPost, "/", strings.NewReader(`{"confirm":true}`), map[string]string{"kind": "sale"})
		resp := httptest.NewRecorder()
		CheckoutSubmit(svc, nil).ServeHTTP(resp, req)
		if resp.Code != tt.want {
			t.Fatalf("%s: expected %d got %d", tt.name, tt.want, resp.Code)
		}
		if !svc.confirm {
			t.Fatalf("%s: confirm flag not forwarded", tt.name)
		}
	}
}

func TestCheckoutSubmitMapsInProgress(t *testing.T) {
	t.Parallel()

	svc := &stubCheckout{err: checkout.ErrCheckoutInProgress}
	resp := httptest.NewRecorder()
	CheckoutSubmit(svc, nil).ServeHTTP(resp, newRequest(http.MethodPost, "/", strings.NewReader(`{}`), map[string]string{"kind": "rental"}))
	if resp.Code != http.StatusConflict {
		t.Fatalf("expected 409 got %d", resp.Code)
	}
	if svc.confirm {
		t.Fatalf("missing confirm must read as false")
	}
}

func TestStatusPatchForwardsBody(t *testing.T) {
	t.Parallel()

	svc := &stubRecords{}
	req := newRequest(http.MethodPatch, "/", strings.NewReader(`{"status":"selesai"}`), map[string]string{"id": "42"})
	resp := httptest.NewRecorder()
	RentalStatus(svc, nil).ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if svc.id != "42" || svc.status != "selesai" {
		t.Fatalf("unexpected call %+v", svc)
	}

	svc = &stubRecords{err: pkgerrors.New(pkgerrors.CodeValidation, "invalid rental status")}
	req = newRequest(http.MethodPatch, "/", strings.NewReader(`{"status":"hilang"}`), map[string]string{"id": "42"})
	resp = httptest.NewRecorder()
	TransactionStatus(svc, nil).ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestTransactionEditNotFound(t *testing.T) {
	t.Parallel()

	svc := &stubRecords{err: pkgerrors.New(pkgerrors.CodeNotFound, "transaction not found")}
	resp := httptest.NewRecorder()
	TransactionEdit(svc, nil).ServeHTTP(resp, newRequest(http.MethodPost, "/", nil, map[string]string{"id": "abc"}))
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", resp.Code)
	}
	if code := errorCode(t, resp); code != string(pkgerrors.CodeNotFound) {
		t.Fatalf("unexpected code %s", code)
	}
	if svc.id != "abc" {
		t.Fatalf("id not forwarded: %q", svc.id)
	}
}

func TestInvoiceNext(t *testing.T) {
	t.Parallel()

	svc := &stubRecords{}
	resp := httptest.NewRecorder()
	InvoiceNext(svc, nil).ServeHTTP(resp, newRequest(http.MethodGet, "/api/v1/invoices/next?kind=rental", nil, nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	var got invoiceResponse
	decodeData(t, resp, &got)
	if got.Invoice != "RNT-20240115-0001" || svc.kind != enums.DraftKindRental {
		t.Fatalf("unexpected response %+v", got)
	}

	resp = httptest.NewRecorder()
	InvoiceNext(svc, nil).ServeHTTP(resp, newRequest(http.MethodGet, "/api/v1/invoices/next?kind=lease", nil, nil))
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestHealthReadyReportsFailedDependencies(t *testing.T) {
	t.Parallel()

	cfg := &config.Config{App: config.AppConfig{Env: "dev"}}
	handler := HealthReady(cfg, nil, map[string]Pinger{
		"redis":   stubPinger{},
		"backend": stubPinger{err: errors.New("dial tcp: refused")},
		"db":      nil,
	})
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	if resp.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 got %d", resp.Code)
	}

	handler = HealthReady(cfg, nil, map[string]Pinger{"redis": stubPinger{}})
	resp = httptest.NewRecorder()
	handler.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if resp.Header().Get("X-RentPOS-Env") != "dev" {
		t.Fatalf("expected env header")
	}
}
