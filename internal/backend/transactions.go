package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/angelmondragon/rentpos-backend/internal/checkout"
	"github.com/angelmondragon/rentpos-backend/internal/records"
	"github.com/angelmondragon/rentpos-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/rentpos-backend/pkg/errors"
)

const (
	transactionsPath = "/api/transactions"
	rentalsPath      = "/api/rentals"
)

// saved is the data block returned by create and update calls.
type saved struct {
	UUID    records.ID `json:"uuid"`
	ID      records.ID `json:"id"`
	Invoice string     `json:"invoice"`
}

func (s saved) result() *checkout.Result {
	id := s.UUID
	if id == "" {
		id = s.ID
	}
	return &checkout.Result{ID: id.String(), Invoice: s.Invoice}
}

type statusBody struct {
	Status string `json:"status"`
}

func (c *Client) CreateTransaction(ctx context.Context, p checkout.SalePayload) (*checkout.Result, error) {
	var out saved
	if err := c.do(ctx, http.MethodPost, transactionsPath, p, &out); err != nil {
		return nil, err
	}
	return withInvoice(out.result(), p.Invoice), nil
}

func (c *Client) UpdateTransaction(ctx context.Context, id string, p checkout.SalePayload) (*checkout.Result, error) {
	var out saved
	if err := c.do(ctx, http.MethodPut, transactionsPath+"/"+escape(id), p, &out); err != nil {
		return nil, err
	}
	res := withInvoice(out.result(), p.Invoice)
	if res.ID == "" {
		res.ID = id
	}
	return res, nil
}

func (c *Client) CreateRental(ctx context.Context, p checkout.RentalPayload) (*checkout.Result, error) {
	var out saved
	if err := c.do(ctx, http.MethodPost, rentalsPath, p, &out); err != nil {
		return nil, err
	}
	return withInvoice(out.result(), p.Invoice), nil
}

func (c *Client) UpdateRental(ctx context.Context, id string, p checkout.RentalPayload) (*checkout.Result, error) {
	var out saved
	if err := c.do(ctx, http.MethodPut, rentalsPath+"/"+escape(id), p, &out); err != nil {
		return nil, err
	}
	res := withInvoice(out.result(), p.Invoice)
	if res.ID == "" {
		res.ID = id
	}
	return res, nil
}

// withInvoice keeps the submitted invoice when the backend echoes none.
func withInvoice(res *checkout.Result, invoice string) *checkout.Result {
	if res.Invoice == "" {
		res.Invoice = invoice
	}
	return res
}

func (c *Client) Transaction(ctx context.Context, id string) (*records.Transaction, error) {
	var out records.Transaction
	if err := c.do(ctx, http.MethodGet, transactionsPath+"/"+escape(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// TransactionByInvoice looks a transaction up by its invoice number.
func (c *Client) TransactionByInvoice(ctx context.Context, invoice string) (*records.Transaction, error) {
	var out records.Transaction
	if err := c.do(ctx, http.MethodGet, transactionsPath+"/invoice/"+escape(invoice), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Rental(ctx context.Context, id string) (*records.Rental, error) {
	var out records.Rental
	if err := c.do(ctx, http.MethodGet, rentalsPath+"/"+escape(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) RentalByInvoice(ctx context.Context, invoice string) (*records.Rental, error) {
	var out records.Rental
	if err := c.do(ctx, http.MethodGet, rentalsPath+"/invoice/"+escape(invoice), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateTransactionStatus(ctx context.Context, id string, status enums.TransactionStatus) error {
	return c.do(ctx, http.MethodPatch, transactionsPath+"/"+escape(id)+"/status", statusBody{Status: status.String()}, nil)
}

func (c *Client) UpdateRentalStatus(ctx context.Context, id string, status enums.RentalStatus) error {
	return c.do(ctx, http.MethodPatch, rentalsPath+"/"+escape(id)+"/status", statusBody{Status: status.String()}, nil)
}

func (c *Client) DeleteRental(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, rentalsPath+"/"+escape(id), nil, nil)
}

// NextInvoice asks the backend for the next invoice number. Repairs share
// the transaction sequence.
func (c *Client) NextInvoice(ctx context.Context, kind enums.DraftKind) (string, error) {
	path := transactionsPath + "/invoice/new"
	if kind == enums.DraftKindRental {
		path = rentalsPath + "/invoice/new"
	}
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, path, nil, &raw); err != nil {
		return "", err
	}
	invoice, err := decodeInvoice(raw)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode invoice number")
	}
	if invoice == "" {
		return "", pkgerrors.New(pkgerrors.CodeDependency, "backend returned an empty invoice number")
	}
	return invoice, nil
}

// decodeInvoice accepts either a bare string or an object with an invoice field.
func decodeInvoice(raw json.RawMessage) (string, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s), nil
	}
	var obj struct {
		Invoice string `json:"invoice"`
	}
	if err := json.Unmarshal(raw, &obj); err != nil {
		return "", err
	}
	return strings.TrimSpace(obj.Invoice), nil
}
