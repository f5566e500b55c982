package backend

import (
	"context"
	"net/http"
	"strings"

	"github.com/angelmondragon/rentpos-backend/internal/cart"
	"github.com/angelmondragon/rentpos-backend/internal/pricing"
)

const defaultCategory = "Umum"

type productDTO struct {
	UUID      string        `json:"uuid"`
	Title     string        `json:"title"`
	SellPrice pricing.Input `json:"sell_price"`
	RentPrice pricing.Input `json:"rent_price"`
	Image     string        `json:"image"`
	Stock     int           `json:"stock"`
	Category  *struct {
		Name string `json:"name"`
	} `json:"category"`
}

func (p productDTO) toProduct() cart.Product {
	category := defaultCategory
	if p.Category != nil && strings.TrimSpace(p.Category.Name) != "" {
		category = p.Category.Name
	}
	return cart.Product{
		ID:        p.UUID,
		Name:      p.Title,
		Price:     p.SellPrice.Safe(),
		RentPrice: p.RentPrice.Safe(),
		Category:  category,
		Image:     p.Image,
		Stock:     p.Stock,
	}
}

type customerDTO struct {
	UUID    string `json:"uuid"`
	Label   string `json:"label"`
	Name    string `json:"name_perusahaan"`
	Address string `json:"address"`
	Phone   string `json:"no_telp"`
}

func (c customerDTO) toCustomer() cart.Customer {
	name := c.Label
	if strings.TrimSpace(name) == "" {
		name = c.Name
	}
	return cart.Customer{ID: c.UUID, Name: name, Address: c.Address, Phone: c.Phone}
}

func (c *Client) Products(ctx context.Context) ([]cart.Product, error) {
	var rows []productDTO
	if err := c.do(ctx, http.MethodGet, "/api/products-all", nil, &rows); err != nil {
		return nil, err
	}
	out := make([]cart.Product, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toProduct())
	}
	return out, nil
}

// Product implements cart.Catalog.
func (c *Client) Product(ctx context.Context, id string) (*cart.Product, error) {
	var row productDTO
	if err := c.do(ctx, http.MethodGet, "/api/products/"+escape(id), nil, &row); err != nil {
		return nil, err
	}
	p := row.toProduct()
	return &p, nil
}

func (c *Client) Customers(ctx context.Context) ([]cart.Customer, error) {
	var rows []customerDTO
	if err := c.do(ctx, http.MethodGet, "/api/customers-all", nil, &rows); err != nil {
		return nil, err
	}
	out := make([]cart.Customer, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toCustomer())
	}
	return out, nil
}

func (c *Client) Customer(ctx context.Context, id string) (*cart.Customer, error) {
	var row customerDTO
	if err := c.do(ctx, http.MethodGet, "/api/customers/"+escape(id), nil, &row); err != nil {
		return nil, err
	}
	cust := row.toCustomer()
	return &cust, nil
}
