package cart

import "context"

// Catalog resolves products before they are added to a draft.
type Catalog interface {
	Product(ctx context.Context, id string) (*Product, error)
}

// CatalogFunc adapts a function to Catalog.
type CatalogFunc func(ctx context.Context, id string) (*Product, error)

func (f CatalogFunc) Product(ctx context.Context, id string) (*Product, error) {
	return f(ctx, id)
}

// Directory lists what a cashier can pick from.
type Directory interface {
	Catalog
	Products(ctx context.Context) ([]Product, error)
	Customers(ctx context.Context) ([]Customer, error)
	Customer(ctx context.Context, id string) (*Customer, error)
}
