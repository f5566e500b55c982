package controllers

import (
	"net/http"

	"github.com/angelmondragon/rentpos-backend/api/responses"
	"github.com/angelmondragon/rentpos-backend/internal/cart"
	"github.com/angelmondragon/rentpos-backend/pkg/logger"
)

func CatalogProducts(dir cart.Directory, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		products, err := dir.Products(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if products == nil {
			products = []cart.Product{}
		}
		responses.WriteSuccess(r.Context(), w, products)
	}
}

func CatalogCustomers(dir cart.Directory, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		customers, err := dir.Customers(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if customers == nil {
			customers = []cart.Customer{}
		}
		responses.WriteSuccess(r.Context(), w, customers)
	}
}
