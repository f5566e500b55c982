package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/rentpos-backend/api/controllers"
	"github.com/angelmondragon/rentpos-backend/api/middleware"
	"github.com/angelmondragon/rentpos-backend/internal/cart"
	"github.com/angelmondragon/rentpos-backend/internal/checkout"
	"github.com/angelmondragon/rentpos-backend/internal/records"
	"github.com/angelmondragon/rentpos-backend/pkg/config"
	"github.com/angelmondragon/rentpos-backend/pkg/enums"
	"github.com/angelmondragon/rentpos-backend/pkg/logger"
	"github.com/angelmondragon/rentpos-backend/pkg/redis"
)

// Services are the domain services the router exposes. Directory is optional
// and only mounted when the catalog comes from the backend.
type Services struct {
	Cart      cart.Service
	Checkout  checkout.Service
	Records   records.Service
	Directory cart.Directory
}

// Infra groups what the router needs besides domain services.
type Infra struct {
	Idempotency redis.IdempotencyStore
	Gatherer    prometheus.Gatherer
	Ready       map[string]controllers.Pinger
}

func NewRouter(cfg *config.Config, logg *logger.Logger, svc Services, infra Infra) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.CORS.AllowedOrigins),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, infra.Ready))
	})

	if infra.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(infra.Gatherer, promhttp.HandlerOpts{}))
	}

	idempotent := middleware.Idempotency(infra.Idempotency, cfg.Idempotency.CheckoutTTL, logg)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Session(logg))
		r.Use(middleware.Notifications())

		r.Route("/quotes", func(r chi.Router) {
			r.Post("/sale", controllers.Quote(svc.Cart, enums.DraftKindSale, logg))
			r.Post("/rental", controllers.Quote(svc.Cart, enums.DraftKindRental, logg))
			r.Post("/repair", controllers.Quote(svc.Cart, enums.DraftKindRepair, logg))
		})

		r.Route("/drafts/{kind}", func(r chi.Router) {
			r.Get("/", controllers.DraftGet(svc.Cart, logg))
			r.Delete("/", controllers.DraftReset(svc.Cart, logg))

			r.Post("/items", controllers.DraftAddItem(svc.Cart, logg))
			r.Patch("/items/{lineId}", controllers.DraftChangeQty(svc.Cart, logg))
			r.Put("/items/{lineId}/dates", controllers.DraftSetDates(svc.Cart, logg))
			r.Delete("/items/{lineId}", controllers.DraftRemoveItem(svc.Cart, logg))

			r.Put("/customer", controllers.DraftSetCustomer(svc.Cart, logg))
			r.Delete("/customer", controllers.DraftClearCustomer(svc.Cart, logg))
			r.Put("/variant", controllers.DraftSetVariant(svc.Cart, logg))
			r.Put("/adjustments/{field}", controllers.DraftSetAdjustment(svc.Cart, logg))

			r.Post("/checkout/preview", controllers.CheckoutPreview(svc.Checkout, logg))
			r.With(idempotent).Post("/checkout", controllers.CheckoutSubmit(svc.Checkout, logg))
		})

		r.Post("/transactions/{id}/edit", controllers.TransactionEdit(svc.Records, logg))
		r.Patch("/transactions/{id}/status", controllers.TransactionStatus(svc.Records, logg))
		r.Post("/rentals/{id}/edit", controllers.RentalEdit(svc.Records, logg))
		r.Patch("/rentals/{id}/status", controllers.RentalStatus(svc.Records, logg))
		r.Get("/invoices/next", controllers.InvoiceNext(svc.Records, logg))

		if svc.Directory != nil {
			r.Get("/catalog/products", controllers.CatalogProducts(svc.Directory, logg))
			r.Get("/catalog/customers", controllers.CatalogCustomers(svc.Directory, logg))
		}
	})

	return r
}
