package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/vertice-pos/vertice-pos/internal/cashbox"
	"github.com/vertice-pos/vertice-pos/internal/dashboard"
	"github.com/vertice-pos/vertice-pos/internal/finance"
	"github.com/vertice-pos/vertice-pos/internal/masterdata/categories"
	"github.com/vertice-pos/vertice-pos/internal/masterdata/clients"
	"github.com/vertice-pos/vertice-pos/internal/masterdata/products"
	"github.com/vertice-pos/vertice-pos/internal/masterdata/suppliers"
	"github.com/vertice-pos/vertice-pos/internal/receivables"
	"github.com/vertice-pos/vertice-pos/internal/sales"
	"github.com/vertice-pos/vertice-pos/internal/stock"
	"github.com/vertice-pos/vertice-pos/internal/users"
	"github.com/vertice-pos/vertice-pos/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger             *slog.Logger
	Config             *Config
	SalesHandler       *sales.Handler
	ReceivablesHandler *receivables.Handler
	StockHandler       *stock.Handler
	FinanceHandler     *finance.Handler
	CashboxHandler     *cashbox.Handler
	ClientsHandler     *clients.Handler
	SuppliersHandler   *suppliers.Handler
	CategoriesHandler  *categories.Handler
	ProductsHandler    *products.Handler
	UsersHandler       *users.Handler
	DashboardHandler   *dashboard.Handler
	JobsHandler        *jobs.Handler
}

// NewRouter constructs the chi.Router with the API defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(params.Logger, params.Config) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	params.SalesHandler.MountRoutes(r)
	params.ReceivablesHandler.MountRoutes(r)
	r.Route("/stock", params.StockHandler.MountRoutes)
	r.Route("/finance", params.FinanceHandler.MountRoutes)
	params.CashboxHandler.MountRoutes(r)
	params.ClientsHandler.MountRoutes(r)
	params.SuppliersHandler.MountRoutes(r)
	params.CategoriesHandler.MountRoutes(r)
	params.ProductsHandler.MountRoutes(r)
	params.UsersHandler.MountRoutes(r)
	params.DashboardHandler.MountRoutes(r)
	if params.JobsHandler != nil {
		r.Route("/jobs", params.JobsHandler.MountRoutes)
	}

	return r
}
