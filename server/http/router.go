package serverhttp

import (
	"database/sql"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"metalshop/internal/anaf"
	anafHnd "metalshop/internal/anaf/handler"
	bomHnd "metalshop/internal/bom/handler"
	bomStore "metalshop/internal/bom/store"
	cartHnd "metalshop/internal/cart/handler"
	cartSvc "metalshop/internal/cart/service"
	catHnd "metalshop/internal/catalog/handler"
	catRepo "metalshop/internal/catalog/repository"
	"metalshop/internal/config"
	"metalshop/internal/middleware"
	rfqHnd "metalshop/internal/rfq/handler"
	rfqSvc "metalshop/internal/rfq/service"
	"metalshop/server/http/handlers"
)

// Deps are the wired services the routes need.
type Deps struct {
	DB        *sql.DB
	Catalog   *catRepo.Repository
	Uploads   *bomStore.Store
	Estimator *cartSvc.Estimator
	RFQ       *rfqSvc.Service
	Anaf      *anaf.Service
}

func NewRouter(cfg config.Config, logger zerolog.Logger, d Deps) *chi.Mux {
	r := chi.NewRouter()

	// order matters: recover -> requestID -> logging -> metrics -> cors -> limit
	r.Use(middleware.Recover(logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.Logging(logger))
	r.Use(middleware.Metrics())
	r.Use(middleware.CORS(cfg.AllowOrigins))
	r.Use(middleware.LimitBytes(cfg.MaxUploadBytes()))

	r.Get("/health", handlers.Health(d.DB))
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/products", catHnd.Search(d.Catalog, logger))
		r.Get("/products/suggest", catHnd.Suggest(d.Catalog, logger))
		r.Get("/products/{id}", catHnd.Get(d.Catalog, logger))

		r.Route("/bom", func(r chi.Router) {
			r.Get("/template", bomHnd.Template(logger))
			r.Post("/parse", bomHnd.Parse(d.Catalog, d.Uploads, logger))
			r.Get("/{id}", bomHnd.Get(d.Uploads, logger))
			r.Put("/{id}/rows/{rowIndex}", bomHnd.Remap(d.Catalog, d.Uploads, logger))
			r.Get("/{id}/rows/{rowIndex}/suggestions", bomHnd.Suggestions(d.Catalog, d.Uploads, logger))
			r.Post("/{id}/estimate", bomHnd.Estimate(d.Catalog, d.Uploads, d.Estimator, logger))
		})

		r.Post("/cart/estimate", cartHnd.Estimate(d.Catalog, d.Estimator, logger))

		r.Route("/rfq", func(r chi.Router) {
			r.Post("/", rfqHnd.Submit(d.RFQ, logger))
			r.Get("/", rfqHnd.List(d.RFQ, logger))
			r.Get("/{id}", rfqHnd.Get(d.RFQ, logger))
			r.Patch("/{id}/status", rfqHnd.UpdateStatus(d.RFQ, logger))
		})

		r.Get("/anaf/cui/{cui}", anafHnd.Company(d.Anaf, logger))
	})

	return r
}
