package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"metalshop/internal/catalog/model"
	"metalshop/internal/catalog/repository"
	"metalshop/internal/catalog/suggest"
	"metalshop/internal/middleware"
	"metalshop/internal/utils"
)

type Catalog interface {
	Search(ctx context.Context, q model.Query) (model.SearchResult, error)
	Get(ctx context.Context, id string) (model.Product, error)
}

type ActiveLister interface {
	ListActive(ctx context.Context) ([]model.Product, error)
}

// Search: GET /api/products?q=&family=&grade=&standard=&all=&page=&perPage=
// Inactive products are hidden unless all=1.
func Search(c Catalog, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		qs := r.URL.Query()
		q := model.Query{
			Text:       qs.Get("q"),
			Family:     qs.Get("family"),
			Grade:      qs.Get("grade"),
			Standard:   qs.Get("standard"),
			ActiveOnly: !utils.ToBool(qs.Get("all"), false),
			Page:       utils.Atoi(qs.Get("page"), 1),
			PerPage:    utils.Atoi(qs.Get("perPage"), 0),
		}
		res, err := c.Search(r.Context(), q)
		if err != nil {
			logger.Error().Err(err).Str("req_id", middleware.GetRequestID(r)).Msg("catalog search")
			utils.WriteError(w, http.StatusInternalServerError, "catalog unavailable")
			return
		}
		utils.WriteJSON(w, http.StatusOK, res)
	}
}

// Get: GET /api/products/{id}
func Get(c Catalog, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := c.Get(r.Context(), chi.URLParam(r, "id"))
		switch {
		case errors.Is(err, repository.ErrNotFound):
			utils.WriteError(w, http.StatusNotFound, "product not found")
		case err != nil:
			logger.Error().Err(err).Str("req_id", middleware.GetRequestID(r)).Msg("catalog get")
			utils.WriteError(w, http.StatusInternalServerError, "catalog unavailable")
		default:
			utils.WriteJSON(w, http.StatusOK, p)
		}
	}
}

// Suggest: GET /api/products/suggest?q=&limit=
// Fuzzy "did you mean" over active products, for typos the LIKE search misses.
func Suggest(c ActiveLister, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query().Get("q")
		if strings.TrimSpace(q) == "" {
			utils.WriteError(w, http.StatusBadRequest, "q required")
			return
		}
		products, err := c.ListActive(r.Context())
		if err != nil {
			logger.Error().Err(err).Str("req_id", middleware.GetRequestID(r)).Msg("catalog suggest")
			utils.WriteError(w, http.StatusInternalServerError, "catalog unavailable")
			return
		}
		limit := min(utils.Atoi(r.URL.Query().Get("limit"), suggest.DefaultLimit), 50)
		items := suggest.NewIndex(products).Suggest(q, limit, suggest.DefaultThreshold)
		utils.WriteJSON(w, http.StatusOK, map[string]any{"items": items})
	}
}
