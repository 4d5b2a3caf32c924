package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"metalshop/internal/cart/model"
	"metalshop/internal/cart/service"
	catalog "metalshop/internal/catalog/model"
	"metalshop/internal/middleware"
	"metalshop/internal/utils"
)

// Products resolves catalog entries by id.
type Products interface {
	GetMany(ctx context.Context, ids []string) (map[string]catalog.Product, error)
}

type estimateRequest struct {
	Lines []model.Line `json:"lines"`
}

// Estimate: POST /api/cart/estimate {"lines":[{"productId","qty","unit"}]}
func Estimate(p Products, e *service.Estimator, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req estimateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			utils.WriteError(w, http.StatusBadRequest, "invalid json body")
			return
		}
		if len(req.Lines) == 0 {
			utils.WriteError(w, http.StatusBadRequest, "lines required")
			return
		}
		products, err := p.GetMany(r.Context(), service.ProductIDs(req.Lines))
		if err != nil {
			logger.Error().Err(err).Str("req_id", middleware.GetRequestID(r)).Msg("cart products")
			utils.WriteError(w, http.StatusInternalServerError, "catalog unavailable")
			return
		}
		utils.WriteJSON(w, http.StatusOK, e.Estimate(req.Lines, products))
	}
}
