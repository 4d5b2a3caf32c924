package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"metalshop/internal/anaf"
	"metalshop/internal/middleware"
	"metalshop/internal/utils"
)

type Lookuper interface {
	Lookup(ctx context.Context, cui string) (anaf.Company, error)
}

// Company: GET /api/anaf/cui/{cui}
func Company(s Lookuper, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := s.Lookup(r.Context(), chi.URLParam(r, "cui"))
		switch {
		case errors.Is(err, anaf.ErrInvalidCUI):
			utils.WriteError(w, http.StatusBadRequest, "CUI invalid")
		case err != nil:
			logger.Error().Err(err).Str("req_id", middleware.GetRequestID(r)).Msg("anaf lookup")
			utils.WriteError(w, http.StatusBadGateway, "Serviciul ANAF nu este disponibil")
		default:
			utils.WriteJSON(w, http.StatusOK, c)
		}
	}
}
