package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"metalshop/internal/middleware"
	"metalshop/internal/rfq/model"
	"metalshop/internal/rfq/repository"
	"metalshop/internal/rfq/service"
	"metalshop/internal/utils"
)

type RFQs interface {
	Submit(ctx context.Context, req model.Request) (model.RFQ, error)
	Get(ctx context.Context, id string) (model.RFQ, error)
	ListByEmail(ctx context.Context, email string) ([]model.RFQ, error)
	UpdateStatus(ctx context.Context, id string, next model.Status) (model.RFQ, error)
}

type statusRequest struct {
	Status model.Status `json:"status"`
}

type validationResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields"`
}

// Submit: POST /api/rfq
func Submit(s RFQs, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req model.Request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			utils.WriteError(w, http.StatusBadRequest, "invalid json body")
			return
		}
		q, err := s.Submit(r.Context(), req)
		if err != nil {
			writeErr(w, r, logger, err)
			return
		}
		utils.WriteJSON(w, http.StatusCreated, q)
	}
}

// Get: GET /api/rfq/{id}
func Get(s RFQs, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q, err := s.Get(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeErr(w, r, logger, err)
			return
		}
		utils.WriteJSON(w, http.StatusOK, q)
	}
}

// List: GET /api/rfq?email=
func List(s RFQs, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := s.ListByEmail(r.Context(), r.URL.Query().Get("email"))
		if err != nil {
			writeErr(w, r, logger, err)
			return
		}
		utils.WriteJSON(w, http.StatusOK, map[string]any{"items": list, "total": len(list)})
	}
}

// UpdateStatus: PATCH /api/rfq/{id}/status {"status": "..."}
func UpdateStatus(s RFQs, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req statusRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			utils.WriteError(w, http.StatusBadRequest, "invalid json body")
			return
		}
		q, err := s.UpdateStatus(r.Context(), chi.URLParam(r, "id"), req.Status)
		if err != nil {
			writeErr(w, r, logger, err)
			return
		}
		utils.WriteJSON(w, http.StatusOK, q)
	}
}

func writeErr(w http.ResponseWriter, r *http.Request, logger zerolog.Logger, err error) {
	var verr *model.ValidationError
	switch {
	case errors.As(err, &verr):
		utils.WriteJSON(w, http.StatusUnprocessableEntity, validationResponse{Error: "Cererea conține date invalide", Fields: verr.Fields})
	case errors.Is(err, repository.ErrNotFound):
		utils.WriteError(w, http.StatusNotFound, "rfq not found")
	case errors.Is(err, service.ErrInvalidTransition):
		utils.WriteError(w, http.StatusConflict, err.Error())
	default:
		logger.Error().Err(err).Str("req_id", middleware.GetRequestID(r)).Msg("rfq")
		utils.WriteError(w, http.StatusInternalServerError, "internal error")
	}
}
