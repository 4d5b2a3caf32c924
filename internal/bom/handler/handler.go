package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"metalshop/internal/bom/model"
	bomSvc "metalshop/internal/bom/service"
	"metalshop/internal/bom/store"
	cartSvc "metalshop/internal/cart/service"
	catalog "metalshop/internal/catalog/model"
	"metalshop/internal/catalog/repository"
	"metalshop/internal/catalog/suggest"
	"metalshop/internal/metrics"
	"metalshop/internal/middleware"
	"metalshop/internal/utils"
)

const multipartMemory = 8 << 20

// Products is the slice of the catalog the BOM endpoints need.
type Products interface {
	ListActive(ctx context.Context) ([]catalog.Product, error)
	Get(ctx context.Context, id string) (catalog.Product, error)
	GetMany(ctx context.Context, ids []string) (map[string]catalog.Product, error)
}

// Uploads persists parse results.
type Uploads interface {
	Save(ctx context.Context, res *model.UploadResult) error
	Get(ctx context.Context, id string) (model.UploadResult, error)
	// Modify applies fn to the stored upload atomically.
	Modify(ctx context.Context, id string, fn func(*model.UploadResult) error) (model.UploadResult, error)
}

type uploadResponse struct {
	Upload *model.UploadResult `json:"upload"`
	Stats  model.Stats         `json:"stats"`
}

type remapRequest struct {
	ProductID string `json:"productId"`
}

type remapResponse struct {
	Row   model.Row   `json:"row"`
	Stats model.Stats `json:"stats"`
}

// Parse: POST /api/bom/parse (multipart "file").
// Optional form fields: auto_detect_headers, skip_empty_rows, header_row, map_<field>.
func Parse(p Products, s Uploads, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		timer := metrics.NewTimer()
		log := logger.With().Str("req_id", middleware.GetRequestID(r)).Logger()

		if err := r.ParseMultipartForm(multipartMemory); err != nil {
			var tooBig *http.MaxBytesError
			if errors.As(err, &tooBig) {
				utils.WriteError(w, http.StatusRequestEntityTooLarge, "Fișierul depășește dimensiunea maximă admisă")
				return
			}
			utils.WriteError(w, http.StatusBadRequest, "bad multipart form: "+err.Error())
			return
		}
		defer r.MultipartForm.RemoveAll()

		file, hdr, err := r.FormFile("file")
		if err != nil {
			utils.WriteError(w, http.StatusBadRequest, "missing file")
			return
		}
		defer file.Close()

		opts, err := parseOptions(r)
		if err != nil {
			utils.WriteError(w, http.StatusBadRequest, err.Error())
			return
		}

		products, err := p.ListActive(r.Context())
		if err != nil {
			log.Error().Err(err).Msg("bom: load catalog")
			utils.WriteError(w, http.StatusInternalServerError, "catalog unavailable")
			return
		}

		res := bomSvc.ParseBOMFile(file, model.FileMeta{Name: hdr.Filename, Size: hdr.Size}, products, opts)
		stats := bomSvc.ComputeStats(res.Rows)
		metrics.RecordBOMUpload(res.Format, len(res.Rows) > 0, confidences(res.Rows), timer.Duration())

		if err := s.Save(r.Context(), res); err != nil {
			log.Error().Err(err).Msg("bom: save upload")
			utils.WriteError(w, http.StatusInternalServerError, "could not store upload")
			return
		}

		log.Info().
			Str("upload", res.ID).
			Str("file", hdr.Filename).
			Str("format", res.Format).
			Int("rows", res.TotalRows).
			Int("high", stats.High).
			Int("none", stats.None).
			Int("parse_errors", len(res.ParseErrors)).
			Dur("took", timer.Duration()).
			Msg("bom parsed")

		utils.WriteJSON(w, http.StatusOK, uploadResponse{Upload: res, Stats: stats})
	}
}

// Get: GET /api/bom/{id}
func Get(s Uploads, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, ok := loadUpload(w, r, s, logger)
		if !ok {
			return
		}
		utils.WriteJSON(w, http.StatusOK, uploadResponse{Upload: &res, Stats: bomSvc.ComputeStats(res.Rows)})
	}
}

// Remap: PUT /api/bom/{id}/rows/{rowIndex} {"productId": "..."}; empty productId clears the match.
func Remap(p Products, s Uploads, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.With().Str("req_id", middleware.GetRequestID(r)).Logger()

		rowIndex, err := strconv.Atoi(chi.URLParam(r, "rowIndex"))
		if err != nil {
			utils.WriteError(w, http.StatusBadRequest, "invalid row index")
			return
		}
		var req remapRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			utils.WriteError(w, http.StatusBadRequest, "invalid json body")
			return
		}

		var product *catalog.Product
		if id := strings.TrimSpace(req.ProductID); id != "" {
			got, err := p.Get(r.Context(), id)
			switch {
			case errors.Is(err, repository.ErrNotFound), err == nil && !got.IsActive:
				utils.WriteError(w, http.StatusUnprocessableEntity, "Produsul nu există sau nu este activ")
				return
			case err != nil:
				log.Error().Err(err).Msg("bom remap: product")
				utils.WriteError(w, http.StatusInternalServerError, "catalog unavailable")
				return
			}
			product = &got
		}

		var row model.Row
		res, err := s.Modify(r.Context(), chi.URLParam(r, "id"), func(u *model.UploadResult) error {
			var err error
			row, err = bomSvc.RemapRow(u, rowIndex, product)
			return err
		})
		switch {
		case errors.Is(err, store.ErrNotFound):
			utils.WriteError(w, http.StatusNotFound, "upload not found")
			return
		case errors.Is(err, bomSvc.ErrRowNotFound):
			utils.WriteError(w, http.StatusNotFound, "row not found")
			return
		case err != nil:
			log.Error().Err(err).Msg("bom remap: update")
			utils.WriteError(w, http.StatusInternalServerError, "could not store upload")
			return
		}
		utils.WriteJSON(w, http.StatusOK, remapResponse{Row: row, Stats: bomSvc.ComputeStats(res.Rows)})
	}
}

// Suggestions: GET /api/bom/{id}/rows/{rowIndex}/suggestions
// Candidate products for manual re-mapping, ranked by fuzzy similarity to the row.
func Suggestions(p Products, s Uploads, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rowIndex, err := strconv.Atoi(chi.URLParam(r, "rowIndex"))
		if err != nil {
			utils.WriteError(w, http.StatusBadRequest, "invalid row index")
			return
		}
		res, ok := loadUpload(w, r, s, logger)
		if !ok {
			return
		}
		var row *model.Row
		for i := range res.Rows {
			if res.Rows[i].RowIndex == rowIndex {
				row = &res.Rows[i]
				break
			}
		}
		if row == nil {
			utils.WriteError(w, http.StatusNotFound, "row not found")
			return
		}

		products, err := p.ListActive(r.Context())
		if err != nil {
			logger.Error().Err(err).Str("req_id", middleware.GetRequestID(r)).Msg("bom suggestions: catalog")
			utils.WriteError(w, http.StatusInternalServerError, "catalog unavailable")
			return
		}
		q := strings.Join([]string{row.Family, row.Dimension, row.Grade}, " ")
		limit := min(utils.Atoi(r.URL.Query().Get("limit"), suggest.DefaultLimit), 50)
		items := suggest.NewIndex(products).Suggest(q, limit, suggest.DefaultThreshold)
		utils.WriteJSON(w, http.StatusOK, map[string]any{"row": row, "items": items})
	}
}

// Estimate: POST /api/bom/{id}/estimate prices the matched rows of an upload.
func Estimate(p Products, s Uploads, e *cartSvc.Estimator, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, ok := loadUpload(w, r, s, logger)
		if !ok {
			return
		}
		lines := cartSvc.LinesFromBOM(res.Rows)
		products, err := p.GetMany(r.Context(), cartSvc.ProductIDs(lines))
		if err != nil {
			logger.Error().Err(err).Str("req_id", middleware.GetRequestID(r)).Msg("bom estimate: products")
			utils.WriteError(w, http.StatusInternalServerError, "catalog unavailable")
			return
		}
		utils.WriteJSON(w, http.StatusOK, e.Estimate(lines, products))
	}
}

// Template: GET /api/bom/template
func Template(logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f, err := bomSvc.Template()
		if err != nil {
			logger.Error().Err(err).Msg("bom template")
			utils.WriteError(w, http.StatusInternalServerError, "template unavailable")
			return
		}
		defer f.Close()
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", `attachment; filename="bom-template.xlsx"`)
		if err := f.Write(w); err != nil {
			logger.Error().Err(err).Msg("bom template: write")
		}
	}
}

func loadUpload(w http.ResponseWriter, r *http.Request, s Uploads, logger zerolog.Logger) (model.UploadResult, bool) {
	res, err := s.Get(r.Context(), chi.URLParam(r, "id"))
	switch {
	case errors.Is(err, store.ErrNotFound):
		utils.WriteError(w, http.StatusNotFound, "upload not found")
		return res, false
	case err != nil:
		logger.Error().Err(err).Str("req_id", middleware.GetRequestID(r)).Msg("bom: load upload")
		utils.WriteError(w, http.StatusInternalServerError, "could not load upload")
		return res, false
	}
	return res, true
}

// parseOptions reads the optional form fields. With auto-detection off the
// header row defaults to 0 and each field without a map_<field> value takes its
// positional-template column, unless an explicit mapping already claims it.
func parseOptions(r *http.Request) (model.Options, error) {
	opts := model.DefaultOptions()
	opts.AutoDetectHeaders = utils.ToBool(r.FormValue("auto_detect_headers"), true)
	opts.SkipEmptyRows = utils.ToBool(r.FormValue("skip_empty_rows"), true)
	if opts.AutoDetectHeaders {
		return opts, nil
	}

	opts.HeaderRow = utils.Atoi(r.FormValue("header_row"), 0)
	if opts.HeaderRow < -1 {
		return opts, fmt.Errorf("invalid header_row %d", opts.HeaderRow)
	}
	m := model.Mapping{}
	for _, f := range model.Fields {
		v := strings.TrimSpace(r.FormValue("map_" + string(f)))
		if v == "" {
			continue
		}
		idx, err := strconv.Atoi(v)
		if err != nil || idx < 0 {
			return opts, fmt.Errorf("invalid column for %s: %q", f, v)
		}
		m[f] = idx
	}
	opts.Mapping = withPositionalDefaults(m)
	return opts, nil
}

func withPositionalDefaults(m model.Mapping) model.Mapping {
	taken := make(map[int]bool, len(m))
	for _, i := range m {
		taken[i] = true
	}
	for f, i := range bomSvc.PositionalMapping() {
		if _, ok := m[f]; !ok && !taken[i] {
			m[f] = i
		}
	}
	return m
}

func confidences(rows []model.Row) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = string(r.MatchConfidence)
	}
	return out
}
