package serverhttp

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"metalshop/internal/anaf"
	bomStore "metalshop/internal/bom/store"
	cartSvc "metalshop/internal/cart/service"
	catModel "metalshop/internal/catalog/model"
	catRepo "metalshop/internal/catalog/repository"
	"metalshop/internal/config"
	rfqRepo "metalshop/internal/rfq/repository"
	rfqSvc "metalshop/internal/rfq/service"
	"metalshop/internal/storage"
)

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	ctx := context.Background()

	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"cod":200,"found":[{"date_generale":{"denumire":"METAL SRL"},"inregistrare_scop_Tva":{"scpTVA":true},"stare_inactiv":{"statusInactivi":false}}],"notFound":[]}`)
	}))
	t.Cleanup(upstream.Close)

	db, err := storage.Open(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	catalog := catRepo.New(db)
	require.NoError(t, catalog.Upsert(ctx, catModel.Product{
		ID: "hea200", SKU: "HEA200", Title: "HEA200 Beam", Family: "profile", Grade: "S235JR",
		Standards: []string{"EN 10025-2"}, PriceUnit: "buc", UnitPrice: decimal.RequireFromString("250"),
		Currency: "RON", IsActive: true,
	}))

	cfg := config.Config{MaxUploadMB: 1, AllowOrigins: []string{"*"}, VATRate: decimal.RequireFromString("0.21"), Currency: "RON"}
	est := cartSvc.NewEstimator(cfg.VATRate, cfg.Currency)
	log := zerolog.Nop()

	r := NewRouter(cfg, log, Deps{
		DB:        db,
		Catalog:   catalog,
		Uploads:   bomStore.New(db),
		Estimator: est,
		RFQ:       rfqSvc.NewService(rfqRepo.New(db), catalog, est, log),
		Anaf:      anaf.NewService(anaf.NewClient(upstream.URL, time.Second), 16, time.Minute, log),
	})
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func get(t *testing.T, url string) (int, string) {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	b, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, string(b)
}

func TestRoutes(t *testing.T) {
	srv := newServer(t)

	code, body := get(t, srv.URL+"/health")
	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, "ok")

	code, body = get(t, srv.URL+"/api/products?q=hea")
	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, "HEA200 Beam")

	code, body = get(t, srv.URL+"/api/anaf/cui/RO14399840")
	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, "METAL SRL")

	code, _ = get(t, srv.URL+"/api/anaf/cui/123")
	assert.Equal(t, http.StatusBadRequest, code)

	resp, err := http.Post(srv.URL+"/api/cart/estimate", "application/json",
		strings.NewReader(`{"lines":[{"productId":"hea200","qty":2}]}`))
	require.NoError(t, err)
	b, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(b), `"total": "605"`)

	code, body = get(t, srv.URL+"/metrics")
	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, "http_request_duration_seconds")
}

func TestBodyLimit(t *testing.T) {
	srv := newServer(t)
	big := strings.Repeat("x", 2<<20)
	resp, err := http.Post(srv.URL+"/api/rfq", "application/json", strings.NewReader(`{"notes":"`+big+`"}`))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRequestIDHeader(t *testing.T) {
	srv := newServer(t)
	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	resp.Body.Close()
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))
}
