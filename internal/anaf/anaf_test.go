package anaf

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateCUI(t *testing.T) {
	valid := map[string]string{
		"18547290":    "18547290",
		"RO 14399840": "14399840",
		"ro16341004":  "16341004",
		"19":          "19",
		"1234567897":  "1234567897",
	}
	for in, want := range valid {
		got, err := ValidateCUI(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}

	for _, in := range []string{"", "1", "14399841", "12345678901", "RO12A4", "361879"} {
		_, err := ValidateCUI(in)
		assert.ErrorIs(t, err, ErrInvalidCUI, in)
	}
}

const foundBody = `{
  "cod": 200,
  "message": "SUCCESS",
  "found": [{
    "date_generale": {
      "cui": 14399840,
      "data": "2026-10-19",
      "denumire": "METAL TEST SRL ",
      "adresa": "MUNICIPIUL CLUJ-NAPOCA, STR. FABRICII NR.1",
      "nrRegCom": "J12/1234/2001",
      "telefon": "0264000000",
      "codPostal": "400000",
      "stare_inregistrare": "INREGISTRAT din data 01.01.2001"
    },
    "inregistrare_scop_Tva": {"scpTVA": true},
    "stare_inactiv": {"statusInactivi": false}
  }],
  "notFound": []
}`

func TestClientLookupFound(t *testing.T) {
	var got []lookupRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		b, _ := io.ReadAll(r.Body)
		assert.NoError(t, json.Unmarshal(b, &got))
		io.WriteString(w, foundBody)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)
	c.Now = func() time.Time { return time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC) }

	company, err := c.Lookup(context.Background(), "14399840")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, lookupRequest{CUI: 14399840, Data: "2026-10-19"}, got[0])

	assert.True(t, company.Found)
	assert.Equal(t, "METAL TEST SRL", company.Name)
	assert.Equal(t, "J12/1234/2001", company.RegCom)
	assert.Equal(t, "400000", company.PostalCode)
	assert.True(t, company.VATPayer)
	assert.False(t, company.Inactive)
	assert.Contains(t, company.Status, "INREGISTRAT")
}

func TestClientLookupNotFoundAndErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/missing":
			io.WriteString(w, `{"cod":200,"message":"SUCCESS","found":[],"notFound":[19]}`)
		case "/garbage":
			io.WriteString(w, `<html>maintenance</html>`)
		default:
			http.Error(w, "busy", http.StatusServiceUnavailable)
		}
	}))
	defer srv.Close()

	ctx := context.Background()

	c, err := NewClient(srv.URL+"/missing", time.Second).Lookup(ctx, "19")
	require.NoError(t, err)
	assert.False(t, c.Found)
	assert.Equal(t, "19", c.CUI)

	_, err = NewClient(srv.URL+"/garbage", time.Second).Lookup(ctx, "19")
	assert.ErrorIs(t, err, ErrUpstream)

	_, err = NewClient(srv.URL+"/down", time.Second).Lookup(ctx, "19")
	assert.ErrorIs(t, err, ErrUpstream)
}

type countingLookuper struct {
	calls int
	resp  Company
	err   error
}

func (c *countingLookuper) Lookup(_ context.Context, cui string) (Company, error) {
	c.calls++
	if c.err != nil {
		return Company{}, c.err
	}
	r := c.resp
	r.CUI = cui
	return r, nil
}

func TestServiceCachesResults(t *testing.T) {
	ctx := context.Background()
	up := &countingLookuper{resp: Company{Found: true, Name: "X"}}
	s := NewService(up, 8, time.Hour, zerolog.Nop())

	for range 3 {
		c, err := s.Lookup(ctx, "RO14399840")
		require.NoError(t, err)
		assert.Equal(t, "X", c.Name)
	}
	assert.Equal(t, 1, up.calls)

	_, err := s.Lookup(ctx, "14399841")
	assert.ErrorIs(t, err, ErrInvalidCUI)
	assert.Equal(t, 1, up.calls)
}

func TestServiceCachesNotFoundButNotErrors(t *testing.T) {
	ctx := context.Background()

	nf := &countingLookuper{resp: Company{Found: false}}
	s := NewService(nf, 8, time.Hour, zerolog.Nop())
	for range 2 {
		c, err := s.Lookup(ctx, "19")
		require.NoError(t, err)
		assert.False(t, c.Found)
	}
	assert.Equal(t, 1, nf.calls)

	bad := &countingLookuper{err: ErrUpstream}
	s = NewService(bad, 8, time.Hour, zerolog.Nop())
	for range 2 {
		_, err := s.Lookup(ctx, "19")
		assert.ErrorIs(t, err, ErrUpstream)
	}
	assert.Equal(t, 2, bad.calls)
}
