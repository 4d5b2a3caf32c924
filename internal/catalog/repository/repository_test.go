package repository

import (
	"context"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"metalshop/internal/catalog/model"
	"metalshop/internal/storage"
)

func newRepo(t *testing.T) *Repository {
	t.Helper()
	db, err := storage.Open(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return New(db)
}

const seedCSV = `id,sku,title,family,grade,standards,dimension,unit,price,active
p1,HEA200-S235,HEA200 Beam,profile,S235JR,EN 10025-2;EN 10034,HEA200,kg,"5,40",da
p2,TR-40,Teava rectangulara 40x40x2,teava,S235JRH,EN 10219,40x40x2,m,"32,5",1
p3,TN-2,Tabla neagra 2mm,tabla,S355J2,,2mm,kg,6.1,0
,,missing both,tabla,,,,,,
p5,UPN-100,UPN 100,profile,S235JR,EN 10025-2,UPN100,kg,"5,10",
`

func seed(t *testing.T, r *Repository) {
	t.Helper()
	res, err := r.ImportFile(context.Background(), strings.NewReader(seedCSV), "catalog.csv")
	require.NoError(t, err)
	assert.Equal(t, 4, res.Imported)
	assert.Equal(t, 1, res.Skipped)
}

func TestImportAndGet(t *testing.T) {
	r := newRepo(t)
	seed(t, r)

	p, err := r.Get(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, "HEA200 Beam", p.Title)
	assert.Equal(t, []string{"EN 10025-2", "EN 10034"}, p.Standards)
	assert.Equal(t, "kg", p.PriceUnit)
	assert.True(t, p.UnitPrice.Equal(decimal.RequireFromString("5.4")))
	assert.Equal(t, "RON", p.Currency)
	assert.True(t, p.IsActive)

	p3, err := r.Get(context.Background(), "p3")
	require.NoError(t, err)
	assert.False(t, p3.IsActive)
	assert.Empty(t, p3.Standards)

	_, err = r.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListActiveKeepsCatalogOrder(t *testing.T) {
	r := newRepo(t)
	seed(t, r)

	ps, err := r.ListActive(context.Background())
	require.NoError(t, err)
	ids := make([]string, len(ps))
	for i, p := range ps {
		ids[i] = p.ID
	}
	assert.Equal(t, []string{"p1", "p2", "p5"}, ids)
}

func TestSearchFiltersAndFacets(t *testing.T) {
	r := newRepo(t)
	seed(t, r)
	ctx := context.Background()

	res, err := r.Search(ctx, model.Query{Family: "PROFILE"})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Total)
	assert.Equal(t, []model.FacetCount{{Value: "profile", Count: 2}}, res.Facets.Family)

	res, err = r.Search(ctx, model.Query{Text: "40x40"})
	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "p2", res.Items[0].ID)

	res, err = r.Search(ctx, model.Query{Standard: "en 10025-2"})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Total)

	res, err = r.Search(ctx, model.Query{ActiveOnly: true})
	require.NoError(t, err)
	assert.Equal(t, 3, res.Total)
	assert.Equal(t, []model.FacetCount{{Value: "profile", Count: 2}, {Value: "teava", Count: 1}}, res.Facets.Family)

	res, err = r.Search(ctx, model.Query{Text: "%"})
	require.NoError(t, err)
	assert.Equal(t, 0, res.Total)
	assert.NotNil(t, res.Items)
}

func TestSearchPagination(t *testing.T) {
	r := newRepo(t)
	seed(t, r)

	res, err := r.Search(context.Background(), model.Query{Page: 2, PerPage: 3})
	require.NoError(t, err)
	assert.Equal(t, 4, res.Total)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "p5", res.Items[0].ID)

	res, err = r.Search(context.Background(), model.Query{PerPage: 1000})
	require.NoError(t, err)
	assert.Equal(t, 100, res.PerPage)
}

func TestGetMany(t *testing.T) {
	r := newRepo(t)
	seed(t, r)

	m, err := r.GetMany(context.Background(), []string{"p1", "p3", "zzz"})
	require.NoError(t, err)
	assert.Len(t, m, 2)
	assert.Contains(t, m, "p3")

	m, err = r.GetMany(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, m)
}

func TestImportRequiresTitleColumn(t *testing.T) {
	r := newRepo(t)
	_, err := r.ImportGrid(context.Background(), [][]string{{"id", "price"}, {"a", "1"}})
	assert.Error(t, err)
}
