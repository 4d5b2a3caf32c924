package store

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"metalshop/internal/bom/model"
	"metalshop/internal/storage"
)

func newStore(t *testing.T) *Store {
	t.Helper()
	db, err := storage.Open(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return New(db)
}

func TestSaveGetModify(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	id := "p1"
	res := &model.UploadResult{
		FileName:  "bom.csv",
		FileSize:  42,
		TotalRows: 1,
		Rows: []model.Row{{
			RowIndex: 1, Family: "Profile", Qty: 5, Unit: model.UnitBuc,
			MatchedProductID: &id, MatchConfidence: model.ConfidenceHigh,
			Errors: []string{}, Warnings: []string{},
		}},
	}
	require.NoError(t, s.Save(ctx, res))
	require.NotEmpty(t, res.ID)
	assert.False(t, res.UploadedAt.IsZero())

	got, err := s.Get(ctx, res.ID)
	require.NoError(t, err)
	assert.Equal(t, "bom.csv", got.FileName)
	require.Len(t, got.Rows, 1)
	assert.Equal(t, "p1", *got.Rows[0].MatchedProductID)

	updated, err := s.Modify(ctx, res.ID, func(u *model.UploadResult) error {
		u.Rows[0].MatchedProductID = nil
		u.Rows[0].MatchConfidence = model.ConfidenceNone
		return nil
	})
	require.NoError(t, err)
	assert.Nil(t, updated.Rows[0].MatchedProductID)

	again, err := s.Get(ctx, res.ID)
	require.NoError(t, err)
	assert.Nil(t, again.Rows[0].MatchedProductID)
	assert.Equal(t, model.ConfidenceNone, again.Rows[0].MatchConfidence)
}

func TestNotFound(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	_, err := s.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.Modify(ctx, "missing", func(*model.UploadResult) error { return nil })
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestModifyErrorLeavesUploadUntouched(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	res := &model.UploadResult{FileName: "a.csv", Rows: []model.Row{{RowIndex: 1, Qty: 1}}}
	require.NoError(t, s.Save(ctx, res))

	boom := errors.New("boom")
	_, err := s.Modify(ctx, res.ID, func(u *model.UploadResult) error {
		u.Rows[0].Qty = 99
		return boom
	})
	assert.ErrorIs(t, err, boom)

	got, err := s.Get(ctx, res.ID)
	require.NoError(t, err)
	assert.Equal(t, 1.0, got.Rows[0].Qty)
}

func TestModifyConcurrentRowsAllKept(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	const n = 16
	res := &model.UploadResult{FileName: "many.csv"}
	for i := range n {
		res.Rows = append(res.Rows, model.Row{RowIndex: i, Qty: 1, Errors: []string{}, Warnings: []string{}})
	}
	require.NoError(t, s.Save(ctx, res))

	var wg sync.WaitGroup
	for i := range n {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := s.Modify(ctx, res.ID, func(u *model.UploadResult) error {
				u.Rows[i].ManuallyMapped = true
				return nil
			})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	got, err := s.Get(ctx, res.ID)
	require.NoError(t, err)
	for _, r := range got.Rows {
		assert.True(t, r.ManuallyMapped, "row %d", r.RowIndex)
	}
}
