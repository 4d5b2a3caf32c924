// Package store keeps parsed BOM uploads so rows can be re-mapped and estimated later.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"metalshop/internal/bom/model"
)

var ErrNotFound = errors.New("bom upload not found")

type Store struct {
	db *sql.DB
	mu sync.Mutex // serializes Modify
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Save persists res, assigning an id when it has none.
func (s *Store) Save(ctx context.Context, res *model.UploadResult) error {
	if res.ID == "" {
		res.ID = uuid.NewString()
	}
	if res.UploadedAt.IsZero() {
		res.UploadedAt = time.Now().UTC()
	}
	payload, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("encode upload: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO bom_uploads (id, file_name, created_at, payload) VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET payload = excluded.payload`,
		res.ID, res.FileName, res.UploadedAt.Format(time.RFC3339Nano), string(payload))
	if err != nil {
		return fmt.Errorf("save upload %s: %w", res.ID, err)
	}
	return nil
}

func (s *Store) Get(ctx context.Context, id string) (model.UploadResult, error) {
	var payload string
	err := s.db.QueryRowContext(ctx, `SELECT payload FROM bom_uploads WHERE id = ?`, id).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return model.UploadResult{}, ErrNotFound
	}
	if err != nil {
		return model.UploadResult{}, fmt.Errorf("get upload %s: %w", id, err)
	}
	var res model.UploadResult
	if err := json.Unmarshal([]byte(payload), &res); err != nil {
		return model.UploadResult{}, fmt.Errorf("decode upload %s: %w", id, err)
	}
	return res, nil
}

// Modify loads upload id, applies fn and stores the result as one step.
// Concurrent calls for the same store are serialized, so edits to different
// rows of one upload never overwrite each other. An error from fn aborts the
// write and is returned as is.
func (s *Store) Modify(ctx context.Context, id string, fn func(*model.UploadResult) error) (model.UploadResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return model.UploadResult{}, fmt.Errorf("modify upload %s: %w", id, err)
	}
	defer tx.Rollback()

	var payload string
	err = tx.QueryRowContext(ctx, `SELECT payload FROM bom_uploads WHERE id = ?`, id).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return model.UploadResult{}, ErrNotFound
	}
	if err != nil {
		return model.UploadResult{}, fmt.Errorf("modify upload %s: %w", id, err)
	}
	var res model.UploadResult
	if err := json.Unmarshal([]byte(payload), &res); err != nil {
		return model.UploadResult{}, fmt.Errorf("decode upload %s: %w", id, err)
	}

	if err := fn(&res); err != nil {
		return model.UploadResult{}, err
	}

	out, err := json.Marshal(res)
	if err != nil {
		return model.UploadResult{}, fmt.Errorf("encode upload: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `UPDATE bom_uploads SET payload = ? WHERE id = ?`, string(out), id); err != nil {
		return model.UploadResult{}, fmt.Errorf("update upload %s: %w", id, err)
	}
	if err := tx.Commit(); err != nil {
		return model.UploadResult{}, fmt.Errorf("commit upload %s: %w", id, err)
	}
	return res, nil
}
