package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"metalshop/internal/rfq/model"
)

var ErrNotFound = errors.New("rfq not found")

// fixed width so created_at sorts lexically
const timeLayout = "2006-01-02T15:04:05.000000000Z"

type Repository struct {
	db *sql.DB
	mu sync.Mutex // serializes Modify
}

func New(db *sql.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, q model.RFQ) error {
	payload, err := json.Marshal(q)
	if err != nil {
		return fmt.Errorf("encode rfq: %w", err)
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO rfqs (id, reference, status, company_cui, contact_email, payload, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		q.ID, q.Reference, string(q.Status), q.Company.CUI, emailKey(q.Contact.Email), string(payload),
		q.CreatedAt.UTC().Format(timeLayout), q.UpdatedAt.UTC().Format(timeLayout))
	if err != nil {
		return fmt.Errorf("insert rfq %s: %w", q.Reference, err)
	}
	return nil
}

func (r *Repository) Get(ctx context.Context, id string) (model.RFQ, error) {
	var payload string
	err := r.db.QueryRowContext(ctx, `SELECT payload FROM rfqs WHERE id = ?`, id).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return model.RFQ{}, ErrNotFound
	}
	if err != nil {
		return model.RFQ{}, fmt.Errorf("get rfq %s: %w", id, err)
	}
	return decode(payload)
}

// ListByEmail returns the RFQs of one contact, newest first.
func (r *Repository) ListByEmail(ctx context.Context, email string) ([]model.RFQ, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT payload FROM rfqs WHERE contact_email = ? ORDER BY created_at DESC, reference DESC`,
		emailKey(email))
	if err != nil {
		return nil, fmt.Errorf("list rfqs: %w", err)
	}
	defer rows.Close()

	out := []model.RFQ{}
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("scan rfq: %w", err)
		}
		q, err := decode(payload)
		if err != nil {
			return nil, err
		}
		out = append(out, q)
	}
	return out, rows.Err()
}

// Modify loads RFQ id, applies fn and stores the result as one step, so two
// concurrent status changes cannot both start from the same snapshot.
// An error from fn aborts the write and is returned as is.
func (r *Repository) Modify(ctx context.Context, id string, fn func(*model.RFQ) error) (model.RFQ, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return model.RFQ{}, fmt.Errorf("modify rfq %s: %w", id, err)
	}
	defer tx.Rollback()

	var payload string
	err = tx.QueryRowContext(ctx, `SELECT payload FROM rfqs WHERE id = ?`, id).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return model.RFQ{}, ErrNotFound
	}
	if err != nil {
		return model.RFQ{}, fmt.Errorf("modify rfq %s: %w", id, err)
	}
	q, err := decode(payload)
	if err != nil {
		return model.RFQ{}, err
	}

	if err := fn(&q); err != nil {
		return model.RFQ{}, err
	}

	out, err := json.Marshal(q)
	if err != nil {
		return model.RFQ{}, fmt.Errorf("encode rfq: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `UPDATE rfqs SET status = ?, payload = ?, updated_at = ? WHERE id = ?`,
		string(q.Status), string(out), q.UpdatedAt.UTC().Format(timeLayout), id); err != nil {
		return model.RFQ{}, fmt.Errorf("update rfq %s: %w", id, err)
	}
	if err := tx.Commit(); err != nil {
		return model.RFQ{}, fmt.Errorf("commit rfq %s: %w", id, err)
	}
	return q, nil
}

func decode(payload string) (model.RFQ, error) {
	var q model.RFQ
	if err := json.Unmarshal([]byte(payload), &q); err != nil {
		return model.RFQ{}, fmt.Errorf("decode rfq: %w", err)
	}
	return q, nil
}

func emailKey(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
