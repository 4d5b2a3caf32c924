package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"metalshop/internal/catalog/model"
	"metalshop/internal/storage"
)

var ErrNotFound = errors.New("product not found")

const (
	defaultPerPage = 24
	maxPerPage     = 100
)

const productColumns = `id, sku, title, family, grade, standards, dimension, finish, price_unit, unit_price, currency, is_active, position`

type Repository struct {
	db *sql.DB
}

func New(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Upsert inserts or replaces p.
func (r *Repository) Upsert(ctx context.Context, p model.Product) error {
	if p.Currency == "" {
		p.Currency = "RON"
	}
	if p.PriceUnit == "" {
		p.PriceUnit = "buc"
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO products (`+productColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			sku=excluded.sku, title=excluded.title, family=excluded.family, grade=excluded.grade,
			standards=excluded.standards, dimension=excluded.dimension, finish=excluded.finish,
			price_unit=excluded.price_unit, unit_price=excluded.unit_price, currency=excluded.currency,
			is_active=excluded.is_active, position=excluded.position`,
		p.ID, p.SKU, p.Title, p.Family, p.Grade, joinStandards(p.Standards), p.Dimension, p.Finish,
		p.PriceUnit, p.UnitPrice.String(), p.Currency, boolInt(p.IsActive), p.Position,
	)
	if err != nil {
		return fmt.Errorf("upsert product %s: %w", p.ID, err)
	}
	return nil
}

func (r *Repository) Get(ctx context.Context, id string) (model.Product, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+productColumns+` FROM products WHERE id = ?`, id)
	p, err := scanProduct(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Product{}, ErrNotFound
	}
	if err != nil {
		return model.Product{}, fmt.Errorf("get product %s: %w", id, err)
	}
	return p, nil
}

// GetMany returns the products with the given ids keyed by id; unknown ids are absent.
func (r *Repository) GetMany(ctx context.Context, ids []string) (map[string]model.Product, error) {
	out := make(map[string]model.Product, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	q := `SELECT ` + productColumns + ` FROM products WHERE id IN (?` + strings.Repeat(",?", len(ids)-1) + `)`
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("get products: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out[p.ID] = p
	}
	return out, rows.Err()
}

// ListActive returns active products in catalog order; the BOM matcher relies on
// this order for tie-breaking.
func (r *Repository) ListActive(ctx context.Context) ([]model.Product, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+productColumns+` FROM products WHERE is_active = 1 ORDER BY position, id`)
	if err != nil {
		return nil, fmt.Errorf("list active: %w", err)
	}
	defer rows.Close()
	return collect(rows)
}

func (r *Repository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM products`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count products: %w", err)
	}
	return n, nil
}

// Search runs a filtered, paginated catalog query with family and grade facets.
func (r *Repository) Search(ctx context.Context, q model.Query) (model.SearchResult, error) {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PerPage < 1 {
		q.PerPage = defaultPerPage
	}
	if q.PerPage > maxPerPage {
		q.PerPage = maxPerPage
	}

	where, args := buildWhere(q)
	res := model.SearchResult{Page: q.Page, PerPage: q.PerPage, Items: []model.Product{}}

	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM products`+where, args...).Scan(&res.Total); err != nil {
		return res, fmt.Errorf("search count: %w", err)
	}

	pageArgs := append(append([]any{}, args...), q.PerPage, (q.Page-1)*q.PerPage)
	rows, err := r.db.QueryContext(ctx, `SELECT `+productColumns+` FROM products`+where+` ORDER BY position, id LIMIT ? OFFSET ?`, pageArgs...)
	if err != nil {
		return res, fmt.Errorf("search: %w", err)
	}
	items, err := collect(rows)
	rows.Close()
	if err != nil {
		return res, err
	}
	res.Items = items

	if res.Facets.Family, err = r.facet(ctx, "family", where, args); err != nil {
		return res, err
	}
	if res.Facets.Grade, err = r.facet(ctx, "grade", where, args); err != nil {
		return res, err
	}
	return res, nil
}

func (r *Repository) facet(ctx context.Context, column, where string, args []any) ([]model.FacetCount, error) {
	cond := " WHERE "
	if where != "" {
		cond = where + " AND "
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+column+`, COUNT(*) FROM products`+cond+column+` <> '' GROUP BY `+column+` ORDER BY COUNT(*) DESC, `+column, args...)
	if err != nil {
		return nil, fmt.Errorf("facet %s: %w", column, err)
	}
	defer rows.Close()
	out := []model.FacetCount{}
	for rows.Next() {
		var fc model.FacetCount
		if err := rows.Scan(&fc.Value, &fc.Count); err != nil {
			return nil, err
		}
		out = append(out, fc)
	}
	return out, rows.Err()
}

func buildWhere(q model.Query) (string, []any) {
	var (
		conds []string
		args  []any
	)
	if t := strings.TrimSpace(q.Text); t != "" {
		pat := "%" + storage.EscapeLike(t) + "%"
		conds = append(conds, `(title LIKE ? ESCAPE '\' OR sku LIKE ? ESCAPE '\')`)
		args = append(args, pat, pat)
	}
	if f := strings.TrimSpace(q.Family); f != "" {
		conds = append(conds, `family = ? COLLATE NOCASE`)
		args = append(args, f)
	}
	if g := strings.TrimSpace(q.Grade); g != "" {
		conds = append(conds, `grade = ? COLLATE NOCASE`)
		args = append(args, g)
	}
	if s := strings.TrimSpace(q.Standard); s != "" {
		conds = append(conds, `(';' || standards || ';') LIKE ? ESCAPE '\'`)
		args = append(args, "%;"+storage.EscapeLike(s)+";%")
	}
	if q.ActiveOnly {
		conds = append(conds, `is_active = 1`)
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

type scanner interface {
	Scan(dest ...any) error
}

func scanProduct(s scanner) (model.Product, error) {
	var (
		p         model.Product
		standards string
		active    int
	)
	err := s.Scan(&p.ID, &p.SKU, &p.Title, &p.Family, &p.Grade, &standards, &p.Dimension, &p.Finish,
		&p.PriceUnit, &p.UnitPrice, &p.Currency, &active, &p.Position)
	if err != nil {
		return p, err
	}
	p.Standards = splitStandards(standards)
	p.IsActive = active == 1
	return p, nil
}

func collect(rows *sql.Rows) ([]model.Product, error) {
	out := []model.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func joinStandards(ss []string) string {
	clean := make([]string, 0, len(ss))
	for _, s := range ss {
		if s = strings.TrimSpace(s); s != "" {
			clean = append(clean, s)
		}
	}
	return strings.Join(clean, ";")
}

func splitStandards(s string) []string {
	out := []string{}
	for _, part := range strings.Split(s, ";") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
