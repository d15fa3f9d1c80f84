package taxclasses

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/odyssey-erp/backoffice/internal/shared"
)

// Repository reads tax classes.
type Repository interface {
	List(ctx context.Context, page shared.CursorPage) (Page, error)
	Get(ctx context.Context, id string) (TaxClass, error)
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository returns a pgx backed Repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

// List uses keyset pagination on (name, id); the cursor is the id of the last row.
func (r *repository) List(ctx context.Context, page shared.CursorPage) (Page, error) {
	query := `SELECT id::text, name FROM tax_classes`
	args := []any{}
	if page.After != "" {
		query += ` WHERE (name, id::text) > (SELECT name, id::text FROM tax_classes WHERE id::text = $1)`
		args = append(args, page.After)
	}
	args = append(args, page.First+1)
	query += fmt.Sprintf(` ORDER BY name ASC, id::text ASC LIMIT $%d`, len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return Page{}, fmt.Errorf("taxclasses: list: %w", err)
	}
	defer rows.Close()

	items := make([]TaxClass, 0, page.First+1)
	for rows.Next() {
		var tc TaxClass
		if err := rows.Scan(&tc.ID, &tc.Name); err != nil {
			return Page{}, err
		}
		items = append(items, tc)
	}
	if err := rows.Err(); err != nil {
		return Page{}, err
	}
	return pageOf(items, page.First), nil
}

func (r *repository) Get(ctx context.Context, id string) (TaxClass, error) {
	var tc TaxClass
	err := r.pool.QueryRow(ctx, `SELECT id::text, name FROM tax_classes WHERE id::text = $1`, id).Scan(&tc.ID, &tc.Name)
	if errors.Is(err, pgx.ErrNoRows) {
		return TaxClass{}, fmt.Errorf("taxclasses: %s: %w", id, shared.ErrNotFound)
	}
	if err != nil {
		return TaxClass{}, fmt.Errorf("taxclasses: get: %w", err)
	}
	return tc, nil
}

// pageOf trims a first+1 sized result to first items and derives HasMore.
func pageOf(items []TaxClass, first int) Page {
	p := Page{Items: items}
	if len(items) > first {
		p.Items = items[:first]
		p.HasMore = true
	}
	if n := len(p.Items); n > 0 {
		p.EndCursor = p.Items[n-1].ID
	}
	return p
}
