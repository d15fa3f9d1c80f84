package producttypes

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/odyssey-erp/backoffice/internal/platform/db"
	"github.com/odyssey-erp/backoffice/internal/shared"
)

const uniqueViolation = "23505"

// ListFilters narrows the product type list.
type ListFilters struct {
	Search string
	Kind   Kind
	Page   shared.CursorPage
}

// ListResult is one window of the product type list.
type ListResult struct {
	Items     []ProductType `json:"items"`
	HasMore   bool          `json:"hasMore"`
	EndCursor string        `json:"endCursor"`
}

// TxRepository exposes the writes performed while creating a product type.
type TxRepository interface {
	SlugExists(ctx context.Context, slug string) (bool, error)
	Create(ctx context.Context, pt ProductType) (ProductType, error)
	RecordAudit(ctx context.Context, log shared.AuditLog) error
}

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	pool  *pgxpool.Pool
	audit *shared.AuditLogger
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool, audit *shared.AuditLogger) *Repository {
	return &Repository{pool: pool, audit: audit}
}

type txRepo struct {
	tx    pgx.Tx
	audit *shared.AuditLogger
}

// WithTx runs fn inside a read committed transaction.
func (r *Repository) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(ctx, &txRepo{tx: tx, audit: r.audit})
	})
}

// List returns product types ordered by name with keyset pagination.
func (r *Repository) List(ctx context.Context, filters ListFilters) (ListResult, error) {
	query := `SELECT pt.id::text, pt.name, pt.slug, pt.kind, pt.is_shipping_required,
		pt.tax_class_id::text, tc.name, pt.weight, pt.weight_unit, pt.metadata, pt.private_metadata, pt.created_at
		FROM product_types pt
		LEFT JOIN tax_classes tc ON tc.id = pt.tax_class_id
		WHERE 1=1`
	args := []any{}
	if filters.Search != "" {
		args = append(args, "%"+filters.Search+"%")
		query += fmt.Sprintf(` AND pt.name ILIKE $%d`, len(args))
	}
	if filters.Kind != "" {
		args = append(args, string(filters.Kind))
		query += fmt.Sprintf(` AND pt.kind = $%d`, len(args))
	}
	if filters.Page.After != "" {
		args = append(args, filters.Page.After)
		query += fmt.Sprintf(` AND (pt.name, pt.id::text) > (SELECT name, id::text FROM product_types WHERE id::text = $%d)`, len(args))
	}
	args = append(args, filters.Page.First+1)
	query += fmt.Sprintf(` ORDER BY pt.name ASC, pt.id::text ASC LIMIT $%d`, len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return ListResult{}, fmt.Errorf("producttypes: list: %w", err)
	}
	defer rows.Close()

	items := make([]ProductType, 0, filters.Page.First+1)
	for rows.Next() {
		pt, err := scanProductType(rows)
		if err != nil {
			return ListResult{}, err
		}
		items = append(items, pt)
	}
	if err := rows.Err(); err != nil {
		return ListResult{}, err
	}

	res := ListResult{Items: items}
	if len(items) > filters.Page.First {
		res.Items = items[:filters.Page.First]
		res.HasMore = true
	}
	if n := len(res.Items); n > 0 {
		res.EndCursor = res.Items[n-1].ID
	}
	return res, nil
}

func (t *txRepo) SlugExists(ctx context.Context, slug string) (bool, error) {
	var exists bool
	err := t.tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM product_types WHERE slug = $1)`, slug).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("producttypes: slug lookup: %w", err)
	}
	return exists, nil
}

func (t *txRepo) Create(ctx context.Context, pt ProductType) (ProductType, error) {
	var taxClass any
	if pt.TaxClassID != "" {
		taxClass = pt.TaxClassID
	}
	err := t.tx.QueryRow(ctx, `INSERT INTO product_types
		(name, slug, kind, is_shipping_required, tax_class_id, weight, weight_unit, metadata, private_metadata)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id::text, created_at`,
		pt.Name, pt.Slug, string(pt.Kind), pt.IsShippingRequired, taxClass, pt.Weight, string(pt.WeightUnit),
		pt.Metadata, pt.PrivateMetadata,
	).Scan(&pt.ID, &pt.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return ProductType{}, fmt.Errorf("producttypes: %s: %w", pgErr.ConstraintName, shared.ErrDuplicate)
		}
		return ProductType{}, fmt.Errorf("producttypes: insert: %w", err)
	}
	return pt, nil
}

func (t *txRepo) RecordAudit(ctx context.Context, log shared.AuditLog) error {
	return t.audit.Record(ctx, t.tx, log)
}

func scanProductType(row pgx.Row) (ProductType, error) {
	var (
		pt      ProductType
		kind    string
		unit    string
		taxID   pgtype.Text
		taxName pgtype.Text
	)
	err := row.Scan(&pt.ID, &pt.Name, &pt.Slug, &kind, &pt.IsShippingRequired,
		&taxID, &taxName, &pt.Weight, &unit, &pt.Metadata, &pt.PrivateMetadata, &pt.CreatedAt)
	if err != nil {
		return ProductType{}, fmt.Errorf("producttypes: scan: %w", err)
	}
	pt.Kind = Kind(kind)
	pt.WeightUnit = WeightUnit(unit)
	pt.TaxClassID = taxID.String
	pt.TaxClassName = taxName.String
	return pt, nil
}
