package producttypes

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/go-playground/validator/v10"

	"github.com/odyssey-erp/backoffice/internal/metadata"
	"github.com/odyssey-erp/backoffice/internal/platform/cache"
	"github.com/odyssey-erp/backoffice/internal/shared"
	"github.com/odyssey-erp/backoffice/internal/taxclasses"
)

const (
	outcomeCreated  = "created"
	outcomeRejected = "rejected"
	outcomeFailed   = "failed"

	maxSlugAttempts = 50
	listPageSize    = 50
)

// RepositoryPort describes repository operations used by Service.
type RepositoryPort interface {
	WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error
	List(ctx context.Context, filters ListFilters) (ListResult, error)
}

// TaxClassPort resolves tax classes referenced by the payload.
type TaxClassPort interface {
	Get(ctx context.Context, id string) (taxclasses.TaxClass, error)
}

// Publisher announces created product types to background workers.
type Publisher interface {
	EnqueueProductTypeCreated(ctx context.Context, id string) error
}

// ServiceOptions groups optional collaborators.
type ServiceOptions struct {
	Cache             *cache.Versioned
	Publisher         Publisher
	Metrics           *Metrics
	Logger            *slog.Logger
	DefaultWeightUnit WeightUnit
}

// Service creates and lists product types.
type Service struct {
	repo       RepositoryPort
	taxes      TaxClassPort
	cache      *cache.Versioned
	publisher  Publisher
	metrics    *Metrics
	logger     *slog.Logger
	validate   *validator.Validate
	weightUnit WeightUnit
}

// NewService constructs the service.
func NewService(repo RepositoryPort, taxes TaxClassPort, opts ServiceOptions) *Service {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	unit := opts.DefaultWeightUnit
	if unit == "" {
		unit = WeightUnitKG
	}
	return &Service{
		repo:       repo,
		taxes:      taxes,
		cache:      opts.Cache,
		publisher:  opts.Publisher,
		metrics:    opts.Metrics,
		logger:     logger,
		validate:   newValidator(),
		weightUnit: unit,
	}
}

// DefaultWeightUnit is the unit new product types are stored with.
func (s *Service) DefaultWeightUnit() WeightUnit {
	return s.weightUnit
}

// Create validates data and persists a new product type. Problems the user can
// fix are returned as UserErrors with a nil error.
func (s *Service) Create(ctx context.Context, actor string, data Form) (ProductType, []shared.UserError, error) {
	userErrs, err := validateForm(s.validate, data)
	if err != nil {
		s.metrics.observe(outcomeFailed, data.Kind)
		return ProductType{}, nil, err
	}
	if len(userErrs) > 0 {
		s.metrics.observe(outcomeRejected, data.Kind)
		return ProductType{}, userErrs, nil
	}

	pt := ProductType{
		Name:               data.Name,
		Kind:               data.Kind,
		IsShippingRequired: data.IsShippingRequired,
		TaxClassID:         data.TaxClassID,
		Weight:             data.Weight,
		WeightUnit:         s.weightUnit,
		Metadata:           metadata.Clone(data.Metadata),
		PrivateMetadata:    metadata.Clone(data.PrivateMetadata),
	}
	if data.TaxClassID != "" {
		tc, err := s.taxes.Get(ctx, data.TaxClassID)
		switch {
		case errors.Is(err, shared.ErrNotFound):
			s.metrics.observe(outcomeRejected, data.Kind)
			return ProductType{}, []shared.UserError{{
				Field:   FieldTaxClassID,
				Code:    shared.CodeNotFound,
				Message: "Tax class does not exist.",
			}}, nil
		case err != nil:
			s.metrics.observe(outcomeFailed, data.Kind)
			return ProductType{}, nil, err
		}
		pt.TaxClassName = tc.Name
	}

	var created ProductType
	err = s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		slug, err := uniqueSlug(ctx, tx, Slugify(pt.Name))
		if err != nil {
			return err
		}
		pt.Slug = slug
		created, err = tx.Create(ctx, pt)
		if err != nil {
			return err
		}
		return tx.RecordAudit(ctx, shared.AuditLog{
			Actor:    actor,
			Action:   "product_type.created",
			Entity:   "product_type",
			EntityID: created.ID,
			Meta: map[string]any{
				"name":             created.Name,
				"slug":             created.Slug,
				"kind":             created.Kind,
				"tax_class_id":     created.TaxClassID,
				"metadata":         metadata.Diff(nil, created.Metadata),
				"private_metadata": metadata.Diff(nil, created.PrivateMetadata),
			},
		})
	})
	if errors.Is(err, shared.ErrDuplicate) {
		s.metrics.observe(outcomeRejected, data.Kind)
		return ProductType{}, []shared.UserError{{
			Field:   FieldName,
			Code:    shared.CodeUnique,
			Message: "Product type with this name already exists.",
		}}, nil
	}
	if err != nil {
		s.metrics.observe(outcomeFailed, data.Kind)
		return ProductType{}, nil, err
	}
	created.TaxClassName = pt.TaxClassName

	s.metrics.observe(outcomeCreated, created.Kind)
	if err := s.cache.Bump(ctx); err != nil {
		s.logger.Warn("bump product type cache", slog.Any("error", err))
	}
	if s.publisher != nil {
		if err := s.publisher.EnqueueProductTypeCreated(ctx, created.ID); err != nil {
			s.logger.Warn("enqueue product type created", slog.String("id", created.ID), slog.Any("error", err))
		}
	}
	s.logger.Info("product type created", slog.String("id", created.ID), slog.String("slug", created.Slug), slog.String("kind", string(created.Kind)))
	return created, nil, nil
}

func uniqueSlug(ctx context.Context, tx TxRepository, base string) (string, error) {
	for n := 1; n <= maxSlugAttempts; n++ {
		candidate := slugCandidate(base, n)
		exists, err := tx.SlugExists(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("producttypes: slug %q: %w", base, shared.ErrDuplicate)
}

// List returns a cached window of product types.
func (s *Service) List(ctx context.Context, filters ListFilters) (ListResult, error) {
	filters.Page = filters.Page.Normalize(listPageSize, 100)
	key, err := s.cache.Key(ctx, "list", filters.Search, string(filters.Kind), strconv.Itoa(filters.Page.First), filters.Page.After)
	if err != nil {
		return ListResult{}, err
	}
	var out ListResult
	err = s.cache.FetchJSON(ctx, key, &out, func(ctx context.Context) (any, error) {
		return s.repo.List(ctx, filters)
	})
	if err != nil {
		return ListResult{}, err
	}
	if out.Items == nil {
		out.Items = []ProductType{}
	}
	return out, nil
}

// Bump invalidates cached list pages.
func (s *Service) Bump(ctx context.Context) error {
	return s.cache.Bump(ctx)
}
