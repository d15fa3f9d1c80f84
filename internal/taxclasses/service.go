package taxclasses

import (
	"context"
	"strconv"

	"golang.org/x/sync/singleflight"

	"github.com/odyssey-erp/backoffice/internal/platform/cache"
	"github.com/odyssey-erp/backoffice/internal/shared"
)

const maxPageSize = 100

// Service lists tax classes through a versioned cache.
type Service struct {
	repo     Repository
	cache    *cache.Versioned
	group    singleflight.Group
	pageSize int
}

// NewService builds a Service. cache may be nil.
func NewService(repo Repository, c *cache.Versioned, pageSize int) *Service {
	if pageSize <= 0 || pageSize > maxPageSize {
		pageSize = 20
	}
	return &Service{repo: repo, cache: c, pageSize: pageSize}
}

// PageSize is the default window used by forms.
func (s *Service) PageSize() int {
	return s.pageSize
}

// List returns one page. Concurrent identical requests share a single load.
func (s *Service) List(ctx context.Context, page shared.CursorPage) (Page, error) {
	page = page.Normalize(s.pageSize, maxPageSize)
	key, err := s.cache.Key(ctx, "page", strconv.Itoa(page.First), page.After)
	if err != nil {
		return Page{}, err
	}
	ch := s.group.DoChan(key, func() (any, error) {
		var out Page
		err := s.cache.FetchJSON(ctx, key, &out, func(ctx context.Context) (any, error) {
			return s.repo.List(ctx, page)
		})
		return out, err
	})
	select {
	case <-ctx.Done():
		return Page{}, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return Page{}, res.Err
		}
		return res.Val.(Page), nil
	}
}

// ListPages walks the listing from the start and concatenates up to pages windows.
func (s *Service) ListPages(ctx context.Context, pages int) (Page, error) {
	if pages < 1 {
		pages = 1
	}
	var out Page
	cursor := ""
	for i := 0; i < pages; i++ {
		p, err := s.List(ctx, shared.CursorPage{First: s.pageSize, After: cursor})
		if err != nil {
			return Page{}, err
		}
		out.Items = append(out.Items, p.Items...)
		out.HasMore = p.HasMore
		out.EndCursor = p.EndCursor
		if !p.HasMore {
			break
		}
		cursor = p.EndCursor
	}
	if out.Items == nil {
		out.Items = []TaxClass{}
	}
	return out, nil
}

// Get loads a single class.
func (s *Service) Get(ctx context.Context, id string) (TaxClass, error) {
	return s.repo.Get(ctx, id)
}

// Bump invalidates cached pages.
func (s *Service) Bump(ctx context.Context) error {
	return s.cache.Bump(ctx)
}
