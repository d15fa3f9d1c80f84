package taxclasses

import (
	"context"
	"sort"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odyssey-erp/backoffice/internal/platform/cache"
	"github.com/odyssey-erp/backoffice/internal/shared"
)

type memoryRepo struct {
	items []TaxClass
	calls atomic.Int32
}

func newMemoryRepo(items ...TaxClass) *memoryRepo {
	sorted := append([]TaxClass(nil), items...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })
	return &memoryRepo{items: sorted}
}

func (m *memoryRepo) List(ctx context.Context, page shared.CursorPage) (Page, error) {
	m.calls.Add(1)
	start := 0
	if page.After != "" {
		for i, tc := range m.items {
			if tc.ID == page.After {
				start = i + 1
			}
		}
	}
	end := start + page.First + 1
	if end > len(m.items) {
		end = len(m.items)
	}
	window := append([]TaxClass{}, m.items[start:end]...)
	return pageOf(window, page.First), nil
}

func (m *memoryRepo) Get(ctx context.Context, id string) (TaxClass, error) {
	if tc, ok := Find(m.items, id); ok {
		return tc, nil
	}
	return TaxClass{}, shared.ErrNotFound
}

func fixtures() []TaxClass {
	return []TaxClass{
		{ID: "A", Name: "Standard"},
		{ID: "B", Name: "Reduced"},
		{ID: "C", Name: "Zero rated"},
		{ID: "D", Name: "Exempt"},
		{ID: "E", Name: "Luxury"},
	}
}

func TestListPagesFollowsCursor(t *testing.T) {
	repo := newMemoryRepo(fixtures()...)
	svc := NewService(repo, nil, 2)

	first, err := svc.ListPages(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, []TaxClass{{ID: "D", Name: "Exempt"}, {ID: "E", Name: "Luxury"}}, first.Items)
	assert.True(t, first.HasMore)

	all, err := svc.ListPages(context.Background(), 5)
	require.NoError(t, err)
	assert.Len(t, all.Items, 5)
	assert.False(t, all.HasMore)
	assert.Equal(t, "C", all.EndCursor)
}

func TestListUsesCacheUntilBumped(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	repo := newMemoryRepo(fixtures()...)
	svc := NewService(repo, cache.NewVersioned(client, "taxclasses", time.Minute), 3)
	ctx := context.Background()

	_, err := svc.List(ctx, shared.CursorPage{})
	require.NoError(t, err)
	page, err := svc.List(ctx, shared.CursorPage{})
	require.NoError(t, err)
	assert.Len(t, page.Items, 3)
	assert.Equal(t, int32(1), repo.calls.Load())

	require.NoError(t, svc.Bump(ctx))
	_, err = svc.List(ctx, shared.CursorPage{})
	require.NoError(t, err)
	assert.Equal(t, int32(2), repo.calls.Load())
}

func TestFind(t *testing.T) {
	tc, ok := Find(fixtures(), "A")
	assert.True(t, ok)
	assert.Equal(t, "Standard", tc.Name)

	_, ok = Find(fixtures(), "")
	assert.False(t, ok)
}
