package producttypes

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/odyssey-erp/backoffice/internal/shared"
	"github.com/odyssey-erp/backoffice/internal/taxclasses"
)

type memoryRepo struct {
	mu     sync.Mutex
	items  []ProductType
	audits []shared.AuditLog
	seq    int
	lists  int
}

type memoryTx struct {
	repo    *memoryRepo
	created []ProductType
	audits  []shared.AuditLog
}

func (m *memoryRepo) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	tx := &memoryTx{repo: m}
	if err := fn(ctx, tx); err != nil {
		return err
	}
	m.items = append(m.items, tx.created...)
	m.audits = append(m.audits, tx.audits...)
	return nil
}

func (m *memoryRepo) List(_ context.Context, filters ListFilters) (ListResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lists++
	items := make([]ProductType, 0, len(m.items))
	for _, pt := range m.items {
		if filters.Kind != "" && pt.Kind != filters.Kind {
			continue
		}
		if filters.Search != "" && !strings.Contains(strings.ToLower(pt.Name), strings.ToLower(filters.Search)) {
			continue
		}
		items = append(items, pt)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Name < items[j].Name })
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

func (m *memoryRepo) created() []ProductType {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]ProductType(nil), m.items...)
}

func (t *memoryTx) SlugExists(_ context.Context, slug string) (bool, error) {
	for _, pt := range append(t.repo.items, t.created...) {
		if pt.Slug == slug {
			return true, nil
		}
	}
	return false, nil
}

func (t *memoryTx) Create(_ context.Context, pt ProductType) (ProductType, error) {
	for _, existing := range append(t.repo.items, t.created...) {
		if strings.EqualFold(existing.Name, pt.Name) {
			return ProductType{}, fmt.Errorf("product_types_name_key: %w", shared.ErrDuplicate)
		}
	}
	t.repo.seq++
	pt.ID = fmt.Sprintf("pt-%d", t.repo.seq)
	t.created = append(t.created, pt)
	return pt, nil
}

func (t *memoryTx) RecordAudit(_ context.Context, log shared.AuditLog) error {
	t.audits = append(t.audits, log)
	return nil
}

// taxSource serves a fixed list two classes per page.
type taxSource struct {
	classes []taxclasses.TaxClass
}

func newTaxSource() *taxSource {
	return &taxSource{classes: []taxclasses.TaxClass{
		{ID: "A", Name: "Standard"},
		{ID: "B", Name: "Reduced"},
		{ID: "C", Name: "Zero rated"},
	}}
}

func (s *taxSource) Get(_ context.Context, id string) (taxclasses.TaxClass, error) {
	if tc, ok := taxclasses.Find(s.classes, id); ok {
		return tc, nil
	}
	return taxclasses.TaxClass{}, fmt.Errorf("tax class %s: %w", id, shared.ErrNotFound)
}

func (s *taxSource) ListPages(_ context.Context, pages int) (taxclasses.Page, error) {
	n := pages * 2
	if n >= len(s.classes) {
		return taxclasses.Page{Items: s.classes}, nil
	}
	return taxclasses.Page{Items: s.classes[:n], HasMore: true, EndCursor: s.classes[n-1].ID}, nil
}

type recordingPublisher struct {
	mu  sync.Mutex
	ids []string
}

func (p *recordingPublisher) EnqueueProductTypeCreated(_ context.Context, id string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.ids = append(p.ids, id)
	return nil
}
