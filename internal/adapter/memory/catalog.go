// Package memory provides in-process repositories used when no database is
// configured.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"pewarnaan/internal/domain"
)

// CatalogRepository keeps colors, characteristics and motifs in maps.
type CatalogRepository struct {
	mu     sync.RWMutex
	colors map[string]domain.ThreadColor
	chars  map[string]domain.Characteristic
	motifs map[string]domain.Motif
	now    func() time.Time
}

// NewCatalogRepository builds a catalog preloaded with the given colors and
// characteristics.
func NewCatalogRepository(colors []domain.ThreadColor, chars []domain.Characteristic) *CatalogRepository {
	r := &CatalogRepository{
		colors: make(map[string]domain.ThreadColor, len(colors)),
		chars:  make(map[string]domain.Characteristic, len(chars)),
		motifs: make(map[string]domain.Motif),
		now:    time.Now,
	}
	for _, c := range colors {
		r.colors[c.Code] = c
	}
	for _, c := range chars {
		r.chars[c.Name] = c
	}
	return r
}

func (r *CatalogRepository) ListColors(context.Context) ([]domain.ThreadColor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.ThreadColor, 0, len(r.colors))
	for _, c := range r.colors {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

func (r *CatalogRepository) ListCharacteristics(context.Context) (map[string]domain.Characteristic, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]domain.Characteristic, len(r.chars))
	for k, v := range r.chars {
		out[k] = v
	}
	return out, nil
}

func (r *CatalogRepository) ListMotifs(_ context.Context, ulosType string) ([]domain.Motif, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []domain.Motif
	for _, m := range r.motifs {
		if m.UlosType == ulosType {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *CatalogRepository) GetMotif(_ context.Context, id string) (*domain.Motif, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.motifs[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &m, nil
}

func (r *CatalogRepository) UlosTypes(context.Context) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	set := make(map[string]struct{}, len(r.chars))
	for name := range r.chars {
		set[name] = struct{}{}
	}
	for _, m := range r.motifs {
		set[m.UlosType] = struct{}{}
	}
	out := make([]string, 0, len(set))
	for t := range set {
		out = append(out, t)
	}
	sort.Strings(out)
	return out, nil
}

func (r *CatalogRepository) UpsertColor(_ context.Context, color domain.ThreadColor) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, exists := r.colors[color.Code]
	r.colors[color.Code] = color
	return !exists, nil
}

func (r *CatalogRepository) UpsertCharacteristic(_ context.Context, c domain.Characteristic) error {
	r.mu.Lock()
	r.chars[c.Name] = c
	r.mu.Unlock()
	return nil
}

func (r *CatalogRepository) InsertMotif(_ context.Context, m domain.Motif) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.motifs[m.ID]; exists {
		return false, nil
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = r.now()
	}
	r.motifs[m.ID] = m
	return true, nil
}

var (
	_ domain.CatalogRepository = (*CatalogRepository)(nil)
	_ domain.CatalogWriter     = (*CatalogRepository)(nil)
)
