// Package memory implementa los puertos de persistencia en memoria para pruebas y demos.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/jhoicas/costeo-api/internal/application/costing"
	"github.com/jhoicas/costeo-api/internal/domain/entity"
	"github.com/jhoicas/costeo-api/internal/domain/repository"
)

var (
	_ repository.OutletRepository     = (*OutletRepo)(nil)
	_ repository.IngredientRepository = (*IngredientRepo)(nil)
	_ repository.RecipeRepository     = (*RecipeRepo)(nil)
	_ repository.MenuRepository       = (*MenuRepo)(nil)
	_ repository.PriceRepository      = (*PriceRepo)(nil)
	_ costing.SnapshotRunner          = (*Store)(nil)
)

// Store datos compartidos por los repositorios en memoria. Seguro para uso concurrente.
type Store struct {
	mu          sync.RWMutex
	outlets     map[string]*entity.Outlet
	ingredients map[string]*entity.CanonicalIngredient
	products    map[string]*entity.DistributorProduct
	records     []*entity.PriceRecord
	recipes     map[string]*entity.Recipe
	menus       map[string]*entity.BanquetMenu
}

// NewStore crea un store vacío.
func NewStore() *Store {
	return &Store{
		outlets:     make(map[string]*entity.Outlet),
		ingredients: make(map[string]*entity.CanonicalIngredient),
		products:    make(map[string]*entity.DistributorProduct),
		recipes:     make(map[string]*entity.Recipe),
		menus:       make(map[string]*entity.BanquetMenu),
	}
}

func (s *Store) AddOutlet(o *entity.Outlet) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.outlets[o.ID] = o
}

func (s *Store) AddIngredient(i *entity.CanonicalIngredient) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ingredients[i.ID] = i
}

func (s *Store) AddProduct(p *entity.DistributorProduct) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products[p.ID] = p
}

func (s *Store) AddRecipe(r *entity.Recipe) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recipes[r.ID] = r
}

func (s *Store) AddMenu(m *entity.BanquetMenu) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.menus[m.ID] = m
}

// AddPrice agrega un registro de precio (equivalente a Insert sin contexto).
func (s *Store) AddPrice(r *entity.PriceRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *r
	s.records = append(s.records, &cp)
}

func (s *Store) Outlets() *OutletRepo         { return &OutletRepo{s: s} }
func (s *Store) Ingredients() *IngredientRepo { return &IngredientRepo{s: s} }
func (s *Store) Recipes() *RecipeRepo         { return &RecipeRepo{s: s} }
func (s *Store) Menus() *MenuRepo             { return &MenuRepo{s: s} }
func (s *Store) Prices() *PriceRepo           { return &PriceRepo{s: s} }

// RunSnapshot en memoria no hay aislamiento que abrir: fn recibe los repositorios del store.
func (s *Store) RunSnapshot(ctx context.Context, fn func(repos costing.SnapshotRepos) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return fn(costing.SnapshotRepos{
		Outlets:     s.Outlets(),
		Ingredients: s.Ingredients(),
		Recipes:     s.Recipes(),
		Menus:       s.Menus(),
		Prices:      s.Prices(),
	})
}

// OutletRepo adaptador de OutletRepository.
type OutletRepo struct{ s *Store }

func (r *OutletRepo) GetByID(_ context.Context, id string) (*entity.Outlet, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.outlets[id], nil
}

func (r *OutletRepo) ListByOrganization(_ context.Context, organizationID string) ([]*entity.Outlet, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*entity.Outlet, 0)
	for _, o := range r.s.outlets {
		if o.OrganizationID == organizationID {
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// IngredientRepo adaptador de IngredientRepository.
type IngredientRepo struct{ s *Store }

func (r *IngredientRepo) GetByID(_ context.Context, id string) (*entity.CanonicalIngredient, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.ingredients[id], nil
}

func (r *IngredientRepo) GetByIDs(_ context.Context, ids []string) ([]*entity.CanonicalIngredient, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*entity.CanonicalIngredient, 0, len(ids))
	for _, id := range ids {
		if i, ok := r.s.ingredients[id]; ok {
			out = append(out, i)
		}
	}
	return out, nil
}

// RecipeRepo adaptador de RecipeRepository.
type RecipeRepo struct{ s *Store }

func (r *RecipeRepo) GetByID(_ context.Context, id string) (*entity.Recipe, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.recipes[id], nil
}

// GetGraph recorrido por niveles desde las raíces, igual que la consulta recursiva de Postgres.
func (r *RecipeRepo) GetGraph(_ context.Context, rootIDs []string, maxDepth int) ([]*entity.Recipe, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	seen := make(map[string]bool)
	out := make([]*entity.Recipe, 0)
	level := rootIDs
	for depth := 1; depth <= maxDepth && len(level) > 0; depth++ {
		var next []string
		for _, id := range level {
			if seen[id] {
				continue
			}
			seen[id] = true
			rec, ok := r.s.recipes[id]
			if !ok {
				continue
			}
			out = append(out, rec)
			next = append(next, rec.SubRecipeIDs()...)
		}
		level = next
	}
	return out, nil
}

// MenuRepo adaptador de MenuRepository.
type MenuRepo struct{ s *Store }

func (r *MenuRepo) GetByID(_ context.Context, id string) (*entity.BanquetMenu, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.menus[id], nil
}

// PriceRepo adaptador de PriceRepository.
type PriceRepo struct{ s *Store }

func (r *PriceRepo) GetProduct(_ context.Context, id string) (*entity.DistributorProduct, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.products[id], nil
}

func (r *PriceRepo) ListOffers(_ context.Context, outletID string, ingredientIDs, productIDs []string, asOf time.Time) ([]*entity.DistributorProduct, []*entity.PriceRecord, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	wantIng := toSet(ingredientIDs)
	wantProd := toSet(productIDs)

	products := make([]*entity.DistributorProduct, 0)
	for _, p := range r.s.products {
		if p.OutletID != outletID {
			continue
		}
		_, byProduct := wantProd[p.ID]
		byIngredient := false
		if p.CanonicalIngredientID != nil {
			_, byIngredient = wantIng[*p.CanonicalIngredientID]
		}
		if byProduct || byIngredient {
			products = append(products, p)
		}
	}
	sort.Slice(products, func(i, j int) bool { return products[i].ID < products[j].ID })

	records := make([]*entity.PriceRecord, 0, len(products))
	for _, p := range products {
		var latest *entity.PriceRecord
		for _, rec := range r.s.records {
			if rec.DistributorProductID != p.ID || rec.OutletID != outletID || rec.UnitPrice == nil || rec.EffectiveAt.After(asOf) {
				continue
			}
			if latest == nil || newerRecord(rec, latest) {
				latest = rec
			}
		}
		if latest != nil {
			records = append(records, latest)
		}
	}
	return products, records, nil
}

func (r *PriceRepo) Insert(_ context.Context, record *entity.PriceRecord) error {
	r.s.AddPrice(record)
	return nil
}

func (r *PriceRepo) ListHistory(_ context.Context, productID, outletID string, limit int) ([]*entity.PriceRecord, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*entity.PriceRecord, 0)
	for _, rec := range r.s.records {
		if rec.DistributorProductID == productID && rec.OutletID == outletID {
			out = append(out, rec)
		}
	}
	sort.Slice(out, func(i, j int) bool { return newerRecord(out[i], out[j]) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// newerRecord mismo orden que "ORDER BY effective_at DESC, created_at DESC, id DESC".
func newerRecord(a, b *entity.PriceRecord) bool {
	if !a.EffectiveAt.Equal(b.EffectiveAt) {
		return a.EffectiveAt.After(b.EffectiveAt)
	}
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.After(b.CreatedAt)
	}
	return a.ID > b.ID
}

func toSet(ids []string) map[string]struct{} {
	m := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		m[id] = struct{}{}
	}
	return m
}
