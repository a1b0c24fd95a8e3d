package state

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/alfredjeanlab/reelcast/internal/events"
	"github.com/alfredjeanlab/reelcast/internal/idgen"
	"github.com/alfredjeanlab/reelcast/internal/model"
	"github.com/alfredjeanlab/reelcast/internal/store"
)

// Inventory is the saved product catalogue.
type Inventory struct {
	deps
	mu       sync.RWMutex
	products []model.Product
}

// NewInventory returns an empty catalogue backed by a.
func NewInventory(a *store.Adapter, opts Options) *Inventory {
	return &Inventory{deps: newDeps(a, opts)}
}

// Load re-reads the catalogue. A missing or malformed stored list loads as
// empty.
func (inv *Inventory) Load(ctx context.Context) []model.Product {
	var products []model.Product
	if !inv.store.Load(ctx, model.KeyProducts, &products) {
		products = nil
	}
	inv.mu.Lock()
	inv.products = products
	inv.mu.Unlock()
	return slices.Clone(products)
}

// List returns a copy of the catalogue in insertion order.
func (inv *Inventory) List() []model.Product {
	inv.mu.RLock()
	defer inv.mu.RUnlock()
	return slices.Clone(inv.products)
}

// Search matches query against product names, case-insensitively. An empty
// query returns everything.
func (inv *Inventory) Search(query string) []model.Product {
	q := strings.ToLower(strings.TrimSpace(query))
	all := inv.List()
	if q == "" {
		return all
	}
	out := all[:0]
	for _, p := range all {
		if strings.Contains(strings.ToLower(p.Name), q) {
			out = append(out, p)
		}
	}
	return out
}

// Add validates draft, appends it with a fresh id and persists the list. A
// *model.StoreError return still carries the added product.
func (inv *Inventory) Add(ctx context.Context, draft model.ProductDraft) (model.Product, error) {
	if err := model.ValidateProductDraft(draft, false); err != nil {
		return model.Product{}, err
	}
	id, err := idgen.GenerateWithPrefix(idgen.ProductPrefix)
	if err != nil {
		return model.Product{}, fmt.Errorf("generate product id: %w", err)
	}
	p := model.Product{
		ID:          id,
		Name:        draft.Name,
		Description: draft.Description,
		Price:       draft.Price,
		Style:       draft.Style,
		CreatedAt:   inv.now().UTC(),
	}

	inv.mu.Lock()
	inv.products = append(inv.products, p)
	saveErr := inv.store.Save(ctx, model.KeyProducts, inv.products)
	inv.mu.Unlock()

	inv.publish(ctx, events.TopicProductAdded, events.ProductAdded{Product: p})
	return p, saveErr
}

// Remove deletes the product with id, or returns a *model.NotFoundError.
func (inv *Inventory) Remove(ctx context.Context, id string) error {
	inv.mu.Lock()
	i := slices.IndexFunc(inv.products, func(p model.Product) bool { return p.ID == id })
	if i < 0 {
		inv.mu.Unlock()
		return &model.NotFoundError{Kind: "product", ID: id}
	}
	inv.products = slices.Delete(inv.products, i, i+1)
	saveErr := inv.store.Save(ctx, model.KeyProducts, inv.products)
	inv.mu.Unlock()

	inv.publish(ctx, events.TopicProductRemoved, events.ProductRemoved{ProductID: id})
	return saveErr
}
