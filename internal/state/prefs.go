package state

import (
	"context"
	"log"
)

// Storage keys. Each preference is an isolated get/set pair; writes are
// full overwrites of the value under the key.
const (
	keyArchived      = "archived_products"
	keyFeatured      = "featured_products"
	keyCategories    = "custom_categories"
	keyUnits         = "custom_units"
	keyUnitOverrides = "unit_overrides"

	// KeyPendingSale is owned by the cart package; listed here so the key
	// space is documented in one place.
	KeyPendingSale = "pending_sale"
)

// Prefs wraps a Store with typed accessors for the client preferences.
// A missing key or undecodable value yields the zero default; corruption
// is logged and never surfaced to callers.
type Prefs struct {
	store Store
}

func NewPrefs(store Store) *Prefs { return &Prefs{store: store} }

func (p *Prefs) Store() Store { return p.store }

func (p *Prefs) getIDs(ctx context.Context, key string) []string {
	ids := []string{}
	if _, err := p.store.Get(ctx, key, &ids); err != nil {
		log.Printf("prefs: discarding bad %s: %v", key, err)
		return []string{}
	}
	return ids
}

// ArchivedIDs returns the archived-product id set.
func (p *Prefs) ArchivedIDs(ctx context.Context) []string {
	return p.getIDs(ctx, keyArchived)
}

func (p *Prefs) SetArchivedIDs(ctx context.Context, ids []string) error {
	return p.store.Set(ctx, keyArchived, ids)
}

// FeaturedIDs returns the featured-product id set.
func (p *Prefs) FeaturedIDs(ctx context.Context) []string {
	return p.getIDs(ctx, keyFeatured)
}

func (p *Prefs) SetFeaturedIDs(ctx context.Context, ids []string) error {
	return p.store.Set(ctx, keyFeatured, ids)
}

// CustomCategories returns user-added category names.
func (p *Prefs) CustomCategories(ctx context.Context) []string {
	return p.getIDs(ctx, keyCategories)
}

func (p *Prefs) SetCustomCategories(ctx context.Context, names []string) error {
	return p.store.Set(ctx, keyCategories, names)
}

// CustomUnits returns user-added stock unit names.
func (p *Prefs) CustomUnits(ctx context.Context) []string {
	return p.getIDs(ctx, keyUnits)
}

func (p *Prefs) SetCustomUnits(ctx context.Context, names []string) error {
	return p.store.Set(ctx, keyUnits, names)
}

// UnitOverrides maps product id to a unit chosen over the category default.
func (p *Prefs) UnitOverrides(ctx context.Context) map[string]string {
	m := map[string]string{}
	if _, err := p.store.Get(ctx, keyUnitOverrides, &m); err != nil {
		log.Printf("prefs: discarding bad %s: %v", keyUnitOverrides, err)
		return map[string]string{}
	}
	return m
}

func (p *Prefs) SetUnitOverrides(ctx context.Context, m map[string]string) error {
	return p.store.Set(ctx, keyUnitOverrides, m)
}

// ToggleArchived flips a product in or out of the archived set and
// returns the new membership.
func (p *Prefs) ToggleArchived(ctx context.Context, id string) (bool, error) {
	return p.toggle(ctx, keyArchived, id)
}

// ToggleFeatured flips a product in or out of the featured set.
func (p *Prefs) ToggleFeatured(ctx context.Context, id string) (bool, error) {
	return p.toggle(ctx, keyFeatured, id)
}

func (p *Prefs) toggle(ctx context.Context, key, id string) (bool, error) {
	ids := p.getIDs(ctx, key)
	for i, existing := range ids {
		if existing == id {
			ids = append(ids[:i], ids[i+1:]...)
			return false, p.store.Set(ctx, key, ids)
		}
	}
	ids = append(ids, id)
	return true, p.store.Set(ctx, key, ids)
}
