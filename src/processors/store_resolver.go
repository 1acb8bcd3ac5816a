// backend/src/processors/store_resolver.go
package processors

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/canerthemaster123/receipto-tr-rewards-sub001/src/models"
)

// StoreResolver resolves (or creates) the canonical store location for a
// chain and a raw address string. The address split itself is pure; only the
// reference-store calls can fail, and those errors are passed through for
// the caller to retry or degrade on.
type StoreResolver struct {
	store StoreLocationStore
}

func NewStoreResolver(store StoreLocationStore) *StoreResolver {
	return &StoreResolver{store: store}
}

// Match finds the best existing store for the chain. The component-narrowed
// query is tried first; when it comes back empty any store of the chain is
// acceptable: an approximate store beats none for downstream geo
// aggregation. (nil, nil) means the chain has no stores at all.
func (r *StoreResolver) Match(ctx context.Context, chainGroup, addressRaw string) (*models.StoreLocation, error) {
	var comps models.AddressComponents
	if strings.TrimSpace(addressRaw) != "" {
		comps = ParseAddressComponents(addressRaw)
	}

	loc, err := r.store.FindByChainAndComponents(ctx, chainGroup, comps)
	if err != nil {
		return nil, fmt.Errorf("matching store for chain %q: %w", chainGroup, err)
	}
	if loc != nil {
		return loc, nil
	}

	loc, err = r.store.FirstByChain(ctx, chainGroup)
	if err != nil {
		return nil, fmt.Errorf("falling back to any store of chain %q: %w", chainGroup, err)
	}
	return loc, nil
}

// Upsert returns the store id for (chainGroup, addressRaw), creating the
// location on first sight. Idempotent: equivalent inputs always yield the
// same id, keyed on (chain, city, district, neighborhood).
func (r *StoreResolver) Upsert(ctx context.Context, chainGroup, addressRaw string, lat, lng *float64) (string, error) {
	var comps models.AddressComponents
	if strings.TrimSpace(addressRaw) != "" {
		comps = ParseAddressComponents(addressRaw)
	}

	existing, err := r.store.FindByResolutionKey(ctx, chainGroup, comps.City, comps.District, comps.Neighborhood)
	if err != nil {
		return "", fmt.Errorf("looking up store for chain %q: %w", chainGroup, err)
	}
	if existing != nil {
		return existing.ID, nil
	}

	loc := &models.StoreLocation{
		ID:           uuid.NewString(),
		ChainGroup:   chainGroup,
		City:         comps.City,
		District:     comps.District,
		Neighborhood: comps.Neighborhood,
		Street:       comps.Street,
		Lat:          lat,
		Lng:          lng,
	}
	if err := r.store.Insert(ctx, loc); err != nil {
		return "", fmt.Errorf("creating store for chain %q: %w", chainGroup, err)
	}
	return loc.ID, nil
}
