package processors

import (
	"context"

	"github.com/canerthemaster123/receipto-tr-rewards-sub001/src/models"
)

// ChainMappingStore provides read access to the administrator-managed
// merchant mapping table. Implementations must distinguish connectivity
// failures (error) from an empty table (empty slice, nil error).
type ChainMappingStore interface {
	ListActive(ctx context.Context) ([]models.ChainMapping, error)
}

// StoreLocationStore is the external reference store for canonical store
// locations. Lookup methods return (nil, nil) when nothing matched; an error
// means the store itself was unreachable.
type StoreLocationStore interface {
	// FindByChainAndComponents narrows stores of a chain by every non-empty
	// address component (city, district, neighborhood; partial,
	// case-insensitive, ANDed) and returns the first hit.
	FindByChainAndComponents(ctx context.Context, chainGroup string, comps models.AddressComponents) (*models.StoreLocation, error)
	// FirstByChain returns any store of the chain.
	FirstByChain(ctx context.Context, chainGroup string) (*models.StoreLocation, error)
	// FindByResolutionKey matches the exact (chain, city, district,
	// neighborhood) identity used for idempotent upserts.
	FindByResolutionKey(ctx context.Context, chainGroup, city, district, neighborhood string) (*models.StoreLocation, error)
	Insert(ctx context.Context, loc *models.StoreLocation) error
}
