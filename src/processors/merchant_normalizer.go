// backend/src/processors/merchant_normalizer.go
package processors

import (
	"context"
	"fmt"
	"strings"

	"github.com/patrickmn/go-cache"

	"github.com/canerthemaster123/receipto-tr-rewards-sub001/src/models"
	"github.com/canerthemaster123/receipto-tr-rewards-sub001/src/utils"
)

// UnknownChainGroup is the sentinel returned for blank merchant strings.
const UnknownChainGroup = "Unknown"

// fallbackBrands is the fixed list tried when no ChainMapping rule matched.
var fallbackBrands = []struct {
	needle string
	group  string
}{
	{"MİGROS", "Migros"},
	{"MIGROS", "Migros"},
	{"A101", "A101"},
	{"BİM", "BİM"},
	{"ŞOK", "ŞOK"},
	{"SOK MARKET", "ŞOK"},
	{"CARREFOUR", "CarrefourSA"},
}

// MerchantNormalizer maps raw merchant strings to canonical chain groups
// using the administrator-managed mapping table, with a heuristic fallback.
// Results are memoized per process; the mapping table is reference data that
// changes rarely, so a short memo TTL keeps it fresh enough.
type MerchantNormalizer struct {
	store ChainMappingStore
	memo  *cache.Cache
}

func NewMerchantNormalizer(store ChainMappingStore, memo *cache.Cache) *MerchantNormalizer {
	return &MerchantNormalizer{store: store, memo: memo}
}

// Normalize resolves raw to a chain group. It never fails to produce a
// value for reachable reference data: unmatched input comes back trimmed but
// otherwise unchanged. An error is returned only when the mapping table
// itself cannot be read, which is recoverable and distinct from "no match".
func (n *MerchantNormalizer) Normalize(ctx context.Context, raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return UnknownChainGroup, nil
	}

	if n.memo != nil {
		if v, found := n.memo.Get(trimmed); found {
			return v.(string), nil
		}
	}

	mappings, err := n.store.ListActive(ctx)
	if err != nil {
		return "", fmt.Errorf("listing chain mappings: %w", err)
	}

	result := trimmed
	if best := bestMapping(trimmed, mappings); best != nil {
		result = best.ChainGroup
	} else {
		for _, b := range fallbackBrands {
			if utils.ContainsTR(trimmed, b.needle) {
				result = b.group
				break
			}
		}
	}

	if n.memo != nil {
		n.memo.Set(trimmed, result, cache.DefaultExpiration)
	}
	return result, nil
}

// FlushMemo drops all memoized results. Called after the mapping table is
// edited so the next lookups see the new rules immediately.
func (n *MerchantNormalizer) FlushMemo() {
	if n.memo != nil {
		n.memo.Flush()
	}
}

// bestMapping selects among the active mappings whose pattern occurs in raw:
// highest priority wins, remaining ties go to the most specific (longest)
// pattern. Deterministic for any input ordering.
func bestMapping(raw string, mappings []models.ChainMapping) *models.ChainMapping {
	var best *models.ChainMapping
	for i := range mappings {
		m := &mappings[i]
		if !m.Active || m.RawMerchantPattern == "" {
			continue
		}
		if !utils.ContainsTR(raw, m.RawMerchantPattern) {
			continue
		}
		if best == nil ||
			m.Priority > best.Priority ||
			(m.Priority == best.Priority && len(m.RawMerchantPattern) > len(best.RawMerchantPattern)) {
			best = m
		}
	}
	return best
}
