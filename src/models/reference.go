package models

// ChainMapping is an administrator-managed rule that maps raw merchant
// strings, as they appear on receipts, to a canonical chain group. Among all
// active rules whose pattern is contained in the raw string the highest
// priority wins; remaining ties go to the longest pattern.
type ChainMapping struct {
	ID                 int64  `json:"id"`
	RawMerchantPattern string `json:"raw_merchant_pattern"`
	ChainGroup         string `json:"chain_group"`
	Priority           int    `json:"priority"`
	Active             bool   `json:"active"`
}

// StoreLocation is a canonical store of a chain, created on first resolution
// of a previously unseen chain+address combination. Empty component strings
// mean the component could not be extracted. GeoCell is a fixed-resolution
// spatial cell id consumed by the analytics layer, not computed here.
type StoreLocation struct {
	ID           string   `json:"id"`
	ChainGroup   string   `json:"chain_group"`
	City         string   `json:"city,omitempty"`
	District     string   `json:"district,omitempty"`
	Neighborhood string   `json:"neighborhood,omitempty"`
	Street       string   `json:"street,omitempty"`
	Lat          *float64 `json:"lat,omitempty"`
	Lng          *float64 `json:"lng,omitempty"`
	GeoCell      string   `json:"geo_cell,omitempty"`
}

// AddressComponents is the transient result of splitting a raw address line.
// It is only ever used to query or construct a StoreLocation.
type AddressComponents struct {
	City         string `json:"city,omitempty"`
	District     string `json:"district,omitempty"`
	Neighborhood string `json:"neighborhood,omitempty"`
	Street       string `json:"street,omitempty"`
}
