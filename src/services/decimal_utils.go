// backend/src/services/decimal_utils.go
package services

import (
	"database/sql"

	"github.com/shopspring/decimal"
)

// decimalPtrString renders an optional decimal for storage; nil stays NULL.
func decimalPtrString(d *decimal.Decimal) *string {
	if d == nil {
		return nil
	}
	s := d.String()
	return &s
}

// parseStoredDecimal reads back a decimal stored as text. Values are written
// by decimalPtrString, so a parse failure means a corrupted row; it is
// surfaced as nil rather than aborting the whole read.
func parseStoredDecimal(v sql.NullString) *decimal.Decimal {
	if !v.Valid || v.String == "" {
		return nil
	}
	d, err := decimal.NewFromString(v.String)
	if err != nil {
		return nil
	}
	return &d
}
