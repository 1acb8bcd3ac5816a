package services

import (
	"context"
	"errors"

	"github.com/canerthemaster123/receipto-tr-rewards-sub001/src/models"
)

var (
	// ErrDuplicateReceipt means the same receipt (by barcode or raw-text
	// hash) was already ingested for this user.
	ErrDuplicateReceipt = errors.New("receipt already ingested")

	ErrReceiptNotFound = errors.New("receipt not found")
)

// IngestionResult is the enriched record handed to downstream consumers:
// the parser output plus the resolved merchant and store identity.
type IngestionResult struct {
	ReceiptID  string                `json:"receipt_id"`
	Parsed     *models.ParsedReceipt `json:"parsed"`
	ChainGroup string                `json:"chain_group"`
	StoreID    *string               `json:"store_id"`
}

// IngestionService runs the full pipeline over one receipt submission and
// persists the outcome. Receipts are independent of each other; callers may
// invoke ProcessReceipt concurrently for different submissions.
type IngestionService interface {
	ProcessReceipt(ctx context.Context, userID int64, rawText string, imageURL *string) (*IngestionResult, error)
	GetUserReceipts(ctx context.Context, userID int64) ([]models.Receipt, error)
	GetReceipt(ctx context.Context, userID int64, receiptID string) (*models.Receipt, error)
}
