// backend/src/services/ingestion_service.go
package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"github.com/canerthemaster123/receipto-tr-rewards-sub001/src/database"
	"github.com/canerthemaster123/receipto-tr-rewards-sub001/src/logger"
	"github.com/canerthemaster123/receipto-tr-rewards-sub001/src/models"
	"github.com/canerthemaster123/receipto-tr-rewards-sub001/src/parsers"
	"github.com/canerthemaster123/receipto-tr-rewards-sub001/src/processors"
	"github.com/canerthemaster123/receipto-tr-rewards-sub001/src/utils"
)

const ckUserReceipts = "receipts_user_%d"

type ingestionServiceImpl struct {
	parser       *parsers.ReceiptParser
	normalizer   *processors.MerchantNormalizer
	resolver     *processors.StoreResolver
	receiptCache *cache.Cache
	cacheTTL     time.Duration
}

func NewIngestionService(
	parser *parsers.ReceiptParser,
	normalizer *processors.MerchantNormalizer,
	resolver *processors.StoreResolver,
	receiptCache *cache.Cache,
	cacheTTL time.Duration,
) IngestionService {
	return &ingestionServiceImpl{
		parser:       parser,
		normalizer:   normalizer,
		resolver:     resolver,
		receiptCache: receiptCache,
		cacheTTL:     cacheTTL,
	}
}

// ProcessReceipt runs parse -> merchant normalization -> store resolution,
// then persists the receipt and its items in one transaction. Reference-data
// failures degrade instead of failing the ingestion: the chain group falls
// back to the raw merchant string and the store id stays null, so the caller
// always gets a usable record.
func (s *ingestionServiceImpl) ProcessReceipt(ctx context.Context, userID int64, rawText string, imageURL *string) (*IngestionResult, error) {
	startTime := time.Now()
	logger.L.Info("ProcessReceipt START", "userID", userID, "textBytes", len(rawText))

	parsed := s.parser.Parse(rawText)

	chainGroup, err := s.normalizer.Normalize(ctx, parsed.MerchantRaw)
	if err != nil {
		logger.L.Warn("Chain mapping lookup unavailable, proceeding with raw merchant",
			"userID", userID, "error", err)
		chainGroup = strings.TrimSpace(parsed.MerchantRaw)
		if chainGroup == "" {
			chainGroup = processors.UnknownChainGroup
		}
	}

	var storeID *string
	if chainGroup != processors.UnknownChainGroup {
		address := ""
		if parsed.StoreAddress != nil {
			address = *parsed.StoreAddress
		}
		id, err := s.resolver.Upsert(ctx, chainGroup, address, nil, nil)
		if err != nil {
			logger.L.Warn("Store resolution unavailable, receipt keeps a null store id",
				"userID", userID, "chainGroup", chainGroup, "error", err)
		} else {
			storeID = &id
		}
	}

	hashID := utils.HashText(rawText)
	duplicate, err := s.isDuplicate(ctx, userID, parsed.ReceiptUniqueNo, hashID)
	if err != nil {
		return nil, err
	}
	if duplicate {
		logger.L.Info("Duplicate receipt rejected", "userID", userID)
		return nil, ErrDuplicateReceipt
	}

	receiptID := uuid.NewString()
	if err := s.insertReceipt(ctx, receiptID, userID, parsed, chainGroup, storeID, imageURL, hashID); err != nil {
		return nil, err
	}

	s.receiptCache.Delete(fmt.Sprintf(ckUserReceipts, userID))

	logger.L.Info("ProcessReceipt END", "userID", userID, "receiptID", receiptID,
		"chainGroup", chainGroup, "items", len(parsed.Items), "duration", time.Since(startTime))
	return &IngestionResult{
		ReceiptID:  receiptID,
		Parsed:     parsed,
		ChainGroup: chainGroup,
		StoreID:    storeID,
	}, nil
}

// isDuplicate checks the cross-receipt barcode first (it survives
// re-photographing the same paper), then the raw-text hash.
func (s *ingestionServiceImpl) isDuplicate(ctx context.Context, userID int64, uniqueNo *string, hashID string) (bool, error) {
	query := `SELECT COUNT(1) FROM receipts WHERE user_id = ? AND hash_id = ?`
	args := []interface{}{userID, hashID}
	if uniqueNo != nil {
		query = `SELECT COUNT(1) FROM receipts WHERE user_id = ? AND (hash_id = ? OR receipt_unique_no = ?)`
		args = append(args, *uniqueNo)
	}

	var count int
	if err := database.DB.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return false, fmt.Errorf("checking for duplicate receipt: %w", err)
	}
	return count > 0, nil
}

func (s *ingestionServiceImpl) insertReceipt(ctx context.Context, receiptID string, userID int64,
	parsed *models.ParsedReceipt, chainGroup string, storeID, imageURL *string, hashID string) error {

	dbTx, err := database.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("error beginning database transaction: %w", err)
	}
	defer dbTx.Rollback()

	_, err = dbTx.ExecContext(ctx,
		`INSERT INTO receipts (id, user_id, merchant_raw, merchant_brand, chain_group, store_id,
			purchase_date, purchase_time, store_address, total, payment_method,
			receipt_unique_no, fis_no, image_url, raw_text, hash_id)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		receiptID, userID, parsed.MerchantRaw, parsed.MerchantBrand, chainGroup, storeID,
		parsed.PurchaseDate, parsed.PurchaseTime, parsed.StoreAddress, parsed.Total.String(),
		parsed.PaymentMethod, parsed.ReceiptUniqueNo, parsed.FisNo, imageURL, parsed.RawText, hashID)
	if err != nil {
		return fmt.Errorf("error inserting receipt: %w", err)
	}

	stmt, err := dbTx.PrepareContext(ctx,
		`INSERT INTO receipt_items (receipt_id, position, name, qty, unit_price, line_total, product_code, raw_line)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("error preparing item insert statement: %w", err)
	}
	defer stmt.Close()

	for position, item := range parsed.Items {
		_, err := stmt.ExecContext(ctx, receiptID, position, item.Name,
			decimalPtrString(item.Qty), decimalPtrString(item.UnitPrice), decimalPtrString(item.LineTotal),
			item.ProductCode, item.RawLine)
		if err != nil {
			return fmt.Errorf("error inserting receipt item %d: %w", position, err)
		}
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("error committing receipt: %w", err)
	}
	return nil
}

func (s *ingestionServiceImpl) GetUserReceipts(ctx context.Context, userID int64) ([]models.Receipt, error) {
	cacheKey := fmt.Sprintf(ckUserReceipts, userID)
	if cached, found := s.receiptCache.Get(cacheKey); found {
		logger.L.Debug("Cache hit for GetUserReceipts", "userID", userID)
		return cached.([]models.Receipt), nil
	}

	rows, err := database.DB.QueryContext(ctx,
		`SELECT id, user_id, merchant_raw, merchant_brand, chain_group, store_id, purchase_date,
			purchase_time, store_address, total, payment_method, receipt_unique_no, fis_no,
			image_url, raw_text, created_at
		 FROM receipts WHERE user_id = ? ORDER BY created_at DESC, id ASC`, userID)
	if err != nil {
		return nil, fmt.Errorf("error querying receipts for userID %d: %w", userID, err)
	}
	defer rows.Close()

	receipts := []models.Receipt{}
	for rows.Next() {
		r, err := scanReceipt(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning receipt row for userID %d: %w", userID, err)
		}
		receipts = append(receipts, *r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating receipt rows for userID %d: %w", userID, err)
	}

	s.receiptCache.Set(cacheKey, receipts, s.cacheTTL)
	return receipts, nil
}

func (s *ingestionServiceImpl) GetReceipt(ctx context.Context, userID int64, receiptID string) (*models.Receipt, error) {
	rows, err := database.DB.QueryContext(ctx,
		`SELECT id, user_id, merchant_raw, merchant_brand, chain_group, store_id, purchase_date,
			purchase_time, store_address, total, payment_method, receipt_unique_no, fis_no,
			image_url, raw_text, created_at
		 FROM receipts WHERE user_id = ? AND id = ?`, userID, receiptID)
	if err != nil {
		return nil, fmt.Errorf("error querying receipt %s: %w", receiptID, err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, err
		}
		return nil, ErrReceiptNotFound
	}
	receipt, err := scanReceipt(rows)
	if err != nil {
		return nil, err
	}
	rows.Close()

	items, err := s.fetchReceiptItems(ctx, receiptID)
	if err != nil {
		return nil, err
	}
	receipt.Items = items
	return receipt, nil
}

func (s *ingestionServiceImpl) fetchReceiptItems(ctx context.Context, receiptID string) ([]models.LineItem, error) {
	rows, err := database.DB.QueryContext(ctx,
		`SELECT name, qty, unit_price, line_total, product_code, raw_line
		 FROM receipt_items WHERE receipt_id = ? ORDER BY position ASC`, receiptID)
	if err != nil {
		return nil, fmt.Errorf("error querying items for receipt %s: %w", receiptID, err)
	}
	defer rows.Close()

	items := []models.LineItem{}
	for rows.Next() {
		var item models.LineItem
		var qty, unitPrice, lineTotal sql.NullString
		if err := rows.Scan(&item.Name, &qty, &unitPrice, &lineTotal, &item.ProductCode, &item.RawLine); err != nil {
			return nil, fmt.Errorf("error scanning item row for receipt %s: %w", receiptID, err)
		}
		item.Qty = parseStoredDecimal(qty)
		item.UnitPrice = parseStoredDecimal(unitPrice)
		item.LineTotal = parseStoredDecimal(lineTotal)
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating item rows for receipt %s: %w", receiptID, err)
	}
	return items, nil
}

func scanReceipt(rows *sql.Rows) (*models.Receipt, error) {
	var r models.Receipt
	err := rows.Scan(&r.ID, &r.UserID, &r.MerchantRaw, &r.MerchantBrand, &r.ChainGroup, &r.StoreID,
		&r.PurchaseDate, &r.PurchaseTime, &r.StoreAddress, &r.Total, &r.PaymentMethod,
		&r.ReceiptUniqueNo, &r.FisNo, &r.ImageURL, &r.RawText, &r.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &r, nil
}
