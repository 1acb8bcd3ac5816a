package services

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/canerthemaster123/receipto-tr-rewards-sub001/src/database"
	"github.com/canerthemaster123/receipto-tr-rewards-sub001/src/logger"
	"github.com/canerthemaster123/receipto-tr-rewards-sub001/src/models"
	"github.com/canerthemaster123/receipto-tr-rewards-sub001/src/parsers"
	"github.com/canerthemaster123/receipto-tr-rewards-sub001/src/processors"
)

const sampleReceiptText = `MİGROS TİCARET A.Ş.
Barbaros Mah. Begonya Sk. No:3/A 34349 İstanbul
TARİH: 08.01.2025
SAAT: 14:23:45
FİŞ NO: 0078
SERFRESH SADE ŞALGAM *12,75
TOPLAM *12,75
2025010814234560020857001`

type unreachableMappingStore struct{}

func (unreachableMappingStore) ListActive(ctx context.Context) ([]models.ChainMapping, error) {
	return nil, errors.New("connection refused")
}

type unreachableStoreLocationStore struct{}

func (unreachableStoreLocationStore) FindByChainAndComponents(ctx context.Context, chainGroup string, comps models.AddressComponents) (*models.StoreLocation, error) {
	return nil, errors.New("connection refused")
}

func (unreachableStoreLocationStore) FirstByChain(ctx context.Context, chainGroup string) (*models.StoreLocation, error) {
	return nil, errors.New("connection refused")
}

func (unreachableStoreLocationStore) FindByResolutionKey(ctx context.Context, chainGroup, city, district, neighborhood string) (*models.StoreLocation, error) {
	return nil, errors.New("connection refused")
}

func (unreachableStoreLocationStore) Insert(ctx context.Context, loc *models.StoreLocation) error {
	return errors.New("connection refused")
}

func newTestService(t *testing.T, mappings processors.ChainMappingStore, stores processors.StoreLocationStore) IngestionService {
	t.Helper()
	logger.InitLogger("error")
	database.InitDB(filepath.Join(t.TempDir(), "test.db"))

	return NewIngestionService(
		parsers.NewReceiptParser(),
		processors.NewMerchantNormalizer(mappings, nil),
		processors.NewStoreResolver(stores),
		cache.New(time.Minute, time.Minute),
		time.Minute,
	)
}

// When the reference stores are unreachable the ingestion must not fail: the
// chain group falls back to the raw merchant string and the store id stays
// null, but the receipt itself is persisted.
func TestProcessReceiptDegradesWithoutReferenceData(t *testing.T) {
	svc := newTestService(t, unreachableMappingStore{}, unreachableStoreLocationStore{})
	ctx := context.Background()

	result, err := svc.ProcessReceipt(ctx, 1, sampleReceiptText, nil)
	if err != nil {
		t.Fatalf("ProcessReceipt failed: %v", err)
	}
	if result.ChainGroup != "MİGROS TİCARET A.Ş." {
		t.Errorf("ChainGroup = %q, want the raw merchant string", result.ChainGroup)
	}
	if result.StoreID != nil {
		t.Errorf("StoreID = %q, want nil", *result.StoreID)
	}
	if result.ReceiptID == "" {
		t.Error("ReceiptID is empty")
	}

	receipts, err := svc.GetUserReceipts(ctx, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(receipts) != 1 {
		t.Fatalf("len(receipts) = %d, want 1", len(receipts))
	}
	if receipts[0].ID != result.ReceiptID {
		t.Errorf("persisted receipt id = %q, want %q", receipts[0].ID, result.ReceiptID)
	}
}

func TestProcessReceiptRejectsDuplicates(t *testing.T) {
	svc := newTestService(t, unreachableMappingStore{}, unreachableStoreLocationStore{})
	ctx := context.Background()

	if _, err := svc.ProcessReceipt(ctx, 1, sampleReceiptText, nil); err != nil {
		t.Fatalf("first ProcessReceipt failed: %v", err)
	}
	if _, err := svc.ProcessReceipt(ctx, 1, sampleReceiptText, nil); !errors.Is(err, ErrDuplicateReceipt) {
		t.Fatalf("second ProcessReceipt error = %v, want ErrDuplicateReceipt", err)
	}

	// A different user submitting the same paper is not a duplicate.
	if _, err := svc.ProcessReceipt(ctx, 2, sampleReceiptText, nil); err != nil {
		t.Fatalf("other user's ProcessReceipt failed: %v", err)
	}
}

func TestGetReceiptWithItems(t *testing.T) {
	svc := newTestService(t, unreachableMappingStore{}, unreachableStoreLocationStore{})
	ctx := context.Background()

	result, err := svc.ProcessReceipt(ctx, 1, sampleReceiptText, nil)
	if err != nil {
		t.Fatal(err)
	}

	receipt, err := svc.GetReceipt(ctx, 1, result.ReceiptID)
	if err != nil {
		t.Fatal(err)
	}
	if len(receipt.Items) != 1 {
		t.Fatalf("len(Items) = %d, want 1", len(receipt.Items))
	}
	if receipt.Items[0].Name != "SERFRESH SADE ŞALGAM" {
		t.Errorf("item name = %q", receipt.Items[0].Name)
	}

	if _, err := svc.GetReceipt(ctx, 1, "no-such-id"); !errors.Is(err, ErrReceiptNotFound) {
		t.Errorf("missing receipt error = %v, want ErrReceiptNotFound", err)
	}
	if _, err := svc.GetReceipt(ctx, 2, result.ReceiptID); !errors.Is(err, ErrReceiptNotFound) {
		t.Errorf("other user's receipt error = %v, want ErrReceiptNotFound", err)
	}
}
