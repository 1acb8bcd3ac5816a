package parsers

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/canerthemaster123/receipto-tr-rewards-sub001/src/utils"
)

const migrosSample = `MİGROS TİCARET A.Ş.
Barbaros Mah. Begonya Sk. No:3/A 34349 İstanbul
TARİH: 08.01.2025
SAAT: 14:23:45
FİŞ NO: 0078
#60020857386623299
SERFRESH SADE ŞALGAM *12,75
ŞALGAM İNDİRİMİ -2,00
2,500 KG x 89,90
*224,75
KAMPANYA İNDİRİMİ -6,75
TOPLAM *228,75
KREDİ KARTI *228,75
540667******1234
ONAY KODU: 046287
2025010814234560020857001`

func strVal(t *testing.T, field string, got *string) string {
	t.Helper()
	if got == nil {
		t.Fatalf("%s = nil, want a value", field)
	}
	return *got
}

func TestParseMigrosSample(t *testing.T) {
	parser := NewReceiptParser()
	receipt := parser.Parse(migrosSample)

	if receipt.MerchantRaw != "MİGROS TİCARET A.Ş." {
		t.Errorf("MerchantRaw = %q", receipt.MerchantRaw)
	}
	if receipt.MerchantBrand != "Migros" {
		t.Errorf("MerchantBrand = %q, want Migros", receipt.MerchantBrand)
	}
	if got := strVal(t, "PurchaseDate", receipt.PurchaseDate); got != "08.01.2025" {
		t.Errorf("PurchaseDate = %q", got)
	}
	if got := strVal(t, "PurchaseTime", receipt.PurchaseTime); got != "14:23:45" {
		t.Errorf("PurchaseTime = %q", got)
	}
	if got := strVal(t, "FisNo", receipt.FisNo); got != "0078" {
		t.Errorf("FisNo = %q", got)
	}
	if !receipt.Total.Equal(decimal.RequireFromString("228.75")) {
		t.Errorf("Total = %s, want 228.75", receipt.Total)
	}
	if got := strVal(t, "ReceiptUniqueNo", receipt.ReceiptUniqueNo); got != "2025010814234560020857001" {
		t.Errorf("ReceiptUniqueNo = %q", got)
	}
	if got := strVal(t, "PaymentMethod", receipt.PaymentMethod); got != "540667******1234" {
		t.Errorf("PaymentMethod = %q", got)
	}
	if got := strVal(t, "StoreAddress", receipt.StoreAddress); got != "Barbaros Mah. Begonya Sk. No:3/A 34349 İstanbul" {
		t.Errorf("StoreAddress = %q", got)
	}

	if len(receipt.Items) != 1 {
		t.Fatalf("len(Items) = %d, want 1: %+v", len(receipt.Items), receipt.Items)
	}
	item := receipt.Items[0]
	if item.Name != "SERFRESH SADE ŞALGAM" {
		t.Errorf("item name = %q", item.Name)
	}
	if got := strVal(t, "ProductCode", item.ProductCode); got != "60020857386623299" {
		t.Errorf("ProductCode = %q", got)
	}
	if item.LineTotal == nil || !item.LineTotal.Equal(decimal.RequireFromString("12.75")) {
		t.Errorf("LineTotal = %v, want 12.75", item.LineTotal)
	}
}

// No extracted item may come from a discount or promotion line.
func TestParseExcludesDiscountLines(t *testing.T) {
	parser := NewReceiptParser()
	receipt := parser.Parse(migrosSample)

	for _, item := range receipt.Items {
		for _, mark := range []string{"İNDİRİM", "KAMPANYA", "PROMOSYON"} {
			if utils.ContainsTR(item.Name, mark) || utils.ContainsTR(item.RawLine, mark) {
				t.Errorf("discount line surfaced as item: %+v", item)
			}
		}
	}
}

func TestParseBlankInput(t *testing.T) {
	parser := NewReceiptParser()
	receipt := parser.Parse("")

	if receipt == nil {
		t.Fatal("Parse returned nil")
	}
	if !receipt.Total.Equal(decimal.Zero) {
		t.Errorf("Total = %s, want 0", receipt.Total)
	}
	if len(receipt.Items) != 0 {
		t.Errorf("Items = %+v, want empty", receipt.Items)
	}
	if receipt.Items == nil {
		t.Error("Items must be an empty slice, not nil")
	}
	if receipt.PurchaseDate != nil || receipt.PurchaseTime != nil ||
		receipt.StoreAddress != nil || receipt.PaymentMethod != nil ||
		receipt.ReceiptUniqueNo != nil || receipt.FisNo != nil {
		t.Error("nullable fields must stay nil for blank input")
	}
}

// Parsing the same text twice must yield byte-identical results.
func TestParseDeterminism(t *testing.T) {
	parser := NewReceiptParser()

	first, err := json.Marshal(parser.Parse(migrosSample))
	if err != nil {
		t.Fatal(err)
	}
	second, err := json.Marshal(parser.Parse(migrosSample))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(first, second) {
		t.Errorf("parse is not deterministic:\n%s\n%s", first, second)
	}
}

func TestParseTotalFallbackToLargestAmount(t *testing.T) {
	parser := NewReceiptParser()
	receipt := parser.Parse("EKMEK *8,50\nSÜT *42,00\nPEYNİR *115,25")

	if !receipt.Total.Equal(decimal.RequireFromString("115.25")) {
		t.Errorf("Total = %s, want largest amount 115.25", receipt.Total)
	}
}

func TestParseMaskedPanForms(t *testing.T) {
	tests := []struct {
		name string
		line string
		want string
	}{
		{name: "Six digits plus mask plus four", line: "540667******1234", want: "540667******1234"},
		{name: "Grouped four-mask-mask-four", line: "5406 **** **** 1234", want: "5406 **** **** 1234"},
		{name: "X mask characters", line: "540667XXXX1234", want: "540667XXXX1234"},
		{name: "Cash payment has no PAN", line: "NAKİT *228,75", want: ""},
	}

	parser := NewReceiptParser()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			receipt := parser.Parse("MİGROS TİCARET A.Ş.\n" + tt.line)
			if tt.want == "" {
				if receipt.PaymentMethod != nil {
					t.Errorf("PaymentMethod = %q, want nil", *receipt.PaymentMethod)
				}
				return
			}
			if got := strVal(t, "PaymentMethod", receipt.PaymentMethod); got != tt.want {
				t.Errorf("PaymentMethod = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseWeightedItemLine(t *testing.T) {
	parser := NewReceiptParser()
	receipt := parser.Parse("MİGROS TİCARET A.Ş.\nDOMATES 2,500 KG x 89,90 *224,75")

	if len(receipt.Items) != 1 {
		t.Fatalf("len(Items) = %d, want 1: %+v", len(receipt.Items), receipt.Items)
	}
	item := receipt.Items[0]
	if item.Name != "DOMATES" {
		t.Errorf("item name = %q, want DOMATES", item.Name)
	}
	if item.Qty == nil || !item.Qty.Equal(decimal.RequireFromString("2.5")) {
		t.Errorf("Qty = %v, want 2.5", item.Qty)
	}
	if item.UnitPrice == nil || !item.UnitPrice.Equal(decimal.RequireFromString("89.90")) {
		t.Errorf("UnitPrice = %v, want 89.90", item.UnitPrice)
	}
	if item.LineTotal == nil || !item.LineTotal.Equal(decimal.RequireFromString("224.75")) {
		t.Errorf("LineTotal = %v, want 224.75", item.LineTotal)
	}
}

func TestBarcodeTailWindow(t *testing.T) {
	text := `MİGROS TİCARET A.Ş.
EKMEK *8,50
202501081423456002085700112345
TEŞEKKÜR EDERİZ
İYİ GÜNLER DİLERİZ`

	parser := NewReceiptParser()
	receipt := parser.Parse(text)
	if receipt.ReceiptUniqueNo == nil {
		t.Fatal("barcode inside the default tail window was not found")
	}

	parser.SetBarcodeTailLines(2)
	receipt = parser.Parse(text)
	if receipt.ReceiptUniqueNo != nil {
		t.Errorf("barcode outside a 2-line tail window was found: %q", *receipt.ReceiptUniqueNo)
	}
}
