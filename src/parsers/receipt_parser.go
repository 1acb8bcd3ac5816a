// backend/src/parsers/receipt_parser.go
package parsers

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/canerthemaster123/receipto-tr-rewards-sub001/src/models"
	"github.com/canerthemaster123/receipto-tr-rewards-sub001/src/utils"
)

// DefaultBarcodeTailLines is how many trailing lines are scanned for the
// long receipt barcode. Barcodes are conventionally printed at the bottom;
// scanning only the tail avoids false positives from terminal ids higher up.
const DefaultBarcodeTailLines = 5

const minItemNameRunes = 2

var (
	dateLabeledRe = regexp.MustCompile(`(?i)TAR[İIıi]H\s*[:.]?\s*(\d{2}\.\d{2}\.\d{4})`)
	dateBareRe    = regexp.MustCompile(`\b(\d{2}\.\d{2}\.\d{4})\b`)
	timeLabeledRe = regexp.MustCompile(`(?i)SAAT\s*[:.]?\s*(\d{2}:\d{2}:\d{2})`)
	timeBareRe    = regexp.MustCompile(`\b(\d{2}:\d{2}:\d{2})\b`)

	totalLabeledRe = regexp.MustCompile(`(?i)TOPLAM\s*:?\s*\*?\s*(\d{1,3}(?:\.\d{3})+,\d{2}|\d{1,4}[.,]\d{2})`)

	fisNoRe = regexp.MustCompile(`(?i)F[İIıi][ŞSşs]\s*NO\s*[:.]?\s*(\d+)`)

	maskedPanRe       = regexp.MustCompile(`\d{6}[*Xx•]{4,6}\d{4}`)
	maskedPanGroupsRe = regexp.MustCompile(`\d{4}[ *]{1,2}[*Xx•]{4}[ *]{0,2}[*Xx•]{4}[ *]{0,2}\d{4}`)

	barcodeRe = regexp.MustCompile(`\b\d{18,30}\b`)

	productCodeRe = regexp.MustCompile(`#\s*(\d{6,})`)

	trailingPriceRe = regexp.MustCompile(`[*%]?\s*(\d{1,3}(?:\.\d{3})+,\d{2}|\d{1,4}[.,]\d{2})\s*$`)
	qtyTimesPriceRe = regexp.MustCompile(`(?i)(\d+(?:[.,]\d+)?)\s*(ADET|KG|GR|G|LT|L|ML|CL|PK|PAKET|KUTU)?\s*[xX×]\s*(\d{1,3}(?:\.\d{3})+,\d{2}|\d{1,4}[.,]\d{2})`)

	hasLetterRe = regexp.MustCompile(`\p{L}`)
)

// merchantHeaderMarks is the small header vocabulary used to pick the
// merchant line; brandHeuristics assigns the in-parser brand label. The
// authoritative chain mapping happens downstream, this is only a best guess.
var merchantHeaderMarks = []string{
	"MİGROS", "MIGROS", "A101", "BİM", "ŞOK", "SOK MARKET", "CARREFOUR",
	"MACROCENTER", "TİCARET", "TICARET", "A.Ş", "A.S.", "MARKET", "GIDA", "GİDA",
}

var brandHeuristics = []struct {
	needle string
	brand  string
}{
	{"MİGROS", "Migros"},
	{"MIGROS", "Migros"},
	{"MACROCENTER", "Macrocenter"},
	{"A101", "A101"},
	{"BİM", "BİM"},
	{"BIM BIRLESIK", "BİM"},
	{"ŞOK", "ŞOK"},
	{"SOK MARKET", "ŞOK"},
	{"CARREFOUR", "CarrefourSA"},
}

// Lines matching this vocabulary are promotions or discounts and must never
// surface as items.
var discountMarks = []string{"İNDİRİM", "INDIRIM", "KAMPANYA", "PROMOSYON"}

// Header/footer noise that the item scanner skips outright.
var skipMarks = []string{
	"TOPLAM", "TOPKDV", "KDV", "ARA TOPLAM", "SAAT", "TARİH", "TARIH",
	"FİŞ NO", "FIS NO", "V.D.", "VERGİ DAİRESİ", "VERGI DAIRESI", "MERSİS",
	"MERSIS", "ONAY KODU", "TERMİNAL", "TERMINAL", "BATCH", "EKÜ", "EKU NO",
	"Z NO", "KASİYER", "KASIYER", "TEŞEKKÜR", "TESEKKUR",
	"İYİ GÜNLER", "IYI GUNLER", "KREDİ KARTI", "KREDI KARTI", "NAKİT",
	"NAKIT", "PARA ÜSTÜ", "TUTAR", "TEL:", "WWW.",
}

var addressMarks = []string{
	"MAH.", "MAHALLE", "SK.", "SOK.", "SOKAK", "CAD.", "CD.", "CADDE",
	"BULV", "NO:", "NO :",
}

// ReceiptParser turns raw OCR text into a ParsedReceipt. Every stage is
// independent and tolerant of the others failing; Parse never errors and
// never returns nil.
type ReceiptParser struct {
	barcodeTailLines int
}

func NewReceiptParser() *ReceiptParser {
	return &ReceiptParser{barcodeTailLines: DefaultBarcodeTailLines}
}

// SetBarcodeTailLines overrides the trailing-line window scanned for the
// receipt barcode. Values below 1 are ignored.
func (p *ReceiptParser) SetBarcodeTailLines(n int) {
	if n >= 1 {
		p.barcodeTailLines = n
	}
}

func (p *ReceiptParser) Parse(raw string) *models.ParsedReceipt {
	receipt := &models.ParsedReceipt{
		RawText: raw,
		Total:   decimal.Zero,
		Items:   []models.LineItem{},
	}

	lines := splitLines(raw)
	if len(lines) == 0 {
		return receipt
	}

	receipt.MerchantRaw, receipt.MerchantBrand = extractMerchant(lines)
	receipt.PurchaseDate = firstSubmatch(raw, dateLabeledRe, dateBareRe)
	receipt.PurchaseTime = firstSubmatch(raw, timeLabeledRe, timeBareRe)
	receipt.Total = extractTotal(lines)
	receipt.StoreAddress = extractAddress(lines)
	receipt.PaymentMethod = firstMatch(raw, maskedPanRe, maskedPanGroupsRe)
	receipt.FisNo = firstSubmatch(raw, fisNoRe)
	receipt.ReceiptUniqueNo = p.extractBarcode(lines)
	receipt.Items = extractItems(lines)

	return receipt
}

func splitLines(raw string) []string {
	var lines []string
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(strings.TrimRight(line, "\r"))
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

func containsAnyTR(line string, marks []string) bool {
	upper := utils.UpperTR(line)
	for _, mark := range marks {
		if strings.Contains(upper, mark) {
			return true
		}
	}
	return false
}

func isDiscountLine(line string) bool {
	return containsAnyTR(line, discountMarks)
}

// isSkippedLine covers the receipt header and footer blocks: merchant and
// address lines, fiscal labels, approval/terminal codes.
func isSkippedLine(line string) bool {
	return containsAnyTR(line, skipMarks) ||
		containsAnyTR(line, merchantHeaderMarks) ||
		containsAnyTR(line, addressMarks)
}

func extractMerchant(lines []string) (raw, brand string) {
	raw = lines[0]
	for _, line := range lines {
		if containsAnyTR(line, merchantHeaderMarks) {
			raw = line
			break
		}
	}
	brand = raw
	for _, h := range brandHeuristics {
		if utils.ContainsTR(raw, h.needle) {
			brand = h.brand
			break
		}
	}
	return raw, brand
}

// firstSubmatch returns the first capture group of the first regexp that
// matches, trying them in order. Nil when nothing matches.
func firstSubmatch(text string, res ...*regexp.Regexp) *string {
	for _, re := range res {
		if m := re.FindStringSubmatch(text); m != nil {
			v := m[1]
			return &v
		}
	}
	return nil
}

func firstMatch(text string, res ...*regexp.Regexp) *string {
	for _, re := range res {
		if m := re.FindString(text); m != "" {
			v := m
			return &v
		}
	}
	return nil
}

// extractTotal prefers a labeled TOPLAM amount that does not come from a
// discount-context line. When no label matches it falls back to the largest
// money value anywhere on the receipt: the grand total is typically the
// largest monetary figure printed.
func extractTotal(lines []string) decimal.Decimal {
	for _, line := range lines {
		// ARA TOPLAM is the pre-discount subtotal, not the grand total.
		if isDiscountLine(line) || utils.ContainsTR(line, "ARA TOPLAM") {
			continue
		}
		if m := totalLabeledRe.FindStringSubmatch(line); m != nil {
			if v, ok := NormalizeNumber(FixOCRDigits(m[1])); ok {
				return v
			}
		}
	}

	largest := decimal.Zero
	for _, line := range lines {
		for _, v := range ExtractMoneyValues(line) {
			if v.GreaterThan(largest) {
				largest = v
			}
		}
	}
	return largest
}

func extractAddress(lines []string) *string {
	for _, line := range lines {
		if fisNoRe.MatchString(line) {
			continue
		}
		if containsAnyTR(line, addressMarks) {
			v := line
			return &v
		}
	}
	return nil
}

func (p *ReceiptParser) extractBarcode(lines []string) *string {
	start := len(lines) - p.barcodeTailLines
	if start < 0 {
		start = 0
	}
	for _, line := range lines[start:] {
		if m := barcodeRe.FindString(line); m != "" {
			v := m
			return &v
		}
	}
	return nil
}

// extractItems walks the line sequence with a forward-only cursor. A
// product-code line followed by a named line is consumed as one item (some
// layouts print the barcode and the article on separate lines); otherwise a
// line with letters becomes a single-line item. Everything else is skipped.
func extractItems(lines []string) []models.LineItem {
	items := []models.LineItem{}
	i := 0
	for i < len(lines) {
		line := lines[i]

		if isDiscountLine(line) || isSkippedLine(line) {
			i++
			continue
		}

		if m := productCodeRe.FindStringSubmatch(line); m != nil && i+1 < len(lines) {
			next := lines[i+1]
			if hasLetterRe.MatchString(next) && !isDiscountLine(next) {
				if item, ok := buildItem(next, line+" "+next, m[1]); ok {
					items = append(items, item)
				}
				i += 2
				continue
			}
		}

		if hasLetterRe.MatchString(line) {
			if item, ok := buildItem(line, line, ""); ok {
				items = append(items, item)
			}
		}
		i++
	}
	return items
}

// buildItem strips price and quantity tokens off a line and keeps the rest
// as the item name. Names shorter than two runes are discarded: they are
// leftovers of weight/price lines, not articles.
func buildItem(line, rawLine, productCode string) (models.LineItem, bool) {
	item := models.LineItem{RawLine: rawLine}
	if productCode != "" {
		item.ProductCode = &productCode
	}

	name := line
	if m := qtyTimesPriceRe.FindStringSubmatch(name); m != nil {
		if q, _ := ParseQuantityUnit(m[0]); q != nil {
			item.Qty = q
		}
		if up, ok := NormalizeNumber(FixOCRDigits(m[3])); ok {
			item.UnitPrice = &up
		}
		name = strings.Replace(name, m[0], " ", 1)
	}
	if m := trailingPriceRe.FindStringSubmatch(name); m != nil {
		if v, ok := NormalizeNumber(FixOCRDigits(m[1])); ok {
			item.LineTotal = &v
		}
		name = strings.TrimSuffix(name, m[0])
	}

	name = strings.Trim(name, " \t*%-.,:#")
	if utf8.RuneCountInString(name) < minItemNameRunes {
		return models.LineItem{}, false
	}
	item.Name = name
	return item, true
}
