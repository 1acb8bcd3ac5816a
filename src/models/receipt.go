package models

import "github.com/shopspring/decimal"

// ParsedReceipt is the structured result of running the field parser over the
// raw text recognized from a receipt photo. Every field is best-effort: a
// value the parser could not find stays nil (or zero for Total) instead of
// failing the parse. Parsing is a pure function of RawText.
type ParsedReceipt struct {
	MerchantRaw     string          `json:"merchant_raw"`
	MerchantBrand   string          `json:"merchant_brand"`
	PurchaseDate    *string         `json:"purchase_date"`    // DD.MM.YYYY, as printed
	PurchaseTime    *string         `json:"purchase_time"`    // HH:MM:SS, as printed
	StoreAddress    *string         `json:"store_address"`
	Total           decimal.Decimal `json:"total"`
	Items           []LineItem      `json:"items"`
	PaymentMethod   *string         `json:"payment_method"`    // masked PAN as printed
	ReceiptUniqueNo *string         `json:"receipt_unique_no"` // long trailing barcode digits
	FisNo           *string         `json:"fis_no"`
	RawText         string          `json:"raw_text"`
}

// LineItem is one purchased article extracted from the receipt body.
// RawLine keeps the consumed source line(s) verbatim for audit.
type LineItem struct {
	Name        string           `json:"name"`
	Qty         *decimal.Decimal `json:"qty"`
	UnitPrice   *decimal.Decimal `json:"unit_price"`
	LineTotal   *decimal.Decimal `json:"line_total"`
	ProductCode *string          `json:"product_code"`
	RawLine     string           `json:"raw_line"`
}

// Receipt is the persisted, enriched form of a parsed receipt: the parser
// output plus the resolved chain group and store identity for a given user.
type Receipt struct {
	ID              string     `json:"id"`
	UserID          int64      `json:"user_id"`
	MerchantRaw     string     `json:"merchant_raw"`
	MerchantBrand   string     `json:"merchant_brand"`
	ChainGroup      string     `json:"chain_group"`
	StoreID         *string    `json:"store_id"`
	PurchaseDate    *string    `json:"purchase_date"`
	PurchaseTime    *string    `json:"purchase_time"`
	StoreAddress    *string    `json:"store_address"`
	Total           string     `json:"total"`
	PaymentMethod   *string    `json:"payment_method"`
	ReceiptUniqueNo *string    `json:"receipt_unique_no"`
	FisNo           *string    `json:"fis_no"`
	ImageURL        *string    `json:"image_url"`
	RawText         string     `json:"raw_text"`
	CreatedAt       string     `json:"created_at"`
	Items           []LineItem `json:"items,omitempty"`
}
