package parsers

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestIsMoney(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want bool
	}{
		{name: "Amount before symbol", in: "12,75 TL", want: true},
		{name: "Symbol before amount", in: "TL 12,75", want: true},
		{name: "Lira sign", in: "₺12,75", want: true},
		{name: "Starred amount", in: "*228,75", want: true},
		{name: "Bare amount", in: "TUTAR: 45,90", want: true},
		{name: "Plain word", in: "TOPLAM", want: false},
		{name: "Clock is not money", in: "14:23:45", want: false},
		{name: "Empty", in: "", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsMoney(tt.in); got != tt.want {
				t.Errorf("IsMoney(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestExtractMoneyValues(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{
			name: "Two amounts on one line",
			in:   "KDV 19,06 TOPLAM 228,75",
			want: []string{"19.06", "228.75"},
		},
		{
			name: "Grouped amount stays whole",
			in:   "TOPLAM 1.228,75",
			want: []string{"1228.75"},
		},
		{
			name: "OCR-confused token is not money-shaped",
			in:   "TUTAR 1O,5O",
			want: nil,
		},
		{
			name: "No money",
			in:   "SERFRESH SADE ŞALGAM",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractMoneyValues(tt.in)
			if len(got) != len(tt.want) {
				t.Fatalf("ExtractMoneyValues(%q) = %v, want %v", tt.in, got, tt.want)
			}
			for i, w := range tt.want {
				if !got[i].Equal(decimal.RequireFromString(w)) {
					t.Errorf("value %d = %s, want %s", i, got[i], w)
				}
			}
		})
	}
}

func TestParseQuantityUnit(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		wantQty  string
		wantUnit string
	}{
		{name: "Weight in kilograms", in: "2,500 KG x 89,90", wantQty: "2.5", wantUnit: "kg"},
		{name: "Piece count", in: "3 ADET", wantQty: "3", wantUnit: "adet"},
		{name: "Bare quantity", in: "2 x 12,75", wantQty: "2", wantUnit: ""},
		{name: "No leading number", in: "SERFRESH SADE ŞALGAM", wantQty: "", wantUnit: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			qty, unit := ParseQuantityUnit(tt.in)
			if tt.wantQty == "" {
				if qty != nil {
					t.Fatalf("ParseQuantityUnit(%q) qty = %s, want nil", tt.in, qty)
				}
			} else {
				if qty == nil {
					t.Fatalf("ParseQuantityUnit(%q) qty = nil, want %s", tt.in, tt.wantQty)
				}
				if !qty.Equal(decimal.RequireFromString(tt.wantQty)) {
					t.Errorf("qty = %s, want %s", qty, tt.wantQty)
				}
			}
			if unit != tt.wantUnit {
				t.Errorf("unit = %q, want %q", unit, tt.wantUnit)
			}
		})
	}
}
