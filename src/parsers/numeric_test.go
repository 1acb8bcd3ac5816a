package parsers

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func TestFixOCRDigits(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "Confused digits in amount",
			in:   "1O,5O",
			want: "10,50",
		},
		{
			name: "Lowercase l as one",
			in:   "l2,75 TL",
			want: "12,75 TL",
		},
		{
			name: "S and B next to digits",
			in:   "S8,B0",
			want: "58,80",
		},
		{
			name: "Plain word untouched",
			in:   "SERFRESH SADE",
			want: "SERFRESH SADE",
		},
		{
			name: "Word without numeric context untouched",
			in:   "TOPLAM",
			want: "TOPLAM",
		},
		{
			name: "Currency mark counts as numeric context",
			in:   "₺lO",
			want: "₺10",
		},
		{
			name: "Standalone TL counts as numeric context",
			in:   "SO TL",
			want: "50 TL",
		},
		{
			name: "Word containing TL bigram untouched",
			in:   "ATLAS",
			want: "ATLAS",
		},
		{
			name: "Phrase containing TL bigram untouched",
			in:   "KATLI OTOPARK",
			want: "KATLI OTOPARK",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FixOCRDigits(tt.in); got != tt.want {
				t.Errorf("FixOCRDigits(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalizeNumber(t *testing.T) {
	tests := []struct {
		name   string
		in     string
		want   string
		wantOK bool
	}{
		{
			name:   "Comma decimal",
			in:     "228,75",
			want:   "228.75",
			wantOK: true,
		},
		{
			name:   "Thousands with comma decimal",
			in:     "1.228,75",
			want:   "1228.75",
			wantOK: true,
		},
		{
			name:   "Currency symbol stripped",
			in:     "₺10,50",
			want:   "10.5",
			wantOK: true,
		},
		{
			name:   "TL suffix stripped",
			in:     "228,75 TL",
			want:   "228.75",
			wantOK: true,
		},
		{
			name:   "Price star stripped",
			in:     "*224,75",
			want:   "224.75",
			wantOK: true,
		},
		{
			name:   "Dot decimal via generic fallback",
			in:     "12.75",
			want:   "12.75",
			wantOK: true,
		},
		{
			name:   "Weight quantity with three decimals",
			in:     "2,500",
			want:   "2.5",
			wantOK: true,
		},
		{
			name:   "Not a number",
			in:     "abc",
			wantOK: false,
		},
		{
			name:   "Empty after stripping",
			in:     "₺ *",
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := NormalizeNumber(tt.in)
			if ok != tt.wantOK {
				t.Fatalf("NormalizeNumber(%q) ok = %v, want %v", tt.in, ok, tt.wantOK)
			}
			if !tt.wantOK {
				return
			}
			want := decimal.RequireFromString(tt.want)
			if !got.Equal(want) {
				t.Errorf("NormalizeNumber(%q) = %s, want %s", tt.in, got, want)
			}
		})
	}
}

// Formatting an amount as a Turkish comma-decimal string and normalizing it
// back must reproduce the amount exactly.
func TestNormalizeNumberRoundTrip(t *testing.T) {
	amounts := []string{"0.05", "1.99", "12.75", "228.75", "1234.56", "99999.99"}

	for _, a := range amounts {
		d := decimal.RequireFromString(a)
		turkish := strings.Replace(d.StringFixed(2), ".", ",", 1)
		got, ok := NormalizeNumber(turkish)
		if !ok {
			t.Fatalf("NormalizeNumber(%q) failed", turkish)
		}
		if !got.Equal(d) {
			t.Errorf("round trip of %s via %q = %s", d, turkish, got)
		}
	}
}
