package utils

import "testing"

func TestTurkishCasing(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		upper string
		lower string
	}{
		{name: "Dotted i", in: "migros", upper: "MİGROS", lower: "migros"},
		{name: "Dotless I", in: "KIZILAY", upper: "KIZILAY", lower: "kızılay"},
		{name: "Mixed", in: "İstanbul", upper: "İSTANBUL", lower: "istanbul"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UpperTR(tt.in); got != tt.upper {
				t.Errorf("UpperTR(%q) = %q, want %q", tt.in, got, tt.upper)
			}
			if got := LowerTR(tt.in); got != tt.lower {
				t.Errorf("LowerTR(%q) = %q, want %q", tt.in, got, tt.lower)
			}
		})
	}
}

func TestContainsTR(t *testing.T) {
	tests := []struct {
		name   string
		s      string
		substr string
		want   bool
	}{
		{name: "Lowercase dotted i matches uppercase", s: "migros ticaret", substr: "MİGROS", want: true},
		{name: "Title case city", s: "barbaros mah. istanbul", substr: "İstanbul", want: true},
		{name: "No occurrence", s: "rastgele bakkal", substr: "MİGROS", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ContainsTR(tt.s, tt.substr); got != tt.want {
				t.Errorf("ContainsTR(%q, %q) = %v, want %v", tt.s, tt.substr, got, tt.want)
			}
		})
	}
}
