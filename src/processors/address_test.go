package processors

import "testing"

func TestParseAddressComponents(t *testing.T) {
	tests := []struct {
		name             string
		in               string
		wantCity         string
		wantDistrict     string
		wantNeighborhood string
		wantStreet       string
	}{
		{
			name:             "Full street address",
			in:               "Barbaros Mah. Begonya Sk. No:3/A 34349 İstanbul",
			wantCity:         "İstanbul",
			wantNeighborhood: "Barbaros",
			wantStreet:       "Begonya",
		},
		{
			name:             "Mahallesi and caddesi spelled out",
			in:               "Kızılay Mahallesi Atatürk Caddesi No:12 Ankara",
			wantCity:         "Ankara",
			wantNeighborhood: "Kızılay",
			wantStreet:       "Atatürk",
		},
		{
			name:         "District before slash",
			in:           "Kadıköy / İstanbul",
			wantCity:     "İstanbul",
			wantDistrict: "Kadıköy",
		},
		{
			name:     "City only",
			in:       "MERKEZ İZMİR",
			wantCity: "İzmir",
		},
		{
			name: "No components",
			in:   "şube kodu 042",
		},
		{
			name: "Empty input",
			in:   "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseAddressComponents(tt.in)
			if got.City != tt.wantCity {
				t.Errorf("City = %q, want %q", got.City, tt.wantCity)
			}
			if got.District != tt.wantDistrict {
				t.Errorf("District = %q, want %q", got.District, tt.wantDistrict)
			}
			if got.Neighborhood != tt.wantNeighborhood {
				t.Errorf("Neighborhood = %q, want %q", got.Neighborhood, tt.wantNeighborhood)
			}
			if got.Street != tt.wantStreet {
				t.Errorf("Street = %q, want %q", got.Street, tt.wantStreet)
			}
		})
	}
}
