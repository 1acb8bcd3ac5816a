// backend/src/processors/address.go
package processors

import (
	"regexp"
	"strings"

	"github.com/canerthemaster123/receipto-tr-rewards-sub001/src/models"
	"github.com/canerthemaster123/receipto-tr-rewards-sub001/src/utils"
)

// The 81 Turkish provinces, canonical display casing. Containment scan over
// the lowered address picks the first hit.
var provinces = []string{
	"Adana", "Adıyaman", "Afyonkarahisar", "Ağrı", "Amasya", "Ankara",
	"Antalya", "Artvin", "Aydın", "Balıkesir", "Bilecik", "Bingöl", "Bitlis",
	"Bolu", "Burdur", "Bursa", "Çanakkale", "Çankırı", "Çorum", "Denizli",
	"Diyarbakır", "Edirne", "Elazığ", "Erzincan", "Erzurum", "Eskişehir",
	"Gaziantep", "Giresun", "Gümüşhane", "Hakkari", "Hatay", "Isparta",
	"Mersin", "İstanbul", "İzmir", "Kars", "Kastamonu", "Kayseri",
	"Kırklareli", "Kırşehir", "Kocaeli", "Konya", "Kütahya", "Malatya",
	"Manisa", "Kahramanmaraş", "Mardin", "Muğla", "Muş", "Nevşehir", "Niğde",
	"Ordu", "Rize", "Sakarya", "Samsun", "Siirt", "Sinop", "Sivas",
	"Tekirdağ", "Tokat", "Trabzon", "Tunceli", "Şanlıurfa", "Uşak", "Van",
	"Yozgat", "Zonguldak", "Aksaray", "Bayburt", "Karaman", "Kırıkkale",
	"Batman", "Şırnak", "Bartın", "Ardahan", "Iğdır", "Yalova", "Karabük",
	"Kilis", "Osmaniye", "Düzce",
}

var (
	neighborhoodRe = regexp.MustCompile(`([\p{L}]+(?:\s+[\p{L}]+)*)\s+(?:mah\.|mahalle(?:si)?)`)
	streetRe       = regexp.MustCompile(`([\p{L}]+(?:\s+[\p{L}]+)*)\s+(?:cad\.|cd\.|caddesi?|sok\.|sk\.|sokak|sokağı)`)
	districtRe     = regexp.MustCompile(`([\p{L}]+(?:\s+[\p{L}]+)*)\s+ilçe`)
	districtSepRe  = regexp.MustCompile(`([\p{L}]{3,})\s*/`)
)

// ParseAddressComponents splits a raw receipt address into city, district,
// neighborhood and street. Each component is extracted independently and may
// stay empty; nothing here touches external state.
func ParseAddressComponents(raw string) models.AddressComponents {
	comps := models.AddressComponents{}
	lower := utils.LowerTR(raw)
	if strings.TrimSpace(lower) == "" {
		return comps
	}

	for _, city := range provinces {
		if strings.Contains(lower, utils.LowerTR(city)) {
			comps.City = city
			break
		}
	}

	// The street is searched after the neighborhood token, otherwise its
	// word-span group would swallow "<neighborhood> mahallesi" too.
	rest := lower
	if m := neighborhoodRe.FindStringSubmatchIndex(lower); m != nil {
		comps.Neighborhood = utils.TitleTR(lower[m[2]:m[3]])
		rest = lower[m[1]:]
	}
	if m := streetRe.FindStringSubmatch(rest); m != nil {
		comps.Street = utils.TitleTR(m[1])
	}
	if m := districtRe.FindStringSubmatch(lower); m != nil {
		comps.District = utils.TitleTR(m[1])
	} else if m := districtSepRe.FindStringSubmatch(lower); m != nil {
		comps.District = utils.TitleTR(m[1])
	}

	return comps
}
