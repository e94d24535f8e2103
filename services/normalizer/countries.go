package normalizer

import "leavex-backend/lib/textutil"

// countryIsoCodes maps the member states as spelled in the directory
// to ISO 3166-1 alpha-2 codes.
var countryIsoCodes = map[string]string{
	"Austria":        "AT",
	"Belgium":        "BE",
	"Bulgaria":       "BG",
	"Croatia":        "HR",
	"Cyprus":         "CY",
	"Czech Republic": "CZ",
	"Czechia":        "CZ",
	"Denmark":        "DK",
	"Estonia":        "EE",
	"Finland":        "FI",
	"France":         "FR",
	"Germany":        "DE",
	"Greece":         "GR",
	"Hungary":        "HU",
	"Ireland":        "IE",
	"Italy":          "IT",
	"Latvia":         "LV",
	"Lithuania":      "LT",
	"Luxembourg":     "LU",
	"Malta":          "MT",
	"Netherlands":    "NL",
	"Poland":         "PL",
	"Portugal":       "PT",
	"Romania":        "RO",
	"Slovakia":       "SK",
	"Slovenia":       "SI",
	"Spain":          "ES",
	"Sweden":         "SE",
}

// countryIsoIndex keys the table by normalized name so lookups
// tolerate case and spacing drift in the scraped value.
var countryIsoIndex = func() map[string]string {
	index := make(map[string]string, len(countryIsoCodes))
	for name, code := range countryIsoCodes {
		index[textutil.NormalizeKey(name)] = code
	}
	return index
}()

func lookupCountryIso(country string) string {
	return countryIsoIndex[textutil.NormalizeKey(country)]
}
