package services

import (
	"sort"
	"strings"
)

// knownCities maps recognized city names (lowercase) to their country.
// The list is deliberately small; it backs name-quality scoring and the
// major-city day bonus, not geocoding.
var knownCities = map[string]string{
	"paris":          "France",
	"lyon":           "France",
	"marseille":      "France",
	"london":         "United Kingdom",
	"edinburgh":      "United Kingdom",
	"berlin":         "Germany",
	"munich":         "Germany",
	"hamburg":        "Germany",
	"madrid":         "Spain",
	"barcelona":      "Spain",
	"seville":        "Spain",
	"rome":           "Italy",
	"florence":       "Italy",
	"venice":         "Italy",
	"milan":          "Italy",
	"amsterdam":      "Netherlands",
	"brussels":       "Belgium",
	"vienna":         "Austria",
	"prague":         "Czechia",
	"budapest":       "Hungary",
	"lisbon":         "Portugal",
	"porto":          "Portugal",
	"athens":         "Greece",
	"dublin":         "Ireland",
	"copenhagen":     "Denmark",
	"stockholm":      "Sweden",
	"oslo":           "Norway",
	"helsinki":       "Finland",
	"warsaw":         "Poland",
	"krakow":         "Poland",
	"zurich":         "Switzerland",
	"geneva":         "Switzerland",
	"new york":       "United States",
	"san francisco":  "United States",
	"los angeles":    "United States",
	"chicago":        "United States",
	"boston":         "United States",
	"toronto":        "Canada",
	"vancouver":      "Canada",
	"mexico city":    "Mexico",
	"rio de janeiro": "Brazil",
	"sao paulo":      "Brazil",
	"buenos aires":   "Argentina",
	"santiago":       "Chile",
	"lima":           "Peru",
	"tokyo":          "Japan",
	"kyoto":          "Japan",
	"osaka":          "Japan",
	"seoul":          "South Korea",
	"beijing":        "China",
	"shanghai":       "China",
	"hong kong":      "China",
	"singapore":      "Singapore",
	"bangkok":        "Thailand",
	"hanoi":          "Vietnam",
	"delhi":          "India",
	"mumbai":         "India",
	"istanbul":       "Turkey",
	"cairo":          "Egypt",
	"marrakech":      "Morocco",
	"cape town":      "South Africa",
	"sydney":         "Australia",
	"melbourne":      "Australia",
	"auckland":       "New Zealand",
	"moscow":         "Russia",
	"dubai":          "United Arab Emirates",
}

// countryKeywords maps country tokens seen in free-text addresses to a
// canonical country label.
var countryKeywords = map[string]string{
	"france":         "France",
	"germany":        "Germany",
	"deutschland":    "Germany",
	"spain":          "Spain",
	"españa":         "Spain",
	"italy":          "Italy",
	"italia":         "Italy",
	"uk":             "United Kingdom",
	"united kingdom": "United Kingdom",
	"england":        "United Kingdom",
	"netherlands":    "Netherlands",
	"belgium":        "Belgium",
	"austria":        "Austria",
	"czechia":        "Czechia",
	"czech republic": "Czechia",
	"hungary":        "Hungary",
	"portugal":       "Portugal",
	"greece":         "Greece",
	"ireland":        "Ireland",
	"denmark":        "Denmark",
	"sweden":         "Sweden",
	"norway":         "Norway",
	"finland":        "Finland",
	"poland":         "Poland",
	"switzerland":    "Switzerland",
	"usa":            "United States",
	"united states":  "United States",
	"canada":         "Canada",
	"mexico":         "Mexico",
	"brazil":         "Brazil",
	"argentina":      "Argentina",
	"chile":          "Chile",
	"peru":           "Peru",
	"japan":          "Japan",
	"south korea":    "South Korea",
	"china":          "China",
	"singapore":      "Singapore",
	"thailand":       "Thailand",
	"vietnam":        "Vietnam",
	"india":          "India",
	"turkey":         "Turkey",
	"egypt":          "Egypt",
	"morocco":        "Morocco",
	"south africa":   "South Africa",
	"australia":      "Australia",
	"new zealand":    "New Zealand",
	"russia":         "Russia",
}

// knownCityList is knownCities in sorted key order for deterministic
// keyword scans.
var knownCityList = func() []string {
	keys := make([]string, 0, len(knownCities))
	for k := range knownCities {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}()

// titleCase capitalizes each space-separated word.
func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// IsKnownCity reports whether the name matches a recognized city and
// returns its country when it does.
func IsKnownCity(name string) (string, bool) {
	country, ok := knownCities[strings.ToLower(strings.TrimSpace(name))]
	return country, ok
}

// IsMajorCity reports whether a cluster name earns the day-allocation
// bonus for well-known destinations.
func IsMajorCity(name string) bool {
	_, ok := IsKnownCity(name)
	return ok
}

// countryKeywordList is countryKeywords in sorted key order, so address
// scanning stays deterministic when several keywords match.
var countryKeywordList = func() []string {
	keys := make([]string, 0, len(countryKeywords))
	for k := range countryKeywords {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}()

// countryFromAddress scans a free-text address for a country keyword.
func countryFromAddress(address string) (string, bool) {
	lower := strings.ToLower(address)
	for _, kw := range countryKeywordList {
		if strings.Contains(lower, kw) {
			return countryKeywords[kw], true
		}
	}
	return "", false
}

// latitudeBandCountryHint gives a continent-scale guess when nothing
// better is available. Coarse on purpose.
func latitudeBandCountryHint(lat float64) string {
	switch {
	case lat > 35 && lat < 72:
		return "Europe"
	case lat > 15 && lat <= 35:
		return "Asia"
	case lat >= -15 && lat <= 15:
		return "Equatorial"
	case lat < -15:
		return "Southern Hemisphere"
	default:
		return "Unknown"
	}
}
