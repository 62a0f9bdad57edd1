package registry

import (
	"fmt"
	"strings"
)

// Region buckets used for venue classification. A venue whose countries span
// more than one bucket is classified Global.
const (
	RegionIsrael       = "Israel"
	RegionEurope       = "Europe"
	RegionNorthAmerica = "North America"
	RegionSouthAmerica = "South America"
	RegionAsia         = "Asia"
	RegionMiddleEast   = "Middle East"
	RegionOceania      = "Oceania"
	RegionAfrica       = "Africa"
	RegionGlobal       = "Global"
	RegionOther        = "Other"
)

var regionBuckets = map[string][]string{
	RegionEurope: {
		"GB", "DE", "FR", "IT", "ES", "NL", "LU", "MT", "CH", "AT", "BE",
		"SE", "NO", "DK", "FI", "IE", "PT", "PL", "CZ", "SI", "EE", "LT", "LV", "CY",
	},
	RegionNorthAmerica: {"US", "CA", "MX"},
	RegionSouthAmerica: {"BR", "AR", "CL", "CO", "PE", "UY"},
	RegionAsia: {
		"JP", "KR", "SG", "HK", "CN", "TW", "TH", "MY", "ID", "PH", "VN", "IN", "KZ",
	},
	RegionMiddleEast: {"AE", "SA", "BH", "QA", "TR", "JO"},
	RegionOceania:    {"AU", "NZ"},
	RegionAfrica:     {"ZA", "NG", "KE", "EG", "SC", "MU"},
}

var countryNames = map[string]string{
	"US": "United States", "CA": "Canada", "MX": "Mexico",
	"GB": "United Kingdom", "DE": "Germany", "FR": "France", "IT": "Italy",
	"ES": "Spain", "NL": "Netherlands", "LU": "Luxembourg", "MT": "Malta",
	"CH": "Switzerland", "AT": "Austria", "BE": "Belgium", "SE": "Sweden",
	"NO": "Norway", "DK": "Denmark", "FI": "Finland", "IE": "Ireland",
	"PT": "Portugal", "PL": "Poland", "CZ": "Czechia", "SI": "Slovenia",
	"EE": "Estonia", "LT": "Lithuania", "LV": "Latvia", "CY": "Cyprus",
	"JP": "Japan", "KR": "South Korea", "SG": "Singapore", "HK": "Hong Kong",
	"CN": "China", "TW": "Taiwan", "TH": "Thailand", "MY": "Malaysia",
	"ID": "Indonesia", "PH": "Philippines", "VN": "Vietnam", "IN": "India",
	"KZ": "Kazakhstan", "AE": "United Arab Emirates", "SA": "Saudi Arabia",
	"BH": "Bahrain", "QA": "Qatar", "TR": "Turkey", "JO": "Jordan",
	"AU": "Australia", "NZ": "New Zealand", "ZA": "South Africa",
	"NG": "Nigeria", "KE": "Kenya", "EG": "Egypt", "SC": "Seychelles",
	"MU": "Mauritius", "BR": "Brazil", "AR": "Argentina", "CL": "Chile",
	"CO": "Colombia", "PE": "Peru", "UY": "Uruguay", "VG": "British Virgin Islands",
	"IL": "Israel", "KY": "Cayman Islands", "BS": "Bahamas",
}

// DetectRegion classifies a venue by its registered country codes. IL wins
// outright; codes spanning more than one bucket mean Global; a single
// matching bucket names the region; no match at all is Other.
func DetectRegion(countryCodes []string) string {
	matched := ""
	for _, code := range countryCodes {
		code = strings.ToUpper(code)
		if code == "IL" {
			return RegionIsrael
		}
		bucket := bucketFor(code)
		if bucket == "" {
			continue
		}
		if matched == "" {
			matched = bucket
		} else if matched != bucket {
			return RegionGlobal
		}
	}
	if matched == "" {
		return RegionOther
	}
	return matched
}

func bucketFor(code string) string {
	for region, codes := range regionBuckets {
		for _, c := range codes {
			if c == code {
				return region
			}
		}
	}
	return ""
}

// FormatCountry renders country codes for display: up to three full names
// joined with commas, then a "+N more" suffix. Empty input yields "Unknown".
func FormatCountry(countryCodes []string) string {
	if len(countryCodes) == 0 {
		return "Unknown"
	}

	names := make([]string, 0, len(countryCodes))
	for _, code := range countryCodes {
		code = strings.ToUpper(code)
		if name, ok := countryNames[code]; ok {
			names = append(names, name)
		} else {
			names = append(names, code)
		}
	}

	if len(names) <= 3 {
		return strings.Join(names, ", ")
	}
	return fmt.Sprintf("%s +%d more", strings.Join(names[:3], ", "), len(names)-3)
}
