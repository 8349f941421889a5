// Package geo normalizes the location strings that appear in travel tables
// and extracted documents: free-form country names to ISO 3166-1 alpha-2
// codes, and city strings to comparable tokens with airport codes and
// trailing qualifiers stripped.
package geo

import (
	"strings"

	"github.com/waypoint-ops/itinerary-cli/internal/model"
)

// CanonicalCountry maps a country code or name to ISO 3166-1 alpha-2.
// Blank input returns model.CountryUnknown. Unrecognized two-letter values
// pass through unchanged; anything else is returned uppercased as-is, so an
// unmapped name is visible in output rather than silently dropped.
// Idempotent: canonical codes map to themselves.
func CanonicalCountry(codeOrName string) string {
	s := strings.TrimSpace(codeOrName)
	if s == "" {
		return model.CountryUnknown
	}
	s = strings.ToUpper(s)

	if code, ok := countryAliases[s]; ok {
		return code
	}
	if len(s) == 2 && isAlpha(s) {
		return s
	}
	return s
}

func isAlpha(s string) bool {
	for _, r := range s {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}

// countryAliases maps uppercased country names, demonyms, common
// misspellings and a handful of native-language exonyms to alpha-2 codes.
var countryAliases = map[string]string{
	// Europe
	"UK":              "GB",
	"UNITED KINGDOM":  "GB",
	"BRITAIN":         "GB",
	"ENGLAND":         "GB",
	"SCOTLAND":        "GB",
	"WALES":           "GB",
	"IRELAND":         "IE",
	"EIRE":            "IE",
	"FRANCE":          "FR",
	"DEUTSCHLAND":     "DE", // Germany
	"ALLEMAGNE":       "DE",
	"GERMANY":         "DE",
	"ESPANA":          "ES", // Spain
	"SPAIN":           "ES",
	"ITALIA":          "IT", // Italy
	"ITALY":           "IT",
	"PORTUGAL":        "PT",
	"NEDERLAND":       "NL", // Netherlands
	"NEDERLANDEN":     "NL",
	"NETHERLANDS":     "NL",
	"HOLLAND":         "NL",
	"BELGIE":          "BE", // Belgium
	"BELGIUM":         "BE",
	"LUXEMBOURG":      "LU",
	"SCHWEIZ":         "CH", // Switzerland
	"SUISSE":          "CH",
	"SVIZZERA":        "CH",
	"SWITZERLAND":     "CH",
	"OSTERREICH":      "AT", // Austria
	"AUSTRIA":         "AT",
	"LIECHTENSTEIN":   "LI",
	"MONACO":          "MC",
	"ANDORRA":         "AD",
	"SAN MARINO":      "SM",
	"VATICAN":         "VA",
	"MALTA":           "MT",
	"CYPRUS":          "CY",
	"GIBRALTAR":       "GI",
	"DANMARK":         "DK", // Denmark
	"DENMARK":         "DK",
	"SVERIGE":         "SE", // Sweden
	"SWEDEN":          "SE",
	"NORGE":           "NO", // Norway
	"NORWAY":          "NO",
	"SUOMI":           "FI", // Finland
	"FINLAND":         "FI",
	"ISLAND":          "IS", // Iceland
	"ICELAND":         "IS",
	"GREENLAND":       "GL",
	"FAROE ISLANDS":   "FO",
	"ALAND ISLANDS":   "AX",
	"JERSEY":          "JE",
	"GUERNSEY":        "GG",
	"ISLE OF MAN":     "IM",
	"POLSKA":          "PL", // Poland
	"POLAND":          "PL",
	"CESKA REPUBLIKA": "CZ", // Czech Republic
	"CZECH REPUBLIC":  "CZ",
	"CZECHIA":         "CZ",
	"MAGYARORSZAG":    "HU", // Hungary
	"HUNGARY":         "HU",
	"SLOVENSKO":       "SK", // Slovakia
	"SLOVAKIA":        "SK",
	"SLOVENIJA":       "SI", // Slovenia
	"SLOVENIA":        "SI",
	"HRVATSKA":        "HR", // Croatia
	"CROATIA":         "HR",
	"SRBIJA":          "RS", // Serbia
	"SERBIA":          "RS",
	"BOSNIA AND HERZEGOVINA": "BA",
	"MONTENEGRO":             "ME",
	"ALBANIA":                "AL",
	"BULGARIA":               "BG",
	"ROMANIA":                "RO",
	"MOLDOVA":                "MD",
	"ELLADA":                 "GR", // Greece
	"GREECE":                 "GR",
	"TURKIYE":                "TR", // Turkey
	"TURKEY":                 "TR",
	"ROSSIYA":                "RU", // Russia
	"RUSSIA":                 "RU",
	"UKRAINA":                "UA", // Ukraine
	"UKRAINE":                "UA",
	"BELARUS":                "BY",
	"LITHUANIA":              "LT",
	"LATVIA":                 "LV",
	"ESTONIA":                "EE",
	"SVALBARD AND JAN MAYEN": "SJ",

	// Asia
	"JAPAN":       "JP",
	"NIPPON":      "JP",
	"KOREA":       "KR",
	"SOUTH KOREA": "KR",
	"CHINA":       "CN",
	"TAIWAN":      "TW",
	"HONG KONG":   "HK",
	"MACAU":       "MO",
	"INDIA":       "IN",
	"PAKISTAN":    "PK",
	"BANGLADESH":  "BD",
	"SRI LANKA":   "LK",
	"MALDIVES":    "MV",
	"NEPAL":        "NP",
	"BHUTAN":       "BT",
	"AFGHANISTAN":  "AF",
	"THAILAND":     "TH",
	"VIETNAM":      "VN",
	"VIET NAM":     "VN",
	"CAMBODIA":     "KH",
	"LAOS":         "LA",
	"MYANMAR":      "MM",
	"BURMA":        "MM",
	"MALAYSIA":     "MY",
	"SINGAPORE":    "SG",
	"INDONESIA":    "ID",
	"PHILIPPINES":  "PH",
	"BRUNEI":       "BN",
	"TIMOR-LESTE":  "TL",
	"EAST TIMOR":   "TL",
	"MONGOLIA":     "MN",
	"KAZAKHSTAN":   "KZ",
	"UZBEKISTAN":   "UZ",
	"KYRGYZSTAN":   "KG",
	"TAJIKISTAN":   "TJ",
	"TURKMENISTAN": "TM",
	"AZERBAIJAN":   "AZ",
	"ARMENIA":      "AM",
	"GEORGIA":      "GE",

	// Middle East
	"IRAN":                 "IR",
	"IRAQ":                 "IQ",
	"SYRIA":                "SY",
	"LEBANON":              "LB",
	"JORDAN":               "JO",
	"ISRAEL":               "IL",
	"PALESTINE":            "PS",
	"SAUDI ARABIA":         "SA",
	"UAE":                  "AE",
	"UNITED ARAB EMIRATES": "AE",
	"QATAR":                "QA",
	"KUWAIT":               "KW",
	"BAHRAIN":              "BH",
	"OMAN":                 "OM",
	"YEMEN":                "YE",

	// Africa
	"EGYPT":                        "EG",
	"LIBYA":                        "LY",
	"TUNISIA":                      "TN",
	"ALGERIA":                      "DZ",
	"MOROCCO":                      "MA",
	"SUDAN":                        "SD",
	"SOUTH SUDAN":                  "SS",
	"ETHIOPIA":                     "ET",
	"ERITREA":                      "ER",
	"DJIBOUTI":                     "DJ",
	"SOMALIA":                      "SO",
	"KENYA":                        "KE",
	"UGANDA":                       "UG",
	"TANZANIA":                     "TZ",
	"RWANDA":                       "RW",
	"BURUNDI":                      "BI",
	"MALAWI":                       "MW",
	"ZAMBIA":                       "ZM",
	"ZIMBABWE":                     "ZW",
	"BOTSWANA":                     "BW",
	"NAMIBIA":                      "NA",
	"SOUTH AFRICA":                 "ZA",
	"ESWATINI":                     "SZ",
	"LESOTHO":                      "LS",
	"MADAGASCAR":                   "MG",
	"MAURITIUS":                    "MU",
	"SEYCHELLES":                   "SC",
	"COMOROS":                      "KM",
	"MOZAMBIQUE":                   "MZ",
	"ANGOLA":                       "AO",
	"CONGO":                        "CD",
	"DEMOCRATIC REPUBLIC OF CONGO": "CD",
	"REPUBLIC OF CONGO":            "CG",
	"CENTRAL AFRICAN REPUBLIC":     "CF",
	"CHAD":                         "TD",
	"CAMEROON":                     "CM",
	"EQUATORIAL GUINEA":            "GQ",
	"GABON":                        "GA",
	"SAO TOME AND PRINCIPE":        "ST",
	"GHANA":                        "GH",
	"TOGO":                         "TG",
	"BENIN":                        "BJ",
	"NIGER":                        "NE",
	"BURKINA FASO":                 "BF",
	"MALI":                         "ML",
	"SENEGAL":                      "SN",
	"GAMBIA":                       "GM",
	"GUINEA-BISSAU":                "GW",
	"GUINEA":                       "GN",
	"SIERRA LEONE":                 "SL",
	"LIBERIA":                      "LR",
	"IVORY COAST":                  "CI",
	"COTE D'IVOIRE":                "CI",

	// Americas
	"USA":           "US",
	"UNITED STATES": "US",
	"AMERICA":       "US",
	"CANADA":        "CA",
	"MEXICO":        "MX",
	"GUATEMALA":     "GT",
	"BELIZE":        "BZ",
	"EL SALVADOR":   "SV",
	"HONDURAS":      "HN",
	"NICARAGUA":     "NI",
	"COSTA RICA":    "CR",
	"PANAMA":        "PA",
	"CUBA":          "CU",
	"JAMAICA":       "JM",
	"HAITI":         "HT",
	"DOMINICAN REPUBLIC": "DO",
	"PUERTO RICO":        "PR",
	"TRINIDAD AND TOBAGO": "TT",
	"BARBADOS":            "BB",
	"ANTIGUA AND BARBUDA": "AG",
	"DOMINICA":            "DM",
	"GRENADA":             "GD",
	"SAINT KITTS AND NEVIS":            "KN",
	"SAINT LUCIA":                      "LC",
	"SAINT VINCENT AND THE GRENADINES": "VC",
	"BAHAMAS":                          "BS",
	"ARGENTINA":                        "AR",
	"BOLIVIA":                          "BO",
	"BRAZIL":                           "BR",
	"CHILE":                            "CL",
	"COLOMBIA":                         "CO",
	"ECUADOR":                          "EC",
	"FALKLAND ISLANDS":                 "FK",
	"FRENCH GUIANA":                    "GF",
	"GUYANA":                           "GY",
	"PARAGUAY":                         "PY",
	"PERU":                             "PE",
	"SURINAME":                         "SR",
	"URUGUAY":                          "UY",
	"VENEZUELA":                        "VE",

	// Oceania
	"AUSTRALIA":                "AU",
	"NEW ZEALAND":              "NZ",
	"FIJI":                     "FJ",
	"PAPUA NEW GUINEA":         "PG",
	"SOLOMON ISLANDS":          "SB",
	"VANUATU":                  "VU",
	"NEW CALEDONIA":            "NC",
	"FRENCH POLYNESIA":         "PF",
	"SAMOA":                    "WS",
	"TONGA":                    "TO",
	"KIRIBATI":                 "KI",
	"TUVALU":                   "TV",
	"NAURU":                    "NR",
	"PALAU":                    "PW",
	"MICRONESIA":               "FM",
	"MARSHALL ISLANDS":         "MH",
	"AMERICAN SAMOA":           "AS",
	"GUAM":                     "GU",
	"NORTHERN MARIANA ISLANDS": "MP",

	// Territories and remote islands
	"US VIRGIN ISLANDS":      "VI",
	"BRITISH VIRGIN ISLANDS": "VG",
	"ANGUILLA":               "AI",
	"ARUBA":                  "AW",
	"BONAIRE":                "BQ",
	"CURACAO":                "CW",
	"SINT MAARTEN":           "SX",
	"SAINT BARTHELEMY":       "BL",
	"SAINT MARTIN":           "MF",
	"GUADELOUPE":             "GP",
	"MARTINIQUE":             "MQ",
	"REUNION":                "RE",
	"MAYOTTE":                "YT",
	"SAINT HELENA":           "SH",
	"ASCENSION ISLAND":       "AC",
	"TRISTAN DA CUNHA":       "TA",
	"SOUTH GEORGIA AND THE SOUTH SANDWICH ISLANDS": "GS",
	"HEARD ISLAND AND MCDONALD ISLANDS":            "HM",
	"FRENCH SOUTHERN TERRITORIES":                  "TF",
	"ANTARCTICA":                                   "AQ",
	"BOUVET ISLAND":                                "BV",
}
