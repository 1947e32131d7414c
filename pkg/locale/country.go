package locale

const DefaultTimezone = "UTC"

type Country struct {
	Code            string   // ISO 3166-1 alpha-2 country code (e.g., "GB", "US")
	Name            string   // Human-readable country name
	PhonePrefixes   []string // Phone number prefixes (e.g., ["+44", "44"])
	DefaultTimezone string   // IANA timezone identifier
}

var Countries = map[string]Country{
	"US": {
		Code:            "US",
		Name:            "United States",
		PhonePrefixes:   []string{"+1", "1"},
		DefaultTimezone: "America/New_York",
	},
	"GB": {
		Code:            "GB",
		Name:            "United Kingdom",
		PhonePrefixes:   []string{"+44", "44"},
		DefaultTimezone: "Europe/London",
	},
	"DE": {
		Code:            "DE",
		Name:            "Germany",
		PhonePrefixes:   []string{"+49", "49"},
		DefaultTimezone: "Europe/Berlin",
	},
}
