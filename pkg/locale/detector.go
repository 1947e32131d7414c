package locale

import "strings"

// InferTimezoneFromPhone guesses a default timezone for a stable from its
// owner's phone prefix. Used only when the stable record carries no explicit
// time zone.
func InferTimezoneFromPhone(phone string) string {
	normalized := strings.TrimSpace(phone)

	for _, country := range Countries {
		for _, prefix := range country.PhonePrefixes {
			if strings.HasPrefix(normalized, prefix) {
				return country.DefaultTimezone
			}
		}
	}

	return DefaultTimezone
}

func InferCountryFromPhone(phone string) *Country {
	normalized := strings.TrimSpace(phone)

	for _, country := range Countries {
		for _, prefix := range country.PhonePrefixes {
			if strings.HasPrefix(normalized, prefix) {
				return &country
			}
		}
	}

	return nil
}
