package sanitizer

import (
	"strings"

	"github.com/nyaruka/phonenumbers"
)

var supportedRegions = []string{
	"US",
	"GB",
	"DE",
}

// NormalizePhone converts a phone number to E.164, trying each supported
// region in turn for numbers without a country prefix. Unparseable numbers
// normalize to the empty string.
func NormalizePhone(phone string) string {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return ""
	}

	for _, region := range supportedRegions {
		parsed, err := phonenumbers.Parse(phone, region)
		if err == nil {
			return phonenumbers.Format(parsed, phonenumbers.E164)
		}
	}
	return ""
}
