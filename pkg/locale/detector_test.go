package locale

import "testing"

func TestInferTimezoneFromPhone(t *testing.T) {
	tests := []struct {
		name  string
		phone string
		want  string
	}{
		{
			name:  "us number",
			phone: "+14155550100",
			want:  "America/New_York",
		},
		{
			name:  "uk number",
			phone: "+442079460958",
			want:  "Europe/London",
		},
		{
			name:  "german number",
			phone: "+4915123456789",
			want:  "Europe/Berlin",
		},
		{
			name:  "prefix without plus",
			phone: "14155550100",
			want:  "America/New_York",
		},
		{
			name:  "unknown prefix falls back",
			phone: "+97254123456",
			want:  DefaultTimezone,
		},
		{
			name:  "empty phone falls back",
			phone: "",
			want:  DefaultTimezone,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := InferTimezoneFromPhone(tt.phone)
			if got != tt.want {
				t.Errorf("InferTimezoneFromPhone(%q) = %q, want %q", tt.phone, got, tt.want)
			}
		})
	}
}

func TestInferCountryFromPhone(t *testing.T) {
	country := InferCountryFromPhone("+442079460958")
	if country == nil {
		t.Fatal("expected a country for a UK number")
	}
	if country.Code != "GB" {
		t.Errorf("Code = %q, want GB", country.Code)
	}

	if got := InferCountryFromPhone("+97254123456"); got != nil {
		t.Errorf("expected nil for an unsupported prefix, got %v", got)
	}
}
