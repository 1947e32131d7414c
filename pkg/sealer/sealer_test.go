package sealer

import (
	"strings"
	"testing"
)

func TestBookingTokenRoundTrip(t *testing.T) {
	stableID := "65f000000000000000000001"
	facilityID := "65f000000000000000000010"

	token, err := CreateBookingToken(stableID, facilityID)
	if err != nil {
		t.Fatalf("CreateBookingToken() error = %v", err)
	}
	if token == "" {
		t.Fatal("expected a non-empty token")
	}

	gotStable, gotFacility, err := ParseBookingToken(token)
	if err != nil {
		t.Fatalf("ParseBookingToken() error = %v", err)
	}
	if gotStable != stableID {
		t.Errorf("stable ID = %q, want %q", gotStable, stableID)
	}
	if gotFacility != facilityID {
		t.Errorf("facility ID = %q, want %q", gotFacility, facilityID)
	}
}

func TestBookingTokensAreUnique(t *testing.T) {
	// Random nonce means the same pair never seals to the same token.
	first, err := CreateBookingToken("65f000000000000000000001", "65f000000000000000000010")
	if err != nil {
		t.Fatalf("CreateBookingToken() error = %v", err)
	}
	second, err := CreateBookingToken("65f000000000000000000001", "65f000000000000000000010")
	if err != nil {
		t.Fatalf("CreateBookingToken() error = %v", err)
	}
	if first == second {
		t.Error("expected distinct tokens for repeated sealing")
	}
}

func TestParseBookingToken_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		token string
	}{
		{name: "empty", token: ""},
		{name: "not base64url", token: "!!not-base64!!"},
		{name: "too short for nonce", token: "YWJj"},
		{name: "garbage ciphertext", token: strings.Repeat("A", 48)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := ParseBookingToken(tt.token); err == nil {
				t.Errorf("ParseBookingToken(%q) expected error", tt.token)
			}
		})
	}
}

func TestParseBookingToken_TamperedCiphertext(t *testing.T) {
	token, err := CreateBookingToken("65f000000000000000000001", "65f000000000000000000010")
	if err != nil {
		t.Fatalf("CreateBookingToken() error = %v", err)
	}

	// Flip a character in the middle of the token. The final character only
	// carries padding bits, which the decoder ignores.
	tampered := []byte(token)
	mid := len(tampered) / 2
	if tampered[mid] == 'A' {
		tampered[mid] = 'B'
	} else {
		tampered[mid] = 'A'
	}

	if _, _, err := ParseBookingToken(string(tampered)); err == nil {
		t.Error("expected tampered token to fail authentication")
	}
}
