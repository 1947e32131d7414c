// Package sanitizer provides input normalization for stable data.
//
// All normalization functions are idempotent - applying them multiple times
// produces the same result. Functions handle invalid input gracefully,
// typically by returning empty strings or empty slices rather than errors.
//
// Normalization includes:
//   - Phone numbers: convert to E.164 format (+[country][number])
//   - Free text (names, notes, destinations): collapse whitespace, trim
//   - Labels (tack, facility tags, cities): lowercase, strip special characters
//   - Slices: drop duplicates and empty values after normalization
package sanitizer
