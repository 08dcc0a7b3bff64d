// Package sanitizer normalizes guest-supplied text before validation and storage.
//
// All functions are idempotent and never fail: input that cannot be
// normalized comes back empty so the validators reject it with a field error.
//
// Normalization includes:
//   - Phone numbers: E.164, parsed with the Philippines as the default region
//   - Emails: trimmed and lowercased
//   - Free text (names, notes, destinations): whitespace collapsed and trimmed
//   - Table and room labels: trimmed and uppercased ("t5" becomes "T5")
//   - Slices: empty values and duplicates removed after normalization
package sanitizer
