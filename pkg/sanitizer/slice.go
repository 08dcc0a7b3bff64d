package sanitizer

import "strings"

func NormalizeStringSlice(items []string, normalizer func(string) string) []string {
	if len(items) == 0 {
		return []string{}
	}

	seen := make(map[string]bool)
	result := make([]string, 0, len(items))

	for _, item := range items {
		normalized := normalizer(item)

		if normalized == "" {
			continue
		}

		if seen[normalized] {
			continue
		}

		seen[normalized] = true
		result = append(result, normalized)
	}

	return result
}

// Canonicalize maps each item onto the allowed value it matches ignoring case
// and surrounding space. Items with no match are kept as typed so validation
// can report them.
func Canonicalize(items []string, allowed []string) []string {
	return NormalizeStringSlice(items, func(s string) string {
		s = TrimAndNormalize(s)
		for _, a := range allowed {
			if strings.EqualFold(a, s) {
				return a
			}
		}
		return s
	})
}

// CanonicalizeValue is Canonicalize for a single value.
func CanonicalizeValue(s string, allowed []string) string {
	if matched := Canonicalize([]string{s}, allowed); len(matched) == 1 {
		return matched[0]
	}
	return ""
}
