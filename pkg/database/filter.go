package database

import "strings"

// FilterFamilies returns the records whose family matches at least one pattern.
// An empty pattern list keeps every record. Input order is preserved.
// Supports wildcard patterns:
//   - "prefix*" matches families starting with "prefix"
//   - "*suffix" matches families ending with "suffix"
//   - "*contains*" matches families containing "contains"
//   - "exact" matches families exactly
func FilterFamilies(records []Record, patterns []string) []Record {
	if len(patterns) == 0 {
		return records
	}

	result := make([]Record, 0, len(records))
	for _, r := range records {
		for _, pattern := range patterns {
			if MatchesPattern(r.Family, pattern) {
				result = append(result, r)
				break
			}
		}
	}
	return result
}

// MatchesPattern checks if a key matches a wildcard pattern.
func MatchesPattern(key, pattern string) bool {
	// No wildcard - exact match
	if !strings.Contains(pattern, "*") {
		return key == pattern
	}

	// *contains* - contains match
	if strings.HasPrefix(pattern, "*") && strings.HasSuffix(pattern, "*") {
		substr := strings.Trim(pattern, "*")
		return strings.Contains(key, substr)
	}

	// *suffix - ends with match
	if strings.HasPrefix(pattern, "*") {
		suffix := strings.TrimPrefix(pattern, "*")
		return strings.HasSuffix(key, suffix)
	}

	// prefix* - starts with match
	if strings.HasSuffix(pattern, "*") {
		prefix := strings.TrimSuffix(pattern, "*")
		return strings.HasPrefix(key, prefix)
	}

	return false
}
