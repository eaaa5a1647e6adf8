package sanitizer

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

func NormalizeSkillTags(tags []string) []string {
	return NormalizeStringSlice(tags, NormalizeSkillTag)
}

// DedupeTokens removes duplicate and empty device tokens while preserving
// order. Tokens are opaque and must not be transformed.
func DedupeTokens(tokens []string) []string {
	return NormalizeStringSlice(tokens, func(s string) string { return s })
}
