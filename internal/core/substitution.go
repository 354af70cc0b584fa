package core

import "regexp"

var placeholderPattern = regexp.MustCompile(`\$\(([^()]*)\)`)

// SubstituteVariables replaces each $(NAME) token found in table in one
// pass. Replaced text is not scanned again and unknown names stay literal.
func SubstituteVariables(value string, table map[string]string) string {
	if len(table) == 0 {
		return value
	}
	return placeholderPattern.ReplaceAllStringFunc(value, func(token string) string {
		name := placeholderPattern.FindStringSubmatch(token)[1]
		if replacement, ok := table[name]; ok {
			return replacement
		}
		return token
	})
}

// SubstituteSettings applies SubstituteVariables to every string value,
// including the items of list-valued settings.
func SubstituteSettings(settings map[string]any, table map[string]string) map[string]any {
	merged := make(map[string]any, len(settings))
	for key, raw := range settings {
		switch value := raw.(type) {
		case string:
			merged[key] = SubstituteVariables(value, table)
		case []any:
			items := make([]any, len(value))
			for i, item := range value {
				if text, ok := item.(string); ok {
					items[i] = SubstituteVariables(text, table)
					continue
				}
				items[i] = item
			}
			merged[key] = items
		default:
			merged[key] = raw
		}
	}
	return merged
}

// HasPlaceholder reports whether value still contains a $(NAME) token.
func HasPlaceholder(value string) bool {
	return placeholderPattern.MatchString(value)
}
