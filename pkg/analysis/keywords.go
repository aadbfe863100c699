package analysis

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// ParseKeywords splits comma-separated input into keywords.
func ParseKeywords(input string) ([]string, error) {
	return NormalizeKeywords(strings.Split(input, ","))
}

// NormalizeKeywords trims, NFC-normalizes and collapses whitespace, drops
// empty entries and case-insensitive duplicates. Input order is kept. An
// empty result is a KindNoKeywords error.
func NormalizeKeywords(raw []string) ([]string, error) {
	fold := cases.Fold()
	seen := make(map[string]struct{}, len(raw))
	keywords := make([]string, 0, len(raw))

	for _, r := range raw {
		kw := strings.Join(strings.Fields(norm.NFC.String(r)), " ")
		if kw == "" {
			continue
		}
		key := fold.String(kw)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		keywords = append(keywords, kw)
	}

	if len(keywords) == 0 {
		return nil, newError(KindNoKeywords, ScopeInput, "", ErrNoKeywords)
	}
	return keywords, nil
}
