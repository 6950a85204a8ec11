package services

import (
	"sort"
	"strings"
	"unicode"
)

// Words too generic to be useful as document tags.
var stopwords = map[string]struct{}{
	"the": {}, "and": {}, "for": {}, "with": {}, "from": {}, "this": {},
	"that": {}, "are": {}, "was": {}, "were": {}, "has": {}, "have": {},
	"been": {}, "will": {}, "shall": {}, "into": {}, "onto": {}, "upon": {},
	"about": {}, "under": {}, "over": {}, "between": {}, "their": {},
	"there": {}, "hereby": {}, "herein": {}, "pursuant": {}, "regarding": {},
	"which": {}, "would": {}, "should": {}, "could": {}, "other": {},
	"such": {}, "these": {}, "those": {}, "them": {}, "they": {},
}

const maxTags = 5

// extractTags derives default tags from a document's title and summary: the
// five longest distinct non-stopword tokens, longest first. Ties keep their
// original text order so the result is deterministic.
func extractTags(title, summary string) []string {
	text := strings.ToLower(title + " " + summary)

	tokens := strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	seen := make(map[string]struct{})
	var candidates []string
	for _, token := range tokens {
		if len(token) < 3 {
			continue
		}
		if _, isStop := stopwords[token]; isStop {
			continue
		}
		if _, dup := seen[token]; dup {
			continue
		}
		seen[token] = struct{}{}
		candidates = append(candidates, token)
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return len(candidates[i]) > len(candidates[j])
	})

	if len(candidates) > maxTags {
		candidates = candidates[:maxTags]
	}
	return candidates
}
