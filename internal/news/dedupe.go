package news

import (
	"strings"

	"github.com/spacesedan/marketpulse/internal/models"
)

type dedupeKey struct {
	title  string
	source string
}

func normalize(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

// Dedupe keeps the first occurrence of every (title, source) pair, compared
// case- and whitespace-insensitively, and preserves arrival order. The URL is
// not part of the identity.
func Dedupe(items []models.RawNewsItem) []models.RawNewsItem {
	seen := make(map[dedupeKey]struct{}, len(items))
	unique := make([]models.RawNewsItem, 0, len(items))

	for _, item := range items {
		key := dedupeKey{title: normalize(item.Title), source: normalize(item.Source)}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		unique = append(unique, item)
	}

	return unique
}
