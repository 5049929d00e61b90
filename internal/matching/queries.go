package matching

import (
	"fmt"
	"strings"

	"github.com/desertthunder/ytimport/internal/models"
)

// BuildQueries derives the ordered search strings for r, most specific first.
//
// Missing fields omit their queries and repeats keep only their first position; the result is empty
// only when both the ISRC and the title are.
func BuildQueries(r models.SourceRecord) []string {
	isrc := strings.TrimSpace(r.ISRC)
	title := strings.TrimSpace(r.Title)
	artist := strings.TrimSpace(r.Artist)
	album := strings.TrimSpace(r.Album)

	var queries []string
	if isrc != "" {
		queries = append(queries, isrc)
	}
	if title != "" && artist != "" {
		queries = append(queries,
			fmt.Sprintf("%s %s", title, artist),
			fmt.Sprintf("%s - %s", title, artist),
		)
		if album != "" {
			queries = append(queries, fmt.Sprintf("%s %s %s", title, artist, album))
		}
	}
	if title != "" {
		queries = append(queries, title)
	}
	return dedupe(queries)
}

func dedupe(queries []string) []string {
	seen := make(map[string]struct{}, len(queries))
	out := queries[:0]
	for _, q := range queries {
		if _, ok := seen[q]; ok {
			continue
		}
		seen[q] = struct{}{}
		out = append(out, q)
	}
	return out
}
