package matching

import (
	"strings"

	"github.com/desertthunder/ytimport/internal/models"
)

const (
	titleWeight  = 0.55
	artistWeight = 0.40
	albumWeight  = 0.05

	// A near-exact title corroborated by the album or the artist is a confident match.
	confidentTitle  = 0.9
	confidentAlbum  = 0.9
	confidentArtist = 0.5
)

// Overlap returns |A ∩ B| / max(|A|, |B|) over the token sets of a and b, or 0 if either is empty.
func Overlap(a, b string) float64 {
	ta, tb := Tokenize(a), Tokenize(b)
	if len(ta) == 0 || len(tb) == 0 {
		return 0
	}

	shared := 0
	for tok := range ta {
		if _, ok := tb[tok]; ok {
			shared++
		}
	}

	return float64(shared) / float64(max(len(ta), len(tb)))
}

// SplitArtists splits an artist field on commas, ampersands and the word "and".
//
// Parts are lower-cased and trimmed; empty parts are dropped.
func SplitArtists(artist string) []string {
	var parts []string
	separated := replaceWords(lower(artist), []string{"and"}, ",")
	for _, p := range strings.FieldsFunc(separated, isArtistSeparator) {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return parts
}

func isArtistSeparator(r rune) bool {
	return r == ',' || r == '&'
}

// Score computes the similarity in [0,1] between a source record's fields and a candidate.
func Score(title, artist, album string, c models.Candidate) float64 {
	t := Overlap(title, c.Title)

	var al float64
	if album != "" && c.AlbumName != "" {
		al = Overlap(album, c.AlbumName)
	}

	var a float64
	for _, part := range SplitArtists(artist) {
		a = max(a, Overlap(part, c.ArtistName))
	}

	if t >= confidentTitle && (al >= confidentAlbum || a >= confidentArtist) {
		return 1.0
	}

	return titleWeight*t + artistWeight*a + albumWeight*al
}

// ScoreRecord scores c against r.
func ScoreRecord(r models.SourceRecord, c models.Candidate) float64 {
	return Score(r.Title, r.Artist, r.Album, c)
}
