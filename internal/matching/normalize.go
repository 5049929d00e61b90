package matching

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// qualifiers are removed as whole words. Earlier entries win at the same position.
var qualifiers = []string{"original mix", "extended mix", "radio edit", "club mix", "edit", "mix", "remix"}

var (
	punctuationPattern = regexp.MustCompile(`[^\p{L}\p{N}_\s\p{Z}\-']`)
	whitespacePattern  = regexp.MustCompile(`[\s\p{Z}]+`)
)

// lower folds s to lower case without regard to the process locale.
func lower(s string) string {
	return cases.Lower(language.Und).String(s)
}

// Normalize canonicalizes text for comparison.
func Normalize(text string) string {
	s := strings.TrimSpace(lower(text))
	s = strings.ReplaceAll(s, "&", "and")
	s = removeWords(s, qualifiers)
	s = punctuationPattern.ReplaceAllString(s, "")
	s = whitespacePattern.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// Tokenize splits the normalized form of text into a set of tokens.
func Tokenize(text string) map[string]struct{} {
	fields := strings.Fields(Normalize(text))
	tokens := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		tokens[f] = struct{}{}
	}
	return tokens
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsNumber(r)
}

// wordMatches returns the byte ranges of the non-overlapping occurrences of words in s that are
// bounded on both sides by a non-word rune or the ends of s. Word runes are Unicode letters,
// numbers and underscores.
func wordMatches(s string, words []string) [][2]int {
	var matches [][2]int
	atBoundary := true
	for i := 0; i < len(s); {
		if atBoundary {
			if end, ok := matchWordAt(s, i, words); ok {
				matches = append(matches, [2]int{i, end})
				i, atBoundary = end, false
				continue
			}
		}
		r, size := utf8.DecodeRuneInString(s[i:])
		atBoundary = !isWordRune(r)
		i += size
	}
	return matches
}

func matchWordAt(s string, i int, words []string) (int, bool) {
	for _, w := range words {
		if !strings.HasPrefix(s[i:], w) {
			continue
		}
		end := i + len(w)
		if end == len(s) {
			return end, true
		}
		if r, _ := utf8.DecodeRuneInString(s[end:]); !isWordRune(r) {
			return end, true
		}
	}
	return 0, false
}

// replaceWords replaces every whole-word occurrence of words in s with repl.
func replaceWords(s string, words []string, repl string) string {
	matches := wordMatches(s, words)
	if len(matches) == 0 {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))
	last := 0
	for _, m := range matches {
		b.WriteString(s[last:m[0]])
		b.WriteString(repl)
		last = m[1]
	}
	b.WriteString(s[last:])
	return b.String()
}

func removeWords(s string, words []string) string {
	return replaceWords(s, words, "")
}
