package matching

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "lower-cases and trims", input: "  Night Drive  ", want: "night drive"},
		{name: "drops extended mix in parentheses", input: "Night Drive (Extended Mix)", want: "night drive"},
		{name: "drops radio edit", input: "Levels - Radio Edit", want: "levels -"},
		{name: "drops remix", input: "Strobe (Remix)", want: "strobe"},
		{name: "drops original mix", input: "Opus (Original Mix)", want: "opus"},
		{name: "keeps qualifier words inside other words", input: "Credit Mixer", want: "credit mixer"},
		{name: "keeps qualifier after accented letter", input: "Rémix", want: "rémix"},
		{name: "keeps qualifier after non-latin letter", input: "Ñmix", want: "ñmix"},
		{name: "keeps qualifier before accented letter", input: "Editó", want: "editó"},
		{name: "drops adjacent qualifiers", input: "Strobe (Remix) (Edit)", want: "strobe"},
		{name: "drops qualifier next to accented word", input: "Édit (Radio Edit)", want: "édit"},
		{name: "ampersand becomes and", input: "Rock & Roll", want: "rock and roll"},
		{name: "keeps apostrophes and hyphens", input: "Don't Stop Up-Tempo!", want: "don't stop up-tempo"},
		{name: "keeps non-ascii letters", input: "Café del Mar", want: "café del mar"},
		{name: "collapses whitespace", input: "a \t  b\n c", want: "a b c"},
		{name: "empty string", input: "", want: ""},
		{name: "only punctuation", input: "?!.", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.input); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}

	t.Run("is deterministic", func(t *testing.T) {
		in := "Sandstorm (Club Mix) & Friends"
		first := Normalize(in)
		for range 10 {
			if got := Normalize(in); got != first {
				t.Fatalf("Normalize() not deterministic: %q != %q", got, first)
			}
		}
	})
}

func TestTokenize(t *testing.T) {
	t.Run("duplicates collapse", func(t *testing.T) {
		tokens := Tokenize("La La Land")
		if len(tokens) != 2 {
			t.Fatalf("expected 2 tokens, got %d: %v", len(tokens), tokens)
		}
		for _, want := range []string{"la", "land"} {
			if _, ok := tokens[want]; !ok {
				t.Errorf("expected token %q in %v", want, tokens)
			}
		}
	})

	t.Run("empty input yields empty set", func(t *testing.T) {
		if tokens := Tokenize("   "); len(tokens) != 0 {
			t.Errorf("expected no tokens, got %v", tokens)
		}
	})
}

func TestWordMatches(t *testing.T) {
	tests := []struct {
		name  string
		input string
		words []string
		want  [][2]int
	}{
		{name: "whole word", input: "a mix b", words: []string{"mix"}, want: [][2]int{{2, 5}}},
		{name: "start and end of string", input: "mix mix", words: []string{"mix"}, want: [][2]int{{0, 3}, {4, 7}}},
		{name: "earlier word wins", input: "club mix", words: []string{"club mix", "mix"}, want: [][2]int{{0, 8}}},
		{name: "falls back to a shorter word", input: "club mixer", words: []string{"club mix", "club"}, want: [][2]int{{0, 4}}},
		{name: "ascii inside a word", input: "remixed", words: []string{"mix"}, want: nil},
		{name: "preceded by accented letter", input: "émix", words: []string{"mix"}, want: nil},
		{name: "followed by accented letter", input: "andō", words: []string{"and"}, want: nil},
		{name: "bounded by punctuation", input: "(mix)", words: []string{"mix"}, want: [][2]int{{1, 4}}},
		{name: "underscore is a word rune", input: "_mix", words: []string{"mix"}, want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := wordMatches(tt.input, tt.words)
			if len(got) != len(tt.want) {
				t.Fatalf("wordMatches(%q) = %v, want %v", tt.input, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("wordMatches(%q)[%d] = %v, want %v", tt.input, i, got[i], tt.want[i])
				}
			}
		})
	}
}
