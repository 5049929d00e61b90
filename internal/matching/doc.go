// Package matching scores search results from the target catalog against source records.
//
// # Normalization
//
// [Normalize] canonicalizes free text: lower-case, "&" becomes "and", mix/edit qualifiers
// ("extended mix", "radio edit", "remix", ...) are dropped as whole words (word runes are Unicode
// letters, numbers and underscores), punctuation other
// than hyphens and apostrophes is stripped, and whitespace is collapsed. [Tokenize] turns the
// normalized form into a token set.
//
// # Scoring
//
// [Overlap] is |A ∩ B| / max(|A|, |B|) over token sets. It is lenient toward one side carrying
// extra descriptive tokens. [Score] blends title, artist and album overlap:
//
//	0.55*title + 0.40*artist + 0.05*album
//
// A title overlap of at least 0.9 corroborated by the album (>= 0.9) or the artist (>= 0.5)
// scores exactly 1.0.
//
// # Queries
//
// [BuildQueries] derives search strings from a record, most specific first: ISRC, "title artist",
// "title - artist", "title artist album", then the bare title.
package matching
