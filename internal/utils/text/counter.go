// Package text provides utilities for cleaning and bounding feed text.
// Feed titles and summaries arrive as HTML fragments with arbitrary
// whitespace and length; these helpers reduce them to plain, bounded
// strings before validation and fingerprinting.
package text

// CountRunes counts the number of Unicode characters (runes) in the given
// text. Feed content regularly mixes scripts and emoji, so length checks
// count runes instead of bytes.
//
// Examples:
//
//	CountRunes("hello")          // returns 5 (ASCII text)
//	CountRunes("こんにちは")       // returns 5 (Japanese text)
//	CountRunes("hello世界")       // returns 7 (mixed text)
//	CountRunes("Hello👋")         // returns 6 (text with emoji)
//	CountRunes("")               // returns 0 (empty string)
func CountRunes(text string) int {
	return len([]rune(text))
}
