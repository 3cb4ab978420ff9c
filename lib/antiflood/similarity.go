package antiflood

import (
	"regexp"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
)

// keywordRe matches runs of two or more CJK ideographs or latin letters
var keywordRe = regexp.MustCompile(`[\x{4e00}-\x{9fa5}a-zA-Z]{2,}`)

// Similarity returns normalized edit-distance similarity of two strings, 0..1.
// Equal strings (including two empty ones) score 1, a single empty string scores 0.
func Similarity(s1, s2 string) float64 {
	if s1 == s2 {
		return 1
	}
	if s1 == "" || s2 == "" {
		return 0
	}
	maxLen := max(utf8.RuneCountInString(s1), utf8.RuneCountInString(s2))
	return 1 - float64(levenshtein.ComputeDistance(s1, s2))/float64(maxLen)
}

// Keywords extracts keywords from the text, left to right. Repeated keywords are kept.
func Keywords(s string) []string {
	return keywordRe.FindAllString(s, -1)
}
