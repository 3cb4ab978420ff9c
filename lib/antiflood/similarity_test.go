package antiflood

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSimilarity(t *testing.T) {
	tests := []struct {
		name string
		s1   string
		s2   string
		want float64
	}{
		{name: "identical", s1: "hello world", s2: "hello world", want: 1},
		{name: "both empty", s1: "", s2: "", want: 1},
		{name: "first empty", s1: "", s2: "abc", want: 0},
		{name: "second empty", s1: "abc", s2: "", want: 0},
		{name: "one substitution", s1: "abcd", s2: "abce", want: 0.75},
		{name: "one insertion", s1: "abcd", s2: "abcde", want: 0.8},
		{name: "completely different", s1: "abc", s2: "xyz", want: 0},
		{name: "cjk by runes", s1: "你好世界", s2: "你好世人", want: 0.75},
		{name: "kitten sitting", s1: "kitten", s2: "sitting", want: 1 - 3.0/7.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Similarity(tt.s1, tt.s2), 1e-9)
		})
	}
}

func TestSimilarity_Properties(t *testing.T) {
	samples := []string{"", "a", "hello", "hello!", "buy cheap stuff", "买便宜的东西", "привет", "hello world 123"}
	for _, a := range samples {
		assert.Equal(t, 1.0, Similarity(a, a), "identity for %q", a)
		for _, b := range samples {
			assert.InDelta(t, Similarity(a, b), Similarity(b, a), 1e-12, "symmetry for %q and %q", a, b)
			v := Similarity(a, b)
			assert.True(t, v >= 0 && v <= 1, "range for %q and %q: %v", a, b, v)
			if a != b && (a == "" || b == "") {
				assert.Equal(t, 0.0, v)
			}
		}
	}
}

func TestKeywords(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{name: "empty", text: "", want: nil},
		{name: "latin words", text: "buy now, buy cheap!", want: []string{"buy", "now", "buy", "cheap"}},
		{name: "single letters skipped", text: "a b c dd", want: []string{"dd"}},
		{name: "digits split runs", text: "abc123def", want: []string{"abc", "def"}},
		{name: "cjk run", text: "加群领红包 click", want: []string{"加群领红包", "click"}},
		{name: "mixed cjk and latin in one run", text: "免费VPN下载", want: []string{"免费VPN下载"}},
		{name: "cyrillic not a keyword", text: "привет hi", want: []string{"hi"}},
		{name: "single cjk char skipped", text: "好 的", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Keywords(tt.text))
		})
	}
}
