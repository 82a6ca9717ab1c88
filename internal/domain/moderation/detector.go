// internal/domain/moderation/detector.go
package moderation

import (
	"strings"
	"unicode"
)

// Detector scans message text against a fixed vocabulary using whole-word,
// case-insensitive matching. Word boundaries are Unicode-aware, so a
// vocabulary word inside a longer unrelated word never matches.
type Detector struct {
	words map[string]struct{}
}

func NewDetector(words []string) *Detector {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[strings.ToLower(w)] = struct{}{}
	}
	return &Detector{words: set}
}

// Detect returns the first vocabulary word appearing as a standalone token
// in text, in message order. First match wins.
func (d *Detector) Detect(text string) (string, bool) {
	tokens := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
	for _, tok := range tokens {
		if _, ok := d.words[tok]; ok {
			return tok, true
		}
	}
	return "", false
}
