// Package moderation screens comment text against a literal blocklist.
//
// The filter is deliberately blunt: lexical matching only, no semantic
// understanding, and false positives are accepted in exchange for recall.
package moderation

import (
	"strings"
	"unicode"
)

// Classifier flags text containing blocklisted terms.
// It is read-only after construction and safe for concurrent use.
type Classifier struct {
	// words holds single-token terms for whole-word lookup
	words map[string]struct{}

	// embeddable holds the same terms in list order for substring checks
	embeddable []string

	// phrases holds multi-token terms matched against the normalized text
	phrases []string
}

// NewClassifier creates a Classifier loaded with the default blocklist
func NewClassifier() *Classifier {
	return NewClassifierWithTerms(defaultBlocklist)
}

// NewClassifierWithTerms creates a Classifier from the provided terms.
// Terms are normalized the same way as input text, so a symbol variant like
// "f*ck" is stored as the phrase "f ck".
func NewClassifierWithTerms(terms []string) *Classifier {
	c := &Classifier{
		words: make(map[string]struct{}, len(terms)),
	}

	seen := make(map[string]bool, len(terms))
	for _, term := range terms {
		normalized := Normalize(term)
		if normalized == "" || seen[normalized] {
			continue
		}
		seen[normalized] = true

		if strings.ContainsRune(normalized, ' ') {
			c.phrases = append(c.phrases, normalized)
			continue
		}
		c.words[normalized] = struct{}{}
		c.embeddable = append(c.embeddable, normalized)
	}

	return c
}

// IsFlagged reports whether text contains a blocklisted term, either as a
// whole word or embedded inside a longer token.
func (c *Classifier) IsFlagged(text string) bool {
	normalized := Normalize(text)
	if normalized == "" {
		return false
	}

	tokens := strings.Fields(normalized)

	// Whole-word matches
	for _, token := range tokens {
		if _, ok := c.words[token]; ok {
			return true
		}
	}

	// Multi-token phrases, space bounded
	padded := " " + normalized + " "
	for _, phrase := range c.phrases {
		if strings.Contains(padded, " "+phrase+" ") {
			return true
		}
	}

	// Terms embedded in longer tokens, e.g. evasive concatenation
	for _, token := range tokens {
		for _, term := range c.embeddable {
			if strings.Contains(token, term) {
				return true
			}
		}
	}

	return false
}

// Normalize lower-cases text and collapses every run of non-alphanumeric
// characters into a single space.
func Normalize(text string) string {
	var b strings.Builder
	b.Grow(len(text))

	pendingSpace := false
	for _, r := range strings.ToLower(text) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pendingSpace && b.Len() > 0 {
				b.WriteByte(' ')
			}
			pendingSpace = false
			b.WriteRune(r)
			continue
		}
		pendingSpace = true
	}

	return b.String()
}
