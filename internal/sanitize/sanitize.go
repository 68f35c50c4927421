// Package sanitize turns untrusted free text into plain text safe to store
// and render.
package sanitize

import (
	"html"
	"regexp"
	"strings"

	nethtml "golang.org/x/net/html"
)

// Raw-text elements whose body the tokenizer returns as a single text token.
// That token is dropped rather than kept as text.
var droppedElements = map[string]bool{
	"script":   true,
	"style":    true,
	"iframe":   true,
	"noembed":  true,
	"noframes": true,
	"noscript": true,
	"textarea": true,
	"title":    true,
	"xmp":      true,
}

var (
	// on*= handlers and inline styles that survive as literal text
	eventHandlerRe = regexp.MustCompile(`(?i)\bon[a-z]+\s*=\s*("[^"]*"|'[^']*'|[^\s>]*)`)
	inlineStyleRe  = regexp.MustCompile(`(?i)\bstyle\s*=\s*("[^"]*"|'[^']*'|[^\s>]*)`)
	scriptURLRe    = regexp.MustCompile(`(?i)\b(javascript|vbscript)\s*:`)
)

// Sanitize removes all markup from text and returns trimmed plain text.
// It never fails; the worst case is an empty string.
func Sanitize(text string) string {
	if text == "" {
		return ""
	}

	var b strings.Builder
	b.Grow(len(text))

	z := nethtml.NewTokenizer(strings.NewReader(text))
	skipBody := false

	for {
		tt := z.Next()
		if tt == nethtml.ErrorToken {
			// io.EOF or a malformed tail; everything collected so far is text
			break
		}

		switch tt {
		case nethtml.TextToken:
			if !skipBody {
				b.Write(z.Text())
			}
		case nethtml.StartTagToken:
			name, _ := z.TagName()
			skipBody = droppedElements[string(name)]
			continue
		case nethtml.EndTagToken, nethtml.SelfClosingTagToken, nethtml.CommentToken, nethtml.DoctypeToken:
			// dropped
		}
		skipBody = false
	}

	// Text tokens are already unescaped once; a second pass catches
	// double-encoded markup such as &amp;lt;script&amp;gt;
	out := html.UnescapeString(b.String())
	out = eventHandlerRe.ReplaceAllString(out, "")
	out = inlineStyleRe.ReplaceAllString(out, "")
	out = scriptURLRe.ReplaceAllString(out, "")
	out = stripAngleBrackets(out)

	return strings.TrimSpace(out)
}

// stripAngleBrackets removes any '<' and '>' left after tokenizing, including
// ones produced by unescaping entities such as &lt;script&gt;.
func stripAngleBrackets(s string) string {
	return strings.Map(func(r rune) rune {
		if r == '<' || r == '>' {
			return -1
		}
		return r
	}, s)
}
