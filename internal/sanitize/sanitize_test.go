package sanitize

import (
	"strings"
	"testing"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "plain text unchanged", input: "Great work!", want: "Great work!"},
		{name: "empty", input: "", want: ""},
		{name: "simple tags removed", input: "<b>bold</b> and <i>italic</i>", want: "bold and italic"},
		{name: "script body dropped", input: "hi<script>alert('x')</script> there", want: "hi there"},
		{name: "style body dropped", input: "<style>body{display:none}</style>visible", want: "visible"},
		{name: "event handler attribute dropped with tag", input: `<img src=x onerror="alert(1)">cat`, want: "cat"},
		{name: "escaped markup never becomes a tag", input: "&lt;script&gt;alert(1)&lt;/script&gt;", want: "scriptalert(1)/script"},
		{name: "double escaped markup", input: "&amp;lt;b&amp;gt;x", want: "bx"},
		{name: "literal event handler text stripped", input: `hello onclick="steal()" world`, want: "hello  world"},
		{name: "inline style text stripped", input: `a style='color:red' b`, want: "a  b"},
		{name: "javascript url scheme stripped", input: "javascript:alert(1)", want: "alert(1)"},
		{name: "comment dropped", input: "a<!-- hidden -->b", want: "ab"},
		{name: "only markup becomes empty", input: "<p></p><br/>", want: ""},
		{name: "unterminated tag", input: "text <a href=", want: "text"},
		{name: "stray angle brackets", input: "1 < 2 and 3 > 2", want: "1  2 and 3  2"},
		{name: "whitespace trimmed", input: "   <p> padded </p>  ", want: "padded"},
		{name: "unicode preserved", input: "<em>café ☕</em>", want: "café ☕"},
		{name: "void embed keeps following text", input: "hello <embed src=x> world, see you", want: "hello  world, see you"},
		{name: "unclosed object keeps following text", input: "before <object data=x> after", want: "before  after"},
		{name: "template markup removed text kept", input: "<template>kept</template> too", want: "kept too"},
		{name: "empty script body", input: "<script></script>next", want: "next"},
		{name: "iframe body dropped", input: "a<iframe>inner</iframe>b", want: "ab"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Sanitize(tt.input)
			if got != tt.want {
				t.Errorf("Sanitize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSanitize_NeverReturnsTagOpening(t *testing.T) {
	inputs := []string{
		"<script>alert(1)</script>",
		"<<script>script>alert(1)<</script>/script>",
		"<scr<script>ipt>alert(1)</script>",
		"&lt;img src=x onerror=alert(1)&gt;",
		"&#60;svg onload=alert(1)&#62;",
		"<svg><g/onload=alert(2)//<p>",
		"<a href=\"javascript:alert(1)\">click</a>",
		"<!DOCTYPE html><html><body>x</body></html>",
		"<plaintext><b>still text",
		"<<<<>>>>",
		"<",
		"&lt;",
		"\x00<\x00script>",
	}

	for _, input := range inputs {
		got := Sanitize(input)
		if strings.ContainsRune(got, '<') {
			t.Errorf("Sanitize(%q) = %q contains '<'", input, got)
		}
		if strings.Contains(strings.ToLower(got), "javascript:") {
			t.Errorf("Sanitize(%q) = %q contains a script URL", input, got)
		}
	}
}

func TestSanitize_Deterministic(t *testing.T) {
	input := `<div onmouseover="x()">Hello <b>world</b></div>`
	first := Sanitize(input)
	for i := 0; i < 10; i++ {
		if got := Sanitize(input); got != first {
			t.Fatalf("Sanitize not deterministic: %q vs %q", got, first)
		}
	}
	if first != "Hello world" {
		t.Errorf("Expected 'Hello world', got %q", first)
	}
}
