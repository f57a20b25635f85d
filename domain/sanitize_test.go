package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSanitize(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"hello", "hello"},
		{"<b>", "&lt;b&gt;"},
		{`say "hi"`, "say &quot;hi&quot;"},
		{"it's", "it&#x27;s"},
		{"a/b", "a&#x2F;b"},
		{"<script>alert('x')</script>", "&lt;script&gt;alert(&#x27;x&#x27;)&lt;&#x2F;script&gt;"},
		// Ampersands are not part of the escaped set
		{"fish & chips", "fish & chips"},
	}
	for _, c := range cases {
		t.Run(c.in, func(t *testing.T) {
			require.Equal(t, c.want, Sanitize(c.in))
		})
	}
}

func TestSanitize_Leaves_No_Raw_Markup(t *testing.T) {
	req := require.New(t)
	inputs := []string{
		`<img src="x" onerror='alert(1)'/>`,
		"<<>>//''\"\"",
		"no markup at all",
		"日本語 <i>text</i>",
	}
	for _, in := range inputs {
		out := Sanitize(in)
		req.False(strings.ContainsAny(out, `<>"'/`), "raw markup left in %q", out)
	}
}

func TestSanitize_Does_Not_Cascade(t *testing.T) {
	req := require.New(t)
	// The ";" and "&" produced for one character are never escaped again
	req.Equal("&lt;", Sanitize("<"))
	req.Equal("&lt;", Sanitize(Sanitize("<")))
	req.Equal("&amp;lt;", Sanitize("&amp;lt;"))
}
