package transport

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOriginMatcher_Defaults(t *testing.T) {
	matcher, err := NewOriginMatcher(DefaultOriginPatterns)
	require.NoError(t, err)

	tests := []struct {
		origin string
		want   bool
	}{
		{"http://localhost:3000", true},
		{"http://localhost:8080", true},
		{"http://localhost:4000", false},
		{"http://192.168.1.20:3000", true},
		{"http://10.0.0.7:3000", true},
		{"http://10.0.0.7:8080", false},
		{"https://chat.onrender.com", true},
		{"https://CHAT.Vercel.App", true},
		{"https://a.b.netlify.app", true},
		{"https://pr-1.my-app.vercel.app", true},
		{"https://vercel.app", false},
		{"http://chat.railway.app", false},
		{"https://vercel.app.evil.com", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.origin, func(t *testing.T) {
			require.Equal(t, tt.want, matcher.Allowed(tt.origin))
		})
	}
}

func TestOriginMatcher_Wildcard_Allows_Everything(t *testing.T) {
	req := require.New(t)
	matcher, err := NewOriginMatcher([]string{"*"})
	req.NoError(err)
	req.True(matcher.Allowed("https://anything.example.org"))
}

func TestParseOriginPatterns(t *testing.T) {
	req := require.New(t)
	req.Equal(DefaultOriginPatterns, ParseOriginPatterns(""))
	req.Equal(DefaultOriginPatterns, ParseOriginPatterns(" , "))
	req.Equal([]string{"https://a.example.com", "http://localhost:5173"},
		ParseOriginPatterns("https://a.example.com, http://localhost:5173"))
}
