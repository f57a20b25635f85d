package transport

import (
	"fmt"
	"regexp"
	"strings"
)

// DefaultOriginPatterns are the development hosts and hosting platforms allowed out of the box.
var DefaultOriginPatterns = []string{
	"http://localhost:3000",
	"http://localhost:8080",
	"http://192.168.*.*:3000",
	"http://10.*.*.*:3000",
	"https://*.onrender.com",
	"https://*.vercel.app",
	"https://*.railway.app",
	"https://*.netlify.app",
}

// OriginMatcher checks an Origin header against allow-listed patterns.
// A "*" matches any run of characters, so "https://*.vercel.app" also accepts
// multi-label preview hosts. A lone "*" pattern matches every origin.
type OriginMatcher struct {
	anyOrigin bool
	patterns  []*regexp.Regexp
}

func NewOriginMatcher(patterns []string) (*OriginMatcher, error) {
	m := &OriginMatcher{}
	for _, pattern := range patterns {
		pattern = strings.TrimSpace(pattern)
		switch pattern {
		case "":
			continue
		case "*":
			m.anyOrigin = true
			continue
		}
		expr := "(?i)^" + strings.ReplaceAll(regexp.QuoteMeta(pattern), `\*`, `.*`) + "$"
		re, err := regexp.Compile(expr)
		if err != nil {
			return nil, fmt.Errorf("origin pattern %q: %w", pattern, err)
		}
		m.patterns = append(m.patterns, re)
	}
	return m, nil
}

func (m *OriginMatcher) Allowed(origin string) bool {
	if m.anyOrigin {
		return true
	}
	for _, re := range m.patterns {
		if re.MatchString(origin) {
			return true
		}
	}
	return false
}

// ParseOriginPatterns splits a comma separated list, an empty list means the defaults.
func ParseOriginPatterns(raw string) []string {
	var patterns []string
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			patterns = append(patterns, p)
		}
	}
	if len(patterns) == 0 {
		return DefaultOriginPatterns
	}
	return patterns
}
