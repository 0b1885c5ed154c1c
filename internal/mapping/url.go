package mapping

import (
	"regexp"
	"strings"
)

var schemeRe = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9+.-]*:`)

// ResolveURL makes a media URL absolute against base.
//
//   - empty candidate -> nil
//   - absolute ("https://...", "data:...") or protocol-relative ("//cdn/...") -> unchanged
//   - "/path" -> base + "/path"
//   - "path" -> base + "/" + "path"
//
// base must be absolute (config.Init rejects anything else); only then is
// applying ResolveURL to its own output guaranteed to return the same value.
func ResolveURL(candidate, base string) *string {
	candidate = strings.TrimSpace(candidate)
	if candidate == "" {
		return nil
	}

	if schemeRe.MatchString(candidate) || strings.HasPrefix(candidate, "//") {
		return &candidate
	}

	base = strings.TrimRight(base, "/")

	var resolved string
	if strings.HasPrefix(candidate, "/") {
		resolved = base + candidate
	} else {
		resolved = base + "/" + candidate
	}
	return &resolved
}

// resolveAll resolves every media reference and drops the ones without a URL.
func resolveAll(media []Media, base string) []string {
	out := make([]string, 0, len(media))
	for _, m := range media {
		if u := ResolveURL(m.URL, base); u != nil {
			out = append(out, *u)
		}
	}
	return out
}
