package search

import (
	"net/url"
	"strings"
)

// redirectParam carries the destination in DuckDuckGo links such as
// https://duckduckgo.com/l/?uddg=https%3A%2F%2Fwww.python.org%2F&rut=...
const redirectParam = "uddg"

// ResolveResultURL unwraps a results-page href into the destination URL.
// It returns false for advertisement links, which must be dropped.
func ResolveResultURL(rawHref string, adMarkers []string) (string, bool) {
	if u, err := url.Parse(rawHref); err == nil {
		if target := u.Query().Get(redirectParam); target != "" {
			if decoded, err := url.PathUnescape(target); err == nil {
				target = decoded
			}
			if isAdURL(target, adMarkers) {
				return "", false
			}
			return normalizeScheme(target), true
		}
	}

	if isAdURL(rawHref, adMarkers) {
		return "", false
	}
	return normalizeScheme(rawHref), true
}

func isAdURL(link string, adMarkers []string) bool {
	for _, marker := range adMarkers {
		if marker != "" && strings.Contains(link, marker) {
			return true
		}
	}
	return false
}

func normalizeScheme(link string) string {
	switch {
	case strings.HasPrefix(link, "//"):
		return "https:" + link
	case strings.HasPrefix(link, "http://"), strings.HasPrefix(link, "https://"):
		return link
	default:
		return "https://" + link
	}
}
