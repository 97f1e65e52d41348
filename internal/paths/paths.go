// Package paths holds the canonical form used for stored redirect source
// paths. Every comparison against stored rules must go through Normalize so
// lookups and uniqueness checks agree with what the store persists.
package paths

import (
	"net/url"
	"sort"
	"strings"
)

// Normalize converts a user-entered source path into its stored form:
// surrounding whitespace is removed, only the path and query components are
// kept, the path gains a leading slash and loses a single trailing slash
// (except for the root path), and query-string components are sorted
// alphabetically so equivalent query orders compare equal.
func Normalize(raw string) string {
	raw = strings.TrimSpace(raw)

	parsed, err := url.Parse(raw)
	if err != nil {
		// Unparseable input falls back to treating the whole string as a path.
		parsed = &url.URL{Path: raw}
	}

	path := parsed.EscapedPath()
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	if len(path) > 1 && strings.HasSuffix(path, "/") {
		path = path[:len(path)-1]
	}

	if parsed.RawQuery != "" {
		components := strings.Split(parsed.RawQuery, "&")
		sort.Strings(components)
		path = path + "?" + strings.Join(components, "&")
	}

	return path
}
