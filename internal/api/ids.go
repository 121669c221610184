package api

import (
	"net/url"
	"strings"
)

// idPath joins base with path-escaped segments. Ids are opaque to the
// console and go to the backend exactly as given.
func idPath(base string, segments ...string) string {
	var b strings.Builder
	b.WriteString(base)
	for _, s := range segments {
		b.WriteByte('/')
		b.WriteString(url.PathEscape(s))
	}
	return b.String()
}
