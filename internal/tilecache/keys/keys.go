// Package keys builds cache keys for upstream responses. Keys stay readable
// for operators while a hash suffix keeps long query strings from colliding
// after truncation.
package keys

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/cespare/xxhash/v2"
)

// Key builds a cache key from the upstream layer, the request extent string
// and the response format.
func Key(layer, extent, format string) string {
	layerNorm := sanitize(strings.TrimSpace(layer))
	extentNorm := sanitize(strings.TrimSpace(extent))

	const maxExtentLen = 96
	if len(extentNorm) > maxExtentLen {
		extentNorm = extentNorm[:maxExtentLen]
	}

	sum := xxhash.Sum64String(layer + "|" + extent + "|" + format)

	return fmt.Sprintf("tile:%s:%s:%s:h=%016x", layerNorm, extentNorm, sanitize(format), sum)
}

func sanitize(s string) string {
	if s == "" {
		return ""
	}
	var b strings.Builder
	b.Grow(len(s))

	var prev rune
	for _, r := range s {
		out := rune(0)
		switch {
		case unicode.IsSpace(r):
			out = '_'
		case isAlphaNum(r) || r == '_' || r == '-' || r == '.' || r == ',':
			out = r
		default:
			// Any other rune (including non-ASCII) becomes '-'
			out = '-'
		}
		if (out == '_' || out == '-') && out == prev {
			continue
		}
		b.WriteRune(out)
		prev = out
	}
	return b.String()
}

func isAlphaNum(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}
