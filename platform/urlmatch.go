package platform

import (
	"net/url"
	"regexp"
)

// URLPredicate matches a parsed URL. A panic inside the predicate is
// swallowed and folded into a non-match.
type URLPredicate func(*url.URL) bool

// URLMatches reports whether rawURL satisfies matcher.
//
// matcher is polymorphic:
//   - nil always matches
//   - string requires byte-for-byte equality with rawURL
//   - *regexp.Regexp is tested against the raw URL text
//   - URLPredicate (or func(*url.URL) bool) receives the parsed URL
//
// The predicate path is deliberately permissive: if parsing fails or the
// predicate panics, the match silently resolves to false rather than
// propagating. Any other matcher type never matches.
func URLMatches(rawURL string, matcher any) bool {
	switch m := matcher.(type) {
	case nil:
		return true
	case string:
		return rawURL == m
	case *regexp.Regexp:
		return m != nil && m.MatchString(rawURL)
	case URLPredicate:
		return matchParsed(rawURL, m)
	case func(*url.URL) bool:
		return matchParsed(rawURL, m)
	default:
		return false
	}
}

func matchParsed(rawURL string, predicate func(*url.URL) bool) (matched bool) {
	if predicate == nil {
		return false
	}
	defer func() {
		if recover() != nil {
			matched = false
		}
	}()
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	return predicate(u)
}
