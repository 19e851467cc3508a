package query

import (
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strings"
)

var (
	// ErrInvalidURL is returned when the input URL or its query cannot be parsed.
	ErrInvalidURL = errors.New("query: invalid url")

	// ErrNestedMapping is returned when a mapping value contains another mapping.
	// Only one level of bracket notation is supported.
	ErrNestedMapping = errors.New("query: nested mapping not supported")
)

// bracketRestorer turns encoded brackets in keys back into literals.
var bracketRestorer = strings.NewReplacer("%5B", "[", "%5D", "]")

// Normalize merges params into the query of rawURL and rewrites the query in
// canonical form. Supplied params override pairs already present in rawURL.
// params is not modified.
func Normalize(rawURL string, params Params) (string, error) {
	if !strings.Contains(rawURL, "?") && len(params) == 0 {
		return rawURL, nil
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}

	pairs, err := parseQuery(u.RawQuery)
	if err != nil {
		return "", err
	}
	if err := flatten(params, pairs); err != nil {
		return "", err
	}

	keys := make([]string, 0, len(pairs))
	for k := range pairs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var qs strings.Builder
	for i, k := range keys {
		if i > 0 {
			qs.WriteByte('&')
		}
		qs.WriteString(bracketRestorer.Replace(Encode(k)))
		qs.WriteByte('=')
		qs.WriteString(Encode(pairs[k]))
	}

	base, fragment := splitURL(rawURL)
	return base + "?" + qs.String() + fragment, nil
}

// MustNormalize is like Normalize but panics on error.
// Intended for constant URLs in tests and package-level variables.
func MustNormalize(rawURL string, params Params) string {
	s, err := Normalize(rawURL, params)
	if err != nil {
		panic(err)
	}
	return s
}

// parseQuery decodes a raw query into a map. The first occurrence of a
// duplicated key wins; '+' decodes to a space.
func parseQuery(raw string) (map[string]string, error) {
	out := make(map[string]string)
	for _, part := range strings.Split(raw, "&") {
		if part == "" {
			continue
		}
		k, v, _ := strings.Cut(part, "=")
		key, err := url.QueryUnescape(k)
		if err != nil {
			return nil, fmt.Errorf("%w: query key %q: %v", ErrInvalidURL, k, err)
		}
		val, err := url.QueryUnescape(v)
		if err != nil {
			return nil, fmt.Errorf("%w: query value for %q: %v", ErrInvalidURL, key, err)
		}
		if _, seen := out[key]; seen {
			continue
		}
		out[key] = val
	}
	return out, nil
}

// flatten writes params into dst, expanding mappings into key[prop] entries.
func flatten(params Params, dst map[string]string) error {
	names := make([]string, 0, len(params))
	for k := range params {
		names = append(names, k)
	}
	sort.Strings(names)

	for _, name := range names {
		v := params[name]
		if v.kind != KindMapping {
			dst[name] = v.text
			continue
		}
		for prop, inner := range v.fields {
			if inner.kind == KindMapping {
				return fmt.Errorf("%w: %s[%s]", ErrNestedMapping, name, prop)
			}
			dst[name+"["+prop+"]"] = inner.text
		}
	}
	return nil
}

// splitURL returns everything before the query or fragment, and the raw
// fragment including its '#', if any.
func splitURL(rawURL string) (base, fragment string) {
	base = rawURL
	if i := strings.IndexByte(base, '#'); i >= 0 {
		fragment = base[i:]
		base = base[:i]
	}
	if i := strings.IndexByte(base, '?'); i >= 0 {
		base = base[:i]
	}
	return base, fragment
}

const upperhex = "0123456789ABCDEF"

// Encode percent-encodes s as a URI component. Only ASCII letters, digits
// and - _ . ! ~ * ' ( ) are left as they are; everything else is encoded
// byte by byte, so a space becomes %20 rather than '+'.
func Encode(s string) string {
	n := 0
	for i := 0; i < len(s); i++ {
		if !unreserved(s[i]) {
			n++
		}
	}
	if n == 0 {
		return s
	}

	var b strings.Builder
	b.Grow(len(s) + 2*n)
	for i := 0; i < len(s); i++ {
		c := s[i]
		if unreserved(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(upperhex[c>>4])
		b.WriteByte(upperhex[c&15])
	}
	return b.String()
}

func unreserved(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	switch c {
	case '-', '_', '.', '!', '~', '*', '\'', '(', ')':
		return true
	}
	return false
}
