package core

import (
	"fmt"
	"net/url"
	"slices"
	"strings"
	"unicode/utf8"
)

// Schemes that are meaningless without an authority.
var hostSchemes = map[string]struct{}{
	"http": {}, "https": {}, "ws": {}, "wss": {}, "ftp": {},
}

// NormalizeURL rewrites raw into its canonical form: dot segments in the path
// are resolved and the query pairs are sorted. Scheme, authority and fragment
// are kept as parsed. Percent-encoding is left exactly as written.
func NormalizeURL(raw string) (string, error) {
	if !utf8.ValidString(raw) {
		return "", ErrInvalidEncoding
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidURL, err)
	}
	if u.Scheme == "" {
		return "", fmt.Errorf("%w: missing scheme", ErrInvalidURL)
	}
	if _, ok := hostSchemes[u.Scheme]; ok && u.Host == "" {
		return "", fmt.Errorf("%w: missing host", ErrInvalidURL)
	}

	uu := *u
	if uu.Opaque == "" {
		escaped := RemoveDotSegments(u.EscapedPath())
		p, err := url.PathUnescape(escaped)
		if err != nil {
			return "", fmt.Errorf("%w: %w", ErrInvalidURL, err)
		}
		uu.Path, uu.RawPath = p, escaped
	}
	if uu.RawQuery != "" {
		uu.RawQuery = SortQuery(uu.RawQuery)
		if uu.RawQuery == "" {
			uu.ForceQuery = true
		}
	}
	return uu.String(), nil
}

// RemoveDotSegments resolves "." and ".." segments of an absolute path.
// A ".." that would climb above the root is dropped.
func RemoveDotSegments(p string) string {
	if !strings.HasPrefix(p, "/") {
		return p
	}
	in := strings.Split(p[1:], "/")
	out := make([]string, 0, len(in))
	for i, seg := range in {
		last := i == len(in)-1
		switch seg {
		case ".":
			if last {
				out = append(out, "")
			}
		case "..":
			if len(out) > 0 {
				out = out[:len(out)-1]
			}
			if last {
				out = append(out, "")
			}
		default:
			out = append(out, seg)
		}
	}
	return "/" + strings.Join(out, "/")
}

type queryPair struct {
	key, value string
	raw        string
}

// SortQuery orders the pairs of a raw query by key and then by value, comparing
// bytes. Identical pairs keep their order. Pairs are emitted verbatim and empty
// pairs are dropped. The delimiter is "&", except that a query with a single
// non-empty "&" piece containing ";" is split on ";" instead.
func SortQuery(raw string) string {
	sep := "&"
	pieces := nonEmpty(strings.Split(raw, sep))
	if len(pieces) == 1 && strings.Contains(pieces[0], ";") {
		sep = ";"
		pieces = nonEmpty(strings.Split(pieces[0], sep))
	}
	pairs := make([]queryPair, 0, len(pieces))
	for _, piece := range pieces {
		k, v, _ := strings.Cut(piece, "=")
		pairs = append(pairs, queryPair{key: k, value: v, raw: piece})
	}
	slices.SortStableFunc(pairs, func(a, b queryPair) int {
		if c := strings.Compare(a.key, b.key); c != 0 {
			return c
		}
		return strings.Compare(a.value, b.value)
	})

	var sb strings.Builder
	for i, p := range pairs {
		if i > 0 {
			sb.WriteString(sep)
		}
		sb.WriteString(p.raw)
	}
	return sb.String()
}

func nonEmpty(pieces []string) []string {
	out := pieces[:0]
	for _, p := range pieces {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
