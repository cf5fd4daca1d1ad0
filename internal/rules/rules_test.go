package rules

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/okpulse/urlsig/internal/core"
)

const exampleRules = `
sites:
  - domain: example.com
    templates:
      - pattern: "^/news/(?P<ID>[0-9]+)"
        query_params:
          Page: p
        template: 'https://example.com/news/{{ .ID }}{{ with index . "Page" }}?p={{ . }}{{ end }}'
      - pattern: "^/u/(?P<User>[^/]+)"
        transform:
          User: lowercase
        template: "https://example.com/u/{{ .User }}"
      - query_params:
          Ref: id
        template: "https://example.com/ref/{{ .Ref }}"
    tests:
      - url: "https://www.example.com/news/12/./?utm=x"
        expected: "https://example.com/news/12"
      - url: "https://example.com/u/Alice/"
        expected: "https://example.com/u/alice"
  - domain: blog.example.org
    templates:
      - pattern: "^/(?P<Slug>[a-z-]+)$"
        template: "https://blog.example.org/{{ .Slug }}"
`

func mustParse(t *testing.T, src string) *Set {
	t.Helper()
	s, err := Parse([]byte(src))
	require.NoError(t, err)
	return s
}

func TestRewrite(t *testing.T) {
	s := mustParse(t, exampleRules)

	tests := []struct {
		name   string
		in     string
		want   string
		wantOK bool
	}{
		{"regexp", "https://example.com/news/42", "https://example.com/news/42", true},
		{"subdomain", "https://m.example.com/news/42?x=1", "https://example.com/news/42", true},
		{"query field", "https://example.com/news/42?p=3", "https://example.com/news/42?p=3", true},
		{"transform", "https://example.com/u/BoB", "https://example.com/u/bob", true},
		{"no pattern", "https://example.com/anything?id=7", "https://example.com/ref/7", true},
		{"no fields", "https://example.com/anything", "", false},
		{"other host", "https://example.net/news/42", "", false},
		{"lookalike host", "https://notexample.com/news/42", "", false},
		{"parent of site domain", "https://example.org/x", "", false},
		{"sibling subdomain", "https://shop.example.org/x", "", false},
		{"site subdomain", "https://blog.example.org/hello-world", "https://blog.example.org/hello-world", true},
		{"host case and port", "https://WWW.Example.COM:8443/news/1", "https://example.com/news/1", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok, err := s.Rewrite(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"bad yaml", "sites: [\n"},
		{"unknown field", "sites:\n  - domain: example.com\n    bogus: 1\n    templates:\n      - template: x\n"},
		{"public suffix", "sites:\n  - domain: co.uk\n    templates:\n      - template: x\n"},
		{"empty domain", "sites:\n  - domain: \"\"\n    templates:\n      - template: x\n"},
		{"no templates", "sites:\n  - domain: example.com\n"},
		{"bad regexp", "sites:\n  - domain: example.com\n    templates:\n      - pattern: \"(\"\n        template: x\n"},
		{"bad template", "sites:\n  - domain: example.com\n    templates:\n      - template: \"{{ .X \"\n"},
		{"unknown transform", "sites:\n  - domain: example.com\n    templates:\n      - template: x\n        transform:\n          X: rot13\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.src))
			assert.Error(t, err)
		})
	}
}

func TestParseRuleErrorDetails(t *testing.T) {
	_, err := Parse([]byte("sites:\n  - domain: Example.com\n    templates:\n      - template: ok\n      - pattern: \"[\"\n        template: x\n"))
	require.Error(t, err)

	var re *RuleError
	require.True(t, errors.As(err, &re))
	assert.Equal(t, "example.com", re.Domain)
	assert.Equal(t, 1, re.Template)
}

func TestRewriteMissingField(t *testing.T) {
	s := mustParse(t, `
sites:
  - domain: example.com
    templates:
      - pattern: "^/(?P<A>[a-z]+)"
        template: "https://example.com/{{ .B }}"
`)
	_, _, err := s.Rewrite("https://example.com/abc")

	var re *RuleError
	require.True(t, errors.As(err, &re))
	assert.Equal(t, 0, re.Template)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte(exampleRules), 0o600))

	s, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, s.Sites, 2)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestVerify(t *testing.T) {
	s := mustParse(t, exampleRules)
	assert.Empty(t, s.Verify())
	assert.Equal(t, 2, s.Count())

	bad := mustParse(t, `
sites:
  - domain: example.com
    templates:
      - pattern: "^/a/(?P<X>[0-9]+)"
        template: "https://example.com/a/{{ .X }}"
    tests:
      - url: "https://example.com/a/1"
        expected: "https://example.com/a/2"
      - url: "https://example.com/b"
        expected: "https://example.com/b"
      - url: "https://example.com/a/1"
        expected: "https://example.com/a/1"
        signature: "0000"
      - url: "nope"
        expected: "x"
`)
	failures := bad.Verify()
	require.Len(t, failures, 4)
	assert.Equal(t, "https://example.com/a/1", failures[0].Got)
	assert.ErrorIs(t, failures[1].Err, ErrNoMatch)
	assert.Equal(t, core.Sign("https://example.com/a/1"), failures[2].Got)
	assert.ErrorIs(t, failures[3].Err, core.ErrInvalidURL)
	assert.Contains(t, failures[0].String(), "want https://example.com/a/2")
}

func TestDefaultRules(t *testing.T) {
	s, err := Default()
	require.NoError(t, err)
	assert.NotEmpty(t, s.Sites)
	assert.Empty(t, s.Verify())
}

func TestSetAsPipelineRewriter(t *testing.T) {
	s, err := Default()
	require.NoError(t, err)
	p := core.NewPipeline(s, nil)

	a, err := p.Sign("https://youtu.be/dQw4w9WgXcQ")
	require.NoError(t, err)
	b, err := p.Sign("https://www.youtube.com/watch?v=dQw4w9WgXcQ&list=xyz")
	require.NoError(t, err)
	assert.Equal(t, a, b)
}
