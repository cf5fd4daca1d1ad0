// Package rules rewrites normalized URLs into per-site canonical URLs.
//
// A rule set is a YAML document listing sites. Each site names a domain and an
// ordered list of templates. A template pulls fields out of the URL (named
// regexp groups on the path, query parameters), optionally transforms them, and
// renders a text/template into the canonical URL. Sites may carry test cases
// that Verify replays.
package rules

import (
	_ "embed"
	"errors"
	"fmt"
	"net/url"
	"os"
	"regexp"
	"strings"
	"text/template"

	"github.com/goccy/go-yaml"
)

//go:embed default.yaml
var defaultYAML []byte

var ErrNoMatch = errors.New("no matching rule")

// RuleError reports an invalid or failing rule.
type RuleError struct {
	Domain   string
	Template int // index within the site, -1 for site-level problems
	Err      error
}

func (e *RuleError) Error() string {
	if e.Template < 0 {
		return fmt.Sprintf("rules: site %q: %v", e.Domain, e.Err)
	}
	return fmt.Sprintf("rules: site %q template %d: %v", e.Domain, e.Template, e.Err)
}

func (e *RuleError) Unwrap() error { return e.Err }

type Template struct {
	Pattern     string            `yaml:"pattern"`
	QueryParams map[string]string `yaml:"query_params"`
	Transform   map[string]string `yaml:"transform"`
	Template    string            `yaml:"template"`

	re   *regexp.Regexp
	tmpl *template.Template
}

type TestCase struct {
	URL       string `yaml:"url"`
	Expected  string `yaml:"expected"`
	Signature string `yaml:"signature,omitempty"`
}

type Site struct {
	Domain    string     `yaml:"domain"`
	Templates []Template `yaml:"templates"`
	Tests     []TestCase `yaml:"tests"`
}

// Set is a compiled rule set. It is immutable after Parse and safe for
// concurrent use.
type Set struct {
	Sites []Site `yaml:"sites"`

	byRoot map[string][]int // registrable domain -> site indexes, file order
}

var transforms = map[string]func(string) string{
	"lowercase": strings.ToLower,
	"uppercase": strings.ToUpper,
	"trim":      strings.TrimSpace,
}

// Parse decodes and compiles a YAML rule set.
func Parse(data []byte) (*Set, error) {
	var s Set
	if err := yaml.UnmarshalWithOptions(data, &s, yaml.DisallowUnknownField()); err != nil {
		return nil, fmt.Errorf("parsing rules YAML: %w", err)
	}
	if err := s.compile(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Load reads and compiles the rule set at path.
func Load(path string) (*Set, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading rules: %w", err)
	}
	return Parse(data)
}

// Default returns the embedded rule set.
func Default() (*Set, error) {
	return Parse(defaultYAML)
}

func (s *Set) compile() error {
	s.byRoot = make(map[string][]int, len(s.Sites))
	for i := range s.Sites {
		site := &s.Sites[i]
		site.Domain = strings.ToLower(strings.TrimSpace(site.Domain))
		root, err := registrableDomain(site.Domain)
		if err != nil {
			return &RuleError{Domain: site.Domain, Template: -1, Err: err}
		}
		if len(site.Templates) == 0 {
			return &RuleError{Domain: site.Domain, Template: -1, Err: errors.New("no templates")}
		}
		for j := range site.Templates {
			if err := site.Templates[j].compile(); err != nil {
				return &RuleError{Domain: site.Domain, Template: j, Err: err}
			}
		}
		s.byRoot[root] = append(s.byRoot[root], i)
	}
	return nil
}

func (t *Template) compile() error {
	if strings.TrimSpace(t.Template) == "" {
		return errors.New("empty template")
	}
	tmpl, err := template.New("url").Option("missingkey=error").Parse(t.Template)
	if err != nil {
		return fmt.Errorf("parsing template: %w", err)
	}
	t.tmpl = tmpl
	if t.Pattern != "" {
		re, err := regexp.Compile(t.Pattern)
		if err != nil {
			return fmt.Errorf("compiling pattern: %w", err)
		}
		t.re = re
	}
	for field, name := range t.Transform {
		if _, ok := transforms[name]; !ok {
			return fmt.Errorf("unknown transform %q for field %q", name, field)
		}
	}
	return nil
}

// fields extracts the template inputs from u. It returns nil when nothing
// could be extracted.
func (t *Template) fields(u *url.URL) map[string]string {
	out := make(map[string]string)
	if t.re != nil {
		if m := t.re.FindStringSubmatch(u.Path); m != nil {
			for i, name := range t.re.SubexpNames() {
				if i > 0 && name != "" && m[i] != "" {
					out[name] = m[i]
				}
			}
		}
	}
	if len(t.QueryParams) > 0 {
		q := u.Query()
		for field, param := range t.QueryParams {
			if v := q.Get(param); v != "" {
				out[field] = v
			}
		}
	}
	for field, name := range t.Transform {
		if v, ok := out[field]; ok {
			out[field] = transforms[name](v)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func (t *Template) render(fields map[string]string) (string, error) {
	var sb strings.Builder
	if err := t.tmpl.Execute(&sb, fields); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// Rewrite maps a normalized URL to the canonical URL of the first site that
// covers its host. ok is false when no site or template applies.
func (s *Set) Rewrite(normalized string) (string, bool, error) {
	u, err := url.Parse(normalized)
	if err != nil {
		return "", false, err
	}
	site := s.siteFor(u.Hostname())
	if site == nil {
		return "", false, nil
	}
	for j := range site.Templates {
		t := &site.Templates[j]
		if t.re != nil && !t.re.MatchString(u.Path) {
			continue
		}
		fields := t.fields(u)
		if fields == nil {
			continue
		}
		out, err := t.render(fields)
		if err != nil {
			return "", false, &RuleError{Domain: site.Domain, Template: j, Err: err}
		}
		return out, true, nil
	}
	return "", false, nil
}

func (s *Set) siteFor(host string) *Site {
	host = strings.ToLower(strings.TrimSuffix(host, "."))
	root, err := registrableDomain(host)
	if err != nil {
		return nil
	}
	for _, i := range s.byRoot[root] {
		if covers(s.Sites[i].Domain, host) {
			return &s.Sites[i]
		}
	}
	return nil
}
