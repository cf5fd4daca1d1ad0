package rules

import (
	"fmt"

	"github.com/okpulse/urlsig/internal/core"
)

// Failure is one test case that did not produce its expected output.
type Failure struct {
	Domain string
	URL    string
	Want   string
	Got    string
	Err    error
}

func (f Failure) String() string {
	if f.Err != nil {
		return fmt.Sprintf("%s: %s: %v", f.Domain, f.URL, f.Err)
	}
	return fmt.Sprintf("%s: %s: want %s, got %s", f.Domain, f.URL, f.Want, f.Got)
}

// Verify replays every test case in the set through normalization, the whole
// rule set and, when a signature is given, signing.
func (s *Set) Verify() []Failure {
	p := core.NewPipeline(s, nil)
	var failures []Failure
	for _, site := range s.Sites {
		for _, tc := range site.Tests {
			if f, ok := s.check(p, site.Domain, tc); !ok {
				failures = append(failures, f)
			}
		}
	}
	return failures
}

// Count returns the number of test cases in the set.
func (s *Set) Count() int {
	n := 0
	for _, site := range s.Sites {
		n += len(site.Tests)
	}
	return n
}

func (s *Set) check(p *core.Pipeline, domain string, tc TestCase) (Failure, bool) {
	fail := Failure{Domain: domain, URL: tc.URL}

	normalized, err := core.NormalizeURL(tc.URL)
	if err != nil {
		fail.Err = err
		return fail, false
	}
	got, ok, err := s.Rewrite(normalized)
	if err != nil {
		fail.Err = err
		return fail, false
	}
	if !ok {
		fail.Err = ErrNoMatch
		return fail, false
	}
	if got != tc.Expected {
		fail.Want, fail.Got = tc.Expected, got
		return fail, false
	}
	if tc.Signature == "" {
		return fail, true
	}
	sig, err := p.Sign(tc.URL)
	if err != nil {
		fail.Err = err
		return fail, false
	}
	if sig != tc.Signature {
		fail.Want, fail.Got = tc.Signature, sig
		return fail, false
	}
	return fail, true
}
