package rules

import (
	"errors"
	"strings"

	"golang.org/x/net/publicsuffix"
)

// registrableDomain returns the eTLD+1 of host. A host that is itself a public
// suffix (com, co.uk, github.io) has none and is rejected.
func registrableDomain(host string) (string, error) {
	if host == "" {
		return "", errors.New("empty domain")
	}
	etld1, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		return "", err
	}
	return strings.ToLower(etld1), nil
}

// covers reports whether host is domain or one of its subdomains.
func covers(domain, host string) bool {
	return host == domain || strings.HasSuffix(host, "."+domain)
}
