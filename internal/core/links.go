package core

import (
	"io"
	"net/url"
	"strings"

	"golang.org/x/net/html"
)

// ExtractLinks returns the http(s) targets of every <a href> in the document,
// resolved against base, in document order.
func ExtractLinks(r io.Reader, base *url.URL) ([]*url.URL, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, err
	}
	links := []*url.URL{}
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.ElementNode && strings.EqualFold(node.Data, "a") {
			for _, a := range node.Attr {
				if !strings.EqualFold(a.Key, "href") {
					continue
				}
				raw := strings.TrimSpace(a.Val)
				if raw == "" {
					break
				}
				if u, err := base.Parse(raw); err == nil && (u.Scheme == "http" || u.Scheme == "https") {
					links = append(links, u)
				}
				break
			}
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return links, nil
}
