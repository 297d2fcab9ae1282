package textnorm

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	xhtml "golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var strictPolicy = bluemonday.StrictPolicy()

// textNodes are the elements whose content is preferred as the title text.
var textNodes = map[atom.Atom]bool{
	atom.P:    true,
	atom.H1:   true,
	atom.H2:   true,
	atom.H3:   true,
	atom.H4:   true,
	atom.H5:   true,
	atom.H6:   true,
	atom.Span: true,
}

// Extract returns the text of the first paragraph, heading or span in raw,
// falling back to the full text content. It never fails: markup the parser
// rejects is stripped with a strict sanitizer instead.
func Extract(raw string) string {
	doc, err := xhtml.Parse(strings.NewReader(raw))
	if err != nil {
		return strings.TrimSpace(html.UnescapeString(strictPolicy.Sanitize(raw)))
	}

	if n := findFirst(doc); n != nil {
		if text := strings.TrimSpace(textContent(n)); text != "" {
			return text
		}
	}

	return strings.TrimSpace(textContent(doc))
}

func findFirst(n *xhtml.Node) *xhtml.Node {
	if n.Type == xhtml.ElementNode && textNodes[n.DataAtom] {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findFirst(c); found != nil {
			return found
		}
	}
	return nil
}

func textContent(n *xhtml.Node) string {
	var sb strings.Builder
	var walk func(*xhtml.Node)
	walk = func(n *xhtml.Node) {
		switch n.Type {
		case xhtml.TextNode:
			sb.WriteString(n.Data)
		case xhtml.ElementNode:
			if n.DataAtom == atom.Script || n.DataAtom == atom.Style {
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}
