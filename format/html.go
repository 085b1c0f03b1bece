package format

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// ignoredTags contains HTML tags whose content is never translated.
var ignoredTags = map[string]bool{
	"script":   true,
	"style":    true,
	"code":     true,
	"pre":      true,
	"textarea": true,
	"noscript": true,
}

// HTMLHandler extracts the text nodes of an HTML document and writes their
// translations back in place, preserving markup and surrounding whitespace.
// Elements carrying a data-no-translate attribute are left alone.
type HTMLHandler struct {
	ignoredTags map[string]bool
}

// NewHTMLHandler creates an HTML handler with the default ignored tags.
func NewHTMLHandler() *HTMLHandler {
	return &HTMLHandler{ignoredTags: ignoredTags}
}

// parsedHTML holds the parsed document and the text nodes selected for
// translation, positional with the extracted segments.
type parsedHTML struct {
	doc   *goquery.Document
	nodes []*html.Node
}

// Extract parses the document and collects its translatable text nodes.
func (h *HTMLHandler) Extract(content string) (any, []string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return nil, nil, fmt.Errorf("parsing html: %w", err)
	}

	var nodes []*html.Node
	var segments []string

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if h.ignoredTags[strings.ToLower(n.Data)] {
				return
			}
			for _, attr := range n.Attr {
				if attr.Key == "data-no-translate" {
					return
				}
			}
		}

		if n.Type == html.TextNode {
			if trimmed := strings.TrimSpace(n.Data); trimmed != "" {
				nodes = append(nodes, n)
				segments = append(segments, trimmed)
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	for _, root := range doc.Nodes {
		walk(root)
	}

	return &parsedHTML{doc: doc, nodes: nodes}, segments, nil
}

// Apply writes translations back into the matching text nodes, keeping each
// node's original leading and trailing whitespace.
func (h *HTMLHandler) Apply(doc any, translated []string) (string, error) {
	ph, ok := doc.(*parsedHTML)
	if !ok {
		return "", fmt.Errorf("unexpected document type %T", doc)
	}
	if len(translated) != len(ph.nodes) {
		return "", fmt.Errorf("expected %d segments, got %d", len(ph.nodes), len(translated))
	}

	for i, n := range ph.nodes {
		orig := n.Data
		trimmed := strings.TrimSpace(orig)
		prefix := orig[:strings.Index(orig, trimmed)]
		suffix := orig[strings.Index(orig, trimmed)+len(trimmed):]
		n.Data = prefix + translated[i] + suffix
	}

	out, err := ph.doc.Html()
	if err != nil {
		return "", fmt.Errorf("rendering html: %w", err)
	}
	return out, nil
}

// SetLangAttribute sets the lang attribute on the document's <html> tag.
// Returns the input unchanged if it has no <html> element.
func SetLangAttribute(content, lang string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return content
	}

	htmlTag := doc.Find("html")
	if htmlTag.Length() == 0 {
		return content
	}
	htmlTag.SetAttr("lang", strings.ToLower(lang))

	out, err := doc.Html()
	if err != nil {
		return content
	}
	return out
}
