package view

import (
	"html"
	"html/template"
	"strings"

	"github.com/PuerkitoBio/goquery"
	nethtml "golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Catalog summaries are HTML fragments. Only simple formatting survives;
// attributes are always dropped.
var summaryTags = map[atom.Atom]bool{
	atom.P:      true,
	atom.B:      true,
	atom.I:      true,
	atom.Em:     true,
	atom.Strong: true,
	atom.Br:     true,
	atom.Ul:     true,
	atom.Ol:     true,
	atom.Li:     true,
}

// SanitizeSummary reduces a catalog summary to allowlisted markup.
func SanitizeSummary(raw string) template.HTML {
	if strings.TrimSpace(raw) == "" {
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
	if err != nil {
		return template.HTML(html.EscapeString(raw)) //nolint:gosec // escaped
	}

	var b strings.Builder
	for _, n := range doc.Find("body").Nodes {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			writeSummaryNode(&b, c)
		}
	}
	return template.HTML(b.String()) //nolint:gosec // built from escaped text and fixed tags
}

// SummaryText returns the summary with all markup removed and whitespace
// collapsed.
func SummaryText(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
	if err != nil {
		return strings.Join(strings.Fields(raw), " ")
	}
	body := doc.Find("body")
	body.Find("script, style").Remove()
	return strings.Join(strings.Fields(body.Text()), " ")
}

func writeSummaryNode(b *strings.Builder, n *nethtml.Node) {
	switch n.Type {
	case nethtml.TextNode:
		b.WriteString(html.EscapeString(n.Data))
	case nethtml.ElementNode:
		if n.DataAtom == atom.Script || n.DataAtom == atom.Style {
			return
		}
		keep := summaryTags[n.DataAtom]
		if keep {
			b.WriteString("<" + n.DataAtom.String() + ">")
		}
		if n.DataAtom == atom.Br {
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			writeSummaryNode(b, c)
		}
		if keep {
			b.WriteString("</" + n.DataAtom.String() + ">")
		}
	}
}
