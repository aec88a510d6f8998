package fetch

import (
	"html"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// noise is removed before text extraction.
const noise = "script, style, noscript, nav, header, footer, aside, form"

// blocks get a trailing space so adjacent blocks do not fuse words.
const blocks = "p, div, li, br, h1, h2, h3, h4, h5, h6, td, th, blockquote, section, article, figcaption"

// StripHTML returns the visible text of an HTML fragment with whitespace
// collapsed.
func StripHTML(fragment string) string {
	if !strings.ContainsRune(fragment, '<') {
		return collapse(fragment)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return collapse(fragment)
	}
	doc.Find("script, style").Remove()
	return textOf(doc.Selection)
}

// Extractor returns a function reducing an article page to its body text.
// The first selector matching the page wins; the whole body is used when
// none match. Preformatted blocks are kept as fenced code so code detection
// still sees them.
func Extractor(selectors ...string) func(page string) string {
	return func(page string) string {
		doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
		if err != nil {
			return ""
		}
		doc.Find(noise).Remove()

		root := doc.Find("body")
		for _, sel := range selectors {
			if found := doc.Find(sel).First(); found.Length() > 0 {
				root = found
				break
			}
		}

		root.Find("pre").Each(func(_ int, pre *goquery.Selection) {
			pre.ReplaceWithHtml("<p>``` " + html.EscapeString(pre.Text()) + " ```</p>")
		})
		return textOf(root)
	}
}

func textOf(sel *goquery.Selection) string {
	sel.Find(blocks).AppendHtml(" ")
	return collapse(sel.Text())
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
