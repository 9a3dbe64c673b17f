package parser

import (
	"regexp"
	"strings"
)

// locPattern mirrors how sitemap producers are actually seen in the wild:
// a bare <loc> element on one line, with arbitrary namespace noise around it.
var locPattern = regexp.MustCompile(`(?i)<loc>(.*?)</loc>`)

// LenientParser extracts <loc> values by tag scanning instead of decoding
// the document, so sitemaps with odd namespaces or whitespace still parse.
type LenientParser struct{}

func NewLenientParser() *LenientParser {
	return &LenientParser{}
}

func (p *LenientParser) Name() string {
	return "lenient"
}

func (p *LenientParser) Parse(xmlText string) Document {
	doc := Document{IsIndex: IsSitemapIndex(xmlText)}

	for _, loc := range ExtractLocs(xmlText) {
		doc.classify(loc)
	}

	return doc
}

// ExtractLocs returns every <loc> value in document order, trimmed.
func ExtractLocs(xmlText string) []string {
	matches := locPattern.FindAllStringSubmatch(xmlText, -1)
	locs := make([]string, 0, len(matches))
	for _, m := range matches {
		locs = append(locs, strings.TrimSpace(m[1]))
	}
	return locs
}

// IsSitemapIndex reports whether the body should be treated as a sitemap index.
func IsSitemapIndex(xmlText string) bool {
	return strings.Contains(xmlText, "<sitemapindex") || strings.Contains(xmlText, "<sitemap>")
}

// IsSitemapContent is the cheap sniff applied to every fetched body before parsing.
func IsSitemapContent(body string) bool {
	return strings.Contains(body, "<?xml") ||
		strings.Contains(body, "<urlset") ||
		strings.Contains(body, "<sitemapindex")
}

// classify applies the shared location rules. Under an index only .xml
// locations survive; non-xml entries there are dropped, not kept as pages.
func (d *Document) classify(loc string) {
	isXML := strings.HasSuffix(loc, ".xml")
	switch {
	case isXML:
		d.NestedSitemapURLs = append(d.NestedSitemapURLs, loc)
	case !d.IsIndex:
		d.PageURLs = append(d.PageURLs, loc)
	}
}
