package manifest

import (
	"fmt"
	"net/url"
	"strings"
	"unicode"
	"unicode/utf8"

	"llmstxt-go/pkg/extractor"
)

// DefaultFallbackPageLimit bounds the "Main Pages" section.
const DefaultFallbackPageLimit = 30

// Page is one entry of the fallback manifest.
type Page struct {
	Title string
	URL   string
	Path  string
}

// NewPage derives a display title from the URL's path. Unparsable URLs are
// kept with the raw string as title and path.
func NewPage(rawURL string) Page {
	u, err := url.Parse(rawURL)
	if err != nil {
		return Page{Title: rawURL, URL: rawURL, Path: rawURL}
	}
	p := extractor.TrimPath(u.EscapedPath())
	return Page{Title: TitleFromPath(p), URL: rawURL, Path: p}
}

// TitleFromPath turns "about-us" into "About Us". Only the first letter of
// each hyphen-separated word changes; an empty path is "Home".
func TitleFromPath(p string) string {
	words := strings.Split(p, "-")
	for i, w := range words {
		words[i] = upperFirst(w)
	}
	title := strings.Join(words, " ")
	if title == "" {
		return "Home"
	}
	return title
}

func upperFirst(w string) string {
	r, size := utf8.DecodeRuneInString(w)
	if r == utf8.RuneError {
		return w
	}
	return string(unicode.ToUpper(r)) + w[size:]
}

// Fallback builds a deterministic manifest from the URL list alone.
func Fallback(urls []string, domain string, pageLimit int) string {
	if pageLimit <= 0 {
		pageLimit = DefaultFallbackPageLimit
	}

	var home *Page
	others := make([]Page, 0, len(urls))
	for _, u := range urls {
		page := NewPage(u)
		if page.Path == "" {
			if home == nil {
				home = &page
			}
			continue
		}
		others = append(others, page)
	}

	site := strings.TrimPrefix(domain, "www.")

	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n", site)

	if home != nil {
		fmt.Fprintf(&sb, "> Main website for %s\n\n", site)
	}

	sb.WriteString("This llms.txt file provides information about the website structure for AI systems.\n\n")

	if home != nil {
		sb.WriteString("## Home\n\n")
		fmt.Fprintf(&sb, "- [Home](%s): Main landing page\n\n", home.URL)
	}

	if len(others) > 0 {
		sb.WriteString("## Main Pages\n\n")

		shown := others
		if len(shown) > pageLimit {
			shown = shown[:pageLimit]
		}
		for _, page := range shown {
			fmt.Fprintf(&sb, "- [%s](%s): %s page\n", page.Title, page.URL, page.Path)
		}

		if len(others) > pageLimit {
			fmt.Fprintf(&sb, "\n... and %d more pages\n", len(others)-pageLimit)
		}
	}

	sb.WriteString("\n## AI Usage\n\n")
	sb.WriteString("This website allows AI systems to crawl and index its content for training purposes.\n")

	return sb.String()
}
