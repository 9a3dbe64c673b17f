package parser

import (
	"strings"

	sitemap "github.com/oxffaa/gopher-parse-sitemap"

	"llmstxt-go/pkg/logger"
)

// StructuralParser decodes the sitemap with a real XML decoder. It is stricter
// than LenientParser: a document the decoder rejects yields whatever entries
// were read before the error.
type StructuralParser struct {
	log *logger.Logger
}

func NewStructuralParser() *StructuralParser {
	return &StructuralParser{
		log: logger.GetLogger().WithField("component", "structural_parser"),
	}
}

func (p *StructuralParser) Name() string {
	return "structural"
}

func (p *StructuralParser) Parse(xmlText string) Document {
	doc := Document{IsIndex: IsSitemapIndex(xmlText)}

	var err error
	if doc.IsIndex {
		err = sitemap.ParseIndex(strings.NewReader(xmlText), func(e sitemap.IndexEntry) error {
			doc.classify(strings.TrimSpace(e.GetLocation()))
			return nil
		})
	} else {
		err = sitemap.Parse(strings.NewReader(xmlText), func(e sitemap.Entry) error {
			doc.classify(strings.TrimSpace(e.GetLocation()))
			return nil
		})
	}

	if err != nil {
		p.log.WithError(err).Debug("Structural sitemap decode stopped early")
	}

	return doc
}

// NewDocumentParser returns the parser registered under name, defaulting to lenient.
func NewDocumentParser(name string) DocumentParser {
	switch strings.ToLower(name) {
	case "structural", "xml":
		return NewStructuralParser()
	default:
		return NewLenientParser()
	}
}
