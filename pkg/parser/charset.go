package parser

import (
	"bytes"
	"io"
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

var encodingDeclPattern = regexp.MustCompile(`encoding=["']([^"']+)["']`)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// DecodeBody converts a sitemap body to a UTF-8 string. Bodies that declare
// a single-byte Western encoding are transcoded; everything else is taken as
// UTF-8 with invalid sequences dropped.
func DecodeBody(raw []byte) string {
	raw = bytes.TrimPrefix(raw, utf8BOM)

	if enc := declaredEncoding(raw); enc != nil {
		converted, err := io.ReadAll(transform.NewReader(bytes.NewReader(raw), enc.NewDecoder()))
		if err == nil {
			return string(converted)
		}
	}

	if utf8.Valid(raw) {
		return string(raw)
	}
	return strings.ToValidUTF8(string(raw), "")
}

func declaredEncoding(raw []byte) encoding.Encoding {
	head := raw[:min(512, len(raw))]
	m := encodingDeclPattern.FindSubmatch(head)
	if len(m) < 2 {
		return nil
	}

	switch strings.ToLower(string(m[1])) {
	case "iso-8859-1", "latin1":
		return charmap.ISO8859_1
	case "iso-8859-15", "latin9":
		return charmap.ISO8859_15
	case "windows-1252", "cp1252":
		return charmap.Windows1252
	case "windows-1251", "cp1251":
		return charmap.Windows1251
	}
	return nil
}
