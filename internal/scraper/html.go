package scraper

import (
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// HTMLDocument adapts a goquery document to the Document interface.
// Relative and protocol-relative frame srcs are resolved against the
// document URL when one is known, the way a browser reports iframe.src.
type HTMLDocument struct {
	doc *goquery.Document
}

// NewHTMLDocument wraps an already parsed document. doc.Url, if set, is
// used as the base URL.
func NewHTMLDocument(doc *goquery.Document) *HTMLDocument {
	return &HTMLDocument{doc: doc}
}

// ParseHTML parses an HTML page. base may be nil.
func ParseHTML(r io.Reader, base *url.URL) (*HTMLDocument, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}
	doc.Url = base
	return NewHTMLDocument(doc), nil
}

// Title returns the text of the first <title> element with ASCII
// whitespace stripped and collapsed, as document.title does. Other
// characters, NBSP included, are kept byte for byte.
func (d *HTMLDocument) Title() string {
	text := d.doc.Find("title").First().Text()
	return strings.Join(strings.FieldsFunc(text, isASCIISpace), " ")
}

func isASCIISpace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\f', '\r':
		return true
	}
	return false
}

// Frames returns every <iframe> in document order.
func (d *HTMLDocument) Frames() []Frame {
	var frames []Frame
	d.doc.Find("iframe").Each(func(_ int, s *goquery.Selection) {
		src := strings.TrimSpace(s.AttrOr("src", ""))
		frames = append(frames, FrameSrc(d.resolve(src)))
	})
	return frames
}

func (d *HTMLDocument) resolve(src string) string {
	if d.doc.Url == nil || src == "" {
		return src
	}
	ref, err := url.Parse(src)
	if err != nil || ref.IsAbs() {
		return src
	}
	return d.doc.Url.ResolveReference(ref).String()
}
