// Package text turns fetched article pages into plain text for scoring.
package text

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/gabriel-vasile/mimetype"
	readability "github.com/go-shiori/go-readability"
	"github.com/ledongthuc/pdf"
)

// Extraction modes.
const (
	ModeSelector    = "selector"
	ModeReadability = "readability"
	ModeBody        = "body"
	ModePDF         = "pdf"
)

// ErrNotText marks bodies that are neither text nor a readable PDF.
var ErrNotText = errors.New("body is not text")

// ErrNoContent marks pages where the configured content block is absent.
var ErrNoContent = errors.New("content block not found")

var sectionCuts = []string{"References", "REFERENCES", "Acknowledgements", "ACKNOWLEDGEMENTS"}

// Extractor pulls the article text out of an HTML page.
type Extractor struct {
	mode     string
	selector string
}

// NewExtractor validates the mode; an empty mode means body.
func NewExtractor(mode, selector string) (Extractor, error) {
	switch mode {
	case "":
		mode = ModeBody
	case ModeBody, ModeReadability, ModePDF:
	case ModeSelector:
		if selector == "" {
			return Extractor{}, fmt.Errorf("text mode selector needs a selector")
		}
	default:
		return Extractor{}, fmt.Errorf("unknown text mode %q", mode)
	}
	return Extractor{mode: mode, selector: selector}, nil
}

// Extract returns the cleaned text of body. PDF bodies are read in every
// mode; the pdf mode accepts nothing else.
func (e Extractor) Extract(body, pageURL string) (string, error) {
	raw := []byte(body)
	if IsPDF(raw) {
		text, err := pdfText(raw)
		if err != nil {
			return "", err
		}
		return StripSections(Normalize(text)), nil
	}
	if !IsText(raw) {
		return "", ErrNotText
	}

	var (
		text string
		err  error
	)
	switch e.mode {
	case ModePDF:
		return "", fmt.Errorf("%s did not return a pdf: %w", pageURL, ErrNoContent)
	case ModeReadability:
		text, err = readable(body, pageURL)
	case ModeSelector:
		text, err = selected(body, e.selector)
	default:
		text, err = selected(body, "body")
	}
	if err != nil {
		return "", err
	}

	return StripSections(Normalize(text)), nil
}

// SourceURL returns the address to fetch for an article page. The pdf mode
// fetches the ".pdf" sibling of the page.
func (e Extractor) SourceURL(pageURL string) string {
	if e.mode != ModePDF || strings.HasSuffix(strings.ToLower(pageURL), ".pdf") {
		return pageURL
	}
	return pageURL + ".pdf"
}

// IsPDF reports whether body sniffs as a PDF document.
func IsPDF(body []byte) bool {
	return mimetype.Detect(body).Is("application/pdf")
}

func pdfText(body []byte) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: read pdf: %v", ErrNotText, r)
		}
	}()

	doc, err := pdf.NewReader(bytes.NewReader(body), int64(len(body)))
	if err != nil {
		return "", fmt.Errorf("%w: read pdf: %v", ErrNotText, err)
	}
	plain, err := doc.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("%w: read pdf: %v", ErrNotText, err)
	}
	var buf strings.Builder
	if _, err := io.Copy(&buf, plain); err != nil {
		return "", fmt.Errorf("read pdf text: %w", err)
	}
	return buf.String(), nil
}

// IsText reports whether the sniffed type of body is textual.
func IsText(body []byte) bool {
	if len(body) == 0 {
		return true
	}
	for mt := mimetype.Detect(body); mt != nil; mt = mt.Parent() {
		if mt.Is("text/plain") {
			return true
		}
	}
	return false
}

// StripSections cuts text at the first reference or acknowledgement heading.
func StripSections(text string) string {
	for _, marker := range sectionCuts {
		if idx := strings.Index(text, marker); idx >= 0 {
			text = text[:idx]
		}
	}
	return strings.TrimSpace(text)
}

// Normalize collapses whitespace runs into single spaces.
func Normalize(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

func selected(body, selector string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("parse page: %w", err)
	}
	doc.Find("script, style, noscript").Remove()

	sel := doc.Find(selector)
	if sel.Length() == 0 {
		return "", ErrNoContent
	}

	parts := make([]string, 0, sel.Length())
	sel.Each(func(_ int, s *goquery.Selection) {
		parts = append(parts, spacedText(s))
	})
	return strings.Join(parts, " "), nil
}

// spacedText joins text nodes with spaces so adjacent block elements do not
// fuse their words together.
func spacedText(sel *goquery.Selection) string {
	var b strings.Builder
	sel.Contents().Each(func(_ int, n *goquery.Selection) {
		if goquery.NodeName(n) == "#text" {
			b.WriteString(n.Text())
		} else {
			b.WriteString(spacedText(n))
		}
		b.WriteByte(' ')
	})
	return b.String()
}

func readable(body, pageURL string) (string, error) {
	parsed, err := url.Parse(pageURL)
	if err != nil {
		return "", fmt.Errorf("parse page url: %w", err)
	}
	article, err := readability.FromReader(strings.NewReader(body), parsed)
	if err != nil {
		return "", fmt.Errorf("readability: %w", err)
	}
	if strings.TrimSpace(article.TextContent) == "" {
		return "", ErrNoContent
	}
	return article.TextContent, nil
}
