// Package paginate splits raw document text into an ordered sequence of
// pages, each further split into contiguous snippets. Splitting is a pure
// function of the input text and parameters: the same inputs always produce
// the same pagination, and concatenating the output (pages, or any page's
// snippets) reproduces the input byte-for-byte. Text is measured in runes,
// so multi-byte characters are never split; callers are expected to pass
// valid UTF-8.
package paginate

import (
	"errors"
	"fmt"
	"strings"
)

// Unit selects how page size is measured.
type Unit string

const (
	// UnitChars measures page size in characters (runes).
	UnitChars Unit = "chars"
	// UnitLines measures page size in lines.
	UnitLines Unit = "lines"
)

// ErrInvalidParams indicates unusable pagination parameters.
var ErrInvalidParams = errors.New("invalid pagination parameters")

// Params holds the pagination configuration.
type Params struct {
	PageSize        int
	SnippetsPerPage int
	Unit            Unit
}

// Validate checks that the parameters describe a usable pagination.
func (p Params) Validate() error {
	if p.PageSize <= 0 {
		return fmt.Errorf("%w: page size must be positive, got %d", ErrInvalidParams, p.PageSize)
	}
	if p.SnippetsPerPage <= 0 {
		return fmt.Errorf("%w: snippets per page must be positive, got %d", ErrInvalidParams, p.SnippetsPerPage)
	}
	switch p.Unit {
	case UnitChars, UnitLines:
	default:
		return fmt.Errorf("%w: unknown unit %q", ErrInvalidParams, p.Unit)
	}
	return nil
}

// Page is one page of the document: its 0-based index, raw text, and the
// snippets the text divides into. Concatenating Snippets in order yields
// Text exactly.
type Page struct {
	Index    int
	Text     string
	Snippets []string
}

// Document is the full pagination of one source text.
type Document struct {
	Pages  []Page
	Params Params
}

// PageCount returns the number of pages.
func (d *Document) PageCount() int {
	return len(d.Pages)
}

// Split paginates text according to p. Empty text yields a document with
// zero pages. The final page holds the remainder and may be shorter than
// PageSize; every page divides into at most SnippetsPerPage non-empty
// snippets, reduced to one snippet per unit when the page is shorter than
// the snippet count.
func Split(text string, p Params) (*Document, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	var pageTexts []string
	switch p.Unit {
	case UnitLines:
		pageTexts = splitByLines(text, p.PageSize)
	default:
		pageTexts = splitByChars(text, p.PageSize)
	}

	doc := &Document{Params: p, Pages: make([]Page, 0, len(pageTexts))}
	for i, pt := range pageTexts {
		doc.Pages = append(doc.Pages, Page{
			Index:    i,
			Text:     pt,
			Snippets: divide(pt, p.SnippetsPerPage, p.Unit),
		})
	}
	return doc, nil
}

// splitByChars cuts text into chunks of size runes; the last chunk keeps the
// remainder.
func splitByChars(text string, size int) []string {
	if text == "" {
		return nil
	}
	runes := []rune(text)
	pages := make([]string, 0, (len(runes)+size-1)/size)
	for start := 0; start < len(runes); start += size {
		end := min(start+size, len(runes))
		pages = append(pages, string(runes[start:end]))
	}
	return pages
}

// splitByLines cuts text after every size-th newline. Pages keep their
// trailing newline so concatenation reproduces the input; a final chunk
// without a newline still forms a page.
func splitByLines(text string, size int) []string {
	if text == "" {
		return nil
	}
	var pages []string
	start := 0
	count := 0
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			count++
			if count == size {
				pages = append(pages, text[start:i+1])
				start = i + 1
				count = 0
			}
		}
	}
	if start < len(text) {
		pages = append(pages, text[start:])
	}
	return pages
}

// divide splits one page's text into want roughly-equal snippets. With n
// units in the page, the first n%count snippets get one extra unit, so the
// total is preserved exactly. A page shorter than want yields n single-unit
// snippets.
func divide(text string, want int, unit Unit) []string {
	units := unitsOf(text, unit)
	n := len(units)
	if n == 0 {
		return nil
	}
	count := min(want, n)
	base := n / count
	rem := n % count

	out := make([]string, 0, count)
	idx := 0
	for i := 0; i < count; i++ {
		take := base
		if i < rem {
			take++
		}
		out = append(out, strings.Join(units[idx:idx+take], ""))
		idx += take
	}
	return out
}

// unitsOf decomposes page text into its measurement units: one string per
// rune, or one per line (trailing newline kept with its line).
func unitsOf(text string, unit Unit) []string {
	if unit == UnitLines {
		var units []string
		start := 0
		for i := 0; i < len(text); i++ {
			if text[i] == '\n' {
				units = append(units, text[start:i+1])
				start = i + 1
			}
		}
		if start < len(text) {
			units = append(units, text[start:])
		}
		return units
	}
	units := make([]string, 0, len(text))
	for _, r := range text {
		units = append(units, string(r))
	}
	return units
}
