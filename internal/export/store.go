// Package export reads a MediaWiki Special:Export XML bundle into an
// exact-title document store.
package export

import (
	"log/slog"
	"strings"

	"github.com/beevik/etree"
	"golang.org/x/text/unicode/norm"

	"wikibook/internal/errors"
)

// Store maps page titles to their raw wikitext bodies. Titles are stored and
// looked up in NFC form, since MediaWiki normalizes titles to NFC.
type Store struct {
	pages  map[string]string
	titles []string // insertion order, for diagnostics
}

// Parse reads an export XML bundle into a Store.
func Parse(data []byte) (*Store, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, errors.ExportParse(err)
	}

	root := doc.Root()
	if root == nil || root.Tag != "mediawiki" {
		return nil, errors.ExportParse(nil).WithContext("reason", "root element is not <mediawiki>")
	}

	store := &Store{pages: make(map[string]string)}
	for _, page := range root.SelectElements("page") {
		titleEl := page.SelectElement("title")
		if titleEl == nil {
			continue
		}
		title := norm.NFC.String(strings.TrimSpace(titleEl.Text()))
		if title == "" {
			continue
		}

		textEl := page.FindElement(".//text")
		body := ""
		if textEl != nil {
			body = strings.TrimSpace(textEl.Text())
		}

		if _, dup := store.pages[title]; dup {
			slog.Warn("Duplicate page in export bundle, keeping first occurrence", "title", title)
			continue
		}
		store.pages[title] = body
		store.titles = append(store.titles, title)
	}

	slog.Debug("Parsed export bundle", "pages", len(store.titles))
	return store, nil
}

// Lookup returns the wikitext body for an exact title.
func (s *Store) Lookup(title string) (string, bool) {
	body, ok := s.pages[norm.NFC.String(title)]
	return body, ok
}

// Len returns the number of pages in the store.
func (s *Store) Len() int {
	return len(s.titles)
}

// Titles returns page titles in bundle order.
func (s *Store) Titles() []string {
	out := make([]string, len(s.titles))
	copy(out, s.titles)
	return out
}

// Outline returns the outline wikitext held by the ToC page.
//
// Real export bundles sometimes wrap the outline in a single XML-like tag
// inside the page body; when the body parses as XML the inner text of its
// root element is used instead of the raw body.
func (s *Store) Outline(tocTitle string) (string, error) {
	body, ok := s.Lookup(tocTitle)
	if !ok {
		return "", errors.PageNotFound(tocTitle)
	}

	inner := etree.NewDocument()
	if err := inner.ReadFromString(body); err == nil {
		if root := inner.Root(); root != nil {
			if text := strings.TrimSpace(root.Text()); text != "" {
				return text, nil
			}
		}
	}
	return body, nil
}
