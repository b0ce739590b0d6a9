package transclude

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/net/html"

	"wikibook/internal/convert"
)

// FirstTable extracts the first <table> element from rendered page HTML and
// returns it re-serialized as standalone HTML.
func FirstTable(pageHTML string) (string, error) {
	doc, err := html.Parse(strings.NewReader(pageHTML))
	if err != nil {
		return "", fmt.Errorf("parse page html: %w", err)
	}

	table := findTable(doc)
	if table == nil {
		return "", fmt.Errorf("page contains no table")
	}

	var buf strings.Builder
	if err := html.Render(&buf, table); err != nil {
		return "", fmt.Errorf("render table: %w", err)
	}
	return buf.String(), nil
}

func findTable(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.Data == "table" {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findTable(c); found != nil {
			return found
		}
	}
	return nil
}

// PageFetchFunc fetches the rendered HTML of a single page.
type PageFetchFunc func(ctx context.Context, title string) (string, error)

// RenderedTableFetcher composes a page fetch with table extraction and a
// conversion back to wiki markup. The fragment is normalized into the same
// markup world as the enclosing body so the later whole-body conversion
// treats it uniformly.
func RenderedTableFetcher(fetch PageFetchFunc, conv convert.Converter) FetchRenderFunc {
	return func(ctx context.Context, title string) (string, error) {
		pageHTML, err := fetch(ctx, title)
		if err != nil {
			return "", err
		}
		table, err := FirstTable(pageHTML)
		if err != nil {
			return "", err
		}
		return conv.Convert(ctx, table, convert.FormatHTML, convert.FormatMediaWiki)
	}
}
