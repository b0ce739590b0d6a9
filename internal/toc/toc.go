// Package toc parses the book outline into an ordered tree of document
// references. The outline arrives as HTML (the wikitext outline converted by
// the markup converter); the first ordered list in the document is the root.
package toc

import (
	"fmt"
	"net/url"
	"strings"

	"golang.org/x/net/html"

	"wikibook/internal/errors"
)

// Node is one entry in the book outline.
type Node struct {
	Title     string  // display title; free text when HasLink is false
	TargetRef string  // resolvable reference to the backing page, "" when unlinked
	HasLink   bool    // whether this entry maps to an actual page
	Depth     int     // 0 = part, >=1 = chapter/subsection
	Children  []*Node // nested entries, order-significant
}

// BuildTree parses the outline HTML into the ordered node tree.
// base resolves site-relative link targets to absolute references.
func BuildTree(outlineHTML string, base *url.URL) ([]*Node, error) {
	doc, err := html.Parse(strings.NewReader(outlineHTML))
	if err != nil {
		return nil, errors.StructureParse(err)
	}

	list := findFirst(doc, "ol")
	if list == nil {
		return nil, errors.StructureParse(fmt.Errorf("outline contains no ordered list"))
	}

	return parseListItems(list, 0, base), nil
}

// parseListItems walks the direct <li> children of a list, recursing into
// nested lists at depth+1. Sibling order is preserved.
func parseListItems(list *html.Node, depth int, base *url.URL) []*Node {
	var items []*Node
	for li := list.FirstChild; li != nil; li = li.NextSibling {
		if li.Type != html.ElementNode || li.Data != "li" {
			continue
		}

		link := findFirst(li, "a")
		first := firstContent(li)

		// The item is link-backed only when its displayed content is
		// exactly the link itself; surrounding text makes it a
		// structural heading even if a link appears somewhere inside.
		hasLink := link != nil && first == link

		node := &Node{Depth: depth, HasLink: hasLink}
		if hasLink {
			href := attr(link, "href")
			node.Title = strings.ReplaceAll(href, "_", " ")
			node.TargetRef = resolveRef(href, base)
		} else if first != nil && !(first.Type == html.ElementNode && first.Data == "ol") {
			node.Title = strings.TrimSpace(textContent(first))
		}

		if nested := findFirst(li, "ol"); nested != nil {
			node.Children = parseListItems(nested, depth+1, base)
		}
		items = append(items, node)
	}
	return items
}

// resolveRef absolutizes site-relative references against the wiki base URL.
func resolveRef(href string, base *url.URL) string {
	if base != nil && strings.HasPrefix(href, "/") {
		if ref, err := url.Parse(href); err == nil {
			return base.ResolveReference(ref).String()
		}
	}
	return href
}

// firstContent returns the first child node of n that is not pure whitespace.
func firstContent(n *html.Node) *html.Node {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode && strings.TrimSpace(c.Data) == "" {
			continue
		}
		return c
	}
	return nil
}

// findFirst returns the first descendant element with the given tag.
func findFirst(n *html.Node, tag string) *html.Node {
	if n.Type == html.ElementNode && n.Data == tag {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findFirst(c, tag); found != nil {
			return found
		}
	}
	return nil
}

// textContent collects the text beneath a node.
func textContent(n *html.Node) string {
	if n == nil {
		return ""
	}
	if n.Type == html.TextNode {
		return n.Data
	}
	var buf strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		buf.WriteString(textContent(c))
	}
	return buf.String()
}

// attr returns the value of the named attribute, or "".
func attr(n *html.Node, name string) string {
	for _, a := range n.Attr {
		if a.Key == name {
			return a.Val
		}
	}
	return ""
}

// Count returns the total number of nodes in the tree.
func Count(nodes []*Node) int {
	n := len(nodes)
	for _, node := range nodes {
		n += Count(node.Children)
	}
	return n
}
