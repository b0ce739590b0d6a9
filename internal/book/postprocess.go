package book

import (
	"regexp"
	"strings"
)

const (
	// Pandoc's stock longtable preamble renders borderless tables that
	// overflow the page; replace it with two bordered half-width columns.
	longtablePlain    = `\begin{longtable}[]{@{}ll@{}}`
	longtableBordered = `\begin{longtable}[]{|p{0.45\textwidth}|p{0.45\textwidth}}`

	// Header/footer boilerplate pandoc emits for every longtable. With the
	// bordered column spec above it produces spurious rules, so drop it.
	longtableBoilerplate = "\\toprule\\noalign{}\n\\endhead\n\\bottomrule\\noalign{}\n\\endlastfoot"
)

var (
	urlCommand  = regexp.MustCompile(`\\url\{[^{}]*\}\{([^{}]*)\}`)
	hrefCommand = regexp.MustCompile(`\\href\{[^{}]*\}\{([^{}]*)\}`)
)

// PostProcess repairs pandoc's LaTeX output for print:
// longtables get bordered fixed-width columns, table boilerplate is
// removed and hyperlink commands collapse to their visible text.
func PostProcess(body string) string {
	body = strings.ReplaceAll(body, longtablePlain, longtableBordered)
	body = strings.ReplaceAll(body, longtableBoilerplate, "")
	body = hrefCommand.ReplaceAllString(body, "$1")
	body = urlCommand.ReplaceAllString(body, "$1")
	return body
}

// DemoteHeadings shifts pandoc's subsection headings down one level so the
// per-chapter heading hierarchy starts at \section.
func DemoteHeadings(body string) string {
	return strings.ReplaceAll(body, `\subsection`, `\section`)
}
