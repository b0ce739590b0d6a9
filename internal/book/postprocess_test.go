package book

import (
	"strings"
	"testing"
)

func TestPostProcessLongtable(t *testing.T) {
	in := "\\begin{longtable}[]{@{}ll@{}}\n\\toprule\\noalign{}\n\\endhead\n\\bottomrule\\noalign{}\n\\endlastfoot\ncell & cell \\\\\n\\end{longtable}\n"
	out := PostProcess(in)

	if !strings.Contains(out, `\begin{longtable}[]{|p{0.45\textwidth}|p{0.45\textwidth}}`) {
		t.Errorf("bordered column spec missing:\n%s", out)
	}
	for _, gone := range []string{`\toprule`, `\endhead`, `\bottomrule`, `\endlastfoot`} {
		if strings.Contains(out, gone) {
			t.Errorf("boilerplate %q survived:\n%s", gone, out)
		}
	}
	if !strings.Contains(out, `cell & cell`) {
		t.Errorf("table body lost:\n%s", out)
	}
}

func TestPostProcessLinks(t *testing.T) {
	in := `see \url{https://example.org/Page}{the page} and \href{https://example.org}{this one}`
	want := `see the page and this one`
	if got := PostProcess(in); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestDemoteHeadings(t *testing.T) {
	in := "\\subsection{First}\ntext\n\\subsection{Second}\n"
	out := DemoteHeadings(in)
	if strings.Contains(out, `\subsection`) {
		t.Errorf("subsection survived: %q", out)
	}
	if strings.Count(out, `\section{`) != 2 {
		t.Errorf("expected two sections, got: %q", out)
	}
}
