package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"

	"lumen/internal/source"
	"lumen/internal/ui"
)

const (
	snippetIndent = "    "
	tabWidth      = 4
)

// lineAt fetches the 1-based display line for a location, reading real
// files fresh through the reader and virtual sources from their own text.
func lineAt(loc *source.Location, reader source.Reader) (string, bool) {
	if loc.IsEmpty() || loc.Ref == nil || loc.Line <= 0 {
		return "", false
	}
	var lines []string
	switch ref := loc.Ref.(type) {
	case *source.RealFile:
		var ok bool
		if lines, ok = reader.ReadLines(ref.Path); !ok {
			return "", false
		}
	case *source.VirtualFile:
		lines = source.SplitLines(ref.Text)
	default:
		return "", false
	}
	if loc.Line > len(lines) {
		return "", false
	}
	return lines[loc.Line-1], true
}

// writeSnippet prints the raw source line (tabs expanded) and, underneath,
// an indicator line: spaces up to the column, then a caret followed by
// span-1 tildes. A zero span still gets the bare caret.
func writeSnippet(w io.Writer, line string, column, span int, st ui.Styler) {
	fmt.Fprintf(w, "%s%s\n", snippetIndent, expandTabs(line))
	fmt.Fprintf(w, "%s%s%s\n", snippetIndent, strings.Repeat(" ", prefixWidth(line, column)), st.Underline(underline(span)))
}

// underline builds the ^~~~ indicator for a span of the given size.
func underline(span int) string {
	if span < 1 {
		span = 1
	}
	return "^" + strings.Repeat("~", span-1)
}

func expandTabs(line string) string {
	return strings.ReplaceAll(line, "\t", strings.Repeat(" ", tabWidth))
}

// prefixWidth returns the display width of the first column-1 characters of
// line, counting expanded tabs and wide runes.
func prefixWidth(line string, column int) int {
	width := 0
	chars := 0
	for _, r := range line {
		if chars >= column-1 {
			break
		}
		if r == '\t' {
			width += tabWidth
		} else {
			width += runewidth.RuneWidth(r)
		}
		chars++
	}
	// Column may point past the end of the line (EOF diagnostics).
	if rest := column - 1 - chars; rest > 0 {
		width += rest
	}
	return width
}

// withLineNumbers renders full virtual-source text with right-aligned
// 1-based line numbers.
func withLineNumbers(text string) string {
	lines := source.SplitLines(text)
	numWidth := len(fmt.Sprint(len(lines)))
	var sb strings.Builder
	for i, line := range lines {
		fmt.Fprintf(&sb, "%s%*d. %s\n", snippetIndent, numWidth, i+1, expandTabs(line))
	}
	return sb.String()
}
