package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"lumen/internal/diag"
	"lumen/internal/source"
	"lumen/internal/ui"
)

const separatorWidth = 80

// TraceText renders a nilable-variable trace: every located occurrence of
// the variable in its owner, then the categorized reason with its own
// occurrences. Nodes without a location are skipped, never reported.
func TraceText(w io.Writer, t *diag.NilableTrace, reader source.Reader, st ui.Styler) {
	separator := strings.Repeat("=", separatorWidth)

	if anyLocated(t.Trace) {
		fmt.Fprintf(w, "%s\n\n%s trace:\n", separator, t.Owner)
		writeTraceNodes(w, t.Trace, reader, st)
	}

	if t.Reason == nil {
		return
	}

	fmt.Fprintf(w, "\n%s\n\n%s%s\n", separator, st.Bold("Error: "), st.Bold(t.Reason.Headline()))
	writeTraceNodes(w, t.Reason.Occurrences, reader, st)
}

func anyLocated(nodes []diag.TraceNode) bool {
	for _, n := range nodes {
		if !n.Loc.IsEmpty() {
			return true
		}
	}
	return false
}

func writeTraceNodes(w io.Writer, nodes []diag.TraceNode, reader source.Reader, st ui.Styler) {
	for _, n := range nodes {
		if n.Loc.IsEmpty() || n.Loc.Ref == nil {
			continue
		}
		fmt.Fprintf(w, "\n  %s:%d\n", displayName(n.Loc.Ref), n.Loc.Line)
		line, ok := lineAt(n.Loc, reader)
		if !ok {
			continue
		}
		fmt.Fprintf(w, "\n%s%s\n", snippetIndent, expandTabs(line))
		// Underline only nodes with a real name span.
		if n.Node != nil && n.Node.NameColumn() > 0 {
			fmt.Fprintf(w, "%s%s%s\n",
				snippetIndent,
				strings.Repeat(" ", prefixWidth(line, n.Loc.Column)),
				st.Underline(underline(n.Loc.SpanSize)))
		}
	}
}
