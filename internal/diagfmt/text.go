package diagfmt

import (
	"fmt"
	"io"

	"lumen/internal/diag"
	"lumen/internal/source"
	"lumen/internal/ui"
)

// Text renders a diagnostic chain as human-readable text: the outermost
// link first, each located inner link below it separated by a blank line.
// Source text is read fresh through the reader; a missing file degrades to
// message-only output.
func Text(w io.Writer, d *diag.Diagnostic, reader source.Reader, st ui.Styler) {
	fmt.Fprint(w, "Error ")
	writeLink(w, d, reader, st)
}

func writeLink(w io.Writer, d *diag.Diagnostic, reader source.Reader, st ui.Styler) {
	if !d.Styled() {
		st = ui.NewStyler(false)
	}

	// A locationless immediate inner is synthetic plumbing: surface its
	// deepest message here instead of this link's own framing.
	msg := d.Message
	if d.Inner != nil && !d.Inner.HasLocation() {
		msg = d.DeepestMessage()
	}

	// The innermost message is the headline.
	if d.Inner == nil {
		msg = st.Bold(msg)
	}

	loc := d.Loc
	virtual := (*source.VirtualFile)(nil)
	line, haveLine := "", false

	switch {
	case loc.IsEmpty() || loc.Ref == nil:
		if !loc.IsEmpty() && loc.Line > 0 {
			fmt.Fprintf(w, "in line %d: ", loc.Line)
		}
		fmt.Fprintf(w, "%s\n", msg)
	default:
		switch ref := loc.Ref.(type) {
		case *source.RealFile:
			if line, haveLine = lineAt(loc, reader); haveLine {
				fmt.Fprintf(w, "in %s:%d: ", source.RelativeTo(ref.Path, ""), loc.Line)
			} else if loc.Line > 0 {
				fmt.Fprintf(w, "in line %d: ", loc.Line)
			}
			fmt.Fprintf(w, "%s\n", msg)
		case *source.VirtualFile:
			virtual = ref
			fmt.Fprintf(w, "in macro '%s' %s:%d, line %d:\n\n", ref.MacroName, ref.MacroPath, ref.MacroLine, loc.Line)
			fmt.Fprint(w, withLineNumbers(ref.Text))
			fmt.Fprintf(w, "\n%s\n", msg)
			line, haveLine = lineAt(loc, reader)
		}
	}

	if haveLine && loc.Column > 0 {
		fmt.Fprint(w, "\n")
		writeSnippet(w, line, loc.Column, loc.SpanSize, st)
	}

	// A macro-expansion link always restates the original message after the
	// expansion context, unstyled.
	if virtual != nil {
		fmt.Fprintf(w, "\n%s\n", d.Message)
	}

	// Locationless inners contributed via DeepestMessage above and are
	// never rendered as their own block.
	if d.Inner != nil && d.Inner.HasLocation() {
		fmt.Fprint(w, "\n")
		writeLink(w, d.Inner, reader, st)
	}
}
