package diagfmt

import (
	"encoding/json"
	"io"

	"lumen/internal/diag"
	"lumen/internal/source"
)

// Record is one chain link in structured output. Location fields are null
// when the link carries no resolvable location.
type Record struct {
	File    *string `json:"file"`
	Line    *int    `json:"line"`
	Column  *int    `json:"column"`
	Size    *int    `json:"size"`
	Message string  `json:"message"`
}

// Records walks the chain outermost to innermost and emits one record per
// link, locationless links included.
func Records(d *diag.Diagnostic) []Record {
	records := make([]Record, 0, d.Depth())
	for link := d; link != nil; link = link.Inner {
		rec := Record{Message: link.Message}
		if loc := link.Loc; !loc.IsEmpty() {
			if loc.Ref != nil {
				name := displayName(loc.Ref)
				rec.File = &name
			}
			if loc.Line > 0 {
				line := loc.Line
				rec.Line = &line
			}
			column, size := loc.Column, loc.SpanSize
			rec.Column = &column
			rec.Size = &size
		}
		records = append(records, rec)
	}
	return records
}

// JSON writes the structured rendering of the chain as a JSON array.
func JSON(w io.Writer, d *diag.Diagnostic) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(Records(d))
}

// displayName resolves a source identity for structured output: the path
// for real files, a synthesized descriptor for virtual sources.
func displayName(ref source.Ref) string {
	switch ref := ref.(type) {
	case *source.RealFile:
		return ref.Path
	case *source.VirtualFile:
		return ref.DisplayName()
	}
	return ref.DisplayName()
}
