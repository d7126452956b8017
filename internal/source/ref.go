package source

import "fmt"

// Ref identifies where a piece of source text lives. It is a closed sum:
// either a real file on disk or a virtual source synthesized by macro
// expansion. Render sites switch over both variants exhaustively.
type Ref interface {
	// DisplayName returns the identity shown to users: a path for real
	// files, a synthesized descriptor for virtual sources.
	DisplayName() string

	sourceRef()
}

// RealFile is source text addressed by a path on disk. The text itself is
// never stored here; renderers read it fresh through a Reader.
type RealFile struct {
	Path string
}

func (f *RealFile) DisplayName() string { return f.Path }

func (*RealFile) sourceRef() {}

// VirtualFile is in-memory source text produced by expanding a macro. It
// carries the expanded text plus a back-reference to the macro definition
// that produced it.
type VirtualFile struct {
	MacroName string
	MacroPath string // file where the macro was defined
	MacroLine int    // 1-based line of the macro definition
	Text      string // the expanded source text
}

func (f *VirtualFile) DisplayName() string {
	return fmt.Sprintf("macro %s (in %s:%d)", f.MacroName, f.MacroPath, f.MacroLine)
}

func (*VirtualFile) sourceRef() {}
