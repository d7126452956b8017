package source

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// Reader supplies the lines of a real source file. Rendering is a terminal,
// one-shot operation, so implementations read fresh on every call and keep
// no cache.
type Reader interface {
	// ReadLines returns the file's lines, or ok=false when the file cannot
	// be read (missing, unreadable). Callers degrade to message-only output.
	ReadLines(path string) (lines []string, ok bool)
}

// FileReader reads lines straight from disk, normalizing BOM and CRLF the
// same way the lexer does so columns line up.
type FileReader struct{}

func (FileReader) ReadLines(path string) ([]string, bool) {
	// #nosec G304 -- path comes from a previously recorded location
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, false
	}
	content, _ = removeBOM(content)
	content, _ = normalizeCRLF(content)
	return SplitLines(string(content)), true
}

// ReadFileText reads a whole file for parsing, normalizing BOM and CRLF so
// token columns agree with what ReadLines serves at render time.
func ReadFileText(path string) (string, error) {
	// #nosec G304 -- path is provided by the caller
	content, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	content, _ = removeBOM(content)
	content, _ = normalizeCRLF(content)
	return string(content), nil
}

// SplitLines splits text into display lines without trailing newlines.
// A trailing newline does not produce an extra empty line.
func SplitLines(text string) []string {
	lines := strings.Split(text, "\n")
	if n := len(lines); n > 0 && lines[n-1] == "" {
		lines = lines[:n-1]
	}
	return lines
}

// normalizeCRLF replaces every \r\n with \n, leaving lone \r untouched.
func normalizeCRLF(content []byte) ([]byte, bool) {
	if !slices.Contains(content, '\r') {
		return content, false
	}

	out := make([]byte, 0, len(content))
	changed := false

	i := 0
	for i < len(content) {
		if content[i] == '\r' && i+1 < len(content) && content[i+1] == '\n' {
			out = append(out, '\n')
			i += 2
			changed = true
		} else {
			out = append(out, content[i])
			i++
		}
	}
	return out, changed
}

func removeBOM(content []byte) ([]byte, bool) {
	if len(content) < 3 {
		return content, false
	}
	if content[0] == 0xEF && content[1] == 0xBB && content[2] == 0xBF {
		return content[3:], true
	}
	return content, false
}

// RelativeTo renders path relative to base when that produces a cleaner
// display name, falling back to the original path.
func RelativeTo(path, base string) string {
	if base == "" {
		if wd, err := os.Getwd(); err == nil {
			base = wd
		}
	}
	if rel, err := filepath.Rel(base, path); err == nil && !strings.HasPrefix(rel, "..") {
		return filepath.ToSlash(rel)
	}
	return filepath.ToSlash(path)
}
