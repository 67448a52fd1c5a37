package source

import (
	"bytes"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"fortio.org/safecast"
)

var (
	utf8BOM = []byte{0xEF, 0xBB, 0xBF}
	crlf    = []byte("\r\n")
	lf      = []byte("\n")
)

// normalizeCRLF turns \r\n into \n; lone \r bytes stay.
func normalizeCRLF(content []byte) ([]byte, bool) {
	if !bytes.Contains(content, crlf) {
		return content, false
	}
	return bytes.ReplaceAll(content, crlf, lf), true
}

func removeBOM(content []byte) ([]byte, bool) {
	return bytes.CutPrefix(content, utf8BOM)
}

// buildLineIndex records the offset of every '\n'.
func buildLineIndex(content []byte) []uint32 {
	idx := make([]uint32, 0, bytes.Count(content, lf))
	for base := 0; ; {
		i := bytes.IndexByte(content[base:], '\n')
		if i < 0 {
			return idx
		}
		off, err := safecast.Conv[uint32](base + i)
		if err != nil {
			panic(fmt.Errorf("line offset overflow: %w", err))
		}
		idx = append(idx, off)
		base += i + 1
	}
}

// toLineCol maps off to a 1-based position. The line number is the count of
// newlines strictly before off.
func toLineCol(lineIdx []uint32, off uint32) LineCol {
	line, _ := slices.BinarySearch(lineIdx, off)
	var lineStart uint32
	if line > 0 {
		lineStart = lineIdx[line-1] + 1
	}
	num, err := safecast.Conv[uint32](line + 1)
	if err != nil {
		panic(fmt.Errorf("line number overflow: %w", err))
	}
	return LineCol{Line: num, Col: off - lineStart + 1}
}

func normalizePath(p string) string {
	return filepath.ToSlash(filepath.Clean(p))
}

// AbsolutePath returns the absolute, slash-normalized form of path.
func AbsolutePath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	return normalizePath(abs), nil
}

// RelativePath returns path relative to base. Paths outside base fall back
// to the absolute form, so diagnostics never show "../../" chains.
func RelativePath(path, base string) (string, error) {
	absPath, err := AbsolutePath(path)
	if err != nil {
		return "", err
	}
	absBase, err := AbsolutePath(base)
	if err != nil {
		return "", err
	}
	rel, err := filepath.Rel(absBase, absPath)
	if err != nil {
		return "", err
	}
	if rel = filepath.ToSlash(rel); rel == ".." || strings.HasPrefix(rel, "../") {
		return absPath, nil
	}
	return rel, nil
}

// BaseName returns the last element of path.
func BaseName(path string) string {
	return filepath.Base(path)
}
