// Package source holds LALG program text and maps 0-based row/column positions to lines and byte offsets.
package source

import (
	"strings"
)

// Source is an immutable program text. Line breaks are normalized to "\n".
type Source struct {
	name       string
	text       string
	lineStarts []int
}

// New creates a source. "\r\n" and lone "\r" are converted to "\n".
func New(name string, content []byte) *Source {
	return FromString(name, string(content))
}

// FromString creates a source from a string.
func FromString(name, text string) *Source {
	if strings.IndexByte(text, '\r') >= 0 {
		text = strings.ReplaceAll(text, "\r\n", "\n")
		text = strings.ReplaceAll(text, "\r", "\n")
	}

	s := &Source{name: name, text: text}
	lineCnt := strings.Count(text, "\n") + 1
	s.lineStarts = make([]int, lineCnt)
	j := 1
	for i := 0; i < len(text) && j < lineCnt; i++ {
		if text[i] == '\n' {
			s.lineStarts[j] = i + 1
			j++
		}
	}
	return s
}

func (s *Source) Name() string {
	return s.name
}

// Text returns normalized program text.
func (s *Source) Text() string {
	return s.text
}

func (s *Source) Len() int {
	return len(s.text)
}

// LineCount returns the number of lines, an empty text has one line.
func (s *Source) LineCount() int {
	return len(s.lineStarts)
}

// Line returns the text of a 0-based row without the line break, or empty string if row is out of range.
func (s *Source) Line(row int) string {
	if row < 0 || row >= len(s.lineStarts) {
		return ""
	}

	start := s.lineStarts[row]
	end := len(s.text)
	if row+1 < len(s.lineStarts) {
		end = s.lineStarts[row+1] - 1
	}
	return s.text[start:end]
}

// Offset converts 0-based row and rune column to a byte offset. Positions are clamped to the text.
func (s *Source) Offset(row, col int) int {
	if row < 0 || (row == 0 && col <= 0) {
		return 0
	}

	if row >= len(s.lineStarts) {
		return len(s.text)
	}

	line := s.Line(row)
	res := s.lineStarts[row]
	for i := range line {
		if col == 0 {
			return res + i
		}
		col--
	}
	return res + len(line)
}

// Excerpt returns a line and a marker line underlining columns [startCol, endCol) of it.
// Tabs are kept in the marker so it stays aligned. ok is false if row is out of range.
func (s *Source) Excerpt(row, startCol, endCol int) (line, marker string, ok bool) {
	if row < 0 || row >= len(s.lineStarts) {
		return "", "", false
	}

	startCol = max(0, startCol)
	line = s.Line(row)
	prefix := line[:s.Offset(row, startCol)-s.lineStarts[row]]
	var sb strings.Builder
	for _, r := range prefix {
		if r == '\t' {
			sb.WriteRune('\t')
		} else {
			sb.WriteByte(' ')
		}
	}
	sb.WriteString(strings.Repeat("^", max(1, endCol-startCol)))
	return line, sb.String(), true
}
