package sourcecode

import (
	"fmt"
	"io"
	"unicode/utf8"
)

// Source is a named template buffer. Offsets used throughout the module are
// byte offsets into Code.
type Source struct {
	Name string //path, URL or any unique name
	Code string
}

// GetSpanLineColumn returns the 1-indexed line and column of span.Start.
// Columns count characters, not bytes.
func (src Source) GetSpanLineColumn(span NodeSpan) (int32, int32) {
	return src.lineColumn(span.Start)
}

// GetEndSpanLineColumn returns the line and column of span.End.
func (src Source) GetEndSpanLineColumn(span NodeSpan) (int32, int32) {
	return src.lineColumn(span.End)
}

func (src Source) lineColumn(offset int32) (int32, int32) {
	line := int32(1)
	col := int32(1)
	code := src.Code

	if offset > int32(len(code)) {
		offset = int32(len(code))
	}

	i := int32(0)
	for i < offset {
		r, size := utf8.DecodeRuneInString(code[i:])
		if r == '\n' {
			line++
			col = 1
		} else {
			col++
		}
		i += int32(size)
	}

	return line, col
}

func (src Source) GetSourcePosition(span NodeSpan) SourcePositionRange {
	line, col := src.GetSpanLineColumn(span)
	endLine, endCol := src.GetEndSpanLineColumn(span)

	return SourcePositionRange{
		SourceName:  src.Name,
		StartLine:   line,
		StartColumn: col,
		EndLine:     endLine,
		EndColumn:   endCol,
		Span:        span,
	}
}

func (src Source) FormatNodeSpanLocation(w io.Writer, nodeSpan NodeSpan) (int, error) {
	line, col := src.GetSpanLineColumn(nodeSpan)
	return fmt.Fprintf(w, "%s:%d:%d:", src.Name, line, col)
}

// GetLineCut returns the part of the line before and after the cut index.
func (src Source) GetLineCut(cutIndex int32) (beforeSpan string, afterSpan string) {
	code := src.Code
	if cutIndex > int32(len(code)) {
		cutIndex = int32(len(code))
	}

	i := cutIndex
	for i > 0 && code[i-1] != '\n' {
		i--
	}

	beforeSpan = code[i:cutIndex]

	i = cutIndex
	for i < int32(len(code)) && code[i] != '\n' {
		i++
	}

	afterSpan = code[cutIndex:i]
	return
}

// GetLineColumnPosition converts a 1-indexed line and column to a byte offset.
func (src Source) GetLineColumnPosition(line, column int32) int32 {
	code := src.Code
	length := int32(len(code))
	i := int32(0)

	line -= 1

	for i < length && line > 0 {
		if code[i] == '\n' {
			line--
		}
		i++
	}

	for column > 1 && i < length && code[i] != '\n' {
		_, size := utf8.DecodeRuneInString(code[i:])
		i += int32(size)
		column--
	}
	return i
}
