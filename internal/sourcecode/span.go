package sourcecode

import (
	"bytes"
	"fmt"
)

// NodeSpan is a half-open byte range in a template source.
type NodeSpan struct {
	Start int32 `json:"start"` //0-indexed
	End   int32 `json:"end"`   //exclusive end, 0-indexed
}

func (s NodeSpan) HasPositionEndIncluded(i int32) bool {
	return i >= s.Start && i <= s.End
}

func (s NodeSpan) Len() int32 {
	return s.End - s.Start
}

// Contains reports whether other is fully included in s.
func (s NodeSpan) Contains(other NodeSpan) bool {
	return other.Start >= s.Start && other.End <= s.End
}

// Text returns the substring of src covered by the span.
func (s NodeSpan) Text(src string) string {
	return src[s.Start:s.End]
}

type SourcePositionRange struct {
	SourceName  string   `json:"sourceName"`
	StartLine   int32    `json:"line"`      //1-indexed
	StartColumn int32    `json:"column"`    //1-indexed
	EndLine     int32    `json:"endLine"`   //1-indexed
	EndColumn   int32    `json:"endColumn"` //1-indexed
	Span        NodeSpan `json:"span"`
}

func (pos SourcePositionRange) String() string {
	return fmt.Sprintf("%s:%d:%d:", pos.SourceName, pos.StartLine, pos.StartColumn)
}

type SourcePositionStack []SourcePositionRange

func (stack SourcePositionStack) String() string {
	buff := bytes.NewBuffer(nil)
	for _, pos := range stack {
		buff.WriteString(pos.String())
		buff.WriteRune(' ')
	}
	return buff.String()
}

// LocatedError is implemented by errors that can be attached to a source position.
type LocatedError interface {
	error
	MessageWithoutLocation() string
	LocationRange() SourcePositionRange
}
