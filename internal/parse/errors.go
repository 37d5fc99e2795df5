package parse

import (
	"errors"
	"fmt"

	"github.com/edgecst/edgecst/internal/ast"
	"github.com/edgecst/edgecst/internal/sourcecode"
)

type ErrorKind uint8

const (
	UnterminatedComment ErrorKind = iota + 1
	UnterminatedExpression
	UnterminatedDirective
	UnclosedTag
	MismatchedCloseTag
	UnmatchedDirectiveEnd
	UnexpectedToken
	Cancelled
)

var errorKindNames = [...]string{
	UnterminatedComment:    "UnterminatedComment",
	UnterminatedExpression: "UnterminatedExpression",
	UnterminatedDirective:  "UnterminatedDirective",
	UnclosedTag:            "UnclosedTag",
	MismatchedCloseTag:     "MismatchedCloseTag",
	UnmatchedDirectiveEnd:  "UnmatchedDirectiveEnd",
	UnexpectedToken:        "UnexpectedToken",
	Cancelled:              "Cancelled",
}

func (k ErrorKind) String() string {
	if k == 0 || int(k) >= len(errorKindNames) {
		return "UnknownError"
	}
	return errorKindNames[k]
}

// A ParsingError is the single error returned by a failed parse. It carries no
// message: Span.Start is the offset of the failing construct.
type ParsingError struct {
	Kind  ErrorKind `json:"kind"`
	Span  NodeSpan  `json:"span"`
	Cause error     `json:"-"` //set for Cancelled errors
}

func (err *ParsingError) Error() string {
	return fmt.Sprintf("%s@%d", err.Kind, err.Span.Start)
}

func (err *ParsingError) Unwrap() error {
	return err.Cause
}

// Locate returns a located version of the error, Source is the parsed template.
func (err *ParsingError) Locate(source sourcecode.Source) *LocatedParsingError {
	return &LocatedParsingError{
		ParsingError: err,
		Location:     source.GetSourcePosition(err.Span),
	}
}

// LocatedParsingError is a ParsingError with a line and column.
type LocatedParsingError struct {
	*ParsingError
	Location sourcecode.SourcePositionRange
}

var _ = sourcecode.LocatedError((*LocatedParsingError)(nil))

func (err *LocatedParsingError) Error() string {
	return err.Location.String() + " " + err.Kind.String()
}

func (err *LocatedParsingError) MessageWithoutLocation() string {
	return err.Kind.String()
}

func (err *LocatedParsingError) LocationRange() sourcecode.SourcePositionRange {
	return err.Location
}

// IsCancelled reports whether err is a parsing error caused by a cancellation, a timeout, an exhausted node budget
// or a too deep nesting.
func IsCancelled(err error) bool {
	var parsingErr *ParsingError
	return errors.As(err, &parsingErr) && parsingErr.Kind == Cancelled
}

// KindOf returns the kind of a parsing error, or 0 if err is not a parsing error.
func KindOf(err error) ErrorKind {
	var parsingErr *ParsingError
	if errors.As(err, &parsingErr) {
		return parsingErr.Kind
	}
	return 0
}

func (p *parser) fail(kind ErrorKind, span NodeSpan) {
	panic(&ParsingError{Kind: kind, Span: span})
}

func (p *parser) failAt(kind ErrorKind, tok ast.Token) {
	p.fail(kind, tok.Span)
}
