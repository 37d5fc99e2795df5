// Package rawlint reports CSS and JavaScript syntax problems inside the raw bodies of
// <style> and <script> tags. Problems are warnings: they never make a template invalid.
package rawlint

import (
	"errors"
	"fmt"
	"strings"

	"github.com/edgecst/edgecst/internal/ast"
	"github.com/edgecst/edgecst/internal/sourcecode"
	"github.com/tdewolff/parse/v2"
)

type Language string

const (
	CSS        Language = "css"
	JavaScript Language = "js"
)

type Diagnostic struct {
	Language Language            `json:"language"`
	Span     sourcecode.NodeSpan `json:"span"` //absolute span in the template
	Message  string              `json:"message"`
}

func (d Diagnostic) Locate(src sourcecode.Source) string {
	var b strings.Builder
	src.FormatNodeSpanLocation(&b, d.Span)
	return fmt.Sprintf("%s %s: %s", b.String(), d.Language, d.Message)
}

var javascriptTypes = map[string]bool{
	"":                       true,
	"module":                 true,
	"text/javascript":        true,
	"application/javascript": true,
}

// Check lints the raw block of every <style> and <script> tag of doc, scripts whose
// type attribute is not a JavaScript type are skipped.
func Check(doc *ast.Document) []Diagnostic {
	var diagnostics []Diagnostic

	ast.Walk(doc, func(node, parent ast.Node, ancestorChain []ast.Node, after bool) (ast.TraversalAction, error) {
		tag, ok := node.(*ast.Tag)
		if !ok || !tag.Raw || len(tag.Children) == 0 {
			return ast.ContinueTraversal, nil
		}

		text, ok := tag.Children[0].(*ast.Text)
		if !ok {
			return ast.Prune, nil
		}

		switch strings.ToLower(tag.Name) {
		case "style":
			diagnostics = append(diagnostics, CheckCSS(text.Raw, text.Span.Start)...)
		case "script":
			if javascriptTypes[strings.ToLower(scriptType(tag))] {
				diagnostics = append(diagnostics, CheckJS(text.Raw, text.Span.Start)...)
			}
		}
		return ast.Prune, nil
	}, nil)

	return diagnostics
}

func scriptType(tag *ast.Tag) string {
	for _, attr := range tag.Attributes {
		if attr.Name == nil || !strings.EqualFold(attr.Name.Name, "type") || attr.Value == nil {
			continue
		}
		value, ok := attr.Value.Literal()
		if !ok {
			return "" //dynamic type, assume JavaScript.
		}
		return strings.TrimSpace(value)
	}
	return ""
}

type bracketStack struct {
	language    Language
	base        int32
	open        []byte
	openOffsets []int32
	diagnostics *[]Diagnostic
}

func (s *bracketStack) push(b byte, offset int32) {
	s.open = append(s.open, b)
	s.openOffsets = append(s.openOffsets, offset)
}

// pop reports a diagnostic if closing does not match the innermost open bracket.
func (s *bracketStack) pop(closing byte, offset int32) {
	var expected byte
	switch closing {
	case ')':
		expected = '('
	case ']':
		expected = '['
	case '}':
		expected = '{'
	}

	if len(s.open) == 0 {
		s.report(offset, offset+1, fmt.Sprintf("unexpected '%c'", closing))
		return
	}

	last := len(s.open) - 1
	if s.open[last] != expected {
		s.report(offset, offset+1, fmt.Sprintf("'%c' does not match '%c'", closing, s.open[last]))
	}
	s.open = s.open[:last]
	s.openOffsets = s.openOffsets[:last]
}

func (s *bracketStack) reportUnclosed() {
	for i, b := range s.open {
		offset := s.openOffsets[i]
		s.report(offset, offset+1, fmt.Sprintf("unclosed '%c'", b))
	}
}

func (s *bracketStack) report(start, end int32, msg string) {
	*s.diagnostics = append(*s.diagnostics, Diagnostic{
		Language: s.language,
		Span:     sourcecode.NodeSpan{Start: s.base + start, End: s.base + end},
		Message:  msg,
	})
}

// lexerErrorMessage returns the message of an error returned by a tdewolff lexer.
func lexerErrorMessage(err error) string {
	var parseErr *parse.Error
	if errors.As(err, &parseErr) {
		return parseErr.Message
	}
	return err.Error()
}
