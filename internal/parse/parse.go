package parse

import (
	"cmp"
	"context"
	"errors"
	"slices"

	"github.com/edgecst/edgecst/internal/ast"
)

type NodeSpan = ast.NodeSpan

// Parse parses an Edge template. On success the returned document spans the whole
// source and its top-level children concatenate to it. The first syntax error
// aborts the parse: the returned error is then a *ParsingError and the document is nil.
func Parse(src string, opts ...ParserOptions) (result *ast.Document, resultErr error) {
	if len(src) > MAX_TEMPLATE_BYTE_LEN {
		return nil, &ParsingError{Kind: Cancelled, Cause: ErrTemplateTooLong}
	}

	p := newParser(src, opts...)
	defer p.cancel()

	defer func() {
		if v := recover(); v != nil {
			result = nil
			resultErr = p.recoveredError(v)
		}
	}()

	return p.parseDocument(), nil
}

func MustParse(src string, opts ...ParserOptions) *ast.Document {
	doc, err := Parse(src, opts...)
	if err != nil {
		panic(err)
	}
	return doc
}

// ParseExpression parses a standalone expression, the whole source must be consumed.
func ParseExpression(src string, opts ...ParserOptions) (result ast.Expression, resultErr error) {
	if len(src) > MAX_TEMPLATE_BYTE_LEN {
		return nil, &ParsingError{Kind: Cancelled, Cause: ErrTemplateTooLong}
	}

	p := newParser(src, opts...)
	defer p.cancel()

	defer func() {
		if v := recover(); v != nil {
			result = nil
			resultErr = p.recoveredError(v)
		}
	}()

	expr := p.parseExpression()
	if tok := p.peek(ExpressionMode); tok.Type != ast.EOF {
		p.failUnexpected(tok)
	}
	return expr, nil
}

func MustParseExpression(src string) ast.Expression {
	expr, err := ParseExpression(src)
	if err != nil {
		panic(err)
	}
	return expr
}

// recoveredError converts a value recovered from a panic into a parsing error, panics
// that are neither syntax errors nor cancellations are propagated.
func (p *parser) recoveredError(v any) error {
	err, ok := v.(error)
	if !ok {
		panic(v)
	}

	var parsingErr *ParsingError
	switch {
	case errors.As(err, &parsingErr):
		return parsingErr
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded), errors.Is(err, ErrNodeBudgetExceeded),
		errors.Is(err, ErrNestingTooDeep):
		return &ParsingError{Kind: Cancelled, Span: NodeSpan{Start: p.i, End: p.i}, Cause: err}
	}
	panic(v)
}

func (p *parser) parseDocument() *ast.Document {
	//stops at EOF: a closing tag or a directive end at the top level is an error.
	children, _ := p.parseContent()

	slices.SortStableFunc(p.tokens, func(a, b ast.Token) int {
		return cmp.Compare(a.Span.Start, b.Span.Start)
	})

	return alloc(p, &ast.Document{
		NodeBase: ast.NodeBase{Span: NodeSpan{Start: 0, End: p.len}},
		Children: children,
		Tokens:   p.tokens,
	})
}

// parseContent is the content loop shared by the document, tag bodies and directive bodies. It returns
// the parsed nodes and the unconsumed token that stopped it: EOF, the closing tag of the innermost open tag
// or the @end, @else or @elseif of the innermost block directive.
func (p *parser) parseContent() (children []ast.Node, stop ast.Token) {
	for {
		tok := p.peek(ContentMode)

		switch tok.Type {
		case ast.EOF:
			return children, tok
		case ast.TEXT:
			p.eat(tok)
			children = append(children, alloc(p, &ast.Text{
				NodeBase: ast.NodeBase{Span: tok.Span},
				Raw:      tok.Raw(p.s),
			}))
		case ast.ILLEGAL:
			p.failIllegalContent(tok)
		case ast.TEMPLATE_COMMENT, ast.MARKUP_COMMENT:
			children = append(children, p.parseComment(tok))
		case ast.DOCTYPE:
			p.eat(tok)
			children = append(children, alloc(p, &ast.Doctype{
				NodeBase: ast.NodeBase{Span: tok.Span},
				Raw:      tok.Raw(p.s),
			}))
		case ast.TAG_OPEN_DELIMITER:
			children = append(children, p.parseTag(tok))
		case ast.END_TAG_OPEN_DELIMITER:
			p.checkCloseTag(tok)
			return children, tok
		case ast.DIRECTIVE_AT:
			head := p.scanDirectiveHead(tok)
			if IsReservedDirectiveName(head.name) {
				p.checkDirectiveStop(head)
				return children, tok
			}
			children = append(children, p.parseDirective(head))
		case ast.OUTPUT_OPEN, ast.RAW_OUTPUT_OPEN:
			children = append(children, p.parseOutputExpression(tok))
		default:
			p.failAt(UnexpectedToken, tok)
		}
	}
}

// failIllegalContent reports an unterminated comment, escaped mustache or doctype.
func (p *parser) failIllegalContent(tok ast.Token) {
	start := tok.Span.Start

	switch {
	case p.hasPrefix(start, TEMPLATE_COMMENT_OPEN):
		p.fail(UnterminatedComment, NodeSpan{Start: start, End: start + int32(len(TEMPLATE_COMMENT_OPEN))})
	case p.hasPrefix(start, MARKUP_COMMENT_OPEN):
		p.fail(UnterminatedComment, NodeSpan{Start: start, End: start + int32(len(MARKUP_COMMENT_OPEN))})
	case p.hasPrefix(start, ESCAPED_MUSTACHE_OPEN):
		p.fail(UnterminatedExpression, NodeSpan{Start: start, End: start + int32(len(ESCAPED_MUSTACHE_OPEN))})
	default:
		p.fail(UnclosedTag, NodeSpan{Start: start, End: start + int32(len(DOCTYPE_PREFIX))})
	}
}
