package parse

import (
	"slices"
	"strings"

	"github.com/edgecst/edgecst/internal/ast"
)

const (
	SCRIPT_TAG_NAME = "script"
	STYLE_TAG_NAME  = "style"
)

// VOID_ELEMENTS are the HTML elements that never have children nor a closing tag.
var VOID_ELEMENTS = []string{
	"area", "base", "br", "col", "embed", "hr", "img", "input", "link", "meta", "source", "track", "wbr",
}

func IsVoidElement(tagName string) bool {
	return slices.Contains(VOID_ELEMENTS, strings.ToLower(tagName))
}

// IsRawTextElement returns true for the elements whose body is not parsed: <script> and <style>.
func IsRawTextElement(tagName string) bool {
	return tagName == SCRIPT_TAG_NAME || tagName == STYLE_TAG_NAME
}

func (p *parser) parseComment(tok ast.Token) *ast.Comment {
	p.eat(tok)

	comment := &ast.Comment{
		NodeBase: ast.NodeBase{Span: tok.Span},
	}

	if tok.Type == ast.TEMPLATE_COMMENT {
		comment.CommentKind = ast.TemplateComment
		comment.Body = NodeSpan{
			Start: tok.Span.Start + int32(len(TEMPLATE_COMMENT_OPEN)),
			End:   tok.Span.End - int32(len(TEMPLATE_COMMENT_CLOSE)),
		}
	} else {
		comment.CommentKind = ast.MarkupComment
		comment.Body = NodeSpan{
			Start: tok.Span.Start + int32(len(MARKUP_COMMENT_OPEN)),
			End:   tok.Span.End - int32(len(MARKUP_COMMENT_CLOSE)),
		}
	}

	return alloc(p, comment)
}

// parseTag parses an element: opening tag, children and closing tag. open is the (not yet consumed) '<' token.
func (p *parser) parseTag(open ast.Token) *ast.Tag {
	p.panicIfContextDone()
	p.enter()
	defer p.leave()
	p.eat(open)

	start := open.Span.Start
	nameToken := p.eat(newToken(ast.TAG_NAME, p.i, p.tagNameEnd(p.i)))
	startSpan := NodeSpan{Start: start, End: nameToken.Span.End}

	tag := &ast.Tag{
		Name:     nameToken.Raw(p.s),
		NameSpan: nameToken.Span,
	}

	//attributes

head_parsing_loop:
	for {
		tok := p.peek(TagHeadMode)

		switch tok.Type {
		case ast.EOF:
			p.fail(UnclosedTag, startSpan)
		case ast.TAG_CLOSE_DELIMITER:
			p.eat(tok)
			break head_parsing_loop
		case ast.SELF_CLOSING_DELIMITER:
			p.eat(tok)
			tag.SelfClosing = true
			break head_parsing_loop
		case ast.OUTPUT_OPEN, ast.RAW_OUTPUT_OPEN:
			output := p.parseOutputExpression(tok)
			tag.Attributes = append(tag.Attributes, alloc(p, &ast.Attribute{
				NodeBase:   ast.NodeBase{Span: output.Span},
				Standalone: output,
			}))
		case ast.ATTR_NAME:
			tag.Attributes = append(tag.Attributes, p.parseAttribute(tok, startSpan))
		default:
			p.failAt(UnexpectedToken, tok)
		}
	}

	tag.Void = IsVoidElement(tag.Name)

	//children

	switch {
	case tag.SelfClosing || tag.Void:
	case IsRawTextElement(tag.Name):
		tag.Raw = true

		rawText := p.scanRawBlock(p.i, tag.Name)
		if rawText.Type == ast.ILLEGAL {
			p.fail(UnclosedTag, startSpan)
		}

		if rawText.Span.Len() > 0 {
			p.eat(rawText)
			tag.Children = []ast.Node{
				alloc(p, &ast.Text{
					NodeBase: ast.NodeBase{Span: rawText.Span},
					Raw:      rawText.Raw(p.s),
				}),
			}
		}

		tag.Close = p.parseCloseTag(p.peek(ContentMode), startSpan)
	default:
		p.pushFrame(&frame{isTag: true, name: tag.Name, start: startSpan})
		children, stop := p.parseContent()
		p.popFrame()

		tag.Children = children

		if stop.Type == ast.EOF {
			p.fail(UnclosedTag, startSpan)
		}
		tag.Close = p.parseCloseTag(stop, startSpan)
	}

	tag.MatchedClose = tag.Close != nil
	tag.Span = NodeSpan{Start: start, End: p.i}

	return alloc(p, tag)
}

// checkCloseTag is called when a closing tag is found in content: it fails unless the innermost
// open construct is a tag with the same name.
func (p *parser) checkCloseTag(open ast.Token) {
	nameEnd := p.tagNameEnd(open.Span.End)
	name := p.s[open.Span.End:nameEnd]
	closeSpan := NodeSpan{Start: open.Span.Start, End: nameEnd}

	top := p.topFrame()

	switch {
	case top == nil:
		p.fail(MismatchedCloseTag, closeSpan)
	case !top.isTag:
		if p.findFrameBelowTop(true) != nil {
			p.fail(UnterminatedDirective, top.start)
		}
		p.fail(MismatchedCloseTag, closeSpan)
	case top.name != name:
		p.fail(MismatchedCloseTag, closeSpan)
	}
}

func (p *parser) parseCloseTag(open ast.Token, openingTagStart NodeSpan) *ast.CloseTag {
	p.eat(open)
	nameToken := p.eat(newToken(ast.TAG_NAME, p.i, p.tagNameEnd(p.i)))

	end := p.peek(TagHeadMode)
	switch end.Type {
	case ast.TAG_CLOSE_DELIMITER:
		p.eat(end)
	case ast.EOF:
		p.fail(UnclosedTag, openingTagStart)
	default:
		p.failAt(UnexpectedToken, end)
	}

	return alloc(p, &ast.CloseTag{
		NodeBase: ast.NodeBase{Span: NodeSpan{Start: open.Span.Start, End: end.Span.End}},
		Name:     nameToken.Raw(p.s),
		NameSpan: nameToken.Span,
	})
}

// parseAttribute parses name, name=value, name="mixed {{ content }}".
func (p *parser) parseAttribute(nameToken ast.Token, tagStart NodeSpan) *ast.Attribute {
	p.eat(nameToken)

	attr := &ast.Attribute{
		NodeBase: ast.NodeBase{Span: nameToken.Span},
		Name: alloc(p, &ast.AttributeName{
			NodeBase: ast.NodeBase{Span: nameToken.Span},
			Name:     nameToken.Raw(p.s),
		}),
	}

	equal := p.peek(TagHeadMode)
	if equal.Type != ast.ATTR_EQUAL {
		return alloc(p, attr)
	}
	p.eat(equal)

	valueStart := p.peek(TagHeadMode)

	switch valueStart.Type {
	case ast.ATTR_QUOTE:
		attr.Value = p.parseQuotedAttributeValue(valueStart, tagStart)
	case ast.EOF:
		p.fail(UnclosedTag, tagStart)
	default:
		//unquoted values cannot contain expressions.
		value := p.scanUnquotedAttributeValue(valueStart.Span.Start)
		if value.Type == ast.ILLEGAL {
			p.failAt(UnexpectedToken, value)
		}
		p.eat(value)

		attr.Value = alloc(p, &ast.AttributeValue{
			NodeBase: ast.NodeBase{Span: value.Span},
			Segments: []ast.Node{
				alloc(p, &ast.Text{
					NodeBase: ast.NodeBase{Span: value.Span},
					Raw:      value.Raw(p.s),
				}),
			},
		})
	}

	attr.Span.End = attr.Value.Span.End
	return alloc(p, attr)
}

func (p *parser) parseQuotedAttributeValue(openingQuote ast.Token, tagStart NodeSpan) *ast.AttributeValue {
	p.eat(openingQuote)
	quote := p.s[openingQuote.Span.Start]

	var segments []ast.Node

	for {
		p.panicIfContextDone()

		tok := p.scanAttributeValue(p.i, quote)

		switch tok.Type {
		case ast.EOF:
			p.fail(UnclosedTag, tagStart)
		case ast.ATTR_QUOTE:
			p.eat(tok)
			return alloc(p, &ast.AttributeValue{
				NodeBase: ast.NodeBase{Span: NodeSpan{Start: openingQuote.Span.Start, End: tok.Span.End}},
				Quote:    quote,
				Segments: segments,
			})
		case ast.OUTPUT_OPEN, ast.RAW_OUTPUT_OPEN:
			segments = append(segments, p.parseOutputExpression(tok))
		default:
			p.eat(tok)
			segments = append(segments, alloc(p, &ast.Text{
				NodeBase: ast.NodeBase{Span: tok.Span},
				Raw:      tok.Raw(p.s),
			}))
		}
	}
}
