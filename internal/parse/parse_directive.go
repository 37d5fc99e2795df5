package parse

import (
	"slices"

	"github.com/edgecst/edgecst/internal/ast"
)

const (
	IF_DIRECTIVE        = "if"
	ELSEIF_DIRECTIVE    = "elseif"
	ELSE_DIRECTIVE      = "else"
	END_DIRECTIVE       = "end"
	EACH_DIRECTIVE      = "each"
	COMPONENT_DIRECTIVE = "component"
	SLOT_DIRECTIVE      = "slot"
	INCLUDE_DIRECTIVE   = "include"
	LET_DIRECTIVE       = "let"
)

var (
	BLOCK_DIRECTIVE_NAMES     = []string{IF_DIRECTIVE, EACH_DIRECTIVE, COMPONENT_DIRECTIVE, SLOT_DIRECTIVE}
	STATEMENT_DIRECTIVE_NAMES = []string{INCLUDE_DIRECTIVE, LET_DIRECTIVE}
	RESERVED_DIRECTIVE_NAMES  = []string{END_DIRECTIVE, ELSE_DIRECTIVE, ELSEIF_DIRECTIVE}
)

// DirectiveCategoryOf classifies a directive by its exact name, unknown names are generic.
func DirectiveCategoryOf(name string) ast.DirectiveCategory {
	switch {
	case slices.Contains(BLOCK_DIRECTIVE_NAMES, name):
		return ast.BlockDirective
	case slices.Contains(STATEMENT_DIRECTIVE_NAMES, name):
		return ast.StatementDirective
	}
	return ast.GenericDirective
}

// IsReservedDirectiveName returns true for end, else and elseif: they never start a directive.
func IsReservedDirectiveName(name string) bool {
	return slices.Contains(RESERVED_DIRECTIVE_NAMES, name)
}

type directiveHead struct {
	at       ast.Token //'@' or '@!'
	inline   bool
	name     string
	nameSpan NodeSpan
}

func (h directiveHead) span() NodeSpan {
	return NodeSpan{Start: h.at.Span.Start, End: h.nameSpan.End}
}

// scanDirectiveHead reads the name following a DIRECTIVE_AT token without consuming anything.
func (p *parser) scanDirectiveHead(at ast.Token) directiveHead {
	nameEnd := p.identEnd(at.Span.End)
	return directiveHead{
		at:       at,
		inline:   at.Span.Len() == 2,
		name:     p.s[at.Span.End:nameEnd],
		nameSpan: NodeSpan{Start: at.Span.End, End: nameEnd},
	}
}

func (p *parser) eatDirectiveHead(head directiveHead) {
	p.eat(head.at)
	p.eat(ast.Token{Type: ast.DIRECTIVE_NAME, Span: head.nameSpan})
}

// checkDirectiveStop is called when @end, @else or @elseif is found in content: it fails unless
// the innermost open construct is a block directive that accepts it.
func (p *parser) checkDirectiveStop(head directiveHead) {
	if head.inline {
		p.fail(UnexpectedToken, head.span())
	}

	top := p.topFrame()

	switch {
	case top == nil:
		p.fail(UnmatchedDirectiveEnd, head.span())
	case top.isTag:
		if p.findFrameBelowTop(false) != nil {
			p.fail(UnclosedTag, top.start)
		}
		p.fail(UnmatchedDirectiveEnd, head.span())
	case head.name == END_DIRECTIVE:
		//ok
	default: //@else & @elseif
		if top.name != IF_DIRECTIVE || top.sawElse {
			p.fail(UnmatchedDirectiveEnd, head.span())
		}
	}
}

// parseDirective parses a directive whose name is not reserved: name, optional method,
// optional parameter list and for block directives the body up to the matching @end.
func (p *parser) parseDirective(head directiveHead) *ast.Directive {
	p.panicIfContextDone()
	p.enter()
	defer p.leave()
	p.eatDirectiveHead(head)

	directive := &ast.Directive{
		Name:     head.name,
		NameSpan: head.nameSpan,
		Category: DirectiveCategoryOf(head.name),
		Inline:   head.inline,
	}

	//method
	if p.byteAt(p.i) == '.' && isIdentStart(p.byteAt(p.i+1)) {
		p.eat(newToken(ast.DIRECTIVE_DOT, p.i, p.i+1))
		method := p.eat(newToken(ast.DIRECTIVE_METHOD, p.i, p.identEnd(p.i)))

		directive.Method = method.Raw(p.s)
		directive.MethodSpan = method.Span
	}

	//parameters
	switch {
	case directive.Category != ast.GenericDirective:
		p.expectParameterList()
		directive.Params = p.parseParameterList(head.name)
	case p.byteAt(p.i) == '(':
		directive.Params = p.parseParameterList(head.name)
	}

	directive.Closed = true

	if directive.Category != ast.BlockDirective || directive.Inline {
		directive.Span = NodeSpan{Start: head.at.Span.Start, End: p.i}
		return alloc(p, directive)
	}

	//body

	blockFrame := &frame{name: head.name, start: head.span()}
	p.pushFrame(blockFrame)

	body, stop := p.parseContent()
	directive.Body = body

	for stop.Type == ast.DIRECTIVE_AT {
		stopHead := p.scanDirectiveHead(stop)
		if stopHead.name == END_DIRECTIVE {
			break
		}

		var clause *ast.ElseClause
		clause, stop = p.parseElseClause(stopHead, blockFrame)
		directive.Else = append(directive.Else, clause)
	}

	p.popFrame()

	if stop.Type == ast.EOF {
		p.fail(UnterminatedDirective, blockFrame.start)
	}

	endHead := p.scanDirectiveHead(stop)
	p.eatDirectiveHead(endHead)

	end := endHead.span()
	directive.End = &end
	directive.Span = NodeSpan{Start: head.at.Span.Start, End: p.i}

	return alloc(p, directive)
}

// expectParameterList fails if the next character, horizontal whitespace excluded, is not a '('.
func (p *parser) expectParameterList() {
	parenIndex := p.skipHorizontalSpaces(p.i)
	if p.byteAt(parenIndex) != '(' {
		p.fail(UnexpectedToken, NodeSpan{Start: parenIndex, End: p.runeEnd(parenIndex)})
	}
}

// parseElseClause parses @else or @elseif(...) and the clause's body.
func (p *parser) parseElseClause(head directiveHead, ifFrame *frame) (*ast.ElseClause, ast.Token) {
	p.eatDirectiveHead(head)

	clause := &ast.ElseClause{
		IsElseIf: head.name == ELSEIF_DIRECTIVE,
	}

	if clause.IsElseIf {
		p.expectParameterList()
		clause.Params = p.parseParameterList(ELSEIF_DIRECTIVE)
	} else {
		ifFrame.sawElse = true
	}

	body, stop := p.parseContent()
	clause.Body = body
	clause.Span = NodeSpan{Start: head.at.Span.Start, End: p.i}

	return alloc(p, clause), stop
}

// parseParameterList parses the parenthesized parameters of a directive, their shape depends on the directive.
func (p *parser) parseParameterList(directiveName string) *ast.ParameterList {
	savedMode := p.exprMode
	p.exprMode = DirectiveParamsMode
	defer func() {
		p.exprMode = savedMode
	}()

	opening := p.next(p.exprMode)
	list := &ast.ParameterList{}

	var closing ast.Token

	switch directiveName {
	case IF_DIRECTIVE, ELSEIF_DIRECTIVE:
		condition := p.parseExpression()
		list.Params = []ast.Parameter{p.positionalParameter(condition)}
		closing = p.expectClosing(opening, ast.CLOSING_PARENTHESIS)
	case EACH_DIRECTIVE:
		list.Params = []ast.Parameter{p.parseEachBinding()}
		closing = p.expectClosing(opening, ast.CLOSING_PARENTHESIS)
	case LET_DIRECTIVE:
		list.Params = []ast.Parameter{p.parseAssignment()}
		closing = p.expectClosing(opening, ast.CLOSING_PARENTHESIS)
	default:
		list.Params, closing = p.parseParameters(opening)
	}

	list.Span = NodeSpan{Start: opening.Span.Start, End: closing.Span.End}
	return alloc(p, list)
}

// parseEachBinding parses `item in expr` or `(item, index) in expr`.
func (p *parser) parseEachBinding() *ast.EachBinding {
	binding := &ast.EachBinding{}

	tok := p.peek(p.exprMode)
	switch tok.Type {
	case ast.IDENTIFIER:
		binding.Item = p.parseIdentifier()
	case ast.OPENING_PARENTHESIS:
		p.eat(tok)
		binding.Item = p.parseIdentifier()

		comma := p.peek(p.exprMode)
		if comma.Type != ast.COMMA {
			p.failUnexpected(comma)
		}
		p.eat(comma)

		binding.Index = p.parseIdentifier()
		p.expectClosing(tok, ast.CLOSING_PARENTHESIS)
	default:
		p.failUnexpected(tok)
	}

	//'in' is only a keyword here, it is scanned as an identifier.
	in := p.peek(p.exprMode)
	if in.Type != ast.IDENTIFIER || in.Raw(p.s) != IN_KEYWORD {
		p.failUnexpected(in)
	}
	p.eat(newToken(ast.KEYWORD, in.Span.Start, in.Span.End))

	binding.Source = p.parseExpression()
	binding.Span = NodeSpan{Start: tok.Span.Start, End: binding.Source.Base().Span.End}

	return alloc(p, binding)
}

// parseAssignment parses `ident = expr`.
func (p *parser) parseAssignment() *ast.Assignment {
	target := p.parseIdentifier()

	assign := p.peek(p.exprMode)
	if assign.Type != ast.ASSIGN {
		p.failUnexpected(assign)
	}
	p.eat(assign)

	value := p.parseExpression()

	return alloc(p, &ast.Assignment{
		NodeBase: ast.NodeBase{Span: NodeSpan{Start: target.Span.Start, End: value.Base().Span.End}},
		Target:   target,
		Value:    value,
	})
}

// parseParameters parses a comma-separated list of positional and named parameters.
func (p *parser) parseParameters(opening ast.Token) (params []ast.Parameter, closing ast.Token) {
	tok := p.peek(p.exprMode)
	if tok.Type == ast.CLOSING_PARENTHESIS {
		return nil, p.eat(tok)
	}

	for {
		params = append(params, p.parseParameter())

		tok = p.peek(p.exprMode)
		switch tok.Type {
		case ast.COMMA:
			p.eat(tok)
			continue
		case ast.CLOSING_PARENTHESIS:
			return params, p.eat(tok)
		}
		p.failMissingClosing(opening, tok)
	}
}

// parseParameter parses `key: expr` if the next two tokens are an identifier or a string followed by a colon,
// and a positional expression otherwise.
func (p *parser) parseParameter() ast.Parameter {
	tok := p.peek(p.exprMode)

	if tok.Type == ast.IDENTIFIER || tok.Type == ast.STRING {
		if afterKey := p.scan(p.exprMode, tok.Span.End); afterKey.Type == ast.COLON {
			var key ast.Expression
			if tok.Type == ast.IDENTIFIER {
				key = p.parseIdentifier()
			} else {
				p.eat(tok)
				key = p.stringLiteral(tok)
			}
			p.eat(afterKey)

			value := p.parseExpression()

			return alloc(p, &ast.NamedParameter{
				NodeBase: ast.NodeBase{Span: NodeSpan{Start: tok.Span.Start, End: value.Base().Span.End}},
				Key:      key,
				Value:    value,
			})
		}
	}

	return p.positionalParameter(p.parseExpression())
}

func (p *parser) positionalParameter(value ast.Expression) *ast.PositionalParameter {
	return alloc(p, &ast.PositionalParameter{
		NodeBase: ast.NodeBase{Span: value.Base().Span},
		Value:    value,
	})
}
