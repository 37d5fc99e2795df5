package parse

import (
	"github.com/edgecst/edgecst/internal/ast"
)

// binary operator precedences, from the loosest to the tightest. The ternary
// operator is looser than all of them, unary operators are tighter.
const (
	OR_PRECEDENCE = iota + 1
	AND_PRECEDENCE
	EQUALITY_PRECEDENCE
	RELATIONAL_PRECEDENCE
	ADDITIVE_PRECEDENCE
	MULTIPLICATIVE_PRECEDENCE
)

// binaryOperatorOf returns the operator and its precedence, the precedence is 0 if the token is not a binary operator.
func binaryOperatorOf(t ast.TokenType) (ast.BinaryOperator, int) {
	switch t {
	case ast.OR:
		return ast.Or, OR_PRECEDENCE
	case ast.AND:
		return ast.And, AND_PRECEDENCE
	case ast.EQUAL:
		return ast.Equal, EQUALITY_PRECEDENCE
	case ast.NOT_EQUAL:
		return ast.NotEqual, EQUALITY_PRECEDENCE
	case ast.STRICT_EQUAL:
		return ast.StrictEqual, EQUALITY_PRECEDENCE
	case ast.STRICT_NOT_EQUAL:
		return ast.StrictNotEqual, EQUALITY_PRECEDENCE
	case ast.LESS_THAN:
		return ast.LessThan, RELATIONAL_PRECEDENCE
	case ast.GREATER_THAN:
		return ast.GreaterThan, RELATIONAL_PRECEDENCE
	case ast.LESS_OR_EQUAL:
		return ast.LessOrEqual, RELATIONAL_PRECEDENCE
	case ast.GREATER_OR_EQUAL:
		return ast.GreaterOrEqual, RELATIONAL_PRECEDENCE
	case ast.PLUS:
		return ast.Add, ADDITIVE_PRECEDENCE
	case ast.MINUS:
		return ast.Sub, ADDITIVE_PRECEDENCE
	case ast.ASTERISK:
		return ast.Mul, MULTIPLICATIVE_PRECEDENCE
	case ast.SLASH:
		return ast.Div, MULTIPLICATIVE_PRECEDENCE
	case ast.PERCENT:
		return ast.Mod, MULTIPLICATIVE_PRECEDENCE
	}
	return 0, 0
}

func (p *parser) parseExpression() ast.Expression {
	p.panicIfContextDone()
	return p.parseTernary()
}

// parseTernary parses a ternary expression or a binary expression, ternaries are right-associative:
// a ? b : c ? d : e is parsed as a ? b : (c ? d : e).
func (p *parser) parseTernary() ast.Expression {
	p.enter()
	defer p.leave()

	condition := p.parseBinary(OR_PRECEDENCE)

	questionMark := p.peek(p.exprMode)
	if questionMark.Type != ast.QUESTION_MARK {
		return condition
	}
	p.eat(questionMark)

	then := p.parseTernary()

	colon := p.peek(p.exprMode)
	if colon.Type != ast.COLON {
		p.failUnexpected(colon)
	}
	p.eat(colon)

	otherwise := p.parseTernary()

	return alloc(p, &ast.Ternary{
		NodeBase:  ast.NodeBase{Span: NodeSpan{Start: condition.Base().Span.Start, End: otherwise.Base().Span.End}},
		Condition: condition,
		Then:      then,
		Otherwise: otherwise,
	})
}

// parseBinary parses binary expressions whose operators have a precedence >= minPrecedence, all binary
// operators are left-associative.
func (p *parser) parseBinary(minPrecedence int) ast.Expression {
	left := p.parseUnary()

	for {
		tok := p.peek(p.exprMode)
		operator, precedence := binaryOperatorOf(tok.Type)
		if precedence == 0 || precedence < minPrecedence {
			return left
		}
		p.eat(tok)

		right := p.parseBinary(precedence + 1)

		left = alloc(p, &ast.Binary{
			NodeBase: ast.NodeBase{Span: NodeSpan{Start: left.Base().Span.Start, End: right.Base().Span.End}},
			Operator: operator,
			Left:     left,
			Right:    right,
		})
	}
}

func (p *parser) parseUnary() ast.Expression {
	tok := p.peek(p.exprMode)

	var operator ast.UnaryOperator

	switch tok.Type {
	case ast.EXCLAMATION_MARK:
		operator = ast.BoolNegate
	case ast.PLUS:
		operator = ast.NumberPlus
	case ast.MINUS:
		//negative number literal, unless a postfix operator applies to the number: -1.foo is -(1.foo).
		if isDigit(p.byteAt(tok.Span.End)) {
			numberEnd := p.numberEnd(tok.Span.End)
			if !isPostfixOperator(p.scan(p.exprMode, numberEnd).Type) {
				return p.numberLiteral(p.eat(newToken(ast.NUMBER, tok.Span.Start, numberEnd)))
			}
		}
		operator = ast.NumberNegate
	default:
		return p.parsePostfix(p.parsePrimary())
	}

	p.eat(tok)
	p.enter()
	operand := p.parseUnary()
	p.leave()

	return alloc(p, &ast.Unary{
		NodeBase: ast.NodeBase{Span: NodeSpan{Start: tok.Span.Start, End: operand.Base().Span.End}},
		Operator: operator,
		Operand:  operand,
	})
}

func isPostfixOperator(t ast.TokenType) bool {
	return t == ast.DOT || t == ast.OPENING_PARENTHESIS || t == ast.OPENING_BRACKET
}

// parsePostfix parses the member accesses, calls and index expressions following expr, the chain is left-associative.
func (p *parser) parsePostfix(expr ast.Expression) ast.Expression {
	for {
		p.panicIfContextDone()

		tok := p.peek(p.exprMode)
		start := expr.Base().Span.Start

		switch tok.Type {
		case ast.DOT:
			p.eat(tok)

			memberToken := p.peek(p.exprMode)
			if memberToken.Type != ast.IDENTIFIER && memberToken.Type != ast.KEYWORD {
				p.failUnexpected(memberToken)
			}
			p.eat(memberToken)

			member := alloc(p, &ast.Identifier{
				NodeBase: ast.NodeBase{Span: memberToken.Span},
				Name:     memberToken.Raw(p.s),
			})

			expr = alloc(p, &ast.MemberAccess{
				NodeBase: ast.NodeBase{Span: NodeSpan{Start: start, End: member.Span.End}},
				Object:   expr,
				Member:   member,
			})
		case ast.OPENING_PARENTHESIS:
			args, closing := p.parseExpressionList(tok, ast.CLOSING_PARENTHESIS)

			expr = alloc(p, &ast.Call{
				NodeBase: ast.NodeBase{Span: NodeSpan{Start: start, End: closing.Span.End}},
				Callee:   expr,
				Args:     args,
			})
		case ast.OPENING_BRACKET:
			p.eat(tok)
			index := p.parseExpression()
			closing := p.expectClosing(tok, ast.CLOSING_BRACKET)

			expr = alloc(p, &ast.IndexExpression{
				NodeBase: ast.NodeBase{Span: NodeSpan{Start: start, End: closing.Span.End}},
				Object:   expr,
				Index:    index,
			})
		default:
			return expr
		}
	}
}

func (p *parser) parsePrimary() ast.Expression {
	tok := p.peek(p.exprMode)

	switch tok.Type {
	case ast.IDENTIFIER:
		p.eat(tok)
		return alloc(p, &ast.Identifier{
			NodeBase: ast.NodeBase{Span: tok.Span},
			Name:     tok.Raw(p.s),
		})
	case ast.KEYWORD:
		switch tok.Raw(p.s) {
		case TRUE_KEYWORD, FALSE_KEYWORD:
			p.eat(tok)
			return alloc(p, &ast.BooleanLiteral{
				NodeBase: ast.NodeBase{Span: tok.Span},
				Value:    tok.Raw(p.s) == TRUE_KEYWORD,
			})
		case NULL_KEYWORD:
			p.eat(tok)
			return alloc(p, &ast.NullLiteral{NodeBase: ast.NodeBase{Span: tok.Span}})
		}
	case ast.NUMBER:
		p.eat(tok)
		return p.numberLiteral(tok)
	case ast.STRING:
		p.eat(tok)
		return p.stringLiteral(tok)
	case ast.OPENING_BRACKET:
		elements, closing := p.parseExpressionList(tok, ast.CLOSING_BRACKET)
		return alloc(p, &ast.ArrayLiteral{
			NodeBase: ast.NodeBase{Span: NodeSpan{Start: tok.Span.Start, End: closing.Span.End}},
			Elements: elements,
		})
	case ast.OPENING_CURLY_BRACKET:
		return p.parseObjectLiteral(tok)
	case ast.OPENING_PARENTHESIS:
		p.eat(tok)
		inner := p.parseExpression()
		closing := p.expectClosing(tok, ast.CLOSING_PARENTHESIS)
		return alloc(p, &ast.ParenthesizedExpression{
			NodeBase: ast.NodeBase{Span: NodeSpan{Start: tok.Span.Start, End: closing.Span.End}},
			Inner:    inner,
		})
	}

	p.failUnexpected(tok)
	return nil
}

func (p *parser) numberLiteral(tok ast.Token) *ast.NumberLiteral {
	return alloc(p, &ast.NumberLiteral{
		NodeBase: ast.NodeBase{Span: tok.Span},
		Raw:      tok.Raw(p.s),
	})
}

func (p *parser) stringLiteral(tok ast.Token) *ast.StringLiteral {
	return alloc(p, &ast.StringLiteral{
		NodeBase: ast.NodeBase{Span: tok.Span},
		Raw:      tok.Raw(p.s),
		Quote:    p.s[tok.Span.Start],
	})
}

func (p *parser) parseIdentifier() *ast.Identifier {
	tok := p.peek(p.exprMode)
	if tok.Type != ast.IDENTIFIER {
		p.failUnexpected(tok)
	}
	p.eat(tok)
	return alloc(p, &ast.Identifier{
		NodeBase: ast.NodeBase{Span: tok.Span},
		Name:     tok.Raw(p.s),
	})
}

// parseExpressionList parses a comma-separated list of expressions, opening is the
// (not yet consumed) opening delimiter. Trailing commas are not allowed.
func (p *parser) parseExpressionList(opening ast.Token, closingType ast.TokenType) (elements []ast.Expression, closing ast.Token) {
	p.eat(opening)

	tok := p.peek(p.exprMode)
	if tok.Type == closingType {
		return nil, p.eat(tok)
	}

	for {
		elements = append(elements, p.parseExpression())

		tok = p.peek(p.exprMode)
		switch tok.Type {
		case ast.COMMA:
			p.eat(tok)
			continue
		case closingType:
			return elements, p.eat(tok)
		}
		p.failMissingClosing(opening, tok)
	}
}

// parseObjectLiteral parses an object literal, keys are identifiers or strings. Only
// identifier keys can be used without a value ({ user }).
func (p *parser) parseObjectLiteral(opening ast.Token) *ast.ObjectLiteral {
	p.eat(opening)

	var properties []*ast.ObjectProperty

	tok := p.peek(p.exprMode)
	if tok.Type == ast.CLOSING_CURLY_BRACKET {
		closing := p.eat(tok)
		return alloc(p, &ast.ObjectLiteral{
			NodeBase: ast.NodeBase{Span: NodeSpan{Start: opening.Span.Start, End: closing.Span.End}},
		})
	}

	for {
		p.panicIfContextDone()

		keyToken := p.peek(p.exprMode)
		var key ast.Expression

		switch keyToken.Type {
		case ast.IDENTIFIER:
			key = p.parseIdentifier()
		case ast.STRING:
			p.eat(keyToken)
			key = p.stringLiteral(keyToken)
		default:
			p.failUnexpected(keyToken)
		}

		property := &ast.ObjectProperty{
			NodeBase: ast.NodeBase{Span: keyToken.Span},
			Key:      key,
		}

		colon := p.peek(p.exprMode)
		if colon.Type == ast.COLON {
			p.eat(colon)
			property.Value = p.parseExpression()
			property.Span.End = property.Value.Base().Span.End
		} else if keyToken.Type == ast.STRING {
			p.failUnexpected(colon)
		}

		properties = append(properties, alloc(p, property))

		tok = p.peek(p.exprMode)
		switch tok.Type {
		case ast.COMMA:
			p.eat(tok)
			continue
		case ast.CLOSING_CURLY_BRACKET:
			closing := p.eat(tok)
			return alloc(p, &ast.ObjectLiteral{
				NodeBase:   ast.NodeBase{Span: NodeSpan{Start: opening.Span.Start, End: closing.Span.End}},
				Properties: properties,
			})
		}
		p.failMissingClosing(opening, tok)
	}
}

// expectClosing consumes the next token if it has the closing type, otherwise the parse fails.
func (p *parser) expectClosing(opening ast.Token, closingType ast.TokenType) ast.Token {
	tok := p.peek(p.exprMode)
	if tok.Type != closingType {
		p.failMissingClosing(opening, tok)
	}
	return p.eat(tok)
}

// failMissingClosing fails with an UnterminatedExpression error located at the opening delimiter if the
// input ends or if a different closing delimiter is found, and with an UnexpectedToken error otherwise.
func (p *parser) failMissingClosing(opening, found ast.Token) {
	switch found.Type {
	case ast.EOF, ast.CLOSING_PARENTHESIS, ast.CLOSING_BRACKET, ast.CLOSING_CURLY_BRACKET:
		p.failAt(UnterminatedExpression, opening)
	}
	p.failUnexpected(found)
}

// failUnexpected fails with an UnexpectedToken error, or with an UnterminatedExpression
// error if the token is an unterminated string.
func (p *parser) failUnexpected(tok ast.Token) {
	if tok.Type == ast.ILLEGAL && isQuote(p.byteAt(tok.Span.Start)) {
		p.failAt(UnterminatedExpression, tok)
	}
	p.failAt(UnexpectedToken, tok)
}

func isQuote(c byte) bool {
	return c == '"' || c == '\'' || c == '`'
}

// parseOutputExpression parses {{ expr }} or {{{ expr }}}, open is the (not yet consumed) opening delimiter.
// The closing delimiter is matched on the source bytes: the expression scanner only knows single braces.
func (p *parser) parseOutputExpression(open ast.Token) *ast.OutputExpression {
	p.panicIfContextDone()
	p.eat(open)

	mode := ast.Escaped
	closingDelim := "}}"
	closingType := ast.OUTPUT_CLOSE
	if open.Type == ast.RAW_OUTPUT_OPEN {
		mode = ast.RawOutput
		closingDelim = "}}}"
		closingType = ast.RAW_OUTPUT_CLOSE
	}

	savedMode := p.exprMode
	p.exprMode = ExpressionMode
	defer func() {
		p.exprMode = savedMode
	}()

	var expr ast.Expression

	closingStart := p.skipSpaces(p.i)
	if !p.hasPrefix(closingStart, closingDelim) {
		expr = p.parseExpression()
		closingStart = p.skipSpaces(p.i)
	}

	if !p.hasPrefix(closingStart, closingDelim) {
		p.failMissingClosing(open, p.scan(ExpressionMode, closingStart))
	}

	closing := p.eat(newToken(closingType, closingStart, closingStart+int32(len(closingDelim))))

	return alloc(p, &ast.OutputExpression{
		NodeBase: ast.NodeBase{Span: NodeSpan{Start: open.Span.Start, End: closing.Span.End}},
		Mode:     mode,
		Expr:     expr,
	})
}
