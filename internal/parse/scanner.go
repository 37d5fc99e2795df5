package parse

import (
	"strings"
	"unicode/utf8"

	"github.com/edgecst/edgecst/internal/ast"
)

type scanMode uint8

const (
	ContentMode scanMode = iota
	TagHeadMode
	AttributeValueMode
	DirectiveParamsMode
	ExpressionMode
	RawBlockMode
)

var scanModeNames = [...]string{
	ContentMode:         "content",
	TagHeadMode:         "tag-head",
	AttributeValueMode:  "attribute-value",
	DirectiveParamsMode: "directive-params",
	ExpressionMode:      "expression",
	RawBlockMode:        "raw-block",
}

func (m scanMode) String() string {
	return scanModeNames[m]
}

const (
	TEMPLATE_COMMENT_OPEN  = "{{--"
	TEMPLATE_COMMENT_CLOSE = "--}}"
	MARKUP_COMMENT_OPEN    = "<!--"
	MARKUP_COMMENT_CLOSE   = "-->"
	DOCTYPE_PREFIX         = "<!doctype"
	ESCAPED_MUSTACHE_OPEN  = "@{{"

	TRUE_KEYWORD  = "true"
	FALSE_KEYWORD = "false"
	NULL_KEYWORD  = "null"
	IN_KEYWORD    = "in"
)

// A scanner returns the lexeme starting at a given offset in a given mode. It
// holds no state besides the source, all methods are pure.
type scanner struct {
	s   string
	len int32
}

func newToken(typ ast.TokenType, start, end int32) ast.Token {
	return ast.Token{Type: typ, Span: NodeSpan{Start: start, End: end}}
}

// scan returns the token starting at pos, leading whitespace is skipped in
// every mode but ContentMode. AttributeValueMode and RawBlockMode have their own
// methods because they need the quote or the tag name.
func (sc scanner) scan(mode scanMode, pos int32) ast.Token {
	switch mode {
	case ContentMode:
		return sc.scanContent(pos)
	case TagHeadMode:
		return sc.scanTagHead(pos)
	case ExpressionMode, DirectiveParamsMode:
		return sc.scanExpression(pos)
	}
	panic("scan: " + mode.String() + " mode requires a dedicated method")
}

func (sc scanner) hasPrefix(pos int32, prefix string) bool {
	return pos <= sc.len && strings.HasPrefix(sc.s[pos:], prefix)
}

func (sc scanner) byteAt(pos int32) byte {
	if pos < 0 || pos >= sc.len {
		return 0
	}
	return sc.s[pos]
}

// indexFrom returns the index of the first occurrence of substr at or after pos, or -1.
func (sc scanner) indexFrom(pos int32, substr string) int32 {
	if pos > sc.len {
		return -1
	}
	idx := strings.Index(sc.s[pos:], substr)
	if idx < 0 {
		return -1
	}
	return pos + int32(idx)
}

func (sc scanner) skipSpaces(pos int32) int32 {
	for pos < sc.len && isSpace(sc.s[pos]) {
		pos++
	}
	return pos
}

func (sc scanner) skipHorizontalSpaces(pos int32) int32 {
	for pos < sc.len && isHorizontalSpace(sc.s[pos]) {
		pos++
	}
	return pos
}

func (sc scanner) identEnd(pos int32) int32 {
	for pos < sc.len && isIdentChar(sc.s[pos]) {
		pos++
	}
	return pos
}

func (sc scanner) tagNameEnd(pos int32) int32 {
	for pos < sc.len && isTagNameChar(sc.s[pos]) {
		pos++
	}
	return pos
}

func (sc scanner) digitsEnd(pos int32) int32 {
	for pos < sc.len && isDigit(sc.s[pos]) {
		pos++
	}
	return pos
}

// runeEnd returns the end of the rune starting at pos.
func (sc scanner) runeEnd(pos int32) int32 {
	if pos >= sc.len {
		return pos
	}
	_, size := utf8.DecodeRuneInString(sc.s[pos:])
	return pos + int32(size)
}

// ---------------------------------------------------------------------------
// Content mode.

func (sc scanner) scanContent(pos int32) ast.Token {
	if pos >= sc.len {
		return newToken(ast.EOF, pos, pos)
	}

	if typ, end, ok := sc.constructAt(pos); ok {
		return newToken(typ, pos, end)
	}

	//literal text, lone '<', '@' and '{' included.
	end := pos + sc.textUnitLen(pos)
	for end < sc.len {
		if _, _, ok := sc.constructAt(end); ok {
			break
		}
		end += sc.textUnitLen(end)
	}
	return newToken(ast.TEXT, pos, end)
}

// constructAt reports whether a non-text token starts at pos in content mode.
func (sc scanner) constructAt(pos int32) (_ ast.TokenType, end int32, _ bool) {
	switch sc.s[pos] {
	case '{':
		switch {
		case sc.hasPrefix(pos, TEMPLATE_COMMENT_OPEN):
			closeIndex := sc.indexFrom(pos+4, TEMPLATE_COMMENT_CLOSE)
			if closeIndex < 0 {
				return ast.ILLEGAL, sc.len, true
			}
			return ast.TEMPLATE_COMMENT, closeIndex + 4, true
		case sc.hasPrefix(pos, "{{{"):
			return ast.RAW_OUTPUT_OPEN, pos + 3, true
		case sc.hasPrefix(pos, "{{"):
			return ast.OUTPUT_OPEN, pos + 2, true
		}
	case '<':
		next := sc.byteAt(pos + 1)
		switch {
		case sc.hasPrefix(pos, MARKUP_COMMENT_OPEN):
			closeIndex := sc.indexFrom(pos+4, MARKUP_COMMENT_CLOSE)
			if closeIndex < 0 {
				return ast.ILLEGAL, sc.len, true
			}
			return ast.MARKUP_COMMENT, closeIndex + 3, true
		case sc.hasDoctypePrefix(pos):
			closeIndex := sc.indexFrom(pos, ">")
			if closeIndex < 0 {
				return ast.ILLEGAL, sc.len, true
			}
			return ast.DOCTYPE, closeIndex + 1, true
		case next == '/' && isAlpha(sc.byteAt(pos+2)):
			return ast.END_TAG_OPEN_DELIMITER, pos + 2, true
		case isAlpha(next):
			return ast.TAG_OPEN_DELIMITER, pos + 1, true
		}
	case '@':
		next := sc.byteAt(pos + 1)
		switch {
		case sc.hasPrefix(pos, ESCAPED_MUSTACHE_OPEN):
			if sc.indexFrom(pos+3, "}}") < 0 {
				return ast.ILLEGAL, sc.len, true
			}
		case next == '!' && isIdentStart(sc.byteAt(pos+2)):
			return ast.DIRECTIVE_AT, pos + 2, true
		case isIdentStart(next):
			return ast.DIRECTIVE_AT, pos + 1, true
		}
	}
	return 0, 0, false
}

func (sc scanner) hasDoctypePrefix(pos int32) bool {
	end := pos + int32(len(DOCTYPE_PREFIX))
	return end <= sc.len && strings.EqualFold(sc.s[pos:end], DOCTYPE_PREFIX)
}

// textUnitLen returns the length of the literal text starting at pos: an escape
// (@@name, @{{ ... }}) or a run of bytes up to the next '<', '@' or '{'.
func (sc scanner) textUnitLen(pos int32) int32 {
	if sc.s[pos] == '@' {
		next := sc.byteAt(pos + 1)
		switch {
		case next == '@' && isIdentStart(sc.byteAt(pos+2)):
			return sc.identEnd(pos+2) - pos
		case sc.hasPrefix(pos, ESCAPED_MUSTACHE_OPEN):
			//terminated, otherwise constructAt would have returned ILLEGAL.
			closeIndex := sc.indexFrom(pos+3, "}}")
			return closeIndex + 2 - pos
		}
	}

	next := strings.IndexAny(sc.s[pos+1:], "<@{")
	if next < 0 {
		return sc.len - pos
	}
	return 1 + int32(next)
}

// ---------------------------------------------------------------------------
// Tag head & attribute value modes.

func (sc scanner) scanTagHead(pos int32) ast.Token {
	pos = sc.skipSpaces(pos)
	if pos >= sc.len {
		return newToken(ast.EOF, pos, pos)
	}

	switch c := sc.s[pos]; c {
	case '>':
		return newToken(ast.TAG_CLOSE_DELIMITER, pos, pos+1)
	case '/':
		if sc.byteAt(pos+1) == '>' {
			return newToken(ast.SELF_CLOSING_DELIMITER, pos, pos+2)
		}
	case '=':
		return newToken(ast.ATTR_EQUAL, pos, pos+1)
	case '"', '\'':
		return newToken(ast.ATTR_QUOTE, pos, pos+1)
	case '{':
		switch {
		case sc.hasPrefix(pos, "{{{"):
			return newToken(ast.RAW_OUTPUT_OPEN, pos, pos+3)
		case sc.hasPrefix(pos, "{{"):
			return newToken(ast.OUTPUT_OPEN, pos, pos+2)
		}
	default:
		if isAttrNameChar(c) {
			end := pos + 1
			for end < sc.len && isAttrNameChar(sc.s[end]) {
				end++
			}
			return newToken(ast.ATTR_NAME, pos, end)
		}
	}

	return newToken(ast.ILLEGAL, pos, sc.runeEnd(pos))
}

// scanUnquotedAttributeValue returns an ATTR_VALUE token, or an ILLEGAL token if the
// value is empty or contains a '{'.
func (sc scanner) scanUnquotedAttributeValue(pos int32) ast.Token {
	end := pos
	for end < sc.len && !isSpace(sc.s[end]) && !strings.ContainsRune("\"'<>=`", rune(sc.s[end])) {
		if sc.s[end] == '{' {
			return newToken(ast.ILLEGAL, end, end+1)
		}
		end++
	}
	if end == pos {
		return newToken(ast.ILLEGAL, pos, sc.runeEnd(pos))
	}
	return newToken(ast.ATTR_VALUE, pos, end)
}

// scanAttributeValue scans inside a quoted attribute value: the closing quote, an
// output open delimiter or a literal run.
func (sc scanner) scanAttributeValue(pos int32, quote byte) ast.Token {
	if pos >= sc.len {
		return newToken(ast.EOF, pos, pos)
	}

	switch {
	case sc.s[pos] == quote:
		return newToken(ast.ATTR_QUOTE, pos, pos+1)
	case sc.hasPrefix(pos, "{{{"):
		return newToken(ast.RAW_OUTPUT_OPEN, pos, pos+3)
	case sc.hasPrefix(pos, "{{"):
		return newToken(ast.OUTPUT_OPEN, pos, pos+2)
	}

	end := pos
	for end < sc.len {
		c := sc.s[end]
		if c == quote || (c == '{' && sc.byteAt(end+1) == '{') {
			break
		}
		if c == '@' && sc.hasPrefix(end, ESCAPED_MUSTACHE_OPEN) {
			closeIndex := sc.indexFrom(end+3, "}}")
			quoteIndex := sc.indexFrom(end+3, string(quote))
			if closeIndex >= 0 && (quoteIndex < 0 || closeIndex < quoteIndex) {
				end = closeIndex + 2
				continue
			}
		}
		end++
	}
	return newToken(ast.ATTR_VALUE, pos, end)
}

// ---------------------------------------------------------------------------
// Raw block mode.

// scanRawBlock returns the RAW_TEXT token extending to the first '</tagName' that is not
// followed by a tag name character, or an ILLEGAL token if there is none.
func (sc scanner) scanRawBlock(pos int32, tagName string) ast.Token {
	closing := "</" + tagName
	from := pos
	for {
		idx := sc.indexFrom(from, closing)
		if idx < 0 {
			return newToken(ast.ILLEGAL, pos, sc.len)
		}
		after := idx + int32(len(closing))
		if !isTagNameChar(sc.byteAt(after)) {
			return newToken(ast.RAW_TEXT, pos, idx)
		}
		from = idx + 1
	}
}

// ---------------------------------------------------------------------------
// Expression & directive parameters modes.

func (sc scanner) scanExpression(pos int32) ast.Token {
	pos = sc.skipSpaces(pos)
	if pos >= sc.len {
		return newToken(ast.EOF, pos, pos)
	}

	c := sc.s[pos]

	switch {
	case isIdentStart(c):
		end := sc.identEnd(pos + 1)
		switch sc.s[pos:end] {
		case TRUE_KEYWORD, FALSE_KEYWORD, NULL_KEYWORD:
			return newToken(ast.KEYWORD, pos, end)
		}
		return newToken(ast.IDENTIFIER, pos, end)
	case isDigit(c):
		return newToken(ast.NUMBER, pos, sc.numberEnd(pos))
	case c == '"' || c == '\'' || c == '`':
		return sc.scanString(pos)
	}

	single := func(typ ast.TokenType) ast.Token {
		return newToken(typ, pos, pos+1)
	}

	switch c {
	case '(':
		return single(ast.OPENING_PARENTHESIS)
	case ')':
		return single(ast.CLOSING_PARENTHESIS)
	case '[':
		return single(ast.OPENING_BRACKET)
	case ']':
		return single(ast.CLOSING_BRACKET)
	case '{':
		return single(ast.OPENING_CURLY_BRACKET)
	case '}':
		return single(ast.CLOSING_CURLY_BRACKET)
	case ',':
		return single(ast.COMMA)
	case '.':
		return single(ast.DOT)
	case ':':
		return single(ast.COLON)
	case '?':
		return single(ast.QUESTION_MARK)
	case '+':
		return single(ast.PLUS)
	case '-':
		return single(ast.MINUS)
	case '*':
		return single(ast.ASTERISK)
	case '/':
		return single(ast.SLASH)
	case '%':
		return single(ast.PERCENT)
	case '=':
		return sc.longestOperator(pos, op{"===", ast.STRICT_EQUAL}, op{"==", ast.EQUAL}, op{"=", ast.ASSIGN})
	case '!':
		return sc.longestOperator(pos, op{"!==", ast.STRICT_NOT_EQUAL}, op{"!=", ast.NOT_EQUAL}, op{"!", ast.EXCLAMATION_MARK})
	case '<':
		return sc.longestOperator(pos, op{"<=", ast.LESS_OR_EQUAL}, op{"<", ast.LESS_THAN})
	case '>':
		return sc.longestOperator(pos, op{">=", ast.GREATER_OR_EQUAL}, op{">", ast.GREATER_THAN})
	case '|':
		return sc.longestOperator(pos, op{"||", ast.OR})
	case '&':
		return sc.longestOperator(pos, op{"&&", ast.AND})
	}

	return newToken(ast.ILLEGAL, pos, sc.runeEnd(pos))
}

type op struct {
	lexeme string
	typ    ast.TokenType
}

// longestOperator returns the first candidate that matches at pos, candidates are sorted by decreasing length.
func (sc scanner) longestOperator(pos int32, candidates ...op) ast.Token {
	for _, candidate := range candidates {
		if sc.hasPrefix(pos, candidate.lexeme) {
			return newToken(candidate.typ, pos, pos+int32(len(candidate.lexeme)))
		}
	}
	return newToken(ast.ILLEGAL, pos, pos+1)
}

// numberEnd returns the end of the number starting at pos: digits, optionally followed by '.' and digits.
func (sc scanner) numberEnd(pos int32) int32 {
	end := sc.digitsEnd(pos)
	if sc.byteAt(end) == '.' && isDigit(sc.byteAt(end+1)) {
		end = sc.digitsEnd(end + 1)
	}
	return end
}

// scanString returns a STRING token, escape sequences are kept verbatim. An
// unterminated string is returned as an ILLEGAL token extending to the end.
func (sc scanner) scanString(pos int32) ast.Token {
	quote := sc.s[pos]
	i := pos + 1
	for i < sc.len {
		switch sc.s[i] {
		case '\\':
			i += 2
			continue
		case quote:
			return newToken(ast.STRING, pos, i+1)
		}
		i++
	}
	return newToken(ast.ILLEGAL, pos, sc.len)
}

// ---------------------------------------------------------------------------
// Character classes.

func isAlpha(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isIdentStart(c byte) bool {
	return isAlpha(c) || c == '_' || c == '$'
}

func isIdentChar(c byte) bool {
	return isIdentStart(c) || isDigit(c)
}

func isTagNameChar(c byte) bool {
	return isAlpha(c) || isDigit(c) || c == '-' || c == '_' || c == ':' || c == '.'
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f'
}

func isHorizontalSpace(c byte) bool {
	return c == ' ' || c == '\t'
}

func isAttrNameChar(c byte) bool {
	return c != 0 && !isSpace(c) && !strings.ContainsRune("\"'<>/={}", rune(c))
}
