package ast

// A Token is a lexeme recognized by the scanner. Tokens carry no value, the
// lexeme is the substring of the source covered by Span.
type Token struct {
	Type TokenType `json:"type"`
	Span NodeSpan  `json:"span"`
}

func (t Token) Raw(src string) string {
	return t.Span.Text(src)
}

type TokenType uint16

const (
	EOF TokenType = iota
	ILLEGAL

	//content mode
	TEXT
	TEMPLATE_COMMENT
	MARKUP_COMMENT
	DOCTYPE
	TAG_OPEN_DELIMITER     // <
	END_TAG_OPEN_DELIMITER // </
	DIRECTIVE_AT           // @ or @!
	DIRECTIVE_NAME
	DIRECTIVE_DOT
	DIRECTIVE_METHOD
	OUTPUT_OPEN      // {{
	RAW_OUTPUT_OPEN  // {{{
	OUTPUT_CLOSE     // }}
	RAW_OUTPUT_CLOSE // }}}

	//tag head mode
	TAG_NAME
	ATTR_NAME
	ATTR_EQUAL
	ATTR_QUOTE
	ATTR_VALUE             // unquoted value
	TAG_CLOSE_DELIMITER    // >
	SELF_CLOSING_DELIMITER // />

	//raw block mode
	RAW_TEXT

	//expression & directive parameters modes
	IDENTIFIER
	KEYWORD // true, false, null, in
	NUMBER
	STRING
	OPENING_PARENTHESIS
	CLOSING_PARENTHESIS
	OPENING_BRACKET
	CLOSING_BRACKET
	OPENING_CURLY_BRACKET
	CLOSING_CURLY_BRACKET
	COMMA
	DOT
	COLON
	QUESTION_MARK
	ASSIGN
	EXCLAMATION_MARK
	PLUS
	MINUS
	ASTERISK
	SLASH
	PERCENT
	OR
	AND
	EQUAL
	NOT_EQUAL
	STRICT_EQUAL
	STRICT_NOT_EQUAL
	LESS_THAN
	GREATER_THAN
	LESS_OR_EQUAL
	GREATER_OR_EQUAL
)

var tokenTypeNames = [...]string{
	EOF:                    "EOF",
	ILLEGAL:                "ILLEGAL",
	TEXT:                   "TEXT",
	TEMPLATE_COMMENT:       "TEMPLATE_COMMENT",
	MARKUP_COMMENT:         "MARKUP_COMMENT",
	DOCTYPE:                "DOCTYPE",
	TAG_OPEN_DELIMITER:     "TAG_OPEN_DELIMITER",
	END_TAG_OPEN_DELIMITER: "END_TAG_OPEN_DELIMITER",
	DIRECTIVE_AT:           "DIRECTIVE_AT",
	DIRECTIVE_NAME:         "DIRECTIVE_NAME",
	DIRECTIVE_DOT:          "DIRECTIVE_DOT",
	DIRECTIVE_METHOD:       "DIRECTIVE_METHOD",
	OUTPUT_OPEN:            "OUTPUT_OPEN",
	RAW_OUTPUT_OPEN:        "RAW_OUTPUT_OPEN",
	OUTPUT_CLOSE:           "OUTPUT_CLOSE",
	RAW_OUTPUT_CLOSE:       "RAW_OUTPUT_CLOSE",
	TAG_NAME:               "TAG_NAME",
	ATTR_NAME:              "ATTR_NAME",
	ATTR_EQUAL:             "ATTR_EQUAL",
	ATTR_QUOTE:             "ATTR_QUOTE",
	ATTR_VALUE:             "ATTR_VALUE",
	TAG_CLOSE_DELIMITER:    "TAG_CLOSE_DELIMITER",
	SELF_CLOSING_DELIMITER: "SELF_CLOSING_DELIMITER",
	RAW_TEXT:               "RAW_TEXT",
	IDENTIFIER:             "IDENTIFIER",
	KEYWORD:                "KEYWORD",
	NUMBER:                 "NUMBER",
	STRING:                 "STRING",
	OPENING_PARENTHESIS:    "OPENING_PARENTHESIS",
	CLOSING_PARENTHESIS:    "CLOSING_PARENTHESIS",
	OPENING_BRACKET:        "OPENING_BRACKET",
	CLOSING_BRACKET:        "CLOSING_BRACKET",
	OPENING_CURLY_BRACKET:  "OPENING_CURLY_BRACKET",
	CLOSING_CURLY_BRACKET:  "CLOSING_CURLY_BRACKET",
	COMMA:                  "COMMA",
	DOT:                    "DOT",
	COLON:                  "COLON",
	QUESTION_MARK:          "QUESTION_MARK",
	ASSIGN:                 "ASSIGN",
	EXCLAMATION_MARK:       "EXCLAMATION_MARK",
	PLUS:                   "PLUS",
	MINUS:                  "MINUS",
	ASTERISK:               "ASTERISK",
	SLASH:                  "SLASH",
	PERCENT:                "PERCENT",
	OR:                     "OR",
	AND:                    "AND",
	EQUAL:                  "EQUAL",
	NOT_EQUAL:              "NOT_EQUAL",
	STRICT_EQUAL:           "STRICT_EQUAL",
	STRICT_NOT_EQUAL:       "STRICT_NOT_EQUAL",
	LESS_THAN:              "LESS_THAN",
	GREATER_THAN:           "GREATER_THAN",
	LESS_OR_EQUAL:          "LESS_OR_EQUAL",
	GREATER_OR_EQUAL:       "GREATER_OR_EQUAL",
}

func (t TokenType) String() string {
	if int(t) < len(tokenTypeNames) {
		return tokenTypeNames[t]
	}
	return "UNKNOWN"
}

// IsOperator reports whether the token is a unary or binary operator.
func (t TokenType) IsOperator() bool {
	return t >= EXCLAMATION_MARK && t <= GREATER_OR_EQUAL
}

// IsDelimiter reports whether the token delimits a template construct
// (comments, tags, directives, outputs).
func (t TokenType) IsDelimiter() bool {
	switch t {
	case TAG_OPEN_DELIMITER, END_TAG_OPEN_DELIMITER, DIRECTIVE_AT, OUTPUT_OPEN, RAW_OUTPUT_OPEN,
		OUTPUT_CLOSE, RAW_OUTPUT_CLOSE, TAG_CLOSE_DELIMITER, SELF_CLOSING_DELIMITER, ATTR_QUOTE:
		return true
	}
	return false
}
