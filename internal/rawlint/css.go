package rawlint

import (
	"io"
	"strings"

	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
)

// CheckCSS lints a stylesheet, base is the offset of the stylesheet in the template.
// The CSS grammar is forgiving: only bad strings, bad URLs and unbalanced brackets are reported.
func CheckCSS(s string, base int32) (diagnostics []Diagnostic) {
	lexer := css.NewLexer(parse.NewInputString(s))
	brackets := bracketStack{language: CSS, base: base, diagnostics: &diagnostics}

	offset := int32(0)

	for {
		tt, data := lexer.Next()
		start := offset
		offset += int32(len(data))

		switch tt {
		case css.ErrorToken:
			if err := lexer.Err(); err != nil && err != io.EOF {
				brackets.report(start, int32(len(s)), lexerErrorMessage(err))
				return diagnostics
			}
			brackets.reportUnclosed()
			return diagnostics
		case css.BadStringToken:
			//the token includes the newline that ends it.
			end := start + int32(len(strings.TrimRight(string(data), "\r\n\f")))
			brackets.report(start, end, "unterminated string")
		case css.BadURLToken:
			brackets.report(start, offset, "invalid url")
		case css.LeftBraceToken:
			brackets.push('{', start)
		case css.LeftBracketToken:
			brackets.push('[', start)
		case css.LeftParenthesisToken, css.FunctionToken:
			brackets.push('(', offset-1)
		case css.RightBraceToken:
			brackets.pop('}', start)
		case css.RightBracketToken:
			brackets.pop(']', start)
		case css.RightParenthesisToken:
			brackets.pop(')', start)
		}
	}
}
