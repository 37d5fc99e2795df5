package rawlint

import (
	"io"

	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/js"
)

// CheckJS lints a script, base is the offset of the script in the template. Lexical errors
// (unterminated strings, invalid characters) stop the check, unbalanced brackets are reported.
func CheckJS(s string, base int32) (diagnostics []Diagnostic) {
	lexer := js.NewLexer(parse.NewInputString(s))
	brackets := bracketStack{language: JavaScript, base: base, diagnostics: &diagnostics}

	offset := int32(0)
	regexpAllowed := true

	for {
		tt, data := lexer.Next()
		start := offset
		offset += int32(len(data))

		if (tt == js.DivToken || tt == js.DivEqToken) && regexpAllowed {
			tt, data = lexer.RegExp()
			offset = start + int32(len(data))
		}

		switch tt {
		case js.ErrorToken:
			if err := lexer.Err(); err != nil && err != io.EOF {
				brackets.report(start, int32(len(s)), lexerErrorMessage(err))
				return diagnostics
			}
			brackets.reportUnclosed()
			return diagnostics
		case js.WhitespaceToken, js.LineTerminatorToken, js.CommentToken, js.CommentLineTerminatorToken:
			continue
		case js.OpenBraceToken:
			brackets.push('{', start)
		case js.OpenBracketToken:
			brackets.push('[', start)
		case js.OpenParenToken:
			brackets.push('(', start)
		case js.CloseBraceToken:
			brackets.pop('}', start)
		case js.CloseBracketToken:
			brackets.pop(']', start)
		case js.CloseParenToken:
			brackets.pop(')', start)
		}

		//a slash starts a regular expression unless it follows an operand.
		switch tt {
		case js.CloseParenToken, js.CloseBracketToken, js.CloseBraceToken:
			regexpAllowed = false
		default:
			regexpAllowed = js.IsPunctuator(tt) || js.IsOperator(tt)
		}
	}
}
