package ast_test

import (
	"testing"

	"github.com/edgecst/edgecst/internal/ast"
	"github.com/edgecst/edgecst/internal/parse"
	"github.com/stretchr/testify/assert"
)

func TestSExpr(t *testing.T) {
	testCases := []struct {
		input string
		sexpr string
	}{
		{"", "(document)"},
		{"<p>{{ a + 1 }}</p>", "(document (tag p (output escaped (binary + (ident a) (number 1)))))"},
		{"<!doctype html>{{-- c --}}", `(document (doctype "<!doctype html>") (comment template))`},
		{`<input {{{ attrs }}} type=text />`, `(document (tag input :self-closing :void (attr (output raw (ident attrs))) (attr type (value unquoted (text "text")))))`},
		{
			"@if(a)x@elseif(b)y@else z@end",
			`(document (directive if (params (positional (ident a))) (body (text "x")) (elseif (params (positional (ident b))) (text "y")) (else (text " z"))))`,
		},
		{"@!slot('main')", `(document (directive slot :inline (params (positional (string "'main'")))))`},
		{"@let(a = [1, null, true])", "(document (directive let (params (assign (ident a) (array (number 1) (null) (bool true))))))"},
		{"@each(x in xs)@end", "(document (directive each (params (each-binding (ident x) (ident xs))) (body)))"},
		{"{{ a[0] ? -b : (c) }}", "(document (output escaped (ternary (index (ident a) (number 0)) (unary - (ident b)) (paren (ident c)))))"},
	}

	for _, testCase := range testCases {
		t.Run(testCase.input, func(t *testing.T) {
			assert.Equal(t, testCase.sexpr, ast.SExpr(parse.MustParse(testCase.input)))
		})
	}

	t.Run("nil node", func(t *testing.T) {
		assert.Equal(t, "nil", ast.SExpr(nil))
	})
}
