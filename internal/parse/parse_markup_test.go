package parse

import (
	"testing"

	"github.com/edgecst/edgecst/internal/ast"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMarkup(t *testing.T) {

	t.Run("tag", func(t *testing.T) {

		t.Run("attribute with mixed literal and expression segments", func(t *testing.T) {
			doc, err := Parse(`<div class="x {{ y }} z"></div>`)
			require.NoError(t, err)

			assert.EqualValues(t, []ast.Node{
				&ast.Tag{
					NodeBase: ast.NodeBase{Span: NodeSpan{Start: 0, End: 31}},
					Name:     "div",
					NameSpan: NodeSpan{Start: 1, End: 4},
					Attributes: []*ast.Attribute{
						{
							NodeBase: ast.NodeBase{Span: NodeSpan{Start: 5, End: 24}},
							Name: &ast.AttributeName{
								NodeBase: ast.NodeBase{Span: NodeSpan{Start: 5, End: 10}},
								Name:     "class",
							},
							Value: &ast.AttributeValue{
								NodeBase: ast.NodeBase{Span: NodeSpan{Start: 11, End: 24}},
								Quote:    '"',
								Segments: []ast.Node{
									text(12, 14, "x "),
									&ast.OutputExpression{
										NodeBase: ast.NodeBase{Span: NodeSpan{Start: 14, End: 21}},
										Mode:     ast.Escaped,
										Expr:     ident(17, 18, "y"),
									},
									text(21, 23, " z"),
								},
							},
						},
					},
					Close: &ast.CloseTag{
						NodeBase: ast.NodeBase{Span: NodeSpan{Start: 25, End: 31}},
						Name:     "div",
						NameSpan: NodeSpan{Start: 27, End: 30},
					},
					MatchedClose: true,
				},
			}, doc.Children)
		})

		t.Run("nested tags", func(t *testing.T) {
			doc, err := Parse("<ul><li>a</li><li>b</li></ul>")
			require.NoError(t, err)

			assert.Equal(t, `(document (tag ul (tag li (text "a")) (tag li (text "b"))))`, ast.SExpr(doc))
		})

		t.Run("directive in tag body", func(t *testing.T) {
			doc, err := Parse("<p>@if(a)x@end</p>")
			require.NoError(t, err)

			assert.Equal(t, `(document (tag p (directive if (params (positional (ident a))) (body (text "x")))))`, ast.SExpr(doc))
		})

		t.Run("void element", func(t *testing.T) {
			doc, err := Parse("<br>text")
			require.NoError(t, err)

			assert.EqualValues(t, []ast.Node{
				&ast.Tag{
					NodeBase: ast.NodeBase{Span: NodeSpan{Start: 0, End: 4}},
					Name:     "br",
					NameSpan: NodeSpan{Start: 1, End: 3},
					Void:     true,
				},
				text(4, 8, "text"),
			}, doc.Children)
		})

		t.Run("void element names are case-insensitive", func(t *testing.T) {
			doc, err := Parse("<BR>")
			require.NoError(t, err)
			assert.True(t, doc.Children[0].(*ast.Tag).Void)
		})

		t.Run("self-closing tag", func(t *testing.T) {
			doc, err := Parse(`<img src="a.png"/>`)
			require.NoError(t, err)

			assert.EqualValues(t, []ast.Node{
				&ast.Tag{
					NodeBase: ast.NodeBase{Span: NodeSpan{Start: 0, End: 18}},
					Name:     "img",
					NameSpan: NodeSpan{Start: 1, End: 4},
					Attributes: []*ast.Attribute{
						{
							NodeBase: ast.NodeBase{Span: NodeSpan{Start: 5, End: 16}},
							Name:     &ast.AttributeName{NodeBase: ast.NodeBase{Span: NodeSpan{Start: 5, End: 8}}, Name: "src"},
							Value: &ast.AttributeValue{
								NodeBase: ast.NodeBase{Span: NodeSpan{Start: 9, End: 16}},
								Quote:    '"',
								Segments: []ast.Node{text(10, 15, "a.png")},
							},
						},
					},
					SelfClosing: true,
					Void:        true,
				},
			}, doc.Children)
		})

		t.Run("self-closing custom element", func(t *testing.T) {
			doc, err := Parse("<x-icon />")
			require.NoError(t, err)
			assert.Equal(t, `(document (tag x-icon :self-closing))`, ast.SExpr(doc))
		})

		t.Run("boolean and unquoted attributes", func(t *testing.T) {
			doc, err := Parse("<input disabled value=5>")
			require.NoError(t, err)

			assert.EqualValues(t, []*ast.Attribute{
				{
					NodeBase: ast.NodeBase{Span: NodeSpan{Start: 7, End: 15}},
					Name:     &ast.AttributeName{NodeBase: ast.NodeBase{Span: NodeSpan{Start: 7, End: 15}}, Name: "disabled"},
				},
				{
					NodeBase: ast.NodeBase{Span: NodeSpan{Start: 16, End: 23}},
					Name:     &ast.AttributeName{NodeBase: ast.NodeBase{Span: NodeSpan{Start: 16, End: 21}}, Name: "value"},
					Value: &ast.AttributeValue{
						NodeBase: ast.NodeBase{Span: NodeSpan{Start: 22, End: 23}},
						Segments: []ast.Node{text(22, 23, "5")},
					},
				},
			}, doc.Children[0].(*ast.Tag).Attributes)
		})

		t.Run("standalone output expression", func(t *testing.T) {
			doc, err := Parse("<div {{ attrs }}></div>")
			require.NoError(t, err)

			tag := doc.Children[0].(*ast.Tag)
			assert.EqualValues(t, []*ast.Attribute{
				{
					NodeBase: ast.NodeBase{Span: NodeSpan{Start: 5, End: 16}},
					Standalone: &ast.OutputExpression{
						NodeBase: ast.NodeBase{Span: NodeSpan{Start: 5, End: 16}},
						Mode:     ast.Escaped,
						Expr:     ident(8, 13, "attrs"),
					},
				},
			}, tag.Attributes)
			assert.True(t, tag.Attributes[0].IsStandalone())
		})

		t.Run("whitespace around =", func(t *testing.T) {
			doc, err := Parse(`<a href = "x"></a>`)
			require.NoError(t, err)

			attr := doc.Children[0].(*ast.Tag).Attributes[0]
			assert.Equal(t, NodeSpan{Start: 3, End: 13}, attr.Span)
			assert.Equal(t, NodeSpan{Start: 10, End: 13}, attr.Value.Span)
		})

		t.Run("framework attribute names", func(t *testing.T) {
			doc, err := Parse(`<button @click="go()" :class="c" x-on:click.prevent></button>`)
			require.NoError(t, err)

			assert.Equal(t,
				`(document (tag button (attr @click (value '"' (text "go()"))) (attr :class (value '"' (text "c"))) (attr x-on:click.prevent)))`,
				ast.SExpr(doc),
			)
		})

		t.Run("single-quoted value with an expression", func(t *testing.T) {
			doc, err := Parse(`<a title='{{ t }}'></a>`)
			require.NoError(t, err)

			assert.Equal(t, `(document (tag a (attr title (value '\'' (output escaped (ident t))))))`, ast.SExpr(doc))
		})

		t.Run("raw output in attribute", func(t *testing.T) {
			doc, err := Parse(`<a href="{{{ url }}}"></a>`)
			require.NoError(t, err)

			assert.Equal(t, `(document (tag a (attr href (value '"' (output raw (ident url))))))`, ast.SExpr(doc))
		})

		t.Run("escaped mustache in attribute", func(t *testing.T) {
			doc, err := Parse(`<p title="@{{ x }}"></p>`)
			require.NoError(t, err)

			assert.Equal(t, `(document (tag p (attr title (value '"' (text "@{{ x }}")))))`, ast.SExpr(doc))
		})

		t.Run("double quotes inside single-quoted value", func(t *testing.T) {
			doc, err := Parse(`<p x='say "hi"'></p>`)
			require.NoError(t, err)

			value, ok := doc.Children[0].(*ast.Tag).Attributes[0].Value.Literal()
			assert.True(t, ok)
			assert.Equal(t, `say "hi"`, value)
		})

		t.Run("whitespace before the end of a closing tag", func(t *testing.T) {
			doc, err := Parse("<p></p  >")
			require.NoError(t, err)

			tag := doc.Children[0].(*ast.Tag)
			assert.Equal(t, NodeSpan{Start: 3, End: 9}, tag.Close.Span)
			assert.Equal(t, NodeSpan{Start: 0, End: 9}, tag.Span)
		})

		t.Run("lone less-than sign", func(t *testing.T) {
			doc, err := Parse("a < b <1 </ c")
			require.NoError(t, err)
			assert.Equal(t, []ast.Node{text(0, 13, "a < b <1 </ c")}, doc.Children)
		})
	})

	t.Run("raw text elements", func(t *testing.T) {

		t.Run("script body is not parsed", func(t *testing.T) {
			doc, err := Parse("<script>{{ not-a-directive }}</script>")
			require.NoError(t, err)

			assert.EqualValues(t, []ast.Node{
				&ast.Tag{
					NodeBase: ast.NodeBase{Span: NodeSpan{Start: 0, End: 38}},
					Name:     "script",
					NameSpan: NodeSpan{Start: 1, End: 7},
					Raw:      true,
					Children: []ast.Node{text(8, 29, "{{ not-a-directive }}")},
					Close: &ast.CloseTag{
						NodeBase: ast.NodeBase{Span: NodeSpan{Start: 29, End: 38}},
						Name:     "script",
						NameSpan: NodeSpan{Start: 31, End: 37},
					},
					MatchedClose: true,
				},
			}, doc.Children)
		})

		t.Run("style body with braces and directives", func(t *testing.T) {
			doc, err := Parse("<style>@media print { a { color: red } }</style>")
			require.NoError(t, err)

			assert.Equal(t, `(document (tag style :raw (text "@media print { a { color: red } }")))`, ast.SExpr(doc))
		})

		t.Run("closing tag name must be complete", func(t *testing.T) {
			doc, err := Parse("<script>a</scripts>b</script>")
			require.NoError(t, err)

			assert.Equal(t, `(document (tag script :raw (text "a</scripts>b")))`, ast.SExpr(doc))
		})

		t.Run("empty body", func(t *testing.T) {
			doc, err := Parse(`<script src="a.js"></script>`)
			require.NoError(t, err)

			tag := doc.Children[0].(*ast.Tag)
			assert.True(t, tag.Raw)
			assert.Nil(t, tag.Children)
			assert.True(t, tag.MatchedClose)
		})
	})

	t.Run("doctype", func(t *testing.T) {
		doc, err := Parse("<!DOCTYPE html>\n<!doctype html>")
		require.NoError(t, err)

		assert.EqualValues(t, []ast.Node{
			&ast.Doctype{NodeBase: ast.NodeBase{Span: NodeSpan{Start: 0, End: 15}}, Raw: "<!DOCTYPE html>"},
			text(15, 16, "\n"),
			&ast.Doctype{NodeBase: ast.NodeBase{Span: NodeSpan{Start: 16, End: 31}}, Raw: "<!doctype html>"},
		}, doc.Children)
	})

	t.Run("comments", func(t *testing.T) {

		t.Run("template comment", func(t *testing.T) {
			doc, err := Parse("{{-- c --}}")
			require.NoError(t, err)

			assert.EqualValues(t, []ast.Node{
				&ast.Comment{
					NodeBase:    ast.NodeBase{Span: NodeSpan{Start: 0, End: 11}},
					CommentKind: ast.TemplateComment,
					Body:        NodeSpan{Start: 4, End: 7},
				},
			}, doc.Children)
		})

		t.Run("markup comment", func(t *testing.T) {
			doc, err := Parse("<!-- c -->")
			require.NoError(t, err)

			assert.EqualValues(t, []ast.Node{
				&ast.Comment{
					NodeBase:    ast.NodeBase{Span: NodeSpan{Start: 0, End: 10}},
					CommentKind: ast.MarkupComment,
					Body:        NodeSpan{Start: 4, End: 7},
				},
			}, doc.Children)
		})

		t.Run("constructs inside comments are not parsed", func(t *testing.T) {
			doc, err := Parse("{{-- <div> @if(a) {{ --}}<!-- @end </p> -->")
			require.NoError(t, err)

			assert.Equal(t, "(document (comment template) (comment markup))", ast.SExpr(doc))
		})

		t.Run("comment inside tag body", func(t *testing.T) {
			doc, err := Parse("<p>{{-- x --}}</p>")
			require.NoError(t, err)

			assert.Equal(t, "(document (tag p (comment template)))", ast.SExpr(doc))
		})
	})

	t.Run("errors", func(t *testing.T) {
		testCases := []struct {
			name   string
			input  string
			kind   ErrorKind
			offset int32
		}{
			{"unclosed tag", "<div>", UnclosedTag, 0},
			{"unclosed nested tag", "<div><p></div>", MismatchedCloseTag, 8},
			{"unclosed tag after text", "ab<div>c", UnclosedTag, 2},
			{"mismatched close tag", "<div></span>", MismatchedCloseTag, 5},
			{"close tag without open tag", "</div>", MismatchedCloseTag, 0},
			{"close tag of a void element", "<br></br>", MismatchedCloseTag, 4},
			{"incomplete tag head", "<div", UnclosedTag, 0},
			{"incomplete attribute", "<div class", UnclosedTag, 0},
			{"missing attribute value", "<div class=", UnclosedTag, 0},
			{"unterminated quoted value", `<div class="a`, UnclosedTag, 0},
			{"unterminated quoted value with expression", `<div class="{{ a }}`, UnclosedTag, 0},
			{"expression in unquoted value", "<a href={{ x }}>", UnexpectedToken, 8},
			{"brace in unquoted value", "<a href=x{y>", UnexpectedToken, 9},
			{"empty unquoted value", "<a href=>", UnexpectedToken, 8},
			{"quote instead of attribute name", `<a "b">`, UnexpectedToken, 3},
			{"slash in tag head", "<a / >", UnexpectedToken, 3},
			{"single brace in tag head", "<a {x}>", UnexpectedToken, 3},
			{"attribute in closing tag", "<p></p x>", UnexpectedToken, 7},
			{"incomplete closing tag", "<p></p", UnclosedTag, 0},
			{"unterminated script", "<script>x", UnclosedTag, 0},
			{"unterminated style", "<style>", UnclosedTag, 0},
			{"unterminated doctype", "<!DOCTYPE html", UnclosedTag, 0},
			{"unterminated markup comment", "<!-- x", UnterminatedComment, 0},
			{"unterminated template comment", "a {{-- x --", UnterminatedComment, 2},
			{"unterminated output", "a {{ b", UnterminatedExpression, 2},
			{"output closed by a single brace", "<p>{{ a }</p>", UnterminatedExpression, 3},
			{"raw output closed as escaped", "{{{ a }}", UnterminatedExpression, 0},
			{"two expressions in output", "{{ a b }}", UnexpectedToken, 5},
			{"unterminated escaped mustache", "@{{ a", UnterminatedExpression, 0},
		}

		for _, testCase := range testCases {
			t.Run(testCase.name, func(t *testing.T) {
				doc, err := Parse(testCase.input)
				assert.Nil(t, doc)

				var parsingErr *ParsingError
				if !assert.ErrorAs(t, err, &parsingErr) {
					return
				}
				assert.Equal(t, testCase.kind, parsingErr.Kind)
				assert.Equal(t, testCase.offset, parsingErr.Span.Start)
			})
		}
	})
}

func TestIsVoidElement(t *testing.T) {
	assert.True(t, IsVoidElement("br"))
	assert.True(t, IsVoidElement("Img"))
	assert.False(t, IsVoidElement("div"))

	assert.True(t, IsRawTextElement("script"))
	assert.True(t, IsRawTextElement("style"))
	assert.False(t, IsRawTextElement("Script"))
	assert.False(t, IsRawTextElement("textarea"))
}
