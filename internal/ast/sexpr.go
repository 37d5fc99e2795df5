package ast

import (
	"strconv"
	"strings"
)

// SExpr renders the tree rooted at node as a single-line S-expression. Spans are
// omitted, the rendering only depends on the structure and on the leaf values.
//
//	<p>{{ a + 1 }}</p> -> (document (tag p (output escaped (binary + (ident a) (number 1)))))
func SExpr(node Node) string {
	var b strings.Builder
	writeSExpr(&b, node)
	return b.String()
}

func writeSExpr(b *strings.Builder, node Node) {
	if node == nil {
		b.WriteString("nil")
		return
	}

	open := func(head string, atoms ...string) {
		b.WriteByte('(')
		b.WriteString(head)
		for _, atom := range atoms {
			b.WriteByte(' ')
			b.WriteString(atom)
		}
	}
	children := func(nodes ...Node) {
		for _, n := range nodes {
			b.WriteByte(' ')
			writeSExpr(b, n)
		}
	}
	closeParen := func() { b.WriteByte(')') }

	switch n := node.(type) {
	case *Document:
		open("document")
		children(n.Children...)
	case *Text:
		open("text", strconv.Quote(n.Raw))
	case *Comment:
		open("comment", n.CommentKind.String())
	case *Doctype:
		open("doctype", strconv.Quote(n.Raw))
	case *Tag:
		var flags []string
		flags = append(flags, n.Name)
		if n.SelfClosing {
			flags = append(flags, ":self-closing")
		}
		if n.Void {
			flags = append(flags, ":void")
		}
		if n.Raw {
			flags = append(flags, ":raw")
		}
		open("tag", flags...)
		for _, attr := range n.Attributes {
			children(attr)
		}
		children(n.Children...)
	case *CloseTag:
		open("close", n.Name)
	case *Attribute:
		if n.Standalone != nil {
			open("attr")
			children(n.Standalone)
			break
		}
		open("attr", n.Name.Name)
		if n.Value != nil {
			children(n.Value)
		}
	case *AttributeName:
		open("attr-name", n.Name)
	case *AttributeValue:
		quote := "unquoted"
		if n.Quote != 0 {
			quote = strconv.QuoteRune(rune(n.Quote))
		}
		open("value", quote)
		children(n.Segments...)
	case *OutputExpression:
		open("output", n.Mode.String())
		if n.Expr != nil {
			children(n.Expr)
		}
	case *Directive:
		name := n.Name
		if n.Method != "" {
			name += "." + n.Method
		}
		atoms := []string{name}
		if n.Inline {
			atoms = append(atoms, ":inline")
		}
		open("directive", atoms...)
		if n.Params != nil {
			children(n.Params)
		}
		if n.Category == BlockDirective && !n.Inline {
			b.WriteByte(' ')
			open("body")
			children(n.Body...)
			closeParen()
			for _, clause := range n.Else {
				children(clause)
			}
		}
	case *ElseClause:
		if n.IsElseIf {
			open("elseif")
			children(n.Params)
		} else {
			open("else")
		}
		children(n.Body...)
	case *ParameterList:
		open("params")
		for _, p := range n.Params {
			children(p)
		}
	case *PositionalParameter:
		open("positional")
		children(n.Value)
	case *EachBinding:
		open("each-binding")
		children(n.Item)
		if n.Index != nil {
			children(n.Index)
		}
		children(n.Source)
	case *Assignment:
		open("assign")
		children(n.Target, n.Value)
	case *NamedParameter:
		open("named")
		children(n.Key, n.Value)
	case *Identifier:
		open("ident", n.Name)
	case *StringLiteral:
		open("string", strconv.Quote(n.Raw))
	case *NumberLiteral:
		open("number", n.Raw)
	case *BooleanLiteral:
		open("bool", strconv.FormatBool(n.Value))
	case *NullLiteral:
		open("null")
	case *ArrayLiteral:
		open("array")
		for _, e := range n.Elements {
			children(e)
		}
	case *ObjectLiteral:
		open("object")
		for _, p := range n.Properties {
			children(p)
		}
	case *ObjectProperty:
		open("property")
		children(n.Key)
		if n.Value != nil {
			children(n.Value)
		}
	case *MemberAccess:
		open("member")
		children(n.Object, n.Member)
	case *IndexExpression:
		open("index")
		children(n.Object, n.Index)
	case *Call:
		open("call")
		children(n.Callee)
		for _, arg := range n.Args {
			children(arg)
		}
	case *Unary:
		open("unary", n.Operator.String())
		children(n.Operand)
	case *Binary:
		open("binary", n.Operator.String())
		children(n.Left, n.Right)
	case *Ternary:
		open("ternary")
		children(n.Condition, n.Then, n.Otherwise)
	case *ParenthesizedExpression:
		open("paren")
		children(n.Inner)
	default:
		open(node.Kind().String())
	}
	closeParen()
}
