package cstcodec

import (
	"fmt"

	"github.com/edgecst/edgecst/internal/ast"
)

// A Node is the serialized form of a CST node: scalar fields are stored in Props,
// child nodes in Edges keyed by the name of the field holding them. Absent optional
// children and empty lists are omitted.
type Node struct {
	Kind  string             `json:"kind" yaml:"kind"`
	Span  [2]int32           `json:"span" yaml:"span,flow"`
	Props map[string]any     `json:"props,omitempty" yaml:"props,omitempty"`
	Edges map[string][]*Node `json:"edges,omitempty" yaml:"edges,omitempty"`

	Tokens []Token `json:"tokens,omitempty" yaml:"tokens,omitempty"` //root only
}

type Token struct {
	Type string   `json:"type" yaml:"type"`
	Span [2]int32 `json:"span" yaml:"span,flow"`
}

// Edge returns the single node stored under name, or nil.
func (n *Node) Edge(name string) *Node {
	nodes := n.Edges[name]
	if len(nodes) == 0 {
		return nil
	}
	return nodes[0]
}

func span(s ast.NodeSpan) [2]int32 {
	return [2]int32{s.Start, s.End}
}

type converter struct {
	node *Node
}

func (c converter) prop(name string, value any) {
	if c.node.Props == nil {
		c.node.Props = map[string]any{}
	}
	c.node.Props[name] = value
}

func (c converter) edge(name string, children ...ast.Node) {
	var nodes []*Node
	for _, child := range children {
		if child == nil {
			continue
		}
		nodes = append(nodes, FromNode(child))
	}
	if len(nodes) == 0 {
		return
	}
	if c.node.Edges == nil {
		c.node.Edges = map[string][]*Node{}
	}
	c.node.Edges[name] = nodes
}

// optional converts a possibly nil typed pointer to a Node without creating a
// non-nil interface holding a nil pointer.
func optional[N ast.Node](n N, isNil bool) ast.Node {
	if isNil {
		return nil
	}
	return n
}

func nodes[N ast.Node](list []N) []ast.Node {
	result := make([]ast.Node, len(list))
	for i, n := range list {
		result[i] = n
	}
	return result
}

func quote(q byte) string {
	if q == 0 {
		return ""
	}
	return string(q)
}

// FromNode converts a CST to its serialized form, tokens are only included if n is a document.
func FromNode(n ast.Node) *Node {
	result := &Node{
		Kind: n.Kind().String(),
		Span: span(n.Base().Span),
	}
	c := converter{result}

	switch n := n.(type) {
	case *ast.Document:
		c.edge("children", n.Children...)
		for _, token := range n.Tokens {
			result.Tokens = append(result.Tokens, Token{Type: token.Type.String(), Span: span(token.Span)})
		}
	case *ast.Text:
		c.prop("raw", n.Raw)
	case *ast.Comment:
		c.prop("commentKind", n.CommentKind.String())
		c.prop("body", span(n.Body))
	case *ast.Doctype:
		c.prop("raw", n.Raw)
	case *ast.Tag:
		c.prop("name", n.Name)
		c.prop("nameSpan", span(n.NameSpan))
		c.prop("selfClosing", n.SelfClosing)
		c.prop("void", n.Void)
		c.prop("raw", n.Raw)
		c.prop("matchedClose", n.MatchedClose)
		c.edge("attributes", nodes(n.Attributes)...)
		c.edge("children", n.Children...)
		c.edge("close", optional(n.Close, n.Close == nil))
	case *ast.CloseTag:
		c.prop("name", n.Name)
		c.prop("nameSpan", span(n.NameSpan))
	case *ast.Attribute:
		c.edge("name", optional(n.Name, n.Name == nil))
		c.edge("value", optional(n.Value, n.Value == nil))
		c.edge("standalone", optional(n.Standalone, n.Standalone == nil))
	case *ast.AttributeName:
		c.prop("name", n.Name)
	case *ast.AttributeValue:
		c.prop("quote", quote(n.Quote))
		c.edge("segments", n.Segments...)
	case *ast.OutputExpression:
		c.prop("mode", n.Mode.String())
		c.edge("expr", n.Expr)
	case *ast.Directive:
		c.prop("name", n.Name)
		c.prop("nameSpan", span(n.NameSpan))
		if n.Method != "" {
			c.prop("method", n.Method)
			c.prop("methodSpan", span(n.MethodSpan))
		}
		c.prop("category", n.Category.String())
		c.prop("inline", n.Inline)
		c.prop("closed", n.Closed)
		if n.End != nil {
			c.prop("end", span(*n.End))
		}
		c.edge("params", optional(n.Params, n.Params == nil))
		c.edge("body", n.Body...)
		c.edge("else", nodes(n.Else)...)
	case *ast.ElseClause:
		c.prop("isElseIf", n.IsElseIf)
		c.edge("params", optional(n.Params, n.Params == nil))
		c.edge("body", n.Body...)
	case *ast.ParameterList:
		c.edge("params", nodes(n.Params)...)
	case *ast.PositionalParameter:
		c.edge("value", n.Value)
	case *ast.EachBinding:
		c.edge("item", optional(n.Item, n.Item == nil))
		c.edge("index", optional(n.Index, n.Index == nil))
		c.edge("source", n.Source)
	case *ast.Assignment:
		c.edge("target", optional(n.Target, n.Target == nil))
		c.edge("value", n.Value)
	case *ast.NamedParameter:
		c.edge("key", n.Key)
		c.edge("value", n.Value)
	case *ast.Identifier:
		c.prop("name", n.Name)
	case *ast.StringLiteral:
		c.prop("raw", n.Raw)
		c.prop("quote", quote(n.Quote))
	case *ast.NumberLiteral:
		c.prop("raw", n.Raw)
	case *ast.BooleanLiteral:
		c.prop("value", n.Value)
	case *ast.NullLiteral:
	case *ast.ArrayLiteral:
		c.edge("elements", nodes(n.Elements)...)
	case *ast.ObjectLiteral:
		c.edge("properties", nodes(n.Properties)...)
	case *ast.ObjectProperty:
		c.edge("key", n.Key)
		c.edge("value", n.Value)
	case *ast.MemberAccess:
		c.edge("object", n.Object)
		c.edge("member", optional(n.Member, n.Member == nil))
	case *ast.IndexExpression:
		c.edge("object", n.Object)
		c.edge("index", n.Index)
	case *ast.Call:
		c.edge("callee", n.Callee)
		c.edge("args", nodes(n.Args)...)
	case *ast.Unary:
		c.prop("operator", n.Operator.String())
		c.edge("operand", n.Operand)
	case *ast.Binary:
		c.prop("operator", n.Operator.String())
		c.edge("left", n.Left)
		c.edge("right", n.Right)
	case *ast.Ternary:
		c.edge("condition", n.Condition)
		c.edge("then", n.Then)
		c.edge("otherwise", n.Otherwise)
	case *ast.ParenthesizedExpression:
		c.edge("inner", n.Inner)
	default:
		panic(fmt.Errorf("cannot serialize node of type %T", n))
	}

	return result
}
