package ast

import (
	"fmt"
	"reflect"
	"runtime/debug"
)

type TraversalAction int

const (
	ContinueTraversal TraversalAction = iota
	Prune
	StopTraversal
)

type NodeHandler = func(node Node, parent Node, ancestorChain []Node, after bool) (TraversalAction, error)

// This functions performs a pre-order traversal on a CST (depth first).
// postHandle is called on a node after all its descendants have been visited.
func Walk(node Node, handle, postHandle NodeHandler) (err error) {
	defer func() {
		v := recover()

		switch val := v.(type) {
		case error:
			err = fmt.Errorf("%s:%w", debug.Stack(), val)
		case nil:
		case TraversalAction:
		default:
			panic(v)
		}
	}()

	ancestorChain := make([]Node, 0)
	walk(node, nil, &ancestorChain, handle, postHandle)
	return
}

func walk(node, parent Node, ancestorChain *[]Node, fn, afterFn NodeHandler) {

	if node == nil || reflect.ValueOf(node).IsNil() {
		return
	}

	if ancestorChain != nil {
		*ancestorChain = append((*ancestorChain), parent)
		defer func() {
			*ancestorChain = (*ancestorChain)[:len(*ancestorChain)-1]
		}()
	}

	if fn != nil {
		action, err := fn(node, parent, *ancestorChain, false)

		if err != nil {
			panic(err)
		}

		switch action {
		case StopTraversal:
			panic(StopTraversal)
		case Prune:
			return
		}
	}

	switch n := node.(type) {
	case *Document:
		for _, child := range n.Children {
			walk(child, node, ancestorChain, fn, afterFn)
		}
	case *Tag:
		for _, attr := range n.Attributes {
			walk(attr, node, ancestorChain, fn, afterFn)
		}
		for _, child := range n.Children {
			walk(child, node, ancestorChain, fn, afterFn)
		}
		walk(n.Close, node, ancestorChain, fn, afterFn)
	case *Attribute:
		walk(n.Name, node, ancestorChain, fn, afterFn)
		walk(n.Value, node, ancestorChain, fn, afterFn)
		walk(n.Standalone, node, ancestorChain, fn, afterFn)
	case *AttributeValue:
		for _, segment := range n.Segments {
			walk(segment, node, ancestorChain, fn, afterFn)
		}
	case *OutputExpression:
		walk(n.Expr, node, ancestorChain, fn, afterFn)
	case *Directive:
		walk(n.Params, node, ancestorChain, fn, afterFn)
		for _, child := range n.Body {
			walk(child, node, ancestorChain, fn, afterFn)
		}
		for _, clause := range n.Else {
			walk(clause, node, ancestorChain, fn, afterFn)
		}
	case *ElseClause:
		walk(n.Params, node, ancestorChain, fn, afterFn)
		for _, child := range n.Body {
			walk(child, node, ancestorChain, fn, afterFn)
		}
	case *ParameterList:
		for _, param := range n.Params {
			walk(param, node, ancestorChain, fn, afterFn)
		}
	case *PositionalParameter:
		walk(n.Value, node, ancestorChain, fn, afterFn)
	case *EachBinding:
		walk(n.Item, node, ancestorChain, fn, afterFn)
		walk(n.Index, node, ancestorChain, fn, afterFn)
		walk(n.Source, node, ancestorChain, fn, afterFn)
	case *Assignment:
		walk(n.Target, node, ancestorChain, fn, afterFn)
		walk(n.Value, node, ancestorChain, fn, afterFn)
	case *NamedParameter:
		walk(n.Key, node, ancestorChain, fn, afterFn)
		walk(n.Value, node, ancestorChain, fn, afterFn)
	case *ArrayLiteral:
		for _, elem := range n.Elements {
			walk(elem, node, ancestorChain, fn, afterFn)
		}
	case *ObjectLiteral:
		for _, prop := range n.Properties {
			walk(prop, node, ancestorChain, fn, afterFn)
		}
	case *ObjectProperty:
		walk(n.Key, node, ancestorChain, fn, afterFn)
		walk(n.Value, node, ancestorChain, fn, afterFn)
	case *MemberAccess:
		walk(n.Object, node, ancestorChain, fn, afterFn)
		walk(n.Member, node, ancestorChain, fn, afterFn)
	case *IndexExpression:
		walk(n.Object, node, ancestorChain, fn, afterFn)
		walk(n.Index, node, ancestorChain, fn, afterFn)
	case *Call:
		walk(n.Callee, node, ancestorChain, fn, afterFn)
		for _, arg := range n.Args {
			walk(arg, node, ancestorChain, fn, afterFn)
		}
	case *Unary:
		walk(n.Operand, node, ancestorChain, fn, afterFn)
	case *Binary:
		walk(n.Left, node, ancestorChain, fn, afterFn)
		walk(n.Right, node, ancestorChain, fn, afterFn)
	case *Ternary:
		walk(n.Condition, node, ancestorChain, fn, afterFn)
		walk(n.Then, node, ancestorChain, fn, afterFn)
		walk(n.Otherwise, node, ancestorChain, fn, afterFn)
	case *ParenthesizedExpression:
		walk(n.Inner, node, ancestorChain, fn, afterFn)
	}

	if afterFn != nil {
		action, err := afterFn(node, parent, *ancestorChain, true)

		if err != nil {
			panic(err)
		}

		switch action {
		case StopTraversal:
			panic(StopTraversal)
		}
	}
}

// Children returns the direct children of a node, in source order.
func Children(node Node) []Node {
	var children []Node
	Walk(node, func(n, parent Node, ancestorChain []Node, _ bool) (TraversalAction, error) {
		if n == node {
			return ContinueTraversal, nil
		}
		children = append(children, n)
		return Prune, nil
	}, nil)
	return children
}
