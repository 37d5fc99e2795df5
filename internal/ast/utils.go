package ast

import (
	"bytes"
	"reflect"
	"slices"
	"strconv"

	"github.com/edgecst/edgecst/internal/sourcecode"
)

func NodeIs[T Node](node Node, typ T) bool {
	return reflect.TypeOf(typ) == reflect.TypeOf(node)
}

// NodeIsLiteral returns true if node is a scalar literal (string, number, boolean or null).
func NodeIsLiteral(node Node) bool {
	switch node.(type) {
	case *StringLiteral, *NumberLiteral, *BooleanLiteral, *NullLiteral:
		return true
	}
	return false
}

// NodeIsLeaf returns true if node never has child nodes.
func NodeIsLeaf(node Node) bool {
	switch node.(type) {
	case *Text, *Comment, *Doctype, *CloseTag, *AttributeName, *Identifier:
		return true
	}
	return NodeIsLiteral(node)
}

// shifts the span of all nodes in node by offset
func ShiftNodeSpans(node Node, offset int32) {
	ancestorChain := make([]Node, 0)

	walk(node, nil, &ancestorChain, func(node, parent Node, ancestorChain []Node, _ bool) (TraversalAction, error) {
		base := node.BasePtr()
		base.Span.Start += offset
		base.Span.End += offset

		switch n := node.(type) {
		case *Tag:
			n.NameSpan.Start += offset
			n.NameSpan.End += offset
		case *CloseTag:
			n.NameSpan.Start += offset
			n.NameSpan.End += offset
		case *Comment:
			n.Body.Start += offset
			n.Body.End += offset
		case *Directive:
			n.NameSpan.Start += offset
			n.NameSpan.End += offset
			if n.Method != "" {
				n.MethodSpan.Start += offset
				n.MethodSpan.End += offset
			}
			if n.End != nil {
				n.End.Start += offset
				n.End.End += offset
			}
		case *Document:
			for i := range n.Tokens {
				n.Tokens[i].Span.Start += offset
				n.Tokens[i].Span.End += offset
			}
		}
		return ContinueTraversal, nil
	}, nil)
}

func CountNodes(n Node) (count int) {
	Walk(n, func(node, parent Node, ancestorChain []Node, after bool) (TraversalAction, error) {
		count += 1
		return ContinueTraversal, nil
	}, nil)

	return
}

func FindNodeWithSpan(root Node, searchedNodeSpan sourcecode.NodeSpan) (n Node, found bool) {
	Walk(root, func(node, _ Node, _ []Node, _ bool) (TraversalAction, error) {

		nodeSpan := node.Base().Span
		if searchedNodeSpan.End < nodeSpan.Start || searchedNodeSpan.Start >= nodeSpan.End {
			return Prune, nil
		}

		if searchedNodeSpan == nodeSpan {
			n = node
			found = true
			return StopTraversal, nil
		}
		return ContinueTraversal, nil
	}, nil)

	return
}

// FindDeepestNodeAtOffset returns the innermost node whose span contains offset, and its ancestors.
func FindDeepestNodeAtOffset(root Node, offset int32) (deepest Node, ancestors []Node) {
	Walk(root, func(node, _ Node, ancestorChain []Node, _ bool) (TraversalAction, error) {
		span := node.Base().Span
		if offset < span.Start || offset >= span.End {
			return Prune, nil
		}
		deepest = node
		ancestors = slices.Clone(ancestorChain)
		return ContinueTraversal, nil
	}, nil)
	return
}

func FindNodes[T Node](root Node, typ T, handle func(n T) bool) []T {
	n, _ := FindNodesAndChains(root, typ, handle)
	return n
}

func FindNodesAndChains[T Node](root Node, typ T, handle func(n T) bool) ([]T, [][]Node) {
	searchedType := reflect.TypeOf(typ)
	var found []T
	var ancestors [][]Node

	Walk(root, func(node, parent Node, ancestorChain []Node, after bool) (TraversalAction, error) {
		if reflect.TypeOf(node) == searchedType {
			if handle == nil || handle(node.(T)) {
				found = append(found, node.(T))
				ancestors = append(ancestors, slices.Clone(ancestorChain))
			}
		}
		return ContinueTraversal, nil
	}, nil)

	return found, ancestors
}

// FindNode walks over a CST node and returns the first node of type $typ for which $handle returns true.
// If $handle is nil only the type is checked.
func FindNode[T Node](root Node, typ T, handle func(n T, ancestors []Node) bool) T {
	n, _ := FindNodeAndChain(root, typ, handle)
	return n
}

// FindFirstNode walks over a CST node and returns the first node of type $typ.
func FindFirstNode[T Node](root Node, typ T) T {
	n, _ := FindNodeAndChain(root, typ, nil)
	return n
}

// FindNodeAndChain walks over a CST node and returns the first node of type $typ (and its ancestors) for which $handle returns true.
// If $handle is nil only the type is checked.
func FindNodeAndChain[T Node](root Node, typ T, handle func(n T, ancestors []Node) bool) (T, []Node) {
	searchedType := reflect.TypeOf(typ)

	var found T
	var _ancestorChain []Node

	Walk(root, func(node, parent Node, ancestorChain []Node, after bool) (TraversalAction, error) {
		if reflect.TypeOf(node) == searchedType {
			if handle == nil || handle(node.(T), ancestorChain) {
				found = node.(T)
				_ancestorChain = slices.Clone(ancestorChain)
				return StopTraversal, nil
			}
		}
		return ContinueTraversal, nil
	}, nil)

	return found, _ancestorChain
}

// FindClosest searches for an ancestor node of type typ starting from the parent node (last ancestor).
func FindClosest[T Node](ancestorChain []Node, typ T) (node T, index int, ok bool) {
	return FindClosestMaxDistance[T](ancestorChain, typ, -1)
}

// FindClosestMaxDistance searches for an ancestor node of type typ starting from the parent node (last ancestor),
// maxDistance is the maximum distance from the parent node. A negative or zero maxDistance is ignored.
func FindClosestMaxDistance[T Node](ancestorChain []Node, typ T, maxDistance int) (node T, index int, ok bool) {
	searchedType := reflect.TypeOf(typ)

	lastI := 0
	if maxDistance > 0 {
		lastI = max(0, len(ancestorChain)-maxDistance-1)
	}

	for i := len(ancestorChain) - 1; i >= lastI; i-- {
		n := ancestorChain[i]
		if n != nil && reflect.TypeOf(n) == searchedType {
			return n.(T), i, true
		}
	}

	return reflect.Zero(searchedType).Interface().(T), -1, false
}

// FindDirectives returns all directives named $name, at any depth.
func FindDirectives(root Node, name string) []*Directive {
	return FindNodes(root, (*Directive)(nil), func(n *Directive) bool {
		return n.Name == name
	})
}

func FindIdentWithName(root Node, name string) *Identifier {
	return FindNode(root, (*Identifier)(nil), func(n *Identifier, _ []Node) bool {
		return n.Name == name
	})
}

func IsIdentWithName(n Node, name string) bool {
	ident, ok := n.(*Identifier)
	return ok && ident.Name == name
}

// GetTreeView returns an indented view of the tree rooted at n, each node is followed by
// its span and a short excerpt of the source.
func GetTreeView(n Node, src string) string {
	var buf = bytes.NewBuffer(nil)

	Walk(n, func(node, parent Node, ancestorChain []Node, after bool) (TraversalAction, error) {
		depth := len(ancestorChain) - 1

		buf.Write(bytes.Repeat([]byte{' ', ' '}, depth))
		buf.WriteString(node.Kind().String())

		span := node.Base().Span
		buf.WriteString(" [")
		buf.WriteString(strconv.Itoa(int(span.Start)))
		buf.WriteByte(',')
		buf.WriteString(strconv.Itoa(int(span.End)))
		buf.WriteByte(']')

		if NodeIsLeaf(node) && span.End <= int32(len(src)) {
			buf.WriteByte(' ')
			buf.WriteString(strconv.Quote(excerpt(span.Text(src))))
		}
		buf.WriteByte('\n')

		return ContinueTraversal, nil
	}, nil)

	return buf.String()
}

const MAX_EXCERPT_LEN = 30

func excerpt(s string) string {
	if len(s) <= MAX_EXCERPT_LEN {
		return s
	}
	return s[:MAX_EXCERPT_LEN] + "..."
}
