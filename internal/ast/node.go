package ast

import (
	"github.com/edgecst/edgecst/internal/sourcecode"
)

type NodeSpan = sourcecode.NodeSpan

// A Node represents an immutable CST Node, all node types embed NodeBase that implements the Node interface.
type Node interface {
	Base() NodeBase
	BasePtr() *NodeBase
	Kind() NodeKind
}

// NodeBase implements the Node interface.
type NodeBase struct {
	Span NodeSpan `json:"span"`
}

func (base NodeBase) Base() NodeBase {
	return base
}

func (base *NodeBase) BasePtr() *NodeBase {
	return base
}

func (base NodeBase) IncludedIn(node Node) bool {
	return node.Base().Span.Contains(base.Span)
}

type NodeKind uint8

const (
	UnspecifiedNodeKind NodeKind = iota
	DocumentKind
	TextKind
	CommentKind
	DoctypeKind
	TagKind
	CloseTagKind
	AttributeKind
	AttributeNameKind
	AttributeValueKind
	OutputExpressionKind
	DirectiveKind
	ElseClauseKind
	ParameterListKind
	PositionalParameterKind
	EachBindingKind
	AssignmentKind
	NamedParameterKind
	IdentifierKind
	StringLiteralKind
	NumberLiteralKind
	BooleanLiteralKind
	NullLiteralKind
	ArrayLiteralKind
	ObjectLiteralKind
	ObjectPropertyKind
	MemberAccessKind
	IndexExpressionKind
	CallKind
	UnaryKind
	BinaryKind
	TernaryKind
	ParenthesizedExpressionKind
)

var nodeKindNames = [...]string{
	UnspecifiedNodeKind:         "Unspecified",
	DocumentKind:                "Document",
	TextKind:                    "Text",
	CommentKind:                 "Comment",
	DoctypeKind:                 "Doctype",
	TagKind:                     "Tag",
	CloseTagKind:                "CloseTag",
	AttributeKind:               "Attribute",
	AttributeNameKind:           "AttributeName",
	AttributeValueKind:          "AttributeValue",
	OutputExpressionKind:        "OutputExpression",
	DirectiveKind:               "Directive",
	ElseClauseKind:              "ElseClause",
	ParameterListKind:           "ParameterList",
	PositionalParameterKind:     "Positional",
	EachBindingKind:             "EachBinding",
	AssignmentKind:              "Assignment",
	NamedParameterKind:          "Named",
	IdentifierKind:              "Identifier",
	StringLiteralKind:           "StringLiteral",
	NumberLiteralKind:           "NumberLiteral",
	BooleanLiteralKind:          "BooleanLiteral",
	NullLiteralKind:             "NullLiteral",
	ArrayLiteralKind:            "ArrayLiteral",
	ObjectLiteralKind:           "ObjectLiteral",
	ObjectPropertyKind:          "ObjectProperty",
	MemberAccessKind:            "MemberAccess",
	IndexExpressionKind:         "IndexExpression",
	CallKind:                    "Call",
	UnaryKind:                   "Unary",
	BinaryKind:                  "Binary",
	TernaryKind:                 "Ternary",
	ParenthesizedExpressionKind: "Parenthesized",
}

func (k NodeKind) String() string {
	if int(k) < len(nodeKindNames) {
		return nodeKindNames[k]
	}
	return nodeKindNames[UnspecifiedNodeKind]
}

// An Expression is a node of the embedded expression language.
type Expression interface {
	Node
	expression()
}

// A Parameter is an element of a directive's parameter list.
type Parameter interface {
	Node
	parameter()
}

// Document is the root of every parse result. The concatenation of its
// children's spans is the whole source.
type Document struct {
	NodeBase `json:"base:document"`
	Children []Node  `json:"children"`
	Tokens   []Token `json:"tokens,omitempty"` //ordered by start offset
}

func (*Document) Kind() NodeKind { return DocumentKind }

// ---------------------------------------------------------------------------
// Content nodes.

type Text struct {
	NodeBase `json:"base:text"`
	Raw      string `json:"raw"`
}

func (*Text) Kind() NodeKind { return TextKind }

type CommentKindValue uint8

const (
	TemplateComment CommentKindValue = iota + 1 // {{-- --}}
	MarkupComment                               // <!-- -->
)

func (k CommentKindValue) String() string {
	switch k {
	case TemplateComment:
		return "template"
	case MarkupComment:
		return "markup"
	}
	return "unknown"
}

type Comment struct {
	NodeBase    `json:"base:comment"`
	CommentKind CommentKindValue `json:"commentKind"`
	Body        NodeSpan         `json:"body"` //span between the delimiters
}

func (*Comment) Kind() NodeKind { return CommentKind }

type Doctype struct {
	NodeBase `json:"base:doctype"`
	Raw      string `json:"raw"`
}

func (*Doctype) Kind() NodeKind { return DoctypeKind }

type Tag struct {
	NodeBase    `json:"base:tag"`
	Name        string       `json:"name"`
	NameSpan    NodeSpan     `json:"nameSpan"`
	Attributes  []*Attribute `json:"attributes,omitempty"`
	SelfClosing bool         `json:"selfClosing"`

	//void HTML elements (<br>, <img>, ...) never have children nor a closing tag.
	Void bool `json:"void"`

	//set for <script> and <style>: the only child is a single raw *Text.
	Raw bool `json:"raw"`

	Children     []Node    `json:"children,omitempty"`
	Close        *CloseTag `json:"close,omitempty"`
	MatchedClose bool      `json:"matchedClose"`
}

func (*Tag) Kind() NodeKind { return TagKind }

type CloseTag struct {
	NodeBase `json:"base:close-tag"`
	Name     string   `json:"name"`
	NameSpan NodeSpan `json:"nameSpan"`
}

func (*CloseTag) Kind() NodeKind { return CloseTagKind }

type Attribute struct {
	NodeBase `json:"base:attribute"`
	Name     *AttributeName  `json:"name,omitempty"`  //nil for standalone expressions
	Value    *AttributeValue `json:"value,omitempty"` //nil if there is no value

	//set if the attribute is a bare output expression: <div {{ attrs }}>.
	Standalone *OutputExpression `json:"standalone,omitempty"`
}

func (*Attribute) Kind() NodeKind { return AttributeKind }

func (a *Attribute) IsStandalone() bool {
	return a.Standalone != nil
}

type AttributeName struct {
	NodeBase `json:"base:attribute-name"`
	Name     string `json:"name"`
}

func (*AttributeName) Kind() NodeKind { return AttributeNameKind }

type AttributeValue struct {
	NodeBase `json:"base:attribute-value"`
	Quote    byte   `json:"quote"`    //'"', '\'' or 0 for unquoted values
	Segments []Node `json:"segments"` //*Text and *OutputExpression, a single *Text if unquoted
}

func (*AttributeValue) Kind() NodeKind { return AttributeValueKind }

// Literal returns the literal value if the value contains no expression.
func (v *AttributeValue) Literal() (string, bool) {
	switch len(v.Segments) {
	case 0:
		return "", true
	case 1:
		if text, ok := v.Segments[0].(*Text); ok {
			return text.Raw, true
		}
	}
	return "", false
}

type EscapingMode uint8

const (
	Escaped EscapingMode = iota + 1 // {{ }}
	RawOutput                       // {{{ }}}
)

func (m EscapingMode) String() string {
	switch m {
	case Escaped:
		return "escaped"
	case RawOutput:
		return "raw"
	}
	return "unknown"
}

type OutputExpression struct {
	NodeBase `json:"base:output-expression"`
	Mode     EscapingMode `json:"mode"`
	Expr     Expression   `json:"expr,omitempty"` //nil if the output is empty
}

func (*OutputExpression) Kind() NodeKind { return OutputExpressionKind }

// ---------------------------------------------------------------------------
// Directives.

type DirectiveCategory uint8

const (
	GenericDirective DirectiveCategory = iota + 1
	BlockDirective
	StatementDirective
)

func (c DirectiveCategory) String() string {
	switch c {
	case GenericDirective:
		return "generic"
	case BlockDirective:
		return "block"
	case StatementDirective:
		return "statement"
	}
	return "unknown"
}

type Directive struct {
	NodeBase   `json:"base:directive"`
	Name       string            `json:"name"`
	NameSpan   NodeSpan          `json:"nameSpan"`
	Method     string            `json:"method,omitempty"`
	MethodSpan NodeSpan          `json:"methodSpan"`
	Category   DirectiveCategory `json:"category"`

	//@!name(...): a block directive without body nor @end.
	Inline bool `json:"inline"`

	Params *ParameterList `json:"params,omitempty"` //nil if there are no parentheses
	Body   []Node         `json:"body,omitempty"`   //block directives only
	Else   []*ElseClause  `json:"else,omitempty"`   //@if only
	End    *NodeSpan      `json:"end,omitempty"`    //span of @end
	Closed bool           `json:"closed"`
}

func (*Directive) Kind() NodeKind { return DirectiveKind }

type ElseClause struct {
	NodeBase `json:"base:else-clause"`
	IsElseIf bool           `json:"isElseIf"`
	Params   *ParameterList `json:"params,omitempty"` //@elseif only
	Body     []Node         `json:"body"`
}

func (*ElseClause) Kind() NodeKind { return ElseClauseKind }

type ParameterList struct {
	NodeBase `json:"base:parameter-list"`
	Params   []Parameter `json:"params"`
}

func (*ParameterList) Kind() NodeKind { return ParameterListKind }

type PositionalParameter struct {
	NodeBase `json:"base:positional"`
	Value    Expression `json:"value"`
}

func (*PositionalParameter) Kind() NodeKind { return PositionalParameterKind }
func (*PositionalParameter) parameter()     {}

type EachBinding struct {
	NodeBase `json:"base:each-binding"`
	Item     *Identifier `json:"item"`
	Index    *Identifier `json:"index,omitempty"` //(item, index) in items
	Source   Expression  `json:"source"`
}

func (*EachBinding) Kind() NodeKind { return EachBindingKind }
func (*EachBinding) parameter()     {}

type Assignment struct {
	NodeBase `json:"base:assignment"`
	Target   *Identifier `json:"target"`
	Value    Expression  `json:"value"`
}

func (*Assignment) Kind() NodeKind { return AssignmentKind }
func (*Assignment) parameter()     {}

type NamedParameter struct {
	NodeBase `json:"base:named"`
	Key      Expression `json:"key"` //*Identifier or *StringLiteral
	Value    Expression `json:"value"`
}

func (*NamedParameter) Kind() NodeKind { return NamedParameterKind }
func (*NamedParameter) parameter()     {}

// ---------------------------------------------------------------------------
// Expressions.

type Identifier struct {
	NodeBase `json:"base:identifier"`
	Name     string `json:"name"`
}

func (*Identifier) Kind() NodeKind { return IdentifierKind }
func (*Identifier) expression()    {}

type StringLiteral struct {
	NodeBase `json:"base:string-literal"`
	Raw      string `json:"raw"` //quotes and escapes included
	Quote    byte   `json:"quote"`
}

func (*StringLiteral) Kind() NodeKind { return StringLiteralKind }
func (*StringLiteral) expression()    {}

// Content returns the literal without its quotes, escape sequences are not decoded.
func (s *StringLiteral) Content() string {
	if len(s.Raw) < 2 {
		return ""
	}
	return s.Raw[1 : len(s.Raw)-1]
}

type NumberLiteral struct {
	NodeBase `json:"base:number-literal"`
	Raw      string `json:"raw"`
}

func (*NumberLiteral) Kind() NodeKind { return NumberLiteralKind }
func (*NumberLiteral) expression()    {}

type BooleanLiteral struct {
	NodeBase `json:"base:boolean-literal"`
	Value    bool `json:"value"`
}

func (*BooleanLiteral) Kind() NodeKind { return BooleanLiteralKind }
func (*BooleanLiteral) expression()    {}

type NullLiteral struct {
	NodeBase `json:"base:null-literal"`
}

func (*NullLiteral) Kind() NodeKind { return NullLiteralKind }
func (*NullLiteral) expression()    {}

type ArrayLiteral struct {
	NodeBase `json:"base:array-literal"`
	Elements []Expression `json:"elements"`
}

func (*ArrayLiteral) Kind() NodeKind { return ArrayLiteralKind }
func (*ArrayLiteral) expression()    {}

type ObjectLiteral struct {
	NodeBase   `json:"base:object-literal"`
	Properties []*ObjectProperty `json:"properties"`
}

func (*ObjectLiteral) Kind() NodeKind { return ObjectLiteralKind }
func (*ObjectLiteral) expression()    {}

type ObjectProperty struct {
	NodeBase `json:"base:object-property"`
	Key      Expression `json:"key"`             //*Identifier or *StringLiteral
	Value    Expression `json:"value,omitempty"` //nil for shorthand properties ({ user })
}

func (*ObjectProperty) Kind() NodeKind { return ObjectPropertyKind }

func (p *ObjectProperty) IsShorthand() bool {
	return p.Value == nil
}

type MemberAccess struct {
	NodeBase `json:"base:member-access"`
	Object   Expression  `json:"object"`
	Member   *Identifier `json:"member"`
}

func (*MemberAccess) Kind() NodeKind { return MemberAccessKind }
func (*MemberAccess) expression()    {}

type IndexExpression struct {
	NodeBase `json:"base:index-expression"`
	Object   Expression `json:"object"`
	Index    Expression `json:"index"`
}

func (*IndexExpression) Kind() NodeKind { return IndexExpressionKind }
func (*IndexExpression) expression()    {}

type Call struct {
	NodeBase `json:"base:call"`
	Callee   Expression   `json:"callee"`
	Args     []Expression `json:"args"`
}

func (*Call) Kind() NodeKind { return CallKind }
func (*Call) expression()    {}

type Unary struct {
	NodeBase `json:"base:unary"`
	Operator UnaryOperator `json:"operator"`
	Operand  Expression    `json:"operand"`
}

func (*Unary) Kind() NodeKind { return UnaryKind }
func (*Unary) expression()    {}

type Binary struct {
	NodeBase `json:"base:binary"`
	Operator BinaryOperator `json:"operator"`
	Left     Expression     `json:"left"`
	Right    Expression     `json:"right"`
}

func (*Binary) Kind() NodeKind { return BinaryKind }
func (*Binary) expression()    {}

type Ternary struct {
	NodeBase  `json:"base:ternary"`
	Condition Expression `json:"condition"`
	Then      Expression `json:"then"`
	Otherwise Expression `json:"otherwise"`
}

func (*Ternary) Kind() NodeKind { return TernaryKind }
func (*Ternary) expression()    {}

type ParenthesizedExpression struct {
	NodeBase `json:"base:parenthesized-expression"`
	Inner    Expression `json:"inner"`
}

func (*ParenthesizedExpression) Kind() NodeKind { return ParenthesizedExpressionKind }
func (*ParenthesizedExpression) expression()    {}

// Unparenthesized returns the innermost non-parenthesized expression.
func Unparenthesized(expr Expression) Expression {
	for {
		paren, ok := expr.(*ParenthesizedExpression)
		if !ok {
			return expr
		}
		expr = paren.Inner
	}
}
