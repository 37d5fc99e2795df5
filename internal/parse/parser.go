package parse

import (
	"context"
	"errors"
	"time"

	"github.com/edgecst/edgecst/internal/ast"
)

const (
	DEFAULT_TIMEOUT       = time.Second
	DEFAULT_NO_CHECK_FUEL = 10

	MAX_TEMPLATE_BYTE_LEN = 1 << 24

	//maximum number of nested expressions, tags and directives.
	MAX_NESTING_DEPTH = 5000
)

var (
	ErrNodeBudgetExceeded = errors.New("node budget exceeded")
	ErrTemplateTooLong    = errors.New("template is too long")
	ErrNestingTooDeep     = errors.New("nesting is too deep")
)

// A parser parses a single template, it stops at the first error.
// The scanner is context-free: the parser asks it for the next token in
// the lexical mode of the construct it is currently parsing.
type parser struct {
	scanner
	i int32 //byte index

	//consumed tokens, sorted before being returned.
	tokens []ast.Token

	//open tags and block directives, innermost last.
	frames []*frame

	//lexical mode used by the expression parser.
	exprMode scanMode

	nodeCount int
	maxNodes  int //0 if unlimited

	depth int

	noCheckFuel          int //-1 if infinite fuel
	remainingNoCheckFuel int //refueled after each context check.

	context context.Context
	cancel  context.CancelFunc
}

type ParserOptions struct {
	//The context is checked each time the 'no check fuel' is empty.
	//The 'no check fuel' defaults to DEFAULT_NO_CHECK_FUEL if NoCheckFuel is <= 0.
	NoCheckFuel int

	//The default context is context.Background().
	Context context.Context

	//Defaults to DEFAULT_TIMEOUT, a negative value disables the timeout.
	Timeout time.Duration

	//Maximum number of nodes in the resulting tree, 0 means no limit.
	MaxNodes int
}

func newParser(s string, opts ...ParserOptions) *parser {
	p := &parser{
		scanner:              scanner{s: s, len: int32(len(s))},
		i:                    0,
		noCheckFuel:          -1,
		remainingNoCheckFuel: -1,
		tokens:               make([]ast.Token, 0, len(s)/8),
		exprMode:             ExpressionMode,
	}

	var (
		timeout     time.Duration   = DEFAULT_TIMEOUT
		noCheckFuel                 = DEFAULT_NO_CHECK_FUEL
		ctx         context.Context = context.Background()
	)

	if len(opts) > 0 {
		opt := opts[0]
		if opt.Context != nil {
			ctx = opt.Context
		}
		if opt.NoCheckFuel > 0 {
			noCheckFuel = opt.NoCheckFuel
		}
		if opt.Timeout != 0 {
			timeout = opt.Timeout
		}
		if opt.MaxNodes > 0 {
			p.maxNodes = opt.MaxNodes
		}
	}

	if timeout > 0 {
		p.context, p.cancel = context.WithTimeout(ctx, timeout)
	} else {
		p.context, p.cancel = context.WithCancel(ctx)
	}
	p.noCheckFuel = noCheckFuel
	p.remainingNoCheckFuel = noCheckFuel

	return p
}

// panicIfContextDone checks whether the context is done every time the 'no check fuel' is empty.
func (p *parser) panicIfContextDone() {
	if p.noCheckFuel == -1 {
		return
	}

	p.remainingNoCheckFuel--

	if p.remainingNoCheckFuel <= 0 {
		p.remainingNoCheckFuel = p.noCheckFuel
		if p.context != nil {
			select {
			case <-p.context.Done():
				panic(p.context.Err())
			default:
				break
			}
		}
	}
}

// alloc registers a new node, every node of the tree is created through it.
func alloc[N ast.Node](p *parser, node N) N {
	p.nodeCount++
	if p.maxNodes > 0 && p.nodeCount > p.maxNodes {
		panic(ErrNodeBudgetExceeded)
	}
	return node
}

// enter increments the nesting depth, it should be followed by a deferred call to leave.
func (p *parser) enter() {
	p.depth++
	if p.depth > MAX_NESTING_DEPTH {
		panic(ErrNestingTooDeep)
	}
}

func (p *parser) leave() {
	p.depth--
}

// peek returns the next token in the given mode without consuming it.
func (p *parser) peek(mode scanMode) ast.Token {
	p.panicIfContextDone()
	return p.scan(mode, p.i)
}

// eat consumes a token previously returned by peek.
func (p *parser) eat(tok ast.Token) ast.Token {
	p.tokens = append(p.tokens, tok)
	p.i = tok.Span.End
	return tok
}

// next consumes and returns the next token in the given mode.
func (p *parser) next(mode scanMode) ast.Token {
	return p.eat(p.peek(mode))
}

// A frame is a construct whose body is being parsed: an open tag or a block directive.
type frame struct {
	isTag bool
	name  string
	start NodeSpan //'<name' or '@name'

	sawElse bool //@if only
}

func (p *parser) pushFrame(f *frame) {
	p.frames = append(p.frames, f)
}

func (p *parser) popFrame() {
	p.frames = p.frames[:len(p.frames)-1]
}

func (p *parser) topFrame() *frame {
	if len(p.frames) == 0 {
		return nil
	}
	return p.frames[len(p.frames)-1]
}

// findFrameBelowTop returns the innermost frame below the top frame for which isTag is equal to $isTag.
func (p *parser) findFrameBelowTop(isTag bool) *frame {
	for i := len(p.frames) - 2; i >= 0; i-- {
		if p.frames[i].isTag == isTag {
			return p.frames[i]
		}
	}
	return nil
}
