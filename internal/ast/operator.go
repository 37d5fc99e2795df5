package ast

type UnaryOperator uint8

const (
	BoolNegate UnaryOperator = iota + 1 // !
	NumberNegate                        // -
	NumberPlus                          // +
)

var unaryOperatorStrings = [...]string{
	BoolNegate:   "!",
	NumberNegate: "-",
	NumberPlus:   "+",
}

func (op UnaryOperator) String() string {
	if op == 0 || int(op) >= len(unaryOperatorStrings) {
		return "<invalid unary operator>"
	}
	return unaryOperatorStrings[op]
}

type BinaryOperator uint8

const (
	Or BinaryOperator = iota + 1
	And
	Equal
	NotEqual
	StrictEqual
	StrictNotEqual
	LessThan
	GreaterThan
	LessOrEqual
	GreaterOrEqual
	Add
	Sub
	Mul
	Div
	Mod
)

var binaryOperatorStrings = [...]string{
	Or:             "||",
	And:            "&&",
	Equal:          "==",
	NotEqual:       "!=",
	StrictEqual:    "===",
	StrictNotEqual: "!==",
	LessThan:       "<",
	GreaterThan:    ">",
	LessOrEqual:    "<=",
	GreaterOrEqual: ">=",
	Add:            "+",
	Sub:            "-",
	Mul:            "*",
	Div:            "/",
	Mod:            "%",
}

func (op BinaryOperator) String() string {
	if op == 0 || int(op) >= len(binaryOperatorStrings) {
		return "<invalid binary operator>"
	}
	return binaryOperatorStrings[op]
}
