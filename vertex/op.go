package vertex

// Kind names a compute vertex's operation. Individual arithmetic vertex
// kinds are trivial specializations of one generic compute-vertex contract
// (spec.md §1): the simulation core only needs a dispatch table, never a
// distinct Go type per kind.
type Kind string

const (
	Add      Kind = "add"
	Sub      Kind = "sub"
	Mul      Kind = "mul"
	Div      Kind = "div"
	BitAnd   Kind = "bit_and"
	BitOr    Kind = "bit_or"
	BitXor   Kind = "bit_xor"
	LogicAnd Kind = "logic_and"
	LogicOr  Kind = "logic_or"
	LogicNot Kind = "logic_not"
	GEqual   Kind = "ge"
	LEqual   Kind = "le"
	Equal    Kind = "eq"
	NotEqual Kind = "ne"
	Greater  Kind = "gt"
	Less     Kind = "lt"
	PostInc  Kind = "post_inc"
	PostDec  Kind = "post_dec"
	Ternary  Kind = "ternary"
	Cast     Kind = "cast"
	Select   Kind = "select"
	Assign   Kind = "assign"
)

func boolToWord(b bool) uint64 {
	if b {
		return 1
	}
	return 0
}

// Op computes a single output word from a vertex's input words. It must be
// a pure, zero-simulated-time function: all timing is the generic vertex
// template's job (arbitration wait plus declared latency), never the op's.
type Op func(inputs []uint64) uint64

// Arity reports the number of inputs a builtin op kind expects. Callers
// constructing a ComputeVertex with a custom Op are not bound by this
// table; it only documents the builtins registered in Builtins.
func Arity(k Kind) int {
	switch k {
	case LogicNot, PostInc, PostDec, Assign, Cast:
		return 1
	case Ternary, Select:
		return 3
	default:
		return 2
	}
}

// Builtins maps every Kind named in spec.md §6 to its Op. PostInc and
// PostDec publish the pre-increment/pre-decrement value, matching the
// spec's end-to-end scenario 4: the vertex's externally observable output
// is the operand's value before the implied update, since the generic
// vertex template has no notion of persistent per-activation state to
// stash the updated value in.
var Builtins = map[Kind]Op{
	Add:      func(in []uint64) uint64 { return in[0] + in[1] },
	Sub:      func(in []uint64) uint64 { return in[0] - in[1] },
	Mul:      func(in []uint64) uint64 { return in[0] * in[1] },
	Div:      func(in []uint64) uint64 { return in[0] / in[1] },
	BitAnd:   func(in []uint64) uint64 { return in[0] & in[1] },
	BitOr:    func(in []uint64) uint64 { return in[0] | in[1] },
	BitXor:   func(in []uint64) uint64 { return in[0] ^ in[1] },
	LogicAnd: func(in []uint64) uint64 { return boolToWord(in[0] != 0 && in[1] != 0) },
	LogicOr:  func(in []uint64) uint64 { return boolToWord(in[0] != 0 || in[1] != 0) },
	LogicNot: func(in []uint64) uint64 { return boolToWord(in[0] == 0) },
	GEqual:   func(in []uint64) uint64 { return boolToWord(in[0] >= in[1]) },
	LEqual:   func(in []uint64) uint64 { return boolToWord(in[0] <= in[1]) },
	Equal:    func(in []uint64) uint64 { return boolToWord(in[0] == in[1]) },
	NotEqual: func(in []uint64) uint64 { return boolToWord(in[0] != in[1]) },
	Greater:  func(in []uint64) uint64 { return boolToWord(in[0] > in[1]) },
	Less:     func(in []uint64) uint64 { return boolToWord(in[0] < in[1]) },
	PostInc:  func(in []uint64) uint64 { return in[0] },
	PostDec:  func(in []uint64) uint64 { return in[0] },
	Assign:   func(in []uint64) uint64 { return in[0] },
	Cast:     func(in []uint64) uint64 { return in[0] }, // width truncation happens at encode time
	Ternary: func(in []uint64) uint64 {
		if in[0] != 0 {
			return in[1]
		}
		return in[2]
	},
	Select: func(in []uint64) uint64 {
		if in[0] != 0 {
			return in[1]
		}
		return in[2]
	},
}
