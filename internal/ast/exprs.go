package ast

// Expr is the interface for all expression nodes. Every node carries the
// type the resolver assigned to it.
type Expr interface {
	ExprType() Type
	exprNode()
}

// BuiltinId identifies a member of the input language's built-in library.
// The resolver stores it on SymbolRef nodes so backends can dispatch
// without string comparison. BuiltinNone marks user-declared symbols.
type BuiltinId int

const (
	BuiltinNone BuiltinId = iota

	BuiltinListAdd
	BuiltinListInsert
	BuiltinListRemoveAt
	BuiltinListRemoveRange
	BuiltinListContains
	BuiltinListSortAll
	BuiltinListSortPart
	BuiltinListClear
	BuiltinListCount

	BuiltinStackPush
	BuiltinStackPop
	BuiltinStackPeek

	BuiltinSetAdd
	BuiltinSetContains
	BuiltinSetRemove
	BuiltinSetClear
	BuiltinSetCount

	BuiltinDictContainsKey
	BuiltinDictRemove
	BuiltinDictClear
	BuiltinDictCount

	BuiltinArrayCopyTo
	BuiltinArrayFill
	BuiltinArrayLength

	BuiltinStringLength

	BuiltinConsole
	BuiltinConsoleError
	BuiltinConsoleWrite
	BuiltinConsoleWriteLine

	BuiltinUTF8GetByteCount
	BuiltinUTF8GetBytes
	BuiltinUTF8GetString

	BuiltinEnvironmentGetVariable

	BuiltinRegexCompile
	BuiltinRegexIsMatch
	BuiltinRegexEscape
	BuiltinMatchFind
	BuiltinMatchGetCapture
	BuiltinMatchStart
	BuiltinMatchEnd
	BuiltinMatchValue
	BuiltinMatchLength

	BuiltinBase
)

// LiteralInt is an integer literal.
type LiteralInt struct {
	Value int64
	T     Type
}

func (e *LiteralInt) ExprType() Type { return e.T }
func (*LiteralInt) exprNode()        {}

// LiteralDouble is a floating-point literal.
type LiteralDouble struct {
	Value float64
	T     Type
}

func (e *LiteralDouble) ExprType() Type { return e.T }
func (*LiteralDouble) exprNode()        {}

// LiteralString is a string literal. Value holds the actual characters,
// not their source spelling.
type LiteralString struct {
	Value string
	T     Type
}

func (e *LiteralString) ExprType() Type { return e.T }
func (*LiteralString) exprNode()        {}

// LiteralChar is a character literal.
type LiteralChar struct {
	Value rune
	T     Type
}

func (e *LiteralChar) ExprType() Type { return e.T }
func (*LiteralChar) exprNode()        {}

// LiteralBool is a boolean literal.
type LiteralBool struct {
	Value bool
	T     Type
}

func (e *LiteralBool) ExprType() Type { return e.T }
func (*LiteralBool) exprNode()        {}

// LiteralNull is the null reference literal.
type LiteralNull struct {
	T Type
}

func (e *LiteralNull) ExprType() Type { return e.T }
func (*LiteralNull) exprNode()        {}

// SymbolRef references a symbol, optionally qualified by a left-hand
// expression (a.b.c chains nest through Left). For built-in members the
// resolver sets Builtin; for user symbols it sets Decl to the *Var,
// *Field, *Const, *Method or *EnumConst the name binds to.
type SymbolRef struct {
	Left    Expr
	Name    string
	Builtin BuiltinId
	Decl    any
	T       Type
}

func (e *SymbolRef) ExprType() Type { return e.T }
func (*SymbolRef) exprNode()        {}

// BinaryExpr is a binary operation.
type BinaryExpr struct {
	Left  Expr
	Op    Op
	Right Expr
	T     Type
}

func (e *BinaryExpr) ExprType() Type { return e.T }
func (*BinaryExpr) exprNode()        {}

// UnaryExpr is a prefix or postfix unary operation.
type UnaryExpr struct {
	Op      Op
	Inner   Expr
	Postfix bool
	T       Type
}

func (e *UnaryExpr) ExprType() Type { return e.T }
func (*UnaryExpr) exprNode()        {}

// CondExpr is the conditional ?: operator.
type CondExpr struct {
	Cond    Expr
	OnTrue  Expr
	OnFalse Expr
	T       Type
}

func (e *CondExpr) ExprType() Type { return e.T }
func (*CondExpr) exprNode()        {}

// CallExpr is a method or function call. Method.Left is the receiver
// (nil for calls on the current object or on statics of the current
// class).
type CallExpr struct {
	Method *SymbolRef
	Args   []Expr
	T      Type
}

func (e *CallExpr) ExprType() Type { return e.T }
func (*CallExpr) exprNode()        {}

// IndexExpr is a subscript access.
type IndexExpr struct {
	Obj   Expr
	Index Expr
	T     Type
}

func (e *IndexExpr) ExprType() Type { return e.T }
func (*IndexExpr) exprNode()        {}

// InterpPart is one literal-prefix-plus-argument segment of an
// interpolated string. Width 0 means unpadded; Format 0 means no format
// specifier; Precision -1 means no precision.
type InterpPart struct {
	Prefix    string
	Arg       Expr
	Width     int
	Format    byte
	Precision int
}

// InterpolatedString is an interpolated string literal: parts followed by
// a trailing literal suffix.
type InterpolatedString struct {
	Parts  []InterpPart
	Suffix string
	T      Type
}

func (e *InterpolatedString) ExprType() Type { return e.T }
func (*InterpolatedString) exprNode()        {}

// AggregateInit is an array literal initializer.
type AggregateInit struct {
	Items []Expr
	T     Type
}

func (e *AggregateInit) ExprType() Type { return e.T }
func (*AggregateInit) exprNode()        {}

// ResourceExpr references an embedded binary resource by name.
type ResourceExpr struct {
	Name string
	T    Type
}

func (e *ResourceExpr) ExprType() Type { return e.T }
func (*ResourceExpr) exprNode()        {}
