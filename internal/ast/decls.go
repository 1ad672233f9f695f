package ast

// Visibility of a class member.
type Visibility int

const (
	Private Visibility = iota
	Internal
	Protected
	Public
)

// Program is a fully resolved translation unit: top-level declarations in
// source order plus embedded binary resources keyed by name.
type Program struct {
	Decls     []Decl
	Resources map[string][]byte
}

// Decl is a top-level declaration: *Class or *Enum.
type Decl interface {
	declNode()
	DeclName() string
}

// Class is a nominal class declaration.
type Class struct {
	Name        string
	Base        *Class // nil when the class has no base
	Doc         *CodeDoc
	Consts      []*Const
	Fields      []*Field
	Constructor *Block // nil when the class declares no constructor
	Methods     []*Method
}

func (*Class) declNode()          {}
func (c *Class) DeclName() string { return c.Name }

// Enum is a named set of integer-valued constants.
type Enum struct {
	Name      string
	Doc       *CodeDoc
	Constants []*EnumConst
}

func (*Enum) declNode()          {}
func (e *Enum) DeclName() string { return e.Name }

// EnumConst is one constant of an enum.
type EnumConst struct {
	Enum  *Enum
	Name  string
	Value int64
}

// Field is an instance field of a class.
type Field struct {
	Class      *Class
	Name       string
	T          Type
	Init       Expr // nil when default-initialized
	Visibility Visibility
	Doc        *CodeDoc
}

// Const is a class-scoped or in-method constant. InMethod is nil for
// class scope.
type Const struct {
	Class      *Class
	InMethod   *Method
	Name       string
	T          Type
	Value      Expr
	Visibility Visibility
	Doc        *CodeDoc
}

func (*Const) stmtNode() {}

// Method is a class method. Body is nil for abstract methods.
type Method struct {
	Class      *Class
	Name       string
	Doc        *CodeDoc
	Visibility Visibility
	Static     bool
	Abstract   bool
	Params     []*Var
	ReturnType Type
	Body       *Block
}

// --- Documentation model ---

// CodeDoc is a documentation comment: a summary paragraph plus detail
// blocks.
type CodeDoc struct {
	Summary *DocPara
	Details []DocBlock
}

// DocBlock is a block element of a documentation comment: *DocPara or
// *DocList.
type DocBlock interface {
	docBlock()
}

// DocPara is a paragraph of inline runs.
type DocPara struct {
	Children []DocInline
}

func (*DocPara) docBlock() {}

// DocList is a bullet list.
type DocList struct {
	Items []*DocPara
}

func (*DocList) docBlock() {}

// DocInline is an inline run of a paragraph: *DocText or *DocCode.
type DocInline interface {
	docInline()
}

// DocText is plain documentation text.
type DocText struct {
	Text string
}

func (*DocText) docInline() {}

// DocCode is an inline code run.
type DocCode struct {
	Text string
}

func (*DocCode) docInline() {}
