// Package jsbe generates JavaScript source from a resolved program.
//
// JavaScript is the rewrite-heavy target: it has no fixed-width or
// unsigned integers, no value-equality guarantee for switch on strings,
// and the generated code avoids class syntax, so the generator rewrites
// integer arithmetic, lowers string switches to if/else chains, and
// emits classes as constructor functions with prototype chains.
package jsbe

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/peirick/cito/internal/ast"
	"github.com/peirick/cito/internal/gen"
)

// Backend adapts this package to the compiler's target registry.
type Backend struct{}

// Name returns the language name used by the -l option.
func (Backend) Name() string { return "js" }

// Extensions returns the output-file extensions this backend serves.
func (Backend) Extensions() []string { return []string{"js", "mjs"} }

// Generate produces JavaScript source from a resolved program.
func (Backend) Generate(prog *ast.Program) (string, error) { return Generate(prog) }

// Generate produces JavaScript source from a resolved program. The first
// line is "use strict"; declarations follow in source order; registered
// helpers and embedded resources are emitted once into a trailing Ci
// object.
func Generate(prog *ast.Program) (string, error) {
	g := &generator{
		helpers:   make(map[string]bool),
		resources: prog.Resources,
	}
	g.EmitLine(`"use strict";`)
	for _, d := range prog.Decls {
		g.EmitLine("")
		switch d := d.(type) {
		case *ast.Enum:
			g.writeEnum(d)
		case *ast.Class:
			g.writeClass(d)
		}
	}
	g.writeLib()
	if g.err != nil {
		return "", g.err
	}
	return g.String(), nil
}

type generator struct {
	gen.Writer
	method       *ast.Method // current method, nil inside constructors
	helpers      map[string]bool
	resources    map[string][]byte
	switchLabels int
	breakLabel   string // forward label for break inside a lowered string switch
	err          error
}

func (g *generator) notSupported(what string) string {
	if g.err == nil {
		g.err = fmt.Errorf("not implemented: %s", what)
	}
	return ""
}

// --- Names ---

func memberName(name string) string {
	return gen.MangleName(gen.CamelCase(name), jsKeywords)
}

func constName(c *ast.Const) string {
	if c.InMethod != nil {
		return gen.UpperSnake(c.InMethod.Name) + "_" + gen.UpperSnake(c.Name)
	}
	return gen.UpperSnake(c.Name)
}

// --- Documentation ---

func docParaText(para *ast.DocPara) string {
	var sb strings.Builder
	for _, inline := range para.Children {
		switch inline := inline.(type) {
		case *ast.DocText:
			sb.WriteString(inline.Text)
		case *ast.DocCode:
			sb.WriteString("<code>")
			sb.WriteString(inline.Text)
			sb.WriteString("</code>")
		}
	}
	return sb.String()
}

func (g *generator) writeDoc(doc *ast.CodeDoc) {
	if doc == nil {
		return
	}
	g.EmitLine("/**")
	if doc.Summary != nil {
		g.EmitLinef(" * %s", docParaText(doc.Summary))
	}
	for _, block := range doc.Details {
		switch block := block.(type) {
		case *ast.DocPara:
			g.EmitLinef(" * %s", docParaText(block))
		case *ast.DocList:
			g.EmitLine(" * <ul>")
			for _, item := range block.Items {
				g.EmitLinef(" * <li>%s</li>", docParaText(item))
			}
			g.EmitLine(" * </ul>")
		}
	}
	g.EmitLine(" */")
}

// --- Declarations ---

func (g *generator) writeEnum(e *ast.Enum) {
	g.writeDoc(e.Doc)
	g.EmitLinef("const %s = Object.freeze({", e.Name)
	g.IncIndent()
	for i, c := range e.Constants {
		comma := ","
		if i == len(e.Constants)-1 {
			comma = ""
		}
		g.EmitLinef("%s : %d%s", gen.UpperSnake(c.Name), c.Value, comma)
	}
	g.DecIndent()
	g.EmitLine("});")
}

func (g *generator) writeClass(c *ast.Class) {
	g.writeDoc(c.Doc)
	g.EmitLinef("function %s() {", c.Name)
	g.IncIndent()
	for _, f := range c.Fields {
		g.writeFieldInit(f)
	}
	if c.Constructor != nil {
		g.writeStmts(c.Constructor.Stmts)
	}
	g.DecIndent()
	g.EmitLine("}")
	if c.Base != nil {
		g.EmitLinef("%s.prototype = new %s();", c.Name, c.Base.Name)
	}
	for _, k := range c.Consts {
		if k.Visibility == ast.Private && !isAggregate(k.Value) {
			// Private scalar constants are inlined at their use sites.
			continue
		}
		g.EmitLinef("%s.%s = %s;", c.Name, constName(k), g.constValue(k))
	}
	for _, m := range c.Methods {
		if m.Abstract {
			continue
		}
		g.EmitLine("")
		g.writeMethod(c, m)
	}
}

func isAggregate(e ast.Expr) bool {
	_, ok := e.(*ast.AggregateInit)
	return ok
}

func (g *generator) constValue(k *ast.Const) string {
	if agg, ok := k.Value.(*ast.AggregateInit); ok {
		items := make([]string, len(agg.Items))
		for i, item := range agg.Items {
			items[i] = g.expr(item, ast.PrioArgument)
		}
		list := "[ " + strings.Join(items, ", ") + " ]"
		if elem := arrayElem(k.T); elem != nil && ast.IsNumeric(elem) {
			return "new " + arrayCtorName(elem) + "(" + list + ")"
		}
		return list
	}
	return g.expr(k.Value, ast.PrioArgument)
}

func arrayElem(t ast.Type) ast.Type {
	switch t := t.(type) {
	case *ast.ArrayStorageType:
		return t.Elem
	case *ast.ArrayPtrType:
		return t.Elem
	}
	return nil
}

func (g *generator) writeMethod(c *ast.Class, m *ast.Method) {
	g.writeDoc(m.Doc)
	params := make([]string, len(m.Params))
	for i, p := range m.Params {
		params[i] = memberName(p.Name)
	}
	if m.Static {
		g.EmitLinef("%s.%s = function(%s) {", c.Name, memberName(m.Name), strings.Join(params, ", "))
	} else {
		g.EmitLinef("%s.prototype.%s = function(%s) {", c.Name, memberName(m.Name), strings.Join(params, ", "))
	}
	g.IncIndent()
	g.method = m
	g.writeStmts(m.Body.Stmts)
	g.method = nil
	g.DecIndent()
	g.EmitLine("}")
}

// --- Field and local initialization ---

func (g *generator) writeFieldInit(f *ast.Field) {
	lhs := "this." + memberName(f.Name)
	if f.Init != nil {
		g.EmitLinef("%s = %s;", lhs, g.expr(f.Init, ast.PrioArgument))
		return
	}
	if arr, ok := f.T.(*ast.ArrayStorageType); ok {
		g.writeStorageInit(lhs, arr, 0)
		return
	}
	if init, ok := storageDefault(f.T); ok {
		g.EmitLinef("%s = %s;", lhs, init)
	}
}

// storageDefault returns the constructed initial value of a
// non-assignable storage type.
func storageDefault(t ast.Type) (string, bool) {
	switch t := t.(type) {
	case *ast.ListType, *ast.StackType:
		return "[]", true
	case *ast.HashSetType:
		return "new Set()", true
	case *ast.DictType:
		return "{}", true
	case *ast.ClassType:
		return "new " + t.Class.Name + "()", true
	}
	return "", false
}

func arrayCtorName(elem ast.Type) string {
	switch gen.ArrayElementId(elem) {
	case gen.Int8:
		return "Int8Array"
	case gen.UInt8:
		return "Uint8Array"
	case gen.Int16:
		return "Int16Array"
	case gen.UInt16:
		return "Uint16Array"
	case gen.Int32:
		return "Int32Array"
	case gen.UInt32:
		return "Uint32Array"
	case gen.Single:
		return "Float32Array"
	default:
		// Int64 elements use Float64 storage: exact only up to 2^53.
		return "Float64Array"
	}
}

// writeStorageInit emits the declaration-time initialization of array
// storage: a typed array for numeric elements, or a fixed-length Array
// filled by counted loops for class and nested-array elements.
func (g *generator) writeStorageInit(lhs string, t *ast.ArrayStorageType, depth int) {
	switch elem := t.Elem.(type) {
	case *ast.ArrayStorageType:
		g.EmitLinef("%s = new Array(%d);", lhs, t.Length)
		g.OpenLoop("let", depth, t.Length)
		g.writeStorageInit(lhs+"["+gen.LoopVar(depth)+"]", elem, depth+1)
		g.CloseBlock()
	case *ast.ClassType:
		g.EmitLinef("%s = new Array(%d);", lhs, t.Length)
		g.OpenLoop("let", depth, t.Length)
		g.EmitLinef("%s[%s] = new %s();", lhs, gen.LoopVar(depth), elem.Class.Name)
		g.CloseBlock()
	default:
		if ast.IsNumeric(t.Elem) {
			g.EmitLinef("%s = new %s(%d);", lhs, arrayCtorName(t.Elem), t.Length)
		} else {
			g.EmitLinef("%s = new Array(%d);", lhs, t.Length)
		}
	}
}

func (g *generator) writeVar(v *ast.Var) {
	name := memberName(v.Name)
	if v.Init != nil {
		g.EmitLinef("let %s = %s;", name, g.expr(v.Init, ast.PrioArgument))
		return
	}
	if arr, ok := v.T.(*ast.ArrayStorageType); ok {
		g.EmitLinef("let %s;", name)
		g.writeStorageInit(name, arr, 0)
		return
	}
	if init, ok := storageDefault(v.T); ok {
		g.EmitLinef("let %s = %s;", name, init)
		return
	}
	g.EmitLinef("let %s;", name)
}

// --- Statements ---

func (g *generator) writeStmts(stmts []ast.Stmt) {
	for _, s := range stmts {
		g.writeStmt(s)
	}
}

func stmtList(s ast.Stmt) []ast.Stmt {
	if b, ok := s.(*ast.Block); ok {
		return b.Stmts
	}
	return []ast.Stmt{s}
}

// writeBraced emits "{ body }" for a loop or branch body, leaving the
// cursor after the closing brace.
func (g *generator) writeBraced(s ast.Stmt) {
	g.Emit("{\n")
	g.IncIndent()
	g.writeStmts(stmtList(s))
	g.DecIndent()
	g.EmitIndent()
	g.Emit("}")
}

// enterLoop shields the loop body from an enclosing lowered switch: a
// break inside the loop binds to the loop, not the switch label.
func (g *generator) enterLoop(body ast.Stmt) {
	saved := g.breakLabel
	g.breakLabel = ""
	g.writeBraced(body)
	g.breakLabel = saved
}

func (g *generator) writeStmt(s ast.Stmt) {
	switch s := s.(type) {
	case *ast.Block:
		g.EmitIndent()
		g.writeBraced(s)
		g.Emit("\n")
	case *ast.Var:
		g.writeVar(s)
	case *ast.Const:
		name := constName(s)
		if s.InMethod == nil && g.method != nil {
			name = gen.UpperSnake(g.method.Name) + "_" + gen.UpperSnake(s.Name)
		}
		g.EmitLinef("const %s = %s;", name, g.constValue(s))
	case *ast.AssignStmt:
		g.EmitLinef("%s;", g.assignText(s))
	case *ast.If:
		g.writeIf(s)
	case *ast.While:
		g.EmitIndent()
		g.Emitf("while (%s) ", g.expr(s.Cond, ast.PrioArgument))
		g.enterLoop(s.Body)
		g.Emit("\n")
	case *ast.DoWhile:
		g.EmitIndent()
		g.Emit("do ")
		g.enterLoop(s.Body)
		g.Emitf(" while (%s);\n", g.expr(s.Cond, ast.PrioArgument))
	case *ast.For:
		g.EmitIndent()
		g.Emitf("for (%s; %s; %s) ", g.clauseText(s.Init), g.condText(s.Cond), g.clauseText(s.Advance))
		g.enterLoop(s.Body)
		g.Emit("\n")
	case *ast.Foreach:
		g.writeForeach(s)
	case *ast.Switch:
		g.writeSwitch(s)
	case *ast.Break:
		if g.breakLabel != "" {
			g.EmitLinef("break %s;", g.breakLabel)
		} else {
			g.EmitLine("break;")
		}
	case *ast.Continue:
		g.EmitLine("continue;")
	case *ast.Return:
		if s.Value == nil {
			g.EmitLine("return;")
		} else {
			g.EmitLinef("return %s;", g.expr(s.Value, ast.PrioArgument))
		}
	case *ast.Throw:
		g.EmitLinef("throw %s;", g.expr(s.Message, ast.PrioArgument))
	case *ast.Lock:
		g.notSupported("lock statement (the JavaScript target is single-threaded)")
	case *ast.Assert:
		if s.Message != nil {
			g.EmitLinef("console.assert(%s, %s);",
				g.expr(s.Cond, ast.PrioArgument), g.expr(s.Message, ast.PrioArgument))
		} else {
			g.EmitLinef("console.assert(%s);", g.expr(s.Cond, ast.PrioArgument))
		}
	case *ast.ExprStmt:
		g.writeExprStmt(s.Expr)
	default:
		g.notSupported(fmt.Sprintf("statement %T", s))
	}
}

func (g *generator) writeExprStmt(e ast.Expr) {
	if call, ok := e.(*ast.CallExpr); ok && call.Method.Builtin == ast.BuiltinDictClear {
		// No native clear on a plain map object: delete every key in place.
		obj := g.expr(call.Method.Left, ast.PrioPrimary)
		g.EmitLinef("for (const _k in %s)", obj)
		g.IncIndent()
		g.EmitLinef("delete %s[_k];", obj)
		g.DecIndent()
		return
	}
	g.EmitLinef("%s;", g.expr(e, ast.PrioStatement))
}

func (g *generator) clauseText(s ast.Stmt) string {
	switch s := s.(type) {
	case nil:
		return ""
	case *ast.Var:
		if s.Init != nil {
			return "let " + memberName(s.Name) + " = " + g.expr(s.Init, ast.PrioArgument)
		}
		return "let " + memberName(s.Name)
	case *ast.AssignStmt:
		return g.assignText(s)
	case *ast.ExprStmt:
		return g.expr(s.Expr, ast.PrioStatement)
	default:
		return g.notSupported(fmt.Sprintf("for clause %T", s))
	}
}

func (g *generator) condText(e ast.Expr) string {
	if e == nil {
		return ""
	}
	return g.expr(e, ast.PrioArgument)
}

func (g *generator) writeIf(s *ast.If) {
	g.EmitIndent()
	for {
		g.Emitf("if (%s) ", g.expr(s.Cond, ast.PrioArgument))
		g.writeBraced(s.OnTrue)
		if s.OnFalse == nil {
			break
		}
		g.Emit(" else ")
		if next, ok := s.OnFalse.(*ast.If); ok {
			s = next
			continue
		}
		g.writeBraced(s.OnFalse)
		break
	}
	g.Emit("\n")
}

// --- Operators ---

func opSymbol(op ast.Op) string {
	switch op {
	case ast.OpAdd:
		return "+"
	case ast.OpSub:
		return "-"
	case ast.OpMul:
		return "*"
	case ast.OpDiv:
		return "/"
	case ast.OpMod:
		return "%"
	case ast.OpAnd:
		return "&"
	case ast.OpOr:
		return "|"
	case ast.OpXor:
		return "^"
	case ast.OpShl:
		return "<<"
	case ast.OpShr:
		return ">>"
	case ast.OpLess:
		return "<"
	case ast.OpLessEq:
		return "<="
	case ast.OpGreater:
		return ">"
	case ast.OpGreaterEq:
		return ">="
	case ast.OpEqual:
		return "==="
	case ast.OpNotEqual:
		return "!=="
	case ast.OpCondAnd:
		return "&&"
	case ast.OpCondOr:
		return "||"
	default:
		return "?"
	}
}

func isInt32Arith(t ast.Type) bool {
	return gen.IsUnsigned32(t) || gen.IsSignedInt32(t)
}

// assignText renders an assignment, decomposing compound assignments
// whose operator needs an integer coercion into x = (x op y) form.
func (g *generator) assignText(s *ast.AssignStmt) string {
	target := g.expr(s.Target, ast.PrioPrimary)
	if s.Op == ast.OpAssign {
		return target + " = " + g.expr(s.Value, ast.PrioArgument)
	}
	t := s.Target.ExprType()
	unsigned := gen.IsUnsigned32(t)
	switch s.Op {
	case ast.OpShr:
		if unsigned {
			return target + " = " + target + " >>> " + g.expr(s.Value, ast.PrioShift+1)
		}
	case ast.OpMul, ast.OpDiv, ast.OpMod:
		if isInt32Arith(t) {
			return target + " = " + g.coercedArith(s.Op, target, g.expr(s.Value, ast.PrioPrimary), unsigned)
		}
	}
	return target + " " + opSymbol(s.Op) + "= " + g.expr(s.Value, ast.PrioArgument)
}

// coercedArith renders an integer multiply/divide/modulo with the
// post-coercion that recovers 32-bit semantics on a double-only target.
// The rewritten form is always parenthesized.
func (g *generator) coercedArith(op ast.Op, left, right string, unsigned bool) string {
	coerce := "| 0"
	if unsigned && op != ast.OpMul {
		coerce = ">>> 0"
	}
	return "(" + left + " " + opSymbol(op) + " " + right + " " + coerce + ")"
}

// --- Expressions ---

func (g *generator) parenthesize(s string, natural, parent ast.Priority) string {
	if natural < parent {
		return "(" + s + ")"
	}
	return s
}

func (g *generator) expr(e ast.Expr, parent ast.Priority) string {
	switch e := e.(type) {
	case *ast.LiteralInt:
		return strconv.FormatInt(e.Value, 10)
	case *ast.LiteralDouble:
		return strconv.FormatFloat(e.Value, 'g', -1, 64)
	case *ast.LiteralString:
		return quoteJS(e.Value)
	case *ast.LiteralChar:
		return strconv.Itoa(int(e.Value))
	case *ast.LiteralBool:
		if e.Value {
			return "true"
		}
		return "false"
	case *ast.LiteralNull:
		return "null"
	case *ast.InterpolatedString:
		return g.interpText(e)
	case *ast.SymbolRef:
		return g.symbolText(e, parent)
	case *ast.BinaryExpr:
		return g.binaryText(e, parent)
	case *ast.UnaryExpr:
		return g.unaryText(e)
	case *ast.CondExpr:
		s := g.expr(e.Cond, ast.PrioCondOr) + " ? " + g.expr(e.OnTrue, ast.PrioCond) +
			" : " + g.expr(e.OnFalse, ast.PrioCond)
		return g.parenthesize(s, ast.PrioCond, parent)
	case *ast.CallExpr:
		return g.callText(e, parent)
	case *ast.IndexExpr:
		return g.expr(e.Obj, ast.PrioPrimary) + "[" + g.expr(e.Index, ast.PrioArgument) + "]"
	case *ast.AggregateInit:
		items := make([]string, len(e.Items))
		for i, item := range e.Items {
			items[i] = g.expr(item, ast.PrioArgument)
		}
		return "[ " + strings.Join(items, ", ") + " ]"
	case *ast.ResourceExpr:
		return "Ci." + gen.ResourceName(e.Name)
	default:
		return g.notSupported(fmt.Sprintf("expression %T", e))
	}
}

func (g *generator) unaryText(e *ast.UnaryExpr) string {
	inner := g.expr(e.Inner, ast.PrioPrimary)
	if e.Postfix {
		switch e.Op {
		case ast.OpIncr:
			return inner + "++"
		case ast.OpDecr:
			return inner + "--"
		}
	}
	switch e.Op {
	case ast.OpIncr:
		return "++" + inner
	case ast.OpDecr:
		return "--" + inner
	case ast.OpNeg:
		return "-" + inner
	case ast.OpNot:
		return "!" + inner
	case ast.OpCompl:
		return "~" + inner
	default:
		return g.notSupported(fmt.Sprintf("unary operator %d", e.Op))
	}
}

func (g *generator) binaryText(e *ast.BinaryExpr, parent ast.Priority) string {
	leftType := e.Left.ExprType()
	unsigned := gen.IsUnsigned32(leftType)
	switch e.Op {
	case ast.OpMul, ast.OpDiv, ast.OpMod:
		coerce := unsigned
		if e.Op == ast.OpDiv && !unsigned && gen.IsSignedInt32(leftType) && isIntegerExpr(e.Right) {
			coerce = true // integer division truncates
		}
		if coerce {
			return g.coercedArith(e.Op, g.expr(e.Left, ast.PrioMul), g.expr(e.Right, ast.PrioPrimary), unsigned)
		}
	case ast.OpShr:
		if unsigned {
			s := g.expr(e.Left, ast.PrioShift) + " >>> " + g.expr(e.Right, ast.PrioShift+1)
			return g.parenthesize(s, ast.PrioShift, parent)
		}
	case ast.OpLess, ast.OpLessEq, ast.OpGreater, ast.OpGreaterEq:
		if unsigned || gen.IsUnsigned32(e.Right.ExprType()) {
			s := "(" + g.expr(e.Left, ast.PrioShift) + " >>> 0) " + opSymbol(e.Op) +
				" (" + g.expr(e.Right, ast.PrioShift) + " >>> 0)"
			return g.parenthesize(s, ast.PrioRel, parent)
		}
	}
	prio := ast.BinaryPriority(e.Op)
	s := g.expr(e.Left, prio) + " " + opSymbol(e.Op) + " " + g.expr(e.Right, prio+1)
	return g.parenthesize(s, prio, parent)
}

func isIntegerExpr(e ast.Expr) bool {
	t := e.ExprType()
	if !ast.IsNumeric(t) {
		return false
	}
	switch gen.TypeCode(t, true) {
	case gen.Single, gen.Double:
		return false
	}
	return true
}

// --- Symbol references ---

func (g *generator) symbolText(e *ast.SymbolRef, parent ast.Priority) string {
	if e.Left != nil {
		obj := g.expr(e.Left, ast.PrioPrimary)
		switch e.Builtin {
		case ast.BuiltinListCount, ast.BuiltinArrayLength, ast.BuiltinStringLength:
			return obj + ".length"
		case ast.BuiltinSetCount:
			return obj + ".size"
		case ast.BuiltinDictCount:
			return "Object.keys(" + obj + ").length"
		case ast.BuiltinMatchStart:
			return obj + ".index"
		case ast.BuiltinMatchEnd:
			s := obj + ".index + " + obj + "[0].length"
			return g.parenthesize(s, ast.PrioAdd, parent)
		case ast.BuiltinMatchValue:
			return obj + "[0]"
		case ast.BuiltinMatchLength:
			return obj + "[0].length"
		}
		return obj + "." + memberName(e.Name)
	}
	switch d := e.Decl.(type) {
	case *ast.Field:
		return "this." + memberName(d.Name)
	case *ast.Const:
		if d.InMethod != nil {
			return constName(d)
		}
		if d.Visibility == ast.Private && !isAggregate(d.Value) {
			// Private scalar constants are not attached to the class
			// object; inline the value instead.
			return g.expr(d.Value, parent)
		}
		return d.Class.Name + "." + constName(d)
	case *ast.EnumConst:
		return d.Enum.Name + "." + gen.UpperSnake(d.Name)
	case *ast.Method:
		if d.Static {
			return d.Class.Name + "." + memberName(d.Name)
		}
		return "this." + memberName(d.Name)
	case *ast.Class:
		return d.Name
	case *ast.Enum:
		return d.Name
	}
	return memberName(e.Name)
}

// --- Calls ---

func (g *generator) argText(args []ast.Expr) string {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = g.expr(a, ast.PrioArgument)
	}
	return strings.Join(parts, ", ")
}

func (g *generator) callText(call *ast.CallExpr, parent ast.Priority) string {
	m := call.Method
	obj := ""
	if m.Left != nil {
		obj = g.expr(m.Left, ast.PrioPrimary)
	}
	switch m.Builtin {
	case ast.BuiltinNone:
		return g.userCallText(call, obj)

	case ast.BuiltinListAdd, ast.BuiltinStackPush:
		return obj + ".push(" + g.argText(call.Args) + ")"
	case ast.BuiltinListInsert:
		return obj + ".splice(" + g.expr(call.Args[0], ast.PrioArgument) + ", 0, " +
			g.expr(call.Args[1], ast.PrioArgument) + ")"
	case ast.BuiltinListRemoveAt:
		return obj + ".splice(" + g.expr(call.Args[0], ast.PrioArgument) + ", 1)"
	case ast.BuiltinListRemoveRange:
		return obj + ".splice(" + g.argText(call.Args) + ")"
	case ast.BuiltinListContains:
		return obj + ".includes(" + g.argText(call.Args) + ")"
	case ast.BuiltinListSortAll:
		return obj + ".sort((a, b) => a - b)"
	case ast.BuiltinListSortPart:
		if isTypedArray(m.Left.ExprType()) {
			return obj + ".subarray(" + g.expr(call.Args[0], ast.PrioArgument) + ", " +
				g.expr(call.Args[0], ast.PrioAdd) + " + " + g.expr(call.Args[1], ast.PrioAdd+1) + ").sort()"
		}
		return g.useHelper("sortListPart") + "(" + obj + ", " + g.argText(call.Args) + ")"
	case ast.BuiltinStackPop:
		return obj + ".pop()"
	case ast.BuiltinStackPeek:
		return obj + ".at(-1)"

	case ast.BuiltinSetAdd:
		return obj + ".add(" + g.argText(call.Args) + ")"
	case ast.BuiltinSetContains:
		return obj + ".has(" + g.argText(call.Args) + ")"
	case ast.BuiltinSetRemove:
		return obj + ".delete(" + g.argText(call.Args) + ")"
	case ast.BuiltinSetClear:
		return obj + ".clear()"
	case ast.BuiltinListClear:
		return g.parenthesize(obj+".length = 0", ast.PrioArgument, parent)

	case ast.BuiltinDictContainsKey:
		return obj + ".hasOwnProperty(" + g.argText(call.Args) + ")"
	case ast.BuiltinDictRemove:
		return "delete " + obj + "[" + g.expr(call.Args[0], ast.PrioArgument) + "]"
	case ast.BuiltinDictClear:
		return g.notSupported("dictionary Clear outside statement position")

	case ast.BuiltinArrayCopyTo:
		return g.useHelper("copyArray") + "(" + obj + ", " + g.argText(call.Args) + ")"
	case ast.BuiltinArrayFill:
		if len(call.Args) == 3 {
			return obj + ".fill(" + g.expr(call.Args[0], ast.PrioArgument) + ", " +
				g.expr(call.Args[1], ast.PrioArgument) + ", " +
				g.expr(call.Args[1], ast.PrioAdd) + " + " + g.expr(call.Args[2], ast.PrioAdd+1) + ")"
		}
		return obj + ".fill(" + g.argText(call.Args) + ")"

	case ast.BuiltinConsoleWrite, ast.BuiltinConsoleWriteLine:
		fn := "console.log"
		if left, ok := m.Left.(*ast.SymbolRef); ok && left.Builtin == ast.BuiltinConsoleError {
			fn = "console.error"
		}
		return fn + "(" + g.argText(call.Args) + ")"

	case ast.BuiltinUTF8GetByteCount:
		return "new TextEncoder().encode(" + g.argText(call.Args) + ").length"
	case ast.BuiltinUTF8GetBytes:
		s := g.expr(call.Args[0], ast.PrioArgument)
		buf := g.expr(call.Args[1], ast.PrioPrimary)
		if isZeroLiteral(call.Args[2]) {
			return "new TextEncoder().encodeInto(" + s + ", " + buf + ")"
		}
		return "new TextEncoder().encodeInto(" + s + ", " + buf + ".subarray(" +
			g.expr(call.Args[2], ast.PrioArgument) + "))"
	case ast.BuiltinUTF8GetString:
		return "new TextDecoder().decode(" + g.expr(call.Args[0], ast.PrioPrimary) + ".subarray(" +
			g.expr(call.Args[1], ast.PrioArgument) + ", " +
			g.expr(call.Args[1], ast.PrioAdd) + " + " + g.expr(call.Args[2], ast.PrioAdd+1) + "))"

	case ast.BuiltinEnvironmentGetVariable:
		return g.envText(call.Args[0])

	case ast.BuiltinRegexCompile:
		return g.regexText(call.Args[0], g.regexOptions(call.Args, 1))
	case ast.BuiltinRegexIsMatch:
		if len(call.Args) >= 2 {
			return g.regexText(call.Args[1], g.regexOptions(call.Args, 2)) +
				".test(" + g.expr(call.Args[0], ast.PrioArgument) + ")"
		}
		return obj + ".test(" + g.argText(call.Args) + ")"
	case ast.BuiltinRegexEscape:
		return g.useHelper("regexEscape") + "(" + g.argText(call.Args) + ")"
	case ast.BuiltinMatchFind:
		pattern := g.regexText(call.Args[1], g.regexOptions(call.Args, 2))
		s := "(" + obj + " = " + pattern + ".exec(" + g.expr(call.Args[0], ast.PrioArgument) + ")) != null"
		return g.parenthesize(s, ast.PrioEquality, parent)
	case ast.BuiltinMatchGetCapture:
		return obj + "[" + g.expr(call.Args[0], ast.PrioArgument) + "]"

	default:
		return g.notSupported(fmt.Sprintf("builtin call %s", m.Name))
	}
}

func (g *generator) userCallText(call *ast.CallExpr, obj string) string {
	m := call.Method
	decl, _ := m.Decl.(*ast.Method)
	if left, ok := m.Left.(*ast.SymbolRef); ok && left.Builtin == ast.BuiltinBase {
		// No class syntax in the output: dispatch through the base
		// prototype explicitly instead of super.
		args := g.argText(call.Args)
		if args != "" {
			args = ", " + args
		}
		return decl.Class.Name + ".prototype." + memberName(m.Name) + ".call(this" + args + ")"
	}
	if m.Left != nil {
		return obj + "." + memberName(m.Name) + "(" + g.argText(call.Args) + ")"
	}
	if decl != nil && decl.Static {
		return decl.Class.Name + "." + memberName(m.Name) + "(" + g.argText(call.Args) + ")"
	}
	return "this." + memberName(m.Name) + "(" + g.argText(call.Args) + ")"
}

func isZeroLiteral(e ast.Expr) bool {
	lit, ok := e.(*ast.LiteralInt)
	return ok && lit.Value == 0
}

func isTypedArray(t ast.Type) bool {
	elem := arrayElem(t)
	return elem != nil && ast.IsNumeric(elem)
}

func (g *generator) envText(name ast.Expr) string {
	if lit, ok := name.(*ast.LiteralString); ok {
		if isPlainIdent(lit.Value) {
			return "process.env." + lit.Value
		}
		return "process.env[" + quoteJS(lit.Value) + "]"
	}
	return "process.env[" + g.expr(name, ast.PrioArgument) + "]"
}

func isPlainIdent(s string) bool {
	if s == "" {
		return false
	}
	for i, c := range s {
		switch {
		case c == '_', c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}

// --- Regex ---

// regexOptions folds the optional flags argument at index idx to its
// constant value.
func (g *generator) regexOptions(args []ast.Expr, idx int) int {
	if idx >= len(args) {
		return 0
	}
	v, ok := foldInt(args[idx])
	if !ok {
		g.notSupported("non-constant regex options")
		return 0
	}
	return int(v)
}

func foldInt(e ast.Expr) (int64, bool) {
	switch e := e.(type) {
	case *ast.LiteralInt:
		return e.Value, true
	case *ast.SymbolRef:
		switch d := e.Decl.(type) {
		case *ast.EnumConst:
			return d.Value, true
		case *ast.Const:
			return foldInt(d.Value)
		}
	case *ast.BinaryExpr:
		if e.Op == ast.OpOr {
			l, lok := foldInt(e.Left)
			r, rok := foldInt(e.Right)
			if lok && rok {
				return l | r, true
			}
		}
	}
	return 0, false
}

func regexFlagText(options int) string {
	var sb strings.Builder
	if options&ast.RegexCaseInsensitive != 0 {
		sb.WriteByte('i')
	}
	if options&ast.RegexMultiline != 0 {
		sb.WriteByte('m')
	}
	if options&ast.RegexSingleline != 0 {
		sb.WriteByte('s')
	}
	return sb.String()
}

func (g *generator) regexText(pattern ast.Expr, options int) string {
	flags := regexFlagText(options)
	if lit, ok := pattern.(*ast.LiteralString); ok {
		return "/" + strings.ReplaceAll(lit.Value, "/", "\\/") + "/" + flags
	}
	if flags != "" {
		return "new RegExp(" + g.expr(pattern, ast.PrioArgument) + ", " + quoteJS(flags) + ")"
	}
	return "new RegExp(" + g.expr(pattern, ast.PrioArgument) + ")"
}

// --- Interpolated strings ---

func escapeTemplate(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "`", "\\`")
	s = strings.ReplaceAll(s, "${", "\\${")
	s = strings.ReplaceAll(s, "\r", "\\r")
	s = strings.ReplaceAll(s, "\n", "\\n")
	return s
}

func (g *generator) interpText(e *ast.InterpolatedString) string {
	var sb strings.Builder
	sb.WriteByte('`')
	for _, part := range e.Parts {
		sb.WriteString(escapeTemplate(part.Prefix))
		sb.WriteString("${")
		sb.WriteString(g.interpArgText(part))
		sb.WriteByte('}')
	}
	sb.WriteString(escapeTemplate(e.Suffix))
	sb.WriteByte('`')
	return sb.String()
}

// interpArgText renders one interpolation argument with its format,
// precision and width conversions chained onto the value.
func (g *generator) interpArgText(part ast.InterpPart) string {
	s := g.expr(part.Arg, ast.PrioPrimary)
	switch part.Arg.(type) {
	case *ast.LiteralInt, *ast.LiteralDouble:
		s = "(" + s + ")"
	}
	switch part.Format {
	case 'E', 'e':
		if part.Precision >= 0 {
			s += ".toExponential(" + strconv.Itoa(part.Precision) + ")"
		} else {
			s += ".toExponential()"
		}
		if part.Format == 'E' {
			s += ".toUpperCase()"
		}
	case 'F', 'f':
		if part.Precision >= 0 {
			s += ".toFixed(" + strconv.Itoa(part.Precision) + ")"
		} else {
			s += ".toFixed()"
		}
	case 'X', 'x':
		s += ".toString(16)"
		if part.Format == 'X' {
			s += ".toUpperCase()"
		}
		if part.Precision >= 0 {
			s += ".padStart(" + strconv.Itoa(part.Precision) + ", \"0\")"
		}
	case 'D', 'd':
		s += ".toString()"
		if part.Precision >= 0 {
			s += ".padStart(" + strconv.Itoa(part.Precision) + ", \"0\")"
		}
	default:
		if part.Width != 0 {
			s = "String(" + g.expr(part.Arg, ast.PrioArgument) + ")"
		}
	}
	if part.Width > 0 {
		s += ".padStart(" + strconv.Itoa(part.Width) + ")"
	} else if part.Width < 0 {
		s += ".padEnd(" + strconv.Itoa(-part.Width) + ")"
	}
	return s
}

// --- foreach ---

func (g *generator) writeForeach(s *ast.Foreach) {
	g.EmitIndent()
	if dict, ok := s.Collection.ExprType().(*ast.DictType); ok && len(s.Vars) == 2 {
		entries := "Object.entries(" + g.expr(s.Collection, ast.PrioPrimary) + ")"
		numericKey := ast.IsNumeric(dict.Key)
		if numericKey {
			entries += ".map(e => [+e[0], e[1]])"
		}
		if dict.Sorted {
			if numericKey {
				entries += ".sort((a, b) => a[0] - b[0])"
			} else {
				entries += ".sort((a, b) => a[0].localeCompare(b[0]))"
			}
		}
		g.Emitf("for (const [%s, %s] of %s) ",
			memberName(s.Vars[0].Name), memberName(s.Vars[1].Name), entries)
	} else {
		g.Emitf("for (const %s of %s) ",
			memberName(s.Vars[0].Name), g.expr(s.Collection, ast.PrioArgument))
	}
	g.enterLoop(s.Body)
	g.Emit("\n")
}

// --- switch ---

func (g *generator) writeSwitch(s *ast.Switch) {
	if _, ok := s.Value.ExprType().(*ast.StringType); ok {
		g.writeStringSwitch(s)
		return
	}
	g.EmitIndent()
	g.Emitf("switch (%s) {\n", g.expr(s.Value, ast.PrioArgument))
	saved := g.breakLabel
	g.breakLabel = ""
	for _, c := range s.Cases {
		for _, v := range c.Values {
			g.EmitLinef("case %s:", g.expr(v, ast.PrioArgument))
		}
		g.IncIndent()
		g.writeStmts(c.Body)
		g.DecIndent()
	}
	if s.Default != nil {
		g.EmitLine("default:")
		g.IncIndent()
		g.writeStmts(s.Default)
		g.DecIndent()
	}
	g.breakLabel = saved
	g.EmitLine("}")
}

// hasEmbeddedBreak reports whether a lowered case body contains a break
// the if/else chain cannot express implicitly: any break other than the
// final top-level statement. Nested loops and switches shield their own
// breaks.
func hasEmbeddedBreak(stmts []ast.Stmt) bool {
	for i, s := range stmts {
		switch s := s.(type) {
		case *ast.Break:
			if i != len(stmts)-1 {
				return true
			}
		case *ast.If:
			if branchContainsBreak(s.OnTrue) || branchContainsBreak(s.OnFalse) {
				return true
			}
		case *ast.Block:
			if branchContainsBreak(s) {
				return true
			}
		}
	}
	return false
}

func branchContainsBreak(s ast.Stmt) bool {
	switch s := s.(type) {
	case nil:
		return false
	case *ast.Break:
		return true
	case *ast.Block:
		for _, inner := range s.Stmts {
			if branchContainsBreak(inner) {
				return true
			}
		}
	case *ast.If:
		return branchContainsBreak(s.OnTrue) || branchContainsBreak(s.OnFalse)
	}
	return false
}

// writeStringSwitch lowers a switch on strings to an if/else chain so
// the cases compare by value. A forward label simulates
// break-out-of-switch when a case breaks early, e.g. from within an
// enclosing do-while that the case otherwise continues.
func (g *generator) writeStringSwitch(s *ast.Switch) {
	needLabel := hasEmbeddedBreak(s.Default)
	for _, c := range s.Cases {
		if hasEmbeddedBreak(c.Body) {
			needLabel = true
		}
	}
	label := ""
	if needLabel {
		label = fmt.Sprintf("ciafterswitch%d", g.switchLabels)
		g.switchLabels++
	}
	value := g.expr(s.Value, ast.PrioEquality)
	g.EmitIndent()
	if label != "" {
		g.Emitf("%s: ", label)
	}
	for i, c := range s.Cases {
		if i > 0 {
			g.Emit(" else ")
		}
		conds := make([]string, len(c.Values))
		for j, v := range c.Values {
			conds[j] = value + " === " + g.expr(v, ast.PrioEquality+1)
		}
		g.Emitf("if (%s) ", strings.Join(conds, " || "))
		g.writeCaseBody(c.Body, label)
	}
	if s.Default != nil {
		g.Emit(" else ")
		g.writeCaseBody(s.Default, label)
	}
	g.Emit("\n")
}

func (g *generator) writeCaseBody(body []ast.Stmt, label string) {
	if n := len(body); n > 0 {
		if _, ok := body[n-1].(*ast.Break); ok {
			body = body[:n-1]
		}
	}
	saved := g.breakLabel
	g.breakLabel = label
	g.Emit("{\n")
	g.IncIndent()
	g.writeStmts(body)
	g.DecIndent()
	g.EmitIndent()
	g.Emit("}")
	g.breakLabel = saved
}

// --- String literals ---

func quoteJS(s string) string {
	var sb strings.Builder
	sb.WriteByte('"')
	for _, c := range s {
		switch c {
		case '"':
			sb.WriteString("\\\"")
		case '\\':
			sb.WriteString("\\\\")
		case '\n':
			sb.WriteString("\\n")
		case '\r':
			sb.WriteString("\\r")
		case '\t':
			sb.WriteString("\\t")
		default:
			if c < 0x20 || c == 0x7f {
				sb.WriteString(fmt.Sprintf("\\u%04x", c))
			} else {
				sb.WriteRune(c)
			}
		}
	}
	sb.WriteByte('"')
	return sb.String()
}
