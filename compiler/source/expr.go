package source

import (
	"strings"

	"github.com/syssam/modelgen/compiler/resolve"
)

// Expr is a statement or expression of a method body.
type Expr interface {
	String() string
}

type literal string

func (l literal) String() string { return string(l) }

// Empty is the empty body of constructors and no-op methods.
var Empty Expr = literal("")

// Newline separates statements in a Block with a blank line.
var Newline Expr = literal("\n")

// Snippet returns raw source text.
func Snippet(s string) Expr { return literal(s) }

// Condition returns a boolean expression used by If.
func Condition(s string) Expr { return literal(s) }

// Return returns "return x;".
func Return(x string) Expr { return literal("return " + x + ";") }

// FieldAssign returns "this.field = value;".
func FieldAssign(field, value string) Expr {
	return literal("this." + field + " = " + value + ";")
}

// Call returns "receiver.method(args)".
func Call(receiver, method string, args ...string) Expr {
	return literal(receiver + "." + method + "(" + strings.Join(args, ", ") + ")")
}

// New returns "new T(args)".
func New(t resolve.Type, args ...string) Expr {
	return literal("new " + t.Name() + "(" + strings.Join(args, ", ") + ")")
}

// Semicolon terminates x with a semicolon and, optionally, a line break.
func Semicolon(x Expr, newline bool) Expr {
	s := x.String() + ";"
	if newline {
		s += "\n"
	}
	return literal(s)
}

// BlockExpr is a sequence of statements rendered one per line.
type BlockExpr struct {
	exprs []Expr
}

// Block returns a block holding the given statements.
func Block(exprs ...Expr) *BlockExpr {
	return &BlockExpr{exprs: append([]Expr(nil), exprs...)}
}

// Add appends statements to the block.
func (b *BlockExpr) Add(exprs ...Expr) *BlockExpr {
	b.exprs = append(b.exprs, exprs...)
	return b
}

// Len returns the number of statements.
func (b *BlockExpr) Len() int { return len(b.exprs) }

// String joins the statements with a line break indented for a method body.
// Multi-line statements are re-indented the same way.
func (b *BlockExpr) String() string {
	var sb strings.Builder
	for i, x := range b.exprs {
		if i > 0 {
			sb.WriteString("\n\t\t")
		}
		if x != Newline {
			sb.WriteString(strings.ReplaceAll(x.String(), "\n", "\n\t\t"))
		}
	}
	return sb.String()
}

// IfExpr is a conditional statement with optional else or else-if branch.
type IfExpr struct {
	cond   Expr
	then   Expr
	els    Expr
	elseIf *IfExpr
}

// If returns a conditional statement on cond.
func If(cond string) *IfExpr { return &IfExpr{cond: Condition(cond), then: Empty} }

// Then sets the statement run when the condition holds.
func (x *IfExpr) Then(e Expr) *IfExpr {
	x.then = e
	return x
}

// Else sets the statement run otherwise.
func (x *IfExpr) Else(e Expr) *IfExpr {
	x.els = e
	x.elseIf = nil
	return x
}

// ElseIf chains a new conditional as the else branch and returns it.
func (x *IfExpr) ElseIf(cond string) *IfExpr {
	x.elseIf = If(cond)
	x.els = nil
	return x.elseIf
}

func (x *IfExpr) String() string {
	var sb strings.Builder
	sb.WriteString("if (")
	sb.WriteString(x.cond.String())
	sb.WriteString(") {\n\t")
	sb.WriteString(x.then.String())
	sb.WriteString("\n}")
	switch {
	case x.els != nil:
		sb.WriteString(" else {\n\t")
		sb.WriteString(x.els.String())
		sb.WriteString("\n}")
	case x.elseIf != nil:
		sb.WriteString(" else ")
		sb.WriteString(x.elseIf.String())
	}
	return sb.String()
}

// VarExpr declares a local variable.
type VarExpr struct {
	typ   resolve.Type
	name  string
	value Expr
}

// Var returns the declaration "T name;".
func Var(t resolve.Type, name string) *VarExpr { return &VarExpr{typ: t, name: name} }

// Assign sets the initial value of the variable.
func (v *VarExpr) Assign(e Expr) *VarExpr {
	v.value = e
	return v
}

// AssignNew initializes the variable with "new T(args)".
func (v *VarExpr) AssignNew(args ...string) *VarExpr { return v.Assign(New(v.typ, args...)) }

// Call returns a call of method on the variable.
func (v *VarExpr) Call(method string, args ...string) Expr { return Call(v.name, method, args...) }

// Name returns the variable name.
func (v *VarExpr) Name() string { return v.name }

func (v *VarExpr) String() string {
	s := v.typ.Name() + " " + v.name
	if v.value != nil {
		s += " = " + v.value.String()
	}
	return s + ";"
}
