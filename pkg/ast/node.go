package ast

import (
	"fmt"
	"strings"
)

// Node is the single AST sum type: every construct in this subset of C,
// expression or statement, is a Node. There is no separate Expr/Stmt
// hierarchy — parse_component produces one kind of value throughout, with
// a trailing ';' accepted as expression-statement sugar.
type Node interface {
	fmt.Stringer
	isNode()
}

// IntegerLiteral is a decimal integer constant.
type IntegerLiteral struct{ Value int64 }

func (IntegerLiteral) isNode() {}
func (n IntegerLiteral) String() string {
	return fmt.Sprintf("IntegerLiteral(%d)", n.Value)
}

// StringLiteral is a "..." constant.
type StringLiteral struct{ Value string }

func (StringLiteral) isNode() {}
func (n StringLiteral) String() string {
	return fmt.Sprintf("StringLiteral(%q)", n.Value)
}

// Identifier names a variable, parameter, global, or function.
type Identifier struct{ Name string }

func (Identifier) isNode() {}
func (n Identifier) String() string {
	return fmt.Sprintf("Identifier(%s)", n.Name)
}

// ReturnStatement evaluates Value (if present) and returns it from the
// enclosing function.
type ReturnStatement struct{ Value Node }

func (ReturnStatement) isNode() {}
func (n ReturnStatement) String() string {
	return fmt.Sprintf("ReturnStatement(%v)", n.Value)
}

// BlockStatement is a sequence of statements sharing one lexical scope.
type BlockStatement struct{ Statements []Node }

func (BlockStatement) isNode() {}
func (n BlockStatement) String() string {
	parts := make([]string, len(n.Statements))
	for i, s := range n.Statements {
		parts[i] = s.String()
	}
	return fmt.Sprintf("BlockStatement{%s}", strings.Join(parts, "; "))
}

// FunctionDefinition declares a function; Body is nil for a prototype
// (declaration without implementation).
type FunctionDefinition struct {
	Name       string
	ReturnType Type
	Params     []NameAndType
	Body       []Node // nil means prototype-only
}

func (FunctionDefinition) isNode() {}
func (n FunctionDefinition) String() string {
	return fmt.Sprintf("FunctionDefinition(%s, params=%v, body=%v)", n.Name, n.Params, n.Body != nil)
}

// UnaryOperation applies a prefix operator to Operand.
type UnaryOperation struct {
	Operator string
	Operand  Node
}

func (UnaryOperation) isNode() {}
func (n UnaryOperation) String() string {
	return fmt.Sprintf("UnaryOperation(%s %v)", n.Operator, n.Operand)
}

// BinaryOperation applies an infix operator to Left and Right.
type BinaryOperation struct {
	Left     Node
	Operator string
	Right    Node
}

func (BinaryOperation) isNode() {}
func (n BinaryOperation) String() string {
	return fmt.Sprintf("BinaryOperation(%v %s %v)", n.Left, n.Operator, n.Right)
}

// VariableDeclaration declares a name of a given Type with an optional
// initial value.
type VariableDeclaration struct {
	Name         string
	VarType      Type
	InitialValue Node // nil if absent
}

func (VariableDeclaration) isNode() {}
func (n VariableDeclaration) String() string {
	return fmt.Sprintf("VariableDeclaration(%s: %v = %v)", n.Name, n.VarType, n.InitialValue)
}

// IfStatement is a conditional with an optional else clause.
type IfStatement struct {
	Condition Node
	Body      Node
	Else      Node // nil if absent
}

func (IfStatement) isNode() {}
func (n IfStatement) String() string {
	return fmt.Sprintf("IfStatement(%v, %v, else=%v)", n.Condition, n.Body, n.Else)
}

// FunctionCall invokes Name with Args.
type FunctionCall struct {
	Name string
	Args []Node
}

func (FunctionCall) isNode() {}
func (n FunctionCall) String() string {
	return fmt.Sprintf("FunctionCall(%s, %v)", n.Name, n.Args)
}

// WhileLoop repeats Body while Condition is nonzero.
type WhileLoop struct {
	Condition Node
	Body      Node
}

func (WhileLoop) isNode() {}
func (n WhileLoop) String() string {
	return fmt.Sprintf("WhileLoop(%v, %v)", n.Condition, n.Body)
}

// ForLoop is a C-style for loop; Declaration, Condition, and Modification
// are each independently optional.
type ForLoop struct {
	Declaration  Node // nil if absent
	Condition    Node // nil if absent
	Modification Node // nil if absent
	Body         Node
}

func (ForLoop) isNode() {}
func (n ForLoop) String() string {
	return fmt.Sprintf("ForLoop(%v; %v; %v) %v", n.Declaration, n.Condition, n.Modification, n.Body)
}

// ArrayAccess models lhs[property]. The AST case exists per the data model,
// but no codegen support is implemented for it — see the Non-goals in
// SPEC_FULL.md: assignable lvalues besides a bare Identifier are out of
// scope, and this case exists only so a parser that encounters `[` can
// build a well-formed (if ultimately rejected by codegen) tree instead of
// failing to parse at all.
type ArrayAccess struct {
	Left     Node
	Property Node
}

func (ArrayAccess) isNode() {}
func (n ArrayAccess) String() string {
	return fmt.Sprintf("ArrayAccess(%v[%v])", n.Left, n.Property)
}
