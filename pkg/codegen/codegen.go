// Package codegen walks the AST and emits AT&T-syntax x86-64 assembly
// targeting the System V AMD64 ABI, macOS flavor (leading-underscore
// external symbols), per spec.md §4.7.
package codegen

import (
	"fmt"
	"strings"

	"github.com/smasonuk/attc/pkg/ast"
	"github.com/smasonuk/attc/pkg/scope"
)

// argumentLocations is the System V integer/pointer argument register
// sequence; arguments beyond this are passed on the stack.
var argumentLocations = []string{"%rdi", "%rsi", "%rdx", "%rcx", "%r8", "%r9"}

// Codegen holds all mutable state for a single code-generation pass.
type Codegen struct {
	ctx *scope.Context
	out strings.Builder
}

// New returns a Codegen ready to generate from a fresh scope context.
func New() *Codegen {
	return &Codegen{ctx: scope.New()}
}

// Generate emits assembly for every top-level node and returns the
// complete listing.
func Generate(nodes []ast.Node) (string, error) {
	cg := New()
	for _, n := range nodes {
		if err := cg.emitNode(n); err != nil {
			return "", err
		}
	}
	return cg.out.String(), nil
}

func (cg *Codegen) emit(s string) {
	cg.out.WriteString(s)
	cg.out.WriteByte('\n')
}

func (cg *Codegen) emitNode(node ast.Node) error {
	switch n := node.(type) {
	case ast.IntegerLiteral:
		cg.emit(fmt.Sprintf("movl $%d, %%eax", n.Value))
		return nil

	case ast.Identifier:
		stored, err := cg.ctx.FindVar(n.Name)
		if err != nil {
			return err
		}
		for _, instr := range emitLoad(stored) {
			cg.emit(instr)
		}
		return nil

	case ast.ReturnStatement:
		if err := cg.emitNode(n.Value); err != nil {
			return err
		}
		dealloc := cg.ctx.DeallocBytesAboveFunctionEntry()
		cg.emit(fmt.Sprintf("addq $%d, %%rsp", dealloc))
		cg.emitFunctionEpilogue(false)
		return nil

	case ast.UnaryOperation:
		return cg.emitUnaryOperation(n)

	case ast.BinaryOperation:
		return cg.emitBinaryOperation(n)

	case ast.VariableDeclaration:
		return cg.emitVariableDeclaration(n)

	case ast.BlockStatement:
		return cg.emitBlock(n.Statements, false)

	case ast.IfStatement:
		return cg.emitIfStatement(n)

	case ast.FunctionDefinition:
		return cg.emitFunctionDefinition(n)

	case ast.FunctionCall:
		return cg.emitFunctionCall(n)

	case ast.WhileLoop:
		return cg.emitWhileLoop(n)

	case ast.ForLoop:
		return cg.emitForLoop(n)

	default:
		return fmt.Errorf("node not supported in codegen: %T", node)
	}
}

// emitBlock codegens each statement in a fresh scope (unless this is the
// function-body scope, already opened by the function definition to host
// parameters), then deallocates and pops that scope.
func (cg *Codegen) emitBlock(stmts []ast.Node, isFunctionBodyScope bool) error {
	if !isFunctionBodyScope {
		cg.ctx.BeginVarScope()
	}
	for _, s := range stmts {
		if err := cg.emitNode(s); err != nil {
			return err
		}
	}
	cg.emit(cg.ctx.EndRuntimeVarScope(true))
	cg.ctx.EndCompiletimeVarScope()
	return nil
}

func (cg *Codegen) emitVariableDeclaration(n ast.VariableDeclaration) error {
	if cg.ctx.IsGlobalScope() {
		var value int64
		if n.InitialValue != nil {
			v, err := ConstantValueOf(n.InitialValue)
			if err != nil {
				return err
			}
			value = v
		}
		cg.emit(cg.ctx.EmitGlobalAllocFromConstant(n.Name, n.VarType, value))
		return nil
	}

	if n.InitialValue != nil {
		if err := cg.emitNode(n.InitialValue); err != nil {
			return err
		}
	}
	instr, err := cg.ctx.EmitStackAllocFromLocation(n.Name, n.VarType, "%rax")
	if err != nil {
		return err
	}
	cg.emit(instr)
	return nil
}

func (cg *Codegen) emitUnaryOperation(n ast.UnaryOperation) error {
	if n.Operator == "&" {
		ident, ok := n.Operand.(ast.Identifier)
		if !ok {
			return fmt.Errorf("cannot take address of non-identifier operand: %T", n.Operand)
		}
		stored, err := cg.ctx.FindVar(ident.Name)
		if err != nil {
			return err
		}
		instrs, err := emitLoadAddress(stored)
		if err != nil {
			return err
		}
		for _, instr := range instrs {
			cg.emit(instr)
		}
		return nil
	}

	if err := cg.emitNode(n.Operand); err != nil {
		return err
	}
	switch n.Operator {
	case "-":
		cg.emit("neg %eax")
	case "~":
		cg.emit("not %eax")
	case "!":
		cg.emit("cmpl $0, %eax")
		cg.emit("movl $0, %eax")
		cg.emit("setz %al")
	default:
		return fmt.Errorf("codegen unimplemented for unary operator %q", n.Operator)
	}
	return nil
}

func (cg *Codegen) emitBinaryOperation(n ast.BinaryOperation) error {
	if isBinaryStackOperator(n.Operator) {
		return cg.emitStackOperandBinary(n)
	}

	switch n.Operator {
	case "||":
		return cg.emitShortCircuit(n, true)
	case "&&":
		return cg.emitShortCircuit(n, false)
	case "=":
		return cg.emitAssignment(n)
	default:
		return fmt.Errorf("codegen unimplemented for operator %q", n.Operator)
	}
}

func isBinaryStackOperator(op string) bool {
	switch op {
	case "+", "-", "*", "/", "%", "**", "==", "!=", ">", "<", ">=", "<=":
		return true
	default:
		return false
	}
}

func (cg *Codegen) emitStackOperandBinary(n ast.BinaryOperation) error {
	if err := cg.emitNode(n.Left); err != nil {
		return err
	}
	cg.emit("push %rax")
	if err := cg.emitNode(n.Right); err != nil {
		return err
	}
	cg.emit("pop %rcx")

	switch n.Operator {
	case "+":
		cg.emit("addl %ecx, %eax")
	case "-":
		cg.emit("subl %eax, %ecx")
		cg.emit("movl %ecx, %eax")
	case "*":
		cg.emit("imul %ecx, %eax")
	case "/":
		cg.emit("movl %eax, %r8d")
		cg.emit("movl %ecx, %eax")
		cg.emit("cdq")
		cg.emit("idivl %r8d")
	case "%":
		cg.emit("movl %eax, %r8d")
		cg.emit("movl %ecx, %eax")
		cg.emit("cdq")
		cg.emit("idivl %r8d")
		cg.emit("movq %rdx, %rax")
	case "==":
		cg.emitComparisonPrecursor()
		cg.emit("sete %al")
	case "!=":
		cg.emitComparisonPrecursor()
		cg.emit("setne %al")
	case ">":
		cg.emitComparisonPrecursor()
		cg.emit("setg %al")
	case "<":
		cg.emitComparisonPrecursor()
		cg.emit("setl %al")
	case ">=":
		cg.emitComparisonPrecursor()
		cg.emit("setge %al")
	case "<=":
		cg.emitComparisonPrecursor()
		cg.emit("setle %al")
	default:
		return fmt.Errorf("codegen unimplemented for stack operator %q", n.Operator)
	}
	return nil
}

func (cg *Codegen) emitComparisonPrecursor() {
	cg.emit("cmpl %eax, %ecx")
	cg.emit("movl $0, %eax")
}

// emitShortCircuit implements || (isOr true) and && (isOr false), which
// share the same shape: evaluate the left side, decide whether the right
// side needs evaluating at all, then normalize the result to 0/1.
func (cg *Codegen) emitShortCircuit(n ast.BinaryOperation, isOr bool) error {
	if err := cg.emitNode(n.Left); err != nil {
		return err
	}

	skipLabel := cg.ctx.NextLabel("skip")
	endLabel := cg.ctx.NextLabel("end")

	cg.emit("cmpl $0, %eax")
	if isOr {
		cg.emit(fmt.Sprintf("je %s", skipLabel))
		cg.emit("movl $1, %eax")
		cg.emit(fmt.Sprintf("jmp %s", endLabel))
	} else {
		cg.emit(fmt.Sprintf("jne %s", skipLabel))
		cg.emit(fmt.Sprintf("jmp %s", endLabel))
	}

	cg.emit(fmt.Sprintf("%s:", skipLabel))
	if err := cg.emitNode(n.Right); err != nil {
		return err
	}
	cg.emit("cmpl $0, %eax")
	cg.emit("movl $0, %eax")
	cg.emit("setne %al")

	cg.emit(fmt.Sprintf("%s:", endLabel))
	return nil
}

func (cg *Codegen) emitAssignment(n ast.BinaryOperation) error {
	ident, ok := n.Left.(ast.Identifier)
	if !ok {
		return fmt.Errorf("cannot resolve non-identifier assignable: %T", n.Left)
	}
	stored, err := cg.ctx.FindVar(ident.Name)
	if err != nil {
		return err
	}
	if err := cg.emitNode(n.Right); err != nil {
		return err
	}
	cg.emit(fmt.Sprintf("movq %%rax, %s", stored.Backing.Location()))
	return nil
}

func (cg *Codegen) emitIfStatement(n ast.IfStatement) error {
	if err := cg.emitNode(n.Condition); err != nil {
		return err
	}
	cg.emit("cmpl $0, %eax")

	skipLabel := cg.ctx.NextLabel("if_skip")
	elseLabel := cg.ctx.NextLabel("else")
	cg.emit(fmt.Sprintf("je %s", elseLabel))

	if err := cg.emitNode(n.Body); err != nil {
		return err
	}
	cg.emit(fmt.Sprintf("jmp %s", skipLabel))

	cg.emit(fmt.Sprintf("%s:", elseLabel))
	if n.Else != nil {
		if err := cg.emitNode(n.Else); err != nil {
			return err
		}
	}

	cg.emit(fmt.Sprintf("%s:", skipLabel))
	return nil
}

func (cg *Codegen) emitWhileLoop(n ast.WhileLoop) error {
	startLabel := cg.ctx.NextLabel("while_start")
	endLabel := cg.ctx.NextLabel("while_end")
	cg.emit(fmt.Sprintf("%s:", startLabel))

	if err := cg.emitNode(n.Condition); err != nil {
		return err
	}
	cg.emit("cmpl $0, %eax")
	cg.emit(fmt.Sprintf("je %s", endLabel))

	if err := cg.emitNode(n.Body); err != nil {
		return err
	}
	cg.emit(fmt.Sprintf("jmp %s", startLabel))
	cg.emit(fmt.Sprintf("%s:", endLabel))
	return nil
}

// emitForLoop opens a hidden scope for the declaration slot so it can be
// shadowed from within the body, per spec.md §4.7.
func (cg *Codegen) emitForLoop(n ast.ForLoop) error {
	cg.ctx.BeginVarScope()

	if n.Declaration != nil {
		if err := cg.emitNode(n.Declaration); err != nil {
			return err
		}
	}

	startLabel := cg.ctx.NextLabel("for_start")
	endLabel := cg.ctx.NextLabel("for_end")
	cg.emit(fmt.Sprintf("%s:", startLabel))

	if n.Condition != nil {
		if err := cg.emitNode(n.Condition); err != nil {
			return err
		}
	} else {
		cg.emit("mov $1, %eax")
	}
	cg.emit("cmpl $0, %eax")
	cg.emit(fmt.Sprintf("je %s", endLabel))

	if err := cg.emitNode(n.Body); err != nil {
		return err
	}

	if n.Modification != nil {
		if err := cg.emitNode(n.Modification); err != nil {
			return err
		}
	}

	cg.emit(fmt.Sprintf("jmp %s", startLabel))
	cg.emit(fmt.Sprintf("%s:", endLabel))

	cg.emit(cg.ctx.EndRuntimeVarScope(true))
	cg.ctx.EndCompiletimeVarScope()
	return nil
}

func (cg *Codegen) emitFunctionDefinition(n ast.FunctionDefinition) error {
	if n.Body == nil {
		// A prototype with no implementation contributes nothing: this
		// compiler does no forward type-checking against it.
		return nil
	}

	cg.emit(fmt.Sprintf(".globl _%s", n.Name))
	cg.emit(fmt.Sprintf("_%s:", n.Name))
	cg.emitFunctionPrologue()

	cg.ctx.BeginVarScope()

	regArgs := len(n.Params)
	if regArgs > len(argumentLocations) {
		regArgs = len(argumentLocations)
	}
	for i := 0; i < regArgs; i++ {
		param := n.Params[i]
		instr, err := cg.ctx.EmitStackAllocFromLocation(param.Name, param.Type, argumentLocations[i])
		if err != nil {
			return err
		}
		cg.emit(instr)
	}

	offset := 16
	for i := len(n.Params) - 1; i >= len(argumentLocations); i-- {
		param := n.Params[i]
		cg.ctx.StackAllocFromArbitraryOffset(param.Name, param.Type, offset)
		offset += 8
	}

	if err := cg.emitBlock(n.Body, true); err != nil {
		return err
	}

	cg.emitFunctionEpilogue(true)
	return nil
}

func (cg *Codegen) emitFunctionPrologue() {
	cg.emit("push %rbp")
	cg.emit("movq %rsp, %rbp")
}

// emitFunctionEpilogue tears down the stack frame. genReturnValue supplies
// a default zero return value for a function that falls off its end
// without an explicit return statement; an explicit ReturnStatement already
// left its value in %rax and passes false here.
func (cg *Codegen) emitFunctionEpilogue(genReturnValue bool) {
	if genReturnValue {
		cg.emit("movq $0, %rax")
	}
	cg.emit("movq %rbp, %rsp")
	cg.emit("pop %rbp")
	cg.emit("ret")
}

func (cg *Codegen) emitFunctionCall(n ast.FunctionCall) error {
	regArgs := len(n.Args)
	if regArgs > len(argumentLocations) {
		regArgs = len(argumentLocations)
	}
	for i := 0; i < regArgs; i++ {
		if err := cg.emitNode(n.Args[i]); err != nil {
			return err
		}
		cg.emit(fmt.Sprintf("movq %%rax, %s", argumentLocations[i]))
	}

	overflowCount := len(n.Args) - len(argumentLocations)
	if overflowCount < 0 {
		overflowCount = 0
	}
	alignInstr, err := cg.ctx.AlignStack(overflowCount * -8)
	if err != nil {
		return err
	}
	if alignInstr != "" {
		cg.emit(alignInstr)
	}

	// Extra arguments are pushed onto the stack in reverse order. Popping
	// the bytes they (and any alignment padding) consumed back off after
	// the call is a documented gap this spec preserves as-is — see
	// SPEC_FULL.md's "Open questions resolved" note.
	for i := len(n.Args) - 1; i >= len(argumentLocations); i-- {
		if err := cg.emitNode(n.Args[i]); err != nil {
			return err
		}
		cg.emit("push %rax")
	}

	cg.emit(fmt.Sprintf("call _%s", n.Name))
	return nil
}
