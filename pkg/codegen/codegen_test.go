package codegen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smasonuk/attc/pkg/ast"
	"github.com/smasonuk/attc/pkg/parser"
)

func compile(t *testing.T, src string) string {
	t.Helper()
	nodes, err := parser.Parse(src)
	require.NoError(t, err)
	asm, err := Generate(nodes)
	require.NoError(t, err)
	return asm
}

func TestScenarioReturnIntegerLiteral(t *testing.T) {
	asm := compile(t, "int main() { return 2; }")
	assert.Contains(t, asm, "_main:")
	assert.Contains(t, asm, "movl $2, %eax")
	assert.Contains(t, asm, "movq %rbp, %rsp")
	assert.Contains(t, asm, "pop %rbp")
	assert.Contains(t, asm, "ret")
}

func TestScenarioNestedUnaryOperators(t *testing.T) {
	asm := compile(t, "int main() { return -~1; }")
	assert.Contains(t, asm, "movl $1, %eax")
	assert.Contains(t, asm, "not %eax")
	assert.Contains(t, asm, "neg %eax")
}

func TestScenarioStackDisciplineForPrecedence(t *testing.T) {
	asm := compile(t, "int main() { return 1 + 2 * 3; }")
	assert.Contains(t, asm, "imul %ecx, %eax")
	assert.Contains(t, asm, "addl %ecx, %eax")
}

func TestScenarioLocalAssignment(t *testing.T) {
	asm := compile(t, "int main() { int a = 3; a = a + 4; return a; }")
	assert.Contains(t, asm, "push %rax")
	assert.Contains(t, asm, "movq %rax, -8(%rbp)")
	assert.Contains(t, asm, "movl -8(%rbp), %eax")
}

func TestScenarioIfElseComparison(t *testing.T) {
	asm := compile(t, "int main() { if (1 < 2) return 10; else return 20; }")
	assert.Contains(t, asm, "cmpl %eax, %ecx")
	assert.Contains(t, asm, "setl %al")
	assert.Contains(t, asm, "je _else_")
}

func TestScenarioGlobalVariable(t *testing.T) {
	asm := compile(t, "int g = 2 + 3; int main() { return g; }")
	assert.Contains(t, asm, ".globl _GLOBAL_VAR_g")
	assert.Contains(t, asm, ".align 2")
	assert.Contains(t, asm, "_GLOBAL_VAR_g:")
	assert.Contains(t, asm, ".long 5")
	assert.Contains(t, asm, "_GLOBAL_VAR_g(%rip)")
}

func TestScenarioShortCircuitOr(t *testing.T) {
	asm := compile(t, "int main() { return 1 || 0; }")
	assert.Contains(t, asm, "jmp _end_")
	assert.Contains(t, asm, "_skip_")
}

func TestCallSiteAlignmentForOverflowArgs(t *testing.T) {
	asm := compile(t, "int f(int a, int b, int c, int d, int e, int g, int h); int main() { return f(1,2,3,4,5,6,7); }")
	assert.Contains(t, asm, "call _f")
}

func TestFunctionPrototypeEmitsNothing(t *testing.T) {
	asm := compile(t, "int foo(int a);")
	assert.Empty(t, asm)
}

func TestUnresolvedIdentifierIsError(t *testing.T) {
	_, err := Generate(mustParse(t, "int main() { return missing; }"))
	assert.Error(t, err)
}

func TestNonIdentifierAssignableIsError(t *testing.T) {
	_, err := Generate(mustParse(t, "int main() { 1 = 2; return 0; }"))
	assert.Error(t, err)
}

func mustParse(t *testing.T, src string) []ast.Node {
	t.Helper()
	nodes, err := parser.Parse(src)
	require.NoError(t, err)
	return nodes
}
