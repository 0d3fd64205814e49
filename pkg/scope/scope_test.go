package scope

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smasonuk/attc/pkg/ast"
)

func TestFindVarInnermostWins(t *testing.T) {
	c := New()
	c.EmitGlobalAllocFromConstant("x", ast.IntType{Signed: true}, 1)

	c.BeginVarScope()
	_, err := c.EmitStackAllocFromLocation("x", ast.IntType{Signed: true}, "%rax")
	require.NoError(t, err)

	sv, err := c.FindVar("x")
	require.NoError(t, err)
	_, isStack := sv.Backing.(StackBacking)
	assert.True(t, isStack)
}

func TestRedefinitionInSameScopeIsError(t *testing.T) {
	c := New()
	c.BeginVarScope()
	_, err := c.EmitStackAllocFromLocation("x", ast.IntType{Signed: true}, "%rax")
	require.NoError(t, err)
	_, err = c.EmitStackAllocFromLocation("x", ast.IntType{Signed: true}, "%rcx")
	assert.Error(t, err)
}

func TestUnresolvedVariableIsError(t *testing.T) {
	c := New()
	_, err := c.FindVar("missing")
	assert.Error(t, err)
}

func TestStackOffsetDecrementsBy8PerSlot(t *testing.T) {
	c := New()
	c.BeginVarScope()
	_, _ = c.EmitStackAllocFromLocation("a", ast.IntType{Signed: true}, "%rax")
	assert.Equal(t, -8, c.StackOffset())
	_, _ = c.EmitStackAllocFromLocation("b", ast.IntType{Signed: true}, "%rax")
	assert.Equal(t, -16, c.StackOffset())
}

func TestEndRuntimeVarScopeDeallocatesEightPerBinding(t *testing.T) {
	c := New()
	c.BeginVarScope()
	_, _ = c.EmitStackAllocFromLocation("a", ast.IntType{Signed: true}, "%rax")
	_, _ = c.EmitStackAllocFromLocation("b", ast.IntType{Signed: true}, "%rax")
	instr := c.EndRuntimeVarScope(true)
	assert.Equal(t, "addq $16, %rsp", instr)
	assert.Equal(t, 0, c.StackOffset())
}

func TestAlignStackOnlyPadsWhenMisaligned(t *testing.T) {
	c := New()
	instr, err := c.AlignStack(-8)
	require.NoError(t, err)
	assert.NotEmpty(t, instr)

	c2 := New()
	instr2, err := c2.AlignStack(0)
	require.NoError(t, err)
	assert.Empty(t, instr2)
}

func TestGlobalAllocUsesTypeSizedDirective(t *testing.T) {
	c := New()
	out := c.EmitGlobalAllocFromConstant("g", ast.IntType{Signed: true}, 5)
	assert.Contains(t, out, ".globl _GLOBAL_VAR_g")
	assert.Contains(t, out, ".align 2")
	assert.Contains(t, out, "_GLOBAL_VAR_g:")
	assert.Contains(t, out, ".long 5")

	sv, err := c.FindVar("g")
	require.NoError(t, err)
	assert.Equal(t, "_GLOBAL_VAR_g(%rip)", sv.Backing.Location())
}

func TestLabelsAreMonotonic(t *testing.T) {
	c := New()
	a := c.NextLabel("if_skip")
	b := c.NextLabel("if_skip")
	assert.NotEqual(t, a, b)
}
