package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smasonuk/attc/pkg/ast"
)

func TestParseIntegerLiteral(t *testing.T) {
	nodes, err := Parse("return 2;")
	require.NoError(t, err)
	require.Len(t, nodes, 1)
	ret, ok := nodes[0].(ast.ReturnStatement)
	require.True(t, ok)
	assert.Equal(t, ast.IntegerLiteral{Value: 2}, ret.Value)
}

func TestPrecedenceGroupsTighterOperatorDeeper(t *testing.T) {
	nodes, err := Parse("return 1 + 2 * 3;")
	require.NoError(t, err)
	ret := nodes[0].(ast.ReturnStatement)
	bin := ret.Value.(ast.BinaryOperation)
	assert.Equal(t, "+", bin.Operator)
	assert.Equal(t, ast.IntegerLiteral{Value: 1}, bin.Left)
	rhs := bin.Right.(ast.BinaryOperation)
	assert.Equal(t, "*", rhs.Operator)
}

func TestEqualPrecedenceIsLeftAssociative(t *testing.T) {
	nodes, err := Parse("return 1 - 2 - 3;")
	require.NoError(t, err)
	ret := nodes[0].(ast.ReturnStatement)
	bin := ret.Value.(ast.BinaryOperation)
	assert.Equal(t, "-", bin.Operator)
	_, leftIsBinary := bin.Left.(ast.BinaryOperation)
	assert.True(t, leftIsBinary)
	_, rightIsLiteral := bin.Right.(ast.IntegerLiteral)
	assert.True(t, rightIsLiteral)
}

func TestAssignmentIsRightAssociative(t *testing.T) {
	nodes, err := Parse("int a = 0; int b = 0; a = b = 1;")
	require.NoError(t, err)
	require.Len(t, nodes, 3)
	assign := nodes[2].(ast.BinaryOperation)
	assert.Equal(t, "=", assign.Operator)
	_, rhsIsAssign := assign.Right.(ast.BinaryOperation)
	assert.True(t, rhsIsAssign)
}

func TestFunctionDeclarationWithBody(t *testing.T) {
	nodes, err := Parse("int main() { return 0; }")
	require.NoError(t, err)
	require.Len(t, nodes, 1)
	fn, ok := nodes[0].(ast.FunctionDefinition)
	require.True(t, ok)
	assert.Equal(t, "main", fn.Name)
	assert.NotNil(t, fn.Body)
}

func TestFunctionPrototypeHasNilBody(t *testing.T) {
	nodes, err := Parse("int foo(int a);")
	require.NoError(t, err)
	fn := nodes[0].(ast.FunctionDefinition)
	assert.Nil(t, fn.Body)
	require.Len(t, fn.Params, 1)
	assert.Equal(t, "a", fn.Params[0].Name)
}

func TestPointerTypeWrapsBase(t *testing.T) {
	nodes, err := Parse("int foo(char* p);")
	require.NoError(t, err)
	fn := nodes[0].(ast.FunctionDefinition)
	ptr, ok := fn.Params[0].Type.(ast.PointerType)
	require.True(t, ok)
	assert.IsType(t, ast.CharType{}, ptr.PointsTo)
}

func TestDoubleStarPointerFromTokeniserQuirk(t *testing.T) {
	nodes, err := Parse("int foo(char** p);")
	require.NoError(t, err)
	fn := nodes[0].(ast.FunctionDefinition)
	outer, ok := fn.Params[0].Type.(ast.PointerType)
	require.True(t, ok)
	_, innerIsPointer := outer.PointsTo.(ast.PointerType)
	assert.True(t, innerIsPointer)
}

func TestForLoopOptionalSlotsAllAbsent(t *testing.T) {
	nodes, err := Parse("int main() { for (;;) { return 1; } }")
	require.NoError(t, err)
	fn := nodes[0].(ast.FunctionDefinition)
	forLoop := fn.Body[0].(ast.ForLoop)
	assert.Nil(t, forLoop.Declaration)
	assert.Nil(t, forLoop.Condition)
	assert.Nil(t, forLoop.Modification)
}

func TestIfElseStatement(t *testing.T) {
	nodes, err := Parse("int main() { if (1 < 2) return 10; else return 20; }")
	require.NoError(t, err)
	fn := nodes[0].(ast.FunctionDefinition)
	ifStmt := fn.Body[0].(ast.IfStatement)
	assert.NotNil(t, ifStmt.Else)
}

func TestFunctionCallRequiresIdentifier(t *testing.T) {
	_, err := Parse("int main() { return 3()(); }")
	assert.Error(t, err)
}

func TestUnaryOperatorMustBeInUnarySet(t *testing.T) {
	_, err := Parse("int main() { return /1; }")
	assert.Error(t, err)
}
