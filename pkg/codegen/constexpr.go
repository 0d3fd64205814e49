package codegen

import (
	"fmt"

	"github.com/smasonuk/attc/pkg/ast"
)

// ConstantValueOf evaluates node as a compile-time integer constant. It is
// total only over IntegerLiteral and BinaryOperation nodes built from the
// five integer arithmetic operators; anything else is a fatal error. It is
// used only for global initializers.
func ConstantValueOf(node ast.Node) (int64, error) {
	switch n := node.(type) {
	case ast.IntegerLiteral:
		return n.Value, nil
	case ast.BinaryOperation:
		left, err := ConstantValueOf(n.Left)
		if err != nil {
			return 0, err
		}
		right, err := ConstantValueOf(n.Right)
		if err != nil {
			return 0, err
		}
		return resolveBinaryOperation(n.Operator, left, right)
	default:
		return 0, fmt.Errorf("global initializer must be a constant expression, got %T", node)
	}
}

func resolveBinaryOperation(op string, left, right int64) (int64, error) {
	switch op {
	case "+":
		return left + right, nil
	case "-":
		return left - right, nil
	case "*":
		return left * right, nil
	case "/":
		return left / right, nil
	case "%":
		return left % right, nil
	default:
		return 0, fmt.Errorf("%q is not a constant-foldable operator", op)
	}
}
