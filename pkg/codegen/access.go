package codegen

import (
	"fmt"

	"github.com/smasonuk/attc/pkg/ast"
	"github.com/smasonuk/attc/pkg/scope"
)

// emitLoad returns the instruction sequence that materializes stored's
// value into %rax, with load width chosen by its type.
func emitLoad(stored scope.StoredValue) []string {
	loc := stored.Backing.Location()
	switch stored.Type.(type) {
	case ast.CharType:
		return []string{"mov $0, %rax", fmt.Sprintf("movb %s, %%al", loc)}
	case ast.ShortType:
		return []string{"mov $0, %rax", fmt.Sprintf("mov %s, %%ax", loc)}
	case ast.IntType:
		return []string{fmt.Sprintf("movl %s, %%eax", loc)}
	default: // LongLongIntType, PointerType
		return []string{fmt.Sprintf("movq %s, %%rax", loc)}
	}
}

// emitLoadAddress returns the instruction sequence that computes the
// address of stored into %rax, used by '&' and by pointer dereference.
func emitLoadAddress(stored scope.StoredValue) ([]string, error) {
	switch b := stored.Backing.(type) {
	case scope.StackBacking:
		if b.Offset >= 0 {
			return []string{"movq %rbp, %rax", fmt.Sprintf("addq $%d, %%rax", b.Offset)}, nil
		}
		return []string{"movq %rbp, %rax", fmt.Sprintf("subq $%d, %%rax", -b.Offset)}, nil
	case scope.GlobalBacking:
		return []string{fmt.Sprintf("lea %s(%%rip), %%rax", scope.GlobalLabel(b.Name))}, nil
	default:
		return nil, fmt.Errorf("unsupported storage backing %T", stored.Backing)
	}
}
