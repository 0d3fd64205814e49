// Package scope implements the scope-and-storage model: a stack of
// name-to-StoredValue maps, the %rbp-relative stack-offset counter, global
// label minting, and the 16-byte call-site alignment helper.
package scope

import (
	"fmt"

	"github.com/samber/lo"

	"github.com/smasonuk/attc/pkg/ast"
)

// Backing is where a StoredValue physically lives.
type Backing interface {
	isBacking()
	Location() string
}

// StackBacking is a signed offset from %rbp.
type StackBacking struct{ Offset int }

func (StackBacking) isBacking() {}
func (b StackBacking) Location() string {
	return fmt.Sprintf("%d(%%rbp)", b.Offset)
}

// GlobalBacking is a named symbol in the .data section.
type GlobalBacking struct{ Name string }

func (GlobalBacking) isBacking() {}
func (b GlobalBacking) Location() string {
	return fmt.Sprintf("_GLOBAL_VAR_%s(%%rip)", b.Name)
}

// StoredValue is a named, addressable location known to the compiler.
type StoredValue struct {
	Backing Backing
	Type    ast.Type
}

// Context is the scope stack plus the running stack-offset counter and the
// shared counter used for both unique jump labels and synthetic alignment
// slot names (mirroring how the source this was distilled from shares one
// counter between both purposes).
type Context struct {
	scopes      []map[string]StoredValue
	stackOffset int
	counter     int
}

// New returns a Context with only the global scope open.
func New() *Context {
	return &Context{scopes: []map[string]StoredValue{{}}}
}

// StackOffset is the current signed distance from %rbp to the stack top.
func (c *Context) StackOffset() int {
	return c.stackOffset
}

// Depth is the number of open scopes, including the global scope.
func (c *Context) Depth() int {
	return len(c.scopes)
}

// IsGlobalScope reports whether only the global scope is open, meaning a
// declaration encountered now must be a global.
func (c *Context) IsGlobalScope() bool {
	return len(c.scopes) == 1
}

// NextLabel mints a fresh, monotonically numbered label of the form
// "_<tag>_<n>".
func (c *Context) NextLabel(tag string) string {
	c.counter++
	return fmt.Sprintf("_%s_%d", tag, c.counter)
}

// BeginVarScope pushes a new, empty scope.
func (c *Context) BeginVarScope() {
	c.scopes = append(c.scopes, map[string]StoredValue{})
}

// EndCompiletimeVarScope pops the top scope without emitting any code. It
// is always paired with a prior EndRuntimeVarScope call on the same scope.
func (c *Context) EndCompiletimeVarScope() {
	c.scopes = c.scopes[:len(c.scopes)-1]
}

// EndRuntimeVarScope returns the "addq $N, %rsp" deallocation instruction
// for the top scope and, if mutateOffset, advances the stack-offset counter
// by the same N. It does not pop the scope map; callers pair it with
// EndCompiletimeVarScope once the compile-time bookkeeping is no longer
// needed.
func (c *Context) EndRuntimeVarScope(mutateOffset bool) string {
	top := c.scopes[len(c.scopes)-1]
	dealloc := len(top) * 8
	if mutateOffset {
		c.stackOffset += dealloc
	}
	return fmt.Sprintf("addq $%d, %%rsp", dealloc)
}

// DeallocBytesAboveFunctionEntry totals the slot count of every open scope
// except the global scope — used by a return statement to unwind all
// enclosing blocks at once, regardless of how deeply nested it is.
func (c *Context) DeallocBytesAboveFunctionEntry() int {
	total := 0
	for _, scope := range c.scopes[1:] {
		total += len(scope) * 8
	}
	return total
}

// FindVar searches scopes innermost-first and returns an error if name is
// unresolved in any of them.
func (c *Context) FindVar(name string) (StoredValue, error) {
	for i := len(c.scopes) - 1; i >= 0; i-- {
		if sv, ok := c.scopes[i][name]; ok {
			return sv, nil
		}
	}
	return StoredValue{}, fmt.Errorf("unresolved variable reference %q", name)
}

// EmitStackAllocFromLocation records name at a fresh stack slot one 8-byte
// word below the current offset and returns the "push <location>"
// instruction that must be emitted to actually reserve it. It errors if
// name is already defined in the current (innermost) scope.
func (c *Context) EmitStackAllocFromLocation(name string, typ ast.Type, location string) (string, error) {
	top := c.scopes[len(c.scopes)-1]
	if _, ok := top[name]; ok {
		return "", fmt.Errorf("redefinition of %q in the same scope", name)
	}
	c.stackOffset -= 8
	top[name] = StoredValue{Backing: StackBacking{Offset: c.stackOffset}, Type: typ}
	return fmt.Sprintf("push %s", location), nil
}

// StackAllocFromArbitraryOffset records name at a caller-supplied %rbp
// offset without emitting any code — used for parameters already resident
// on the stack at call time.
func (c *Context) StackAllocFromArbitraryOffset(name string, typ ast.Type, offset int) {
	top := c.scopes[len(c.scopes)-1]
	top[name] = StoredValue{Backing: StackBacking{Offset: offset}, Type: typ}
}

// GlobalLabel is the data-section symbol name for a global named name.
func GlobalLabel(name string) string {
	return "_GLOBAL_VAR_" + name
}

// directiveFor returns the GNU assembler data directive for typ's size.
func directiveFor(typ ast.Type) string {
	switch typ.SizeInBytes() {
	case 1:
		return ".byte"
	case 2:
		return ".short"
	case 4:
		return ".long"
	default:
		return ".quad"
	}
}

// EmitGlobalAllocFromConstant returns the full data-section directive block
// for a global of typ initialized to value, and records it as a Global
// StoredValue in the current (global) scope.
func (c *Context) EmitGlobalAllocFromConstant(name string, typ ast.Type, value int64) string {
	label := GlobalLabel(name)
	top := c.scopes[len(c.scopes)-1]
	top[name] = StoredValue{Backing: GlobalBacking{Name: name}, Type: typ}

	return fmt.Sprintf(
		".globl %s\n.data\n.align %d\n%s:\n%s %d\n.text",
		label, typ.PowerOfTwoAlignment(), label, directiveFor(typ), value,
	)
}

// AlignStack synthesizes a hidden 8-byte zero slot if, once futureBytes is
// accounted for, the stack would not be 16-byte aligned at a following call
// instruction. It returns the emitted instruction (empty if no padding was
// needed).
func (c *Context) AlignStack(futureBytes int) (string, error) {
	total := c.stackOffset + futureBytes
	if total%16 == 0 {
		return "", nil
	}
	c.counter++
	name := fmt.Sprintf("__ASS_ALIGN_%d", c.counter)
	return c.EmitStackAllocFromLocation(name, ast.LongLongIntType{Signed: false}, "$0")
}

// ScopeSizes reports, outermost first, how many bindings each currently
// open scope holds — used by diagnostics and by tests asserting scope
// shape.
func (c *Context) ScopeSizes() []int {
	return lo.Map(c.scopes, func(m map[string]StoredValue, _ int) int {
		return len(m)
	})
}
