// Package runpanic turns an unexpected panic from the compiler pipeline into
// a plain error, the way a single invariant violation should be reported at
// a program's one boundary rather than crashing the process.
package runpanic

import (
	"fmt"
	"runtime/debug"
)

// Guard runs f and recovers any panic it raises, wrapping it as an error
// that carries the captured stack trace. Expected compiler errors (bad
// syntax, unresolved identifiers, and the like) must be returned normally
// by f; Guard only catches the "can't happen" cases, such as codegen
// reaching an operator dispatch with no matching arm.
func Guard(name string, f func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = panicError{name: name, value: r, stack: debug.Stack()}
		}
	}()
	return f()
}

type panicError struct {
	name  string
	value interface{}
	stack []byte
}

func (pe panicError) Error() string {
	if pe.name == "" {
		return fmt.Sprintf("panicked: %v", pe.value)
	}
	return fmt.Sprintf("%s panicked: %v", pe.name, pe.value)
}

// Stack returns the captured stack trace text for a Guard-recovered panic.
func (pe panicError) Stack() string {
	return string(pe.stack)
}
