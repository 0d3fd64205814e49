// Package compile wires the lexer, parser, and codegen into the single
// driver the CLI calls: source text in, assembly text out.
package compile

import (
	"fmt"

	"github.com/smasonuk/attc/internal/runpanic"
	"github.com/smasonuk/attc/pkg/ast"
	"github.com/smasonuk/attc/pkg/codegen"
	"github.com/smasonuk/attc/pkg/lexer"
	"github.com/smasonuk/attc/pkg/parser"
)

// Result carries every intermediate artifact of a compile, for the CLI's
// optional --dump-tokens/--dump-ast debug flags.
type Result struct {
	Tokens   []lexer.Token
	AST      []ast.Node
	Assembly string
}

// Source compiles src to AT&T assembly text. Expected compiler errors
// (bad syntax, unresolved names, and the rest of spec.md §7's categories)
// are returned normally; unexpected invariant violations are recovered by
// runpanic.Guard and surfaced as an error rather than crashing the CLI.
func Source(src string) (Result, error) {
	var result Result

	err := runpanic.Guard("compile", func() error {
		tz, err := lexer.NewTokeniser(lexer.NewCharStream(src))
		if err != nil {
			return fmt.Errorf("lex error: %w", err)
		}
		for !tz.EOF() {
			tok, err := tz.Read()
			if err != nil {
				return fmt.Errorf("lex error: %w", err)
			}
			result.Tokens = append(result.Tokens, tok)
		}

		nodes, err := parser.Parse(src)
		if err != nil {
			return fmt.Errorf("parse error: %w", err)
		}
		result.AST = nodes

		asm, err := codegen.Generate(nodes)
		if err != nil {
			return fmt.Errorf("codegen error: %w", err)
		}
		result.Assembly = asm
		return nil
	})

	return result, err
}
