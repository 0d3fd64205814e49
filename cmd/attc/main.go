// Command attc is the CLI entry point: it reads a single C-subset source
// file and writes the generated AT&T-syntax x86-64 assembly to standard
// output.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/smasonuk/attc/pkg/compile"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var dumpTokens, dumpAST bool

	cmd := &cobra.Command{
		Use:           "attc <source.c>",
		Short:         "Compile a small C subset to AT&T-syntax x86-64 assembly",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(_ *cobra.Command, args []string) error {
			return run(args[0], dumpTokens, dumpAST)
		},
	}

	cmd.Flags().BoolVar(&dumpTokens, "dump-tokens", false, "print the token stream to stderr before compiling")
	cmd.Flags().BoolVar(&dumpAST, "dump-ast", false, "print the parsed AST to stderr before compiling")

	return cmd
}

func run(path string, dumpTokens, dumpAST bool) error {
	source, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %q: %w", path, err)
	}

	result, err := compile.Source(string(source))
	if err != nil {
		return err
	}

	if dumpTokens {
		for _, tok := range result.Tokens {
			fmt.Fprintln(os.Stderr, tok)
		}
	}
	if dumpAST {
		for _, node := range result.AST {
			fmt.Fprintln(os.Stderr, node)
		}
	}

	fmt.Print(result.Assembly)
	return nil
}
