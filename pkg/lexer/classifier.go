package lexer

import "github.com/samber/lo"

// operators is the full recognised operator-string set. Note ** appears
// here but, per IsUnaryOperator/IsBinaryStackOperator below, the tokeniser's
// special-casing of '*' (see Tokeniser.readOperator) means this token class
// can never actually be produced from source — it survives in the tables
// only because the original compiler this was distilled from carried it.
var operators = []string{
	"=", "==", "+", "-", "*", "/", "!=", "**", "%", "&&", "||",
	">", "<", ">=", "<=", "+=", "*=", "-=", "/=", "%=", "**=",
	"!", "~", "&", "--", "++",
}

var assignmentOperators = []string{"=", "*=", "+=", "-=", "/=", "%=", "**="}

var unaryOperators = []string{"!", "~", "&", "*", "+", "-", "--", "++"}

var binaryStackOperators = []string{"+", "-", "/", "*", "%", "**", "==", "!=", ">", "<", ">=", "<="}

var precedenceTable = map[string]int{
	"*": 12, "/": 12, "%": 12,
	"+": 11, "-": 11,
	">": 8, "<": 8, ">=": 8, "<=": 8,
	"==": 7, "!=": 7,
}

// IsWhitespace reports whether c is a space, tab, or newline.
func IsWhitespace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

// IsDigit reports whether c can appear in a numeric literal. A '.' is
// accepted here (so numeric lexing can read one) but the integer parser
// must reject it — see Tokeniser.scanNumber.
func IsDigit(c byte) bool {
	return (c >= '0' && c <= '9') || c == '.'
}

// IsIdentifierStart reports whether c can begin an identifier.
func IsIdentifierStart(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '_'
}

// IsIdentifierCont reports whether c can continue an identifier.
func IsIdentifierCont(c byte) bool {
	return IsIdentifierStart(c) || (c >= '0' && c <= '9')
}

// IsPunctuation reports whether c is one of the punctuation characters.
func IsPunctuation(c byte) bool {
	return lo.Contains([]byte(":;,.()[]{}"), c)
}

// IsOperatorChar reports whether c can appear in an operator string.
func IsOperatorChar(c byte) bool {
	return lo.Contains([]byte("=!+-/*%&|<>~"), c)
}

// IsKeyword reports whether s is one of the 32 reserved words.
func IsKeyword(s string) bool {
	return lo.Contains(Keywords, s)
}

// IsBuiltinTypeName reports whether s names a builtin declaration type.
func IsBuiltinTypeName(s string) bool {
	return lo.Contains(BuiltinTypeNames, s)
}

// IsOperator reports whether s is a recognised operator string.
func IsOperator(s string) bool {
	return lo.Contains(operators, s)
}

// IsAssignmentOperator reports whether s is an assignment operator.
func IsAssignmentOperator(s string) bool {
	return lo.Contains(assignmentOperators, s)
}

// IsUnaryOperator reports whether s may appear as a unary prefix operator.
func IsUnaryOperator(s string) bool {
	return lo.Contains(unaryOperators, s)
}

// IsBinaryOperator reports whether s is a binary (non-assignment) operator.
func IsBinaryOperator(s string) bool {
	return IsOperator(s) && !IsAssignmentOperator(s)
}

// IsBinaryStackOperator reports whether s follows the push/pop stack-operand
// codegen pattern rather than the short-circuit pattern.
func IsBinaryStackOperator(s string) bool {
	return lo.Contains(binaryStackOperators, s)
}

// Precedence returns the binding power of operator s, or 0 if s has none
// (which also means s cannot appear via maybe_binary_operation's strictly
// greater-than test).
func Precedence(s string) int {
	if p, ok := precedenceTable[s]; ok {
		return p
	}
	return 0
}
