package lexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tokenise(t *testing.T, src string) []Token {
	t.Helper()
	tz, err := NewTokeniser(NewCharStream(src))
	require.NoError(t, err)

	var toks []Token
	for !tz.EOF() {
		tok, err := tz.Read()
		require.NoError(t, err)
		toks = append(toks, tok)
	}
	return toks
}

func TestTokeniseIntegerAndKeyword(t *testing.T) {
	toks := tokenise(t, "int x = 10;")
	require.Len(t, toks, 5)
	assert.Equal(t, KEYWORD, toks[0].Kind)
	assert.Equal(t, "int", toks[0].Lexeme)
	assert.Equal(t, IDENTIFIER, toks[1].Kind)
	assert.Equal(t, OPERATOR, toks[2].Kind)
	assert.Equal(t, INTEGER, toks[3].Kind)
	assert.EqualValues(t, 10, toks[3].IntValue)
	assert.Equal(t, PUNCTUATION, toks[4].Kind)
}

func TestDoubleStarTokenisesAsTwoStars(t *testing.T) {
	toks := tokenise(t, "char**")
	require.Len(t, toks, 3)
	assert.Equal(t, OPERATOR, toks[1].Kind)
	assert.Equal(t, "*", toks[1].Lexeme)
	assert.Equal(t, OPERATOR, toks[2].Kind)
	assert.Equal(t, "*", toks[2].Lexeme)
}

func TestLineCommentSkipped(t *testing.T) {
	toks := tokenise(t, "1 // trailing comment\n+ 2")
	require.Len(t, toks, 3)
	assert.Equal(t, "1", toks[0].Lexeme)
	assert.Equal(t, "+", toks[1].Lexeme)
	assert.Equal(t, "2", toks[2].Lexeme)
}

func TestBlockCommentSkipped(t *testing.T) {
	toks := tokenise(t, "1 /* skip\nme */ + 2")
	require.Len(t, toks, 3)
}

func TestCharacterLiteral(t *testing.T) {
	toks := tokenise(t, "'a'")
	require.Len(t, toks, 1)
	assert.Equal(t, CHARACTER, toks[0].Kind)
	assert.EqualValues(t, 'a', toks[0].IntValue)
}

func TestStringLiteral(t *testing.T) {
	toks := tokenise(t, `"hello"`)
	require.Len(t, toks, 1)
	assert.Equal(t, STRING, toks[0].Kind)
	assert.Equal(t, "hello", toks[0].Lexeme)
}

func TestDotInNumberIsError(t *testing.T) {
	tz, err := NewTokeniser(NewCharStream("1.5"))
	require.NoError(t, err)
	_, err = tz.Read()
	assert.Error(t, err)
}

func TestUnrecognisedCharacter(t *testing.T) {
	_, err := NewTokeniser(NewCharStream("@"))
	assert.Error(t, err)
}

func TestLexerIdempotence(t *testing.T) {
	src := "int main() { return 1 + 2 * 3; }"
	a := tokenise(t, src)
	b := tokenise(t, src)
	assert.Equal(t, a, b)
}

func TestPrecedenceTable(t *testing.T) {
	assert.Equal(t, 12, Precedence("*"))
	assert.Equal(t, 11, Precedence("+"))
	assert.Equal(t, 7, Precedence("=="))
	assert.Equal(t, 0, Precedence("="))
}
