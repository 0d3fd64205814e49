package lexer

import (
	"fmt"
	"strconv"
	"strings"
)

// Tokeniser produces a stream of Tokens from a CharStream with one-token
// lookahead: Peek returns the current token, Read returns it and advances.
type Tokeniser struct {
	stream  *CharStream
	current Token
	eof     bool
}

// NewTokeniser primes the lookahead by reading the first token.
func NewTokeniser(stream *CharStream) (*Tokeniser, error) {
	t := &Tokeniser{stream: stream}
	if err := t.advance(); err != nil {
		return nil, err
	}
	return t, nil
}

// EOF reports whether the lookahead token has been exhausted.
func (t *Tokeniser) EOF() bool {
	return t.eof
}

// Peek returns the current lookahead token without consuming it.
func (t *Tokeniser) Peek() Token {
	return t.current
}

// Read returns the current lookahead token and advances to the next one.
func (t *Tokeniser) Read() (Token, error) {
	tok := t.current
	if err := t.advance(); err != nil {
		return tok, err
	}
	return tok, nil
}

// advance runs read_next and stores the result as the new lookahead.
func (t *Tokeniser) advance() error {
	tok, eof, err := t.readNext()
	if err != nil {
		return err
	}
	t.current = tok
	t.eof = eof
	return nil
}

// readNext implements the Tokeniser algorithm from §4.2: skip whitespace and
// comments, then dispatch on the first significant byte.
func (t *Tokeniser) readNext() (Token, bool, error) {
	s := t.stream

	for {
		t.eatWhitespace()
		if s.EOF() {
			return Token{}, true, nil
		}

		line := s.Line()
		c := s.Read()

		if c == '/' && (s.Peek() == '/' || s.Peek() == '*') {
			if err := t.eatComment(); err != nil {
				return Token{}, true, err
			}
			if s.EOF() {
				return Token{}, true, nil
			}
			continue
		}

		return t.dispatch(c, line)
	}
}

func (t *Tokeniser) eatWhitespace() {
	s := t.stream
	for !s.EOF() && IsWhitespace(s.Peek()) {
		s.Read()
	}
}

// eatComment consumes a line or block comment body. The opening '/' has
// already been read; the next byte (peeked, not yet consumed) is '/' or '*'.
func (t *Tokeniser) eatComment() error {
	s := t.stream
	kind := s.Read() // '/' or '*'

	if kind == '/' {
		for !s.EOF() && s.Peek() != '\n' {
			s.Read()
		}
		return nil
	}

	startLine := s.Line()
	for {
		if s.EOF() {
			return fmt.Errorf("unterminated block comment starting at line %d", startLine)
		}
		c := s.Read()
		if c == '*' && s.Peek() == '/' {
			s.Read()
			return nil
		}
	}
}

func (t *Tokeniser) dispatch(c byte, line int) (Token, bool, error) {
	switch {
	case IsDigit(c):
		return t.scanNumber(c, line)
	case IsIdentifierStart(c):
		return t.scanIdentifier(c, line)
	case IsPunctuation(c):
		return Token{Kind: PUNCTUATION, Lexeme: string(c), Line: line}, false, nil
	case IsOperatorChar(c):
		return t.scanOperator(c, line)
	case c == '\'':
		return t.scanCharacter(line)
	case c == '"':
		return t.scanString(line)
	default:
		return Token{}, true, fmt.Errorf("line %d: unrecognised character %q", line, c)
	}
}

func (t *Tokeniser) scanNumber(first byte, line int) (Token, bool, error) {
	s := t.stream
	var b strings.Builder
	b.WriteByte(first)
	for !s.EOF() && IsDigit(s.Peek()) {
		b.WriteByte(s.Read())
	}
	lexeme := b.String()
	if strings.Contains(lexeme, ".") {
		return Token{}, true, fmt.Errorf("line %d: integer literal %q contains '.'", line, lexeme)
	}
	n, err := strconv.ParseInt(lexeme, 10, 64)
	if err != nil {
		return Token{}, true, fmt.Errorf("line %d: malformed integer literal %q", line, lexeme)
	}
	return Token{Kind: INTEGER, Lexeme: lexeme, IntValue: n, Line: line}, false, nil
}

func (t *Tokeniser) scanIdentifier(first byte, line int) (Token, bool, error) {
	s := t.stream
	var b strings.Builder
	b.WriteByte(first)
	for !s.EOF() && IsIdentifierCont(s.Peek()) {
		b.WriteByte(s.Read())
	}
	name := b.String()
	if IsKeyword(name) {
		return Token{Kind: KEYWORD, Lexeme: name, Line: line}, false, nil
	}
	return Token{Kind: IDENTIFIER, Lexeme: name, Line: line}, false, nil
}

// scanOperator reads a run of operator characters, special-casing '*' to
// never merge with a following operator character. Without this, "char**"
// would tokenise its two stars as a single "**" token instead of two "*"
// tokens, which is precisely what lets pointer-to-pointer declarations work
// — at the cost of the "**" token becoming unreachable from real source.
func (t *Tokeniser) scanOperator(first byte, line int) (Token, bool, error) {
	s := t.stream
	var b strings.Builder
	b.WriteByte(first)
	if first != '*' {
		for !s.EOF() && IsOperatorChar(s.Peek()) {
			b.WriteByte(s.Read())
		}
	}
	op := b.String()
	if !IsOperator(op) {
		return Token{}, true, fmt.Errorf("line %d: malformed operator %q", line, op)
	}
	return Token{Kind: OPERATOR, Lexeme: op, Line: line}, false, nil
}

func (t *Tokeniser) scanCharacter(line int) (Token, bool, error) {
	s := t.stream
	if s.EOF() {
		return Token{}, true, fmt.Errorf("line %d: unterminated character literal", line)
	}
	c := s.Read()
	if s.EOF() || s.Read() != '\'' {
		return Token{}, true, fmt.Errorf("line %d: expected closing ' in character literal", line)
	}
	return Token{Kind: CHARACTER, Lexeme: string(c), IntValue: int64(c), Line: line}, false, nil
}

func (t *Tokeniser) scanString(line int) (Token, bool, error) {
	s := t.stream
	var b strings.Builder
	for {
		if s.EOF() {
			return Token{}, true, fmt.Errorf("line %d: unterminated string literal", line)
		}
		c := s.Read()
		if c == '"' {
			break
		}
		b.WriteByte(c)
	}
	return Token{Kind: STRING, Lexeme: b.String(), Line: line}, false, nil
}
