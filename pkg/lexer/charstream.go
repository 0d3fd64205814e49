package lexer

// CharStream is a sequential byte reader with one-byte lookahead and an EOF
// flag, the leaf of the pipeline below the classifier and tokeniser.
type CharStream struct {
	src  []byte
	pos  int
	line int
	eof  bool
}

// NewCharStream wraps src for sequential reading starting at line 1.
func NewCharStream(src string) *CharStream {
	cs := &CharStream{src: []byte(src), pos: 0, line: 1}
	if len(cs.src) == 0 {
		cs.eof = true
	}
	return cs
}

// EOF reports whether the stream has been exhausted.
func (cs *CharStream) EOF() bool {
	return cs.eof
}

// Line returns the 1-based line of the next byte to be read.
func (cs *CharStream) Line() int {
	return cs.line
}

// Peek returns the next byte without consuming it. Calling Peek at EOF
// returns 0.
func (cs *CharStream) Peek() byte {
	if cs.pos >= len(cs.src) {
		return 0
	}
	return cs.src[cs.pos]
}

// Peek2 returns the byte one position past the next one, or 0 past EOF.
func (cs *CharStream) Peek2() byte {
	if cs.pos+1 >= len(cs.src) {
		return 0
	}
	return cs.src[cs.pos+1]
}

// Read consumes and returns the next byte, marking EOF once the final byte
// has been consumed.
func (cs *CharStream) Read() byte {
	if cs.pos >= len(cs.src) {
		cs.eof = true
		return 0
	}
	c := cs.src[cs.pos]
	cs.pos++
	if c == '\n' {
		cs.line++
	}
	if cs.pos >= len(cs.src) {
		cs.eof = true
	}
	return c
}
