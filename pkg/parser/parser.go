// Package parser implements the recursive-descent statement parser with
// Pratt-style precedence climbing over expressions, per spec.md §4.3.
package parser

import (
	"fmt"

	"github.com/smasonuk/attc/pkg/ast"
	"github.com/smasonuk/attc/pkg/lexer"
)

// Parser wraps a Tokeniser and produces an AST.
type Parser struct {
	tz *lexer.Tokeniser
}

// New wraps tz for parsing.
func New(tz *lexer.Tokeniser) *Parser {
	return &Parser{tz: tz}
}

// Parse lexes src and parses it to completion, returning the top-level
// statement list.
func Parse(src string) ([]ast.Node, error) {
	tz, err := lexer.NewTokeniser(lexer.NewCharStream(src))
	if err != nil {
		return nil, err
	}
	p := New(tz)
	return p.GenerateAST()
}

// GenerateAST parses a block statement without delimiting braces, reading
// until EOF.
func (p *Parser) GenerateAST() ([]ast.Node, error) {
	block, err := p.parseBlockStatement(false, false)
	if err != nil {
		return nil, err
	}
	return block.(ast.BlockStatement).Statements, nil
}

func (p *Parser) parseBlockStatement(expectFirst, expectLast bool) (ast.Node, error) {
	if expectFirst {
		if err := p.expectPunctuation('{'); err != nil {
			return nil, err
		}
	}

	var statements []ast.Node
	for !p.tz.EOF() {
		if expectLast && p.isNextPunctuation('}') {
			break
		}
		stmt, err := p.parseComponent(0)
		if err != nil {
			return nil, err
		}
		statements = append(statements, stmt)
	}

	if expectLast {
		if err := p.expectPunctuation('}'); err != nil {
			return nil, err
		}
	}
	return ast.BlockStatement{Statements: statements}, nil
}

// parseComponent parses an atom, applies any postfix call/index suffixes,
// attempts a binary/assignment continuation, and swallows a trailing ';' as
// expression-statement sugar.
func (p *Parser) parseComponent(minPrecedence int) (ast.Node, error) {
	node, err := p.parseAtom()
	if err != nil {
		return nil, err
	}

	for !p.tz.EOF() {
		next, wasSuffix, err := p.maybePostfix(node)
		if err != nil {
			return nil, err
		}
		if !wasSuffix {
			break
		}
		node = next
	}

	node, err = p.maybeBinaryOperation(node, minPrecedence)
	if err != nil {
		return nil, err
	}

	p.allowExpressionStatement()
	return node, nil
}

func (p *Parser) allowExpressionStatement() {
	if p.isNextPunctuation(';') {
		_, _ = p.tz.Read()
	}
}

// maybePostfix handles both call suffixes "(" and index suffixes "[", in a
// loop so a call result can itself be called or indexed again.
func (p *Parser) maybePostfix(me ast.Node) (ast.Node, bool, error) {
	if p.isNextPunctuation('(') {
		node, err := p.parseCall(me)
		return node, true, err
	}
	if p.isNextPunctuation('[') {
		node, err := p.parseIndex(me)
		return node, true, err
	}
	return me, false, nil
}

func (p *Parser) parseCall(me ast.Node) (ast.Node, error) {
	if _, err := p.tz.Read(); err != nil { // consume '('
		return nil, err
	}

	ident, ok := me.(ast.Identifier)
	if !ok {
		return nil, fmt.Errorf("function call must be an identifier (e.g. not 3.14())")
	}

	var args []ast.Node
	for !p.tz.EOF() {
		if p.isNextPunctuation(')') {
			if _, err := p.tz.Read(); err != nil {
				return nil, err
			}
			break
		}
		arg, err := p.parseComponent(0)
		if err != nil {
			return nil, err
		}
		args = append(args, arg)

		if p.isNextPunctuation(',') {
			if _, err := p.tz.Read(); err != nil {
				return nil, err
			}
		}
	}

	return ast.FunctionCall{Name: ident.Name, Args: args}, nil
}

func (p *Parser) parseIndex(me ast.Node) (ast.Node, error) {
	if _, err := p.tz.Read(); err != nil { // consume '['
		return nil, err
	}
	property, err := p.parseComponent(0)
	if err != nil {
		return nil, err
	}
	if err := p.expectPunctuation(']'); err != nil {
		return nil, err
	}
	return ast.ArrayAccess{Left: me, Property: property}, nil
}

func (p *Parser) maybeBinaryOperation(me ast.Node, myPrecedence int) (ast.Node, error) {
	tok := p.tz.Peek()
	if tok.Kind != lexer.OPERATOR {
		return me, nil
	}
	op := tok.Lexeme

	if lexer.IsBinaryOperator(op) {
		theirPrecedence := lexer.Precedence(op)
		if theirPrecedence > myPrecedence {
			if _, err := p.tz.Read(); err != nil {
				return nil, err
			}
			them, err := p.parseComponent(theirPrecedence)
			if err != nil {
				return nil, err
			}
			node := ast.BinaryOperation{Left: me, Operator: op, Right: them}
			return p.maybeBinaryOperation(node, myPrecedence)
		}
		return me, nil
	}

	if lexer.IsAssignmentOperator(op) {
		if _, err := p.tz.Read(); err != nil {
			return nil, err
		}
		them, err := p.parseComponent(0)
		if err != nil {
			return nil, err
		}
		return ast.BinaryOperation{Left: me, Operator: op, Right: them}, nil
	}

	return me, nil
}

func (p *Parser) parseAtom() (ast.Node, error) {
	tok, err := p.tz.Read()
	if err != nil {
		return nil, err
	}

	if tok.Kind == lexer.PUNCTUATION {
		switch tok.Lexeme {
		case "(":
			contents, err := p.parseComponent(0)
			if err != nil {
				return nil, err
			}
			if err := p.expectPunctuation(')'); err != nil {
				return nil, err
			}
			return contents, nil
		case "{":
			return p.parseBlockStatement(false, true)
		}
	}

	switch tok.Kind {
	case lexer.INTEGER:
		return ast.IntegerLiteral{Value: tok.IntValue}, nil
	case lexer.CHARACTER:
		return ast.IntegerLiteral{Value: tok.IntValue}, nil
	case lexer.STRING:
		return ast.StringLiteral{Value: tok.Lexeme}, nil
	case lexer.IDENTIFIER:
		return ast.Identifier{Name: tok.Lexeme}, nil
	case lexer.OPERATOR:
		return p.parseUnaryOperation(tok.Lexeme)
	}

	return p.parseStatement(tok)
}

func (p *Parser) parseUnaryOperation(op string) (ast.Node, error) {
	if !lexer.IsUnaryOperator(op) {
		return nil, fmt.Errorf("%q was used as a unary operator but it isn't one", op)
	}
	operand, err := p.parseAtom()
	if err != nil {
		return nil, err
	}
	return ast.UnaryOperation{Operator: op, Operand: operand}, nil
}

// parseStatement dispatches on a keyword token reached via parseAtom.
func (p *Parser) parseStatement(tok lexer.Token) (ast.Node, error) {
	if tok.Kind != lexer.KEYWORD {
		return nil, fmt.Errorf("line %d: parser encountered an unexpected token %v", tok.Line, tok)
	}

	switch tok.Lexeme {
	case "return":
		return p.parseReturnStatement()
	case "if":
		return p.parseIfStatement()
	case "while":
		return p.parseWhileLoop()
	case "for":
		return p.parseForLoop()
	default:
		if lexer.IsBuiltinTypeName(tok.Lexeme) {
			return p.parseDeclaration(tok.Lexeme)
		}
		return nil, fmt.Errorf("line %d: unexpected keyword %q", tok.Line, tok.Lexeme)
	}
}

func (p *Parser) parseIfStatement() (ast.Node, error) {
	if err := p.expectPunctuation('('); err != nil {
		return nil, err
	}
	condition, err := p.parseComponent(0)
	if err != nil {
		return nil, err
	}
	if err := p.expectPunctuation(')'); err != nil {
		return nil, err
	}
	body, err := p.parseComponent(0)
	if err != nil {
		return nil, err
	}

	var elseNode ast.Node
	if p.isNextKeyword("else") {
		if _, err := p.tz.Read(); err != nil {
			return nil, err
		}
		elseNode, err = p.parseComponent(0)
		if err != nil {
			return nil, err
		}
	}

	return ast.IfStatement{Condition: condition, Body: body, Else: elseNode}, nil
}

func (p *Parser) parseWhileLoop() (ast.Node, error) {
	if err := p.expectPunctuation('('); err != nil {
		return nil, err
	}
	condition, err := p.parseComponent(0)
	if err != nil {
		return nil, err
	}
	if err := p.expectPunctuation(')'); err != nil {
		return nil, err
	}
	body, err := p.parseComponent(0)
	if err != nil {
		return nil, err
	}
	return ast.WhileLoop{Condition: condition, Body: body}, nil
}

func (p *Parser) parseForLoop() (ast.Node, error) {
	if err := p.expectPunctuation('('); err != nil {
		return nil, err
	}

	var declaration, condition, modification ast.Node
	var err error

	if !p.isNextPunctuation(';') {
		declaration, err = p.parseComponent(0)
		if err != nil {
			return nil, err
		}
	} else if _, err := p.tz.Read(); err != nil {
		return nil, err
	}

	if !p.isNextPunctuation(';') {
		condition, err = p.parseComponent(0)
		if err != nil {
			return nil, err
		}
	} else if _, err := p.tz.Read(); err != nil {
		return nil, err
	}

	if !p.isNextPunctuation(')') {
		modification, err = p.parseComponent(0)
		if err != nil {
			return nil, err
		}
	}

	if err := p.expectPunctuation(')'); err != nil {
		return nil, err
	}

	body, err := p.parseComponent(0)
	if err != nil {
		return nil, err
	}

	return ast.ForLoop{Declaration: declaration, Condition: condition, Modification: modification, Body: body}, nil
}

func (p *Parser) parseReturnStatement() (ast.Node, error) {
	value, err := p.parseComponent(0)
	if err != nil {
		return nil, err
	}
	return ast.ReturnStatement{Value: value}, nil
}

// parseType parses zero or more trailing '*' tokens after a base type
// keyword, wrapping it in a PointerType for each one.
func (p *Parser) parseType(startKeyword string) (ast.Type, error) {
	var t ast.Type
	switch startKeyword {
	case "char":
		t = ast.CharType{Signed: true}
	case "short":
		t = ast.ShortType{Signed: true}
	case "int":
		t = ast.IntType{Signed: true}
	case "long":
		t = ast.LongLongIntType{Signed: true}
	default:
		return nil, fmt.Errorf("unimplemented type %q", startKeyword)
	}

	for p.isNextOperator("*") {
		if _, err := p.tz.Read(); err != nil {
			return nil, err
		}
		t = ast.PointerType{PointsTo: t}
	}
	return t, nil
}

// parseDeclaration parses a variable or function declaration; both start
// with a type.
func (p *Parser) parseDeclaration(typeStartKeyword string) (ast.Node, error) {
	varType, err := p.parseType(typeStartKeyword)
	if err != nil {
		return nil, err
	}

	nameTok, err := p.tz.Read()
	if err != nil {
		return nil, err
	}
	if nameTok.Kind != lexer.IDENTIFIER {
		return nil, fmt.Errorf("line %d: expected declaration identifier but got %v", nameTok.Line, nameTok)
	}
	name := nameTok.Lexeme

	if p.isNextPunctuation('(') {
		return p.parseFunctionDeclaration(name, varType)
	}
	return p.parseVariableDeclaration(name, varType)
}

func (p *Parser) parseFunctionDeclaration(name string, returnType ast.Type) (ast.Node, error) {
	if _, err := p.tz.Read(); err != nil { // consume '('
		return nil, err
	}

	var params []ast.NameAndType
	for p.isNextBuiltinTypeName() {
		tok, err := p.tz.Read()
		if err != nil {
			return nil, err
		}
		paramType, err := p.parseType(tok.Lexeme)
		if err != nil {
			return nil, err
		}

		nameTok, err := p.tz.Read()
		if err != nil {
			return nil, err
		}
		if nameTok.Kind != lexer.IDENTIFIER {
			return nil, fmt.Errorf("line %d: function parameters must be identifiers", nameTok.Line)
		}
		params = append(params, ast.NameAndType{Name: nameTok.Lexeme, Type: paramType})

		if p.isNextPunctuation(',') {
			if _, err := p.tz.Read(); err != nil {
				return nil, err
			}
		}
	}

	if err := p.expectPunctuation(')'); err != nil {
		return nil, err
	}

	var body []ast.Node
	if p.isNextPunctuation('{') {
		bodyNode, err := p.parseBlockStatement(true, true)
		if err != nil {
			return nil, err
		}
		body = bodyNode.(ast.BlockStatement).Statements
	}

	return ast.FunctionDefinition{Name: name, ReturnType: returnType, Params: params, Body: body}, nil
}

func (p *Parser) parseVariableDeclaration(name string, varType ast.Type) (ast.Node, error) {
	var initial ast.Node
	if p.isNextOperator("=") {
		if _, err := p.tz.Read(); err != nil {
			return nil, err
		}
		value, err := p.parseComponent(0)
		if err != nil {
			return nil, err
		}
		initial = value
	}
	return ast.VariableDeclaration{Name: name, VarType: varType, InitialValue: initial}, nil
}

func (p *Parser) isNextPunctuation(c byte) bool {
	tok := p.tz.Peek()
	return tok.Kind == lexer.PUNCTUATION && tok.Lexeme == string(c)
}

func (p *Parser) isNextOperator(s string) bool {
	tok := p.tz.Peek()
	return tok.Kind == lexer.OPERATOR && tok.Lexeme == s
}

func (p *Parser) isNextKeyword(s string) bool {
	tok := p.tz.Peek()
	return tok.Kind == lexer.KEYWORD && tok.Lexeme == s
}

func (p *Parser) isNextBuiltinTypeName() bool {
	tok := p.tz.Peek()
	return tok.Kind == lexer.KEYWORD && lexer.IsBuiltinTypeName(tok.Lexeme)
}

func (p *Parser) expectPunctuation(c byte) error {
	tok, err := p.tz.Read()
	if err != nil {
		return err
	}
	if tok.Kind != lexer.PUNCTUATION || tok.Lexeme != string(c) {
		return fmt.Errorf("line %d: expected %q but got %v", tok.Line, string(c), tok)
	}
	return nil
}
