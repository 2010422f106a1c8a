// Package parser implements spec.md §4.B: recursive descent with
// Pratt-style precedence climbing for binary operators, driven off a
// one-token lookahead pulled directly from the lexer (no pre-scanned
// token slice) — the same "advance() pulls the next token" shape the
// teacher's parser.Parser uses over its token buffer, adapted to pull
// from lexer.Lexer.GetToken() one token at a time since this
// language's grammar needs to consult a *mutable* precedence table
// between tokens rather than a fixed set of operator levels.
//
// Parser does not recover from malformed input (spec.md §4.B's
// "Failure policy"): a syntax error returns immediately with a
// *SyntaxError and the caller (the driver) discards the current item.
package parser

import (
	"fmt"

	"kaleidoscope/ast"
	"kaleidoscope/lexer"
	"kaleidoscope/prec"
	"kaleidoscope/token"
)

// SyntaxError is spec.md §7's ParseError: a structural mismatch the
// parser does not attempt to recover from.
type SyntaxError struct {
	Msg string
}

func (e *SyntaxError) Error() string { return fmt.Sprintf("💥 syntax error: %s", e.Msg) }

// Parser holds the one token of lookahead spec.md §4.B describes,
// plus the precedence table it shares with the emitter (grown only at
// lowering time, per spec.md's operator-table-timing note, so Parser
// only ever reads it).
type Parser struct {
	lex  *lexer.Lexer
	prec *prec.Table
	cur  token.Token
}

// New creates a Parser pulling tokens from lex and consulting prec for
// operator precedence. It immediately primes the one-token lookahead.
func New(lex *lexer.Lexer, precedence *prec.Table) *Parser {
	p := &Parser{lex: lex, prec: precedence}
	p.advance()
	return p
}

// Current returns the token the parser is currently looking at without
// consuming it — the driver inspects this to decide whether the next
// top-level item is a `def`, `extern`, or expression.
func (p *Parser) Current() token.Token { return p.cur }

// Advance consumes the current token and returns it, exposing the
// parser's lookahead-advance primitive to callers like the driver that
// need to resynchronize past a malformed token after a *SyntaxError.
func (p *Parser) Advance() token.Token { return p.advance() }

func (p *Parser) advance() token.Token {
	prev := p.cur
	p.cur = p.lex.GetToken()
	return prev
}

func (p *Parser) expectOther(ch byte) error {
	if p.cur.Type != token.OTHER || p.cur.Ch != ch {
		return &SyntaxError{Msg: fmt.Sprintf("expected %q, got %s", ch, p.cur)}
	}
	p.advance()
	return nil
}

// ParseDefinition parses `def prototype expression* end` into a
// *ast.Function, per spec.md §4.B's `definition` production. The
// leading `def` token must already be current.
func (p *Parser) ParseDefinition() (*ast.Function, error) {
	if p.cur.Type != token.DEF {
		return nil, &SyntaxError{Msg: "expected 'def'"}
	}
	p.advance()

	proto, err := p.parsePrototype()
	if err != nil {
		return nil, err
	}

	body, err := p.parseExprSequenceUntilEnd()
	if err != nil {
		return nil, err
	}

	return &ast.Function{Proto: proto, Body: body}, nil
}

// ParseExtern parses `extern prototype` into a bare *ast.Prototype,
// per spec.md §4.B's `extern` production. The leading `extern` token
// must already be current.
func (p *Parser) ParseExtern() (*ast.Prototype, error) {
	if p.cur.Type != token.EXTERN {
		return nil, &SyntaxError{Msg: "expected 'extern'"}
	}
	p.advance()
	return p.parsePrototype()
}

// ParseTopLevelExpr parses a bare expression (spec.md §4.B's
// `topLevel ::= expression` production) and wraps it as a zero-
// parameter *ast.Function named __anon_expr, per spec.md §3's "A
// top-level expression is modeled as a Function" invariant.
func (p *Parser) ParseTopLevelExpr() (*ast.Function, error) {
	expr, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	proto := &ast.Prototype{Name: ast.AnonExprName, Kind: ast.ProtoPlain}
	return &ast.Function{Proto: proto, Body: []ast.Expr{expr}}, nil
}

// parsePrototype implements spec.md §4.B's `prototype` production:
//
//	ID '(' (ID (','? ID)*)? ')'
//	| 'unary'  OP       '(' ID ')'
//	| 'binary' OP NUMBER '(' ID ','? ID ')'
//
// Parameter names may be separated by whitespace alone or by commas.
func (p *Parser) parsePrototype() (*ast.Prototype, error) {
	switch p.cur.Type {
	case token.UNARY:
		p.advance()
		op, err := p.expectOperatorLexeme()
		if err != nil {
			return nil, err
		}
		if err := p.expectOther('('); err != nil {
			return nil, err
		}
		param, err := p.expectIdentifier()
		if err != nil {
			return nil, err
		}
		if err := p.expectOther(')'); err != nil {
			return nil, err
		}
		return &ast.Prototype{Name: op, Params: []string{param}, Kind: ast.ProtoUnaryOp}, nil

	case token.BINARY:
		p.advance()
		op, err := p.expectOperatorLexeme()
		if err != nil {
			return nil, err
		}
		if p.cur.Type != token.NUMBER {
			return nil, &SyntaxError{Msg: fmt.Sprintf("expected precedence number after binary %s, got %s", op, p.cur)}
		}
		precedence := int(p.cur.Num)
		p.advance()
		if err := p.expectOther('('); err != nil {
			return nil, err
		}
		lhs, err := p.expectIdentifier()
		if err != nil {
			return nil, err
		}
		if p.cur.Type == token.OTHER && p.cur.Ch == ',' {
			p.advance()
		}
		rhs, err := p.expectIdentifier()
		if err != nil {
			return nil, err
		}
		if err := p.expectOther(')'); err != nil {
			return nil, err
		}
		return &ast.Prototype{Name: op, Params: []string{lhs, rhs}, Kind: ast.ProtoBinaryOp, OpPrecedence: precedence}, nil

	case token.IDENTIFIER:
		name := p.cur.Ident
		p.advance()
		if err := p.expectOther('('); err != nil {
			return nil, err
		}
		var params []string
		for p.cur.Type == token.IDENTIFIER {
			params = append(params, p.cur.Ident)
			p.advance()
			if p.cur.Type == token.OTHER && p.cur.Ch == ',' {
				p.advance()
				if p.cur.Type != token.IDENTIFIER {
					return nil, &SyntaxError{Msg: fmt.Sprintf("expected identifier, got %s", p.cur)}
				}
			}
		}
		if err := p.expectOther(')'); err != nil {
			return nil, err
		}
		return &ast.Prototype{Name: name, Params: params, Kind: ast.ProtoPlain}, nil

	default:
		return nil, &SyntaxError{Msg: fmt.Sprintf("expected function name in prototype, got %s", p.cur)}
	}
}

func (p *Parser) expectIdentifier() (string, error) {
	if p.cur.Type != token.IDENTIFIER {
		return "", &SyntaxError{Msg: fmt.Sprintf("expected identifier, got %s", p.cur)}
	}
	name := p.cur.Ident
	p.advance()
	return name, nil
}

func (p *Parser) expectOperatorLexeme() (string, error) {
	if p.cur.Type != token.OPERATOR && !(p.cur.Type == token.OTHER) {
		return "", &SyntaxError{Msg: fmt.Sprintf("expected operator symbol, got %s", p.cur)}
	}
	var lexeme string
	switch p.cur.Type {
	case token.OPERATOR:
		lexeme = p.cur.Op
	case token.OTHER:
		lexeme = string(rune(p.cur.Ch))
	}
	p.advance()
	return lexeme, nil
}

// parseExprSequenceUntilEnd parses zero or more expressions up to (and
// consuming) a terminating `end` token, as `def`/`if`/`for` bodies all
// require.
func (p *Parser) parseExprSequenceUntilEnd() ([]ast.Expr, error) {
	var exprs []ast.Expr
	for p.cur.Type != token.END {
		if p.cur.Type == token.EOF {
			return nil, &SyntaxError{Msg: "unexpected EOF, expected 'end'"}
		}
		e, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		exprs = append(exprs, e)
	}
	p.advance() // consume 'end'
	return exprs, nil
}

// parseExprSequenceUntil parses zero or more expressions up to (but
// not consuming) a token matching stop, used by `if`'s then/else
// bodies which are each terminated by `else`/`end` rather than their
// own `end`.
func (p *Parser) parseExprSequenceUntil(stop func(token.Token) bool) ([]ast.Expr, error) {
	var exprs []ast.Expr
	for !stop(p.cur) {
		if p.cur.Type == token.EOF {
			return nil, &SyntaxError{Msg: "unexpected EOF"}
		}
		e, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		exprs = append(exprs, e)
	}
	return exprs, nil
}

// parseExpression implements `expression ::= unary (OP
// expression-with-precedence)*`: parse a unary, then climb.
func (p *Parser) parseExpression() (ast.Expr, error) {
	lhs, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	return p.parseBinOpRhs(0, lhs)
}

// parseBinOpRhs implements precedence climbing: repeatedly consume an
// operator whose precedence is >= minPrec, parse a unary RHS, peek the
// next operator's precedence and, if it binds tighter than the operator
// just consumed, recurse with curPrec+1, then fold into a Binary.
// Equal precedence is left-associative (no recursion on a tie).
func (p *Parser) parseBinOpRhs(minPrec int, lhs ast.Expr) (ast.Expr, error) {
	for {
		op, curPrec := p.peekOperator()
		if curPrec < minPrec {
			return lhs, nil
		}
		p.advance()

		rhs, err := p.parseUnary()
		if err != nil {
			return nil, err
		}

		_, nextPrec := p.peekOperator()
		if curPrec < nextPrec {
			rhs, err = p.parseBinOpRhs(curPrec+1, rhs)
			if err != nil {
				return nil, err
			}
		}

		lhs = &ast.Binary{Op: op, Lhs: lhs, Rhs: rhs}
	}
}

// peekOperator returns the current token's operator lexeme and its
// table precedence (-1 if the current token isn't a known operator),
// without consuming it.
func (p *Parser) peekOperator() (string, int) {
	if p.cur.Type != token.OPERATOR {
		return "", -1
	}
	return p.cur.Op, p.prec.Get(p.cur.Op)
}

// parseUnary implements `unary ::= primary | OP unary`: a leading
// operator not otherwise valid as a binary continuation here is always
// a prefix application.
func (p *Parser) parseUnary() (ast.Expr, error) {
	if p.cur.Type == token.OPERATOR {
		op := p.cur.Op
		p.advance()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &ast.Unary{Op: op, Operand: operand}, nil
	}
	return p.parsePrimary()
}

// parsePrimary implements spec.md §4.B's `primary` production.
func (p *Parser) parsePrimary() (ast.Expr, error) {
	switch p.cur.Type {
	case token.NUMBER:
		v := p.cur.Num
		p.advance()
		return &ast.Number{Value: v}, nil

	case token.OTHER:
		if p.cur.Ch == '(' {
			p.advance()
			e, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			if err := p.expectOther(')'); err != nil {
				return nil, err
			}
			return e, nil
		}
		return nil, &SyntaxError{Msg: fmt.Sprintf("unexpected token %s", p.cur)}

	case token.IDENTIFIER:
		return p.parseIdentifierExpr(false)

	case token.GLOBAL:
		p.advance()
		if p.cur.Type != token.IDENTIFIER {
			return nil, &SyntaxError{Msg: fmt.Sprintf("expected identifier after 'global', got %s", p.cur)}
		}
		return p.parseIdentifierExpr(true)

	case token.IF:
		return p.parseIf()

	case token.FOR:
		return p.parseFor()

	default:
		return nil, &SyntaxError{Msg: fmt.Sprintf("unexpected token %s", p.cur)}
	}
}

// parseIdentifierExpr implements `identifierExpr ::= ID ( '(' ... ')'
// )?`: a bare identifier is a Variable; one immediately followed by
// '(' is a Call. asGlobal marks the Variable case as originating from
// a `global` prefix (spec.md's globalExpr production); it has no
// effect on a Call.
func (p *Parser) parseIdentifierExpr(asGlobal bool) (ast.Expr, error) {
	name := p.cur.Ident
	p.advance()

	if p.cur.Type != token.OTHER || p.cur.Ch != '(' {
		return &ast.Variable{Name: name, IsGlobal: asGlobal}, nil
	}

	p.advance() // consume '('
	var args []ast.Expr
	for !(p.cur.Type == token.OTHER && p.cur.Ch == ')') {
		arg, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		if p.cur.Type == token.OTHER && p.cur.Ch == ',' {
			p.advance()
			continue
		}
		break
	}
	if err := p.expectOther(')'); err != nil {
		return nil, err
	}
	return &ast.Call{Callee: name, Args: args}, nil
}

// parseIf implements `ifExpr ::= 'if' expression 'then' expr* 'else'
// expr* 'end'`.
func (p *Parser) parseIf() (ast.Expr, error) {
	p.advance() // consume 'if'
	cond, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if p.cur.Type != token.THEN {
		return nil, &SyntaxError{Msg: fmt.Sprintf("expected 'then', got %s", p.cur)}
	}
	p.advance()

	thenBody, err := p.parseExprSequenceUntil(func(t token.Token) bool { return t.Type == token.ELSE })
	if err != nil {
		return nil, err
	}
	if p.cur.Type != token.ELSE {
		return nil, &SyntaxError{Msg: fmt.Sprintf("expected 'else', got %s", p.cur)}
	}
	p.advance()

	elseBody, err := p.parseExprSequenceUntilEnd()
	if err != nil {
		return nil, err
	}

	return &ast.If{Cond: cond, Then: thenBody, Else: elseBody}, nil
}

// parseFor implements `forExpr ::= 'for' ID '=' expression ','
// expression ',' expression 'in' expr* 'end'` — spec.md §4.B requires
// all three clauses, unlike the step-optional variant of this grammar
// some Kaleidoscope dialects allow.
func (p *Parser) parseFor() (ast.Expr, error) {
	p.advance() // consume 'for'
	varName, err := p.expectIdentifier()
	if err != nil {
		return nil, err
	}
	if p.cur.Type != token.OPERATOR || p.cur.Op != "=" {
		return nil, &SyntaxError{Msg: fmt.Sprintf("expected '=' in for-loop header, got %s", p.cur)}
	}
	p.advance()

	start, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if err := p.expectOther(','); err != nil {
		return nil, err
	}
	end, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if err := p.expectOther(','); err != nil {
		return nil, err
	}
	step, err := p.parseExpression()
	if err != nil {
		return nil, err
	}

	if p.cur.Type != token.IN {
		return nil, &SyntaxError{Msg: fmt.Sprintf("expected 'in', got %s", p.cur)}
	}
	p.advance()

	body, err := p.parseExprSequenceUntilEnd()
	if err != nil {
		return nil, err
	}

	return &ast.For{Var: varName, Start: start, End: end, Step: step, Body: body}, nil
}
