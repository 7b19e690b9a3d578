// File: decl.go
// Title: Statement and Declaration Parsing
// Description: Statement level productions: variable declarations, the
//              discard form, function declarations, return, for and while
//              loops and expression statements.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-18
// Modified: 2026-10-18
//
// Change History:
// - 2026-10-18 v0.1.0: Initial implementation

package parser

import (
	"github.com/msto63/lexzig/foundation/lexzig/ast"
	"github.com/msto63/lexzig/foundation/lexzig/lexer"
)

func (p *parser) statement() (ast.Stmt, error) {
	switch p.peek().Kind {
	case lexer.Var, lexer.Const, lexer.Comptime:
		return p.varDecl()
	case lexer.Export:
		if p.peekAt(1).Kind == lexer.Function {
			return p.funcDecl()
		}
		return p.varDecl()
	case lexer.Pub, lexer.Function:
		return p.funcDecl()
	case lexer.Underscore:
		return p.discard()
	case lexer.Return:
		return p.returnStmt()
	case lexer.For:
		return p.forStmt()
	case lexer.While:
		return p.whileStmt()
	}
	return p.expressionStmt()
}

// varDecl parses [export] (var|const|comptime) name [: type] = value ;
func (p *parser) varDecl() (ast.Stmt, error) {
	p.match(lexer.Export)
	if !p.match(lexer.Var, lexer.Const, lexer.Comptime) {
		return nil, p.unexpected()
	}

	name, err := p.expect(lexer.Ident)
	if err != nil {
		return nil, err
	}

	if p.match(lexer.Colon) {
		if err := p.errorUnionType(); err != nil {
			return nil, err
		}
	}

	if _, err := p.expect(lexer.Equal); err != nil {
		return nil, err
	}

	value, err := p.expression()
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(lexer.Semicolon); err != nil {
		return nil, err
	}

	return &ast.AssignmentStmt{Ident: &ast.Identifier{Name: name.Value}, Value: value}, nil
}

// discard parses _ = value ;
func (p *parser) discard() (ast.Stmt, error) {
	underscore := p.advance()

	if _, err := p.expect(lexer.Equal); err != nil {
		return nil, err
	}

	value, err := p.expression()
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(lexer.Semicolon); err != nil {
		return nil, err
	}

	return &ast.AssignmentStmt{Ident: &ast.Identifier{Name: underscore.Value}, Value: value}, nil
}

// funcDecl parses [pub] [export] fn name(params) returnType { body }
func (p *parser) funcDecl() (*ast.FunctionDeclStmt, error) {
	p.match(lexer.Pub)
	p.match(lexer.Export)

	if _, err := p.expect(lexer.Function); err != nil {
		return nil, err
	}

	name, err := p.expect(lexer.Ident)
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(lexer.LParen); err != nil {
		return nil, err
	}

	var params []*ast.Identifier
	for !p.check(lexer.RParen) {
		param, err := p.expect(lexer.Ident)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.Colon); err != nil {
			return nil, err
		}
		if err := p.compoundType(); err != nil {
			return nil, err
		}
		params = append(params, &ast.Identifier{Name: param.Value})

		if !p.match(lexer.Comma) {
			break
		}
	}

	if _, err := p.expect(lexer.RParen); err != nil {
		return nil, err
	}

	if err := p.errorUnionType(); err != nil {
		return nil, err
	}

	body, err := p.block()
	if err != nil {
		return nil, err
	}

	return &ast.FunctionDeclStmt{
		Name:   &ast.Identifier{Name: name.Value},
		Params: params,
		Body:   body,
	}, nil
}

func (p *parser) returnStmt() (ast.Stmt, error) {
	p.advance()

	value, err := p.expression()
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(lexer.Semicolon); err != nil {
		return nil, err
	}

	return &ast.ReturnStmt{Value: value}, nil
}

// forStmt parses for (target) |item[, index]| { body }
func (p *parser) forStmt() (ast.Stmt, error) {
	p.advance()

	target, err := p.parenthesized()
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(lexer.Bar); err != nil {
		return nil, err
	}

	item, err := p.captureTarget()
	if err != nil {
		return nil, err
	}

	capture := &ast.ForStmtCapture{Item: item}
	if p.match(lexer.Comma) {
		if capture.Index, err = p.captureTarget(); err != nil {
			return nil, err
		}
	}

	if _, err := p.expect(lexer.Bar); err != nil {
		return nil, err
	}

	body, err := p.block()
	if err != nil {
		return nil, err
	}

	return &ast.ForStmt{Target: target, Capture: capture, Body: body}, nil
}

// whileStmt parses while (cond) [|capture|] [: (post)] { body }
func (p *parser) whileStmt() (ast.Stmt, error) {
	p.advance()

	cond, err := p.parenthesized()
	if err != nil {
		return nil, err
	}

	stmt := &ast.WhileStmt{Condition: cond}

	if p.match(lexer.Bar) {
		if stmt.Capture, err = p.captureTarget(); err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.Bar); err != nil {
			return nil, err
		}
	}

	if p.match(lexer.Colon) {
		if stmt.PostAction, err = p.parenthesized(); err != nil {
			return nil, err
		}
	}

	if stmt.Body, err = p.block(); err != nil {
		return nil, err
	}

	return stmt, nil
}

func (p *parser) captureTarget() (*ast.Identifier, error) {
	if p.check(lexer.Ident) || p.check(lexer.Underscore) {
		return &ast.Identifier{Name: p.advance().Value}, nil
	}
	return nil, p.unexpected()
}

func (p *parser) expressionStmt() (ast.Stmt, error) {
	expr, err := p.expression()
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(lexer.Semicolon); err != nil {
		return nil, err
	}

	return expr, nil
}

// block parses { statements }
func (p *parser) block() ([]ast.Stmt, error) {
	if _, err := p.expect(lexer.LCurly); err != nil {
		return nil, err
	}

	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()

	stmts := p.statements(true)

	if _, err := p.expect(lexer.RCurly); err != nil {
		return nil, err
	}
	return stmts, nil
}

// parenthesized parses ( expression )
func (p *parser) parenthesized() (ast.Expr, error) {
	if _, err := p.expect(lexer.LParen); err != nil {
		return nil, err
	}

	expr, err := p.expression()
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(lexer.RParen); err != nil {
		return nil, err
	}
	return expr, nil
}
