// File: expr.go
// Title: Expression Parsing
// Description: Precedence climbing over the expression grammar. From the
//              loosest binding level to the tightest:
//                assignment  = += -= *= /= %=   non-associative
//                comparison  < == > !=           non-associative
//                additive    + -                 left
//                multiplicative * / %            left
//                unary       &                   prefix
//                postfix     .field  call(...)   left
//              if, switch, try and the declaration forms are primaries
//              whose trailing expression extends as far right as possible,
//              which makes else the loosest binding token of all.
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
	"github.com/msto63/lexzig/foundation/lexzig/diag"
	"github.com/msto63/lexzig/foundation/lexzig/lexer"
)

// expression parses a complete expression
func (p *parser) expression() (ast.Expr, error) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()

	return p.assignment()
}

// assignment parses name op value. Only a bare identifier can be
// assigned and the value binds at comparison level, so a = b = c fails.
func (p *parser) assignment() (ast.Expr, error) {
	if p.check(lexer.Ident) && p.peekAt(1).Kind.IsAssignOp() {
		name := p.advance()
		op := p.advance()

		value, err := p.comparison()
		if err != nil {
			return nil, err
		}
		if p.peek().Kind.IsAssignOp() {
			return nil, p.unexpected()
		}

		return &ast.AssignmentExpr{
			Ident: &ast.Identifier{Name: name.Value},
			Op:    op.Value,
			Value: value,
		}, nil
	}

	expr, err := p.comparison()
	if err != nil {
		return nil, err
	}
	if p.peek().Kind.IsAssignOp() {
		return nil, p.unexpected()
	}
	return expr, nil
}

func isComparison(kind lexer.Kind) bool {
	switch kind {
	case lexer.LessThan, lexer.GreaterThan, lexer.IsEqualTo, lexer.IsNotEqual:
		return true
	}
	return false
}

// comparison allows at most one comparison operator
func (p *parser) comparison() (ast.Expr, error) {
	lhs, err := p.additive()
	if err != nil {
		return nil, err
	}

	if !isComparison(p.peek().Kind) {
		return lhs, nil
	}

	op := p.advance()
	rhs, err := p.additive()
	if err != nil {
		return nil, err
	}
	if isComparison(p.peek().Kind) {
		return nil, p.unexpected()
	}

	return &ast.BinOp{Lhs: lhs, Op: op.Value, Rhs: rhs}, nil
}

func (p *parser) additive() (ast.Expr, error) {
	line := p.peek().Line

	expr, err := p.multiplicative()
	if err != nil {
		return nil, err
	}

	for p.check(lexer.Plus) || p.check(lexer.Minus) {
		op := p.advance()
		rhs, err := p.multiplicative()
		if err != nil {
			return nil, err
		}
		if expr, err = p.binary(expr, op, rhs, line); err != nil {
			return nil, err
		}
	}
	return expr, nil
}

func (p *parser) multiplicative() (ast.Expr, error) {
	line := p.peek().Line

	expr, err := p.unary()
	if err != nil {
		return nil, err
	}

	for p.check(lexer.Multiplication) || p.check(lexer.Division) || p.check(lexer.Module) {
		op := p.advance()
		rhs, err := p.unary()
		if err != nil {
			return nil, err
		}
		if expr, err = p.binary(expr, op, rhs, line); err != nil {
			return nil, err
		}
	}
	return expr, nil
}

// binary builds an arithmetic node after checking literal operands. line
// is the line the left operand starts on.
func (p *parser) binary(lhs ast.Expr, op lexer.Token, rhs ast.Expr, line int) (ast.Expr, error) {
	if op.Kind != lexer.Module && !p.options.DisableLiteralCheck {
		if d := checkOperands(op.Value, lhs, rhs, line); d != nil {
			return nil, d
		}
	}
	return &ast.BinOp{Lhs: lhs, Op: op.Value, Rhs: rhs}, nil
}

// literalKind names the literal variant of e, or returns "" when e is not
// a literal
func literalKind(e ast.Expr) string {
	switch e.(type) {
	case *ast.Integer:
		return "Integer"
	case *ast.String:
		return "String"
	case *ast.Char:
		return "Char"
	}
	return ""
}

// checkOperands rejects arithmetic between literals of different kinds.
// The left operand decides the expected kind unless it is a Char.
func checkOperands(op string, lhs, rhs ast.Expr, line int) *diag.Diagnostic {
	l, r := literalKind(lhs), literalKind(rhs)
	if l == "" || r == "" || l == r {
		return nil
	}

	expected := l
	if l == "Char" {
		expected = r
	}
	return diag.NewTypeMismatch(op, expected, l, r, line)
}

func (p *parser) unary() (ast.Expr, error) {
	if !p.check(lexer.Ampersand) {
		return p.postfix()
	}
	op := p.advance()

	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()

	rhs, err := p.unary()
	if err != nil {
		return nil, err
	}
	return &ast.UnaryOp{Op: op.Value, Rhs: rhs}, nil
}

// postfix applies field accesses and calls left to right
func (p *parser) postfix() (ast.Expr, error) {
	expr, err := p.primary()
	if err != nil {
		return nil, err
	}

	for {
		switch {
		case p.match(lexer.Dot):
			field, err := p.expect(lexer.Ident)
			if err != nil {
				return nil, err
			}
			expr = &ast.FieldAccess{Target: expr, FieldName: &ast.Identifier{Name: field.Value}}

		case p.match(lexer.LParen):
			args, err := p.expressionList(lexer.RParen)
			if err != nil {
				return nil, err
			}
			expr = &ast.FunctionCall{Name: expr, Args: args}

		default:
			return expr, nil
		}
	}
}

// expressionList parses comma separated expressions up to and including
// the closing token. A trailing comma is allowed.
func (p *parser) expressionList(closing lexer.Kind) ([]ast.Expr, error) {
	var list []ast.Expr
	for !p.check(closing) {
		expr, err := p.expression()
		if err != nil {
			return nil, err
		}
		list = append(list, expr)

		if !p.match(lexer.Comma) {
			break
		}
	}

	if _, err := p.expect(closing); err != nil {
		return nil, err
	}
	return list, nil
}

func (p *parser) primary() (ast.Expr, error) {
	tok := p.peek()

	switch tok.Kind {
	case lexer.Integer:
		p.advance()
		return &ast.Integer{N: tok.Int}, nil

	case lexer.String:
		p.advance()
		return &ast.String{S: tok.Value}, nil

	case lexer.Char:
		p.advance()
		return &ast.Char{C: tok.Value}, nil

	case lexer.Ident:
		if p.peekAt(1).Kind == lexer.LCurly {
			return p.structInstantiation()
		}
		p.advance()
		return &ast.Identifier{Name: tok.Value}, nil

	case lexer.BuiltinFunction, lexer.TypeUndefined, lexer.TypeNull:
		p.advance()
		return &ast.Identifier{Name: tok.Value}, nil

	case lexer.LParen:
		return p.parenthesized()

	case lexer.Dot:
		if p.peekAt(1).Kind == lexer.LCurly {
			return p.anonymousLiteral()
		}

	case lexer.If:
		return p.ifExpr()

	case lexer.Switch:
		return p.switchExpr()

	case lexer.Struct:
		return p.structDecl()

	case lexer.Enum:
		return p.enumDecl()

	case lexer.Try:
		p.advance()
		value, err := p.expression()
		if err != nil {
			return nil, err
		}
		return &ast.TryExpr{Value: value}, nil
	}

	return nil, p.unexpected()
}

// ifExpr parses if (cond) then else otherwise; both branches are required
func (p *parser) ifExpr() (ast.Expr, error) {
	p.advance()

	cond, err := p.parenthesized()
	if err != nil {
		return nil, err
	}

	then, err := p.expression()
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(lexer.Else); err != nil {
		return nil, err
	}

	otherwise, err := p.expression()
	if err != nil {
		return nil, err
	}

	return &ast.IfExpr{Condition: cond, IfBranch: then, ElseBranch: otherwise}, nil
}

// switchExpr parses switch (target) { match => body, ... }
func (p *parser) switchExpr() (ast.Expr, error) {
	p.advance()

	target, err := p.parenthesized()
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(lexer.LCurly); err != nil {
		return nil, err
	}

	sw := &ast.SwitchExpr{Target: target}
	for {
		branch, err := p.switchBranch()
		if err != nil {
			return nil, err
		}
		sw.Branches = append(sw.Branches, branch)

		if !p.match(lexer.Comma) || p.check(lexer.RCurly) {
			break
		}
	}

	if _, err := p.expect(lexer.RCurly); err != nil {
		return nil, err
	}
	return sw, nil
}

func (p *parser) switchBranch() (*ast.SwitchBranch, error) {
	match, err := p.switchMatch()
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(lexer.FatArrow); err != nil {
		return nil, err
	}

	body, err := p.expression()
	if err != nil {
		return nil, err
	}

	return &ast.SwitchBranch{Match: match, Body: body}, nil
}

// switchMatch parses else, N...M, N or N, M, ...
func (p *parser) switchMatch() (ast.SwitchMatchTarget, error) {
	if p.match(lexer.Else) {
		return &ast.SwitchElse{}, nil
	}

	first, err := p.expect(lexer.Integer)
	if err != nil {
		return nil, err
	}

	if p.match(lexer.Ellipsis) {
		last, err := p.expect(lexer.Integer)
		if err != nil {
			return nil, err
		}
		return &ast.SwitchRange{Start: first.Int, End: last.Int}, nil
	}

	if !p.check(lexer.Comma) || p.peekAt(1).Kind != lexer.Integer {
		return &ast.Integer{N: first.Int}, nil
	}

	list := &ast.SwitchList{Elems: []*ast.Integer{{N: first.Int}}}
	for p.check(lexer.Comma) && p.peekAt(1).Kind == lexer.Integer {
		p.advance()
		list.Elems = append(list.Elems, &ast.Integer{N: p.advance().Int})
	}
	return list, nil
}

// structDecl parses struct { field: type, ... fn ... }. Fields and
// methods may appear in any order; the comma after the last field is
// optional.
func (p *parser) structDecl() (ast.Expr, error) {
	p.advance()

	if _, err := p.expect(lexer.LCurly); err != nil {
		return nil, err
	}

	decl := &ast.StructDeclaration{}
	for !p.check(lexer.RCurly) {
		if p.isFuncDeclStart() {
			method, err := p.funcDecl()
			if err != nil {
				return nil, err
			}
			decl.Methods = append(decl.Methods, method)
			continue
		}

		field, err := p.expect(lexer.Ident)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.Colon); err != nil {
			return nil, err
		}
		if err := p.compoundType(); err != nil {
			return nil, err
		}
		decl.Fields = append(decl.Fields, &ast.Identifier{Name: field.Value})

		if !p.match(lexer.Comma) && !p.check(lexer.RCurly) && !p.isFuncDeclStart() {
			return nil, p.unexpected()
		}
	}

	if _, err := p.expect(lexer.RCurly); err != nil {
		return nil, err
	}
	return decl, nil
}

// enumDecl parses enum { Variant, ... fn ... } with at least one variant
func (p *parser) enumDecl() (ast.Expr, error) {
	p.advance()

	if _, err := p.expect(lexer.LCurly); err != nil {
		return nil, err
	}

	decl := &ast.EnumDeclaration{}
	for {
		variant, err := p.expect(lexer.Ident)
		if err != nil {
			return nil, err
		}
		decl.Variants = append(decl.Variants, &ast.Identifier{Name: variant.Value})

		if !p.match(lexer.Comma) || !p.check(lexer.Ident) {
			break
		}
	}

	for p.isFuncDeclStart() {
		method, err := p.funcDecl()
		if err != nil {
			return nil, err
		}
		decl.Methods = append(decl.Methods, method)
	}

	if _, err := p.expect(lexer.RCurly); err != nil {
		return nil, err
	}
	return decl, nil
}

func (p *parser) isFuncDeclStart() bool {
	switch p.peek().Kind {
	case lexer.Pub, lexer.Function:
		return true
	case lexer.Export:
		return p.peekAt(1).Kind == lexer.Function
	}
	return false
}

// structInstantiation parses Name{ .field = value, ... }
func (p *parser) structInstantiation() (ast.Expr, error) {
	name := p.advance()
	p.advance()

	pairs, err := p.initializers()
	if err != nil {
		return nil, err
	}

	return &ast.StructInstantiation{
		Name:              &ast.Identifier{Name: name.Value},
		FieldInitializers: pairs,
	}, nil
}

// anonymousLiteral parses .{ .field = value, ... } as an anonymous struct
// instantiation and any other .{ ... } as an array literal
func (p *parser) anonymousLiteral() (ast.Expr, error) {
	p.advance()
	p.advance()

	if p.check(lexer.Dot) && p.peekAt(1).Kind == lexer.Ident && p.peekAt(2).Kind == lexer.Equal {
		pairs, err := p.initializers()
		if err != nil {
			return nil, err
		}
		return &ast.StructInstantiation{
			Name:              &ast.Identifier{Name: ast.AnonymousStructName},
			FieldInitializers: pairs,
		}, nil
	}

	elems, err := p.expressionList(lexer.RCurly)
	if err != nil {
		return nil, err
	}
	return &ast.AnonArray{Elems: elems}, nil
}

// initializers parses .field = value pairs up to and including '}'
func (p *parser) initializers() ([]*ast.StructInitializerPair, error) {
	var pairs []*ast.StructInitializerPair
	for !p.check(lexer.RCurly) {
		if _, err := p.expect(lexer.Dot); err != nil {
			return nil, err
		}
		field, err := p.expect(lexer.Ident)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.Equal); err != nil {
			return nil, err
		}

		value, err := p.expression()
		if err != nil {
			return nil, err
		}
		pairs = append(pairs, &ast.StructInitializerPair{FieldName: field.Value, Value: value})

		if !p.match(lexer.Comma) {
			break
		}
	}

	if _, err := p.expect(lexer.RCurly); err != nil {
		return nil, err
	}
	return pairs, nil
}
