package parser

import "github.com/msto63/lexzig/foundation/lexzig/lexer"

// Type annotations are checked for shape and then dropped; the AST keeps
// no type information.

// errorUnionType parses !T, E!T or T where T is a compound type
func (p *parser) errorUnionType() error {
	if p.match(lexer.Bang) {
		return p.compoundType()
	}
	if p.check(lexer.Ident) && p.peekAt(1).Kind == lexer.Bang {
		p.advance()
		p.advance()
	}
	return p.compoundType()
}

// compoundType parses []T, [N]T, [_]T or T
func (p *parser) compoundType() error {
	if p.match(lexer.LBrace) {
		p.match(lexer.Integer, lexer.Underscore)
		if _, err := p.expect(lexer.RBrace); err != nil {
			return err
		}
	}
	return p.typeName()
}

// typeName accepts a primitive type keyword or a user type name
func (p *parser) typeName() error {
	if p.peek().Kind.IsPrimitiveType() || p.check(lexer.Ident) {
		p.advance()
		return nil
	}
	return p.unexpected()
}
