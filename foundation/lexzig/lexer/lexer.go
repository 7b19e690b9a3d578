// File: lexer.go
// Title: Lexical Analyzer (Tokenizer)
// Description: Converts source text into tokens, tracking line and column.
//              Unrecognized characters become lexical diagnostics; the
//              scanner skips exactly one character and continues, so a full
//              token sequence is always produced.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-18
// Modified: 2026-10-18
//
// Change History:
// - 2026-10-18 v0.1.0: Initial lexer implementation

package lexer

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/msto63/lexzig/foundation/lexzig/diag"
)

// Lexer performs lexical analysis of a single source text. A Lexer is not
// safe for concurrent use; create one per input.
type Lexer struct {
	input        string
	position     int  // current position in input (points to current char)
	readPosition int  // current reading position in input (after current char)
	ch           byte // current char under examination
	line         int
	column       int

	diagnostics diag.List
}

// New creates a new lexer for the given input
func New(input string) *Lexer {
	l := &Lexer{
		input: input,
		line:  1,
	}
	l.readChar()
	return l
}

// Tokenize scans the whole input and returns its tokens together with any
// lexical diagnostics. The EOF marker is not part of the result.
func Tokenize(source string) ([]Token, diag.List) {
	l := New(source)
	var tokens []Token
	for {
		tok := l.NextToken()
		if tok.Kind == EOF {
			break
		}
		tokens = append(tokens, tok)
	}
	return tokens, l.Diagnostics()
}

// Diagnostics returns the lexical diagnostics recorded so far
func (l *Lexer) Diagnostics() diag.List {
	return l.diagnostics
}

// NextToken returns the next token, or an EOF token once the input is
// exhausted
func (l *Lexer) NextToken() Token {
	for {
		l.skipWhitespaceAndComments()
		if l.atEnd() {
			return Token{Kind: EOF, Line: l.line, Column: l.column}
		}

		line, column := l.line, l.column
		if tok, ok := l.scan(); ok {
			tok.Line = line
			tok.Column = column
			return tok
		}
	}
}

// scan reads one token starting at the current character. It returns
// false after recording a diagnostic for input that forms no token.
func (l *Lexer) scan() (Token, bool) {
	switch l.ch {
	case '(':
		return l.single(LParen), true
	case ')':
		return l.single(RParen), true
	case '{':
		return l.single(LCurly), true
	case '}':
		return l.single(RCurly), true
	case '[':
		return l.single(LBrace), true
	case ']':
		return l.single(RBrace), true
	case ':':
		return l.single(Colon), true
	case ';':
		return l.single(Semicolon), true
	case ',':
		return l.single(Comma), true
	case '|':
		return l.single(Bar), true
	case '&':
		return l.single(Ampersand), true
	case '<':
		return l.single(LessThan), true
	case '>':
		return l.single(GreaterThan), true
	case '.':
		if l.peekChar() == '.' && l.peekCharAt(2) == '.' {
			return l.multi(Ellipsis, 3), true
		}
		return l.single(Dot), true
	case '=':
		switch l.peekChar() {
		case '=':
			return l.multi(IsEqualTo, 2), true
		case '>':
			return l.multi(FatArrow, 2), true
		}
		return l.single(Equal), true
	case '!':
		if l.peekChar() == '=' {
			return l.multi(IsNotEqual, 2), true
		}
		return l.single(Bang), true
	case '+':
		return l.withAssign(Plus, PlusEqual), true
	case '-':
		return l.withAssign(Minus, MinusEqual), true
	case '*':
		return l.withAssign(Multiplication, MultEqual), true
	case '/':
		return l.withAssign(Division, DivEqual), true
	case '%':
		return l.withAssign(Module, ModEqual), true
	case '"':
		return l.readString()
	case '\'':
		return l.readCharLiteral()
	case '@':
		return l.readAt()
	}

	if isDigit(l.ch) {
		return l.readNumber()
	}
	if isLetter(l.ch) {
		text := l.readIdentifier()
		return Token{Kind: lookupIdent(text), Value: text}, true
	}

	l.illegal()
	return Token{}, false
}

func (l *Lexer) single(kind Kind) Token {
	return l.multi(kind, 1)
}

func (l *Lexer) multi(kind Kind, width int) Token {
	value := l.input[l.position : l.position+width]
	l.advance(width)
	return Token{Kind: kind, Value: value}
}

func (l *Lexer) withAssign(plain, assign Kind) Token {
	if l.peekChar() == '=' {
		return l.multi(assign, 2)
	}
	return l.single(plain)
}

// readString reads a double quoted string. The value keeps its quotes and
// no escape processing is done.
func (l *Lexer) readString() (Token, bool) {
	end := strings.IndexByte(l.input[l.position+1:], '"')
	if end < 0 {
		l.illegal()
		return Token{}, false
	}
	width := end + 2
	value := l.input[l.position : l.position+width]
	l.advance(width)
	return Token{Kind: String, Value: value}, true
}

// readCharLiteral reads a single character, or a backslash escape, between
// single quotes. The value keeps its quotes.
func (l *Lexer) readCharLiteral() (Token, bool) {
	rest := l.input[l.position+1:]

	var body int
	switch {
	case strings.HasPrefix(rest, `\`) && len(rest) >= 2:
		_, size := utf8.DecodeRuneInString(rest[1:])
		body = 1 + size
	case len(rest) > 0 && rest[0] != '\'':
		_, size := utf8.DecodeRuneInString(rest)
		body = size
	}

	if body == 0 || len(rest) <= body || rest[body] != '\'' {
		l.illegal()
		return Token{}, false
	}

	width := body + 2
	value := l.input[l.position : l.position+width]
	l.advance(width)
	return Token{Kind: Char, Value: value}, true
}

// readAt handles '@': a builtin function name or a quoted identifier
func (l *Lexer) readAt() (Token, bool) {
	next := l.peekChar()

	if next == '"' {
		end := strings.IndexByte(l.input[l.position+2:], '"')
		if end < 0 {
			l.illegal()
			return Token{}, false
		}
		value := l.input[l.position+2 : l.position+2+end]
		l.advance(end + 3)
		return Token{Kind: Ident, Value: value}, true
	}

	if isLetter(next) {
		l.readChar()
		return Token{Kind: BuiltinFunction, Value: l.readIdentifier()}, true
	}

	l.illegal()
	return Token{}, false
}

func (l *Lexer) readNumber() (Token, bool) {
	line := l.line
	start := l.position
	for isDigit(l.ch) {
		l.readChar()
	}
	text := l.input[start:l.position]

	n, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		l.diagnostics.Add(diag.NewIntegerRange(text, line))
		return Token{}, false
	}
	return Token{Kind: Integer, Value: text, Int: n}, true
}

func (l *Lexer) readIdentifier() string {
	start := l.position
	for isLetter(l.ch) || isDigit(l.ch) {
		l.readChar()
	}
	return l.input[start:l.position]
}

// illegal records the current character as unrecognized and skips it
func (l *Lexer) illegal() {
	r, size := utf8.DecodeRuneInString(l.input[l.position:])
	l.diagnostics.Add(diag.NewIllegalCharacter(r, l.line))
	l.advance(size)
}

func (l *Lexer) skipWhitespaceAndComments() {
	for !l.atEnd() {
		switch {
		case l.ch == ' ' || l.ch == '\t' || l.ch == '\n' || l.ch == '\r':
			l.readChar()
		case l.ch == '/' && l.peekChar() == '/':
			for !l.atEnd() && l.ch != '\n' {
				l.readChar()
			}
		default:
			return
		}
	}
}

// readChar reads the next character, updating line and column
func (l *Lexer) readChar() {
	if l.ch == '\n' {
		l.line++
		l.column = 0
	}
	if l.readPosition >= len(l.input) {
		l.ch = 0
	} else {
		l.ch = l.input[l.readPosition]
	}
	l.position = l.readPosition
	l.readPosition++
	l.column++
}

func (l *Lexer) advance(n int) {
	for i := 0; i < n; i++ {
		l.readChar()
	}
}

// peekChar returns the next character without advancing
func (l *Lexer) peekChar() byte {
	return l.peekCharAt(1)
}

func (l *Lexer) peekCharAt(offset int) byte {
	if l.position+offset >= len(l.input) {
		return 0
	}
	return l.input[l.position+offset]
}

func (l *Lexer) atEnd() bool {
	return l.position >= len(l.input)
}

func isLetter(ch byte) bool {
	return 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z' || ch == '_'
}

func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}
