package lexer

import (
	"encoding/json"
	"reflect"
	"sort"
	"testing"
)

type expectedToken struct {
	kind  Kind
	value string
}

func checkTokens(t *testing.T, input string, expected []expectedToken) {
	t.Helper()

	tokens, diags := Tokenize(input)
	if len(diags) > 0 {
		t.Fatalf("Unexpected diagnostics: %v", diags)
	}
	if len(tokens) != len(expected) {
		t.Fatalf("Expected %d tokens, got %d: %v", len(expected), len(tokens), tokens)
	}
	for i, exp := range expected {
		if tokens[i].Kind != exp.kind {
			t.Errorf("token[%d]: Expected kind %s, got %s", i, exp.kind, tokens[i].Kind)
		}
		if tokens[i].Value != exp.value {
			t.Errorf("token[%d]: Expected value %q, got %q", i, exp.value, tokens[i].Value)
		}
	}
}

func TestLexer_Declarations(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []expectedToken
	}{
		{
			name:  "quoted identifiers",
			input: "@\"una variable con espacios\"\n@\"while\"",
			expected: []expectedToken{
				{Ident, "una variable con espacios"},
				{Ident, "while"},
			},
		},
		{
			name:  "builtin function",
			input: `@import("std");`,
			expected: []expectedToken{
				{BuiltinFunction, "import"},
				{LParen, "("},
				{String, `"std"`},
				{RParen, ")"},
				{Semicolon, ";"},
			},
		},
		{
			name:  "const with array type",
			input: "const buffer: [100]u8 = undefined;",
			expected: []expectedToken{
				{Const, "const"},
				{Ident, "buffer"},
				{Colon, ":"},
				{LBrace, "["},
				{Integer, "100"},
				{RBrace, "]"},
				{TypeU8, "u8"},
				{Equal, "="},
				{TypeUndefined, "undefined"},
				{Semicolon, ";"},
			},
		},
		{
			name:  "var with string",
			input: `var name = "John Doe";`,
			expected: []expectedToken{
				{Var, "var"},
				{Ident, "name"},
				{Equal, "="},
				{String, `"John Doe"`},
				{Semicolon, ";"},
			},
		},
		{
			name:  "underscore discard",
			input: "_ = line; _x",
			expected: []expectedToken{
				{Underscore, "_"},
				{Equal, "="},
				{Ident, "line"},
				{Semicolon, ";"},
				{Ident, "_x"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checkTokens(t, tt.input, tt.expected)
		})
	}
}

func TestLexer_ControlFlow(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []expectedToken
	}{
		{
			name:  "if expression",
			input: "if (9 < 10) { return 42; } else { return 69; }",
			expected: []expectedToken{
				{If, "if"}, {LParen, "("}, {Integer, "9"}, {LessThan, "<"}, {Integer, "10"}, {RParen, ")"},
				{LCurly, "{"}, {Return, "return"}, {Integer, "42"}, {Semicolon, ";"}, {RCurly, "}"},
				{Else, "else"},
				{LCurly, "{"}, {Return, "return"}, {Integer, "69"}, {Semicolon, ";"}, {RCurly, "}"},
			},
		},
		{
			name: "switch expression",
			input: `var x = switch (10) {
    0...1 => 20,
    10, 100 => @divExact(10, 10),
    else => 10,
};`,
			expected: []expectedToken{
				{Var, "var"}, {Ident, "x"}, {Equal, "="}, {Switch, "switch"},
				{LParen, "("}, {Integer, "10"}, {RParen, ")"}, {LCurly, "{"},
				{Integer, "0"}, {Ellipsis, "..."}, {Integer, "1"}, {FatArrow, "=>"}, {Integer, "20"}, {Comma, ","},
				{Integer, "10"}, {Comma, ","}, {Integer, "100"}, {FatArrow, "=>"},
				{BuiltinFunction, "divExact"}, {LParen, "("}, {Integer, "10"}, {Comma, ","}, {Integer, "10"}, {RParen, ")"}, {Comma, ","},
				{Else, "else"}, {FatArrow, "=>"}, {Integer, "10"}, {Comma, ","},
				{RCurly, "}"}, {Semicolon, ";"},
			},
		},
		{
			name:  "for with captures",
			input: "for (string, 0..) |character, index| {}",
			expected: []expectedToken{
				{For, "for"}, {LParen, "("}, {Ident, "string"}, {Comma, ","}, {Integer, "0"},
				{Dot, "."}, {Dot, "."}, {RParen, ")"},
				{Bar, "|"}, {Ident, "character"}, {Comma, ","}, {Ident, "index"}, {Bar, "|"},
				{LCurly, "{"}, {RCurly, "}"},
			},
		},
		{
			name:  "while with post action",
			input: "while (i != 10) : (i += 1) {}",
			expected: []expectedToken{
				{While, "while"}, {LParen, "("}, {Ident, "i"}, {IsNotEqual, "!="}, {Integer, "10"}, {RParen, ")"},
				{Colon, ":"}, {LParen, "("}, {Ident, "i"}, {PlusEqual, "+="}, {Integer, "1"}, {RParen, ")"},
				{LCurly, "{"}, {RCurly, "}"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checkTokens(t, tt.input, tt.expected)
		})
	}
}

func TestLexer_Operators(t *testing.T) {
	input := "+ += - -= * *= / /= % %= = == => ! != < > & | . ... : ; , ( ) { } [ ]"
	expected := []expectedToken{
		{Plus, "+"}, {PlusEqual, "+="}, {Minus, "-"}, {MinusEqual, "-="},
		{Multiplication, "*"}, {MultEqual, "*="}, {Division, "/"}, {DivEqual, "/="},
		{Module, "%"}, {ModEqual, "%="}, {Equal, "="}, {IsEqualTo, "=="}, {FatArrow, "=>"},
		{Bang, "!"}, {IsNotEqual, "!="}, {LessThan, "<"}, {GreaterThan, ">"},
		{Ampersand, "&"}, {Bar, "|"}, {Dot, "."}, {Ellipsis, "..."},
		{Colon, ":"}, {Semicolon, ";"}, {Comma, ","},
		{LParen, "("}, {RParen, ")"}, {LCurly, "{"}, {RCurly, "}"}, {LBrace, "["}, {RBrace, "]"},
	}
	checkTokens(t, input, expected)
}

func TestLexer_LiteralsAndComments(t *testing.T) {
	input := "// leading comment\n" +
		"/// doc comment\n" +
		"//! module comment\n" +
		"const c = 'h'; // trailing\n" +
		"const nl = '\\n';\n" +
		"const q = '\\'';\n" +
		"const s = \"a // not a comment\";\n"

	expected := []expectedToken{
		{Const, "const"}, {Ident, "c"}, {Equal, "="}, {Char, "'h'"}, {Semicolon, ";"},
		{Const, "const"}, {Ident, "nl"}, {Equal, "="}, {Char, `'\n'`}, {Semicolon, ";"},
		{Const, "const"}, {Ident, "q"}, {Equal, "="}, {Char, `'\''`}, {Semicolon, ";"},
		{Const, "const"}, {Ident, "s"}, {Equal, "="}, {String, `"a // not a comment"`}, {Semicolon, ";"},
	}
	checkTokens(t, input, expected)
}

func TestLexer_LineTracking(t *testing.T) {
	input := "const a = 1;\n\n  var b = \"x\ny\";\nc"
	tokens, _ := Tokenize(input)

	tests := []struct {
		index  int
		kind   Kind
		line   int
		column int
	}{
		{0, Const, 1, 1},
		{4, Semicolon, 1, 12},
		{5, Var, 3, 3},
		{8, String, 3, 11},
		{10, Ident, 5, 1},
	}
	for _, tt := range tests {
		tok := tokens[tt.index]
		if tok.Kind != tt.kind || tok.Line != tt.line || tok.Column != tt.column {
			t.Errorf("token[%d]: Expected %s at %d:%d, got %s", tt.index, tt.kind, tt.line, tt.column, tok)
		}
	}
}

func TestLexer_IllegalCharacters(t *testing.T) {
	tokens, diags := Tokenize("var x = 1 $ 2;\n#\nvar s = \"open")

	if len(diags) != 3 {
		t.Fatalf("Expected 3 diagnostics, got %d: %v", len(diags), diags)
	}

	want := []struct {
		token string
		line  int
	}{
		{"$", 1},
		{"#", 2},
		{`"`, 3},
	}
	for i, w := range want {
		if diags[i].Token != w.token || diags[i].Line != w.line {
			t.Errorf("diag[%d]: Expected %q at line %d, got %q at line %d", i, w.token, w.line, diags[i].Token, diags[i].Line)
		}
	}

	// scanning continues after each illegal character
	last := tokens[len(tokens)-1]
	if last.Kind != Ident || last.Value != "open" {
		t.Errorf("Expected trailing IDENT open, got %s", last)
	}
}

func TestLexer_IntegerOutOfRange(t *testing.T) {
	tokens, diags := Tokenize("99999999999999999999 7")
	if len(diags) != 1 {
		t.Fatalf("Expected 1 diagnostic, got %v", diags)
	}
	if len(tokens) != 1 || tokens[0].Int != 7 {
		t.Errorf("Expected only INTEGER 7, got %v", tokens)
	}
}

func TestKeywordTableSorted(t *testing.T) {
	words := Keywords()
	if !sort.StringsAreSorted(words) {
		t.Fatal("keyword table must be sorted for binary search")
	}
	for i := 1; i < len(words); i++ {
		if words[i] == words[i-1] {
			t.Errorf("duplicate keyword %q", words[i])
		}
	}
}

func TestKeywordTableCompleteness(t *testing.T) {
	for _, kw := range keywordTable {
		tokens, diags := Tokenize(kw.text)
		if len(diags) != 0 || len(tokens) != 1 {
			t.Errorf("%q: Expected exactly one token, got %v %v", kw.text, tokens, diags)
			continue
		}
		if tokens[0].Kind != kw.kind || tokens[0].Kind == Ident {
			t.Errorf("%q: Expected %s, got %s", kw.text, kw.kind, tokens[0].Kind)
		}
		if tokens[0].Value != kw.text {
			t.Errorf("%q: Expected value to be keyword text, got %q", kw.text, tokens[0].Value)
		}
	}

	if _, ok := LookupKeyword("whilex"); ok {
		t.Error("Expected whilex to be an identifier")
	}
}

func TestKindNamesComplete(t *testing.T) {
	for k := EOF; k < kindCount; k++ {
		if kindNames[k] == "" {
			t.Errorf("Kind(%d) has no name", int(k))
		}
	}
	if TypeComptimeFloat.String() != "TYPE_COMPTIME_FLOAT" {
		t.Errorf("unexpected name %s", TypeComptimeFloat)
	}
}

func TestTokenizeDeterministic(t *testing.T) {
	src := "pub fn main() !void { const x = @as(u8, 1) + y; } $"
	a, da := Tokenize(src)
	b, db := Tokenize(src)
	if !reflect.DeepEqual(a, b) || !reflect.DeepEqual(da, db) {
		t.Error("Expected identical results for identical input")
	}
}

func TestTokenJSON(t *testing.T) {
	tokens, _ := Tokenize(`x = 42 "s"`)
	data, err := json.Marshal(tokens)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	want := `[{"type":"IDENT","value":"x"},{"type":"EQUAL","value":"="},{"type":"INTEGER","value":42},{"type":"STRING","value":"\"s\""}]`
	if string(data) != want {
		t.Errorf("Expected %s, got %s", want, data)
	}
}
