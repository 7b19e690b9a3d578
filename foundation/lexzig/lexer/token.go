// File: token.go
// Title: Token Kinds and Keyword Table
// Description: Defines the closed set of token kinds, the token value type
//              and the static keyword table. The table is a sorted array
//              searched with binary search; it is never modified after
//              program start and is safe for concurrent readers.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-18
// Modified: 2026-10-18
//
// Change History:
// - 2026-10-18 v0.1.0: Initial implementation

package lexer

import (
	"encoding/json"
	"fmt"
	"sort"
)

// Kind represents the kind of a lexical token
type Kind int

const (
	// EOF terminates the token stream handed to the parser. Tokenize never
	// returns it.
	EOF Kind = iota

	// Punctuation
	LParen    // (
	RParen    // )
	LCurly    // {
	RCurly    // }
	LBrace    // [
	RBrace    // ]
	Colon     // :
	Semicolon // ;
	Comma     // ,
	Dot       // .
	Ellipsis  // ...
	FatArrow  // =>
	Bar       // |

	// Operators
	Plus           // +
	Minus          // -
	Multiplication // *
	Division       // /
	Module         // %
	Ampersand      // &
	Bang           // !
	LessThan       // <
	GreaterThan    // >
	Equal          // =
	IsEqualTo      // ==
	IsNotEqual     // !=
	PlusEqual      // +=
	MinusEqual     // -=
	MultEqual      // *=
	DivEqual       // /=
	ModEqual       // %=

	// Literals and names
	Integer
	String
	Char
	Ident
	Underscore
	BuiltinFunction

	// Keywords
	Const
	Var
	Comptime
	Pub
	Export
	Extern
	Threadlocal
	If
	Else
	While
	For
	Switch
	Return
	Struct
	Enum
	Function
	Test
	Try

	// Primitive type names
	TypeI8
	TypeU8
	TypeI16
	TypeU16
	TypeI32
	TypeU32
	TypeI64
	TypeU64
	TypeI128
	TypeU128
	TypeIsize
	TypeUsize
	TypeCShort
	TypeCUShort
	TypeCInt
	TypeCUInt
	TypeCLong
	TypeCULong
	TypeCLongLong
	TypeCULongLong
	TypeCLongDouble
	TypeF16
	TypeF32
	TypeF64
	TypeF80
	TypeF128
	TypeBool
	TypeAnyOpaque
	TypeVoid
	TypeNoReturn
	TypeType
	TypeAnyError
	TypeAnyType
	TypeComptimeInt
	TypeComptimeFloat
	TypeNull
	TypeUndefined

	kindCount
)

var kindNames = [kindCount]string{
	EOF: "EOF",

	LParen:    "LPAREN",
	RParen:    "RPAREN",
	LCurly:    "LCURLY",
	RCurly:    "RCURLY",
	LBrace:    "LBRACE",
	RBrace:    "RBRACE",
	Colon:     "COLON",
	Semicolon: "SEMICOLON",
	Comma:     "COMMA",
	Dot:       "DOT",
	Ellipsis:  "ELLIPSIS",
	FatArrow:  "FAT_ARROW",
	Bar:       "BAR",

	Plus:           "PLUS",
	Minus:          "MINUS",
	Multiplication: "MULTIPLICATION",
	Division:       "DIVISION",
	Module:         "MODULE",
	Ampersand:      "AMPERSAND",
	Bang:           "BANG",
	LessThan:       "LT",
	GreaterThan:    "GREATER_THAN",
	Equal:          "EQUAL",
	IsEqualTo:      "IS_EQUAL_TO",
	IsNotEqual:     "IS_NOT_EQUAL",
	PlusEqual:      "PLUS_EQUAL",
	MinusEqual:     "MINUS_EQUAL",
	MultEqual:      "MULT_EQUAL",
	DivEqual:       "DIV_EQUAL",
	ModEqual:       "MOD_EQUAL",

	Integer:         "INTEGER",
	String:          "STRING",
	Char:            "CHAR",
	Ident:           "IDENT",
	Underscore:      "UNDERSCORE",
	BuiltinFunction: "BUILTIN_FUNCTION",

	Const:       "CONST",
	Var:         "VAR",
	Comptime:    "COMPTIME",
	Pub:         "PUB",
	Export:      "EXPORT",
	Extern:      "EXTERN",
	Threadlocal: "THREADLOCAL",
	If:          "IF",
	Else:        "ELSE",
	While:       "WHILE",
	For:         "FOR",
	Switch:      "SWITCH",
	Return:      "RETURN",
	Struct:      "STRUCT",
	Enum:        "ENUM",
	Function:    "FUNCTION",
	Test:        "TEST",
	Try:         "TRY",

	TypeI8:            "TYPE_I8",
	TypeU8:            "TYPE_U8",
	TypeI16:           "TYPE_I16",
	TypeU16:           "TYPE_U16",
	TypeI32:           "TYPE_I32",
	TypeU32:           "TYPE_U32",
	TypeI64:           "TYPE_I64",
	TypeU64:           "TYPE_U64",
	TypeI128:          "TYPE_I128",
	TypeU128:          "TYPE_U128",
	TypeIsize:         "TYPE_ISIZE",
	TypeUsize:         "TYPE_USIZE",
	TypeCShort:        "TYPE_C_SHORT",
	TypeCUShort:       "TYPE_C_USHORT",
	TypeCInt:          "TYPE_C_INT",
	TypeCUInt:         "TYPE_C_UINT",
	TypeCLong:         "TYPE_C_LONG",
	TypeCULong:        "TYPE_C_ULONG",
	TypeCLongLong:     "TYPE_C_LONGLONG",
	TypeCULongLong:    "TYPE_C_ULONGLONG",
	TypeCLongDouble:   "TYPE_C_LONGDOUBLE",
	TypeF16:           "TYPE_F16",
	TypeF32:           "TYPE_F32",
	TypeF64:           "TYPE_F64",
	TypeF80:           "TYPE_F80",
	TypeF128:          "TYPE_F128",
	TypeBool:          "TYPE_BOOL",
	TypeAnyOpaque:     "TYPE_ANYOPAQUE",
	TypeVoid:          "TYPE_VOID",
	TypeNoReturn:      "TYPE_NORETURN",
	TypeType:          "TYPE_TYPE",
	TypeAnyError:      "TYPE_ANYERROR",
	TypeAnyType:       "TYPE_ANYTYPE",
	TypeComptimeInt:   "TYPE_COMPTIME_INT",
	TypeComptimeFloat: "TYPE_COMPTIME_FLOAT",
	TypeNull:          "TYPE_NULL",
	TypeUndefined:     "TYPE_UNDEFINED",
}

// String returns the canonical kind name, e.g. "IDENT" or "TYPE_U8"
func (k Kind) String() string {
	if k < 0 || k >= kindCount {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// MarshalText implements encoding.TextMarshaler
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// IsPrimitiveType reports whether k names a primitive type
func (k Kind) IsPrimitiveType() bool {
	return k >= TypeI8 && k <= TypeUndefined
}

// IsAssignOp reports whether k is '=' or a compound assignment operator
func (k Kind) IsAssignOp() bool {
	switch k {
	case Equal, PlusEqual, MinusEqual, MultEqual, DivEqual, ModEqual:
		return true
	}
	return false
}

// Token represents a lexical token
type Token struct {
	Kind   Kind   // Token kind
	Value  string // Reported value: keyword text, identifier name, quoted literal
	Int    int64  // Parsed value of an INTEGER token
	Line   int    // Line number (1-based)
	Column int    // Column of the first byte (1-based)
}

// String returns a debug representation of the token
func (t Token) String() string {
	return fmt.Sprintf("%s(%q) at %d:%d", t.Kind, t.Value, t.Line, t.Column)
}

// MarshalJSON renders the canonical {"type": KIND, "value": literal} form.
// Integer tokens carry a JSON number.
func (t Token) MarshalJSON() ([]byte, error) {
	var value interface{} = t.Value
	if t.Kind == Integer {
		value = t.Int
	}
	return json.Marshal(struct {
		Type  string      `json:"type"`
		Value interface{} `json:"value"`
	}{t.Kind.String(), value})
}

type keyword struct {
	text string
	kind Kind
}

// keywordTable must stay sorted by text for LookupKeyword.
var keywordTable = [...]keyword{
	{"anyerror", TypeAnyError},
	{"anyopaque", TypeAnyOpaque},
	{"anytype", TypeAnyType},
	{"bool", TypeBool},
	{"c_int", TypeCInt},
	{"c_long", TypeCLong},
	{"c_longdouble", TypeCLongDouble},
	{"c_longlong", TypeCLongLong},
	{"c_short", TypeCShort},
	{"c_uint", TypeCUInt},
	{"c_ulong", TypeCULong},
	{"c_ulonglong", TypeCULongLong},
	{"c_ushort", TypeCUShort},
	{"comptime", Comptime},
	{"comptime_float", TypeComptimeFloat},
	{"comptime_int", TypeComptimeInt},
	{"const", Const},
	{"else", Else},
	{"enum", Enum},
	{"export", Export},
	{"extern", Extern},
	{"f128", TypeF128},
	{"f16", TypeF16},
	{"f32", TypeF32},
	{"f64", TypeF64},
	{"f80", TypeF80},
	{"fn", Function},
	{"for", For},
	{"i128", TypeI128},
	{"i16", TypeI16},
	{"i32", TypeI32},
	{"i64", TypeI64},
	{"i8", TypeI8},
	{"if", If},
	{"isize", TypeIsize},
	{"noreturn", TypeNoReturn},
	{"null", TypeNull},
	{"pub", Pub},
	{"return", Return},
	{"struct", Struct},
	{"switch", Switch},
	{"test", Test},
	{"threadlocal", Threadlocal},
	{"try", Try},
	{"type", TypeType},
	{"u128", TypeU128},
	{"u16", TypeU16},
	{"u32", TypeU32},
	{"u64", TypeU64},
	{"u8", TypeU8},
	{"undefined", TypeUndefined},
	{"usize", TypeUsize},
	{"var", Var},
	{"void", TypeVoid},
	{"while", While},
}

// LookupKeyword returns the keyword kind for text
func LookupKeyword(text string) (Kind, bool) {
	i := sort.Search(len(keywordTable), func(i int) bool {
		return keywordTable[i].text >= text
	})
	if i < len(keywordTable) && keywordTable[i].text == text {
		return keywordTable[i].kind, true
	}
	return Ident, false
}

// Keywords returns every keyword text in table order
func Keywords() []string {
	out := make([]string, len(keywordTable))
	for i, kw := range keywordTable {
		out[i] = kw.text
	}
	return out
}

// lookupIdent classifies an identifier-shaped lexeme
func lookupIdent(text string) Kind {
	if text == "_" {
		return Underscore
	}
	kind, _ := LookupKeyword(text)
	return kind
}
