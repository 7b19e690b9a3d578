// File: nodes.go
// Title: AST Node Definitions
// Description: Defines the closed set of AST node variants. Three sealed
//              interfaces group them: Stmt for statements, Expr for
//              expressions (which are statements too), and SwitchMatchTarget
//              for switch branch patterns. Membership is fixed by unexported
//              marker methods, so no type outside this package can join.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-18
// Modified: 2026-10-18
//
// Change History:
// - 2026-10-18 v0.1.0: Initial AST node definitions

package ast

import "fmt"

// Kind is the discriminant of a node variant
type Kind int

const (
	KindIdentifier Kind = iota
	KindInteger
	KindString
	KindChar
	KindBinOp
	KindUnaryOp
	KindIfExpr
	KindSwitchExpr
	KindSwitchBranch
	KindSwitchRange
	KindSwitchList
	KindSwitchElse
	KindFunctionCall
	KindAssignmentStmt
	KindAssignmentExpr
	KindFunctionDeclStmt
	KindReturnStmt
	KindEnumDeclaration
	KindStructDeclaration
	KindStructInitializerPair
	KindStructInstantiation
	KindFieldAccess
	KindForStmt
	KindForStmtCapture
	KindWhileStmt
	KindTryExpr
	KindAnonArray
	KindProgram

	kindCount
)

var kindNames = [kindCount]string{
	KindIdentifier:            "Identifier",
	KindInteger:               "Integer",
	KindString:                "String",
	KindChar:                  "Char",
	KindBinOp:                 "BinOp",
	KindUnaryOp:               "UnaryOp",
	KindIfExpr:                "IfExpr",
	KindSwitchExpr:            "SwitchExpr",
	KindSwitchBranch:          "SwitchBranch",
	KindSwitchRange:           "SwitchRange",
	KindSwitchList:            "SwitchList",
	KindSwitchElse:            "SwitchElse",
	KindFunctionCall:          "FunctionCall",
	KindAssignmentStmt:        "AssignmentStmt",
	KindAssignmentExpr:        "AssignmentExpr",
	KindFunctionDeclStmt:      "FunctionDeclStmt",
	KindReturnStmt:            "ReturnStmt",
	KindEnumDeclaration:       "EnumDeclaration",
	KindStructDeclaration:     "StructDeclaration",
	KindStructInitializerPair: "StructInitializerPair",
	KindStructInstantiation:   "StructInstantiation",
	KindFieldAccess:           "FieldAccess",
	KindForStmt:               "ForStmt",
	KindForStmtCapture:        "ForStmtCapture",
	KindWhileStmt:             "WhileStmt",
	KindTryExpr:               "TryExpr",
	KindAnonArray:             "AnonArray",
	KindProgram:               "Program",
}

// String returns the variant name used as "type" in the JSON form
func (k Kind) String() string {
	if k < 0 || k >= kindCount {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// Node represents the base interface for all AST nodes
type Node interface {
	Kind() Kind
}

// Stmt is a statement. Every Expr is also a Stmt.
type Stmt interface {
	Node
	stmtNode()
}

// Expr represents the base interface for all expressions
type Expr interface {
	Stmt
	exprNode()
}

// SwitchMatchTarget is the pattern of a switch branch: Integer,
// SwitchRange, SwitchList or SwitchElse
type SwitchMatchTarget interface {
	Node
	matchTarget()
}

// AnonymousStructName names the instantiation produced by .{ .f = v }
const AnonymousStructName = "anonymous"

// Identifier is a name reference
type Identifier struct {
	Name string
}

// Integer is a decimal integer literal
type Integer struct {
	N int64
}

// String is a string literal, kept with its quotes
type String struct {
	S string
}

// Char is a character literal, kept with its quotes
type Char struct {
	C string
}

// BinOp is a binary arithmetic or comparison expression
type BinOp struct {
	Lhs Expr
	Op  string
	Rhs Expr
}

// UnaryOp is a prefix operator application; only "&" is produced
type UnaryOp struct {
	Op  string
	Rhs Expr
}

// IfExpr is an if expression with both branches
type IfExpr struct {
	Condition  Expr
	IfBranch   Expr
	ElseBranch Expr
}

// SwitchExpr selects one of its branches by the value of Target
type SwitchExpr struct {
	Target   Expr
	Branches []*SwitchBranch // declaration order
}

// SwitchBranch pairs a match pattern with the body expression
type SwitchBranch struct {
	Match SwitchMatchTarget
	Body  Expr
}

// SwitchRange matches Start..End inclusive
type SwitchRange struct {
	Start int64
	End   int64
}

// SwitchList matches any of its integers
type SwitchList struct {
	Elems []*Integer
}

// SwitchElse matches anything no other branch matches
type SwitchElse struct{}

// FunctionCall calls Name, an identifier or field access
type FunctionCall struct {
	Name Expr
	Args []Expr
}

// AssignmentStmt is a declaration or discard: var x = v; or _ = v;
type AssignmentStmt struct {
	Ident *Identifier
	Value Expr
}

// AssignmentExpr is an assignment used as an expression: x += 1
type AssignmentExpr struct {
	Ident *Identifier
	Op    string
	Value Expr
}

// FunctionDeclStmt declares a function. Parameter and return types are
// checked for syntax only and not kept.
type FunctionDeclStmt struct {
	Name   *Identifier
	Params []*Identifier
	Body   []Stmt
}

// ReturnStmt returns Value from the enclosing function
type ReturnStmt struct {
	Value Expr
}

// EnumDeclaration is an enum type expression
type EnumDeclaration struct {
	Variants []*Identifier
	Methods  []*FunctionDeclStmt
}

// StructDeclaration is a struct type expression
type StructDeclaration struct {
	Fields  []*Identifier
	Methods []*FunctionDeclStmt
}

// StructInitializerPair is one .field = value entry
type StructInitializerPair struct {
	FieldName string
	Value     Expr
}

// StructInstantiation is Name{ .f = v, ... } or .{ .f = v, ... }
type StructInstantiation struct {
	Name              *Identifier
	FieldInitializers []*StructInitializerPair
}

// FieldAccess is Target.FieldName
type FieldAccess struct {
	Target    Expr
	FieldName *Identifier
}

// ForStmt iterates Target binding Capture in Body
type ForStmt struct {
	Target  Expr
	Capture *ForStmtCapture
	Body    []Stmt
}

// ForStmtCapture is |item| or |item, index|
type ForStmtCapture struct {
	Item  *Identifier
	Index *Identifier // nil when absent
}

// WhileStmt loops while Condition holds
type WhileStmt struct {
	Condition  Expr
	Body       []Stmt
	PostAction Expr        // nil when absent
	Capture    *Identifier // nil when absent
}

// TryExpr is try Value
type TryExpr struct {
	Value Expr
}

// AnonArray is .{ e, ... }
type AnonArray struct {
	Elems []Expr
}

// Program is the root of a parsed source text
type Program struct {
	Stmts []Stmt
}

func (*Identifier) Kind() Kind            { return KindIdentifier }
func (*Integer) Kind() Kind               { return KindInteger }
func (*String) Kind() Kind                { return KindString }
func (*Char) Kind() Kind                  { return KindChar }
func (*BinOp) Kind() Kind                 { return KindBinOp }
func (*UnaryOp) Kind() Kind               { return KindUnaryOp }
func (*IfExpr) Kind() Kind                { return KindIfExpr }
func (*SwitchExpr) Kind() Kind            { return KindSwitchExpr }
func (*SwitchBranch) Kind() Kind          { return KindSwitchBranch }
func (*SwitchRange) Kind() Kind           { return KindSwitchRange }
func (*SwitchList) Kind() Kind            { return KindSwitchList }
func (*SwitchElse) Kind() Kind            { return KindSwitchElse }
func (*FunctionCall) Kind() Kind          { return KindFunctionCall }
func (*AssignmentStmt) Kind() Kind        { return KindAssignmentStmt }
func (*AssignmentExpr) Kind() Kind        { return KindAssignmentExpr }
func (*FunctionDeclStmt) Kind() Kind      { return KindFunctionDeclStmt }
func (*ReturnStmt) Kind() Kind            { return KindReturnStmt }
func (*EnumDeclaration) Kind() Kind       { return KindEnumDeclaration }
func (*StructDeclaration) Kind() Kind     { return KindStructDeclaration }
func (*StructInitializerPair) Kind() Kind { return KindStructInitializerPair }
func (*StructInstantiation) Kind() Kind   { return KindStructInstantiation }
func (*FieldAccess) Kind() Kind           { return KindFieldAccess }
func (*ForStmt) Kind() Kind               { return KindForStmt }
func (*ForStmtCapture) Kind() Kind        { return KindForStmtCapture }
func (*WhileStmt) Kind() Kind             { return KindWhileStmt }
func (*TryExpr) Kind() Kind               { return KindTryExpr }
func (*AnonArray) Kind() Kind             { return KindAnonArray }
func (*Program) Kind() Kind               { return KindProgram }

// statements
func (*AssignmentStmt) stmtNode()   {}
func (*FunctionDeclStmt) stmtNode() {}
func (*ReturnStmt) stmtNode()       {}
func (*ForStmt) stmtNode()          {}
func (*WhileStmt) stmtNode()        {}

// expressions
func (*Identifier) stmtNode()          {}
func (*Integer) stmtNode()             {}
func (*String) stmtNode()              {}
func (*Char) stmtNode()                {}
func (*BinOp) stmtNode()               {}
func (*UnaryOp) stmtNode()             {}
func (*IfExpr) stmtNode()              {}
func (*SwitchExpr) stmtNode()          {}
func (*FunctionCall) stmtNode()        {}
func (*AssignmentExpr) stmtNode()      {}
func (*EnumDeclaration) stmtNode()     {}
func (*StructDeclaration) stmtNode()   {}
func (*StructInstantiation) stmtNode() {}
func (*FieldAccess) stmtNode()         {}
func (*TryExpr) stmtNode()             {}
func (*AnonArray) stmtNode()           {}

func (*Identifier) exprNode()          {}
func (*Integer) exprNode()             {}
func (*String) exprNode()              {}
func (*Char) exprNode()                {}
func (*BinOp) exprNode()               {}
func (*UnaryOp) exprNode()             {}
func (*IfExpr) exprNode()              {}
func (*SwitchExpr) exprNode()          {}
func (*FunctionCall) exprNode()        {}
func (*AssignmentExpr) exprNode()      {}
func (*EnumDeclaration) exprNode()     {}
func (*StructDeclaration) exprNode()   {}
func (*StructInstantiation) exprNode() {}
func (*FieldAccess) exprNode()         {}
func (*TryExpr) exprNode()             {}
func (*AnonArray) exprNode()           {}

// switch patterns
func (*Integer) matchTarget()     {}
func (*SwitchRange) matchTarget() {}
func (*SwitchList) matchTarget()  {}
func (*SwitchElse) matchTarget()  {}
