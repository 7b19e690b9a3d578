// File: format.go
// Title: Canonical Text Form
// Description: Renders nodes in the Variant(field, ...) notation, e.g.
//              BinOp(Integer(1), "+", Integer(2)). Strings are Go-quoted,
//              lists are bracketed and absent optional children print as nil.
//              The REPL prints this form and the parser tests compare it.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-18
// Modified: 2026-10-18
//
// Change History:
// - 2026-10-18 v0.1.0: Initial implementation

package ast

import (
	"fmt"
	"strings"
)

// Format returns the canonical text form of n
func Format(n Node) string {
	p := &printer{}
	p.node(n)
	return p.String()
}

// FormatIndent renders a program one top-level statement per line
func FormatIndent(prog *Program) string {
	if prog == nil {
		return "nil"
	}
	if len(prog.Stmts) == 0 {
		return "Program([])"
	}

	p := &printer{}
	p.WriteString("Program([\n")
	for _, s := range prog.Stmts {
		p.WriteString("    ")
		p.node(s)
		p.WriteString(",\n")
	}
	p.WriteString("])")
	return p.String()
}

type printer struct {
	strings.Builder
}

func (p *printer) node(n Node) {
	switch n := n.(type) {
	case nil:
		p.WriteString("nil")
	case *Identifier:
		p.ident(n)
	case *Integer:
		p.integer(n)
	case *String:
		fmt.Fprintf(p, "String(%q)", n.S)
	case *Char:
		fmt.Fprintf(p, "Char(%q)", n.C)
	case *BinOp:
		p.WriteString("BinOp(")
		p.node(n.Lhs)
		fmt.Fprintf(p, ", %q, ", n.Op)
		p.node(n.Rhs)
		p.WriteByte(')')
	case *UnaryOp:
		fmt.Fprintf(p, "UnaryOp(%q, ", n.Op)
		p.node(n.Rhs)
		p.WriteByte(')')
	case *IfExpr:
		p.WriteString("IfExpr(")
		p.node(n.Condition)
		p.WriteString(", ")
		p.node(n.IfBranch)
		p.WriteString(", ")
		p.node(n.ElseBranch)
		p.WriteByte(')')
	case *SwitchExpr:
		p.WriteString("SwitchExpr(")
		p.node(n.Target)
		p.WriteString(", ")
		writeList(p, n.Branches)
		p.WriteByte(')')
	case *SwitchBranch:
		p.WriteString("SwitchBranch(")
		p.node(n.Match)
		p.WriteString(", ")
		p.node(n.Body)
		p.WriteByte(')')
	case *SwitchRange:
		fmt.Fprintf(p, "SwitchRange(%d, %d)", n.Start, n.End)
	case *SwitchList:
		p.WriteString("SwitchList(")
		writeList(p, n.Elems)
		p.WriteByte(')')
	case *SwitchElse:
		p.WriteString("SwitchElse()")
	case *FunctionCall:
		p.WriteString("FunctionCall(")
		p.node(n.Name)
		p.WriteString(", ")
		writeList(p, n.Args)
		p.WriteByte(')')
	case *AssignmentStmt:
		p.WriteString("AssignmentStmt(")
		p.ident(n.Ident)
		p.WriteString(", ")
		p.node(n.Value)
		p.WriteByte(')')
	case *AssignmentExpr:
		p.WriteString("AssignmentExpr(")
		p.ident(n.Ident)
		fmt.Fprintf(p, ", %q, ", n.Op)
		p.node(n.Value)
		p.WriteByte(')')
	case *FunctionDeclStmt:
		p.funcDecl(n)
	case *ReturnStmt:
		p.WriteString("ReturnStmt(")
		p.node(n.Value)
		p.WriteByte(')')
	case *EnumDeclaration:
		p.WriteString("EnumDeclaration(")
		writeList(p, n.Variants)
		p.WriteString(", ")
		writeList(p, n.Methods)
		p.WriteByte(')')
	case *StructDeclaration:
		p.WriteString("StructDeclaration(")
		writeList(p, n.Fields)
		p.WriteString(", ")
		writeList(p, n.Methods)
		p.WriteByte(')')
	case *StructInitializerPair:
		fmt.Fprintf(p, "StructInitializerPair(%q, ", n.FieldName)
		p.node(n.Value)
		p.WriteByte(')')
	case *StructInstantiation:
		p.WriteString("StructInstantiation(")
		p.ident(n.Name)
		p.WriteString(", ")
		writeList(p, n.FieldInitializers)
		p.WriteByte(')')
	case *FieldAccess:
		p.WriteString("FieldAccess(")
		p.node(n.Target)
		p.WriteString(", ")
		p.ident(n.FieldName)
		p.WriteByte(')')
	case *ForStmt:
		p.WriteString("ForStmt(")
		p.node(n.Target)
		p.WriteString(", ")
		p.capture(n.Capture)
		p.WriteString(", ")
		writeList(p, n.Body)
		p.WriteByte(')')
	case *ForStmtCapture:
		p.capture(n)
	case *WhileStmt:
		p.WriteString("WhileStmt(")
		p.node(n.Condition)
		p.WriteString(", ")
		writeList(p, n.Body)
		p.WriteString(", ")
		p.node(n.PostAction)
		p.WriteString(", ")
		p.ident(n.Capture)
		p.WriteByte(')')
	case *TryExpr:
		p.WriteString("TryExpr(")
		p.node(n.Value)
		p.WriteByte(')')
	case *AnonArray:
		p.WriteString("AnonArray(")
		writeList(p, n.Elems)
		p.WriteByte(')')
	case *Program:
		p.WriteString("Program(")
		writeList(p, n.Stmts)
		p.WriteByte(')')
	default:
		fmt.Fprintf(p, "%T", n)
	}
}

// The typed helpers below take pointers so optional children print as nil
// instead of being wrapped in a non-nil interface.

func (p *printer) ident(n *Identifier) {
	if n == nil {
		p.WriteString("nil")
		return
	}
	fmt.Fprintf(p, "Identifier(%q)", n.Name)
}

func (p *printer) integer(n *Integer) {
	if n == nil {
		p.WriteString("nil")
		return
	}
	fmt.Fprintf(p, "Integer(%d)", n.N)
}

func (p *printer) capture(n *ForStmtCapture) {
	if n == nil {
		p.WriteString("nil")
		return
	}
	p.WriteString("ForStmtCapture(")
	p.ident(n.Item)
	p.WriteString(", ")
	p.ident(n.Index)
	p.WriteByte(')')
}

func (p *printer) funcDecl(n *FunctionDeclStmt) {
	if n == nil {
		p.WriteString("nil")
		return
	}
	p.WriteString("FunctionDeclStmt(")
	p.ident(n.Name)
	p.WriteString(", ")
	writeList(p, n.Params)
	p.WriteString(", ")
	writeList(p, n.Body)
	p.WriteByte(')')
}

func writeList[T Node](p *printer, items []T) {
	p.WriteByte('[')
	for i, item := range items {
		if i > 0 {
			p.WriteString(", ")
		}
		p.node(item)
	}
	p.WriteByte(']')
}
