package ast

// Visitor has its Visit method invoked for each node encountered by Walk.
// If the result visitor w is not nil, Walk visits each of the children of
// node with w, followed by a call of w.Visit(nil).
type Visitor interface {
	Visit(node Node) (w Visitor)
}

// Walk traverses an AST in depth-first order, children in field order
func Walk(v Visitor, node Node) {
	if v = v.Visit(node); v == nil {
		return
	}

	switch n := node.(type) {
	case *BinOp:
		Walk(v, n.Lhs)
		Walk(v, n.Rhs)
	case *UnaryOp:
		Walk(v, n.Rhs)
	case *IfExpr:
		Walk(v, n.Condition)
		Walk(v, n.IfBranch)
		Walk(v, n.ElseBranch)
	case *SwitchExpr:
		Walk(v, n.Target)
		walkList(v, n.Branches)
	case *SwitchBranch:
		Walk(v, n.Match)
		Walk(v, n.Body)
	case *SwitchList:
		walkList(v, n.Elems)
	case *FunctionCall:
		Walk(v, n.Name)
		walkList(v, n.Args)
	case *AssignmentStmt:
		Walk(v, n.Ident)
		Walk(v, n.Value)
	case *AssignmentExpr:
		Walk(v, n.Ident)
		Walk(v, n.Value)
	case *FunctionDeclStmt:
		Walk(v, n.Name)
		walkList(v, n.Params)
		walkList(v, n.Body)
	case *ReturnStmt:
		Walk(v, n.Value)
	case *EnumDeclaration:
		walkList(v, n.Variants)
		walkList(v, n.Methods)
	case *StructDeclaration:
		walkList(v, n.Fields)
		walkList(v, n.Methods)
	case *StructInitializerPair:
		Walk(v, n.Value)
	case *StructInstantiation:
		Walk(v, n.Name)
		walkList(v, n.FieldInitializers)
	case *FieldAccess:
		Walk(v, n.Target)
		Walk(v, n.FieldName)
	case *ForStmt:
		Walk(v, n.Target)
		if n.Capture != nil {
			Walk(v, n.Capture)
		}
		walkList(v, n.Body)
	case *ForStmtCapture:
		Walk(v, n.Item)
		if n.Index != nil {
			Walk(v, n.Index)
		}
	case *WhileStmt:
		Walk(v, n.Condition)
		walkList(v, n.Body)
		if n.PostAction != nil {
			Walk(v, n.PostAction)
		}
		if n.Capture != nil {
			Walk(v, n.Capture)
		}
	case *TryExpr:
		Walk(v, n.Value)
	case *AnonArray:
		walkList(v, n.Elems)
	case *Program:
		walkList(v, n.Stmts)
	}

	v.Visit(nil)
}

func walkList[T Node](v Visitor, list []T) {
	for _, n := range list {
		Walk(v, n)
	}
}

type inspector func(Node) bool

func (f inspector) Visit(node Node) Visitor {
	if f(node) {
		return f
	}
	return nil
}

// Inspect traverses an AST in depth-first order. It starts by calling
// f(node); if f returns true, Inspect invokes f recursively for each of
// the children of node, followed by a call of f(nil).
func Inspect(node Node, f func(Node) bool) {
	Walk(inspector(f), node)
}

// CountNodes returns the number of nodes in the tree rooted at node
func CountNodes(node Node) int {
	count := 0
	Inspect(node, func(n Node) bool {
		if n != nil {
			count++
		}
		return true
	})
	return count
}
