package ast

import "encoding/json"

// Every node marshals to an object whose "type" member is the variant name
// followed by one member per node field. Nil lists are written as [] and
// absent optional children as null.

func list[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

func (n *Identifier) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type string `json:"type"`
		Name string `json:"name"`
	}{"Identifier", n.Name})
}

func (n *Integer) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type string `json:"type"`
		N    int64  `json:"n"`
	}{"Integer", n.N})
}

func (n *String) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type string `json:"type"`
		S    string `json:"s"`
	}{"String", n.S})
}

func (n *Char) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type string `json:"type"`
		C    string `json:"c"`
	}{"Char", n.C})
}

func (n *BinOp) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type string `json:"type"`
		Lhs  Expr   `json:"lhs"`
		Op   string `json:"op"`
		Rhs  Expr   `json:"rhs"`
	}{"BinOp", n.Lhs, n.Op, n.Rhs})
}

func (n *UnaryOp) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type string `json:"type"`
		Op   string `json:"op"`
		Rhs  Expr   `json:"rhs"`
	}{"UnaryOp", n.Op, n.Rhs})
}

func (n *IfExpr) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type       string `json:"type"`
		Condition  Expr   `json:"condition"`
		IfBranch   Expr   `json:"ifBranch"`
		ElseBranch Expr   `json:"elseBranch"`
	}{"IfExpr", n.Condition, n.IfBranch, n.ElseBranch})
}

func (n *SwitchExpr) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type     string          `json:"type"`
		Target   Expr            `json:"target"`
		Branches []*SwitchBranch `json:"branches"`
	}{"SwitchExpr", n.Target, list(n.Branches)})
}

func (n *SwitchBranch) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type  string            `json:"type"`
		Match SwitchMatchTarget `json:"match"`
		Body  Expr              `json:"body"`
	}{"SwitchBranch", n.Match, n.Body})
}

func (n *SwitchRange) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type  string `json:"type"`
		Start int64  `json:"start"`
		End   int64  `json:"end"`
	}{"SwitchRange", n.Start, n.End})
}

func (n *SwitchList) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type  string     `json:"type"`
		Elems []*Integer `json:"elems"`
	}{"SwitchList", list(n.Elems)})
}

func (n *SwitchElse) MarshalJSON() ([]byte, error) {
	return []byte(`{"type":"SwitchElse"}`), nil
}

func (n *FunctionCall) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type string `json:"type"`
		Name Expr   `json:"name"`
		Args []Expr `json:"args"`
	}{"FunctionCall", n.Name, list(n.Args)})
}

func (n *AssignmentStmt) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type  string      `json:"type"`
		Ident *Identifier `json:"ident"`
		Value Expr        `json:"value"`
	}{"AssignmentStmt", n.Ident, n.Value})
}

func (n *AssignmentExpr) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type  string      `json:"type"`
		Ident *Identifier `json:"ident"`
		Op    string      `json:"op"`
		Value Expr        `json:"value"`
	}{"AssignmentExpr", n.Ident, n.Op, n.Value})
}

func (n *FunctionDeclStmt) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type   string        `json:"type"`
		Name   *Identifier   `json:"name"`
		Params []*Identifier `json:"params"`
		Body   []Stmt        `json:"body"`
	}{"FunctionDeclStmt", n.Name, list(n.Params), list(n.Body)})
}

func (n *ReturnStmt) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type  string `json:"type"`
		Value Expr   `json:"value"`
	}{"ReturnStmt", n.Value})
}

func (n *EnumDeclaration) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type     string              `json:"type"`
		Variants []*Identifier       `json:"variants"`
		Methods  []*FunctionDeclStmt `json:"methods"`
	}{"EnumDeclaration", list(n.Variants), list(n.Methods)})
}

func (n *StructDeclaration) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type    string              `json:"type"`
		Fields  []*Identifier       `json:"fields"`
		Methods []*FunctionDeclStmt `json:"methods"`
	}{"StructDeclaration", list(n.Fields), list(n.Methods)})
}

func (n *StructInitializerPair) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type      string `json:"type"`
		FieldName string `json:"field_name"`
		Value     Expr   `json:"value"`
	}{"StructInitializerPair", n.FieldName, n.Value})
}

func (n *StructInstantiation) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type              string                   `json:"type"`
		Name              *Identifier              `json:"name"`
		FieldInitializers []*StructInitializerPair `json:"field_initializers"`
	}{"StructInstantiation", n.Name, list(n.FieldInitializers)})
}

func (n *FieldAccess) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type      string      `json:"type"`
		Target    Expr        `json:"target"`
		FieldName *Identifier `json:"field_name"`
	}{"FieldAccess", n.Target, n.FieldName})
}

func (n *ForStmt) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type    string          `json:"type"`
		Target  Expr            `json:"target"`
		Capture *ForStmtCapture `json:"capture"`
		Body    []Stmt          `json:"body"`
	}{"ForStmt", n.Target, n.Capture, list(n.Body)})
}

func (n *ForStmtCapture) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type  string      `json:"type"`
		Item  *Identifier `json:"item"`
		Index *Identifier `json:"index"`
	}{"ForStmtCapture", n.Item, n.Index})
}

func (n *WhileStmt) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type       string      `json:"type"`
		Condition  Expr        `json:"condition"`
		Body       []Stmt      `json:"body"`
		PostAction Expr        `json:"post_action"`
		Capture    *Identifier `json:"capture"`
	}{"WhileStmt", n.Condition, list(n.Body), n.PostAction, n.Capture})
}

func (n *TryExpr) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type  string `json:"type"`
		Value Expr   `json:"value"`
	}{"TryExpr", n.Value})
}

func (n *AnonArray) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type  string `json:"type"`
		Elems []Expr `json:"elems"`
	}{"AnonArray", list(n.Elems)})
}

func (n *Program) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type  string `json:"type"`
		Stmts []Stmt `json:"stmts"`
	}{"Program", list(n.Stmts)})
}
