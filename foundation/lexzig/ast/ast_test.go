package ast

import (
	"encoding/json"
	"strings"
	"testing"
)

func ident(name string) *Identifier { return &Identifier{Name: name} }
func integer(n int64) *Integer       { return &Integer{N: n} }

func TestKindString(t *testing.T) {
	tests := []struct {
		node Node
		want string
	}{
		{ident("x"), "Identifier"},
		{integer(1), "Integer"},
		{&SwitchElse{}, "SwitchElse"},
		{&StructInitializerPair{}, "StructInitializerPair"},
		{&Program{}, "Program"},
	}

	for _, tt := range tests {
		if got := tt.node.Kind().String(); got != tt.want {
			t.Errorf("Expected %s, got %s", tt.want, got)
		}
	}

	if got := Kind(999).String(); got != "Kind(999)" {
		t.Errorf("Expected Kind(999), got %s", got)
	}
}

func TestFormat(t *testing.T) {
	tests := []struct {
		name string
		node Node
		want string
	}{
		{
			name: "assignment",
			node: &Program{Stmts: []Stmt{&AssignmentStmt{Ident: ident("x"), Value: integer(1)}}},
			want: `Program([AssignmentStmt(Identifier("x"), Integer(1))])`,
		},
		{
			name: "binop",
			node: &BinOp{Lhs: integer(1), Op: "+", Rhs: &BinOp{Lhs: integer(2), Op: "*", Rhs: integer(3)}},
			want: `BinOp(Integer(1), "+", BinOp(Integer(2), "*", Integer(3)))`,
		},
		{
			name: "string keeps quotes",
			node: &String{S: `"hi"`},
			want: `String("\"hi\"")`,
		},
		{
			name: "switch patterns",
			node: &SwitchExpr{
				Target: ident("x"),
				Branches: []*SwitchBranch{
					{Match: &SwitchRange{Start: 0, End: 1}, Body: integer(1)},
					{Match: &SwitchList{Elems: []*Integer{integer(2), integer(3)}}, Body: integer(2)},
					{Match: &SwitchElse{}, Body: integer(3)},
				},
			},
			want: `SwitchExpr(Identifier("x"), [SwitchBranch(SwitchRange(0, 1), Integer(1)), ` +
				`SwitchBranch(SwitchList([Integer(2), Integer(3)]), Integer(2)), SwitchBranch(SwitchElse(), Integer(3))])`,
		},
		{
			name: "for without index",
			node: &ForStmt{Target: ident("s"), Capture: &ForStmtCapture{Item: ident("c")}},
			want: `ForStmt(Identifier("s"), ForStmtCapture(Identifier("c"), nil), [])`,
		},
		{
			name: "while without optionals",
			node: &WhileStmt{Condition: ident("ok")},
			want: `WhileStmt(Identifier("ok"), [], nil, nil)`,
		},
		{
			name: "struct instantiation",
			node: &StructInstantiation{
				Name:              ident(AnonymousStructName),
				FieldInitializers: []*StructInitializerPair{{FieldName: "x", Value: integer(1)}},
			},
			want: `StructInstantiation(Identifier("anonymous"), [StructInitializerPair("x", Integer(1))])`,
		},
		{
			name: "nil",
			node: nil,
			want: "nil",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Format(tt.node); got != tt.want {
				t.Errorf("Expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestFormatIndent(t *testing.T) {
	prog := &Program{Stmts: []Stmt{
		&AssignmentStmt{Ident: ident("x"), Value: integer(1)},
		&ReturnStmt{Value: ident("x")},
	}}

	want := "Program([\n" +
		"    AssignmentStmt(Identifier(\"x\"), Integer(1)),\n" +
		"    ReturnStmt(Identifier(\"x\")),\n" +
		"])"
	if got := FormatIndent(prog); got != want {
		t.Errorf("Expected %s, got %s", want, got)
	}

	if got := FormatIndent(&Program{}); got != "Program([])" {
		t.Errorf("Expected Program([]), got %s", got)
	}
}

func TestMarshalJSON(t *testing.T) {
	tests := []struct {
		name string
		node Node
		want string
	}{
		{
			name: "identifier",
			node: ident("x"),
			want: `{"type":"Identifier","name":"x"}`,
		},
		{
			name: "empty program",
			node: &Program{},
			want: `{"type":"Program","stmts":[]}`,
		},
		{
			name: "switch else",
			node: &SwitchElse{},
			want: `{"type":"SwitchElse"}`,
		},
		{
			name: "while optionals",
			node: &WhileStmt{Condition: ident("ok")},
			want: `{"type":"WhileStmt","condition":{"type":"Identifier","name":"ok"},"body":[],"post_action":null,"capture":null}`,
		},
		{
			name: "function decl",
			node: &FunctionDeclStmt{Name: ident("main")},
			want: `{"type":"FunctionDeclStmt","name":{"type":"Identifier","name":"main"},"params":[],"body":[]}`,
		},
		{
			name: "nested binop",
			node: &BinOp{Lhs: integer(1), Op: "<", Rhs: integer(2)},
			want: `{"type":"BinOp","lhs":{"type":"Integer","n":1},"op":"<","rhs":{"type":"Integer","n":2}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.node)
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if string(data) != tt.want {
				t.Errorf("Expected %s, got %s", tt.want, data)
			}
		})
	}
}

func TestMarshalJSONHasTypeEverywhere(t *testing.T) {
	prog := &Program{Stmts: []Stmt{
		&FunctionDeclStmt{
			Name:   ident("f"),
			Params: []*Identifier{ident("a")},
			Body: []Stmt{
				&ForStmt{Target: ident("a"), Capture: &ForStmtCapture{Item: ident("i"), Index: ident("n")}},
				&ReturnStmt{Value: &TryExpr{Value: &FunctionCall{Name: ident("g"), Args: []Expr{&AnonArray{}}}}},
			},
		},
	}}

	data, err := json.Marshal(prog)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	var decoded any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	var check func(v any)
	check = func(v any) {
		switch v := v.(type) {
		case map[string]any:
			if _, ok := v["type"]; !ok {
				t.Errorf("Expected type member in %v", v)
			}
			for _, child := range v {
				check(child)
			}
		case []any:
			for _, child := range v {
				check(child)
			}
		}
	}
	check(decoded)
}

func TestSelectBranch(t *testing.T) {
	sw := &SwitchExpr{
		Target: ident("x"),
		Branches: []*SwitchBranch{
			{Match: &SwitchElse{}, Body: &String{S: `"other"`}},
			{Match: &SwitchRange{Start: 0, End: 1}, Body: &String{S: `"low"`}},
			{Match: &SwitchList{Elems: []*Integer{integer(2), integer(3)}}, Body: &String{S: `"mid"`}},
			{Match: integer(1), Body: &String{S: `"shadowed"`}},
			{Match: integer(4), Body: &String{S: `"four"`}},
		},
	}

	tests := []struct {
		value int64
		want  string
	}{
		{0, `"low"`},
		{1, `"low"`},
		{2, `"mid"`},
		{3, `"mid"`},
		{4, `"four"`},
		{99, `"other"`},
		{-1, `"other"`},
	}

	for _, tt := range tests {
		b, ok := SelectBranch(sw, tt.value)
		if !ok {
			t.Errorf("Expected a branch for %d", tt.value)
			continue
		}
		if got := b.Body.(*String).S; got != tt.want {
			t.Errorf("Value %d: expected %s, got %s", tt.value, tt.want, got)
		}
	}

	if !HasElse(sw) {
		t.Error("Expected switch to have an else branch")
	}
}

func TestSelectBranchNoElse(t *testing.T) {
	sw := &SwitchExpr{
		Target:   ident("x"),
		Branches: []*SwitchBranch{{Match: integer(1), Body: integer(10)}},
	}

	if _, ok := SelectBranch(sw, 2); ok {
		t.Error("Expected no branch for unmatched value")
	}
	if HasElse(sw) {
		t.Error("Expected no else branch")
	}
}

func TestWalkOrder(t *testing.T) {
	prog := &Program{Stmts: []Stmt{
		&AssignmentStmt{
			Ident: ident("x"),
			Value: &BinOp{Lhs: integer(1), Op: "+", Rhs: integer(2)},
		},
		&WhileStmt{Condition: ident("ok")},
	}}

	var kinds []string
	Inspect(prog, func(n Node) bool {
		if n != nil {
			kinds = append(kinds, n.Kind().String())
		}
		return true
	})

	want := "Program AssignmentStmt Identifier BinOp Integer Integer WhileStmt Identifier"
	if got := strings.Join(kinds, " "); got != want {
		t.Errorf("Expected %s, got %s", want, got)
	}

	if got := CountNodes(prog); got != len(kinds) {
		t.Errorf("Expected %d nodes, got %d", len(kinds), got)
	}
}

func TestInspectPrune(t *testing.T) {
	prog := &Program{Stmts: []Stmt{
		&FunctionDeclStmt{Name: ident("f"), Body: []Stmt{&ReturnStmt{Value: integer(1)}}},
	}}

	visited := 0
	Inspect(prog, func(n Node) bool {
		if n == nil {
			return false
		}
		visited++
		_, isFunc := n.(*FunctionDeclStmt)
		return !isFunc
	})

	if visited != 2 {
		t.Errorf("Expected 2 visited nodes, got %d", visited)
	}
}
