// Copyright 2026 The lualens Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package syntax provides a Lua parser and abstract syntax tree.
package syntax

import "strings"

// A Node is a node in a Lua syntax tree.
type Node interface {
	// Span returns the start and end position of the node.
	Span() (start, end Position)
}

// Start returns the start position of the node.
func Start(n Node) Position {
	start, _ := n.Span()
	return start
}

// End returns the end position of the node.
func End(n Node) Position {
	_, end := n.Span()
	return end
}

// A File represents a Lua source file.
type File struct {
	Path     string
	Body     *Block
	Comments []Comment
}

func (x *File) Span() (start, end Position) {
	return x.Body.Span()
}

// A Block is a sequence of statements forming a lexical scope.
// Start and End delimit the region in which the block's locals may be
// visible: for a function body it begins at the closing parenthesis of
// the parameter list, for a repeat loop it extends over the until
// condition.
type Block struct {
	Start Position
	Stmts []Stmt
	End   Position
}

func (x *Block) Span() (start, end Position) {
	return x.Start, x.End
}

// Contains reports whether pos lies within the block's scope region.
func (x *Block) Contains(pos Position) bool {
	return !pos.Before(x.Start) && !x.End.Before(pos)
}

// A Stmt is a Lua statement.
type Stmt interface {
	Node
	stmt()
}

func (*AssignStmt) stmt()    {}
func (*BranchStmt) stmt()    {}
func (*DoStmt) stmt()        {}
func (*ExprStmt) stmt()      {}
func (*ForInStmt) stmt()     {}
func (*ForNumStmt) stmt()    {}
func (*FuncStmt) stmt()      {}
func (*IfStmt) stmt()        {}
func (*LabelStmt) stmt()     {}
func (*LocalFuncStmt) stmt() {}
func (*LocalStmt) stmt()     {}
func (*RepeatStmt) stmt()    {}
func (*ReturnStmt) stmt()    {}
func (*WhileStmt) stmt()     {}

// A LocalStmt declares local variables:
//
//	local x
//	local x, y = 1, f()
type LocalStmt struct {
	Doc    *Doc
	Local  Position
	Names  []*Ident
	Eq     Position // invalid if there are no values
	Values []Expr
}

func (x *LocalStmt) Span() (start, end Position) {
	if len(x.Values) > 0 {
		return x.Local, End(x.Values[len(x.Values)-1])
	}
	return x.Local, End(x.Names[len(x.Names)-1])
}

// An AssignStmt represents an assignment:
//
//	x = 0
//	t.f, t[k] = y, z
type AssignStmt struct {
	Doc *Doc
	LHS []Expr // *Ident | *IndexExpr
	Eq  Position
	RHS []Expr
}

func (x *AssignStmt) Span() (start, end Position) {
	return Start(x.LHS[0]), End(x.RHS[len(x.RHS)-1])
}

// A Function represents the common parts of FuncExpr, FuncStmt and
// LocalFuncStmt.
type Function struct {
	FuncPos Position // position of FUNCTION token
	Lparen  Position
	Params  []*Ident
	Vararg  bool
	Body    *Block // Body.End is the position of the END token
}

func (x *Function) Span() (start, end Position) {
	return x.FuncPos, x.Body.End.add("end")
}

// A FuncName is the name of a global function statement:
// a dotted path, optionally ending in a method name.
//
//	function f() end       -- Path=(f)
//	function a.b.c() end   -- Path=(a b c)
//	function a.b:m() end   -- Path=(a b m) Method
type FuncName struct {
	Path   []*Ident
	Method bool
}

func (x *FuncName) Span() (start, end Position) {
	return Start(x.Path[0]), End(x.Path[len(x.Path)-1])
}

// Ident returns the final identifier of the name.
func (x *FuncName) Ident() *Ident { return x.Path[len(x.Path)-1] }

// ClassName returns the dotted receiver prefix of a qualified name,
// or "" for an unqualified function.
func (x *FuncName) ClassName() string {
	if len(x.Path) < 2 {
		return ""
	}
	names := make([]string, len(x.Path)-1)
	for i, id := range x.Path[:len(x.Path)-1] {
		names[i] = id.Name
	}
	return strings.Join(names, ".")
}

// A FuncStmt represents a global or field function definition:
// function Name.Path:Method(Params) Body end.
type FuncStmt struct {
	Doc  *Doc
	Name *FuncName
	Function
}

func (x *FuncStmt) Span() (start, end Position) {
	return x.Function.Span()
}

// A LocalFuncStmt represents a local function definition:
// local function Name(Params) Body end.
type LocalFuncStmt struct {
	Doc   *Doc
	Local Position
	Name  *Ident
	Function
}

func (x *LocalFuncStmt) Span() (start, end Position) {
	_, end = x.Function.Span()
	return x.Local, end
}

// An ExprStmt is an expression evaluated for side effects.
// Only calls are valid Lua statements; other expressions are
// accepted in Lenient mode.
type ExprStmt struct {
	X Expr
}

func (x *ExprStmt) Span() (start, end Position) {
	return x.X.Span()
}

// A DoStmt represents a block: do Body end.
type DoStmt struct {
	Do   Position
	Body *Block
}

func (x *DoStmt) Span() (start, end Position) {
	return x.Do, x.Body.End.add("end")
}

// A WhileStmt represents a loop: while Cond do Body end.
type WhileStmt struct {
	While Position
	Cond  Expr
	Body  *Block
}

func (x *WhileStmt) Span() (start, end Position) {
	return x.While, x.Body.End.add("end")
}

// A RepeatStmt represents a loop: repeat Body until Cond.
// Body.End is the end of Cond, since Cond may refer to
// locals declared in the body.
type RepeatStmt struct {
	Repeat Position
	Body   *Block
	Until  Position
	Cond   Expr
}

func (x *RepeatStmt) Span() (start, end Position) {
	return x.Repeat, End(x.Cond)
}

// An IfStmt is a conditional: if Cond then Then else Else end.
// 'elseif' is desugared into a chain of IfStmts, each held
// as the sole statement of its parent's Else block.
type IfStmt struct {
	If      Position // IF or ELSEIF
	Cond    Expr
	Then    *Block
	ElsePos Position // ELSE or ELSEIF
	Else    *Block   // optional
	EndPos  Position // END
}

func (x *IfStmt) Span() (start, end Position) {
	return x.If, x.EndPos.add("end")
}

// A ForNumStmt represents a numeric loop:
// for Var = Start, Limit, Step do Body end.
type ForNumStmt struct {
	For   Position
	Var   *Ident
	Start Expr
	Limit Expr
	Step  Expr // optional
	Body  *Block
}

func (x *ForNumStmt) Span() (start, end Position) {
	return x.For, x.Body.End.add("end")
}

// A ForInStmt represents a generic loop: for Vars in X do Body end.
type ForInStmt struct {
	For  Position
	Vars []*Ident
	X    []Expr
	Body *Block
}

func (x *ForInStmt) Span() (start, end Position) {
	return x.For, x.Body.End.add("end")
}

// A ReturnStmt returns from a function.
type ReturnStmt struct {
	Return  Position
	Results []Expr
}

func (x *ReturnStmt) Span() (start, end Position) {
	if len(x.Results) == 0 {
		return x.Return, x.Return.add("return")
	}
	return x.Return, End(x.Results[len(x.Results)-1])
}

// A BranchStmt changes the flow of control: break, goto Label.
type BranchStmt struct {
	Token    Token // = BREAK | GOTO
	TokenPos Position
	Label    *Ident // for GOTO
}

func (x *BranchStmt) Span() (start, end Position) {
	if x.Label != nil {
		return x.TokenPos, End(x.Label)
	}
	return x.TokenPos, x.TokenPos.add(x.Token.String())
}

// A LabelStmt declares a goto target: ::Name::.
type LabelStmt struct {
	Lcolons Position
	Name    *Ident
	Rcolons Position
}

func (x *LabelStmt) Span() (start, end Position) {
	return x.Lcolons, x.Rcolons.add("::")
}

// An Expr is a Lua expression.
type Expr interface {
	Node
	expr()
}

func (*BinaryExpr) expr() {}
func (*CallExpr) expr()   {}
func (*FuncExpr) expr()   {}
func (*Ident) expr()      {}
func (*IndexExpr) expr()  {}
func (*Literal) expr()    {}
func (*ParenExpr) expr()  {}
func (*TableExpr) expr()  {}
func (*TableField) expr() {}
func (*UnaryExpr) expr()  {}

// An Ident represents an identifier.
type Ident struct {
	NamePos Position
	Name    string
}

func (x *Ident) Span() (start, end Position) {
	return x.NamePos, x.NamePos.add(x.Name)
}

// A Literal represents a nil, boolean, number or string literal,
// or the vararg expression.
type Literal struct {
	Token    Token // = NIL | TRUE | FALSE | NUMBER | STRING | ELLIPSIS
	TokenPos Position
	Raw      string      // uninterpreted text
	Value    interface{} // = nil | bool | int64 | float64 | string
}

func (x *Literal) Span() (start, end Position) {
	return x.TokenPos, x.TokenPos.add(x.Raw)
}

// A ParenExpr represents a parenthesized expression: (X).
type ParenExpr struct {
	Lparen Position
	X      Expr
	Rparen Position
}

func (x *ParenExpr) Span() (start, end Position) {
	return x.Lparen, x.Rparen.add(")")
}

// An IndexExpr represents a field access X.Name or an index
// expression X[Key]. Exactly one of Name and Key is non-nil.
type IndexExpr struct {
	X      Expr
	Dot    Position // valid for X.Name
	Name   *Ident
	Lbrack Position // valid for X[Key]
	Key    Expr
	Rbrack Position
}

func (x *IndexExpr) Span() (start, end Position) {
	if x.Name != nil {
		return Start(x.X), End(x.Name)
	}
	return Start(x.X), x.Rbrack.add("]")
}

// FieldName returns the name of the field accessed by x:
// the identifier of X.Name, or the value of a string-literal key
// X["name"]. It returns "" for computed keys.
func (x *IndexExpr) FieldName() string {
	if x.Name != nil {
		return x.Name.Name
	}
	if lit, ok := x.Key.(*Literal); ok && lit.Token == STRING {
		return lit.Value.(string)
	}
	return ""
}

// A CallExpr represents a function call Fn(Args) or a method
// call Fn:Method(Args). Lparen is invalid when the single argument
// is a string or table constructor written without parentheses,
// and when a method call has no arguments at all (Lenient mode).
type CallExpr struct {
	Fn     Expr
	Colon  Position // valid for method calls
	Method *Ident   // valid for method calls
	Lparen Position
	Args   []Expr
	Rparen Position
}

func (x *CallExpr) Span() (start, end Position) {
	start = Start(x.Fn)
	switch {
	case x.Rparen.IsValid():
		end = x.Rparen.add(")")
	case len(x.Args) > 0:
		end = End(x.Args[len(x.Args)-1])
	case x.Method != nil:
		end = End(x.Method)
	default:
		end = End(x.Fn)
	}
	return start, end
}

// A FuncExpr represents an anonymous function: function(Params) Body end.
type FuncExpr struct {
	Function
}

func (x *FuncExpr) Span() (start, end Position) {
	return x.Function.Span()
}

// A TableExpr represents a table constructor: { Fields }.
type TableExpr struct {
	Lbrace Position
	Fields []*TableField
	Rbrace Position
}

func (x *TableExpr) Span() (start, end Position) {
	return x.Lbrace, x.Rbrace.add("}")
}

// A TableField represents one entry of a table constructor:
//
//	Name = Value
//	[Key] = Value
//	Value
//
// Used only within a TableExpr.
type TableField struct {
	Lbrack Position // valid for [Key] = Value
	Key    Expr
	Name   *Ident
	Value  Expr
}

func (x *TableField) Span() (start, end Position) {
	switch {
	case x.Name != nil:
		start = Start(x.Name)
	case x.Lbrack.IsValid():
		start = x.Lbrack
	default:
		start = Start(x.Value)
	}
	return start, End(x.Value)
}

// FieldName returns the name of a named or string-keyed entry,
// or "" for positional and computed entries.
func (x *TableField) FieldName() string {
	if x.Name != nil {
		return x.Name.Name
	}
	if lit, ok := x.Key.(*Literal); ok && lit.Token == STRING {
		return lit.Value.(string)
	}
	return ""
}

// A UnaryExpr represents a unary expression: Op X.
type UnaryExpr struct {
	OpPos Position
	Op    Token // = MINUS | NOT | HASH | TILDE
	X     Expr
}

func (x *UnaryExpr) Span() (start, end Position) {
	return x.OpPos, End(x.X)
}

// A BinaryExpr represents a binary expression: X Op Y.
type BinaryExpr struct {
	X     Expr
	OpPos Position
	Op    Token
	Y     Expr
}

func (x *BinaryExpr) Span() (start, end Position) {
	return Start(x.X), End(x.Y)
}
