// Copyright 2026 The lualens Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package syntax

// This file defines the definition data type shared by the resolver,
// the symbol index and the inference engine.
// Definitions are created by those packages and never mutated.

// A Kind identifies what sort of binding site a Definition is.
type Kind uint8

const (
	LocalKind      Kind = iota // local variable, parameter, loop variable, or implicit self
	LocalFuncKind              // local function
	GlobalFuncKind             // function statement, possibly class-qualified
	GlobalKind                 // assignment to a name not bound by any local
	FieldKind                  // field of a table or annotated class
)

var kindNames = [...]string{
	LocalKind:      "local",
	LocalFuncKind:  "local function",
	GlobalFuncKind: "global function",
	GlobalKind:     "global",
	FieldKind:      "field",
}

func (k Kind) String() string { return kindNames[k] }

// A Definition is a named binding site.
type Definition struct {
	Kind  Kind
	Name  *Ident
	File  *File
	Scope *Block // declaring block; nil for globals
	Stmt  Node   // declaring statement; the function's statement for parameters

	// Value is the expression initially assigned, if any.
	// When a multiple assignment runs out of values and its last value
	// is a call or '...', Value is that last expression and Index is
	// the position of the result within it.
	Value Expr
	Index int

	Class string // receiver name of a qualified GlobalFuncKind
	Param bool   // function parameter
	Self  bool   // implicit self parameter of a method
	Doc   *Doc
}

// Pos returns the position of the defined name.
func (d *Definition) Pos() Position { return d.Name.NamePos }

// DeclaredType returns the annotated type of the definition, or "".
func (d *Definition) DeclaredType() string {
	if d.Doc == nil {
		return ""
	}
	if d.Param {
		return d.Doc.ParamType(d.Name.Name)
	}
	switch d.Kind {
	case LocalKind, GlobalKind:
		if d.Doc.Class != nil {
			return d.Doc.Class.Name
		}
		return d.Doc.Type
	}
	return ""
}

// Function returns the function a function definition or a local
// initialized with a function expression denotes, or nil.
func (d *Definition) Function() *Function {
	if d.Param || d.Self {
		return nil
	}
	switch stmt := d.Stmt.(type) {
	case *LocalFuncStmt:
		return &stmt.Function
	case *FuncStmt:
		return &stmt.Function
	}
	if fn, ok := d.Value.(*FuncExpr); ok {
		return &fn.Function
	}
	return nil
}

// Same reports whether d and e denote the same binding site.
// Definitions are created on demand, so pointer equality does not hold.
func (d *Definition) Same(e *Definition) bool {
	if d == nil || e == nil {
		return d == e
	}
	if d.Self || e.Self {
		return d.Self && e.Self && d.Stmt == e.Stmt
	}
	return d.Name == e.Name
}

// ValueAt returns the expression that supplies the i'th value of an
// expression list, and the index of the result within it.
// Surplus targets take successive results of a trailing call or '...';
// otherwise they receive nil and ValueAt returns (nil, 0).
func ValueAt(values []Expr, i int) (Expr, int) {
	n := len(values)
	if i < n {
		return values[i], 0
	}
	if n == 0 {
		return nil, 0
	}
	switch last := values[n-1].(type) {
	case *CallExpr:
		return last, i - (n - 1)
	case *Literal:
		if last.Token == ELLIPSIS {
			return last, i - (n - 1)
		}
	}
	return nil, 0
}
