// Copyright 2026 The lualens Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package types defines the inferred types of Lua expressions.
//
// A Type is one of:
//
//	Named      a class declared by annotation, identified by name
//	*Table     a table whose fields are known from its construction
//	Primitive  nil, boolean, number, string or function
//	Unknown    the absence of information
//
// A Set is a union of types. Sets are never empty: a set with no
// known member holds Unknown.
package types // import "github.com/lualens/lualens/types"

import (
	"strings"

	"github.com/lualens/lualens/syntax"
)

// A Type is an inferred type.
type Type interface {
	// ClassName returns the name used to look up the type's
	// methods in the symbol index, or "" if it has none.
	ClassName() string
	String() string
	typ()
}

func (Named) typ()     {}
func (*Table) typ()    {}
func (Primitive) typ() {}
func (unknown) typ()   {}

// Named is a class type, declared with ---@class.
// Named types are equal if their names are equal.
type Named string

func (t Named) ClassName() string { return string(t) }
func (t Named) String() string    { return string(t) }

// A Primitive is a built-in Lua type.
type Primitive uint8

const (
	Nil Primitive = iota
	Boolean
	Number
	String
	Function
)

var primitiveNames = [...]string{
	Nil:      "nil",
	Boolean:  "boolean",
	Number:   "number",
	String:   "string",
	Function: "function",
}

func (t Primitive) ClassName() string { return "" }
func (t Primitive) String() string    { return primitiveNames[t] }

type unknown struct{}

// Unknown is the type of expressions about which nothing is known.
var Unknown Type = unknown{}

func (unknown) ClassName() string { return "" }
func (unknown) String() string    { return "unknown" }

// A Table is the structural type of a table value: the fields known
// to be assigned into one table identity. The identity is the table
// constructor (or annotation) recorded as Origin; tables with
// different origins are never merged.
type Table struct {
	Name   string      // variable holding the table; keys method lookups
	Origin syntax.Node // *syntax.TableExpr, or nil for annotated tables
	Elem   Set         // element type of an annotated array, T[]

	fields []*Field
	byName map[string]*Field
}

// A Field is a named entry of a table and the expressions assigned to it.
type Field struct {
	Name   string
	Values []FieldValue
}

// A FieldValue is an expression assigned to a field and the file it
// appears in. Writes to one table may come from several files.
type FieldValue struct {
	X    syntax.Expr
	File *syntax.File
}

// NewTable returns an empty table with the given name and origin.
func NewTable(name string, origin syntax.Node) *Table {
	return &Table{Name: name, Origin: origin}
}

func (t *Table) ClassName() string { return t.Name }

func (t *Table) String() string {
	var buf strings.Builder
	if t.Name != "" {
		buf.WriteString(t.Name)
	} else if len(t.Elem.types) > 0 {
		buf.WriteString(t.Elem.String())
		buf.WriteString("[]")
		return buf.String()
	} else {
		buf.WriteString("table")
	}
	buf.WriteByte('{')
	buf.WriteString(strings.Join(t.FieldNames(), ","))
	buf.WriteByte('}')
	return buf.String()
}

// AddField records an assignment of x, an expression of file, to the
// named field. A nil x records the name alone.
func (t *Table) AddField(name string, x syntax.Expr, file *syntax.File) {
	f := t.byName[name]
	if f == nil {
		if t.byName == nil {
			t.byName = make(map[string]*Field)
		}
		f = &Field{Name: name}
		t.byName[name] = f
		t.fields = append(t.fields, f)
	}
	if x != nil {
		for _, v := range f.Values {
			if v.X == x {
				return
			}
		}
		f.Values = append(f.Values, FieldValue{X: x, File: file})
	}
}

// Field returns the named field, or nil.
func (t *Table) Field(name string) *Field { return t.byName[name] }

// Fields returns the fields of the table in the order they were added.
func (t *Table) Fields() []*Field { return t.fields }

// FieldNames returns the names of the table's fields, in the order
// they were added. Names are unique.
func (t *Table) FieldNames() []string {
	names := make([]string, len(t.fields))
	for i, f := range t.fields {
		names[i] = f.Name
	}
	return names
}

// Clone returns a copy of t that may be extended without affecting t.
func (t *Table) Clone() *Table {
	c := NewTable(t.Name, t.Origin)
	c.Elem = t.Elem
	c.merge(t)
	return c
}

// merge adds the fields of u to t.
func (t *Table) merge(u *Table) {
	for _, f := range u.fields {
		if len(f.Values) == 0 {
			t.AddField(f.Name, nil, nil)
		}
		for _, v := range f.Values {
			t.AddField(f.Name, v.X, v.File)
		}
	}
}

// sameTable reports whether two tables denote the same identity.
func sameTable(t, u *Table) bool {
	if t == u {
		return true
	}
	if t.Origin != nil || u.Origin != nil {
		return t.Origin == u.Origin
	}
	return t.Name == u.Name && t.Elem.String() == u.Elem.String()
}

// equal reports whether two types are the same.
func equal(x, y Type) bool {
	if t, ok := x.(*Table); ok {
		u, ok := y.(*Table)
		if !ok || !sameTable(t, u) || t.Name != u.Name {
			return false
		}
		tf, uf := t.FieldNames(), u.FieldNames()
		if len(tf) != len(uf) {
			return false
		}
		for i := range tf {
			if tf[i] != uf[i] {
				return false
			}
		}
		return true
	}
	return x == y
}
