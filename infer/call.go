// Copyright 2026 The lualens Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package infer

import (
	"github.com/lualens/lualens/index"
	"github.com/lualens/lualens/syntax"
	"github.com/lualens/lualens/types"
)

// A callee is a function a call may invoke.
type callee struct {
	fn   *syntax.Function // nil if only annotations are known
	file *syntax.File
	doc  *syntax.Doc
}

// call returns the type of the result at index of call c.
func (in *inferrer) call(f *syntax.File, c *syntax.CallExpr, index int) types.Set {
	callees, recv := in.callees(f, c)
	if len(callees) == 0 {
		if id, ok := c.Fn.(*syntax.Ident); ok && id.Name == "setmetatable" && index == 0 && len(c.Args) > 0 {
			return in.expr(f, c.Args[0])
		}
	}
	var s types.Set
	for _, fn := range callees {
		s = types.Union(s, in.returns(fn, recv, index))
	}
	return s
}

// callees returns the functions call c may invoke, and for a method or
// field call the type of the receiver.
func (in *inferrer) callees(f *syntax.File, c *syntax.CallExpr) ([]callee, types.Set) {
	if c.Method != nil {
		recv := in.expr(f, c.Fn)
		return in.methods(recv, c.Method.Name), recv
	}
	switch fn := c.Fn.(type) {
	case *syntax.IndexExpr:
		if name := fn.FieldName(); name != "" {
			recv := in.expr(f, fn.X)
			return in.methods(recv, name), recv
		}
	case *syntax.Ident:
		return in.functions(f, fn), types.Set{}
	case *syntax.FuncExpr:
		return []callee{{fn: &fn.Function, file: f}}, types.Set{}
	case *syntax.ParenExpr:
		if fe, ok := fn.X.(*syntax.FuncExpr); ok {
			return []callee{{fn: &fe.Function, file: f}}, types.Set{}
		}
	}
	return nil, types.Set{}
}

// functions returns the functions an identifier may denote.
func (in *inferrer) functions(f *syntax.File, id *syntax.Ident) []callee {
	if d := in.find(f, id); d != nil {
		if fn := d.Function(); fn != nil {
			return []callee{{fn: fn, file: d.File, doc: docOf(d)}}
		}
		return nil
	}
	var callees []callee
	for _, d := range in.funcs(index.GlobalKey) {
		if d.Name.Name == id.Name {
			callees = append(callees, callee{fn: d.Function(), file: d.File, doc: docOf(d)})
		}
	}
	for _, d := range in.globals(id.Name) {
		if fn := d.Function(); fn != nil {
			callees = append(callees, callee{fn: fn, file: d.File, doc: docOf(d)})
		}
	}
	return callees
}

// methods returns the functions named name that are members of the
// types of recv. A function both indexed and assigned into a table
// is returned once, with its annotations.
func (in *inferrer) methods(recv types.Set, name string) []callee {
	var callees []callee
	seen := make(map[*syntax.Block]bool)
	members := in.members(recv)
	for _, m := range members {
		if m.Name == name && m.Def != nil {
			fn := m.Def.Function()
			if fn != nil {
				if seen[fn.Body] {
					continue
				}
				seen[fn.Body] = true
			}
			callees = append(callees, callee{fn: fn, file: m.Def.File, doc: docOf(m.Def)})
		}
	}
	for _, m := range members {
		if fe, ok := m.Value.(*syntax.FuncExpr); ok && m.Name == name && !seen[fe.Body] {
			seen[fe.Body] = true
			callees = append(callees, callee{fn: &fe.Function, file: m.File})
		}
	}
	return callees
}

// returns returns the type of the result at index of a call to fn
// with receiver type recv.
func (in *inferrer) returns(fn callee, recv types.Set, index int) types.Set {
	if fn.doc != nil && len(fn.doc.Returns) > 0 {
		if index < len(fn.doc.Returns) {
			return in.annotation(fn.doc.Returns[index], recv)
		}
		return types.Set{}
	}
	if fn.fn == nil {
		return types.Set{}
	}

	var s types.Set
	found := false
	syntax.Walk(fn.fn.Body, func(n syntax.Node) bool {
		switch n := n.(type) {
		case *syntax.FuncExpr, *syntax.FuncStmt, *syntax.LocalFuncStmt:
			return false // results of nested functions are their own
		case *syntax.ReturnStmt:
			found = true
			x, i := syntax.ValueAt(n.Results, index)
			s = types.Union(s, in.value(fn.file, value{x: x, index: i}))
		}
		return true
	})
	if !found {
		return types.Of(types.Nil)
	}
	return s
}

// docOf returns the annotations of the statement defining d.
func docOf(d *syntax.Definition) *syntax.Doc {
	switch stmt := d.Stmt.(type) {
	case *syntax.FuncStmt:
		return stmt.Doc
	case *syntax.LocalFuncStmt:
		return stmt.Doc
	}
	return d.Doc
}
