// Copyright 2026 The lualens Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package infer

import (
	"github.com/lualens/lualens/index"
	"github.com/lualens/lualens/syntax"
	"github.com/lualens/lualens/types"
)

// A Member is a field or function reachable through a value.
// A table field assigned several values yields one Member per value.
type Member struct {
	Name  string
	Kind  syntax.Kind // FieldKind, or GlobalFuncKind for indexed functions
	Owner string      // class or table name; "" for an anonymous table

	Def   *syntax.Definition // indexed function
	Value syntax.Expr        // value assigned to a table field, or nil
	File  *syntax.File       // file of Value
	Type  string             // annotated type of a class field
}

// Members returns the members of the types of s, as seen from file f:
// the fields of tables, the annotated fields of classes and their
// superclasses, and the functions indexed under a class or table name.
func (e *Engine) Members(f *syntax.File, s types.Set) []Member {
	if f == nil {
		return nil
	}
	return e.newInferrer(f).members(s)
}

func (in *inferrer) members(s types.Set) []Member {
	var ms []Member
	visited := make(map[string]bool)
	for _, t := range s.Types() {
		switch t := t.(type) {
		case *types.Table:
			ms = tableMembers(ms, t, t.Name)
			if t.Name != "" {
				ms = in.funcMembers(ms, t.Name)
			}
		case types.Named:
			ms = in.classMembers(ms, string(t), visited)
		}
	}
	return ms
}

func tableMembers(ms []Member, t *types.Table, owner string) []Member {
	for _, f := range t.Fields() {
		m := Member{Name: f.Name, Kind: syntax.FieldKind, Owner: owner}
		if len(f.Values) == 0 {
			ms = append(ms, m)
		}
		for _, v := range f.Values {
			m.Value, m.File = v.X, v.File
			ms = append(ms, m)
		}
	}
	return ms
}

func (in *inferrer) funcMembers(ms []Member, key string) []Member {
	for _, d := range in.funcs(key) {
		ms = append(ms, Member{Name: d.Name.Name, Kind: syntax.GlobalFuncKind, Owner: key, Def: d})
	}
	return ms
}

// classMembers appends the members of the named class and its
// superclasses, each class visited once.
func (in *inferrer) classMembers(ms []Member, name string, visited map[string]bool) []Member {
	if visited[name] {
		return ms
	}
	visited[name] = true
	ms = in.funcMembers(ms, name)
	classes := in.classes(name)
	for _, c := range classes {
		for _, f := range c.Fields {
			ms = append(ms, Member{Name: f.Name, Kind: syntax.FieldKind, Owner: name, Type: f.Type})
		}
		if t := in.classTable(c); t != nil {
			ms = tableMembers(ms, t, name)
		}
	}
	for _, c := range classes {
		for _, super := range c.Supers {
			ms = in.classMembers(ms, super, visited)
		}
	}
	return ms
}

// classTable returns the table held by the variable a class is
// declared on, or nil if it is not initialized by a constructor.
func (in *inferrer) classTable(c *index.Class) *types.Table {
	d := c.Def
	if d == nil {
		return nil
	}
	x, ok := d.Value.(*syntax.TableExpr)
	if !ok {
		return nil
	}
	return in.identity(d, newTable(d.File, x, d.Name.Name))
}

// member returns the type of the named member of the types of s.
func (in *inferrer) member(s types.Set, name string) types.Set {
	var out types.Set
	for _, m := range in.members(s) {
		if m.Name != name {
			continue
		}
		switch {
		case m.Def != nil:
			out = types.Union(out, types.Of(types.Function))
		case m.Type != "":
			out = types.Union(out, types.Parse(m.Type))
		case m.Value != nil:
			out = types.Union(out, in.expr(m.File, m.Value))
		}
	}
	return out
}

// GlobalFuncs returns the global functions visible from file f: those
// indexed under index.GlobalKey.
func (e *Engine) GlobalFuncs(f *syntax.File) []*syntax.Definition {
	if f == nil {
		return nil
	}
	return e.newInferrer(f).funcs(index.GlobalKey)
}
