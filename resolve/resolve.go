// Copyright 2026 The lualens Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package resolve enumerates the local definitions visible at a
// position in a Lua syntax tree.
//
// Lua is lexically scoped. Each block (a file, a function body, the
// body of a loop or conditional, or a do block) is a scope; its local
// definitions are visible within the block after their declaration.
// Resolution walks outward from the innermost block enclosing the
// position to the file, reporting the nearest definition first:
// within a block, later declarations shadow earlier ones, and any
// block shadows the blocks that enclose it.
//
// Visibility follows Lua:
//
//	local x = x              -- the right-hand x is not this local
//	local function f() f() end  -- f is visible in its own body
//
// A local variable becomes visible at the end of its declaring
// statement; a local function from its name onward. Parameters, the
// implicit self of a method, and loop variables are visible
// throughout the body that declares them. The until condition of a
// repeat loop sees the locals of the loop body.
//
// The functions in this package never fail: a nil file or an invalid
// position yields no definitions.
package resolve // import "github.com/lualens/lualens/resolve"

import (
	"github.com/lualens/lualens/syntax"
)

// A scope is a block on the path to a position, with the node whose
// child it is.
type scope struct {
	block *syntax.Block
	owner syntax.Node // *syntax.File for the file body
}

// chain returns the scopes enclosing pos, innermost first.
func chain(f *syntax.File, pos syntax.Position) []scope {
	if f == nil || f.Body == nil || !pos.IsValid() {
		return nil
	}
	path := syntax.Enclosing(f, pos)
	var scopes []scope // outermost first
	for i, n := range path {
		switch n := n.(type) {
		case *syntax.Block:
			if i > 0 {
				scopes = append(scopes, scope{n, path[i-1]})
			}
		case *syntax.RepeatStmt:
			// The until condition is not within the body's
			// subtree, but it is within its scope.
			if i+1 < len(path) && path[i+1] != syntax.Node(n.Body) && n.Body.Contains(pos) {
				scopes = append(scopes, scope{n.Body, n})
			}
		}
	}
	for i, j := 0, len(scopes)-1; i < j; i, j = i+1, j-1 {
		scopes[i], scopes[j] = scopes[j], scopes[i]
	}
	return scopes
}

// Scopes returns the blocks of f that enclose pos, innermost first.
// The last element, if any, is f.Body.
func Scopes(f *syntax.File, pos syntax.Position) []*syntax.Block {
	var blocks []*syntax.Block
	for _, s := range chain(f, pos) {
		blocks = append(blocks, s.block)
	}
	return blocks
}

// Locals calls fn for each local variable visible at pos, nearest
// first, until fn returns false. Parameters, loop variables and the
// implicit self of a method are local variables.
func Locals(f *syntax.File, pos syntax.Position, fn func(*syntax.Definition) bool) {
	walk(f, pos, func(d *syntax.Definition) bool {
		return d.Kind != syntax.LocalKind || fn(d)
	})
}

// LocalFuncs calls fn for each local function visible at pos,
// nearest first, until fn returns false.
func LocalFuncs(f *syntax.File, pos syntax.Position, fn func(*syntax.Definition) bool) {
	walk(f, pos, func(d *syntax.Definition) bool {
		return d.Kind != syntax.LocalFuncKind || fn(d)
	})
}

// Walk calls fn for each local variable and local function visible
// at pos, nearest first, until fn returns false.
func Walk(f *syntax.File, pos syntax.Position, fn func(*syntax.Definition) bool) {
	walk(f, pos, fn)
}

// Find returns the nearest local definition of name visible at pos,
// or nil if name is not bound by any local.
func Find(f *syntax.File, pos syntax.Position, name string) *syntax.Definition {
	var found *syntax.Definition
	walk(f, pos, func(d *syntax.Definition) bool {
		if d.Name.Name == name {
			found = d
			return false
		}
		return true
	})
	return found
}

// Binds reports whether the identifier id, at its own position, refers
// to the local definition d.
func Binds(f *syntax.File, id *syntax.Ident, d *syntax.Definition) bool {
	if id == nil || d == nil || id.Name != d.Name.Name {
		return false
	}
	return d.Same(Find(f, id.NamePos, id.Name))
}

func walk(f *syntax.File, pos syntax.Position, fn func(*syntax.Definition) bool) {
	for _, s := range chain(f, pos) {
		if !s.definitions(f, pos, fn) {
			return
		}
	}
}

// definitions calls fn for each definition of the scope visible at
// pos, latest first. It returns false if fn stopped the walk.
func (s scope) definitions(f *syntax.File, pos syntax.Position, fn func(*syntax.Definition) bool) bool {
	stmts := s.block.Stmts
	for i := len(stmts) - 1; i >= 0; i-- {
		switch stmt := stmts[i].(type) {
		case *syntax.LocalStmt:
			if pos.Before(syntax.End(stmt)) {
				continue
			}
			for j := len(stmt.Names) - 1; j >= 0; j-- {
				if !fn(LocalDef(f, s.block, stmt, j)) {
					return false
				}
			}
		case *syntax.LocalFuncStmt:
			if pos.Before(stmt.Name.NamePos) {
				continue
			}
			d := &syntax.Definition{
				Kind:  syntax.LocalFuncKind,
				Name:  stmt.Name,
				File:  f,
				Scope: s.block,
				Stmt:  stmt,
				Doc:   stmt.Doc,
			}
			if !fn(d) {
				return false
			}
		}
	}

	implicit := s.implicit(f)
	for i := len(implicit) - 1; i >= 0; i-- {
		if !fn(implicit[i]) {
			return false
		}
	}
	return true
}

// implicit returns the definitions a block receives from its owner:
// parameters, self, and loop variables, in declaration order.
func (s scope) implicit(f *syntax.File) []*syntax.Definition {
	var defs []*syntax.Definition
	local := func(id *syntax.Ident, stmt syntax.Node) *syntax.Definition {
		d := &syntax.Definition{Kind: syntax.LocalKind, Name: id, File: f, Scope: s.block, Stmt: stmt}
		defs = append(defs, d)
		return d
	}
	params := func(fn *syntax.Function, stmt syntax.Node, doc *syntax.Doc) {
		if fn.Body != s.block {
			return
		}
		for _, id := range fn.Params {
			d := local(id, stmt)
			d.Param = true
			d.Doc = doc
		}
	}

	switch owner := s.owner.(type) {
	case *syntax.FuncStmt:
		if owner.Body == s.block && owner.Name.Method {
			// self is declared at the method name.
			method := owner.Name.Ident()
			d := local(&syntax.Ident{NamePos: method.NamePos, Name: "self"}, owner)
			d.Self = true
		}
		params(&owner.Function, owner, owner.Doc)
	case *syntax.LocalFuncStmt:
		params(&owner.Function, owner, owner.Doc)
	case *syntax.FuncExpr:
		params(&owner.Function, owner, nil)
	case *syntax.ForNumStmt:
		if owner.Body == s.block {
			local(owner.Var, owner).Value = owner.Start
		}
	case *syntax.ForInStmt:
		if owner.Body == s.block {
			for _, id := range owner.Vars {
				local(id, owner)
			}
		}
	}
	return defs
}

// LocalDef returns the definition of the i'th name declared by a
// local statement in block b of file f.
func LocalDef(f *syntax.File, b *syntax.Block, stmt *syntax.LocalStmt, i int) *syntax.Definition {
	d := &syntax.Definition{
		Kind:  syntax.LocalKind,
		Name:  stmt.Names[i],
		File:  f,
		Scope: b,
		Stmt:  stmt,
		Doc:   stmt.Doc,
	}
	d.Value, d.Index = syntax.ValueAt(stmt.Values, i)
	return d
}
