// Copyright 2026 The lualens Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package infer

// This file approximates which assignments to a local reach a use.
//
// Statements of the declaring block are visited in order up to the
// use. A direct assignment replaces the values seen so far. An
// assignment nested in a conditional or loop statement only adds to
// them, as does an assignment within a function body, which may run
// at any time. The analysis descends into the statement that
// contains the use.

import (
	"github.com/lualens/lualens/syntax"
)

// reaching returns the values of local d that may reach a use at pos,
// given that d is initialized to start. Parameters and loop variables
// are declared by the owner of their scope and reach its whole body.
func (in *inferrer) reaching(d *syntax.Definition, start value, pos syntax.Position) []value {
	cur := []value{start}
	if d.Scope == nil {
		return cur
	}
	stmts := d.Scope.Stmts
	for i, stmt := range stmts {
		if stmt == d.Stmt {
			stmts = stmts[i+1:]
			break
		}
	}
	r := reacher{in: in, d: d, use: pos}
	cur, _ = r.block(stmts, cur)
	return cur
}

type reacher struct {
	in  *inferrer
	d   *syntax.Definition
	use syntax.Position
}

// block advances cur through stmts. It reports whether the use was
// reached.
func (r *reacher) block(stmts []syntax.Stmt, cur []value) ([]value, bool) {
	for _, stmt := range stmts {
		start, end := stmt.Span()
		if r.use.Before(start) {
			return cur, true
		}
		if !end.Before(r.use) {
			return r.within(stmt, cur), true
		}
		cur = r.after(stmt, cur)
	}
	return cur, false
}

// within returns the values at the use, which lies within stmt.
func (r *reacher) within(stmt syntax.Stmt, cur []value) []value {
	switch stmt := stmt.(type) {
	case *syntax.IfStmt:
		switch {
		case stmt.Then.Contains(r.use):
			cur, _ = r.block(stmt.Then.Stmts, cur)
		case stmt.Else != nil && stmt.Else.Contains(r.use):
			cur, _ = r.block(stmt.Else.Stmts, cur)
		}
		return cur
	case *syntax.WhileStmt, *syntax.ForNumStmt, *syntax.ForInStmt, *syntax.RepeatStmt:
		body := bodyOf(stmt)
		if body.Contains(r.use) {
			// Later iterations see the assignments of earlier ones.
			cur = union(cur, r.assignments(body))
			cur, _ = r.block(body.Stmts, cur)
		}
		return cur
	case *syntax.DoStmt:
		cur, _ = r.block(stmt.Body.Stmts, cur)
		return cur
	case *syntax.FuncStmt, *syntax.LocalFuncStmt:
		if body := bodyOf(stmt); body.Contains(r.use) {
			cur, _ = r.block(body.Stmts, cur)
		}
		return cur
	}

	// The use lies in an expression, possibly within a function literal.
	n := syntax.Innermost(stmt, r.use, func(n syntax.Node) bool {
		_, ok := n.(*syntax.FuncExpr)
		return ok
	})
	if fn, ok := n.(*syntax.FuncExpr); ok && fn.Body.Contains(r.use) {
		cur, _ = r.block(fn.Body.Stmts, cur)
	}
	return cur
}

// after returns the values following stmt, which precedes the use.
func (r *reacher) after(stmt syntax.Stmt, cur []value) []value {
	switch stmt := stmt.(type) {
	case *syntax.AssignStmt:
		for i, lhs := range stmt.LHS {
			if id, ok := lhs.(*syntax.Ident); ok && r.binds(id) {
				x, index := syntax.ValueAt(stmt.RHS, i)
				cur = []value{{x: x, index: index}}
			}
		}
		return cur
	case *syntax.DoStmt:
		cur, _ = r.block(stmt.Body.Stmts, cur)
		return cur
	}
	return union(cur, r.assignments(stmt))
}

// assignments returns the values assigned to the local anywhere in n.
func (r *reacher) assignments(n syntax.Node) []value {
	var values []value
	syntax.Walk(n, func(n syntax.Node) bool {
		if stmt, ok := n.(*syntax.AssignStmt); ok {
			for i, lhs := range stmt.LHS {
				if id, ok := lhs.(*syntax.Ident); ok && r.binds(id) {
					x, index := syntax.ValueAt(stmt.RHS, i)
					values = append(values, value{x: x, index: index})
				}
			}
		}
		return true
	})
	return values
}

func (r *reacher) binds(id *syntax.Ident) bool {
	return r.in.binds(id, r.d)
}

// union returns the values of x followed by those of y not in x.
func union(x, y []value) []value {
	out := append([]value(nil), x...)
outer:
	for _, v := range y {
		for _, u := range out {
			if u == v {
				continue outer
			}
		}
		out = append(out, v)
	}
	return out
}

func bodyOf(stmt syntax.Stmt) *syntax.Block {
	switch stmt := stmt.(type) {
	case *syntax.DoStmt:
		return stmt.Body
	case *syntax.WhileStmt:
		return stmt.Body
	case *syntax.ForNumStmt:
		return stmt.Body
	case *syntax.ForInStmt:
		return stmt.Body
	case *syntax.RepeatStmt:
		return stmt.Body
	case *syntax.FuncStmt:
		return stmt.Body
	case *syntax.LocalFuncStmt:
		return stmt.Body
	}
	return nil
}

// A fieldWrite is an assignment of value to field name of a variable.
type fieldWrite struct {
	name  string
	value syntax.Expr
}

// fieldWrites returns the writes to fields of variable d throughout
// its file, in source order:
//
//	d.name = value
//	d["name"] = value
//	function d.name() end
//	function d:name() end
func (in *inferrer) fieldWrites(d *syntax.Definition) []fieldWrite {
	if writes, ok := in.writes[d.Name]; ok {
		return writes
	}
	refers := func(x syntax.Expr) bool {
		id, ok := x.(*syntax.Ident)
		if !ok || id.Name != d.Name.Name {
			return false
		}
		if d.Kind == syntax.GlobalKind {
			return in.find(d.File, id) == nil
		}
		return in.binds(id, d)
	}

	var writes []fieldWrite
	syntax.Walk(d.File, func(n syntax.Node) bool {
		switch n := n.(type) {
		case *syntax.AssignStmt:
			for i, lhs := range n.LHS {
				if ix, ok := lhs.(*syntax.IndexExpr); ok && refers(ix.X) {
					if name := ix.FieldName(); name != "" {
						x, _ := syntax.ValueAt(n.RHS, i)
						writes = append(writes, fieldWrite{name, x})
					}
				}
			}
		case *syntax.FuncStmt:
			if path := n.Name.Path; len(path) == 2 && refers(path[0]) {
				writes = append(writes, fieldWrite{path[1].Name, &syntax.FuncExpr{Function: n.Function}})
			}
		}
		return true
	})
	in.writes[d.Name] = writes
	return writes
}
