// Copyright 2026 The lualens Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package resolve_test

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/lualens/lualens/internal/chunkedfile"
	"github.com/lualens/lualens/lualenstest"
	"github.com/lualens/lualens/resolve"
	"github.com/lualens/lualens/syntax"
)

// TestResolve reports, for each call use(x) in the test data, the
// definition of x visible at the call.
func TestResolve(t *testing.T) {
	filename := lualenstest.DataFile("resolve", "testdata/resolve.lua")
	for _, chunk := range chunkedfile.Read(filename, t) {
		f, err := syntax.Parse(filename, chunk.Source, 0)
		if err != nil {
			t.Error(err)
			continue
		}
		lines := strings.Split(chunk.Source, "\n")
		syntax.Walk(f, func(n syntax.Node) bool {
			call, ok := n.(*syntax.CallExpr)
			if !ok || len(call.Args) != 1 {
				return true
			}
			if fn, ok := call.Fn.(*syntax.Ident); !ok || fn.Name != "use" {
				return true
			}
			id, ok := call.Args[0].(*syntax.Ident)
			if !ok {
				return true
			}
			d := resolve.Find(f, id.NamePos, id.Name)
			chunk.GotError(int(id.NamePos.Line), describe(d, lines))
			return true
		})
		chunk.Done()
	}
}

// describe returns "<kind> <name>: <declaring line>" for d.
func describe(d *syntax.Definition, lines []string) string {
	if d == nil {
		return "global"
	}
	line := lines[d.Pos().Line-1]
	if i := strings.Index(line, "--"); i >= 0 {
		line = line[:i]
	}
	line = strings.TrimSpace(line)
	switch {
	case d.Self:
		return "self: " + line
	case d.Param:
		return "param " + d.Name.Name + ": " + line
	}
	return d.Kind.String() + " " + d.Name.Name + ": " + line
}

func TestWalkOrder(t *testing.T) {
	const src = `local a = 1
local function f(p, q)
  local b = 2
  local function g() end
  --[[caret]]
end
local c = 3
`
	f, pos := lualenstest.ParseCaret(t, "order.lua", src)

	names := func(walk func(*syntax.File, syntax.Position, func(*syntax.Definition) bool)) []string {
		var names []string
		walk(f, pos, func(d *syntax.Definition) bool {
			names = append(names, d.Name.Name)
			return true
		})
		return names
	}
	for _, test := range []struct {
		name string
		walk func(*syntax.File, syntax.Position, func(*syntax.Definition) bool)
		want []string
	}{
		{"Walk", resolve.Walk, []string{"g", "b", "q", "p", "f", "a"}},
		{"Locals", resolve.Locals, []string{"b", "q", "p", "a"}},
		{"LocalFuncs", resolve.LocalFuncs, []string{"g", "f"}},
	} {
		if diff := cmp.Diff(test.want, names(test.walk)); diff != "" {
			t.Errorf("%s mismatch (-want +got):\n%s", test.name, diff)
		}
	}
}

func TestWalkStops(t *testing.T) {
	const src = `local a, b, c = 1, 2, 3
--[[caret]]`
	f, pos := lualenstest.ParseCaret(t, "stop.lua", src)
	var seen []string
	resolve.Locals(f, pos, func(d *syntax.Definition) bool {
		seen = append(seen, d.Name.Name)
		return d.Name.Name != "b"
	})
	if diff := cmp.Diff([]string{"c", "b"}, seen); diff != "" {
		t.Errorf("Locals did not stop (-want +got):\n%s", diff)
	}
}

func TestShadowing(t *testing.T) {
	const src = `local v = "outer"
local function f()
  local v = "middle"
  do
    local v = "inner"
    --[[caret]]
  end
end`
	f, pos := lualenstest.ParseCaret(t, "shadow.lua", src)
	var values []string
	resolve.Locals(f, pos, func(d *syntax.Definition) bool {
		if d.Name.Name == "v" {
			values = append(values, d.Value.(*syntax.Literal).Value.(string))
		}
		return true
	})
	if diff := cmp.Diff([]string{"inner", "middle", "outer"}, values); diff != "" {
		t.Errorf("shadowed definitions mismatch (-want +got):\n%s", diff)
	}
	if d := resolve.Find(f, pos, "v"); d == nil || d.Value.(*syntax.Literal).Value != "inner" {
		t.Errorf("Find(v) = %v, want the innermost definition", d)
	}
}

func TestScopes(t *testing.T) {
	const src = `for i = 1, 2 do
  if i then
    --[[caret]]
  end
end`
	f, pos := lualenstest.ParseCaret(t, "scopes.lua", src)
	blocks := resolve.Scopes(f, pos)
	if len(blocks) != 3 {
		t.Fatalf("got %d scopes, want 3", len(blocks))
	}
	if blocks[2] != f.Body {
		t.Errorf("outermost scope is not the file body")
	}
	loop := f.Body.Stmts[0].(*syntax.ForNumStmt)
	if blocks[1] != loop.Body {
		t.Errorf("second scope is not the loop body")
	}
	if blocks[0] != loop.Body.Stmts[0].(*syntax.IfStmt).Then {
		t.Errorf("innermost scope is not the then block")
	}
}

func TestValues(t *testing.T) {
	const src = `local a, b, c = f()
local d, e = 1
--[[caret]]`
	f, pos := lualenstest.ParseCaret(t, "values.lua", src)
	for _, test := range []struct {
		name  string
		value string // type of Value
		index int
	}{
		{"a", "*syntax.CallExpr", 0},
		{"b", "*syntax.CallExpr", 1},
		{"c", "*syntax.CallExpr", 2},
		{"d", "*syntax.Literal", 0},
		{"e", "<nil>", 0},
	} {
		d := resolve.Find(f, pos, test.name)
		if d == nil {
			t.Errorf("%s not found", test.name)
			continue
		}
		if got := typeName(d.Value); got != test.value || d.Index != test.index {
			t.Errorf("%s: value %s index %d, want %s index %d", test.name, got, d.Index, test.value, test.index)
		}
	}
}

func typeName(x syntax.Expr) string {
	switch x.(type) {
	case nil:
		return "<nil>"
	case *syntax.CallExpr:
		return "*syntax.CallExpr"
	case *syntax.Literal:
		return "*syntax.Literal"
	}
	return "other"
}

func TestBinds(t *testing.T) {
	const src = `local t = {}
t = 1
do
  local t = 2
  t = 3
end`
	f := lualenstest.Parse(t, "binds.lua", src)
	decl := f.Body.Stmts[0].(*syntax.LocalStmt)
	d := resolve.LocalDef(f, f.Body, decl, 0)

	outer := f.Body.Stmts[1].(*syntax.AssignStmt).LHS[0].(*syntax.Ident)
	if !resolve.Binds(f, outer, d) {
		t.Errorf("t = 1 does not bind the outer local")
	}
	inner := f.Body.Stmts[2].(*syntax.DoStmt).Body.Stmts[1].(*syntax.AssignStmt).LHS[0].(*syntax.Ident)
	if resolve.Binds(f, inner, d) {
		t.Errorf("t = 3 binds the outer local, want the inner one")
	}
}

func TestInvalid(t *testing.T) {
	resolve.Walk(nil, syntax.Position{}, func(*syntax.Definition) bool {
		t.Fatal("definition reported for nil file")
		return false
	})
	f := lualenstest.Parse(t, "invalid.lua", "local x = 1")
	if d := resolve.Find(f, syntax.Position{}, "x"); d != nil {
		t.Errorf("Find at invalid position = %v, want nil", d)
	}
	if blocks := resolve.Scopes(f, syntax.MakePosition(&f.Path, 99, 1)); blocks != nil {
		t.Errorf("Scopes outside file = %v, want nil", blocks)
	}
}
