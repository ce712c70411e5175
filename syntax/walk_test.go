// Copyright 2026 The lualens Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package syntax_test

import (
	"bytes"
	"fmt"
	"log"
	"reflect"
	"strings"
	"testing"

	"github.com/lualens/lualens/syntax"
)

func TestWalk(t *testing.T) {
	const src = `
for i = 1, 10 do
  if x then
    break
  else
    f({2*i})
  end
end
`
	f, err := syntax.Parse("hello.lua", src, 0)
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	var depth int
	syntax.Walk(f, func(n syntax.Node) bool {
		if n == nil {
			depth--
			return true
		}
		fmt.Fprintf(&buf, "%s%s\n",
			strings.Repeat("  ", depth),
			strings.TrimPrefix(reflect.TypeOf(n).String(), "*syntax."))
		depth++
		return true
	})
	got := buf.String()
	want := `
File
  Block
    ForNumStmt
      Ident
      Literal
      Literal
      Block
        IfStmt
          Ident
          Block
            BranchStmt
          Block
            ExprStmt
              CallExpr
                Ident
                TableExpr
                  TableField
                    BinaryExpr
                      Literal
                      Ident`
	got = strings.TrimSpace(got)
	want = strings.TrimSpace(want)
	if got != want {
		t.Errorf("got %s, want %s", got, want)
	}
}

func TestWalkPrune(t *testing.T) {
	const src = `local function f() local hidden = 1 end
local visible = 2`
	f, err := syntax.Parse("hello.lua", src, 0)
	if err != nil {
		t.Fatal(err)
	}
	var names []string
	syntax.Walk(f, func(n syntax.Node) bool {
		switch n := n.(type) {
		case *syntax.LocalFuncStmt:
			return false
		case *syntax.Ident:
			names = append(names, n.Name)
		}
		return true
	})
	if got, want := strings.Join(names, " "), "visible"; got != want {
		t.Errorf("got %s, want %s", got, want)
	}
}

func TestEnclosing(t *testing.T) {
	const src = `local t = {}
t.x = foo.bar`
	f, err := syntax.Parse("hello.lua", src, 0)
	if err != nil {
		t.Fatal(err)
	}
	for _, test := range []struct {
		line, col int32
		want      string
	}{
		{2, 11, "File Block AssignStmt IndexExpr Ident"}, // bar
		{2, 10, "File Block AssignStmt IndexExpr Ident"}, // just after foo
		{1, 11, "File Block LocalStmt TableExpr"},        // {}
		{1, 7, "File Block LocalStmt Ident"},             // t
		{9, 1, ""},
	} {
		pos := syntax.MakePosition(&f.Path, test.line, test.col)
		var types []string
		for _, n := range syntax.Enclosing(f, pos) {
			types = append(types, strings.TrimPrefix(reflect.TypeOf(n).String(), "*syntax."))
		}
		if got := strings.Join(types, " "); got != test.want {
			t.Errorf("Enclosing(%d:%d) = %s, want %s", test.line, test.col, got, test.want)
		}
	}

	pos := syntax.MakePosition(&f.Path, 2, 12)
	stmt := syntax.Innermost(f, pos, func(n syntax.Node) bool {
		_, ok := n.(syntax.Stmt)
		return ok
	})
	if _, ok := stmt.(*syntax.AssignStmt); !ok {
		t.Errorf("Innermost statement = %T, want *syntax.AssignStmt", stmt)
	}
}

// ExampleWalk demonstrates the use of Walk to
// enumerate the identifiers in a Lua source file
// containing a nonsense program with varied grammar.
func ExampleWalk() {
	const src = `
local a = b
function c.d:e(f, ...)
  g = h[i] + j.k
  return l(m, {n = o, [p] = q})
end
for r, s in t do u() end
`
	f, err := syntax.Parse("hello.lua", src, 0)
	if err != nil {
		log.Fatal(err)
	}

	var idents []string
	syntax.Walk(f, func(n syntax.Node) bool {
		if id, ok := n.(*syntax.Ident); ok {
			idents = append(idents, id.Name)
		}
		return true
	})
	fmt.Println(strings.Join(idents, " "))

	// Output:
	// a b c d e f g h i j k l m n o p q r s t u
}
