// Copyright 2026 The lualens Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package syntax_test

import (
	"bytes"
	"fmt"
	"os"
	"reflect"
	"strings"
	"testing"

	"github.com/lualens/lualens/internal/chunkedfile"
	"github.com/lualens/lualens/lualenstest"
	"github.com/lualens/lualens/syntax"
)

func TestExprParseTrees(t *testing.T) {
	for _, test := range []struct {
		input, want string
	}{
		{`print(1)`,
			`(CallExpr Fn=print Args=(1))`},
		{`x + 1`,
			`(BinaryExpr X=x Op=+ Y=1)`},
		{`a.b`,
			`(IndexExpr X=a Name=b)`},
		{`a["b"]`,
			`(IndexExpr X=a Key="b")`},
		{`a:b(1)`,
			`(CallExpr Fn=a Method=b Args=(1))`},
		{`f"str"`,
			`(CallExpr Fn=f Args=("str"))`},
		{`f{1}`,
			`(CallExpr Fn=f Args=((TableExpr Fields=((TableField Value=1)))))`},
		{`x.f(42)`,
			`(CallExpr Fn=(IndexExpr X=x Name=f) Args=(42))`},
		{`x+y*z`,
			`(BinaryExpr X=x Op=+ Y=(BinaryExpr X=y Op=* Y=z))`},
		{`x%y-z`,
			`(BinaryExpr X=(BinaryExpr X=x Op=% Y=y) Op=- Y=z)`},
		{`a .. b .. c`, // right associative
			`(BinaryExpr X=a Op=.. Y=(BinaryExpr X=b Op=.. Y=c))`},
		{`2^3^2`, // right associative
			`(BinaryExpr X=2 Op=^ Y=(BinaryExpr X=3 Op=^ Y=2))`},
		{`-x^2`, // prec(^) > prec(unary -)
			`(UnaryExpr Op=- X=(BinaryExpr X=x Op=^ Y=2))`},
		{`not a == b`,
			`(BinaryExpr X=(UnaryExpr Op=not X=a) Op=== Y=b)`},
		{`a or b and c`,
			`(BinaryExpr X=a Op=or Y=(BinaryExpr X=b Op=and Y=c))`},
		{`a | b & c`,
			`(BinaryExpr X=a Op=| Y=(BinaryExpr X=b Op=& Y=c))`},
		{`#t + 1`,
			`(BinaryExpr X=(UnaryExpr Op=# X=t) Op=+ Y=1)`},
		{`{x = 1, [k] = 2, 3}`,
			`(TableExpr Fields=((TableField Name=x Value=1) (TableField Key=k Value=2) (TableField Value=3)))`},
		{`{}`,
			`(TableExpr)`},
		{`{1; 2,}`,
			`(TableExpr Fields=((TableField Value=1) (TableField Value=2)))`},
		{`function(a, ...) return a end`,
			`(FuncExpr Function=(Function Params=(a) Vararg Body=(Block Stmts=((ReturnStmt Results=(a))))))`},
		{`(x)`,
			`(ParenExpr X=x)`},
		{`nil`,
			`nil`},
		{`...`,
			`...`},
		{`0x10 + 1.5`,
			`(BinaryExpr X=16 Op=+ Y=1.5)`},
		{`x:`,
			`got end of file, want identifier`},
		{`a:b`,
			`got end of file, want method arguments`},
		{`1 + `,
			`got end of file, want primary expression`},
	} {
		e, err := syntax.ParseExpr("foo.lua", test.input, 0)
		var got string
		if err != nil {
			got = stripPos(err)
		} else {
			got = treeString(e)
		}
		if test.want != got {
			t.Errorf("parse `%s` = %s, want %s", test.input, got, test.want)
		}
	}
}

func TestStmtParseTrees(t *testing.T) {
	for _, test := range []struct {
		input, want string
	}{
		{`print(1)`,
			`(ExprStmt X=(CallExpr Fn=print Args=(1)))`},
		{`local x = 1`,
			`(LocalStmt Names=(x) Values=(1))`},
		{`local x, y`,
			`(LocalStmt Names=(x y))`},
		{`local x <const> = 1`,
			`(LocalStmt Names=(x) Values=(1))`},
		{`local function f(a) end`,
			`(LocalFuncStmt Name=f Function=(Function Params=(a) Body=(Block)))`},
		{`function a.b:c() end`,
			`(FuncStmt Name=(FuncName Path=(a b c) Method) Function=(Function Body=(Block)))`},
		{`x, y = 1, 2`,
			`(AssignStmt LHS=(x y) RHS=(1 2))`},
		{`t.f = 1`,
			`(AssignStmt LHS=((IndexExpr X=t Name=f)) RHS=(1))`},
		{`t[k] = 1`,
			`(AssignStmt LHS=((IndexExpr X=t Key=k)) RHS=(1))`},
		{`if a then b() elseif c then d() else e() end`,
			`(IfStmt Cond=a Then=(Block Stmts=((ExprStmt X=(CallExpr Fn=b)))) Else=(Block Stmts=(` +
				`(IfStmt Cond=c Then=(Block Stmts=((ExprStmt X=(CallExpr Fn=d)))) Else=(Block Stmts=((ExprStmt X=(CallExpr Fn=e)))))` +
				`)))`},
		{`for i = 1, 10 do end`,
			`(ForNumStmt Var=i Start=1 Limit=10 Body=(Block))`},
		{`for i = 10, 1, -1 do end`,
			`(ForNumStmt Var=i Start=10 Limit=1 Step=(UnaryExpr Op=- X=1) Body=(Block))`},
		{`for k, v in pairs(t) do end`,
			`(ForInStmt Vars=(k v) X=((CallExpr Fn=pairs Args=(t))) Body=(Block))`},
		{`while x do break end`,
			`(WhileStmt Cond=x Body=(Block Stmts=((BranchStmt Token=break))))`},
		{`repeat local x = 1 until x`,
			`(RepeatStmt Body=(Block Stmts=((LocalStmt Names=(x) Values=(1)))) Cond=x)`},
		{`do end`,
			`(DoStmt Body=(Block))`},
		{`return 1, 2`,
			`(ReturnStmt Results=(1 2))`},
		{`return`,
			`(ReturnStmt)`},
		{`goto done`,
			`(BranchStmt Token=goto Label=done)`},
		{`::done::`,
			`(LabelStmt Name=done)`},
		{`;;f()`,
			`(ExprStmt X=(CallExpr Fn=f))`},
	} {
		f, err := syntax.Parse("foo.lua", test.input, 0)
		if err != nil {
			t.Errorf("parse `%s` failed: %v", test.input, stripPos(err))
			continue
		}
		if got := treeString(f.Body.Stmts[0]); test.want != got {
			t.Errorf("parse `%s` = %s, want %s", test.input, got, test.want)
		}
	}
}

// TestLenient tests the incomplete statements accepted in Lenient mode.
func TestLenient(t *testing.T) {
	for _, test := range []struct {
		input, strict, lenient string
	}{
		{`t.x`,
			`syntax error: index expression is not a statement`,
			`(ExprStmt X=(IndexExpr X=t Name=x))`},
		{`v:m`,
			`got end of file, want method arguments`,
			`(ExprStmt X=(CallExpr Fn=v Method=m))`},
		{"v:m\nlocal y = 1",
			`got local, want method arguments`,
			`(ExprStmt X=(CallExpr Fn=v Method=m))`},
		{`x`,
			`syntax error: identifier x is not a statement`,
			`(ExprStmt X=x)`},
	} {
		for _, mode := range []syntax.Mode{0, syntax.Lenient} {
			want := test.strict
			if mode == syntax.Lenient {
				want = test.lenient
			}
			var got string
			f, err := syntax.Parse("foo.lua", test.input, mode)
			if err != nil {
				got = stripPos(err)
			} else {
				got = treeString(f.Body.Stmts[0])
			}
			if got != want {
				t.Errorf("parse `%s` (mode %d) = %s, want %s", test.input, mode, got, want)
			}
		}
	}
}

// TestFileParseTrees tests sequences of statements.
func TestFileParseTrees(t *testing.T) {
	for _, test := range []struct {
		input, want string
	}{
		{`x = 1
print(x)`,
			`(AssignStmt LHS=(x) RHS=(1))
(ExprStmt X=(CallExpr Fn=print Args=(x)))`},
		{`local a = 1; local b = 2`,
			`(LocalStmt Names=(a) Values=(1))
(LocalStmt Names=(b) Values=(2))`},
		{`f()
(g)()`, // a call, not two statements
			`(ExprStmt X=(CallExpr Fn=(CallExpr Fn=(CallExpr Fn=f) Args=(g))))`},
		{`#!/usr/bin/env lua
return`,
			`(ReturnStmt)`},
	} {
		f, err := syntax.Parse("foo.lua", test.input, 0)
		if err != nil {
			t.Errorf("parse `%s` failed: %v", test.input, stripPos(err))
			continue
		}
		var buf bytes.Buffer
		for i, stmt := range f.Body.Stmts {
			if i > 0 {
				buf.WriteByte('\n')
			}
			writeTree(&buf, reflect.ValueOf(stmt))
		}
		if got := buf.String(); test.want != got {
			t.Errorf("parse `%s` = %s, want %s", test.input, got, test.want)
		}
	}
}

func TestBlockSpans(t *testing.T) {
	const src = `local function f(a)
  local b = a
end
repeat
  local c = 1
until c > 0`
	f, err := syntax.Parse("foo.lua", src, 0)
	if err != nil {
		t.Fatal(err)
	}
	fn := f.Body.Stmts[0].(*syntax.LocalFuncStmt)
	if got, want := spanString(fn.Body), "foo.lua:1:19 foo.lua:3:1"; got != want {
		t.Errorf("function body span = %s, want %s", got, want)
	}
	if got, want := spanString(fn), "foo.lua:1:1 foo.lua:3:4"; got != want {
		t.Errorf("local function span = %s, want %s", got, want)
	}
	rep := f.Body.Stmts[1].(*syntax.RepeatStmt)
	if got, want := spanString(rep.Body), "foo.lua:4:1 foo.lua:6:12"; got != want {
		t.Errorf("repeat body span = %s, want %s", got, want)
	}
	if !rep.Body.Contains(syntax.Start(rep.Cond)) {
		t.Errorf("repeat body does not contain its until condition")
	}
}

func spanString(n syntax.Node) string {
	start, end := n.Span()
	return fmt.Sprint(start, " ", end)
}

func stripPos(err error) string {
	s := err.Error()
	if i := strings.Index(s, ": "); i >= 0 {
		s = s[i+len(": "):] // strip file:line:col
	}
	return s
}

// treeString prints a syntax node as a parenthesized tree.
// Idents are printed as foo and Literals as "foo" or 42.
// Structs are printed as (type name=value ...).
// Only non-empty fields are shown.
func treeString(n syntax.Node) string {
	var buf bytes.Buffer
	writeTree(&buf, reflect.ValueOf(n))
	return buf.String()
}

func writeTree(out *bytes.Buffer, x reflect.Value) {
	switch x.Kind() {
	case reflect.String, reflect.Int, reflect.Bool:
		fmt.Fprintf(out, "%v", x.Interface())
	case reflect.Ptr, reflect.Interface:
		if elem := x.Elem(); elem.Kind() == 0 {
			out.WriteString("nil")
		} else {
			writeTree(out, elem)
		}
	case reflect.Struct:
		switch v := x.Interface().(type) {
		case syntax.Literal:
			switch v.Token {
			case syntax.STRING:
				fmt.Fprintf(out, "%q", v.Value)
			case syntax.NUMBER:
				fmt.Fprintf(out, "%v", v.Value)
			default:
				out.WriteString(v.Raw)
			}
			return
		case syntax.Ident:
			out.WriteString(v.Name)
			return
		}
		fmt.Fprintf(out, "(%s", strings.TrimPrefix(x.Type().String(), "syntax."))
		for i, n := 0, x.NumField(); i < n; i++ {
			f := x.Field(i)
			if f.Type() == reflect.TypeOf(syntax.Position{}) {
				continue // skip positions
			}
			name := x.Type().Field(i).Name
			if name == "Doc" {
				continue // skip doc comments
			}
			if f.Type() == reflect.TypeOf(syntax.Token(0)) {
				fmt.Fprintf(out, " %s=%s", name, f.Interface())
				continue
			}

			switch f.Kind() {
			case reflect.Slice:
				if n := f.Len(); n > 0 {
					fmt.Fprintf(out, " %s=(", name)
					for i := 0; i < n; i++ {
						if i > 0 {
							out.WriteByte(' ')
						}
						writeTree(out, f.Index(i))
					}
					out.WriteByte(')')
				}
				continue
			case reflect.Ptr, reflect.Interface:
				if f.IsNil() {
					continue
				}
			case reflect.Int:
				if f.Int() != 0 {
					fmt.Fprintf(out, " %s=%d", name, f.Int())
				}
				continue
			case reflect.Bool:
				if f.Bool() {
					fmt.Fprintf(out, " %s", name)
				}
				continue
			}
			fmt.Fprintf(out, " %s=", name)
			writeTree(out, f)
		}
		fmt.Fprintf(out, ")")
	default:
		fmt.Fprintf(out, "%T", x.Interface())
	}
}

func TestParseErrors(t *testing.T) {
	filename := lualenstest.DataFile("syntax", "testdata/errors.lua")
	for _, chunk := range chunkedfile.Read(filename, t) {
		_, err := syntax.Parse(filename, chunk.Source, 0)
		switch err := err.(type) {
		case nil:
			// ok
		case syntax.Error:
			chunk.GotError(int(err.Pos.Line), err.Msg)
		default:
			t.Error(err)
		}
		chunk.Done()
	}
}

func BenchmarkParse(b *testing.B) {
	filename := lualenstest.DataFile("syntax", "testdata/scan.lua")
	b.StopTimer()
	data, err := os.ReadFile(filename)
	if err != nil {
		b.Fatal(err)
	}
	b.StartTimer()

	for i := 0; i < b.N; i++ {
		_, err := syntax.Parse(filename, data, 0)
		if err != nil {
			b.Fatal(err)
		}
	}
}
