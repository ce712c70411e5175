// Copyright 2026 The lualens Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package infer computes the set of types a Lua expression may hold.
//
// Inference combines local resolution, the symbol index, doc-comment
// annotations and the inferred types of subexpressions:
//
//   - An identifier takes its declared type if it has one. Otherwise a
//     local takes the union of the types of the assignments that reach
//     the use, and a global the union of the types of all its
//     definitions. A variable holding a single table also gathers the
//     fields written into it anywhere in its file.
//   - a.b takes the type of field b of each type of a: a table field,
//     an annotated class field, or a function indexed under the class.
//   - A call takes the annotated return type of each function it may
//     call, or else the union of the values its return statements yield.
//   - Operators yield fixed types: arithmetic a number, concatenation a
//     string, and comparison and logical operators a boolean.
//
// Each call to InferType is an independent depth-first evaluation.
// Re-entering an expression or global already being inferred yields
// Unknown, so cyclic definitions such as "local a = b; local b = a"
// terminate. Every result is computed at most once per request.
//
// An Engine is safe for concurrent use provided the syntax trees it
// is given are not modified.
package infer // import "github.com/lualens/lualens/infer"

import (
	"strings"

	"github.com/lualens/lualens/index"
	"github.com/lualens/lualens/resolve"
	"github.com/lualens/lualens/syntax"
	"github.com/lualens/lualens/types"
)

// An Engine infers types against a symbol index.
type Engine struct {
	// Index supplies definitions from other files. It may be nil.
	// Entries for the file being analyzed are ignored in favor of
	// that file's current syntax tree.
	Index *index.Index

	// Scope restricts index queries. Nil means all files.
	Scope index.Scope
}

// InferType returns the set of types expression x of file f may hold.
// The result is never empty; it holds types.Unknown if nothing is known.
func (e *Engine) InferType(f *syntax.File, x syntax.Expr) types.Set {
	if f == nil || x == nil {
		return types.Set{}
	}
	return e.newInferrer(f).expr(f, x)
}

// GuessPrefixType returns the type of the object part of a call or
// index expression: the a of a.b, a[k], a.b(...) and a:b(...).
// It returns Unknown for any other expression.
func (e *Engine) GuessPrefixType(f *syntax.File, x syntax.Expr) types.Set {
	prefix := Prefix(x)
	if f == nil || prefix == nil {
		return types.Set{}
	}
	return e.newInferrer(f).expr(f, prefix)
}

// Prefix returns the object expression of a call or index expression,
// or nil.
func Prefix(x syntax.Expr) syntax.Expr {
	switch x := x.(type) {
	case *syntax.IndexExpr:
		return x.X
	case *syntax.CallExpr:
		if x.Method != nil {
			return x.Fn
		}
		if fn, ok := x.Fn.(*syntax.IndexExpr); ok {
			return fn.X
		}
	}
	return nil
}

// ExprAt returns the innermost expression of f enclosing pos, or nil.
func ExprAt(f *syntax.File, pos syntax.Position) syntax.Expr {
	n := syntax.Innermost(f, pos, func(n syntax.Node) bool {
		switch n.(type) {
		case *syntax.TableField:
			return false
		case syntax.Expr:
			return true
		}
		return false
	})
	if n == nil {
		return nil
	}
	return n.(syntax.Expr)
}

// An inferrer holds the state of one inference request.
type inferrer struct {
	e      *Engine
	file   *syntax.File
	local  *index.FileDefs
	active map[key]bool // recursion guard
	memo   map[key]types.Set
	tables map[*syntax.Ident]*types.Table

	resolved map[*syntax.Ident]*syntax.Definition
	writes   map[*syntax.Ident][]fieldWrite // by variable name
}

func (e *Engine) newInferrer(f *syntax.File) *inferrer {
	return &inferrer{
		e:      e,
		file:   f,
		active: make(map[key]bool),
		memo:   make(map[key]types.Set),
		tables: make(map[*syntax.Ident]*types.Table),

		resolved: make(map[*syntax.Ident]*syntax.Definition),
		writes:   make(map[*syntax.Ident][]fieldWrite),
	}
}

// find returns the local definition id, an identifier of file f,
// refers to, or nil if it is not bound by a local.
func (in *inferrer) find(f *syntax.File, id *syntax.Ident) *syntax.Definition {
	if d, ok := in.resolved[id]; ok {
		return d
	}
	d := resolve.Find(f, id.NamePos, id.Name)
	in.resolved[id] = d
	return d
}

// binds reports whether id refers to the local definition d.
func (in *inferrer) binds(id *syntax.Ident, d *syntax.Definition) bool {
	return id.Name == d.Name.Name && d.Same(in.find(d.File, id))
}

// A key identifies a result being inferred: the type of an
// expression, with index > 0 a further result of a call, or the type
// of the global name.
type key struct {
	x     syntax.Expr
	index int
	name  string
}

// expr returns the type of x, an expression of file f.
func (in *inferrer) expr(f *syntax.File, x syntax.Expr) types.Set {
	return in.guard(key{x: x}, func() types.Set { return in.infer(f, x) })
}

// guard computes the result identified by k, or returns Unknown if it
// is already being computed. A result is computed once per request,
// even if a cycle through it was cut.
func (in *inferrer) guard(k key, compute func() types.Set) types.Set {
	if s, ok := in.memo[k]; ok {
		return s
	}
	if in.active[k] {
		return types.Set{}
	}
	in.active[k] = true
	s := compute()
	delete(in.active, k)
	in.memo[k] = s
	return s
}

func (in *inferrer) infer(f *syntax.File, x syntax.Expr) types.Set {
	switch x := x.(type) {
	case *syntax.Ident:
		if d := in.find(f, x); d != nil {
			return in.definition(d, x.NamePos)
		}
		return in.global(x.Name)

	case *syntax.Literal:
		switch x.Token {
		case syntax.NIL:
			return types.Of(types.Nil)
		case syntax.TRUE, syntax.FALSE:
			return types.Of(types.Boolean)
		case syntax.NUMBER:
			return types.Of(types.Number)
		case syntax.STRING:
			return types.Of(types.String)
		}

	case *syntax.ParenExpr:
		return in.expr(f, x.X)

	case *syntax.FuncExpr:
		return types.Of(types.Function)

	case *syntax.TableExpr:
		return types.Of(newTable(f, x, ""))

	case *syntax.IndexExpr:
		prefix := in.expr(f, x.X)
		if name := x.FieldName(); name != "" {
			return in.member(prefix, name)
		}
		var elems types.Set
		for _, t := range prefix.Tables() {
			elems = types.Union(elems, t.Elem)
		}
		return elems

	case *syntax.CallExpr:
		return in.call(f, x, 0)

	case *syntax.UnaryExpr:
		if in.expr(f, x.X).IsUnknown() {
			return types.Set{}
		}
		if x.Op == syntax.NOT {
			return types.Of(types.Boolean)
		}
		return types.Of(types.Number)

	case *syntax.BinaryExpr:
		result, ok := binaryResult[x.Op]
		if !ok || in.expr(f, x.X).IsUnknown() || in.expr(f, x.Y).IsUnknown() {
			return types.Set{}
		}
		return types.Of(result)
	}
	return types.Set{}
}

// binaryResult gives the result type of each binary operator.
var binaryResult = map[syntax.Token]types.Primitive{
	syntax.PLUS:       types.Number,
	syntax.MINUS:      types.Number,
	syntax.STAR:       types.Number,
	syntax.SLASH:      types.Number,
	syntax.SLASHSLASH: types.Number,
	syntax.PERCENT:    types.Number,
	syntax.CIRCUMFLEX: types.Number,
	syntax.AMP:        types.Number,
	syntax.PIPE:       types.Number,
	syntax.TILDE:      types.Number,
	syntax.LTLT:       types.Number,
	syntax.GTGT:       types.Number,
	syntax.DOTDOT:     types.String,
	syntax.EQL:        types.Boolean,
	syntax.NEQ:        types.Boolean,
	syntax.LT:         types.Boolean,
	syntax.LE:         types.Boolean,
	syntax.GT:         types.Boolean,
	syntax.GE:         types.Boolean,
	syntax.AND:        types.Boolean,
	syntax.OR:         types.Boolean,
}

// newTable returns the table type of a constructor.
func newTable(f *syntax.File, x *syntax.TableExpr, name string) *types.Table {
	t := types.NewTable(name, x)
	for _, field := range x.Fields {
		if name := field.FieldName(); name != "" {
			t.AddField(name, field.Value, f)
		}
	}
	return t
}

// annotation returns the type denoted by annotation text.
// The type self denotes recv.
func (in *inferrer) annotation(text string, recv types.Set) types.Set {
	var s types.Set
	for _, part := range strings.Split(text, "|") {
		if strings.TrimSpace(part) == types.SelfName {
			s = types.Union(s, recv)
		} else {
			s = types.Union(s, types.Parse(part))
		}
	}
	return s
}

// definition returns the type of the variable or function defined by
// d, as seen from a use at pos.
func (in *inferrer) definition(d *syntax.Definition, pos syntax.Position) types.Set {
	switch {
	case d.Self:
		return in.self(d)
	case d.Kind == syntax.LocalFuncKind || d.Kind == syntax.GlobalFuncKind:
		return types.Of(types.Function)
	}
	if t := d.DeclaredType(); t != "" {
		return types.Parse(t)
	}

	// Parameters and loop variables are assigned by the call or loop.
	start := value{x: d.Value, index: d.Index}
	switch d.Stmt.(type) {
	case *syntax.ForNumStmt:
		start = value{typ: types.Number}
	case *syntax.ForInStmt:
		start = value{typ: types.Unknown}
	}
	if d.Param {
		start = value{typ: types.Unknown}
	}

	var s types.Set
	if d.Kind == syntax.LocalKind {
		for _, v := range in.reaching(d, start, pos) {
			s = types.Union(s, in.value(d.File, v))
		}
	} else {
		s = in.value(d.File, start)
	}

	// A variable holding exactly one table is that table's identity.
	if tables := s.Tables(); len(tables) == 1 && s.Len() == 1 && tables[0].Origin != nil {
		return types.Of(in.identity(d, tables[0]))
	}
	return s
}

// global returns the type of an identifier not bound by a local.
func (in *inferrer) global(name string) types.Set {
	return in.guard(key{name: name}, func() types.Set { return in.globalDefs(name) })
}

func (in *inferrer) globalDefs(name string) types.Set {
	var s types.Set
	for _, d := range in.globals(name) {
		s = types.Union(s, in.definition(d, d.Pos()))
	}
	for _, d := range in.funcs(index.GlobalKey) {
		if d.Name.Name == name {
			s = types.Union(s, types.Of(types.Function))
			break
		}
	}
	return s
}

// identity returns the table held by variable d: t, named after d,
// with the fields written into d throughout its file.
func (in *inferrer) identity(d *syntax.Definition, t *types.Table) *types.Table {
	if cached, ok := in.tables[d.Name]; ok && cached.Origin == t.Origin {
		return cached
	}
	t = t.Clone()
	t.Name = d.Name.Name
	for _, w := range in.fieldWrites(d) {
		t.AddField(w.name, w.value, d.File)
	}
	in.tables[d.Name] = t
	return t
}

// self returns the type of the implicit self parameter of a method:
// the type of the receiver path of its name.
func (in *inferrer) self(d *syntax.Definition) types.Set {
	stmt, ok := d.Stmt.(*syntax.FuncStmt)
	if !ok {
		return types.Set{}
	}
	path := stmt.Name.Path
	s := in.expr(d.File, path[0])
	for _, id := range path[1 : len(path)-1] {
		s = in.member(s, id.Name)
	}
	return s
}

// A value is an expression assigned to a variable. A variable
// assigned from a call or '...' beyond the first takes the result at
// index. A nil expression denotes nil, unless typ is set: the type of
// a value assigned implicitly.
type value struct {
	x     syntax.Expr
	index int
	typ   types.Type
}

func (in *inferrer) value(f *syntax.File, v value) types.Set {
	if v.typ != nil {
		return types.Of(v.typ)
	}
	switch x := v.x.(type) {
	case nil:
		return types.Of(types.Nil)
	case *syntax.CallExpr:
		if v.index > 0 {
			return in.guard(key{x: x, index: v.index}, func() types.Set { return in.call(f, x, v.index) })
		}
	case *syntax.Literal:
		if v.index > 0 {
			return types.Set{}
		}
	}
	return in.expr(f, v.x)
}

// Queries against the index, with the definitions of the file being
// analyzed taken from its syntax tree.

func (in *inferrer) fileDefs() *index.FileDefs {
	if in.local == nil {
		in.local = index.Collect(in.file)
	}
	return in.local
}

func (in *inferrer) scope() index.Scope {
	return index.Without(in.e.Scope, in.file.Path)
}

func (in *inferrer) funcs(key string) []*syntax.Definition {
	var defs []*syntax.Definition
	for _, d := range in.fileDefs().Funcs {
		if index.Key(d) == key {
			defs = append(defs, d)
		}
	}
	return append(defs, in.e.Index.Funcs(key, in.scope())...)
}

func (in *inferrer) globals(name string) []*syntax.Definition {
	var defs []*syntax.Definition
	for _, d := range in.fileDefs().Globals {
		if d.Name.Name == name {
			defs = append(defs, d)
		}
	}
	return append(defs, in.e.Index.Globals(name, in.scope())...)
}

func (in *inferrer) classes(name string) []*index.Class {
	var classes []*index.Class
	for _, c := range in.fileDefs().Classes {
		if c.Name == name {
			classes = append(classes, c)
		}
	}
	return append(classes, in.e.Index.Classes(name, in.scope())...)
}
