// Copyright 2026 The lualens Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package complete suggests completions at a position in a Lua file.
//
// The source is parsed with a placeholder identifier, Dummy, inserted
// at the caret, so that an incomplete member access such as "t." or
// "obj:" parses as an index or method call whose name is the
// placeholder. The syntactic context of the placeholder selects the
// candidates:
//
//	obj:|   functions indexed under the classes of obj's type
//	obj.|   fields and functions of obj's type
//	|       visible locals, local functions and global functions
//
// Text typed before the caret forms a prefix used to rank the
// candidates.
package complete // import "github.com/lualens/lualens/complete"

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/lualens/lualens/infer"
	"github.com/lualens/lualens/resolve"
	"github.com/lualens/lualens/syntax"
)

// Dummy is the identifier inserted at the caret before parsing.
const Dummy = "lualens__caret"

// Kind classifies a completion item.
type Kind uint8

const (
	Variable Kind = iota // local variable
	Method               // method or local function
	Function             // global function
	Field                // table or class field
)

var kindNames = [...]string{
	Variable: "variable",
	Method:   "method",
	Function: "function",
	Field:    "field",
}

func (k Kind) String() string { return kindNames[k] }

// An Item is a completion candidate.
type Item struct {
	Label    string
	Kind     Kind
	TypeText string // class name, field type, "Table" or "Global Func"
}

// A Source computes completions against an inference engine.
// The zero Source completes against the file alone.
type Source struct {
	Engine infer.Engine
}

// maxRepairs bounds the number of "end" tokens appended to a source
// truncated at the caret.
const maxRepairs = 8

// Complete returns the completions at byte offset of src.
//
// If src does not parse with the placeholder inserted, Complete retries
// with the text after the caret removed and unclosed blocks closed.
// It returns the error of the first attempt if none parses.
func (s *Source) Complete(filename, src string, offset int) ([]Item, error) {
	if offset < 0 || offset > len(src) {
		return nil, fmt.Errorf("%s: offset %d out of range [0, %d]", filename, offset, len(src))
	}
	before := src[:offset] + Dummy
	f, err := syntax.Parse(filename, before+src[offset:], syntax.Lenient)
	if err != nil {
		for i := 0; i <= maxRepairs; i++ {
			g, err2 := syntax.Parse(filename, before+strings.Repeat("\nend", i), syntax.Lenient)
			if err2 == nil {
				f, err = g, nil
				break
			}
		}
		if err != nil {
			return nil, err
		}
	}
	return s.At(f, position(&f.Path, src[:offset])), nil
}

// position returns the position just after text.
func position(filename *string, text string) syntax.Position {
	line := 1 + strings.Count(text, "\n")
	col := 1 + utf8.RuneCountInString(text[strings.LastIndexByte(text, '\n')+1:])
	return syntax.MakePosition(filename, int32(line), int32(col))
}

// At returns the completions for the placeholder identifier at pos
// in f, a file parsed with Dummy inserted at the caret.
// It returns nil if there is no placeholder at pos, or if it names a
// new declaration.
func (s *Source) At(f *syntax.File, pos syntax.Position) []Item {
	path := syntax.Enclosing(f, pos)
	var id *syntax.Ident
	var parent syntax.Node
	for i := len(path) - 1; i > 0; i-- {
		if x, ok := path[i].(*syntax.Ident); ok && strings.Contains(x.Name, Dummy) {
			id, parent = x, path[i-1]
			break
		}
	}
	if id == nil || declares(parent, id) {
		return nil
	}

	var items []Item
	switch p := parent.(type) {
	case *syntax.CallExpr:
		if p.Method == id {
			items = s.methods(f, p)
			break
		}
		items = s.names(f, pos)
	case *syntax.IndexExpr:
		if p.Name == id {
			items = s.fields(f, p)
			break
		}
		items = s.names(f, pos)
	default:
		items = s.names(f, pos)
	}
	return rank(id.Name[:strings.Index(id.Name, Dummy)], dedup(items))
}

// methods returns the functions callable with the method syntax of call.
func (s *Source) methods(f *syntax.File, call *syntax.CallExpr) []Item {
	var items []Item
	for _, m := range s.Engine.Members(f, s.Engine.GuessPrefixType(f, call)) {
		if m.Def != nil {
			items = append(items, Item{Label: m.Name, Kind: Method, TypeText: m.Owner})
		} else if _, ok := m.Value.(*syntax.FuncExpr); ok {
			items = append(items, Item{Label: m.Name, Kind: Method, TypeText: m.Owner})
		}
	}
	return items
}

// fields returns the members of the type of the object of x.
func (s *Source) fields(f *syntax.File, x *syntax.IndexExpr) []Item {
	var items []Item
	for _, m := range s.Engine.Members(f, s.Engine.GuessPrefixType(f, x)) {
		switch {
		case m.Def != nil:
			items = append(items, Item{Label: m.Name, Kind: Method, TypeText: m.Owner})
		case m.Type != "":
			items = append(items, Item{Label: m.Name, Kind: Field, TypeText: m.Type})
		default:
			items = append(items, Item{Label: m.Name, Kind: Field, TypeText: "Table"})
		}
	}
	return items
}

// names returns the locals and local functions visible at pos,
// innermost first, followed by the global functions.
func (s *Source) names(f *syntax.File, pos syntax.Position) []Item {
	var items []Item
	resolve.Locals(f, pos, func(d *syntax.Definition) bool {
		items = append(items, Item{Label: d.Name.Name, Kind: Variable})
		return true
	})
	resolve.LocalFuncs(f, pos, func(d *syntax.Definition) bool {
		items = append(items, Item{Label: d.Name.Name, Kind: Method})
		return true
	})
	for _, d := range s.Engine.GlobalFuncs(f) {
		items = append(items, Item{Label: d.Name.Name, Kind: Function, TypeText: "Global Func"})
	}
	return items
}

// declares reports whether id is a name being declared by parent.
func declares(parent syntax.Node, id *syntax.Ident) bool {
	isParam := func(fn *syntax.Function) bool {
		for _, p := range fn.Params {
			if p == id {
				return true
			}
		}
		return false
	}
	switch p := parent.(type) {
	case *syntax.LocalStmt:
		for _, name := range p.Names {
			if name == id {
				return true
			}
		}
	case *syntax.LocalFuncStmt:
		return p.Name == id || isParam(&p.Function)
	case *syntax.FuncStmt:
		for _, name := range p.Name.Path {
			if name == id {
				return true
			}
		}
		return isParam(&p.Function)
	case *syntax.FuncExpr:
		return isParam(&p.Function)
	case *syntax.ForNumStmt:
		return p.Var == id
	case *syntax.ForInStmt:
		for _, v := range p.Vars {
			if v == id {
				return true
			}
		}
	case *syntax.TableField:
		return p.Name == id
	case *syntax.LabelStmt, *syntax.BranchStmt:
		return true
	}
	return false
}

// dedup removes items whose labels occur earlier, and the placeholder.
func dedup(items []Item) []Item {
	seen := make(map[string]bool)
	out := items[:0]
	for _, item := range items {
		if seen[item.Label] || strings.Contains(item.Label, Dummy) {
			continue
		}
		seen[item.Label] = true
		out = append(out, item)
	}
	return out
}
