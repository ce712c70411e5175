// Copyright 2026 The lualens Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package index

import (
	"github.com/lualens/lualens/resolve"
	"github.com/lualens/lualens/syntax"
)

// FileDefs holds the indexed definitions of one file, in source order.
type FileDefs struct {
	Path    string
	Funcs   []*syntax.Definition // GlobalFuncKind
	Globals []*syntax.Definition // GlobalKind
	Classes []*Class
}

// Collect returns the definitions of f that belong in the index.
//
// A function statement whose name is a single identifier bound by a
// local is an assignment to that local and is not collected. A method
// or field function is keyed by its dotted receiver, except that a
// receiver variable with a declared type is replaced by that type:
//
//	---@class A
//	local a = {}
//	function a:create() end  -- indexed under "A"
func Collect(f *syntax.File) *FileDefs {
	defs := &FileDefs{Path: f.Path}
	classOf := make(map[string]string) // annotated global -> declared type

	var blocks []*syntax.Block
	var stack []syntax.Node
	var funcs []*syntax.FuncStmt
	syntax.Walk(f, func(n syntax.Node) bool {
		if n == nil {
			if _, ok := stack[len(stack)-1].(*syntax.Block); ok {
				blocks = blocks[:len(blocks)-1]
			}
			stack = stack[:len(stack)-1]
			return true
		}
		stack = append(stack, n)

		switch n := n.(type) {
		case *syntax.Block:
			blocks = append(blocks, n)

		case *syntax.FuncStmt:
			funcs = append(funcs, n) // keyed once all globals are known

		case *syntax.AssignStmt:
			for i, lhs := range n.LHS {
				id, ok := lhs.(*syntax.Ident)
				if !ok || resolve.Find(f, id.NamePos, id.Name) != nil {
					continue
				}
				d := &syntax.Definition{
					Kind: syntax.GlobalKind,
					Name: id,
					File: f,
					Stmt: n,
				}
				d.Value, d.Index = syntax.ValueAt(n.RHS, i)
				if i == 0 {
					d.Doc = n.Doc
				}
				defs.Globals = append(defs.Globals, d)
				if t := d.DeclaredType(); t != "" {
					classOf[id.Name] = t
				}
				if d.Doc != nil && d.Doc.Class != nil {
					defs.Classes = append(defs.Classes, newClass(d))
				}
			}

		case *syntax.LocalStmt:
			if n.Doc != nil && n.Doc.Class != nil {
				d := resolve.LocalDef(f, blocks[len(blocks)-1], n, 0)
				defs.Classes = append(defs.Classes, newClass(d))
			}
		}
		return true
	})

	for _, stmt := range funcs {
		path := stmt.Name.Path
		d := &syntax.Definition{
			Kind: syntax.GlobalFuncKind,
			Name: stmt.Name.Ident(),
			File: f,
			Stmt: stmt,
			Doc:  stmt.Doc,
		}
		recv := resolve.Find(f, path[0].NamePos, path[0].Name)
		switch {
		case len(path) == 1:
			if recv != nil {
				continue
			}
		case len(path) == 2 && recv != nil && recv.DeclaredType() != "":
			d.Class = recv.DeclaredType()
		case len(path) == 2 && recv == nil && classOf[path[0].Name] != "":
			d.Class = classOf[path[0].Name]
		default:
			d.Class = stmt.Name.ClassName()
		}
		defs.Funcs = append(defs.Funcs, d)
	}
	return defs
}

func newClass(d *syntax.Definition) *Class {
	tag := d.Doc.Class
	return &Class{
		Name:   tag.Name,
		Supers: tag.Supers,
		Fields: d.Doc.Fields,
		Def:    d,
	}
}
