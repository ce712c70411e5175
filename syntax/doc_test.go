// Copyright 2026 The lualens Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package syntax_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/lualens/lualens/syntax"
)

func TestDocComments(t *testing.T) {
	const src = `---@class Player : Entity, Named
---@field private name string
---@field hp number
local Player = {}

-- plain comment
--- Moves the player.
---@param x number
---@param y string
---@return self
function Player:move(x, y) end

---@type Vector
local v = f()

---@class Point: Base
Point = {}

---@return number

local function undocumented() end
`
	f, err := syntax.Parse("doc.lua", src, 0)
	if err != nil {
		t.Fatal(err)
	}
	var got []*syntax.Doc
	for _, stmt := range f.Body.Stmts {
		switch stmt := stmt.(type) {
		case *syntax.LocalStmt:
			got = append(got, stmt.Doc)
		case *syntax.FuncStmt:
			got = append(got, stmt.Doc)
		case *syntax.AssignStmt:
			got = append(got, stmt.Doc)
		case *syntax.LocalFuncStmt:
			got = append(got, stmt.Doc)
		}
	}
	want := []*syntax.Doc{
		{
			Class: &syntax.ClassTag{Name: "Player", Supers: []string{"Entity", "Named"}},
			Fields: []*syntax.FieldTag{
				{Name: "name", Type: "string"},
				{Name: "hp", Type: "number"},
			},
		},
		{
			Text: []string{"Moves the player."},
			Params: []*syntax.ParamTag{
				{Name: "x", Type: "number"},
				{Name: "y", Type: "string"},
			},
			Returns: []string{"self"},
		},
		{Type: "Vector"},
		{Class: &syntax.ClassTag{Name: "Point", Supers: []string{"Base"}}},
		nil, // separated by a blank line
	}
	if diff := cmp.Diff(want, got, cmpopts.IgnoreTypes(syntax.Position{})); diff != "" {
		t.Errorf("doc comments mismatch (-want +got):\n%s", diff)
	}
}

func TestParseDoc(t *testing.T) {
	comment := func(text string) syntax.Comment { return syntax.Comment{Text: text} }
	for _, test := range []struct {
		comments []syntax.Comment
		want     *syntax.Doc
	}{
		{nil, nil},
		{[]syntax.Comment{comment("-- not a doc comment")}, nil},
		{[]syntax.Comment{comment("---@class")}, &syntax.Doc{}},
		{[]syntax.Comment{comment("---@field x")}, &syntax.Doc{}},
		{[]syntax.Comment{comment("---@param p table|nil the table")},
			&syntax.Doc{Params: []*syntax.ParamTag{{Name: "p", Type: "table|nil"}}}},
		{[]syntax.Comment{comment("---@class A:B, C")},
			&syntax.Doc{Class: &syntax.ClassTag{Name: "A", Supers: []string{"B", "C"}}}},
		{[]syntax.Comment{comment("---@type number[]"), comment("---@return string")},
			&syntax.Doc{Type: "number[]", Returns: []string{"string"}}},
	} {
		got := syntax.ParseDoc(test.comments)
		if diff := cmp.Diff(test.want, got, cmpopts.IgnoreTypes(syntax.Position{})); diff != "" {
			t.Errorf("ParseDoc(%v) mismatch (-want +got):\n%s", test.comments, diff)
		}
	}
}

func TestDefinitionDeclaredType(t *testing.T) {
	doc := &syntax.Doc{
		Class:  &syntax.ClassTag{Name: "Player"},
		Type:   "Ignored",
		Params: []*syntax.ParamTag{{Name: "x", Type: "number"}},
	}
	for _, test := range []struct {
		def  *syntax.Definition
		want string
	}{
		{&syntax.Definition{Kind: syntax.LocalKind, Name: &syntax.Ident{Name: "p"}, Doc: doc}, "Player"},
		{&syntax.Definition{Kind: syntax.GlobalKind, Name: &syntax.Ident{Name: "p"}, Doc: &syntax.Doc{Type: "Vector"}}, "Vector"},
		{&syntax.Definition{Kind: syntax.LocalKind, Name: &syntax.Ident{Name: "x"}, Param: true, Doc: doc}, "number"},
		{&syntax.Definition{Kind: syntax.LocalKind, Name: &syntax.Ident{Name: "y"}, Param: true, Doc: doc}, ""},
		{&syntax.Definition{Kind: syntax.GlobalFuncKind, Name: &syntax.Ident{Name: "f"}, Doc: doc}, ""},
		{&syntax.Definition{Kind: syntax.LocalKind, Name: &syntax.Ident{Name: "z"}}, ""},
	} {
		if got := test.def.DeclaredType(); got != test.want {
			t.Errorf("%s %s: DeclaredType() = %q, want %q", test.def.Kind, test.def.Name.Name, got, test.want)
		}
	}
}
