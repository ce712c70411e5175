// Copyright 2026 The lualens Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package index_test

import (
	"fmt"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/lualens/lualens/index"
	"github.com/lualens/lualens/lualenstest"
	"github.com/lualens/lualens/syntax"
)

func funcNames(defs []*syntax.Definition) []string {
	var names []string
	for _, d := range defs {
		names = append(names, fmt.Sprintf("%s %s", index.Key(d), d.Name.Name))
	}
	return names
}

func TestCollect(t *testing.T) {
	const src = `---@class A : Base
---@field aa string
local a = {}

---@return self
function a:create() end

function Foo:bar() end
function Foo.baz() end
function a.b.c() end
function helper() end

local function hidden() end
local shadow
function shadow() end

---@class P
Player = {}
function Player:move() end
count, total = 0
`
	f := lualenstest.Parse(t, "collect.lua", src)
	defs := index.Collect(f)

	wantFuncs := []string{
		"A create",
		"Foo bar",
		"Foo baz",
		"a.b c",
		"$global helper",
		"P move",
	}
	if diff := cmp.Diff(wantFuncs, funcNames(defs.Funcs)); diff != "" {
		t.Errorf("functions mismatch (-want +got):\n%s", diff)
	}

	var globals []string
	for _, d := range defs.Globals {
		globals = append(globals, fmt.Sprintf("%s %q %v", d.Name.Name, d.DeclaredType(), d.Value != nil))
	}
	wantGlobals := []string{
		`Player "P" true`,
		`count "" true`,
		`total "" false`,
	}
	if diff := cmp.Diff(wantGlobals, globals); diff != "" {
		t.Errorf("globals mismatch (-want +got):\n%s", diff)
	}

	var classes []string
	for _, c := range defs.Classes {
		classes = append(classes, fmt.Sprintf("%s %v %d %s %s", c.Name, c.Supers, len(c.Fields), c.Def.Kind, c.Def.Name.Name))
	}
	wantClasses := []string{
		"A [Base] 1 local a",
		"P [] 0 global Player",
	}
	if diff := cmp.Diff(wantClasses, classes); diff != "" {
		t.Errorf("classes mismatch (-want +got):\n%s", diff)
	}
}

func TestQueries(t *testing.T) {
	x := index.New()
	x.Update(lualenstest.Parse(t, "/proj/a.lua", `
function foo:lower() end
function Foo:upper() end
function util() end
shared = 1
`))
	x.Update(lualenstest.Parse(t, "/lib/b.lua", `
function Foo:lib() end
function util() end
shared = "two"
---@class Foo
Foo = {}
`))
	x.Update(lualenstest.Parse(t, "/other/c.lua", `
function Foo:other() end
`))
	x.Update(lualenstest.Parse(t, "/proj/c_test.lua", `
function Foo:test() end
`))

	// Keys that hash alike are told apart by name.
	if index.Hash("foo") != index.Hash("Foo") {
		t.Fatal("hash is case sensitive")
	}
	for _, test := range []struct {
		key   string
		scope index.Scope
		want  []string
	}{
		{"Foo", index.AllFiles, []string{"Foo upper", "Foo lib", "Foo other", "Foo test"}},
		{"foo", index.AllFiles, []string{"foo lower"}},
		{"FOO", index.AllFiles, nil},
		{"Foo", &index.Roots{Dirs: []string{"/proj", "/lib"}}, []string{"Foo upper", "Foo lib", "Foo test"}},
		{"Foo", &index.Roots{Dirs: []string{"/proj", "/lib"}, Exclude: []string{"*_test.lua"}}, []string{"Foo upper", "Foo lib"}},
		{"Foo", index.Without(index.AllFiles, "/lib/b.lua"), []string{"Foo upper", "Foo other", "Foo test"}},
		{"Foo", nil, []string{"Foo upper", "Foo lib", "Foo other", "Foo test"}},
		{index.GlobalKey, index.AllFiles, []string{"$global util", "$global util"}},
	} {
		got := funcNames(x.Funcs(test.key, test.scope))
		if diff := cmp.Diff(test.want, got); diff != "" {
			t.Errorf("Funcs(%q, %v) mismatch (-want +got):\n%s", test.key, test.scope, diff)
		}
	}

	if n := len(x.Globals("shared", index.AllFiles)); n != 2 {
		t.Errorf("Globals(shared) returned %d definitions, want 2", n)
	}
	if n := len(x.Globals("Shared", index.AllFiles)); n != 0 {
		t.Errorf("Globals(Shared) returned %d definitions, want 0", n)
	}
	if classes := x.Classes("Foo", index.AllFiles); len(classes) != 1 || classes[0].Def.File.Path != "/lib/b.lua" {
		t.Errorf("Classes(Foo) = %v, want the declaration in /lib/b.lua", classes)
	}
	if diff := cmp.Diff([]string{"/lib/b.lua", "/other/c.lua", "/proj/a.lua", "/proj/c_test.lua"}, x.Files()); diff != "" {
		t.Errorf("Files mismatch (-want +got):\n%s", diff)
	}
}

func TestUpdateRemove(t *testing.T) {
	x := index.New()
	x.Update(lualenstest.Parse(t, "m.lua", "function M:old() end\nv = 1\n---@class M\nM = {}"))
	x.Update(lualenstest.Parse(t, "m.lua", "function M:new() end"))
	if diff := cmp.Diff([]string{"M new"}, funcNames(x.Funcs("M", nil))); diff != "" {
		t.Errorf("after update (-want +got):\n%s", diff)
	}
	if defs := x.Globals("v", nil); defs != nil {
		t.Errorf("stale global after update: %v", defs)
	}
	if classes := x.Classes("M", nil); classes != nil {
		t.Errorf("stale class after update: %v", classes)
	}
	x.Remove("m.lua")
	x.Remove("never-indexed.lua")
	if files, defs := x.Len(); files != 0 || defs != 0 {
		t.Errorf("after remove: %d files, %d definitions", files, defs)
	}
}

func TestNilIndex(t *testing.T) {
	var x *index.Index
	if x.Funcs("A", nil) != nil || x.Globals("a", nil) != nil || x.Classes("A", nil) != nil || x.Files() != nil {
		t.Error("nil index returned entries")
	}
}

func TestConcurrentAccess(t *testing.T) {
	x := index.New()
	var files []*syntax.File
	for i := 0; i < 8; i++ {
		src := fmt.Sprintf("function C:m%d() end\ng%d = %d", i, i, i)
		files = append(files, lualenstest.Parse(t, fmt.Sprintf("f%d.lua", i), src))
	}
	var wg sync.WaitGroup
	for _, f := range files {
		wg.Add(2)
		go func(f *syntax.File) {
			defer wg.Done()
			x.Update(f)
		}(f)
		go func() {
			defer wg.Done()
			x.Funcs("C", index.AllFiles)
		}()
	}
	wg.Wait()
	if n := len(x.Funcs("C", index.AllFiles)); n != len(files) {
		t.Errorf("got %d methods of C, want %d", n, len(files))
	}
}
