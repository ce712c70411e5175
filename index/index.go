// Copyright 2026 The lualens Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package index maintains the symbol index: the global functions,
// global variables and annotated classes defined by a set of Lua files.
//
// Function definitions are keyed by the name of their receiver:
// "function Foo:bar()" and "function Foo.bar()" are found under the key
// "Foo", and unqualified functions under GlobalKey. Keys are hashed
// case-insensitively into buckets; every query compares the exact key
// after the bucket lookup, so names differing only in case never mix.
//
// An Index is safe for concurrent use. Queries see the state of the
// index at the time of the call; a file updated concurrently may or
// may not be reflected.
package index // import "github.com/lualens/lualens/index"

import (
	"sort"
	"sync"

	"github.com/lualens/lualens/syntax"
)

// GlobalKey is the key of functions not qualified by a receiver name.
// It is not a valid Lua identifier.
const GlobalKey = "$global"

// Key returns the key under which a function definition is indexed.
func Key(d *syntax.Definition) string {
	if d.Class == "" {
		return GlobalKey
	}
	return d.Class
}

// A Class is a type declared by a ---@class annotation.
type Class struct {
	Name   string
	Supers []string
	Fields []*syntax.FieldTag
	Def    *syntax.Definition // the annotated variable
}

// An Index is a queryable mapping from names to definitions.
// The zero value is not usable; call New.
type Index struct {
	mu      sync.RWMutex
	files   map[string]*FileDefs
	funcs   map[uint32][]*syntax.Definition // by Hash(Key(d))
	globals map[uint32][]*syntax.Definition // by Hash(name)
	classes map[uint32][]*Class             // by Hash(name)
}

// New returns an empty index.
func New() *Index {
	return &Index{
		files:   make(map[string]*FileDefs),
		funcs:   make(map[uint32][]*syntax.Definition),
		globals: make(map[uint32][]*syntax.Definition),
		classes: make(map[uint32][]*Class),
	}
}

// Update replaces the entries of the file's path with the definitions
// of f, and returns them.
func (x *Index) Update(f *syntax.File) *FileDefs {
	defs := Collect(f)

	x.mu.Lock()
	defer x.mu.Unlock()
	x.remove(f.Path)
	x.files[f.Path] = defs
	for _, d := range defs.Funcs {
		h := Hash(Key(d))
		x.funcs[h] = append(x.funcs[h], d)
	}
	for _, d := range defs.Globals {
		h := Hash(d.Name.Name)
		x.globals[h] = append(x.globals[h], d)
	}
	for _, c := range defs.Classes {
		h := Hash(c.Name)
		x.classes[h] = append(x.classes[h], c)
	}
	return defs
}

// Remove drops the entries of the file with the given path.
func (x *Index) Remove(path string) {
	x.mu.Lock()
	defer x.mu.Unlock()
	x.remove(path)
}

func (x *Index) remove(path string) {
	defs, ok := x.files[path]
	if !ok {
		return
	}
	delete(x.files, path)
	inFile := func(d *syntax.Definition) bool { return d.File.Path == path }
	for _, d := range defs.Funcs {
		h := Hash(Key(d))
		x.funcs[h] = removeDefs(x.funcs[h], inFile)
	}
	for _, d := range defs.Globals {
		h := Hash(d.Name.Name)
		x.globals[h] = removeDefs(x.globals[h], inFile)
	}
	for _, c := range defs.Classes {
		h := Hash(c.Name)
		bucket := x.classes[h][:0]
		for _, c := range x.classes[h] {
			if !inFile(c.Def) {
				bucket = append(bucket, c)
			}
		}
		x.classes[h] = bucket
	}
}

func removeDefs(bucket []*syntax.Definition, drop func(*syntax.Definition) bool) []*syntax.Definition {
	out := bucket[:0]
	for _, d := range bucket {
		if !drop(d) {
			out = append(out, d)
		}
	}
	return out
}

// Files returns the paths of the indexed files, in order.
func (x *Index) Files() []string {
	if x == nil {
		return nil
	}
	x.mu.RLock()
	defer x.mu.RUnlock()
	paths := make([]string, 0, len(x.files))
	for path := range x.files {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}

// Len returns the number of indexed files and definitions.
func (x *Index) Len() (files, defs int) {
	if x == nil {
		return 0, 0
	}
	x.mu.RLock()
	defer x.mu.RUnlock()
	for _, f := range x.files {
		defs += len(f.Funcs) + len(f.Globals)
	}
	return len(x.files), defs
}

// Funcs returns the function definitions indexed under key whose
// files lie in scope. Use GlobalKey for unqualified functions.
// A nil index has no entries.
func (x *Index) Funcs(key string, scope Scope) []*syntax.Definition {
	if x == nil {
		return nil
	}
	x.mu.RLock()
	defer x.mu.RUnlock()
	var defs []*syntax.Definition
	for _, d := range x.funcs[Hash(key)] {
		if Key(d) == key && inScope(scope, d.File.Path) {
			defs = append(defs, d)
		}
	}
	return defs
}

// Globals returns the global variable definitions of name whose
// files lie in scope.
func (x *Index) Globals(name string, scope Scope) []*syntax.Definition {
	if x == nil {
		return nil
	}
	x.mu.RLock()
	defer x.mu.RUnlock()
	var defs []*syntax.Definition
	for _, d := range x.globals[Hash(name)] {
		if d.Name.Name == name && inScope(scope, d.File.Path) {
			defs = append(defs, d)
		}
	}
	return defs
}

// Classes returns the declarations of the named class whose files
// lie in scope.
func (x *Index) Classes(name string, scope Scope) []*Class {
	if x == nil {
		return nil
	}
	x.mu.RLock()
	defer x.mu.RUnlock()
	var classes []*Class
	for _, c := range x.classes[Hash(name)] {
		if c.Name == name && inScope(scope, c.Def.File.Path) {
			classes = append(classes, c)
		}
	}
	return classes
}

func inScope(scope Scope, path string) bool {
	return scope == nil || scope.Contains(path)
}
