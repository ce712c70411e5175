// Copyright 2026 The lualens Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package index

import (
	"path/filepath"
	"strings"
)

// A Scope restricts index queries to a set of files.
// Queries pass it through unmodified; a nil Scope contains every file.
type Scope interface {
	Contains(path string) bool
}

// AllFiles is the scope of every indexed file.
var AllFiles Scope = allFiles{}

type allFiles struct{}

func (allFiles) Contains(string) bool { return true }

// Roots is the scope of the files beneath a set of directories,
// typically the project and library roots of a configuration.
type Roots struct {
	Dirs []string

	// Exclude holds filepath.Match patterns. A file is excluded if a
	// pattern matches its base name or its slash-separated path
	// relative to the root that contains it.
	Exclude []string
}

// Contains reports whether path lies beneath one of the roots and is
// not excluded.
func (r *Roots) Contains(path string) bool {
	for _, dir := range r.Dirs {
		rel, err := filepath.Rel(dir, path)
		if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			continue
		}
		return !r.excluded(filepath.ToSlash(rel))
	}
	return false
}

func (r *Roots) excluded(rel string) bool {
	base := rel[strings.LastIndex(rel, "/")+1:]
	for _, pattern := range r.Exclude {
		if ok, _ := filepath.Match(pattern, base); ok {
			return true
		}
		if ok, _ := filepath.Match(pattern, rel); ok {
			return true
		}
	}
	return false
}

// Without returns a scope containing the files of s except path.
// The inference engine uses it to replace the indexed entries of the
// file being analyzed with those of its current syntax tree.
func Without(s Scope, path string) Scope {
	return without{s, path}
}

type without struct {
	Scope
	path string
}

func (w without) Contains(path string) bool {
	return path != w.path && inScope(w.Scope, path)
}
