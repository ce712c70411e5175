// Copyright 2026 The lualens Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"io/fs"
	"log"
	"path/filepath"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/lualens/lualens/complete"
	"github.com/lualens/lualens/index"
	"github.com/lualens/lualens/infer"
	"github.com/lualens/lualens/internal/config"
	"github.com/lualens/lualens/syntax"
	"github.com/lualens/lualens/types"
)

// buildIndex indexes the Lua files beneath the roots of cfg.
// Files that fail to parse are skipped.
func buildIndex(cfg *config.Config, verbose bool) *index.Index {
	start := time.Now()
	idx := index.New()
	scope := cfg.Scope()
	for _, root := range cfg.Roots() {
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if path != root && strings.HasPrefix(d.Name(), ".") {
					return filepath.SkipDir
				}
				return nil
			}
			if filepath.Ext(path) != ".lua" || !scope.Contains(path) {
				return nil
			}
			f, err := syntax.Parse(path, nil, syntax.Lenient)
			if err != nil {
				if verbose {
					log.Print(err)
				}
				return nil
			}
			idx.Update(f)
			return nil
		})
		if err != nil {
			log.Printf("indexing %s: %v", root, err)
		}
	}
	if verbose {
		files, defs := idx.Len()
		log.Printf("indexed %d files, %d definitions in %v", files, defs, time.Since(start).Round(time.Millisecond))
	}
	return idx
}

// parsePos parses a position of the form line:col.
func parsePos(s string) (line, col int, err error) {
	i := strings.IndexByte(s, ':')
	if i < 0 {
		return 0, 0, fmt.Errorf("got %q, want line:col", s)
	}
	line, err = strconv.Atoi(s[:i])
	if err == nil {
		col, err = strconv.Atoi(s[i+1:])
	}
	if err != nil || line < 1 || col < 1 {
		return 0, 0, fmt.Errorf("got %q, want line:col", s)
	}
	return line, col, nil
}

// offsetOf returns the byte offset of the 1-based line and column of
// text. Columns count runes; the column just past the end of a line
// is valid.
func offsetOf(text string, line, col int) (int, error) {
	offset := 0
	for i := 1; i < line; i++ {
		nl := strings.IndexByte(text[offset:], '\n')
		if nl < 0 {
			return 0, fmt.Errorf("line %d beyond end of input", line)
		}
		offset += nl + 1
	}
	rest := text[offset:]
	if nl := strings.IndexByte(rest, '\n'); nl >= 0 {
		rest = rest[:nl]
	}
	for c := 1; c < col; c++ {
		if rest == "" {
			return 0, fmt.Errorf("column %d beyond end of line %d", col, line)
		}
		_, size := utf8.DecodeRuneInString(rest)
		rest = rest[size:]
		offset += size
	}
	return offset, nil
}

// position returns the position in f just after text.
func position(f *syntax.File, text string) syntax.Position {
	line := 1 + strings.Count(text, "\n")
	col := 1 + utf8.RuneCountInString(text[strings.LastIndexByte(text, '\n')+1:])
	return syntax.MakePosition(&f.Path, int32(line), int32(col))
}

// A typeReport describes the inferred type of an expression.
type typeReport struct {
	Pos   syntax.Position // start of the expression; invalid if none
	Types types.Set
	Hint  string // member of a similar name, for an unknown field
}

// typeResult infers the type of the innermost expression at pos.
// The name of a field stands for the whole index expression.
func typeResult(engine infer.Engine, f *syntax.File, pos syntax.Position) typeReport {
	x := infer.ExprAt(f, pos)
	if x == nil {
		return typeReport{}
	}
	if id, ok := x.(*syntax.Ident); ok {
		for _, n := range syntax.Enclosing(f, id.NamePos) {
			if ix, ok := n.(*syntax.IndexExpr); ok && ix.Name == id {
				x = ix
			}
		}
	}
	r := typeReport{Pos: syntax.Start(x), Types: engine.InferType(f, x)}
	if ix, ok := x.(*syntax.IndexExpr); ok && r.Types.IsUnknown() {
		if name := ix.FieldName(); name != "" {
			var names []string
			for _, m := range engine.Members(f, engine.GuessPrefixType(f, ix)) {
				names = append(names, m.Name)
			}
			if near := complete.Nearest(name, names); near != name {
				r.Hint = near
			}
		}
	}
	return r
}
