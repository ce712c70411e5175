// Copyright 2026 The lualens Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package lualenstest defines utilities for testing lualens packages
// against Lua sources.
//
// Test sources mark the position of interest with a caret comment:
//
//	local t = {a = 1}
//	t.--[[caret]]
//
// Caret removes the marker and returns its offset.
package lualenstest // import "github.com/lualens/lualens/lualenstest"

import (
	"path/filepath"
	"runtime"
	"strings"

	"github.com/lualens/lualens/syntax"
)

// CaretMarker marks a position in test sources.
const CaretMarker = "--[[caret]]"

// A Reporter is a value to which failures may be reported.
// It is satisfied by *testing.T.
type Reporter interface {
	Helper()
	Fatalf(format string, args ...interface{})
}

// Caret removes the first caret marker from src and returns the
// remaining text and the byte offset of the marker.
// The offset is -1 if src has no marker.
func Caret(src string) (string, int) {
	i := strings.Index(src, CaretMarker)
	if i < 0 {
		return src, -1
	}
	return src[:i] + src[i+len(CaretMarker):], i
}

// Position returns the syntax position of a byte offset in src.
func Position(filename *string, src string, offset int) syntax.Position {
	line := int32(1 + strings.Count(src[:offset], "\n"))
	col := int32(1 + len([]rune(src[strings.LastIndex(src[:offset], "\n")+1:offset])))
	return syntax.MakePosition(filename, line, col)
}

// Parse parses src, failing the test on error.
func Parse(r Reporter, filename, src string) *syntax.File {
	r.Helper()
	f, err := syntax.Parse(filename, src, 0)
	if err != nil {
		r.Fatalf("parse %s: %v", filename, err)
	}
	return f
}

// ParseCaret parses src after removing its caret marker and returns
// the file and the caret position, failing the test if either is
// missing.
func ParseCaret(r Reporter, filename, src string) (*syntax.File, syntax.Position) {
	r.Helper()
	src, offset := Caret(src)
	if offset < 0 {
		r.Fatalf("%s: no %s marker", filename, CaretMarker)
	}
	f, err := syntax.Parse(filename, src, syntax.Lenient)
	if err != nil {
		r.Fatalf("parse %s: %v", filename, err)
	}
	return f, Position(&f.Path, src, offset)
}

// DataFile returns the effective filename of the specified
// test data resource, relative to the root of the module.
var DataFile = func(pkgdir, filename string) string {
	_, file, _, _ := runtime.Caller(0)
	root := filepath.Dir(filepath.Dir(file))
	return filepath.Join(root, pkgdir, filename)
}
