// Copyright 2026 The lualens Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package syntax

// This file parses doc-comment annotations:
//
//	---@class Player : Entity
//	---@field name string
//	---@type number
//	---@param x number
//	---@return self
//
// Type expressions are kept as uninterpreted text;
// package types gives them meaning.

import "strings"

// A Doc holds the annotations of the run of "---" line comments that
// ends on the line immediately preceding a declaration.
type Doc struct {
	Pos     Position // position of the first comment
	Text    []string // lines that are not annotations
	Class   *ClassTag
	Fields  []*FieldTag
	Type    string // ---@type
	Params  []*ParamTag
	Returns []string // ---@return, in order
}

// A ClassTag declares a class: ---@class Name : Super1, Super2.
type ClassTag struct {
	Pos    Position
	Name   string
	Supers []string
}

// A FieldTag declares a field of the enclosing class:
// ---@field [public|protected|private] name type.
type FieldTag struct {
	Pos  Position
	Name string
	Type string
}

// A ParamTag declares the type of a function parameter:
// ---@param name type.
type ParamTag struct {
	Pos  Position
	Name string
	Type string
}

// ParamType returns the annotated type of the named parameter, or "".
func (d *Doc) ParamType(name string) string {
	if d == nil {
		return ""
	}
	for _, p := range d.Params {
		if p.Name == name {
			return p.Type
		}
	}
	return ""
}

// ParseDoc parses the annotations of a run of line comments.
// Comments that do not start with "---" are ignored, as are
// malformed tags. It returns nil if no comment contributed.
func ParseDoc(comments []Comment) *Doc {
	var doc *Doc
	for _, c := range comments {
		if !strings.HasPrefix(c.Text, "---") {
			continue
		}
		if doc == nil {
			doc = &Doc{Pos: c.Start}
		}
		line := strings.TrimSpace(strings.TrimLeft(c.Text, "-"))
		if !strings.HasPrefix(line, "@") {
			if line != "" {
				doc.Text = append(doc.Text, line)
			}
			continue
		}
		tag, rest := cutWord(line[1:])
		switch tag {
		case "class":
			var name string
			name, rest = cutWord(rest)
			if name == "" {
				continue
			}
			// Allow "Name: Super" as well as "Name : Super".
			var supers string
			if i := strings.IndexByte(name, ':'); i >= 0 {
				name, supers = name[:i], name[i+1:]+" "+rest
			} else if strings.HasPrefix(rest, ":") {
				supers = rest[1:]
			}
			ct := &ClassTag{Pos: c.Start, Name: name}
			for _, s := range strings.Split(supers, ",") {
				if s = strings.TrimSpace(s); s != "" {
					ct.Supers = append(ct.Supers, s)
				}
			}
			doc.Class = ct
		case "field":
			name, rest := cutWord(rest)
			switch name {
			case "public", "protected", "private":
				name, rest = cutWord(rest)
			}
			typ, _ := cutWord(rest)
			if name == "" || typ == "" {
				continue
			}
			doc.Fields = append(doc.Fields, &FieldTag{Pos: c.Start, Name: name, Type: typ})
		case "type":
			if typ, _ := cutWord(rest); typ != "" {
				doc.Type = typ
			}
		case "param":
			name, rest := cutWord(rest)
			typ, _ := cutWord(rest)
			if name == "" || typ == "" {
				continue
			}
			doc.Params = append(doc.Params, &ParamTag{Pos: c.Start, Name: name, Type: typ})
		case "return":
			if typ, _ := cutWord(rest); typ != "" {
				doc.Returns = append(doc.Returns, typ)
			}
		}
	}
	return doc
}

// cutWord splits s around its first run of white space.
func cutWord(s string) (word, rest string) {
	s = strings.TrimSpace(s)
	if i := strings.IndexAny(s, " \t"); i >= 0 {
		return s[:i], strings.TrimSpace(s[i:])
	}
	return s, ""
}
