// Copyright 2026 The lualens Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package types

import "strings"

// SelfName is the annotation type denoting the receiver of a method.
// Parse does not interpret it; callers substitute the receiver's type.
const SelfName = "self"

// Parse returns the set denoted by the text of a type annotation:
//
//	number | string | boolean | nil | function | integer
//	table            an empty table
//	T[]              an array of T
//	a|b              a union
//	any, unknown     Unknown
//	fun(...): R      function
//	Name             a named class
//
// Malformed text yields Unknown.
func Parse(text string) Set {
	var s Set
	for _, part := range splitUnion(text) {
		s = s.add(parseOne(strings.TrimSpace(part)))
	}
	return s
}

// splitUnion splits text at the '|' separators outside parentheses.
func splitUnion(text string) []string {
	var parts []string
	depth, start := 0, 0
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '(', '<', '{':
			depth++
		case ')', '>', '}':
			depth--
		case '|':
			if depth == 0 {
				parts = append(parts, text[start:i])
				start = i + 1
			}
		}
	}
	return append(parts, text[start:])
}

func parseOne(text string) Type {
	if strings.HasSuffix(text, "[]") {
		t := NewTable("", nil)
		t.Elem = Parse(strings.TrimSuffix(text, "[]"))
		return t
	}
	if strings.HasPrefix(text, "(") && strings.HasSuffix(text, ")") {
		s := Parse(text[1 : len(text)-1])
		if len(s.types) == 1 {
			return s.types[0]
		}
		return Unknown
	}
	switch text {
	case "", "any", "unknown":
		return Unknown
	case "nil", "void":
		return Nil
	case "boolean", "bool":
		return Boolean
	case "number", "integer":
		return Number
	case "string":
		return String
	case "function":
		return Function
	case "table":
		return NewTable("", nil)
	}
	if strings.HasPrefix(text, "fun(") || strings.HasPrefix(text, "fun ") {
		return Function
	}
	if strings.HasPrefix(text, "table<") {
		return NewTable("", nil)
	}
	if !isName(text) {
		return Unknown
	}
	return Named(text)
}

// isName reports whether text is a dotted name such as "a.B".
func isName(text string) bool {
	for _, part := range strings.Split(text, ".") {
		if part == "" {
			return false
		}
		for i, c := range part {
			switch {
			case c == '_', 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z':
			case i > 0 && '0' <= c && c <= '9':
			default:
				return false
			}
		}
	}
	return true
}
