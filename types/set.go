// Copyright 2026 The lualens Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package types

import "strings"

// A Set is an ordered, duplicate-free union of types.
// The zero Set holds only Unknown.
//
// Unknown is absorbed by any other member: the union of number and
// Unknown is number. Tables of the same identity are merged, their
// fields combined.
type Set struct {
	types []Type // never contains Unknown
}

// NewSet returns the union of the given types.
func NewSet(types ...Type) Set {
	var s Set
	for _, t := range types {
		s = s.add(t)
	}
	return s
}

// Of returns the set holding just t.
func Of(t Type) Set { return NewSet(t) }

// Union returns the union of the sets, preserving the order in which
// types first appear.
func Union(sets ...Set) Set {
	var s Set
	for _, u := range sets {
		for _, t := range u.types {
			s = s.add(t)
		}
	}
	return s
}

// add returns s with t added. It never modifies the array of s.
func (s Set) add(t Type) Set {
	if t == nil || t == Unknown {
		return s
	}
	for i, u := range s.types {
		if equal(t, u) {
			return s
		}
		if tt, ok := t.(*Table); ok {
			if ut, ok := u.(*Table); ok && sameTable(tt, ut) && tt.Name == ut.Name {
				merged := ut.Clone()
				merged.merge(tt)
				types := append([]Type(nil), s.types...)
				types[i] = merged
				return Set{types}
			}
		}
	}
	types := make([]Type, len(s.types), len(s.types)+1)
	copy(types, s.types)
	return Set{append(types, t)}
}

// Types returns the members of the set in order.
// It returns [Unknown] if nothing is known.
func (s Set) Types() []Type {
	if len(s.types) == 0 {
		return []Type{Unknown}
	}
	return append([]Type(nil), s.types...)
}

// Len returns the number of members of the set. It is at least 1.
func (s Set) Len() int {
	if len(s.types) == 0 {
		return 1
	}
	return len(s.types)
}

// IsUnknown reports whether the set holds only Unknown.
func (s Set) IsUnknown() bool { return len(s.types) == 0 }

// Contains reports whether t is a member of the set.
func (s Set) Contains(t Type) bool {
	if t == Unknown {
		return s.IsUnknown()
	}
	for _, u := range s.types {
		if equal(t, u) {
			return true
		}
	}
	return false
}

// Equal reports whether s and u hold the same types in the same order.
func (s Set) Equal(u Set) bool {
	if len(s.types) != len(u.types) {
		return false
	}
	for i := range s.types {
		if !equal(s.types[i], u.types[i]) {
			return false
		}
	}
	return true
}

// Tables returns the table members of the set.
func (s Set) Tables() []*Table {
	var tables []*Table
	for _, t := range s.types {
		if t, ok := t.(*Table); ok {
			tables = append(tables, t)
		}
	}
	return tables
}

// ClassNames returns the distinct non-empty class names of the members.
func (s Set) ClassNames() []string {
	var names []string
	seen := make(map[string]bool)
	for _, t := range s.types {
		if name := t.ClassName(); name != "" && !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	return names
}

// FieldNames returns the distinct field names of the table members.
func (s Set) FieldNames() []string {
	var names []string
	seen := make(map[string]bool)
	for _, t := range s.Tables() {
		for _, name := range t.FieldNames() {
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}
	return names
}

// String returns the members of the set separated by "|".
func (s Set) String() string {
	if len(s.types) == 0 {
		return Unknown.String()
	}
	strs := make([]string, len(s.types))
	for i, t := range s.types {
		strs[i] = t.String()
	}
	return strings.Join(strs, "|")
}
