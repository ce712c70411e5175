// Copyright 2026 The lualens Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package complete

// This file orders completion candidates by their similarity to the
// text typed before the caret.

import (
	"sort"
	"strings"
	"unicode"
)

// rank sorts items in place and returns them. Labels that begin with
// prefix come first, then those that begin with it ignoring case and
// underscores, then the rest; ties are broken by edit distance to the
// prefix and then by label.
func rank(prefix string, items []Item) []Item {
	if prefix == "" {
		sort.SliceStable(items, func(i, j int) bool { return items[i].Label < items[j].Label })
		return items
	}
	folded := fold(prefix)
	type key struct{ class, dist int }
	keys := make(map[string]key, len(items))
	for _, item := range items {
		k := key{class: 2}
		switch {
		case strings.HasPrefix(item.Label, prefix):
			k.class = 0
		case strings.HasPrefix(fold(item.Label), folded):
			k.class = 1
		}
		k.dist = levenshtein(folded, fold(item.Label), len(item.Label)+len(prefix))
		keys[item.Label] = k
	}
	sort.SliceStable(items, func(i, j int) bool {
		ki, kj := keys[items[i].Label], keys[items[j].Label]
		if ki.class != kj.class {
			return ki.class < kj.class
		}
		if ki.dist != kj.dist {
			return ki.dist < kj.dist
		}
		return items[i].Label < items[j].Label
	})
	return items
}

// Nearest returns the element of candidates nearest to x, ignoring
// case and underscores, or "" if none is within half the length of x.
func Nearest(x string, candidates []string) string {
	x = fold(x)
	var best string
	bestD := (len(x) + 1) / 2
	for _, c := range candidates {
		if d := levenshtein(x, fold(c), bestD); d < bestD {
			bestD = d
			best = c
		}
	}
	return best
}

// fold removes underscores and maps letters to lower case.
func fold(s string) string {
	return strings.Map(func(r rune) rune {
		if r == '_' {
			return -1
		}
		return unicode.ToLower(r)
	}, s)
}

// levenshtein returns the Levenshtein edit distance between the byte
// strings x and y. If the distance exceeds max it may return early
// with an approximate value greater than max.
func levenshtein(x, y string, max int) int {
	// Let x be the shorter string.
	if len(x) > len(y) {
		x, y = y, x
	}

	// Remove the common prefix.
	i := 0
	for i < len(x) && x[i] == y[i] {
		i++
	}
	x, y = x[i:], y[i:]
	if x == "" {
		return len(y)
	}

	// One row of the distance matrix suffices.
	row := make([]int, len(y)+1)
	for j := range row {
		row[j] = j
	}
	for i := 1; i <= len(x); i++ {
		row[0] = i
		best := i
		prev := i - 1
		for j := 1; j <= len(y); j++ {
			sub := prev
			if x[i-1] != y[j-1] {
				sub++
			}
			k := min(sub, min(1+row[j-1], 1+row[j]))
			prev, row[j] = row[j], k
			best = min(best, k)
		}
		if best > max {
			return best
		}
	}
	return row[len(y)]
}

func min(x, y int) int {
	if x < y {
		return x
	}
	return y
}
