// Copyright 2026 The lualens Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package index

import "unicode/utf16"

// Hash returns the Jenkins one-at-a-time hash of s, ignoring the case
// of ASCII letters. It operates on the UTF-16 encoding of s so that
// keys agree with indexes built by other implementations.
func Hash(s string) uint32 {
	var h uint32
	for _, c := range utf16.Encode([]rune(s)) {
		if 'A' <= c && c <= 'Z' {
			c += 'a' - 'A'
		}
		h += uint32(c)
		h += h << 10
		h ^= h >> 6
	}
	h += h << 3
	h ^= h >> 11
	h += h << 15
	return h
}
