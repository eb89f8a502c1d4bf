// Copyright 2016 Google Inc. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package escape quotes command arguments for /bin/sh and for ninja
// manifests.
package escape

import "strings"

// Arg quotes a single argv element for /bin/sh if necessary by wrapping it in
// single quotes, replacing internal single quotes with '\'' (end the quoting,
// insert an escaped quote, restart the quoting).  Spaces are significant: an
// argument containing a space is always quoted so it stays one argument.
func Arg(s string) string {
	if s == "" {
		return "''"
	}
	if strings.IndexFunc(s, shellUnsafeChar) == -1 {
		return s
	}
	return `'` + singleQuoteReplacer.Replace(s) + `'`
}

// Args returns a new slice holding Arg applied to each element of argv.
func Args(argv []string) []string {
	quoted := make([]string, len(argv))
	for i, s := range argv {
		quoted[i] = Arg(s)
	}
	return quoted
}

// Join quotes each element of argv and joins them into one shell command.
func Join(argv []string) string {
	return strings.Join(Args(argv), " ")
}

func shellUnsafeChar(r rune) bool {
	switch {
	case 'A' <= r && r <= 'Z',
		'a' <= r && r <= 'z',
		'0' <= r && r <= '9',
		r == '_',
		r == '+',
		r == '-',
		r == '=',
		r == '.',
		r == ',',
		r == '/',
		r == ':',
		r == '@':
		return false
	default:
		return true
	}
}

var singleQuoteReplacer = strings.NewReplacer(`'`, `'\''`)

// Ninja escapes "$" so a string survives as the value of a ninja variable.
func Ninja(s string) string {
	return ninjaEscaper.Replace(s)
}

// NinjaPath escapes a path for use as an input or output of a ninja build
// statement, where spaces and colons are also meaningful.
func NinjaPath(s string) string {
	return ninjaPathEscaper.Replace(s)
}

// NinjaPaths returns a new slice holding NinjaPath applied to each element.
func NinjaPaths(paths []string) []string {
	escaped := make([]string, len(paths))
	for i, p := range paths {
		escaped[i] = NinjaPath(p)
	}
	return escaped
}

var (
	ninjaEscaper     = strings.NewReplacer("$", "$$", "\n", "$\n")
	ninjaPathEscaper = strings.NewReplacer("$", "$$", " ", "$ ", ":", "$:")
)
