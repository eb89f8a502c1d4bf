// Copyright 2026 Google Inc. All rights reserved.
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

package rustbp

import (
	"io"
	"strings"
	"unicode"
)

const (
	indentWidth = 4
	lineWidth   = 80

	// Room left on a line for the " $" continuation marker.
	maxWrappedLen = lineWidth - len(" $")
)

// A ninjaWriter writes ninja statements.  The first write error is kept and
// every later call becomes a no-op, so callers check Err once at the end.
type ninjaWriter struct {
	w   io.StringWriter
	err error

	afterBlankLine bool
	lineLen        int
}

func newNinjaWriter(w io.StringWriter) *ninjaWriter {
	return &ninjaWriter{w: w}
}

// Err returns the first error encountered while writing.
func (n *ninjaWriter) Err() error {
	return n.err
}

func (n *ninjaWriter) write(strs ...string) {
	for _, s := range strs {
		if n.err != nil {
			return
		}
		_, n.err = n.w.WriteString(s)
		if i := strings.LastIndexByte(s, '\n'); i != -1 {
			n.lineLen = len(s) - i - 1
		} else {
			n.lineLen += len(s)
		}
	}
}

// Comment writes comment as "# " lines, breaking at whitespace to stay within
// the line width.  Embedded newlines are kept.
func (n *ninjaWriter) Comment(comment string) {
	n.afterBlankLine = false
	const maxLen = lineWidth - len("# ")

	for _, para := range strings.Split(comment, "\n") {
		para = strings.TrimRightFunc(para, unicode.IsSpace)
		for len(para) > maxLen {
			cut := strings.LastIndexFunc(para[:maxLen+1], unicode.IsSpace)
			if cut <= 0 {
				break
			}
			n.write("# ", strings.TrimRightFunc(para[:cut], unicode.IsSpace), "\n")
			para = strings.TrimLeftFunc(para[cut:], unicode.IsSpace)
		}
		if para == "" {
			n.write("#\n")
		} else {
			n.write("# ", para, "\n")
		}
	}
}

func (n *ninjaWriter) Rule(name string) {
	n.afterBlankLine = false
	n.write("rule ", name, "\n")
}

// Build writes a build statement.  Paths must already be ninja escaped.
func (n *ninjaWriter) Build(comment, rule string, outputs, implicitOuts,
	explicitDeps, implicitDeps, orderOnlyDeps []string) {

	if comment != "" {
		n.Comment(comment)
	}
	n.afterBlankLine = false

	n.write("build")
	n.words(outputs)
	if len(implicitOuts) > 0 {
		n.word("|")
		n.words(implicitOuts)
	}
	n.write(":")
	n.word(rule)
	n.words(explicitDeps)
	if len(implicitDeps) > 0 {
		n.word("|")
		n.words(implicitDeps)
	}
	if len(orderOnlyDeps) > 0 {
		n.word("||")
		n.words(orderOnlyDeps)
	}
	n.write("\n")
}

// word writes s preceded by a space, continuing on a new indented line when
// the current one would grow too long.
func (n *ninjaWriter) word(s string) {
	if n.lineLen+1+len(s) > maxWrappedLen && n.lineLen > 2*indentWidth {
		n.write(" $\n", strings.Repeat(" ", 2*indentWidth), s)
		return
	}
	n.write(" ", s)
}

func (n *ninjaWriter) words(list []string) {
	for _, s := range list {
		n.word(s)
	}
}

func (n *ninjaWriter) Assign(name, value string) {
	n.afterBlankLine = false
	n.write(name, " = ", value, "\n")
}

// ScopedAssign writes a variable binding belonging to the preceding rule or
// build statement.
func (n *ninjaWriter) ScopedAssign(name, value string) {
	n.afterBlankLine = false
	n.write(strings.Repeat(" ", indentWidth), name, " = ", value, "\n")
}

func (n *ninjaWriter) Default(targets ...string) {
	n.afterBlankLine = false
	n.write("default")
	n.words(targets)
	n.write("\n")
}

// BlankLine writes an empty line unless the previous statement was one.
func (n *ninjaWriter) BlankLine() {
	if !n.afterBlankLine {
		n.afterBlankLine = true
		n.write("\n")
	}
}
