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
	"fmt"
	"path"
	"strings"
)

// CanonicalLabel turns a label written in package pkg into its absolute
// "//pkg:name" form.  Accepted spellings are "//pkg:name", "//pkg" (short for
// "//pkg:<last element of pkg>"), ":name" and "name".
func CanonicalLabel(pkg, label string) (string, error) {
	switch {
	case label == "":
		return "", fmt.Errorf("empty label")

	case strings.HasPrefix(label, "//"):
		rest := label[2:]
		target := ""
		if i := strings.IndexByte(rest, ':'); i != -1 {
			rest, target = rest[:i], rest[i+1:]
			if target == "" {
				return "", fmt.Errorf("label %q has an empty target name", label)
			}
		} else {
			if rest == "" {
				return "", fmt.Errorf("label %q names no target", label)
			}
			target = path.Base(rest)
		}
		if rest != "" && path.Clean(rest) != rest {
			return "", fmt.Errorf("label %q has a non-canonical package", label)
		}
		return "//" + rest + ":" + target, checkLabelName(label, target)

	case strings.HasPrefix(label, ":"):
		return "//" + pkg + label, checkLabelName(label, label[1:])

	default:
		return "//" + pkg + ":" + label, checkLabelName(label, label)
	}
}

// IsLabel reports whether s is written as a label rather than a file path.
func IsLabel(s string) bool {
	return strings.HasPrefix(s, "//") || strings.HasPrefix(s, ":")
}

func checkLabelName(label, name string) error {
	if name == "" || strings.ContainsAny(name, ":/ ") {
		return fmt.Errorf("label %q has an invalid target name %q", label, name)
	}
	return nil
}
