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
	"testing"
)

func TestActionKey(t *testing.T) {
	p := NewPlanner(nil)
	first := mustPlan(t, p, utilTarget())
	second := mustPlan(t, p, utilTarget())

	key := first.Key()
	if len(key) != 64 {
		t.Errorf("expected a 32 byte hex key, got %q", key)
	}
	if key != second.Key() {
		t.Errorf("planning the same target twice gave different keys")
	}

	cfg := DefaultConfig()
	cfg.OptLevel = "0"
	other := mustPlan(t, NewPlanner(cfg), utilTarget())
	if key == other.Key() {
		t.Errorf("expected a different command line to change the key")
	}
}

func TestActionKeyFieldBoundaries(t *testing.T) {
	a := &Action{Inputs: []string{"ab", "c"}}
	b := &Action{Inputs: []string{"a", "bc"}}
	if a.Key() == b.Key() {
		t.Errorf("expected distinct input lists to give distinct keys")
	}

	c := &Action{Inputs: []string{"x"}}
	d := &Action{Outputs: []string{"x"}}
	if c.Key() == d.Key() {
		t.Errorf("expected inputs and outputs to be hashed separately")
	}
}
