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
	"encoding/binary"
	"encoding/hex"
	"hash"

	"github.com/zeebo/blake3"
)

// actionDomainKey separates action keys from any other BLAKE3 keyed hash.
// Changing it changes every action key.
var actionDomainKey = [32]byte{
	'r', 'u', 's', 't', 'b', 'p', '.', 'a', 'c', 't', 'i', 'o', 'n',
}

// Key returns a stable identity for the action: two actions with the same
// key stage the same files and run the same commands over the same declared
// inputs and outputs.
func (a *Action) Key() string {
	h, err := blake3.NewKeyed(actionDomainKey[:])
	if err != nil {
		// Only possible with a key that is not 32 bytes.
		panic(err)
	}

	writeField(h, "label", a.Label)
	if a.Staging != nil {
		writeField(h, "staging", a.Staging.Script())
	}
	for _, w := range a.Writes {
		writeField(h, "write", w.Path, w.Content)
	}
	for _, c := range a.Commands {
		writeField(h, "dir", c.Dir)
		writeField(h, "argv", c.Argv...)
	}
	writeField(h, "inputs", a.Inputs...)
	writeField(h, "outputs", a.Outputs...)
	writeField(h, "run_args", a.RunArgs...)

	return hex.EncodeToString(h.Sum(nil))
}

// writeField length-prefixes every string so that adjacent fields cannot be
// confused with one another.
func writeField(h hash.Hash, name string, values ...string) {
	var n [8]byte
	write := func(s string) {
		binary.LittleEndian.PutUint64(n[:], uint64(len(s)))
		h.Write(n[:])
		h.Write([]byte(s))
	}
	write(name)
	binary.LittleEndian.PutUint64(n[:], uint64(len(values)))
	h.Write(n[:])
	for _, v := range values {
		write(v)
	}
}
