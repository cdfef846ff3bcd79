// Copyright 2024 the partbloom authors
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

package partbloom

import "sync/atomic"

// registry holds custom hash engines keyed by id, as a read-copy-update
// map: reads are a single atomic pointer load and are lock-free; writes
// install an entirely new map via compare-and-swap, so the map itself is
// never mutated in place and is always safe to range over concurrently
// with Register calls.
var registry atomic.Pointer[map[byte]HashFunc]

func init() {
	m := make(map[byte]HashFunc)
	registry.Store(&m)
}

// Register installs fn as the custom hash engine for id, which must be in
// [0, 200]. Re-registering an id overwrites the previous function. Register
// is safe to call concurrently with itself and with lookups performed by
// New, Decode, Merge and friends.
func Register(id byte, fn HashFunc) error {
	if id > 200 {
		return errorf(InvalidParameters, "custom hash id must be in [0, 200], got %d", id)
	}
	if fn == nil {
		return errorf(InvalidParameters, "hash function must not be nil")
	}

	for {
		old := registry.Load()
		next := make(map[byte]HashFunc, len(*old)+1)
		for k, v := range *old {
			next[k] = v
		}
		next[id] = fn

		if registry.CompareAndSwap(old, &next) {
			return nil
		}
	}
}

func lookupCustom(id byte) (HashFunc, bool) {
	m := registry.Load()
	fn, ok := (*m)[id]
	return fn, ok
}
