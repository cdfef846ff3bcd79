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

import "encoding/binary"

// source is the unified word-reader abstraction: any
// representation — live or encoded — that can report its (hash id, k, b)
// header and hand back an individual word by index. *Filter and Encoded
// both implement it, which is what lets Merge, MergeInto and MergeEncode
// accept any mix of the two.
type source interface {
	header() (hashID byte, k int, b uint)
	wordAt(i int) uint64
	numWords() int
}

var (
	_ source = (*Filter)(nil)
	_ source = Encoded(nil)
)

// checkCompatible verifies that every source in srcs shares the same
// (hash id, k, b) and returns those parameters along with the shared word
// count. It fails fast, before any merge work begins.
func checkCompatible(srcs []source) (hashID byte, k int, b uint, size int, err error) {
	if len(srcs) == 0 {
		return 0, 0, 0, 0, errorf(InvalidParameters, "merge requires at least one input")
	}

	hashID, k, b = srcs[0].header()
	for _, s := range srcs[1:] {
		h, kk, bb := s.header()
		if h != hashID || kk != k || bb != b {
			return 0, 0, 0, 0, errorf(IncompatibleFilters,
				"inputs disagree on (hash_id, k, b): (%d,%d,%d) vs (%d,%d,%d)",
				hashID, k, b, h, kk, bb)
		}
	}
	return hashID, k, b, srcs[0].numWords(), nil
}

// Merge returns a new live Filter whose word i is the bitwise OR, over all
// inputs, of their word i. All inputs must share identical (hash id, k, b);
// otherwise Merge fails with IncompatibleFilters.
func Merge(srcs ...source) (*Filter, error) {
	hashID, k, b, size, err := checkCompatible(srcs)
	if err != nil {
		return nil, err
	}

	f, err := newEmpty(hashID, k, b)
	if err != nil {
		return nil, err
	}

	for i := 0; i < size; i++ {
		var v uint64
		for _, s := range srcs {
			v |= s.wordAt(i)
		}
		f.words[i].Store(v)
	}
	return f, nil
}

// MergeInto ORs every word of every input into dest in place, using the
// same compare-and-swap protocol as Put, so MergeInto is safe to call
// concurrently with Put and Member on dest. All inputs, and dest itself,
// must share identical (hash id, k, b).
func MergeInto(dest *Filter, srcs ...source) error {
	all := make([]source, 0, len(srcs)+1)
	all = append(all, dest)
	all = append(all, srcs...)

	_, _, _, size, err := checkCompatible(all)
	if err != nil {
		return err
	}

	for i := 0; i < size; i++ {
		var v uint64
		for _, s := range srcs {
			v |= s.wordAt(i)
		}
		if v == 0 {
			continue
		}
		setBitAtomic(&dest.words[i], v)
	}
	return nil
}

// MergeEncode is equivalent to Merge(srcs...).Encode(), but streams the
// result directly into the wire format without allocating an intermediate
// live Filter.
func MergeEncode(srcs ...source) (Encoded, error) {
	hashID, k, b, size, err := checkCompatible(srcs)
	if err != nil {
		return nil, err
	}

	buf := make([]byte, headerLen+8*size)
	buf[0], buf[1], buf[2] = hashID, byte(k), byte(b)

	for i := 0; i < size; i++ {
		var v uint64
		for _, s := range srcs {
			v |= s.wordAt(i)
		}
		off := headerLen + 8*(size-1-i)
		binary.BigEndian.PutUint64(buf[off:off+8], v)
	}
	return buf, nil
}
