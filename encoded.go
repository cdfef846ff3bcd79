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

// headerLen is the fixed 3-byte (hash_id, k, b) header of the wire format.
const headerLen = 3

// Encoded is the immutable, directly-queryable binary representation of a
// Filter: a 3-byte header (hash id, k, b) followed by the filter's words,
// each 8 bytes big-endian, written in reverse order (W_size, ..., W_1).
// Storing the words back to front lets a point query address the blob's
// tail with a single subtraction, independent of the filter's size.
//
// Encoded values are never mutated by this package and are safe to share
// across goroutines.
type Encoded []byte

// Encode serializes f into its canonical wire format.
func (f *Filter) Encode() Encoded {
	size := len(f.words)
	buf := make([]byte, headerLen+8*size)
	buf[0], buf[1], buf[2] = f.hashID, byte(f.k), byte(f.b)

	for i := 0; i < size; i++ {
		// Word i (0-indexed, i.e. 1-indexed word i+1) lands at reversed
		// slot size-1-i: the blob lists W_size first and W_1 last.
		off := headerLen + 8*(size-1-i)
		binary.BigEndian.PutUint64(buf[off:off+8], f.words[i].Load())
	}
	return buf
}

// Decode parses blob into a live Filter whose bit contents are bitwise
// identical to those of the Filter that produced it.
func Decode(blob []byte) (*Filter, error) {
	hashID, k, b, size, err := parseHeader(blob)
	if err != nil {
		return nil, err
	}

	f, err := newEmpty(hashID, k, b)
	if err != nil {
		return nil, err
	}

	for i := 0; i < size; i++ {
		off := headerLen + 8*(size-1-i)
		f.words[i].Store(binary.BigEndian.Uint64(blob[off : off+8]))
	}
	return f, nil
}

// parseHeader validates blob's header and length, returning its logical
// parameters and word count.
func parseHeader(blob []byte) (hashID byte, k int, b uint, size int, err error) {
	if len(blob) < headerLen {
		return 0, 0, 0, 0, errorf(MalformedBinary, "blob too short: %d bytes", len(blob))
	}

	hashID = blob[0]
	k = int(blob[1])
	b = uint(blob[2])

	if b < 6 || b > 48 {
		return 0, 0, 0, 0, errorf(MalformedBinary, "partition exponent b=%d out of range [6,48]", b)
	}
	if k < 1 {
		return 0, 0, 0, 0, errorf(MalformedBinary, "hash count k=%d must be positive", k)
	}

	m := uint64(1) << b
	size = k * int(m) / 64

	want := headerLen + 8*size
	if len(blob) != want {
		return 0, 0, 0, 0, errorf(MalformedBinary, "expected %d bytes, got %d", want, len(blob))
	}
	return hashID, k, b, size, nil
}

// K returns the number of hash functions (partitions) encoded in e.
func (e Encoded) K() int { return int(e[1]) }

// B returns the partition exponent encoded in e.
func (e Encoded) B() uint { return uint(e[2]) }

// HashID returns the hash engine id encoded in e.
func (e Encoded) HashID() byte { return e[0] }

// Validate checks that e has a well-formed header and length, without
// resolving its hash id. Decode performs the same check; the other Encoded
// methods do not check e and assume it is well-formed, so Validate is
// exposed for callers that want to validate untrusted input before using it.
func (e Encoded) Validate() error {
	_, _, _, _, err := parseHeader(e)
	return err
}

// Member reports whether item may have been inserted into the Filter that
// produced e. It does not decode e.
func (e Encoded) Member(item []byte) bool {
	k, b := e.K(), e.B()
	hashFn, err := resolveHash(e.HashID())
	if err != nil {
		// An Encoded value with an unresolvable hash id cannot match
		// anything; Decode reports it as an error instead (Validate does
		// not resolve the hash id).
		return false
	}

	m := uint64(1) << b
	max := uint64(k)*m + 23
	positions := hashFn(item, k, b)

	for j, pos := range positions {
		maxJ := max - uint64(j)*m
		idx := maxJ - pos
		mask := byte(1) << (pos % 8)
		if e[idx/8]&mask == 0 {
			return false
		}
	}
	return true
}

// wordAt returns word i (0-indexed, i.e. 1-indexed word i+1) read directly
// from the reversed on-wire layout.
func (e Encoded) wordAt(i int) uint64 {
	size := e.numWords()
	off := headerLen + 8*(size-1-i)
	return binary.BigEndian.Uint64(e[off : off+8])
}

func (e Encoded) numWords() int {
	k, b := e.K(), e.B()
	return k * int(uint64(1)<<b) / 64
}

func (e Encoded) header() (hashID byte, k int, b uint) {
	return e.HashID(), e.K(), e.B()
}

// Equals reports whether e and other encode identical parameters and bit
// contents.
func (e Encoded) Equals(other Encoded) bool {
	if len(e) != len(other) {
		return false
	}
	for i := range e {
		if e[i] != other[i] {
			return false
		}
	}
	return true
}
