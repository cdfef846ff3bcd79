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

// A Filter is a live, mutable partitioned Bloom filter. Its zero value is
// not usable; construct one with New.
//
// A Filter is safe for concurrent use: Put and Member may be called from
// any number of goroutines simultaneously, and may be called concurrently
// with each other.
type Filter struct {
	hashID byte
	k      int
	b      uint
	words  []atomic.Uint64 // len = k * (1<<b) / 64
	hashFn HashFunc
}

// New constructs a live Filter sized for cfg.Capacity distinct keys at a
// false positive rate of cfg.FPRate, per Optimize.
func New(cfg Config) (*Filter, error) {
	k, b, hashID, err := Optimize(cfg)
	if err != nil {
		return nil, err
	}
	return newEmpty(hashID, k, b)
}

func newEmpty(hashID byte, k int, b uint) (*Filter, error) {
	hashFn, err := resolveHash(hashID)
	if err != nil {
		return nil, err
	}

	m := uint64(1) << b
	size := k * int(m) / 64

	return &Filter{
		hashID: hashID,
		k:      k,
		b:      b,
		words:  make([]atomic.Uint64, size),
		hashFn: hashFn,
	}, nil
}

// K returns the number of hash functions (partitions) of f.
func (f *Filter) K() int { return f.k }

// B returns the partition exponent of f; each partition holds 1<<B bits.
func (f *Filter) B() uint { return f.b }

// HashID returns the hash engine id of f.
func (f *Filter) HashID() byte { return f.hashID }

// Put inserts item into f. Put only ever transitions bits from 0 to 1: it
// is safe to call concurrently with Put, Member and MergeInto on the same
// Filter.
func (f *Filter) Put(item []byte) {
	m := uint64(1) << f.b
	positions := f.hashFn(item, f.k, f.b)

	for j, pos := range positions {
		wordIdx, mask := liveAddr(j, pos, m)
		setBitAtomic(&f.words[wordIdx], mask)
	}
}

// Member reports whether item may have been inserted into f. It never
// returns a false negative: if item was Put into f before this call
// returns, Member observes it, though a concurrent Put of item that has
// not yet completed may or may not be observed.
func (f *Filter) Member(item []byte) bool {
	m := uint64(1) << f.b
	positions := f.hashFn(item, f.k, f.b)

	for j, pos := range positions {
		wordIdx, mask := liveAddr(j, pos, m)
		if f.words[wordIdx].Load()&mask == 0 {
			return false
		}
	}
	return true
}

// setBitAtomic implements the load/check/CAS bit-set protocol: load
// w, return early if the bit is already set, otherwise CAS from w to
// w|mask, retrying on CAS failure. Each interfering writer can only add
// bits, so the loop is guaranteed to terminate.
func setBitAtomic(word *atomic.Uint64, mask uint64) {
	for {
		old := word.Load()
		if old&mask == mask {
			return
		}
		if word.CompareAndSwap(old, old|mask) {
			return
		}
	}
}

// Equals reports whether f and g have identical parameters and bit
// contents. The comparison is not synchronized against concurrent
// mutation of either filter.
func (f *Filter) Equals(g *Filter) bool {
	if f.hashID != g.hashID || f.k != g.k || f.b != g.b {
		return false
	}
	for i := range f.words {
		if f.words[i].Load() != g.words[i].Load() {
			return false
		}
	}
	return true
}

func (f *Filter) wordAt(i int) uint64 { return f.words[i].Load() }

func (f *Filter) numWords() int { return len(f.words) }

func (f *Filter) header() (hashID byte, k int, b uint) { return f.hashID, f.k, f.b }
