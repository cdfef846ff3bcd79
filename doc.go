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

// Package partbloom implements partitioned Bloom filters.
//
// A partitioned Bloom filter is an approximate set data structure: if a key
// has been added to a filter, a lookup of that key returns true, but if the
// key has not been added, there is a non-zero probability that the lookup
// still returns true (a false positive). False negatives are impossible: if
// a lookup returns false, that key has not been added.
//
// Unlike a plain Bloom filter, which spreads all k hash functions over one
// shared bit array, a partitioned filter splits its bit array into k equal
// partitions, one per hash function, so that each hash only ever sets or
// reads bits within its own region. This package additionally supports a
// canonical encoded representation (an Encoded byte string) that is directly
// queryable without decoding it back into a live Filter first: the wire
// format's bit layout is defined so that encode and decode are observably
// equivalent to every read operation a Filter supports.
//
// Filters are safe for concurrent use: Put uses a lock-free
// compare-and-swap protocol to set bits, and Member only ever performs a
// single atomic load per partition. Multiple goroutines may call Put and
// Member on the same Filter concurrently. Encoded values are immutable and
// trivially safe to share.
package partbloom
