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

// partitionBase returns the bit offset at which partition j begins within
// the live word array: partition j begins at bit j*m + 64. The leading
// 64-bit offset accounts for the wire format's 1-indexed word numbering
// (word 1 starts at bit 0 of the live array, but is addressed as if
// preceded by one header-sized word so that the encoded and live
// addressings share the same step arithmetic).
func partitionBase(j int, m uint64) uint64 {
	return uint64(j)*m + 64
}

// liveAddr maps a logical position within partition j to a (wordIndex,
// bitmask) pair in the live, 0-indexed word array (slice index i holds
// 1-indexed word i+1).
func liveAddr(j int, position, m uint64) (wordIndex int, mask uint64) {
	abs := partitionBase(j, m) + position
	wordIndex = int(abs/64) - 1
	mask = uint64(1) << (abs % 64)
	return wordIndex, mask
}
