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

import (
	"math"
	"math/bits"
)

// EstimateSize estimates the number of distinct keys inserted into f, by
// counting the set bits in its last partition only. Since every partition
// independently receives one bit per insertion, scanning a single
// partition suffices and costs 1/k of a full scan.
func (f *Filter) EstimateSize() uint64 {
	m := uint64(1) << f.b
	wordsPerPartition := int(m / 64)
	last := f.words[len(f.words)-wordsPerPartition:]

	var ones uint64
	for i := range last {
		ones += uint64(bits.OnesCount64(last[i].Load()))
	}
	return estimateFromOnes(ones, m)
}

// EstimateSize estimates the number of distinct keys inserted into the
// Filter that produced e, using the same last-partition popcount as
// (*Filter).EstimateSize. Per the wire format's reverse word order, the
// live filter's last partition (the highest-numbered words) corresponds to
// the first m/8 bytes of e's word region, not the last.
func (e Encoded) EstimateSize() uint64 {
	m := uint64(1) << e.B()
	wordsPerPartition := int(m / 64)

	start := headerLen
	end := headerLen + 8*wordsPerPartition

	var ones uint64
	for _, by := range e[start:end] {
		ones += uint64(bits.OnesCount8(by))
	}
	return estimateFromOnes(ones, m)
}

// estimateFromOnes applies the maximum-likelihood estimator for a single
// m-bit partition with x of its bits set.
func estimateFromOnes(x, m uint64) uint64 {
	if x == 0 {
		return 0
	}
	mf := float64(m)
	if x == m {
		// Saturated partition: avoid log(0) and report the same estimate
		// as for x = m - 1, i.e. -m * ln(1/m).
		return uint64(math.Round(-mf * math.Log(1/mf)))
	}
	return uint64(math.Round(-mf * math.Log1p(-float64(x)/mf)))
}

// EstimateCapacity estimates the number of keys at which a single
// partition's fill ratio reaches 50%, independent of how many keys have
// actually been inserted.
func (f *Filter) EstimateCapacity() uint64 {
	return estimateCapacity(f.b)
}

// EstimateCapacity is the Encoded analogue of (*Filter).EstimateCapacity.
func (e Encoded) EstimateCapacity() uint64 {
	return estimateCapacity(e.B())
}

func estimateCapacity(b uint) uint64 {
	m := float64(uint64(1) << b)
	return uint64(math.Round(math.Log(0.5) / math.Log(1-1/m)))
}

// EstimateMemory returns the number of bytes occupied by f's underlying
// word array.
func (f *Filter) EstimateMemory() uint64 {
	return uint64(len(f.words)) * 8
}

// EstimateMemory returns the length of e in bytes.
func (e Encoded) EstimateMemory() uint64 {
	return uint64(len(e))
}
