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

import "math"

// Config holds the parameters used to size a new Filter.
type Config struct {
	// Capacity is the expected number of distinct keys.
	Capacity int

	// FPRate is the desired false positive probability once Capacity
	// distinct keys have been inserted. Must be in (0, 1).
	FPRate float64

	// HashID, if non-nil, selects a previously Register-ed custom hash
	// engine (id in [0, 200]) instead of the default engine chosen from
	// the computed partition exponent b.
	HashID *byte

	// Trigger the "contains filtered or unexported fields" message for
	// forward compatibility and force the caller to use named fields.
	_ struct{}
}

// Optimize computes the hash count k, the partition exponent b, and the
// hash id that New would use for cfg, without allocating a Filter.
//
// k is chosen as ceil(-log2(p)). The per-partition target false positive
// rate p' = p^(1/k) determines the partition size m via the scalable Bloom
// filter relation p' = 1 - (1 - 1/m)^n, solved for m. b is then
// max(6, ceil(log2(m))), which guarantees m = 2^b is a multiple of 64.
//
// Optimize returns an *Error of kind InvalidParameters if cfg.Capacity <= 0
// or cfg.FPRate is outside (0, 1), and of kind UnsupportedCapacity if the
// derived b exceeds 48.
func Optimize(cfg Config) (k int, b uint, hashID byte, err error) {
	if cfg.Capacity <= 0 {
		return 0, 0, 0, errorf(InvalidParameters, "capacity must be > 0, got %d", cfg.Capacity)
	}
	if cfg.FPRate <= 0 || cfg.FPRate >= 1 {
		return 0, 0, 0, errorf(InvalidParameters, "false positive rate must be in (0, 1), got %v", cfg.FPRate)
	}
	if cfg.HashID != nil && *cfg.HashID > 200 {
		return 0, 0, 0, errorf(InvalidParameters, "hash id must be in [0, 200], got %d", *cfg.HashID)
	}

	n := float64(cfg.Capacity)
	p := cfg.FPRate

	k = int(math.Ceil(-math.Log2(p)))
	if k < 1 {
		k = 1
	}

	pPrime := math.Pow(p, 1/float64(k))
	m := 1 / (1 - math.Pow(1-pPrime, 1/n))

	b = 6
	if lg := math.Ceil(math.Log2(m)); lg > float64(b) {
		b = uint(lg)
	}

	if b > 48 {
		return 0, 0, 0, errorf(UnsupportedCapacity, "capacity %d and fp rate %v require b=%d > 48", cfg.Capacity, cfg.FPRate, b)
	}

	if cfg.HashID != nil {
		hashID = *cfg.HashID
		if _, ok := lookupCustom(hashID); !ok {
			return 0, 0, 0, errorf(UnknownHashID, "hash id %d is not registered", hashID)
		}
		return k, b, hashID, nil
	}

	switch {
	case b <= 16:
		hashID = engineID201
	case b <= 32:
		hashID = engineID202
	default: // b <= 48
		hashID = engineID203
	}
	return k, b, hashID, nil
}
