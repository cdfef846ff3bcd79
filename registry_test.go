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
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func echoEngine(item []byte, k int, b uint) []uint64 {
	return engine201(item, k, b)
}

func TestRegisterAndResolve(t *testing.T) {
	t.Parallel()

	const id byte = 10
	require.NoError(t, Register(id, echoEngine))

	fn, err := resolveHash(id)
	require.NoError(t, err)
	require.NotNil(t, fn)

	item := []byte("x")
	assert.Equal(t, echoEngine(item, 3, 8), fn(item, 3, 8))
}

func TestRegisterOverwrites(t *testing.T) {
	t.Parallel()

	const id byte = 11
	require.NoError(t, Register(id, engine201))
	require.NoError(t, Register(id, engine202))

	fn, err := resolveHash(id)
	require.NoError(t, err)

	item := []byte("overwrite-me")
	assert.Equal(t, engine202(item, 4, 20), fn(item, 4, 20))
}

func TestRegisterRejectsOutOfRangeID(t *testing.T) {
	t.Parallel()

	err := Register(201, engine201)
	assertKind(t, err, InvalidParameters)
}

func TestRegisterRejectsNilFunc(t *testing.T) {
	t.Parallel()

	err := Register(12, nil)
	assertKind(t, err, InvalidParameters)
}

func TestUnregisteredIDFails(t *testing.T) {
	t.Parallel()

	_, err := resolveHash(250)
	assertKind(t, err, UnknownHashID)
}

func TestRegistryConcurrentReadsAndWrites(t *testing.T) {
	t.Parallel()

	const writers = 8
	var wg sync.WaitGroup
	wg.Add(writers)

	for i := 0; i < writers; i++ {
		id := byte(100 + i)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				require.NoError(t, Register(id, echoEngine))
				_, ok := lookupCustom(id)
				assert.True(t, ok)
			}
		}()
	}

	wg.Wait()

	for i := 0; i < writers; i++ {
		_, ok := lookupCustom(byte(100 + i))
		assert.True(t, ok)
	}
}
