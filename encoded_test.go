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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeHeader(t *testing.T) {
	t.Parallel()

	// Scenario 3: new(40, 0.5) sizes to k=1, b=6 (m=64), a single
	// all-zero 64-bit word: 11 bytes total.
	f, err := New(Config{Capacity: 40, FPRate: 0.5})
	require.NoError(t, err)
	require.Equal(t, 1, f.K())
	require.EqualValues(t, 6, f.B())

	enc := f.Encode()
	want := append([]byte{201, 1, 6}, make([]byte, 8)...)
	assert.Equal(t, Encoded(want), enc)
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	t.Parallel()

	f, err := New(Config{Capacity: 1000, FPRate: 0.02})
	require.NoError(t, err)

	f.Put([]byte("hello"))
	f.Put([]byte("world"))

	enc := f.Encode()

	decoded, err := Decode(enc)
	require.NoError(t, err)
	assert.True(t, f.Equals(decoded))
	assert.True(t, decoded.Member([]byte("hello")))
	assert.True(t, decoded.Member([]byte("world")))
}

func TestEncodedMemberMatchesLive(t *testing.T) {
	t.Parallel()

	f, err := New(Config{Capacity: 1000, FPRate: 0.02})
	require.NoError(t, err)

	f.Put([]byte("hello"))
	f.Put([]byte("world"))

	enc := f.Encode()

	assert.True(t, enc.Member([]byte("hello")))
	assert.True(t, enc.Member([]byte("world")))
	assert.False(t, enc.Member([]byte("abcde")))
	assert.Equal(t, f.Member([]byte("abcde")), enc.Member([]byte("abcde")))
}

func TestEncodedMemberAgreesAcrossManyKeys(t *testing.T) {
	t.Parallel()

	f, err := New(Config{Capacity: 300, FPRate: 0.01})
	require.NoError(t, err)

	for i := 0; i < 300; i++ {
		f.Put(keyFor(i))
	}
	enc := f.Encode()

	for i := 0; i < 600; i++ {
		k := keyFor(i)
		assert.Equal(t, f.Member(k), enc.Member(k), "mismatch for key %d", i)
	}
}

func TestDecodeMalformed(t *testing.T) {
	t.Parallel()

	_, err := Decode([]byte{1, 2})
	assertKind(t, err, MalformedBinary)

	// b out of range.
	_, err = Decode([]byte{201, 1, 5, 0, 0, 0, 0, 0, 0, 0, 0})
	assertKind(t, err, MalformedBinary)

	_, err = Decode([]byte{201, 1, 49})
	assertKind(t, err, MalformedBinary)

	// Right header, wrong length.
	_, err = Decode([]byte{201, 1, 6, 0, 0, 0, 0, 0, 0, 0})
	assertKind(t, err, MalformedBinary)
}

func TestEncodedValidate(t *testing.T) {
	t.Parallel()

	f, err := New(Config{Capacity: 100, FPRate: 0.05})
	require.NoError(t, err)

	assert.NoError(t, f.Encode().Validate())
	assert.Error(t, Encoded([]byte{9, 9}).Validate())
}

func TestEncodedIntrospection(t *testing.T) {
	t.Parallel()

	f, err := New(Config{Capacity: 1000, FPRate: 0.01})
	require.NoError(t, err)

	enc := f.Encode()
	assert.Equal(t, f.K(), enc.K())
	assert.Equal(t, f.B(), enc.B())
	assert.Equal(t, f.HashID(), enc.HashID())
}

func TestEncodedEquals(t *testing.T) {
	t.Parallel()

	f1, err := New(Config{Capacity: 200, FPRate: 0.02})
	require.NoError(t, err)
	f2, err := New(Config{Capacity: 200, FPRate: 0.02})
	require.NoError(t, err)

	assert.True(t, f1.Encode().Equals(f2.Encode()))

	f1.Put([]byte("x"))
	assert.False(t, f1.Encode().Equals(f2.Encode()))
}
