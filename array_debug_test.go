/*
 * Growarray - Growable Arrays over Raw Storage
 *
 * Copyright Flow Foundation
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *   http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package growarray_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/onflow/growarray"
	"github.com/onflow/growarray/test_utils"
)

func TestArrayStats(t *testing.T) {
	t.Parallel()

	a := growarray.New[int64](nil)
	for i := 0; i < 5; i++ {
		_, err := a.PushBack(int64(i))
		require.NoError(t, err)
	}

	stats := growarray.GetArrayStats(a)
	require.Equal(t, uint64(5), stats.Size)
	require.Equal(t, uint64(8), stats.Capacity)
	require.Equal(t, uint64(8), stats.ElementSize)
	require.Equal(t, uint64(3), stats.RawSlotCount())
	require.Equal(t, uint64(64), stats.AllocatedBytes())
}

func TestDumpArray(t *testing.T) {
	t.Parallel()

	a := growarray.New[int](nil)
	for i := 0; i < 3; i++ {
		_, err := a.PushBack(i * 10)
		require.NoError(t, err)
	}

	expected := []string{
		"size 3, capacity 4",
		"[0] 0",
		"[1] 10",
		"[2] 20",
		"[3] raw",
	}
	require.Equal(t, expected, growarray.DumpArray(a))
	require.Equal(t, "[0 10 20]", a.String())
}

func TestChecksum(t *testing.T) {
	t.Parallel()

	const seed = uint64(0x1234)

	ops := test_utils.NewCopyOnlyOps()
	a := newTestArray(t, ops, 1, 2, 3)

	checksum := growarray.Checksum(a, test_utils.AppendElement, seed)
	require.Equal(t, test_utils.ChecksumValues([]int{1, 2, 3}, seed), checksum)

	// Capacity doesn't affect checksum.
	require.NoError(t, a.Reserve(100))
	require.Equal(t, checksum, growarray.Checksum(a, test_utils.AppendElement, seed))

	// Order does.
	a.At(0).Value, a.At(1).Value = 2, 1
	require.NotEqual(t, checksum, growarray.Checksum(a, test_utils.AppendElement, seed))

	empty := growarray.New[int](nil)
	require.Equal(t,
		test_utils.ChecksumValues(nil, seed),
		growarray.Checksum(empty, test_utils.AppendInt, seed))
}
