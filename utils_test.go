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
	"flag"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/onflow/growarray"
	"github.com/onflow/growarray/test_utils"
)

var seed = flag.Int64("seed", 0, "seed for pseudo-random source")

func newRand(tb testing.TB) *rand.Rand {
	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}

	// Benchmarks always log, so only log for tests which
	// will only log with -v flag or on error.
	if t, ok := tb.(*testing.T); ok {
		t.Logf("seed: %d\n", *seed)
	}

	return rand.New(rand.NewSource(*seed))
}

// newTestArray returns an array holding values with capacity equal to len(values).
func newTestArray(t testing.TB, ops *test_utils.TrackedOps, values ...int) *growarray.Array[test_utils.Element] {
	a, err := test_utils.NewArrayFromValues(ops, values...)
	require.NoError(t, err)
	return a
}

// verifyArray checks storage invariants, element values, and that every
// live tracked object is owned by the array.
func verifyArray(t testing.TB, ops *test_utils.TrackedOps, a *growarray.Array[test_utils.Element], expected []int) {
	verifyValues(t, ops, a, expected)
	require.Equal(t, a.Size(), ops.Live())
}

// verifyValues checks storage invariants and element values.
func verifyValues(t testing.TB, ops *test_utils.TrackedOps, a *growarray.Array[test_utils.Element], expected []int) {
	require.NoError(t, growarray.VerifyArray(a))
	require.Equal(t, len(expected), a.Size())
	require.LessOrEqual(t, a.Size(), a.Capacity())
	if len(expected) == 0 {
		require.Empty(t, test_utils.Values(a))
	} else {
		require.Equal(t, expected, test_utils.Values(a))
	}
	require.Empty(t, ops.Violations())
}

// constructValue returns a construct func building a tracked element holding v.
func constructValue(ops *test_utils.TrackedOps, v int) func(dst *test_utils.Element) error {
	return func(dst *test_utils.Element) error {
		if err := ops.Construct(dst); err != nil {
			return err
		}
		dst.Value = v
		return nil
	}
}

// requireElementError checks err is an injected failure of op at slot index.
func requireElementError(t testing.TB, err error, op growarray.ElementOp, index int) {
	require.ErrorIs(t, err, test_utils.ErrInjected)

	var elemErr *growarray.ElementOperationError
	require.ErrorAs(t, err, &elemErr)
	require.Equal(t, op, elemErr.Op())
	require.Equal(t, index, elemErr.Index())
	require.False(t, elemErr.IsFatal())
}

// firstSlot returns address of the first slot, used to detect reallocation.
func firstSlot[T any](a *growarray.Array[T]) *T {
	if a.Size() == 0 {
		return nil
	}
	return a.At(0)
}
