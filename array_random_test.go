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
	"slices"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/onflow/growarray"
	"github.com/onflow/growarray/test_utils"
)

func requireInts(t *testing.T, expected []int, actual []int) {
	if len(expected) == 0 {
		require.Empty(t, actual)
		return
	}
	require.Equal(t, expected, actual)
}

// maxRandomCapacity bounds sizes and capacities requested by random
// resize and reserve actions, since capacity never shrinks.
const maxRandomCapacity = 4096

func TestArrayRandomOps(t *testing.T) {
	t.Parallel()

	const (
		pushBackAction = iota
		insertAction
		eraseAction
		popBackAction
		setAction
		resizeAction
		reserveAction
		maxAction
	)

	const actionCount = 1024 * 8

	r := newRand(t)

	a := growarray.New[int](nil)

	values := make([]int, 0, actionCount)

	for i := 0; i < actionCount; i++ {

		v := r.Int()

		switch r.Intn(maxAction) {

		case pushBackAction:
			e, err := a.PushBack(v)
			require.NoError(t, err)
			require.Equal(t, v, *e)

			values = append(values, v)

		case insertAction:
			k := r.Intn(a.Size() + 1)

			pos, err := a.Insert(k, v)
			require.NoError(t, err)
			require.Equal(t, k, pos)

			values = slices.Insert(values, k, v)

		case eraseAction:
			if a.Empty() {
				continue
			}
			k := r.Intn(a.Size())

			next, err := a.Erase(k)
			require.NoError(t, err)
			require.Equal(t, k, next)

			values = slices.Delete(values, k, k+1)

		case popBackAction:
			if a.Empty() {
				continue
			}
			require.Equal(t, values[len(values)-1], *a.Back())

			a.PopBack()

			values = values[:len(values)-1]

		case setAction:
			if a.Empty() {
				continue
			}
			k := r.Intn(a.Size())

			err := a.Set(k, v)
			require.NoError(t, err)

			values[k] = v

		case resizeAction:
			n := r.Intn(min(a.Size()*2+2, maxRandomCapacity))

			err := a.Resize(n)
			require.NoError(t, err)

			if n <= len(values) {
				values = values[:n]
			} else {
				values = append(values, make([]int, n-len(values))...)
			}

		case reserveAction:
			c := r.Intn(min(a.Capacity()*2+2, maxRandomCapacity))

			err := a.Reserve(c)
			require.NoError(t, err)
			require.GreaterOrEqual(t, a.Capacity(), c)
		}

		require.Equal(t, len(values), a.Size())

		if i%256 == 0 {
			require.NoError(t, growarray.VerifyArray(a))
			requireInts(t, values, a.Slice())
		}
	}

	require.NoError(t, growarray.VerifyArray(a))
	requireInts(t, values, a.Slice())
	require.LessOrEqual(t, a.Capacity(), 2*(maxRandomCapacity+actionCount))

	for i, v := range values {
		e, err := a.Get(i)
		require.NoError(t, err)
		require.Equal(t, v, e)
	}
}

func TestArrayRandomFailures(t *testing.T) {
	t.Parallel()

	const (
		pushBackAction = iota
		insertAction
		eraseAction
		setAction
		resizeAction
		reserveAction
		cloneAction
		maxAction
	)

	const actionCount = 1024 * 2

	failOps := []growarray.ElementOp{
		growarray.OpConstruct,
		growarray.OpCopy,
		growarray.OpCopyAssign,
	}

	r := newRand(t)

	ops := test_utils.NewCopyOnlyOps()

	a := newTestArray(t, ops)

	var values []int

	failures := 0

	for i := 0; i < actionCount; i++ {

		if r.Intn(3) == 0 {
			ops.FailOn(failOps[r.Intn(len(failOps))], 1+r.Intn(4))
		}

		v := r.Intn(1000)

		var err error

		switch r.Intn(maxAction) {

		case pushBackAction:
			_, err = a.PushBack(test_utils.Element{Value: v})
			if err == nil {
				values = append(values, v)
			}

		case insertAction:
			k := r.Intn(a.Size() + 1)
			shifting := k < a.Size() && a.Size() < a.Capacity()

			_, err = a.Insert(k, test_utils.Element{Value: v})
			switch {
			case err == nil:
				values = slices.Insert(values, k, v)
			case shifting:
				// Shifted elements are not restored.
				values = test_utils.Values(a)
			}

		case eraseAction:
			if a.Empty() {
				continue
			}
			k := r.Intn(a.Size())

			_, err = a.Erase(k)
			if err == nil {
				values = slices.Delete(values, k, k+1)
			} else {
				values = test_utils.Values(a)
			}

		case setAction:
			if a.Empty() {
				continue
			}
			k := r.Intn(a.Size())

			err = a.Set(k, test_utils.Element{Value: v})
			if err == nil {
				values[k] = v
			}

		case resizeAction:
			n := r.Intn(min(a.Size()*2+2, maxRandomCapacity))

			err = a.Resize(n)
			if err == nil {
				if n <= len(values) {
					values = values[:n]
				} else {
					values = append(values, make([]int, n-len(values))...)
				}
			}

		case reserveAction:
			capacity := a.Capacity()
			c := r.Intn(min(capacity*2+2, maxRandomCapacity))

			err = a.Reserve(c)
			if err == nil {
				require.GreaterOrEqual(t, a.Capacity(), c)
			} else {
				require.Equal(t, capacity, a.Capacity())
			}

		case cloneAction:
			var b *growarray.Array[test_utils.Element]
			b, err = a.Clone()
			if err == nil {
				verifyValues(t, ops, b, values)
				require.Equal(t, a.Size(), b.Capacity())
				b.Release()
			}
		}

		if err != nil {
			failures++
			require.ErrorIs(t, err, test_utils.ErrInjected)
		}

		ops.Disarm()

		verifyArray(t, ops, a, values)
	}

	t.Logf("injected failures: %d", failures)

	require.LessOrEqual(t, a.Capacity(), 2*(maxRandomCapacity+actionCount))

	a.Release()
	require.Equal(t, 0, ops.Live())
	require.Empty(t, ops.Violations())
}
