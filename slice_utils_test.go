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

package growarray

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

var errTestFailure = errors.New("test failure")

// countingOps is ValueOps over int that counts live elements and fails
// the failAt-th call of any constructing or assigning operation.
type countingOps struct {
	ValueOps[int]
	traits Traits
	live   int
	calls  int
	failAt int
}

func newCountingOps(failAt int) *countingOps {
	return &countingOps{traits: Traits{Copyable: true}, failAt: failAt}
}

func (o *countingOps) Traits() Traits {
	return o.traits
}

func (o *countingOps) fail() bool {
	o.calls++
	return o.calls == o.failAt
}

func (o *countingOps) Construct(dst *int) error {
	if o.fail() {
		return errTestFailure
	}
	o.live++
	return o.ValueOps.Construct(dst)
}

func (o *countingOps) Copy(dst, src *int) error {
	if o.fail() {
		return errTestFailure
	}
	o.live++
	return o.ValueOps.Copy(dst, src)
}

func (o *countingOps) Move(dst, src *int) error {
	if o.fail() {
		return errTestFailure
	}
	o.live++
	return o.ValueOps.Move(dst, src)
}

func (o *countingOps) CopyAssign(dst, src *int) error {
	if o.fail() {
		return errTestFailure
	}
	return o.ValueOps.CopyAssign(dst, src)
}

func (o *countingOps) MoveAssign(dst, src *int) error {
	if o.fail() {
		return errTestFailure
	}
	return o.ValueOps.MoveAssign(dst, src)
}

func (o *countingOps) Destroy(*int) {
	o.live--
}

func TestConstructRange(t *testing.T) {
	t.Parallel()

	t.Run("all constructed", func(t *testing.T) {
		ops := newCountingOps(0)
		s := make([]int, 4)

		require.NoError(t, constructRange[int](ops, s, 0))
		require.Equal(t, 4, ops.live)
	})

	t.Run("rollback", func(t *testing.T) {
		ops := newCountingOps(3)
		s := make([]int, 4)

		err := constructRange[int](ops, s, 10)
		require.ErrorIs(t, err, errTestFailure)

		var elemErr *ElementOperationError
		require.ErrorAs(t, err, &elemErr)
		require.Equal(t, OpConstruct, elemErr.Op())
		require.Equal(t, 12, elemErr.Index())

		require.Equal(t, 0, ops.live)
	})
}

func TestCopyRange(t *testing.T) {
	t.Parallel()

	t.Run("dst is too short", func(t *testing.T) {
		ops := newCountingOps(0)
		require.Panics(t, func() { _ = copyRange[int](ops, make([]int, 1), []int{1, 2}, 0) })
	})

	t.Run("copied", func(t *testing.T) {
		ops := newCountingOps(0)
		src := []int{1, 2, 3}
		dst := make([]int, 3)

		require.NoError(t, copyRange[int](ops, dst, src, 0))
		require.Equal(t, []int{1, 2, 3}, dst)
		require.Equal(t, []int{1, 2, 3}, src)
		require.Equal(t, 3, ops.live)
	})

	t.Run("rollback", func(t *testing.T) {
		ops := newCountingOps(3)
		src := []int{1, 2, 3}
		dst := make([]int, 3)

		err := copyRange[int](ops, dst, src, 0)
		require.ErrorIs(t, err, errTestFailure)
		require.Equal(t, []int{0, 0, 0}, dst)
		require.Equal(t, []int{1, 2, 3}, src)
		require.Equal(t, 0, ops.live)
	})
}

func TestRelocateRange(t *testing.T) {
	t.Parallel()

	t.Run("copy", func(t *testing.T) {
		ops := newCountingOps(0)
		src := []int{1, 2, 3}
		dst := make([]int, 3)

		require.NoError(t, relocateRange[int](ops, dst, src, 0))
		require.Equal(t, []int{1, 2, 3}, dst)
		require.Equal(t, []int{1, 2, 3}, src)
	})

	t.Run("nothrow move", func(t *testing.T) {
		ops := newCountingOps(0)
		ops.traits.NothrowMove = true
		src := []int{1, 2, 3}
		dst := make([]int, 3)

		require.NoError(t, relocateRange[int](ops, dst, src, 0))
		require.Equal(t, []int{1, 2, 3}, dst)
		require.Equal(t, []int{0, 0, 0}, src)
	})

	t.Run("move rollback", func(t *testing.T) {
		ops := newCountingOps(2)
		ops.traits.Copyable = false
		src := []int{1, 2, 3}
		dst := make([]int, 3)

		err := relocateRange[int](ops, dst, src, 5)

		var elemErr *ElementOperationError
		require.ErrorAs(t, err, &elemErr)
		require.Equal(t, OpMove, elemErr.Op())
		require.Equal(t, 6, elemErr.Index())

		require.Equal(t, []int{0, 0, 0}, dst)
		require.Equal(t, 0, ops.live)
	})
}

func TestShift(t *testing.T) {
	t.Parallel()

	t.Run("right", func(t *testing.T) {
		ops := newCountingOps(0)
		s := []int{1, 2, 3, 4}

		require.NoError(t, shiftRight[int](ops, s, 0))
		require.Equal(t, []int{1, 1, 2, 3}, s)
	})

	t.Run("right fails", func(t *testing.T) {
		ops := newCountingOps(2)
		s := []int{1, 2, 3, 4}

		err := shiftRight[int](ops, s, 0)
		require.ErrorIs(t, err, errTestFailure)
		require.Equal(t, []int{1, 2, 3, 3}, s)
	})

	t.Run("left", func(t *testing.T) {
		ops := newCountingOps(0)
		s := []int{1, 2, 3, 4}

		require.NoError(t, shiftLeft[int](ops, s, 0))
		require.Equal(t, []int{2, 3, 4, 4}, s)
	})

	t.Run("left fails", func(t *testing.T) {
		ops := newCountingOps(3)
		s := []int{1, 2, 3, 4}

		err := shiftLeft[int](ops, s, 0)

		var elemErr *ElementOperationError
		require.ErrorAs(t, err, &elemErr)
		require.Equal(t, OpCopyAssign, elemErr.Op())
		require.Equal(t, 2, elemErr.Index())
		require.Equal(t, []int{2, 3, 3, 4}, s)
	})

	t.Run("single element", func(t *testing.T) {
		ops := newCountingOps(1)
		s := []int{1}

		require.NoError(t, shiftLeft[int](ops, s, 0))
		require.NoError(t, shiftRight[int](ops, s, 0))
		require.Equal(t, 0, ops.calls)
	})
}

func TestDestroyRange(t *testing.T) {
	t.Parallel()

	ops := newCountingOps(0)
	s := make([]int, 3)
	require.NoError(t, constructRange[int](ops, s, 0))
	s[0], s[1], s[2] = 1, 2, 3

	destroyRange[int](ops, s[1:])
	require.Equal(t, []int{1, 0, 0}, s)
	require.Equal(t, 1, ops.live)

	rollbackRange[int](ops, s[:1])
	require.Equal(t, []int{0, 0, 0}, s)
	require.Equal(t, 0, ops.live)
}
