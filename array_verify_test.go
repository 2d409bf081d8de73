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
	"testing"

	"github.com/stretchr/testify/require"
)

func TestVerifyArray(t *testing.T) {
	t.Parallel()

	newArray := func(t *testing.T) *Array[string] {
		a := New[string](nil)
		for _, s := range []string{"a", "b", "c"} {
			_, err := a.PushBack(s)
			require.NoError(t, err)
		}
		require.Equal(t, 4, a.Capacity())
		return a
	}

	t.Run("valid", func(t *testing.T) {
		a := newArray(t)
		require.NoError(t, VerifyArray(a))

		a.PopBack()
		require.NoError(t, VerifyArray(a))
	})

	t.Run("raw slot holds value", func(t *testing.T) {
		a := newArray(t)
		a.data.buf[3] = "stale"

		err := VerifyArray(a)
		var fatalError *FatalError
		require.ErrorAs(t, err, &fatalError)
		require.True(t, fatalError.IsFatal())
	})

	t.Run("size exceeds capacity", func(t *testing.T) {
		a := newArray(t)
		a.size = 5

		var fatalError *FatalError
		require.ErrorAs(t, VerifyArray(a), &fatalError)
	})

	t.Run("capacity mismatch", func(t *testing.T) {
		a := newArray(t)
		a.data.capacity = 3

		var fatalError *FatalError
		require.ErrorAs(t, VerifyArray(a), &fatalError)
	})

	t.Run("zero value", func(t *testing.T) {
		var a Array[int]
		require.NoError(t, VerifyArray(&a))
	})
}
