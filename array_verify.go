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
	"fmt"
	"reflect"
)

// VerifyArray checks storage invariants of a:
//   - 0 <= size <= capacity
//   - buffer is nil iff capacity is 0, and holds exactly capacity slots
//   - every raw slot holds the zero value of T
func VerifyArray[T any](a *Array[T]) error {
	err := verifyRawStorage(&a.data)
	if err != nil {
		return err
	}

	if a.size < 0 || a.size > a.data.Capacity() {
		return NewFatalError(fmt.Errorf("array size %d, want in range [0, %d]", a.size, a.data.Capacity()))
	}

	for i := a.size; i < a.data.Capacity(); i++ {
		if !reflect.ValueOf(a.data.Slot(i)).Elem().IsZero() {
			return NewFatalError(fmt.Errorf("raw slot %d holds a non-zero value", i))
		}
	}

	return nil
}

func verifyRawStorage[T any](s *RawStorage[T]) error {
	if s.capacity < 0 {
		return NewFatalError(fmt.Errorf("raw storage capacity %d is negative", s.capacity))
	}

	if (s.buf == nil) != (s.capacity == 0) {
		return NewFatalError(fmt.Errorf("raw storage buffer is nil: %t, capacity %d", s.buf == nil, s.capacity))
	}

	if len(s.buf) != s.capacity || cap(s.buf) != s.capacity {
		return NewFatalError(fmt.Errorf("raw storage has %d (cap %d) slots, want %d", len(s.buf), cap(s.buf), s.capacity))
	}

	return nil
}
