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
	"math/bits"
	"unsafe"
)

// noCopy may be embedded into structs which must not be copied
// after the first use. It is reported by go vet's copylocks checker.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

// RawStorage owns one fixed allocation of capacity slots.
//
// RawStorage does not know which slots hold live elements. A slot that
// holds no live element contains the zero value of T. The owner must
// destroy every live element before calling Release or dropping the storage.
type RawStorage[T any] struct {
	_ noCopy

	buf      []T
	capacity int
}

// NewRawStorage allocates raw storage for capacity slots.
// Zero capacity allocates nothing.
func NewRawStorage[T any](capacity int) (RawStorage[T], error) {
	buf, err := allocate[T](capacity)
	if err != nil {
		return RawStorage[T]{}, err
	}
	return RawStorage[T]{buf: buf, capacity: capacity}, nil
}

// allocate returns a fixed block of n zeroed slots, or nil if n is 0.
func allocate[T any](n int) (buf []T, err error) {
	var zero T
	elemSize := unsafe.Sizeof(zero)

	if n < 0 {
		return nil, NewAllocationError(n, elemSize, "negative capacity")
	}
	if n == 0 {
		return nil, nil
	}

	hi, size := bits.Mul64(uint64(n), uint64(elemSize))
	if hi != 0 {
		return nil, NewAllocationError(n, elemSize, "size overflows")
	}
	if size > maxAllocationSize {
		return nil, NewAllocationError(
			n,
			elemSize,
			fmt.Sprintf("%d bytes exceeds allocation limit %d", size, maxAllocationSize))
	}

	defer func() {
		// makeslice panics with a runtime error when the runtime
		// refuses the length.
		if r := recover(); r != nil {
			buf = nil
			err = NewAllocationError(n, elemSize, fmt.Sprint(r))
		}
	}()

	return make([]T, n), nil
}

// Take transfers ownership of the allocation to the returned storage.
// s is left empty.
func (s *RawStorage[T]) Take() RawStorage[T] {
	buf, capacity := s.buf, s.capacity
	s.buf = nil
	s.capacity = 0
	return RawStorage[T]{buf: buf, capacity: capacity}
}

// Swap exchanges allocations of s and other.
func (s *RawStorage[T]) Swap(other *RawStorage[T]) {
	s.buf, other.buf = other.buf, s.buf
	s.capacity, other.capacity = other.capacity, s.capacity
}

// Range returns slots [from, to).
// Valid for 0 <= from <= to <= Capacity(); Range(Capacity(), Capacity())
// is the empty one-past-end position.
func (s *RawStorage[T]) Range(from, to int) []T {
	assertf(from >= 0 && from <= to && to <= s.capacity,
		"raw range [%d, %d) out of capacity %d", from, to, s.capacity)
	return s.buf[from:to:to]
}

// Slot returns the slot at index, constructed or not.
func (s *RawStorage[T]) Slot(index int) *T {
	assertf(index >= 0 && index < s.capacity,
		"raw slot %d out of capacity %d", index, s.capacity)
	return &s.buf[index]
}

// Capacity returns number of allocated slots.
func (s *RawStorage[T]) Capacity() int {
	return s.capacity
}

// Release drops the allocation without touching slot contents.
func (s *RawStorage[T]) Release() {
	s.buf = nil
	s.capacity = 0
}
