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

// Array is a contiguous growable sequence of T built on RawStorage.
//
// Slots [0, Size()) hold live elements and slots [Size(), Capacity())
// are raw. Operations that reallocate or shift elements invalidate
// pointers and slices previously obtained from the array.
//
// The zero value is an empty array using ValueOps.
// Array is not safe for concurrent use.
type Array[T any] struct {
	_ noCopy

	data RawStorage[T]
	size int
	ops  ElementOps[T]
}

func opsOrDefault[T any](ops ElementOps[T]) ElementOps[T] {
	if ops == nil {
		return ValueOps[T]{}
	}
	return ops
}

// nextCapacity returns the capacity to grow to when capacity is exhausted.
func nextCapacity(capacity int) int {
	if capacity == 0 {
		return 1
	}
	return capacity * 2
}

// New returns an empty array. A nil ops means ValueOps.
func New[T any](ops ElementOps[T]) *Array[T] {
	return &Array[T]{ops: opsOrDefault(ops)}
}

// NewSized returns an array of n default-constructed elements.
// If any construction fails, elements constructed so far are destroyed
// and no array is returned.
func NewSized[T any](n int, ops ElementOps[T]) (*Array[T], error) {
	ops = opsOrDefault(ops)

	data, err := NewRawStorage[T](n)
	if err != nil {
		return nil, err
	}

	err = constructRange(ops, data.Range(0, n), 0)
	if err != nil {
		data.Release()
		return nil, err
	}

	return &Array[T]{data: data.Take(), size: n, ops: ops}, nil
}

// Clone returns an independent copy of a with capacity equal to a.Size().
func (a *Array[T]) Clone() (*Array[T], error) {
	return cloneWith(a.ElementOps(), a)
}

func cloneWith[T any](ops ElementOps[T], src *Array[T]) (*Array[T], error) {
	data, err := NewRawStorage[T](src.size)
	if err != nil {
		return nil, err
	}

	err = copyRange(ops, data.Range(0, src.size), src.Slice(), 0)
	if err != nil {
		data.Release()
		return nil, err
	}

	return &Array[T]{data: data.Take(), size: src.size, ops: ops}, nil
}

// Take transfers a's storage to the returned array in O(1).
// a is left empty and usable.
func (a *Array[T]) Take() *Array[T] {
	moved := &Array[T]{ops: a.ElementOps()}
	moved.Swap(a)
	return moved
}

// MoveFrom destroys a's elements and takes src's storage in O(1).
// src is left empty and usable. No element of src is touched.
func (a *Array[T]) MoveFrom(src *Array[T]) {
	if a == src {
		return
	}
	a.Release()
	a.Swap(src)
}

// Assign makes a an element-wise copy of src.
//
// If src does not fit in a's capacity, a full copy is built first and
// swapped in, so a failure leaves a unchanged. Otherwise a's storage is
// reused: the common prefix is copy-assigned, then surplus elements are
// destroyed or missing ones copy-constructed. A failure while
// copy-assigning the prefix leaves already assigned elements with their
// new values.
func (a *Array[T]) Assign(src *Array[T]) error {
	if a == src {
		return nil
	}

	if src.size > a.data.Capacity() {
		c, err := cloneWith(a.ElementOps(), src)
		if err != nil {
			return err
		}
		a.Swap(c)
		c.Release()
		return nil
	}

	common := min(a.size, src.size)

	err := copyAssignRange(a.ElementOps(), a.data.Range(0, common), src.data.Range(0, common), 0)
	if err != nil {
		return err
	}

	if src.size < a.size {
		destroyRange(a.ElementOps(), a.data.Range(src.size, a.size))
	} else if src.size > a.size {
		err = copyRange(
			a.ElementOps(),
			a.data.Range(a.size, src.size),
			src.data.Range(a.size, src.size),
			a.size)
		if err != nil {
			return err
		}
	}

	a.size = src.size
	return nil
}

// Swap exchanges contents of a and other in O(1).
func (a *Array[T]) Swap(other *Array[T]) {
	a.data.Swap(&other.data)
	a.size, other.size = other.size, a.size
	a.ops, other.ops = other.ops, a.ops
}

// Release destroys all elements in index order and releases storage.
// The array is empty and usable afterwards.
func (a *Array[T]) Release() {
	destroyRange(a.ElementOps(), a.Slice())
	a.size = 0
	a.data.Release()
}

// Size returns number of live elements.
func (a *Array[T]) Size() int {
	return a.size
}

// Capacity returns number of allocated slots.
func (a *Array[T]) Capacity() int {
	return a.data.Capacity()
}

// Empty returns true if the array has no elements.
func (a *Array[T]) Empty() bool {
	return a.size == 0
}

// ElementOps returns element lifecycle used by the array.
// An array created without ops uses ValueOps.
func (a *Array[T]) ElementOps() ElementOps[T] {
	if a.ops == nil {
		a.ops = ValueOps[T]{}
	}
	return a.ops
}

// At returns element at index. index must be in [0, Size()); this is
// only checked in debug builds.
func (a *Array[T]) At(index int) *T {
	assertf(index >= 0 && index < a.size, "index %d out of range [0, %d)", index, a.size)
	return a.data.Slot(index)
}

// Get returns a plain Go copy of element at index, or
// IndexOutOfBoundsError. ElementOps.Copy is not called, so for elements
// with lifecycle hooks the result aliases the stored element; use At.
func (a *Array[T]) Get(index int) (T, error) {
	if index < 0 || index >= a.size {
		var zero T
		return zero, NewIndexOutOfBoundsError(index, 0, a.size)
	}
	return *a.data.Slot(index), nil
}

// Set copy-assigns v to element at index, or returns IndexOutOfBoundsError.
func (a *Array[T]) Set(index int, v T) error {
	if index < 0 || index >= a.size {
		return NewIndexOutOfBoundsError(index, 0, a.size)
	}
	if err := a.ElementOps().CopyAssign(a.data.Slot(index), &v); err != nil {
		return NewElementOperationError(OpCopyAssign, index, err)
	}
	return nil
}

// Front returns the first element. The array must not be empty.
func (a *Array[T]) Front() *T {
	assertf(a.size > 0, "front of empty array")
	return a.data.Slot(0)
}

// Back returns the last element. The array must not be empty.
func (a *Array[T]) Back() *T {
	assertf(a.size > 0, "back of empty array")
	return a.data.Slot(a.size - 1)
}

// Slice returns the live elements. The returned slice shares storage with
// the array and has no spare capacity.
func (a *Array[T]) Slice() []T {
	return a.data.Range(0, a.size)
}

// Begin returns position of the first element.
func (a *Array[T]) Begin() int {
	return 0
}

// End returns the position one past the last element.
func (a *Array[T]) End() int {
	return a.size
}

// Reserve grows capacity to exactly newCapacity if it is larger than the
// current capacity. Size and contents are unchanged; on failure nothing
// is changed.
func (a *Array[T]) Reserve(newCapacity int) error {
	if newCapacity <= a.data.Capacity() {
		return nil
	}
	return a.reallocate(newCapacity)
}

// reallocate migrates live elements into new storage of capacity slots.
func (a *Array[T]) reallocate(capacity int) error {
	newData, err := NewRawStorage[T](capacity)
	if err != nil {
		return err
	}

	err = relocateRange(a.ElementOps(), newData.Range(0, a.size), a.Slice(), 0)
	if err != nil {
		newData.Release()
		return err
	}

	a.replaceStorage(&newData)
	return nil
}

// replaceStorage destroys live elements in the current storage and
// installs newData, which must already hold the migrated elements.
func (a *Array[T]) replaceStorage(newData *RawStorage[T]) {
	destroyRange(a.ElementOps(), a.Slice())
	a.data.Swap(newData)
	newData.Release()
}

// Resize changes size to newSize.
//
// Shrinking destroys trailing elements. Growing default-constructs new
// trailing elements, reallocating to exactly newSize first if needed.
// If a construction fails, elements constructed by this call are
// destroyed and size is unchanged.
func (a *Array[T]) Resize(newSize int) error {
	assertf(newSize >= 0, "negative size %d", newSize)

	switch {
	case newSize < a.size:
		destroyRange(a.ElementOps(), a.data.Range(newSize, a.size))
		a.size = newSize
		return nil

	case newSize == a.size:
		return nil
	}

	if newSize > a.data.Capacity() {
		err := a.reallocate(newSize)
		if err != nil {
			return err
		}
	}

	err := constructRange(a.ElementOps(), a.data.Range(a.size, newSize), a.size)
	if err != nil {
		return err
	}

	a.size = newSize
	return nil
}
