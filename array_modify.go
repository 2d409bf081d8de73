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

// EmplaceBack constructs a new last element with construct and returns it.
//
// construct receives a raw slot holding the zero value of T. When the
// array is full, the new element is constructed in new storage before
// existing elements are migrated, so construct may read elements of the
// array. On failure the array is unchanged.
func (a *Array[T]) EmplaceBack(construct func(dst *T) error) (*T, error) {
	return a.emplaceBack(OpConstruct, construct)
}

// PushBack appends a copy of v.
func (a *Array[T]) PushBack(v T) (*T, error) {
	return a.emplaceBack(OpCopy, func(dst *T) error {
		return a.ElementOps().Copy(dst, &v)
	})
}

// PushBackMove appends v by moving from it. v is left moved-from and
// remains owned by the caller.
func (a *Array[T]) PushBackMove(v *T) (*T, error) {
	return a.emplaceBack(OpMove, func(dst *T) error {
		return a.ElementOps().Move(dst, v)
	})
}

func (a *Array[T]) emplaceBack(op ElementOp, construct func(dst *T) error) (*T, error) {
	if a.size < a.data.Capacity() {
		err := constructInto(op, construct, a.data.Slot(a.size), a.size)
		if err != nil {
			return nil, err
		}
		a.size++
		return a.Back(), nil
	}

	newData, err := NewRawStorage[T](nextCapacity(a.data.Capacity()))
	if err != nil {
		return nil, err
	}

	newElem := newData.Slot(a.size)

	err = constructInto(op, construct, newElem, a.size)
	if err != nil {
		newData.Release()
		return nil, err
	}

	err = relocateRange(a.ElementOps(), newData.Range(0, a.size), a.Slice(), 0)
	if err != nil {
		destroySlot(a.ElementOps(), newElem)
		newData.Release()
		return nil, err
	}

	a.replaceStorage(&newData)
	a.size++
	return a.Back(), nil
}

// Emplace constructs a new element with construct at pos and returns pos.
// pos must be in [Begin(), End()].
//
// When the array is full, the new element is built in new storage first
// and elements before and after pos are migrated around it; any failure
// leaves the array unchanged.
//
// When capacity is available, the new value is built in a temporary, the
// last element is relocated into the first raw slot, elements in
// [pos, End()-1) are shifted right by one through assignment, and the
// temporary is assigned to pos. If a shift or the final assignment fails,
// the relocated last element is destroyed and size is unchanged, but
// elements already shifted are not restored.
func (a *Array[T]) Emplace(pos int, construct func(dst *T) error) (int, error) {
	return a.emplace(pos, OpConstruct, construct)
}

// Insert inserts a copy of v at pos and returns pos.
// See Emplace for failure behavior.
func (a *Array[T]) Insert(pos int, v T) (int, error) {
	return a.emplace(pos, OpCopy, func(dst *T) error {
		return a.ElementOps().Copy(dst, &v)
	})
}

// InsertMove inserts v at pos by moving from it and returns pos.
// See Emplace for failure behavior.
func (a *Array[T]) InsertMove(pos int, v *T) (int, error) {
	return a.emplace(pos, OpMove, func(dst *T) error {
		return a.ElementOps().Move(dst, v)
	})
}

func (a *Array[T]) emplace(pos int, op ElementOp, construct func(dst *T) error) (int, error) {
	assertf(pos >= 0 && pos <= a.size, "insert position %d out of range [0, %d]", pos, a.size)

	var err error

	switch {
	case pos == a.size:
		_, err = a.emplaceBack(op, construct)

	case a.size == a.data.Capacity():
		err = a.emplaceReallocating(pos, op, construct)

	default:
		err = a.emplaceShifting(pos, op, construct)
	}

	if err != nil {
		return 0, err
	}
	return pos, nil
}

func (a *Array[T]) emplaceReallocating(pos int, op ElementOp, construct func(dst *T) error) error {
	newData, err := NewRawStorage[T](nextCapacity(a.data.Capacity()))
	if err != nil {
		return err
	}

	err = constructInto(op, construct, newData.Slot(pos), pos)
	if err != nil {
		newData.Release()
		return err
	}

	// Migrate prefix.
	err = relocateRange(a.ElementOps(), newData.Range(0, pos), a.data.Range(0, pos), 0)
	if err != nil {
		destroySlot(a.ElementOps(), newData.Slot(pos))
		newData.Release()
		return err
	}

	// Migrate suffix.
	err = relocateRange(a.ElementOps(), newData.Range(pos+1, a.size+1), a.data.Range(pos, a.size), pos+1)
	if err != nil {
		rollbackRange(a.ElementOps(), newData.Range(0, pos+1))
		newData.Release()
		return err
	}

	a.replaceStorage(&newData)
	a.size++
	return nil
}

func (a *Array[T]) emplaceShifting(pos int, op ElementOp, construct func(dst *T) error) error {
	var tmp T
	err := constructInto(op, construct, &tmp, pos)
	if err != nil {
		return err
	}
	defer a.ElementOps().Destroy(&tmp)

	tail := a.data.Slot(a.size)

	err = relocateInto(a.ElementOps(), tail, a.data.Slot(a.size-1), a.size)
	if err != nil {
		return err
	}

	err = shiftRight(a.ElementOps(), a.data.Range(pos, a.size), pos)
	if err != nil {
		destroySlot(a.ElementOps(), tail)
		return err
	}

	err = assignFrom(a.ElementOps(), a.data.Slot(pos), &tmp, pos)
	if err != nil {
		destroySlot(a.ElementOps(), tail)
		return err
	}

	a.size++
	return nil
}

// Erase removes element at pos and returns the position of the element
// that followed it, which is End() if the last element was removed.
// pos must be in [Begin(), End()).
//
// Following elements are shifted left through assignment. If an
// assignment fails, size is unchanged and elements already shifted are
// not restored.
func (a *Array[T]) Erase(pos int) (int, error) {
	assertf(pos >= 0 && pos < a.size, "erase position %d out of range [0, %d)", pos, a.size)

	err := shiftLeft(a.ElementOps(), a.data.Range(pos, a.size), pos)
	if err != nil {
		return 0, err
	}

	destroySlot(a.ElementOps(), a.data.Slot(a.size-1))
	a.size--
	return pos, nil
}

// PopBack destroys the last element. The array must not be empty.
func (a *Array[T]) PopBack() {
	assertf(a.size > 0, "pop back of empty array")

	destroySlot(a.ElementOps(), a.data.Slot(a.size-1))
	a.size--
}
