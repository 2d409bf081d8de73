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

import "iter"

// Iterator walks a range of array elements in index order.
// It is invalidated by any operation that reallocates or shifts elements.
type Iterator[T any] struct {
	array     *Array[T]
	nextIndex int
	lastIndex int // noninclusive index
}

// Iterator returns an iterator over all elements.
func (a *Array[T]) Iterator() *Iterator[T] {
	return &Iterator[T]{array: a, lastIndex: a.size}
}

// RangeIterator returns an iterator over elements in [startIndex, endIndex).
func (a *Array[T]) RangeIterator(startIndex, endIndex int) (*Iterator[T], error) {
	if startIndex < 0 || startIndex > a.size {
		return nil, NewIndexOutOfBoundsError(startIndex, 0, a.size)
	}
	if endIndex < startIndex || endIndex > a.size {
		return nil, NewIndexOutOfBoundsError(endIndex, startIndex, a.size)
	}
	return &Iterator[T]{array: a, nextIndex: startIndex, lastIndex: endIndex}, nil
}

// Next returns the next element, or false if there are no more elements.
func (i *Iterator[T]) Next() (*T, bool) {
	if i.nextIndex == i.lastIndex {
		// No more elements.
		return nil, false
	}

	e := i.array.At(i.nextIndex)
	i.nextIndex++
	return e, true
}

// Position returns the position of the element returned by the next call to Next.
func (i *Iterator[T]) Position() int {
	return i.nextIndex
}

type IterationFunc[T any] func(element *T) (resume bool, err error)

// Iterate calls fn for each element in index order until fn returns
// false or an error.
func (a *Array[T]) Iterate(fn IterationFunc[T]) error {
	it := a.Iterator()
	for {
		e, ok := it.Next()
		if !ok {
			return nil
		}
		resume, err := fn(e)
		if err != nil {
			return err
		}
		if !resume {
			return nil
		}
	}
}

// All returns an iterator over positions and elements.
func (a *Array[T]) All() iter.Seq2[int, *T] {
	return func(yield func(int, *T) bool) {
		for i := 0; i < a.size; i++ {
			if !yield(i, a.data.Slot(i)) {
				return
			}
		}
	}
}
