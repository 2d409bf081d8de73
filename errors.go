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

import "fmt"

type Error interface {
	// returns true if the error is fatal
	IsFatal() bool
	// and anything else that is needed to be an error
	error
}

// AllocationError is a fatal error returned when raw storage for the requested
// number of slots cannot be allocated.
type AllocationError struct {
	capacity int
	elemSize uintptr
	reason   string
}

// NewAllocationError constructs an AllocationError
func NewAllocationError(capacity int, elemSize uintptr, reason string) *AllocationError {
	return &AllocationError{capacity: capacity, elemSize: elemSize, reason: reason}
}

func (e *AllocationError) Error() string {
	return fmt.Sprintf("failed to allocate %d slots of %d bytes: %s", e.capacity, e.elemSize, e.reason)
}

// IsFatal returns true if the error is fatal
func (e *AllocationError) IsFatal() bool {
	return true
}

// Capacity returns the number of slots that was requested.
func (e *AllocationError) Capacity() int {
	return e.capacity
}

// ElementOp names the element lifecycle operation that failed.
type ElementOp int

const (
	OpConstruct ElementOp = iota
	OpCopy
	OpMove
	OpCopyAssign
	OpMoveAssign
)

func (op ElementOp) String() string {
	switch op {
	case OpConstruct:
		return "construct"
	case OpCopy:
		return "copy"
	case OpMove:
		return "move"
	case OpCopyAssign:
		return "copy-assign"
	case OpMoveAssign:
		return "move-assign"
	default:
		return fmt.Sprintf("ElementOp(%d)", int(op))
	}
}

// ElementOperationError is returned when an element's construct, copy, move,
// or assignment hook reports failure.
type ElementOperationError struct {
	op    ElementOp
	index int
	err   error
}

// NewElementOperationError constructs an ElementOperationError
func NewElementOperationError(op ElementOp, index int, err error) *ElementOperationError {
	return &ElementOperationError{op: op, index: index, err: err}
}

func (e *ElementOperationError) Error() string {
	return fmt.Sprintf("element %s at slot %d failed: %s", e.op, e.index, e.err.Error())
}

// IsFatal returns true if the error is fatal
func (e *ElementOperationError) IsFatal() bool {
	return false
}

// Op returns the failed lifecycle operation.
func (e *ElementOperationError) Op() ElementOp {
	return e.op
}

// Index returns the destination slot of the failed operation.
func (e *ElementOperationError) Index() int {
	return e.index
}

// Unwrap returns the wrapped err
func (e *ElementOperationError) Unwrap() error {
	return e.err
}

// IndexOutOfBoundsError is returned when a checked access is attempted on an array index which is out of bounds
type IndexOutOfBoundsError struct {
	index int
	min   int
	max   int
}

// NewIndexOutOfBoundsError constructs a IndexOutOfBoundsError
func NewIndexOutOfBoundsError(index, min, max int) *IndexOutOfBoundsError {
	return &IndexOutOfBoundsError{index: index, min: min, max: max}
}

func (e *IndexOutOfBoundsError) Error() string {
	return fmt.Sprintf("the given index %d is not in the acceptable range (%d-%d)", e.index, e.min, e.max)
}

// IsFatal returns true if the error is fatal
func (e *IndexOutOfBoundsError) IsFatal() bool {
	return false
}

// FatalError wraps errors that indicate a broken array invariant.
type FatalError struct {
	err error
}

// NewFatalError constructs a FatalError
func NewFatalError(err error) *FatalError {
	return &FatalError{err: err}
}

func (e *FatalError) Error() string {
	return fmt.Sprintf("fatal error: %s", e.err.Error())
}

// IsFatal returns true if the error is fatal
func (e *FatalError) IsFatal() bool {
	return true
}

// Unwrap returns the wrapped err
func (e *FatalError) Unwrap() error {
	return e.err
}
