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

package main

import (
	"errors"
	"fmt"
	"os"
	"slices"

	"github.com/fxamacker/cbor/v2"

	"github.com/onflow/growarray"
	"github.com/onflow/growarray/test_utils"
)

const (
	opPushBack uint8 = iota
	opInsert
	opErase
	opPopBack
	opSet
	opResize
	opReserve
	opClone
	maxOpKind
)

var opKindNames = [...]string{
	opPushBack: "push-back",
	opInsert:   "insert",
	opErase:    "erase",
	opPopBack:  "pop-back",
	opSet:      "set",
	opResize:   "resize",
	opReserve:  "reserve",
	opClone:    "clone",
}

const (
	traitsCopyOnly    = "copy-only"
	traitsNothrowMove = "nothrow-move"
	traitsMoveOnly    = "move-only"
)

const checksumSeed = uint64(0x9e3779b97f4a7c15)

// traceOp is one array operation. Arg is a position, size or capacity
// depending on Kind. If FailAt > 0, the FailAt-th call to element
// operation FailOp made by this operation fails.
type traceOp struct {
	_      struct{} `cbor:",toarray"`
	Kind   uint8
	Arg    int
	Value  int
	FailOp growarray.ElementOp
	FailAt int
}

func (op traceOp) String() string {
	name := fmt.Sprintf("op(%d)", op.Kind)
	if int(op.Kind) < len(opKindNames) {
		name = opKindNames[op.Kind]
	}
	s := fmt.Sprintf("%s(arg %d, value %d)", name, op.Arg, op.Value)
	if op.FailAt > 0 {
		s += fmt.Sprintf(" failing %s #%d", op.FailOp, op.FailAt)
	}
	return s
}

// trace is the sequence of operations run by a stress test, starting
// from an empty array.
type trace struct {
	_      struct{} `cbor:",toarray"`
	Seed   int64
	Traits string
	Ops    []traceOp
}

func writeTrace(path string, t *trace) error {
	encMode, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		return fmt.Errorf("failed to create CBOR encoding mode: %w", err)
	}

	data, err := encMode.Marshal(t)
	if err != nil {
		return fmt.Errorf("failed to encode trace: %w", err)
	}

	return os.WriteFile(path, data, 0o644)
}

func readTrace(path string) (*trace, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	decMode, err := cbor.DecOptions{}.DecMode()
	if err != nil {
		return nil, fmt.Errorf("failed to create CBOR decoding mode: %w", err)
	}

	var t trace
	if err := decMode.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("failed to decode trace %s: %w", path, err)
	}
	return &t, nil
}

// executor runs operations against an array of tracked elements and a
// reference slice of expected values.
type executor struct {
	ops     *test_utils.TrackedOps
	array   *growarray.Array[test_utils.Element]
	values  []int
	failOps []growarray.ElementOp
}

func newExecutor(traits string) (*executor, error) {
	var ops *test_utils.TrackedOps
	var failOps []growarray.ElementOp

	switch traits {
	case traitsCopyOnly:
		ops = test_utils.NewCopyOnlyOps()
		failOps = []growarray.ElementOp{growarray.OpConstruct, growarray.OpCopy, growarray.OpCopyAssign}
	case traitsNothrowMove:
		// Moves must not fail.
		ops = test_utils.NewNothrowMoveOps()
		failOps = []growarray.ElementOp{growarray.OpConstruct, growarray.OpCopy}
	case traitsMoveOnly:
		ops = test_utils.NewMoveOnlyOps()
		failOps = []growarray.ElementOp{growarray.OpConstruct, growarray.OpMove, growarray.OpMoveAssign}
	default:
		return nil, fmt.Errorf("unknown element traits %q, want %s, %s or %s",
			traits, traitsCopyOnly, traitsNothrowMove, traitsMoveOnly)
	}

	return &executor{
		ops:     ops,
		array:   growarray.New[test_utils.Element](ops),
		failOps: failOps,
	}, nil
}

func (e *executor) copyable() bool {
	return e.ops.Traits().Copyable
}

// withElement calls fn with a caller-owned element holding v and
// destroys the element afterwards.
func (e *executor) withElement(v int, fn func(elem *test_utils.Element) error) error {
	elem := e.ops.NewElement(v)
	defer e.ops.Destroy(&elem)
	return fn(&elem)
}

// apply runs op and updates expected values. It returns true if op failed
// with an injected element failure or an allocation error, and an error
// if the array diverged from expected behavior.
func (e *executor) apply(op traceOp) (bool, error) {
	if op.FailAt > 0 {
		e.ops.FailOn(op.FailOp, op.FailAt)
	}
	defer e.ops.Disarm()

	size := e.array.Size()

	var err error
	shifting := false

	switch op.Kind {

	case opPushBack:
		if e.copyable() {
			_, err = e.array.PushBack(test_utils.Element{Value: op.Value})
		} else {
			err = e.withElement(op.Value, func(elem *test_utils.Element) error {
				_, err := e.array.PushBackMove(elem)
				return err
			})
		}
		if err == nil {
			e.values = append(e.values, op.Value)
		}

	case opInsert:
		if op.Arg < 0 || op.Arg > size {
			return false, fmt.Errorf("%s: position out of range [0, %d]", op, size)
		}
		shifting = op.Arg < size && size < e.array.Capacity()

		if e.copyable() {
			_, err = e.array.Insert(op.Arg, test_utils.Element{Value: op.Value})
		} else {
			err = e.withElement(op.Value, func(elem *test_utils.Element) error {
				_, err := e.array.InsertMove(op.Arg, elem)
				return err
			})
		}
		if err == nil {
			e.values = slices.Insert(e.values, op.Arg, op.Value)
		}

	case opErase:
		if op.Arg < 0 || op.Arg >= size {
			return false, fmt.Errorf("%s: position out of range [0, %d)", op, size)
		}
		shifting = true

		var next int
		next, err = e.array.Erase(op.Arg)
		if err == nil {
			if next != op.Arg {
				return false, fmt.Errorf("%s: returned position %d", op, next)
			}
			e.values = slices.Delete(e.values, op.Arg, op.Arg+1)
		}

	case opPopBack:
		if size == 0 {
			return false, fmt.Errorf("%s: array is empty", op)
		}
		e.array.PopBack()
		e.values = e.values[:size-1]

	case opSet:
		if op.Arg < 0 || op.Arg >= size {
			return false, fmt.Errorf("%s: position out of range [0, %d)", op, size)
		}
		if e.copyable() {
			err = e.array.Set(op.Arg, test_utils.Element{Value: op.Value})
		} else {
			err = e.withElement(op.Value, func(elem *test_utils.Element) error {
				return e.ops.MoveAssign(e.array.At(op.Arg), elem)
			})
		}
		if err == nil {
			e.values[op.Arg] = op.Value
		}

	case opResize:
		if op.Arg < 0 {
			return false, fmt.Errorf("%s: negative size", op)
		}
		err = e.array.Resize(op.Arg)
		if err == nil {
			if op.Arg <= len(e.values) {
				e.values = e.values[:op.Arg]
			} else {
				e.values = append(e.values, make([]int, op.Arg-len(e.values))...)
			}
		}

	case opReserve:
		capacity := e.array.Capacity()
		err = e.array.Reserve(op.Arg)
		switch {
		case err == nil && e.array.Capacity() < op.Arg:
			return false, fmt.Errorf("%s: capacity %d after reserve", op, e.array.Capacity())
		case err != nil && e.array.Capacity() != capacity:
			return false, fmt.Errorf("%s: failed reserve changed capacity %d to %d", op, capacity, e.array.Capacity())
		}

	case opClone:
		if !e.copyable() {
			break
		}
		var c *growarray.Array[test_utils.Element]
		c, err = e.array.Clone()
		if err == nil {
			cloned := test_utils.Values(c)
			c.Release()
			if !slices.Equal(cloned, e.values) {
				return false, fmt.Errorf("%s: clone holds %v, want %v", op, cloned, e.values)
			}
		}

	default:
		return false, fmt.Errorf("%s: unknown operation", op)
	}

	if err == nil {
		return false, nil
	}

	var allocErr *growarray.AllocationError
	if !errors.Is(err, test_utils.ErrInjected) && !errors.As(err, &allocErr) {
		return false, fmt.Errorf("%s: unexpected error: %w", op, err)
	}

	if e.array.Size() != size {
		return false, fmt.Errorf("%s: failed operation changed size %d to %d", op, size, e.array.Size())
	}

	// Elements shifted before the failure are not restored, and moves
	// that may fail leave migrated elements moved-from.
	if shifting || !e.copyable() {
		e.values = test_utils.Values(e.array)
	}

	return true, nil
}

// check verifies the array against expected values and element lifecycle.
func (e *executor) check() error {
	err := growarray.VerifyArray(e.array)
	if err != nil {
		return err
	}

	if e.array.Size() != len(e.values) {
		return fmt.Errorf("array has %d elements, want %d", e.array.Size(), len(e.values))
	}

	checksum := growarray.Checksum(e.array, test_utils.AppendElement, checksumSeed)
	expected := test_utils.ChecksumValues(e.values, checksumSeed)
	if checksum != expected {
		return fmt.Errorf("array checksum %#x, want %#x", checksum, expected)
	}

	if live := e.ops.Live(); live != e.array.Size() {
		return fmt.Errorf("%d live elements, want %d", live, e.array.Size())
	}

	if violations := e.ops.Violations(); len(violations) > 0 {
		return errors.Join(violations...)
	}

	return nil
}

// release destroys the array and reports leaked elements.
func (e *executor) release() error {
	e.array.Release()
	e.values = nil

	if live := e.ops.Live(); live != 0 {
		return fmt.Errorf("%d elements leaked", live)
	}
	return nil
}
