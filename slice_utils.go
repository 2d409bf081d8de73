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

// Helpers in this file work on ranges of slots. A "raw" range holds no
// live elements; a "live" range holds constructed elements. Helpers that
// construct into a raw range destroy whatever they constructed, in reverse
// order, before returning an error, so the range is raw again on failure.
// base is the index of the range's first slot, used in error reports.

// clearSlot returns a slot to the raw state.
func clearSlot[T any](p *T) {
	var zero T
	*p = zero
}

// destroySlot destroys the live element at p and clears the slot.
func destroySlot[T any](ops ElementOps[T], p *T) {
	ops.Destroy(p)
	clearSlot(p)
}

// destroyRange destroys live elements of s in index order.
func destroyRange[T any](ops ElementOps[T], s []T) {
	for i := range s {
		destroySlot(ops, &s[i])
	}
}

// rollbackRange destroys live elements of s in reverse index order.
func rollbackRange[T any](ops ElementOps[T], s []T) {
	for i := len(s) - 1; i >= 0; i-- {
		destroySlot(ops, &s[i])
	}
}

// constructInto builds one element in the raw slot dst using fn.
func constructInto[T any](op ElementOp, fn func(dst *T) error, dst *T, index int) error {
	err := fn(dst)
	if err != nil {
		clearSlot(dst)
		return NewElementOperationError(op, index, err)
	}
	return nil
}

// constructRange default-constructs every slot of the raw range dst.
func constructRange[T any](ops ElementOps[T], dst []T, base int) error {
	for i := range dst {
		err := constructInto(OpConstruct, ops.Construct, &dst[i], base+i)
		if err != nil {
			rollbackRange(ops, dst[:i])
			return err
		}
	}
	return nil
}

// copyRange copy-constructs src into the raw range dst.
func copyRange[T any](ops ElementOps[T], dst, src []T, base int) error {
	_ = dst[:len(src)] // bounds check

	for i := range src {
		err := ops.Copy(&dst[i], &src[i])
		if err != nil {
			clearSlot(&dst[i])
			rollbackRange(ops, dst[:i])
			return NewElementOperationError(OpCopy, base+i, err)
		}
	}
	return nil
}

// moveRange move-constructs src into the raw range dst.
// Elements of src are left live in moved-from state.
func moveRange[T any](ops ElementOps[T], dst, src []T, base int) error {
	_ = dst[:len(src)] // bounds check

	for i := range src {
		err := ops.Move(&dst[i], &src[i])
		if err != nil {
			clearSlot(&dst[i])
			rollbackRange(ops, dst[:i])
			return NewElementOperationError(OpMove, base+i, err)
		}
	}
	return nil
}

// relocateRange moves or copies src into the raw range dst,
// depending on element traits.
func relocateRange[T any](ops ElementOps[T], dst, src []T, base int) error {
	if ops.Traits().relocateByMove() {
		return moveRange(ops, dst, src, base)
	}
	return copyRange(ops, dst, src, base)
}

// relocateInto moves or copies src into the raw slot dst.
func relocateInto[T any](ops ElementOps[T], dst, src *T, index int) error {
	if ops.Traits().relocateByMove() {
		return constructInto(OpMove, func(dst *T) error { return ops.Move(dst, src) }, dst, index)
	}
	return constructInto(OpCopy, func(dst *T) error { return ops.Copy(dst, src) }, dst, index)
}

// assignFrom move-assigns or copy-assigns src to the live element dst,
// depending on element traits.
func assignFrom[T any](ops ElementOps[T], dst, src *T, index int) error {
	if ops.Traits().relocateByMove() {
		if err := ops.MoveAssign(dst, src); err != nil {
			return NewElementOperationError(OpMoveAssign, index, err)
		}
		return nil
	}
	if err := ops.CopyAssign(dst, src); err != nil {
		return NewElementOperationError(OpCopyAssign, index, err)
	}
	return nil
}

// copyAssignRange copy-assigns src to the live range dst, in index order.
// Elements assigned before a failure keep their new values.
func copyAssignRange[T any](ops ElementOps[T], dst, src []T, base int) error {
	_ = dst[:len(src)] // bounds check

	for i := range src {
		if err := ops.CopyAssign(&dst[i], &src[i]); err != nil {
			return NewElementOperationError(OpCopyAssign, base+i, err)
		}
	}
	return nil
}

// shiftRight shifts s[:len(s)-1] to s[1:] by assignment, last element
// first. s[0] is left moved-from or unchanged. Elements shifted before a
// failure are not restored.
func shiftRight[T any](ops ElementOps[T], s []T, base int) error {
	for i := len(s) - 1; i > 0; i-- {
		if err := assignFrom(ops, &s[i], &s[i-1], base+i); err != nil {
			return err
		}
	}
	return nil
}

// shiftLeft shifts s[1:] to s[:len(s)-1] by assignment, first element
// first. The last element is left moved-from or unchanged. Elements
// shifted before a failure are not restored.
func shiftLeft[T any](ops ElementOps[T], s []T, base int) error {
	for i := 0; i < len(s)-1; i++ {
		if err := assignFrom(ops, &s[i], &s[i+1], base+i); err != nil {
			return err
		}
	}
	return nil
}
