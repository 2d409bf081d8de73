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

// Traits describes how elements may be relocated between slots.
type Traits struct {
	// NothrowMove is true if Move and MoveAssign never return an error.
	NothrowMove bool
	// Copyable is true if Copy and CopyAssign are supported.
	Copyable bool
}

// relocateByMove reports whether migration should move rather than copy.
// Copying keeps the source intact when a later step fails, so it is
// preferred unless moving cannot fail or copying is unsupported.
func (t Traits) relocateByMove() bool {
	return t.NothrowMove || !t.Copyable
}

// ElementOps is the lifecycle of elements of type T.
//
// Construct, Copy and Move build a new element in dst, which is a raw
// slot holding the zero value of T. CopyAssign and MoveAssign overwrite
// the live element dst. A moved-from src stays live and is destroyed
// later by its owner.
//
// A hook that returns an error must not leave a partially built value
// behind that needs destroying.
type ElementOps[T any] interface {
	Traits() Traits
	Construct(dst *T) error
	Copy(dst, src *T) error
	Move(dst, src *T) error
	CopyAssign(dst, src *T) error
	MoveAssign(dst, src *T) error
	Destroy(p *T)
}

// ValueOps treats T as a plain Go value: construction yields the zero
// value, copy and move are assignment, and destroy is a no-op.
// None of its operations fail.
type ValueOps[T any] struct{}

var _ ElementOps[int] = ValueOps[int]{}

func (ValueOps[T]) Traits() Traits {
	return Traits{NothrowMove: true, Copyable: true}
}

func (ValueOps[T]) Construct(dst *T) error {
	var zero T
	*dst = zero
	return nil
}

func (ValueOps[T]) Copy(dst, src *T) error {
	*dst = *src
	return nil
}

func (ValueOps[T]) Move(dst, src *T) error {
	*dst = *src
	// Clear moved-from value to drop references it holds.
	var zero T
	*src = zero
	return nil
}

func (ValueOps[T]) CopyAssign(dst, src *T) error {
	*dst = *src
	return nil
}

func (ValueOps[T]) MoveAssign(dst, src *T) error {
	if dst == src {
		return nil
	}
	*dst = *src
	var zero T
	*src = zero
	return nil
}

func (ValueOps[T]) Destroy(*T) {}
