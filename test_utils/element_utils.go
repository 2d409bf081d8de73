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

package test_utils

import (
	"errors"
	"fmt"
	"math"

	"github.com/onflow/growarray"
)

// MovedFromValue is the value left in an element after it is moved from.
const MovedFromValue = math.MinInt

// ErrInjected is returned by TrackedOps when an armed failure triggers.
var ErrInjected = errors.New("injected element failure")

// Element is a tracked element. id identifies the constructed object
// and is 0 in a raw slot.
type Element struct {
	Value int
	id    uint64
}

func (e Element) String() string {
	if e.Value == MovedFromValue {
		return "moved-from"
	}
	return fmt.Sprint(e.Value)
}

// TrackedOps implements growarray.ElementOps[Element]. It records every
// constructed and destroyed object, reports lifecycle misuse, and can be
// armed to fail the n-th next call of an operation.
type TrackedOps struct {
	traits     growarray.Traits
	nextID     uint64
	live       map[uint64]struct{}
	calls      map[growarray.ElementOp]int
	failAt     map[growarray.ElementOp]int
	destroyed  int
	violations []error
}

var _ growarray.ElementOps[Element] = &TrackedOps{}

// NewTrackedOps returns ops with given relocation traits.
func NewTrackedOps(traits growarray.Traits) *TrackedOps {
	return &TrackedOps{
		traits: traits,
		live:   make(map[uint64]struct{}),
		calls:  make(map[growarray.ElementOp]int),
		failAt: make(map[growarray.ElementOp]int),
	}
}

// NewCopyOnlyOps returns ops whose moves may fail, so the array copies
// elements when migrating them.
func NewCopyOnlyOps() *TrackedOps {
	return NewTrackedOps(growarray.Traits{NothrowMove: false, Copyable: true})
}

// NewNothrowMoveOps returns ops whose moves never fail.
func NewNothrowMoveOps() *TrackedOps {
	return NewTrackedOps(growarray.Traits{NothrowMove: true, Copyable: true})
}

// NewMoveOnlyOps returns ops that do not support copying.
func NewMoveOnlyOps() *TrackedOps {
	return NewTrackedOps(growarray.Traits{NothrowMove: false, Copyable: false})
}

// FailOn arms a one-shot failure of the n-th next call to op (n >= 1).
func (o *TrackedOps) FailOn(op growarray.ElementOp, n int) {
	o.failAt[op] = o.calls[op] + n
}

// Disarm removes all armed failures.
func (o *TrackedOps) Disarm() {
	clear(o.failAt)
}

// Armed returns true if a failure is armed for op.
func (o *TrackedOps) Armed(op growarray.ElementOp) bool {
	_, ok := o.failAt[op]
	return ok
}

// Live returns number of constructed and not yet destroyed objects.
func (o *TrackedOps) Live() int {
	return len(o.live)
}

// Calls returns number of calls of op, failed ones included.
func (o *TrackedOps) Calls(op growarray.ElementOp) int {
	return o.calls[op]
}

// Destroyed returns number of destroyed objects.
func (o *TrackedOps) Destroyed() int {
	return o.destroyed
}

// Violations returns lifecycle misuse detected so far.
func (o *TrackedOps) Violations() []error {
	return o.violations
}

// NewElement returns a live element owned by the caller, who must
// destroy it with Destroy.
func (o *TrackedOps) NewElement(v int) Element {
	e := Element{Value: v}
	o.born(&e)
	return e
}

func (o *TrackedOps) Traits() growarray.Traits {
	return o.traits
}

func (o *TrackedOps) Construct(dst *Element) error {
	if err := o.call(growarray.OpConstruct); err != nil {
		return err
	}
	o.checkRaw(growarray.OpConstruct, dst)
	dst.Value = 0
	o.born(dst)
	return nil
}

func (o *TrackedOps) Copy(dst, src *Element) error {
	if !o.traits.Copyable {
		o.violate(fmt.Errorf("copy of non-copyable element %v", *src))
	}
	if err := o.call(growarray.OpCopy); err != nil {
		return err
	}
	o.checkRaw(growarray.OpCopy, dst)
	dst.Value = src.Value
	o.born(dst)
	return nil
}

func (o *TrackedOps) Move(dst, src *Element) error {
	if err := o.call(growarray.OpMove); err != nil {
		return err
	}
	o.checkRaw(growarray.OpMove, dst)
	dst.Value = src.Value
	src.Value = MovedFromValue
	o.born(dst)
	return nil
}

func (o *TrackedOps) CopyAssign(dst, src *Element) error {
	if !o.traits.Copyable {
		o.violate(fmt.Errorf("copy-assign of non-copyable element %v", *src))
	}
	if err := o.call(growarray.OpCopyAssign); err != nil {
		return err
	}
	o.checkLive(growarray.OpCopyAssign, dst)
	dst.Value = src.Value
	return nil
}

func (o *TrackedOps) MoveAssign(dst, src *Element) error {
	if err := o.call(growarray.OpMoveAssign); err != nil {
		return err
	}
	o.checkLive(growarray.OpMoveAssign, dst)
	if dst != src {
		dst.Value = src.Value
		src.Value = MovedFromValue
	}
	return nil
}

func (o *TrackedOps) Destroy(p *Element) {
	if _, ok := o.live[p.id]; !ok {
		o.violate(fmt.Errorf("destroy of element %d that is not live", p.id))
		return
	}
	delete(o.live, p.id)
	o.destroyed++
}

func (o *TrackedOps) call(op growarray.ElementOp) error {
	o.calls[op]++
	if n, ok := o.failAt[op]; ok && n == o.calls[op] {
		delete(o.failAt, op)
		return ErrInjected
	}
	return nil
}

func (o *TrackedOps) born(e *Element) {
	o.nextID++
	e.id = o.nextID
	o.live[e.id] = struct{}{}
}

func (o *TrackedOps) checkRaw(op growarray.ElementOp, e *Element) {
	if e.id != 0 {
		o.violate(fmt.Errorf("%s into slot holding live element %d", op, e.id))
	}
}

func (o *TrackedOps) checkLive(op growarray.ElementOp, e *Element) {
	if _, ok := o.live[e.id]; !ok {
		o.violate(fmt.Errorf("%s into slot without live element", op))
	}
}

func (o *TrackedOps) violate(err error) {
	o.violations = append(o.violations, err)
}
