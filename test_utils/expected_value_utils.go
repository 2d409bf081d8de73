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
	"encoding/binary"

	"github.com/onflow/growarray"
)

// Values returns element values of a in index order.
func Values(a *growarray.Array[Element]) []int {
	values := make([]int, 0, a.Size())
	for _, e := range a.All() {
		values = append(values, e.Value)
	}
	return values
}

// NewArrayFromValues returns an array holding given values, constructed
// through ops. Capacity equals len(values).
func NewArrayFromValues(ops *TrackedOps, values ...int) (*growarray.Array[Element], error) {
	a, err := growarray.NewSized[Element](len(values), ops)
	if err != nil {
		return nil, err
	}
	for i, v := range values {
		a.At(i).Value = v
	}
	return a, nil
}

// AppendElement appends big-endian encoding of e's value to dst.
func AppendElement(dst []byte, e *Element) []byte {
	return AppendInt(dst, &e.Value)
}

// AppendInt appends big-endian encoding of v to dst.
func AppendInt(dst []byte, v *int) []byte {
	return binary.BigEndian.AppendUint64(dst, uint64(*v))
}

// ChecksumValues returns the checksum an array holding values would have.
func ChecksumValues(values []int, seed uint64) uint64 {
	return growarray.ChecksumElements(values, AppendInt, seed)
}
