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
	"strings"
	"unsafe"

	"github.com/fxamacker/circlehash"
)

type ArrayStats struct {
	Size        uint64
	Capacity    uint64
	ElementSize uint64
}

// RawSlotCount returns number of allocated slots without a live element.
func (s *ArrayStats) RawSlotCount() uint64 {
	return s.Capacity - s.Size
}

// AllocatedBytes returns size of the raw allocation in bytes.
func (s *ArrayStats) AllocatedBytes() uint64 {
	return s.Capacity * s.ElementSize
}

// GetArrayStats returns stats about array storage.
func GetArrayStats[T any](a *Array[T]) ArrayStats {
	var zero T
	return ArrayStats{
		Size:        uint64(a.size),
		Capacity:    uint64(a.data.Capacity()),
		ElementSize: uint64(unsafe.Sizeof(zero)),
	}
}

// DumpArray returns one line per slot, live elements first.
func DumpArray[T any](a *Array[T]) []string {
	dumps := make([]string, 0, a.data.Capacity()+1)

	dumps = append(dumps, fmt.Sprintf("size %d, capacity %d", a.size, a.data.Capacity()))

	for i := 0; i < a.data.Capacity(); i++ {
		if i < a.size {
			dumps = append(dumps, fmt.Sprintf("[%d] %v", i, *a.data.Slot(i)))
		} else {
			dumps = append(dumps, fmt.Sprintf("[%d] raw", i))
		}
	}

	return dumps
}

// PrintArray prints array storage layout to stdout.
func PrintArray[T any](a *Array[T]) {
	for _, s := range DumpArray(a) {
		fmt.Println(s)
	}
}

func (a *Array[T]) String() string {
	var sb strings.Builder
	sb.WriteString("[")
	for i, e := range a.Slice() {
		if i > 0 {
			sb.WriteString(" ")
		}
		sb.WriteString(fmt.Sprint(e))
	}
	sb.WriteString("]")
	return sb.String()
}

// AppendFunc appends an encoding of element e to dst.
type AppendFunc[T any] func(dst []byte, e *T) []byte

// Checksum returns circlehash64 digest of live elements encoded with
// appendElement. Arrays with equal elements in equal order have equal
// checksums regardless of capacity.
func Checksum[T any](a *Array[T], appendElement AppendFunc[T], seed uint64) uint64 {
	return ChecksumElements(a.Slice(), appendElement, seed)
}

// ChecksumElements returns the same digest as Checksum for a plain
// sequence of elements.
func ChecksumElements[T any](elements []T, appendElement AppendFunc[T], seed uint64) uint64 {
	var buf []byte
	for i := range elements {
		buf = appendElement(buf, &elements[i])
	}
	return circlehash.Hash64(buf, seed)
}
