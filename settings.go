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

import "math"

var (
	// Default allocation limit is whatever the runtime accepts.
	defaultMaxAllocationSize = uint64(math.MaxInt)

	maxAllocationSize = defaultMaxAllocationSize
)

// SetMaxAllocationSize sets the largest raw allocation, in bytes, that
// NewRawStorage will request, and returns the previous limit.
// Requests above the limit fail with AllocationError.
// Passing 0 restores the default limit.
func SetMaxAllocationSize(size uint64) uint64 {
	old := maxAllocationSize
	if size == 0 {
		size = defaultMaxAllocationSize
	}
	maxAllocationSize = size
	return old
}

// MaxAllocationSize returns the current raw allocation limit in bytes.
func MaxAllocationSize() uint64 {
	return maxAllocationSize
}
