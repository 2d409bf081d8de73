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
	"fmt"

	"github.com/spf13/cobra"

	"github.com/onflow/growarray"
)

func newDemoCmd(root *rootConfiguration) *cobra.Command {
	var count int

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Run a short array scenario and print its storage",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDemo(root, count)
		},
	}

	cmd.Flags().IntVar(&count, "count", 20, "number of elements to push back after the scenario")

	return cmd
}

func runDemo(root *rootConfiguration, count int) error {
	out := root.out

	a := growarray.New[int](nil)
	defer a.Release()

	for _, v := range []int{1, 2, 3} {
		_, err := a.PushBack(v)
		if err != nil {
			return err
		}
	}
	fmt.Fprintf(out, "push back 1 2 3: %s\n", a)

	_, err := a.Erase(a.Begin() + 1)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "erase second: %s\n", a)

	_, err = a.Insert(a.Begin(), 0)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "insert 0 at begin: %s\n", a)

	capacity := a.Capacity()

	for i := 0; i < count; i++ {
		_, err := a.PushBack(i + 10)
		if err != nil {
			return err
		}

		if a.Capacity() != capacity {
			root.log.Debug().
				Int("size", a.Size()).
				Int("from", capacity).
				Int("to", a.Capacity()).
				Msg("capacity grown")
			capacity = a.Capacity()
		}
	}

	for _, line := range growarray.DumpArray(a) {
		fmt.Fprintln(out, line)
	}

	stats := growarray.GetArrayStats(a)
	fmt.Fprintf(out, "%d raw slots, %d bytes allocated\n", stats.RawSlotCount(), stats.AllocatedBytes())

	return nil
}
