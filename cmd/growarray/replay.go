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
)

func newReplayCmd(root *rootConfiguration) *cobra.Command {
	return &cobra.Command{
		Use:   "replay <trace-file>",
		Short: "Re-run an operation trace written by stress",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(root, args[0])
		},
	}
}

func runReplay(root *rootConfiguration, path string) error {
	t, err := readTrace(path)
	if err != nil {
		return err
	}

	exec, err := newExecutor(t.Traits)
	if err != nil {
		return err
	}

	log := root.log.With().Str("trace", path).Str("traits", t.Traits).Logger()

	log.Info().
		Str("seed", fmt.Sprintf("0x%x", t.Seed)).
		Int("ops", len(t.Ops)).
		Msg("replaying trace")

	failures := 0

	for i, op := range t.Ops {
		failed, err := exec.apply(op)
		if err == nil {
			err = exec.check()
		}
		if err != nil {
			log.Error().Err(err).Int("index", i).Stringer("op", op).Msg("array diverged from reference")
			return fmt.Errorf("operation %d (%s): %w", i, op, err)
		}

		if failed {
			failures++
		}

		log.Debug().
			Int("index", i).
			Stringer("op", op).
			Bool("failed", failed).
			Int("size", exec.array.Size()).
			Int("capacity", exec.array.Capacity()).
			Msg("applied")
	}

	err = exec.release()
	if err != nil {
		return err
	}

	fmt.Fprintf(root.out, "replayed %d operations, %d failed by injection\n", len(t.Ops), failures)
	return nil
}
