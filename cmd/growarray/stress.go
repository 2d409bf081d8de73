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
	"context"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

type stressConfiguration struct {
	root *rootConfiguration

	Traits         string
	Seed           string
	Ops            uint64
	MaxLength      int
	FailRate       float64
	VerifyInterval uint64
	StatusInterval time.Duration
	TraceFile      string
}

func newStressCmd(root *rootConfiguration) *cobra.Command {
	config := &stressConfiguration{root: root}

	cmd := &cobra.Command{
		Use:   "stress",
		Short: "Run random array operations with injected element failures",
		Long: `Runs random operations against an array of tracked elements and a reference slice.
Element operations fail at random; the array must either keep its contents or
leave them in the documented partial state, and never leak or double-destroy
elements.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStress(cmd.Context(), config)
		},
	}

	cmd.Flags().StringVar(&config.Traits, "traits", traitsCopyOnly, "element traits: copy-only, nothrow-move or move-only")
	cmd.Flags().StringVar(&config.Seed, "seed", "", "seed for prng in hex (default is Unix time)")
	cmd.Flags().Uint64Var(&config.Ops, "ops", 100_000, "number of operations")
	cmd.Flags().IntVar(&config.MaxLength, "max-length", 10_000, "max number of elements")
	cmd.Flags().Float64Var(&config.FailRate, "fail-rate", 0.2, "probability of injecting an element failure into an operation")
	cmd.Flags().Uint64Var(&config.VerifyInterval, "verify-interval", 100, "verify array every n operations")
	cmd.Flags().DurationVar(&config.StatusInterval, "status-interval", 3*time.Second, "status log interval")
	cmd.Flags().StringVar(&config.TraceFile, "trace-file", "", "write operation trace to file, for use with replay")

	return cmd
}

func (c *stressConfiguration) validate() error {
	if c.Ops == 0 {
		return fmt.Errorf("ops must be positive")
	}
	if c.MaxLength <= 0 {
		return fmt.Errorf("max-length must be positive")
	}
	if c.FailRate < 0 || c.FailRate > 1 {
		return fmt.Errorf("fail-rate %v out of range [0, 1]", c.FailRate)
	}
	if c.VerifyInterval == 0 {
		return fmt.Errorf("verify-interval must be positive")
	}
	if c.StatusInterval <= 0 {
		return fmt.Errorf("status-interval must be positive")
	}
	return nil
}

func parseSeed(seedHex string) (int64, error) {
	if len(seedHex) == 0 {
		return time.Now().UnixNano(), nil
	}
	seed, err := strconv.ParseInt(strings.TrimPrefix(seedHex, "0x"), 16, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse seed %q (hex string): %w", seedHex, err)
	}
	return seed, nil
}

type stressStatus struct {
	lock sync.RWMutex

	startTime time.Time

	size     int
	capacity int

	opCounts [maxOpKind]uint64
	failures uint64
}

func newStressStatus() *stressStatus {
	return &stressStatus{startTime: time.Now()}
}

func (status *stressStatus) record(kind uint8, failed bool, size, capacity int) {
	status.lock.Lock()
	defer status.lock.Unlock()

	status.opCounts[kind]++
	if failed {
		status.failures++
	}
	status.size = size
	status.capacity = capacity
}

func (status *stressStatus) write(log zerolog.Logger) {
	status.lock.RLock()
	defer status.lock.RUnlock()

	e := log.Info().
		Str("duration", time.Since(status.startTime).Truncate(time.Second).String()).
		Int("size", status.size).
		Int("capacity", status.capacity).
		Uint64("failures", status.failures)
	for kind, count := range status.opCounts {
		e = e.Uint64(opKindNames[kind], count)
	}
	e.Msg("status")
}

func (status *stressStatus) update(ctx context.Context, log zerolog.Logger, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			status.write(log)
		case <-ctx.Done():
			return
		}
	}
}

// nextOp returns a random operation valid for the current array.
func nextOp(r *rand.Rand, e *executor, maxLength int, failRate float64) traceOp {
	size := e.array.Size()

	op := traceOp{
		Kind:  uint8(r.Intn(int(maxOpKind))),
		Value: r.Intn(1_000_000),
	}

	if size >= maxLength {
		op.Kind = opErase
	}

	switch op.Kind {
	case opInsert:
		op.Arg = r.Intn(size + 1)

	case opErase, opSet:
		if size == 0 {
			op.Kind = opPushBack
			break
		}
		op.Arg = r.Intn(size)

	case opPopBack:
		if size == 0 {
			op.Kind = opPushBack
		}

	case opResize:
		op.Arg = r.Intn(min(size*2+2, maxLength+1))

	case opReserve:
		op.Arg = r.Intn(min(e.array.Capacity()*2+2, maxLength*2+1))
	}

	if r.Float64() < failRate {
		op.FailOp = e.failOps[r.Intn(len(e.failOps))]
		op.FailAt = 1 + r.Intn(4)
	}

	return op
}

func runStress(ctx context.Context, config *stressConfiguration) error {
	if err := config.validate(); err != nil {
		return err
	}

	seed, err := parseSeed(config.Seed)
	if err != nil {
		return err
	}

	exec, err := newExecutor(config.Traits)
	if err != nil {
		return err
	}

	log := config.root.log.With().Str("traits", config.Traits).Logger()

	log.Info().
		Str("seed", fmt.Sprintf("0x%x", seed)).
		Uint64("ops", config.Ops).
		Int("maxLength", config.MaxLength).
		Float64("failRate", config.FailRate).
		Msg("starting stress test")

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	status := newStressStatus()

	statusCtx, cancelStatus := context.WithCancel(ctx)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		status.update(statusCtx, log, config.StatusInterval)
	}()

	stopStatus := func() {
		cancelStatus()
		wg.Wait()
	}
	defer stopStatus()

	r := rand.New(rand.NewSource(seed))

	t := &trace{Seed: seed, Traits: config.Traits}

	for i := uint64(0); i < config.Ops && ctx.Err() == nil; i++ {
		op := nextOp(r, exec, config.MaxLength, config.FailRate)
		t.Ops = append(t.Ops, op)

		failed, err := exec.apply(op)
		if err == nil && (i+1)%config.VerifyInterval == 0 {
			err = exec.check()
		}
		if err != nil {
			stopStatus()
			log.Error().Err(err).Uint64("index", i).Stringer("op", op).Msg("array diverged from reference")
			config.writeTrace(log, t)
			return err
		}

		status.record(op.Kind, failed, exec.array.Size(), exec.array.Capacity())

		log.Trace().Uint64("index", i).Stringer("op", op).Bool("failed", failed).Msg("applied")
	}

	stopStatus()

	if ctx.Err() != nil {
		log.Warn().Int("ops", len(t.Ops)).Msg("interrupted")
	}

	err = exec.check()
	if err == nil {
		err = exec.release()
	}
	if err != nil {
		log.Error().Err(err).Msg("array diverged from reference")
		config.writeTrace(log, t)
		return err
	}

	status.write(log)
	config.writeTrace(log, t)

	log.Info().Int("ops", len(t.Ops)).Msg("stress test passed")
	return nil
}

func (c *stressConfiguration) writeTrace(log zerolog.Logger, t *trace) {
	if c.TraceFile == "" {
		return
	}
	err := writeTrace(c.TraceFile, t)
	if err != nil {
		log.Error().Err(err).Str("file", c.TraceFile).Msg("failed to write trace")
		return
	}
	log.Info().Str("file", c.TraceFile).Int("ops", len(t.Ops)).Msg("trace written")
}
