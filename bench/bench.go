// Copyright 2025-2026 The CortexN Authors. SPDX-License-Identifier: Apache-2.0

// Package bench exercises the kernel variants with synthetic data and
// reports comparative throughput. It operates on transient buffers only and
// never touches a live layer's state, so it is safe to run at any time, even
// concurrently with inference.
package bench

import (
	"math/rand/v2"
	"time"

	"github.com/pkg/errors"

	"github.com/cortexn/reflex/cpu"
	"github.com/cortexn/reflex/kernels"
)

// Result is one kernel variant's measurement.
type Result struct {
	Kind       kernels.Kind
	Iterations int
	PerOp      time.Duration

	// MFlops counts 2*batch*in*out floating (or integer) operations per
	// forward pass, in millions per second.
	MFlops float64

	// Supported reports whether the probed hardware would actually select
	// this variant; unsupported variants still run (they are all portable
	// Go) so the comparison stays complete.
	Supported bool
}

// Options tunes a benchmark run. The zero value uses the defaults.
type Options struct {
	// MinTime is the minimum wall time to spend per kernel variant
	// (default 50ms).
	MinTime time.Duration

	// Seed for the synthetic tensors (default fixed).
	Seed uint64

	// Progress, when set, is called with each kernel variant right before
	// it is measured. UIs hang progress reporting off it.
	Progress func(kind kernels.Kind)
}

const defaultMinTime = 50 * time.Millisecond

// Run benchmarks every kernel variant on pseudo-random weights and inputs of
// the given shape and returns one Result per variant, float kernels first,
// then the quantized kernel.
func Run(batchSize, inputSize, outputSize int, opts Options) ([]Result, error) {
	if batchSize <= 0 || inputSize <= 0 || outputSize <= 0 {
		return nil, errors.Errorf("bench: invalid shape batch=%d input=%d output=%d",
			batchSize, inputSize, outputSize)
	}
	if opts.MinTime <= 0 {
		opts.MinTime = defaultMinTime
	}
	if opts.Seed == 0 {
		opts.Seed = 1
	}

	feats := cpu.Detect()
	rng := rand.New(rand.NewPCG(opts.Seed, 0))

	input := make([]float32, batchSize*inputSize)
	weights := make([]float32, outputSize*inputSize)
	bias := make([]float32, outputSize)
	output := make([]float32, batchSize*outputSize)
	for i := range input {
		input[i] = rng.Float32()*2 - 1
	}
	for i := range weights {
		weights[i] = rng.Float32()*2 - 1
	}
	for i := range bias {
		bias[i] = rng.Float32()*2 - 1
	}

	flopsPerPass := 2 * float64(batchSize) * float64(inputSize) * float64(outputSize)

	results := make([]Result, 0, len(kernels.FloatKinds)+1)
	for _, kind := range []kernels.Kind{kernels.KindScalar, kernels.KindWideSIMDF32, kernels.KindScalableMatrix} {
		if opts.Progress != nil {
			opts.Progress(kind)
		}
		iters, perOp := measure(opts.MinTime, func() {
			kernels.Forward(kind, input, weights, bias, output, batchSize, inputSize, outputSize)
		})
		results = append(results, Result{
			Kind:       kind,
			Iterations: iters,
			PerOp:      perOp,
			MFlops:     flopsPerPass / perOp.Seconds() / 1e6,
			Supported:  kind == kernels.Preferred(feats, false) || kind == kernels.KindScalar,
		})
	}

	// Quantized variant on the same synthetic tensors.
	qin := make([]int8, len(input))
	qw := make([]int8, len(weights))
	qbias := make([]int32, len(bias))
	qout := make([]int8, len(output))
	inScale := kernels.QuantizeScale(input)
	wScale := kernels.QuantizeScale(weights)
	kernels.Quantize(input, inScale, qin)
	kernels.Quantize(weights, wScale, qw)

	if opts.Progress != nil {
		opts.Progress(kernels.KindInt8Matrix)
	}
	iters, perOp := measure(opts.MinTime, func() {
		kernels.ForwardInt8(qin, qw, qbias, qout, batchSize, inputSize, outputSize, inScale*wScale)
	})
	results = append(results, Result{
		Kind:       kernels.KindInt8Matrix,
		Iterations: iters,
		PerOp:      perOp,
		MFlops:     flopsPerPass / perOp.Seconds() / 1e6,
		Supported:  feats.Int8Matrix,
	})

	return results, nil
}

// measure runs fn in growing batches until minTime of wall clock is spent,
// the shape testing.B uses, without requiring a *testing.B.
func measure(minTime time.Duration, fn func()) (iterations int, perOp time.Duration) {
	// Warm up and establish a per-op estimate.
	fn()
	n := 1
	var total time.Duration
	for total < minTime {
		start := time.Now()
		for i := 0; i < n; i++ {
			fn()
		}
		total += time.Since(start)
		iterations += n
		if n < 1<<20 {
			n *= 2
		}
	}
	return iterations, total / time.Duration(iterations)
}
