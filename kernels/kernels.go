// Copyright 2025-2026 The CortexN Authors. SPDX-License-Identifier: Apache-2.0

// Package kernels implements the dense-layer forward kernels:
//
//	output[b,o] = bias[o] + Σ_i weights[o,i] * input[b,i]
//
// for batchSize independent samples, with weights laid out row-major as
// [outputSize, inputSize]. Variants are tuned per instruction set and
// selected at runtime from the probed cpu.Features; all float variants agree
// with the scalar reference up to order-of-summation rounding.
//
// Kernels never allocate, never acquire locks and never fail at runtime for
// well-formed inputs. Buffer sizing is the caller's responsibility: the
// dispatching entry points verify it and treat a mismatch as a programming
// defect (panic via exceptions), not a recoverable error.
package kernels

import (
	"github.com/gomlx/exceptions"
	"golang.org/x/exp/constraints"

	"github.com/cortexn/reflex/cpu"
)

// Kind enumerates the kernel variants.
type Kind int

//go:generate go tool enumer -type=Kind -trimprefix=Kind -transform=kebab -output=gen_kind_enumer.go kernels.go

const (
	// KindScalar is the portable reference implementation.
	KindScalar Kind = iota

	// KindWideSIMDF32 is the lane-blocked float32 kernel shaped for the
	// 128-bit vector units (NEON, AVX2).
	KindWideSIMDF32

	// KindInt8Matrix is the quantized kernel: int8 operands, int32
	// accumulation, saturating int8 output. It has its own entry point,
	// ForwardInt8, because its buffer types differ.
	KindInt8Matrix

	// KindScalableMatrix is the matrix-tile kernel (SME/AMX class
	// hardware). Its numeric contract is identical to KindWideSIMDF32 and
	// the current implementation forwards to it; a real tile
	// implementation may replace the internals but must not change the
	// output semantics.
	KindScalableMatrix
)

// Preferred returns the highest-capability kernel the hardware supports,
// following the total order scalable-matrix > int8-matrix > wide-simd-f32 >
// scalar. The int8 kernel is only ever preferred when the caller requests
// quantized execution; capability merely gates whether the accelerated int8
// path or a dequantize-to-float fallback serves that request.
func Preferred(f cpu.Features, quantized bool) Kind {
	switch {
	case f.ScalableMatrix:
		return KindScalableMatrix
	case quantized && f.Int8Matrix:
		return KindInt8Matrix
	case f.WideSIMD:
		return KindWideSIMDF32
	default:
		return KindScalar
	}
}

// FloatKinds lists the kernel variants that share the float32 Forward entry
// point, in preference order.
var FloatKinds = []Kind{KindScalableMatrix, KindWideSIMDF32, KindScalar}

// Forward dispatches one dense forward pass to the float32 kernel variant
// identified by kind. The output buffer is fully overwritten, never
// accumulated into. inputSize == 0 writes output[b,o] = bias[o].
//
// Mis-sized buffers and KindInt8Matrix (which needs ForwardInt8) are
// contract violations and panic.
func Forward(kind Kind, input, weights, bias, output []float32, batchSize, inputSize, outputSize int) {
	checkDims(len(input), len(weights), len(bias), len(output), batchSize, inputSize, outputSize)
	switch kind {
	case KindScalar:
		forwardScalar(input, weights, bias, output, batchSize, inputSize, outputSize)
	case KindWideSIMDF32:
		forwardWide(input, weights, bias, output, batchSize, inputSize, outputSize)
	case KindScalableMatrix:
		forwardTile(input, weights, bias, output, batchSize, inputSize, outputSize)
	case KindInt8Matrix:
		exceptions.Panicf("kernels.Forward: %s takes int8 buffers, use ForwardInt8", kind)
	default:
		exceptions.Panicf("kernels.Forward: unknown kernel kind %d", kind)
	}
}

func checkDims(inputLen, weightsLen, biasLen, outputLen, batchSize, inputSize, outputSize int) {
	if batchSize < 0 || inputSize < 0 || outputSize < 0 {
		exceptions.Panicf("kernels: negative dimensions batch=%d input=%d output=%d",
			batchSize, inputSize, outputSize)
	}
	if inputLen != batchSize*inputSize {
		exceptions.Panicf("kernels: input buffer has %d elements, want batchSize*inputSize=%d",
			inputLen, batchSize*inputSize)
	}
	if weightsLen != outputSize*inputSize {
		exceptions.Panicf("kernels: weight buffer has %d elements, want outputSize*inputSize=%d",
			weightsLen, outputSize*inputSize)
	}
	if biasLen != outputSize {
		exceptions.Panicf("kernels: bias buffer has %d elements, want outputSize=%d",
			biasLen, outputSize)
	}
	if outputLen != batchSize*outputSize {
		exceptions.Panicf("kernels: output buffer has %d elements, want batchSize*outputSize=%d",
			outputLen, batchSize*outputSize)
	}
}

// clamp bounds v to [lo, hi].
func clamp[T constraints.Ordered](v, lo, hi T) T {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
