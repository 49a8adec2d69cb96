// Copyright 2025-2026 The CortexN Authors. SPDX-License-Identifier: Apache-2.0

package kernels

import "github.com/gomlx/exceptions"

// ForwardInt8 is the quantized dense forward kernel. Operands are int8 with
// an int32 bias; products are accumulated in int32 to avoid overflow, the
// integer sum is scaled by scale, and the result saturates (clamps, never
// wraps) to the signed 8-bit range before being stored.
//
// The inner loop is blocked by int8Lanes with independent accumulators,
// mirroring the SDOT/VNNI register layout; the tail is accumulated with
// scalar arithmetic, so the integer sum is exact for any tail length.
func ForwardInt8(input, weights []int8, bias []int32, output []int8, batchSize, inputSize, outputSize int, scale float32) {
	checkDims(len(input), len(weights), len(bias), len(output), batchSize, inputSize, outputSize)

	for b := 0; b < batchSize; b++ {
		in := input[b*inputSize : (b+1)*inputSize]
		out := output[b*outputSize : (b+1)*outputSize]
		for o := 0; o < outputSize; o++ {
			w := weights[o*inputSize : (o+1)*inputSize]

			var acc0, acc1, acc2, acc3 int32
			i := 0
			for ; i+int8Lanes <= inputSize; i += int8Lanes {
				acc0 += dot4(w[i:], in[i:])
				acc1 += dot4(w[i+4:], in[i+4:])
				acc2 += dot4(w[i+8:], in[i+8:])
				acc3 += dot4(w[i+12:], in[i+12:])
			}

			sum := bias[o] + ((acc0 + acc1) + (acc2 + acc3))
			for ; i < inputSize; i++ {
				sum += int32(w[i]) * int32(in[i])
			}

			// Clamp in float space: the scaled sum can exceed any
			// integer range, and out-of-range float-to-int
			// conversion is implementation-defined in Go.
			out[o] = int8(clamp(float32(sum)*scale, -128, 127))
		}
	}
}

// int8Lanes is the logical vector width of the int8 kernel: sixteen bytes,
// one 128-bit register, matching SDOT's native operand width.
const int8Lanes = 16

// dot4 is one 4-way int8 dot product widened to int32, the unit SDOT/VNNI
// compute per 32-bit accumulator lane.
func dot4(w, x []int8) int32 {
	return int32(w[0])*int32(x[0]) + int32(w[1])*int32(x[1]) +
		int32(w[2])*int32(x[2]) + int32(w[3])*int32(x[3])
}

// QuantizeScale derives the per-tensor scale factor mapping values into the
// int8 range: maxAbs/127, or 1 for an all-zero tensor so that quantizing and
// dequantizing it stays well-defined.
func QuantizeScale(values []float32) float32 {
	var maxAbs float32
	for _, v := range values {
		if v < 0 {
			v = -v
		}
		if v > maxAbs {
			maxAbs = v
		}
	}
	if maxAbs == 0 {
		return 1
	}
	return maxAbs / 127
}

// Quantize packs values into out as round(v/scale), saturated to int8.
// Invariant: dequantized ≈ quantized * scale within rounding error.
func Quantize(values []float32, scale float32, out []int8) {
	if len(values) != len(out) {
		exceptions.Panicf("kernels.Quantize: %d values into %d outputs", len(values), len(out))
	}
	if scale == 0 {
		exceptions.Panicf("kernels.Quantize: zero scale")
	}
	for i, v := range values {
		q := v / scale
		if q >= 0 {
			q += 0.5
		} else {
			q -= 0.5
		}
		out[i] = int8(clamp(q, -128, 127))
	}
}

// Dequantize expands quantized values back to float32 as q*scale.
func Dequantize(quantized []int8, scale float32, out []float32) {
	if len(quantized) != len(out) {
		exceptions.Panicf("kernels.Dequantize: %d values into %d outputs", len(quantized), len(out))
	}
	for i, q := range quantized {
		out[i] = float32(q) * scale
	}
}
