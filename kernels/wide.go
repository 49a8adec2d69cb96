// Copyright 2025-2026 The CortexN Authors. SPDX-License-Identifier: Apache-2.0

package kernels

// wideLanes is the logical vector width of the wide-SIMD kernel: four
// float32 lanes, one 128-bit register (NEON q-register, SSE/AVX lane).
const wideLanes = 4

// forwardWide is the wide-SIMD float32 kernel. The inner loop keeps four
// independent accumulators so the compiler can map them onto packed
// multiply-accumulate; the tail (inputSize not a multiple of the lane count)
// is summed with scalar arithmetic appended to the partial sums, so the
// mathematical result is the same for any tail length.
func forwardWide(input, weights, bias, output []float32, batchSize, inputSize, outputSize int) {
	for b := 0; b < batchSize; b++ {
		in := input[b*inputSize : (b+1)*inputSize]
		out := output[b*outputSize : (b+1)*outputSize]
		for o := 0; o < outputSize; o++ {
			w := weights[o*inputSize : (o+1)*inputSize]

			var acc0, acc1, acc2, acc3 float32
			i := 0
			for ; i+wideLanes <= inputSize; i += wideLanes {
				acc0 += w[i] * in[i]
				acc1 += w[i+1] * in[i+1]
				acc2 += w[i+2] * in[i+2]
				acc3 += w[i+3] * in[i+3]
			}

			// Horizontal reduction, then the scalar tail.
			sum := bias[o] + ((acc0 + acc1) + (acc2 + acc3))
			for ; i < inputSize; i++ {
				sum += w[i] * in[i]
			}
			out[o] = sum
		}
	}
}
