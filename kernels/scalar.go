// Copyright 2025-2026 The CortexN Authors. SPDX-License-Identifier: Apache-2.0

package kernels

// forwardScalar is the portable reference kernel. Every other float variant
// must agree with it up to order-of-summation rounding; the property tests
// compare against it.
func forwardScalar(input, weights, bias, output []float32, batchSize, inputSize, outputSize int) {
	for b := 0; b < batchSize; b++ {
		in := input[b*inputSize : (b+1)*inputSize]
		out := output[b*outputSize : (b+1)*outputSize]
		for o := 0; o < outputSize; o++ {
			w := weights[o*inputSize : (o+1)*inputSize]
			sum := bias[o]
			for i := 0; i < inputSize; i++ {
				sum += w[i] * in[i]
			}
			out[o] = sum
		}
	}
}
