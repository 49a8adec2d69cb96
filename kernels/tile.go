// Copyright 2025-2026 The CortexN Authors. SPDX-License-Identifier: Apache-2.0

package kernels

// forwardTile is the scalable-matrix (SME/AMX class) kernel.
//
// It is specified at the interface level only: its numeric contract is
// identical to the wide-SIMD kernel, and it currently forwards to it. A tile
// implementation (outer products accumulated in ZA/tile storage) can replace
// the internals without changing the public contract, and must not change
// the output semantics when it does.
func forwardTile(input, weights, bias, output []float32, batchSize, inputSize, outputSize int) {
	forwardWide(input, weights, bias, output, batchSize, inputSize, outputSize)
}
