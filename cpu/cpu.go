// Copyright 2025-2026 The CortexN Authors. SPDX-License-Identifier: Apache-2.0

// Package cpu probes the running processor for the vector and matrix
// instruction extensions the kernel library can exploit.
//
// Detection runs once per process and is cached; the snapshot is immutable.
// Unknown or undetectable features are reported as absent, so the worst case
// is falling back to the scalar kernels, never executing an unsupported
// instruction.
package cpu

import (
	"fmt"
	"sync"
)

// Features is the immutable capability snapshot of the running processor.
//
// The zero value is the conservative baseline: scalar-only execution.
type Features struct {
	// WideSIMD reports 128-bit (or wider) packed float32 vector support:
	// NEON on arm64, AVX2 on amd64.
	WideSIMD bool

	// Int8Matrix reports dedicated int8 dot-product/matrix instructions:
	// I8MM on arm64, AVX-512 VNNI on amd64.
	Int8Matrix bool

	// ScalableMatrix reports matrix-tile extensions: SME on arm64,
	// AMX-INT8 tiles on amd64.
	ScalableMatrix bool
}

func (f Features) String() string {
	return fmt.Sprintf("wide-simd=%t int8-matrix=%t scalable-matrix=%t",
		f.WideSIMD, f.Int8Matrix, f.ScalableMatrix)
}

var (
	detectOnce sync.Once
	detected   Features
)

// Detect returns the capability snapshot for the current processor.
//
// It is pure apart from reading OS-reported CPU feature flags, never fails,
// and is safe to call redundantly from any goroutine -- the probe runs once
// and the result is cached for the lifetime of the process.
func Detect() Features {
	detectOnce.Do(func() {
		detected = probe()
	})
	return detected
}
