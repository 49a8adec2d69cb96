// Copyright 2025-2026 The CortexN Authors. SPDX-License-Identifier: Apache-2.0

//go:build arm64

package cpu

import "golang.org/x/sys/cpu"

// probe fills in the arm64 capability flags.
func probe() Features {
	var f Features

	// NEON (ASIMD) is mandatory on ARMv8-A, every arm64 CPU has it.
	f.WideSIMD = true

	// I8MM -- int8 matrix multiply (SMMLA/UMMLA, SDOT), ARMv8.6-A.
	// Present on recent big cores (Cortex-X2+, Apple M-series).
	f.Int8Matrix = cpu.ARM64.HasI8MM

	// SME -- Scalable Matrix Extension with ZA tile storage, ARMv9-A.
	f.ScalableMatrix = cpu.ARM64.HasSME

	return f
}
