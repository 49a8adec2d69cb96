// Copyright 2025-2026 The CortexN Authors. SPDX-License-Identifier: Apache-2.0

//go:build amd64

package cpu

import "golang.org/x/sys/cpu"

// probe fills in the amd64 capability flags. Each feature is probed
// individually; AVX-512 or AMX are never assumed from AVX2 alone.
func probe() Features {
	var f Features

	// AVX2 + FMA is the common fast path on x86-64 (Haswell and later).
	f.WideSIMD = cpu.X86.HasAVX2 && cpu.X86.HasFMA

	// AVX-512 VNNI -- int8 dot products with int32 accumulation
	// (Cascade Lake and later servers, select client parts).
	f.Int8Matrix = cpu.X86.HasAVX512VNNI

	// Intel AMX int8 tiles (Sapphire Rapids and later).
	f.ScalableMatrix = cpu.X86.HasAMXTile && cpu.X86.HasAMXInt8

	return f
}
