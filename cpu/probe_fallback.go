// Copyright 2025-2026 The CortexN Authors. SPDX-License-Identifier: Apache-2.0

//go:build !arm64 && !amd64

package cpu

// probe on architectures without a dedicated probe reports the baseline:
// everything runs on the scalar kernels.
func probe() Features {
	return Features{}
}
