// Copyright 2025-2026 The CortexN Authors. SPDX-License-Identifier: Apache-2.0

// Package reflex is an on-device spiking-neural-network (SNN) inference
// engine. It converts streaming sensor samples into gesture classifications
// in well under a millisecond per step, using hardware-adaptive vectorized
// kernels.
//
// The engine is organized leaf-first:
//
//   - cpu: probes the processor once per process for vector/matrix
//     instruction extensions.
//   - kernels: the dense-layer forward kernels (scalar reference, wide-SIMD
//     float32, quantized INT8, and a scalable-matrix tile variant), selected
//     at layer creation from the probed capabilities.
//   - snn: the Leaky Integrate-and-Fire neuron layer and the handle-based
//     layer manager that owns weights, bias and membrane state.
//   - bench: synthetic-data throughput comparison across kernel variants.
//
// Importing the module has no side effects. The embedding application calls
// Init once during startup to wire process-wide concerns (currently the klog
// command-line flags); everything else is explicit.
package reflex

import (
	"sync"

	"k8s.io/klog/v2"
)

var initOnce sync.Once

// Init performs process-wide initialization. It is safe to call more than
// once; only the first call has any effect. It must be called before flag
// parsing if the embedding application wants the klog flags available.
func Init() {
	initOnce.Do(func() {
		klog.InitFlags(nil)
	})
}
