// Copyright 2025-2026 The CortexN Authors. SPDX-License-Identifier: Apache-2.0

package snn

import "github.com/pkg/errors"

// Config declares the shape and neuron dynamics of one LIF layer. It is
// immutable once the layer is created; changing it means creating a new
// layer.
type Config struct {
	// InputSize and OutputSize are the dense layer dimensions. Both must
	// be > 0.
	InputSize  int
	OutputSize int

	// TauMem is the membrane time constant; the per-step leak factor is
	// exp(-Dt/TauMem). Must be > 0.
	TauMem float32

	// VThresh is the firing threshold. Must be > 0.
	VThresh float32

	// Dt is the duration of one discrete step (one Forward call). Zero
	// selects the default of 1.
	Dt float32

	// VReset is the membrane potential a neuron is set to after firing,
	// and VRest the potential Reset returns all neurons to. Both default
	// to 0, which is the standard hard-reset LIF.
	VReset float32
	VRest  float32

	// Quantized requests int8 execution: weights are quantized per tensor
	// at load time and the forward pass runs through the int8 kernel when
	// the hardware accelerates it, or a dequantize-to-float fallback when
	// it does not.
	Quantized bool

	// ZeroWeights skips the pseudo-random weight initialization and
	// starts from all-zero weights, for callers that always load
	// pretrained tensors.
	ZeroWeights bool

	// Seed drives the pseudo-random weight initialization so devices can
	// reproduce each other's starting point. Zero selects a fixed
	// default.
	Seed uint64
}

const defaultDt = 1.0

// withDefaults returns the config with zero optional fields replaced by
// their defaults.
func (c Config) withDefaults() Config {
	if c.Dt == 0 {
		c.Dt = defaultDt
	}
	return c
}

func (c Config) validate() error {
	if c.InputSize <= 0 || c.OutputSize <= 0 {
		return errors.WithMessagef(ErrConfig, "dimensions %dx%d", c.InputSize, c.OutputSize)
	}
	if !(c.TauMem > 0) {
		return errors.WithMessagef(ErrConfig, "tau_mem=%v, must be > 0", c.TauMem)
	}
	if !(c.VThresh > 0) {
		return errors.WithMessagef(ErrConfig, "v_thresh=%v, must be > 0", c.VThresh)
	}
	if !(c.Dt > 0) {
		return errors.WithMessagef(ErrConfig, "dt=%v, must be > 0", c.Dt)
	}
	return nil
}
