// Copyright 2025-2026 The CortexN Authors. SPDX-License-Identifier: Apache-2.0

package snn

import (
	"math"
	"math/rand/v2"

	"k8s.io/klog/v2"

	"github.com/cortexn/reflex/kernels"
)

// layer owns everything behind one handle: the weight tensor, bias vector,
// membrane state and the kernel chosen for it. Weight tensor, bias and state
// are allocated together at creation and dropped together at release -- no
// partial teardown.
type layer struct {
	cfg  Config
	kind kernels.Kind

	weights []float32 // [OutputSize, InputSize], row-major
	bias    []float32 // [OutputSize]

	potential []float32 // membrane potential per neuron
	current   []float32 // synaptic input scratch, kernel output
	spikes    []float32 // spike vector, reused across steps

	// betaMem is the precomputed per-step leak factor exp(-Dt/TauMem).
	betaMem float32

	quant *quantState // nil unless cfg.Quantized
}

// quantState carries the int8 execution state. outScale maps the saturated
// int8 output onto [-2*VThresh, 2*VThresh], the operating range of the LIF
// update, so quantization headroom tracks the firing threshold.
type quantState struct {
	accelerated bool // int8 kernel vs. dequantize-to-float fallback

	wScale   float32
	outScale float32

	weights  []int8
	bias     []int32
	dequantW []float32 // weights after the quantize round trip, fallback path

	in  []int8
	out []int8
}

func newLayer(cfg Config, kind kernels.Kind) *layer {
	l := &layer{
		cfg:       cfg,
		kind:      kind,
		weights:   make([]float32, cfg.OutputSize*cfg.InputSize),
		bias:      make([]float32, cfg.OutputSize),
		potential: make([]float32, cfg.OutputSize),
		current:   make([]float32, cfg.OutputSize),
		spikes:    make([]float32, cfg.OutputSize),
		betaMem:   float32(math.Exp(float64(-cfg.Dt / cfg.TauMem))),
	}
	if !cfg.ZeroWeights {
		l.randomizeWeights()
	}
	if cfg.Quantized {
		l.quant = &quantState{
			accelerated: kind == kernels.KindInt8Matrix,
			outScale:    2 * cfg.VThresh / 127,
			weights:     make([]int8, len(l.weights)),
			bias:        make([]int32, cfg.OutputSize),
			dequantW:    make([]float32, len(l.weights)),
			in:          make([]int8, cfg.InputSize),
			out:         make([]int8, cfg.OutputSize),
		}
		l.requantize()
	}
	for i := range l.potential {
		l.potential[i] = cfg.VRest
	}
	klog.V(1).Infof("LIF layer created: %dx%d, tau_mem=%.2f, thresh=%.2f, kernel=%s",
		cfg.InputSize, cfg.OutputSize, cfg.TauMem, cfg.VThresh, kind)
	return l
}

// randomizeWeights initializes the weight tensor uniformly in
// [-1/sqrt(InputSize), 1/sqrt(InputSize)], deterministically per seed so
// peers can reproduce each other's starting point.
func (l *layer) randomizeWeights() {
	seed := l.cfg.Seed
	if seed == 0 {
		seed = 0x5eedc0de
	}
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	limit := float32(1 / math.Sqrt(float64(l.cfg.InputSize)))
	for i := range l.weights {
		l.weights[i] = (rng.Float32()*2 - 1) * limit
	}
}

// setWeights replaces the weight tensor and bias vector. Callers validate
// shapes first; neuron state is deliberately left untouched.
func (l *layer) setWeights(weights, bias []float32) {
	copy(l.weights, weights)
	copy(l.bias, bias)
	if l.quant != nil {
		l.requantize()
	}
	klog.V(1).Infof("weights loaded: %dx%d", l.cfg.OutputSize, l.cfg.InputSize)
}

// requantize derives the per-tensor weight scale and the int8 weight tensor
// from the current float weights. The fallback path uses the dequantized
// round trip of the same tensor so both paths see identical rounding.
func (l *layer) requantize() {
	q := l.quant
	q.wScale = kernels.QuantizeScale(l.weights)
	kernels.Quantize(l.weights, q.wScale, q.weights)
	kernels.Dequantize(q.weights, q.wScale, q.dequantW)
}

// step runs one forward step: kernel, then the LIF transition. The returned
// spike vector is owned by the layer and reused on the next step.
func (l *layer) step(input []float32) []float32 {
	switch {
	case l.quant != nil && l.quant.accelerated:
		l.synapticInputInt8(input)
	case l.quant != nil:
		l.synapticInputQuantFallback(input)
	default:
		kernels.Forward(l.kind, input, l.weights, l.bias, l.current,
			1, l.cfg.InputSize, l.cfg.OutputSize)
	}
	l.updateNeurons()
	return l.spikes
}

// synapticInputInt8 drives the accelerated int8 kernel: per-step input
// quantization, bias requantized into integer units, saturated int8 output
// dequantized into the synaptic current.
func (l *layer) synapticInputInt8(input []float32) {
	q := l.quant
	inScale := kernels.QuantizeScale(input)
	kernels.Quantize(input, inScale, q.in)

	prodScale := inScale * q.wScale
	for o, b := range l.bias {
		q.bias[o] = roundToInt32(b / prodScale)
	}

	kernels.ForwardInt8(q.in, q.weights, q.bias, q.out,
		1, l.cfg.InputSize, l.cfg.OutputSize, prodScale/q.outScale)

	for o, v := range q.out {
		l.current[o] = float32(v) * q.outScale
	}
}

// synapticInputQuantFallback emulates the int8 path on hardware without the
// matrix extension: the float kernel runs over the dequantized weight round
// trip, then the synaptic current saturates through the same int8 output
// grid as the accelerated path.
func (l *layer) synapticInputQuantFallback(input []float32) {
	q := l.quant
	kernels.Forward(l.kind, input, q.dequantW, l.bias, l.current,
		1, l.cfg.InputSize, l.cfg.OutputSize)
	for o, v := range l.current {
		grid := v / q.outScale
		if grid > 127 {
			grid = 127
		} else if grid < -128 {
			grid = -128
		}
		l.current[o] = float32(int8(grid)) * q.outScale
	}
}

// updateNeurons applies the LIF transition to every neuron:
//
//	v' = v*betaMem + I
//	spike = v' >= VThresh
//	v'' = VReset if spike else v'
func (l *layer) updateNeurons() {
	thresh := l.cfg.VThresh
	for o, in := range l.current {
		v := l.potential[o]*l.betaMem + in
		if v >= thresh {
			l.spikes[o] = 1
			l.potential[o] = l.cfg.VReset
		} else {
			l.spikes[o] = 0
			l.potential[o] = v
		}
	}
}

// resetState returns every membrane potential to VRest, leaving weights
// untouched. Usable any number of times.
func (l *layer) resetState() {
	for i := range l.potential {
		l.potential[i] = l.cfg.VRest
	}
}

// roundToInt32 rounds half away from zero, saturating at the int32 range.
func roundToInt32(v float32) int32 {
	if v >= 0 {
		v += 0.5
	} else {
		v -= 0.5
	}
	if v >= math.MaxInt32 {
		return math.MaxInt32
	}
	if v <= math.MinInt32 {
		return math.MinInt32
	}
	return int32(v)
}
