// Copyright 2025-2026 The CortexN Authors. SPDX-License-Identifier: Apache-2.0

package snn

import (
	"sync"

	"github.com/pkg/errors"
	"k8s.io/klog/v2"

	"github.com/cortexn/reflex/cpu"
	"github.com/cortexn/reflex/kernels"
)

// Handle is an opaque identifier referencing exactly one live layer. It
// packs a slot index and a generation counter, so a released handle can
// never silently alias a layer later created in the same slot. The zero
// Handle is never valid.
type Handle uint64

func (h Handle) index() int  { return int(uint32(h)) }
func (h Handle) gen() uint32 { return uint32(h >> 32) }

func makeHandle(idx int, gen uint32) Handle {
	return Handle(uint64(gen)<<32 | uint64(uint32(idx)))
}

// Manager owns the lifecycle of layers and maps handles to them.
//
// The registry lock guards only the slot table: operations on different
// handles run fully in parallel, and the per-handle hot path (Forward, Reset)
// takes no lock of its own. Concurrent calls on the *same* handle require
// external serialization by the caller.
type Manager struct {
	feats cpu.Features

	mu    sync.RWMutex
	slots []slot
	free  []int32
}

type slot struct {
	gen   uint32
	layer *layer // nil while the slot is free
}

// NewManager probes the CPU (cached process-wide) and returns an empty
// registry.
func NewManager() *Manager {
	return &Manager{feats: cpu.Detect()}
}

// Create allocates a layer sized per cfg -- weight tensor (pseudo-random
// unless cfg.ZeroWeights), zero bias, zero membrane state -- selects the
// kernel for the probed capabilities and returns a fresh handle. On invalid
// configuration it fails with ErrConfig and no resources are retained.
func (m *Manager) Create(cfg Config) (Handle, error) {
	cfg = cfg.withDefaults()
	if err := cfg.validate(); err != nil {
		return 0, err
	}
	l := newLayer(cfg, kernels.Preferred(m.feats, cfg.Quantized))

	m.mu.Lock()
	defer m.mu.Unlock()
	var idx int
	if n := len(m.free); n > 0 {
		idx = int(m.free[n-1])
		m.free = m.free[:n-1]
	} else {
		m.slots = append(m.slots, slot{})
		idx = len(m.slots) - 1
	}
	s := &m.slots[idx]
	s.gen++
	s.layer = l
	return makeHandle(idx, s.gen), nil
}

// get resolves a handle to its layer.
func (m *Manager) get(h Handle) (*layer, error) {
	idx, gen := h.index(), h.gen()
	m.mu.RLock()
	defer m.mu.RUnlock()
	if gen == 0 || idx >= len(m.slots) || m.slots[idx].layer == nil || m.slots[idx].gen != gen {
		return nil, errors.WithMessagef(ErrInvalidHandle, "handle %#x", uint64(h))
	}
	return m.slots[idx].layer, nil
}

// Forward runs one discrete step: the selected kernel computes the synaptic
// input current for a single sample, then the LIF transition produces the
// spike vector (0.0/1.0 per neuron).
//
// The returned slice is owned by the layer and reused on the next Forward
// call for the same handle; callers that retain it must copy.
func (m *Manager) Forward(h Handle, input []float32) ([]float32, error) {
	l, err := m.get(h)
	if err != nil {
		return nil, err
	}
	if len(input) != l.cfg.InputSize {
		return nil, errors.WithMessagef(ErrShapeMismatch,
			"input has %d elements, layer expects %d", len(input), l.cfg.InputSize)
	}
	return l.step(input), nil
}

// Reset zeroes the membrane state (to VRest) without touching weights.
// Idempotent.
func (m *Manager) Reset(h Handle) error {
	l, err := m.get(h)
	if err != nil {
		return err
	}
	l.resetState()
	return nil
}

// Release drops everything owned by the handle -- weight tensor, bias and
// membrane state go together. The handle becomes invalid. Releasing an
// already-released (or otherwise invalid) handle is a no-op, not an error,
// so teardown paths are safe to run twice.
func (m *Manager) Release(h Handle) error {
	idx, gen := h.index(), h.gen()
	m.mu.Lock()
	defer m.mu.Unlock()
	if gen == 0 || idx >= len(m.slots) {
		return nil
	}
	s := &m.slots[idx]
	if s.layer == nil || s.gen != gen {
		return nil
	}
	s.layer = nil
	m.free = append(m.free, int32(idx))
	klog.V(1).Infof("LIF layer released: handle %#x", uint64(h))
	return nil
}

// Model returns a snapshot copy of the layer's weight tensor and bias
// vector, for the peer/state-sync collaborator to redistribute.
func (m *Manager) Model(h Handle) (weights, bias []float32, err error) {
	l, err := m.get(h)
	if err != nil {
		return nil, nil, err
	}
	weights = make([]float32, len(l.weights))
	bias = make([]float32, len(l.bias))
	copy(weights, l.weights)
	copy(bias, l.bias)
	return weights, bias, nil
}

// UpdateModel replaces the weight tensor and bias vector with tensors of the
// exact same shape, atomically: on shape mismatch nothing changes. Membrane
// state is left untouched (use Reset for that). This is the entry point the
// federated/gossip collaborator calls between forward steps.
func (m *Manager) UpdateModel(h Handle, weights, bias []float32) error {
	l, err := m.get(h)
	if err != nil {
		return err
	}
	if len(weights) != l.cfg.OutputSize*l.cfg.InputSize {
		return errors.WithMessagef(ErrShapeMismatch,
			"weights have %d elements, layer expects %dx%d",
			len(weights), l.cfg.OutputSize, l.cfg.InputSize)
	}
	if len(bias) != l.cfg.OutputSize {
		return errors.WithMessagef(ErrShapeMismatch,
			"bias has %d elements, layer expects %d", len(bias), l.cfg.OutputSize)
	}
	l.setWeights(weights, bias)
	return nil
}

// Report describes the probed hardware and the kernel the manager selects
// for non-quantized layers.
type Report struct {
	HasWideSIMD       bool
	HasInt8Matrix     bool
	HasScalableMatrix bool
	Preferred         kernels.Kind
}

// Capabilities is a pure query, safe at any time from any goroutine.
func (m *Manager) Capabilities() Report {
	return Report{
		HasWideSIMD:       m.feats.WideSIMD,
		HasInt8Matrix:     m.feats.Int8Matrix,
		HasScalableMatrix: m.feats.ScalableMatrix,
		Preferred:         kernels.Preferred(m.feats, false),
	}
}
