// Copyright 2025-2026 The CortexN Authors. SPDX-License-Identifier: Apache-2.0

package snn

import (
	"encoding/binary"
	"io"
	"math"

	"github.com/pkg/errors"
)

// Weight blob format: a flat, shape-implied binary image --
// OutputSize*InputSize packed little-endian float32 weights in row-major
// order, immediately followed by OutputSize packed float32 bias values. No
// header; the shape comes out-of-band from the layer's Config. The byte
// layout is fixed for compatibility with pretrained assets.

// LoadWeights replaces the layer's weight tensor and bias vector from a byte
// source in the weight blob format. The replace is atomic: on a short or
// oversized source the call fails (ErrMalformedSource / ErrShapeMismatch)
// and the previous tensors stay intact. On success the membrane state is
// left untouched -- loading pretrained weights is distinct from Reset.
//
// The source must already be staged by the caller (asset/storage layer);
// this package performs no filesystem or network access.
func (m *Manager) LoadWeights(h Handle, source io.Reader) error {
	l, err := m.get(h)
	if err != nil {
		return err
	}

	weightCount := l.cfg.OutputSize * l.cfg.InputSize
	biasCount := l.cfg.OutputSize
	raw := make([]byte, 4*(weightCount+biasCount))
	if _, err := io.ReadFull(source, raw); err != nil {
		return errors.WithMessagef(ErrMalformedSource,
			"need %d bytes for a %dx%d layer: %v",
			len(raw), l.cfg.OutputSize, l.cfg.InputSize, err)
	}
	// The shape must match exactly; trailing bytes mean the blob was
	// written for a different shape.
	var probe [1]byte
	if n, _ := source.Read(probe[:]); n > 0 {
		return errors.WithMessagef(ErrShapeMismatch,
			"source has trailing bytes beyond the %dx%d shape",
			l.cfg.OutputSize, l.cfg.InputSize)
	}

	weights := make([]float32, weightCount)
	bias := make([]float32, biasCount)
	decodeFloats(raw[:4*weightCount], weights)
	decodeFloats(raw[4*weightCount:], bias)

	l.setWeights(weights, bias)
	return nil
}

// SaveWeights writes the layer's current weights and bias in the weight blob
// format, the inverse of LoadWeights. The asset layer uses it to persist a
// model updated by a peer.
func (m *Manager) SaveWeights(h Handle, sink io.Writer) error {
	l, err := m.get(h)
	if err != nil {
		return err
	}
	raw := make([]byte, 4*(len(l.weights)+len(l.bias)))
	encodeFloats(l.weights, raw)
	encodeFloats(l.bias, raw[4*len(l.weights):])
	if _, err := sink.Write(raw); err != nil {
		return errors.Wrap(err, "writing weight blob")
	}
	return nil
}

func decodeFloats(raw []byte, out []float32) {
	for i := range out {
		out[i] = math.Float32frombits(binary.LittleEndian.Uint32(raw[4*i:]))
	}
}

func encodeFloats(values []float32, out []byte) {
	for i, v := range values {
		binary.LittleEndian.PutUint32(out[4*i:], math.Float32bits(v))
	}
}
