// Copyright 2025-2026 The CortexN Authors. SPDX-License-Identifier: Apache-2.0

package snn

import (
	"math"
	"math/rand/v2"

	"github.com/pkg/errors"
)

// Encoding selects how continuous sensor values become spike trains.
type Encoding int

const (
	// RateEncoding draws a Bernoulli spike per step with probability
	// sigmoid(gain * value): stronger inputs fire more often.
	RateEncoding Encoding = iota

	// LatencyEncoding emits exactly one spike per input, earlier for
	// larger values.
	LatencyEncoding
)

// Encoder converts continuous inputs in roughly [-1, 1] into spike trains of
// shape [numSteps, batchSize, inputSize] for the LIF layer to consume.
type Encoder struct {
	inputSize int
	numSteps  int
	encoding  Encoding
	gain      float32
	rng       *rand.Rand
}

const (
	defaultEncoderGain = 10.0
	defaultEncoderSeed = 42
)

// NewEncoder returns an encoder for fixed input size and step count. The
// rate encoder's randomness is seeded deterministically so encoded trains
// are reproducible across devices.
func NewEncoder(inputSize, numSteps int, encoding Encoding) (*Encoder, error) {
	if inputSize <= 0 || numSteps <= 0 {
		return nil, errors.WithMessagef(ErrConfig,
			"encoder inputSize=%d numSteps=%d, both must be > 0", inputSize, numSteps)
	}
	if encoding != RateEncoding && encoding != LatencyEncoding {
		return nil, errors.WithMessagef(ErrConfig, "unknown encoding %d", encoding)
	}
	return &Encoder{
		inputSize: inputSize,
		numSteps:  numSteps,
		encoding:  encoding,
		gain:      defaultEncoderGain,
		rng:       rand.New(rand.NewPCG(defaultEncoderSeed, 0)),
	}, nil
}

// Encode fills spikeTrains, laid out [numSteps, batchSize, inputSize], from
// input laid out [batchSize, inputSize].
func (e *Encoder) Encode(input, spikeTrains []float32, batchSize int) error {
	if batchSize <= 0 {
		return errors.WithMessagef(ErrShapeMismatch, "batchSize=%d", batchSize)
	}
	if len(input) != batchSize*e.inputSize {
		return errors.WithMessagef(ErrShapeMismatch,
			"input has %d elements, want batchSize*inputSize=%d",
			len(input), batchSize*e.inputSize)
	}
	if len(spikeTrains) != e.numSteps*batchSize*e.inputSize {
		return errors.WithMessagef(ErrShapeMismatch,
			"spike trains have %d elements, want numSteps*batchSize*inputSize=%d",
			len(spikeTrains), e.numSteps*batchSize*e.inputSize)
	}

	switch e.encoding {
	case RateEncoding:
		e.encodeRate(input, spikeTrains, batchSize)
	case LatencyEncoding:
		e.encodeLatency(input, spikeTrains, batchSize)
	}
	return nil
}

func (e *Encoder) encodeRate(input, spikeTrains []float32, batchSize int) {
	stepStride := batchSize * e.inputSize
	for t := 0; t < e.numSteps; t++ {
		step := spikeTrains[t*stepStride : (t+1)*stepStride]
		for i, v := range input {
			rate := 1 / (1 + float32(math.Exp(float64(-e.gain*v))))
			if e.rng.Float32() < rate {
				step[i] = 1
			} else {
				step[i] = 0
			}
		}
	}
}

func (e *Encoder) encodeLatency(input, spikeTrains []float32, batchSize int) {
	for i := range spikeTrains {
		spikeTrains[i] = 0
	}
	stepStride := batchSize * e.inputSize
	for i, v := range input {
		// Normalize [-1, 1] to [0, 1]; larger values spike earlier.
		normalized := (v + 1) / 2
		if normalized < 0 {
			normalized = 0
		} else if normalized > 1 {
			normalized = 1
		}
		spikeTime := int((1 - normalized) * float32(e.numSteps))
		if spikeTime > e.numSteps-1 {
			spikeTime = e.numSteps - 1
		}
		spikeTrains[spikeTime*stepStride+i] = 1
	}
}

// TemporalContrastEncoder generates on/off spikes from temporal changes in
// the input, for vision-like streams. It keeps the previous frame as state,
// so one instance serves one stream.
type TemporalContrastEncoder struct {
	threshold float32
	prev      []float32
}

// NewTemporalContrastEncoder returns a contrast encoder for frames of
// inputSize values; deltas beyond threshold produce spikes.
func NewTemporalContrastEncoder(inputSize int, threshold float32) (*TemporalContrastEncoder, error) {
	if inputSize <= 0 {
		return nil, errors.WithMessagef(ErrConfig, "encoder inputSize=%d, must be > 0", inputSize)
	}
	if !(threshold > 0) {
		return nil, errors.WithMessagef(ErrConfig, "threshold=%v, must be > 0", threshold)
	}
	return &TemporalContrastEncoder{
		threshold: threshold,
		prev:      make([]float32, inputSize),
	}, nil
}

// Encode compares input against the previous frame: a positive delta beyond
// the threshold spikes the on channel, a negative one the off channel.
func (e *TemporalContrastEncoder) Encode(input, onSpikes, offSpikes []float32) error {
	if len(input) != len(e.prev) || len(onSpikes) != len(e.prev) || len(offSpikes) != len(e.prev) {
		return errors.WithMessagef(ErrShapeMismatch,
			"input/on/off have %d/%d/%d elements, want %d",
			len(input), len(onSpikes), len(offSpikes), len(e.prev))
	}
	for i, v := range input {
		delta := v - e.prev[i]
		onSpikes[i], offSpikes[i] = 0, 0
		if delta > e.threshold {
			onSpikes[i] = 1
		} else if delta < -e.threshold {
			offSpikes[i] = 1
		}
		e.prev[i] = v
	}
	return nil
}
