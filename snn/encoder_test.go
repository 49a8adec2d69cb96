// Copyright 2025-2026 The CortexN Authors. SPDX-License-Identifier: Apache-2.0

package snn

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewEncoderValidation(t *testing.T) {
	_, err := NewEncoder(0, 10, RateEncoding)
	require.ErrorIs(t, err, ErrConfig)
	_, err = NewEncoder(4, 0, RateEncoding)
	require.ErrorIs(t, err, ErrConfig)
	_, err = NewEncoder(4, 10, Encoding(99))
	require.ErrorIs(t, err, ErrConfig)
}

func TestEncodeShapeChecks(t *testing.T) {
	e, err := NewEncoder(4, 10, RateEncoding)
	require.NoError(t, err)
	err = e.Encode(make([]float32, 3), make([]float32, 40), 1)
	require.ErrorIs(t, err, ErrShapeMismatch)
	err = e.Encode(make([]float32, 4), make([]float32, 39), 1)
	require.ErrorIs(t, err, ErrShapeMismatch)
	err = e.Encode(make([]float32, 4), make([]float32, 40), 0)
	require.ErrorIs(t, err, ErrShapeMismatch)
}

func TestRateEncodingTracksInputStrength(t *testing.T) {
	const steps = 200
	e, err := NewEncoder(2, steps, RateEncoding)
	require.NoError(t, err)

	// input[0] saturates the sigmoid high, input[1] low.
	trains := make([]float32, steps*2)
	require.NoError(t, e.Encode([]float32{1, -1}, trains, 1))

	var high, low int
	for step := 0; step < steps; step++ {
		high += int(trains[step*2+0])
		low += int(trains[step*2+1])
	}
	require.Greater(t, high, steps*9/10, "sigmoid(10) ~ 1, nearly every step spikes")
	require.Less(t, low, steps/10, "sigmoid(-10) ~ 0, nearly no step spikes")
}

func TestLatencyEncodingOneSpikeEarlierForLarger(t *testing.T) {
	const steps = 8
	e, err := NewEncoder(3, steps, LatencyEncoding)
	require.NoError(t, err)

	trains := make([]float32, steps*3)
	require.NoError(t, e.Encode([]float32{1, 0, -1}, trains, 1))

	spikeTime := func(i int) int {
		count, at := 0, -1
		for step := 0; step < steps; step++ {
			if trains[step*3+i] == 1 {
				count++
				at = step
			}
		}
		require.Equal(t, 1, count, "exactly one spike per input %d", i)
		return at
	}
	t0, t1, t2 := spikeTime(0), spikeTime(1), spikeTime(2)
	require.Equal(t, 0, t0, "maximum input spikes first")
	require.Equal(t, steps-1, t2, "minimum input spikes last")
	require.Greater(t, t1, t0)
	require.Less(t, t1, t2)
}

func TestTemporalContrastEncoder(t *testing.T) {
	e, err := NewTemporalContrastEncoder(3, 0.1)
	require.NoError(t, err)

	on := make([]float32, 3)
	off := make([]float32, 3)

	// First frame: deltas from the zero state.
	require.NoError(t, e.Encode([]float32{0.5, -0.5, 0.05}, on, off))
	require.Equal(t, []float32{1, 0, 0}, on)
	require.Equal(t, []float32{0, 1, 0}, off)

	// Unchanged frame: no spikes anywhere.
	require.NoError(t, e.Encode([]float32{0.5, -0.5, 0.05}, on, off))
	require.Equal(t, []float32{0, 0, 0}, on)
	require.Equal(t, []float32{0, 0, 0}, off)

	// Reversal spikes the opposite channels.
	require.NoError(t, e.Encode([]float32{0.2, 0.2, 0.05}, on, off))
	require.Equal(t, []float32{0, 1, 0}, on)
	require.Equal(t, []float32{1, 0, 0}, off)

	require.ErrorIs(t, e.Encode(make([]float32, 2), on, off), ErrShapeMismatch)
}
