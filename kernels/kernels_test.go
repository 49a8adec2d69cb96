// Copyright 2025-2026 The CortexN Authors. SPDX-License-Identifier: Apache-2.0

package kernels

import (
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cortexn/reflex/cpu"
)

func randSlice(rng *rand.Rand, n int) []float32 {
	s := make([]float32, n)
	for i := range s {
		s[i] = rng.Float32()*2 - 1
	}
	return s
}

// requireClose checks relative agreement at 1e-4, with an absolute floor so
// near-zero outputs don't blow up the relative error.
func requireClose(t *testing.T, want, got []float32) {
	t.Helper()
	require.Len(t, got, len(want))
	for i := range want {
		diff := want[i] - got[i]
		if diff < 0 {
			diff = -diff
		}
		tol := float32(1e-4)
		if abs := want[i]; abs < 0 {
			tol *= -abs
		} else if abs > 0 {
			tol *= abs
		}
		if tol < 1e-6 {
			tol = 1e-6
		}
		require.LessOrEqualf(t, diff, tol, "output[%d]: want %v, got %v", i, want[i], got[i])
	}
}

func TestFloatVariantsAgreeWithScalar(t *testing.T) {
	rng := rand.New(rand.NewPCG(42, 0))
	// Sizes straddle the vector width: below, above, exact multiples and
	// every tail length around 16.
	inputSizes := []int{1, 3, 7, 16, 17, 33, 64, 65}
	outputSizes := []int{1, 5, 16}
	batchSizes := []int{1, 3}

	for _, batch := range batchSizes {
		for _, in := range inputSizes {
			for _, out := range outputSizes {
				t.Run(fmt.Sprintf("b%d_in%d_out%d", batch, in, out), func(t *testing.T) {
					input := randSlice(rng, batch*in)
					weights := randSlice(rng, out*in)
					bias := randSlice(rng, out)

					want := make([]float32, batch*out)
					Forward(KindScalar, input, weights, bias, want, batch, in, out)

					for _, kind := range []Kind{KindWideSIMDF32, KindScalableMatrix} {
						got := make([]float32, batch*out)
						Forward(kind, input, weights, bias, got, batch, in, out)
						requireClose(t, want, got)
					}
				})
			}
		}
	}
}

func TestForwardZeroInputSize(t *testing.T) {
	bias := []float32{0.5, -1, 2}
	for _, kind := range FloatKinds {
		output := []float32{99, 99, 99}
		Forward(kind, nil, nil, bias, output, 1, 0, 3)
		require.Equal(t, bias, output, "kind %s", kind)
	}
}

func TestForwardOverwritesStaleOutput(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 0))
	input := randSlice(rng, 5)
	weights := randSlice(rng, 3*5)
	bias := randSlice(rng, 3)

	fresh := make([]float32, 3)
	Forward(KindWideSIMDF32, input, weights, bias, fresh, 1, 5, 3)

	stale := []float32{1e9, -1e9, 1e9}
	Forward(KindWideSIMDF32, input, weights, bias, stale, 1, 5, 3)
	require.Equal(t, fresh, stale)
}

func TestForwardInt8MatchesIntegerReference(t *testing.T) {
	rng := rand.New(rand.NewPCG(11, 0))
	for _, in := range []int{1, 3, 15, 16, 17, 48, 50} {
		const out = 4
		input := make([]int8, in)
		weights := make([]int8, out*in)
		bias := make([]int32, out)
		for i := range input {
			input[i] = int8(rng.IntN(256) - 128)
		}
		for i := range weights {
			weights[i] = int8(rng.IntN(256) - 128)
		}
		for i := range bias {
			bias[i] = int32(rng.IntN(2000) - 1000)
		}

		const scale = float32(0.001)
		want := make([]int8, out)
		for o := 0; o < out; o++ {
			sum := bias[o]
			for i := 0; i < in; i++ {
				sum += int32(weights[o*in+i]) * int32(input[i])
			}
			want[o] = int8(clamp(float32(sum)*scale, -128, 127))
		}

		got := make([]int8, out)
		ForwardInt8(input, weights, bias, got, 1, in, out, scale)
		require.Equal(t, want, got, "inputSize=%d", in)
	}
}

func TestForwardInt8Saturates(t *testing.T) {
	const in = 64
	input := make([]int8, in)
	weights := make([]int8, 2*in)
	for i := 0; i < in; i++ {
		input[i] = 127
		weights[i] = 127  // row 0 overflows positive
		weights[in+i] = -128 // row 1 overflows negative
	}
	bias := []int32{0, 0}

	output := make([]int8, 2)
	ForwardInt8(input, weights, bias, output, 1, in, 2, 1.0)
	require.Equal(t, int8(127), output[0], "positive overflow must clamp, not wrap")
	require.Equal(t, int8(-128), output[1], "negative overflow must clamp, not wrap")
}

func TestQuantizeRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 0))
	values := randSlice(rng, 100)
	scale := QuantizeScale(values)
	require.Positive(t, scale)

	q := make([]int8, len(values))
	Quantize(values, scale, q)
	back := make([]float32, len(values))
	Dequantize(q, scale, back)

	for i := range values {
		diff := values[i] - back[i]
		if diff < 0 {
			diff = -diff
		}
		require.LessOrEqual(t, diff, scale/2+1e-6, "value %d: %v vs %v", i, values[i], back[i])
	}
}

func TestQuantizeScaleZeroTensor(t *testing.T) {
	require.Equal(t, float32(1), QuantizeScale([]float32{0, 0, 0}))
	require.Equal(t, float32(1), QuantizeScale(nil))
}

func TestForwardContractViolationsPanic(t *testing.T) {
	input := make([]float32, 4)
	weights := make([]float32, 8)
	bias := make([]float32, 2)
	output := make([]float32, 2)

	require.Panics(t, func() {
		Forward(KindScalar, input[:3], weights, bias, output, 1, 4, 2)
	}, "short input buffer")
	require.Panics(t, func() {
		Forward(KindScalar, input, weights[:7], bias, output, 1, 4, 2)
	}, "short weight buffer")
	require.Panics(t, func() {
		Forward(KindScalar, input, weights, bias, output[:1], 1, 4, 2)
	}, "short output buffer")
	require.Panics(t, func() {
		Forward(KindInt8Matrix, input, weights, bias, output, 1, 4, 2)
	}, "int8 kind through the float entry point")
}

func TestPreferredOrder(t *testing.T) {
	tests := []struct {
		feats     cpu.Features
		quantized bool
		want      Kind
	}{
		{cpu.Features{}, false, KindScalar},
		{cpu.Features{WideSIMD: true}, false, KindWideSIMDF32},
		{cpu.Features{WideSIMD: true, Int8Matrix: true}, false, KindWideSIMDF32},
		{cpu.Features{WideSIMD: true, Int8Matrix: true}, true, KindInt8Matrix},
		{cpu.Features{WideSIMD: true, Int8Matrix: true, ScalableMatrix: true}, false, KindScalableMatrix},
		{cpu.Features{WideSIMD: true, Int8Matrix: true, ScalableMatrix: true}, true, KindScalableMatrix},
		{cpu.Features{WideSIMD: true}, true, KindWideSIMDF32},
		{cpu.Features{}, true, KindScalar},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, Preferred(tt.feats, tt.quantized),
			"features=%s quantized=%t", tt.feats, tt.quantized)
	}
}

func TestKindStrings(t *testing.T) {
	require.Equal(t, "scalar", KindScalar.String())
	require.Equal(t, "wide-simd-f32", KindWideSIMDF32.String())
	require.Equal(t, "int8-matrix", KindInt8Matrix.String())
	require.Equal(t, "scalable-matrix", KindScalableMatrix.String())

	for _, kind := range KindValues() {
		back, err := KindString(kind.String())
		require.NoError(t, err)
		require.Equal(t, kind, back)
	}
	_, err := KindString("bogus")
	require.Error(t, err)
}
