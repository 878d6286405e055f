// SPDX-License-Identifier: EPL-2.0

package dsp

import (
	"math"
	"testing"

	"github.com/ik5/audiograph/buffer"
)

func naiveConvolution(x, h []float32) []float64 {
	out := make([]float64, len(x)+len(h)-1)
	for n := range out {
		var sum float64
		for k := 0; k < len(h); k++ {
			if n-k >= 0 && n-k < len(x) {
				sum += float64(x[n-k]) * float64(h[k])
			}
		}
		out[n] = sum
	}
	return out
}

func pseudoNoise(n int, seed uint32) []float32 {
	out := make([]float32, n)
	for i := range out {
		seed = seed*1664525 + 1013904223
		out[i] = float32(int32(seed))/float32(1<<31) - 0.5
	}
	return out
}

func TestConvolutionMatchesNaiveReference(t *testing.T) {
	t.Parallel()

	const blockSize = 256
	x := pseudoNoise(256, 1)
	h := pseudoNoise(256, 2)

	conv := NewConvolution(48000, blockSize, [][]float32{h})

	full := make([]float64, 0, len(x)+len(h)-1)
	in := newMonoBuffer(48000, x)
	out := newMonoBuffer(48000, make([]float32, blockSize))
	conv.Process([]buffer.Reader{in}, out, blockSize)
	for _, v := range out.ReadChannel(0) {
		full = append(full, float64(v))
	}

	// Feed zeros to flush the rest of the impulse response's tail.
	tailBlocks := (len(h) + blockSize - 1) / blockSize
	zeros := newMonoBuffer(48000, make([]float32, blockSize))
	for i := 0; i < tailBlocks; i++ {
		conv.Process([]buffer.Reader{zeros}, out, blockSize)
		for _, v := range out.ReadChannel(0) {
			full = append(full, float64(v))
		}
	}

	want := naiveConvolution(x, h)
	const tol = 1e-3
	for i, w := range want {
		if math.Abs(full[i]-w) > tol {
			t.Fatalf("sample %d = %v, want %v", i, full[i], w)
		}
	}
}

func TestConvolutionUnitImpulsePassesInputThrough(t *testing.T) {
	t.Parallel()

	const blockSize = 128
	impulse := make([]float32, 1)
	impulse[0] = 1

	conv := NewConvolution(48000, blockSize, [][]float32{impulse})

	x := pseudoNoise(blockSize, 7)
	in := newMonoBuffer(48000, x)
	out := newMonoBuffer(48000, make([]float32, blockSize))
	conv.Process([]buffer.Reader{in}, out, blockSize)

	const tol = 1e-3
	for i, want := range x {
		got := out.ReadChannel(0)[i]
		if math.Abs(float64(got-want)) > tol {
			t.Fatalf("frame %d = %v, want %v", i, got, want)
		}
	}
}
