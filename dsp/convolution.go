// SPDX-License-Identifier: EPL-2.0

package dsp

import (
	"github.com/mjibson/go-dsp/fft"

	"github.com/ik5/audiograph/buffer"
	"github.com/ik5/audiograph/ids"
	"github.com/ik5/audiograph/param"
)

// nextPowerOfTwo returns the smallest power of two >= n.
func nextPowerOfTwo(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

type convolutionChannel struct {
	window  []complex128 // rolling time-domain input window, fftLen long
	scratch []complex128 // reused per-block FFT scratch
}

// Convolution is a partitioned overlap-save FFT convolver against a fixed
// impulse response, precomputed once at construction.
type Convolution struct {
	id ids.ID

	fftLen        int
	impulseFFT    []complex128
	maxFrameCount int

	channels []convolutionChannel

	clk clock
}

// NewConvolution builds a Convolution against impulse (one slice of
// samples per channel), sized for blocks of up to maxFrameCount frames.
func NewConvolution(sampleRate float64, maxFrameCount int, impulse [][]float32) *Convolution {
	impulseLen := 0
	for _, ch := range impulse {
		if len(ch) > impulseLen {
			impulseLen = len(ch)
		}
	}
	fftLen := nextPowerOfTwo(impulseLen + maxFrameCount - 1)

	c := &Convolution{
		id:            ids.Next(),
		fftLen:        fftLen,
		maxFrameCount: maxFrameCount,
		channels:      make([]convolutionChannel, len(impulse)),
		clk:           newClock(sampleRate),
	}

	c.impulseFFT = make([]complex128, 0, fftLen*len(impulse))
	for chIdx, imp := range impulse {
		padded := make([]complex128, fftLen)
		for i, v := range imp {
			padded[i] = complex(float64(v), 0)
		}
		spectrum := fft.FFT(padded)
		c.impulseFFT = append(c.impulseFFT, spectrum...)

		c.channels[chIdx] = convolutionChannel{
			window:  make([]complex128, fftLen),
			scratch: make([]complex128, fftLen),
		}
	}
	return c
}

func (c *Convolution) ID() ids.ID     { return c.id }
func (c *Convolution) NumInputs() int { return 1 }

func (c *Convolution) Param(ids.ID) (*param.Evaluator, bool) { return nil, false }

func (c *Convolution) impulseFFTFor(chIdx int) []complex128 {
	return c.impulseFFT[chIdx*c.fftLen : (chIdx+1)*c.fftLen]
}

func (c *Convolution) Process(inputs []buffer.Reader, output buffer.Writer, frameCount int) {
	in := inputs[0]
	for chIdx := range c.channels {
		if chIdx >= output.Channels() {
			break
		}
		state := &c.channels[chIdx]

		// Shift the window left by frameCount, append the new input.
		copy(state.window, state.window[frameCount:])
		src := in.ReadChannel(chIdx % in.Channels())
		for i := 0; i < frameCount; i++ {
			state.window[c.fftLen-frameCount+i] = complex(float64(src[i]), 0)
		}

		copy(state.scratch, state.window)
		spectrum := fft.FFT(state.scratch)

		impulse := c.impulseFFTFor(chIdx)
		for i := range spectrum {
			spectrum[i] *= impulse[i]
		}

		timeDomain := fft.IFFT(spectrum)

		// fft.IFFT already normalizes by 1/fftLen internally.
		dst := output.WriteChannel(chIdx)
		start := c.fftLen - frameCount
		for i := 0; i < frameCount; i++ {
			dst[i] = float32(real(timeDomain[start+i]))
		}
	}
	c.clk.advance(frameCount)
}
