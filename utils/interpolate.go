// SPDX-License-Identifier: EPL-2.0

package utils

// LinearInterpolate returns the value at fractional position x (0<=x<=1)
// between y0 (x=0) and y1 (x=1). This is the interpolation kernel shared
// by buffer.SampleRateConvertFrom and the waveshaper's transfer-function
// lookup;
// both are explicitly documented as linear rather than higher-order, so a
// single small kernel covers both call sites.
func LinearInterpolate(y0, y1, x float32) float32 {
	return y0 + (y1-y0)*x
}
