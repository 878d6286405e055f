// SPDX-License-Identifier: EPL-2.0

package dsp

// toFloat32 copies src into dst (truncated to the shorter length, and
// without any allocation), converting each sample to float32. Gain and Pan
// use this to turn a param.Evaluator's []float64 curve into the []float32
// a buffer operation expects.
func toFloat32(dst []float32, src []float64) []float32 {
	n := len(dst)
	if len(src) < n {
		n = len(src)
	}
	for i := 0; i < n; i++ {
		dst[i] = float32(src[i])
	}
	return dst[:n]
}
