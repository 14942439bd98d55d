package profile

import (
	"gonum.org/v1/gonum/dsp/fourier"
)

// Kernels shorter than this are convolved directly; the FFT setup
// costs more than it saves on them.
const directKernelLength = 8

// ConvolveValid returns the part of the linear convolution of signal and
// kernel where the two fully overlap. The result has length
// len(signal) - len(kernel) + 1. Callers guarantee that both slices are
// non-empty and that kernel is not longer than signal.
func ConvolveValid(signal []float64, kernel []float64) []float64 {
	if len(kernel) < directKernelLength {
		return convolveValidDirect(signal, kernel)
	}
	return convolveValidFFT(signal, kernel)
}

func convolveValidDirect(signal []float64, kernel []float64) []float64 {
	n, m := len(signal), len(kernel)
	ret := make([]float64, n-m+1)
	for i := range ret {
		sum := 0.0
		for j := 0; j < m; j++ {
			sum += signal[i+j] * kernel[m-1-j]
		}
		ret[i] = sum
	}
	return ret
}

func convolveValidFFT(signal []float64, kernel []float64) []float64 {
	n, m := len(signal), len(kernel)
	// Zero-pad to avoid wrap-around.
	size := nextPow2(n + m - 1)

	a := make([]float64, size)
	copy(a, signal)
	b := make([]float64, size)
	copy(b, kernel)

	fft := fourier.NewFFT(size)
	ca := fft.Coefficients(nil, a)
	cb := fft.Coefficients(nil, b)
	for i := range ca {
		ca[i] *= cb[i]
	}
	// Sequence does not normalize, so the output is scaled by size.
	full := fft.Sequence(a, ca)
	scale := 1.0 / float64(size)

	ret := make([]float64, n-m+1)
	for i := range ret {
		ret[i] = full[i+m-1] * scale
	}
	return ret
}

func nextPow2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}
