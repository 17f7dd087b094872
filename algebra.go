package hrrembed

import (
	"sync"

	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/floats"
)

// convolver performs circular convolution in the frequency domain. A
// fourier.FFT keeps internal work buffers, so instances are pooled and never
// shared between goroutines.
type convolver struct {
	dim  int
	ffts sync.Pool // stores *fourier.FFT
}

func newConvolver(dim int) *convolver {
	cv := &convolver{dim: dim}
	cv.ffts.New = func() interface{} {
		return fourier.NewFFT(dim)
	}
	return cv
}

// Convolve binds a and b: (a ⊛ b)[k] = Σ_i a[i]·b[(k−i) mod n].
func (cv *convolver) Convolve(a, b Vec) Vec {
	if len(a) != cv.dim || len(b) != cv.dim {
		panic("hrrembed: dimension mismatch")
	}
	fft := cv.ffts.Get().(*fourier.FFT)
	defer cv.ffts.Put(fft)
	fa := fft.Coefficients(nil, a)
	fb := fft.Coefficients(nil, b)
	for i := range fa {
		fa[i] *= fb[i]
	}
	out := fft.Sequence(nil, fa)
	// Sequence is unnormalized
	floats.Scale(1/float64(cv.dim), out)
	return Vec(out)
}

// Deconvolve approximately unbinds a from b by convolving b with the
// involution of a, so Deconvolve(a, Convolve(a, x)) ≈ x for random a.
func (cv *convolver) Deconvolve(a, b Vec) Vec {
	return cv.Convolve(Involution(a), b)
}

// Involution returns the approximate inverse a*[i] = a[−i mod n].
func Involution(a Vec) Vec {
	n := len(a)
	inv := make(Vec, n)
	if n == 0 {
		return inv
	}
	inv[0] = a[0]
	for i := 1; i < n; i++ {
		inv[i] = a[n-i]
	}
	return inv
}

// Unit returns a unit-length copy of v. ok is false for a zero vector.
func Unit(v Vec) (u Vec, ok bool) {
	norm := v.Norm()
	u = make(Vec, len(v))
	if norm == 0 {
		return u, false
	}
	copy(u, v)
	floats.Scale(1/norm, u)
	return u, true
}
