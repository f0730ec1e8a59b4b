package similarity

import (
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"holefill/internal/models"
)

// WindowScorer compares the patch against the whole texture window whose
// top-left corner is (r, c):
//
//	E[r][c] = sum over known (x,y), sum over z of (T[r+x][c+y][z] - P[x][y][z])^2
//
// Expanding the square turns the surface into three cross-correlations per
// channel, which are evaluated in the frequency domain.
type WindowScorer struct {
	// cached spectra of the last texture seen, keyed by its shape and values
	rows, cols int
	pix        []float64
	spectra [][]complex128 // per channel, FFT of T
	squared [][]complex128 // per channel, FFT of T^2
	rowFFT  *fourier.CmplxFFT
	colFFT  *fourier.CmplxFFT
}

// NewWindowScorer creates a frequency-domain window scorer
func NewWindowScorer() *WindowScorer {
	return &WindowScorer{}
}

// Score implements Scorer
func (s *WindowScorer) Score(patch *models.Image, mask *models.Mask, texture *models.Image) (*mat.Dense, error) {
	half, err := checkShapes(patch, mask, texture)
	if err != nil {
		return nil, err
	}
	s.prepare(texture)

	R, C := texture.Rows, texture.Cols
	size := patch.Rows
	rows := R - 2*half
	cols := C - 2*half
	n := float64(R * C)

	// Known-pixel weights padded to the texture size
	weights := make([]complex128, R*C)
	for x := 0; x < size; x++ {
		for y := 0; y < size; y++ {
			if !mask.Get(x, y) {
				weights[x*C+y] = 1
			}
		}
	}
	weightSpec := s.fft2D(weights, R, C, false)

	out := make([]float64, rows*cols)
	spectrum := make([]complex128, R*C)
	kernel := make([]complex128, R*C)

	for z := 0; z < patch.Channels; z++ {
		// Masked patch values and the constant term
		var constant float64
		for i := range kernel {
			kernel[i] = 0
		}
		for x := 0; x < size; x++ {
			for y := 0; y < size; y++ {
				if mask.Get(x, y) {
					continue
				}
				v := patch.At(x, y, z)
				kernel[x*C+y] = complex(v, 0)
				constant += v * v
			}
		}
		kernelSpec := s.fft2D(kernel, R, C, false)

		// corr(T^2, W) - 2 corr(T, W*P), combined before one inverse transform
		tSpec := s.spectra[z]
		t2Spec := s.squared[z]
		for i := range spectrum {
			spectrum[i] = t2Spec[i]*cmplx.Conj(weightSpec[i]) - 2*tSpec[i]*cmplx.Conj(kernelSpec[i])
		}
		corr := s.fft2D(spectrum, R, C, true)

		for r := 0; r < rows; r++ {
			for c := 0; c < cols; c++ {
				out[r*cols+c] += real(corr[r*C+c])/n + constant
			}
		}
	}

	// Round-off can push exact matches slightly below zero
	for i, v := range out {
		if v < 0 {
			out[i] = 0
		}
	}

	return mat.NewDense(rows, cols, out), nil
}

// prepare computes and caches the texture spectra. The cache is reused only
// when the texture has the same shape and values as on the previous call, so
// a texture edited in place is transformed again.
func (s *WindowScorer) prepare(texture *models.Image) {
	if s.rows == texture.Rows && s.cols == texture.Cols && len(s.spectra) == texture.Channels &&
		len(s.pix) == len(texture.Pix) && floats.Equal(s.pix, texture.Pix) {
		return
	}

	R, C := texture.Rows, texture.Cols
	s.rowFFT = fourier.NewCmplxFFT(C)
	s.colFFT = fourier.NewCmplxFFT(R)
	s.spectra = make([][]complex128, texture.Channels)
	s.squared = make([][]complex128, texture.Channels)

	plane := make([]complex128, R*C)
	planeSq := make([]complex128, R*C)
	for z := 0; z < texture.Channels; z++ {
		for i := 0; i < R*C; i++ {
			v := texture.Pix[i*texture.Channels+z]
			plane[i] = complex(v, 0)
			planeSq[i] = complex(v*v, 0)
		}
		s.spectra[z] = s.fft2D(plane, R, C, false)
		s.squared[z] = s.fft2D(planeSq, R, C, false)
	}
	s.rows, s.cols = R, C
	s.pix = append(s.pix[:0], texture.Pix...)
}

// fft2D performs a 2D Fast Fourier Transform on row-major complex data by
// transforming every row and then every column. The inverse transform is not
// scaled by 1/(rows*cols).
func (s *WindowScorer) fft2D(data []complex128, rows, cols int, inverse bool) []complex128 {
	result := make([]complex128, rows*cols)
	copy(result, data)

	// Row-wise transform, in place on each row
	for i := 0; i < rows; i++ {
		row := result[i*cols : (i+1)*cols]
		if inverse {
			s.rowFFT.Sequence(row, row)
		} else {
			s.rowFFT.Coefficients(row, row)
		}
	}

	// Column-wise transform through a scratch buffer
	column := make([]complex128, rows)
	for j := 0; j < cols; j++ {
		for i := 0; i < rows; i++ {
			column[i] = result[i*cols+j]
		}
		if inverse {
			s.colFFT.Sequence(column, column)
		} else {
			s.colFFT.Coefficients(column, column)
		}
		for i := 0; i < rows; i++ {
			result[i*cols+j] = column[i]
		}
	}

	return result
}
