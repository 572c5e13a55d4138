package spectrum

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/blas"
	"gonum.org/v1/gonum/blas/cblas128"
	"gonum.org/v1/gonum/mat"
)

// checkShapes verifies that A has as many rows as the square matrix R
func checkShapes(A, R *mat.CDense) error {
	if A == nil || R == nil {
		return fmt.Errorf("%w: nil matrix", ErrShape)
	}
	r, c := R.Dims()
	if r != c {
		return fmt.Errorf("%w: covariance is %dx%d", ErrShape, r, c)
	}
	if m, _ := A.Dims(); m != r {
		return fmt.Errorf("%w: steering matrix has %d rows, covariance is %dx%d", ErrShape, m, r, c)
	}
	return nil
}

// mulCC returns R·A using complex BLAS
func mulCC(R, A *mat.CDense) *mat.CDense {
	m, _ := R.Dims()
	_, k := A.Dims()
	out := mat.NewCDense(m, k, nil)
	cblas128.Gemm(blas.NoTrans, blas.NoTrans, 1, R.RawCMatrix(), A.RawCMatrix(), 0, out.RawCMatrix())
	return out
}

// conjColumnSums returns Re(Σₘ conj(A[m,k])·X[m,k]) for every column k,
// i.e. the diagonal of Re(AᴴX) without forming the product
func conjColumnSums(A, X *mat.CDense) []float64 {
	m, k := A.Dims()
	a := A.RawCMatrix()
	x := X.RawCMatrix()

	out := make([]float64, k)
	for row := range m {
		ar := a.Data[row*a.Stride : row*a.Stride+k]
		xr := x.Data[row*x.Stride : row*x.Stride+k]
		for col, av := range ar {
			xv := xr[col]
			out[col] += real(av)*real(xv) + imag(av)*imag(xv)
		}
	}
	return out
}

// embedHermitian maps an M×M complex matrix to the real 2M×2M matrix
// [[Re R, -Im R], [Im R, Re R]], which acts on [Re x; Im x] like R acts on x
func embedHermitian(R *mat.CDense) *mat.Dense {
	m, _ := R.Dims()
	out := mat.NewDense(2*m, 2*m, nil)
	for i := range m {
		for j := range m {
			v := R.At(i, j)
			out.Set(i, j, real(v))
			out.Set(i, j+m, -imag(v))
			out.Set(i+m, j, imag(v))
			out.Set(i+m, j+m, real(v))
		}
	}
	return out
}

// embedColumns stacks [Re A; Im A]
func embedColumns(A *mat.CDense) *mat.Dense {
	m, k := A.Dims()
	out := mat.NewDense(2*m, k, nil)
	for i := range m {
		for j := range k {
			v := A.At(i, j)
			out.Set(i, j, real(v))
			out.Set(i+m, j, imag(v))
		}
	}
	return out
}

// unembedColumns is the inverse of embedColumns
func unembedColumns(X *mat.Dense) *mat.CDense {
	rows, k := X.Dims()
	m := rows / 2
	out := mat.NewCDense(m, k, nil)
	for i := range m {
		for j := range k {
			out.Set(i, j, complex(X.At(i, j), X.At(i+m, j)))
		}
	}
	return out
}

// maxAbs returns the largest entry magnitude of R
func maxAbs(R *mat.CDense) float64 {
	raw := R.RawCMatrix()
	var best float64
	for i := 0; i < raw.Rows; i++ {
		for _, v := range raw.Data[i*raw.Stride : i*raw.Stride+raw.Cols] {
			best = math.Max(best, math.Hypot(real(v), imag(v)))
		}
	}
	return best
}

func fill(dst []float64, v float64) []float64 {
	for i := range dst {
		dst[i] = v
	}
	return dst
}
