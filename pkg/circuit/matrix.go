package circuit

import (
	"math"
	"math/cmplx"

	"github.com/qompile/qompile/pkg/dag"
)

// Matrix is a dense square complex matrix in row-major order. Dimensions are
// 2 (one qubit) or 4 (two qubits).
type Matrix struct {
	N    int
	Data []complex128
}

// NewMatrix allocates an n x n zero matrix.
func NewMatrix(n int) Matrix {
	return Matrix{N: n, Data: make([]complex128, n*n)}
}

// Identity returns the n x n identity matrix.
func Identity(n int) Matrix {
	m := NewMatrix(n)
	for i := 0; i < n; i++ {
		m.Data[i*n+i] = 1
	}
	return m
}

// At returns element (i, j).
func (m Matrix) At(i, j int) complex128 { return m.Data[i*m.N+j] }

// Set assigns element (i, j).
func (m Matrix) Set(i, j int, v complex128) { m.Data[i*m.N+j] = v }

// Mul returns the matrix product m * other.
func (m Matrix) Mul(other Matrix) Matrix {
	out := NewMatrix(m.N)
	for i := 0; i < m.N; i++ {
		for k := 0; k < m.N; k++ {
			a := m.At(i, k)
			if a == 0 {
				continue
			}
			for j := 0; j < m.N; j++ {
				out.Data[i*m.N+j] += a * other.At(k, j)
			}
		}
	}
	return out
}

// Kron returns the Kronecker product m ⊗ other.
func (m Matrix) Kron(other Matrix) Matrix {
	n := m.N * other.N
	out := NewMatrix(n)
	for i := 0; i < m.N; i++ {
		for j := 0; j < m.N; j++ {
			a := m.At(i, j)
			if a == 0 {
				continue
			}
			for k := 0; k < other.N; k++ {
				for l := 0; l < other.N; l++ {
					out.Set(i*other.N+k, j*other.N+l, a*other.At(k, l))
				}
			}
		}
	}
	return out
}

// SwapTensorFactors reinterprets a two-qubit unitary from A ⊗ B qubit order
// to B ⊗ A order by exchanging basis states |01> and |10> (row and column 1
// and 2).
func (m Matrix) SwapTensorFactors() Matrix {
	out := NewMatrix(4)
	copy(out.Data, m.Data)
	for j := 0; j < 4; j++ {
		out.Data[1*4+j], out.Data[2*4+j] = out.Data[2*4+j], out.Data[1*4+j]
	}
	for i := 0; i < 4; i++ {
		out.Data[i*4+1], out.Data[i*4+2] = out.Data[i*4+2], out.Data[i*4+1]
	}
	return out
}

// Equal reports element-wise equality within tol.
func (m Matrix) Equal(other Matrix, tol float64) bool {
	if m.N != other.N {
		return false
	}
	for i := range m.Data {
		if cmplx.Abs(m.Data[i]-other.Data[i]) > tol {
			return false
		}
	}
	return true
}

func mat2(a, b, c, d complex128) Matrix {
	return Matrix{N: 2, Data: []complex128{a, b, c, d}}
}

// Unitary returns the unitary matrix of op, if the gate is in the known set
// and all its parameters are bound. Gates outside the set (and measure,
// reset, barrier, delay) return ok=false, which analysis passes treat as
// non-commuting with everything.
func Unitary(op *dag.Operation) (Matrix, bool) {
	if op == nil || op.Symbolic() {
		return Matrix{}, false
	}
	param := func(i int) float64 { return op.Params[i].Value }

	switch op.Name {
	case NameH:
		s := complex(1/math.Sqrt2, 0)
		return mat2(s, s, s, -s), true
	case NameX:
		return mat2(0, 1, 1, 0), true
	case NameY:
		return mat2(0, -1i, 1i, 0), true
	case NameZ:
		return mat2(1, 0, 0, -1), true
	case NameS:
		return mat2(1, 0, 0, 1i), true
	case NameSdg:
		return mat2(1, 0, 0, -1i), true
	case NameT:
		return mat2(1, 0, 0, cmplx.Exp(1i*math.Pi/4)), true
	case NameTdg:
		return mat2(1, 0, 0, cmplx.Exp(-1i*math.Pi/4)), true
	case NameRZ, NameU1:
		if len(op.Params) != 1 {
			return Matrix{}, false
		}
		half := complex(0, param(0)/2)
		return mat2(cmplx.Exp(-half), 0, 0, cmplx.Exp(half)), true
	case NameRX:
		if len(op.Params) != 1 {
			return Matrix{}, false
		}
		c := complex(math.Cos(param(0)/2), 0)
		js := complex(0, math.Sin(param(0)/2))
		return mat2(c, -js, -js, c), true
	case NameRY:
		if len(op.Params) != 1 {
			return Matrix{}, false
		}
		c := complex(math.Cos(param(0)/2), 0)
		s := complex(math.Sin(param(0)/2), 0)
		return mat2(c, -s, s, c), true
	case NameU2:
		if len(op.Params) != 2 {
			return Matrix{}, false
		}
		phi, lambda := param(0), param(1)
		f := complex(1/math.Sqrt2, 0)
		return mat2(
			f, -f*cmplx.Exp(complex(0, lambda)),
			f*cmplx.Exp(complex(0, phi)), f*cmplx.Exp(complex(0, phi+lambda)),
		), true
	case NameU3:
		if len(op.Params) != 3 {
			return Matrix{}, false
		}
		theta, phi, lambda := param(0), param(1), param(2)
		c := complex(math.Cos(theta/2), 0)
		s := complex(math.Sin(theta/2), 0)
		return mat2(
			c, -s*cmplx.Exp(complex(0, lambda)),
			s*cmplx.Exp(complex(0, phi)), c*cmplx.Exp(complex(0, phi+lambda)),
		), true
	case NameCX:
		return Matrix{N: 4, Data: []complex128{
			1, 0, 0, 0,
			0, 1, 0, 0,
			0, 0, 0, 1,
			0, 0, 1, 0,
		}}, true
	case NameCY:
		return Matrix{N: 4, Data: []complex128{
			1, 0, 0, 0,
			0, 1, 0, 0,
			0, 0, 0, 1i,
			0, 0, -1i, 0,
		}}, true
	case NameCZ:
		return Matrix{N: 4, Data: []complex128{
			1, 0, 0, 0,
			0, 1, 0, 0,
			0, 0, 1, 0,
			0, 0, 0, -1,
		}}, true
	case NameSWAP:
		return Matrix{N: 4, Data: []complex128{
			1, 0, 0, 0,
			0, 0, 1, 0,
			0, 1, 0, 0,
			0, 0, 0, 1,
		}}, true
	}
	return Matrix{}, false
}
