package geom

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"
)

// DegenerateDeterminant is the smallest absolute determinant of the linear
// part accepted by Validate. Anything smaller collapses the mesh onto a plane
// or line and makes world-space distances meaningless.
const DegenerateDeterminant = 1e-12

// ErrInvalidTransform is returned when a transform is not a usable affine map.
var ErrInvalidTransform = errors.New("invalid transform")

// Transform is a 4x4 row-major affine matrix:
// [m00,m01,m02,m03, m10,m11,m12,m13, m20,m21,m22,m23, m30,m31,m32,m33].
type Transform [16]float64

// Identity maps local coordinates onto themselves.
var Identity = Transform{1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1}

// Translation returns a transform that offsets points by (x, y, z).
func Translation(x, y, z float64) Transform {
	t := Identity
	t[3], t[7], t[11] = x, y, z
	return t
}

// Scaling returns a uniform scale about the origin.
func Scaling(s float64) Transform {
	t := Identity
	t[0], t[5], t[10] = s, s, s
	return t
}

// RotationZ returns a rotation of rad radians about the Z axis.
func RotationZ(rad float64) Transform {
	c, s := math.Cos(rad), math.Sin(rad)
	return Transform{
		c, -s, 0, 0,
		s, c, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Apply transforms a single point. The homogeneous row is ignored; callers
// should Validate transforms coming from outside the process.
func (t Transform) Apply(p r3.Vec) r3.Vec {
	return r3.Vec{
		X: t[0]*p.X + t[1]*p.Y + t[2]*p.Z + t[3],
		Y: t[4]*p.X + t[5]*p.Y + t[6]*p.Z + t[7],
		Z: t[8]*p.X + t[9]*p.Y + t[10]*p.Z + t[11],
	}
}

// ApplyAll transforms every point into a newly allocated slice.
func (t Transform) ApplyAll(points []r3.Vec) []r3.Vec {
	if len(points) == 0 {
		return nil
	}
	out := make([]r3.Vec, len(points))
	for i, p := range points {
		out[i] = t.Apply(p)
	}
	return out
}

// Mul returns t*u, i.e. the transform that applies u first and then t.
func (t Transform) Mul(u Transform) Transform {
	var prod mat.Dense
	prod.Mul(t.dense(), u.dense())

	var out Transform
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			out[r*4+c] = prod.At(r, c)
		}
	}
	return out
}

// Validate checks that t is a finite affine transform with an invertible
// linear part. Unlike a sensor pose, object transforms may carry scale and
// shear, so orthonormality is not required.
func (t Transform) Validate() error {
	for i, v := range t {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: element %d is not finite", ErrInvalidTransform, i)
		}
	}
	if t[12] != 0 || t[13] != 0 || t[14] != 0 || math.Abs(t[15]-1.0) > 1e-9 {
		return fmt.Errorf("%w: last row must be [0 0 0 1], got %v", ErrInvalidTransform, t[12:16])
	}

	linear := mat.NewDense(3, 3, []float64{
		t[0], t[1], t[2],
		t[4], t[5], t[6],
		t[8], t[9], t[10],
	})
	if det := mat.Det(linear); math.Abs(det) < DegenerateDeterminant {
		return fmt.Errorf("%w: linear part is singular (det=%g)", ErrInvalidTransform, det)
	}
	return nil
}

func (t Transform) dense() *mat.Dense {
	data := make([]float64, 16)
	copy(data, t[:])
	return mat.NewDense(4, 4, data)
}
