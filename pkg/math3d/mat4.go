package math3d

import "math"

// Mat4 is a 4x4 matrix stored in column-major order and applied to
// column vectors (M * v).
//
// Memory layout (indices):
// | 0  4  8  12 |
// | 1  5  9  13 |
// | 2  6  10 14 |
// | 3  7  11 15 |
//
// Columns 0..2 hold the basis axes of a transform, column 3 its
// translation.
type Mat4 [16]float64

// Identity returns the identity matrix.
func Identity() Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// FromAxes builds a matrix whose columns are the given axes and origin.
func FromAxes(x, y, z, origin Vec3) Mat4 {
	return Mat4{
		x.X, x.Y, x.Z, 0,
		y.X, y.Y, y.Z, 0,
		z.X, z.Y, z.Z, 0,
		origin.X, origin.Y, origin.Z, 1,
	}
}

// Translate creates a translation matrix.
func Translate(v Vec3) Mat4 {
	return FromAxes(Right(), Up(), Forward(), v)
}

// Scale creates a scaling matrix.
func Scale(v Vec3) Mat4 {
	return Mat4{
		v.X, 0, 0, 0,
		0, v.Y, 0, 0,
		0, 0, v.Z, 0,
		0, 0, 0, 1,
	}
}

// RotateX creates a rotation of angle radians about the X axis.
func RotateX(angle float64) Mat4 {
	c, s := math.Cos(angle), math.Sin(angle)
	return FromAxes(V3(1, 0, 0), V3(0, c, s), V3(0, -s, c), Vec3{})
}

// RotateY creates a rotation of angle radians about the Y axis. In a
// left-handed world a positive angle turns +Z towards +X.
func RotateY(angle float64) Mat4 {
	c, s := math.Cos(angle), math.Sin(angle)
	return FromAxes(V3(c, 0, -s), V3(0, 1, 0), V3(s, 0, c), Vec3{})
}

// RotateZ creates a rotation of angle radians about the Z axis.
func RotateZ(angle float64) Mat4 {
	c, s := math.Cos(angle), math.Sin(angle)
	return FromAxes(V3(c, s, 0), V3(-s, c, 0), V3(0, 0, 1), Vec3{})
}

// LookToLH returns the camera-to-world matrix of a left-handed camera at
// eye facing dir. up only needs to be roughly perpendicular to dir.
func LookToLH(eye, dir, up Vec3) Mat4 {
	z := dir.Normalize()
	x := up.Cross(z).Normalize()
	y := z.Cross(x)
	return FromAxes(x, y, z, eye)
}

// LookAtLH returns the left-handed view matrix for a camera at eye
// facing dir. It is the inverse of LookToLH.
func LookAtLH(eye, dir, up Vec3) Mat4 {
	z := dir.Normalize()
	x := up.Cross(z).Normalize()
	y := z.Cross(x)
	return Mat4{
		x.X, y.X, z.X, 0,
		x.Y, y.Y, z.Y, 0,
		x.Z, y.Z, z.Z, 0,
		-x.Dot(eye), -y.Dot(eye), -z.Dot(eye), 1,
	}
}

// PerspectiveLH creates a left-handed perspective projection. fovy is the
// vertical field of view in radians and aspect is width/height. View-space
// depth in [near, far] maps to NDC z in [0, 1] and clip w equals the
// view-space depth.
func PerspectiveLH(fovy, aspect, near, far float64) Mat4 {
	ys := 1 / math.Tan(fovy/2)
	xs := ys / aspect
	r := far / (far - near)
	return Mat4{
		xs, 0, 0, 0,
		0, ys, 0, 0,
		0, 0, r, 1,
		0, 0, -near * r, 0,
	}
}

// Mul returns a * b, which applies b first.
//
//nolint:st1016 // a*b naming convention is clearer for matrix multiplication
func (a Mat4) Mul(b Mat4) Mat4 {
	var m Mat4
	for col := range 4 {
		for row := range 4 {
			m[row+col*4] = a[row]*b[col*4] +
				a[row+4]*b[col*4+1] +
				a[row+8]*b[col*4+2] +
				a[row+12]*b[col*4+3]
		}
	}
	return m
}

// MulVec4 transforms a homogeneous vector.
func (m Mat4) MulVec4(v Vec4) Vec4 {
	return Vec4{
		m[0]*v.X + m[4]*v.Y + m[8]*v.Z + m[12]*v.W,
		m[1]*v.X + m[5]*v.Y + m[9]*v.Z + m[13]*v.W,
		m[2]*v.X + m[6]*v.Y + m[10]*v.Z + m[14]*v.W,
		m[3]*v.X + m[7]*v.Y + m[11]*v.Z + m[15]*v.W,
	}
}

// MulPoint transforms p as a point (w = 1) without a perspective divide.
func (m Mat4) MulPoint(p Vec3) Vec3 {
	return m.MulVec4(Point(p)).Vec3()
}

// MulDir transforms d as a direction (w = 0), ignoring translation.
func (m Mat4) MulDir(d Vec3) Vec3 {
	return Vec3{
		m[0]*d.X + m[4]*d.Y + m[8]*d.Z,
		m[1]*d.X + m[5]*d.Y + m[9]*d.Z,
		m[2]*d.X + m[6]*d.Y + m[10]*d.Z,
	}
}

// Transpose returns the transposed matrix.
func (m Mat4) Transpose() Mat4 {
	var t Mat4
	for col := range 4 {
		for row := range 4 {
			t[col+row*4] = m[row+col*4]
		}
	}
	return t
}

// Inverse returns the inverse of m, or the identity when m is singular.
// It expands along 2x2 sub-determinants of the top and bottom row pairs.
func (m Mat4) Inverse() Mat4 {
	a := func(row, col int) float64 { return m[row+col*4] }

	s0 := a(0, 0)*a(1, 1) - a(1, 0)*a(0, 1)
	s1 := a(0, 0)*a(1, 2) - a(1, 0)*a(0, 2)
	s2 := a(0, 0)*a(1, 3) - a(1, 0)*a(0, 3)
	s3 := a(0, 1)*a(1, 2) - a(1, 1)*a(0, 2)
	s4 := a(0, 1)*a(1, 3) - a(1, 1)*a(0, 3)
	s5 := a(0, 2)*a(1, 3) - a(1, 2)*a(0, 3)

	c5 := a(2, 2)*a(3, 3) - a(3, 2)*a(2, 3)
	c4 := a(2, 1)*a(3, 3) - a(3, 1)*a(2, 3)
	c3 := a(2, 1)*a(3, 2) - a(3, 1)*a(2, 2)
	c2 := a(2, 0)*a(3, 3) - a(3, 0)*a(2, 3)
	c1 := a(2, 0)*a(3, 2) - a(3, 0)*a(2, 2)
	c0 := a(2, 0)*a(3, 1) - a(3, 0)*a(2, 1)

	det := s0*c5 - s1*c4 + s2*c3 + s3*c2 - s4*c1 + s5*c0
	if det == 0 {
		return Identity()
	}
	id := 1 / det

	var inv Mat4
	set := func(row, col int, v float64) { inv[row+col*4] = v * id }

	set(0, 0, a(1, 1)*c5-a(1, 2)*c4+a(1, 3)*c3)
	set(0, 1, -a(0, 1)*c5+a(0, 2)*c4-a(0, 3)*c3)
	set(0, 2, a(3, 1)*s5-a(3, 2)*s4+a(3, 3)*s3)
	set(0, 3, -a(2, 1)*s5+a(2, 2)*s4-a(2, 3)*s3)

	set(1, 0, -a(1, 0)*c5+a(1, 2)*c2-a(1, 3)*c1)
	set(1, 1, a(0, 0)*c5-a(0, 2)*c2+a(0, 3)*c1)
	set(1, 2, -a(3, 0)*s5+a(3, 2)*s2-a(3, 3)*s1)
	set(1, 3, a(2, 0)*s5-a(2, 2)*s2+a(2, 3)*s1)

	set(2, 0, a(1, 0)*c4-a(1, 1)*c2+a(1, 3)*c0)
	set(2, 1, -a(0, 0)*c4+a(0, 1)*c2-a(0, 3)*c0)
	set(2, 2, a(3, 0)*s4-a(3, 1)*s2+a(3, 3)*s0)
	set(2, 3, -a(2, 0)*s4+a(2, 1)*s2-a(2, 3)*s0)

	set(3, 0, -a(1, 0)*c3+a(1, 1)*c1-a(1, 2)*c0)
	set(3, 1, a(0, 0)*c3-a(0, 1)*c1+a(0, 2)*c0)
	set(3, 2, -a(3, 0)*s3+a(3, 1)*s1-a(3, 2)*s0)
	set(3, 3, a(2, 0)*s3-a(2, 1)*s1+a(2, 2)*s0)

	return inv
}

// Get returns the element at (row, col).
func (m Mat4) Get(row, col int) float64 {
	return m[row+col*4]
}

// Translation returns the translation column.
func (m Mat4) Translation() Vec3 {
	return Vec3{m[12], m[13], m[14]}
}
