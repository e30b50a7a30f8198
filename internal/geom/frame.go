package geom

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Frame is a right-handed orthonormal local reference system
type Frame struct {
	Origin mgl64.Vec3
	X      mgl64.Vec3
	Y      mgl64.Vec3
	Z      mgl64.Vec3
}

// GlobalFrame returns the global reference system
func GlobalFrame() Frame {
	return Frame{X: UnitX, Y: UnitY, Z: UnitZ}
}

// NewFrame builds a frame from its x axis and a hint for the y axis.
// y is the part of yHint orthogonal to x; z = x × y. When yHint is
// parallel to x a normal is chosen with AnyNormal.
func NewFrame(origin, x, yHint mgl64.Vec3) Frame {
	ux := Unit(x)
	uy := Unit(Perpendicular(yHint, ux))
	if uy.Len() == 0 {
		uy = AnyNormal(ux)
	}
	return Frame{Origin: origin, X: ux, Y: uy, Z: ux.Cross(uy)}
}

// Rotation returns the matrix whose columns are the local axes
func (f Frame) Rotation() mgl64.Mat3 {
	return mgl64.Mat3FromCols(f.X, f.Y, f.Z)
}

// ToGlobal maps local coordinates to global ones
func (f Frame) ToGlobal(local mgl64.Vec3) mgl64.Vec3 {
	return f.Origin.Add(f.Rotation().Mul3x1(local))
}

// ToLocal maps global coordinates to local ones
func (f Frame) ToLocal(global mgl64.Vec3) mgl64.Vec3 {
	return f.Rotation().Transpose().Mul3x1(global.Sub(f.Origin))
}

// VectorToGlobal rotates a free vector from local to global axes
func (f Frame) VectorToGlobal(v mgl64.Vec3) mgl64.Vec3 {
	return f.Rotation().Mul3x1(v)
}

// RotatedAboutX returns the frame rotated by angle (rad) about its own x axis
func (f Frame) RotatedAboutX(angle float64) Frame {
	c, s := math.Cos(angle), math.Sin(angle)
	y := f.Y.Mul(c).Add(f.Z.Mul(s))
	z := f.Z.Mul(c).Sub(f.Y.Mul(s))
	return Frame{Origin: f.Origin, X: f.X, Y: y, Z: z}
}

// Moved returns the frame translated to a new origin
func (f Frame) Moved(origin mgl64.Vec3) Frame {
	f.Origin = origin
	return f
}
