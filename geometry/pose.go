// Package geometry defines the rigid transforms placing cameras in world
// space.
package geometry

import (
	"math"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// Pose is a world-to-camera rigid transform, stored as a 3x3 rotation and the
// camera center in world coordinates. Applying the pose maps a world point X
// to camera-local coordinates R * (X - C).
type Pose struct {
	rotation *mat.Dense
	center   r3.Vector
}

// NewPose returns a pose from a 3x3 rotation matrix and a camera center.
func NewPose(rotation *mat.Dense, center r3.Vector) (*Pose, error) {
	r, c := rotation.Dims()
	if r != 3 || c != 3 {
		return nil, errors.Errorf("pose rotation must be 3x3, got %dx%d", r, c)
	}
	return &Pose{rotation: mat.DenseCopyOf(rotation), center: center}, nil
}

// NewPoseIdentity returns the identity pose: the camera sits at the world
// origin looking down the +Z axis.
func NewPoseIdentity() *Pose {
	rot := mat.NewDense(3, 3, nil)
	rot.Set(0, 0, 1)
	rot.Set(1, 1, 1)
	rot.Set(2, 2, 1)
	return &Pose{rotation: rot, center: r3.Vector{}}
}

// Rotation returns a copy of the world-to-camera rotation matrix.
func (p *Pose) Rotation() *mat.Dense {
	return mat.DenseCopyOf(p.rotation)
}

// Center returns the camera center in world coordinates.
func (p *Pose) Center() r3.Vector {
	return p.center
}

// Translation returns t = -R*C, the translation column of the pose matrix.
func (p *Pose) Translation() r3.Vector {
	t := rotateVec(p.rotation, p.center, false)
	return t.Mul(-1)
}

// TransformPoint maps a world point into camera-local coordinates.
func (p *Pose) TransformPoint(pt r3.Vector) r3.Vector {
	return rotateVec(p.rotation, pt.Sub(p.center), false)
}

// InverseRotate applies the inverse rotation R^T to a camera-local direction,
// mapping it back into the world frame.
func (p *Pose) InverseRotate(v r3.Vector) r3.Vector {
	return rotateVec(p.rotation, v, true)
}

// Matrix34 returns the 3x4 pose matrix [R | -R*C].
func (p *Pose) Matrix34() *mat.Dense {
	t := p.Translation()
	out := mat.NewDense(3, 4, nil)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			out.Set(i, j, p.rotation.At(i, j))
		}
	}
	out.Set(0, 3, t.X)
	out.Set(1, 3, t.Y)
	out.Set(2, 3, t.Z)
	return out
}

// RotationAboutZ returns the 3x3 matrix rotating by theta radians about the
// Z axis. Handy for building test poses.
func RotationAboutZ(theta float64) *mat.Dense {
	s, c := math.Sincos(theta)
	return mat.NewDense(3, 3, []float64{
		c, -s, 0,
		s, c, 0,
		0, 0, 1,
	})
}

func rotateVec(rot *mat.Dense, v r3.Vector, transpose bool) r3.Vector {
	at := func(i, j int) float64 {
		if transpose {
			return rot.At(j, i)
		}
		return rot.At(i, j)
	}
	return r3.Vector{
		X: at(0, 0)*v.X + at(0, 1)*v.Y + at(0, 2)*v.Z,
		Y: at(1, 0)*v.X + at(1, 1)*v.Y + at(1, 2)*v.Z,
		Z: at(2, 0)*v.X + at(2, 1)*v.Y + at(2, 2)*v.Z,
	}
}
