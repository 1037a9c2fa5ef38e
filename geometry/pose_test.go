package geometry

import (
	"math"
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"
	"gonum.org/v1/gonum/mat"
)

func TestNewPose(t *testing.T) {
	_, err := NewPose(mat.NewDense(2, 3, nil), r3.Vector{})
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "must be 3x3")

	pose, err := NewPose(RotationAboutZ(0.5), r3.Vector{X: 1, Y: 2, Z: 3})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, pose.Center(), test.ShouldResemble, r3.Vector{X: 1, Y: 2, Z: 3})
}

func TestIdentityPose(t *testing.T) {
	pose := NewPoseIdentity()
	pt := r3.Vector{X: 4, Y: -5, Z: 6}
	test.That(t, pose.TransformPoint(pt), test.ShouldResemble, pt)
	test.That(t, pose.Translation(), test.ShouldResemble, r3.Vector{})
}

func TestTransformPoint(t *testing.T) {
	// Camera at (0,0,-2) with a 90 degree rotation about Z.
	pose, err := NewPose(RotationAboutZ(math.Pi/2), r3.Vector{Z: -2})
	test.That(t, err, test.ShouldBeNil)

	local := pose.TransformPoint(r3.Vector{X: 1, Y: 0, Z: 0})
	test.That(t, local.X, test.ShouldAlmostEqual, 0, 1e-12)
	test.That(t, local.Y, test.ShouldAlmostEqual, 1, 1e-12)
	test.That(t, local.Z, test.ShouldAlmostEqual, 2, 1e-12)
}

func TestInverseRotateRoundTrip(t *testing.T) {
	pose, err := NewPose(RotationAboutZ(1.2), r3.Vector{X: 3, Y: 1, Z: -1})
	test.That(t, err, test.ShouldBeNil)

	v := r3.Vector{X: 0.3, Y: -0.8, Z: 0.52}
	rotated := pose.TransformPoint(v.Add(pose.Center()))
	back := pose.InverseRotate(rotated)
	test.That(t, back.X, test.ShouldAlmostEqual, v.X, 1e-12)
	test.That(t, back.Y, test.ShouldAlmostEqual, v.Y, 1e-12)
	test.That(t, back.Z, test.ShouldAlmostEqual, v.Z, 1e-12)
}

func TestMatrix34(t *testing.T) {
	center := r3.Vector{X: 1, Y: 2, Z: 3}
	pose, err := NewPose(RotationAboutZ(0.7), center)
	test.That(t, err, test.ShouldBeNil)

	m := pose.Matrix34()
	rows, cols := m.Dims()
	test.That(t, rows, test.ShouldEqual, 3)
	test.That(t, cols, test.ShouldEqual, 4)

	// The translation column must send the camera center to the origin:
	// R*C + t == 0.
	test.That(t, pose.TransformPoint(center).Norm(), test.ShouldAlmostEqual, 0, 1e-12)
	t3 := r3.Vector{X: m.At(0, 3), Y: m.At(1, 3), Z: m.At(2, 3)}
	test.That(t, pose.Translation(), test.ShouldResemble, t3)
}
