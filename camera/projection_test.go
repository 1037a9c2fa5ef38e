package camera

import (
	"testing"

	"github.com/golang/geo/r2"
	"github.com/golang/geo/r3"
	"go.viam.com/test"
	"gonum.org/v1/gonum/mat"

	"github.com/mvision-labs/sfmcam/geometry"
)

func TestProjectPinhole(t *testing.T) {
	m := NewPinhole(1920, 1080, 1000, 960, 540)
	pose := geometry.NewPoseIdentity()

	px := Project(m, pose, r3.Vector{X: 0, Y: 0, Z: 10}, true)
	test.That(t, px.X, test.ShouldAlmostEqual, 960)
	test.That(t, px.Y, test.ShouldAlmostEqual, 540)

	px = Project(m, pose, r3.Vector{X: 1, Y: 0, Z: 10}, true)
	test.That(t, px.X, test.ShouldAlmostEqual, 1060)
	test.That(t, px.Y, test.ShouldAlmostEqual, 540)
}

func TestProjectSkipsDistortionOnRequest(t *testing.T) {
	m := NewPinholeRadialK3(1920, 1080, 1000, 960, 540, -0.2, 0.05, 0)
	pose := geometry.NewPoseIdentity()
	pt := r3.Vector{X: 2, Y: 1, Z: 10}

	with := Project(m, pose, pt, true)
	without := Project(m, pose, pt, false)
	test.That(t, with, test.ShouldNotResemble, without)

	// Skipping distortion must match the ideal pinhole.
	ideal := NewPinhole(1920, 1080, 1000, 960, 540)
	test.That(t, without, test.ShouldResemble, Project(ideal, pose, pt, true))
}

func TestProjectWithPose(t *testing.T) {
	m := NewPinhole(1920, 1080, 1000, 960, 540)
	// Camera shifted one unit left along X: the world origin at depth 10
	// appears one focal-scaled unit right of the principal point.
	pose, err := geometry.NewPose(geometry.RotationAboutZ(0), r3.Vector{X: -1, Y: 0, Z: 0})
	test.That(t, err, test.ShouldBeNil)

	px := Project(m, pose, r3.Vector{X: 0, Y: 0, Z: 10}, true)
	test.That(t, px.X, test.ShouldAlmostEqual, 1060)
	test.That(t, px.Y, test.ShouldAlmostEqual, 540)
}

func TestResidualSign(t *testing.T) {
	m := NewPinhole(1920, 1080, 1000, 960, 540)
	pose := geometry.NewPoseIdentity()

	// Observation 2px right of the projection: residual is observed minus
	// projected, so +2 in X.
	res := Residual(m, pose, r3.Vector{X: 0, Y: 0, Z: 10}, r2.Point{X: 962, Y: 540})
	test.That(t, res.X, test.ShouldAlmostEqual, 2)
	test.That(t, res.Y, test.ShouldAlmostEqual, 0)
}

func TestResidualsBatch(t *testing.T) {
	m := NewPinhole(1920, 1080, 1000, 960, 540)
	pose := geometry.NewPoseIdentity()

	pts := mat.NewDense(3, 3, []float64{
		0, 1, -1,
		0, 0, 2,
		10, 10, 5,
	})
	obs := mat.NewDense(2, 3, []float64{
		960, 1060, 760,
		540, 540, 940,
	})

	res, err := Residuals(m, pose, pts, obs)
	test.That(t, err, test.ShouldBeNil)
	_, n := res.Dims()
	test.That(t, n, test.ShouldEqual, 3)
	for i := 0; i < n; i++ {
		test.That(t, res.At(0, i), test.ShouldAlmostEqual, 0)
		test.That(t, res.At(1, i), test.ShouldAlmostEqual, 0)
	}
}

func TestResidualsCountMismatch(t *testing.T) {
	m := NewPinhole(1920, 1080, 1000, 960, 540)
	pose := geometry.NewPoseIdentity()

	pts := mat.NewDense(3, 4, nil)
	obs := mat.NewDense(2, 3, nil)
	_, err := Residuals(m, pose, pts, obs)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "counts differ: 4 != 3")

	_, err = Residuals(m, pose, mat.NewDense(2, 3, nil), obs)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "must be 3xN")

	_, err = ResidualsParallel(m, pose, pts, obs)
	test.That(t, err, test.ShouldNotBeNil)
}

func TestResidualsParallelMatchesSerial(t *testing.T) {
	m := NewPinholeRadialK3(1920, 1080, 1000, 960, 540, -0.2, 0.05, 0)
	pose, err := geometry.NewPose(geometry.RotationAboutZ(0.1), r3.Vector{X: 0.5, Y: -0.25, Z: -1})
	test.That(t, err, test.ShouldBeNil)

	const n = 257
	pts := mat.NewDense(3, n, nil)
	obs := mat.NewDense(2, n, nil)
	for i := 0; i < n; i++ {
		pts.Set(0, i, float64(i%17)*0.1-0.8)
		pts.Set(1, i, float64(i%11)*0.1-0.5)
		pts.Set(2, i, 5+float64(i%7))
		obs.Set(0, i, 900+float64(i))
		obs.Set(1, i, 500+float64(i%31))
	}

	serial, err := Residuals(m, pose, pts, obs)
	test.That(t, err, test.ShouldBeNil)
	parallel, err := ResidualsParallel(m, pose, pts, obs)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, mat.Equal(serial, parallel), test.ShouldBeTrue)
}
