package camera

import (
	"github.com/golang/geo/r2"
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	"github.com/mvision-labs/sfmcam/geometry"
	"github.com/mvision-labs/sfmcam/utils"
)

// Project maps a world point into pixel coordinates: the pose brings the
// point into the camera frame, the perspective divide lands it on the
// normalized plane, distortion is applied when the model has one and the
// caller asked for it, and Cam2Ima produces the pixel.
//
// A point at exactly zero depth is a caller precondition violation; points
// at or behind the camera center must be filtered upstream.
func Project(model Model, pose *geometry.Pose, pt r3.Vector, applyDistortion bool) r2.Point {
	local := pose.TransformPoint(pt)
	n := r2.Point{X: local.X / local.Z, Y: local.Y / local.Z}
	if applyDistortion && model.HasDistortion() {
		n = model.AddDistortion(n)
	}
	return model.Cam2Ima(n)
}

// Residual returns observed minus projected, in pixels. The sign convention
// is relied on by the downstream optimizer.
func Residual(model Model, pose *geometry.Pose, pt r3.Vector, observed r2.Point) r2.Point {
	proj := Project(model, pose, pt, true)
	return observed.Sub(proj)
}

// Residuals computes the per-column pixel residuals between the projections
// of the 3xN world points X and the 2xN observations x. The column counts
// must match; a mismatch errors before any element is computed.
func Residuals(model Model, pose *geometry.Pose, pts, observed *mat.Dense) (*mat.Dense, error) {
	n, err := checkResidualDims(pts, observed)
	if err != nil {
		return nil, err
	}
	out := mat.NewDense(2, n, nil)
	for i := 0; i < n; i++ {
		res := residualColumn(model, pose, pts, observed, i)
		out.Set(0, i, res.X)
		out.Set(1, i, res.Y)
	}
	return out, nil
}

// ResidualsParallel is Residuals spread over the worker pool. Each column is
// independent, so the result is identical to the serial version.
func ResidualsParallel(model Model, pose *geometry.Pose, pts, observed *mat.Dense) (*mat.Dense, error) {
	n, err := checkResidualDims(pts, observed)
	if err != nil {
		return nil, err
	}
	out := mat.NewDense(2, n, nil)
	utils.RangeParallel(n, func(i int) {
		res := residualColumn(model, pose, pts, observed, i)
		out.Set(0, i, res.X)
		out.Set(1, i, res.Y)
	})
	return out, nil
}

func checkResidualDims(pts, observed *mat.Dense) (int, error) {
	ptRows, ptCols := pts.Dims()
	obsRows, obsCols := observed.Dims()
	if ptRows != 3 {
		return 0, errors.Errorf("world points must be 3xN, got %dxN", ptRows)
	}
	if obsRows != 2 {
		return 0, errors.Errorf("observations must be 2xN, got %dxN", obsRows)
	}
	if ptCols != obsCols {
		return 0, errors.Errorf("point and observation counts differ: %d != %d", ptCols, obsCols)
	}
	return ptCols, nil
}

func residualColumn(model Model, pose *geometry.Pose, pts, observed *mat.Dense, i int) r2.Point {
	pt := r3.Vector{X: pts.At(0, i), Y: pts.At(1, i), Z: pts.At(2, i)}
	obs := r2.Point{X: observed.At(0, i), Y: observed.At(1, i)}
	return Residual(model, pose, pt, obs)
}
