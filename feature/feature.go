// Package feature holds the 2D feature observations matched between images,
// and their plain-text file format.
package feature

import (
	"math"

	"github.com/golang/geo/r2"
	"gonum.org/v1/gonum/mat"
)

// PointFeature is a feature location in pixel coordinates.
type PointFeature struct {
	X float32
	Y float32
}

// Coords returns the feature location as a point.
func (f PointFeature) Coords() r2.Point {
	return r2.Point{X: float64(f.X), Y: float64(f.Y)}
}

// ScaleOrientedFeature extends PointFeature with the detection scale in
// pixels and the orientation in radians.
type ScaleOrientedFeature struct {
	PointFeature
	Scale       float32
	Orientation float32
}

// OrientationVector returns the feature orientation as a unit vector.
func (f ScaleOrientedFeature) OrientationVector() r2.Point {
	return r2.Point{
		X: math.Cos(float64(f.Orientation)),
		Y: math.Sin(float64(f.Orientation)),
	}
}

// ScaledOrientationVector returns the orientation vector scaled to the
// feature's detection scale.
func (f ScaleOrientedFeature) ScaledOrientationVector() r2.Point {
	return f.OrientationVector().Mul(float64(f.Scale))
}

// PointsToMat packs feature locations into a 2xN matrix, one column per
// feature, for the two-view geometry consumers.
func PointsToMat(feats []PointFeature) *mat.Dense {
	out := mat.NewDense(2, len(feats), nil)
	for i, f := range feats {
		out.Set(0, i, float64(f.X))
		out.Set(1, i, float64(f.Y))
	}
	return out
}
