package camera

import (
	"github.com/golang/geo/r2"
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	"github.com/mvision-labs/sfmcam/geometry"
)

// Pinhole is the perspective projection model family. The bare struct is the
// ideal pinhole; composing a Distorter yields the distorted variants
// (radial-k3, Brown-Conrady). The flattened parameter order is
// [focal ppx ppy] followed by the distortion coefficients, and is fixed for
// the lifetime of the instance.
type Pinhole struct {
	Attributes
	focal      float64
	ppx        float64
	ppy        float64
	distortion Distorter
}

// enforce the full model contract at compile time.
var _ Model = (*Pinhole)(nil)

// NewPinhole returns an ideal pinhole model with the given image size, focal
// length (pixels) and principal point.
func NewPinhole(width, height int, focal, ppx, ppy float64) *Pinhole {
	return &Pinhole{
		Attributes: NewAttributes(width, height, ""),
		focal:      focal,
		ppx:        ppx,
		ppy:        ppy,
	}
}

// NewPinholeRadialK3 returns a pinhole with a 3-coefficient radial
// distortion polynomial.
func NewPinholeRadialK3(width, height int, focal, ppx, ppy, k1, k2, k3 float64) *Pinhole {
	p := NewPinhole(width, height, focal, ppx, ppy)
	p.distortion = &RadialK3{k1, k2, k3}
	return p
}

// NewPinholeBrownConrady returns a pinhole with radial and tangential
// distortion.
func NewPinholeBrownConrady(width, height int, focal, ppx, ppy, k1, k2, k3, p1, p2 float64) *Pinhole {
	p := NewPinhole(width, height, focal, ppx, ppy)
	p.distortion = &BrownConrady{k1, k2, k3, p1, p2}
	return p
}

// ModelType identifies the concrete variant, which follows the composed
// distortion field.
func (p *Pinhole) ModelType() ModelType {
	if p.distortion == nil {
		return PinholeType
	}
	return p.distortion.ModelType()
}

// Focal returns the focal length in pixels.
func (p *Pinhole) Focal() float64 { return p.focal }

// PrincipalPoint returns the principal point in pixel coordinates.
func (p *Pinhole) PrincipalPoint() r2.Point { return r2.Point{X: p.ppx, Y: p.ppy} }

// Distortion returns the composed distortion field, or nil for the ideal
// pinhole.
func (p *Pinhole) Distortion() Distorter { return p.distortion }

// Params returns [focal ppx ppy] followed by the distortion coefficients.
func (p *Pinhole) Params() []float64 {
	params := []float64{p.focal, p.ppx, p.ppy}
	if p.distortion != nil {
		params = append(params, p.distortion.Parameters()...)
	}
	return params
}

// UpdateFromParams replaces the tunable values from a vector produced by
// Params. The distortion field, if any, keeps its concrete type; only its
// coefficients change. Nothing is mutated on error.
func (p *Pinhole) UpdateFromParams(params []float64) error {
	want := 3
	if p.distortion != nil {
		want += len(p.distortion.Parameters())
	}
	if len(params) != want {
		return errors.Errorf("camera model %q expects %d parameters, got %d", p.ModelType(), want, len(params))
	}
	var dist Distorter
	if p.distortion != nil {
		var err error
		dist, err = NewDistorter(p.distortion.ModelType(), params[3:])
		if err != nil {
			return err
		}
	}
	p.focal, p.ppx, p.ppy = params[0], params[1], params[2]
	p.distortion = dist
	return nil
}

// Cam2Ima scales a normalized-plane point by the focal length and recenters
// it on the principal point.
func (p *Pinhole) Cam2Ima(pt r2.Point) r2.Point {
	return r2.Point{X: p.focal*pt.X + p.ppx, Y: p.focal*pt.Y + p.ppy}
}

// Ima2Cam is the exact inverse of Cam2Ima.
func (p *Pinhole) Ima2Cam(pt r2.Point) r2.Point {
	return r2.Point{X: (pt.X - p.ppx) / p.focal, Y: (pt.Y - p.ppy) / p.focal}
}

// HasDistortion reports whether the model carries a distortion field.
func (p *Pinhole) HasDistortion() bool { return p.distortion != nil }

// AddDistortion distorts a normalized-plane point. The ideal pinhole returns
// the point unchanged.
func (p *Pinhole) AddDistortion(pt r2.Point) r2.Point {
	if p.distortion == nil {
		return pt
	}
	return p.distortion.Apply(pt)
}

// RemoveDistortion undistorts a normalized-plane point. The ideal pinhole
// returns the point unchanged.
func (p *Pinhole) RemoveDistortion(pt r2.Point) r2.Point {
	if p.distortion == nil {
		return pt
	}
	return p.distortion.Remove(pt)
}

// UndistortedPixel maps a distorted pixel to its undistorted location.
func (p *Pinhole) UndistortedPixel(pt r2.Point) r2.Point {
	return p.Cam2Ima(p.RemoveDistortion(p.Ima2Cam(pt)))
}

// DistortedPixel maps an undistorted pixel to its distorted location.
func (p *Pinhole) DistortedPixel(pt r2.Point) r2.Point {
	return p.Cam2Ima(p.AddDistortion(p.Ima2Cam(pt)))
}

// BearingVector returns the unit camera-local direction corresponding to a
// pixel observation, with distortion removed.
func (p *Pinhole) BearingVector(pt r2.Point) r3.Vector {
	n := p.RemoveDistortion(p.Ima2Cam(pt))
	return r3.Vector{X: n.X, Y: n.Y, Z: 1}.Normalize()
}

// ImagePlaneToCameraPlaneError rescales a pixel-space error magnitude to
// normalized-plane units by dividing by the focal length.
func (p *Pinhole) ImagePlaneToCameraPlaneError(value float64) float64 {
	return value / p.focal
}

// ProjectiveEquivalent returns K * [R|t] as a 3x4 matrix, valid where the
// distortion field can be ignored.
func (p *Pinhole) ProjectiveEquivalent(pose *geometry.Pose) *mat.Dense {
	k := mat.NewDense(3, 3, []float64{
		p.focal, 0, p.ppx,
		0, p.focal, p.ppy,
		0, 0, 1,
	})
	out := mat.NewDense(3, 4, nil)
	out.Mul(k, pose.Matrix34())
	return out
}

// Clone returns an independent deep copy.
func (p *Pinhole) Clone() Model {
	clone := *p
	if p.distortion != nil {
		clone.distortion = p.distortion.Clone()
	}
	return &clone
}

// Assign overwrites this model's state with other's. Both models must be the
// same concrete variant, distortion field included.
func (p *Pinhole) Assign(other Model) error {
	o, ok := other.(*Pinhole)
	if !ok || o.ModelType() != p.ModelType() {
		return errors.Errorf("cannot assign camera model of type %q to %q", other.ModelType(), p.ModelType())
	}
	*p = *o
	if o.distortion != nil {
		p.distortion = o.distortion.Clone()
	}
	return nil
}
