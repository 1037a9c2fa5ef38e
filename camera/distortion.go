package camera

import (
	"github.com/golang/geo/r2"
	"github.com/pkg/errors"
)

// Distorter is the lens distortion field composed into a pinhole model. Apply
// distorts a point on the normalized camera plane; Remove is its approximate
// inverse: for points within the lens's valid radius, Remove(Apply(p))
// converges to p within removeTolerance.
type Distorter interface {
	// ModelType returns the camera model type this distortion belongs to.
	ModelType() ModelType
	// Parameters returns the distortion coefficients in their flattened
	// parameter order.
	Parameters() []float64
	Apply(p r2.Point) r2.Point
	Remove(p r2.Point) r2.Point
	// Clone returns an independent copy.
	Clone() Distorter
}

// Inverting a distortion field is iterative; Remove stops once the forward
// model reproduces the distorted point within this squared-error tolerance.
const (
	removeTolerance  = 1e-10
	removeIterations = 20
)

// NewDistorter returns the Distorter for the given camera model type, or an
// error for a type with no distortion field.
func NewDistorter(modelType ModelType, parameters []float64) (Distorter, error) {
	switch modelType {
	case PinholeRadialK3Type:
		return NewRadialK3(parameters)
	case PinholeBrownConradyType:
		return NewBrownConrady(parameters)
	case PinholeType:
		return nil, errors.Errorf("camera model %q has no distortion field", modelType)
	default:
		return nil, errors.Errorf("do not know how to parse %q distortion parameters", modelType)
	}
}

// RadialK3 is a purely radial distortion polynomial with three coefficients:
//
//	p_d = p_u * (1 + k1*r² + k2*r⁴ + k3*r⁶)
type RadialK3 struct {
	K1, K2, K3 float64
}

// NewRadialK3 builds a RadialK3 from its flattened coefficients [k1 k2 k3].
func NewRadialK3(parameters []float64) (*RadialK3, error) {
	if len(parameters) != 3 {
		return nil, errors.Errorf("radial k3 distortion expects 3 parameters, got %d", len(parameters))
	}
	return &RadialK3{parameters[0], parameters[1], parameters[2]}, nil
}

// ModelType returns the camera model type this distortion belongs to.
func (rk *RadialK3) ModelType() ModelType { return PinholeRadialK3Type }

// Parameters returns the coefficients as [k1 k2 k3].
func (rk *RadialK3) Parameters() []float64 {
	return []float64{rk.K1, rk.K2, rk.K3}
}

// Clone returns an independent copy.
func (rk *RadialK3) Clone() Distorter {
	clone := *rk
	return &clone
}

func (rk *RadialK3) factor(r2sq float64) float64 {
	return 1.0 + r2sq*(rk.K1+r2sq*(rk.K2+r2sq*rk.K3))
}

// Apply distorts a normalized-plane point.
func (rk *RadialK3) Apply(p r2.Point) r2.Point {
	return p.Mul(rk.factor(p.X*p.X + p.Y*p.Y))
}

// Remove undistorts a normalized-plane point with a Newton iteration on the
// radial scale. The distortion is radial, so only the scalar
// r_d = r_u * factor(r_u²) needs inverting.
func (rk *RadialK3) Remove(p r2.Point) r2.Point {
	rd2 := p.X*p.X + p.Y*p.Y
	if rd2 == 0 {
		return p
	}
	// Solve g(s) = s * factor(s² * rd²) - 1 = 0 where the undistorted point
	// is s * p.
	s := 1.0
	for i := 0; i < removeIterations; i++ {
		ru2 := s * s * rd2
		f := rk.factor(ru2)
		g := s*f - 1.0
		if g*g*rd2 < removeTolerance*removeTolerance {
			break
		}
		// dg/ds = factor + s * dfactor/ds, dfactor/ds = 2*s*rd2*factor'(ru2)
		dfactor := rk.K1 + ru2*(2.0*rk.K2+3.0*ru2*rk.K3)
		dg := f + 2.0*s*s*rd2*dfactor
		if dg == 0 {
			break
		}
		s -= g / dg
	}
	return p.Mul(s)
}

// BrownConrady is the radial plus tangential distortion model used for
// narrow-field lenses:
//
//	x_d = x_u*(1 + k1*r² + k2*r⁴ + k3*r⁶) + 2*p1*x_u*y_u + p2*(r² + 2*x_u²)
//	y_d = y_u*(1 + k1*r² + k2*r⁴ + k3*r⁶) + 2*p2*x_u*y_u + p1*(r² + 2*y_u²)
type BrownConrady struct {
	RadialK1     float64
	RadialK2     float64
	RadialK3     float64
	TangentialP1 float64
	TangentialP2 float64
}

// NewBrownConrady builds a BrownConrady from its flattened coefficients
// [k1 k2 k3 p1 p2].
func NewBrownConrady(parameters []float64) (*BrownConrady, error) {
	if len(parameters) != 5 {
		return nil, errors.Errorf("brown-conrady distortion expects 5 parameters, got %d", len(parameters))
	}
	return &BrownConrady{parameters[0], parameters[1], parameters[2], parameters[3], parameters[4]}, nil
}

// ModelType returns the camera model type this distortion belongs to.
func (bc *BrownConrady) ModelType() ModelType { return PinholeBrownConradyType }

// Parameters returns the coefficients as [k1 k2 k3 p1 p2].
func (bc *BrownConrady) Parameters() []float64 {
	return []float64{bc.RadialK1, bc.RadialK2, bc.RadialK3, bc.TangentialP1, bc.TangentialP2}
}

// Clone returns an independent copy.
func (bc *BrownConrady) Clone() Distorter {
	clone := *bc
	return &clone
}

// Apply distorts a normalized-plane point.
func (bc *BrownConrady) Apply(p r2.Point) r2.Point {
	xu, yu := p.X, p.Y
	r2sq := xu*xu + yu*yu
	r4 := r2sq * r2sq
	r6 := r4 * r2sq
	radDist := 1.0 + bc.RadialK1*r2sq + bc.RadialK2*r4 + bc.RadialK3*r6
	xd := xu*radDist + 2.0*bc.TangentialP1*xu*yu + bc.TangentialP2*(r2sq+2.0*xu*xu)
	yd := yu*radDist + 2.0*bc.TangentialP2*xu*yu + bc.TangentialP1*(r2sq+2.0*yu*yu)
	return r2.Point{X: xd, Y: yd}
}

// Remove undistorts a normalized-plane point using a Newton-Raphson
// iteration on the forward model, starting from the distorted point.
func (bc *BrownConrady) Remove(p r2.Point) r2.Point {
	xd, yd := p.X, p.Y
	xu, yu := xd, yd

	for i := 0; i < removeIterations; i++ {
		r2sq := xu*xu + yu*yu
		r4 := r2sq * r2sq
		r6 := r4 * r2sq

		radDist := 1.0 + bc.RadialK1*r2sq + bc.RadialK2*r4 + bc.RadialK3*r6
		tanDistX := 2.0*bc.TangentialP1*xu*yu + bc.TangentialP2*(r2sq+2.0*xu*xu)
		tanDistY := 2.0*bc.TangentialP2*xu*yu + bc.TangentialP1*(r2sq+2.0*yu*yu)

		errX := xu*radDist + tanDistX - xd
		errY := yu*radDist + tanDistY - yd
		if errX*errX+errY*errY < removeTolerance*removeTolerance {
			break
		}

		// Jacobian of the forward distortion at the current estimate.
		dRadDist := bc.RadialK1 + 2.0*bc.RadialK2*r2sq + 3.0*bc.RadialK3*r4
		dxdDxu := radDist + 2.0*xu*xu*dRadDist + 2.0*bc.TangentialP1*yu + 6.0*bc.TangentialP2*xu
		dxdDyu := 2.0*xu*yu*dRadDist + 2.0*bc.TangentialP1*xu + 2.0*bc.TangentialP2*yu
		dydDxu := 2.0*xu*yu*dRadDist + 2.0*bc.TangentialP2*yu + 2.0*bc.TangentialP1*xu
		dydDyu := radDist + 2.0*yu*yu*dRadDist + 2.0*bc.TangentialP2*xu + 6.0*bc.TangentialP1*yu

		det := dxdDxu*dydDyu - dxdDyu*dydDxu
		if det == 0 {
			break
		}
		xu -= (dydDyu*errX - dxdDyu*errY) / det
		yu -= (-dydDxu*errX + dxdDxu*errY) / det
	}
	return r2.Point{X: xu, Y: yu}
}
