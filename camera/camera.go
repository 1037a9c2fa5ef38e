// Package camera implements the intrinsic camera models used by the
// reconstruction pipeline: the polymorphic model contract, the concrete
// pinhole family, projection and residual math, identity hashing, and the
// persisted form of a model.
package camera

import (
	"github.com/golang/geo/r2"
	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/mat"

	"github.com/mvision-labs/sfmcam/geometry"
)

// ModelType is the name of an intrinsic camera model.
type ModelType string

const (
	// PinholeType is the ideal perspective model with no lens distortion.
	PinholeType = ModelType("pinhole")
	// PinholeRadialK3Type is a pinhole with a 3-coefficient radial distortion polynomial.
	PinholeRadialK3Type = ModelType("pinhole_radial_k3")
	// PinholeBrownConradyType is a pinhole with radial and tangential distortion.
	PinholeBrownConradyType = ModelType("pinhole_brown_conrady")
)

// Model is the capability set every intrinsic camera model implements. A
// model maps between the normalized camera plane and pixel coordinates,
// optionally applies a lens distortion field, and exposes its tunable values
// as a flat parameter vector for non-linear refinement.
//
// A Model is not internally synchronized: concurrent reads are safe as long
// as no goroutine concurrently mutates it.
type Model interface {
	// ModelType identifies the concrete variant. It is fixed for the
	// lifetime of the instance.
	ModelType() ModelType

	Width() int
	Height() int
	SerialNumber() string
	InitialFocalLengthPix() float64
	SetWidth(width int)
	SetHeight(height int)
	SetSerialNumber(serialNumber string)
	SetInitialFocalLengthPix(focal float64)

	// IsValid reports whether the model has a usable image size.
	IsValid() bool

	// Params returns the flattened parameter vector. Its length and
	// ordering are fixed per variant and stable across calls.
	Params() []float64
	// UpdateFromParams replaces the tunable values from a vector produced
	// by Params. It errors on a length mismatch and mutates nothing on
	// failure.
	UpdateFromParams(params []float64) error

	// Cam2Ima maps a point on the normalized camera plane to pixel
	// coordinates; Ima2Cam is its exact inverse up to rounding.
	Cam2Ima(p r2.Point) r2.Point
	Ima2Cam(p r2.Point) r2.Point

	// HasDistortion reports whether the model carries a distortion field.
	HasDistortion() bool
	// AddDistortion distorts a normalized-plane point; RemoveDistortion is
	// its approximate inverse (see Distorter for the tolerance).
	AddDistortion(p r2.Point) r2.Point
	RemoveDistortion(p r2.Point) r2.Point
	// UndistortedPixel and DistortedPixel are the pixel-space compositions
	// of the above with Cam2Ima/Ima2Cam.
	UndistortedPixel(p r2.Point) r2.Point
	DistortedPixel(p r2.Point) r2.Point

	// BearingVector returns the unit camera-local direction corresponding
	// to a pixel observation.
	BearingVector(p r2.Point) r3.Vector

	// ImagePlaneToCameraPlaneError rescales a pixel-space error magnitude
	// to normalized-plane units.
	ImagePlaneToCameraPlaneError(value float64) float64

	// ProjectiveEquivalent returns the 3x4 matrix K*[R|t] approximating the
	// combined intrinsic and extrinsic transform, ignoring distortion.
	ProjectiveEquivalent(pose *geometry.Pose) *mat.Dense

	// Clone returns an independent deep copy with the same concrete type.
	Clone() Model
	// Assign overwrites this model's state with other's. It errors without
	// mutating anything if the concrete types differ.
	Assign(other Model) error
}

// ModelsEqual reports whether two models describe the same calibration:
// identical type, image size, serial number and parameter vector.
func ModelsEqual(a, b Model) bool {
	if a.ModelType() != b.ModelType() ||
		a.Width() != b.Width() || a.Height() != b.Height() ||
		a.SerialNumber() != b.SerialNumber() {
		return false
	}
	pa, pb := a.Params(), b.Params()
	if len(pa) != len(pb) {
		return false
	}
	for i := range pa {
		if pa[i] != pb[i] {
			return false
		}
	}
	return true
}
