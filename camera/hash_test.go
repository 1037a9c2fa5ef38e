package camera

import (
	"testing"

	"go.viam.com/test"
)

func TestHashEqualModelsAgree(t *testing.T) {
	a := NewPinholeRadialK3(1920, 1080, 1000, 960, 540, -0.2, 0.05, 0)
	a.SetSerialNumber("SN-1")
	b := a.Clone()

	test.That(t, ModelsEqual(a, b), test.ShouldBeTrue)
	test.That(t, HashValue(a), test.ShouldEqual, HashValue(b))
}

func TestHashSensitivity(t *testing.T) {
	base := NewPinholeRadialK3(1920, 1080, 1000, 960, 540, -0.2, 0.05, 0)
	baseHash := HashValue(base)

	// Any single differing parameter, dimension or identity field should
	// move the hash.
	params := base.Params()
	for i := range params {
		changed := base.Clone()
		bumped := append([]float64{}, params...)
		bumped[i] += 1e-6
		test.That(t, changed.UpdateFromParams(bumped), test.ShouldBeNil)
		test.That(t, HashValue(changed), test.ShouldNotEqual, baseHash)
	}

	other := base.Clone()
	other.SetWidth(1921)
	test.That(t, HashValue(other), test.ShouldNotEqual, baseHash)

	other = base.Clone()
	other.SetSerialNumber("SN-2")
	test.That(t, HashValue(other), test.ShouldNotEqual, baseHash)
}

func TestHashDistinguishesTypes(t *testing.T) {
	// Same shared attributes and pinhole parameters, different variant.
	plain := NewPinhole(1920, 1080, 1000, 960, 540)
	radial := NewPinholeRadialK3(1920, 1080, 1000, 960, 540, 0, 0, 0)
	test.That(t, HashValue(plain), test.ShouldNotEqual, HashValue(radial))
}

func TestHashIgnoresFocalPrior(t *testing.T) {
	// The focal length prior is not part of the calibration identity.
	a := NewPinhole(1920, 1080, 1000, 960, 540)
	b := a.Clone()
	b.SetInitialFocalLengthPix(1200)
	test.That(t, HashValue(a), test.ShouldEqual, HashValue(b))
}
