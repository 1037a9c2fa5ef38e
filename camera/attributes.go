package camera

// Attributes holds the model-independent camera attributes shared by every
// intrinsic model: the image size, the physical sensor serial number and an
// optional focal length prior in pixels.
type Attributes struct {
	width                 int
	height                int
	serialNumber          string
	initialFocalLengthPix float64
}

// NewAttributes returns shared attributes for the given image size. The
// serial number may be empty when the physical sensor is unknown; the focal
// length prior starts out unset.
func NewAttributes(width, height int, serialNumber string) Attributes {
	return Attributes{
		width:                 width,
		height:                height,
		serialNumber:          serialNumber,
		initialFocalLengthPix: UnknownFocalLengthPix,
	}
}

// UnknownFocalLengthPix is the sentinel for "no focal length prior".
const UnknownFocalLengthPix = -1.0

// Width returns the image width in pixels.
func (a *Attributes) Width() int { return a.width }

// Height returns the image height in pixels.
func (a *Attributes) Height() int { return a.height }

// SerialNumber returns the sensor/lens serial number, or "" if unknown.
func (a *Attributes) SerialNumber() string { return a.serialNumber }

// InitialFocalLengthPix returns the focal length prior in pixels, or
// UnknownFocalLengthPix if none was provided.
func (a *Attributes) InitialFocalLengthPix() float64 { return a.initialFocalLengthPix }

// SetWidth sets the image width in pixels.
func (a *Attributes) SetWidth(width int) { a.width = width }

// SetHeight sets the image height in pixels.
func (a *Attributes) SetHeight(height int) { a.height = height }

// SetSerialNumber sets the sensor/lens serial number.
func (a *Attributes) SetSerialNumber(serialNumber string) { a.serialNumber = serialNumber }

// SetInitialFocalLengthPix sets the focal length prior in pixels.
func (a *Attributes) SetInitialFocalLengthPix(focal float64) { a.initialFocalLengthPix = focal }

// IsValid reports whether both image dimensions are non-zero.
func (a *Attributes) IsValid() bool { return a.width != 0 && a.height != 0 }
