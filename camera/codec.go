package camera

import (
	"encoding/json"
	"io"
	"os"

	"github.com/pkg/errors"
	goutils "go.viam.com/utils"
)

// The persisted form of a camera model is a JSON object carrying a "type"
// discriminant, the shared attributes, and whatever parameter fields the
// variant defines. "serialNumber" and "initialFocalLengthPix" are optional on
// read so that records written before those fields existed keep loading: a
// missing serial decodes to "" and a missing focal prior to
// UnknownFocalLengthPix.

// ModelCodec encodes one camera model variant to its persisted record and
// back. Decode receives the full raw record and must tolerate missing
// optional shared fields.
type ModelCodec struct {
	Encode func(model Model) (interface{}, error)
	Decode func(data []byte) (Model, error)
}

var modelCodecs = map[ModelType]ModelCodec{
	PinholeType:             {encodePinhole, decodePinhole},
	PinholeRadialK3Type:     {encodePinhole, decodePinhole},
	PinholeBrownConradyType: {encodePinhole, decodePinhole},
}

// RegisterModelCodec makes a new model variant persistable. Registering an
// already-known type replaces its codec.
func RegisterModelCodec(modelType ModelType, codec ModelCodec) {
	modelCodecs[modelType] = codec
}

// EncodeModel serializes a camera model to its persisted JSON record.
func EncodeModel(model Model) ([]byte, error) {
	codec, ok := modelCodecs[model.ModelType()]
	if !ok {
		return nil, errors.Errorf("no codec registered for camera model type %q", model.ModelType())
	}
	record, err := codec.Encode(model)
	if err != nil {
		return nil, err
	}
	return json.Marshal(record)
}

// DecodeModel deserializes a camera model from its persisted JSON record,
// dispatching on the "type" discriminant.
func DecodeModel(data []byte) (Model, error) {
	var header struct {
		Type ModelType `json:"type"`
	}
	if err := json.Unmarshal(data, &header); err != nil {
		return nil, errors.Wrap(err, "error parsing camera model record")
	}
	codec, ok := modelCodecs[header.Type]
	if !ok {
		return nil, errors.Errorf("no codec registered for camera model type %q", header.Type)
	}
	return codec.Decode(data)
}

// ReadModelFromFile loads a persisted camera model from a JSON file.
func ReadModelFromFile(path string) (Model, error) {
	//nolint:gosec
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "error opening camera model file")
	}
	defer goutils.UncheckedErrorFunc(f.Close)
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, errors.Wrap(err, "error reading camera model file")
	}
	return DecodeModel(data)
}

// WriteModelToFile saves a camera model to a JSON file.
func WriteModelToFile(path string, model Model) error {
	data, err := EncodeModel(model)
	if err != nil {
		return err
	}
	return errors.Wrap(os.WriteFile(path, data, 0o600), "error writing camera model file")
}

// pinholeRecord is the persisted form of the pinhole family.
type pinholeRecord struct {
	Type                  ModelType `json:"type"`
	Width                 int       `json:"width"`
	Height                int       `json:"height"`
	SerialNumber          string    `json:"serialNumber"`
	InitialFocalLengthPix float64   `json:"initialFocalLengthPix"`
	Focal                 float64   `json:"focal"`
	Ppx                   float64   `json:"ppx"`
	Ppy                   float64   `json:"ppy"`
	DistortionParams      []float64 `json:"distortionParams,omitempty"`
}

func encodePinhole(model Model) (interface{}, error) {
	p, ok := model.(*Pinhole)
	if !ok {
		return nil, errors.Errorf("cannot encode %T as a pinhole record", model)
	}
	rec := pinholeRecord{
		Type:                  p.ModelType(),
		Width:                 p.Width(),
		Height:                p.Height(),
		SerialNumber:          p.SerialNumber(),
		InitialFocalLengthPix: p.InitialFocalLengthPix(),
		Focal:                 p.Focal(),
		Ppx:                   p.PrincipalPoint().X,
		Ppy:                   p.PrincipalPoint().Y,
	}
	if p.Distortion() != nil {
		rec.DistortionParams = p.Distortion().Parameters()
	}
	return rec, nil
}

func decodePinhole(data []byte) (Model, error) {
	// Preset the optional fields so legacy records fall back to the
	// documented defaults instead of zero values.
	rec := pinholeRecord{InitialFocalLengthPix: UnknownFocalLengthPix}
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, errors.Wrap(err, "error parsing pinhole record")
	}
	p := NewPinhole(rec.Width, rec.Height, rec.Focal, rec.Ppx, rec.Ppy)
	p.SetSerialNumber(rec.SerialNumber)
	p.SetInitialFocalLengthPix(rec.InitialFocalLengthPix)
	if rec.Type != PinholeType {
		dist, err := NewDistorter(rec.Type, rec.DistortionParams)
		if err != nil {
			return nil, err
		}
		p.distortion = dist
	} else if len(rec.DistortionParams) != 0 {
		return nil, errors.Errorf("camera model %q does not take distortion parameters", rec.Type)
	}
	return p, nil
}
