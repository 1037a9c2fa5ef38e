package sfm

import (
	"encoding/json"
	"io"
	"os"

	"github.com/pkg/errors"
	goutils "go.viam.com/utils"

	"github.com/mvision-labs/sfmcam/camera"
)

// sceneVersion is written into every scene file; readers accept the current
// version only, while individual camera records keep their own
// legacy-field tolerance.
const sceneVersion = 1

type viewRecord struct {
	ImagePath   string          `json:"imagePath"`
	FeaturePath string          `json:"featurePath,omitempty"`
	Camera      json.RawMessage `json:"camera,omitempty"`
}

type sceneRecord struct {
	Version int                   `json:"version"`
	Views   map[string]viewRecord `json:"views"`
}

// ReadSceneFromFile loads a scene from its JSON file.
func ReadSceneFromFile(path string) (*Scene, error) {
	//nolint:gosec
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "error opening scene file")
	}
	defer goutils.UncheckedErrorFunc(f.Close)
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, errors.Wrap(err, "error reading scene file")
	}

	var rec sceneRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, errors.Wrap(err, "error parsing scene file")
	}
	if rec.Version != sceneVersion {
		return nil, errors.Errorf("unsupported scene file version %d", rec.Version)
	}

	scene := NewScene()
	for name, vr := range rec.Views {
		view := &View{ImagePath: vr.ImagePath, FeaturePath: vr.FeaturePath}
		if len(vr.Camera) != 0 {
			model, err := camera.DecodeModel(vr.Camera)
			if err != nil {
				return nil, errors.Wrapf(err, "view %q", name)
			}
			view.Camera = model
		}
		scene.Views[name] = view
	}
	return scene, nil
}

// WriteSceneToFile saves a scene to a JSON file.
func WriteSceneToFile(path string, scene *Scene) error {
	rec := sceneRecord{Version: sceneVersion, Views: map[string]viewRecord{}}
	for name, view := range scene.Views {
		vr := viewRecord{ImagePath: view.ImagePath, FeaturePath: view.FeaturePath}
		if view.Camera != nil {
			data, err := camera.EncodeModel(view.Camera)
			if err != nil {
				return errors.Wrapf(err, "view %q", name)
			}
			vr.Camera = data
		}
		rec.Views[name] = vr
	}
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return errors.Wrap(err, "error encoding scene file")
	}
	return errors.Wrap(os.WriteFile(path, data, 0o600), "error writing scene file")
}
