// camtool inspects and rewrites scene files: it can seed a scene from a YAML
// rig description and recompute the derived camera groups of an existing
// scene before re-saving it.
package main

import (
	"flag"
	"os"

	"github.com/edaniels/golog"
	"github.com/pkg/errors"
	goutils "go.viam.com/utils"
	"gopkg.in/yaml.v3"

	"github.com/mvision-labs/sfmcam/camera"
	"github.com/mvision-labs/sfmcam/sfm"
)

var logger = golog.NewDevelopmentLogger("camtool")

func main() {
	if err := realMain(os.Args[1:]); err != nil {
		logger.Fatal(err)
	}
}

func realMain(args []string) error {
	flags := flag.NewFlagSet("camtool", flag.ContinueOnError)
	if err := flags.Parse(args); err != nil {
		return err
	}
	switch flags.Arg(0) {
	case "seed":
		return seed(flags)
	case "regroup":
		return regroup(flags)
	default:
		return errors.Errorf("unknown command %q, want seed or regroup", flags.Arg(0))
	}
}

// rigCamera is one camera entry in a YAML rig description.
type rigCamera struct {
	Name        string    `yaml:"name"`
	Model       string    `yaml:"model"`
	Width       int       `yaml:"width"`
	Height      int       `yaml:"height"`
	Focal       float64   `yaml:"focal"`
	Ppx         *float64  `yaml:"ppx,omitempty"`
	Ppy         *float64  `yaml:"ppy,omitempty"`
	Serial      string    `yaml:"serial,omitempty"`
	Distortion  []float64 `yaml:"distortion,omitempty"`
	ImagePath   string    `yaml:"imagePath,omitempty"`
	FeaturePath string    `yaml:"featurePath,omitempty"`
}

type rigConfig struct {
	Cameras []rigCamera `yaml:"cameras"`
}

// seed builds a scene file from a YAML rig description: one view per camera
// entry. Principal points default to the image center.
func seed(flags *flag.FlagSet) error {
	if flags.NArg() < 3 {
		return errors.New("seed needs <rig.yaml in> <scene.json out>")
	}
	//nolint:gosec
	f, err := os.Open(flags.Arg(1))
	if err != nil {
		return errors.Wrap(err, "error opening rig file")
	}
	defer goutils.UncheckedErrorFunc(f.Close)

	var rig rigConfig
	if err := yaml.NewDecoder(f).Decode(&rig); err != nil {
		return errors.Wrap(err, "error parsing rig file")
	}

	scene := sfm.NewScene()
	for _, rc := range rig.Cameras {
		model, err := modelFromRig(rc)
		if err != nil {
			return errors.Wrapf(err, "camera %q", rc.Name)
		}
		scene.Views[rc.Name] = &sfm.View{
			ImagePath:   rc.ImagePath,
			FeaturePath: rc.FeaturePath,
			Camera:      model,
		}
	}
	if err := sfm.WriteSceneToFile(flags.Arg(2), scene); err != nil {
		return err
	}
	logger.Infow("scene seeded", "views", len(scene.Views), "out", flags.Arg(2))
	return nil
}

func modelFromRig(rc rigCamera) (camera.Model, error) {
	ppx := float64(rc.Width) / 2
	ppy := float64(rc.Height) / 2
	if rc.Ppx != nil {
		ppx = *rc.Ppx
	}
	if rc.Ppy != nil {
		ppy = *rc.Ppy
	}
	var model *camera.Pinhole
	switch camera.ModelType(rc.Model) {
	case camera.PinholeType, camera.ModelType(""):
		model = camera.NewPinhole(rc.Width, rc.Height, rc.Focal, ppx, ppy)
	case camera.PinholeRadialK3Type:
		d, err := camera.NewRadialK3(rc.Distortion)
		if err != nil {
			return nil, err
		}
		model = camera.NewPinholeRadialK3(rc.Width, rc.Height, rc.Focal, ppx, ppy, d.K1, d.K2, d.K3)
	case camera.PinholeBrownConradyType:
		d, err := camera.NewBrownConrady(rc.Distortion)
		if err != nil {
			return nil, err
		}
		model = camera.NewPinholeBrownConrady(rc.Width, rc.Height, rc.Focal, ppx, ppy,
			d.RadialK1, d.RadialK2, d.RadialK3, d.TangentialP1, d.TangentialP2)
	default:
		return nil, errors.Errorf("unknown camera model %q", rc.Model)
	}
	model.SetSerialNumber(rc.Serial)
	model.SetInitialFocalLengthPix(rc.Focal)
	if !model.IsValid() {
		return nil, errors.Errorf("invalid image size %dx%d", rc.Width, rc.Height)
	}
	return model, nil
}

// regroup loads a scene, recomputes the derived camera groups, logs them,
// and re-saves the scene in normalized form.
func regroup(flags *flag.FlagSet) error {
	if flags.NArg() < 2 {
		return errors.New("regroup needs <scene.json in> [scene.json out]")
	}
	scene, err := sfm.ReadSceneFromFile(flags.Arg(1))
	if err != nil {
		return err
	}
	groups := scene.GroupCameras()
	logger.Infow("camera groups recomputed", "views", len(scene.Views), "groups", len(groups))
	for _, g := range groups {
		logger.Infow("group", "hash", g.Hash, "views", g.Views)
	}
	out := flags.Arg(1)
	if flags.NArg() > 2 {
		out = flags.Arg(2)
	}
	return sfm.WriteSceneToFile(out, scene)
}
