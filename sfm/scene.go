// Package sfm holds the minimal scene container the camera tooling operates
// on: named views, each owning its camera model, with JSON persistence and
// the derived grouping of views that share a physical camera.
package sfm

import (
	"sort"

	"github.com/mvision-labs/sfmcam/camera"
)

// View is a single image observation in the scene. Each view exclusively
// owns its camera model.
type View struct {
	ImagePath   string
	FeaturePath string
	Camera      camera.Model
}

// Scene maps view names to views.
type Scene struct {
	Views map[string]*View
}

// NewScene returns an empty scene.
func NewScene() *Scene {
	return &Scene{Views: map[string]*View{}}
}

// CameraGroup is a set of views whose camera calibrations are
// interchangeable, keyed by the shared identity hash.
type CameraGroup struct {
	Hash  uint64
	Views []string
}

// GroupCameras buckets views by camera identity hash, so the pipeline can
// treat shots taken with the same physical lens as one calibration problem.
// Groups and the views inside them come back in deterministic order.
func (s *Scene) GroupCameras() []CameraGroup {
	byHash := map[uint64][]string{}
	for name, view := range s.Views {
		if view.Camera == nil {
			continue
		}
		h := camera.HashValue(view.Camera)
		byHash[h] = append(byHash[h], name)
	}
	groups := make([]CameraGroup, 0, len(byHash))
	for h, names := range byHash {
		sort.Strings(names)
		groups = append(groups, CameraGroup{Hash: h, Views: names})
	}
	sort.Slice(groups, func(i, j int) bool {
		return groups[i].Views[0] < groups[j].Views[0]
	})
	return groups
}
