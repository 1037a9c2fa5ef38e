package camera

import (
	"math"

	"github.com/golang/geo/r2"
	"github.com/golang/geo/r3"

	"github.com/mvision-labs/sfmcam/geometry"
	"github.com/mvision-labs/sfmcam/utils"
)

// rayAngleEpsilon keeps the inverse-cosine argument strictly inside its
// domain; rounding in the dot product can otherwise push it past ±1.
const rayAngleEpsilon = 1e-8

// AngleBetweenRays returns the angle in degrees between two rays. Downstream
// stages use it to judge how well-conditioned a triangulation is.
func AngleBetweenRays(ray1, ray2 r3.Vector) float64 {
	mag := ray1.Norm() * ray2.Norm()
	cos := ray1.Dot(ray2) / mag
	return utils.RadToDeg(math.Acos(utils.Clamp(cos, -1.0+rayAngleEpsilon, 1.0-rayAngleEpsilon)))
}

// AngleBetweenBearings returns the angle in degrees between the world-frame
// bearing rays of a pixel observed in two cameras. Each ray is the model's
// bearing vector rotated back into the world frame by the pose's inverse
// rotation.
func AngleBetweenBearings(
	pose1 *geometry.Pose, model1 Model, x1 r2.Point,
	pose2 *geometry.Pose, model2 Model, x2 r2.Point,
) float64 {
	ray1 := pose1.InverseRotate(model1.BearingVector(x1)).Normalize()
	ray2 := pose2.InverseRotate(model2.BearingVector(x2)).Normalize()
	return AngleBetweenRays(ray1, ray2)
}

// AngleBetweenPoses returns the angle in degrees subtended at a world point
// by two camera centers.
func AngleBetweenPoses(pose1, pose2 *geometry.Pose, pt r3.Vector) float64 {
	ray1 := pt.Sub(pose1.Center())
	ray2 := pt.Sub(pose2.Center())
	return AngleBetweenRays(ray1, ray2)
}
