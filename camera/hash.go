package camera

import (
	"encoding/binary"
	"hash/fnv"
	"math"
)

// HashValue returns a deterministic fingerprint of a model's calibration,
// combining in fixed order the model type, image size, serial number and each
// flattened parameter. Models that are equal per ModelsEqual hash equal; the
// pipeline uses this to group views taken with the same physical camera.
func HashValue(model Model) uint64 {
	h := fnv.New64a()
	var buf [8]byte

	h.Write([]byte(model.ModelType()))
	binary.LittleEndian.PutUint64(buf[:], uint64(model.Width()))
	h.Write(buf[:])
	binary.LittleEndian.PutUint64(buf[:], uint64(model.Height()))
	h.Write(buf[:])
	h.Write([]byte(model.SerialNumber()))
	for _, p := range model.Params() {
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(p))
		h.Write(buf[:])
	}
	return h.Sum64()
}
