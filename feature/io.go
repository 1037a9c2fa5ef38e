package feature

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
	goutils "go.viam.com/utils"
)

// Feature files hold one feature per line with single-space-separated
// fields: "x y" for point features, "x y scale orientation" for
// scale-oriented ones. A file holds exactly one feature kind; the caller
// picks the kind when loading, and any line with a different field count is
// corrupt data, not a fallback to the other kind.

// ErrCorruptFeatureFile marks a feature file that opened fine but did not
// parse: wrong field count, a malformed number, or a read that died partway.
var ErrCorruptFeatureFile = errors.New("corrupt feature file")

// LoadPointFeatures reads a file of "x y" lines.
func LoadPointFeatures(path string) ([]PointFeature, error) {
	var feats []PointFeature
	err := loadLines(path, 2, func(lineNum int, fields []float64) {
		feats = append(feats, PointFeature{X: float32(fields[0]), Y: float32(fields[1])})
	})
	if err != nil {
		return nil, err
	}
	return feats, nil
}

// LoadScaleOrientedFeatures reads a file of "x y scale orientation" lines.
func LoadScaleOrientedFeatures(path string) ([]ScaleOrientedFeature, error) {
	var feats []ScaleOrientedFeature
	err := loadLines(path, 4, func(lineNum int, fields []float64) {
		feats = append(feats, ScaleOrientedFeature{
			PointFeature: PointFeature{X: float32(fields[0]), Y: float32(fields[1])},
			Scale:        float32(fields[2]),
			Orientation:  float32(fields[3]),
		})
	})
	if err != nil {
		return nil, err
	}
	return feats, nil
}

// SavePointFeatures writes a file of "x y" lines.
func SavePointFeatures(path string, feats []PointFeature) error {
	return saveLines(path, len(feats), func(i int) string {
		return formatFloats(float64(feats[i].X), float64(feats[i].Y))
	})
}

// SaveScaleOrientedFeatures writes a file of "x y scale orientation" lines.
func SaveScaleOrientedFeatures(path string, feats []ScaleOrientedFeature) error {
	return saveLines(path, len(feats), func(i int) string {
		f := feats[i]
		return formatFloats(float64(f.X), float64(f.Y), float64(f.Scale), float64(f.Orientation))
	})
}

func loadLines(path string, wantFields int, add func(lineNum int, fields []float64)) error {
	//nolint:gosec
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrap(err, "error opening feature file")
	}
	defer goutils.UncheckedErrorFunc(f.Close)

	scanner := bufio.NewScanner(f)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.Split(line, " ")
		if len(fields) != wantFields {
			return errors.Wrapf(ErrCorruptFeatureFile,
				"%s line %d: expected %d fields, got %d", path, lineNum, wantFields, len(fields))
		}
		values := make([]float64, wantFields)
		for i, field := range fields {
			v, err := strconv.ParseFloat(field, 32)
			if err != nil {
				return errors.Wrapf(ErrCorruptFeatureFile, "%s line %d: %v", path, lineNum, err)
			}
			values[i] = v
		}
		add(lineNum, values)
	}
	if err := scanner.Err(); err != nil {
		return errors.Wrapf(ErrCorruptFeatureFile, "%s: %v", path, err)
	}
	return nil
}

func saveLines(path string, n int, line func(i int) string) (err error) {
	//nolint:gosec
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "error creating feature file")
	}
	defer func() {
		err = multierr.Combine(err, f.Close())
	}()

	w := bufio.NewWriter(f)
	for i := 0; i < n; i++ {
		if _, err := fmt.Fprintln(w, line(i)); err != nil {
			return errors.Wrap(err, "error writing feature file")
		}
	}
	return errors.Wrap(w.Flush(), "error writing feature file")
}

func formatFloats(values ...float64) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.FormatFloat(v, 'g', -1, 32)
	}
	return strings.Join(parts, " ")
}
