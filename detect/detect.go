// Package detect locates faces in camera frames.
package detect

import (
	"image"
	"os"

	"github.com/pkg/errors"
	"gocv.io/x/gocv"

	"github.com/abihf/regface/config"
)

type Locator interface {
	// Detect returns face rectangles within the frame. color is BGR, gray
	// is the same frame converted to a single channel.
	Detect(color, gray gocv.Mat) []image.Rectangle
	Close() error
}

// New builds the locator selected by conf.Detector. Missing model files are
// reported with the path and the config key that points at it.
func New(conf *config.Config) (Locator, error) {
	switch conf.Detector {
	case "cascade":
		if err := requireFile(conf.CascadeFile, "cascade_file"); err != nil {
			return nil, err
		}
		return NewCascade(conf.CascadeFile, conf.ScaleFactor, conf.MinNeighbors)
	case "dnn":
		if err := requireFile(conf.DNNConfig, "dnn_config"); err != nil {
			return nil, err
		}
		if err := requireFile(conf.DNNModel, "dnn_model"); err != nil {
			return nil, err
		}
		return NewDNN(conf.DNNConfig, conf.DNNModel, conf.DNNConfidence)
	}
	return nil, errors.Errorf("unknown detector %q, use cascade or dnn", conf.Detector)
}

func requireFile(path, key string) error {
	if path == "" {
		return errors.Errorf("%s is not set", key)
	}
	if _, err := os.Stat(path); err != nil {
		return errors.Wrapf(err, "Model file %s not found, install the OpenCV data files or set %s", path, key)
	}
	return nil
}

func clamp(r image.Rectangle, cols, rows int) image.Rectangle {
	return r.Intersect(image.Rect(0, 0, cols, rows))
}
