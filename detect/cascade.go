package detect

import (
	"image"

	"github.com/pkg/errors"
	"gocv.io/x/gocv"
)

type Cascade struct {
	classifier   gocv.CascadeClassifier
	scaleFactor  float64
	minNeighbors int
}

func NewCascade(file string, scaleFactor float64, minNeighbors int) (*Cascade, error) {
	classifier := gocv.NewCascadeClassifier()
	if !classifier.Load(file) {
		classifier.Close()
		return nil, errors.Errorf("Error reading cascade file: %v", file)
	}
	return &Cascade{
		classifier:   classifier,
		scaleFactor:  scaleFactor,
		minNeighbors: minNeighbors,
	}, nil
}

func (c *Cascade) Detect(_, gray gocv.Mat) []image.Rectangle {
	return c.classifier.DetectMultiScaleWithParams(
		gray,
		c.scaleFactor,
		c.minNeighbors,
		0,
		image.Point{},
		image.Point{},
	)
}

func (c *Cascade) Close() error {
	return c.classifier.Close()
}
