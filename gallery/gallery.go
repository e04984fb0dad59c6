// Package gallery keeps the registered names and the face recognizer that was
// trained on their faces in lockstep. Label i of the recognizer is always the
// i-th registered name.
package gallery

import (
	"io"

	"github.com/pkg/errors"
)

// FaceSize is the width and height of every stored and matched face crop.
const FaceSize = 100

// Unknown is reported for faces that match nobody.
const Unknown = "Unknown"

// Face is a FaceSize x FaceSize single channel image, row by row.
type Face []byte

func (f Face) Valid() bool {
	return len(f) == FaceSize*FaceSize
}

// Matcher is a recognizer that is retrained from scratch on every Train call.
type Matcher interface {
	Train(faces []Face, labels []int) error
	Predict(face Face) (label int, distance float64, err error)
}

type Match struct {
	Name     string
	Label    int
	Distance float64
	Known    bool
}

type Gallery struct {
	matcher   Matcher
	threshold float64
	names     []string
	faces     []Face
}

func New(matcher Matcher, threshold float64) *Gallery {
	return &Gallery{
		matcher:   matcher,
		threshold: threshold,
	}
}

func (g *Gallery) Len() int { return len(g.names) }
func (g *Gallery) Trained() bool { return len(g.names) > 0 }

func (g *Gallery) Names() []string {
	return append([]string(nil), g.names...)
}

// Load replaces the whole gallery and retrains.
func (g *Gallery) Load(names []string, faces []Face) error {
	if len(names) != len(faces) {
		return errors.Errorf("got %d names for %d faces", len(names), len(faces))
	}
	return g.retrain(append([]string(nil), names...), append([]Face(nil), faces...))
}

// Add registers one more face and retrains on every known face. The gallery
// is left untouched when validation or training fails.
func (g *Gallery) Add(name string, face Face) error {
	names := make([]string, len(g.names), len(g.names)+1)
	copy(names, g.names)
	faces := make([]Face, len(g.faces), len(g.faces)+1)
	copy(faces, g.faces)
	return g.retrain(append(names, name), append(faces, face))
}

func (g *Gallery) retrain(names []string, faces []Face) error {
	for i, f := range faces {
		if !f.Valid() {
			return errors.Errorf("face %d of %q has %d bytes, want %d", i, names[i], len(f), FaceSize*FaceSize)
		}
	}

	if len(faces) > 0 {
		labels := make([]int, len(faces))
		for i := range labels {
			labels[i] = i
		}
		if err := g.matcher.Train(faces, labels); err != nil {
			return errors.Wrap(err, "Can not train recognizer")
		}
	}

	g.names = names
	g.faces = faces
	return nil
}

// Close releases the matcher when it holds native resources.
func (g *Gallery) Close() error {
	if c, ok := g.matcher.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// Identify returns the best match for face. An empty gallery never reaches
// the recognizer.
func (g *Gallery) Identify(face Face) (Match, error) {
	unknown := Match{Name: Unknown, Label: -1}
	if !g.Trained() {
		return unknown, nil
	}
	if !face.Valid() {
		return unknown, errors.Errorf("face has %d bytes, want %d", len(face), FaceSize*FaceSize)
	}

	label, distance, err := g.matcher.Predict(face)
	if err != nil {
		return unknown, errors.Wrap(err, "Can not predict")
	}
	if label < 0 || label >= len(g.names) {
		return unknown, errors.Errorf("recognizer returned label %d, only %d registered", label, len(g.names))
	}

	unknown.Distance = distance
	if distance >= g.threshold {
		return unknown, nil
	}
	return Match{
		Name:     g.names[label],
		Label:    label,
		Distance: distance,
		Known:    true,
	}, nil
}
