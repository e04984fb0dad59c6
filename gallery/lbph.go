package gallery

import (
	"github.com/pkg/errors"
	"gocv.io/x/gocv"
	"gocv.io/x/gocv/contrib"
)

// LBPH is a Matcher backed by OpenCV's local binary pattern histogram face
// recognizer. It needs OpenCV built with the contrib face module.
type LBPH struct {
	rec *contrib.LBPHFaceRecognizer
}

func NewLBPH() *LBPH {
	return &LBPH{rec: contrib.NewLBPHFaceRecognizer()}
}

func (l *LBPH) Train(faces []Face, labels []int) error {
	// OpenCV indexes the first sample unconditionally
	if len(faces) == 0 || len(labels) == 0 {
		return errors.New("no faces to train on")
	}

	mats := make([]gocv.Mat, 0, len(faces))
	defer func() {
		for _, m := range mats {
			m.Close()
		}
	}()

	for i, f := range faces {
		mat, err := toMat(f)
		if err != nil {
			return errors.Wrapf(err, "face %d", i)
		}
		mats = append(mats, mat)
	}

	// Train drops whatever the recognizer learned before.
	if err := l.rec.Train(mats, labels); err != nil {
		return errors.Wrap(err, "Can not train recognizer")
	}
	return nil
}

func (l *LBPH) Predict(face Face) (int, float64, error) {
	mat, err := toMat(face)
	if err != nil {
		return -1, 0, err
	}
	defer mat.Close()

	res := l.rec.PredictExtendedResponse(mat)
	return int(res.Label), float64(res.Confidence), nil
}

// Close releases the native recognizer.
func (l *LBPH) Close() error {
	return l.rec.Close()
}

func toMat(f Face) (gocv.Mat, error) {
	if !f.Valid() {
		return gocv.Mat{}, errors.Errorf("face has %d bytes, want %d", len(f), FaceSize*FaceSize)
	}
	mat, err := gocv.NewMatFromBytes(FaceSize, FaceSize, gocv.MatTypeCV8UC1, f)
	if err != nil {
		return gocv.Mat{}, errors.Wrap(err, "Can not build face matrix")
	}
	return mat, nil
}
