package detect

import (
	"image"

	"github.com/pkg/errors"
	"gocv.io/x/gocv"
)

// SSD output rows are [image, class, confidence, left, top, right, bottom]
// with coordinates relative to the frame.
const ssdRowLen = 7

// DNN runs a Caffe single shot detector such as res10_300x300_ssd.
type DNN struct {
	net        gocv.Net
	confidence float32
}

func NewDNN(prototxt, model string, confidence float64) (*DNN, error) {
	net := gocv.ReadNetFromCaffe(prototxt, model)
	if net.Empty() {
		net.Close()
		return nil, errors.Errorf("Error reading network %v / %v", prototxt, model)
	}
	return &DNN{net: net, confidence: float32(confidence)}, nil
}

func (d *DNN) Detect(color, _ gocv.Mat) []image.Rectangle {
	blob := gocv.BlobFromImage(color, 1, image.Pt(300, 300),
		gocv.NewScalar(104, 177, 123, 0), false, false)
	defer blob.Close()

	d.net.SetInput(blob, "data")

	out := d.net.Forward("detection_out")
	defer out.Close()

	res := out.Reshape(1, out.Total()/ssdRowLen)
	defer res.Close()

	return parseDetections(res, d.confidence, color.Cols(), color.Rows())
}

// parseDetections reads an N x 7 float matrix of SSD detections.
func parseDetections(res gocv.Mat, minConfidence float32, cols, rows int) []image.Rectangle {
	w, h := float32(cols), float32(rows)
	var faces []image.Rectangle

	for i := 0; i < res.Rows(); i++ {
		if res.GetFloatAt(i, 2) < minConfidence {
			continue
		}
		r := image.Rect(
			int(res.GetFloatAt(i, 3)*w),
			int(res.GetFloatAt(i, 4)*h),
			int(res.GetFloatAt(i, 5)*w),
			int(res.GetFloatAt(i, 6)*h),
		)
		if r = clamp(r, cols, rows); !r.Empty() {
			faces = append(faces, r)
		}
	}
	return faces
}

func (d *DNN) Close() error {
	return d.net.Close()
}
