// Package capture opens camera devices and hands out BGR frames one at a time.
package capture

import (
	"log/slog"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"gocv.io/x/gocv"
)

// ErrStopped is returned by Read once the device stops supplying frames.
var ErrStopped = errors.New("capture device stopped supplying frames")

const (
	BackendAuto   = "auto"
	BackendOpenCV = "opencv"
	BackendV4L2   = "v4l2"
)

type Source interface {
	// Read blocks until a frame is available and stores it in dst as BGR.
	Read(dst *gocv.Mat) error
	Close() error
}

type Option struct {
	Device  string
	Backend string
	Width   int
	Height  int
}

func Open(opt *Option) (Source, error) {
	backend, err := resolveBackend(opt.Device, opt.Backend)
	if err != nil {
		return nil, err
	}
	slog.Debug("Opening capture device", "device", opt.Device, "backend", backend)

	switch backend {
	case BackendV4L2:
		return openV4L2(opt)
	default:
		return openVideo(opt)
	}
}

func resolveBackend(device, backend string) (string, error) {
	switch backend {
	case "", BackendAuto:
		if strings.HasPrefix(device, "/dev/") {
			return BackendV4L2, nil
		}
		return BackendOpenCV, nil
	case BackendOpenCV, BackendV4L2:
		return backend, nil
	}
	return "", errors.Errorf("unknown capture backend %q", backend)
}

type videoSource struct {
	vc *gocv.VideoCapture
}

func openVideo(opt *Option) (*videoSource, error) {
	var (
		vc  *gocv.VideoCapture
		err error
	)
	if id, convErr := strconv.Atoi(opt.Device); convErr == nil {
		vc, err = gocv.OpenVideoCapture(id)
	} else {
		vc, err = gocv.OpenVideoCapture(opt.Device)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "Can not open device %s", opt.Device)
	}

	// best effort, drivers may pick something else
	vc.Set(gocv.VideoCaptureFrameWidth, float64(opt.Width))
	vc.Set(gocv.VideoCaptureFrameHeight, float64(opt.Height))
	slog.Info("Capture started",
		"device", opt.Device,
		"width", int(vc.Get(gocv.VideoCaptureFrameWidth)),
		"height", int(vc.Get(gocv.VideoCaptureFrameHeight)),
	)

	return &videoSource{vc: vc}, nil
}

func (v *videoSource) Read(dst *gocv.Mat) error {
	if ok := v.vc.Read(dst); !ok {
		return ErrStopped
	}
	return nil
}

func (v *videoSource) Close() error {
	return v.vc.Close()
}
