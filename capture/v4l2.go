package capture

import (
	"log/slog"

	"github.com/blackjack/webcam"
	"github.com/pkg/errors"
	"gocv.io/x/gocv"
)

// frame wait in seconds before a timeout is logged and the wait retried
const waitTimeout = 5

type v4l2Source struct {
	cam    *webcam.Webcam
	format webcam.PixelFormat
	width  int
	height int
}

func openV4L2(opt *Option) (*v4l2Source, error) {
	cam, err := webcam.Open(opt.Device)
	if err != nil {
		return nil, errors.Wrapf(err, "Can not open device %s", opt.Device)
	}

	format, err := pickFormat(cam.GetSupportedFormats())
	if err != nil {
		cam.Close()
		return nil, err
	}

	f, w, h, err := cam.SetImageFormat(format, uint32(opt.Width), uint32(opt.Height))
	if err != nil {
		cam.Close()
		return nil, errors.Wrap(err, "Can not set image format")
	}

	err = cam.StartStreaming()
	if err != nil {
		cam.Close()
		return nil, errors.Wrap(err, "Can not start streaming")
	}
	slog.Info("Capture started", "device", opt.Device, "format", formatName(f), "width", w, "height", h)

	return &v4l2Source{
		cam:    cam,
		format: f,
		width:  int(w),
		height: int(h),
	}, nil
}

func (c *v4l2Source) Read(dst *gocv.Mat) error {
	for {
		err := c.cam.WaitForFrame(waitTimeout)
		switch err.(type) {
		case nil:
		case *webcam.Timeout:
			slog.Warn("Timed out waiting for frame", "error", err)
			continue
		default:
			return errors.Wrap(ErrStopped, err.Error())
		}

		frame, err := c.cam.ReadFrame()
		if err != nil {
			return errors.Wrap(ErrStopped, err.Error())
		}
		if len(frame) == 0 {
			continue
		}

		return decodeFrame(c.format, c.width, c.height, frame, dst)
	}
}

func (c *v4l2Source) Close() error {
	return c.cam.Close()
}
