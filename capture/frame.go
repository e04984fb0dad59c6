package capture

import (
	"github.com/blackjack/webcam"
	"github.com/pkg/errors"
	"gocv.io/x/gocv"
)

// V4L2 fourcc codes
const (
	formatYUYV webcam.PixelFormat = 'Y' | 'U'<<8 | 'Y'<<16 | 'V'<<24
	formatGrey webcam.PixelFormat = 'G' | 'R'<<8 | 'E'<<16 | 'Y'<<24
)

// formats in order of preference
var supportedFormats = []webcam.PixelFormat{formatYUYV, formatGrey}

func pickFormat(available map[webcam.PixelFormat]string) (webcam.PixelFormat, error) {
	for _, f := range supportedFormats {
		if _, ok := available[f]; ok {
			return f, nil
		}
	}
	return 0, errors.Errorf("device supports none of %v", formatNames(supportedFormats))
}

func formatName(f webcam.PixelFormat) string {
	return string([]byte{byte(f), byte(f >> 8), byte(f >> 16), byte(f >> 24)})
}

func formatNames(fs []webcam.PixelFormat) []string {
	names := make([]string, len(fs))
	for i, f := range fs {
		names[i] = formatName(f)
	}
	return names
}

func bytesPerPixel(f webcam.PixelFormat) int {
	switch f {
	case formatYUYV:
		return 2
	case formatGrey:
		return 1
	}
	return 0
}

// frameLen is the number of meaningful bytes in a frame; drivers may pad
// the buffer beyond it.
func frameLen(f webcam.PixelFormat, width, height int) int {
	return bytesPerPixel(f) * width * height
}

func decodeFrame(f webcam.PixelFormat, width, height int, buf []byte, dst *gocv.Mat) error {
	n := frameLen(f, width, height)
	if n == 0 {
		return errors.Errorf("unsupported pixel format %s", formatName(f))
	}
	if len(buf) < n {
		return errors.Errorf("short frame: got %d bytes, want %d", len(buf), n)
	}

	var (
		matType gocv.MatType
		code    gocv.ColorConversionCode
	)
	switch f {
	case formatYUYV:
		matType, code = gocv.MatTypeCV8UC2, gocv.ColorYUVToBGRYUY2
	default:
		matType, code = gocv.MatTypeCV8UC1, gocv.ColorGrayToBGR
	}

	raw, err := gocv.NewMatFromBytes(height, width, matType, buf[:n])
	if err != nil {
		return errors.Wrap(err, "Can not decode image")
	}
	defer raw.Close()

	if err := gocv.CvtColor(raw, dst, code); err != nil {
		return errors.Wrap(err, "Can not convert frame")
	}
	return nil
}
