package capture

import (
	"testing"

	"github.com/blackjack/webcam"
	"gocv.io/x/gocv"
)

func TestResolveBackend(t *testing.T) {
	tests := []struct {
		device  string
		backend string
		want    string
	}{
		{"0", "", BackendOpenCV},
		{"0", BackendAuto, BackendOpenCV},
		{"/dev/video2", BackendAuto, BackendV4L2},
		{"/dev/video2", BackendOpenCV, BackendOpenCV},
		{"rtsp://cam.local/stream", BackendAuto, BackendOpenCV},
		{"1", BackendV4L2, BackendV4L2},
	}

	for _, tt := range tests {
		got, err := resolveBackend(tt.device, tt.backend)
		if err != nil {
			t.Errorf("%s/%s: unexpected error %v", tt.device, tt.backend, err)
			continue
		}
		if got != tt.want {
			t.Errorf("%s/%s: expected %s, got %s", tt.device, tt.backend, tt.want, got)
		}
	}
}

func TestResolveBackend_Unknown(t *testing.T) {
	if _, err := resolveBackend("0", "directshow"); err == nil {
		t.Error("expected error for unknown backend")
	}
}

func TestPickFormat_PrefersYUYV(t *testing.T) {
	available := map[webcam.PixelFormat]string{
		formatGrey: "GREY",
		formatYUYV: "YUYV 4:2:2",
	}

	f, err := pickFormat(available)
	if err != nil {
		t.Fatal(err)
	}
	if f != formatYUYV {
		t.Errorf("expected YUYV, got %s", formatName(f))
	}
}

func TestPickFormat_NoneSupported(t *testing.T) {
	mjpg := webcam.PixelFormat('M' | 'J'<<8 | 'P'<<16 | 'G'<<24)

	if _, err := pickFormat(map[webcam.PixelFormat]string{mjpg: "MJPEG"}); err == nil {
		t.Error("expected error when no format is supported")
	}
}

func TestFormatName(t *testing.T) {
	if got := formatName(formatYUYV); got != "YUYV" {
		t.Errorf("expected YUYV, got %s", got)
	}
	if got := formatName(formatGrey); got != "GREY" {
		t.Errorf("expected GREY, got %s", got)
	}
}

func TestDecodeFrame_Grey(t *testing.T) {
	buf := make([]byte, 8*4+10) // padded
	dst := gocv.NewMat()
	defer dst.Close()

	if err := decodeFrame(formatGrey, 8, 4, buf, &dst); err != nil {
		t.Fatal(err)
	}
	if dst.Rows() != 4 || dst.Cols() != 8 || dst.Channels() != 3 {
		t.Errorf("expected 4x8x3, got %dx%dx%d", dst.Rows(), dst.Cols(), dst.Channels())
	}
}

func TestDecodeFrame_Short(t *testing.T) {
	dst := gocv.NewMat()
	defer dst.Close()

	if err := decodeFrame(formatYUYV, 8, 4, make([]byte, 10), &dst); err == nil {
		t.Error("expected error for short frame")
	}
}
