// Package regface runs the webcam registration kiosk: every frame is scanned
// for faces, each face is matched against the registered people, and a small
// keyboard form in the preview window registers the face currently in view.
package regface

import (
	"context"
	"image"
	"log/slog"

	"github.com/coreos/go-systemd/v22/daemon"
	"github.com/pkg/errors"
	"gocv.io/x/gocv"

	"github.com/abihf/regface/capture"
	"github.com/abihf/regface/config"
	"github.com/abihf/regface/detect"
	"github.com/abihf/regface/form"
	"github.com/abihf/regface/gallery"
	"github.com/abihf/regface/store"
)

var errNoFace = errors.New("no face in frame")

// display is the preview window. *gocv.Window satisfies it.
type display interface {
	IMShow(img gocv.Mat) error
	WaitKey(delay int) int
	Close() error
}

type Session struct {
	ctx     context.Context
	store   *store.Store
	cam     capture.Source
	locator detect.Locator
	gallery *gallery.Gallery
	window  display
	form    *form.Form

	frame gocv.Mat
	gray  gocv.Mat
	// crops of the faces located in the current frame, in detection order
	faces []gallery.Face
}

// Open acquires the database, the camera, the face locator and the preview
// window, and trains the recognizer on every stored registration.
func Open(ctx context.Context, conf *config.Config) (s *Session, err error) {
	s = &Session{
		ctx:   ctx,
		frame: gocv.NewMat(),
		gray:  gocv.NewMat(),
	}
	defer func() {
		if err != nil {
			s.Close()
			s = nil
		}
	}()

	s.store, err = store.Open(conf.Database)
	if err != nil {
		return s, err
	}

	s.gallery = gallery.New(gallery.NewLBPH(), conf.Threshold)
	if err = s.loadGallery(); err != nil {
		return s, err
	}

	s.locator, err = detect.New(conf)
	if err != nil {
		return s, err
	}

	s.cam, err = capture.Open(&capture.Option{
		Device:  conf.Device,
		Backend: conf.Backend,
		Width:   conf.Width,
		Height:  conf.Height,
	})
	if err != nil {
		return s, err
	}

	s.window = gocv.NewWindow(conf.Window)
	s.form = form.New(s.register)
	return s, nil
}

func (s *Session) loadGallery() error {
	records, err := s.store.LoadAll(s.ctx)
	if err != nil {
		return err
	}

	names := make([]string, 0, len(records))
	faces := make([]gallery.Face, 0, len(records))
	for i, r := range records {
		face := gallery.Face(r.Face)
		if !face.Valid() {
			slog.Warn("Skipping registration with malformed face", "row", i+1, "name", r.Name, "bytes", len(r.Face))
			continue
		}
		names = append(names, r.Name)
		faces = append(faces, face)
	}

	if err := s.gallery.Load(names, faces); err != nil {
		return errors.Wrap(err, "Can not load registered faces")
	}
	slog.Info("Loaded registered faces", "count", len(names))
	return nil
}

// Run processes frames until the cancel key is pressed or the camera stops.
func (s *Session) Run() error {
	daemon.SdNotify(false, daemon.SdNotifyReady)
	defer daemon.SdNotify(false, daemon.SdNotifyStopping)

	for {
		if err := s.cam.Read(&s.frame); err != nil {
			if errors.Is(err, capture.ErrStopped) {
				slog.Error("Failed to grab frame", "error", err)
				return nil
			}
			return err
		}
		// the key is polled even without a frame so cancel keeps working
		if !s.frame.Empty() {
			s.process()
			if err := s.window.IMShow(s.frame); err != nil {
				slog.Debug("Can not show frame", "error", err)
			}
		}

		if !s.form.HandleKey(s.window.WaitKey(1) & 0xFF) {
			return nil
		}
	}
}

func (s *Session) process() {
	s.faces = s.faces[:0]
	if err := gocv.CvtColor(s.frame, &s.gray, gocv.ColorBGRToGray); err != nil {
		slog.Warn("Can not convert frame to grayscale", "error", err)
		drawForm(&s.frame, s.form)
		return
	}
	rects := s.locator.Detect(s.frame, s.gray)

	for _, r := range rects {
		face, err := cropFace(s.gray, r)
		if err != nil {
			slog.Debug("Can not crop face", "rect", r, "error", err)
			continue
		}
		s.faces = append(s.faces, face)

		match, err := s.gallery.Identify(face)
		if err != nil {
			slog.Warn("Can not identify face", "error", err)
		}
		drawFace(&s.frame, r, match.Name)
	}

	drawForm(&s.frame, s.form)
}

// register stores the first face of the current frame under the entry. A
// storage failure abandons the registration and leaves the gallery as is.
func (s *Session) register(e form.Entry) error {
	if len(s.faces) == 0 {
		slog.Warn("No face in view, registration not committed", "name", e.Name)
		return errNoFace
	}
	face := s.faces[0]

	err := s.store.Append(s.ctx, store.Record{
		Name:  e.Name,
		Age:   e.Age,
		Email: e.Email,
		Face:  face,
	})
	if err != nil {
		slog.Error("Failed to store registration", "name", e.Name, "error", err)
		return err
	}

	if err := s.gallery.Add(e.Name, face); err != nil {
		// stored already, it will be picked up on the next start
		slog.Error("Failed to retrain recognizer", "name", e.Name, "error", err)
		return nil
	}

	slog.Info("Registered successfully", "name", e.Name, "known", s.gallery.Len())
	return nil
}

// Close releases everything Open acquired. It is safe on a partially opened
// session.
func (s *Session) Close() error {
	var firstErr error
	keep := func(err error) {
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}

	if s.window != nil {
		keep(s.window.Close())
	}
	if s.cam != nil {
		keep(s.cam.Close())
	}
	if s.locator != nil {
		keep(s.locator.Close())
	}
	if s.gallery != nil {
		keep(s.gallery.Close())
	}
	if s.store != nil {
		keep(s.store.Close())
	}
	keep(s.frame.Close())
	keep(s.gray.Close())
	return firstErr
}

// cropFace cuts r out of gray and scales it to the gallery face size.
func cropFace(gray gocv.Mat, r image.Rectangle) (gallery.Face, error) {
	r = r.Intersect(image.Rect(0, 0, gray.Cols(), gray.Rows()))
	if r.Empty() {
		return nil, errors.Errorf("face %v outside %dx%d frame", r, gray.Cols(), gray.Rows())
	}

	region := gray.Region(r)
	defer region.Close()

	resized := gocv.NewMat()
	defer resized.Close()
	err := gocv.Resize(region, &resized, image.Pt(gallery.FaceSize, gallery.FaceSize), 0, 0, gocv.InterpolationLinear)
	if err != nil {
		return nil, errors.Wrap(err, "Can not resize face")
	}

	return gallery.Face(resized.ToBytes()), nil
}
