package regface

import (
	"image"
	"image/color"

	"gocv.io/x/gocv"

	"github.com/abihf/regface/form"
)

var (
	green = color.RGBA{0, 255, 0, 0}
	white = color.RGBA{255, 255, 255, 0}
)

var formFields = []struct {
	stage form.Stage
	label string
}{
	{form.StageName, "Name"},
	{form.StageAge, "Age"},
	{form.StageEmail, "Email"},
}

func drawFace(img *gocv.Mat, r image.Rectangle, name string) {
	gocv.Rectangle(img, r, green, 2)
	gocv.PutText(img, name, image.Pt(r.Min.X, r.Min.Y-10), gocv.FontHersheySimplex, 0.5, white, 2)
}

func drawForm(img *gocv.Mat, f *form.Form) {
	for i, field := range formFields {
		gocv.PutText(img, formLine(f, field.stage, field.label), image.Pt(10, 30*(i+1)), gocv.FontHersheySimplex, 0.7, white, 2)
	}
}

// formLine renders one form field; the field being typed into gets a cursor.
func formLine(f *form.Form, stage form.Stage, label string) string {
	line := label + ": " + f.Field(stage)
	if f.Stage() == stage {
		line += "_"
	}
	return line
}
