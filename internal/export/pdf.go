package export

import (
	"fmt"
	"io"

	"oneline/internal/core/scene"

	"github.com/jung-kurt/gofpdf"
)

// MaxPageSide caps the longest page edge of an exported PDF in points.
const MaxPageSide = 1190.0

// PDF writes the scene as a single vector page sized to fit it.
func PDF(w io.Writer, built scene.Scene, style scene.Style) error {
	page, err := fit(built, style, MaxPageSide)
	if err != nil {
		return err
	}
	stroke, err := scene.ParseHex(style.Color)
	if err != nil {
		return fmt.Errorf("parse line colour: %w", err)
	}
	background, err := scene.ParseHex(style.Background)
	if err != nil {
		return fmt.Errorf("parse background colour: %w", err)
	}

	doc := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           gofpdf.SizeType{Wd: page.Width, Ht: page.Height},
	})
	doc.SetMargins(0, 0, 0)
	doc.SetAutoPageBreak(false, 0)
	doc.AddPage()

	doc.SetFillColor(int(background.R), int(background.G), int(background.B))
	doc.Rect(0, 0, page.Width, page.Height, "F")

	doc.SetDrawColor(int(stroke.R), int(stroke.G), int(stroke.B))
	doc.SetFillColor(int(stroke.R), int(stroke.G), int(stroke.B))
	doc.SetLineWidth(page.length(style.LineWidth))
	doc.SetLineCapStyle("round")
	doc.SetLineJoinStyle("round")

	for _, line := range polylines(built) {
		for i := 1; i < len(line.Points); i++ {
			x1, y1 := page.point(line.Points[i-1])
			x2, y2 := page.point(line.Points[i])
			doc.Line(x1, y1, x2, y2)
		}
	}

	if style.ShowJunctions {
		for _, junction := range built.Junctions {
			x, y := page.point(junction)
			doc.Circle(x, y, page.length(style.JunctionRadius), "F")
		}
	}
	if built.Start != nil {
		x, y := page.point(*built.Start)
		doc.Circle(x, y, page.length(style.MarkerRadius), "F")
	}
	if built.End != nil {
		x, y := page.point(*built.End)
		doc.Circle(x, y, page.length(style.MarkerRadius), "D")
	}

	if err := doc.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}
