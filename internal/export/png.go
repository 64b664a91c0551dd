package export

import (
	"fmt"
	"io"

	"oneline/internal/core/scene"

	"github.com/gogpu/gg"
)

// MaxImageSide caps the longest edge of an exported PNG in pixels.
const MaxImageSide = 4096.0

// PNG rasterizes the scene and writes it as a PNG image.
func PNG(w io.Writer, built scene.Scene, style scene.Style) error {
	page, err := fit(built, style, MaxImageSide)
	if err != nil {
		return err
	}
	stroke, err := gg.ParseHex(style.Color)
	if err != nil {
		return fmt.Errorf("parse line colour: %w", err)
	}
	background, err := gg.ParseHex(style.Background)
	if err != nil {
		return fmt.Errorf("parse background colour: %w", err)
	}

	dc := gg.NewContext(int(page.Width), int(page.Height))
	defer dc.Close()

	dc.ClearWithColor(background)
	dc.SetColor(stroke.Color())
	dc.SetLineWidth(page.length(style.LineWidth))
	dc.SetLineCap(gg.LineCapRound)
	dc.SetLineJoin(gg.LineJoinRound)

	for _, line := range polylines(built) {
		if err := strokePolyline(dc, page, line); err != nil {
			return err
		}
	}

	if style.ShowJunctions {
		for _, junction := range built.Junctions {
			x, y := page.point(junction)
			dc.DrawCircle(x, y, page.length(style.JunctionRadius))
			if err := dc.Fill(); err != nil {
				return fmt.Errorf("fill junction: %w", err)
			}
		}
	}

	if built.Start != nil {
		x, y := page.point(*built.Start)
		dc.DrawCircle(x, y, page.length(style.MarkerRadius))
		if err := dc.Fill(); err != nil {
			return fmt.Errorf("fill start marker: %w", err)
		}
	}
	if built.End != nil {
		x, y := page.point(*built.End)
		dc.DrawCircle(x, y, page.length(style.MarkerRadius))
		if err := dc.Stroke(); err != nil {
			return fmt.Errorf("stroke end marker: %w", err)
		}
	}

	if err := dc.EncodePNG(w); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

func strokePolyline(dc *gg.Context, page layout, line scene.Polyline) error {
	if len(line.Points) == 0 {
		return nil
	}
	x, y := page.point(line.Points[0])
	dc.MoveTo(x, y)
	if len(line.Points) == 1 {
		dc.LineTo(x, y)
	}
	for _, point := range line.Points[1:] {
		dc.LineTo(page.point(point))
	}
	if err := dc.Stroke(); err != nil {
		return fmt.Errorf("stroke segment %s: %w", line.ID, err)
	}
	return nil
}
