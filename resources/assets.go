package resources

import (
	"bytes"
	"fmt"
	"sync"

	"fyne.io/fyne/v2"
	"github.com/gogpu/gg"
)

const iconSize = 256

// Icon names.
const (
	AppIcon    = "oneline.png"
	LockedIcon = "oneline-locked.png"
)

var iconCache sync.Map

type iconPainter func(dc *gg.Context) error

var painters = map[string]iconPainter{
	AppIcon:    paintAppIcon,
	LockedIcon: paintLockedIcon,
}

// Icon returns a Fyne resource for the given icon name.
func Icon(name string) (fyne.Resource, error) {
	return loadResource(name, &iconCache)
}

// MustIcon returns a Fyne resource or panics on error.
func MustIcon(name string) fyne.Resource {
	resource, err := Icon(name)
	if err != nil {
		panic(err)
	}
	return resource
}

func loadResource(name string, cache *sync.Map) (fyne.Resource, error) {
	if cached, ok := cache.Load(name); ok {
		return cached.(fyne.Resource), nil
	}

	paint, ok := painters[name]
	if !ok {
		return nil, fmt.Errorf("load resource %s: unknown icon", name)
	}
	data, err := render(paint)
	if err != nil {
		return nil, fmt.Errorf("load resource %s: %w", name, err)
	}

	resource := fyne.NewStaticResource(name, data)
	cache.Store(name, resource)
	return resource, nil
}

func render(paint iconPainter) ([]byte, error) {
	dc := gg.NewContext(iconSize, iconSize)
	defer dc.Close()

	dc.ClearWithColor(gg.RGBA{})
	if err := paint(dc); err != nil {
		return nil, err
	}
	var out bytes.Buffer
	if err := dc.EncodePNG(&out); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return out.Bytes(), nil
}

// paintAppIcon draws a wavy stroke from a filled start dot to an open end ring.
func paintAppIcon(dc *gg.Context) error {
	dc.SetHexColor("#3B82F6")
	dc.SetLineWidth(18)
	dc.SetLineCap(gg.LineCapRound)
	dc.SetLineJoin(gg.LineJoinRound)
	dc.MoveTo(48, 160)
	dc.LineTo(96, 112)
	dc.LineTo(144, 152)
	dc.LineTo(208, 96)
	if err := dc.Stroke(); err != nil {
		return fmt.Errorf("stroke line: %w", err)
	}

	dc.DrawCircle(48, 160, 24)
	if err := dc.Fill(); err != nil {
		return fmt.Errorf("fill start: %w", err)
	}
	dc.SetLineWidth(10)
	dc.DrawCircle(208, 96, 24)
	if err := dc.Stroke(); err != nil {
		return fmt.Errorf("stroke end: %w", err)
	}
	return nil
}

// paintLockedIcon is the app icon in grey with a check mark, shown once
// today's line is done.
func paintLockedIcon(dc *gg.Context) error {
	dc.SetHexColor("#9CA3AF")
	dc.SetLineWidth(18)
	dc.SetLineCap(gg.LineCapRound)
	dc.SetLineJoin(gg.LineJoinRound)
	dc.MoveTo(48, 160)
	dc.LineTo(96, 112)
	dc.LineTo(144, 152)
	dc.LineTo(208, 96)
	if err := dc.Stroke(); err != nil {
		return fmt.Errorf("stroke line: %w", err)
	}

	dc.SetHexColor("#10B981")
	dc.SetLineWidth(22)
	dc.MoveTo(120, 200)
	dc.LineTo(152, 228)
	dc.LineTo(216, 168)
	if err := dc.Stroke(); err != nil {
		return fmt.Errorf("stroke check: %w", err)
	}
	return nil
}
