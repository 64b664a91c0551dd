package scene_test

import (
	"image/color"
	"testing"

	"oneline/internal/core/model"
	"oneline/internal/core/scene"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuild_SkipsIncompleteSegments(t *testing.T) {
	segments := []model.LineSegment{
		{ID: "2026-10-14", Completed: true, Path: []model.Point{{X: 100, Y: 200}, {X: 400, Y: 200}}, StartPoint: model.Point{X: 100, Y: 200}},
		{ID: "2026-10-15", Completed: false, Path: []model.Point{{X: 400, Y: 200}, {X: 900, Y: 900}}},
	}

	built := scene.Build(segments, nil, nil, nil)

	require.Len(t, built.Segments, 1)
	assert.Equal(t, "2026-10-14", built.Segments[0].ID)
	assert.Equal(t, []model.Point{{X: 100, Y: 200}}, built.Junctions)
	assert.Empty(t, built.Current.Points)
}

func TestBounds_IncludesMarkersAndCurrent(t *testing.T) {
	start := model.Point{X: 400, Y: 200}
	end := model.Point{X: 1050, Y: 200}
	segments := []model.LineSegment{
		{ID: "2026-10-15", Completed: true, Path: []model.Point{{X: 100, Y: 150}, {X: 400, Y: 200}}},
	}

	built := scene.Build(segments, []model.Point{{X: 420, Y: 260}}, &start, &end)
	bounds := built.Bounds()

	assert.Equal(t, scene.Rect{MinX: 100, MinY: 150, MaxX: 1050, MaxY: 260}, bounds)
	assert.Equal(t, 950.0, bounds.Width())
	assert.Equal(t, 110.0, bounds.Height())
}

func TestBounds_EmptyScene(t *testing.T) {
	built := scene.Build(nil, nil, nil, nil)

	assert.True(t, built.Empty())
	assert.Equal(t, scene.Rect{}, built.Bounds())
}

func TestParseHex(t *testing.T) {
	parsed, err := scene.ParseHex("#3B82F6")
	require.NoError(t, err)
	assert.Equal(t, color.NRGBA{R: 0x3b, G: 0x82, B: 0xf6, A: 255}, parsed)

	short, err := scene.ParseHex("#fff")
	require.NoError(t, err)
	assert.Equal(t, color.NRGBA{R: 255, G: 255, B: 255, A: 255}, short)

	_, err = scene.ParseHex("blue")
	assert.Error(t, err)
}
