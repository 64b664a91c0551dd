package daygate

import (
	"context"
	"time"

	"oneline/internal/core/model"

	"go.uber.org/zap"
)

// Loader reads the persisted app data.
type Loader interface {
	Load(ctx context.Context) (model.AppData, error)
}

// CanDraw reports whether the day still accepts a drawing.
// Only a completed segment for that day blocks it.
func CanDraw(segments []model.LineSegment, dayID string) bool {
	for _, segment := range segments {
		if segment.ID == dayID && segment.Completed {
			return false
		}
	}
	return true
}

// CanDrawToday applies CanDraw to the day containing now.
func CanDrawToday(segments []model.LineSegment, now time.Time) bool {
	return CanDraw(segments, model.DayID(now))
}

// Check loads the stored segments and decides for the day containing now.
// Any load error allows drawing.
func Check(ctx context.Context, loader Loader, now time.Time, logger *zap.Logger) bool {
	data, err := loader.Load(ctx)
	return Decide(data, err, now, logger)
}

// Decide gives the verdict for an already finished load.
func Decide(data model.AppData, err error, now time.Time, logger *zap.Logger) bool {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err != nil {
		logger.Warn("day gate: load failed, allowing drawing", zap.Error(err))
		return true
	}
	return CanDrawToday(data.LineSegments, now)
}
