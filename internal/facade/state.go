package facade

import (
	"image"
	"time"

	"github.com/badukstudy/aicore/internal/vision/detect"
)

// Session holds the last uploaded image and detected corners for one
// recognition session, so a corner-drag or hint-only follow-up request
// does not need to re-transfer the source image across the async
// boundary: the façade transfers ownership of an input image buffer to
// the worker on the first upload, and reclassifyWithCorners /
// reclassifyWithHints reuse it from here.
type Session struct {
	ID        string
	Image     *image.RGBA
	Corners   detect.Quad
	CreatedAt time.Time
	UpdatedAt time.Time
}
