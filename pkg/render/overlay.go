// Package render draws the loop's state onto frames and shows them on a
// display surface.
package render

import (
	"fmt"
	"image"
	"image/color"

	"gocv.io/x/gocv"

	"github.com/teslashibe/facewatch/pkg/detection"
)

// Box and text colors.
var (
	ColorSame      = color.RGBA{0, 255, 0, 0}
	ColorDifferent = color.RGBA{255, 0, 0, 0}
	ColorExtra     = color.RGBA{255, 165, 0, 0}
)

// Overlay is everything Annotate needs to know about one iteration.
type Overlay struct {
	// Faces is the detection set for this frame.
	Faces detection.Set

	// Verified is true when the presence path ran and Dominant, SamePerson
	// and Similarity are meaningful.
	Verified   bool
	Dominant   detection.Region
	SamePerson bool
	Similarity float64

	Hits   int
	Window int
}

// StatusText returns the status line shown in the top-left corner.
func (o Overlay) StatusText() string {
	switch {
	case !o.Verified:
		return "Status: No Face Detected"
	case o.SamePerson:
		return fmt.Sprintf("Status: Same Person (Score: %.2f)", o.Similarity)
	default:
		return fmt.Sprintf("Status: Different Person (Score: %.2f)", o.Similarity)
	}
}

// ConfidenceText returns the debouncer hit count line.
func (o Overlay) ConfidenceText() string {
	return fmt.Sprintf("Detection confidence: %d/%d", o.Hits, o.Window)
}

func (o Overlay) statusColor() color.RGBA {
	if o.Verified && o.SamePerson {
		return ColorSame
	}
	return ColorDifferent
}

// FaceColor returns the box color for a face in the set.
func (o Overlay) FaceColor(r detection.Region) color.RGBA {
	if r.Rect != o.Dominant.Rect {
		return ColorExtra
	}
	if o.SamePerson {
		return ColorSame
	}
	return ColorDifferent
}

// Annotate returns a copy of img with the overlay drawn on it. img is not
// modified. The caller owns the returned Mat.
func Annotate(img gocv.Mat, o Overlay) gocv.Mat {
	out := img.Clone()

	if o.Verified {
		for _, face := range o.Faces {
			gocv.Rectangle(&out, face.Rect, o.FaceColor(face), 2)
		}
	}

	gocv.PutText(&out, o.StatusText(), image.Pt(10, 30), gocv.FontHersheySimplex, 0.7, o.statusColor(), 2)
	gocv.PutText(&out, o.ConfidenceText(), image.Pt(10, 60), gocv.FontHersheySimplex, 0.6, ColorExtra, 2)
	return out
}
