// Package identity verifies that the face in frame is the same person who was
// first enrolled, using a cheap pixel-level descriptor rather than a learned
// embedding.
package identity

import (
	"image"

	"github.com/teslashibe/facewatch/pkg/camera"
	"github.com/teslashibe/facewatch/pkg/detection"
	"gocv.io/x/gocv"
)

// FaceSize is the edge length of the normalized face crop.
const FaceSize = 100

// VectorLen is the number of elements in a feature vector.
const VectorLen = FaceSize * FaceSize

// Vector is a flattened, equalized grayscale face crop scaled into [0,1].
// Vectors are never mutated after extraction.
type Vector []float32

// Extractor turns a face region into a feature vector.
type Extractor interface {
	Extract(frame camera.Frame, region detection.Region) (Vector, error)
}

// MatExtractor is the OpenCV-backed Extractor.
type MatExtractor struct{}

// ClampRect trims r to a w×h frame.
func ClampRect(r image.Rectangle, w, h int) image.Rectangle {
	return r.Canon().Intersect(image.Rect(0, 0, w, h))
}

// Extract crops the region, resizes it to FaceSize×FaceSize, converts it to
// grayscale, equalizes the histogram, flattens it row-major and divides by the
// brightest element.
func (MatExtractor) Extract(frame camera.Frame, region detection.Region) (Vector, error) {
	rect := ClampRect(region.Rect, frame.Width(), frame.Height())
	if rect.Empty() {
		return nil, ErrEmptyRegion
	}

	crop := frame.Image.Region(rect)
	defer crop.Close()

	resized := gocv.NewMat()
	defer resized.Close()
	gocv.Resize(crop, &resized, image.Pt(FaceSize, FaceSize), 0, 0, gocv.InterpolationLinear)

	gray := gocv.NewMat()
	defer gray.Close()
	if resized.Channels() == 1 {
		resized.CopyTo(&gray)
	} else {
		gocv.CvtColor(resized, &gray, gocv.ColorBGRToGray)
	}
	gocv.EqualizeHist(gray, &gray)

	return Normalize(gray.ToBytes()), nil
}

// Normalize converts 8-bit pixels to a Vector divided by its maximum.
// An all-zero input stays all zero.
func Normalize(pixels []byte) Vector {
	var peak byte
	for _, p := range pixels {
		if p > peak {
			peak = p
		}
	}

	v := make(Vector, len(pixels))
	if peak == 0 {
		return v
	}
	scale := 1 / float32(peak)
	for i, p := range pixels {
		v[i] = float32(p) * scale
	}
	return v
}
