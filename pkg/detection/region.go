// Package detection locates faces in camera frames with an ensemble of Haar
// cascade profiles and fuses their proposals into one deduplicated set.
package detection

import "image"

// Profile names the cascade configuration that produced a region.
type Profile string

// Built-in cascade profiles, named after the OpenCV cascade files they load.
const (
	ProfileDefault Profile = "frontalface_default"
	ProfileAlt     Profile = "frontalface_alt"
	ProfileAlt2    Profile = "frontalface_alt2"
)

// Region is one face rectangle in frame pixel coordinates.
type Region struct {
	Rect    image.Rectangle
	Profile Profile
}

// Area returns the area of the bounding box in pixels.
func (r Region) Area() int {
	return r.Rect.Dx() * r.Rect.Dy()
}

// Set is the deduplicated list of regions found in one frame.
type Set []Region

// Dominant returns the region with the largest area.
// Ties go to the region that appears first.
func (s Set) Dominant() (Region, bool) {
	if len(s) == 0 {
		return Region{}, false
	}

	best := 0
	for i := 1; i < len(s); i++ {
		if s[i].Area() > s[best].Area() {
			best = i
		}
	}
	return s[best], true
}

// Rects returns the bare rectangles of the set.
func (s Set) Rects() []image.Rectangle {
	rects := make([]image.Rectangle, len(s))
	for i, r := range s {
		rects[i] = r.Rect
	}
	return rects
}
