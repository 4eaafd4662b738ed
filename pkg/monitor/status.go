package monitor

import (
	"image"
	"time"
)

// Box is a face rectangle in frame pixels.
type Box struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

func boxOf(r image.Rectangle) Box {
	return Box{X: r.Min.X, Y: r.Min.Y, W: r.Dx(), H: r.Dy()}
}

// Status is a value snapshot of one loop iteration, safe to hand to other
// goroutines.
type Status struct {
	Session string    `json:"session"`
	Frame   uint64    `json:"frame"`
	At      time.Time `json:"at"`

	Faces     []Box `json:"faces"`
	Hits      int   `json:"hits"`
	Window    int   `json:"window"`
	Confirmed bool  `json:"confirmed"`

	// Verified is true when the dominant face was compared this frame.
	Verified   bool    `json:"verified"`
	Enrolled   bool    `json:"enrolled"`
	SamePerson bool    `json:"samePerson"`
	Similarity float64 `json:"similarity"`

	AbsentSince *time.Time `json:"absentSince,omitempty"`
	Text        string     `json:"text"`
}
