package monitor

import (
	"context"
	"image"
	"sync"
	"time"

	"gocv.io/x/gocv"

	"github.com/teslashibe/facewatch/pkg/alert"
	"github.com/teslashibe/facewatch/pkg/camera"
	"github.com/teslashibe/facewatch/pkg/detection"
	"github.com/teslashibe/facewatch/pkg/identity"
	"github.com/teslashibe/facewatch/pkg/render"
)

var t0 = time.Date(2026, 6, 1, 10, 0, 0, 0, time.Local)

// fakeSource yields small gray frames. script[i], when non-nil, is returned
// instead of a frame on read i.
type fakeSource struct {
	mu      sync.Mutex
	script  []error
	reads   int
	closed  int
	applied []camera.Config
}

func (s *fakeSource) Read(ctx context.Context) (camera.Frame, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.reads
	s.reads++
	if i < len(s.script) && s.script[i] != nil {
		return camera.Frame{}, s.script[i]
	}
	img := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(90, 90, 90, 0), 120, 160, gocv.MatTypeCV8UC3)
	return camera.Frame{Image: img, Captured: time.Now()}, nil
}

func (s *fakeSource) Apply(cfg camera.Config) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.applied = append(s.applied, cfg)
	return nil
}

func (s *fakeSource) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed++
	return nil
}

// readOnlySource hides fakeSource's Apply.
type readOnlySource struct{ src *fakeSource }

func (r readOnlySource) Read(ctx context.Context) (camera.Frame, error) { return r.src.Read(ctx) }
func (r readOnlySource) Close() error                                   { return r.src.Close() }

// fakeLocator calls LocateFunc with the zero-based call index.
type fakeLocator struct {
	LocateFunc func(n int) (detection.Set, error)
	calls      int
	closed     int
}

func (l *fakeLocator) Locate(camera.Frame) (detection.Set, error) {
	n := l.calls
	l.calls++
	if l.LocateFunc == nil {
		return nil, nil
	}
	return l.LocateFunc(n)
}

func (l *fakeLocator) Close() error {
	l.closed++
	return nil
}

var oneFace = detection.Set{{Rect: image.Rect(40, 30, 100, 90), Profile: detection.ProfileDefault}}

func alwaysFace(int) (detection.Set, error) { return oneFace, nil }
func neverFace(int) (detection.Set, error)  { return nil, nil }

// extractFunc adapts a function to identity.Extractor.
type extractFunc func(n int) (identity.Vector, error)

type countingExtractor struct {
	fn    extractFunc
	calls int
}

func (e *countingExtractor) Extract(camera.Frame, detection.Region) (identity.Vector, error) {
	n := e.calls
	e.calls++
	return e.fn(n)
}

func checker(phase int) identity.Vector {
	v := make(identity.Vector, 100)
	for i := range v {
		if (i+phase)%2 == 0 {
			v[i] = 1
		}
	}
	return v
}

func verifierWith(fn extractFunc) *identity.Verifier {
	return identity.NewVerifier(identity.DefaultConfig(), &countingExtractor{fn: fn})
}

func sameFace(int) (identity.Vector, error) { return checker(0), nil }

// recordingAlerter keeps dispatched events in order.
type recordingAlerter struct {
	mu     sync.Mutex
	events []alert.Event
}

func (a *recordingAlerter) Dispatch(ev alert.Event) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.events = append(a.events, ev)
}

func (a *recordingAlerter) kinds() []alert.Kind {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]alert.Kind, len(a.events))
	for i, ev := range a.events {
		out[i] = ev.Kind
	}
	return out
}

func (a *recordingAlerter) count(k alert.Kind) int {
	n := 0
	for _, got := range a.kinds() {
		if got == k {
			n++
		}
	}
	return n
}

// fakeSurface returns keys[i] on poll i and NoKey afterwards.
type fakeSurface struct {
	keys   []int
	polls  int
	shown  int
	closed int
}

func (s *fakeSurface) Show(gocv.Mat) error {
	s.shown++
	return nil
}

func (s *fakeSurface) PollKey() int {
	i := s.polls
	s.polls++
	if i < len(s.keys) {
		return s.keys[i]
	}
	return render.NoKey
}

func (s *fakeSurface) Close() error {
	s.closed++
	return nil
}

// recordingObserver keeps every status snapshot.
type recordingObserver struct {
	statuses []Status
	frames   int
}

func (o *recordingObserver) OnStatus(st Status) { o.statuses = append(o.statuses, st) }
func (o *recordingObserver) OnFrame(gocv.Mat)    { o.frames++ }

// stepClock advances by step on every call.
func stepClock(step time.Duration) func() time.Time {
	n := -1
	return func() time.Time {
		n++
		return t0.Add(time.Duration(n) * step)
	}
}

type harness struct {
	ctrl    *Controller
	source  *fakeSource
	locator *fakeLocator
	alerter *recordingAlerter
	surface *fakeSurface
}

func newHarness(locate func(int) (detection.Set, error), extract extractFunc) *harness {
	h := &harness{
		source:  &fakeSource{},
		locator: &fakeLocator{LocateFunc: locate},
		alerter: &recordingAlerter{},
		surface: &fakeSurface{},
	}
	cfg := DefaultConfig()
	cfg.RetryDelay = time.Millisecond
	h.ctrl = New(cfg, h.source, h.locator, verifierWith(extract), h.alerter, h.surface)
	h.ctrl.SetClock(stepClock(time.Second))
	return h
}
