// Package monitor runs the face presence and identity continuity loop:
// capture, detect, debounce, verify, alert, render, and handle commands.
package monitor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"gocv.io/x/gocv"

	"github.com/teslashibe/facewatch/internal/log"
	"github.com/teslashibe/facewatch/pkg/alert"
	"github.com/teslashibe/facewatch/pkg/camera"
	fwdebug "github.com/teslashibe/facewatch/pkg/debug"
	"github.com/teslashibe/facewatch/pkg/detection"
	"github.com/teslashibe/facewatch/pkg/identity"
	"github.com/teslashibe/facewatch/pkg/presence"
	"github.com/teslashibe/facewatch/pkg/render"
)

// Alerter receives the alerts the loop decides to emit. It must not block.
type Alerter interface {
	Dispatch(ev alert.Event)
}

// Observer mirrors the loop for the dashboard. Both methods run on the loop
// goroutine and must return quickly. The Mat passed to OnFrame is only valid
// for the duration of the call.
type Observer interface {
	OnStatus(st Status)
	OnFrame(annotated gocv.Mat)
}

// Controller owns the loop state. Everything except Submit,
// ReconfigureSource, Status, Session and Close must be called from the
// goroutine running Run.
type Controller struct {
	config  Config
	session string
	logger  *slog.Logger

	source   camera.Source
	locator  detection.Locator
	verifier *identity.Verifier
	alerter  Alerter
	surface  render.Surface

	debouncer *presence.Debouncer
	throttle  *alert.Throttle

	now   func() time.Time
	frame uint64

	commands chan Command

	pendingMu sync.Mutex
	pending   *camera.Config

	observersMu sync.RWMutex
	observers   []Observer

	statusMu sync.RWMutex
	status   Status

	running   atomic.Bool
	closeOnce sync.Once
	closeErr  error
}

// New creates a controller. The controller takes ownership of source,
// locator and surface and releases them in Close.
func New(cfg Config, source camera.Source, locator detection.Locator, verifier *identity.Verifier, alerter Alerter, surface render.Surface) *Controller {
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = DefaultRetryDelay
	}
	if surface == nil {
		surface = render.Headless{}
	}
	session := uuid.NewString()
	return &Controller{
		config:    cfg,
		session:   session,
		logger:    log.With("component", "monitor", "session", session),
		source:    source,
		locator:   locator,
		verifier:  verifier,
		alerter:   alerter,
		surface:   surface,
		debouncer: presence.NewDebouncer(cfg.Presence),
		throttle:  alert.NewThrottle(cfg.Cooldown, cfg.Policy),
		now:       time.Now,
		commands:  make(chan Command, 16),
	}
}

// SetClock replaces the time source used for throttling. For tests.
func (c *Controller) SetClock(now func() time.Time) {
	c.now = now
}

// AddObserver registers o for status snapshots and annotated frames.
func (c *Controller) AddObserver(o Observer) {
	c.observersMu.Lock()
	defer c.observersMu.Unlock()
	c.observers = append(c.observers, o)
}

// Session returns the id of this monitoring session.
func (c *Controller) Session() string {
	return c.session
}

// Status returns the most recent snapshot.
func (c *Controller) Status() Status {
	c.statusMu.RLock()
	defer c.statusMu.RUnlock()
	return c.status
}

// Running reports whether Run is active.
func (c *Controller) Running() bool {
	return c.running.Load()
}

// Submit queues a command for the loop. It reports false if the queue is
// full and the command was dropped.
func (c *Controller) Submit(cmd Command) bool {
	select {
	case c.commands <- cmd:
		return true
	default:
		c.logger.Warn("command queue full, dropping command", "command", cmd)
		return false
	}
}

// ReconfigureSource queues new capture settings. They are applied on the
// loop goroutine after the current iteration; only the latest request is
// kept.
func (c *Controller) ReconfigureSource(cfg camera.Config) error {
	if _, ok := c.source.(camera.Configurable); !ok {
		return fmt.Errorf("monitor: frame source does not accept camera settings")
	}
	c.pendingMu.Lock()
	c.pending = &cfg
	c.pendingMu.Unlock()
	return nil
}

// Run loops until a quit command, context cancellation, or a fatal error.
// Transient errors are logged and retried after RetryDelay. Run always
// releases the frame source, detector and surface before returning.
func (c *Controller) Run(ctx context.Context) (err error) {
	c.running.Store(true)
	defer c.running.Store(false)
	defer c.Close()
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("loop panicked", "panic", r, "stack", string(debug.Stack()))
			err = &FatalError{Op: "panic", Err: fmt.Errorf("%v", r)}
		}
	}()

	c.logger.Info("monitor started",
		"window", c.config.Presence.Window,
		"min_hits", c.config.Presence.MinHits,
		"cooldown", c.config.Cooldown,
		"policy", c.throttle.Policy(),
		"threshold", c.verifier.Threshold())

	for {
		if ctx.Err() != nil {
			c.logger.Info("monitor stopped", "reason", ctx.Err())
			return nil
		}

		quit, stepErr := c.Step(ctx)
		if quit {
			c.logger.Info("monitor stopped", "reason", "quit")
			return nil
		}
		if stepErr == nil {
			continue
		}

		switch {
		case ctx.Err() != nil:
			c.logger.Info("monitor stopped", "reason", ctx.Err())
			return nil
		case errors.Is(stepErr, camera.ErrExhausted):
			c.logger.Info("monitor stopped", "reason", "frame source exhausted")
			return nil
		case IsTransient(stepErr):
			c.logger.Warn("transient error, retrying", "error", stepErr, "delay", c.config.RetryDelay)
			select {
			case <-ctx.Done():
			case <-time.After(c.config.RetryDelay):
			}
		default:
			fe := fatal(stepErr)
			c.logger.Error("monitor failed", "op", fe.Op, "error", fe.Err)
			return fe
		}
	}
}

// Step runs one iteration and then handles queued commands and pending
// camera settings. Commands are handled even when the frame work failed,
// so the operator can always quit.
func (c *Controller) Step(ctx context.Context) (quit bool, err error) {
	quit, err = c.process(ctx)
	if quit {
		return true, nil
	}
	if c.drainCommands() {
		return true, nil
	}
	if applyErr := c.applyPending(); applyErr != nil {
		c.logger.Warn("camera settings not applied", "error", applyErr)
	}
	return false, err
}

func (c *Controller) process(ctx context.Context) (bool, error) {
	frame, err := c.source.Read(ctx)
	if err != nil {
		return c.pollKey(), wrapStep("read", err)
	}
	defer frame.Close()

	c.frame++
	now := c.now()

	faces, err := c.locator.Locate(frame)
	if err != nil {
		return c.pollKey(), wrapStep("detect", err)
	}

	confirmed := c.debouncer.Update(len(faces) > 0)
	overlay := render.Overlay{
		Faces:  faces,
		Hits:   c.debouncer.Count(),
		Window: c.debouncer.Window(),
	}

	dominant, ok := faces.Dominant()
	if confirmed && ok {
		c.throttle.Present()

		state, err := c.verifier.Observe(frame, dominant)
		if err != nil {
			return c.pollKey(), wrapStep("verify", err)
		}

		switch {
		case state.Registered:
			c.logger.Info("reference face registered", "frame", c.frame)
			c.alerter.Dispatch(alert.Event{Kind: alert.KindRegistered, At: now, Similarity: state.Similarity})
		case !state.SamePerson && c.throttle.Mismatch(now):
			c.alerter.Dispatch(alert.Event{Kind: alert.KindMismatch, At: now, Similarity: state.Similarity})
		}

		overlay.Verified = true
		overlay.Dominant = dominant
		overlay.SamePerson = state.SamePerson
		overlay.Similarity = state.Similarity
	} else if c.throttle.Absent(now) {
		c.alerter.Dispatch(alert.Event{Kind: alert.KindMissing, At: now})
	}

	fwdebug.Log("frame processed",
		"frame", c.frame,
		"faces", len(faces),
		"hits", overlay.Hits,
		"confirmed", confirmed,
		"verified", overlay.Verified,
		"similarity", overlay.Similarity)

	annotated := render.Annotate(frame.Image, overlay)
	defer annotated.Close()

	if err := c.surface.Show(annotated); err != nil {
		return false, wrapStep("display", err)
	}

	c.publish(c.snapshot(now, confirmed, overlay), annotated)
	return c.pollKey(), nil
}

func (c *Controller) snapshot(now time.Time, confirmed bool, o render.Overlay) Status {
	st := Status{
		Session:    c.session,
		Frame:      c.frame,
		At:         now,
		Faces:      make([]Box, len(o.Faces)),
		Hits:       o.Hits,
		Window:     o.Window,
		Confirmed:  confirmed,
		Verified:   o.Verified,
		Enrolled:   c.verifier.Enrolled(),
		SamePerson: o.SamePerson,
		Similarity: o.Similarity,
		Text:       o.StatusText(),
	}
	for i, f := range o.Faces {
		st.Faces[i] = boxOf(f.Rect)
	}
	if since, absent := c.throttle.AbsentSince(); absent {
		st.AbsentSince = &since
	}
	return st
}

func (c *Controller) publish(st Status, annotated gocv.Mat) {
	c.statusMu.Lock()
	c.status = st
	c.statusMu.Unlock()

	c.observersMu.RLock()
	observers := c.observers
	c.observersMu.RUnlock()

	for _, o := range observers {
		o.OnStatus(st)
		o.OnFrame(annotated)
	}
}

// pollKey reads the surface keyboard and handles the key. It reports
// whether the loop should quit.
func (c *Controller) pollKey() bool {
	cmd, ok := ParseKey(c.surface.PollKey())
	if !ok {
		return false
	}
	return c.handle(cmd)
}

func (c *Controller) drainCommands() bool {
	for {
		select {
		case cmd := <-c.commands:
			if c.handle(cmd) {
				return true
			}
		default:
			return false
		}
	}
}

// handle applies cmd and reports whether the loop should quit.
func (c *Controller) handle(cmd Command) bool {
	switch cmd {
	case CommandQuit:
		return true
	case CommandReset:
		c.verifier.Reset()
		c.logger.Info("reference face reset")
	}
	return false
}

func (c *Controller) applyPending() error {
	c.pendingMu.Lock()
	cfg := c.pending
	c.pending = nil
	c.pendingMu.Unlock()

	if cfg == nil {
		return nil
	}
	src, ok := c.source.(camera.Configurable)
	if !ok {
		return fmt.Errorf("monitor: frame source does not accept camera settings")
	}
	if err := src.Apply(*cfg); err != nil {
		return err
	}
	c.logger.Info("camera settings applied", "width", cfg.Width, "height", cfg.Height, "fps", cfg.Framerate)
	return nil
}

// Close releases the frame source, the detector and the display surface.
// Only the first call has an effect.
func (c *Controller) Close() error {
	c.closeOnce.Do(func() {
		var errs []error
		if c.source != nil {
			errs = append(errs, c.source.Close())
		}
		if c.locator != nil {
			errs = append(errs, c.locator.Close())
		}
		if c.surface != nil {
			errs = append(errs, c.surface.Close())
		}
		c.closeErr = errors.Join(errs...)
		if c.closeErr != nil {
			c.logger.Warn("error releasing resources", "error", c.closeErr)
		}
	})
	return c.closeErr
}
