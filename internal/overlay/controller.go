package overlay

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"codeberg.org/snonux/readitfortheplot/internal/model"
)

// Element is an image on the page
type Element interface {
	// Key identifies the element itself; two scans of the same element
	// return the same key
	Key() string
	// Reference is the image URL used for caching
	Reference() string
	// Geometry is the current on-screen geometry
	Geometry() Geometry
}

// PipelineFunc translates one element
type PipelineFunc func(ctx context.Context, el Element) model.TranslationResult

// Renderer draws overlays and controls. Its methods are called with the
// controller lock held and must not call back into the Controller.
type Renderer interface {
	Create(id string, placements []Placement) error
	Show(id string)
	Hide(id string)
	Position(id string, placements []Placement)
	Destroy(id string)
	Notify(id string, message string)
	SetControl(id string, enabled bool)
}

type entry struct {
	el       Element
	state    State
	rendered bool
	// done is closed when the current loading phase ends
	done chan struct{}
}

// Options configures a Controller
type Options struct {
	ShowButtons bool
	Logger      *zap.Logger
	// AfterFunc schedules f after d; defaults to time.AfterFunc
	AfterFunc func(d time.Duration, f func())
	// Context is passed to pipeline runs
	Context context.Context
}

// Controller owns the overlay state of every tracked image
type Controller struct {
	mu       sync.Mutex
	entries  map[string]*entry
	byKey    map[string]string
	order    []string
	pipeline PipelineFunc
	renderer Renderer
	opts     Options
	logger   *zap.Logger
}

// NewController creates a controller
func NewController(pipeline PipelineFunc, renderer Renderer, opts Options) *Controller {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.AfterFunc == nil {
		opts.AfterFunc = func(d time.Duration, f func()) { time.AfterFunc(d, f) }
	}
	if opts.Context == nil {
		opts.Context = context.Background()
	}

	return &Controller{
		entries:  make(map[string]*entry),
		byKey:    make(map[string]string),
		pipeline: pipeline,
		renderer: renderer,
		opts:     opts,
		logger:   opts.Logger,
	}
}

// Scan registers elements not seen before and returns their new IDs.
// Elements already tracked and elements below MinImageSize are skipped.
func (c *Controller) Scan(elements []Element) []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	var added []string
	for _, el := range elements {
		if _, known := c.byKey[el.Key()]; known {
			continue
		}
		g := el.Geometry()
		if !g.Qualifies() {
			continue
		}

		id := uuid.NewString()
		c.byKey[el.Key()] = id
		c.entries[id] = &entry{
			el: el,
			state: State{
				ImageID:  id,
				Phase:    PhaseIdle,
				Geometry: g,
			},
		}
		c.order = append(c.order, id)
		added = append(added, id)

		if c.opts.ShowButtons {
			c.renderer.SetControl(id, true)
		}
		c.logger.Debug("Tracking image", zap.String("id", id), zap.String("image", el.Reference()))
	}
	return added
}

// IDOf returns the ID assigned to el
func (c *Controller) IDOf(el Element) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	id, ok := c.byKey[el.Key()]
	return id, ok
}

// Trigger starts a translation of id
func (c *Controller) Trigger(id string) error {
	return c.dispatch(id, Trigger{})
}

// Toggle switches id between translation and original
func (c *Controller) Toggle(id string) error {
	return c.dispatch(id, Toggle{})
}

// ViewportChanged re-reads every element's geometry and repositions
// existing overlays
func (c *Controller) ViewportChanged() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, id := range c.order {
		e := c.entries[id]
		c.apply(id, e, ViewportChanged{Geometry: e.el.Geometry()})
	}
}

// Remove stops tracking id and destroys its overlay
func (c *Controller) Remove(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[id]
	if !ok {
		return
	}
	if e.rendered {
		c.renderer.Destroy(id)
	}
	if e.done != nil {
		close(e.done)
	}
	delete(c.entries, id)
	delete(c.byKey, e.el.Key())
	for i, o := range c.order {
		if o == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}

// State returns a snapshot of id's state
func (c *Controller) State(id string) (State, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[id]
	if !ok {
		return State{}, false
	}
	return e.state, true
}

// Wait blocks until id is not loading or ctx is done
func (c *Controller) Wait(ctx context.Context, id string) (State, error) {
	c.mu.Lock()
	e, ok := c.entries[id]
	if !ok {
		c.mu.Unlock()
		return State{}, fmt.Errorf("unknown image: %s", id)
	}
	done := e.done
	c.mu.Unlock()

	if done != nil {
		select {
		case <-done:
		case <-ctx.Done():
			return State{}, ctx.Err()
		}
	}

	st, ok := c.State(id)
	if !ok {
		return State{}, fmt.Errorf("image removed: %s", id)
	}
	return st, nil
}

func (c *Controller) dispatch(id string, ev Event) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[id]
	if !ok {
		return fmt.Errorf("unknown image: %s", id)
	}
	if _, done := ev.(PipelineDone); done {
		// The image may have moved while the pipeline ran
		e.state.Geometry = e.el.Geometry()
	}
	c.apply(id, e, ev)
	return nil
}

// apply runs one transition and its effects; callers hold c.mu
func (c *Controller) apply(id string, e *entry, ev Event) {
	before := e.state.Phase
	next, effects := Transition(e.state, ev)
	e.state = next

	if before != PhaseLoading && next.Phase == PhaseLoading {
		e.done = make(chan struct{})
	}
	if before == PhaseLoading && next.Phase != PhaseLoading && e.done != nil {
		close(e.done)
		e.done = nil
	}

	for _, eff := range effects {
		c.perform(id, e, eff)
	}
}

func (c *Controller) perform(id string, e *entry, eff Effect) {
	switch f := eff.(type) {
	case RunPipeline:
		el := e.el
		go func() {
			result := c.pipeline(c.opts.Context, el)
			c.dispatch(id, PipelineDone{Result: result})
		}()

	case SetControl:
		if c.opts.ShowButtons {
			c.renderer.SetControl(id, f.Enabled)
		}

	case CreateOverlay:
		if e.rendered {
			c.renderer.Destroy(id)
			e.rendered = false
		}
		if err := c.renderer.Create(id, Layout(f.Result, f.Geometry)); err != nil {
			c.logger.Warn("Failed to create overlay", zap.String("id", id), zap.Error(err))
			c.renderer.Notify(id, err.Error())
			return
		}
		e.rendered = true

	case ShowOverlay:
		if e.rendered {
			c.renderer.Show(id)
		}

	case HideOverlay:
		if e.rendered {
			c.renderer.Hide(id)
		}

	case Reposition:
		if e.rendered && e.state.Result != nil {
			c.renderer.Position(id, Layout(*e.state.Result, f.Geometry))
		}

	case Notify:
		c.renderer.Notify(id, f.Message)

	case ScheduleCooldown:
		attempt := f.Attempt
		c.opts.AfterFunc(f.Delay, func() {
			// The image may have been removed meanwhile
			_ = c.dispatch(id, CooldownElapsed{Attempt: attempt})
		})
	}
}
