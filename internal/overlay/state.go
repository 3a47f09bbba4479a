package overlay

import (
	"time"

	"codeberg.org/snonux/readitfortheplot/internal/model"
)

// Phase is the overlay phase of one image
type Phase string

const (
	PhaseIdle       Phase = "idle"
	PhaseLoading    Phase = "loading"
	PhaseTranslated Phase = "translated"
	PhaseHidden     Phase = "hidden"
	PhaseError      Phase = "error"
)

// CooldownDelay is how long an image stays in the error phase
const CooldownDelay = 3 * time.Second

// State is the overlay state of one image
type State struct {
	ImageID    string
	Phase      Phase
	HasOverlay bool
	Result     *model.TranslationResult
	Error      string
	Geometry   Geometry
	// Attempt counts entries into loading; a cooldown from an older attempt
	// is ignored
	Attempt int
}

// Event is something that happened to an image
type Event interface{ isEvent() }

// Trigger is the user asking for a translation
type Trigger struct{}

// PipelineDone carries the pipeline's answer
type PipelineDone struct{ Result model.TranslationResult }

// Toggle flips between translation and original
type Toggle struct{}

// CooldownElapsed ends the error phase started by Attempt
type CooldownElapsed struct{ Attempt int }

// ViewportChanged carries the image's new on-screen geometry
type ViewportChanged struct{ Geometry Geometry }

func (Trigger) isEvent()         {}
func (PipelineDone) isEvent()    {}
func (Toggle) isEvent()          {}
func (CooldownElapsed) isEvent() {}
func (ViewportChanged) isEvent() {}

// Effect is work the controller performs after a transition
type Effect interface{ isEffect() }

type (
	RunPipeline   struct{}
	SetControl    struct{ Enabled bool }
	CreateOverlay struct {
		Result   model.TranslationResult
		Geometry Geometry
	}
	ShowOverlay      struct{}
	HideOverlay      struct{}
	Reposition       struct{ Geometry Geometry }
	Notify           struct{ Message string }
	ScheduleCooldown struct {
		Delay   time.Duration
		Attempt int
	}
)

func (RunPipeline) isEffect()      {}
func (SetControl) isEffect()       {}
func (CreateOverlay) isEffect()    {}
func (ShowOverlay) isEffect()      {}
func (HideOverlay) isEffect()      {}
func (Reposition) isEffect()       {}
func (Notify) isEffect()           {}
func (ScheduleCooldown) isEffect() {}

// Transition returns the state after ev and the effects to perform.
// Events that do not apply to the current phase leave the state unchanged
// and produce no effects.
func Transition(s State, ev Event) (State, []Effect) {
	switch e := ev.(type) {
	case Trigger:
		if s.Phase != PhaseIdle && s.Phase != PhaseError {
			return s, nil
		}
		s.Phase = PhaseLoading
		s.Error = ""
		s.Attempt++
		return s, []Effect{SetControl{Enabled: false}, RunPipeline{}}

	case PipelineDone:
		if s.Phase != PhaseLoading {
			return s, nil
		}
		if e.Result.Success {
			result := e.Result
			s.Phase = PhaseTranslated
			s.Result = &result
			s.HasOverlay = true
			return s, []Effect{
				CreateOverlay{Result: result, Geometry: s.Geometry},
				SetControl{Enabled: true},
			}
		}
		s.Phase = PhaseError
		s.Error = e.Result.Error
		return s, []Effect{
			Notify{Message: e.Result.Error},
			ScheduleCooldown{Delay: CooldownDelay, Attempt: s.Attempt},
		}

	case Toggle:
		switch s.Phase {
		case PhaseTranslated:
			s.Phase = PhaseHidden
			return s, []Effect{HideOverlay{}}
		case PhaseHidden:
			s.Phase = PhaseTranslated
			return s, []Effect{ShowOverlay{}}
		}
		return s, nil

	case CooldownElapsed:
		if s.Phase != PhaseError || e.Attempt != s.Attempt {
			return s, nil
		}
		s.Phase = PhaseIdle
		return s, []Effect{SetControl{Enabled: true}}

	case ViewportChanged:
		s.Geometry = e.Geometry
		if !s.HasOverlay {
			return s, nil
		}
		return s, []Effect{Reposition{Geometry: e.Geometry}}
	}

	return s, nil
}
