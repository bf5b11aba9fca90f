// Package verification implements the identity-verification flow nested in
// the home screen: ID card uploads, selfie upload, a waiting screen, then
// completion. Guarded transitions are enforced here, not in presentation.
package verification

import "context"

// Step identifies the active verification screen. Idle means the flow is not
// running.
type Step int

const (
	StepIdle Step = iota
	StepIDCard
	StepSelfie
	StepWaiting
	StepComplete
)

// String returns the wire name of the step.
func (s Step) String() string {
	switch s {
	case StepIdle:
		return "idle"
	case StepIDCard:
		return "id_card"
	case StepSelfie:
		return "selfie"
	case StepWaiting:
		return "waiting"
	case StepComplete:
		return "complete"
	default:
		return "unknown"
	}
}

// Flow is the verification state machine. Upload flags are payload of the
// IdCard and Selfie steps and are cleared on every Start, so stale flags from
// an abandoned run can never satisfy a guard. Not safe for concurrent use; the
// owning session serializes events.
type Flow struct {
	step    Step
	front   bool
	back    bool
	selfie  bool
	service Service
}

// NewFlow builds an idle verification flow backed by the given collaborator.
func NewFlow(service Service) *Flow {
	return &Flow{step: StepIdle, service: service}
}

// Step returns the active step.
func (f *Flow) Step() Step { return f.step }

// Uploads returns the current upload flags.
func (f *Flow) Uploads() Uploads {
	return Uploads{Front: f.front, Back: f.back, Selfie: f.selfie}
}

// Start begins verification from idle, clearing all upload flags.
func (f *Flow) Start() bool {
	if f.step != StepIdle {
		return false
	}
	f.step = StepIDCard
	f.front, f.back, f.selfie = false, false, false
	return true
}

// Upload submits a capture for the slot matching the current step. Re-upload
// of an already-accepted slot is an idempotent no-op that still reports
// applied. A rejected or failed submission leaves the flag untouched.
func (f *Flow) Upload(ctx context.Context, slot Slot) bool {
	switch {
	case f.step == StepIDCard && (slot == SlotFront || slot == SlotBack):
	case f.step == StepSelfie && slot == SlotSelfie:
	default:
		return false
	}

	accepted := true
	if f.service != nil {
		ok, err := f.service.Accept(ctx, slot)
		accepted = ok && err == nil
	}
	if !accepted {
		return false
	}

	switch slot {
	case SlotFront:
		f.front = true
	case SlotBack:
		f.back = true
	case SlotSelfie:
		f.selfie = true
	}
	return true
}

// Next advances IdCard to Selfie or Selfie to Waiting. Blocked until the
// step's uploads are complete; a blocked Next changes nothing.
func (f *Flow) Next() bool {
	switch f.step {
	case StepIDCard:
		if !(f.front && f.back) {
			return false
		}
		f.step = StepSelfie
		return true
	case StepSelfie:
		if !f.selfie {
			return false
		}
		f.step = StepWaiting
		return true
	default:
		return false
	}
}

// Back navigates one step toward idle. From IdCard the flow is abandoned.
func (f *Flow) Back() bool {
	switch f.step {
	case StepIDCard:
		f.step = StepIdle
		return true
	case StepSelfie:
		f.step = StepIDCard
		return true
	case StepWaiting:
		f.step = StepSelfie
		return true
	default:
		return false
	}
}

// Submit hands the upload set to review. The external review is modeled as
// immediately resolved, so the flow lands on Complete in the same transition.
func (f *Flow) Submit(ctx context.Context) bool {
	if f.step != StepWaiting {
		return false
	}
	if f.service != nil {
		_ = f.service.Review(ctx, f.Uploads())
	}
	f.step = StepComplete
	return true
}

// ReturnHome resets the flow to idle from the completion screen. The caller
// (the session) marks itself verified when this applies.
func (f *Flow) ReturnHome() bool {
	if f.step != StepComplete {
		return false
	}
	f.step = StepIdle
	return true
}
