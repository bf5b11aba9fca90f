package verification

import (
	"context"
	"testing"
)

func TestFlowHappyPath(t *testing.T) {
	ctx := context.Background()
	f := NewFlow(nil)

	if !f.Start() {
		t.Fatalf("start from idle should apply")
	}
	if f.Step() != StepIDCard {
		t.Fatalf("expected id card step, got %v", f.Step())
	}

	if !f.Upload(ctx, SlotFront) || !f.Upload(ctx, SlotBack) {
		t.Fatalf("id card uploads should be accepted")
	}
	if !f.Next() {
		t.Fatalf("next with both sides uploaded should apply")
	}
	if f.Step() != StepSelfie {
		t.Fatalf("expected selfie step, got %v", f.Step())
	}

	if !f.Upload(ctx, SlotSelfie) {
		t.Fatalf("selfie upload should be accepted")
	}
	if !f.Next() {
		t.Fatalf("next with selfie uploaded should apply")
	}
	if f.Step() != StepWaiting {
		t.Fatalf("expected waiting step, got %v", f.Step())
	}

	if !f.Submit(ctx) {
		t.Fatalf("submit from waiting should apply")
	}
	if f.Step() != StepComplete {
		t.Fatalf("expected complete step, got %v", f.Step())
	}

	if !f.ReturnHome() {
		t.Fatalf("return home from complete should apply")
	}
	if f.Step() != StepIdle {
		t.Fatalf("expected idle step, got %v", f.Step())
	}
}

func TestNextIsBlockedUntilUploadsComplete(t *testing.T) {
	ctx := context.Background()
	f := NewFlow(nil)
	f.Start()

	if f.Next() {
		t.Fatalf("next without uploads must not apply")
	}
	f.Upload(ctx, SlotFront)
	if f.Next() {
		t.Fatalf("next with only the front side must not apply")
	}
	if f.Step() != StepIDCard {
		t.Fatalf("blocked next changed state to %v", f.Step())
	}

	f.Upload(ctx, SlotBack)
	f.Next()
	if f.Next() {
		t.Fatalf("next without a selfie must not apply")
	}
	if f.Step() != StepSelfie {
		t.Fatalf("blocked next changed state to %v", f.Step())
	}
}

// No sequence of Back/Next events may reach Selfie without both card sides or
// Waiting without the selfie flag.
func TestBackNextSequencesRespectGuards(t *testing.T) {
	ctx := context.Background()
	f := NewFlow(nil)
	f.Start()
	f.Upload(ctx, SlotFront)
	f.Upload(ctx, SlotBack)
	f.Next()
	f.Upload(ctx, SlotSelfie)
	f.Next()

	events := []func() bool{f.Back, f.Next, f.Back, f.Back, f.Next, f.Next, f.Back, f.Next}
	for i, ev := range events {
		ev()
		u := f.Uploads()
		if f.Step() == StepSelfie && !(u.Front && u.Back) {
			t.Fatalf("event %d: reached selfie without both card sides", i)
		}
		if f.Step() == StepWaiting && !u.Selfie {
			t.Fatalf("event %d: reached waiting without a selfie", i)
		}
	}
}

func TestUploadIsIdempotent(t *testing.T) {
	ctx := context.Background()
	f := NewFlow(nil)
	f.Start()

	f.Upload(ctx, SlotFront)
	if !f.Upload(ctx, SlotFront) {
		t.Fatalf("re-upload should be an accepted no-op")
	}
	u := f.Uploads()
	if !u.Front || u.Back || u.Selfie {
		t.Fatalf("unexpected flags after re-upload: %+v", u)
	}
}

func TestUploadRequiresMatchingStep(t *testing.T) {
	ctx := context.Background()
	f := NewFlow(nil)

	if f.Upload(ctx, SlotFront) {
		t.Fatalf("upload while idle must not apply")
	}
	f.Start()
	if f.Upload(ctx, SlotSelfie) {
		t.Fatalf("selfie upload on the id card step must not apply")
	}
}

func TestStartClearsStaleFlags(t *testing.T) {
	ctx := context.Background()
	f := NewFlow(nil)
	f.Start()
	f.Upload(ctx, SlotFront)
	f.Upload(ctx, SlotBack)
	f.Back() // abandon

	f.Start()
	u := f.Uploads()
	if u.Front || u.Back || u.Selfie {
		t.Fatalf("restart must clear flags from the abandoned run: %+v", u)
	}
	if f.Next() {
		t.Fatalf("next after restart must be blocked again")
	}
}

type rejectingService struct{}

func (rejectingService) Accept(context.Context, Slot) (bool, error) { return false, nil }
func (rejectingService) Review(context.Context, Uploads) error      { return nil }

func TestRejectedUploadLeavesFlagUnset(t *testing.T) {
	ctx := context.Background()
	f := NewFlow(rejectingService{})
	f.Start()

	if f.Upload(ctx, SlotFront) {
		t.Fatalf("rejected upload should not report applied")
	}
	if f.Uploads().Front {
		t.Fatalf("rejected upload must not set the flag")
	}
}
