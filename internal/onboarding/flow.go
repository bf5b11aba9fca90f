// Package onboarding implements the top-level sign-up flow: welcome screen,
// phone entry, OTP entry, account-created screen, then home. It owns the OTP
// countdown, which runs only while the flow sits on the OTP stage.
package onboarding

import (
	"fmt"
	"time"

	"github.com/ubique-pay/ubique_pay/internal/rules"
	"github.com/ubique-pay/ubique_pay/internal/schedule"
)

// Stage identifies the active onboarding screen.
type Stage int

const (
	StageWelcome Stage = iota
	StagePhoneEntry
	StageOtpEntry
	StageAccountCreated
	StageHome
)

// String returns the wire name of the stage.
func (s Stage) String() string {
	switch s {
	case StageWelcome:
		return "welcome"
	case StagePhoneEntry:
		return "phone"
	case StageOtpEntry:
		return "otp"
	case StageAccountCreated:
		return "account_created"
	case StageHome:
		return "home"
	default:
		return "unknown"
	}
}

// OtpLength is the number of single-character OTP slots.
const OtpLength = 4

// Flow is the onboarding state machine. It is not safe for concurrent use; the
// owning session serializes events, and the tick callback re-enters through
// the session's run executor before touching state.
type Flow struct {
	stage     Stage
	phone     string
	otp       [OtpLength]string
	ttl       int
	remaining int

	sched *schedule.Scheduler
	run   func(func())
}

// NewFlow builds an onboarding flow on the welcome stage. ttl is the OTP
// countdown start value in seconds. run executes a function under the owning
// session's lock; scheduled ticks use it to re-enter safely.
func NewFlow(clock schedule.Clock, ttl int, run func(func())) *Flow {
	return &Flow{
		stage: StageWelcome,
		ttl:   ttl,
		sched: schedule.NewScheduler(clock),
		run:   run,
	}
}

// Stage returns the active stage.
func (f *Flow) Stage() Stage { return f.stage }

// Phone returns the digit-filtered phone input.
func (f *Flow) Phone() string { return f.phone }

// Otp returns the current OTP slots.
func (f *Flow) Otp() []string {
	out := make([]string, OtpLength)
	copy(out, f.otp[:])
	return out
}

// Remaining returns the OTP countdown value in seconds.
func (f *Flow) Remaining() int { return f.remaining }

// FormatRemaining renders the countdown as minutes:seconds with the seconds
// zero-padded to two digits, e.g. "5:00" or "0:07".
func (f *Flow) FormatRemaining() string {
	return fmt.Sprintf("%d:%02d", f.remaining/60, f.remaining%60)
}

// Start advances Welcome to PhoneEntry, or AccountCreated to Home.
func (f *Flow) Start() bool {
	switch f.stage {
	case StageWelcome:
		f.stage = StagePhoneEntry
		return true
	case StageAccountCreated:
		f.stage = StageHome
		return true
	default:
		return false
	}
}

// Back navigates PhoneEntry to Welcome, or OtpEntry to PhoneEntry. Leaving the
// OTP stage cancels the countdown.
func (f *Flow) Back() bool {
	switch f.stage {
	case StagePhoneEntry:
		f.stage = StageWelcome
		return true
	case StageOtpEntry:
		f.stage = StagePhoneEntry
		f.sched.Stop()
		return true
	default:
		return false
	}
}

// SendCode moves PhoneEntry to OtpEntry and starts the countdown at its full
// TTL. The phone value is not validated beyond digit filtering.
func (f *Flow) SendCode() bool {
	if f.stage != StagePhoneEntry {
		return false
	}
	f.stage = StageOtpEntry
	f.remaining = f.ttl
	f.armTick()
	return true
}

// CreateAccount moves OtpEntry to AccountCreated and cancels the countdown.
// The entered code is never checked against an issued one.
func (f *Flow) CreateAccount() bool {
	if f.stage != StageOtpEntry {
		return false
	}
	f.stage = StageAccountCreated
	f.sched.Stop()
	return true
}

// SetPhone replaces the phone input, stripping non-digit characters.
func (f *Flow) SetPhone(raw string) {
	f.phone = rules.Digits(raw)
}

// SetOtpDigit writes one OTP slot. Multi-character input truncates to the last
// character; an out-of-range index is ignored.
func (f *Flow) SetOtpDigit(index int, value string) bool {
	if index < 0 || index >= OtpLength {
		return false
	}
	runes := []rune(value)
	if len(runes) > 1 {
		runes = runes[len(runes)-1:]
	}
	f.otp[index] = string(runes)
	return true
}

// OtpComplete reports whether every slot holds a character. Advancing past the
// OTP stage does not require this; presentation reads it.
func (f *Flow) OtpComplete() bool {
	return rules.OtpComplete(f.otp[:])
}

// Close cancels any pending tick. Called on session teardown.
func (f *Flow) Close() {
	f.sched.Stop()
}

func (f *Flow) armTick() {
	f.sched.After(time.Second, func(token uint64) {
		f.run(func() { f.tick(token) })
	})
}

// tick runs under the session lock. A stale token or a stage change since
// scheduling makes it a no-op.
func (f *Flow) tick(token uint64) {
	if !f.sched.Claim(token) {
		return
	}
	if f.stage != StageOtpEntry {
		return
	}
	if f.remaining > 0 {
		f.remaining--
	}
	f.armTick()
}
