// Package transfer implements the send-money flow nested in the home screen:
// recipient entry, amount entry, wallet selection, simulated processing, then
// a success screen whose exit commits the transfer into the ledger.
package transfer

import (
	"context"
	"strconv"
	"time"

	"github.com/ubique-pay/ubique_pay/internal/ledger"
	"github.com/ubique-pay/ubique_pay/internal/rules"
	"github.com/ubique-pay/ubique_pay/internal/schedule"
)

// Step identifies the active transfer screen. Idle means the modal is closed.
type Step int

const (
	StepIdle Step = iota
	StepRecipient
	StepAmount
	StepWallet
	StepProcessing
	StepSuccess
)

// String returns the wire name of the step.
func (s Step) String() string {
	switch s {
	case StepIdle:
		return "idle"
	case StepRecipient:
		return "recipient"
	case StepAmount:
		return "amount"
	case StepWallet:
		return "wallet"
	case StepProcessing:
		return "processing"
	case StepSuccess:
		return "success"
	default:
		return "unknown"
	}
}

// Method is a selectable payment instrument.
type Method string

const (
	MethodNone      Method = ""
	MethodApplePay  Method = "apple_pay"
	MethodGooglePay Method = "google_pay"
	MethodCard      Method = "card"
)

// SourceCardSuffix is the fixed last-four shown on every committed record.
const SourceCardSuffix = "1436"

// Config carries the simulated gateway latencies.
type Config struct {
	AuthorizeDelay time.Duration
	SettleDelay    time.Duration
}

// Flow is the transfer state machine. Input fields are payload of their steps
// and are cleared on open, on close, and after a committed transfer, so a
// finished run can never be double-submitted. Not safe for concurrent use; the
// owning session serializes events, and scheduled legs re-enter through the
// run executor.
type Flow struct {
	sessionID string
	step      Step
	recipient string
	amount    string
	method    Method

	processing bool
	authRef    string
	lastID     int64

	cfg       Config
	clock     schedule.Clock
	sched     *schedule.Scheduler
	run       func(func())
	ledger    ledger.Ledger
	processor Processor
}

// NewFlow builds an idle transfer flow for the given session.
func NewFlow(sessionID string, clock schedule.Clock, cfg Config, led ledger.Ledger, processor Processor, run func(func())) *Flow {
	if processor == nil {
		processor = StaticProcessor{}
	}
	return &Flow{
		sessionID: sessionID,
		step:      StepIdle,
		cfg:       cfg,
		clock:     clock,
		sched:     schedule.NewScheduler(clock),
		run:       run,
		ledger:    led,
		processor: processor,
	}
}

// Step returns the active step.
func (f *Flow) Step() Step { return f.step }

// Recipient returns the raw recipient input.
func (f *Flow) Recipient() string { return f.recipient }

// Amount returns the raw amount input.
func (f *Flow) Amount() string { return f.amount }

// Method returns the selected payment method, if any.
func (f *Flow) Method() Method { return f.method }

// Processing reports whether the authorization leg is in flight.
func (f *Flow) Processing() bool { return f.processing }

// Open starts a transfer from idle with cleared fields.
func (f *Flow) Open() bool {
	if f.step != StepIdle {
		return false
	}
	f.step = StepRecipient
	f.clearFields()
	return true
}

// Close cancels the transfer from the recipient screen, clearing fields.
func (f *Flow) Close() bool {
	if f.step != StepRecipient {
		return false
	}
	f.reset()
	return true
}

// SetRecipient replaces the recipient input. Only valid on its own step.
func (f *Flow) SetRecipient(raw string) bool {
	if f.step != StepRecipient {
		return false
	}
	f.recipient = raw
	return true
}

// SetAmount replaces the amount input. Rejected input is never cleared here;
// the range guard lives on Next.
func (f *Flow) SetAmount(raw string) bool {
	if f.step != StepAmount {
		return false
	}
	f.amount = raw
	return true
}

// Next advances Recipient to Amount or Amount to Wallet. Each edge is gated by
// its validation rule; a blocked Next changes nothing and keeps the entered
// text.
func (f *Flow) Next() bool {
	switch f.step {
	case StepRecipient:
		if !rules.RecipientValid(f.recipient) {
			return false
		}
		f.step = StepAmount
		return true
	case StepAmount:
		if !rules.AmountInRange(f.amount) {
			return false
		}
		f.step = StepWallet
		return true
	default:
		return false
	}
}

// Back navigates Amount to Recipient or Wallet to Amount. Leaving the wallet
// screen cancels an in-flight authorization leg.
func (f *Flow) Back() bool {
	switch f.step {
	case StepAmount:
		f.step = StepRecipient
		return true
	case StepWallet:
		f.step = StepAmount
		f.processing = false
		f.sched.Stop()
		return true
	default:
		return false
	}
}

// Select records the chosen payment method. Google Pay starts the simulated
// authorization leg; the other methods have no completion path and stay on
// the wallet screen.
func (f *Flow) Select(m Method) bool {
	if f.step != StepWallet {
		return false
	}
	switch m {
	case MethodApplePay, MethodCard:
		f.method = m
		return true
	case MethodGooglePay:
		f.method = m
		f.processing = true
		f.armAuthorize()
		return true
	default:
		return false
	}
}

// GoHome commits the completed transfer: appends exactly one record to the
// ledger, then resets the flow to idle with cleared fields.
func (f *Flow) GoHome() bool {
	if f.step != StepSuccess {
		return false
	}
	if f.amount == "" || f.recipient == "" {
		f.reset()
		return true
	}

	now := f.clock.Now()
	rec := ledger.TransactionRecord{
		ID:         f.nextRecordID(now),
		Amount:     f.amount,
		Recipient:  f.recipient,
		Date:       now.Format("Jan 2, 2006"),
		CardSuffix: SourceCardSuffix,
	}
	_ = f.ledger.Append(context.Background(), f.sessionID, rec)

	f.reset()
	return true
}

// Shutdown cancels any pending leg. Called on session teardown.
func (f *Flow) Shutdown() {
	f.sched.Stop()
	f.processing = false
}

// nextRecordID derives a unique, monotonic identifier from the clock.
func (f *Flow) nextRecordID(now time.Time) string {
	ms := now.UnixMilli()
	if ms <= f.lastID {
		ms = f.lastID + 1
	}
	f.lastID = ms
	return strconv.FormatInt(ms, 10)
}

func (f *Flow) armAuthorize() {
	f.sched.After(f.cfg.AuthorizeDelay, func(token uint64) {
		f.run(func() { f.finishAuthorize(token) })
	})
}

// finishAuthorize runs under the session lock. A stale token or a step change
// since scheduling makes it a no-op.
func (f *Flow) finishAuthorize(token uint64) {
	if !f.sched.Claim(token) {
		return
	}
	if f.step != StepWallet || f.method != MethodGooglePay {
		return
	}
	auth, err := f.processor.Authorize(context.Background(), Payment{
		Recipient: f.recipient,
		Amount:    f.amount,
		Method:    f.method,
	})
	if err == nil && auth.Approved {
		f.authRef = auth.Reference
	}
	f.processing = false
	f.step = StepProcessing
	f.armSettle()
}

func (f *Flow) armSettle() {
	f.sched.After(f.cfg.SettleDelay, func(token uint64) {
		f.run(func() { f.finishSettle(token) })
	})
}

func (f *Flow) finishSettle(token uint64) {
	if !f.sched.Claim(token) {
		return
	}
	if f.step != StepProcessing {
		return
	}
	_ = f.processor.Settle(context.Background(), f.authRef)
	f.step = StepSuccess
}

func (f *Flow) reset() {
	f.step = StepIdle
	f.clearFields()
	f.sched.Stop()
}

func (f *Flow) clearFields() {
	f.recipient = ""
	f.amount = ""
	f.method = MethodNone
	f.processing = false
	f.authRef = ""
}
