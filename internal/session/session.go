// Package session composes the three flows behind one lock and carries the
// cross-flow state: verified status, display profile, transfer-limit tier,
// and the verification-prompt visibility.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/ubique-pay/ubique_pay/internal/ledger"
	"github.com/ubique-pay/ubique_pay/internal/onboarding"
	"github.com/ubique-pay/ubique_pay/internal/schedule"
	"github.com/ubique-pay/ubique_pay/internal/transfer"
	"github.com/ubique-pay/ubique_pay/internal/verification"
)

const (
	defaultProfileName  = "Diana Rossel"
	defaultProfilePhone = "+1 345 678 901"

	transferLimitBasicUSD    = 250
	transferLimitVerifiedUSD = 5000
)

// Config carries the timing constants for one session's scheduled effects.
type Config struct {
	OtpTTLSeconds  int
	PromptDelay    time.Duration
	AuthorizeDelay time.Duration
	SettleDelay    time.Duration
}

// Session owns one user's onboarding, verification, and transfer flows. Every
// transition, including scheduled ones, runs to completion under one mutex, so
// no two transitions ever interleave.
type Session struct {
	mu     sync.Mutex
	id     string
	closed bool

	onboarding   *onboarding.Flow
	verification *verification.Flow
	transfer     *transfer.Flow

	ledger ledger.Ledger

	promptSched      *schedule.Scheduler
	promptDelay      time.Duration
	promptVisible    bool
	promptSuppressed bool
	verified         bool
}

// New builds a session on the welcome stage.
func New(id string, clock schedule.Clock, cfg Config, led ledger.Ledger, verifier verification.Service, processor transfer.Processor) *Session {
	s := &Session{
		id:          id,
		ledger:      led,
		promptSched: schedule.NewScheduler(clock),
		promptDelay: cfg.PromptDelay,
	}
	run := s.runLocked
	s.onboarding = onboarding.NewFlow(clock, cfg.OtpTTLSeconds, run)
	s.verification = verification.NewFlow(verifier)
	s.transfer = transfer.NewFlow(id, clock, transfer.Config{
		AuthorizeDelay: cfg.AuthorizeDelay,
		SettleDelay:    cfg.SettleDelay,
	}, led, processor, run)
	return s
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// runLocked executes fn under the session lock. Scheduled callbacks re-enter
// through it; a closed session drops them.
func (s *Session) runLocked(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	fn()
}

// Close tears the session down, cancelling every pending scheduled effect.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.promptSched.Stop()
	s.onboarding.Close()
	s.transfer.Shutdown()
}

// OnboardingStart advances the welcome or account-created screen. Landing on
// home arms the one-shot verification prompt.
func (s *Session) OnboardingStart() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	applied := s.onboarding.Start()
	if applied && s.onboarding.Stage() == onboarding.StageHome {
		s.armPrompt()
	}
	return applied
}

// OnboardingBack navigates one onboarding screen back.
func (s *Session) OnboardingBack() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.onboarding.Back()
}

// SendCode requests the OTP and starts its countdown.
func (s *Session) SendCode() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.onboarding.SendCode()
}

// CreateAccount finishes the OTP screen.
func (s *Session) CreateAccount() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.onboarding.CreateAccount()
}

// SetPhone updates the phone input, digit-filtered.
func (s *Session) SetPhone(raw string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onboarding.SetPhone(raw)
}

// SetOtpDigit writes one OTP slot.
func (s *Session) SetOtpDigit(index int, value string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.onboarding.SetOtpDigit(index, value)
}

// StartVerification begins the verification flow. Leaving idle for the first
// time suppresses the prompt for the rest of the session.
func (s *Session) StartVerification(ctx context.Context) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.onboarding.Stage() != onboarding.StageHome {
		return false
	}
	applied := s.verification.Start()
	if applied {
		s.suppressPrompt()
	}
	return applied
}

// VerificationUpload submits a capture for the given slot.
func (s *Session) VerificationUpload(ctx context.Context, slot verification.Slot) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.verification.Upload(ctx, slot)
}

// VerificationNext advances the verification flow past a completed step.
func (s *Session) VerificationNext() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.verification.Next()
}

// VerificationBack navigates the verification flow one step back.
func (s *Session) VerificationBack() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.verification.Back()
}

// VerificationSubmit hands the uploads to review.
func (s *Session) VerificationSubmit(ctx context.Context) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.verification.Submit(ctx)
}

// VerificationReturnHome leaves the completion screen. This is the only
// transition that sets the verified flag; it is never reset afterwards.
func (s *Session) VerificationReturnHome() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	applied := s.verification.ReturnHome()
	if applied {
		s.verified = true
		s.suppressPrompt()
	}
	return applied
}

// TransferOpen opens the send-money modal.
func (s *Session) TransferOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.onboarding.Stage() != onboarding.StageHome {
		return false
	}
	return s.transfer.Open()
}

// TransferClose cancels the transfer from the recipient screen.
func (s *Session) TransferClose() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.transfer.Close()
}

// SetTransferRecipient updates the recipient input.
func (s *Session) SetTransferRecipient(raw string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.transfer.SetRecipient(raw)
}

// SetTransferAmount updates the amount input.
func (s *Session) SetTransferAmount(raw string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.transfer.SetAmount(raw)
}

// TransferNext advances the transfer flow past a gated step.
func (s *Session) TransferNext() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.transfer.Next()
}

// TransferBack navigates the transfer flow one step back.
func (s *Session) TransferBack() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.transfer.Back()
}

// TransferSelect records a payment method, starting the simulated gateway legs
// for Google Pay.
func (s *Session) TransferSelect(m transfer.Method) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.transfer.Select(m)
}

// TransferComplete commits the finished transfer into the ledger.
func (s *Session) TransferComplete() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.transfer.GoHome()
}

// Transactions returns the session's ledger snapshot, newest first.
func (s *Session) Transactions(ctx context.Context) ([]ledger.TransactionRecord, error) {
	return s.ledger.List(ctx, s.id)
}

// armPrompt schedules the one-shot verification prompt for the home screen.
func (s *Session) armPrompt() {
	s.promptSched.After(s.promptDelay, func(token uint64) {
		s.runLocked(func() { s.showPrompt(token) })
	})
}

func (s *Session) showPrompt(token uint64) {
	if !s.promptSched.Claim(token) {
		return
	}
	if s.onboarding.Stage() != onboarding.StageHome {
		return
	}
	if s.promptSuppressed || s.verified || s.verification.Step() != verification.StepIdle {
		return
	}
	s.promptVisible = true
}

// suppressPrompt hides the prompt permanently and cancels a pending delay.
func (s *Session) suppressPrompt() {
	s.promptVisible = false
	s.promptSuppressed = true
	s.promptSched.Stop()
}
